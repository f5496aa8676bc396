package entity

import "github.com/uptrace/bun"

// MenuItem is a sellable catalog entry with a bilingual display name.
// The order core only reads active items to validate and price order lines.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items"`

	ID     int64  `bun:",pk,autoincrement"`
	NameZH string `bun:"name_zh"`
	NameEN string `bun:"name_en"`
	Price  string `bun:"price,type:numeric"`
	Active bool   `bun:"active"`
}

// DisplayName prefers the Chinese name and falls back to the English one.
func (m *MenuItem) DisplayName() string {
	if m.NameZH != "" {
		return m.NameZH
	}
	return m.NameEN
}

// PaymentMethod is a settlement channel a kiosk order may reference.
type PaymentMethod struct {
	bun.BaseModel `bun:"table:payment_methods"`

	ID     int64  `bun:",pk,autoincrement"`
	NameZH string `bun:"name_zh"`
	NameEN string `bun:"name_en"`
	Active bool   `bun:"active"`
}
