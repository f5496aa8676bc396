package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/TongyunK/orderFood-system/internal/entity"
)

// LineWidth is the nominal line width of 80mm thermal stock in ASCII
// columns. All padding and truncation is computed against it.
const LineWidth = 48

// Item table column widths; the four sum to LineWidth.
const (
	colName     = 16
	colQuantity = 8
	colUnit     = 10
	colSubtotal = 14
)

// CurrencyMark prefixes every printed amount. Amounts are emitted as their
// literal decimal input; the renderer never rounds or reformats.
const CurrencyMark = "$"

const paymentLabelWidth = 12

// StoreMeta is the store identity printed in the ticket header.
type StoreMeta struct {
	NameZH string
	NameEN string
}

// PaymentMeta names the settlement channel, when the order references one.
type PaymentMeta struct {
	NameZH string
	NameEN string
}

// Line is one printable item row.
type Line struct {
	Name      string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

// Ticket is the full input to Render. Everything the layout needs, including
// the order's creation time, is passed in so rendering stays deterministic.
type Ticket struct {
	Code          string
	DailySequence int
	Kind          entity.OrderKind
	CreatedAt     time.Time
	TotalAmount   string
	Lines         []Line
	Store         StoreMeta
	Payment       *PaymentMeta

	// DefaultEncoding tags lines without CJK glyphs; CJK-bearing lines are
	// always tagged Big5 regardless.
	DefaultEncoding Encoding
}

func separator() Text {
	return Text{Content: strings.Repeat("-", LineWidth), Encoding: EncodingGBK, Align: AlignLeft, Scale: ScaleNormal}
}

// Render lays out the complete ticket as a print job.
func Render(t Ticket) Job {
	enc := func(s string) Encoding {
		if hasCJK(s) {
			return EncodingBig5
		}
		if t.DefaultEncoding != "" {
			return t.DefaultEncoding
		}
		return EncodingGBK
	}
	text := func(s string, align Alignment, scale Scale, bold bool) Text {
		return Text{Content: s, Encoding: enc(s), Align: align, Scale: scale, Bold: bold}
	}

	job := make(Job, 0, 16+len(t.Lines))

	// Header: store name, ticket-number caption, oversized short code.
	job = append(job,
		text(storeName(t.Store), AlignCenter, ScaleNormal, true),
		text("取餐號碼 Your Number", AlignCenter, ScaleSmall, false),
		text(shortCode(t.Kind, t.DailySequence), AlignCenter, ScaleQuad, true),
		Feed{Lines: 1},
		separator(),
	)

	// Order facts.
	job = append(job,
		text("店號: "+storeNumber(t.Code), AlignLeft, ScaleNormal, false),
		text(t.Kind.Label(), AlignLeft, ScaleNormal, false),
		text(Truncate("時間: "+t.CreatedAt.Format("2006-01-02 15:04:05"), LineWidth), AlignLeft, ScaleNormal, false),
		text(Truncate("單號: "+t.Code, LineWidth), AlignLeft, ScaleNormal, false),
		separator(),
	)

	// Item table header, once per encoding family.
	job = append(job,
		text(tableRow("品名", "數量", "單價", "小計"), AlignLeft, ScaleNormal, true),
		text(tableRow("Item", "Qty", "Price", "Amt"), AlignLeft, ScaleNormal, true),
	)

	totalQuantity := 0
	for _, line := range t.Lines {
		totalQuantity += line.Quantity
		job = append(job, text(itemRow(line), AlignLeft, ScaleNormal, false))
	}

	job = append(job,
		separator(),
		text(totalsRow(totalQuantity, t.TotalAmount), AlignLeft, ScaleNormal, false),
	)

	if t.Payment != nil {
		job = append(job,
			text(PadRight("付款方式", paymentLabelWidth)+t.Payment.NameZH, AlignLeft, ScaleNormal, false),
			text(PadRight("Payment", paymentLabelWidth)+t.Payment.NameEN, AlignLeft, ScaleNormal, false),
		)
	}

	// Emphasized payable block, set off by separators.
	job = append(job,
		separator(),
		text(justified("應付金額", CurrencyMark+t.TotalAmount), AlignLeft, ScaleDouble, true),
		separator(),
	)

	// Trailer.
	job = append(job,
		text("謝謝光臨 歡迎再次使用", AlignCenter, ScaleNormal, false),
		text("Thank you! Please come again", AlignCenter, ScaleNormal, false),
		Feed{Lines: 4},
		Cut{},
	)

	return job
}

func storeName(meta StoreMeta) string {
	switch {
	case meta.NameZH != "" && meta.NameEN != "":
		return meta.NameZH + " - " + meta.NameEN
	case meta.NameZH != "":
		return meta.NameZH
	default:
		return meta.NameEN
	}
}

// shortCode is the customer-facing number, e.g. "D0007". Sequences past
// 9999 widen the field silently.
func shortCode(kind entity.OrderKind, seq int) string {
	return fmt.Sprintf("%s%04d", kind.BusinessCode(), seq)
}

// storeNumber extracts the 3-digit store label embedded in the long code.
func storeNumber(code string) string {
	if len(code) < 4 {
		return code
	}
	return code[1:4]
}

func tableRow(name, qty, unit, subtotal string) string {
	return PadRight(name, colName) +
		PadLeft(qty, colQuantity) +
		PadLeft(unit, colUnit) +
		PadLeft(subtotal, colSubtotal)
}

func itemRow(line Line) string {
	return PadRight(Truncate(line.Name, colName), colName) +
		PadLeft(fmt.Sprintf("%d", line.Quantity), colQuantity) +
		PadLeft(line.UnitPrice, colUnit) +
		PadLeft(line.Subtotal, colSubtotal)
}

func totalsRow(quantity int, total string) string {
	return PadRight("合計", colName) +
		PadLeft(fmt.Sprintf("%d", quantity), colQuantity) +
		PadLeft("", colUnit) +
		PadLeft(CurrencyMark+total, colSubtotal)
}

// justified pushes label and value to opposite ends of the line with at
// least one space between them.
func justified(label, value string) string {
	gap := LineWidth - Width(label) - Width(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value
}
