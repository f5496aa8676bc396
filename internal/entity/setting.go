package entity

import "github.com/uptrace/bun"

// Setting is a string-keyed configuration row. Values are JSON-encoded
// scalars so numbers and strings share one column.
type Setting struct {
	bun.BaseModel `bun:"table:settings"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value"`
}

// Setting keys recognised by the order core.
const (
	SettingStoreNumber      = "store_number"
	SettingStoreNameZH      = "store_name_zh"
	SettingStoreNameEN      = "store_name_en"
	SettingDineInSequence   = "daily_dine_in_sequence"
	SettingTakeoutSequence  = "daily_takeout_sequence"
	SettingDailySequenceDay = "daily_sequence_date"
)
