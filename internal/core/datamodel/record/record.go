package record

import "time"

// Record is one key of the durable key-value table.
type Record struct {
	Key       string    `gorm:"column:record_key;primaryKey;size:255"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "kv_records"
}
