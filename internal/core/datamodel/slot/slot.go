package slot

import "time"

// StorageSlot is one named blob in the storage_slots table.
type StorageSlot struct {
	Key       string    `gorm:"column:slot_key;primaryKey;size:128"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (StorageSlot) TableName() string {
	return "storage_slots"
}
