package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	slotDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/slot"
	"github.com/frahmantamala/expense-tracker/internal/slot"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotRepository implements slot.Store on top of GORM. It works on both the
// postgres and sqlite dialectors.
type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

var _ slot.Store = (*SlotRepository)(nil)

func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var row slotDatamodel.StorageSlot
	err := r.db.WithContext(ctx).Where("slot_key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, slot.ErrNotFound
		}
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	return []byte(row.Value), nil
}

// Put upserts the slot row in a single statement.
func (r *SlotRepository) Put(ctx context.Context, key string, value []byte) error {
	row := slotDatamodel.StorageSlot{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("put slot %s: %w", key, err)
	}
	return nil
}
