package storepref

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) List(ctx context.Context, storeNumber string) ([]StorePreference, error) {
	q := r.DB.WithContext(ctx)
	if storeNumber != "" {
		q = q.Where("store_number = ?", storeNumber)
	}
	var out []StorePreference
	err := q.Order("store_number ASC").Find(&out).Error
	return out, err
}

func (r *Repository) FindByStoreNumber(ctx context.Context, storeNumber string) (*StorePreference, error) {
	var p StorePreference
	if err := r.DB.WithContext(ctx).Where("store_number = ?", storeNumber).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert replaces the schedule of an existing store or creates it.
func (r *Repository) Upsert(ctx context.Context, p *StorePreference) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing StorePreference
		err := tx.Where("store_number = ?", p.StoreNumber).First(&existing).Error
		switch {
		case err == nil:
			existing.DailySchedule = p.DailySchedule
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*p = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(p).Error
		default:
			return err
		}
	})
}
