package shift

import (
	"context"

	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

type Filter struct {
	Start, End *db.Date
	Period     Period
}

func (r *Repository) List(ctx context.Context, f Filter) ([]Shift, error) {
	q := r.DB.WithContext(ctx)
	if f.Start != nil {
		q = q.Where("date >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("date <= ?", *f.End)
	}
	if f.Period != "" {
		q = q.Where("time_period = ?", f.Period)
	}
	var out []Shift
	err := q.Order("date DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*Shift, error) {
	var s Shift
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Create(ctx context.Context, s *Shift) error {
	return r.DB.WithContext(ctx).Create(s).Error
}
