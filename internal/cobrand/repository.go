package cobrand

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

var sortColumns = map[string]string{
	"company_name":       "company_name",
	"amount":             "amount_cents",
	"date_of_commission": "date_of_commission",
	"date_of_payment":    "date_of_payment",
	"date_of_pickup":     "date_of_pickup",
	"created_at":         "created_at",
}

type Filter struct {
	SeasonYear *int
	SortBy     string
	SortDir    string
}

// List sorts by a whitelisted column, created_at desc when unknown.
func (r *Repository) List(ctx context.Context, f Filter) ([]Deal, error) {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if f.SortDir != "" && !strings.EqualFold(f.SortDir, "desc") {
		dir = "ASC"
	}
	q := r.DB.WithContext(ctx).Preload("Seller")
	if f.SeasonYear != nil {
		q = q.Where("season_year = ?", *f.SeasonYear)
	}
	var out []Deal
	err := q.Order(col + " " + dir).Order("id " + dir).Find(&out).Error
	return out, err
}

// ForSeason loads every deal of a season (all seasons when year is nil) with its seller.
func (r *Repository) ForSeason(ctx context.Context, year *int) ([]Deal, error) {
	q := r.DB.WithContext(ctx).Preload("Seller")
	if year != nil {
		q = q.Where("season_year = ?", *year)
	}
	var out []Deal
	err := q.Order("id ASC").Find(&out).Error
	return out, err
}

func (r *Repository) Create(ctx context.Context, d *Deal) error {
	if err := r.DB.WithContext(ctx).Omit("Seller").Create(d).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Preload("Seller").First(d, d.ID).Error
}
