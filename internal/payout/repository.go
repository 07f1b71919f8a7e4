package payout

import (
	"context"

	"github.com/KromaEnergia/teamsheet-api/internal/cobrand"
	"github.com/KromaEnergia/teamsheet-api/internal/gifttracker"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) query(ctx context.Context, year *int) *gorm.DB {
	q := r.DB.WithContext(ctx)
	if year != nil {
		q = q.Where("season_year = ?", *year)
	}
	return q
}

func (r *Repository) deleteByID(ctx context.Context, model interface{}, id uint) error {
	res := r.DB.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Tiers(ctx context.Context, year *int, activeOnly bool) ([]Tier, error) {
	q := r.query(ctx, year)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []Tier
	err := q.Order("min_amount_cents ASC").Order("id ASC").Find(&out).Error
	return out, err
}

func (r *Repository) FindTier(ctx context.Context, id uint) (*Tier, error) {
	var t Tier
	if err := r.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) SaveTier(ctx context.Context, t *Tier) error {
	return r.DB.WithContext(ctx).Save(t).Error
}

func (r *Repository) DeleteTier(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &Tier{}, id)
}

func (r *Repository) Rules(ctx context.Context, year *int, activeOnly bool) ([]Rule, error) {
	q := r.query(ctx, year)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []Rule
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *Repository) FindRule(ctx context.Context, id uint) (*Rule, error) {
	var rule Rule
	if err := r.DB.WithContext(ctx).First(&rule, id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *Repository) SaveRule(ctx context.Context, rule *Rule) error {
	return r.DB.WithContext(ctx).Save(rule).Error
}

func (r *Repository) DeleteRule(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &Rule{}, id)
}

func (r *Repository) Prizes(ctx context.Context, year *int) ([]Prize, error) {
	var out []Prize
	err := r.query(ctx, year).Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *Repository) FindPrize(ctx context.Context, id uint) (*Prize, error) {
	var p Prize
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) SavePrize(ctx context.Context, p *Prize) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

// DeletePrize removes the prize and every assignment of it.
func (r *Repository) DeletePrize(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prize_id = ?", id).Delete(&PrizeAssignment{}).Error; err != nil {
			return err
		}
		return (&Repository{DB: tx}).deleteByID(ctx, &Prize{}, id)
	})
}

func (r *Repository) Assignments(ctx context.Context, year *int) ([]PrizeAssignment, error) {
	var out []PrizeAssignment
	err := r.query(ctx, year).Preload("Prize").Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *Repository) CreateAssignment(ctx context.Context, a *PrizeAssignment) error {
	return r.DB.WithContext(ctx).Omit("Prize").Create(a).Error
}

func (r *Repository) Adjustments(ctx context.Context, year *int) ([]Adjustment, error) {
	var out []Adjustment
	err := r.query(ctx, year).Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *Repository) CreateAdjustment(ctx context.Context, a *Adjustment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// Inputs gathers a season's summary inputs. A nil year spans every season.
func (r *Repository) Inputs(ctx context.Context, year *int) (Inputs, error) {
	var in Inputs
	var err error
	if in.Gifts, err = gifttracker.NewRepository(r.DB).ForSeason(ctx, year); err != nil {
		return in, err
	}
	if in.Deals, err = cobrand.NewRepository(r.DB).ForSeason(ctx, year); err != nil {
		return in, err
	}
	if in.Tiers, err = r.Tiers(ctx, year, true); err != nil {
		return in, err
	}
	if in.Rules, err = r.Rules(ctx, year, true); err != nil {
		return in, err
	}
	if in.Assignments, err = r.Assignments(ctx, year); err != nil {
		return in, err
	}
	in.Adjustments, err = r.Adjustments(ctx, year)
	return in, err
}
