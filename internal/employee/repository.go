package employee

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

// WithDB returns a copy bound to tx (nil keeps the current handle).
func (r *Repository) WithDB(tx *gorm.DB) *Repository {
	if tx == nil {
		tx = r.DB
	}
	return &Repository{DB: tx}
}

type Filter struct {
	Role   Role
	Active *bool
	Search string
	SortBy string // "upsell_score", "employment_days" or empty
}

// List applies f. Score sorts are descending with nulls last; the default
// order is first name.
func (r *Repository) List(ctx context.Context, f Filter) ([]Employee, error) {
	q := r.DB.WithContext(ctx).Model(&Employee{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(COALESCE(nickname, '')) LIKE ?",
			pattern, pattern, pattern)
	}
	switch f.SortBy {
	case "upsell_score":
		q = q.Order("upsell_score IS NULL").Order("upsell_score DESC")
	case "employment_days":
		q = q.Order("employment_days IS NULL").Order("employment_days DESC")
	default:
		q = q.Order("first_name ASC")
	}
	var out []Employee
	err := q.Order("id ASC").Find(&out).Error
	return out, err
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*Employee, error) {
	var e Employee
	if err := r.DB.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Create(ctx context.Context, e *Employee) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *Repository) Save(ctx context.Context, e *Employee) error {
	return r.DB.WithContext(ctx).Save(e).Error
}

func (r *Repository) Deactivate(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&Employee{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByExactName matches first and last name as stored.
func (r *Repository) FindByExactName(ctx context.Context, first, last string) (*Employee, error) {
	var e Employee
	err := r.DB.WithContext(ctx).Where("first_name = ? AND last_name = ?", first, last).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByNameFold matches first and last name case-insensitively.
func (r *Repository) FindByNameFold(ctx context.Context, first, last string) (*Employee, error) {
	var e Employee
	err := r.DB.WithContext(ctx).
		Where("LOWER(first_name) = ? AND LOWER(last_name) = ?", strings.ToLower(first), strings.ToLower(last)).
		Order("id ASC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) FindByNicknameFold(ctx context.Context, nickname string) (*Employee, error) {
	var e Employee
	err := r.DB.WithContext(ctx).
		Where("LOWER(nickname) = ?", strings.ToLower(nickname)).
		Order("id ASC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) FindActive(ctx context.Context, id uint) (*Employee, error) {
	var e Employee
	if err := r.DB.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ActiveServers lists active SERVER employees by first name.
func (r *Repository) ActiveServers(ctx context.Context, search string, limit int) ([]Employee, error) {
	q := r.DB.WithContext(ctx).Where("role = ? AND active = ?", RoleServer, true)
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(COALESCE(nickname, '')) LIKE ?",
			pattern, pattern, pattern)
	}
	var out []Employee
	err := q.Order("first_name ASC").Order("id ASC").Limit(limit).Find(&out).Error
	return out, err
}

// ByIDs loads the given employees keyed by id. Unknown ids are absent.
func (r *Repository) ByIDs(ctx context.Context, ids []uint) (map[uint]Employee, error) {
	out := make(map[uint]Employee, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []Employee
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, e := range list {
		out[e.ID] = e
	}
	return out, nil
}
