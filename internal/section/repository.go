package section

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) List(ctx context.Context, active *bool) ([]Section, error) {
	q := r.DB.WithContext(ctx)
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	var out []Section
	err := q.Order("name ASC").Order("id ASC").Find(&out).Error
	return out, err
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*Section, error) {
	var s Section
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Create(ctx context.Context, s *Section) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *Repository) Save(ctx context.Context, s *Section) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *Repository) Deactivate(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&Section{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Labels maps section ids to labels for the given ids.
func (r *Repository) Labels(ctx context.Context, ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []Section
	if err := r.DB.WithContext(ctx).Select("id", "label").Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, s := range list {
		out[s.ID] = s.Label
	}
	return out, nil
}
