package auth

import (
	"context"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"gorm.io/gorm"
)

// Repository owns users and refresh tokens.
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

func (r *Repository) CreateUser(ctx context.Context, u *User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UserByID(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := r.DB.WithContext(ctx).Order("id asc").Find(&users).Error
	return users, err
}

func (r *Repository) SaveUser(ctx context.Context, u *User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *Repository) EmployeeExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&employee.Employee{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *Repository) CreateRefresh(ctx context.Context, t *RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *Repository) RefreshByHash(ctx context.Context, hash string) (*RefreshToken, error) {
	var t RefreshToken
	if err := r.DB.WithContext(ctx).Where("hash = ?", hash).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// RevokeRefresh marks one token revoked. It reports false when the token was
// already revoked, which lets concurrent refreshes lose cleanly.
func (r *Repository) RevokeRefresh(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) RevokeFamily(ctx context.Context, family string, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&RefreshToken{}).
		Where("family_id = ? AND revoked_at IS NULL", family).
		Update("revoked_at", at).Error
}
