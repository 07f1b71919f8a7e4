package inventory

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

// WithDB returns a copy bound to tx (nil keeps the current handle).
func (r *Repository) WithDB(tx *gorm.DB) *Repository {
	if tx == nil {
		tx = r.DB
	}
	return &Repository{DB: tx}
}

func (r *Repository) Ingredients(ctx context.Context, active *bool) ([]Ingredient, error) {
	q := r.DB.WithContext(ctx)
	if active != nil {
		q = q.Where("active = ?", *active)
	}
	var out []Ingredient
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *Repository) FindIngredient(ctx context.Context, id uint) (*Ingredient, error) {
	var i Ingredient
	if err := r.DB.WithContext(ctx).First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *Repository) CreateIngredient(ctx context.Context, i *Ingredient) error {
	return r.DB.WithContext(ctx).Create(i).Error
}

func (r *Repository) Recipes(ctx context.Context, menuItemID *uint) ([]RecipeItem, error) {
	q := r.DB.WithContext(ctx)
	if menuItemID != nil {
		q = q.Where("menu_item_id = ?", *menuItemID)
	}
	var out []RecipeItem
	err := q.Order("menu_item_id ASC").Order("id ASC").Find(&out).Error
	return out, err
}

func (r *Repository) CreateRecipe(ctx context.Context, ri *RecipeItem) error {
	return r.DB.WithContext(ctx).Create(ri).Error
}

func (r *Repository) CreateMovements(ctx context.Context, ms []StockMovement) error {
	if len(ms) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&ms).Error
}

// StockLevels sums every movement per ingredient, ordered by name.
func (r *Repository) StockLevels(ctx context.Context) ([]StockLevel, error) {
	var out []StockLevel
	err := r.DB.WithContext(ctx).
		Table("ingredients").
		Select("ingredients.id AS ingredient_id, ingredients.name, ingredients.unit, COALESCE(SUM(stock_movements.quantity_change), 0) AS quantity_on_hand").
		Joins("LEFT JOIN stock_movements ON stock_movements.ingredient_id = ingredients.id").
		Group("ingredients.id, ingredients.name, ingredients.unit").
		Order("ingredients.name ASC").
		Scan(&out).Error
	return out, err
}
