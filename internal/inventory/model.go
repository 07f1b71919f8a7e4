package inventory

import "time"

const (
	ReasonReceive = "RECEIVE"
	ReasonAdjust  = "ADJUST"
	ReasonSale    = "SALE"
)

type Ingredient struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;uniqueIndex"`
	Unit      string `gorm:"size:50;not null"`
	Active    bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecipeItem is how much of one ingredient a single menu item consumes.
type RecipeItem struct {
	ID           uint    `gorm:"primaryKey"`
	MenuItemID   uint    `gorm:"not null;index"`
	IngredientID uint    `gorm:"not null;index"`
	Quantity     float64 `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockMovement is a signed change to an ingredient's on-hand quantity.
type StockMovement struct {
	ID             uint    `gorm:"primaryKey"`
	IngredientID   uint    `gorm:"not null;index"`
	QuantityChange float64 `gorm:"not null"`
	Reason         string  `gorm:"size:50;not null"`
	OrderItemID    *uint   `gorm:"index"`
	Notes          *string `gorm:"type:text"`
	CreatedAt      time.Time
}

func Models() []interface{} {
	return []interface{}{&Ingredient{}, &RecipeItem{}, &StockMovement{}}
}

type IngredientRequest struct {
	Name   string `json:"name"`
	Unit   string `json:"unit"`
	Active *bool  `json:"active"`
}

type IngredientRead struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toIngredientRead(i *Ingredient) IngredientRead {
	return IngredientRead{ID: i.ID, Name: i.Name, Unit: i.Unit, Active: i.Active, CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt}
}

type RecipeRequest struct {
	MenuItemID   uint    `json:"menu_item_id"`
	IngredientID uint    `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
}

type RecipeRead struct {
	ID           uint      `json:"id"`
	MenuItemID   uint      `json:"menu_item_id"`
	IngredientID uint      `json:"ingredient_id"`
	Quantity     float64   `json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRecipeRead(r *RecipeItem) RecipeRead {
	return RecipeRead{ID: r.ID, MenuItemID: r.MenuItemID, IngredientID: r.IngredientID, Quantity: r.Quantity, CreatedAt: r.CreatedAt}
}

type MovementRequest struct {
	IngredientID   uint    `json:"ingredient_id"`
	QuantityChange float64 `json:"quantity_change"`
	Reason         string  `json:"reason"`
	Notes          *string `json:"notes"`
}

type MovementRead struct {
	ID             uint      `json:"id"`
	IngredientID   uint      `json:"ingredient_id"`
	QuantityChange float64   `json:"quantity_change"`
	Reason         string    `json:"reason"`
	OrderItemID    *uint     `json:"order_item_id"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

func toMovementRead(m *StockMovement) MovementRead {
	return MovementRead{
		ID: m.ID, IngredientID: m.IngredientID, QuantityChange: m.QuantityChange,
		Reason: m.Reason, OrderItemID: m.OrderItemID, Notes: m.Notes, CreatedAt: m.CreatedAt,
	}
}

type StockLevel struct {
	IngredientID   uint    `json:"ingredient_id"`
	Name           string  `json:"name"`
	Unit           string  `json:"unit"`
	QuantityOnHand float64 `json:"quantity_on_hand"`
}
