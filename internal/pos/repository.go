package pos

import (
	"context"
	"errors"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/inventory"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func itemsByID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

func (r *Repository) Categories(ctx context.Context) ([]MenuCategory, error) {
	var out []MenuCategory
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *Repository) CreateCategory(ctx context.Context, c *MenuCategory) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *Repository) MenuItems(ctx context.Context, active *bool) ([]MenuItem, error) {
	q := r.DB.WithContext(ctx)
	if active != nil {
		q = q.Where("active = ?", *active)
	}
	var out []MenuItem
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *Repository) CreateMenuItem(ctx context.Context, m *MenuItem) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *Repository) Orders(ctx context.Context, status Status) ([]Order, error) {
	q := r.DB.WithContext(ctx).Preload("Items", itemsByID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []Order
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *Repository) FindOrder(ctx context.Context, id uint) (*Order, error) {
	var o Order
	if err := r.DB.WithContext(ctx).Preload("Items", itemsByID).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) CreateOrder(ctx context.Context, o *Order) error {
	return r.DB.WithContext(ctx).Omit("Items").Create(o).Error
}

// AddItem appends a line to an open order. A zero price takes the menu price.
func (r *Repository) AddItem(ctx context.Context, orderID uint, req ItemRequest) (*OrderItem, error) {
	var item *OrderItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, orderID).Error; err != nil {
			return apperr.NotFoundIf(err, "Order not found")
		}
		if o.Status != StatusOpen {
			return apperr.Validation("Order is not open")
		}
		var m MenuItem
		if err := tx.First(&m, req.MenuItemID).Error; err != nil {
			return apperr.NotFoundIf(err, "Menu item not found")
		}
		price := req.PriceCents
		if price == 0 {
			price = m.PriceCents
		}
		item = &OrderItem{OrderID: o.ID, MenuItemID: m.ID, Quantity: req.Quantity, PriceCents: price}
		return tx.Create(item).Error
	})
	return item, err
}

// Close records the payment, books a SALE movement per item and recipe line,
// and marks the order CLOSED, all in one transaction.
func (r *Repository) Close(ctx context.Context, id uint, pay PaymentRequest) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.Preload("Items", itemsByID).First(&o, id).Error; err != nil {
			return apperr.NotFoundIf(err, "Order not found")
		}
		if o.Status != StatusOpen {
			return apperr.Validation("Order already closed")
		}
		if err := tx.Create(&Payment{OrderID: o.ID, AmountCents: pay.AmountCents, Method: pay.Method}).Error; err != nil {
			return err
		}

		stock := inventory.NewRepository(tx)
		var moves []inventory.StockMovement
		for i := range o.Items {
			item := &o.Items[i]
			recipes, err := stock.Recipes(ctx, &item.MenuItemID)
			if err != nil {
				return err
			}
			for _, rec := range recipes {
				itemID := item.ID
				moves = append(moves, inventory.StockMovement{
					IngredientID:   rec.IngredientID,
					QuantityChange: -rec.Quantity * float64(item.Quantity),
					Reason:         inventory.ReasonSale,
					OrderItemID:    &itemID,
				})
			}
		}
		if err := stock.CreateMovements(ctx, moves); err != nil {
			return err
		}
		return r.setStatus(tx, o.ID, StatusOpen, StatusClosed, "Order already closed")
	})
}

// Void cancels an open order without payment or stock effects.
func (r *Repository) Void(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, id).Error; err != nil {
			return apperr.NotFoundIf(err, "Order not found")
		}
		return r.setStatus(tx, o.ID, StatusOpen, StatusVoided, "Order is not open")
	})
}

var errStale = errors.New("order status changed")

// setStatus moves an order from one status to another; it fails with detail
// when the order is no longer in from.
func (r *Repository) setStatus(tx *gorm.DB, id uint, from, to Status, detail string) error {
	res := tx.Model(&Order{}).Where("id = ? AND status = ?", id, from).Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &apperr.Error{Kind: apperr.KindValidation, Detail: detail, Err: errStale}
	}
	return nil
}
