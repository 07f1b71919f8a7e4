package pos

import "time"

type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

type CategoryRead struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCategoryRead(c *MenuCategory) CategoryRead {
	return CategoryRead{ID: c.ID, Name: c.Name, Description: c.Description, Active: c.Active, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

type MenuItemRequest struct {
	CategoryID *uint  `json:"category_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Active     *bool  `json:"active"`
}

type MenuItemRead struct {
	ID         uint      `json:"id"`
	CategoryID *uint     `json:"category_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toMenuItemRead(m *MenuItem) MenuItemRead {
	return MenuItemRead{ID: m.ID, CategoryID: m.CategoryID, Name: m.Name, PriceCents: m.PriceCents, Active: m.Active, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

type OrderRequest struct {
	ShiftID    *uint   `json:"shift_id"`
	ServerID   *uint   `json:"server_id"`
	TableLabel *string `json:"table_label"`
	Notes      *string `json:"notes"`
}

type ItemRequest struct {
	MenuItemID uint  `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"price_cents"`
}

type PaymentRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
}

type CloseRequest struct {
	Payment PaymentRequest `json:"payment"`
}

type ItemRead struct {
	ID         uint      `json:"id"`
	OrderID    uint      `json:"order_id"`
	MenuItemID uint      `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

func toItemRead(i *OrderItem) ItemRead {
	return ItemRead{ID: i.ID, OrderID: i.OrderID, MenuItemID: i.MenuItemID, Quantity: i.Quantity, PriceCents: i.PriceCents, CreatedAt: i.CreatedAt}
}

type OrderRead struct {
	ID         uint       `json:"id"`
	Status     Status     `json:"status"`
	ShiftID    *uint      `json:"shift_id"`
	ServerID   *uint      `json:"server_id"`
	TableLabel *string    `json:"table_label"`
	Notes      *string    `json:"notes"`
	Items      []ItemRead `json:"items"`
	TotalCents int64      `json:"total_cents"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func toOrderRead(o *Order) OrderRead {
	out := OrderRead{
		ID: o.ID, Status: o.Status, ShiftID: o.ShiftID, ServerID: o.ServerID,
		TableLabel: o.TableLabel, Notes: o.Notes, Items: make([]ItemRead, 0, len(o.Items)),
		CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
	for i := range o.Items {
		out.Items = append(out.Items, toItemRead(&o.Items[i]))
		out.TotalCents += o.Items[i].PriceCents * int64(o.Items[i].Quantity)
	}
	return out
}
