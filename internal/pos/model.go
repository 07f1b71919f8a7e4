package pos

import "time"

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
	StatusVoided Status = "VOIDED"
)

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusClosed || s == StatusVoided
}

type MenuCategory struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:255;not null;uniqueIndex"`
	Description *string `gorm:"type:text"`
	Active      bool    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MenuItem struct {
	ID         uint   `gorm:"primaryKey"`
	CategoryID *uint  `gorm:"index"`
	Name       string `gorm:"size:255;not null"`
	PriceCents int64  `gorm:"not null"`
	Active     bool   `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Order struct {
	ID         uint        `gorm:"primaryKey"`
	Status     Status      `gorm:"size:20;not null;index"`
	ShiftID    *uint       `gorm:"index"`
	ServerID   *uint       `gorm:"index"`
	TableLabel *string     `gorm:"size:50"`
	Notes      *string     `gorm:"type:text"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Order) TableName() string { return "pos_orders" }

type OrderItem struct {
	ID         uint  `gorm:"primaryKey"`
	OrderID    uint  `gorm:"not null;index"`
	MenuItemID uint  `gorm:"not null;index"`
	Quantity   int   `gorm:"not null"`
	PriceCents int64 `gorm:"not null"`
	CreatedAt  time.Time
}

func (OrderItem) TableName() string { return "pos_order_items" }

type Payment struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     uint   `gorm:"not null;index"`
	AmountCents int64  `gorm:"not null"`
	Method      string `gorm:"size:50;not null"`
	CreatedAt   time.Time
}

func (Payment) TableName() string { return "pos_payments" }

func Models() []interface{} {
	return []interface{}{&MenuCategory{}, &MenuItem{}, &Order{}, &OrderItem{}, &Payment{}}
}
