package cobrand

import (
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/money"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"github.com/shopspring/decimal"
)

// Deal is a co-branded gift card sale credited to a seller.
type Deal struct {
	ID               uint   `gorm:"primaryKey"`
	CompanyName      string `gorm:"size:255;not null"`
	AmountCents      int64  `gorm:"not null"`
	DateOfCommission *db.Date
	DateOfPayment    *db.Date
	DateOfPickup     *db.Date
	SellerID         *uint              `gorm:"index"`
	Seller           *employee.Employee `gorm:"foreignKey:SellerID"`
	LogoBase64       *string            `gorm:"type:text"`
	SeasonYear       *int               `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Deal) TableName() string { return "cobrand_deals" }

// SellerName is empty when the deal has no seller or the seller row is gone.
func (d *Deal) SellerName() string {
	if d.Seller == nil {
		return ""
	}
	return d.Seller.DisplayName()
}

type CreateRequest struct {
	CompanyName      string          `json:"company_name"`
	AmountUSD        decimal.Decimal `json:"amount_usd"`
	SeasonYear       *int            `json:"season_year"`
	DateOfCommission *db.Date        `json:"date_of_commission"`
	DateOfPayment    *db.Date        `json:"date_of_payment"`
	DateOfPickup     *db.Date        `json:"date_of_pickup"`
	SellerID         *uint           `json:"seller_id"`
	LogoBase64       *string         `json:"logo_base64"`
}

type Read struct {
	ID               uint      `json:"id"`
	CompanyName      string    `json:"company_name"`
	AmountUSD        float64   `json:"amount_usd"`
	AmountCents      int64     `json:"amount_cents"`
	SeasonYear       *int      `json:"season_year"`
	DateOfCommission *db.Date  `json:"date_of_commission"`
	DateOfPayment    *db.Date  `json:"date_of_payment"`
	DateOfPickup     *db.Date  `json:"date_of_pickup"`
	SellerID         *uint     `json:"seller_id"`
	SellerName       *string   `json:"seller_name"`
	LogoBase64       *string   `json:"logo_base64"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toRead(d *Deal) Read {
	out := Read{
		ID:               d.ID,
		CompanyName:      d.CompanyName,
		AmountUSD:        money.CentsToDollars(d.AmountCents).InexactFloat64(),
		AmountCents:      d.AmountCents,
		SeasonYear:       d.SeasonYear,
		DateOfCommission: d.DateOfCommission,
		DateOfPayment:    d.DateOfPayment,
		DateOfPickup:     d.DateOfPickup,
		SellerID:         d.SellerID,
		LogoBase64:       d.LogoBase64,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if name := d.SellerName(); name != "" {
		out.SellerName = &name
	}
	return out
}

// Seller is an option in the seller picker.
type Seller struct {
	ID   uint          `json:"id"`
	Name string        `json:"name"`
	Role employee.Role `json:"role"`
}
