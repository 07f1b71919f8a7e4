package shift

import (
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
)

type Period string

const (
	PeriodLunch  Period = "LUNCH"
	PeriodDinner Period = "DINNER"
	PeriodDouble Period = "DOUBLE"
	PeriodOther  Period = "OTHER"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodLunch, PeriodDinner, PeriodDouble, PeriodOther:
		return true
	}
	return false
}

// Shift is immutable once created.
type Shift struct {
	ID              uint    `gorm:"primaryKey"`
	Date            db.Date `gorm:"not null;index"`
	TimePeriod      Period  `gorm:"size:20;not null"`
	StoreID         *int
	CreatedByUserID uint `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateRequest struct {
	Date       *db.Date `json:"date"`
	TimePeriod Period   `json:"time_period"`
	StoreID    *int     `json:"store_id"`
}

type Read struct {
	ID              uint      `json:"id"`
	Date            db.Date   `json:"date"`
	TimePeriod      Period    `json:"time_period"`
	StoreID         *int      `json:"store_id"`
	CreatedByUserID uint      `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToRead(s *Shift) Read {
	return Read{
		ID:              s.ID,
		Date:            s.Date,
		TimePeriod:      s.TimePeriod,
		StoreID:         s.StoreID,
		CreatedByUserID: s.CreatedByUserID,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
