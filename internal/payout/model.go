package payout

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeFixed   Type = "FIXED"
	TypePercent Type = "PERCENT"
)

func (t Type) Valid() bool { return t == TypeFixed || t == TypePercent }

// Tier pays for season sales in [MinAmountCents, MaxAmountCents]. PayoutValue is
// cents for FIXED and basis points for PERCENT.
type Tier struct {
	ID             uint   `gorm:"primaryKey"`
	Label          string `gorm:"size:100;not null"`
	SeasonYear     *int   `gorm:"index"`
	MinAmountCents int64  `gorm:"not null"`
	MaxAmountCents *int64
	PayoutType     Type  `gorm:"size:20;not null"`
	PayoutValue    int64 `gorm:"not null"`
	Active         bool  `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Tier) TableName() string { return "payout_tiers" }

// Contains reports whether total falls inside the tier; a nil max is open-ended.
func (t *Tier) Contains(total int64) bool {
	return total >= t.MinAmountCents && (t.MaxAmountCents == nil || total <= *t.MaxAmountCents)
}

const RuleSeasonTopSeller = "season_top_seller"

// Rule is a season bonus. Config is stored as JSON text.
type Rule struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"size:100;not null"`
	Type       string  `gorm:"size:50;not null"`
	SeasonYear *int    `gorm:"index"`
	Config     *string `gorm:"type:text"`
	Active     bool    `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Rule) TableName() string { return "payout_rules" }

// RuleConfig is the known shape of a rule's config.
type RuleConfig struct {
	FirstPct  *decimal.Decimal `json:"first_pct"`
	SecondPct *decimal.Decimal `json:"second_pct"`
}

var (
	defaultFirstPct  = decimal.NewFromInt(10)
	defaultSecondPct = decimal.NewFromInt(5)
)

// ParsedConfig decodes Config, filling the top-seller defaults. Text that is
// not a JSON object yields the defaults.
func (r *Rule) ParsedConfig() RuleConfig {
	var cfg RuleConfig
	if r.Config != nil && *r.Config != "" {
		_ = json.Unmarshal([]byte(*r.Config), &cfg)
	}
	if cfg.FirstPct == nil {
		cfg.FirstPct = &defaultFirstPct
	}
	if cfg.SecondPct == nil {
		cfg.SecondPct = &defaultSecondPct
	}
	return cfg
}

// rawConfig is what the API echoes back: the stored object, or null.
func (r *Rule) rawConfig() json.RawMessage {
	if r.Config == nil || *r.Config == "" || !json.Valid([]byte(*r.Config)) {
		return nil
	}
	return json.RawMessage(*r.Config)
}

type Prize struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:255;not null"`
	SeasonYear  *int    `gorm:"index"`
	Description *string `gorm:"type:text"`
	CostCents   *int64
	ImageURL    *string `gorm:"size:500"`
	Active      bool    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Prize) TableName() string { return "prizes" }

type PrizeAssignment struct {
	ID           uint    `gorm:"primaryKey"`
	EmployeeName string  `gorm:"size:255;not null;index"`
	SeasonYear   *int    `gorm:"index"`
	PrizeID      uint    `gorm:"not null;index"`
	Prize        *Prize  `gorm:"foreignKey:PrizeID"`
	Notes        *string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PrizeAssignment) TableName() string { return "prize_assignments" }

// Adjustment is a signed manual correction to one server's payout.
type Adjustment struct {
	ID           uint   `gorm:"primaryKey"`
	EmployeeName string `gorm:"size:255;not null;index"`
	SeasonYear   *int   `gorm:"index"`
	Label        string `gorm:"size:255;not null"`
	AmountCents  int64  `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Adjustment) TableName() string { return "payout_adjustments" }

// Models lists the tables owned by this package.
func Models() []interface{} {
	return []interface{}{&Tier{}, &Rule{}, &Prize{}, &PrizeAssignment{}, &Adjustment{}}
}
