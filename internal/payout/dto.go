package payout

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
)

func activeOrDefault(b *bool) bool { return b == nil || *b }

type TierRequest struct {
	Label          string `json:"label"`
	SeasonYear     *int   `json:"season_year"`
	MinAmountCents int64  `json:"min_amount_cents"`
	MaxAmountCents *int64 `json:"max_amount_cents"`
	PayoutType     Type   `json:"payout_type"`
	PayoutValue    int64  `json:"payout_value"`
	Active         *bool  `json:"active"`
}

func (req TierRequest) apply(t *Tier) error {
	if req.PayoutType == "" {
		req.PayoutType = TypeFixed
	}
	switch {
	case strings.TrimSpace(req.Label) == "":
		return apperr.Validation("label is required")
	case !req.PayoutType.Valid():
		return apperr.Validation("invalid payout_type")
	case req.MinAmountCents < 0 || req.PayoutValue < 0:
		return apperr.Validation("amounts must not be negative")
	case req.MaxAmountCents != nil && *req.MaxAmountCents < req.MinAmountCents:
		return apperr.Validation("max_amount_cents must not be below min_amount_cents")
	}
	t.Label = strings.TrimSpace(req.Label)
	t.SeasonYear = req.SeasonYear
	t.MinAmountCents = req.MinAmountCents
	t.MaxAmountCents = req.MaxAmountCents
	t.PayoutType = req.PayoutType
	t.PayoutValue = req.PayoutValue
	t.Active = activeOrDefault(req.Active)
	return nil
}

type TierRead struct {
	ID             uint      `json:"id"`
	Label          string    `json:"label"`
	SeasonYear     *int      `json:"season_year"`
	MinAmountCents int64     `json:"min_amount_cents"`
	MaxAmountCents *int64    `json:"max_amount_cents"`
	PayoutType     Type      `json:"payout_type"`
	PayoutValue    int64     `json:"payout_value"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toTierRead(t *Tier) TierRead {
	return TierRead{
		ID: t.ID, Label: t.Label, SeasonYear: t.SeasonYear,
		MinAmountCents: t.MinAmountCents, MaxAmountCents: t.MaxAmountCents,
		PayoutType: t.PayoutType, PayoutValue: t.PayoutValue, Active: t.Active,
		CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
}

type RuleRequest struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	SeasonYear *int            `json:"season_year"`
	Config     json.RawMessage `json:"config"`
	Active     *bool           `json:"active"`
}

func (req RuleRequest) apply(r *Rule) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Type) == "" {
		return apperr.Validation("name and type are required")
	}
	r.Config = nil
	if raw := strings.TrimSpace(string(req.Config)); raw != "" && raw != "null" {
		if !strings.HasPrefix(raw, "{") {
			return apperr.Validation("config must be an object")
		}
		r.Config = &raw
	}
	r.Name = strings.TrimSpace(req.Name)
	r.Type = strings.TrimSpace(req.Type)
	r.SeasonYear = req.SeasonYear
	r.Active = activeOrDefault(req.Active)
	return nil
}

type RuleRead struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	SeasonYear *int            `json:"season_year"`
	Config     json.RawMessage `json:"config"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func toRuleRead(r *Rule) RuleRead {
	return RuleRead{
		ID: r.ID, Name: r.Name, Type: r.Type, SeasonYear: r.SeasonYear,
		Config: r.rawConfig(), Active: r.Active,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type PrizeRequest struct {
	Name        string  `json:"name"`
	SeasonYear  *int    `json:"season_year"`
	Description *string `json:"description"`
	CostCents   *int64  `json:"cost_cents"`
	ImageURL    *string `json:"image_url"`
	Active      *bool   `json:"active"`
}

func (req PrizeRequest) apply(p *Prize) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("name is required")
	}
	if req.CostCents != nil && *req.CostCents < 0 {
		return apperr.Validation("cost_cents must not be negative")
	}
	p.Name = strings.TrimSpace(req.Name)
	p.SeasonYear = req.SeasonYear
	p.Description = req.Description
	p.CostCents = req.CostCents
	p.ImageURL = req.ImageURL
	p.Active = activeOrDefault(req.Active)
	return nil
}

type PrizeRead struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	SeasonYear  *int      `json:"season_year"`
	Description *string   `json:"description"`
	CostCents   *int64    `json:"cost_cents"`
	ImageURL    *string   `json:"image_url"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPrizeRead(p *Prize) PrizeRead {
	return PrizeRead{
		ID: p.ID, Name: p.Name, SeasonYear: p.SeasonYear, Description: p.Description,
		CostCents: p.CostCents, ImageURL: p.ImageURL, Active: p.Active,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

type AssignRequest struct {
	EmployeeName string  `json:"employee_name"`
	PrizeID      uint    `json:"prize_id"`
	SeasonYear   *int    `json:"season_year"`
	Notes        *string `json:"notes"`
}

type AssignmentRead struct {
	ID           uint       `json:"id"`
	EmployeeName string     `json:"employee_name"`
	PrizeID      uint       `json:"prize_id"`
	SeasonYear   *int       `json:"season_year"`
	Notes        *string    `json:"notes"`
	Prize        *PrizeRead `json:"prize"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toAssignmentRead(a *PrizeAssignment) AssignmentRead {
	out := AssignmentRead{
		ID: a.ID, EmployeeName: a.EmployeeName, PrizeID: a.PrizeID, SeasonYear: a.SeasonYear,
		Notes: a.Notes, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
	if a.Prize != nil {
		p := toPrizeRead(a.Prize)
		out.Prize = &p
	}
	return out
}

type AdjustmentRequest struct {
	EmployeeName string `json:"employee_name"`
	Label        string `json:"label"`
	SeasonYear   *int   `json:"season_year"`
	AmountCents  int64  `json:"amount_cents"`
}

type AdjustmentRead struct {
	ID           uint      `json:"id"`
	EmployeeName string    `json:"employee_name"`
	Label        string    `json:"label"`
	SeasonYear   *int      `json:"season_year"`
	AmountCents  int64     `json:"amount_cents"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toAdjustmentRead(a *Adjustment) AdjustmentRead {
	return AdjustmentRead{
		ID: a.ID, EmployeeName: a.EmployeeName, Label: a.Label, SeasonYear: a.SeasonYear,
		AmountCents: a.AmountCents, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

type SummaryResponse struct {
	Rows []Row `json:"rows"`
}
