package employee

import (
	"strings"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
)

type CreateRequest struct {
	FirstName           string   `json:"first_name"`
	LastName            string   `json:"last_name"`
	Nickname            *string  `json:"nickname"`
	Role                Role     `json:"role"`
	EmploymentStartDate *db.Date `json:"employment_start_date"`
	Active              *bool    `json:"active"`
	UpsellScore         *int     `json:"upsell_score"`
	PittyScore          *int     `json:"pitty_score"`
	EmploymentDays      *int     `json:"employment_days"`
	MaxSectionLoad      *int     `json:"max_section_load"`
	Notes               *string  `json:"notes"`
}

func (req CreateRequest) toModel() (*Employee, error) {
	if !req.Role.Valid() {
		return nil, apperr.Validation("invalid role")
	}
	if req.EmploymentStartDate == nil {
		return nil, apperr.Validation("employment_start_date is required")
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &Employee{
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		Nickname:            req.Nickname,
		Role:                req.Role,
		EmploymentStartDate: *req.EmploymentStartDate,
		Active:              active,
		UpsellScore:         req.UpsellScore,
		PittyScore:          req.PittyScore,
		EmploymentDays:      req.EmploymentDays,
		MaxSectionLoad:      req.MaxSectionLoad,
		Notes:               req.Notes,
	}, nil
}

// UpdateRequest applies only the fields present in the body.
type UpdateRequest struct {
	FirstName           *string  `json:"first_name"`
	LastName            *string  `json:"last_name"`
	Nickname            *string  `json:"nickname"`
	Role                *Role    `json:"role"`
	EmploymentStartDate *db.Date `json:"employment_start_date"`
	Active              *bool    `json:"active"`
	UpsellScore         *int     `json:"upsell_score"`
	PittyScore          *int     `json:"pitty_score"`
	EmploymentDays      *int     `json:"employment_days"`
	MaxSectionLoad      *int     `json:"max_section_load"`
	Notes               *string  `json:"notes"`
}

func (req UpdateRequest) apply(e *Employee) error {
	if req.Role != nil {
		if !req.Role.Valid() {
			return apperr.Validation("invalid role")
		}
		e.Role = *req.Role
	}
	if req.FirstName != nil {
		e.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		e.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Nickname != nil {
		e.Nickname = req.Nickname
	}
	if req.EmploymentStartDate != nil {
		e.EmploymentStartDate = *req.EmploymentStartDate
	}
	if req.Active != nil {
		e.Active = *req.Active
	}
	if req.UpsellScore != nil {
		e.UpsellScore = req.UpsellScore
	}
	if req.PittyScore != nil {
		e.PittyScore = req.PittyScore
	}
	if req.EmploymentDays != nil {
		e.EmploymentDays = req.EmploymentDays
	}
	if req.MaxSectionLoad != nil {
		e.MaxSectionLoad = req.MaxSectionLoad
	}
	if req.Notes != nil {
		e.Notes = req.Notes
	}
	return nil
}

type Read struct {
	ID                  uint      `json:"id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Nickname            *string   `json:"nickname"`
	Role                Role      `json:"role"`
	EmploymentStartDate db.Date   `json:"employment_start_date"`
	Active              bool      `json:"active"`
	UpsellScore         *int      `json:"upsell_score"`
	PittyScore          *int      `json:"pitty_score"`
	EmploymentDays      *int      `json:"employment_days"`
	MaxSectionLoad      *int      `json:"max_section_load"`
	Notes               *string   `json:"notes"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toRead(e *Employee) Read {
	return Read{
		ID:                  e.ID,
		FirstName:           e.FirstName,
		LastName:            e.LastName,
		Nickname:            e.Nickname,
		Role:                e.Role,
		EmploymentStartDate: e.EmploymentStartDate,
		Active:              e.Active,
		UpsellScore:         e.UpsellScore,
		PittyScore:          e.PittyScore,
		EmploymentDays:      e.EmploymentDays,
		MaxSectionLoad:      e.MaxSectionLoad,
		Notes:               e.Notes,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func toReads(list []Employee) []Read {
	out := make([]Read, 0, len(list))
	for i := range list {
		out = append(out, toRead(&list[i]))
	}
	return out
}
