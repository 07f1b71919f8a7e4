package section

import (
	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"gorm.io/datatypes"
)

type CreateRequest struct {
	Name            string   `json:"name"`
	Label           string   `json:"label"`
	Type            Type     `json:"type"`
	Tables          []string `json:"tables"`
	Tags            []string `json:"tags"`
	CutOrder        *int     `json:"cut_order"`
	Sidework        *string  `json:"sidework"`
	Outwork         *string  `json:"outwork"`
	MaxCapacity     *int     `json:"max_capacity"`
	ExpectedOutTime *string  `json:"expected_out_time"`
	MaxGuests       *int     `json:"max_guests"`
	IsActive        *bool    `json:"is_active"`
}

func (req CreateRequest) toModel() (*Section, error) {
	if !req.Type.Valid() {
		return nil, apperr.Validation("invalid section type")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &Section{
		Name:            req.Name,
		Label:           req.Label,
		Type:            req.Type,
		Tables:          datatypes.NewJSONType(req.Tables),
		Tags:            datatypes.NewJSONType(req.Tags),
		CutOrder:        req.CutOrder,
		Sidework:        req.Sidework,
		Outwork:         req.Outwork,
		MaxCapacity:     req.MaxCapacity,
		ExpectedOutTime: req.ExpectedOutTime,
		MaxGuests:       req.MaxGuests,
		IsActive:        active,
	}, nil
}

type UpdateRequest struct {
	Name            *string   `json:"name"`
	Label           *string   `json:"label"`
	Type            *Type     `json:"type"`
	Tables          *[]string `json:"tables"`
	Tags            *[]string `json:"tags"`
	CutOrder        *int      `json:"cut_order"`
	Sidework        *string   `json:"sidework"`
	Outwork         *string   `json:"outwork"`
	MaxCapacity     *int      `json:"max_capacity"`
	ExpectedOutTime *string   `json:"expected_out_time"`
	MaxGuests       *int      `json:"max_guests"`
	IsActive        *bool     `json:"is_active"`
}

func (req UpdateRequest) apply(s *Section) error {
	if req.Type != nil {
		if !req.Type.Valid() {
			return apperr.Validation("invalid section type")
		}
		s.Type = *req.Type
	}
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Label != nil {
		s.Label = *req.Label
	}
	if req.Tables != nil {
		s.Tables = datatypes.NewJSONType(*req.Tables)
	}
	if req.Tags != nil {
		s.Tags = datatypes.NewJSONType(*req.Tags)
	}
	if req.CutOrder != nil {
		s.CutOrder = req.CutOrder
	}
	if req.Sidework != nil {
		s.Sidework = req.Sidework
	}
	if req.Outwork != nil {
		s.Outwork = req.Outwork
	}
	if req.MaxCapacity != nil {
		s.MaxCapacity = req.MaxCapacity
	}
	if req.ExpectedOutTime != nil {
		s.ExpectedOutTime = req.ExpectedOutTime
	}
	if req.MaxGuests != nil {
		s.MaxGuests = req.MaxGuests
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	return nil
}

type Read struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	Label           string   `json:"label"`
	Type            Type     `json:"type"`
	Tables          []string `json:"tables"`
	Tags            []string `json:"tags"`
	CutOrder        *int     `json:"cut_order"`
	Sidework        *string  `json:"sidework"`
	Outwork         *string  `json:"outwork"`
	MaxCapacity     *int     `json:"max_capacity"`
	ExpectedOutTime *string  `json:"expected_out_time"`
	MaxGuests       *int     `json:"max_guests"`
	IsActive        bool     `json:"is_active"`
}

func toRead(s *Section) Read {
	return Read{
		ID:              s.ID,
		Name:            s.Name,
		Label:           s.Label,
		Type:            s.Type,
		Tables:          s.Tables.Data(),
		Tags:            s.Tags.Data(),
		CutOrder:        s.CutOrder,
		Sidework:        s.Sidework,
		Outwork:         s.Outwork,
		MaxCapacity:     s.MaxCapacity,
		ExpectedOutTime: s.ExpectedOutTime,
		MaxGuests:       s.MaxGuests,
		IsActive:        s.IsActive,
	}
}
