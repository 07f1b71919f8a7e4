package storepref

import (
	"net/http"
	"strings"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
	"gorm.io/datatypes"
)

type UpsertRequest struct {
	StoreNumber   string          `json:"store_number"`
	DailySchedule []ScheduleEntry `json:"daily_schedule"`
}

type Read struct {
	ID            uint            `json:"id"`
	StoreNumber   string          `json:"store_number"`
	DailySchedule []ScheduleEntry `json:"daily_schedule"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toRead(p *StorePreference) Read {
	schedule := p.DailySchedule.Data()
	if schedule == nil {
		schedule = []ScheduleEntry{}
	}
	return Read{ID: p.ID, StoreNumber: p.StoreNumber, DailySchedule: schedule, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

type Handler struct {
	Repository *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repository: repo}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.List(r.Context(), utils.QueryString(r, "store_number"))
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]Read, 0, len(list))
	for i := range list {
		out = append(out, toRead(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	req.StoreNumber = strings.TrimSpace(req.StoreNumber)
	if req.StoreNumber == "" {
		apperr.Write(w, r, apperr.Validation("store_number is required"))
		return
	}
	for _, e := range req.DailySchedule {
		if e.NumberOfShifts != nil && (*e.NumberOfShifts < 1 || *e.NumberOfShifts > 2) {
			apperr.Write(w, r, apperr.Validation("number_of_shifts must be 1 or 2"))
			return
		}
	}
	if req.DailySchedule == nil {
		req.DailySchedule = []ScheduleEntry{}
	}
	p := &StorePreference{StoreNumber: req.StoreNumber, DailySchedule: datatypes.NewJSONType(req.DailySchedule)}
	if err := h.Repository.Upsert(r.Context(), p); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toRead(p))
}
