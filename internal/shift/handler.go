package shift

import (
	"net/http"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/auth"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
)

type Handler struct {
	Repository *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repository: repo}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var f Filter
	var err error
	if f.Start, err = utils.QueryDate(r, "start_date"); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if f.End, err = utils.QueryDate(r, "end_date"); err != nil {
		apperr.Write(w, r, err)
		return
	}
	f.Period = Period(utils.QueryString(r, "time_period"))
	if f.Period != "" && !f.Period.Valid() {
		apperr.Write(w, r, apperr.Validation("invalid time_period"))
		return
	}
	list, err := h.Repository.List(r.Context(), f)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]Read, 0, len(list))
	for i := range list {
		out = append(out, ToRead(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// Create records the caller as the shift's creator.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if req.Date == nil {
		apperr.Write(w, r, apperr.Validation("date is required"))
		return
	}
	if !req.TimePeriod.Valid() {
		apperr.Write(w, r, apperr.Validation("invalid time_period"))
		return
	}
	user, _ := auth.CurrentUser(r.Context())
	s := &Shift{Date: *req.Date, TimePeriod: req.TimePeriod, StoreID: req.StoreID}
	if user != nil {
		s.CreatedByUserID = user.ID
	}
	if err := h.Repository.Create(r.Context(), s); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, ToRead(s))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	s, err := h.Repository.FindByID(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Shift not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToRead(s))
}
