package employee

import (
	"net/http"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
)

type Handler struct {
	Repository *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repository: repo}
}

// List handles GET /employees.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := Filter{
		Role:   Role(utils.QueryString(r, "role")),
		Search: utils.QueryString(r, "search"),
		SortBy: utils.QueryString(r, "sort_by"),
	}
	if f.Role != "" && !f.Role.Valid() {
		apperr.Write(w, r, apperr.Validation("invalid role"))
		return
	}
	active, err := utils.QueryBool(r, "active")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	f.Active = active

	list, err := h.Repository.List(r.Context(), f)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toReads(list))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	e, err := req.toModel()
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.Create(r.Context(), e); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toRead(e))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	e, err := h.Repository.FindByID(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Employee not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, toRead(e))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var req UpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	e, err := h.Repository.FindByID(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Employee not found"))
		return
	}
	if err := req.apply(e); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.Save(r.Context(), e); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toRead(e))
}

// Delete deactivates the employee; the row is kept.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.Deactivate(r.Context(), id); err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Employee not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
