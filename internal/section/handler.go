package section

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	active, err := utils.QueryBool(r, "active")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	list, err := h.Repository.List(r.Context(), active)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	s, err := req.toModel()
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.Create(r.Context(), s); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toRead(s))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	s, err := h.Repository.FindByID(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Section not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, toRead(s))
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
	s, err := h.Repository.FindByID(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Section not found"))
		return
	}
	if err := req.apply(s); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.Save(r.Context(), s); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toRead(s))
}

// Delete marks the section inactive.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.Deactivate(r.Context(), id); err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Section not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
