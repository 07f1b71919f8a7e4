package pos

import (
	"net/http"
	"strings"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/cache"
	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
)

const defaultPaymentMethod = "CARD"

type Handler struct {
	Repository *Repository
	Cache      *cache.Cache
}

func NewHandler(repo *Repository, c *cache.Cache) *Handler {
	return &Handler{Repository: repo, Cache: c}
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.Categories(r.Context())
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]CategoryRead, 0, len(list))
	for i := range list {
		out = append(out, toCategoryRead(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		apperr.Write(w, r, apperr.Validation("name is required"))
		return
	}
	c := &MenuCategory{Name: name, Description: req.Description, Active: req.Active == nil || *req.Active}
	if err := h.Repository.CreateCategory(r.Context(), c); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			err = apperr.Conflict("Menu category already exists")
		}
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toCategoryRead(c))
}

func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	active, err := utils.QueryBool(r, "active")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	list, err := h.Repository.MenuItems(r.Context(), active)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]MenuItemRead, 0, len(list))
	for i := range list {
		out = append(out, toMenuItemRead(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req MenuItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		apperr.Write(w, r, apperr.Validation("name is required"))
		return
	}
	if req.PriceCents < 0 {
		apperr.Write(w, r, apperr.Validation("price_cents must not be negative"))
		return
	}
	m := &MenuItem{CategoryID: req.CategoryID, Name: name, PriceCents: req.PriceCents, Active: req.Active == nil || *req.Active}
	if err := h.Repository.CreateMenuItem(r.Context(), m); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toMenuItemRead(m))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := Status(strings.ToUpper(utils.QueryString(r, "status")))
	if status != "" && !status.Valid() {
		apperr.Write(w, r, apperr.Validation("invalid status"))
		return
	}
	list, err := h.Repository.Orders(r.Context(), status)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]OrderRead, 0, len(list))
	for i := range list {
		out = append(out, toOrderRead(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	o := &Order{Status: StatusOpen, ShiftID: req.ShiftID, ServerID: req.ServerID, TableLabel: req.TableLabel, Notes: req.Notes}
	if err := h.Repository.CreateOrder(r.Context(), o); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toOrderRead(o))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var req ItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if req.Quantity < 1 {
		apperr.Write(w, r, apperr.Validation("quantity must be at least 1"))
		return
	}
	if req.PriceCents < 0 {
		apperr.Write(w, r, apperr.Validation("price_cents must not be negative"))
		return
	}
	item, err := h.Repository.AddItem(r.Context(), id, req)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toItemRead(item))
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var req CloseRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if req.Payment.AmountCents < 0 {
		apperr.Write(w, r, apperr.Validation("amount_cents must not be negative"))
		return
	}
	if req.Payment.Method = strings.TrimSpace(req.Payment.Method); req.Payment.Method == "" {
		req.Payment.Method = defaultPaymentMethod
	}
	if err := h.Repository.Close(r.Context(), id, req.Payment); err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.Cache.Delete(r.Context(), cache.KeyStockLevels)
	logging.Info("order closed", map[string]interface{}{
		"request_id":   logging.RequestID(r.Context()),
		"order_id":     id,
		"amount_cents": req.Payment.AmountCents,
		"method":       req.Payment.Method,
	})
	h.respondOrder(w, r, id)
}

func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.Void(r.Context(), id); err != nil {
		apperr.Write(w, r, err)
		return
	}
	logging.Info("order voided", map[string]interface{}{"request_id": logging.RequestID(r.Context()), "order_id": id})
	h.respondOrder(w, r, id)
}

func (h *Handler) respondOrder(w http.ResponseWriter, r *http.Request, id uint) {
	o, err := h.Repository.FindOrder(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Order not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, toOrderRead(o))
}
