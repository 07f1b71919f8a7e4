package inventory

import (
	"net/http"
	"strings"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/cache"
	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
)

type Handler struct {
	Repository *Repository
	Cache      *cache.Cache
}

func NewHandler(repo *Repository, c *cache.Cache) *Handler {
	return &Handler{Repository: repo, Cache: c}
}

func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	active, err := utils.QueryBool(r, "active")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	list, err := h.Repository.Ingredients(r.Context(), active)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]IngredientRead, 0, len(list))
	for i := range list {
		out = append(out, toIngredientRead(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req IngredientRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		apperr.Write(w, r, apperr.Validation("name is required"))
		return
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "unit"
	}
	ing := &Ingredient{Name: name, Unit: unit, Active: req.Active == nil || *req.Active}
	if err := h.Repository.CreateIngredient(r.Context(), ing); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			err = apperr.Conflict("Ingredient already exists")
		}
		apperr.Write(w, r, err)
		return
	}
	h.Cache.Delete(r.Context(), cache.KeyStockLevels)
	utils.WriteJSON(w, http.StatusCreated, toIngredientRead(ing))
}

func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	menuItemID, err := utils.QueryUint(r, "menu_item_id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	list, err := h.Repository.Recipes(r.Context(), menuItemID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]RecipeRead, 0, len(list))
	for i := range list {
		out = append(out, toRecipeRead(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if req.Quantity <= 0 {
		apperr.Write(w, r, apperr.Validation("quantity must be greater than zero"))
		return
	}
	if req.MenuItemID == 0 {
		apperr.Write(w, r, apperr.Validation("menu_item_id is required"))
		return
	}
	if _, err := h.Repository.FindIngredient(r.Context(), req.IngredientID); err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Ingredient not found"))
		return
	}
	ri := &RecipeItem{MenuItemID: req.MenuItemID, IngredientID: req.IngredientID, Quantity: req.Quantity}
	if err := h.Repository.CreateRecipe(r.Context(), ri); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toRecipeRead(ri))
}

func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, ReasonReceive)
}

func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, ReasonAdjust)
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request, defaultReason string) {
	var req MovementRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if _, err := h.Repository.FindIngredient(r.Context(), req.IngredientID); err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Ingredient not found"))
		return
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultReason
	}
	m := StockMovement{IngredientID: req.IngredientID, QuantityChange: req.QuantityChange, Reason: reason, Notes: req.Notes}
	ms := []StockMovement{m}
	if err := h.Repository.CreateMovements(r.Context(), ms); err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.Cache.Delete(r.Context(), cache.KeyStockLevels)
	logging.Info("stock movement recorded", map[string]interface{}{
		"request_id":    logging.RequestID(r.Context()),
		"ingredient_id": m.IngredientID,
		"change":        m.QuantityChange,
		"reason":        reason,
	})
	utils.WriteJSON(w, http.StatusCreated, toMovementRead(&ms[0]))
}

// StockLevels is served from the cache when present.
func (h *Handler) StockLevels(w http.ResponseWriter, r *http.Request) {
	var levels []StockLevel
	if h.Cache.GetJSON(r.Context(), cache.KeyStockLevels, &levels) {
		utils.WriteJSON(w, http.StatusOK, levels)
		return
	}
	levels, err := h.Repository.StockLevels(r.Context())
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if levels == nil {
		levels = []StockLevel{}
	}
	h.Cache.SetJSON(r.Context(), cache.KeyStockLevels, levels)
	utils.WriteJSON(w, http.StatusOK, levels)
}
