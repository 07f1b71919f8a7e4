package cobrand

import (
	"net/http"
	"strings"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/cache"
	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/KromaEnergia/teamsheet-api/internal/money"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
)

const sellerLimit = 25

type Handler struct {
	Repository *Repository
	Employees  *employee.Repository
	Cache      *cache.Cache
}

func NewHandler(repo *Repository, employees *employee.Repository, c *cache.Cache) *Handler {
	return &Handler{Repository: repo, Employees: employees, Cache: c}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	year, err := utils.QueryInt(r, "season_year")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	deals, err := h.Repository.List(r.Context(), Filter{
		SeasonYear: year,
		SortBy:     utils.QueryString(r, "sort_by"),
		SortDir:    utils.QueryString(r, "sort_dir"),
	})
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]Read, 0, len(deals))
	for i := range deals {
		out = append(out, toRead(&deals[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if !req.AmountUSD.IsPositive() {
		apperr.Write(w, r, apperr.Validation("Amount must be greater than zero"))
		return
	}
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		apperr.Write(w, r, apperr.Validation("Company name is required"))
		return
	}
	if req.SeasonYear == nil {
		apperr.Write(w, r, apperr.Validation("season_year is required"))
		return
	}
	if req.SellerID != nil && *req.SellerID == 0 {
		req.SellerID = nil
	}
	if req.SellerID != nil {
		if _, err := h.Employees.FindActive(r.Context(), *req.SellerID); err != nil {
			apperr.Write(w, r, apperr.NotFoundIf(err, "Seller not found"))
			return
		}
	}

	deal := &Deal{
		CompanyName:      name,
		AmountCents:      money.DollarsToCents(req.AmountUSD),
		DateOfCommission: req.DateOfCommission,
		DateOfPayment:    req.DateOfPayment,
		DateOfPickup:     req.DateOfPickup,
		SellerID:         req.SellerID,
		LogoBase64:       req.LogoBase64,
		SeasonYear:       req.SeasonYear,
	}
	if err := h.Repository.Create(r.Context(), deal); err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.Cache.DeletePrefix(r.Context(), cache.PrefixPayoutTotal)
	logging.Info("cobrand deal created", map[string]interface{}{
		"request_id":   logging.RequestID(r.Context()),
		"deal_id":      deal.ID,
		"amount_cents": deal.AmountCents,
		"season_year":  *deal.SeasonYear,
	})
	utils.WriteJSON(w, http.StatusCreated, toRead(deal))
}

// Sellers lists active servers for the seller picker.
func (h *Handler) Sellers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Employees.ActiveServers(r.Context(), utils.QueryString(r, "search"), sellerLimit)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]Seller, 0, len(list))
	for i := range list {
		out = append(out, Seller{ID: list[i].ID, Name: strings.TrimSpace(list[i].FirstName + " " + list[i].LastName), Role: list[i].Role})
	}
	utils.WriteJSON(w, http.StatusOK, out)
}
