package payout

import (
	"context"
	"net/http"
	"strconv"
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

// changed drops every cached summary after a write that feeds them.
func (h *Handler) changed(r *http.Request) {
	h.Cache.DeletePrefix(r.Context(), cache.PrefixPayoutTotal)
}

func summaryKey(year *int) string {
	if year == nil {
		return cache.PrefixPayoutTotal + "all"
	}
	return cache.PrefixPayoutTotal + strconv.Itoa(*year)
}

func (h *Handler) ListTiers(w http.ResponseWriter, r *http.Request) {
	year, err := utils.QueryInt(r, "season_year")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	tiers, err := h.Repository.Tiers(r.Context(), year, false)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]TierRead, 0, len(tiers))
	for i := range tiers {
		out = append(out, toTierRead(&tiers[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateTier(w http.ResponseWriter, r *http.Request) {
	h.saveTier(w, r, &Tier{}, http.StatusCreated)
}

func (h *Handler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	t, err := h.Repository.FindTier(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Tier not found"))
		return
	}
	h.saveTier(w, r, t, http.StatusOK)
}

func (h *Handler) saveTier(w http.ResponseWriter, r *http.Request, t *Tier, status int) {
	var req TierRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := req.apply(t); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.SaveTier(r.Context(), t); err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.changed(r)
	utils.WriteJSON(w, status, toTierRead(t))
}

func (h *Handler) DeleteTier(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "Tier not found", h.Repository.DeleteTier)
}

func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	year, err := utils.QueryInt(r, "season_year")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	rules, err := h.Repository.Rules(r.Context(), year, false)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]RuleRead, 0, len(rules))
	for i := range rules {
		out = append(out, toRuleRead(&rules[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	h.saveRule(w, r, &Rule{}, http.StatusCreated)
}

func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	rule, err := h.Repository.FindRule(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Rule not found"))
		return
	}
	h.saveRule(w, r, rule, http.StatusOK)
}

func (h *Handler) saveRule(w http.ResponseWriter, r *http.Request, rule *Rule, status int) {
	var req RuleRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := req.apply(rule); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.SaveRule(r.Context(), rule); err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.changed(r)
	utils.WriteJSON(w, status, toRuleRead(rule))
}

func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "Rule not found", h.Repository.DeleteRule)
}

func (h *Handler) ListPrizes(w http.ResponseWriter, r *http.Request) {
	year, err := utils.QueryInt(r, "season_year")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	prizes, err := h.Repository.Prizes(r.Context(), year)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]PrizeRead, 0, len(prizes))
	for i := range prizes {
		out = append(out, toPrizeRead(&prizes[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreatePrize(w http.ResponseWriter, r *http.Request) {
	h.savePrize(w, r, &Prize{}, http.StatusCreated)
}

func (h *Handler) UpdatePrize(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	p, err := h.Repository.FindPrize(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Prize not found"))
		return
	}
	h.savePrize(w, r, p, http.StatusOK)
}

func (h *Handler) savePrize(w http.ResponseWriter, r *http.Request, p *Prize, status int) {
	var req PrizeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := req.apply(p); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.SavePrize(r.Context(), p); err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.changed(r)
	utils.WriteJSON(w, status, toPrizeRead(p))
}

func (h *Handler) DeletePrize(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "Prize not found", h.Repository.DeletePrize)
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	year, err := utils.QueryInt(r, "season_year")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	list, err := h.Repository.Assignments(r.Context(), year)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]AssignmentRead, 0, len(list))
	for i := range list {
		out = append(out, toAssignmentRead(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) AssignPrize(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	name := strings.TrimSpace(req.EmployeeName)
	if name == "" {
		apperr.Write(w, r, apperr.Validation("employee_name is required"))
		return
	}
	prize, err := h.Repository.FindPrize(r.Context(), req.PrizeID)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Prize not found"))
		return
	}
	a := &PrizeAssignment{EmployeeName: name, PrizeID: prize.ID, SeasonYear: req.SeasonYear, Notes: req.Notes}
	if err := h.Repository.CreateAssignment(r.Context(), a); err != nil {
		apperr.Write(w, r, err)
		return
	}
	a.Prize = prize
	h.changed(r)
	utils.WriteJSON(w, http.StatusCreated, toAssignmentRead(a))
}

func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	year, err := utils.QueryInt(r, "season_year")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	list, err := h.Repository.Adjustments(r.Context(), year)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]AdjustmentRead, 0, len(list))
	for i := range list {
		out = append(out, toAdjustmentRead(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	name, label := strings.TrimSpace(req.EmployeeName), strings.TrimSpace(req.Label)
	if name == "" || label == "" {
		apperr.Write(w, r, apperr.Validation("employee_name and label are required"))
		return
	}
	a := &Adjustment{EmployeeName: name, Label: label, SeasonYear: req.SeasonYear, AmountCents: req.AmountCents}
	if err := h.Repository.CreateAdjustment(r.Context(), a); err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.changed(r)
	utils.WriteJSON(w, http.StatusCreated, toAdjustmentRead(a))
}

// Summary is served from the cache when present.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	year, err := utils.QueryInt(r, "season_year")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	key := summaryKey(year)
	var resp SummaryResponse
	if h.Cache.GetJSON(r.Context(), key, &resp) {
		utils.WriteJSON(w, http.StatusOK, resp)
		return
	}
	in, err := h.Repository.Inputs(r.Context(), year)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	resp = SummaryResponse{Rows: Summarize(in)}
	h.Cache.SetJSON(r.Context(), key, resp)
	logging.Info("payout summary computed", map[string]interface{}{
		"request_id": logging.RequestID(r.Context()),
		"key":        key,
		"rows":       len(resp.Rows),
	})
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, missing string, del func(ctx context.Context, id uint) error) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, missing))
		return
	}
	h.changed(r)
	w.WriteHeader(http.StatusNoContent)
}
