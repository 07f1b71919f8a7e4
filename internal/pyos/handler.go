package pyos

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/auth"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
)

type CreateRequestBody struct {
	SectionID uint    `json:"section_id"`
	Date      db.Date `json:"date"`
	Shift     Shift   `json:"shift"`
	Notes     *string `json:"notes"`
}

type ManualRequestBody struct {
	EmployeeID uint    `json:"employee_id"`
	SectionID  uint    `json:"section_id"`
	Date       db.Date `json:"date"`
	Shift      Shift   `json:"shift"`
	Notes      *string `json:"notes"`
}

type ActionBody struct {
	Notes *string `json:"notes"`
}

type GrantBody struct {
	EmployeeID uint    `json:"employee_id"`
	Delta      int     `json:"delta"`
	Note       *string `json:"note"`
}

type CreditRead struct {
	ID         uint      `json:"id"`
	EmployeeID uint      `json:"employee_id"`
	Balance    int       `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type RequestRead struct {
	ID               uint       `json:"id"`
	EmployeeID       uint       `json:"employee_id"`
	EmployeeName     *string    `json:"employee_name"`
	SectionID        uint       `json:"section_id"`
	SectionLabel     *string    `json:"section_label"`
	Date             db.Date    `json:"date"`
	Shift            Shift      `json:"shift"`
	Status           Status     `json:"status"`
	Notes            *string    `json:"notes"`
	CreatedByUserID  uint       `json:"created_by_user_id"`
	ApprovedByUserID *uint      `json:"approved_by_user_id"`
	DeniedByUserID   *uint      `json:"denied_by_user_id"`
	RevokedByUserID  *uint      `json:"revoked_by_user_id"`
	ApprovedAt       *time.Time `json:"approved_at"`
	DeniedAt         *time.Time `json:"denied_at"`
	RevokedAt        *time.Time `json:"revoked_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type AuditRead struct {
	ID          uint         `json:"id"`
	ActorUserID uint         `json:"actor_user_id"`
	EmployeeID  *uint        `json:"employee_id"`
	Action      string       `json:"action"`
	Delta       *int         `json:"delta"`
	Details     AuditDetails `json:"details"`
	CreatedAt   time.Time    `json:"created_at"`
}

func toCreditRead(c *Credit) CreditRead {
	return CreditRead{ID: c.ID, EmployeeID: c.EmployeeID, Balance: c.Balance, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func toRequestRead(r *Request) RequestRead {
	out := RequestRead{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		SectionID:        r.SectionID,
		Date:             r.Date,
		Shift:            r.Shift,
		Status:           r.Status,
		Notes:            r.Notes,
		CreatedByUserID:  r.CreatedByUserID,
		ApprovedByUserID: r.ApprovedByUserID,
		DeniedByUserID:   r.DeniedByUserID,
		RevokedByUserID:  r.RevokedByUserID,
		ApprovedAt:       r.ApprovedAt,
		DeniedAt:         r.DeniedAt,
		RevokedAt:        r.RevokedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Employee != nil {
		name := r.Employee.DisplayName()
		out.EmployeeName = &name
	}
	if r.Section != nil {
		label := r.Section.Label
		out.SectionLabel = &label
	}
	return out
}

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func caller(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	u, ok := auth.CurrentUser(r.Context())
	if !ok {
		apperr.Write(w, r, apperr.Unauthenticated("Not authenticated"))
	}
	return u, ok
}

func (h *Handler) MyCredit(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r)
	if !ok {
		return
	}
	c, err := h.Service.MyCredit(r.Context(), u)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toCreditRead(c))
}

func (h *Handler) ListCredits(w http.ResponseWriter, r *http.Request) {
	employeeID, err := utils.QueryUint(r, "employee_id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	credits, err := h.Service.ListCredits(r.Context(), employeeID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]CreditRead, 0, len(credits))
	for i := range credits {
		out = append(out, toCreditRead(&credits[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r)
	if !ok {
		return
	}
	var body GrantBody
	if err := utils.DecodeJSON(r, &body); err != nil {
		apperr.Write(w, r, err)
		return
	}
	c, err := h.Service.GrantCredit(r.Context(), u, body.EmployeeID, body.Delta, body.Note)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toCreditRead(c))
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r)
	if !ok {
		return
	}
	date, err := utils.QueryDate(r, "date")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var f RequestFilter
	f.Date = date
	if v := strings.ToUpper(utils.QueryString(r, "shift")); v != "" {
		s := Shift(v)
		if !s.Valid() {
			apperr.Write(w, r, apperr.Validation("shift must be AM or PM"))
			return
		}
		f.Shift = &s
	}
	if v := strings.ToUpper(utils.QueryString(r, "status")); v != "" {
		s := Status(v)
		if !s.Valid() {
			apperr.Write(w, r, apperr.Validation("invalid status"))
			return
		}
		f.Status = &s
	}
	reqs, err := h.Service.ListRequests(r.Context(), u, f)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]RequestRead, 0, len(reqs))
	for i := range reqs {
		out = append(out, toRequestRead(&reqs[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r)
	if !ok {
		return
	}
	var body CreateRequestBody
	if err := utils.DecodeJSON(r, &body); err != nil {
		apperr.Write(w, r, err)
		return
	}
	req, err := h.Service.CreateRequest(r.Context(), u, CreateInput{
		SectionID: body.SectionID,
		Date:      body.Date,
		Shift:     Shift(strings.ToUpper(string(body.Shift))),
		Notes:     body.Notes,
	})
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toRequestRead(req))
}

func (h *Handler) CreateManual(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r)
	if !ok {
		return
	}
	var body ManualRequestBody
	if err := utils.DecodeJSON(r, &body); err != nil {
		apperr.Write(w, r, err)
		return
	}
	req, err := h.Service.CreateManualRequest(r.Context(), u, body.EmployeeID, CreateInput{
		SectionID: body.SectionID,
		Date:      body.Date,
		Shift:     Shift(strings.ToUpper(string(body.Shift))),
		Notes:     body.Notes,
	})
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toRequestRead(req))
}

type transitionFunc func(ctx context.Context, actor *auth.User, id uint, notes string) (*Request, error)

func (h *Handler) act(w http.ResponseWriter, r *http.Request, do transitionFunc) {
	u, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var body ActionBody
	if err := utils.DecodeJSON(r, &body); err != nil {
		apperr.Write(w, r, err)
		return
	}
	notes := ""
	if body.Notes != nil {
		notes = *body.Notes
	}
	req, err := do(r.Context(), u, id, notes)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toRequestRead(req))
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) { h.act(w, r, h.Service.Approve) }
func (h *Handler) Deny(w http.ResponseWriter, r *http.Request) { h.act(w, r, h.Service.Deny) }
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) { h.act(w, r, h.Service.Revoke) }

func (h *Handler) Occupied(w http.ResponseWriter, r *http.Request) {
	date, err := utils.QueryDate(r, "date")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	shift := Shift(strings.ToUpper(utils.QueryString(r, "shift")))
	if date == nil || !shift.Valid() {
		apperr.Write(w, r, apperr.Validation("date and shift are required"))
		return
	}
	ids, err := h.Service.Occupied(r.Context(), *date, shift)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ids)
}

func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	employeeID, err := utils.QueryUint(r, "employee_id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	rows, err := h.Service.Audit(r.Context(), employeeID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]AuditRead, 0, len(rows))
	for _, a := range rows {
		out = append(out, AuditRead{
			ID:          a.ID,
			ActorUserID: a.ActorUserID,
			EmployeeID:  a.EmployeeID,
			Action:      a.Action,
			Delta:       a.Delta,
			Details:     a.Details.Data(),
			CreatedAt:   a.CreatedAt,
		})
	}
	utils.WriteJSON(w, http.StatusOK, out)
}
