package auth

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Handler struct {
	repo   *Repository
	tokens *Tokens
}

func NewHandler(repo *Repository, tokens *Tokens) *Handler {
	return &Handler{repo: repo, tokens: tokens}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil || req.Email == "" {
		apperr.Write(w, r, apperr.Validation("A valid email is required"))
		return
	}
	if len(req.Password) < 6 {
		apperr.Write(w, r, apperr.Validation("Password must be at least 6 characters"))
		return
	}
	if req.Role == "" {
		req.Role = RoleServer
	}
	if !req.Role.Valid() {
		apperr.Write(w, r, apperr.Validation("invalid role"))
		return
	}

	if _, err := h.repo.UserByEmail(r.Context(), req.Email); err == nil {
		apperr.Write(w, r, apperr.Validation("Email already registered"))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		apperr.Write(w, r, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	u := &User{Email: req.Email, PasswordHash: hash, FullName: strings.TrimSpace(req.FullName), Role: req.Role}
	if err := h.repo.CreateUser(r.Context(), u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = apperr.Validation("Email already registered")
		}
		apperr.Write(w, r, err)
		return
	}
	if _, err := h.issue(r.Context(), w, r, u.ID, ""); err != nil {
		apperr.Write(w, r, err)
		return
	}
	logging.Info("user registered", map[string]interface{}{"user_id": u.ID, "role": u.Role})
	utils.WriteJSON(w, http.StatusCreated, toUserRead(u))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.login(w, r, strings.TrimSpace(req.Email), req.Password)
}

// Token is the OAuth2 password flow: form fields username and password.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apperr.Write(w, r, apperr.Validation("invalid form"))
		return
	}
	h.login(w, r, strings.TrimSpace(r.PostForm.Get("username")), r.PostForm.Get("password"))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, email, password string) {
	u, err := h.repo.UserByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		apperr.Write(w, r, err)
		return
	}
	if u == nil || !utils.CheckPassword(u.PasswordHash, password) {
		apperr.Write(w, r, apperr.Unauthenticated("Incorrect email or password"))
		return
	}
	resp, err := h.issue(r.Context(), w, r, u.ID, "")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// Refresh rotates a refresh token taken from the body or the cookie.
// Presenting an already rotated token revokes its whole family.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	raw := req.RefreshToken
	if raw == "" {
		if c, err := r.Cookie(RefreshCookie); err == nil {
			raw = c.Value
		}
	}
	if raw == "" {
		apperr.Write(w, r, apperr.Unauthenticated("Missing refresh token"))
		return
	}

	ctx := r.Context()
	cur, err := h.repo.RefreshByHash(ctx, hashRefresh(raw))
	if err != nil {
		clearCookies(w, r)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperr.Unauthenticated("Invalid refresh token")
		}
		apperr.Write(w, r, err)
		return
	}
	now := time.Now()
	if cur.RevokedAt != nil {
		if err := h.repo.RevokeFamily(ctx, cur.FamilyID, now); err != nil {
			logging.Error("revoke refresh family", map[string]interface{}{"family_id": cur.FamilyID, "error": err.Error()})
		}
		logging.Warn("refresh token reuse", map[string]interface{}{"user_id": cur.UserID, "family_id": cur.FamilyID})
		clearCookies(w, r)
		apperr.Write(w, r, apperr.Unauthenticated("Invalid refresh token"))
		return
	}
	if now.After(cur.ExpiresAt) {
		clearCookies(w, r)
		apperr.Write(w, r, apperr.Unauthenticated("Refresh token expired"))
		return
	}
	ok, err := h.repo.RevokeRefresh(ctx, cur.ID, now)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if !ok {
		clearCookies(w, r)
		apperr.Write(w, r, apperr.Unauthenticated("Invalid refresh token"))
		return
	}
	resp, err := h.issue(ctx, w, r, cur.UserID, cur.FamilyID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(RefreshCookie); err == nil && c.Value != "" {
		if t, err := h.repo.RefreshByHash(r.Context(), hashRefresh(c.Value)); err == nil {
			_, _ = h.repo.RevokeRefresh(r.Context(), t.ID, time.Now())
		}
	}
	clearCookies(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		apperr.Write(w, r, apperr.Unauthenticated("Not authenticated"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, toUserRead(u))
}

// LinkEmployee attaches an employee profile to a user (the caller by default).
func (h *Handler) LinkEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := utils.PathID(r, "employee_id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var req LinkEmployeeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	caller, _ := CurrentUser(r.Context())
	target := caller
	if req.UserID != nil && *req.UserID != caller.ID {
		target, err = h.repo.UserByID(r.Context(), *req.UserID)
		if err != nil {
			apperr.Write(w, r, apperr.NotFoundIf(err, "User not found"))
			return
		}
	}
	exists, err := h.repo.EmployeeExists(r.Context(), employeeID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if !exists {
		apperr.Write(w, r, apperr.NotFound("Employee not found"))
		return
	}
	target.EmployeeID = &employeeID
	if err := h.repo.SaveUser(r.Context(), target); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toUserRead(target))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]UserRead, 0, len(users))
	for i := range users {
		out = append(out, toUserRead(&users[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var req RoleRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if !req.Role.Valid() {
		apperr.Write(w, r, apperr.Validation("invalid role"))
		return
	}
	u, err := h.repo.UserByID(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "User not found"))
		return
	}
	u.Role = req.Role
	if err := h.repo.SaveUser(r.Context(), u); err != nil {
		apperr.Write(w, r, err)
		return
	}
	logging.Info("user role changed", map[string]interface{}{"user_id": u.ID, "role": u.Role})
	utils.WriteJSON(w, http.StatusOK, toUserRead(u))
}

// issue creates an access token and a stored refresh token and sets both cookies.
// An empty family starts a new one.
func (h *Handler) issue(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uint, family string) (TokenResponse, error) {
	access, err := h.tokens.Access(userID)
	if err != nil {
		return TokenResponse{}, err
	}
	raw, err := newRefreshValue()
	if err != nil {
		return TokenResponse{}, err
	}
	if family == "" {
		family = uuid.NewString()
	}
	rt := &RefreshToken{
		UserID:    userID,
		FamilyID:  family,
		Hash:      hashRefresh(raw),
		ExpiresAt: time.Now().Add(h.tokens.RefreshTTL),
	}
	if err := h.repo.CreateRefresh(ctx, rt); err != nil {
		return TokenResponse{}, err
	}
	setCookie(w, r, AccessCookie, access, h.tokens.AccessTTL)
	setCookie(w, r, RefreshCookie, raw, h.tokens.RefreshTTL)
	return TokenResponse{AccessToken: access, RefreshToken: raw, TokenType: "bearer"}, nil
}

func secureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func setCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secureRequest(r),
			SameSite: http.SameSiteLaxMode,
		})
	}
}
