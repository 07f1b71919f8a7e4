package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db/dbtest"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type fixture struct {
	router *mux.Router
	db     *gorm.DB
	tokens *Tokens
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := dbtest.Open(t, &User{}, &RefreshToken{}, &employee.Employee{})
	repo := NewRepository(database)
	tokens := NewTokens("test-secret", time.Hour, 24*time.Hour)
	h := NewHandler(repo, tokens)

	r := mux.NewRouter()
	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/token", h.Token).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", h.Refresh).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)

	private := r.PathPrefix("/auth").Subrouter()
	private.Use(Authenticate(repo, tokens))
	private.HandleFunc("/me", h.Me).Methods(http.MethodGet)

	admin := r.PathPrefix("/auth").Subrouter()
	admin.Use(Authenticate(repo, tokens), Require(RoleAdmin))
	admin.HandleFunc("/link-employee/{employee_id}", h.LinkEmployee).Methods(http.MethodPost)
	admin.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/role", h.UpdateRole).Methods(http.MethodPut)

	return &fixture{router: r, db: database, tokens: tokens}
}

func (f *fixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) register(t *testing.T, email string, role Role) TokenResponse {
	t.Helper()
	body := `{"email":"` + email + `","password":"secret1","full_name":"Test User","role":"` + string(role) + `"}`
	if rr := f.do(t, http.MethodPost, "/auth/register", body, ""); rr.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", rr.Code, rr.Body.String())
	}
	rr := f.do(t, http.MethodPost, "/auth/login", `{"email":"`+email+`","password":"secret1"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", rr.Code, rr.Body.String())
	}
	var tok TokenResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return tok
}

func TestRoleOrdering(t *testing.T) {
	cases := []struct {
		have, need Role
		want       bool
	}{
		{RoleAdmin, RoleManager, true},
		{RoleManager, RoleManager, true},
		{RoleServer, RoleManager, false},
		{RoleManager, RoleAdmin, false},
		{Role("GUEST"), RoleServer, false},
	}
	for _, tc := range cases {
		if got := Allows(tc.have, tc.need); got != tc.want {
			t.Errorf("Allows(%s,%s)=%v want %v", tc.have, tc.need, got, tc.want)
		}
	}
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("k", time.Minute, time.Hour)
	raw, err := tokens.Access(42)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	id, err := tokens.Parse(raw)
	if err != nil || id != 42 {
		t.Fatalf("parse: id=%d err=%v", id, err)
	}
	if _, err := NewTokens("other", time.Minute, time.Hour).Parse(raw); err == nil {
		t.Fatal("token signed with another key must fail")
	}
	expired := NewTokens("k", -time.Minute, time.Hour)
	old, _ := expired.Access(42)
	if _, err := tokens.Parse(old); err == nil {
		t.Fatal("expired token must fail")
	}
}

func TestRegisterLoginMe(t *testing.T) {
	f := newFixture(t)
	tok := f.register(t, "ana@example.com", "")
	if tok.TokenType != "bearer" || tok.AccessToken == "" || tok.RefreshToken == "" {
		t.Fatalf("unexpected token response: %+v", tok)
	}

	rr := f.do(t, http.MethodGet, "/auth/me", "", tok.AccessToken)
	if rr.Code != http.StatusOK {
		t.Fatalf("me status=%d", rr.Code)
	}
	var me UserRead
	_ = json.Unmarshal(rr.Body.Bytes(), &me)
	if me.Email != "ana@example.com" || me.Role != RoleServer {
		t.Fatalf("unexpected me: %+v", me)
	}

	if rr := f.do(t, http.MethodGet, "/auth/me", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous me status=%d", rr.Code)
	}

	dup := f.do(t, http.MethodPost, "/auth/register", `{"email":"ana@example.com","password":"secret1","full_name":"x"}`, "")
	if dup.Code != http.StatusBadRequest || !strings.Contains(dup.Body.String(), "Email already registered") {
		t.Fatalf("duplicate register: %d %s", dup.Code, dup.Body.String())
	}

	bad := f.do(t, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"wrong!"}`, "")
	if bad.Code != http.StatusUnauthorized || !strings.Contains(bad.Body.String(), "Incorrect email or password") {
		t.Fatalf("bad login: %d %s", bad.Code, bad.Body.String())
	}

	short := f.do(t, http.MethodPost, "/auth/register", `{"email":"b@example.com","password":"123","full_name":"x"}`, "")
	if short.Code != http.StatusBadRequest {
		t.Fatalf("short password status=%d", short.Code)
	}
}

func TestAccessCookieAuthenticates(t *testing.T) {
	f := newFixture(t)
	tok := f.register(t, "cookie@example.com", RoleServer)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: tok.AccessToken})
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("cookie auth status=%d", rr.Code)
	}
}

func TestOAuthPasswordForm(t *testing.T) {
	f := newFixture(t)
	f.register(t, "form@example.com", RoleServer)

	form := url.Values{"username": {"form@example.com"}, "password": {"secret1"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "access_token") {
		t.Fatalf("token status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRefreshRotationAndReuse(t *testing.T) {
	f := newFixture(t)
	tok := f.register(t, "rot@example.com", RoleServer)

	rr := f.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"`+tok.RefreshToken+`"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh status=%d body=%s", rr.Code, rr.Body.String())
	}
	var next TokenResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &next)
	if next.RefreshToken == "" || next.RefreshToken == tok.RefreshToken {
		t.Fatal("refresh must rotate the token")
	}

	// Replaying the old token kills the family, including the fresh one.
	if rr := f.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"`+tok.RefreshToken+`"}`, ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("reuse status=%d", rr.Code)
	}
	if rr := f.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"`+next.RefreshToken+`"}`, ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("family member after reuse status=%d", rr.Code)
	}
}

func TestLogoutRevokesCookieToken(t *testing.T) {
	f := newFixture(t)
	tok := f.register(t, "out@example.com", RoleServer)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: tok.RefreshToken})
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("logout status=%d", rr.Code)
	}

	var rt RefreshToken
	if err := f.db.Where("hash = ?", hashRefresh(tok.RefreshToken)).First(&rt).Error; err != nil {
		t.Fatalf("load token: %v", err)
	}
	if rt.RevokedAt == nil {
		t.Fatal("expected revoked refresh token")
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	f := newFixture(t)
	admin := f.register(t, "admin@example.com", RoleAdmin)
	server := f.register(t, "server@example.com", RoleServer)

	if rr := f.do(t, http.MethodGet, "/auth/users", "", server.AccessToken); rr.Code != http.StatusForbidden {
		t.Fatalf("server listing users status=%d", rr.Code)
	}
	if rr := f.do(t, http.MethodGet, "/auth/users", "", admin.AccessToken); rr.Code != http.StatusOK {
		t.Fatalf("admin listing users status=%d", rr.Code)
	}

	emp := employee.Employee{FirstName: "Ana", LastName: "Silva", Role: employee.RoleServer, EmploymentStartDate: db.Today(), Active: true}
	if err := f.db.Create(&emp).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}

	rr := f.do(t, http.MethodPost, "/auth/link-employee/1", `{"user_id":2}`, admin.AccessToken)
	if rr.Code != http.StatusOK {
		t.Fatalf("link status=%d body=%s", rr.Code, rr.Body.String())
	}
	var linked UserRead
	_ = json.Unmarshal(rr.Body.Bytes(), &linked)
	if linked.ID != 2 || linked.EmployeeID == nil || *linked.EmployeeID != emp.ID {
		t.Fatalf("unexpected link: %+v", linked)
	}

	if rr := f.do(t, http.MethodPost, "/auth/link-employee/99", "", admin.AccessToken); rr.Code != http.StatusNotFound {
		t.Fatalf("missing employee status=%d", rr.Code)
	}

	rr = f.do(t, http.MethodPut, "/auth/users/2/role", `{"role":"MANAGER"}`, admin.AccessToken)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"MANAGER"`) {
		t.Fatalf("role update: %d %s", rr.Code, rr.Body.String())
	}
	if rr := f.do(t, http.MethodPut, "/auth/users/2/role", `{"role":"OWNER"}`, admin.AccessToken); rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid role status=%d", rr.Code)
	}
}
