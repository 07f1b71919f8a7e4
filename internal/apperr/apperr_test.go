package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"
)

func TestWriteStatusAndDetail(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"validation", Validation("bad"), http.StatusBadRequest, "bad"},
		{"not found", NotFound("Employee not found"), http.StatusNotFound, "Employee not found"},
		{"conflict", Conflict("taken"), http.StatusConflict, "taken"},
		{"forbidden", Forbidden("no"), http.StatusForbidden, "no"},
		{"unauthenticated", Unauthenticated("who"), http.StatusUnauthorized, "who"},
		{"gorm not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), http.StatusNotFound, "Not found"},
		{"gorm duplicate", gorm.ErrDuplicatedKey, http.StatusConflict, "Resource already exists"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Write(rr, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["detail"] != tc.detail {
				t.Fatalf("detail = %q, want %q", body["detail"], tc.detail)
			}
		})
	}
}

func TestNotFoundIf(t *testing.T) {
	err := NotFoundIf(gorm.ErrRecordNotFound, "Shift not found")
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind = %v", KindOf(err))
	}
	other := errors.New("x")
	if NotFoundIf(other, "y") != other {
		t.Fatal("non-notfound errors must pass through")
	}
}

func TestUnauthenticatedSetsChallenge(t *testing.T) {
	rr := httptest.NewRecorder()
	Write(rr, httptest.NewRequest(http.MethodGet, "/", nil), Unauthenticated("x"))
	if rr.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatal("missing WWW-Authenticate")
	}
}
