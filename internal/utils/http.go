package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"github.com/gorilla/mux"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads the request body into v. An empty body leaves v untouched.
func DecodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return apperr.Validation("invalid payload")
	}
	return nil
}

// PathID parses the {name} route variable as a positive id.
func PathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}

// QueryInt returns nil when the parameter is absent.
func QueryInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validationf("invalid %s", name)
	}
	return &n, nil
}

func QueryUint(r *http.Request, name string) (*uint, error) {
	n, err := QueryInt(r, name)
	if err != nil || n == nil {
		return nil, err
	}
	if *n < 0 {
		return nil, apperr.Validationf("invalid %s", name)
	}
	u := uint(*n)
	return &u, nil
}

func QueryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Validationf("invalid %s", name)
	}
	return &b, nil
}

func QueryDate(r *http.Request, name string) (*db.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	d, err := db.ParseDate(raw)
	if err != nil {
		return nil, apperr.Validationf("invalid %s", name)
	}
	return &d, nil
}

// QueryString returns the trimmed parameter.
func QueryString(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
