package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthenticated
)

// Error is a request-local failure with a reason that is safe to show the caller.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(detail string) error      { return &Error{Kind: KindValidation, Detail: detail} }
func NotFound(detail string) error        { return &Error{Kind: KindNotFound, Detail: detail} }
func Conflict(detail string) error        { return &Error{Kind: KindConflict, Detail: detail} }
func Forbidden(detail string) error       { return &Error{Kind: KindForbidden, Detail: detail} }
func Unauthenticated(detail string) error { return &Error{Kind: KindUnauthenticated, Detail: detail} }

// Validationf is Validation with formatting.
func Validationf(format string, args ...interface{}) error {
	return Validation(fmt.Sprintf(format, args...))
}

// NotFoundIf turns gorm.ErrRecordNotFound into a NotFound with the given
// detail and passes every other error through.
func NotFoundIf(err error, detail string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: KindNotFound, Detail: detail, Err: err}
	}
	return err
}

// KindOf reports the kind of err, mapping gorm sentinels as well.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return KindConflict
	}
	return KindInternal
}

func Status(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Write renders err as {"detail": "..."} with the matching status code.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	kind := KindOf(err)
	status := Status(kind)

	detail := http.StatusText(status)
	var e *Error
	switch {
	case errors.As(err, &e) && kind != KindInternal:
		detail = e.Detail
	case kind == KindNotFound:
		detail = "Not found"
	case kind == KindConflict:
		detail = "Resource already exists"
	}

	if kind == KindInternal {
		logging.Error("request failed", map[string]interface{}{
			"request_id": logging.RequestID(r.Context()),
			"path":       r.URL.Path,
			"error":      err.Error(),
		})
	}
	if kind == KindUnauthenticated {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
