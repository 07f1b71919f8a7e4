package teamsheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KromaEnergia/teamsheet-api/internal/shift"
	"github.com/KromaEnergia/teamsheet-api/internal/storepref"
	"github.com/gorilla/mux"
)

type fakeArchiver struct {
	enabled bool
	fail    bool
	keys    []string
}

func (f *fakeArchiver) Enabled() bool { return f.enabled }

func (f *fakeArchiver) Archive(_ context.Context, key, _ string, _ []byte) (string, error) {
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	f.keys = append(f.keys, key)
	return "s3://exports/" + key, nil
}

func newHandlerRouter(f *fixture, archiver Archiver) *mux.Router {
	h := NewHandler(f.svc, shift.NewRepository(f.db), storepref.NewRepository(f.db), archiver)
	r := mux.NewRouter()
	r.HandleFunc("/team-sheets", h.List).Methods(http.MethodGet)
	r.HandleFunc("/team-sheets", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/team-sheets/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/team-sheets/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/team-sheets/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/team-sheets/{id}/export/json", h.ExportJSON).Methods(http.MethodGet)
	r.HandleFunc("/team-sheets/{id}/export/csv", h.ExportCSV).Methods(http.MethodGet)
	r.HandleFunc("/team-sheets/{id}/print", h.Print).Methods(http.MethodGet)
	return r
}

func call(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerExportsAndArchive(t *testing.T) {
	f := newFixture(t)
	archiver := &fakeArchiver{enabled: true}
	r := newHandlerRouter(f, archiver)

	rr := call(r, http.MethodPost, "/team-sheets", `{"shift_id":1,"title":"Friday","assignments":[{"employee_id":1,"section_id":1}]}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = call(r, http.MethodGet, "/team-sheets/1/export/csv", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("csv status=%d", rr.Code)
	}
	if got := rr.Header().Get("Content-Disposition"); got != "attachment; filename=team_sheet_1.csv" {
		t.Fatalf("disposition = %q", got)
	}
	if !strings.Contains(rr.Body.String(), "Bar 1,Ana Silva") {
		t.Fatalf("csv body: %s", rr.Body.String())
	}

	rr = call(r, http.MethodGet, "/team-sheets/1/export/json", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"employee_name":"Ana Silva"`) {
		t.Fatalf("json export: %d %s", rr.Code, rr.Body.String())
	}
	if len(archiver.keys) != 2 || !strings.HasSuffix(archiver.keys[0], ".csv") || !strings.HasPrefix(archiver.keys[1], "team-sheets/1/") {
		t.Fatalf("archived keys: %v", archiver.keys)
	}

	rr = call(r, http.MethodGet, "/team-sheets/1/print", "")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("print: %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}
}

func TestHandlerArchiveFailureDoesNotFailExport(t *testing.T) {
	f := newFixture(t)
	r := newHandlerRouter(f, &fakeArchiver{enabled: true, fail: true})
	call(r, http.MethodPost, "/team-sheets", `{"shift_id":1,"title":"Friday"}`)

	if rr := call(r, http.MethodGet, "/team-sheets/1/export/csv", ""); rr.Code != http.StatusOK {
		t.Fatalf("csv status=%d", rr.Code)
	}
}

func TestHandlerErrors(t *testing.T) {
	f := newFixture(t)
	r := newHandlerRouter(f, nil)

	cases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"missing shift", http.MethodPost, "/team-sheets", `{"shift_id":42,"title":"x"}`, http.StatusNotFound},
		{"bad status", http.MethodPost, "/team-sheets", `{"shift_id":1,"title":"x","status":"LIVE"}`, http.StatusBadRequest},
		{"missing sheet", http.MethodGet, "/team-sheets/9", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/team-sheets/abc", "", http.StatusBadRequest},
		{"bad list status", http.MethodGet, "/team-sheets?status=nope", "", http.StatusBadRequest},
		{"bad list date", http.MethodGet, "/team-sheets?start_date=05/03/2024", "", http.StatusBadRequest},
		{"delete missing", http.MethodDelete, "/team-sheets/9", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rr := call(r, tc.method, tc.path, tc.body); rr.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}
