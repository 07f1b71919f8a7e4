package employee

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db/dbtest"
	"github.com/gorilla/mux"
)

func newRouter(t *testing.T) (*mux.Router, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t, &Employee{}))
	h := NewHandler(repo)
	r := mux.NewRouter()
	r.HandleFunc("/employees", h.List).Methods(http.MethodGet)
	r.HandleFunc("/employees", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/employees/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/employees/{id}", h.Delete).Methods(http.MethodDelete)
	return r, repo
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func intp(n int) *int { return &n }

func TestCreateGetAndSoftDelete(t *testing.T) {
	r, repo := newRouter(t)

	rr := do(t, r, http.MethodPost, "/employees",
		`{"first_name":"Ana","last_name":"Silva","role":"SERVER","employment_start_date":"2023-02-01"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created Read
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Active || created.EmploymentStartDate.String() != "2023-02-01" {
		t.Fatalf("unexpected employee: %+v", created)
	}

	if rr := do(t, r, http.MethodDelete, "/employees/1", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	e, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("row must survive soft delete: %v", err)
	}
	if e.Active {
		t.Fatal("expected inactive after delete")
	}

	rr = do(t, r, http.MethodGet, "/employees/99", "")
	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "Employee not found") {
		t.Fatalf("missing employee: %d %s", rr.Code, rr.Body.String())
	}
}

func TestCreateRejectsBadRole(t *testing.T) {
	r, _ := newRouter(t)
	rr := do(t, r, http.MethodPost, "/employees",
		`{"first_name":"A","last_name":"B","role":"CHEF","employment_start_date":"2023-02-01"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestPartialUpdate(t *testing.T) {
	r, _ := newRouter(t)
	do(t, r, http.MethodPost, "/employees",
		`{"first_name":"Ana","last_name":"Silva","role":"SERVER","employment_start_date":"2023-02-01","notes":"keep"}`)

	rr := do(t, r, http.MethodPut, "/employees/1", `{"upsell_score":7}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var got Read
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if got.UpsellScore == nil || *got.UpsellScore != 7 || got.Notes == nil || *got.Notes != "keep" || got.FirstName != "Ana" {
		t.Fatalf("unexpected update result: %+v", got)
	}
}

func TestListFiltersAndSort(t *testing.T) {
	r, repo := newRouter(t)
	ctx := context.Background()
	start := db.NewDate(2022, 1, 1)
	seed := []Employee{
		{FirstName: "Carla", LastName: "Z", Role: RoleServer, EmploymentStartDate: start, Active: true, UpsellScore: intp(3)},
		{FirstName: "Bruno", LastName: "Y", Role: RoleServer, EmploymentStartDate: start, Active: true},
		{FirstName: "Ana", LastName: "X", Role: RoleHost, EmploymentStartDate: start, Active: true, UpsellScore: intp(9)},
		{FirstName: "Dani", LastName: "W", Role: RoleServer, EmploymentStartDate: start, Active: false, UpsellScore: intp(5)},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	names := func(rr *httptest.ResponseRecorder) []string {
		var list []Read
		if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
			t.Fatalf("decode: %v", err)
		}
		out := make([]string, 0, len(list))
		for _, e := range list {
			out = append(out, e.FirstName)
		}
		return out
	}

	cases := []struct {
		query string
		want  string
	}{
		{"", "Ana,Bruno,Carla,Dani"},
		{"?sort_by=upsell_score", "Ana,Dani,Carla,Bruno"},
		{"?role=SERVER&active=true", "Bruno,Carla"},
		{"?search=AR", "Carla"},
	}
	for _, tc := range cases {
		rr := do(t, r, http.MethodGet, "/employees"+tc.query, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status=%d", tc.query, rr.Code)
		}
		if got := strings.Join(names(rr), ","); got != tc.want {
			t.Errorf("%s: got %s want %s", tc.query, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	nick := "Zé"
	if got := DisplayName(" ", "", &nick); got != "Zé" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayName("Ana", "", &nick); got != "Ana" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayName("", "", nil); got != "" {
		t.Fatalf("got %q", got)
	}
}
