package shift

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KromaEnergia/teamsheet-api/internal/auth"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db/dbtest"
	"github.com/gorilla/mux"
)

func TestCreateAndListShifts(t *testing.T) {
	h := NewHandler(NewRepository(dbtest.Open(t, &Shift{})))
	r := mux.NewRouter()
	r.HandleFunc("/shifts", h.List).Methods(http.MethodGet)
	r.HandleFunc("/shifts", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/shifts/{id}", h.Get).Methods(http.MethodGet)

	caller := &auth.User{ID: 7, Role: auth.RoleManager}
	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/shifts", strings.NewReader(body))
		req = req.WithContext(auth.WithUser(req.Context(), caller))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	for _, body := range []string{
		`{"date":"2024-05-01","time_period":"LUNCH","store_id":12}`,
		`{"date":"2024-05-03","time_period":"DINNER"}`,
		`{"date":"2024-05-02","time_period":"DINNER"}`,
	} {
		if rr := post(body); rr.Code != http.StatusCreated {
			t.Fatalf("create %s: %d %s", body, rr.Code, rr.Body.String())
		}
	}
	if rr := post(`{"date":"2024-05-02","time_period":"BRUNCH"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad period status=%d", rr.Code)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/shifts?time_period=DINNER&start_date=2024-05-02", nil))
	var list []Read
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0].Date.String() != "2024-05-03" || list[1].Date.String() != "2024-05-02" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[0].CreatedByUserID != 7 {
		t.Fatalf("creator = %d", list[0].CreatedByUserID)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/shifts/1", nil))
	var one Read
	_ = json.Unmarshal(rr.Body.Bytes(), &one)
	if one.StoreID == nil || *one.StoreID != 12 {
		t.Fatalf("store id: %+v", one)
	}
}
