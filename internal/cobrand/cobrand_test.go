package cobrand

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db/dbtest"
	"github.com/gorilla/mux"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	database := dbtest.Open(t, &Deal{}, &employee.Employee{})
	seed := []employee.Employee{
		{FirstName: "Ana", LastName: "Silva", Role: employee.RoleServer, EmploymentStartDate: db.Today(), Active: true},
		{FirstName: "Caio", LastName: "Lima", Role: employee.RoleServer, EmploymentStartDate: db.Today(), Active: false},
		{FirstName: "Bruno", LastName: "Reis", Role: employee.RoleHost, EmploymentStartDate: db.Today(), Active: true},
	}
	if err := database.Create(&seed).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	h := NewHandler(NewRepository(database), employee.NewRepository(database), nil)
	r := mux.NewRouter()
	r.HandleFunc("/cobrands", h.List).Methods(http.MethodGet)
	r.HandleFunc("/cobrands", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/cobrands/sellers", h.Sellers).Methods(http.MethodGet)
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCreateValidation(t *testing.T) {
	r := setup(t)
	cases := []struct {
		name, body, detail string
		want               int
	}{
		{"zero amount", `{"company_name":"Acme","amount_usd":0,"season_year":2024}`, "Amount must be greater than zero", http.StatusBadRequest},
		{"blank company", `{"company_name":"  ","amount_usd":5,"season_year":2024}`, "Company name is required", http.StatusBadRequest},
		{"no season", `{"company_name":"Acme","amount_usd":5}`, "season_year is required", http.StatusBadRequest},
		{"inactive seller", `{"company_name":"Acme","amount_usd":5,"season_year":2024,"seller_id":2}`, "Seller not found", http.StatusNotFound},
		{"unknown seller", `{"company_name":"Acme","amount_usd":5,"season_year":2024,"seller_id":99}`, "Seller not found", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := send(r, http.MethodPost, "/cobrands", tc.body)
			if rr.Code != tc.want || !strings.Contains(rr.Body.String(), tc.detail) {
				t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestCreateRoundsAndNamesSeller(t *testing.T) {
	r := setup(t)
	rr := send(r, http.MethodPost, "/cobrands", `{"company_name":" Acme ","amount_usd":"12.345","season_year":2024,"seller_id":1}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var got Read
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.AmountCents != 1235 || got.AmountUSD != 12.35 || got.CompanyName != "Acme" {
		t.Fatalf("deal = %+v", got)
	}
	if got.SellerName == nil || *got.SellerName != "Ana Silva" {
		t.Fatalf("seller_name = %v", got.SellerName)
	}
}

func TestListSortAndSeason(t *testing.T) {
	r := setup(t)
	send(r, http.MethodPost, "/cobrands", `{"company_name":"Beta","amount_usd":50,"season_year":2024}`)
	send(r, http.MethodPost, "/cobrands", `{"company_name":"Alpha","amount_usd":10,"season_year":2024}`)
	send(r, http.MethodPost, "/cobrands", `{"company_name":"Gamma","amount_usd":99,"season_year":2023}`)

	var list []Read
	rr := send(r, http.MethodGet, "/cobrands?season_year=2024&sort_by=amount&sort_dir=asc", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].CompanyName != "Alpha" || list[1].CompanyName != "Beta" {
		t.Fatalf("list = %+v", list)
	}

	rr = send(r, http.MethodGet, "/cobrands?sort_by=company_name", "")
	_ = json.Unmarshal(rr.Body.Bytes(), &list)
	if len(list) != 3 || list[0].CompanyName != "Gamma" {
		t.Fatalf("desc by default: %+v", list)
	}
}

func TestSellersOnlyActiveServers(t *testing.T) {
	r := setup(t)
	var sellers []Seller
	rr := send(r, http.MethodGet, "/cobrands/sellers", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &sellers); err != nil {
		t.Fatal(err)
	}
	if len(sellers) != 1 || sellers[0].Name != "Ana Silva" || sellers[0].Role != employee.RoleServer {
		t.Fatalf("sellers = %+v", sellers)
	}
	rr = send(r, http.MethodGet, "/cobrands/sellers?search=zzz", "")
	_ = json.Unmarshal(rr.Body.Bytes(), &sellers)
	if len(sellers) != 0 {
		t.Fatalf("search miss: %+v", sellers)
	}
}
