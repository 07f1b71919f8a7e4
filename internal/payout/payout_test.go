package payout

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KromaEnergia/teamsheet-api/internal/cobrand"
	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/gifttracker"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db/dbtest"
	"github.com/gorilla/mux"
)

func i64(n int64) *int64 { return &n }
func strp(s string) *string { return &s }

func TestPercentTierExample(t *testing.T) {
	rows := Summarize(Inputs{
		Gifts: []gifttracker.Entry{{EmployeeName: "Ana", Tuesday: 100, Friday: 50}},
		Tiers: []Tier{{MinAmountCents: 0, PayoutType: TypePercent, PayoutValue: 1000, Active: true}},
	})
	if len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].SalesTotalCents != 15000 || rows[0].TierPayoutCents != 1500 || rows[0].TotalPayoutCents != 1500 {
		t.Fatalf("row = %+v", rows[0])
	}
}

func TestTierFirstMatchByMinimum(t *testing.T) {
	tiers := []Tier{
		{Label: "high", MinAmountCents: 10000, PayoutType: TypeFixed, PayoutValue: 900},
		{Label: "low", MinAmountCents: 0, MaxAmountCents: i64(20000), PayoutType: TypeFixed, PayoutValue: 100},
	}
	cases := map[int]int64{50: 100, 150: 100, 250: 900}
	for dollars, want := range cases {
		rows := Summarize(Inputs{
			Gifts: []gifttracker.Entry{{EmployeeName: "Ana", Saturday: dollars}},
			Tiers: tiers,
		})
		if got := rows[0].TierPayoutCents; got != want {
			t.Errorf("sales $%d: tier payout %d want %d", dollars, got, want)
		}
	}
	if got := tierPayout(nil, 5000); got != 0 {
		t.Fatalf("no tier must pay 0, got %d", got)
	}
}

func TestSummaryCombinesSources(t *testing.T) {
	ana := &employee.Employee{FirstName: "Ana", LastName: "Silva"}
	nick := &employee.Employee{Nickname: strp("Bia")}
	cfg := `{"first_pct": 10, "second_pct": 5}`
	cheap, pricey := &Prize{ID: 1, Name: "Mug"}, &Prize{ID: 2, Name: "Bike", CostCents: i64(30000)}

	rows := Summarize(Inputs{
		Gifts: []gifttracker.Entry{
			{EmployeeName: "Ana Silva", Tuesday: 100},
			{EmployeeName: "Caio", Monday: 10},
			{EmployeeName: "ana silva", Monday: 1},
		},
		Deals: []cobrand.Deal{
			{AmountCents: 5000, Seller: ana},
			{AmountCents: 20000, Seller: nick},
			{AmountCents: 99999},
		},
		Rules: []Rule{
			{Type: RuleSeasonTopSeller, Config: &cfg},
			{Type: "mystery"},
		},
		Assignments: []PrizeAssignment{
			{EmployeeName: "Bia", Prize: pricey},
			{EmployeeName: "Bia", Prize: cheap},
			{EmployeeName: "Nobody", Prize: pricey},
		},
		Adjustments: []Adjustment{
			{EmployeeName: "Caio", AmountCents: -250},
			{EmployeeName: "Caio", AmountCents: 50},
		},
	})

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.EmployeeName)
	}
	if got := strings.Join(names, ","); got != "Bia,Ana Silva,Caio,ana silva" {
		t.Fatalf("order = %s", got)
	}
	bia, anaRow, caio := rows[0], rows[1], rows[2]
	if bia.SalesTotalCents != 20000 || bia.RulePayoutCents != 2000 || bia.PrizeValueCents != 30000 || len(bia.Prizes) != 2 {
		t.Fatalf("bia = %+v", bia)
	}
	if bia.TotalPayoutCents != 32000 {
		t.Fatalf("bia total = %d", bia.TotalPayoutCents)
	}
	if anaRow.SalesTotalCents != 15000 || anaRow.RulePayoutCents != 750 {
		t.Fatalf("ana = %+v", anaRow)
	}
	if caio.RulePayoutCents != 0 || caio.MiscCents != -200 || caio.TotalPayoutCents != -200 {
		t.Fatalf("caio = %+v", caio)
	}
}

func TestTopSellerDefaultsAndTies(t *testing.T) {
	rows := Summarize(Inputs{
		Gifts: []gifttracker.Entry{{EmployeeName: "Zed", Tuesday: 10}, {EmployeeName: "Amy", Tuesday: 10}},
		Rules: []Rule{{Type: RuleSeasonTopSeller, Config: strp("not json")}},
	})
	if rows[0].EmployeeName != "Amy" || rows[0].RulePayoutCents != 100 || rows[1].RulePayoutCents != 50 {
		t.Fatalf("rows = %+v", rows)
	}
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	models := append(Models(), &gifttracker.Entry{}, &cobrand.Deal{}, &employee.Employee{})
	database := dbtest.Open(t, models...)
	h := NewHandler(NewRepository(database), nil)
	gifts := gifttracker.NewHandler(gifttracker.NewRepository(database), nil)

	r := mux.NewRouter()
	r.HandleFunc("/gift-tracker", gifts.Upsert).Methods(http.MethodPost)
	r.HandleFunc("/payouts/tiers", h.ListTiers).Methods(http.MethodGet)
	r.HandleFunc("/payouts/tiers", h.CreateTier).Methods(http.MethodPost)
	r.HandleFunc("/payouts/tiers/{id}", h.UpdateTier).Methods(http.MethodPut)
	r.HandleFunc("/payouts/tiers/{id}", h.DeleteTier).Methods(http.MethodDelete)
	r.HandleFunc("/payouts/rules", h.ListRules).Methods(http.MethodGet)
	r.HandleFunc("/payouts/rules", h.CreateRule).Methods(http.MethodPost)
	r.HandleFunc("/payouts/prizes", h.CreatePrize).Methods(http.MethodPost)
	r.HandleFunc("/payouts/prizes/assign", h.AssignPrize).Methods(http.MethodPost)
	r.HandleFunc("/payouts/prizes/assign", h.ListAssignments).Methods(http.MethodGet)
	r.HandleFunc("/payouts/prizes/{id}", h.DeletePrize).Methods(http.MethodDelete)
	r.HandleFunc("/payouts/adjustments", h.CreateAdjustment).Methods(http.MethodPost)
	r.HandleFunc("/payouts/summary", h.Summary).Methods(http.MethodGet)
	return r
}

func hit(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestPayoutEndpoints(t *testing.T) {
	r := newRouter(t)

	steps := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/gift-tracker", `{"week_number":1,"season_year":2024,"entries":[{"employee_name":"Ana","tuesday":150}]}`, http.StatusCreated},
		{http.MethodPost, "/payouts/tiers", `{"label":"ten","season_year":2024,"min_amount_cents":0,"payout_type":"PERCENT","payout_value":1000}`, http.StatusCreated},
		{http.MethodPost, "/payouts/tiers", `{"label":"bad","payout_type":"BOGUS"}`, http.StatusBadRequest},
		{http.MethodPut, "/payouts/tiers/9", `{"label":"x"}`, http.StatusNotFound},
		{http.MethodPost, "/payouts/rules", `{"name":"top","type":"season_top_seller","season_year":2024,"config":{"first_pct":20}}`, http.StatusCreated},
		{http.MethodPost, "/payouts/prizes", `{"name":"Bike","season_year":2024,"cost_cents":1000}`, http.StatusCreated},
		{http.MethodPost, "/payouts/prizes/assign", `{"employee_name":"Ana","prize_id":7}`, http.StatusNotFound},
		{http.MethodPost, "/payouts/prizes/assign", `{"employee_name":"Ana","prize_id":1,"season_year":2024}`, http.StatusCreated},
		{http.MethodPost, "/payouts/adjustments", `{"employee_name":"Ana","label":"late","season_year":2024,"amount_cents":-100}`, http.StatusCreated},
	}
	for _, s := range steps {
		if rr := hit(r, s.method, s.path, s.body); rr.Code != s.want {
			t.Fatalf("%s %s: status=%d want %d body=%s", s.method, s.path, rr.Code, s.want, rr.Body.String())
		}
	}

	rr := hit(r, http.MethodGet, "/payouts/rules", "")
	if !strings.Contains(rr.Body.String(), `"config":{"first_pct":20}`) {
		t.Fatalf("rule config not echoed: %s", rr.Body.String())
	}

	var summary SummaryResponse
	rr = hit(r, http.MethodGet, "/payouts/summary?season_year=2024", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(summary.Rows) != 1 {
		t.Fatalf("rows = %+v", summary.Rows)
	}
	row := summary.Rows[0]
	// 15000 sales: tier 1500, rule 20% = 3000, prize 1000, misc -100
	if row.TierPayoutCents != 1500 || row.RulePayoutCents != 3000 || row.PrizeValueCents != 1000 || row.TotalPayoutCents != 5400 {
		t.Fatalf("row = %+v", row)
	}

	if rr := hit(r, http.MethodDelete, "/payouts/prizes/1", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete prize status=%d", rr.Code)
	}
	rr = hit(r, http.MethodGet, "/payouts/prizes/assign", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("assignments must go with the prize: %s", rr.Body.String())
	}
}
