package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KromaEnergia/teamsheet-api/internal/utils/db/dbtest"
)

func newHandler(t *testing.T) (*Handler, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t, Models()...))
	return NewHandler(repo, nil), repo
}

func call(fn http.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	fn(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestMovementsAndLevels(t *testing.T) {
	h, repo := newHandler(t)
	ctx := context.Background()

	if rr := call(h.CreateIngredient, http.MethodPost, "/", `{"name":"Flour","unit":"kg"}`); rr.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
	}
	if rr := call(h.CreateIngredient, http.MethodPost, "/", `{"name":"Basil","active":false}`); rr.Code != http.StatusCreated {
		t.Fatalf("create: %d", rr.Code)
	}
	if rr := call(h.CreateIngredient, http.MethodPost, "/", `{"name":"Flour"}`); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate name: %d", rr.Code)
	}

	rr := call(h.Receive, http.MethodPost, "/", `{"ingredient_id":1,"quantity_change":5}`)
	if rr.Code != http.StatusCreated || !strings.Contains(rr.Body.String(), `"reason":"RECEIVE"`) {
		t.Fatalf("receive: %d %s", rr.Code, rr.Body.String())
	}
	rr = call(h.Adjust, http.MethodPost, "/", `{"ingredient_id":1,"quantity_change":-1.5,"notes":"spill"}`)
	if rr.Code != http.StatusCreated || !strings.Contains(rr.Body.String(), `"reason":"ADJUST"`) {
		t.Fatalf("adjust: %d %s", rr.Code, rr.Body.String())
	}
	if rr := call(h.Receive, http.MethodPost, "/", `{"ingredient_id":9,"quantity_change":1}`); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown ingredient: %d", rr.Code)
	}

	levels, err := repo.StockLevels(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(levels) != 2 || levels[0].Name != "Basil" || levels[0].QuantityOnHand != 0 || levels[1].QuantityOnHand != 3.5 {
		t.Fatalf("levels = %+v", levels)
	}

	rr = call(h.ListIngredients, http.MethodGet, "/?active=true", "")
	if strings.Contains(rr.Body.String(), "Basil") || !strings.Contains(rr.Body.String(), `"unit":"kg"`) {
		t.Fatalf("active filter: %s", rr.Body.String())
	}
}

func TestRecipeValidation(t *testing.T) {
	h, _ := newHandler(t)
	call(h.CreateIngredient, http.MethodPost, "/", `{"name":"Salt"}`)

	cases := map[string]int{
		`{"menu_item_id":1,"ingredient_id":1,"quantity":0}`:   http.StatusBadRequest,
		`{"menu_item_id":1,"ingredient_id":1,"quantity":-2}`:  http.StatusBadRequest,
		`{"menu_item_id":1,"ingredient_id":5,"quantity":1}`:   http.StatusNotFound,
		`{"menu_item_id":1,"ingredient_id":1,"quantity":0.2}`: http.StatusCreated,
	}
	for body, want := range cases {
		if rr := call(h.CreateRecipe, http.MethodPost, "/", body); rr.Code != want {
			t.Errorf("%s: status=%d want %d", body, rr.Code, want)
		}
	}
	rr := call(h.ListRecipes, http.MethodGet, "/?menu_item_id=1", "")
	if !strings.Contains(rr.Body.String(), `"quantity":0.2`) {
		t.Fatalf("recipes: %s", rr.Body.String())
	}
}
