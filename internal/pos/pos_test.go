package pos

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KromaEnergia/teamsheet-api/internal/inventory"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db/dbtest"
	"github.com/gorilla/mux"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	database := dbtest.Open(t, append(Models(), inventory.Models()...)...)
	h := NewHandler(NewRepository(database), nil)
	inv := inventory.NewHandler(inventory.NewRepository(database), nil)

	r := mux.NewRouter()
	r.HandleFunc("/pos/menu-categories", h.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/pos/menu-categories", h.CreateCategory).Methods(http.MethodPost)
	r.HandleFunc("/pos/menu-items", h.ListMenuItems).Methods(http.MethodGet)
	r.HandleFunc("/pos/menu-items", h.CreateMenuItem).Methods(http.MethodPost)
	r.HandleFunc("/pos/orders", h.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/pos/orders", h.CreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/pos/orders/{id}/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/pos/orders/{id}/close", h.Close).Methods(http.MethodPost)
	r.HandleFunc("/pos/orders/{id}/void", h.Void).Methods(http.MethodPost)
	r.HandleFunc("/inventory/ingredients", inv.CreateIngredient).Methods(http.MethodPost)
	r.HandleFunc("/inventory/recipes", inv.CreateRecipe).Methods(http.MethodPost)
	r.HandleFunc("/inventory/receive", inv.Receive).Methods(http.MethodPost)
	r.HandleFunc("/inventory/stock-levels", inv.StockLevels).Methods(http.MethodGet)
	return r
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rr
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func mustStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status=%d want %d body=%s", rr.Code, want, rr.Body.String())
	}
}

func TestOrderLifecycleBooksStock(t *testing.T) {
	r := newRouter(t)

	mustStatus(t, post(r, "/pos/menu-categories", `{"name":"Drinks"}`), http.StatusCreated)
	mustStatus(t, post(r, "/pos/menu-categories", `{"name":"Drinks"}`), http.StatusConflict)
	mustStatus(t, post(r, "/pos/menu-items", `{"category_id":1,"name":"Lemonade","price_cents":450}`), http.StatusCreated)
	mustStatus(t, post(r, "/pos/menu-items", `{"name":"Free","price_cents":-1}`), http.StatusBadRequest)
	mustStatus(t, post(r, "/inventory/ingredients", `{"name":"Lemon"}`), http.StatusCreated)
	mustStatus(t, post(r, "/inventory/recipes", `{"menu_item_id":1,"ingredient_id":1,"quantity":0.5}`), http.StatusCreated)
	mustStatus(t, post(r, "/inventory/receive", `{"ingredient_id":1,"quantity_change":10}`), http.StatusCreated)

	mustStatus(t, post(r, "/pos/orders", `{"table_label":"T4"}`), http.StatusCreated)
	rr := post(r, "/pos/orders/1/items", `{"menu_item_id":1,"quantity":3}`)
	mustStatus(t, rr, http.StatusCreated)
	var item ItemRead
	_ = json.Unmarshal(rr.Body.Bytes(), &item)
	if item.PriceCents != 450 {
		t.Fatalf("zero price must take the menu price, got %d", item.PriceCents)
	}
	mustStatus(t, post(r, "/pos/orders/1/items", `{"menu_item_id":99,"quantity":1}`), http.StatusNotFound)
	mustStatus(t, post(r, "/pos/orders/1/items", `{"menu_item_id":1,"quantity":0}`), http.StatusBadRequest)

	rr = post(r, "/pos/orders/1/close", `{"payment":{"amount_cents":1350}}`)
	mustStatus(t, rr, http.StatusOK)
	var closed OrderRead
	_ = json.Unmarshal(rr.Body.Bytes(), &closed)
	if closed.Status != StatusClosed || closed.TotalCents != 1350 || len(closed.Items) != 1 {
		t.Fatalf("closed order = %+v", closed)
	}

	var levels []inventory.StockLevel
	_ = json.Unmarshal(get(r, "/inventory/stock-levels").Body.Bytes(), &levels)
	if len(levels) != 1 || levels[0].QuantityOnHand != 8.5 || levels[0].Unit != "unit" {
		t.Fatalf("levels = %+v", levels)
	}

	rr = post(r, "/pos/orders/1/close", `{"payment":{"amount_cents":1}}`)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "Order already closed") {
		t.Fatalf("second close: %d %s", rr.Code, rr.Body.String())
	}
	rr = post(r, "/pos/orders/1/items", `{"menu_item_id":1,"quantity":1}`)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "Order is not open") {
		t.Fatalf("add to closed: %d %s", rr.Code, rr.Body.String())
	}
	mustStatus(t, post(r, "/pos/orders/1/void", ``), http.StatusBadRequest)
	mustStatus(t, post(r, "/pos/orders/7/close", `{}`), http.StatusNotFound)
}

func TestVoidAndStatusFilter(t *testing.T) {
	r := newRouter(t)
	mustStatus(t, post(r, "/pos/orders", `{}`), http.StatusCreated)
	mustStatus(t, post(r, "/pos/orders", `{}`), http.StatusCreated)

	rr := post(r, "/pos/orders/2/void", ``)
	mustStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"status":"VOIDED"`) {
		t.Fatalf("void body: %s", rr.Body.String())
	}

	var open []OrderRead
	_ = json.Unmarshal(get(r, "/pos/orders?status=open").Body.Bytes(), &open)
	if len(open) != 1 || open[0].ID != 1 {
		t.Fatalf("open orders = %+v", open)
	}
	mustStatus(t, get(r, "/pos/orders?status=LOST"), http.StatusBadRequest)
}
