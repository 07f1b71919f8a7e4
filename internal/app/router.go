// Package app wires repositories, handlers and middleware into one router.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/auth"
	"github.com/KromaEnergia/teamsheet-api/internal/cache"
	"github.com/KromaEnergia/teamsheet-api/internal/cobrand"
	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/gifttracker"
	"github.com/KromaEnergia/teamsheet-api/internal/imports"
	"github.com/KromaEnergia/teamsheet-api/internal/inventory"
	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/KromaEnergia/teamsheet-api/internal/notify"
	"github.com/KromaEnergia/teamsheet-api/internal/payout"
	"github.com/KromaEnergia/teamsheet-api/internal/pos"
	"github.com/KromaEnergia/teamsheet-api/internal/preset"
	"github.com/KromaEnergia/teamsheet-api/internal/pyos"
	"github.com/KromaEnergia/teamsheet-api/internal/roster"
	"github.com/KromaEnergia/teamsheet-api/internal/season"
	"github.com/KromaEnergia/teamsheet-api/internal/section"
	"github.com/KromaEnergia/teamsheet-api/internal/shift"
	"github.com/KromaEnergia/teamsheet-api/internal/storepref"
	"github.com/KromaEnergia/teamsheet-api/internal/teamsheet"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

type Deps struct {
	AppName        string
	DB             *gorm.DB
	Tokens         *auth.Tokens
	Cache          *cache.Cache
	Archiver       teamsheet.Archiver
	AllowedOrigins []string
	LoginRateLimit string
	Alerts         *notify.Webhook
}

type healthResponse struct {
	Status string `json:"status"`
	App    string `json:"app"`
}

// NewRouter builds the HTTP surface. Every route declares the least role it needs.
func NewRouter(d Deps) (http.Handler, error) {
	authRepo := auth.NewRepository(d.DB)
	employees := employee.NewRepository(d.DB)
	shifts := shift.NewRepository(d.DB)
	prefs := storepref.NewRepository(d.DB)

	authH := auth.NewHandler(authRepo, d.Tokens)
	employeeH := employee.NewHandler(employees)
	sectionH := section.NewHandler(section.NewRepository(d.DB))
	shiftH := shift.NewHandler(shifts)
	sheetH := teamsheet.NewHandler(teamsheet.NewService(d.DB), shifts, prefs, d.Archiver)
	cobrandH := cobrand.NewHandler(cobrand.NewRepository(d.DB), employees, d.Cache)
	giftH := gifttracker.NewHandler(gifttracker.NewRepository(d.DB), d.Cache)
	payoutH := payout.NewHandler(payout.NewRepository(d.DB), d.Cache)
	seasonH := season.NewHandler(season.NewRepository(d.DB))
	importH := imports.NewHandler(d.DB)
	prefH := storepref.NewHandler(prefs)
	posH := pos.NewHandler(pos.NewRepository(d.DB), d.Cache)
	invH := inventory.NewHandler(inventory.NewRepository(d.DB), d.Cache)
	rosterH := roster.NewHandler(roster.NewRepository(d.DB))
	presetH := preset.NewHandler(preset.NewRepository(d.DB))
	pyosSvc := pyos.NewService(d.DB)
	pyosSvc.Alerts = d.Alerts
	pyosH := pyos.NewHandler(pyosSvc)

	limit, err := auth.RateLimit(d.LoginRateLimit)
	if err != nil {
		return nil, err
	}
	authn := auth.Authenticate(authRepo, d.Tokens)
	user := func(h http.HandlerFunc) http.Handler { return authn(h) }
	manager := func(h http.HandlerFunc) http.Handler { return authn(auth.Require(auth.RoleManager)(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return authn(auth.Require(auth.RoleAdmin)(h)) }

	r := mux.NewRouter()
	r.Use(logging.RequestLogger)

	health := func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", App: d.AppName})
	}
	r.HandleFunc("/health", health).Methods(http.MethodGet)
	r.HandleFunc("/live", health).Methods(http.MethodGet)
	r.HandleFunc("/ready", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, d.DB); err != nil {
			logging.Error("readiness check failed", map[string]interface{}{"error": err.Error()})
			utils.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", App: d.AppName})
			return
		}
		health(w, req)
	}).Methods(http.MethodGet)

	// auth
	r.Handle("/auth/register", limit(http.HandlerFunc(authH.Register))).Methods(http.MethodPost)
	r.Handle("/auth/login", limit(http.HandlerFunc(authH.Login))).Methods(http.MethodPost)
	r.Handle("/auth/token", limit(http.HandlerFunc(authH.Token))).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", authH.Refresh).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", authH.Logout).Methods(http.MethodPost)
	r.Handle("/auth/me", user(authH.Me)).Methods(http.MethodGet)
	r.Handle("/auth/link-employee/{employee_id}", admin(authH.LinkEmployee)).Methods(http.MethodPost)
	r.Handle("/auth/users", admin(authH.ListUsers)).Methods(http.MethodGet)
	r.Handle("/auth/users/{id}/role", admin(authH.UpdateRole)).Methods(http.MethodPut)

	// staff and floor
	r.Handle("/employees", user(employeeH.List)).Methods(http.MethodGet)
	r.Handle("/employees", manager(employeeH.Create)).Methods(http.MethodPost)
	r.Handle("/employees/{id}", user(employeeH.Get)).Methods(http.MethodGet)
	r.Handle("/employees/{id}", manager(employeeH.Update)).Methods(http.MethodPut)
	r.Handle("/employees/{id}", manager(employeeH.Delete)).Methods(http.MethodDelete)

	r.Handle("/sections", user(sectionH.List)).Methods(http.MethodGet)
	r.Handle("/sections", manager(sectionH.Create)).Methods(http.MethodPost)
	r.Handle("/sections/{id}", user(sectionH.Get)).Methods(http.MethodGet)
	r.Handle("/sections/{id}", manager(sectionH.Update)).Methods(http.MethodPut)
	r.Handle("/sections/{id}", manager(sectionH.Delete)).Methods(http.MethodDelete)

	r.Handle("/shifts", user(shiftH.List)).Methods(http.MethodGet)
	r.Handle("/shifts", manager(shiftH.Create)).Methods(http.MethodPost)
	r.Handle("/shifts/{id}", user(shiftH.Get)).Methods(http.MethodGet)

	// team sheets
	r.Handle("/team-sheets", user(sheetH.List)).Methods(http.MethodGet)
	r.Handle("/team-sheets", manager(sheetH.Create)).Methods(http.MethodPost)
	r.Handle("/team-sheets/{id}", user(sheetH.Get)).Methods(http.MethodGet)
	r.Handle("/team-sheets/{id}", manager(sheetH.Update)).Methods(http.MethodPut)
	r.Handle("/team-sheets/{id}", manager(sheetH.Delete)).Methods(http.MethodDelete)
	r.Handle("/team-sheets/{id}/export/json", user(sheetH.ExportJSON)).Methods(http.MethodGet)
	r.Handle("/team-sheets/{id}/export/csv", user(sheetH.ExportCSV)).Methods(http.MethodGet)
	r.Handle("/team-sheets/{id}/print", user(sheetH.Print)).Methods(http.MethodGet)

	r.Handle("/teamsheet-presets", user(presetH.List)).Methods(http.MethodGet)
	r.Handle("/teamsheet-presets", manager(presetH.Upsert)).Methods(http.MethodPost)
	r.Handle("/daily-rosters", user(rosterH.List)).Methods(http.MethodGet)
	r.Handle("/daily-rosters", manager(rosterH.Upsert)).Methods(http.MethodPost)
	r.Handle("/store-preferences", user(prefH.List)).Methods(http.MethodGet)
	r.Handle("/store-preferences", manager(prefH.Upsert)).Methods(http.MethodPost)
	r.Handle("/imports/servers", manager(importH.Servers)).Methods(http.MethodPost)

	// sales and payouts
	r.Handle("/cobrands", user(cobrandH.List)).Methods(http.MethodGet)
	r.Handle("/cobrands", user(cobrandH.Create)).Methods(http.MethodPost)
	r.Handle("/cobrands/sellers", user(cobrandH.Sellers)).Methods(http.MethodGet)
	r.Handle("/gift-tracker", user(giftH.List)).Methods(http.MethodGet)
	r.Handle("/gift-tracker", manager(giftH.Upsert)).Methods(http.MethodPost)
	r.Handle("/seasons", user(seasonH.List)).Methods(http.MethodGet)
	r.Handle("/seasons", manager(seasonH.Upsert)).Methods(http.MethodPost)
	r.Handle("/seasons/{id}", manager(seasonH.Delete)).Methods(http.MethodDelete)

	r.Handle("/payouts/tiers", user(payoutH.ListTiers)).Methods(http.MethodGet)
	r.Handle("/payouts/tiers", manager(payoutH.CreateTier)).Methods(http.MethodPost)
	r.Handle("/payouts/tiers/{id}", manager(payoutH.UpdateTier)).Methods(http.MethodPut)
	r.Handle("/payouts/tiers/{id}", manager(payoutH.DeleteTier)).Methods(http.MethodDelete)
	r.Handle("/payouts/rules", user(payoutH.ListRules)).Methods(http.MethodGet)
	r.Handle("/payouts/rules", manager(payoutH.CreateRule)).Methods(http.MethodPost)
	r.Handle("/payouts/rules/{id}", manager(payoutH.UpdateRule)).Methods(http.MethodPut)
	r.Handle("/payouts/rules/{id}", manager(payoutH.DeleteRule)).Methods(http.MethodDelete)
	r.Handle("/payouts/prizes/assign", user(payoutH.ListAssignments)).Methods(http.MethodGet)
	r.Handle("/payouts/prizes/assign", manager(payoutH.AssignPrize)).Methods(http.MethodPost)
	r.Handle("/payouts/prizes", user(payoutH.ListPrizes)).Methods(http.MethodGet)
	r.Handle("/payouts/prizes", manager(payoutH.CreatePrize)).Methods(http.MethodPost)
	r.Handle("/payouts/prizes/{id}", manager(payoutH.UpdatePrize)).Methods(http.MethodPut)
	r.Handle("/payouts/prizes/{id}", manager(payoutH.DeletePrize)).Methods(http.MethodDelete)
	r.Handle("/payouts/adjustments", user(payoutH.ListAdjustments)).Methods(http.MethodGet)
	r.Handle("/payouts/adjustments", manager(payoutH.CreateAdjustment)).Methods(http.MethodPost)
	r.Handle("/payouts/summary", user(payoutH.Summary)).Methods(http.MethodGet)

	// point of sale
	r.Handle("/pos/menu-categories", user(posH.ListCategories)).Methods(http.MethodGet)
	r.Handle("/pos/menu-categories", manager(posH.CreateCategory)).Methods(http.MethodPost)
	r.Handle("/pos/menu-items", user(posH.ListMenuItems)).Methods(http.MethodGet)
	r.Handle("/pos/menu-items", manager(posH.CreateMenuItem)).Methods(http.MethodPost)
	r.Handle("/pos/orders", user(posH.ListOrders)).Methods(http.MethodGet)
	r.Handle("/pos/orders", user(posH.CreateOrder)).Methods(http.MethodPost)
	r.Handle("/pos/orders/{id}/items", user(posH.AddItem)).Methods(http.MethodPost)
	r.Handle("/pos/orders/{id}/close", manager(posH.Close)).Methods(http.MethodPost)
	r.Handle("/pos/orders/{id}/void", manager(posH.Void)).Methods(http.MethodPost)

	r.Handle("/inventory/ingredients", user(invH.ListIngredients)).Methods(http.MethodGet)
	r.Handle("/inventory/ingredients", manager(invH.CreateIngredient)).Methods(http.MethodPost)
	r.Handle("/inventory/recipes", user(invH.ListRecipes)).Methods(http.MethodGet)
	r.Handle("/inventory/recipes", manager(invH.CreateRecipe)).Methods(http.MethodPost)
	r.Handle("/inventory/receive", manager(invH.Receive)).Methods(http.MethodPost)
	r.Handle("/inventory/adjust", manager(invH.Adjust)).Methods(http.MethodPost)
	r.Handle("/inventory/stock-levels", user(invH.StockLevels)).Methods(http.MethodGet)

	// pyos
	r.Handle("/pyos/credits/me", user(pyosH.MyCredit)).Methods(http.MethodGet)
	r.Handle("/pyos/credits", manager(pyosH.ListCredits)).Methods(http.MethodGet)
	r.Handle("/pyos/credits/grant", manager(pyosH.Grant)).Methods(http.MethodPost)
	r.Handle("/pyos/requests", user(pyosH.ListRequests)).Methods(http.MethodGet)
	r.Handle("/pyos/requests", user(pyosH.CreateRequest)).Methods(http.MethodPost)
	r.Handle("/pyos/requests/manual", manager(pyosH.CreateManual)).Methods(http.MethodPost)
	r.Handle("/pyos/requests/{id}/approve", manager(pyosH.Approve)).Methods(http.MethodPost)
	r.Handle("/pyos/requests/{id}/deny", manager(pyosH.Deny)).Methods(http.MethodPost)
	r.Handle("/pyos/requests/{id}/revoke", manager(pyosH.Revoke)).Methods(http.MethodPost)
	r.Handle("/pyos/occupied", user(pyosH.Occupied)).Methods(http.MethodGet)
	r.Handle("/pyos/audit", manager(pyosH.Audit)).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", logging.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", logging.RequestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(r), nil
}
