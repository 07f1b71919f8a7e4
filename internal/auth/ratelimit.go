package auth

import (
	"fmt"
	"net/http"

	"github.com/KromaEnergia/teamsheet-api/internal/utils"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit throttles credential endpoints per client IP. rate uses the
// limiter format, e.g. "20-M".
func RateLimit(rate string) (func(http.Handler) http.Handler, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("login rate %q: %w", rate, err)
	}
	instance := limiter.New(memory.NewStore(), r)
	mw := stdlib.NewMiddleware(instance, stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusTooManyRequests, map[string]string{"detail": "Too many attempts, try again later"})
	}))
	return mw.Handler, nil
}
