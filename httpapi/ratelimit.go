package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Limit builds a limiter admitting perMinute requests with bursts of burst.
// A non-positive perMinute disables limiting.
func Limit(perMinute, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

// rateLimitMiddleware answers 429 once the limiter's budget is spent.
func rateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			reservation := limiter.Reserve()
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(delay.Round(time.Second)/time.Second)+1))
				entry(r).WithField("retry_after", delay).Warn("rate limited")
				writeJSON(w, http.StatusTooManyRequests, map[string]any{"success": false, "error": "too many requests"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
