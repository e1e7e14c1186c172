package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/chris/rotmarket/pkg/api/problem"
	"github.com/go-chi/httprate"
)

// RateLimiter limits requests per IP.
func RateLimiter(rps int) func(http.Handler) http.Handler {
	return httprate.Limit(rps, time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			problem.Write(
				w,
				r,
				http.StatusTooManyRequests,
				problem.Type("rate-limit-exceeded"),
				"",
				fmt.Sprintf("Rate limit of %d req/s exceeded for this IP", rps),
			)
		}),
	)
}
