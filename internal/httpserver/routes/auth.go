package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eallion/cloudnav/internal/httpserver/deps"
	"github.com/eallion/cloudnav/internal/httpserver/handlers"
	"github.com/eallion/cloudnav/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	// Tight limit: this endpoint takes password guesses.
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             5,
		RefillPerIPPerMin: 10,
		MaxEntries:        4096,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})).Post("/api/auth", handlers.Login(d))
}
