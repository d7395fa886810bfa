package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eallion/cloudnav/internal/httpserver/deps"
	"github.com/eallion/cloudnav/internal/httpserver/handlers"
	"github.com/eallion/cloudnav/internal/httpserver/mw"
)

func init() { Register(registerStorage) }

func registerStorage(r chi.Router, d deps.Deps) {
	r.Get("/api/storage", handlers.StorageRead(d))
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             20,
		RefillPerIPPerMin: 60,
		MaxEntries:        4096,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})).Post("/api/storage", handlers.StorageWrite(d))
}
