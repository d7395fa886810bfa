package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/eallion/cloudnav/internal/domain"
	"github.com/eallion/cloudnav/internal/httpserver/deps"
	"github.com/eallion/cloudnav/internal/logger"
	"github.com/eallion/cloudnav/internal/store"
	"github.com/eallion/cloudnav/internal/utils"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn,omitempty"` // seconds, 0 = permanent
}

// Login exchanges the configured password for a session token. The
// token's lifetime follows the passwordExpiry of the stored website
// config, defaulting to one week.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer utils.Close(r.Body)

		if d.AuthPassword == "" {
			writeError(w, http.StatusBadRequest, "authentication is not configured")
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Password != d.AuthPassword {
			writeError(w, http.StatusUnauthorized, "wrong password")
			return
		}

		expiry := domain.DefaultPasswordExpiry()
		if raw, err := d.Store.Get(ctx, store.ConfigKey("website")); err == nil {
			var cfg domain.WebsiteConfig
			if err := json.Unmarshal(raw, &cfg); err == nil {
				expiry = cfg.PasswordExpiry.Normalize()
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}

		token := uuid.NewString()
		value, _ := json.Marshal(map[string]int64{"createdAt": d.Now().UnixMilli()})

		window, bounded := expiry.Window()
		var err error
		if bounded {
			err = d.Store.PutTTL(ctx, store.TokenKey(token), value, window)
		} else {
			err = d.Store.Put(ctx, store.TokenKey(token), value)
		}
		if err != nil {
			d.Logger.Error("token write failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}

		resp := loginResponse{Token: token}
		if bounded {
			resp.ExpiresIn = int64(window.Seconds())
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
