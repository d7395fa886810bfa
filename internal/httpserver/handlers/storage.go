package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eallion/cloudnav/internal/domain"
	"github.com/eallion/cloudnav/internal/httpserver/deps"
	"github.com/eallion/cloudnav/internal/logger"
	"github.com/eallion/cloudnav/internal/store"
	"github.com/eallion/cloudnav/internal/utils"
)

// AuthHeader carries the write credential: either the configured
// password or a session token issued by /api/auth.
const AuthHeader = "x-auth-password"

// StorageRead serves the read side of the unified storage endpoint.
// The operation is selected by query parameter.
func StorageRead(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		switch {
		case q.Get("checkAuth") == "true":
			configured := d.AuthPassword != ""
			writeJSON(w, http.StatusOK, map[string]bool{
				"hasPassword":    configured,
				"requiresAuth":   configured,
				"readOnlyAccess": true,
			})

		case q.Get("getConfig") == "true":
			serveData(w, r, d)

		case q.Get("getConfig") == "favicon":
			serveFavicon(w, r, d, q.Get("domain"))

		case q.Get("getConfig") != "":
			serveConfig(w, r, d, q.Get("getConfig"))

		default:
			writeError(w, http.StatusBadRequest, "unknown storage query")
		}
	}
}

func serveData(w http.ResponseWriter, r *http.Request, d deps.Deps) {
	ctx := r.Context()

	links := []domain.Link{}
	if raw, err := d.Store.Get(ctx, store.KeyLinks); err == nil {
		if err := json.Unmarshal(raw, &links); err != nil {
			d.Logger.Error("stored links blob is corrupt", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "stored data unreadable")
			return
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	categories := []domain.Category{}
	if raw, err := d.Store.Get(ctx, store.KeyCategories); err == nil {
		if err := json.Unmarshal(raw, &categories); err != nil {
			d.Logger.Error("stored categories blob is corrupt", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "stored data unreadable")
			return
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"links":      links,
		"categories": categories,
	})
}

func serveConfig(w http.ResponseWriter, r *http.Request, d deps.Deps, name string) {
	raw, err := d.Store.Get(r.Context(), store.ConfigKey(name))
	if errors.Is(err, store.ErrNotFound) {
		raw = []byte("{}")
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

// serveFavicon answers with the cached icon or a null miss. A miss is
// not an error, the caller falls back to fetching the icon itself.
func serveFavicon(w http.ResponseWriter, r *http.Request, d deps.Deps, host string) {
	if host == "" {
		writeError(w, http.StatusBadRequest, "domain parameter is required")
		return
	}
	raw, err := d.Store.Get(r.Context(), store.FaviconKey(host))
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"icon": nil, "cached": false})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"icon": string(raw), "cached": true})
}

type writeRequest struct {
	AuthOnly bool `json:"authOnly"`

	Links      []domain.Link     `json:"links"`
	Categories []domain.Category `json:"categories"`

	SaveConfig string          `json:"saveConfig"`
	Config     json.RawMessage `json:"config"`

	// Favicon puts carry the icon inline next to saveConfig=favicon.
	Domain string `json:"domain"`
	Icon   string `json:"icon"`
}

// StorageWrite serves the write side of the unified storage endpoint.
// Favicon puts are anonymous; everything else requires the credential
// when a password is configured.
func StorageWrite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer utils.Close(r.Body)

		var req writeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if req.SaveConfig == "favicon" {
			saveFavicon(w, r, d, req)
			return
		}

		if !authorized(r, d) {
			writeError(w, http.StatusUnauthorized, "invalid or missing credential")
			return
		}

		switch {
		case req.AuthOnly:
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

		case req.SaveConfig != "":
			if len(req.Config) == 0 {
				writeError(w, http.StatusBadRequest, "saveConfig requires a config body")
				return
			}
			if err := d.Store.Put(ctx, store.ConfigKey(req.SaveConfig), req.Config); err != nil {
				d.Logger.Error("config write failed",
					logger.String("name", req.SaveConfig), logger.Error(err))
				writeError(w, http.StatusInternalServerError, "storage unavailable")
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

		case req.Links != nil || req.Categories != nil:
			saveData(w, r, d, req)

		default:
			writeError(w, http.StatusBadRequest, "empty write request")
		}
	}
}

func saveData(w http.ResponseWriter, r *http.Request, d deps.Deps, req writeRequest) {
	ctx := r.Context()

	if req.Categories != nil {
		if err := domain.ValidateCategoryTree(req.Categories); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if req.Links != nil {
		raw, err := json.Marshal(req.Links)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unencodable links")
			return
		}
		if err := d.Store.Put(ctx, store.KeyLinks, raw); err != nil {
			d.Logger.Error("links write failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
	}
	if req.Categories != nil {
		raw, err := json.Marshal(req.Categories)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unencodable categories")
			return
		}
		if err := d.Store.Put(ctx, store.KeyCategories, raw); err != nil {
			d.Logger.Error("categories write failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
	}

	d.Logger.Info("data saved",
		logger.Int("links", len(req.Links)),
		logger.Int("categories", len(req.Categories)))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func saveFavicon(w http.ResponseWriter, r *http.Request, d deps.Deps, req writeRequest) {
	if req.Domain == "" || req.Icon == "" {
		writeError(w, http.StatusBadRequest, "domain and icon are required")
		return
	}
	if err := d.Store.PutTTL(r.Context(), store.FaviconKey(req.Domain), []byte(req.Icon), d.FaviconTTL); err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// authorized accepts the raw password or a live session token.
func authorized(r *http.Request, d deps.Deps) bool {
	if d.AuthPassword == "" {
		return true
	}
	cred := r.Header.Get(AuthHeader)
	if cred == "" {
		return false
	}
	if cred == d.AuthPassword {
		return true
	}
	_, err := d.Store.Get(r.Context(), store.TokenKey(cred))
	return err == nil
}
