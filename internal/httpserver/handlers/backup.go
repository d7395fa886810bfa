package handlers

import (
	"net/http"

	"github.com/eallion/cloudnav/internal/httpserver/deps"
	"github.com/eallion/cloudnav/internal/logger"
)

// Backup triggers an immediate backup snapshot.
func Backup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, d) {
			writeError(w, http.StatusUnauthorized, "invalid or missing credential")
			return
		}
		if d.BackupTrigger == nil {
			writeError(w, http.StatusServiceUnavailable, "backups are disabled")
			return
		}

		select {
		case d.BackupTrigger <- struct{}{}:
			d.Logger.Info("manual backup triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, map[string]bool{"triggered": true})
		default:
			d.Logger.Warn("backup already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeError(w, http.StatusTooManyRequests, "backup already in progress")
		}
	}
}
