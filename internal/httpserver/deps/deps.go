package deps

import (
	"time"

	"github.com/eallion/cloudnav/internal/logger"
	"github.com/eallion/cloudnav/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Store store.KV // storage backend (redis in production, memory in tests)

	// AuthPassword is the write credential. Empty means writes are open
	// and checkAuth reports no auth requirement.
	AuthPassword string

	// FaviconTTL bounds cached favicon entries.
	FaviconTTL time.Duration

	// BackupTrigger requests an immediate backup snapshot (nil if
	// backups are disabled).
	BackupTrigger chan struct{}

	TrustProxy bool // true if running behind a trusted reverse proxy
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
