// Package reconciler keeps three copies of the link collection
// coherent: the in-memory working set, the local snapshot cache, and
// the remote storage collaborator. Writes are optimistic: local state
// commits first and the remote leg follows best effort.
package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/eallion/cloudnav/internal/cache"
	"github.com/eallion/cloudnav/internal/domain"
	"github.com/eallion/cloudnav/internal/logger"
	"github.com/eallion/cloudnav/internal/remote"
)

var (
	// ErrCredentialRequired means the remote requires a credential for
	// writes and none is stored. The local commit already happened.
	ErrCredentialRequired = errors.New("write requires a credential")

	// ErrNoData means neither the local cache nor the remote produced a
	// usable collection during bootstrap.
	ErrNoData = errors.New("no local or remote data available")
)

// Mutation is a pure transformation of the collection. It must not
// modify its inputs.
type Mutation func(links []domain.Link, categories []domain.Category) ([]domain.Link, []domain.Category, error)

// Remote is the slice of the storage client the reconciler needs.
type Remote interface {
	FetchData(ctx context.Context) ([]domain.Link, []domain.Category, error)
	CheckAuth(ctx context.Context) (bool, error)
	Push(ctx context.Context, credential string, links []domain.Link, categories []domain.Category) error
	FetchWebsiteConfig(ctx context.Context) (domain.WebsiteConfig, error)
}

// LocalCache is the snapshot cache collaborator.
type LocalCache interface {
	Load() (cache.Snapshot, bool)
	Save(cache.Snapshot) error
}

// Config carries the reconciler's collaborators and knobs.
type Config struct {
	Remote      Remote
	Cache       LocalCache
	Credentials *CredentialStore
	Log         logger.Logger

	// StatusDisplayFor is how long saved/error stays visible before the
	// status falls back to idle.
	StatusDisplayFor time.Duration

	// OnStatusChange and OnAuthRequired are optional observer hooks.
	OnStatusChange func(Status)
	OnAuthRequired func()
}

// Reconciler is the sync controller. All exported methods are safe for
// concurrent use.
type Reconciler struct {
	mu         sync.Mutex
	links      []domain.Link
	categories []domain.Category

	remote       Remote
	cache        LocalCache
	creds        *CredentialStore
	status       *StatusTracker
	log          logger.Logger
	requiresAuth bool
	onAuth       func()
}

func New(cfg Config) *Reconciler {
	displayFor := cfg.StatusDisplayFor
	if displayFor <= 0 {
		displayFor = 2 * time.Second
	}
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Reconciler{
		remote: cfg.Remote,
		cache:  cfg.Cache,
		creds:  cfg.Credentials,
		status: NewStatusTracker(displayFor, cfg.OnStatusChange),
		log:    log,
		onAuth: cfg.OnAuthRequired,
	}
}

// Bootstrap loads the collection stale-while-revalidate: the cached
// snapshot becomes the working set immediately, then the remote copy
// replaces it when the fetch succeeds. A fetch failure with a warm
// cache is logged and tolerated. It also re-judges the stored
// credential against the remote's own expiry window.
func (r *Reconciler) Bootstrap(ctx context.Context) error {
	var haveStale bool
	if snap, ok := r.cache.Load(); ok {
		r.mu.Lock()
		r.links, r.categories = snap.Links, snap.Categories
		r.mu.Unlock()
		haveStale = true
		r.log.Debug("bootstrap: serving cached snapshot",
			logger.Int("links", len(snap.Links)),
			logger.Int("categories", len(snap.Categories)))
	}

	requiresAuth, err := r.remote.CheckAuth(ctx)
	if err != nil {
		r.log.Warn("bootstrap: auth check failed, assuming auth required", logger.Error(err))
		requiresAuth = true
	}
	r.mu.Lock()
	r.requiresAuth = requiresAuth
	r.mu.Unlock()

	r.refreshCredential(ctx)

	links, categories, err := r.remote.FetchData(ctx)
	if err != nil {
		if haveStale {
			r.log.Warn("bootstrap: remote fetch failed, keeping cached snapshot", logger.Error(err))
			return nil
		}
		return ErrNoData
	}

	r.mu.Lock()
	r.links, r.categories = links, categories
	snap := cache.Snapshot{Links: links, Categories: categories}
	r.mu.Unlock()

	if err := r.cache.Save(snap); err != nil {
		r.log.Warn("bootstrap: cache save failed", logger.Error(err))
	}
	return nil
}

// refreshCredential drops a credential that looks stale under the
// default expiry window unless the remote's website config proves it is
// still inside the configured window.
func (r *Reconciler) refreshCredential(ctx context.Context) {
	if r.creds == nil {
		return
	}
	cred, ok := r.creds.Load()
	if !ok {
		return
	}
	now := time.Now()
	if !cred.Expired(domain.DefaultPasswordExpiry(), now) {
		return
	}

	cfg, err := r.remote.FetchWebsiteConfig(ctx)
	if err == nil && !cred.Expired(cfg.PasswordExpiry, now) {
		r.log.Debug("credential stale under default window but valid under remote window")
		return
	}
	r.log.Info("clearing expired credential")
	if err := r.creds.Clear(); err != nil {
		r.log.Warn("credential clear failed", logger.Error(err))
	}
}

// SetCredential stores a new write credential. Without a credential
// store the token has nowhere to live and is dropped.
func (r *Reconciler) SetCredential(token string) error {
	if r.creds == nil {
		return nil
	}
	return r.creds.Save(token)
}

// RequiresAuth reports whether the remote demands a credential for
// writes, as learned during Bootstrap.
func (r *Reconciler) RequiresAuth() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requiresAuth
}

// Status returns the current save status.
func (r *Reconciler) Status() Status {
	return r.status.Current()
}

// Snapshot returns copies of the working set.
func (r *Reconciler) Snapshot() ([]domain.Link, []domain.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	links := make([]domain.Link, len(r.links))
	copy(links, r.links)
	categories := make([]domain.Category, len(r.categories))
	copy(categories, r.categories)
	return links, categories
}

// Apply runs the mutation and commits the result locally before the
// remote write. A mutation error aborts with no state change. Remote
// failures never roll back the local commit; a 401 additionally clears
// the stored credential since retrying with it is pointless.
func (r *Reconciler) Apply(ctx context.Context, m Mutation) error {
	r.mu.Lock()
	links, categories, err := m(r.links, r.categories)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.links, r.categories = links, categories
	snap := cache.Snapshot{Links: links, Categories: categories}
	requiresAuth := r.requiresAuth
	r.mu.Unlock()

	if err := r.cache.Save(snap); err != nil {
		r.log.Warn("cache save failed", logger.Error(err))
	}

	r.status.Begin()

	var token string
	if r.creds != nil {
		if cred, ok := r.creds.Load(); ok {
			token = cred.Token
		}
	}
	if requiresAuth && token == "" {
		r.log.Warn("remote write skipped: credential required but none stored")
		r.notifyAuthRequired()
		r.status.Finish(ErrCredentialRequired)
		return ErrCredentialRequired
	}

	if err := r.remote.Push(ctx, token, snap.Links, snap.Categories); err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			r.log.Warn("remote rejected credential, clearing it")
			if r.creds != nil {
				if cerr := r.creds.Clear(); cerr != nil {
					r.log.Warn("credential clear failed", logger.Error(cerr))
				}
			}
			r.notifyAuthRequired()
		} else {
			r.log.Error("remote write failed", logger.Error(err))
		}
		r.status.Finish(err)
		return err
	}

	r.status.Finish(nil)
	return nil
}

func (r *Reconciler) notifyAuthRequired() {
	if r.onAuth != nil {
		r.onAuth()
	}
}
