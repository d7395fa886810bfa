package integration

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eallion/cloudnav/internal/cache"
	"github.com/eallion/cloudnav/internal/domain"
	"github.com/eallion/cloudnav/internal/httpserver/deps"
	"github.com/eallion/cloudnav/internal/httpserver/routes"
	"github.com/eallion/cloudnav/internal/logger"
	"github.com/eallion/cloudnav/internal/reconciler"
	"github.com/eallion/cloudnav/internal/remote"
	"github.com/eallion/cloudnav/internal/seed"
	"github.com/eallion/cloudnav/internal/store/memory"
)

// startServer runs the real storage service routes on an in-memory
// backend, seeded with the default collection.
func startServer(t *testing.T, password string) (*httptest.Server, deps.Deps) {
	t.Helper()
	d := deps.Deps{
		Logger:       logger.NewNop(),
		StartTime:    time.Now(),
		Store:        memory.NewStore(),
		AuthPassword: password,
		FaviconTTL:   time.Hour,
	}
	if err := seed.Ensure(context.Background(), d.Store, "", d.Logger); err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, d
}

func newClient(t *testing.T, srv *httptest.Server) (*reconciler.Reconciler, *reconciler.CredentialStore) {
	t.Helper()
	dir := t.TempDir()
	creds := reconciler.NewCredentialStore(filepath.Join(dir, "credential.json"))
	rec := reconciler.New(reconciler.Config{
		Remote:           remote.New(srv.URL, 2*time.Second),
		Cache:            cache.New(filepath.Join(dir, "snapshot.json")),
		Credentials:      creds,
		StatusDisplayFor: 10 * time.Millisecond,
	})
	return rec, creds
}

func TestFullSyncRoundTrip(t *testing.T) {
	srv, _ := startServer(t, "secret")
	rec, _ := newClient(t, srv)
	ctx := context.Background()

	if err := rec.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !rec.RequiresAuth() {
		t.Fatal("server with password must require auth")
	}
	seedLinks, _ := rec.Snapshot()
	if len(seedLinks) == 0 {
		t.Fatal("bootstrap served no seeded links")
	}

	// Log in and store the issued session token.
	token, err := remote.New(srv.URL, 2*time.Second).Login(ctx, "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := rec.SetCredential(token); err != nil {
		t.Fatalf("SetCredential: %v", err)
	}

	// A write goes through the full pipeline and lands on the server.
	err = rec.Apply(ctx, func(ls []domain.Link, cs []domain.Category) ([]domain.Link, []domain.Category, error) {
		return domain.AddLink(ls, cs, domain.NewLink{
			Title:      "Hacker News",
			URL:        "news.ycombinator.com",
			CategoryID: domain.CommonCategoryID,
		}, time.Now())
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// A second client sees the write after its own bootstrap.
	other, _ := newClient(t, srv)
	if err := other.Bootstrap(ctx); err != nil {
		t.Fatalf("second Bootstrap: %v", err)
	}
	links, _ := other.Snapshot()
	if len(links) != len(seedLinks)+1 {
		t.Fatalf("second client sees %d links, want %d", len(links), len(seedLinks)+1)
	}
	var found bool
	for _, l := range links {
		if l.URL == "https://news.ycombinator.com" {
			found = true
		}
	}
	if !found {
		t.Error("pushed link missing from second client's collection")
	}
}

func TestRejectedCredentialIsCleared(t *testing.T) {
	srv, _ := startServer(t, "secret")
	rec, creds := newClient(t, srv)
	ctx := context.Background()

	if err := rec.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := rec.SetCredential("not-the-password"); err != nil {
		t.Fatalf("SetCredential: %v", err)
	}

	err := rec.Apply(ctx, func(ls []domain.Link, cs []domain.Category) ([]domain.Link, []domain.Category, error) {
		return ls, cs, nil
	})
	if !errors.Is(err, remote.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, ok := creds.Load(); ok {
		t.Error("rejected credential still stored")
	}
}

func TestOpenInstanceNeedsNoCredential(t *testing.T) {
	srv, _ := startServer(t, "")
	rec, _ := newClient(t, srv)
	ctx := context.Background()

	if err := rec.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if rec.RequiresAuth() {
		t.Fatal("open server must not require auth")
	}

	err := rec.Apply(ctx, func(ls []domain.Link, cs []domain.Category) ([]domain.Link, []domain.Category, error) {
		return domain.AddLink(ls, cs, domain.NewLink{
			Title:      "Go blog",
			URL:        "go.dev/blog",
			CategoryID: domain.CommonCategoryID,
		}, time.Now())
	})
	if err != nil {
		t.Fatalf("Apply without credential: %v", err)
	}
}
