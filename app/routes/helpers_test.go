package routes

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"newsportal/app/client"
	"newsportal/app/client/clienttest"
	"newsportal/app/config"
	"newsportal/app/logger"
	"newsportal/app/metrics"
	"newsportal/app/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func testConfig(backend *clienttest.Backend) *config.Config {
	return &config.Config{
		Env: "test",
		API: config.API{
			BaseURL:     backend.BaseURL(),
			AssetOrigin: backend.Server.URL,
		},
		Portal: config.Portal{
			FallbackImage: "https://placehold.co/no-image.png",
			MaxImageBytes: 5 << 20,
		},
		Session: config.Session{
			CookieName: "portal_session",
			Secret:     "test-secret",
		},
	}
}

func setupTestDB(t *testing.T) *badger.DB {
	db, err := repositories.OpenDB("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// setupTestServer runs the full router against a fake backend and returns a
// browser-like client that keeps cookies.
func setupTestServer(t *testing.T) (*httptest.Server, *http.Client, *clienttest.Backend) {
	backend := clienttest.NewBackend()
	t.Cleanup(backend.Close)

	log := logger.Discard()
	cfg := testConfig(backend)
	db := setupTestDB(t)
	router, err := SetupRoutes(Dependencies{
		Config:   cfg,
		API:      client.NewPostClient(cfg.API, log, metrics.Noop{}),
		Sessions: repositories.NewBadgerSessionRepository(db, 0),
		Uploads:  repositories.NewBadgerUploadRepository(db, 0),
		Metrics:  metrics.Noop{},
		Log:      log,
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return server, &http.Client{Jar: jar}, backend
}
