package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
	"github.com/bobmcallan/marketdesk/internal/storage/tokenstore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marketdesk.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewApp_WiresServices(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, `
[backend]
base_url = "http://127.0.0.1:1/api"

[storage]
path = "`+filepath.Join(dir, "sessions")+`"

[trading]
min_order_value = 25

[logging]
level = "error"
outputs = ["console"]
`)

	a, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.Equal(t, "http://127.0.0.1:1/api", a.Config.Backend.BaseURL)
	assert.Equal(t, 25.0, a.Config.Trading.MinOrderValue)
	assert.NotNil(t, a.Client)
	assert.NotNil(t, a.SessionService)
	assert.NotNil(t, a.PortfolioService)
	assert.NotNil(t, a.TradingService)
	assert.NotNil(t, a.NotificationService)
	assert.NotNil(t, a.AdminService)
	assert.NotNil(t, a.ReportService)
	assert.False(t, a.StartupTime.IsZero())
	assert.DirExists(t, filepath.Join(dir, "sessions"))
}

func TestNewApp_EnvOverridesFile(t *testing.T) {
	t.Setenv("MARKETDESK_BACKEND_URL", "http://backend.internal/api/")
	cfg := writeConfig(t, `
[storage]
path = "`+filepath.Join(t.TempDir(), "sessions")+`"
`)

	a, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	assert.Equal(t, "http://backend.internal/api", a.Config.Backend.BaseURL)
}

func TestPurgeSessions_ClearsNotificationFeeds(t *testing.T) {
	logger := common.NewSilentLogger()
	store, err := tokenstore.NewStore(logger, t.TempDir())
	require.NoError(t, err)
	a := NewAppWithStore(common.NewDefaultConfig(), logger, store)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.SaveSession(ctx, &models.Session{ID: "old", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.SaveSession(ctx, &models.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}))

	oldCtx := common.WithSession(ctx, &common.SessionContext{SessionID: "old"})
	liveCtx := common.WithSession(ctx, &common.SessionContext{SessionID: "live"})
	a.NotificationService.Notify(oldCtx, models.NotificationInfo, "stale", "")
	a.NotificationService.Notify(liveCtx, models.NotificationInfo, "fresh", "")

	purgeSessions(ctx, a.SessionService, logger)

	_, err = store.GetSession(ctx, "old")
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	_, err = store.GetSession(ctx, "live")
	assert.NoError(t, err)

	assert.Empty(t, a.NotificationService.List(oldCtx), "purged session feed is dropped")
	assert.Len(t, a.NotificationService.List(liveCtx), 1)
}

func TestInvalidate_ClearsNotificationFeed(t *testing.T) {
	logger := common.NewSilentLogger()
	store, err := tokenstore.NewStore(logger, t.TempDir())
	require.NoError(t, err)
	a := NewAppWithStore(common.NewDefaultConfig(), logger, store)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.SaveSession(ctx, &models.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}))
	sctx := common.WithSession(ctx, &common.SessionContext{SessionID: "s1"})
	a.NotificationService.Notify(sctx, models.NotificationInfo, "hello", "")

	a.SessionService.Invalidate(ctx, "s1")
	assert.Empty(t, a.NotificationService.List(sctx))
}
