package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagepoint/vantage-admin/internal/config"
	"github.com/vantagepoint/vantage-admin/internal/di/providers"
	"github.com/vantagepoint/vantage-admin/internal/service"
	"github.com/vantagepoint/vantage-admin/internal/session"
)

func testFlags(t *testing.T) config.Flags {
	t.Helper()
	dir := t.TempDir()
	return config.Flags{
		Env:           "development",
		LogLevel:      "error",
		EnvFile:       filepath.Join(dir, "missing.env"),
		APIURL:        "http://127.0.0.1:1",
		DataPath:      dir,
		Port:          "0",
		AdminPassword: "secret-password",
	}
}

func TestContainer_ResolvesServices(t *testing.T) {
	injector := NewContainer(testFlags(t))
	t.Cleanup(func() { _ = injector.Shutdown() })

	cfg := do.MustInvoke[*config.Config](injector)
	assert.Equal(t, "http://127.0.0.1:1", cfg.API.BaseURL)

	assert.NotNil(t, do.MustInvoke[*service.AuthService](injector))
	assert.NotNil(t, do.MustInvoke[*service.PostService](injector))
	assert.NotNil(t, do.MustInvoke[*service.AuthorService](injector))
	assert.NotNil(t, do.MustInvoke[*service.TagService](injector))
	assert.NotNil(t, do.MustInvoke[*service.MenuService](injector))
}

func TestContainer_SessionPersistsInStore(t *testing.T) {
	injector := NewContainer(testFlags(t))
	t.Cleanup(func() { _ = injector.Shutdown() })

	ctx := context.Background()
	sessions := do.MustInvoke[session.Store](injector)
	require.NoError(t, sessions.Set(ctx, session.Tokens{Access: "a", Refresh: "r"}))

	storeHandle := do.MustInvoke[*providers.StoreHandle](injector)
	pair, err := storeHandle.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", pair.AccessToken)
	assert.Equal(t, "r", pair.RefreshToken)
}

func TestContainer_DevServer(t *testing.T) {
	injector := NewContainer(testFlags(t))
	t.Cleanup(func() { _ = injector.Shutdown() })

	handle := do.MustInvoke[*providers.DevServerHandle](injector)
	assert.Equal(t, ":0", handle.HTTP.Addr)

	rec := httptest.NewRecorder()
	handle.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContainer_DevServerNeedsPassword(t *testing.T) {
	flags := testFlags(t)
	flags.AdminPassword = ""
	t.Setenv("DEVSERVER_ADMIN_PASSWORD", "")

	injector := NewContainer(flags)
	t.Cleanup(func() { _ = injector.Shutdown() })

	_, err := do.Invoke[*providers.DevServerHandle](injector)
	assert.Error(t, err)
}
