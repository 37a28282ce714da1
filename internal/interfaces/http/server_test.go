package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/pkg/auth"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (*Server, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	base := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{Name: "retail-backend-test", Environment: "test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
		},
		Security: config.SecurityConfig{RateLimitPerMinute: 100},
		POS:      config.POSConfig{ReportCacheTTL: time.Minute},
		Storage: config.StorageConfig{
			BackupDir: filepath.Join(base, "backups"),
			ExportDir: filepath.Join(base, "exports"),
			UploadDir: filepath.Join(base, "uploads"),
		},
	}

	gin.SetMode(gin.TestMode)
	s := NewServer(cfg, db, client)
	s.gin = gin.New()
	s.setupRoutes()
	return s, cfg
}

func accessToken(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(1, "tester", role)
	require.NoError(t, err)
	return token
}

func TestExportDownloadRoute(t *testing.T) {
	s, cfg := newTestServer(t)

	require.NoError(t, os.MkdirAll(cfg.Storage.ExportDir, 0o755))
	exported := filepath.Join(cfg.Storage.ExportDir, "users_123.csv")
	require.NoError(t, os.WriteFile(exported, []byte("id,username\n1,root\n"), 0o644))

	// Unauthenticated requests never reach the file
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/exports/users_123.csv", nil)
	s.gin.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Super admins download the exported rows
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/exports/users_123.csv", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg, "SUPER_ADMIN"))
	s.gin.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "id,username\n1,root\n", recorder.Body.String())

	// Other roles are rejected
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/exports/users_123.csv", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg, "CASHIER"))
	s.gin.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestStagedUploadDownloadRoute(t *testing.T) {
	s, cfg := newTestServer(t)

	require.NoError(t, os.MkdirAll(cfg.Storage.UploadDir, 0o755))
	staged := filepath.Join(cfg.Storage.UploadDir, "products.csv")
	require.NoError(t, os.WriteFile(staged, []byte("sku,name\nSKU-001,Widget\n"), 0o644))

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/uploads/products.csv", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg, "SUPER_ADMIN"))
	s.gin.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "sku,name\nSKU-001,Widget\n", recorder.Body.String())
}
