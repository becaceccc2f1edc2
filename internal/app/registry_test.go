package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hr-lite/internal/config"
	"hr-lite/internal/media"
	"hr-lite/internal/middleware"
	"hr-lite/internal/shared/apperror"
	"hr-lite/internal/shared/database/dbtest"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	os.Exit(m.Run())
}

func setupRouter(t *testing.T, rdb *redis.Client) (*gin.Engine, string) {
	t.Helper()

	gormDB, sqlDB, _ := dbtest.New(t)
	root := t.TempDir()

	router := gin.New()
	registerModules(router, Dependencies{
		GormDB:         gormDB,
		DB:             sqlDB,
		Redis:          rdb,
		Store:          media.NewLocalStore(root, "/media", zap.NewNop()),
		Media:          config.MediaConfig{Root: root, URLPrefix: "/media"},
		IdempotencyTTL: time.Hour,
		Logger:         zap.NewNop(),
	})

	return router, root
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterModules_Health(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRegisterModules_ServesMedia(t *testing.T) {
	router, root := setupRouter(t, nil)

	dir := filepath.Join(root, "employees")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("jpeg-bytes"), 0o644))

	w := serve(router, httptest.NewRequest(http.MethodGet, "/media/employees/a.jpg", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg-bytes", w.Body.String())

	w = serve(router, httptest.NewRequest(http.MethodGet, "/media/employees/missing.jpg", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterModules_RoutesReachHandlers(t *testing.T) {
	router, _ := setupRouter(t, nil)

	tests := []struct {
		name string
		path string
	}{
		{"department id", "/departments/not-a-uuid"},
		{"position id", "/positions/not-a-uuid"},
		{"employee id", "/employees/not-a-uuid"},
		{"employee limit", "/employees?limit=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var body struct {
				Ok    bool `json:"ok"`
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Ok)
			assert.Equal(t, apperror.CodeValidation, body.Error.Code)
		})
	}
}

func TestRegisterModules_IdempotentEmployeeCreate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	router, _ := setupRouter(t, rdb)

	cached := `{"status":201,"content_type":"application/json; charset=utf-8","body":"eyJvayI6dHJ1ZX0="}`
	mock.ExpectGet("idemp:/employees:retry-1").SetVal(cached)

	req := httptest.NewRequest(http.MethodPost, "/employees", nil)
	req.Header.Set(middleware.HeaderIdempotencyKey, "retry-1")
	w := serve(router, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get(middleware.HeaderReplayed))
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
