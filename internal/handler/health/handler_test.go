package health

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, pingErr error, redisUp bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectPing().WillReturnError(pingErr)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	if !redisUp {
		mr.Close()
	}

	r := gin.New()
	NewHandler(sqlx.NewDb(db, "postgres"), rdb).RegisterRoutes(&r.RouterGroup)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestLiveness(t *testing.T) {
	w := get(newEngine(t, nil, false), "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		redisUp  bool
		wantCode int
		reason   string
	}{
		{"all up", nil, true, http.StatusOK, ""},
		{"database down", errors.New("connection refused"), true, http.StatusServiceUnavailable, "Database connection failed"},
		{"redis down", nil, false, http.StatusServiceUnavailable, "Session store connection failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(newEngine(t, tt.pingErr, tt.redisUp), "/health/ready")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.reason)
		})
	}
}
