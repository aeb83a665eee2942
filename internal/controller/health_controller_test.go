package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthBody struct {
	Code int `json:"code"`
	Data struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	} `json:"data"`
}

func probe(t *testing.T, hc *HealthController) (int, healthBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	hc.HealthCheck(c)

	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

func TestHealthCheck(t *testing.T) {
	db := testutil.NewDB(t)

	t.Run("cache disabled", func(t *testing.T) {
		code, body := probe(t, NewHealthController(db, nil))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Data.Status)
		assert.Equal(t, map[string]string{"database": "up", "cache": "disabled"}, body.Data.Components)
	})

	t.Run("cache unreachable", func(t *testing.T) {
		rdb := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		})
		t.Cleanup(func() { rdb.Close() })

		code, body := probe(t, NewHealthController(db, rdb))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", body.Data.Status)
		assert.Equal(t, "down", body.Data.Components["cache"])
	})
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	db := testutil.NewDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	code, body := probe(t, NewHealthController(db, nil))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "down", body.Data.Status)
	assert.Equal(t, "down", body.Data.Components["database"])
}
