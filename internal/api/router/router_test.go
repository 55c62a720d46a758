package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/huming2207/Teammates-SEPT/config"
	"github.com/huming2207/Teammates-SEPT/internal/api/handler"
	"github.com/huming2207/Teammates-SEPT/internal/metrics"
	"github.com/huming2207/Teammates-SEPT/internal/service"
	"github.com/huming2207/Teammates-SEPT/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(health HealthChecker) (*gin.Engine, *jwt.Manager) {
	cfg := &config.Config{
		Auth:   config.AuthConfig{JWTSecret: "router-test-secret-0123456789", AccessTokenTTL: time.Hour},
		Export: config.ExportConfig{RateLimit: 5, RateLimitWindow: time.Minute},
	}
	mgr := jwt.NewManager(&cfg.Auth)
	h := handler.NewHandler(&service.Service{}, nil, zap.NewNop())
	return Setup(cfg, h, mgr, nil, metrics.New(), health, zap.NewNop()), mgr
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetup_Health(t *testing.T) {
	r, _ := newTestEngine(nil)
	w := get(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	down, _ := newTestEngine(func() error { return errors.New("db down") })
	assert.Equal(t, http.StatusServiceUnavailable, get(down, "/health", "").Code)
}

func TestSetup_Metrics(t *testing.T) {
	r, _ := newTestEngine(nil)
	get(r, "/health", "")

	w := get(r, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "roster_http_requests_total")
}

func TestSetup_CoursesRequireInstructor(t *testing.T) {
	r, mgr := newTestEngine(nil)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/courses", "").Code)

	studToken, err := mgr.GenerateAccessToken("stud.google", jwt.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(r, "/api/v1/courses", studToken).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/api/v1/courses/CS2103/export", studToken).Code)
}
