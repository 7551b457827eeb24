package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"agenda-service/internal/agenda"
	"agenda-service/internal/event"
	"agenda-service/internal/middleware"
	"agenda-service/internal/realtime"
	"agenda-service/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testRouter(limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Handlers{
		Events:  event.NewEventHandler(nil),
		Agendas: agenda.NewAgendaHandler(nil),
		Users:   user.NewUserHandler(nil),
		Hub:     realtime.NewHub(zap.NewNop().Sugar()),
	}, middleware.Secured([]byte("secret")), limiter)
}

func get(r http.Handler, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := testRouter(middleware.NewRateLimiter(100, 100))

	assert.Equal(t, http.StatusOK, get(r, "/health"))
	assert.Equal(t, http.StatusOK, get(r, "/metrics"))
}

func TestRouter_ProtectedEndpointsNeedToken(t *testing.T) {
	r := testRouter(middleware.NewRateLimiter(100, 100))

	for _, path := range []string{"/api/v1/events", "/api/v1/agendas", "/api/v1/users/me", "/api/v1/ws"} {
		assert.Equal(t, http.StatusUnauthorized, get(r, path), path)
	}
}

func TestRouter_RateLimitSparesHealth(t *testing.T) {
	r := testRouter(middleware.NewRateLimiter(0.001, 1))

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/events"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/api/v1/events"))
	assert.Equal(t, http.StatusOK, get(r, "/health"))
}
