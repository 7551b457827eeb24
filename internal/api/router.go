package api

import (
	"net/http"

	"agenda-service/helper"
	"agenda-service/internal/agenda"
	"agenda-service/internal/event"
	"agenda-service/internal/metrics"
	"agenda-service/internal/middleware"
	"agenda-service/internal/realtime"
	"agenda-service/internal/user"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Events  *event.EventHandler
	Agendas *agenda.AgendaHandler
	Users   *user.UserHandler
	Hub     *realtime.Hub
}

// NewRouter wires every route behind the shared middleware chain.
// Health and metrics endpoints stay outside the rate limiter.
func NewRouter(h Handlers, secured gin.HandlerFunc, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		helper.SendSuccess(c, http.StatusOK, "ok", nil)
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	limited := r.Group("", limiter.Middleware())
	limited.GET("/api/v1/ws", secured, h.Hub.ServeWS)

	user.RegisterRoutes(limited, h.Users, secured)
	agenda.RegisterRoutes(limited, h.Agendas, secured)
	event.RegisterRoutes(limited, h.Events, secured)

	return r
}
