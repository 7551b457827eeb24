package event

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *EventHandler, secured gin.HandlerFunc) {
	eventGroup := r.Group("api/v1/events", secured)
	{
		eventGroup.POST("", handler.CreateEvent)
		eventGroup.GET("", handler.GetOccurrences)
		eventGroup.GET("/:id", handler.GetEvent)
		eventGroup.GET("/:id/occurrences", handler.ExpandEvent)
		eventGroup.PUT("/:id", handler.UpdateEvent)
		eventGroup.DELETE("/:id", handler.DeleteEvent)
		eventGroup.POST("/:id/move", handler.MoveEvent)
	}
}
