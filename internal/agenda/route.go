package agenda

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *AgendaHandler, secured gin.HandlerFunc) {
	agendaGroup := r.Group("api/v1/agendas", secured)
	{
		agendaGroup.GET("", handler.ListAgendas)
		agendaGroup.POST("", handler.CreateAgenda)
		agendaGroup.PUT("/:id", handler.UpdateAgenda)
		agendaGroup.DELETE("/:id", handler.DeleteAgenda)
		agendaGroup.GET("/:id/export.ics", handler.ExportICS)
		agendaGroup.POST("/:id/import", handler.ImportICS)
	}
}
