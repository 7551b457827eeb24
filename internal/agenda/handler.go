package agenda

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"agenda-service/helper"
	"agenda-service/pkg/constants"

	"github.com/gin-gonic/gin"
)

// maxImportBytes bounds an uploaded calendar.
const maxImportBytes = 5 << 20

type AgendaHandler struct {
	agendaService AgendaService
}

func NewAgendaHandler(agendaService AgendaService) *AgendaHandler {
	return &AgendaHandler{
		agendaService: agendaService,
	}
}

func (h *AgendaHandler) ListAgendas(c *gin.Context) {

	agendas, err := h.agendaService.ListAgendas(c, c.GetString(constants.UserIDKey))
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", agendas)

}

func (h *AgendaHandler) CreateAgenda(c *gin.Context) {

	var req CreateAgendaRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	agenda, err := h.agendaService.CreateAgenda(c, c.GetString(constants.UserIDKey), &req)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, "success", agenda)

}

func (h *AgendaHandler) UpdateAgenda(c *gin.Context) {

	var req UpdateAgendaRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	agenda, err := h.agendaService.UpdateAgenda(c, c.GetString(constants.UserIDKey), c.Param("id"), &req)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", agenda)

}

func (h *AgendaHandler) DeleteAgenda(c *gin.Context) {

	if err := h.agendaService.DeleteAgenda(c, c.GetString(constants.UserIDKey), c.Param("id")); err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", nil)

}

func (h *AgendaHandler) ExportICS(c *gin.Context) {

	agenda, body, err := h.agendaService.ExportICS(c, c.GetString(constants.UserIDKey), c.Param("id"))
	if err != nil {
		sendServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName(agenda.Name)))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))

}

func (h *AgendaHandler) ImportICS(c *gin.Context) {

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	res, err := h.agendaService.ImportICS(c, c.GetString(constants.UserIDKey), c.Param("id"), body)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", res)

}

func sendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
	case errors.Is(err, ErrAgendaNotFound):
		helper.SendError(c, http.StatusNotFound, err, helper.ErrNotFound)
	case errors.Is(err, ErrDuplicateName), errors.Is(err, ErrLastAgenda):
		helper.SendError(c, http.StatusConflict, err, helper.ErrConflict)
	case errors.Is(err, ErrForbidden):
		helper.SendError(c, http.StatusForbidden, err, helper.ErrForbidden)
	default:
		helper.SendError(c, http.StatusInternalServerError, err, helper.ErrInvalidOperation)
	}
}

func fileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, name)
	if clean == "" {
		clean = "agenda"
	}
	return clean + ".ics"
}
