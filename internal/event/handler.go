package event

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"agenda-service/helper"
	"agenda-service/internal/recurrence"
	"agenda-service/pkg/constants"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService EventService
}

func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {

	var req CreateEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	ev, err := h.eventService.CreateEvent(c, c.GetString(constants.UserIDKey), &req)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, "success", NewEventResponse(ev))

}

func (h *EventHandler) GetOccurrences(c *gin.Context) {

	start, end, err := parseWindowQuery(c)
	if err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	q := &OccurrenceQuery{
		AgendaIDs: splitList(c.Query("agenda_ids")),
		Start:     start,
		End:       end,
		Filter: Filter{
			Keywords: c.Query("keywords"),
			Emojis:   splitList(c.Query("emojis")),
		},
		Holidays: c.Query("holidays") == "true",
	}

	items, err := h.eventService.QueryOccurrences(c, c.GetString(constants.UserIDKey), q)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", NewOccurrenceResponses(items))

}

func (h *EventHandler) GetEvent(c *gin.Context) {

	ev, err := h.eventService.GetEventByID(c, c.GetString(constants.UserIDKey), c.Param("id"))
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", NewEventResponse(ev))

}

func (h *EventHandler) ExpandEvent(c *gin.Context) {

	start, end, err := parseWindowQuery(c)
	if err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	items, err := h.eventService.ExpandEvent(c, c.GetString(constants.UserIDKey), c.Param("id"), start, end)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", NewOccurrenceResponses(items))

}

func (h *EventHandler) UpdateEvent(c *gin.Context) {

	var req UpdateEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	ev, err := h.eventService.UpdateEvent(c, c.GetString(constants.UserIDKey), c.Param("id"), &req)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", NewEventResponse(ev))

}

func (h *EventHandler) DeleteEvent(c *gin.Context) {

	if err := h.eventService.DeleteEvent(c, c.GetString(constants.UserIDKey), c.Param("id")); err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", nil)

}

func (h *EventHandler) MoveEvent(c *gin.Context) {

	var req MoveEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	ev, err := h.eventService.MoveEvent(c, c.GetString(constants.UserIDKey), c.Param("id"), req.TargetAgendaID)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", NewEventResponse(ev))

}

// sendServiceError maps service errors onto HTTP statuses.
func sendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidEventDate),
		errors.Is(err, ErrInvalidCompositeID),
		errors.Is(err, recurrence.ErrInvalidRecurrenceRule):
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
	case errors.Is(err, ErrEventNotFound):
		helper.SendError(c, http.StatusNotFound, err, helper.ErrNotFound)
	case errors.Is(err, ErrAgendaForbidden):
		helper.SendError(c, http.StatusForbidden, err, helper.ErrForbidden)
	case errors.Is(err, ErrOccurrenceImmutable):
		helper.SendError(c, http.StatusConflict, err, helper.ErrConflict)
	default:
		helper.SendError(c, http.StatusInternalServerError, err, helper.ErrInvalidOperation)
	}
}

// parseWindowQuery reads optional start/end query values. Both accept
// RFC3339 or a bare date; a bare end date covers that whole day.
func parseWindowQuery(c *gin.Context) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if v := c.Query("start"); v != "" {
		t, err := parseQueryTime(v, false)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start: %w", err)
		}
		start = &t
	}

	if v := c.Query("end"); v != "" {
		t, err := parseQueryTime(v, true)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end: %w", err)
		}
		end = &t
	}

	return start, end, nil
}

func parseQueryTime(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidEventDate, v)
	}
	if endOfDay {
		return recurrence.EndOfDay(d), nil
	}
	return d, nil
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
