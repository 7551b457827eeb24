package event

import (
	"fmt"
	"strings"

	"agenda-service/internal/recurrence"
)

type RecurrenceRequest struct {
	Type       string  `json:"type"`
	Interval   *int    `json:"interval,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	DaysOfWeek []int   `json:"days_of_week,omitempty"`
}

// ToRule converts the request into a stored rule. Type "none" or an empty
// type yields nil; a missing interval defaults to 1.
func (r *RecurrenceRequest) ToRule() (*recurrence.Rule, error) {
	if r == nil {
		return nil, nil
	}
	typ := recurrence.Type(strings.ToLower(strings.TrimSpace(r.Type)))
	if typ == "" || typ == recurrence.TypeNone {
		return nil, nil
	}

	rule := &recurrence.Rule{Type: typ, Interval: 1, DaysOfWeek: r.DaysOfWeek}
	if r.Interval != nil {
		rule.Interval = *r.Interval
	}
	if r.EndDate != nil && strings.TrimSpace(*r.EndDate) != "" {
		d, err := EncodeDate(*r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date: %v", recurrence.ErrInvalidRecurrenceRule, err)
		}
		rule.EndDate = &d
	}
	return rule, nil
}

type CreateEventRequest struct {
	AgendaID    string             `json:"agenda_id" binding:"required"`
	Title       string             `json:"title" binding:"required,max=200"`
	Description string             `json:"description" binding:"max=1000"`
	Emoji       string             `json:"emoji" binding:"max=16"`
	Start       string             `json:"start" binding:"required"`
	End         string             `json:"end"`
	AllDay      bool               `json:"all_day"`
	Recurrence  *RecurrenceRequest `json:"recurrence,omitempty"`
}

type UpdateEventRequest struct {
	Title       *string            `json:"title,omitempty" binding:"omitempty,max=200"`
	Description *string            `json:"description,omitempty" binding:"omitempty,max=1000"`
	Emoji       *string            `json:"emoji,omitempty" binding:"omitempty,max=16"`
	Start       *string            `json:"start,omitempty"`
	End         *string            `json:"end,omitempty"`
	AllDay      *bool              `json:"all_day,omitempty"`
	Recurrence  *RecurrenceRequest `json:"recurrence,omitempty"`
}

// reschedules reports whether applying r would move the event in time.
func (r *UpdateEventRequest) reschedules() bool {
	return r.Start != nil || r.End != nil || r.AllDay != nil
}

type MoveEventRequest struct {
	TargetAgendaID string `json:"target_agenda_id" binding:"required"`
}
