package constants

type contextKey string

// TokenKey carries the caller's raw bearer token through a context.Context.
const TokenKey contextKey = "token"

// Keys stored on *gin.Context by the auth middleware.
const (
	Token     = "token"
	UserIDKey = "user_id"
)

const (
	DefaultEmoji       = "📅"
	DefaultAgendaName  = "Mon agenda"
	DefaultAgendaColor = "#3788d8"
	HolidayAgendaID    = "holidays"
)
