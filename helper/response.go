package helper

import (
	"github.com/gin-gonic/gin"
)

const (
	ErrInvalidRequest   = "INVALID_REQUEST"
	ErrInvalidOperation = "INVALID_OPERATION"
	ErrNotFound         = "NOT_FOUND"
	ErrForbidden        = "FORBIDDEN"
	ErrConflict         = "CONFLICT"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrTooManyRequests  = "TOO_MANY_REQUESTS"
)

type APIResponse struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Error      string      `json:"error,omitempty"`
	ErrorCode  string      `json:"error_code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

func SendSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

func SendError(c *gin.Context, statusCode int, err error, errorCode string) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Message:    "error",
		Error:      msg,
		ErrorCode:  errorCode,
	})
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, statusCode int, err error, errorCode string) {
	SendError(c, statusCode, err, errorCode)
	c.Abort()
}
