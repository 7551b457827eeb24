package user

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *UserHandler, secured gin.HandlerFunc) {
	authGroup := r.Group("api/v1/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
	}

	userGroup := r.Group("api/v1/users", secured)
	{
		userGroup.GET("/me", handler.Me)
		userGroup.POST("/me/devices", handler.AddDeviceToken)
		userGroup.DELETE("/me/devices", handler.RemoveDeviceToken)
	}
}
