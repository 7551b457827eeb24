package user

import (
	"errors"
	"net/http"

	"agenda-service/helper"
	"agenda-service/pkg/constants"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Register(c *gin.Context) {

	var req RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	res, err := h.userService.Register(c, &req)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, "success", res)

}

func (h *UserHandler) Login(c *gin.Context) {

	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	res, err := h.userService.Login(c, &req)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", res)

}

func (h *UserHandler) Me(c *gin.Context) {

	u, err := h.userService.GetUser(c, c.GetString(constants.UserIDKey))
	if err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", u)

}

func (h *UserHandler) AddDeviceToken(c *gin.Context) {

	var req DeviceTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	if err := h.userService.AddDeviceToken(c, c.GetString(constants.UserIDKey), req.Token); err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", nil)

}

func (h *UserHandler) RemoveDeviceToken(c *gin.Context) {

	var req DeviceTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	if err := h.userService.RemoveDeviceToken(c, c.GetString(constants.UserIDKey), req.Token); err != nil {
		sendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", nil)

}

func sendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		helper.SendError(c, http.StatusConflict, err, helper.ErrConflict)
	case errors.Is(err, ErrInvalidCredentials):
		helper.SendError(c, http.StatusUnauthorized, err, helper.ErrUnauthorized)
	case errors.Is(err, ErrUserNotFound):
		helper.SendError(c, http.StatusNotFound, err, helper.ErrNotFound)
	default:
		helper.SendError(c, http.StatusInternalServerError, err, helper.ErrInvalidOperation)
	}
}
