package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/services"
)

type UserHandler struct {
	logger  *logrus.Logger
	userSvc services.UserServiceInterface
}

func NewUserHandler(logger *logrus.Logger, userSvc services.UserServiceInterface) *UserHandler {
	return &UserHandler{
		logger:  logger,
		userSvc: userSvc,
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
