package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/services"
	"github.com/notehive/notehive/pkg/models"
)

type MessageHandler struct {
	logger     *logrus.Logger
	messageSvc services.MessageServiceInterface
	validator  *validator.Validate
}

func NewMessageHandler(logger *logrus.Logger, messageSvc services.MessageServiceInterface) *MessageHandler {
	return &MessageHandler{
		logger:     logger,
		messageSvc: messageSvc,
		validator:  validator.New(),
	}
}

func (h *MessageHandler) ListForGroup(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	messages, err := h.messageSvc.ListForGroup(c.Request.Context(), userID, groupID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"messages": messages,
			"count":    len(messages),
		},
	})
}

func (h *MessageHandler) Post(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	var request models.PostMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "INVALID_JSON", "Invalid JSON format", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		respondBadRequest(c, "VALIDATION_FAILED", "Message validation failed", err)
		return
	}
	if request.Message == nil && request.AttachmentURL == nil {
		respondBadRequest(c, "EMPTY_MESSAGE", "Message or attachment required", nil)
		return
	}

	message, err := h.messageSvc.Post(c.Request.Context(), userID, groupID, &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": message})
}

func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	messageID, ok := parseIDParam(c, "messageId")
	if !ok {
		return
	}

	if err := h.messageSvc.Delete(c.Request.Context(), userID, messageID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
