package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/services"
	"github.com/notehive/notehive/pkg/models"
)

type GroupHandler struct {
	logger    *logrus.Logger
	groupSvc  services.GroupServiceInterface
	validator *validator.Validate
}

func NewGroupHandler(logger *logrus.Logger, groupSvc services.GroupServiceInterface) *GroupHandler {
	return &GroupHandler{
		logger:    logger,
		groupSvc:  groupSvc,
		validator: validator.New(),
	}
}

func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var request models.CreateGroupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "INVALID_JSON", "Invalid JSON format", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		respondBadRequest(c, "VALIDATION_FAILED", "Group validation failed", err)
		return
	}

	group, err := h.groupSvc.Create(c.Request.Context(), userID, &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": group})
}

func (h *GroupHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	group, err := h.groupSvc.Get(c.Request.Context(), userID, groupID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": group})
}

func (h *GroupHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	groups, err := h.groupSvc.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"groups": groups,
			"count":  len(groups),
		},
	})
}

func (h *GroupHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	var request models.UpdateGroupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "INVALID_JSON", "Invalid JSON format", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		respondBadRequest(c, "VALIDATION_FAILED", "Group validation failed", err)
		return
	}

	group, err := h.groupSvc.Update(c.Request.Context(), userID, groupID, &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": group})
}

func (h *GroupHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	if err := h.groupSvc.Delete(c.Request.Context(), userID, groupID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
