package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/services"
	"github.com/notehive/notehive/pkg/models"
)

type MembershipHandler struct {
	logger        *logrus.Logger
	membershipSvc services.MembershipServiceInterface
	validator     *validator.Validate
}

func NewMembershipHandler(logger *logrus.Logger, membershipSvc services.MembershipServiceInterface) *MembershipHandler {
	return &MembershipHandler{
		logger:        logger,
		membershipSvc: membershipSvc,
		validator:     validator.New(),
	}
}

func (h *MembershipHandler) ListForGroup(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	memberships, err := h.membershipSvc.ListForGroup(c.Request.Context(), userID, groupID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"memberships": memberships,
			"count":       len(memberships),
		},
	})
}

// GetMine returns the caller's membership for the group, or null.
func (h *MembershipHandler) GetMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	membership, err := h.membershipSvc.GetMine(c.Request.Context(), userID, groupID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": membership})
}

func (h *MembershipHandler) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	memberships, err := h.membershipSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"memberships": memberships,
			"count":       len(memberships),
		},
	})
}

func (h *MembershipHandler) Join(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	membership, err := h.membershipSvc.Join(c.Request.Context(), userID, groupID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": membership})
}

func (h *MembershipHandler) Leave(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	if err := h.membershipSvc.Leave(c.Request.Context(), userID, groupID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"left": true}})
}

func (h *MembershipHandler) SetRole(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var request models.SetRoleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "INVALID_JSON", "Invalid JSON format", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		respondBadRequest(c, "VALIDATION_FAILED", "Role validation failed", err)
		return
	}

	membership, err := h.membershipSvc.SetRole(c.Request.Context(), userID, groupID, targetID, request.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": membership})
}

func (h *MembershipHandler) Remove(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.membershipSvc.Remove(c.Request.Context(), userID, groupID, targetID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"removed": true}})
}
