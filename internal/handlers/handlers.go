package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/config"
	"github.com/notehive/notehive/internal/services"
	"github.com/notehive/notehive/pkg/models"
)

type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	User       *UserHandler
	Group      *GroupHandler
	Membership *MembershipHandler
	Message    *MessageHandler
	AI         *AIHandler
}

func New(logger *logrus.Logger, cfg *config.Config, services *services.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(logger, services.Health),
		Auth:       NewAuthHandler(logger, services.Auth, services.Users),
		User:       NewUserHandler(logger, services.Users),
		Group:      NewGroupHandler(logger, services.Groups),
		Membership: NewMembershipHandler(logger, services.Memberships),
		Message:    NewMessageHandler(logger, services.Messages),
		AI:         NewAIHandler(logger, cfg, services.Study, services.Extract),
	}
}

// respondError maps service errors onto the uniform error envelope.
// NotFound means the resource does not exist; Forbidden means it exists
// but the caller lacks the required standing.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Resource not found",
			},
		})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to perform this action",
			},
		})
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_INPUT",
				"message": err.Error(),
			},
		})
	default:
		logger.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": "Internal server error",
			},
		})
	}
}

func respondBadRequest(c *gin.Context, code, message string, err error) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": body})
}
