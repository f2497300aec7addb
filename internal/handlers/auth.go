package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/services"
	"github.com/notehive/notehive/pkg/models"
)

type AuthHandler struct {
	logger    *logrus.Logger
	authSvc   *services.AuthService
	userSvc   services.UserServiceInterface
	validator *validator.Validate
}

func NewAuthHandler(logger *logrus.Logger, authSvc *services.AuthService, userSvc services.UserServiceInterface) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		authSvc:   authSvc,
		userSvc:   userSvc,
		validator: validator.New(),
	}
}

// Token mints a session token for a resolved subject and upserts the
// caller's profile row.
func (h *AuthHandler) Token(c *gin.Context) {
	var request models.AuthRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "INVALID_JSON", "Invalid JSON format", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		respondBadRequest(c, "VALIDATION_FAILED", "Request validation failed", err)
		return
	}

	subject, err := uuid.Parse(request.Subject)
	if err != nil {
		respondBadRequest(c, "INVALID_SUBJECT", "Subject must be a UUID", err)
		return
	}

	token, expiresAt, err := h.authSvc.GenerateToken(subject, request.Name, request.Email, request.AvatarURL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	userID := services.UserIDFromSubject(subject)
	user, err := h.userSvc.EnsureUser(c.Request.Context(), &models.User{
		ID:        userID,
		Name:      request.Name,
		Email:     request.Email,
		AvatarURL: request.AvatarURL,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
	})
}
