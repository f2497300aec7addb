package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/ai"
	"github.com/notehive/notehive/internal/config"
	"github.com/notehive/notehive/internal/database"
	"github.com/notehive/notehive/internal/messaging"
	"github.com/notehive/notehive/internal/validation"
	"github.com/notehive/notehive/pkg/models"
)

type Services struct {
	Auth          *AuthService
	Health        *HealthService
	RateLimit     *RateLimitService
	Authorization *AuthorizationService
	Users         *UserService
	Groups        *GroupService
	Memberships   *MembershipService
	Messages      *MessageService
	Study         *StudyService
	Extract       *ExtractService
	Events        *messaging.ActivityPublisher
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	authService := NewAuthService(cfg, logger, db.Redis)
	healthService := NewHealthService(cfg, logger, db)

	rateLimitStore, err := newRateLimitStore(cfg, db)
	if err != nil {
		return nil, err
	}
	rateLimitService := NewRateLimitService(&cfg.Auth.RateLimit, logger, rateLimitStore)

	events := messaging.NewActivityPublisher(cfg, logger)

	authorizationService := NewAuthorizationService(db.PG, logger)
	userService := NewUserService(db.PG, logger)
	groupService := NewGroupService(db.PG, logger, authorizationService)
	membershipService := NewMembershipService(db.PG, logger, authorizationService, events)
	messageService := NewMessageService(db.PG, logger, authorizationService, events)

	schemaValidator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to build schema validator: %w", err)
	}

	providers := map[string]ai.Provider{
		models.AIProviderOpenAI: ai.NewOpenAIClient(cfg.AI.OpenAI, cfg.AI.Timeout, logger),
		models.AIProviderGemini: ai.NewGeminiClient(cfg.AI.Gemini, cfg.AI.Timeout, logger),
	}
	studyService := NewStudyService(&cfg.AI, logger, providers, schemaValidator)
	extractService := NewExtractService(&cfg.AI, logger)

	return &Services{
		Auth:          authService,
		Health:        healthService,
		RateLimit:     rateLimitService,
		Authorization: authorizationService,
		Users:         userService,
		Groups:        groupService,
		Memberships:   membershipService,
		Messages:      messageService,
		Study:         studyService,
		Extract:       extractService,
		Events:        events,
	}, nil
}

func newRateLimitStore(cfg *config.Config, db *database.Database) (RateLimitStore, error) {
	switch cfg.Auth.RateLimit.Store {
	case "", "memory":
		return NewMemoryRateLimitStore(), nil
	case "redis":
		return NewRedisRateLimitStore(db.Redis), nil
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", cfg.Auth.RateLimit.Store)
	}
}

// Stop shuts down background workers and the event publisher.
func (s *Services) Stop() error {
	s.RateLimit.Stop()
	return s.Events.Close()
}
