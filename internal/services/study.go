package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/ai"
	"github.com/notehive/notehive/internal/config"
	"github.com/notehive/notehive/internal/validation"
	"github.com/notehive/notehive/pkg/models"
)

// StudyService turns pasted notes into summaries, quizzes or flashcards
// through a generative-AI provider and validates the structured output
// before returning it.
type StudyService struct {
	config    *config.AIConfig
	logger    *logrus.Logger
	providers map[string]ai.Provider
	validator *validation.SchemaValidator
}

func NewStudyService(cfg *config.AIConfig, logger *logrus.Logger, providers map[string]ai.Provider, validator *validation.SchemaValidator) *StudyService {
	return &StudyService{
		config:    cfg,
		logger:    logger,
		providers: providers,
		validator: validator,
	}
}

func (s *StudyService) Generate(ctx context.Context, req *models.StudyRequest) (*models.StudyResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", models.ErrInvalidInput)
	}
	if len(req.Text) > s.config.MaxTextLength {
		return nil, fmt.Errorf("%w: text exceeds maximum length of %d characters",
			models.ErrInvalidInput, s.config.MaxTextLength)
	}

	providerName := req.Provider
	if providerName == "" {
		providerName = s.config.Provider
	}
	provider, exists := s.providers[providerName]
	if !exists {
		return nil, fmt.Errorf("%w: unknown provider %q", models.ErrInvalidInput, providerName)
	}

	prompt, schemaName, err := buildStudyPrompt(req.Output, text)
	if err != nil {
		return nil, err
	}

	raw, err := provider.Generate(ctx, prompt, req.APIKey)
	if err != nil {
		return nil, fmt.Errorf("%s generation failed: %w", providerName, err)
	}

	document := stripCodeFences(raw)
	result, err := s.validator.ValidateJSONString(schemaName, document)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		s.logger.WithFields(logrus.Fields{
			"provider": providerName,
			"output":   req.Output,
			"errors":   result.Errors,
		}).Warn("Provider returned malformed study output")
		return nil, fmt.Errorf("%s returned output that failed validation: %s",
			providerName, strings.Join(result.Errors, "; "))
	}

	var studyResult models.StudyResult
	if err := json.Unmarshal([]byte(document), &studyResult); err != nil {
		return nil, fmt.Errorf("failed to decode study output: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"provider": providerName,
		"output":   req.Output,
		"chars":    len(text),
	}).Info("Study output generated")

	return &studyResult, nil
}

func buildStudyPrompt(output, text string) (prompt, schemaName string, err error) {
	switch output {
	case models.StudyOutputSummary:
		return "You are a study assistant. Summarize the following notes into a concise, " +
			"well-organized summary that captures the key concepts.\n" +
			`Respond with JSON of the form {"summary": "..."} and nothing else.` +
			"\n\nNotes:\n" + text, validation.SchemaStudySummary, nil
	case models.StudyOutputQuiz:
		return "You are a study assistant. Create a multiple-choice quiz of 5 questions " +
			"from the following notes.\n" +
			`Respond with JSON of the form {"quiz": [{"question": "...", "options": ` +
			`["...", "...", "...", "..."], "correctAnswer": 0, "explanation": "..."}]} ` +
			"where correctAnswer is the zero-based index of the right option, and nothing else." +
			"\n\nNotes:\n" + text, validation.SchemaStudyQuiz, nil
	case models.StudyOutputFlashcards:
		return "You are a study assistant. Create flashcards from the following notes.\n" +
			`Respond with JSON of the form {"flashcards": [{"front": "...", "back": "..."}]} ` +
			"and nothing else.\n\nNotes:\n" + text, validation.SchemaStudyFlashcards, nil
	default:
		return "", "", fmt.Errorf("%w: unknown output type %q", models.ErrInvalidInput, output)
	}
}

// stripCodeFences unwraps ```json ... ``` blocks some models emit despite
// being asked for bare JSON.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
