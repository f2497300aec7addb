package models

const (
	StudyOutputSummary    = "summary"
	StudyOutputQuiz       = "quiz"
	StudyOutputFlashcards = "flashcards"

	AIProviderOpenAI = "openai"
	AIProviderGemini = "gemini"
)

type StudyRequest struct {
	Text     string `json:"text" validate:"required"`
	Output   string `json:"output" validate:"required,oneof=summary quiz flashcards"`
	Provider string `json:"provider,omitempty" validate:"omitempty,oneof=openai gemini"`
	APIKey   string `json:"api_key,omitempty"`
}

type StudyResult struct {
	Summary    *string        `json:"summary,omitempty"`
	Quiz       []QuizQuestion `json:"quiz,omitempty"`
	Flashcards []Flashcard    `json:"flashcards,omitempty"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   *string  `json:"explanation,omitempty"`
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type ExtractResult struct {
	Text      string `json:"text"`
	Pages     int    `json:"pages"`
	Truncated bool   `json:"truncated"`
}
