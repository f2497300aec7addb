package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/notehive/notehive/internal/config"
	"github.com/notehive/notehive/pkg/models"
)

// ExtractService pulls plain text out of uploaded PDFs so it can feed
// the study helper.
type ExtractService struct {
	config *config.AIConfig
	logger *logrus.Logger
}

func NewExtractService(cfg *config.AIConfig, logger *logrus.Logger) *ExtractService {
	return &ExtractService{
		config: cfg,
		logger: logger,
	}
}

// ExtractPDF reads every page's text, normalizes it and enforces the
// study text ceiling. Pages whose text cannot be decoded are skipped.
func (s *ExtractService) ExtractPDF(r io.ReaderAt, size int64) (*models.ExtractResult, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable PDF file", models.ErrInvalidInput)
	}

	var builder strings.Builder
	pages := reader.NumPage()
	for pageNum := 1; pageNum <= pages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			s.logger.WithError(err).WithField("page", pageNum).
				Warn("Failed to extract text from PDF page")
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n\n")
	}

	text := normalizeText(builder.String())
	truncated := false
	if len(text) > s.config.MaxTextLength {
		text = truncateText(text, s.config.MaxTextLength)
		truncated = true
	}

	if text == "" {
		return nil, fmt.Errorf("%w: no extractable text in PDF", models.ErrInvalidInput)
	}

	return &models.ExtractResult{
		Text:      text,
		Pages:     pages,
		Truncated: truncated,
	}, nil
}

// normalizeText applies NFC normalization and collapses runs of
// horizontal whitespace while keeping paragraph breaks.
func normalizeText(text string) string {
	text = norm.NFC.String(text)

	paragraphs := strings.Split(text, "\n\n")
	cleaned := make([]string, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		collapsed := strings.Join(strings.Fields(paragraph), " ")
		if collapsed != "" {
			cleaned = append(cleaned, collapsed)
		}
	}

	return strings.Join(cleaned, "\n\n")
}

// truncateText cuts at a rune boundary at or below limit bytes.
func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return strings.TrimSpace(text[:cut])
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
