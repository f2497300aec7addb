package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/config"
	"github.com/notehive/notehive/internal/services"
	"github.com/notehive/notehive/pkg/models"
)

type AIHandler struct {
	logger     *logrus.Logger
	config     *config.Config
	studySvc   services.StudyServiceInterface
	extractSvc *services.ExtractService
	validator  *validator.Validate
}

func NewAIHandler(logger *logrus.Logger, cfg *config.Config, studySvc services.StudyServiceInterface, extractSvc *services.ExtractService) *AIHandler {
	return &AIHandler{
		logger:     logger,
		config:     cfg,
		studySvc:   studySvc,
		extractSvc: extractSvc,
		validator:  validator.New(),
	}
}

func (h *AIHandler) Study(c *gin.Context) {
	var request models.StudyRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "INVALID_JSON", "Invalid JSON format", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		respondBadRequest(c, "VALIDATION_FAILED", "Study request validation failed", err)
		return
	}

	result, err := h.studySvc.Generate(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *AIHandler) Extract(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "MISSING_FILE", "A PDF file upload is required", err)
		return
	}

	maxSize := h.config.Upload.MaxSizeMB << 20
	if header.Size > maxSize {
		respondBadRequest(c, "FILE_TOO_LARGE",
			"File size exceeds the upload limit", nil)
		return
	}

	// The declared content type is authoritative; the extension is only
	// consulted when the client sent none.
	mediaType := strings.TrimSpace(strings.Split(header.Header.Get("Content-Type"), ";")[0])
	switch {
	case mediaType == "application/pdf":
	case mediaType == "" && strings.EqualFold(filepath.Ext(header.Filename), ".pdf"):
	default:
		respondBadRequest(c, "INVALID_FILE_TYPE", "Only PDF files are supported", nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	result, err := h.extractSvc.ExtractPDF(file, header.Size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
