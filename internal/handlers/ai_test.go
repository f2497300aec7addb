package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notehive/notehive/internal/config"
	"github.com/notehive/notehive/internal/services"
)

func setupExtractRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	cfg := &config.Config{
		Upload: config.UploadConfig{MaxSizeMB: 1},
		AI:     config.AIConfig{MaxTextLength: 15000},
	}

	handler := NewAIHandler(logger, cfg, nil, services.NewExtractService(&cfg.AI, logger))

	router := gin.New()
	router.POST("/api/v1/ai/extract", handler.Extract)
	return router
}

func multipartUpload(t *testing.T, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestAIHandler_Extract_Validation(t *testing.T) {
	tests := []struct {
		name          string
		filename      string
		contentType   string
		payload       []byte
		expectedError string
	}{
		{
			name:          "non-pdf content type rejected despite pdf extension",
			filename:      "notes.pdf",
			contentType:   "text/plain",
			payload:       []byte("plain text"),
			expectedError: "INVALID_FILE_TYPE",
		},
		{
			name:          "non-pdf extension without content type rejected",
			filename:      "notes.txt",
			contentType:   "",
			payload:       []byte("plain text"),
			expectedError: "INVALID_FILE_TYPE",
		},
		{
			name:          "declared pdf with unreadable payload rejected downstream",
			filename:      "notes.pdf",
			contentType:   "application/pdf",
			payload:       []byte("not actually a pdf"),
			expectedError: "INVALID_INPUT",
		},
		{
			name:          "oversized upload rejected",
			filename:      "notes.pdf",
			contentType:   "application/pdf",
			payload:       bytes.Repeat([]byte("a"), 2<<20),
			expectedError: "FILE_TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupExtractRouter(t)

			body, formContentType := multipartUpload(t, tt.filename, tt.contentType, tt.payload)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/extract", body)
			req.Header.Set("Content-Type", formContentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedError)
		})
	}
}

func TestAIHandler_Extract_MissingFile(t *testing.T) {
	router := setupExtractRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/extract", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_FILE")
}
