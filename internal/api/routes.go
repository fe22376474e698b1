package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain"
	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
	"github.com/satriahrh/tuturan/usecase"
)

const (
	greeting           = "Hello from tuturan"
	defaultListLimit   = 20
	maxListLimit       = 100
	sentimentProbeText = "I love how friendly the staff were, but the waiting time was far too long."
)

// Uploader runs the upload pipeline
type Uploader interface {
	Upload(ctx context.Context, filename string, audio io.Reader) (*domain.UploadResult, error)
}

// Chatter answers follow-up questions about a transcript
type Chatter interface {
	Chat(ctx context.Context, transcriptID int64, messages []repositories.ChatMessage) (domain.ChatReply, error)
}

// SentimentProber exposes the raw sentiment service response
type SentimentProber interface {
	Raw(ctx context.Context, text string) (interface{}, error)
}

// Services groups the dependencies of the HTTP handlers
type Services struct {
	Uploads     Uploader
	Chats       Chatter
	Sentiment   SentimentProber
	Transcripts repositories.TranscriptRepository
}

type handler struct {
	Services
	logger *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, services Services, logger *zap.Logger) {
	h := &handler{Services: services, logger: logger}

	e.GET("/", h.root)
	e.POST("/upload", h.upload)
	e.POST("/chat", h.chat)
	e.GET("/test_oci", h.testOCI)

	e.GET("/transcripts", h.listTranscripts)
	e.GET("/transcripts/:id", h.getTranscript)
}

func (h *handler) root(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: greeting})
}

func (h *handler) upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_file",
			Message: "Multipart field 'file' is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to read uploaded file",
		})
	}
	defer file.Close()

	result, err := h.Uploads.Upload(c.Request().Context(), fileHeader.Filename, file)
	if err != nil {
		return h.uploadError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *handler) uploadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrEmptyTranscript):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "empty_transcript",
			Message: "No speech was recognized in the uploaded audio",
		})
	case errors.Is(err, usecase.ErrTranscriptionFailed):
		h.logger.Error("Transcription failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "transcription_failed",
			Message: "Failed to transcribe the uploaded audio",
		})
	case errors.Is(err, usecase.ErrPersistFailed):
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persist_failed",
			Message: "Failed to store transcript",
		})
	default:
		h.logger.Error("Upload failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to process upload",
		})
	}
}

func (h *handler) chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Failed to bind chat request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	reply, err := h.Chats.Chat(c.Request().Context(), req.TranscriptID, req.Messages)
	switch {
	case errors.Is(err, repositories.ErrTranscriptNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Transcript not found",
		})
	case errors.Is(err, usecase.ErrInvalidMessages):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_messages",
			Message: err.Error(),
		})
	case err != nil:
		h.logger.Error("Chat failed", zap.Int64("transcriptID", req.TranscriptID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to process chat",
		})
	}

	return c.JSON(http.StatusOK, reply)
}

// testOCI is a diagnostic endpoint returning the raw sentiment response
func (h *handler) testOCI(c echo.Context) error {
	text := c.QueryParam("text")
	if text == "" {
		text = sentimentProbeText
	}

	raw, err := h.Sentiment.Raw(c.Request().Context(), text)
	switch {
	case errors.Is(err, usecase.ErrSentimentDisabled):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "sentiment_disabled",
			Message: err.Error(),
		})
	case err != nil:
		h.logger.Warn("Sentiment probe failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, raw)
}

func (h *handler) listTranscripts(c echo.Context) error {
	limit := defaultListLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_limit",
				Message: "limit must be a positive integer",
			})
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	transcripts, err := h.Transcripts.List(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list transcripts", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list transcripts",
		})
	}

	if transcripts == nil {
		transcripts = []*entities.Transcript{}
	}
	return c.JSON(http.StatusOK, TranscriptListResponse{Transcripts: transcripts})
}

func (h *handler) getTranscript(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "id must be an integer",
		})
	}

	transcript, err := h.Transcripts.GetByID(c.Request().Context(), id)
	if errors.Is(err, repositories.ErrTranscriptNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Transcript not found",
		})
	}
	if err != nil {
		h.logger.Error("Failed to get transcript", zap.Int64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to get transcript",
		})
	}

	return c.JSON(http.StatusOK, transcript)
}
