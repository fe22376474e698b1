package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/satriahrh/tuturan/domain"
	"github.com/satriahrh/tuturan/domain/repositories"
	"github.com/satriahrh/tuturan/internal/api"
)

// client talks to a running tuturan server
type client struct {
	baseURL    string
	httpClient *http.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// upload posts the audio file as multipart field "file"
func (c *client) upload(ctx context.Context, audioPath string) (*domain.UploadResult, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var result domain.UploadResult
	if err := c.do(ctx, http.MethodPost, "/upload", writer.FormDataContentType(), &body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ask sends a single question about a transcript
func (c *client) ask(ctx context.Context, transcriptID int64, question string) (domain.ChatReply, error) {
	payload, err := json.Marshal(api.ChatRequest{
		TranscriptID: transcriptID,
		Messages:     []repositories.ChatMessage{{Role: repositories.UserRole, Content: question}},
	})
	if err != nil {
		return domain.ChatReply{}, err
	}

	var reply domain.ChatReply
	err = c.do(ctx, http.MethodPost, "/chat", echo.MIMEApplicationJSON, bytes.NewReader(payload), &reply)
	return reply, err
}

func (c *client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set(echo.HeaderXRequestID, uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s returned %d: %s: %s", method, path, resp.StatusCode, apiErr.Error, apiErr.Message)
		}
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(data))
	}

	return json.Unmarshal(data, out)
}
