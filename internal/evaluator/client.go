// Package evaluator talks to the remote scoring service that converts a
// multimodal answer payload into a structured competency report. The service
// is a black box: no retries, no client-side interpretation beyond decoding.
package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/interview-sim/interview-service/internal/models"
)

var (
	// ErrUnavailable is a transport-level failure: the evaluator could not
	// be reached or did not answer in time.
	ErrUnavailable = errors.New("evaluation service unavailable")
	// ErrRejected means the evaluator answered with a non-2xx status.
	ErrRejected = errors.New("evaluation service rejected the request")
)

// Client is the remote evaluation collaborator.
type Client interface {
	// Evaluate posts the payload as plain JSON.
	Evaluate(ctx context.Context, payload *models.MultiModalPayload) (*models.EvaluationResult, error)
	// EvaluateWithVideo posts the payload plus one raw video file as a
	// multipart request to the enhanced endpoint, which additionally runs
	// facial-expression and body-language analysis.
	EvaluateWithVideo(ctx context.Context, payload *models.MultiModalPayload, rawFile *models.RawFile) (*models.EvaluationResult, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) Client {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *httpClient) Evaluate(ctx context.Context, payload *models.MultiModalPayload) (*models.EvaluationResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/interview/evaluate-enhanced", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *httpClient) EvaluateWithVideo(ctx context.Context, payload *models.MultiModalPayload, rawFile *models.RawFile) (*models.EvaluationResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("multimodalData", string(data)); err != nil {
		return nil, fmt.Errorf("failed to write payload part: %w", err)
	}
	part, err := writer.CreateFormFile("videoFile", rawFile.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create video part: %w", err)
	}
	if _, err := part.Write(rawFile.Data); err != nil {
		return nil, fmt.Errorf("failed to write video part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/interview/evaluate-enhanced-with-video", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

func (c *httpClient) do(req *http.Request) (*models.EvaluationResult, error) {
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("evaluation request failed", "url", req.URL.String(), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("evaluation request rejected",
			"url", req.URL.String(),
			"status_code", resp.StatusCode,
			"body", string(snippet))
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var result models.EvaluationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation result: %w", err)
	}

	c.logger.Info("evaluation completed",
		"url", req.URL.String(),
		"duration", time.Since(start).String())
	return &result, nil
}
