package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"shopcartConsole/internal/models"

	"github.com/google/uuid"
)

// GenericErrorMessage replaces missing or unreadable error messages.
const GenericErrorMessage = "Server error"

type ShopcartAPIConfig struct {
	// Base of the shopcart service, e.g. http://localhost:8080
	BaseURL string
	// Sent as X-Api-Key when set.
	APIKey string

	Client *http.Client
	Logger *slog.Logger
}

// ShopcartAPI sends single JSON requests to the shopcart service. It never
// retries and never deduplicates.
type ShopcartAPI struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewShopcartAPI(cfg ShopcartAPIConfig) (*ShopcartAPI, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("shopcart api: base_url is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("shopcart api: base_url must be absolute, got %q", cfg.BaseURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}

	s := &ShopcartAPI{
		baseURL:    u,
		apiKey:     cfg.APIKey,
		httpClient: client,
		logger:     logger,
	}
	logger.Info("shopcart api initialized",
		"baseURL", safeURL(s.baseURL),
		"apiKey_set", s.apiKey != "",
	)
	return s, nil
}

// Result is a successful response. Body is nil when the service sent no content.
type Result struct {
	StatusCode int
	Body       json.RawMessage
}

// Send issues one request. p is a service path and may carry a query string.
// Failures are always *APIError.
func (s *ShopcartAPI) Send(ctx context.Context, method, p string, body any) (*Result, error) {
	requestID := uuid.NewString()
	logger := s.logger.With("op", "Send", "method", method, "path", p, "request_id", requestID)

	endpoint, err := s.endpoint(p)
	if err != nil {
		return nil, &APIError{Message: GenericErrorMessage, Err: err}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Message: GenericErrorMessage, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &APIError{Message: GenericErrorMessage, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Warn("shopcart request failed", "err", err)
		return nil, &APIError{Message: GenericErrorMessage, Err: fmt.Errorf("shopcart request: %w", err)}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Message: GenericErrorMessage, Err: fmt.Errorf("read response: %w", err)}
	}
	logger.Debug("shopcart raw", "status", resp.Status, "body", trim(string(b), 2000))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Info("shopcart request rejected", "status", resp.StatusCode)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    extractMessage(b),
			Body:       string(b),
		}
	}

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return &Result{StatusCode: resp.StatusCode}, nil
	}
	if !json.Valid(trimmed) {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    GenericErrorMessage,
			Body:       string(b),
			Err:        errors.New("decode response: body is not JSON"),
		}
	}
	return &Result{StatusCode: resp.StatusCode, Body: json.RawMessage(trimmed)}, nil
}

// Health probes GET /health on the service.
func (s *ShopcartAPI) Health(ctx context.Context) error {
	_, err := s.Send(ctx, http.MethodGet, "/health", nil)
	return err
}

func (s *ShopcartAPI) endpoint(p string) (string, error) {
	rel, err := url.Parse(p)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", p, err)
	}
	// Segments are appended verbatim: an empty id must stay an empty segment.
	u := *s.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(rel.Path, "/")
	u.RawPath = strings.TrimRight(s.baseURL.EscapedPath(), "/") + "/" + strings.TrimLeft(rel.EscapedPath(), "/")
	u.RawQuery = rel.RawQuery
	return u.String(), nil
}

// Item decodes the body as a single item.
func (r *Result) Item() (models.Item, error) {
	var item models.Item
	if err := r.decode(&item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

// Items decodes the body as a list of items. A missing body is an empty list.
func (r *Result) Items() ([]models.Item, error) {
	var items []models.Item
	if err := r.decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Result) Shopcart() (models.Shopcart, error) {
	var cart models.Shopcart
	if err := r.decode(&cart); err != nil {
		return models.Shopcart{}, err
	}
	return cart, nil
}

func (r *Result) Shopcarts() ([]models.Shopcart, error) {
	var carts []models.Shopcart
	if err := r.decode(&carts); err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *Result) decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &APIError{StatusCode: r.StatusCode, Message: GenericErrorMessage, Body: string(r.Body), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// ---------- errors ----------

// APIError is a failed exchange. StatusCode is 0 when no response arrived.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("shopcart api error: %s: %v", e.Message, e.Err)
	}
	if e.Status == "" {
		return fmt.Sprintf("shopcart api error: %s", e.Message)
	}
	return fmt.Sprintf("shopcart api error: %s: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// MessageOf returns the message to show an operator for err.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return GenericErrorMessage
}

func extractMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return GenericErrorMessage
	}
	var msg string
	if err := json.Unmarshal(payload.Message, &msg); err != nil {
		return GenericErrorMessage
	}
	if strings.TrimSpace(msg) == "" {
		return GenericErrorMessage
	}
	return msg
}

// ---------- helpers ----------

func trim(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

func safeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	c := *u
	c.User = nil
	return c.String()
}
