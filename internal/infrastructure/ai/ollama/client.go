// Package ollama talks to a local Ollama server
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chefai/chefai/internal/ports/outbound"
	"github.com/chefai/chefai/pkg/errors"
)

const (
	serviceName    = "ollama"
	defaultBaseURL = "http://localhost:11434"
)

// Config configures the client
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements outbound.GenerativeClient using the Ollama chat API
type Client struct {
	baseURL string
	model   string
	options map[string]interface{}
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new Ollama client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	options := map[string]interface{}{
		"temperature": cfg.Temperature,
	}
	if cfg.MaxTokens > 0 {
		options["num_predict"] = cfg.MaxTokens
	}

	logger = logger.Named("ollama-client")
	logger.Info("Ollama client initialized",
		zap.String("base_url", baseURL),
		zap.String("model", cfg.Model),
		zap.Duration("timeout", cfg.Timeout))

	return &Client{
		baseURL: baseURL,
		model:   cfg.Model,
		options: options,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Ollama API structures
type ChatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ChatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Format   json.RawMessage        `json:"format,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ChatResponse struct {
	Model           string      `json:"model"`
	Message         ChatMessage `json:"message"`
	Done            bool        `json:"done"`
	TotalDuration   int64       `json:"total_duration,omitempty"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
	EvalDuration    int64       `json:"eval_duration,omitempty"`
}

// HealthCheck verifies the Ollama service is available
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewExternalServiceError(serviceName,
			fmt.Errorf("health check failed with status %d", resp.StatusCode))
	}
	return nil
}

func userMessage(req outbound.StructuredRequest) ChatMessage {
	msg := ChatMessage{Role: "user", Content: req.Prompt}
	if req.Image != nil {
		msg.Images = []string{req.Image.Data}
	}
	return msg
}

// GenerateStructured passes req.Schema as the response format.
func (c *Client) GenerateStructured(ctx context.Context, req outbound.StructuredRequest) (string, error) {
	body := c.newRequest([]ChatMessage{userMessage(req)})
	if req.Schema != nil {
		body.Format = req.Schema.JSON()
	}
	return c.chat(ctx, body)
}

// Describe requests a free-text reply.
func (c *Client) Describe(ctx context.Context, req outbound.StructuredRequest) (string, error) {
	return c.chat(ctx, c.newRequest([]ChatMessage{userMessage(req)}))
}

// Converse sends the persona, the history and the new message.
func (c *Client) Converse(ctx context.Context, req outbound.ChatRequest) (string, error) {
	messages := make([]ChatMessage, 0, len(req.History)+2)
	if req.SystemInstruction != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: req.SystemInstruction})
	}
	for _, turn := range req.History {
		role := turn.Role
		if role == "model" {
			role = "assistant"
		}
		messages = append(messages, ChatMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: req.Message})

	return c.chat(ctx, c.newRequest(messages))
}

func (c *Client) newRequest(messages []ChatMessage) ChatRequest {
	return ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  c.options,
	}
}

func (c *Client) chat(ctx context.Context, reqBody ChatRequest) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.NewExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewExternalServiceError(serviceName, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewExternalServiceError(serviceName,
			fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))).
			WithMetadata("status", resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", errors.NewInvalidAIResponseError("unreadable chat response", err)
	}

	if !chatResp.Done {
		return "", errors.NewInvalidAIResponseError("incomplete response from Ollama", nil)
	}

	c.logger.Debug("Ollama chat completion successful",
		zap.String("model", chatResp.Model),
		zap.Int64("eval_duration", chatResp.EvalDuration),
		zap.Int("eval_count", chatResp.EvalCount))

	return chatResp.Message.Content, nil
}
