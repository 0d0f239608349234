// Package openai talks to OpenAI-compatible chat completion endpoints
package openai

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
	serviceName    = "openai"
	defaultBaseURL = "https://api.openai.com/v1"
)

// Config configures the client
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements outbound.GenerativeClient using the chat completions API
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	logger      *zap.Logger
}

// NewClient creates a new OpenAI client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	logger = logger.Named("openai-client")
	logger.Info("OpenAI client initialized",
		zap.String("base_url", baseURL),
		zap.String("model", cfg.Model))

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// OpenAI API structures
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

type JSONSchema struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
}

type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func textMessage(role, text string) Message {
	return Message{Role: role, Content: []ContentPart{{Type: "text", Text: text}}}
}

// userMessage puts the image, when present, before the prompt text.
func userMessage(req outbound.StructuredRequest) Message {
	msg := Message{Role: "user"}
	if req.Image != nil {
		msg.Content = append(msg.Content, ContentPart{
			Type:     "image_url",
			ImageURL: &ImageURL{URL: req.Image.DataURI()},
		})
	}
	msg.Content = append(msg.Content, ContentPart{Type: "text", Text: req.Prompt})
	return msg
}

// GenerateStructured requests a reply constrained by req.Schema.
func (c *Client) GenerateStructured(ctx context.Context, req outbound.StructuredRequest) (string, error) {
	body := c.newRequest([]Message{userMessage(req)})
	if req.Schema != nil {
		name := req.SchemaName
		if name == "" {
			name = "reply"
		}
		body.ResponseFormat = &ResponseFormat{
			Type:       "json_schema",
			JSONSchema: &JSONSchema{Name: name, Schema: req.Schema.JSON()},
		}
	}
	return c.callOpenAI(ctx, body)
}

// Describe requests a free-text reply.
func (c *Client) Describe(ctx context.Context, req outbound.StructuredRequest) (string, error) {
	return c.callOpenAI(ctx, c.newRequest([]Message{userMessage(req)}))
}

// Converse sends the persona, the history and the new message.
func (c *Client) Converse(ctx context.Context, req outbound.ChatRequest) (string, error) {
	messages := make([]Message, 0, len(req.History)+2)
	if req.SystemInstruction != "" {
		messages = append(messages, textMessage("system", req.SystemInstruction))
	}
	for _, turn := range req.History {
		role := turn.Role
		if role == "model" {
			role = "assistant"
		}
		messages = append(messages, textMessage(role, turn.Text))
	}
	messages = append(messages, textMessage("user", req.Message))

	return c.callOpenAI(ctx, c.newRequest(messages))
}

func (c *Client) newRequest(messages []Message) ChatCompletionRequest {
	return ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
}

func (c *Client) callOpenAI(ctx context.Context, reqBody ChatCompletionRequest) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", errors.NewInvalidAIResponseError("unreadable completion", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.NewInvalidAIResponseError("no response choices returned", nil)
	}

	c.logger.Debug("OpenAI API call successful",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
		zap.Int("total_tokens", chatResp.Usage.TotalTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}
