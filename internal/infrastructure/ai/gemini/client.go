// Package gemini talks to Google's Gemini models through the genai SDK
package gemini

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/chefai/chefai/internal/ports/outbound"
	"github.com/chefai/chefai/pkg/errors"
)

const serviceName = "gemini"

// Config configures the client
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// contentGenerator is the part of genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements outbound.GenerativeClient on the Gemini API
type Client struct {
	models      contentGenerator
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewClient creates a Gemini client. An API key is required.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigurationError("ai.api_key", "Gemini requires an API key")
	}

	genAI, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, errors.NewExternalServiceError(serviceName, err)
	}

	logger = logger.Named("gemini-client")
	logger.Info("Gemini client initialized", zap.String("model", cfg.Model))

	return newClient(genAI.Models, cfg, logger), nil
}

func newClient(models contentGenerator, cfg Config, logger *zap.Logger) *Client {
	return &Client{
		models:      models,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		logger:      logger,
	}
}

// GenerateStructured asks for a JSON reply conforming to req.Schema.
func (c *Client) GenerateStructured(ctx context.Context, req outbound.StructuredRequest) (string, error) {
	config := c.newConfig()
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toSchema(req.Schema)
	}
	return c.generate(ctx, req, config)
}

// Describe asks for a plain-text reply.
func (c *Client) Describe(ctx context.Context, req outbound.StructuredRequest) (string, error) {
	return c.generate(ctx, req, c.newConfig())
}

// Converse replays the history, then the new message, under the persona.
func (c *Client) Converse(ctx context.Context, req outbound.ChatRequest) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		contents = append(contents, &genai.Content{
			Role:  turn.Role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Message}},
	})

	config := c.newConfig()
	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	return c.call(ctx, contents, config)
}

func (c *Client) newConfig() *genai.GenerateContentConfig {
	temperature := c.temperature
	return &genai.GenerateContentConfig{Temperature: &temperature}
}

func (c *Client) generate(ctx context.Context, req outbound.StructuredRequest, config *genai.GenerateContentConfig) (string, error) {
	parts := make([]*genai.Part, 0, 2)
	if req.Image != nil {
		data, err := base64.StdEncoding.DecodeString(req.Image.Data)
		if err != nil {
			return "", errors.NewValidationError("image is not valid base64").WithCause(err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{Data: data, MIMEType: req.Image.MIMEType},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	return c.call(ctx, []*genai.Content{{Role: "user", Parts: parts}}, config)
}

func (c *Client) call(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	res, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", errors.NewExternalServiceError(serviceName, err)
	}

	text, err := responseText(res)
	if err != nil {
		return "", err
	}

	c.logger.Debug("Gemini call successful", zap.String("model", c.model), zap.Int("chars", len(text)))
	return text, nil
}

// responseText joins the text parts of the first candidate, skipping thoughts.
func responseText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0] == nil || res.Candidates[0].Content == nil {
		return "", errors.NewInvalidAIResponseError("no candidates returned", nil)
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

// toSchema converts a JSON Schema subset to the Gemini schema type.
func toSchema(s *outbound.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genai.Type(strings.ToUpper(string(s.Type))),
		Description: s.Description,
		Items:       toSchema(s.Items),
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	return out
}
