package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chefai/chefai/internal/ports/outbound"
	"github.com/chefai/chefai/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		APIKey:      "sk-test",
		BaseURL:     server.URL + "/",
		Model:       "gpt-4o-mini",
		Temperature: 0.4,
		MaxTokens:   512,
		Timeout:     5 * time.Second,
	}, zaptest.NewLogger(t))
}

func reply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ChatCompletionResponse{
		Choices: []Choice{{Message: ResponseMessage{Role: "assistant", Content: content}, FinishReason: "stop"}},
	})
}

func TestGenerateStructured_SendsSchemaAndImage(t *testing.T) {
	var got ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		reply(w, `{"items":[]}`)
	})

	out, err := client.GenerateStructured(context.Background(), outbound.StructuredRequest{
		Prompt:     "Count the calories",
		SchemaName: "calorie_analysis",
		Schema:     &outbound.Schema{Type: outbound.SchemaObject},
		Image:      &outbound.ImageInput{Data: "iVBORw0KGgo=", MIMEType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, out)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 512, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", got.Messages[0].Content[0].ImageURL.URL)
	assert.Equal(t, "Count the calories", got.Messages[0].Content[1].Text)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	assert.Equal(t, "calorie_analysis", got.ResponseFormat.JSONSchema.Name)
	assert.JSONEq(t, `{"type":"object"}`, string(got.ResponseFormat.JSONSchema.Schema))
}

func TestDescribe_NoResponseFormat(t *testing.T) {
	var got ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		reply(w, "A bowl of haleem.")
	})

	out, err := client.Describe(context.Background(), outbound.StructuredRequest{Prompt: "What is this?"})
	require.NoError(t, err)
	assert.Equal(t, "A bowl of haleem.", out)
	assert.Nil(t, got.ResponseFormat)
}

func TestConverse_MapsRoles(t *testing.T) {
	var got ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		reply(w, "Add cardamom.")
	})

	out, err := client.Converse(context.Background(), outbound.ChatRequest{
		SystemInstruction: "You are Chef AI",
		History: []outbound.ChatTurn{
			{Role: "user", Text: "chai banao"},
			{Role: "model", Text: "Boil water first."},
		},
		Message: "aur?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Add cardamom.", out)

	roles := make([]string, 0, len(got.Messages))
	for _, m := range got.Messages {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)
	assert.Equal(t, "aur?", got.Messages[3].Content[0].Text)
}

func TestCallOpenAI_Errors(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
		})
		_, err := client.Describe(context.Background(), outbound.StructuredRequest{Prompt: "x"})
		assert.True(t, errors.Is(err, errors.CodeExternalServiceError))
	})

	t.Run("no choices", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})
		_, err := client.Describe(context.Background(), outbound.StructuredRequest{Prompt: "x"})
		assert.True(t, errors.Is(err, errors.CodeInvalidAIResponse))
	})

	t.Run("unreachable", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, zaptest.NewLogger(t))
		_, err := client.Describe(context.Background(), outbound.StructuredRequest{Prompt: "x"})
		assert.True(t, errors.Is(err, errors.CodeExternalServiceError))
	})
}
