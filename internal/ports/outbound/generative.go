package outbound

import (
	"context"
	"encoding/json"
)

// SchemaType is a JSON Schema primitive type.
type SchemaType string

const (
	SchemaObject SchemaType = "object"
	SchemaArray  SchemaType = "array"
	SchemaString SchemaType = "string"
)

// Schema is the subset of JSON Schema used to constrain model replies.
// Adapters convert it to their provider's native form.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// JSON renders the schema as a standard JSON Schema document.
func (s *Schema) JSON() json.RawMessage {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return data
}

// ImageInput is an inline image: raw base64 data plus its MIME type.
type ImageInput struct {
	Data     string
	MIMEType string
}

// DataURI renders the image as a data: URI.
func (i ImageInput) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + i.Data
}

// StructuredRequest is a single-shot prompt with an optional image. When
// Schema is set the reply must be a JSON document conforming to it.
type StructuredRequest struct {
	Prompt     string
	SchemaName string
	Schema     *Schema
	Image      *ImageInput
}

// ChatTurn is one prior message in a conversation. Role is "user" or "model".
type ChatTurn struct {
	Role string
	Text string
}

// ChatRequest is a conversation turn: persona, prior turns in order, then
// the new user message.
type ChatRequest struct {
	SystemInstruction string
	History           []ChatTurn
	Message           string
}

// GenerativeClient is a generative text and vision model.
type GenerativeClient interface {
	// GenerateStructured returns the JSON text of a schema-constrained reply.
	GenerateStructured(ctx context.Context, req StructuredRequest) (string, error)
	// Describe returns a free-text reply, typically about the attached image.
	Describe(ctx context.Context, req StructuredRequest) (string, error)
	// Converse returns the model's next chat message.
	Converse(ctx context.Context, req ChatRequest) (string, error)
}
