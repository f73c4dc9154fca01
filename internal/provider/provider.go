// Package provider contains clients for structured-extraction endpoints.
package provider

import (
	"context"
	"encoding/json"
	"time"
)

// Client is the interface extraction runs against. One call per document,
// no retries: a failed call is terminal for that document in that run.
type Client interface {
	// Extract sends one document with a schema and returns the structured
	// response.
	Extract(ctx context.Context, req *Request) (*Result, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// Request carries one document and the schema to extract against.
type Request struct {
	// RequestID tracks the call through logs. Assigned when empty.
	RequestID string

	// Filename is the document's base name, forwarded to the endpoint.
	Filename string

	// Document is the raw PDF content.
	Document []byte

	// Schema is the JSON Schema the response must match. The endpoint does
	// the matching; values come back untouched.
	Schema json.RawMessage

	// SchemaName labels the schema in the request.
	SchemaName string
}

// Result is the structured response for one document.
type Result struct {
	// JSON is the extraction result recovered from the response, with
	// member order and numeric literals preserved.
	JSON json.RawMessage

	// Content is the raw text returned by the model.
	Content string

	// Token usage as reported by the endpoint.
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64

	// Provider info.
	Provider string
	Model    string

	// Request tracking.
	RequestID string

	// ExecutionTime is the wall time of the API call.
	ExecutionTime time.Duration
}
