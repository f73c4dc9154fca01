package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	// OpenAIName identifies the OpenAI-compatible client.
	OpenAIName = "openai"

	openAIDefaultModel   = "gpt-4o-mini"
	openAIDefaultTimeout = 300 * time.Second
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string        // Optional, overrides the default endpoint
	Model      string        // "gpt-4o-mini" (default)
	Timeout    time.Duration // HTTP timeout per call
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements Client against an OpenAI-compatible chat
// completions endpoint using the official SDK.
type OpenAIClient struct {
	model  string
	client openai.Client
}

// NewOpenAIClient creates a client for the configured endpoint. SDK
// transport retries are disabled; the surrounding batch records failures
// per file instead of retrying.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = openAIDefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:  cfg.Model,
		client: openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Model returns the configured model.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Extract sends the document and schema in a single chat completion and
// recovers the structured JSON from the response.
func (c *OpenAIClient) Extract(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if len(req.Document) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
					Filename: openai.String(req.Filename),
					FileData: openai.String(pdfDataURL(req.Document)),
				}),
				openai.TextContentPart(userPrompt(req.Schema)),
			}),
		},
		Temperature: openai.Float(0),
	}
	if format := responseFormat(req.Schema, req.SchemaName); format != nil {
		params.ResponseFormat = *format
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("endpoint returned no choices")
	}

	content := resp.Choices[0].Message.Content
	parsed, err := ParseJSON(content)
	if err != nil {
		return nil, fmt.Errorf("model response is not valid JSON: %w", err)
	}

	return &Result{
		JSON:             parsed,
		Content:          content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Provider:         OpenAIName,
		Model:            resp.Model,
		RequestID:        requestID,
		ExecutionTime:    time.Since(start),
	}, nil
}

// responseFormat builds a non-strict json_schema response format from the
// caller's schema. Nil when the schema does not decode; the prompt still
// carries the schema text in that case.
func responseFormat(schemaRaw json.RawMessage, name string) *openai.ChatCompletionNewParamsResponseFormatUnion {
	if len(schemaRaw) == 0 {
		return nil
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaRaw, &schemaDoc); err != nil {
		return nil
	}

	if name == "" {
		name = "extraction"
	}

	return &openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
			JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   name,
				Schema: schemaDoc,
				Strict: openai.Bool(false),
			},
		},
	}
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("API error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("API error (status %d)", apiErr.StatusCode)
	}
	return err
}

var _ Client = (*OpenAIClient)(nil)
