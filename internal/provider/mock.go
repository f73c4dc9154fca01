package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// MockName identifies the mock client.
const MockName = "mock"

// MockClient is a Client for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int             // Fail after N requests (0 = never)
	FailNames    map[string]bool // Fail requests for these filenames
	ResponseJSON json.RawMessage

	// State
	requestCount atomic.Int64
	inFlight     atomic.Int32
	maxInFlight  atomic.Int32
}

// NewMockClient creates a mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Latency:      10 * time.Millisecond,
		ResponseJSON: json.RawMessage(`{"status":"ok"}`),
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockName
}

// Extract simulates one extraction call.
func (c *MockClient) Extract(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	cur := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		peak := c.maxInFlight.Load()
		if cur <= peak || c.maxInFlight.CompareAndSwap(peak, cur) {
			break
		}
	}

	// Check if we should fail
	if c.ShouldFail {
		return nil, fmt.Errorf("mock client configured to fail")
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return nil, fmt.Errorf("mock client failed after %d requests", c.FailAfter)
	}
	if req != nil && c.FailNames[req.Filename] {
		return nil, fmt.Errorf("mock client configured to fail for %s", req.Filename)
	}

	// Simulate latency
	select {
	case <-time.After(c.Latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	response := c.ResponseJSON
	if len(response) == 0 {
		response = json.RawMessage(`{}`)
	}

	requestID := ""
	if req != nil {
		requestID = req.RequestID
	}
	if requestID == "" {
		requestID = fmt.Sprintf("mock-%d", count)
	}

	// Rough token estimates, enough for usage aggregation tests.
	promptTokens := int64(len(systemPrompt) / 4)
	if req != nil {
		promptTokens += int64((len(req.Document) + len(req.Schema)) / 4)
	}
	completionTokens := int64(len(response) / 4)

	return &Result{
		JSON:             response,
		Content:          string(response),
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Provider:         MockName,
		Model:            "mock-model",
		RequestID:        requestID,
		ExecutionTime:    time.Since(start),
	}, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// MaxInFlight returns the peak number of concurrent requests observed.
func (c *MockClient) MaxInFlight() int {
	return int(c.maxInFlight.Load())
}

// Reset clears the request counters.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
	c.inFlight.Store(0)
	c.maxInFlight.Store(0)
}

// Verify interface
var _ Client = (*MockClient)(nil)
