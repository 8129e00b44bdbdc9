package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"github.com/rs/zerolog"
)

const (
	defaultSize  = "1024*1024"
	defaultSteps = 4
	seedRange    = 1000

	synthesisPath = "/services/aigc/text2image/image-synthesis"
	tasksPath     = "/tasks/"
)

// APIError is a non-2xx response from the service. Body carries the remote
// error payload verbatim so it can be surfaced to the caller.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dashscope returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the DashScope asynchronous image-synthesis API.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a client for the given API root and credential.
func NewClient(baseURL, apiKey, model string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{},
		log:     logger,
	}
}

// CreateTask submits an asynchronous generation job and returns the response
// body unmodified. Defaults are applied before the request is sent: size
// "1024*1024", a seed drawn uniformly from [0,1000) when absent, 4 steps.
//
// The caller is responsible for validating the prompt; this method performs
// no argument checking of its own.
func (c *Client) CreateTask(ctx context.Context, req GenerationRequest) (json.RawMessage, error) {
	size := req.Size
	if size == "" {
		size = defaultSize
	}
	seed := rand.Intn(seedRange)
	if req.Seed != nil {
		seed = *req.Seed
	}
	steps := defaultSteps
	if req.Steps != nil {
		steps = *req.Steps
	}

	body := synthesisRequest{
		Model: c.model,
		Input: synthesisInput{Prompt: req.Prompt},
		Parameters: synthesisParams{
			Size:  size,
			N:     1,
			Seed:  seed,
			Steps: steps,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+synthesisPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-DashScope-Async", "enable")

	c.log.Debug().Str("model", c.model).Str("size", size).Int("steps", steps).Msg("submitting generation task")

	return c.do(httpReq)
}

// GetTask fetches the current state of a task. It returns the body unmodified
// alongside a parsed envelope for internal branching. No caching: every call
// is an independent fetch and two consecutive calls may observe different
// remote states.
func (c *Client) GetTask(ctx context.Context, taskID string) (json.RawMessage, *TaskEnvelope, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tasksPath+taskID, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, err := c.do(httpReq)
	if err != nil {
		return nil, nil, err
	}

	var env TaskEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, fmt.Errorf("failed to decode task response: %w", err)
	}

	c.log.Debug().Str("task_id", taskID).Str("status", env.Output.TaskStatus).Msg("fetched task status")

	return raw, &env, nil
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return raw, nil
}
