package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starforge/wanx-image-mcp/internal/artifact"
	"github.com/starforge/wanx-image-mcp/internal/dashscope"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "generate_image").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is the MCP content payload of a tool invocation. IsError flags
// outcomes the caller should treat as failed but retryable (remote errors,
// incomplete tasks with zero artifacts, filesystem faults); the invocation
// itself still completed at the protocol level.
type ToolResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ContentItem is a single text block of a tool result.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// validationError marks malformed tool arguments, raised before any I/O and
// mapped to JSON-RPC -32602.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalidArgs(format string, args ...interface{}) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// errUnknownTool is reported with a method-not-found classification.
var errUnknownTool = errors.New("unknown tool")

// handleToolsCall processes a tools/call request and executes the specified
// tool.
//
// Fault mapping:
//   - malformed params or argument validation failures -> -32602
//   - unknown tool name -> -32601
//   - remote API errors -> error-flagged tool result embedding the remote body
//   - anything unexpected -> -32000
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(context.Background(), params.Name, params.Arguments)
	if err != nil {
		var vErr *validationError
		var apiErr *dashscope.APIError
		switch {
		case errors.As(err, &vErr):
			return s.errorResponse(req.ID, -32602, "Invalid params", vErr.msg)
		case errors.Is(err, errUnknownTool):
			return s.errorResponse(req.ID, -32601, "Method not found", fmt.Sprintf("unknown tool: %s", params.Name))
		case errors.As(err, &apiErr):
			result = errorResult(fmt.Sprintf("API request failed (status %d): %s", apiErr.StatusCode, apiErr.Body))
		default:
			return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
		}
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (*ToolResult, error) {
	switch name {
	case "generate_image":
		return s.handleGenerateImage(ctx, args)
	case "check_task_status":
		return s.handleCheckTaskStatus(ctx, args)
	case "download_image":
		return s.handleDownloadImage(ctx, args)
	default:
		return nil, errUnknownTool
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

func textResult(text string) *ToolResult {
	return &ToolResult{Content: []ContentItem{{Type: "text", Text: text}}}
}

func errorResult(text string) *ToolResult {
	r := textResult(text)
	r.IsError = true
	return r
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Job Submission ===

type generateImageArgs struct {
	Prompt *string `json:"prompt"`
	Size   *string `json:"size"`
	Seed   *int    `json:"seed"`
	Steps  *int    `json:"steps"`
}

func (s *Server) handleGenerateImage(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	var a generateImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, invalidArgs("malformed arguments: %v", err)
	}
	if a.Prompt == nil || *a.Prompt == "" {
		return nil, invalidArgs("prompt is required and must be a non-empty string")
	}

	req := dashscope.GenerationRequest{
		Prompt: *a.Prompt,
		Seed:   a.Seed,
		Steps:  a.Steps,
	}
	if a.Size != nil {
		req.Size = *a.Size
	}

	raw, err := s.client.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	return textResult(string(raw)), nil
}

// === Status Query ===

type checkTaskStatusArgs struct {
	TaskID *string `json:"task_id"`
}

func (s *Server) handleCheckTaskStatus(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	var a checkTaskStatusArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, invalidArgs("malformed arguments: %v", err)
	}
	if a.TaskID == nil || *a.TaskID == "" {
		return nil, invalidArgs("task_id is required and must be a string")
	}

	raw, _, err := s.client.GetTask(ctx, *a.TaskID)
	if err != nil {
		return nil, err
	}
	return textResult(string(raw)), nil
}

// === Artifact Resolution & Retrieval ===

type downloadImageArgs struct {
	TaskID    *string `json:"task_id"`
	SavePath  *string `json:"save_path"`
	BaseDir   *string `json:"base_dir"`
	Thumbnail *bool   `json:"thumbnail"`
}

func (s *Server) handleDownloadImage(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	var a downloadImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, invalidArgs("malformed arguments: %v", err)
	}
	if a.TaskID == nil || *a.TaskID == "" {
		return nil, invalidArgs("task_id is required and must be a string")
	}

	req := artifact.Request{TaskID: *a.TaskID}
	if a.SavePath != nil {
		// An empty save_path is treated as absent.
		if err := artifact.ValidateSavePath(*a.SavePath); err != nil {
			return nil, invalidArgs("%v", err)
		}
		req.SavePath = *a.SavePath
	}
	if a.BaseDir != nil {
		req.BaseDir = *a.BaseDir
	}
	if a.Thumbnail != nil {
		req.Thumbnail = *a.Thumbnail
	}

	res, err := s.retriever.Retrieve(ctx, req)
	if err != nil {
		return nil, err
	}
	return retrievalResult(res), nil
}

// retrievalResult maps a retrieval outcome onto a tool result. Incomplete
// tasks are reported without the error flag so callers poll and retry; every
// other non-complete category is error-flagged.
func retrievalResult(res *artifact.Result) *ToolResult {
	switch res.Category {
	case artifact.Complete:
		return textResult(mustMarshalJSON(map[string]interface{}{
			"message":   res.Message,
			"task_id":   res.TaskID,
			"downloads": res.Downloads,
		}))
	case artifact.Incomplete:
		return textResult(mustMarshalJSON(map[string]interface{}{
			"message": res.Message,
			"task_id": res.TaskID,
			"status":  res.RawStatus,
		}))
	case artifact.DownloadFailed:
		return &ToolResult{
			IsError: true,
			Content: []ContentItem{{Type: "text", Text: mustMarshalJSON(map[string]interface{}{
				"message":   res.Message,
				"task_id":   res.TaskID,
				"downloads": res.Downloads,
				"errors":    res.Errors,
			})}},
		}
	default: // NoArtifacts, DirCreateFailed
		return errorResult(res.Message)
	}
}
