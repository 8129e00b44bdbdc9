package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "generate_image",
			Description: "Submit an asynchronous image generation task. Returns the raw service response containing the task_id to poll with check_task_status.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"prompt": map[string]interface{}{
						"type":        "string",
						"description": "Text description of the image to generate",
					},
					"size": map[string]interface{}{
						"type":        "string",
						"description": "Image size as width*height (default \"1024*1024\")",
						"default":     "1024*1024",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Random seed. A value in [0,1000) is chosen when omitted",
					},
					"steps": map[string]interface{}{
						"type":        "integer",
						"description": "Number of inference steps (default 4)",
						"default":     4,
					},
				},
				"required": []string{"prompt"},
			},
		},
		{
			Name:        "check_task_status",
			Description: "Fetch the current status of a generation task. Returns the raw service response; artifacts are listed once task_status is SUCCEEDED.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": map[string]interface{}{
						"type":        "string",
						"description": "Task identifier returned by generate_image",
					},
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "download_image",
			Description: "Download all artifacts of a completed generation task to local disk. Re-fetches status, so it can be called without a prior check_task_status.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": map[string]interface{}{
						"type":        "string",
						"description": "Task identifier returned by generate_image",
					},
					"save_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute file or directory path, or a bare filename resolved against base_dir. A filename applies only to the first artifact; the rest are named {task_id}_{index}.png",
					},
					"base_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory that anchors relative destinations (defaults to the configured base directory)",
					},
					"thumbnail": map[string]interface{}{
						"type":        "boolean",
						"description": "Also write a 256px preview next to each artifact",
						"default":     false,
					},
				},
				"required": []string{"task_id"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
