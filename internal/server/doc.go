// Package server implements the MCP (Model Context Protocol) server for the
// DashScope image-generation tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - generate_image: submit an asynchronous generation task
//   - check_task_status: fetch current task state
//   - download_image: resolve a destination and persist all artifacts of a
//     completed task
//
// # Error Handling
//
// Malformed tool arguments are rejected with JSON-RPC -32602 before any I/O;
// an unknown tool name gets -32601. Remote API failures, incomplete tasks,
// and filesystem faults come back as tool results (with isError set where the
// caller should not treat the payload as success) so the process never
// crashes on a failed tool call. Only unexpected faults become -32000.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv, err := server.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Logging goes to stderr; stdout is reserved for the protocol.
package server
