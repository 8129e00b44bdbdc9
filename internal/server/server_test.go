package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/starforge/wanx-image-mcp/internal/config"
)

// newTestServer builds a server whose API base URL points at the given
// handler.
func newTestServer(t *testing.T, handler http.Handler) *Server {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		APIKey:         "test-key",
		Model:          "wanx2.1-t2i-turbo",
		BaseURL:        ts.URL,
		SaveDir:        t.TempDir(),
		BaseDir:        t.TempDir(),
		DownloadPolicy: "failfast",
		LogLevel:       "info",
	}

	s, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func TestNew_RejectsBadPolicy(t *testing.T) {
	cfg := &config.Config{DownloadPolicy: "bogus"}
	if _, err := New(cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown download policy")
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "ping"})
	if resp == nil || resp.Error != nil {
		t.Fatalf("ping failed: %+v", resp)
	}
}

func TestHandleRequest_UnknownMethod(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "resources/list"})
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Fatalf("expected -32601, got %+v", resp)
	}
}

func TestHandleRequest_InitializedNotification(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())

	if resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}); resp != nil {
		t.Fatalf("notification should not produce a response, got %+v", resp)
	}
}

func TestHandleInitialize(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	if resp.Error != nil {
		t.Fatalf("initialize failed: %+v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type %T", resp.Result)
	}
	info, ok := result["serverInfo"].(map[string]interface{})
	if !ok || info["name"] != "wanx-image-mcp" {
		t.Errorf("serverInfo: got %v", result["serverInfo"])
	}
}

func TestRun_ProcessesRequestStream(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())

	var out bytes.Buffer
	s.in = strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
			"\n" + // blank lines are skipped
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n",
	)
	s.out = &out

	if err := s.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 responses, got %d: %q", len(lines), out.String())
	}

	for i, line := range lines {
		var resp MCPResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("response %d not valid JSON: %v", i, err)
		}
		if resp.Error != nil {
			t.Errorf("response %d unexpected error: %+v", i, resp.Error)
		}
	}
}
