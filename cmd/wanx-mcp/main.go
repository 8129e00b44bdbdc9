package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/starforge/wanx-image-mcp/internal/config"
	"github.com/starforge/wanx-image-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	root := &cobra.Command{
		Use:     "wanx-mcp",
		Short:   "MCP server for DashScope image generation",
		Version: fmt.Sprintf("%s (commit %s)", Version, GitCommit),
		Long: `wanx-mcp exposes DashScope text-to-image generation as MCP tools
over stdin/stdout. Configure it in your MCP client (e.g. Claude Desktop).

Environment variables:
  DASHSCOPE_API_KEY       API credential (required)
  WANX_MODEL              model name (default wanx2.1-t2i-turbo)
  WANX_SAVE_DIR           default artifact directory (default ~/Desktop/wanx-images)
  WANX_BASE_DIR           anchor for relative destinations (default: working directory)
  WANX_BASE_URL           API root (default https://dashscope.aliyuncs.com/api/v1)
  WANX_DOWNLOAD_POLICY    failfast or besteffort (default failfast)
  WANX_LOG_LEVEL          debug, info, warn, error (default info)`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// stdout carries the MCP protocol; all logging goes to stderr.
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	logger.Info().Str("version", Version).Str("model", cfg.Model).Msg("wanx-mcp server started")
	return srv.Run()
}
