package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"winauto-mcp/internal/config"
	"winauto-mcp/internal/engine"
	"winauto-mcp/internal/platform"
	"winauto-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the automation tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes the window
automation tools. AI agents connect to a running application and drive
it through tool calls.

Supported transports:
  stdio             Standard I/O (default, for Claude Code / MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  winauto serve
  winauto serve --transport streamable-http --port 8080
  winauto serve --config winauto.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().String("config", "", "Path to a YAML config file")
	serveCmd.Flags().Bool("verbose", false, "Enable debug logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cfgPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	// stdout carries the stdio transport; diagnostics go to stderr.
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	opts.Logger = logger

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	sess := engine.New(provider, opts)
	srv := server.New(sess, logger)

	logger.Info("starting MCP server", "transport", transport)
	if err := srv.Serve(server.Config{Transport: transport, Port: port}); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
