package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/clawquant/internal/adapters/metrics"
	mcptools "github.com/felixgeelhaar/clawquant/internal/mcp"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agent integration",
	Long: `Start a Model Context Protocol (MCP) server exposing the configured
plugins to AI agents.

Available tools:
  - clawquant_status        Running plugins, handlers and tools
  - clawquant_list_plugins  Discovered plugins and their settings
  - clawquant_run_task      Run a task handler
  - clawquant_call_tool     Call a plugin tool by name
  - web_search              Search the web (when web_search is enabled)

Examples:
  clawquant mcp                               # Start stdio MCP server
  clawquant mcp --http :8080                  # Start HTTP MCP server
  clawquant mcp --metrics-addr 127.0.0.1:9464 # Also serve Prometheus metrics`,
	RunE: runMCP,
}

var (
	mcpHTTP        string
	mcpMetricsAddr string
)

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpHTTP, "http", "", "Start HTTP server on address (e.g., :8080)")
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on address (e.g., 127.0.0.1:9464)")
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(runContext(cmd), os.Interrupt)
	defer stop()

	home, err := resolveHomeOrDefault()
	if err != nil {
		return err
	}

	// stdout carries the protocol in stdio mode
	var out io.Writer = os.Stderr
	if mcpHTTP != "" {
		out = cmd.OutOrStdout()
	}

	collector := metrics.NewCollector()
	cq := newApp(out).WithMetrics(collector)
	logger := cq.Logger()

	catalog, err := cq.Catalog(ctx, home)
	if err != nil {
		return err
	}
	rt, failed, err := cq.Runtime(ctx, home)
	if err != nil {
		return err
	}
	for _, ferr := range failed {
		logger.Warn(ctx, "plugin not started", ports.Err(ferr))
	}

	if mcpMetricsAddr != "" {
		srv := serveMetrics(ctx, mcpMetricsAddr, collector, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "clawquant",
		Version: version,
	})
	mcptools.RegisterAll(srv, rt, catalog, mcptools.VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	})

	if mcpHTTP != "" {
		logger.Info(ctx, "serving MCP over HTTP", ports.F("addr", mcpHTTP))
		return mcp.ServeHTTP(ctx, srv, mcpHTTP)
	}

	// Default to stdio
	return mcp.ServeStdio(ctx, srv)
}

// serveMetrics exposes collector on addr until ctx ends.
func serveMetrics(ctx context.Context, addr string, collector *metrics.Collector, logger ports.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(ctx, "serving metrics", ports.F("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "metrics server stopped", ports.Err(err))
		}
	}()
	return srv
}
