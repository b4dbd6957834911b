// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"statsync/internal/contract"
)

// NewMCPServer initializes and configures the Statsync MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.RunManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Statsync Series Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_series ---
	s.AddTool(mcp.NewTool("get_series",
		mcp.WithDescription("Fetch one stored statistical series with its full observation history and metadata."),
		mcp.WithString("code", mcp.Description("The series identifier in the catalog."), mcp.Required()),
	), h.handleGetSeries)

	// --- 2. Tool: compare_series ---
	s.AddTool(mcp.NewTool("compare_series",
		mcp.WithDescription("Compare the provider's current data for a series against the stored record without writing anything."),
		mcp.WithString("code", mcp.Description("The series identifier in the catalog."), mcp.Required()),
	), h.handleCompareSeries)

	// --- 3. Tool: run_update ---
	s.AddTool(mcp.NewTool("run_update",
		mcp.WithDescription("Run a batch update over a dataset's catalog worklist and return the per-series outcomes."),
		mcp.WithString("dataset", mcp.Description("Dataset to update (defaults to the configured dataset).")),
		mcp.WithString("strategy", mcp.Description("Update strategy. Defaults to 'auto'."), mcp.Enum("incremental", "full", "auto")),
		mcp.WithBoolean("dry_run", mcp.Description("Skip all document store writes. Defaults to true for safety.")),
		mcp.WithNumber("workers", mcp.Description("Worker pool size.")),
	), h.handleRunUpdate)

	// --- 4. Tool: list_datasets ---
	s.AddTool(mcp.NewTool("list_datasets",
		mcp.WithDescription("List the distinct dataset names available in the catalog."),
	), h.handleListDatasets)

	return s
}

// StartMCPServer starts the Statsync MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.RunManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
