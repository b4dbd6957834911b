package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statsync/internal/contract"
	mcp_internal "statsync/internal/mcp"
	"statsync/schema"
)

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		CatalogPath: "does-not-exist.json",
		Strategy:    schema.StrategyAuto,
		Workers:     2,
	}

	// A nil manager is fine because every case below fails validation or
	// catalog loading before the run store is touched
	var mgr contract.RunManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	ctx := context.Background()

	t.Run("get_series missing code", func(t *testing.T) {
		tool := s.GetTool("get_series")
		require.NotNil(t, tool, "Tool get_series should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_series",
				Arguments: map[string]any{"code": ""},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "code is required")
	})

	t.Run("compare_series missing code", func(t *testing.T) {
		tool := s.GetTool("compare_series")
		require.NotNil(t, tool, "Tool compare_series should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "compare_series",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "code is required")
	})

	t.Run("run_update invalid strategy", func(t *testing.T) {
		tool := s.GetTool("run_update")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "run_update",
				Arguments: map[string]any{
					"strategy": "yolo", // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid strategy")
	})

	t.Run("list_datasets missing catalog", func(t *testing.T) {
		tool := s.GetTool("list_datasets")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "list_datasets",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "catalog load failed")
	})
}
