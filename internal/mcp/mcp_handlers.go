package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"statsync/core"
	"statsync/internal/contract"
	"statsync/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.RunManager
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := request.GetString("code", "")
	if code == "" {
		return mcp.NewToolResultError("code is required"), nil
	}

	cfg := h.baseCfg.Clone()
	rec, err := core.GetSeriesResult(ctx, cfg, code)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := request.GetString("code", "")
	if code == "" {
		return mcp.NewToolResultError("code is required"), nil
	}

	cfg := h.baseCfg.Clone()
	cmp, err := core.GetCompareResult(ctx, cfg, code)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(cmp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRunUpdate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if d := request.GetString("dataset", ""); d != "" {
		cfg.Dataset = d
	}
	if s := request.GetString("strategy", ""); s != "" {
		strategy := schema.UpdateStrategy(s)
		if _, ok := schema.ValidStrategies[strategy]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid strategy: %s", s)), nil
		}
		cfg.Strategy = strategy
	}
	// Writes stay off unless the caller opts in explicitly
	cfg.DryRun = request.GetBool("dry_run", true)
	if w := request.GetInt("workers", 0); w > 0 {
		cfg.Workers = w
	}

	_, store := core.BuildPipeline(cfg)
	records, err := core.BuildWorklist(ctx, cfg, store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("worklist build failed: %v", err)), nil
	}

	summary, outcomes, err := core.GetUpdateResults(core.WithSuppressProgress(ctx), cfg, h.mgr, records)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("batch update failed: %v", err)), nil
	}

	result := struct {
		Summary  schema.BatchSummary    `json:"summary"`
		Outcomes []schema.RecordOutcome `json:"outcomes"`
	}{Summary: summary, Outcomes: outcomes}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListDatasets(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	datasets, err := core.ListDatasets(h.baseCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog load failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(datasets, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
