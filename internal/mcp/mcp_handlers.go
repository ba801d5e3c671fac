package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"driftscan/core"
	"driftscan/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	store    contract.SnapshotStore
	embedder contract.Embedder
}

func (h *toolHandler) handleProfileDataset(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	cfg := *h.baseCfg
	cfg.StoreResults = request.GetBool("store", h.baseCfg.StoreResults)

	snap, err := core.GetProfileResult(&cfg, h.store, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("profiling failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snap, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareSnapshots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	base := request.GetString("base", "")
	target := request.GetString("target", "")
	if base == "" || target == "" {
		return mcp.NewToolResultError("base and target are required"), nil
	}

	report, _, _, err := core.GetCompareResults(ctx, h.baseCfg, h.store, h.embedder, base, target)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListSnapshots(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("no snapshot store configured"), nil
	}

	limit := request.GetInt("limit", h.baseCfg.ResultLimit)
	snaps, err := h.store.ListSnapshots(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snaps, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDriftHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("no snapshot store configured"), nil
	}

	limit := request.GetInt("limit", h.baseCfg.ResultLimit)
	points, err := h.store.History(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(points, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
