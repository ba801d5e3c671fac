// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"driftscan/internal/contract"
)

// NewMCPServer initializes and configures the driftscan MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.SnapshotStore, embedder contract.Embedder) *server.MCPServer {
	s := server.NewMCPServer(
		"Driftscan Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		store:    store,
		embedder: embedder,
	}

	// --- 1. Tool: profile_dataset ---
	s.AddTool(mcp.NewTool("profile_dataset",
		mcp.WithDescription("Profile a CSV dataset into a statistical summary snapshot."),
		mcp.WithString("path", mcp.Description("Path to the CSV file to profile."), mcp.Required()),
		mcp.WithBoolean("store", mcp.Description("Persist the snapshot for later comparisons. Defaults to the server configuration.")),
	), h.handleProfileDataset)

	// --- 2. Tool: compare_snapshots ---
	s.AddTool(mcp.NewTool("compare_snapshots",
		mcp.WithDescription("Detect schema, statistical and semantic drift between two datasets (CSV paths or stored snapshot IDs)."),
		mcp.WithString("base", mcp.Description("Base dataset: CSV path or stored snapshot ID."), mcp.Required()),
		mcp.WithString("target", mcp.Description("Target dataset: CSV path or stored snapshot ID."), mcp.Required()),
	), h.handleCompareSnapshots)

	// --- 3. Tool: list_snapshots ---
	s.AddTool(mcp.NewTool("list_snapshots",
		mcp.WithDescription("List stored dataset snapshots, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListSnapshots)

	// --- 4. Tool: drift_history ---
	s.AddTool(mcp.NewTool("drift_history",
		mcp.WithDescription("Show stored drift comparison outcomes, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleDriftHistory)

	return s
}

// StartMCPServer starts the driftscan MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.SnapshotStore, embedder contract.Embedder) error {
	s := NewMCPServer(baseCfg, store, embedder)
	return server.ServeStdio(s)
}
