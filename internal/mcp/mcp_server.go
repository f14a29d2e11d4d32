// Package mcp exposes scan and audit as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/engine"
)

// NewMCPServer configures the tool server without starting it.
func NewMCPServer(eng *engine.Engine, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"MLOps Audit Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{eng: eng}

	s.AddTool(mcp.NewTool("scan_repository",
		mcp.WithDescription("Walk a repository and classify its files into MLOps categories (scripts, configs, Docker files, tests, data folders, model files)."),
		mcp.WithString("repo_url", mcp.Description("Local directory, OWNER/REPO, or git URL."), mcp.Required()),
		mcp.WithString("branch", mcp.Description("Branch to check out. Defaults to the repository default branch.")),
	), h.handleScan)

	s.AddTool(mcp.NewTool("audit_repository",
		mcp.WithDescription("Score a repository for MLOps completeness and list the missing components."),
		mcp.WithString("repo_url", mcp.Description("Local directory, OWNER/REPO, or git URL."), mcp.Required()),
		mcp.WithString("branch", mcp.Description("Branch to check out.")),
		mcp.WithString("strategy", mcp.Description("Scoring strategy. Defaults to 'graded'."), mcp.Enum(audit.StrategyGraded, audit.StrategyWeighted)),
		mcp.WithBoolean("markdown", mcp.Description("Return the Markdown report instead of the JSON record.")),
	), h.handleAudit)

	s.AddTool(mcp.NewTool("list_checks",
		mcp.WithDescription("List the checks a graded audit on this server runs, in evaluation order."),
	), h.handleListChecks)

	return s
}

// StartMCPServer serves the tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, eng *engine.Engine, version string) error {
	s := NewMCPServer(eng, version)
	return server.ServeStdio(s)
}
