package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/engine"
	"mlopsaudit/internal/output"
	"mlopsaudit/internal/rules"
)

type toolHandler struct {
	eng *engine.Engine
}

type checkInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *toolHandler) handleScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target := request.GetString("repo_url", "")
	if target == "" {
		return mcp.NewToolResultError("repo_url is required"), nil
	}

	sc, err := h.eng.Scan(ctx, target, request.GetString("branch", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}
	return jsonResult(sc.Record)
}

func (h *toolHandler) handleAudit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target := request.GetString("repo_url", "")
	if target == "" {
		return mcp.NewToolResultError("repo_url is required"), nil
	}

	eng := h.eng
	if name := request.GetString("strategy", ""); name != "" {
		strategy, err := audit.NewStrategy(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		eng = eng.WithStrategy(strategy)
	}

	res, err := eng.Audit(ctx, target, request.GetString("branch", ""), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("audit failed: %v", err)), nil
	}

	if request.GetBool("markdown", false) {
		var b bytes.Buffer
		if err := output.RenderMarkdown(&b, res.Audit, res.Name); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("render report: %v", err)), nil
		}
		return mcp.NewToolResultText(b.String()), nil
	}
	return jsonResult(res.Audit)
}

// handleListChecks lists the checks a graded audit on this server runs, which
// is narrower than the registry when the server was started with --checks.
func (h *toolHandler) handleListChecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	checks := rules.List()
	if agg, ok := h.eng.Strategy.(*audit.Aggregator); ok {
		checks = agg.Checks()
	}
	var out []checkInfo
	for _, c := range checks {
		out = append(out, checkInfo{ID: c.ID(), Title: c.Title(), Description: c.Description()})
	}
	return jsonResult(out)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
