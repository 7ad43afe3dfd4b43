package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codewithboateng/jreview/internal/analysis"
	"github.com/codewithboateng/jreview/internal/ir"
)

// AnalyzeTool handles the analyze_source MCP tool.
type AnalyzeTool struct {
	engine   *analysis.Engine
	store    ReviewSaver // nil disables save=true
	maxBytes int64
}

func NewAnalyzeTool(engine *analysis.Engine, store ReviewSaver, maxBytes int64) *AnalyzeTool {
	return &AnalyzeTool{engine: engine, store: store, maxBytes: maxBytes}
}

func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_source",
		mcp.WithDescription(
			"Review Java source text with the heuristic rules and the syntax checker. "+
				"Returns per-category counts and every issue with its line number.",
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The Java source text to review"),
		),
		mcp.WithString("filename",
			mcp.Description("File name used for reporting and type-name checks (default inline.java)"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Store the review so it can be listed and exported later"),
		),
	)
}

func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := req.GetString("code", "")
	if t.maxBytes > 0 && int64(len(code)) > t.maxBytes {
		return mcp.NewToolResultError(fmt.Sprintf("code exceeds %d bytes", t.maxBytes)), nil
	}
	rev, err := t.engine.Analyze(ctx, code, req.GetString("filename", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	if boolArg(req, "save", false) {
		if t.store == nil {
			return mcp.NewToolResultError("saving is not available: no database configured"), nil
		}
		if err := t.store.SaveReview(rev); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to save review: %v", err)), nil
		}
	}
	return mcp.NewToolResultText(formatReview(rev)), nil
}

func formatReview(r *ir.Review) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Review of %s\n\n", r.Filename)
	if r.ID > 0 {
		fmt.Fprintf(&sb, "- **Review ID**: %d\n", r.ID)
	}
	fmt.Fprintf(&sb, "- **Errors**: %d\n", r.Counts.Errors)
	fmt.Fprintf(&sb, "- **Warnings**: %d\n", r.Counts.Warnings)
	fmt.Fprintf(&sb, "- **Optimizations**: %d\n", r.Counts.Optimizations)
	fmt.Fprintf(&sb, "- **Security**: %d\n", r.Counts.Security)
	fmt.Fprintf(&sb, "- **Total**: %d\n", r.Counts.Total())

	if len(r.Findings) == 0 {
		sb.WriteString("\nNo issues found.\n")
		return sb.String()
	}
	sb.WriteString("\n### Issues\n\n")
	for _, f := range r.Findings {
		fmt.Fprintf(&sb, "- [%s/%s] line %d: **%s** (%s). %s Suggestion: %s\n",
			f.Category, f.Severity, f.Line, f.Title, f.Rule, f.Description, f.Suggestion)
	}
	return sb.String()
}
