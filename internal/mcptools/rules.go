package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codewithboateng/jreview/internal/rules"
)

// ListRulesTool handles the list_rules MCP tool.
type ListRulesTool struct {
	reg *rules.Registry
}

func NewListRulesTool(reg *rules.Registry) *ListRulesTool {
	return &ListRulesTool{reg: reg}
}

func (t *ListRulesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_rules",
		mcp.WithDescription("List every review rule in execution order with its enabled flag."),
	)
}

func (t *ListRulesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	sb.WriteString("## Rules\n\n")
	for _, r := range t.reg.List() {
		mark := "x"
		if !r.Enabled() {
			mark = " "
		}
		fmt.Fprintf(&sb, "- [%s] `%s`: %s\n", mark, r.Name(), r.Summary())
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// SetRulesTool handles the set_rules MCP tool.
type SetRulesTool struct {
	reg   *rules.Registry
	store RuleStateSaver // optional
}

func NewSetRulesTool(reg *rules.Registry, store RuleStateSaver) *SetRulesTool {
	return &SetRulesTool{reg: reg, store: store}
}

func (t *SetRulesTool) Definition() mcp.Tool {
	return mcp.NewTool("set_rules",
		mcp.WithDescription(
			"Enable or disable rules by name. Unknown names are ignored. "+
				"Returns the full rule state afterwards.",
		),
		mcp.WithString("updates",
			mcp.Required(),
			mcp.Description(`JSON object of rule name to enabled flag, e.g. {"long-line": false}`),
		),
	)
}

func (t *SetRulesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var updates map[string]bool
	if err := json.Unmarshal([]byte(req.GetString("updates", "")), &updates); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("updates must be a JSON object of name to bool: %v", err)), nil
	}
	applied := t.reg.SetRuleStates(updates)
	if t.store != nil && len(applied) > 0 {
		persist := make(map[string]bool, len(applied))
		for _, name := range applied {
			persist[name] = updates[name]
		}
		if err := t.store.SaveRuleStates(persist); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("applied but not saved: %v", err)), nil
		}
	}
	b, err := json.Marshal(t.reg.RuleStates())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Applied %d of %d updates.\n\n%s", len(applied), len(updates), b)), nil
}
