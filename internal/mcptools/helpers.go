// Package mcptools exposes the analysis engine and the rule registry as MCP
// tools served over stdio.
//
// Each tool is a struct with its dependencies injected via constructor,
// Definition() returning the mcp.Tool schema and Handle() serving calls.
package mcptools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codewithboateng/jreview/internal/ir"
)

// ReviewSaver persists a review and assigns its id.
type ReviewSaver interface {
	SaveReview(r *ir.Review) error
}

// RuleStateSaver persists rule toggles.
type RuleStateSaver interface {
	SaveRuleStates(states map[string]bool) error
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}
