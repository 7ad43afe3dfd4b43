package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/codewithboateng/jreview/internal/analysis"
	"github.com/codewithboateng/jreview/internal/rules"
)

// Store is what the tools persist through. Either half may be nil.
type Store interface {
	ReviewSaver
	RuleStateSaver
}

// NewServer wires the review tools into an MCP server.
func NewServer(version string, engine *analysis.Engine, reg *rules.Registry, store Store, maxBytes int64) *server.MCPServer {
	s := server.NewMCPServer(
		"jreview",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	var (
		reviews ReviewSaver
		states  RuleStateSaver
	)
	if store != nil {
		reviews, states = store, store
	}

	analyzeTool := NewAnalyzeTool(engine, reviews, maxBytes)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	listTool := NewListRulesTool(reg)
	s.AddTool(listTool.Definition(), listTool.Handle)

	setTool := NewSetRulesTool(reg, states)
	s.AddTool(setTool.Definition(), setTool.Handle)

	return s
}
