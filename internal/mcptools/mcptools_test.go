package mcptools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jreview/internal/analysis"
	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/rules"
)

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

type memStore struct {
	saved  []*ir.Review
	states map[string]bool
	fail   bool
}

func (m *memStore) SaveReview(r *ir.Review) error {
	if m.fail {
		return errors.New("disk full")
	}
	r.ID = int64(len(m.saved) + 1)
	m.saved = append(m.saved, r)
	return nil
}

func (m *memStore) SaveRuleStates(s map[string]bool) error {
	m.states = s
	return nil
}

func TestAnalyzeTool(t *testing.T) {
	reg := rules.Default()
	store := &memStore{}
	tool := NewAnalyzeTool(analysis.New(reg, nil, nil), store, 1024)
	assert.Equal(t, "analyze_source", tool.Definition().Name)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"code":     "while (true) {\n  System.out.println(\"x\");\n}\n",
		"filename": "Loop.java",
		"save":     true,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(res)
	assert.Contains(t, text, "## Review of Loop.java")
	assert.Contains(t, text, "- **Review ID**: 1")
	assert.Contains(t, text, "line 1: **Likely infinite loop**")
	assert.Contains(t, text, "line 2: **Console logging**")
	require.Len(t, store.saved, 1)
}

func TestAnalyzeToolErrors(t *testing.T) {
	reg := rules.Default()
	tool := NewAnalyzeTool(analysis.New(reg, nil, nil), nil, 8)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"code": strings.Repeat("x", 9)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"code": "int x;", "save": true}))
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "no database")

	failing := NewAnalyzeTool(analysis.New(reg, nil, nil), &memStore{fail: true}, 0)
	res, _ = failing.Handle(context.Background(), makeReq(map[string]interface{}{"code": "int x;", "save": true}))
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "disk full")
}

func TestListAndSetRules(t *testing.T) {
	reg := rules.Default()
	store := &memStore{}

	set := NewSetRulesTool(reg, store)
	res, err := set.Handle(context.Background(), makeReq(map[string]interface{}{
		"updates": `{"long-line": false, "bogus": true}`,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(res), "Applied 1 of 2 updates.")
	assert.Contains(t, resultText(res), `"long-line":false`)
	assert.Equal(t, map[string]bool{"long-line": false}, store.states)

	list := NewListRulesTool(reg)
	res, _ = list.Handle(context.Background(), makeReq(nil))
	text := resultText(res)
	assert.Contains(t, text, "- [ ] `long-line`")
	assert.Contains(t, text, "- [x] `todo-comment`")

	res, _ = set.Handle(context.Background(), makeReq(map[string]interface{}{"updates": "not json"}))
	assert.True(t, res.IsError)
}

func TestNewServerRegistersTools(t *testing.T) {
	reg := rules.Default()
	s := NewServer("test", analysis.New(reg, nil, nil), reg, nil, 0)
	require.NotNil(t, s)
}
