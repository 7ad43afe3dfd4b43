package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jreview/internal/ir"
)

func sampleReview() *ir.Review {
	r := &ir.Review{ID: 7, Filename: "Main.java"}
	r.SetFindings([]ir.Finding{
		{Rule: "infinite-loop", Line: 1, Title: "Likely infinite loop", Description: "no exit",
			Suggestion: "add break", Category: ir.CategoryError, Severity: ir.SeverityHigh},
		{Rule: "console-logging", Line: 2, Title: "Console logging", Description: "<println>",
			Suggestion: "use a logger", Category: ir.CategoryOptimization, Severity: ir.SeverityMedium},
	})
	return r
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleReview()))
	out := buf.String()
	assert.Contains(t, out, "File: Main.java | Review ID: 7\n")
	assert.Contains(t, out, "Errors: 1, Warnings: 0, Optimizations: 1, Security: 0\n")
	assert.Contains(t, out, "[ERROR] (Line 1) Likely infinite loop\n")
	assert.Contains(t, out, "  Severity: MEDIUM\n")
}

func TestRenderHTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleReview()))
	out := buf.String()
	assert.Contains(t, out, "&lt;println&gt;")
	assert.NotContains(t, out, "<println>")
	assert.Contains(t, out, "<li>Errors: 1</li>")
	assert.Contains(t, out, "Total issues: 2")
}

func TestWriteJSONCarriesTotal(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteJSON(dir, sampleReview())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "review-7.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		Counts map[string]int `json:"counts"`
		Issues []ir.Finding   `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, 2, got.Counts["total_issues"])
	assert.Len(t, got.Issues, 2)
}

func TestBaseNameForUnsavedReview(t *testing.T) {
	assert.Equal(t, "review-Foo", BaseName(&ir.Review{Filename: "src/Foo.java"}))
	assert.Equal(t, "review-inline", BaseName(&ir.Review{}))
}

func TestCompare(t *testing.T) {
	base := sampleReview()
	head := &ir.Review{ID: 8, Filename: "Main.java"}
	changed := base.Findings[1]
	changed.Severity = ir.SeverityLow
	head.SetFindings([]ir.Finding{
		changed,
		{Rule: "todo-comment", Line: 4, Title: "TODO comment found", Category: ir.CategoryWarning, Severity: ir.SeverityLow},
	})

	d := Compare(base, head)
	assert.Equal(t, DiffSummary{NewCount: 1, RemovedCount: 1, ChangedCount: 1}, d.Summary)
	assert.Equal(t, "todo-comment", d.New[0].Rule)
	assert.Equal(t, "infinite-loop", d.Removed[0].Rule)
	assert.Equal(t, []string{"severity"}, d.Changed[0].Changed)

	path, err := WriteDiffJSON(t.TempDir(), base, head)
	require.NoError(t, err)
	assert.Equal(t, "diff_7__8.json", filepath.Base(path))
}
