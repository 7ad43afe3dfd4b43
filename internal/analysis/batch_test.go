package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/rules"
	"github.com/codewithboateng/jreview/internal/source"
)

func analyzeFiles(t *testing.T, files map[string]string) map[string]*ir.Review {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	units, diags := source.Load([]string{dir}, 0)
	require.Empty(t, diags.Warnings)
	reviews, err := newEngine(rules.Default(), nil).AnalyzeAll(context.Background(), units, 2)
	require.NoError(t, err)

	out := map[string]*ir.Review{}
	for _, r := range reviews {
		out[r.Filename] = r
	}
	return out
}

func rulesOf(r *ir.Review) []string {
	var names []string
	for _, f := range r.Findings {
		names = append(names, f.Rule)
	}
	return names
}

func TestAnalyzeDirectory(t *testing.T) {
	got := analyzeFiles(t, map[string]string{
		"Clean.java": "class Clean {\n    int size() {\n        return 0;\n    }\n}\n",
		"pkg/Dao.java": "class Dao {\n    String q(String id) {\n" +
			"        return \"select * from t where id=\" + id;\n    }\n}\n",
		"notes.txt": "TODO not java\n",
	})
	require.Len(t, got, 2)

	assert.Empty(t, got["Clean.java"].Findings)
	assert.Equal(t, []string{"sql-string-concatenation"}, rulesOf(got["Dao.java"]))
	assert.Equal(t, 3, got["Dao.java"].Findings[0].Line)
}
