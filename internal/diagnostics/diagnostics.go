// Package diagnostics reports Java syntax errors found by a real parser. Its
// findings are merged after the heuristic rules and are always Error/High.
package diagnostics

import (
	"errors"
	"strings"

	"github.com/codewithboateng/jreview/internal/ir"
)

// RuleName is stamped on every compiler finding.
const RuleName = "compiler"

// maxDiagnostics bounds the findings produced for one source unit.
const maxDiagnostics = 100

// ErrUnavailable means the parser is not built into this binary. Callers
// treat it as "no findings".
var ErrUnavailable = errors.New("compiler diagnostics unavailable (built without cgo)")

func compileError(line int, message string) ir.Finding {
	return ir.Finding{
		Rule:        RuleName,
		Line:        max(line, 0),
		Title:       "Compile error",
		Description: message,
		Suggestion:  "Fix the compilation error reported by the Java compiler.",
		Category:    ir.CategoryError,
		Severity:    ir.SeverityHigh,
	}
}

// snippet shortens node text for a message: first line only, at most 40 bytes.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}
