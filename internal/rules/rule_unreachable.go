package rules

import (
	"strings"

	"github.com/codewithboateng/jreview/internal/ir"
)

func newUnreachableRule() *Func {
	t := issue{
		title:       "Unreachable code after control-flow exit",
		description: "Statements after return/throw/break/continue in the same block are unreachable.",
		suggestion:  "Remove or refactor unreachable statements.",
		category:    ir.CategoryWarning,
		severity:    ir.SeverityMedium,
	}
	return &Func{
		ID:   "unreachable-after-return",
		Doc:  "First statement following return, throw, break or continue.",
		Eval: func(ctx *Context) []ir.Finding { return evalUnreachable(ctx, t) },
	}
}

// evalUnreachable tracks a single "just exited" flag rather than one per
// nesting level, so it can both over- and under-report in nested blocks.
func evalUnreachable(ctx *Context, t issue) []ir.Finding {
	var out []ir.Finding
	sawExit := false
	balance := 0
	for i, raw := range ctx.Lines {
		l := strings.TrimSpace(raw)
		balance += braceDelta(l)

		if sawExit && balance >= 0 && l != "" && !strings.HasPrefix(l, "}") && !isCaseLabel(l) {
			out = append(out, t.at(i+1))
			sawExit = false
		}
		if isExitStatement(l) {
			sawExit = true
			continue
		}
		if strings.HasSuffix(l, "}") || isCaseLabel(l) {
			sawExit = false
		}
	}
	return out
}

func isExitStatement(l string) bool {
	return strings.HasPrefix(l, "return") ||
		strings.HasPrefix(l, "throw ") ||
		strings.HasPrefix(l, "break") ||
		strings.HasPrefix(l, "continue")
}

func isCaseLabel(l string) bool {
	return strings.HasPrefix(l, "case ") || strings.HasPrefix(l, "default:")
}
