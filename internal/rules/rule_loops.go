package rules

import (
	"strings"

	"github.com/codewithboateng/jreview/internal/ir"
)

func newNestedLoopRule() *Func {
	t := issue{
		title:       "Nested loop detected",
		description: "Nested loops can cause performance issues on large inputs.",
		suggestion:  "Consider reducing algorithmic complexity or breaking out loops.",
		category:    ir.CategoryOptimization,
		severity:    ir.SeverityMedium,
	}
	return &Func{
		ID:  "nested-loop",
		Doc: "Loop headers opened while another loop is still open.",
		Eval: func(ctx *Context) []ir.Finding {
			var out []ir.Finding
			depth := 0
			for i, l := range ctx.Lines {
				if hasLoopHeader(l) {
					depth++
					if depth >= 2 {
						out = append(out, t.at(i+1))
					}
				}
				// one level per line that closes anything
				if strings.Contains(l, "}") && depth > 0 {
					depth--
				}
			}
			return out
		},
	}
}

func newStringConcatInLoopRule() *Func {
	t := issue{
		title:       "String concatenation in loop",
		description: "String concatenation inside loops can be inefficient.",
		suggestion:  "Use StringBuilder or collect results and join afterwards.",
		category:    ir.CategoryOptimization,
		severity:    ir.SeverityLow,
	}
	return &Func{
		ID:   "string-concat-in-loop",
		Doc:  "+= or quoted + concatenation inside a loop body.",
		Eval: func(ctx *Context) []ir.Finding { return evalConcatInLoop(ctx, t) },
	}
}

// evalConcatInLoop restarts on every loop header, nested ones included. The
// header's brace delta seeds the depth and is then counted again with the
// rest of the line, so a braced header opens at depth 2 and a braceless one
// (delta 0) leaves the loop on the header line itself.
func evalConcatInLoop(ctx *Context, t issue) []ir.Finding {
	var out []ir.Finding
	inLoop := false
	depth := 0
	for i, l := range ctx.Lines {
		if hasLoopHeader(l) {
			inLoop, depth = true, braceDelta(l)
		}
		if !inLoop {
			continue
		}
		if strings.Contains(l, "+=") || (strings.Contains(l, "+") && strings.Contains(l, `"`)) {
			out = append(out, t.at(i+1))
		}
		depth += braceDelta(l)
		if depth <= 0 {
			inLoop = false
		}
	}
	return out
}
