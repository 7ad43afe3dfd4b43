package rules

import (
	"strings"
	"sync/atomic"

	"github.com/codewithboateng/jreview/internal/ir"
)

// Rule is a named, independently toggleable detector.
type Rule interface {
	Name() string
	Summary() string
	Apply(ctx *Context) []ir.Finding
	Enabled() bool
	SetEnabled(on bool)
}

// Context is the read-only view of one source unit handed to every rule.
// Rules must not modify it.
type Context struct {
	Source   string
	Lines    []string
	Filename string
	Review   *ir.Review
}

func NewContext(source, filename string, review *ir.Review) *Context {
	return &Context{
		Source:   source,
		Lines:    SplitLines(source),
		Filename: filename,
		Review:   review,
	}
}

// SplitLines splits on '\n', keeping interior empty lines. Trailing empty
// lines are dropped and so is a CR before each newline. Input with no
// non-empty line yields nil.
func SplitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Func adapts an evaluation function into a Rule. The zero value is enabled.
// A Func must not be copied once registered.
type Func struct {
	ID   string
	Doc  string
	Eval func(ctx *Context) []ir.Finding

	disabled atomic.Bool
}

func (f *Func) Name() string    { return f.ID }
func (f *Func) Summary() string { return f.Doc }
func (f *Func) Enabled() bool   { return !f.disabled.Load() }

func (f *Func) SetEnabled(on bool) { f.disabled.Store(!on) }

// Apply runs Eval and stamps the rule name on every finding.
func (f *Func) Apply(ctx *Context) []ir.Finding {
	fs := f.Eval(ctx)
	for i := range fs {
		if fs[i].Rule == "" {
			fs[i].Rule = f.ID
		}
	}
	return fs
}

// issue is the fixed text and classification a rule reports with.
type issue struct {
	title       string
	description string
	suggestion  string
	category    ir.Category
	severity    ir.Severity
}

// at builds a finding for a 1-based line number.
func (t issue) at(line int) ir.Finding {
	return ir.Finding{
		Line:        line,
		Title:       t.title,
		Description: t.description,
		Suggestion:  t.suggestion,
		Category:    t.category,
		Severity:    t.severity,
	}
}

// perLine reports t on every line for which match is true.
func perLine(t issue, match func(line string) bool) func(*Context) []ir.Finding {
	return func(ctx *Context) []ir.Finding {
		var out []ir.Finding
		for i, l := range ctx.Lines {
			if match(l) {
				out = append(out, t.at(i+1))
			}
		}
		return out
	}
}
