// Package analysis runs the rule registry and the compiler diagnostics over
// one source unit and aggregates the result into a review.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/codewithboateng/jreview/internal/diagnostics"
	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/rules"
	"github.com/codewithboateng/jreview/internal/storage"
)

// Diagnoser is the compiler-diagnostics collaborator. It returns
// diagnostics.ErrUnavailable when it cannot run in this environment.
type Diagnoser interface {
	Diagnose(ctx context.Context, source, typeName string) ([]ir.Finding, error)
}

// RuleError reports a rule that panicked during Apply.
type RuleError struct {
	Rule  string
	Cause any
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %q failed: %v", e.Rule, e.Cause)
}

func (e *RuleError) Unwrap() error {
	err, _ := e.Cause.(error)
	return err
}

type Engine struct {
	Registry *rules.Registry
	Compiler Diagnoser // optional
	Logger   *slog.Logger

	// IsolateFaults turns a failing rule into a "Rule failed" finding instead
	// of aborting the run.
	IsolateFaults bool
}

func New(reg *rules.Registry, compiler Diagnoser, logger *slog.Logger) *Engine {
	return &Engine{Registry: reg, Compiler: compiler, Logger: logger}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Analyze runs every enabled rule in registration order, then appends the
// compiler findings, and returns an unsaved review. A rule fault aborts the
// run with a *RuleError unless IsolateFaults is set.
func (e *Engine) Analyze(ctx context.Context, source, filename string) (*ir.Review, error) {
	// the caller's filename, possibly empty, drives the type name; only the
	// stored review gets the default
	name := filename
	if name == "" {
		name = ir.DefaultFilename
	}
	review := &ir.Review{
		Filename:  name,
		Source:    source,
		CreatedAt: time.Now().UTC(),
		IRVersion: ir.Version,
	}
	rc := rules.NewContext(source, name, review)

	// one snapshot per run, so a concurrent toggle never splits a run
	enabled := e.Registry.EnabledRules()
	findings := make([]ir.Finding, 0, len(enabled))
	for _, r := range enabled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fs, err := applyRule(r, rc)
		if err != nil {
			if !e.IsolateFaults {
				return nil, err
			}
			e.logger().Warn("rule failed", "rule", r.Name(), "file", name, "err", err)
			findings = append(findings, ruleFailed(r.Name(), err))
			continue
		}
		findings = append(findings, fs...)
	}

	findings = append(findings, e.compilerFindings(ctx, source, name, PrimaryTypeName(filename, source))...)
	review.SetFindings(findings)

	e.logger().Debug("analysis done",
		"file", name, "rules", len(enabled), "lines", len(rc.Lines), "findings", len(findings))
	return review, nil
}

func applyRule(r rules.Rule, rc *rules.Context) (fs []ir.Finding, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &RuleError{Rule: r.Name(), Cause: p}
		}
	}()
	return r.Apply(rc), nil
}

func ruleFailed(name string, err error) ir.Finding {
	return ir.Finding{
		Rule:        name,
		Title:       "Rule failed",
		Description: err.Error(),
		Suggestion:  "Report the input that triggers this failure or disable the rule.",
		Category:    ir.CategoryWarning,
		Severity:    ir.SeverityLow,
	}
}

// compilerFindings never fails the run. An unavailable compiler or a compiler
// error both mean "no additional findings".
func (e *Engine) compilerFindings(ctx context.Context, source, filename, typeName string) []ir.Finding {
	if e.Compiler == nil {
		return nil
	}
	fs, err := e.Compiler.Diagnose(ctx, source, typeName)
	switch {
	case errors.Is(err, diagnostics.ErrUnavailable):
		e.logger().Debug("compiler diagnostics skipped", "reason", err)
		return nil
	case err != nil:
		e.logger().Warn("compiler diagnostics failed", "file", filename, "err", err)
		return nil
	}
	for i := range fs {
		fs[i].Category = ir.CategoryError
		fs[i].Severity = ir.SeverityHigh
		if fs[i].Rule == "" {
			fs[i].Rule = diagnostics.RuleName
		}
	}
	return fs
}

// InlineTypeName is used when neither the filename nor the text names a type.
const InlineTypeName = "InlineClass"

// PrimaryTypeName derives the type a compiler expects the unit to declare:
// the filename without ".java", else the identifier after the first
// "class " in the text, else InlineTypeName.
func PrimaryTypeName(filename, source string) string {
	base := filepath.Base(filename)
	if strings.HasSuffix(base, ".java") {
		if name := strings.TrimSuffix(base, ".java"); strings.TrimSpace(name) != "" {
			return name
		}
	}
	if i := strings.Index(source, "class "); i >= 0 {
		rest := source[i+len("class "):]
		end := strings.IndexFunc(rest, func(r rune) bool { return !isIdentPart(r) })
		if end < 0 {
			end = len(rest)
		}
		if name := rest[:end]; name != "" {
			return name
		}
	}
	return InlineTypeName
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ApplyWaivers drops waived findings from r and re-tallies its counts. It
// returns the number of findings waived.
func ApplyWaivers(r *ir.Review, waivers []storage.Waiver) int {
	kept, n := rules.ApplyWaivers(r.Findings, r.Filename, waivers)
	if n > 0 {
		r.SetFindings(kept)
	}
	return n
}
