package analysis

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jreview/internal/diagnostics"
	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/rules"
	"github.com/codewithboateng/jreview/internal/source"
	"github.com/codewithboateng/jreview/internal/storage"
)

var update = flag.Bool("update", false, "update golden files")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(reg *rules.Registry, d Diagnoser) *Engine {
	return New(reg, d, quietLogger())
}

type fakeDiagnoser struct {
	findings []ir.Finding
	err      error
	gotType  string
}

func (f *fakeDiagnoser) Diagnose(_ context.Context, _, typeName string) ([]ir.Finding, error) {
	f.gotType = typeName
	out := make([]ir.Finding, len(f.findings))
	copy(out, f.findings)
	return out, f.err
}

func panicking(name string, v any) *rules.Func {
	return &rules.Func{
		ID:   name,
		Doc:  "always panics",
		Eval: func(*rules.Context) []ir.Finding { panic(v) },
	}
}

func TestAnalyzeInfiniteLoopWithConsoleLogging(t *testing.T) {
	e := newEngine(rules.Default(), nil)
	r, err := e.Analyze(context.Background(), "while (true) {\n  System.out.println(\"x\");\n}\n", "")
	require.NoError(t, err)

	assert.Equal(t, ir.DefaultFilename, r.Filename)
	assert.Equal(t, ir.Version, r.IRVersion)
	require.Len(t, r.Findings, 2)

	// registration order: console-logging precedes infinite-loop
	assert.Equal(t, "console-logging", r.Findings[0].Rule)
	assert.Equal(t, 2, r.Findings[0].Line)
	assert.Equal(t, "infinite-loop", r.Findings[1].Rule)
	assert.Equal(t, 1, r.Findings[1].Line)
	assert.Equal(t, ir.CategoryError, r.Findings[1].Category)
	assert.Equal(t, ir.SeverityHigh, r.Findings[1].Severity)

	assert.Equal(t, 1, r.Counts.Errors)
	assert.Equal(t, 1, r.Counts.Optimizations)
	assert.Equal(t, 2, r.Counts.Total())
}

func TestAnalyzeEmptySource(t *testing.T) {
	e := newEngine(rules.Default(), nil)
	r, err := e.Analyze(context.Background(), "", "Empty.java")
	require.NoError(t, err)
	assert.NotNil(t, r.Findings)
	assert.Empty(t, r.Findings)
	assert.Zero(t, r.Counts.Total())
}

func TestGoldenSample(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "Sample.java"))
	require.NoError(t, err)

	e := newEngine(rules.Default(), nil)
	r, err := e.Analyze(context.Background(), string(src), "Sample.java")
	require.NoError(t, err)

	var got bytes.Buffer
	for _, f := range r.Findings {
		fmt.Fprintf(&got, "%d %s %s %s\n", f.Line, f.Rule, f.Category, f.Severity)
	}

	golden := filepath.Join("testdata", "Sample.golden")
	if *update {
		require.NoError(t, os.WriteFile(golden, got.Bytes(), 0o644))
	}
	want, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Equal(t, string(want), got.String())

	assert.Equal(t, 1, r.Counts.Errors)
	assert.Equal(t, 5, r.Counts.Warnings)
	assert.Equal(t, 3, r.Counts.Optimizations)
	assert.Equal(t, 2, r.Counts.Security)
}

func TestCountsAlwaysSumToFindings(t *testing.T) {
	inputs := []string{
		"",
		"int x = 1;\n",
		"for (;;) {}\n",
		"class A {\n  void f() {\n    return;\n    g();\n  }\n",
		"String q = \"SELECT * FROM t WHERE id=\" + id; // TODO\n",
		strings.Repeat("x", 200),
	}
	e := newEngine(rules.Default(), nil)
	for _, in := range inputs {
		r, err := e.Analyze(context.Background(), in, "")
		require.NoError(t, err)
		assert.Equal(t, len(r.Findings), r.Counts.Total(), "input %q", in)
		for _, f := range r.Findings {
			assert.GreaterOrEqual(t, f.Line, 0)
		}
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "Sample.java"))
	require.NoError(t, err)
	e := newEngine(rules.Default(), nil)

	a, err := e.Analyze(context.Background(), string(src), "Sample.java")
	require.NoError(t, err)
	b, err := e.Analyze(context.Background(), string(src), "Sample.java")
	require.NoError(t, err)
	assert.Equal(t, a.Findings, b.Findings)
	assert.Equal(t, a.Counts, b.Counts)
}

func TestDisabledRuleContributesNothing(t *testing.T) {
	src := "while (true) {\n  System.out.println(\"x\");\n}\n"
	reg := rules.Default()
	e := newEngine(reg, nil)

	before, err := e.Analyze(context.Background(), src, "")
	require.NoError(t, err)
	require.Len(t, before.Findings, 2)

	reg.Disable("console-logging")
	r, err := e.Analyze(context.Background(), src, "")
	require.NoError(t, err)
	require.Len(t, r.Findings, 1)
	assert.Equal(t, "infinite-loop", r.Findings[0].Rule)
	assert.Zero(t, r.Counts.Optimizations)

	// switching it back on restores the same findings
	assert.Equal(t, []string{"console-logging"}, reg.SetRuleStates(map[string]bool{"console-logging": true}))
	after, err := e.Analyze(context.Background(), src, "")
	require.NoError(t, err)
	assert.Equal(t, before.Findings, after.Findings)
	assert.Equal(t, before.Counts, after.Counts)
}

func TestCompilerFindingsAreAppendedLast(t *testing.T) {
	d := &fakeDiagnoser{findings: []ir.Finding{{
		Line:     3,
		Title:    "Compile error",
		Category: ir.CategoryWarning,
		Severity: ir.SeverityLow,
	}}}
	e := newEngine(rules.Default(), d)

	r, err := e.Analyze(context.Background(), "// TODO\nclass Foo {\n", "Foo.java")
	require.NoError(t, err)
	assert.Equal(t, "Foo", d.gotType)

	require.NotEmpty(t, r.Findings)
	last := r.Findings[len(r.Findings)-1]
	assert.Equal(t, diagnostics.RuleName, last.Rule)
	assert.Equal(t, 3, last.Line)
	assert.Equal(t, ir.CategoryError, last.Category)
	assert.Equal(t, ir.SeverityHigh, last.Severity)
	assert.Equal(t, "todo-comment", r.Findings[0].Rule)
	assert.Equal(t, len(r.Findings), r.Counts.Total())
}

func TestUnnamedSourceTypeNameComesFromText(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"public class Bar {\n}\n", "Bar"},
		{"int x = 1;\n", InlineTypeName},
	}
	for _, c := range cases {
		d := &fakeDiagnoser{}
		r, err := newEngine(rules.Default(), d).Analyze(context.Background(), c.src, "")
		require.NoError(t, err)
		assert.Equal(t, c.want, d.gotType, "source %q", c.src)
		assert.Equal(t, ir.DefaultFilename, r.Filename)
	}
}

func TestCompilerFailuresAddNothing(t *testing.T) {
	for _, cause := range []error{
		diagnostics.ErrUnavailable,
		fmt.Errorf("wrapped: %w", diagnostics.ErrUnavailable),
		errors.New("compiler exploded"),
	} {
		d := &fakeDiagnoser{
			findings: []ir.Finding{{Line: 1, Title: "ignored"}},
			err:      cause,
		}
		r, err := newEngine(rules.Default(), d).Analyze(context.Background(), "int x;\nx = 1;\n", "")
		require.NoError(t, err, "cause %v", cause)
		for _, f := range r.Findings {
			assert.NotEqual(t, diagnostics.RuleName, f.Rule)
		}
	}
}

func TestRuleFaultAbortsRun(t *testing.T) {
	boom := errors.New("boom")
	reg := rules.Default()
	require.NoError(t, reg.Register(panicking("exploding-rule", boom)))

	r, err := newEngine(reg, nil).Analyze(context.Background(), "int x = 1;\n", "")
	assert.Nil(t, r)
	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "exploding-rule", re.Rule)
	assert.ErrorIs(t, err, boom)
}

func TestRuleFaultIsolated(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Register(panicking("exploding-rule", "bad input")))
	for _, rule := range rules.Default().List() {
		if rule.Name() == "todo-comment" {
			require.NoError(t, reg.Register(rule))
		}
	}
	e := newEngine(reg, nil)
	e.IsolateFaults = true

	r, err := e.Analyze(context.Background(), "// TODO\n", "")
	require.NoError(t, err)
	require.Len(t, r.Findings, 2)
	assert.Equal(t, "exploding-rule", r.Findings[0].Rule)
	assert.Equal(t, "Rule failed", r.Findings[0].Title)
	assert.Contains(t, r.Findings[0].Description, "bad input")
	assert.Equal(t, "todo-comment", r.Findings[1].Rule)
}

func TestAnalyzeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := newEngine(rules.Default(), nil).Analyze(ctx, "int x;\n", "")
	assert.Nil(t, r)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrimaryTypeName(t *testing.T) {
	cases := []struct {
		filename, source, want string
	}{
		{"Foo.java", "", "Foo"},
		{"src/main/java/com/acme/Foo.java", "public class Bar {}", "Foo"},
		{"", "public class Bar {}", "Bar"},
		{"notes.txt", "final class Baz$1 extends X {}", "Baz$1"},
		{"", "int x;", InlineTypeName},
		{"", "class ", InlineTypeName},
		{".java", "", InlineTypeName},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PrimaryTypeName(c.filename, c.source), "%q / %q", c.filename, c.source)
	}
}

func TestApplyWaiversRetallies(t *testing.T) {
	e := newEngine(rules.Default(), nil)
	r, err := e.Analyze(context.Background(), "while (true) {\n  System.out.println(\"x\");\n}\n", "Loop.java")
	require.NoError(t, err)

	n := ApplyWaivers(r, []storage.Waiver{{
		Rule:      "CONSOLE-LOGGING",
		ExpiresAt: time.Now().Add(time.Hour),
	}})
	assert.Equal(t, 1, n)
	require.Len(t, r.Findings, 1)
	assert.Equal(t, "infinite-loop", r.Findings[0].Rule)
	assert.Zero(t, r.Counts.Optimizations)
	assert.Equal(t, 1, r.Counts.Total())

	assert.Zero(t, ApplyWaivers(r, []storage.Waiver{{Rule: "infinite-loop", Filename: "Other.java"}}))
	assert.Len(t, r.Findings, 1)
}

func TestAnalyzeAllKeepsOrder(t *testing.T) {
	units := []source.Unit{
		{Name: "A.java", Text: "// TODO\n"},
		{Name: "B.java", Text: "int unused = 0;\n"},
		{Name: "C.java", Text: "for (;;) {}\n"},
		{Name: "D.java", Text: ""},
	}
	reviews, err := newEngine(rules.Default(), nil).AnalyzeAll(context.Background(), units, 3)
	require.NoError(t, err)
	require.Len(t, reviews, len(units))

	for i, u := range units {
		assert.Equal(t, u.Name, reviews[i].Filename)
	}
	require.Len(t, reviews[0].Findings, 1)
	assert.Equal(t, "todo-comment", reviews[0].Findings[0].Rule)
	require.Len(t, reviews[1].Findings, 1)
	assert.Equal(t, "unused-local-variable", reviews[1].Findings[0].Rule)
	require.Len(t, reviews[2].Findings, 1)
	assert.Equal(t, "infinite-loop", reviews[2].Findings[0].Rule)
	assert.Empty(t, reviews[3].Findings)
}

func TestAnalyzeAllStopsOnRuleFault(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Register(panicking("exploding-rule", "x")))
	units := []source.Unit{{Name: "A.java", Text: "a"}, {Name: "B.java", Text: "b"}}

	reviews, err := newEngine(reg, nil).AnalyzeAll(context.Background(), units, 0)
	assert.Nil(t, reviews)
	var re *RuleError
	assert.ErrorAs(t, err, &re)
}

func FuzzAnalyzeNoPanic(f *testing.F) {
	for _, s := range []string{
		"while (true) {\n  System.out.println(\"x\");\n}\n",
		"do {\n} while (1 == 1);\n",
		"/* open comment\nfor (;;)\n",
		"import a.b.C;\nString s = \"select \" + x;\n}}}{",
		"",
	} {
		f.Add(s)
	}
	e := newEngine(rules.Default(), nil)
	f.Fuzz(func(t *testing.T, src string) {
		r, err := e.Analyze(context.Background(), src, "")
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if got := r.Counts.Total(); got != len(r.Findings) {
			t.Fatalf("counts total %d, findings %d", got, len(r.Findings))
		}
	})
}

func BenchmarkAnalyzeSample(b *testing.B) {
	src, err := os.ReadFile(filepath.Join("testdata", "Sample.java"))
	if err != nil {
		b.Fatal(err)
	}
	text := strings.Repeat(string(src), 20)
	e := newEngine(rules.Default(), nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Analyze(context.Background(), text, "Sample.java"); err != nil {
			b.Fatal(err)
		}
	}
}
