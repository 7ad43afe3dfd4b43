package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/codewithboateng/jreview/internal/ir"
)

var (
	localDeclRe = regexp.MustCompile(`^(\s*)(final\s+)?(?:(?:byte|short|int|long|float|double|boolean|char|String|var)\b(?:\s*\[\s*\])*|[A-Z][A-Za-z0-9_<>\[\]?,\.\s]+)\s+(.+?);\s*$`)
	identRe     = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

// Lines starting with one of these are never local declarations.
var nonLocalPrefixes = []string{
	"import ", "package ", "class ", "interface ", "enum ",
	"public ", "private ", "protected ", "@",
	"for ", "for(", "catch ", "catch(",
}

func newUnusedVariableRule() *Func {
	return &Func{
		ID:   "unused-local-variable",
		Doc:  "Local declarations whose name never appears on another line.",
		Eval: evalUnusedVariables,
	}
}

type declared struct {
	name string
	line int // 0-based
}

func evalUnusedVariables(ctx *Context) []ir.Finding {
	var decls []declared
	seen := map[string]bool{}
	for i, raw := range ctx.Lines {
		l := stripLineComment(raw)
		t := strings.TrimSpace(l)
		if t == "" || isNonLocalLine(t) {
			continue
		}
		m := localDeclRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		for _, name := range declaredNames(m[3]) {
			if seen[name] {
				continue
			}
			seen[name] = true
			decls = append(decls, declared{name: name, line: i})
		}
	}

	var out []ir.Finding
	for _, d := range decls {
		word := regexp.MustCompile(`\b` + regexp.QuoteMeta(d.name) + `\b`)
		used := false
		for i, raw := range ctx.Lines {
			if i == d.line {
				continue
			}
			if word.MatchString(stripLineComment(raw)) {
				used = true
				break
			}
		}
		if !used {
			f := issue{
				title:       "Unused local variable",
				description: fmt.Sprintf("The local variable '%s' does not appear to be used.", d.name),
				suggestion:  "Remove the variable or use it.",
				category:    ir.CategoryWarning,
				severity:    ir.SeverityLow,
			}.at(d.line + 1)
			out = append(out, f)
		}
	}
	return out
}

// declaredNames pulls the variable names out of the declarator list of a
// declaration, e.g. "a = 1, b[] = {2}, c" yields a, b and c.
func declaredNames(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		if k := strings.Index(part, "="); k >= 0 {
			part = part[:k]
		}
		part = strings.NewReplacer("[", " ", "]", " ").Replace(part)
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		name := fields[len(fields)-1]
		if identRe.MatchString(name) {
			names = append(names, name)
		}
	}
	return names
}

func newUnusedImportRule() *Func {
	return &Func{
		ID:   "unused-import",
		Doc:  "Single-type imports whose simple name is absent from the body.",
		Eval: evalUnusedImports,
	}
}

func evalUnusedImports(ctx *Context) []ir.Finding {
	type imported struct {
		qualified string
		line      int
	}
	var imports []imported
	var body strings.Builder
	for i, raw := range ctx.Lines {
		t := strings.TrimSpace(raw)
		if strings.HasPrefix(t, "import ") {
			if strings.HasSuffix(t, ";") && !strings.Contains(t, "*") {
				qn := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(t, "import "), ";"))
				qn = strings.TrimSpace(strings.TrimPrefix(qn, "static "))
				imports = append(imports, imported{qualified: qn, line: i})
			}
			continue
		}
		body.WriteString(t)
		body.WriteByte('\n')
	}

	text := body.String()
	var out []ir.Finding
	for _, imp := range imports {
		simple := imp.qualified
		if k := strings.LastIndex(simple, "."); k >= 0 {
			simple = simple[k+1:]
		}
		if simple == "" || strings.Contains(text, simple) {
			continue
		}
		out = append(out, issue{
			title:       "Unused import",
			description: fmt.Sprintf("The import '%s' does not appear to be used.", imp.qualified),
			suggestion:  "Remove the unused import.",
			category:    ir.CategoryWarning,
			severity:    ir.SeverityLow,
		}.at(imp.line+1))
	}
	return out
}

// isNonLocalLine reports a trimmed line that opens a non-local context.
func isNonLocalLine(t string) bool {
	return hasAnyPrefix(t, nonLocalPrefixes)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
