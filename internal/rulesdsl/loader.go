// Package rulesdsl loads YAML rule packs of line-regex rules and registers
// them after the built-in rules.
package rulesdsl

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/rules"
)

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	Name        string `yaml:"name"`
	Summary     string `yaml:"summary"`
	Pattern     string `yaml:"pattern"`       // regex matched per line
	Exclude     string `yaml:"exclude"`       // optional regex; matching lines are skipped
	IgnoreCase  bool   `yaml:"ignore_case"`
	SkipComment bool   `yaml:"skip_comments"` // match only the text before "//"
	Category    string `yaml:"category"`      // ERROR|WARNING|OPTIMIZATION|SECURITY
	Severity    string `yaml:"severity"`      // LOW|MEDIUM|HIGH
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Suggestion  string `yaml:"suggestion"`
	Disabled    bool   `yaml:"disabled"`
}

type compiled struct {
	rule      dslRule
	category  ir.Category
	severity  ir.Severity
	reMatch   *regexp.Regexp
	reExclude *regexp.Regexp
}

// LoadAndRegister reads a pack from path and registers its rules into reg.
// It returns the number of rules registered.
func LoadAndRegister(reg *rules.Registry, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rules pack: %w", err)
	}
	n, err := Register(reg, b)
	if err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Register parses a YAML pack and registers it. Every rule is compiled
// before any is registered, so a bad rule leaves reg untouched; a name
// collision stops registration at that rule.
func Register(reg *rules.Registry, data []byte) (int, error) {
	var pack dslPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}
	cs := make([]*compiled, 0, len(pack.Rules))
	for _, r := range pack.Rules {
		c, err := compile(r)
		if err != nil {
			return 0, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		cs = append(cs, c)
	}
	var n int
	for _, c := range cs {
		if err := reg.Register(c.asRule()); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func compile(r dslRule) (*compiled, error) {
	if r.Name == "" || r.Pattern == "" || r.Title == "" || r.Category == "" || r.Severity == "" {
		return nil, errors.New("missing required fields (name/pattern/title/category/severity)")
	}
	cat, ok := ir.ParseCategory(r.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", r.Category)
	}
	sev, ok := ir.ParseSeverity(r.Severity)
	if !ok {
		return nil, fmt.Errorf("unknown severity %q", r.Severity)
	}
	prefix := ""
	if r.IgnoreCase {
		prefix = "(?i)"
	}
	c := &compiled{rule: r, category: cat, severity: sev}
	re, err := regexp.Compile(prefix + r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern: %w", err)
	}
	c.reMatch = re
	if r.Exclude != "" {
		re, err := regexp.Compile(prefix + r.Exclude)
		if err != nil {
			return nil, fmt.Errorf("exclude: %w", err)
		}
		c.reExclude = re
	}
	return c, nil
}

func (c *compiled) asRule() rules.Rule {
	f := &rules.Func{
		ID:   c.rule.Name,
		Doc:  c.rule.Summary,
		Eval: c.eval,
	}
	if c.rule.Disabled {
		f.SetEnabled(false)
	}
	return f
}

func (c *compiled) eval(ctx *rules.Context) []ir.Finding {
	var out []ir.Finding
	for i, l := range ctx.Lines {
		if c.rule.SkipComment {
			if k := strings.Index(l, "//"); k >= 0 {
				l = l[:k]
			}
		}
		if !c.reMatch.MatchString(l) {
			continue
		}
		if c.reExclude != nil && c.reExclude.MatchString(l) {
			continue
		}
		out = append(out, ir.Finding{
			Line:        i + 1,
			Title:       c.rule.Title,
			Description: c.rule.Description,
			Suggestion:  c.rule.Suggestion,
			Category:    c.category,
			Severity:    c.severity,
		})
	}
	return out
}
