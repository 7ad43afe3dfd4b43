package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/codewithboateng/jreview/internal/ir"
)

// maxLineLen is the longest line, in characters, long-line accepts.
const maxLineLen = 120

var (
	emptyCatchRe = regexp.MustCompile(`catch\s*\([^)]*\)\s*\{\s*\}`)
	secretRe     = regexp.MustCompile(`(?i)(password\s*=|api[_-]?key\s*=|secret\s*=|AKIA[0-9A-Z]{16})`)
)

func newTodoRule() *Func {
	return &Func{
		ID:  "todo-comment",
		Doc: "Lines carrying a TODO marker.",
		Eval: perLine(issue{
			title:       "TODO comment found",
			description: "There is a TODO comment in the code.",
			suggestion:  "Finish or remove TODO comments to keep the code clean.",
			category:    ir.CategoryWarning,
			severity:    ir.SeverityLow,
		}, func(l string) bool { return strings.Contains(l, "TODO") }),
	}
}

func newConsoleLoggingRule() *Func {
	return &Func{
		ID:  "console-logging",
		Doc: "System.out.println used instead of a logger.",
		Eval: perLine(issue{
			title:       "Console logging",
			description: "System.out.println is used.",
			suggestion:  "Use a proper logging framework instead of System.out.println in production code.",
			category:    ir.CategoryOptimization,
			severity:    ir.SeverityMedium,
		}, func(l string) bool { return strings.Contains(l, "System.out.println") }),
	}
}

func newSQLConcatRule() *Func {
	return &Func{
		ID:  "sql-string-concatenation",
		Doc: "SELECT statements assembled with string concatenation.",
		Eval: perLine(issue{
			title:       "Possible SQL Injection",
			description: "SQL query is built using string concatenation.",
			suggestion:  "Use PreparedStatement or parameterized queries to avoid SQL injection.",
			category:    ir.CategorySecurity,
			severity:    ir.SeverityHigh,
		}, func(l string) bool {
			return strings.Contains(strings.ToLower(l), "select ") &&
				strings.Contains(l, `"`) &&
				strings.Contains(l, "+")
		}),
	}
}

func newLongLineRule() *Func {
	return &Func{
		ID:  "long-line",
		Doc: "Lines longer than 120 characters.",
		Eval: perLine(issue{
			title:       "Long line",
			description: "This line is very long.",
			suggestion:  "Break long lines into smaller chunks for better readability.",
			category:    ir.CategoryOptimization,
			severity:    ir.SeverityLow,
		}, func(l string) bool { return utf8.RuneCountInString(l) > maxLineLen }),
	}
}

func newEmptyCatchRule() *Func {
	return &Func{
		ID:  "empty-catch",
		Doc: "catch blocks with nothing between the braces.",
		Eval: perLine(issue{
			title:       "Empty catch block",
			description: "Empty catch blocks hide exceptions and make debugging difficult.",
			suggestion:  "Log the exception and/or handle it appropriately.",
			category:    ir.CategoryWarning,
			severity:    ir.SeverityMedium,
		}, emptyCatchRe.MatchString),
	}
}

func newHardcodedSecretRule() *Func {
	return &Func{
		ID:  "hardcoded-secret",
		Doc: "Password, API key or secret assignments and AWS access key ids.",
		Eval: perLine(issue{
			title:       "Hardcoded secret detected",
			description: "Potentially sensitive credential detected in code.",
			suggestion:  "Do not commit secrets. Use environment variables or a secrets manager.",
			category:    ir.CategorySecurity,
			severity:    ir.SeverityHigh,
		}, secretRe.MatchString),
	}
}

func newUnmatchedBracesRule() *Func {
	t := issue{
		title:       "Unmatched braces",
		description: "Number of '{' and '}' characters does not match.",
		suggestion:  "Ensure each opening brace has a matching closing brace.",
		category:    ir.CategoryError,
		severity:    ir.SeverityHigh,
	}
	return &Func{
		ID:  "unmatched-braces",
		Doc: "Whole-file count of '{' differs from '}'.",
		Eval: func(ctx *Context) []ir.Finding {
			// Braces inside strings and comments count too.
			if strings.Count(ctx.Source, "{") != strings.Count(ctx.Source, "}") {
				return []ir.Finding{t.at(0)}
			}
			return nil
		},
	}
}
