package rules

import "strings"

// Line-level helpers shared by the block-tracking rules. None of them know
// about string literals, so braces or "//" inside strings are miscounted.

func stripLineComment(l string) string {
	if i := strings.Index(l, "//"); i >= 0 {
		return l[:i]
	}
	return l
}

func braceDelta(l string) int {
	return strings.Count(l, "{") - strings.Count(l, "}")
}

// hasLoopHeader reports a for/while keyword followed by '(' with at most one
// space between them.
func hasLoopHeader(l string) bool {
	return strings.Contains(l, "for(") || strings.Contains(l, "for (") ||
		strings.Contains(l, "while(") || strings.Contains(l, "while (")
}
