package rules

import (
	"regexp"
	"strings"

	"github.com/codewithboateng/jreview/internal/ir"
)

var (
	alwaysWhileRe = regexp.MustCompile(`^while\s*\(\s*(?:(?i:true)|1\s*==\s*1|0\s*==\s*0)\s*\)`)
	alwaysTailRe  = regexp.MustCompile(`^while\s*\(\s*(?:(?i:true)|1\s*==\s*1|0\s*==\s*0)\s*\)\s*;`)
	foreverForRe  = regexp.MustCompile(`^for\s*\(\s*;\s*;\s*\)`)
	doHeaderRe    = regexp.MustCompile(`^do(?:\s|\{|$)`)
)

func newInfiniteLoopRule() *Func {
	t := issue{
		title:       "Likely infinite loop",
		description: "This loop appears unconditional and the body lacks an exit path.",
		suggestion:  "Add a break/return/throw or make the condition finite.",
		category:    ir.CategoryError,
		severity:    ir.SeverityHigh,
	}
	return &Func{
		ID:   "infinite-loop",
		Doc:  "while(true), for(;;) and do/while(true) loops with no break, return or throw.",
		Eval: func(ctx *Context) []ir.Finding { return evalInfiniteLoop(ctx.Lines, t) },
	}
}

func evalInfiniteLoop(lines []string, t issue) []ir.Finding {
	var out []ir.Finding
	inComment := false
	for i := 0; i < len(lines); i++ {
		l := stripLineComment(lines[i])
		if !inComment && strings.Contains(l, "/*") {
			inComment = true
		}
		if inComment {
			if strings.Contains(l, "*/") {
				inComment = false
			}
			continue
		}
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}

		switch {
		case alwaysWhileRe.MatchString(trimmed) || foreverForRe.MatchString(trimmed):
			// while(true); has no body to search
			if strings.HasSuffix(trimmed, ";") && !strings.Contains(trimmed, "{") {
				out = append(out, t.at(i+1))
				continue
			}
			open, end := findBlock(lines, i)
			if open < 0 {
				// braceless body: the next statement
				if !linesHaveExit(lines, i+1, statementEnd(lines, i+1)) {
					out = append(out, t.at(i+1))
				}
				continue
			}
			if !blockHasExit(lines, open, end) {
				out = append(out, t.at(i+1))
			}
			i = end

		case doHeaderRe.MatchString(trimmed):
			open, end := findBlock(lines, i)
			if open < 0 {
				continue
			}
			at, always, found := doWhileTail(lines, end)
			if found && always && !blockHasExit(lines, open, end) {
				out = append(out, t.at(i+1))
			}
			i = max(end, at)
		}
	}
	return out
}

// findBlock locates the brace block belonging to the header at index header.
// The opening brace is on the header or on the next non-empty line. open is
// the line holding the opening brace and end the line where the balance
// returns to zero; both are -1 when there is no block. An unterminated block
// runs to the last line.
func findBlock(lines []string, header int) (open, end int) {
	open = header
	h := stripLineComment(lines[header])
	balance := braceDelta(h)
	if !strings.Contains(h, "{") {
		open = -1
		for j := header + 1; j < len(lines); j++ {
			next := strings.TrimSpace(stripLineComment(lines[j]))
			if next == "" {
				continue
			}
			if strings.HasPrefix(next, "{") {
				open, balance = j, braceDelta(next)
			}
			break
		}
		if open < 0 {
			return -1, -1
		}
	}
	if balance <= 0 {
		return open, open
	}
	for j := open + 1; j < len(lines); j++ {
		balance += braceDelta(stripLineComment(lines[j]))
		if balance <= 0 {
			return open, j
		}
	}
	return open, len(lines) - 1
}

// blockHasExit searches the text after the opening brace and every following
// line up to and including end.
func blockHasExit(lines []string, open, end int) bool {
	first := stripLineComment(lines[open])
	if k := strings.Index(first, "{"); k >= 0 {
		first = first[k+1:]
	}
	if isLoopExit(strings.TrimSpace(first)) {
		return true
	}
	return linesHaveExit(lines, open+1, end)
}

func linesHaveExit(lines []string, from, to int) bool {
	for j := from; j <= to && j < len(lines); j++ {
		if j < 0 {
			continue
		}
		if isLoopExit(strings.TrimSpace(stripLineComment(lines[j]))) {
			return true
		}
	}
	return false
}

func isLoopExit(t string) bool {
	return strings.Contains(t, "break;") ||
		strings.HasPrefix(t, "return") ||
		strings.HasPrefix(t, "throw ")
}

// statementEnd returns the first line from start ending in ';' or '}'.
func statementEnd(lines []string, start int) int {
	for j := start; j < len(lines); j++ {
		t := strings.TrimSpace(stripLineComment(lines[j]))
		if strings.HasSuffix(t, ";") || strings.HasSuffix(t, "}") {
			return j
		}
	}
	return min(start, len(lines)-1)
}

// doWhileTail finds the "while (...);" closing a do block that ends on line
// end. It looks after the closing brace on that line, then at the next two
// lines, stopping at the first non-empty one.
func doWhileTail(lines []string, end int) (at int, always, found bool) {
	tail := stripLineComment(lines[end])
	if k := strings.LastIndex(tail, "}"); k >= 0 {
		tail = tail[k+1:]
	}
	if t := strings.TrimSpace(tail); t != "" {
		if isWhileTail(t) {
			return end, alwaysTailRe.MatchString(t), true
		}
		return end, false, false
	}
	for j := end + 1; j < len(lines) && j <= end+2; j++ {
		t := strings.TrimSpace(stripLineComment(lines[j]))
		if t == "" {
			continue
		}
		if isWhileTail(t) {
			return j, alwaysTailRe.MatchString(t), true
		}
		break
	}
	return end, false, false
}

func isWhileTail(t string) bool {
	return strings.HasPrefix(t, "while") && strings.HasSuffix(t, ";")
}
