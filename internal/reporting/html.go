package reporting

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"

	"github.com/codewithboateng/jreview/internal/ir"
)

// RenderHTML writes a self-contained HTML report.
func RenderHTML(w io.Writer, r *ir.Review) error {
	bw := bufio.NewWriter(w)
	esc := html.EscapeString

	// Head + styles
	fmt.Fprint(bw, "<!doctype html><html><head><meta charset='utf-8'><title>Code Review Report</title>")
	fmt.Fprint(bw, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} .issue{margin:12px 0;padding:10px;border:1px solid #ddd;border-radius:6px} .meta{color:#555} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .ERROR{border-left:4px solid #c62828} .SECURITY{border-left:4px solid #6a1b9a} .WARNING{border-left:4px solid #f9a825} .OPTIMIZATION{border-left:4px solid #1565c0}</style>")
	fmt.Fprint(bw, "</head><body>")

	// Title + summary
	fmt.Fprint(bw, "<h1>Code Review Report</h1>")
	fmt.Fprintf(bw, "<p class='meta'><b>File:</b> <span class='mono'>%s</span> | <b>Review ID:</b> %d</p>", esc(r.Filename), r.ID)
	fmt.Fprint(bw, "<ul>")
	fmt.Fprintf(bw, "<li>Errors: %d</li>", r.Counts.Errors)
	fmt.Fprintf(bw, "<li>Warnings: %d</li>", r.Counts.Warnings)
	fmt.Fprintf(bw, "<li>Optimizations: %d</li>", r.Counts.Optimizations)
	fmt.Fprintf(bw, "<li>Security: %d</li>", r.Counts.Security)
	fmt.Fprint(bw, "</ul>")
	fmt.Fprintf(bw, "<p class='meta'>Total issues: %d</p>", r.Counts.Total())

	// Issues in engine order
	fmt.Fprint(bw, "<h2>Issues</h2>")
	if len(r.Findings) == 0 {
		fmt.Fprint(bw, "<p class='meta'>No issues found.</p>")
	}
	for _, f := range r.Findings {
		fmt.Fprintf(bw, "<div class='issue %s'>", esc(string(f.Category)))
		fmt.Fprintf(bw, "<h3>[%s] (Line %d) %s</h3>", esc(string(f.Category)), f.Line, esc(f.Title))
		fmt.Fprintf(bw, "<p>%s</p>", esc(f.Description))
		fmt.Fprintf(bw, "<p><b>Suggestion:</b> %s</p>", esc(f.Suggestion))
		fmt.Fprintf(bw, "<p class='meta'>Severity: %s", esc(string(f.Severity)))
		if f.Rule != "" {
			fmt.Fprintf(bw, " &nbsp; Rule: <span class='mono'>%s</span>", esc(f.Rule))
		}
		fmt.Fprint(bw, "</p></div>")
	}
	fmt.Fprint(bw, "</body></html>")
	return bw.Flush()
}

func WriteHTML(outDir string, r *ir.Review) (string, error) {
	return writeFile(outDir, BaseName(r)+".html", func(f *os.File) error {
		return RenderHTML(f, r)
	})
}
