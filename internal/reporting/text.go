package reporting

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/codewithboateng/jreview/internal/ir"
)

// RenderText writes the plain-text report used by the txt export.
func RenderText(w io.Writer, r *ir.Review) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "Code Review Report")
	fmt.Fprintf(bw, "File: %s | Review ID: %d\n", r.Filename, r.ID)
	fmt.Fprintf(bw, "Errors: %d, Warnings: %d, Optimizations: %d, Security: %d\n",
		r.Counts.Errors, r.Counts.Warnings, r.Counts.Optimizations, r.Counts.Security)
	fmt.Fprintln(bw)
	for _, f := range r.Findings {
		fmt.Fprintf(bw, "[%s] (Line %d) %s\n", f.Category, f.Line, f.Title)
		fmt.Fprintf(bw, "  %s\n", f.Description)
		fmt.Fprintf(bw, "  Suggestion: %s\n", f.Suggestion)
		fmt.Fprintf(bw, "  Severity: %s\n", f.Severity)
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func WriteText(outDir string, r *ir.Review) (string, error) {
	return writeFile(outDir, BaseName(r)+".txt", func(f *os.File) error {
		return RenderText(f, r)
	})
}
