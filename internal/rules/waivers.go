package rules

import (
	"strings"

	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/storage"
)

// ApplyWaivers filters out findings that match any active waiver.
// Returns (kept, waivedCount)
func ApplyWaivers(in []ir.Finding, filename string, waivers []storage.Waiver) ([]ir.Finding, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	var out []ir.Finding
	waived := 0
nextFinding:
	for _, f := range in {
		for _, w := range waivers {
			if !eqCI(f.Rule, w.Rule) {
				continue
			}
			if w.Filename != "" && !eqCI(filename, w.Filename) {
				continue
			}
			if w.Pattern != "" {
				ps := strings.ToUpper(w.Pattern)
				if !strings.Contains(strings.ToUpper(f.Title), ps) &&
					!strings.Contains(strings.ToUpper(f.Description), ps) {
					continue
				}
			}
			waived++
			continue nextFinding
		}
		out = append(out, f)
	}
	return out, waived
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
