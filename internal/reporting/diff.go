package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/codewithboateng/jreview/internal/ir"
)

// Diff compares two reviews' findings. Findings are matched by rule, title
// and line; a matched pair whose severity, category or description differs
// is reported as changed.
type Diff struct {
	BaseID  int64         `json:"base_id"`
	HeadID  int64         `json:"head_id"`
	Summary DiffSummary   `json:"summary"`
	New     []ir.Finding  `json:"new"`
	Removed []ir.Finding  `json:"removed"`
	Changed []DiffChanged `json:"changed"`
}

type DiffSummary struct {
	NewCount     int `json:"new"`
	RemovedCount int `json:"removed"`
	ChangedCount int `json:"changed"`
}

type DiffChanged struct {
	Key     string     `json:"key"`
	Base    ir.Finding `json:"base"`
	Head    ir.Finding `json:"head"`
	Changed []string   `json:"fields_changed"`
}

func Compare(base, head *ir.Review) Diff {
	bm := index(base.Findings)
	hm := index(head.Findings)

	d := Diff{BaseID: base.ID, HeadID: head.ID}
	// additions & changes
	for k, hf := range hm {
		bf, ok := bm[k]
		if !ok {
			d.New = append(d.New, hf)
			continue
		}
		var fields []string
		if bf.Severity != hf.Severity {
			fields = append(fields, "severity")
		}
		if bf.Category != hf.Category {
			fields = append(fields, "category")
		}
		if strings.TrimSpace(bf.Description) != strings.TrimSpace(hf.Description) {
			fields = append(fields, "description")
		}
		if len(fields) > 0 {
			d.Changed = append(d.Changed, DiffChanged{Key: k, Base: bf, Head: hf, Changed: fields})
		}
	}
	// removals
	for k, bf := range bm {
		if _, ok := hm[k]; !ok {
			d.Removed = append(d.Removed, bf)
		}
	}

	// stable order
	sortFindings(d.New)
	sortFindings(d.Removed)
	sort.Slice(d.Changed, func(i, j int) bool { return d.Changed[i].Key < d.Changed[j].Key })

	d.Summary = DiffSummary{NewCount: len(d.New), RemovedCount: len(d.Removed), ChangedCount: len(d.Changed)}
	return d
}

func WriteDiffJSON(outDir string, base, head *ir.Review) (string, error) {
	d := Compare(base, head)
	name := fmt.Sprintf("diff_%d__%d.json", base.ID, head.ID)
	return writeFile(outDir, name, func(f *os.File) error {
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		_, err = f.Write(b)
		return err
	})
}

// index keys findings; a repeated key gets a #n suffix so duplicates on the
// same line are still compared one to one.
func index(fs []ir.Finding) map[string]ir.Finding {
	m := make(map[string]ir.Finding, len(fs))
	for _, f := range fs {
		k := keyOf(f)
		for n := 2; ; n++ {
			if _, dup := m[k]; !dup {
				break
			}
			k = fmt.Sprintf("%s#%d", keyOf(f), n)
		}
		m[k] = f
	}
	return m
}

func keyOf(f ir.Finding) string {
	return fmt.Sprintf("%s|%s|%d", norm(f.Rule), norm(f.Title), f.Line)
}

func sortFindings(fs []ir.Finding) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Line != fs[j].Line {
			return fs[i].Line < fs[j].Line
		}
		return fs[i].Rule < fs[j].Rule
	})
}

func norm(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
