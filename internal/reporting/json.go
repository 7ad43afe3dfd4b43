package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codewithboateng/jreview/internal/ir"
)

// BaseName names report files: review-<id> for stored reviews, otherwise
// review-<file stem>.
func BaseName(r *ir.Review) string {
	if r.ID > 0 {
		return fmt.Sprintf("review-%d", r.ID)
	}
	stem := strings.TrimSuffix(filepath.Base(r.Filename), filepath.Ext(r.Filename))
	if stem == "" || stem == "." {
		stem = "inline"
	}
	return "review-" + stem
}

func WriteJSON(outDir string, r *ir.Review) (string, error) {
	return writeFile(outDir, BaseName(r)+".json", func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	})
}

// writeFile creates outDir if needed and fills outDir/name with render.
func writeFile(outDir, name string, render func(f *os.File) error) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := render(f); err != nil {
		return "", err
	}
	return path, nil
}
