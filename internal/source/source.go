// Package source collects Java compilation units from files and directories.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Unit is one source file to analyze.
type Unit struct {
	Path string // cleaned path as found on disk
	Name string // base name, used as the review filename
	Text string
}

// Diagnostics carries problems that did not stop loading.
type Diagnostics struct {
	Warnings []string
}

// Load reads every path. A file is taken as is; a directory is walked for
// .java files. Files larger than maxBytes (when > 0) and unreadable entries
// become warnings. Units are returned sorted by path with duplicates removed.
func Load(paths []string, maxBytes int64) ([]Unit, Diagnostics) {
	var diags Diagnostics
	seen := map[string]bool{}
	var units []Unit

	add := func(p string) {
		p = filepath.Clean(p)
		if seen[p] {
			return
		}
		seen[p] = true
		u, err := readUnit(p, maxBytes)
		if err != nil {
			diags.Warnings = append(diags.Warnings, err.Error())
			return
		}
		units = append(units, u)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			diags.Warnings = append(diags.Warnings, err.Error())
			continue
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				diags.Warnings = append(diags.Warnings, err.Error())
				return nil
			}
			if d.IsDir() || !IsJava(d.Name()) {
				return nil
			}
			add(p)
			return nil
		})
	}

	if len(units) == 0 {
		diags.Warnings = append(diags.Warnings, "no .java files found")
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })
	return units, diags
}

// IsJava reports whether name carries the .java extension, in any case.
func IsJava(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".java")
}

func readUnit(p string, maxBytes int64) (Unit, error) {
	if maxBytes > 0 {
		if info, err := os.Stat(p); err == nil && info.Size() > maxBytes {
			return Unit{}, fmt.Errorf("%s: %d bytes exceeds limit of %d", p, info.Size(), maxBytes)
		}
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return Unit{}, err
	}
	return Unit{Path: p, Name: filepath.Base(p), Text: string(b)}, nil
}
