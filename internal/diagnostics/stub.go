//go:build !cgo

package diagnostics

import (
	"context"

	"github.com/codewithboateng/jreview/internal/ir"
)

// Java is a stub for non-cgo builds.
type Java struct{}

// New returns nil when cgo is disabled.
func New() *Java {
	return nil
}

// Available returns false when cgo is disabled.
func Available() bool {
	return false
}

// Diagnose always returns ErrUnavailable.
func (j *Java) Diagnose(ctx context.Context, source, typeName string) ([]ir.Finding, error) {
	return nil, ErrUnavailable
}
