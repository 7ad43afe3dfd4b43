//go:build cgo

package diagnostics

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/codewithboateng/jreview/internal/ir"
)

// Java checks source with the tree-sitter Java grammar.
type Java struct{}

// New returns a Java checker. It never returns nil in cgo builds.
func New() *Java {
	return &Java{}
}

// Available reports whether Diagnose can run in this build.
func Available() bool {
	return true
}

// Diagnose parses source and returns one finding per syntax error, plus one
// for a top-level public type whose name differs from typeName. A clean
// parse yields no findings.
func (j *Java) Diagnose(ctx context.Context, source, typeName string) ([]ir.Finding, error) {
	if j == nil {
		return nil, ErrUnavailable
	}
	// a parser is not safe for concurrent use, so each call gets its own
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(java.GetLanguage())

	src := []byte(source)
	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var out []ir.Finding
	collectSyntaxErrors(root, src, &out)
	out = append(out, checkPublicTypes(root, src, typeName)...)
	return out, nil
}

func collectSyntaxErrors(n *sitter.Node, src []byte, out *[]ir.Finding) {
	if n == nil || len(*out) >= maxDiagnostics {
		return
	}
	line := int(n.StartPoint().Row) + 1
	switch {
	case n.IsMissing():
		*out = append(*out, compileError(line, fmt.Sprintf("'%s' expected", n.Type())))
		return
	case n.IsError():
		*out = append(*out, compileError(line, fmt.Sprintf("syntax error near '%s'", snippet(n.Content(src)))))
		return
	}
	if !n.HasError() {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collectSyntaxErrors(n.Child(i), src, out)
	}
}

var typeDeclarations = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"enum_declaration":      true,
	"record_declaration":    true,
}

func checkPublicTypes(root *sitter.Node, src []byte, typeName string) []ir.Finding {
	if typeName == "" {
		return nil
	}
	var out []ir.Finding
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if decl == nil || !typeDeclarations[decl.Type()] || !isPublic(decl, src) {
			continue
		}
		name := decl.ChildByFieldName("name")
		if name == nil {
			continue
		}
		if got := name.Content(src); got != typeName {
			out = append(out, compileError(int(decl.StartPoint().Row)+1,
				fmt.Sprintf("class %s is public, should be declared in a file named %s.java", got, got)))
		}
	}
	return out
}

func isPublic(decl *sitter.Node, src []byte) bool {
	for i := 0; i < int(decl.ChildCount()); i++ {
		c := decl.Child(i)
		if c != nil && c.Type() == "modifiers" {
			return strings.Contains(c.Content(src), "public")
		}
	}
	return false
}
