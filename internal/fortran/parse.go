// Package fortran binds the tree-sitter Fortran grammar to Fortitude's
// internal/ast node wrapper. It is the only package that imports
// tree-sitter-grammars/tree-sitter-fortran directly.
package fortran

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_fortran "github.com/tree-sitter-grammars/tree-sitter-fortran/bindings/go"

	"github.com/fortitude-lint/fortitude/internal/ast"
)

// Tree owns a parsed syntax tree together with the source it was parsed
// from. Callers must call Close when done to release the underlying
// tree-sitter tree.
type Tree struct {
	tree *tree_sitter.Tree
	src  []byte
}

// Parse parses Fortran source with the tree-sitter grammar. The source is
// parsed as given; no fixed-form continuation or comment conventions are
// normalized beforehand.
func Parse(src []byte) (*Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	lang := tree_sitter.NewLanguage(tree_sitter_fortran.Language())
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("fortran: set language: %w", err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("fortran: parse returned no tree")
	}
	return &Tree{tree: tree, src: src}, nil
}

// Reparse reparses edited source, passing old's tree (if any) to the
// parser for reuse.
func Reparse(src []byte, old *Tree) (*Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	lang := tree_sitter.NewLanguage(tree_sitter_fortran.Language())
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("fortran: set language: %w", err)
	}

	var oldTree *tree_sitter.Tree
	if old != nil {
		oldTree = old.tree
	}
	tree := parser.Parse(src, oldTree)
	if tree == nil {
		return nil, fmt.Errorf("fortran: reparse returned no tree")
	}
	return &Tree{tree: tree, src: src}, nil
}

// RootNode returns the tree's root, wrapped for the rest of the codebase.
func (t *Tree) RootNode() ast.Node {
	root := t.tree.RootNode()
	return ast.Wrap(root, t.src)
}

// Source returns the bytes the tree was parsed from.
func (t *Tree) Source() []byte { return t.src }

// Close releases the underlying tree-sitter tree. Safe to call on a nil
// receiver.
func (t *Tree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
}

// HasSyntaxError reports whether the tree contains any ERROR or missing
// node. Used by the convergent fix loop (a fix that introduces a syntax
// error is rejected and rolled back).
func (t *Tree) HasSyntaxError() bool {
	return hasSyntaxError(t.RootNode())
}

func hasSyntaxError(n ast.Node) bool {
	if n.IsError() || n.IsMissing() {
		return true
	}
	for i := range n.ChildCount() {
		if hasSyntaxError(n.Child(i)) {
			return true
		}
	}
	return false
}
