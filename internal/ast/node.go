// Package ast wraps tree-sitter nodes behind a narrow interface so that the
// rest of Fortitude (symtab, check, the rule packages) never imports
// tree-sitter directly. Swapping grammars or even parser libraries stays
// contained to this package and internal/fortran.
package ast

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Node is a thin, read-only view of a parsed tree-sitter node plus the
// source bytes it was parsed from.
type Node struct {
	n   *tree_sitter.Node
	src []byte
}

// Wrap adapts a raw tree-sitter node. Used only by internal/fortran.
func Wrap(n *tree_sitter.Node, src []byte) Node {
	return Node{n: n, src: src}
}

// Valid reports whether the node is non-nil. A zero Node is invalid.
func (n Node) Valid() bool { return n.n != nil }

// Kind is the grammar's node type, e.g. "variable_declaration".
func (n Node) Kind() string {
	if !n.Valid() {
		return ""
	}
	return n.n.Kind()
}

// IsNamed reports whether this is a named node (not punctuation).
func (n Node) IsNamed() bool { return n.Valid() && n.n.IsNamed() }

// IsError reports whether this node is a tree-sitter ERROR node.
func (n Node) IsError() bool { return n.Valid() && n.n.IsError() }

// IsMissing reports whether the parser synthesized this node to recover
// from a syntax error (a "missing" node, as opposed to an ERROR node).
func (n Node) IsMissing() bool { return n.Valid() && n.n.IsMissing() }

// StartByte is the 0-based byte offset where the node begins.
func (n Node) StartByte() uint {
	if !n.Valid() {
		return 0
	}
	return uint(n.n.StartByte())
}

// EndByte is the 0-based byte offset just past the node.
func (n Node) EndByte() uint {
	if !n.Valid() {
		return 0
	}
	return uint(n.n.EndByte())
}

// StartPoint is the 0-based (row, column) where the node begins.
func (n Node) StartPoint() tree_sitter.Point {
	if !n.Valid() {
		return tree_sitter.Point{}
	}
	return n.n.StartPosition()
}

// EndPoint is the 0-based (row, column) just past the node.
func (n Node) EndPoint() tree_sitter.Point {
	if !n.Valid() {
		return tree_sitter.Point{}
	}
	return n.n.EndPosition()
}

// Text returns the source slice covered by this node.
func (n Node) Text() string {
	if !n.Valid() {
		return ""
	}
	return n.n.Utf8Text(n.src)
}

// ChildCount returns the number of direct children, named and anonymous.
func (n Node) ChildCount() int {
	if !n.Valid() {
		return 0
	}
	return int(n.n.ChildCount())
}

// NamedChildCount returns the number of direct named children.
func (n Node) NamedChildCount() int {
	if !n.Valid() {
		return 0
	}
	return int(n.n.NamedChildCount())
}

// Child returns the i-th direct child (named or anonymous).
func (n Node) Child(i int) Node {
	if !n.Valid() || i < 0 {
		return Node{}
	}
	return Wrap(n.n.Child(uint(i)), n.src)
}

// NamedChild returns the i-th direct named child.
func (n Node) NamedChild(i int) Node {
	if !n.Valid() || i < 0 {
		return Node{}
	}
	return Wrap(n.n.NamedChild(uint(i)), n.src)
}

// ChildByFieldName returns the child bound to the given grammar field, if any.
func (n Node) ChildByFieldName(name string) Node {
	if !n.Valid() {
		return Node{}
	}
	return Wrap(n.n.ChildByFieldName(name), n.src)
}

// Parent returns the node's parent, or an invalid Node at the tree root.
func (n Node) Parent() Node {
	if !n.Valid() {
		return Node{}
	}
	return Wrap(n.n.Parent(), n.src)
}

// NextSibling returns the next sibling in document order, named or anonymous.
func (n Node) NextSibling() Node {
	if !n.Valid() {
		return Node{}
	}
	return Wrap(n.n.NextSibling(), n.src)
}

// NextNamedSibling returns the next named sibling in document order.
func (n Node) NextNamedSibling() Node {
	if !n.Valid() {
		return Node{}
	}
	return Wrap(n.n.NextNamedSibling(), n.src)
}

func (n Node) String() string {
	if !n.Valid() {
		return "<invalid>"
	}
	return fmt.Sprintf("%s[%d:%d]", n.Kind(), n.StartByte(), n.EndByte())
}
