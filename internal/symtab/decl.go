package symtab

import (
	"strings"

	"github.com/fortitude-lint/fortitude/internal/ast"
)

// parseVariableDeclaration splits a variable_declaration statement node
// into one Variable per comma-separated declarator, carrying the shared
// type spec and attribute list onto each. Grammar shape assumed:
//
//	variable_declaration: type_spec ("," attribute)* "::" declarator ("," declarator)*
//
// Declarations without "::" (attribute-less, e.g. `integer i, j`) are
// handled the same way; attribute list is simply empty.
func parseVariableDeclaration(decl ast.Node) []Variable {
	var typeSpec ast.Node
	var attrNodes []ast.Node
	var declarators []ast.Node

	seenDoubleColon := false
	for i := range decl.NamedChildCount() {
		child := decl.NamedChild(i)
		switch {
		case i == 0:
			typeSpec = child
		case child.Kind() == "declarator" || child.Kind() == "identifier" || child.Kind() == "init_declarator":
			declarators = append(declarators, child)
		case !seenDoubleColon:
			// Anything between the type spec and the first declarator that
			// isn't itself a declarator is an attribute (dimension, intent,
			// pointer, allocatable, parameter, optional, save, target, ...).
			attrNodes = append(attrNodes, child)
		}
		if child.Kind() == "::" {
			seenDoubleColon = true
		}
	}

	rawAttrs := make([]string, 0, len(attrNodes))
	typedAttrs := make([]AttributeKind, 0, len(attrNodes))
	for _, a := range attrNodes {
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		rawAttrs = append(rawAttrs, text)
		typedAttrs = append(typedAttrs, classifyAttribute(text))
	}

	typeText := ""
	if typeSpec.Valid() {
		typeText = typeSpec.Text()
	}

	out := make([]Variable, 0, len(declarators))
	for _, d := range declarators {
		nameNode := d
		if d.Kind() == "init_declarator" {
			if id := d.ChildByFieldName("name"); id.Valid() {
				nameNode = id
			} else if d.NamedChildCount() > 0 {
				nameNode = d.NamedChild(0)
			}
		}
		out = append(out, Variable{
			Name:          nameNode.Text(),
			Type:          typeText,
			Attributes:    typedAttrs,
			RawAttributes: rawAttrs,
			Decl:          decl,
			NameNode:      nameNode,
		})
	}
	return out
}

func classifyAttribute(text string) AttributeKind {
	switch {
	case strings.HasPrefix(text, "dimension"):
		return AttrDimension
	case strings.HasPrefix(text, "intent"):
		switch strings.ReplaceAll(strings.TrimPrefix(text, "intent"), " ", "") {
		case "(inout)":
			return AttrIntentInOut
		case "(in)":
			return AttrIntentIn
		case "(out)":
			return AttrIntentOut
		}
		return AttrNone
	case text == "pointer":
		return AttrPointer
	case text == "allocatable":
		return AttrAllocatable
	case text == "parameter":
		return AttrParameter
	case text == "optional":
		return AttrOptional
	case text == "save":
		return AttrSave
	case text == "target":
		return AttrTarget
	default:
		return AttrNone
	}
}
