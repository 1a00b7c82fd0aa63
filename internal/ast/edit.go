package ast

import "strings"

// Edit is an immutable, source-order-independent text replacement. An
// empty Replacement deletes the range. Edits are synthesized here, against
// byte offsets in the original source; internal/fix is responsible for
// ordering and applying a batch of them without the usual sequential-offset
// bookkeeping a naive line-editor would need.
type Edit struct {
	Start       uint
	End         uint
	Replacement string
}

// Delete removes the node's exact span.
func Delete(n Node) Edit {
	return Edit{Start: n.StartByte(), End: n.EndByte()}
}

// Replace substitutes the node's exact span with text.
func Replace(n Node, text string) Edit {
	return Edit{Start: n.StartByte(), End: n.EndByte(), Replacement: text}
}

// InsertBefore inserts text immediately before the node, leaving the node
// itself untouched.
func InsertBefore(n Node, text string) Edit {
	return Edit{Start: n.StartByte(), End: n.StartByte(), Replacement: text}
}

// InsertAfter inserts text immediately after the node.
func InsertAfter(n Node, text string) Edit {
	return Edit{Start: n.EndByte(), End: n.EndByte(), Replacement: text}
}

// DeleteFromCommaSeparatedList removes one item from a comma-separated
// list (e.g. a single declarator out of `integer :: a, b, c`), handling the
// comma on whichever side keeps the remaining list syntactically valid:
//   - first item: delete the item and the comma that follows it
//   - last item: delete the comma that precedes it and the item
//   - middle item: delete one adjacent comma and the item
//
// Grounded on the three-case comma-aware deletion used when removing a
// single declarator from a multi-variable declaration statement.
func DeleteFromCommaSeparatedList(items []Node, index int) Edit {
	item := items[index]
	switch {
	case len(items) == 1:
		return Delete(item)
	case index == 0:
		return Edit{Start: item.StartByte(), End: items[index+1].StartByte()}
	default:
		prev := items[index-1]
		return Edit{Start: prev.EndByte(), End: item.EndByte()}
	}
}

// InsertAttribute inserts a new attribute into a declaration's
// attribute list, ahead of the `::` separator if one is present, or
// synthesizing `, <attr> ::` immediately after the type spec otherwise.
//
// declNode is the whole declaration statement; doubleColon is its `::`
// token node if the grammar exposes one (invalid Node if absent); typeSpec
// is the leading type node (e.g. `integer`, `real(kind=8)`).
func InsertAttribute(declNode, doubleColon, typeSpec Node, attr string) Edit {
	if doubleColon.Valid() {
		return Edit{
			Start:       doubleColon.StartByte(),
			End:         doubleColon.StartByte(),
			Replacement: ", " + attr + " ",
		}
	}
	return Edit{
		Start:       typeSpec.EndByte(),
		End:         typeSpec.EndByte(),
		Replacement: ", " + attr + " ::",
	}
}

// NormalizeWhitespaceEdit collapses runs of horizontal whitespace in text
// to single spaces, returning an Edit only if a change is needed.
func NormalizeWhitespaceEdit(n Node) (Edit, bool) {
	text := n.Text()
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == text {
		return Edit{}, false
	}
	return Replace(n, normalized), true
}
