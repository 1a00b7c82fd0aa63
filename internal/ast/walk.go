package ast

// Descendants yields every descendant of n, named and anonymous, in
// document order (pre-order, depth-first).
func Descendants(n Node) []Node {
	var out []Node
	var walk func(Node)
	walk = func(cur Node) {
		for i := range cur.ChildCount() {
			child := cur.Child(i)
			out = append(out, child)
			walk(child)
		}
	}
	walk(n)
	return out
}

// NamedDescendants yields every named descendant of n in document order.
func NamedDescendants(n Node) []Node {
	var out []Node
	var walk func(Node)
	walk = func(cur Node) {
		for i := range cur.NamedChildCount() {
			child := cur.NamedChild(i)
			out = append(out, child)
			walk(child)
		}
	}
	walk(n)
	return out
}

// DescendantsExcept yields named descendants in document order, but does
// not recurse into (or yield children of) nodes whose Kind is in prune.
// The pruned node itself is still yielded.
func DescendantsExcept(n Node, prune ...string) []Node {
	skip := make(map[string]struct{}, len(prune))
	for _, k := range prune {
		skip[k] = struct{}{}
	}
	var out []Node
	var walk func(Node)
	walk = func(cur Node) {
		for i := range cur.NamedChildCount() {
			child := cur.NamedChild(i)
			out = append(out, child)
			if _, pruned := skip[child.Kind()]; pruned {
				continue
			}
			walk(child)
		}
	}
	walk(n)
	return out
}

// Ancestors yields n's ancestors starting from its immediate parent and
// ending at the root.
func Ancestors(n Node) []Node {
	var out []Node
	for p := n.Parent(); p.Valid(); p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// EnclosingOfKind returns the nearest ancestor of n (not including n) whose
// Kind matches one of the given kinds.
func EnclosingOfKind(n Node, kinds ...string) (Node, bool) {
	want := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	for _, a := range Ancestors(n) {
		if _, ok := want[a.Kind()]; ok {
			return a, true
		}
	}
	return Node{}, false
}

// FindKind returns the first descendant (document order, inclusive of n
// itself) whose Kind matches.
func FindKind(n Node, kind string) (Node, bool) {
	if n.Kind() == kind {
		return n, true
	}
	for _, d := range NamedDescendants(n) {
		if d.Kind() == kind {
			return d, true
		}
	}
	return Node{}, false
}

// NextNonTrivialSibling walks forward through n's siblings skipping
// comments and bare newline tokens, returning the next statement-shaped
// node. Used to resolve what an allow-comment on its own line applies to.
func NextNonTrivialSibling(n Node, trivialKinds ...string) (Node, bool) {
	trivial := make(map[string]struct{}, len(trivialKinds))
	for _, k := range trivialKinds {
		trivial[k] = struct{}{}
	}
	for s := n.NextNamedSibling(); s.Valid(); s = s.NextNamedSibling() {
		if _, ok := trivial[s.Kind()]; ok {
			continue
		}
		return s, true
	}
	return Node{}, false
}
