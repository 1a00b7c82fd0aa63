package check

import (
	"github.com/fortitude-lint/fortitude/internal/ast"
	"github.com/fortitude-lint/fortitude/internal/config"
	"github.com/fortitude-lint/fortitude/internal/fortran"
	"github.com/fortitude-lint/fortitude/internal/rules"
	"github.com/fortitude-lint/fortitude/internal/symtab"
)

// walkContext carries the per-file state an AST rule dispatch needs,
// independent of where in the tree the walk currently is.
type walkContext struct {
	file   string
	source []byte
	tree   *fortran.Tree
	cfg    *config.Config
}

// kindDispatch groups AST-entrypoint rules by the node kinds they
// declared interest in. An empty ASTKinds list means "every node".
type kindDispatch struct {
	byKind  map[string][]rules.Rule
	allKind []rules.Rule
}

func buildDispatch(enabled []rules.Rule) kindDispatch {
	d := kindDispatch{byKind: make(map[string][]rules.Rule)}
	for _, r := range enabled {
		meta := r.Metadata()
		if meta.Entrypoint != rules.EntrypointAST {
			continue
		}
		if len(meta.ASTKinds) == 0 {
			d.allKind = append(d.allKind, r)
			continue
		}
		for _, kind := range meta.ASTKinds {
			d.byKind[kind] = append(d.byKind[kind], r)
		}
	}
	return d
}

// walkAST performs a single-pass, pre-order descent of the tree,
// maintaining a symtab.SymbolTables stack across scope boundaries and
// dispatching every AST-entrypoint rule to every node kind it declared
// interest in.
func walkAST(wc walkContext, root ast.Node, enabled []rules.Rule) []rules.Violation {
	dispatch := buildDispatch(enabled)
	if len(dispatch.byKind) == 0 && len(dispatch.allKind) == 0 {
		return nil
	}

	st := symtab.NewSymbolTables()
	var violations []rules.Violation

	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		if !n.Valid() {
			return
		}

		pushed := false
		if symtab.IsScopeNode(n) {
			st.Push(n)
			pushed = true
		}

		matched := dispatch.byKind[n.Kind()]
		if len(matched) > 0 || len(dispatch.allKind) > 0 {
			input := rules.LintInput{
				File:    wc.file,
				Source:  wc.source,
				Tree:    wc.tree,
				Node:    n,
				Symbols: st,
			}
			for _, r := range matched {
				in := input
				in.Config = wc.cfg.Rules.GetOptions(r.Metadata().Code())
				violations = append(violations, r.Check(in)...)
			}
			for _, r := range dispatch.allKind {
				in := input
				in.Config = wc.cfg.Rules.GetOptions(r.Metadata().Code())
				violations = append(violations, r.Check(in)...)
			}
		}

		count := n.NamedChildCount()
		for i := 0; i < count; i++ {
			visit(n.NamedChild(i))
		}

		if pushed {
			st.Pop()
		}
	}

	visit(root)
	return violations
}
