package lspserver

import (
	"bytes"
	"path/filepath"

	protocol "github.com/fortitude-lint/fortitude/internal/lsp/protocol"

	"github.com/fortitude-lint/fortitude/internal/check"
	"github.com/fortitude-lint/fortitude/internal/fix"
)

const fixAllCodeActionKind = protocol.CodeActionKind("source.fixAll.fortitude")

func (s *Server) fixAllCodeAction(doc *Document) *protocol.CodeAction {
	edits := s.computeFixEdits(doc.URI, []byte(doc.Content), fix.FixSafe)
	if len(edits) == 0 {
		return nil
	}

	return &protocol.CodeAction{
		Title:       "Fix all auto-fixable issues",
		Kind:        ptrTo(fixAllCodeActionKind),
		IsPreferred: ptrTo(true),
		Edit: &protocol.WorkspaceEdit{
			Changes: ptrTo(map[protocol.DocumentUri][]*protocol.TextEdit{
				protocol.DocumentUri(doc.URI): edits,
			}),
		},
	}
}

func (s *Server) computeFixEdits(docURI string, content []byte, safety fix.FixSafety) []*protocol.TextEdit {
	filePath := uriToPath(docURI)

	result, err := check.CheckFile(check.Input{
		FilePath: filePath,
		Content:  content,
		Channel:  check.NullChannel,
	})
	if err != nil {
		return nil
	}
	if result.Tree != nil {
		defer result.Tree.Close()
	}

	fixModes := fix.BuildFixModes(result.Config)
	fileKey := filepath.Clean(filePath)
	fixer := &fix.Fixer{
		SafetyThreshold: safety,
		FixModes: map[string]map[string]fix.FixMode{
			fileKey: fixModes,
		},
	}
	fixResult, err := fixer.Apply(result.Violations, map[string][]byte{filePath: content})
	if err != nil {
		return nil
	}

	change := fixResult.Changes[fileKey]
	if change == nil || !change.HasChanges() || bytes.Equal(change.ModifiedContent, content) {
		return nil
	}

	return minimalTextEdit(content, change.ModifiedContent)
}
