package lspserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/exp/jsonrpc2"

	protocol "github.com/fortitude-lint/fortitude/internal/lsp/protocol"

	"github.com/fortitude-lint/fortitude/internal/check"
	"github.com/fortitude-lint/fortitude/internal/rules"
	_ "github.com/fortitude-lint/fortitude/internal/rules/all" // register all rules
)

// publishDiagnostics lints a document and publishes diagnostics to the client.
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	docURI := doc.URI
	content := doc.Content

	violations := s.lintContent(docURI, []byte(content))
	s.lintCache.set(docURI, doc.Version, violations)
	diagnostics := convertDiagnostics(violations)

	version := doc.Version
	if err := lspNotify(ctx, s.conn, string(protocol.MethodTextDocumentPublishDiagnostics), &protocol.PublishDiagnosticsParams{
		Uri:         protocol.DocumentUri(docURI),
		Version:     &version,
		Diagnostics: diagnostics,
	}); err != nil {
		log.Printf("lsp: failed to publish diagnostics for %s: %v", docURI, err)
	}
}

// clearDiagnostics sends an empty diagnostics array to clear issues for a URI.
func clearDiagnostics(ctx context.Context, conn *jsonrpc2.Connection, docURI string, version *int32) {
	if err := lspNotify(ctx, conn, string(protocol.MethodTextDocumentPublishDiagnostics), &protocol.PublishDiagnosticsParams{
		Uri:         protocol.DocumentUri(docURI),
		Version:     version,
		Diagnostics: []*protocol.Diagnostic{},
	}); err != nil {
		log.Printf("lsp: failed to clear diagnostics for %s: %v", docURI, err)
	}
}

// handleDiagnostic handles textDocument/diagnostic (pull diagnostics).
func (s *Server) handleDiagnostic(params *protocol.DocumentDiagnosticParams) (any, error) {
	uri := string(params.TextDocument.Uri)

	// Check if the document is open in the editor.
	if doc := s.documents.Get(uri); doc != nil {
		resultID := fmt.Sprintf("v%d", doc.Version)
		if params.PreviousResultId != nil && *params.PreviousResultId == resultID {
			return &protocol.DocumentDiagnosticResponse{
				UnchangedDocumentDiagnosticReport: &protocol.RelatedUnchangedDocumentDiagnosticReport{
					ResultId: resultID,
				},
			}, nil
		}

		violations := s.lintContent(uri, []byte(doc.Content))
		s.lintCache.set(uri, doc.Version, violations)
		diagnostics := convertDiagnostics(violations)

		return &protocol.DocumentDiagnosticResponse{
			FullDocumentDiagnosticReport: &protocol.RelatedFullDocumentDiagnosticReport{
				ResultId: &resultID,
				Items:    diagnostics,
			},
		}, nil
	}

	// Document not open — read from disk.
	filePath := uriToPath(uri)
	return s.pullDiagnosticsFromDisk(filePath, params.PreviousResultId)
}

// pullDiagnosticsFromDisk reads content from disk and returns a diagnostic report.
//
//nolint:nilerr // gracefully returns empty diagnostics for unreadable files
func (s *Server) pullDiagnosticsFromDisk(filePath string, previousResultID *string) (any, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		// Return empty full report if file cannot be read.
		return &protocol.DocumentDiagnosticResponse{
			FullDocumentDiagnosticReport: &protocol.RelatedFullDocumentDiagnosticReport{
				Items: []*protocol.Diagnostic{},
			},
		}, nil
	}

	resultID := contentHash(content)
	if previousResultID != nil && *previousResultID == resultID {
		return &protocol.DocumentDiagnosticResponse{
			UnchangedDocumentDiagnosticReport: &protocol.RelatedUnchangedDocumentDiagnosticReport{
				ResultId: resultID,
			},
		}, nil
	}

	violations := lintFile(filePath, content)
	diagnostics := convertDiagnostics(violations)

	return &protocol.DocumentDiagnosticResponse{
		FullDocumentDiagnosticReport: &protocol.RelatedFullDocumentDiagnosticReport{
			ResultId: &resultID,
			Items:    diagnostics,
		},
	}, nil
}

// contentHash returns a truncated SHA-256 hex digest of content (16 hex chars).
func contentHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:8])
}

// lintContent runs the full Fortitude lint pipeline on in-memory content.
func (s *Server) lintContent(docURI string, content []byte) []rules.Violation {
	filePath := uriToPath(docURI)
	return lintFile(filePath, content)
}

// lintFile runs the shared check pipeline for a file path and content.
func lintFile(filePath string, content []byte) []rules.Violation {
	result, err := check.CheckFile(check.Input{
		FilePath: filePath,
		Content:  content,
		Channel:  check.NullChannel,
	})
	if err != nil {
		log.Printf("lsp: lint error for %s: %v", filePath, err)
		return nil
	}
	if result.Tree != nil {
		defer result.Tree.Close()
	}
	return result.Violations
}

// convertDiagnostics converts Fortitude violations to LSP diagnostics.
func convertDiagnostics(violations []rules.Violation) []*protocol.Diagnostic {
	diagnostics := make([]*protocol.Diagnostic, 0, len(violations))
	for _, v := range violations {
		d := &protocol.Diagnostic{
			Range:    violationRange(v),
			Severity: ptrTo(severityToLSP(v.Severity)),
			Source:   ptrTo("fortitude"),
			Code:     &protocol.IntegerOrString{String: ptrTo(v.RuleCode)},
			Message:  v.Message,
		}
		if v.DocURL != "" {
			d.CodeDescription = &protocol.CodeDescription{
				Href: protocol.URI(v.DocURL),
			}
		}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics
}

// violationRange converts a Fortitude Location to an LSP Range. Both use
// 0-based lines and columns, so no coordinate shift is needed.
func violationRange(v rules.Violation) protocol.Range {
	loc := v.Location
	if loc.IsFileLevel() {
		return protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 0},
		}
	}

	startLine := clampUint32(loc.Start.Line)
	startChar := clampUint32(loc.Start.Column)

	endLine := startLine
	endChar := startChar
	if !loc.IsPointLocation() {
		endLine = clampUint32(loc.End.Line)
		endChar = clampUint32(loc.End.Column)
	}

	// For point locations, extend to end of line to make the diagnostic visible.
	if endLine == startLine && endChar == startChar {
		endChar = startChar + 1000 // Editors clamp this to the actual line length.
	}

	return protocol.Range{
		Start: protocol.Position{Line: startLine, Character: startChar},
		End:   protocol.Position{Line: endLine, Character: endChar},
	}
}

// severityToLSP converts a Fortitude Severity to an LSP DiagnosticSeverity.
func severityToLSP(s rules.Severity) protocol.DiagnosticSeverity {
	switch s {
	case rules.SeverityError:
		return protocol.DiagnosticSeverityError
	case rules.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case rules.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	case rules.SeverityStyle:
		return protocol.DiagnosticSeverityHint
	case rules.SeverityOff:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

// clampUint32 safely converts an int to uint32, clamping negative values to 0.
func clampUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v) //nolint:gosec // line/column numbers are well within uint32 range
}

// uriToPath converts a file:// URI to a local file path.
func uriToPath(docURI string) string {
	parsed, err := url.Parse(docURI)
	if err != nil {
		return strings.TrimPrefix(docURI, "file://")
	}
	path := parsed.Path
	// On Windows, file URIs look like file:///C:/path, so Path is /C:/path.
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}
