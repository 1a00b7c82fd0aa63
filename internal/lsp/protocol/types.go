package protocol

// This file hand-trims the LSP 3.17 wire types to the subset internal/lspserver
// actually uses. The full specification is generated in most LSP
// implementations (see go.bug.st/lsp, named in go.mod) rather than hand
// written; this subset exists so the server package is self-contained.

// Position is a zero-based line/character position. Character counts UTF-16
// code units, per the LSP spec.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a start/end pair of positions. End is exclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location is a range inside the document identified by Uri.
type Location struct {
	Uri   DocumentUri `json:"uri"`
	Range Range       `json:"range"`
}

// TextEdit replaces the text in Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// WorkspaceEdit describes document changes as a map from URI to edits.
type WorkspaceEdit struct {
	Changes *map[DocumentUri][]*TextEdit `json:"changes,omitempty"`
}

// IntegerOrString holds either an integer or a string code/id.
type IntegerOrString struct {
	Integer *int32  `json:"-"`
	String  *string `json:"-"`
}

// ErrorCode is a JSON-RPC / LSP error code.
type ErrorCode int64

const (
	ErrorCodeInvalidParams  ErrorCode = -32602
	ErrorCodeMethodNotFound ErrorCode = -32601
)

// Method names used via string(protocol.MethodXxx) at dispatch sites.
const (
	MethodTextDocumentDiagnostic        Method = "textDocument/diagnostic"
	MethodTextDocumentFormatting        Method = "textDocument/formatting"
	MethodTextDocumentPublishDiagnostics Method = "textDocument/publishDiagnostics"
	MethodWorkspaceDiagnosticRefresh    Method = "workspace/diagnostic/refresh"
	MethodWorkspaceExecuteCommand       Method = "workspace/executeCommand"
)

// --- Text document identifiers & sync ---

type TextDocumentIdentifier struct {
	Uri DocumentUri `json:"uri"`
}

type TextDocumentItem struct {
	Uri        DocumentUri `json:"uri"`
	LanguageId string      `json:"languageId"`
	Version    int32       `json:"version"`
	Text       string      `json:"text"`
}

type VersionedTextDocumentIdentifier struct {
	Uri     DocumentUri `json:"uri"`
	Version int32       `json:"version"`
}

type TextDocumentSyncKind uint32

const (
	TextDocumentSyncKindNone TextDocumentSyncKind = 0
	TextDocumentSyncKindFull TextDocumentSyncKind = 1
)

type TextDocumentSyncOptions struct {
	OpenClose *bool                 `json:"openClose,omitempty"`
	Change    *TextDocumentSyncKind `json:"change,omitempty"`
	Save      *BooleanOrSaveOptions `json:"save,omitempty"`
}

type TextDocumentSyncOptionsOrKind struct {
	Options *TextDocumentSyncOptions
	Kind    *TextDocumentSyncKind
}

type SaveOptions struct {
	IncludeText *bool `json:"includeText,omitempty"`
}

type BooleanOrSaveOptions struct {
	Boolean     *bool        `json:"-"`
	SaveOptions *SaveOptions `json:"-"`
}

type DidOpenTextDocumentParams struct {
	TextDocument *TextDocumentItem `json:"textDocument"`
}

type TextDocumentContentChangeEvent struct {
	WholeDocument *struct {
		Text string `json:"text"`
	} `json:"-"`
	Partial *struct {
		Range Range  `json:"range"`
		Text  string `json:"text"`
	} `json:"-"`
}

type DidChangeTextDocumentParams struct {
	TextDocument    VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges  []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type DidSaveTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Text         *string                `json:"text,omitempty"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// --- Diagnostics ---

type DiagnosticSeverity uint32

const (
	DiagnosticSeverityError       DiagnosticSeverity = 1
	DiagnosticSeverityWarning     DiagnosticSeverity = 2
	DiagnosticSeverityInformation DiagnosticSeverity = 3
	DiagnosticSeverityHint        DiagnosticSeverity = 4
)

type CodeDescription struct {
	Href URI `json:"href"`
}

type Diagnostic struct {
	Range           Range                `json:"range"`
	Severity        *DiagnosticSeverity  `json:"severity,omitempty"`
	Code            *IntegerOrString     `json:"code,omitempty"`
	CodeDescription *CodeDescription     `json:"codeDescription,omitempty"`
	Source          *string              `json:"source,omitempty"`
	Message         string               `json:"message"`
}

type PublishDiagnosticsParams struct {
	Uri         DocumentUri   `json:"uri"`
	Version     *int32        `json:"version,omitempty"`
	Diagnostics []*Diagnostic `json:"diagnostics"`
}

type DocumentDiagnosticParams struct {
	TextDocument     TextDocumentIdentifier `json:"textDocument"`
	PreviousResultId *string                `json:"previousResultId,omitempty"`
}

type RelatedFullDocumentDiagnosticReport struct {
	ResultId *string       `json:"resultId,omitempty"`
	Items    []*Diagnostic `json:"items"`
}

type RelatedUnchangedDocumentDiagnosticReport struct {
	ResultId string `json:"resultId"`
}

type DocumentDiagnosticResponse struct {
	FullDocumentDiagnosticReport      *RelatedFullDocumentDiagnosticReport      `json:"-"`
	UnchangedDocumentDiagnosticReport *RelatedUnchangedDocumentDiagnosticReport `json:"-"`
}

type DiagnosticOptions struct {
	Identifier *string `json:"identifier,omitempty"`
}

type DiagnosticOptionsOrRegistrationOptions struct {
	Options *DiagnosticOptions
}

type DiagnosticWorkspaceClientCapabilities struct {
	RefreshSupport *bool `json:"refreshSupport,omitempty"`
}

type DiagnosticClientCapabilities struct{}

// --- Code actions ---

type CodeActionKind string

const CodeActionKindQuickFix CodeActionKind = "quickfix"

type CodeActionContext struct {
	Diagnostics []*Diagnostic      `json:"diagnostics"`
	Only        *[]CodeActionKind  `json:"only,omitempty"`
}

type CodeActionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
	Context      CodeActionContext      `json:"context"`
}

type CodeAction struct {
	Title       string            `json:"title"`
	Kind        *CodeActionKind   `json:"kind,omitempty"`
	Diagnostics *[]*Diagnostic    `json:"diagnostics,omitempty"`
	IsPreferred *bool             `json:"isPreferred,omitempty"`
	Edit        *WorkspaceEdit    `json:"edit,omitempty"`
}

type CodeActionOptions struct {
	CodeActionKinds *[]CodeActionKind `json:"codeActionKinds,omitempty"`
}

type BooleanOrCodeActionOptions struct {
	Boolean           *bool
	CodeActionOptions *CodeActionOptions
}

// --- Formatting ---

type DocumentFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type BooleanOrDocumentFormattingOptions struct {
	Boolean *bool
}

// --- Execute command ---

type ExecuteCommandParams struct {
	Command   string `json:"command"`
	Arguments *[]any `json:"arguments,omitempty"`
}

type ExecuteCommandOptions struct {
	Commands []string `json:"commands"`
}

// --- Initialize / capabilities ---

type InitializeParamsInitializationOptions struct {
	DisablePushDiagnostics *bool `json:"disablePushDiagnostics,omitempty"`
}

type TextDocumentClientCapabilities struct {
	Diagnostic *DiagnosticClientCapabilities `json:"diagnostic,omitempty"`
}

type WorkspaceClientCapabilities struct {
	Diagnostics *DiagnosticWorkspaceClientCapabilities `json:"diagnostics,omitempty"`
}

type ClientCapabilities struct {
	TextDocument *TextDocumentClientCapabilities `json:"textDocument,omitempty"`
	Workspace    *WorkspaceClientCapabilities     `json:"workspace,omitempty"`
}

type IntegerOrNullProcessId struct {
	Integer *int32 `json:"-"`
}

type InitializeParams struct {
	ProcessId             IntegerOrNullProcessId                 `json:"processId"`
	Capabilities           *ClientCapabilities                    `json:"capabilities,omitempty"`
	InitializationOptions *InitializeParamsInitializationOptions `json:"initializationOptions,omitempty"`
}

type ServerInfo struct {
	Name    string  `json:"name"`
	Version *string `json:"version,omitempty"`
}

type ServerCapabilities struct {
	TextDocumentSync           *TextDocumentSyncOptionsOrKind          `json:"textDocumentSync,omitempty"`
	CodeActionProvider         *BooleanOrCodeActionOptions             `json:"codeActionProvider,omitempty"`
	DocumentFormattingProvider *BooleanOrDocumentFormattingOptions     `json:"documentFormattingProvider,omitempty"`
	DiagnosticProvider         *DiagnosticOptionsOrRegistrationOptions `json:"diagnosticProvider,omitempty"`
	ExecuteCommandProvider     *ExecuteCommandOptions                 `json:"executeCommandProvider,omitempty"`
}

type InitializeResult struct {
	Capabilities *ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo         `json:"serverInfo,omitempty"`
}

// --- Workspace configuration ---

type DidChangeConfigurationParams struct {
	Settings any `json:"settings"`
}
