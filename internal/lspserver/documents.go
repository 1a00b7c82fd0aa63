package lspserver

import (
	"sync"

	"github.com/fortitude-lint/fortitude/internal/rules"
)

// Document is the server's in-memory view of an open text document.
type Document struct {
	URI        string
	LanguageID string
	Version    int32
	Content    string
}

// DocumentStore tracks documents the client currently has open.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open records a newly opened document, replacing any existing entry.
func (s *DocumentStore) Open(uri, languageID string, version int32, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &Document{URI: uri, LanguageID: languageID, Version: version, Content: text}
}

// Update replaces a document's content and version (full-sync only).
// A zero version leaves the previous version in place, for didSave
// notifications that don't carry one.
func (s *DocumentStore) Update(uri string, version int32, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		s.docs[uri] = &Document{URI: uri, Version: version, Content: text}
		return
	}
	doc.Content = text
	if version != 0 {
		doc.Version = version
	}
}

// Get returns the document for uri, or nil if it isn't open.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// All returns a snapshot of every currently open document.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	return out
}

// lintResultCache memoizes the last lint run for a document version, so a
// codeAction request right after publishDiagnostics doesn't re-lint.
type lintResultCache struct {
	mu      sync.Mutex
	entries map[string]lintCacheEntry
}

type lintCacheEntry struct {
	version    int32
	violations []rules.Violation
}

func newLintResultCache() *lintResultCache {
	return &lintResultCache{entries: make(map[string]lintCacheEntry)}
}

func (c *lintResultCache) get(uri string, version int32) ([]rules.Violation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[uri]
	if !ok || entry.version != version {
		return nil, false
	}
	return entry.violations, true
}

func (c *lintResultCache) set(uri string, version int32, violations []rules.Violation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[uri] = lintCacheEntry{version: version, violations: violations}
}

func (c *lintResultCache) delete(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, uri)
}

func (c *lintResultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]lintCacheEntry)
}
