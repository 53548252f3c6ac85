package manager

import (
	"fmt"
	"sync"

	"docnav/internal/links"
	"docnav/internal/sitteradapter"
)

type document struct {
	text   *sitteradapter.Document
	parser *links.Parser
}

// DocumentManager keeps the text and syntax tree of each open document.
type DocumentManager struct {
	mu    sync.Mutex
	query string
	docs  map[string]*document
}

// NewDocumentManager creates a manager that extracts links with query.
func NewDocumentManager(query string) *DocumentManager {
	return &DocumentManager{
		query: query,
		docs:  make(map[string]*document),
	}
}

// Open parses text for uri, replacing any earlier state.
func (dm *DocumentManager) Open(uri string, text string) error {
	p, err := links.NewParser(dm.query, []byte(text))
	if err != nil {
		return fmt.Errorf("failed to create parser for %s: %w", uri, err)
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()
	if old, ok := dm.docs[uri]; ok {
		old.parser.Close()
	}
	dm.docs[uri] = &document{text: sitteradapter.NewDocument(text), parser: p}
	return nil
}

// Change applies LSP content changes in order and reparses incrementally.
func (dm *DocumentManager) Change(uri string, changes []any) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.docs[uri]
	if !ok {
		return fmt.Errorf("no document for %s", uri)
	}

	var edits []links.Edit
	replaced := false
	text := doc.text
	for _, change := range changes {
		edit, next := text.Apply(change)
		if edit == nil {
			replaced = replaced || next != text
		} else {
			edits = append(edits, *edit)
		}
		text = next
	}

	var err error
	if replaced {
		err = doc.parser.Replace([]byte(text.Text()))
	} else {
		err = doc.parser.Update(edits, []byte(text.Text()))
	}
	if err != nil {
		return err
	}
	doc.text = text
	return nil
}

// Links returns the links of an open document with their text, which
// callers need to convert positions.
func (dm *DocumentManager) Links(uri string) ([]links.Link, *sitteradapter.Document, error) {
	dm.mu.Lock()
	doc, ok := dm.docs[uri]
	dm.mu.Unlock()
	if !ok {
		return nil, nil, fmt.Errorf("document not loaded for %s", uri)
	}

	found, err := doc.parser.Links()
	if err != nil {
		return nil, nil, err
	}
	return found, doc.text, nil
}

// Text returns the current text of uri.
func (dm *DocumentManager) Text(uri string) (string, bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	doc, ok := dm.docs[uri]
	if !ok {
		return "", false
	}
	return doc.text.Text(), true
}

// Release frees parser and document for a URI.
func (dm *DocumentManager) Release(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if doc, ok := dm.docs[uri]; ok {
		doc.parser.Close()
		delete(dm.docs, uri)
	}
}

// CloseAll cleans up all parsers.
func (dm *DocumentManager) CloseAll() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	for uri, doc := range dm.docs {
		if err := doc.parser.Close(); err != nil {
			return fmt.Errorf("error closing parser for %s: %w", uri, err)
		}
	}
	dm.docs = make(map[string]*document)
	return nil
}
