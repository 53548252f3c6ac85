package server

import (
	"docnav/internal/links"
	"docnav/internal/reference"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	if s.manager == nil || !s.isLinkDocument(uri) {
		return nil
	}
	return s.manager.Open(uri, params.TextDocument.Text)
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	if s.manager == nil || !s.isLinkDocument(uri) {
		return nil
	}
	return s.manager.Change(uri, params.ContentChanges)
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	if s.manager != nil {
		s.manager.Release(params.TextDocument.URI)
	}
	return nil
}

// textDocumentDocumentLink turns links to local documents into clickable
// targets carrying the canonical locator fragment.
func (s *Server) textDocumentDocumentLink(
	context *glsp.Context,
	params *protocol.DocumentLinkParams,
) ([]protocol.DocumentLink, error) {
	targets, doc, ok := s.documentTargets(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	result := make([]protocol.DocumentLink, 0, len(targets))
	for _, t := range targets {
		target := protocol.DocumentUri(t.URI())
		tooltip := t.Tooltip()
		result = append(result, protocol.DocumentLink{
			Range:   doc.Range(t.Link),
			Target:  &target,
			Tooltip: &tooltip,
		})
	}
	return result, nil
}

type positioned interface {
	Range(links.Link) protocol.Range
}

func (s *Server) documentTargets(uri string) ([]links.Target, positioned, bool) {
	if s.manager == nil {
		return nil, nil, false
	}
	found, doc, err := s.manager.Links(uri)
	if err != nil {
		s.log.Debugf("no links for %s: %v", uri, err)
		return nil, nil, false
	}
	return links.DocumentTargets(found, dirOf(reference.Parse(uri).Path)), doc, true
}
