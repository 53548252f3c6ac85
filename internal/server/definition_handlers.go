package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition on a document link opens the target through the
// dispatcher instead of returning a location.
func (s *Server) textDocumentDefinition(
	context *glsp.Context,
	params *protocol.DefinitionParams,
) (any, error) {
	targets, doc, ok := s.documentTargets(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	pos := params.Position
	for _, t := range targets {
		r := doc.Range(t.Link)
		if !contains(r, pos) {
			continue
		}
		if _, err := s.open(context, t.Reference.Raw, t.Locator, ""); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return nil, nil
}

func contains(r protocol.Range, p protocol.Position) bool {
	before := func(a, b protocol.Position) bool {
		return a.Line < b.Line || (a.Line == b.Line && a.Character <= b.Character)
	}
	return before(r.Start, p) && before(p, r.End)
}
