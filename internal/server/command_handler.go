package server

import (
	"fmt"

	"docnav/internal/dispatcher"
	"docnav/internal/doctype"
	"docnav/internal/locator"
	"docnav/internal/reference"
	"docnav/internal/resolver"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// OpenInPanelParams is the payload of docnav/openInPanel.
type OpenInPanelParams struct {
	URI     string           `json:"uri"`
	Kind    doctype.Kind     `json:"kind"`
	Locator *locator.Locator `json:"locator,omitempty"`
	JumpID  string           `json:"jumpId,omitempty"`
	Bridge  string           `json:"bridge,omitempty"`
}

// ResolveResult is returned by docnav.resolve.
type ResolveResult struct {
	Kind    doctype.Kind     `json:"kind"`
	Locator *locator.Locator `json:"locator"`
}

func (s *Server) workspaceExecuteCommand(
	context *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	args := params.Arguments
	s.log.Debugf("command %s %v", params.Command, args)

	switch params.Command {
	case CommandOpen:
		ref, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		explicit, err := locatorArg(args, 1)
		if err != nil {
			return nil, err
		}
		originalURL, _ := optionalString(args, 2)
		return s.open(context, ref, explicit, originalURL)

	case CommandViewerReady:
		ref, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		total, err := intArg(args, 1)
		if err != nil {
			return nil, err
		}
		if s.jumps == nil {
			return nil, errNotInitialized
		}
		if loc, ok := s.jumps.Consume(reference.Parse(ref), total); ok {
			return &loc, nil
		}
		return nil, nil

	case CommandResolve:
		raw, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		explicit, err := locatorArg(args, 1)
		if err != nil {
			return nil, err
		}
		originalURL, _ := optionalString(args, 2)
		total, err := intArg(args, 3)
		if err != nil {
			return nil, err
		}
		ref := reference.Parse(raw)
		result := ResolveResult{Kind: doctype.Classify(ref.Path)}
		if loc, ok := resolver.Resolve(resolver.Request{
			Reference:   ref,
			Explicit:    explicit,
			OriginalURL: originalURL,
			Total:       total,
		}); ok {
			result.Locator = &loc
		}
		return result, nil

	case CommandClassify:
		name, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		return doctype.Classify(name), nil

	case CommandVariants:
		raw, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		return reference.Normalize(raw), nil
	}
	return nil, fmt.Errorf("unknown command %q", params.Command)
}

// open dispatches ref and carries out the decision.
func (s *Server) open(context *glsp.Context, ref string, explicit *locator.Locator, originalURL string) (*dispatcher.Decision, error) {
	s.mu.Lock()
	d, b, jumps := s.dispatcher, s.bridge, s.jumps
	s.mu.Unlock()
	if d == nil {
		return nil, errNotInitialized
	}

	dec, err := d.Dispatch(ref, explicit, dispatcher.Options{OriginalURL: originalURL})
	if err != nil {
		return nil, err
	}

	switch {
	case dec.Action == dispatcher.OpenExternally && dec.Reference.Path == "":
		// Nothing to launch; the notice below tells the user.

	case dec.Action == dispatcher.OpenExternally:
		if err := s.launcher.Launch(dec.Command, dec.Reference.Path); err != nil {
			s.log.Warningf("launch failed, asking the client: %v", err)
			context.Notify("window/showDocument", protocol.ShowDocumentParams{
				URI:      protocol.URI(dec.Reference.URI()),
				External: &protocol.True,
			})
		}

	case dec.Kind == doctype.Text:
		params := protocol.ShowDocumentParams{
			URI:       protocol.URI(dec.Reference.URI()),
			TakeFocus: &protocol.True,
		}
		if dec.Locator != nil && dec.Locator.Kind == locator.Line {
			at := protocol.Position{Line: uint32(dec.Locator.N - 1)}
			params.Selection = &protocol.Range{Start: at, End: at}
		}
		context.Notify("window/showDocument", params)

	default:
		// A viewer already showing the document jumps right away.
		if b != nil && dec.Locator != nil && b.Navigate(dec.Reference, *dec.Locator) > 0 {
			jumps.Consume(dec.Reference, 0)
		}
		params := OpenInPanelParams{
			URI:     dec.Reference.URI(),
			Kind:    dec.Kind,
			Locator: dec.Locator,
			JumpID:  dec.JumpID,
		}
		if b != nil {
			params.Bridge = b.Addr()
		}
		context.Notify(MethodOpenInPanel, params)
	}

	if dec.Notice != "" {
		context.Notify("window/showMessage", protocol.ShowMessageParams{
			Type:    protocol.MessageTypeInfo,
			Message: dec.Notice,
		})
	}
	return &dec, nil
}
