package server

import (
	"sync"
	"testing"

	"docnav/internal/dispatcher"
	"docnav/internal/doctype"
	"docnav/internal/launcher"
	"docnav/internal/locator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type notification struct {
	method string
	params any
}

type client struct {
	mu   sync.Mutex
	sent []notification
}

func (c *client) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.sent = append(c.sent, notification{method, params})
	}}
}

func (c *client) find(method string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []any
	for _, n := range c.sent {
		if n.method == method {
			out = append(out, n.params)
		}
	}
	return out
}

type started struct {
	mu   sync.Mutex
	argv [][]string
}

func (s *started) start(name string, args ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.argv = append(s.argv, append([]string{name}, args...))
	return nil
}

func newTestServer(t *testing.T, options map[string]any) (*Server, *client, *started) {
	t.Helper()
	procs := &started{}
	s := New(WithLauncher(launcher.New(launcher.WithPlatform("linux"), launcher.WithStarter(procs.start))))
	c := &client{}

	if options == nil {
		options = map[string]any{}
	}
	options["state_dir"] = t.TempDir()
	root := "file:///work"
	result, err := s.initialize(c.context(), &protocol.InitializeParams{
		RootURI:               &root,
		InitializationOptions: options,
	})
	require.NoError(t, err)

	caps := result.(protocol.InitializeResult).Capabilities
	require.NotNil(t, caps.ExecuteCommandProvider)
	assert.ElementsMatch(t, commands, caps.ExecuteCommandProvider.Commands)
	require.NotNil(t, caps.DocumentLinkProvider)

	t.Cleanup(func() { s.shutdown(c.context()) })
	return s, c, procs
}

func execute(t *testing.T, s *Server, c *client, command string, args ...any) any {
	t.Helper()
	result, err := s.workspaceExecuteCommand(c.context(), &protocol.ExecuteCommandParams{
		Command:   command,
		Arguments: args,
	})
	require.NoError(t, err)
	return result
}

func TestOpenPDFThenViewerReady(t *testing.T) {
	s, c, _ := newTestServer(t, nil)

	dec := execute(t, s, c, CommandOpen, "file:///work/docs/manual.pdf#page=12").(*dispatcher.Decision)
	assert.Equal(t, dispatcher.OpenInPanel, dec.Action)
	assert.NotEmpty(t, dec.JumpID)

	panels := c.find(MethodOpenInPanel)
	require.Len(t, panels, 1)
	panel := panels[0].(OpenInPanelParams)
	assert.Equal(t, "file:///work/docs/manual.pdf", panel.URI)
	assert.Equal(t, doctype.PDF, panel.Kind)

	got := execute(t, s, c, CommandViewerReady, "/work/docs/manual.pdf", float64(8))
	require.NotNil(t, got)
	assert.Equal(t, locator.NewPage(8), *got.(*locator.Locator))

	assert.Nil(t, execute(t, s, c, CommandViewerReady, "/work/docs/manual.pdf", float64(8)))
}

func TestOpenExternalLaunches(t *testing.T) {
	s, c, procs := newTestServer(t, map[string]any{"excel_app": "libreoffice"})

	dec := execute(t, s, c, CommandOpen, "reports/q3.xlsx", "sheet=Budget!C10").(*dispatcher.Decision)
	assert.Equal(t, dispatcher.OpenExternally, dec.Action)
	require.NotNil(t, dec.Locator)
	assert.Equal(t, locator.NewSheetCell("Budget", "C10"), *dec.Locator)

	require.Len(t, procs.argv, 1)
	assert.Equal(t, []string{"libreoffice", "/work/reports/q3.xlsx"}, procs.argv[0])

	messages := c.find("window/showMessage")
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].(protocol.ShowMessageParams).Message, "Budget!C10")
}

func TestOpenTextSelectsLine(t *testing.T) {
	s, c, _ := newTestServer(t, nil)
	execute(t, s, c, CommandOpen, "/work/notes.txt#line=5")

	shown := c.find("window/showDocument")
	require.Len(t, shown, 1)
	params := shown[0].(protocol.ShowDocumentParams)
	require.NotNil(t, params.Selection)
	assert.Equal(t, uint32(4), params.Selection.Start.Line)
}

func TestResolveClassifyVariants(t *testing.T) {
	s, c, _ := newTestServer(t, nil)

	res := execute(t, s, c, CommandResolve, "deck.pptx", nil, "file:///x/deck.pptx#page=9", float64(5)).(ResolveResult)
	assert.Equal(t, doctype.PowerPoint, res.Kind)
	assert.Equal(t, locator.NewSlide(5), *res.Locator)

	assert.Equal(t, doctype.Word, execute(t, s, c, CommandClassify, "Contract.DOCX"))

	variants := execute(t, s, c, CommandVariants, "file:///C:/a%20b.pdf").([]string)
	assert.Contains(t, variants, `C:\a b.pdf`)
	assert.Contains(t, variants, "a b.pdf")
}

func TestCommandErrors(t *testing.T) {
	s, c, _ := newTestServer(t, nil)

	_, err := s.workspaceExecuteCommand(c.context(), &protocol.ExecuteCommandParams{Command: "docnav.nope"})
	assert.Error(t, err)

	_, err = s.workspaceExecuteCommand(c.context(), &protocol.ExecuteCommandParams{Command: CommandOpen, Arguments: []any{42}})
	assert.Error(t, err)

	_, err = s.workspaceExecuteCommand(c.context(), &protocol.ExecuteCommandParams{
		Command:   CommandOpen,
		Arguments: []any{"a.pdf", "not a locator"},
	})
	assert.Error(t, err)
}

func TestOpenWithoutPathLaunchesNothing(t *testing.T) {
	s, c, procs := newTestServer(t, nil)

	_, err := s.workspaceExecuteCommand(c.context(), &protocol.ExecuteCommandParams{
		Command:   CommandOpen,
		Arguments: []any{"#page=3"},
	})
	require.NoError(t, err)
	assert.Empty(t, procs.argv)
	assert.Empty(t, c.find("window/showDocument"))
}

func TestOpenBeforeInitialize(t *testing.T) {
	s := New()
	_, err := s.workspaceExecuteCommand((&client{}).context(), &protocol.ExecuteCommandParams{
		Command:   CommandOpen,
		Arguments: []any{"a.pdf"},
	})
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestDocumentLinksAndDefinition(t *testing.T) {
	s, c, _ := newTestServer(t, nil)
	uri := "file:///work/notes/review.md"

	require.NoError(t, s.textDocumentDidOpen(c.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "markdown", Text: "See [deck](../decks/q3.pptx#slide=4) and [site](https://example.com).\n"},
	}))

	found, err := s.textDocumentDocumentLink(c.context(), &protocol.DocumentLinkParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "file:///work/decks/q3.pptx#slide=4", *found[0].Target)
	assert.Equal(t, "Open q3.pptx at slide 4", *found[0].Tooltip)
	assert.Equal(t, uint32(11), found[0].Range.Start.Character)

	def := &protocol.DefinitionParams{}
	def.TextDocument.URI = uri
	def.Position = protocol.Position{Line: 0, Character: 15}
	_, err = s.textDocumentDefinition(c.context(), def)
	require.NoError(t, err)
	assert.Len(t, c.find("window/showMessage"), 1, "no PowerPoint app configured, slide needs manual navigation")

	require.NoError(t, s.textDocumentDidClose(c.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	found, err = s.textDocumentDocumentLink(c.context(), &protocol.DocumentLinkParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestNonMarkdownDocumentsIgnored(t *testing.T) {
	s, c, _ := newTestServer(t, nil)
	require.NoError(t, s.textDocumentDidOpen(c.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///work/main.go", Text: "[a](a.pdf)"},
	}))
	_, ok := s.manager.Text("file:///work/main.go")
	assert.False(t, ok)
}

func TestArgHelpers(t *testing.T) {
	n, err := intArg([]any{nil, float64(3)}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = intArg([]any{1.5}, 0)
	assert.Error(t, err)

	loc, err := locatorArg([]any{map[string]any{"kind": "bookmark", "name": "Intro"}}, 0)
	require.NoError(t, err)
	assert.Equal(t, locator.NewBookmark("Intro"), *loc)

	_, err = locatorArg([]any{map[string]any{"kind": "bookmark"}}, 0)
	assert.Error(t, err)

	assert.Equal(t, "/work/notes", dirOf("/work/notes/a.md"))
	assert.Equal(t, `C:\notes`, dirOf(`C:\notes\a.md`))
	assert.Equal(t, "/", dirOf("/a.md"))
	assert.True(t, equalFoldExt(".MD", "md"))
}
