package manager

import (
	"testing"

	"docnav/internal/config"
	"docnav/internal/links"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lsp "github.com/tliron/glsp/protocol_3_16"
)

const uri = "file:///notes/a.md"

func targets(t *testing.T, dm *DocumentManager) []string {
	t.Helper()
	found, _, err := dm.Links(uri)
	require.NoError(t, err)
	var out []string
	for _, l := range found {
		out = append(out, l.Target)
	}
	return out
}

func TestOpenChangeRelease(t *testing.T) {
	dm := NewDocumentManager(config.DefaultLinkQuery)
	defer dm.CloseAll()

	require.NoError(t, dm.Open(uri, "See [x](x.pdf#page=2).\n"))
	assert.Equal(t, []string{"x.pdf#page=2"}, targets(t, dm))

	// Replace "2" with "7".
	require.NoError(t, dm.Change(uri, []any{
		lsp.TextDocumentContentChangeEvent{
			Range: &lsp.Range{
				Start: lsp.Position{Line: 0, Character: 19},
				End:   lsp.Position{Line: 0, Character: 20},
			},
			Text: "7",
		},
	}))
	text, ok := dm.Text(uri)
	require.True(t, ok)
	assert.Equal(t, "See [x](x.pdf#page=7).\n", text)
	assert.Equal(t, []string{"x.pdf#page=7"}, targets(t, dm))

	require.NoError(t, dm.Change(uri, []any{
		lsp.TextDocumentContentChangeEventWhole{Text: "[deck](d.pptx#slide=3)"},
	}))
	assert.Equal(t, []string{"d.pptx#slide=3"}, targets(t, dm))

	dm.Release(uri)
	_, _, err := dm.Links(uri)
	assert.Error(t, err)
	_, ok = dm.Text(uri)
	assert.False(t, ok)
}

func TestLinksCarryPositions(t *testing.T) {
	dm := NewDocumentManager(config.DefaultLinkQuery)
	defer dm.CloseAll()

	require.NoError(t, dm.Open(uri, "é [a](a.pdf)"))
	found, doc, err := dm.Links(uri)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, links.Point{Row: 0, Column: 7}, found[0].Start)
	assert.Equal(t, lsp.Position{Line: 0, Character: 6}, doc.Range(found[0]).Start)
}

func TestChangeUnknownDocument(t *testing.T) {
	dm := NewDocumentManager(config.DefaultLinkQuery)
	assert.Error(t, dm.Change("file:///missing.md", nil))
}

func TestOpenRejectsBadQuery(t *testing.T) {
	dm := NewDocumentManager("(nope) @target")
	assert.Error(t, dm.Open(uri, "text"))
}
