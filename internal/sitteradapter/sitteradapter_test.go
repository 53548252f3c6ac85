package sitteradapter

import (
	"testing"

	"docnav/internal/links"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lsp "github.com/tliron/glsp/protocol_3_16"
)

func pos(line, char uint32) lsp.Position {
	return lsp.Position{Line: line, Character: char}
}

func TestOffset(t *testing.T) {
	// "é" is two bytes and one UTF-16 unit, "😀" four bytes and two units.
	d := NewDocument("abc\né😀x\n")

	tests := []struct {
		pos    lsp.Position
		offset int
		point  sitter.Point
	}{
		{pos(0, 0), 0, sitter.Point{Row: 0, Column: 0}},
		{pos(0, 3), 3, sitter.Point{Row: 0, Column: 3}},
		{pos(1, 1), 6, sitter.Point{Row: 1, Column: 2}},
		{pos(1, 3), 10, sitter.Point{Row: 1, Column: 6}},
		{pos(1, 99), 11, sitter.Point{Row: 1, Column: 7}},
		{pos(9, 0), 12, sitter.Point{Row: 2, Column: 0}},
	}
	for _, tt := range tests {
		offset, point := d.Offset(tt.pos)
		assert.Equal(t, tt.offset, offset, "%+v", tt.pos)
		assert.Equal(t, tt.point, point, "%+v", tt.pos)
	}
}

func TestPositionInvertsOffset(t *testing.T) {
	d := NewDocument("abc\né😀x\n")
	for _, p := range []lsp.Position{pos(0, 2), pos(1, 0), pos(1, 1), pos(1, 3), pos(1, 4)} {
		_, point := d.Offset(p)
		assert.Equal(t, p, d.Position(links.Point{Row: point.Row, Column: point.Column}))
	}
}

func TestRange(t *testing.T) {
	d := NewDocument("é [a](a.pdf)")
	r := d.Range(links.Link{Start: links.Point{Row: 0, Column: 7}, End: links.Point{Row: 0, Column: 12}})
	assert.Equal(t, lsp.Range{Start: pos(0, 6), End: pos(0, 11)}, r)
}

func TestApplyRangeChange(t *testing.T) {
	d := NewDocument("one\ntwo\n")
	edit, next := d.Apply(lsp.TextDocumentContentChangeEvent{
		Range: &lsp.Range{Start: pos(1, 0), End: pos(1, 3)},
		Text:  "2\nzwei",
	})
	require.NotNil(t, edit)
	assert.Equal(t, "one\n2\nzwei\n", next.Text())
	assert.Equal(t, uint32(4), edit.StartIndex)
	assert.Equal(t, uint32(7), edit.OldEndIndex)
	assert.Equal(t, uint32(10), edit.NewEndIndex)
	assert.Equal(t, sitter.Point{Row: 2, Column: 4}, edit.NewEndPoint)
}

func TestApplyWholeChange(t *testing.T) {
	d := NewDocument("old")
	edit, next := d.Apply(lsp.TextDocumentContentChangeEventWhole{Text: "new"})
	assert.Nil(t, edit)
	assert.Equal(t, "new", next.Text())

	edit, next = d.Apply(lsp.TextDocumentContentChangeEvent{Text: "also new"})
	assert.Nil(t, edit)
	assert.Equal(t, "also new", next.Text())
}

func TestApplyUnknownChange(t *testing.T) {
	d := NewDocument("same")
	edit, next := d.Apply(42)
	assert.Nil(t, edit)
	assert.Same(t, d, next)
}
