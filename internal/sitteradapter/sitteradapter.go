// Package sitteradapter translates between LSP positions (UTF-16 code
// units) and tree-sitter coordinates (byte offsets).
package sitteradapter

import (
	"strings"
	"unicode/utf8"

	"docnav/internal/links"

	sitter "github.com/smacker/go-tree-sitter"
	lsp "github.com/tliron/glsp/protocol_3_16"
)

// Document is a text with a line index.
type Document struct {
	text  string
	lines []int
}

func NewDocument(text string) *Document {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Document{text: text, lines: lines}
}

func (d *Document) Text() string { return d.text }

func (d *Document) line(row uint32) string {
	if int(row) >= len(d.lines) {
		row = uint32(len(d.lines) - 1)
	}
	start := d.lines[row]
	end := len(d.text)
	if int(row)+1 < len(d.lines) {
		end = d.lines[row+1] - 1
	}
	return d.text[start:end]
}

// Offset resolves an LSP position to a byte offset and tree-sitter point.
// Lines past the end clamp to the last line, characters past the end of
// a line clamp to its end.
func (d *Document) Offset(pos lsp.Position) (int, sitter.Point) {
	row := pos.Line
	if int(row) >= len(d.lines) {
		row = uint32(len(d.lines) - 1)
	}

	var units uint32
	col := 0
	for _, r := range d.line(row) {
		n := uint32(1)
		if r > 0xFFFF {
			n = 2
		}
		if units+n > pos.Character {
			break
		}
		units += n
		col += utf8.RuneLen(r)
	}
	return d.lines[row] + col, sitter.Point{Row: row, Column: uint32(col)}
}

// Position converts a byte-based point to an LSP position.
func (d *Document) Position(pt links.Point) lsp.Position {
	row := pt.Row
	if int(row) >= len(d.lines) {
		row = uint32(len(d.lines) - 1)
	}
	line := d.line(row)
	col := int(pt.Column)
	if col > len(line) {
		col = len(line)
	}

	var units uint32
	for _, r := range line[:col] {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return lsp.Position{Line: row, Character: units}
}

func (d *Document) Range(l links.Link) lsp.Range {
	return lsp.Range{Start: d.Position(l.Start), End: d.Position(l.End)}
}

// Apply performs one content change and returns the edit tree-sitter
// needs along with the new document. A change without a range replaces
// the whole text and yields no edit.
func (d *Document) Apply(change any) (*links.Edit, *Document) {
	switch c := change.(type) {
	case lsp.TextDocumentContentChangeEventWhole:
		return nil, NewDocument(c.Text)
	case lsp.TextDocumentContentChangeEvent:
		if c.Range == nil {
			return nil, NewDocument(c.Text)
		}
		startByte, startPoint := d.Offset(c.Range.Start)
		endByte, endPoint := d.Offset(c.Range.End)
		if endByte < startByte {
			startByte, endByte = endByte, startByte
			startPoint, endPoint = endPoint, startPoint
		}

		edit := links.Edit{
			StartIndex:  uint32(startByte),
			OldEndIndex: uint32(endByte),
			NewEndIndex: uint32(startByte + len(c.Text)),
			StartPoint:  startPoint,
			OldEndPoint: endPoint,
			NewEndPoint: endPointAfter(startPoint, c.Text),
		}
		return &edit, NewDocument(d.text[:startByte] + c.Text + d.text[endByte:])
	}
	return nil, d
}

func endPointAfter(start sitter.Point, inserted string) sitter.Point {
	i := strings.LastIndexByte(inserted, '\n')
	if i < 0 {
		return sitter.Point{Row: start.Row, Column: start.Column + uint32(len(inserted))}
	}
	return sitter.Point{
		Row:    start.Row + uint32(strings.Count(inserted, "\n")),
		Column: uint32(len(inserted) - i - 1),
	}
}
