package links

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Document is the link inventory of one markdown file. Base comes from
// the front matter key "base" and anchors relative links when set.
type Document struct {
	Path  string `json:"path"`
	Base  string `json:"base,omitempty"`
	Links []Link `json:"links"`
}

// BaseDir is the directory relative links of the document resolve against.
func (d *Document) BaseDir() string {
	switch {
	case d.Base == "":
		return filepath.Dir(d.Path)
	case filepath.IsAbs(d.Base):
		return d.Base
	default:
		return filepath.Join(filepath.Dir(d.Path), d.Base)
	}
}

// Targets resolves the document's links against BaseDir.
func (d *Document) Targets() []Target {
	return DocumentTargets(d.Links, d.BaseDir())
}

// Markdown extracts links with a full CommonMark parse, so reference
// style links resolve to their definitions.
type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(meta.Meta),
		),
	}
}

func (m *Markdown) ParseFile(path string) (*Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return m.Parse(source, path), nil
}

func (m *Markdown) Parse(source []byte, path string) *Document {
	ctx := parser.NewContext()
	root := m.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	doc := &Document{Path: path}
	if base, ok := meta.Get(ctx)["base"].(string); ok {
		doc.Base = base
	}

	loc := positioner{source: source, lines: lineStarts(source)}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			doc.Links = append(doc.Links, loc.link(string(node.Destination), node))
		case *ast.AutoLink:
			if node.AutoLinkType == ast.AutoLinkURL {
				doc.Links = append(doc.Links, loc.link(string(node.URL(source)), node))
			}
		}
		return ast.WalkContinue, nil
	})
	return doc
}

// positioner places links in source. goldmark keeps offsets only for
// text segments, so a link sits at its label; links without a label text
// are found by searching for the destination after the previous link.
type positioner struct {
	source []byte
	lines  []int
	cursor int
}

func (l *positioner) link(dest string, n ast.Node) Link {
	start, stop := -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			if start < 0 {
				start = t.Segment.Start
			}
			stop = t.Segment.Stop
		}
		return ast.WalkContinue, nil
	})
	if start < 0 && dest != "" && l.cursor <= len(l.source) {
		if i := bytes.Index(l.source[l.cursor:], []byte(dest)); i >= 0 {
			start = l.cursor + i
			stop = start + len(dest)
		}
	}
	if start < 0 {
		return Link{Target: dest}
	}
	l.cursor = stop
	return Link{Target: dest, Start: pointAt(l.lines, start), End: pointAt(l.lines, stop)}
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func pointAt(starts []int, offset int) Point {
	row := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	if row < 0 {
		row = 0
	}
	return Point{Row: uint32(row), Column: uint32(offset - starts[row])}
}
