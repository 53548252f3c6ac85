package links

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	mdinline "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown-inline"
)

var (
	lang        = mdinline.GetLanguage()
	captureName = "target"
)

var ErrNoTree = errors.New("links: no parsed tree available")

// Edit is a single incremental edit in tree-sitter coordinates.
type Edit sitter.EditInput

func executeQuery(root *sitter.Node, query *sitter.Query, source []byte) []Link {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	var links []Link
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, source)

		for _, c := range m.Captures {
			if query.CaptureNameForId(c.Index) != captureName {
				continue
			}
			start, end := c.Node.StartPoint(), c.Node.EndPoint()
			links = append(links, Link{
				Target: strings.Trim(c.Node.Content(source), "<>"),
				Start:  Point{Row: start.Row, Column: start.Column},
				End:    Point{Row: end.Row, Column: end.Column},
			})
		}
	}
	return links
}

func compile(query string) (*sitter.Query, error) {
	q, err := sitter.NewQuery([]byte(query), lang)
	if err != nil {
		return nil, fmt.Errorf("invalid link query: %w", err)
	}
	return q, nil
}

// Parser keeps the syntax tree of one open document so edits can be
// reparsed incrementally.
type Parser struct {
	mu     sync.Mutex
	parser *sitter.Parser
	tree   *sitter.Tree
	query  *sitter.Query
	source []byte
}

// NewParser compiles query and parses initialText.
func NewParser(query string, initialText []byte) (*Parser, error) {
	q, err := compile(query)
	if err != nil {
		return nil, err
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)

	parser := &Parser{parser: p, query: q}
	if err := parser.reparse(initialText); err != nil {
		parser.Close()
		return nil, err
	}
	return parser, nil
}

func (p *Parser) reparse(source []byte) error {
	tree, err := p.parser.ParseCtx(context.Background(), p.tree, source)
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if p.tree != nil {
		p.tree.Close()
	}
	p.tree = tree
	p.source = source
	return nil
}

// Links runs the link query against the current tree.
func (p *Parser) Links() ([]Link, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tree == nil {
		return nil, ErrNoTree
	}
	return executeQuery(p.tree.RootNode(), p.query, p.source), nil
}

// Update applies edits to the old tree and reparses newText against it.
func (p *Parser) Update(edits []Edit, newText []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tree == nil {
		return ErrNoTree
	}
	for _, e := range edits {
		p.tree.Edit(sitter.EditInput(e))
	}
	return p.reparse(newText)
}

// Replace discards the tree and parses text from scratch.
func (p *Parser) Replace(text []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tree != nil {
		p.tree.Close()
		p.tree = nil
	}
	return p.reparse(text)
}

// Close frees any resources held by the Parser.
func (p *Parser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree != nil {
		p.tree.Close()
		p.tree = nil
	}
	if p.query != nil {
		p.query.Close()
		p.query = nil
	}
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
	return nil
}

// ParserPool hands out tree-sitter parsers for one-shot extraction.
type ParserPool struct {
	pool  chan *sitter.Parser
	query *sitter.Query
}

// NewParserPool creates a pool of n parsers sharing one compiled query.
func NewParserPool(n int, query string) (*ParserPool, error) {
	if n < 1 {
		n = 1
	}
	q, err := compile(query)
	if err != nil {
		return nil, err
	}
	pp := &ParserPool{pool: make(chan *sitter.Parser, n), query: q}
	for i := 0; i < n; i++ {
		p := sitter.NewParser()
		p.SetLanguage(lang)
		pp.pool <- p
	}
	return pp, nil
}

// Extract parses document with a pooled parser and returns its links.
func (pp *ParserPool) Extract(ctx context.Context, document []byte) ([]Link, error) {
	var p *sitter.Parser
	select {
	case p = <-pp.pool:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { pp.pool <- p }()

	tree, err := p.ParseCtx(ctx, nil, document)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return executeQuery(tree.RootNode(), pp.query, document), nil
}

// Close releases all parsers in the pool.
func (pp *ParserPool) Close() error {
	close(pp.pool)
	for p := range pp.pool {
		p.Close()
	}
	pp.query.Close()
	return nil
}
