package links

import (
	"context"
	"testing"

	"docnav/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targets(links []Link) []string {
	var out []string
	for _, l := range links {
		out = append(out, l.Target)
	}
	return out
}

func TestParserFindsInlineLinksAndAutolinks(t *testing.T) {
	doc := []byte("See [the manual](docs/manual.pdf#page=3) first.\n" +
		"Budget: <file:///C:/data/report.xlsx#sheet=Budget!C10>\n")

	p, err := NewParser(config.DefaultLinkQuery, doc)
	require.NoError(t, err)
	defer p.Close()

	links, err := p.Links()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"docs/manual.pdf#page=3",
		"file:///C:/data/report.xlsx#sheet=Budget!C10",
	}, targets(links))

	for _, l := range links {
		if l.Target == "docs/manual.pdf#page=3" {
			assert.Equal(t, Point{Row: 0, Column: 17}, l.Start)
		}
	}
}

func TestParserUpdate(t *testing.T) {
	doc := []byte("nothing here\n")
	p, err := NewParser(config.DefaultLinkQuery, doc)
	require.NoError(t, err)
	defer p.Close()

	links, err := p.Links()
	require.NoError(t, err)
	assert.Empty(t, links)

	insert := "[deck](deck.pptx#slide=2) "
	updated := []byte(insert + string(doc))
	edit := Edit{
		StartIndex:  0,
		OldEndIndex: 0,
		NewEndIndex: uint32(len(insert)),
	}
	edit.NewEndPoint.Column = uint32(len(insert))
	require.NoError(t, p.Update([]Edit{edit}, updated))

	links, err = p.Links()
	require.NoError(t, err)
	assert.Equal(t, []string{"deck.pptx#slide=2"}, targets(links))

	require.NoError(t, p.Replace([]byte("plain text")))
	links, err = p.Links()
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestParserRejectsBadQuery(t *testing.T) {
	_, err := NewParser("(not_a_node) @target", nil)
	assert.Error(t, err)
}

func TestClosedParser(t *testing.T) {
	p, err := NewParser(config.DefaultLinkQuery, []byte("x"))
	require.NoError(t, err)
	p.Close()
	_, err = p.Links()
	assert.ErrorIs(t, err, ErrNoTree)
}

func TestParserPool(t *testing.T) {
	pp, err := NewParserPool(2, config.DefaultLinkQuery)
	require.NoError(t, err)
	defer pp.Close()

	docs := [][]byte{
		[]byte("[a](a.pdf#page=1)"),
		[]byte("[b](b.docx?bookmark=Intro)"),
		[]byte("no links"),
	}
	want := [][]string{{"a.pdf#page=1"}, {"b.docx?bookmark=Intro"}, nil}

	for i, d := range docs {
		links, err := pp.Extract(context.Background(), d)
		require.NoError(t, err)
		assert.Equal(t, want[i], targets(links))
	}
}

func TestParserPoolHonoursContext(t *testing.T) {
	pp, err := NewParserPool(1, config.DefaultLinkQuery)
	require.NoError(t, err)
	defer pp.Close()

	// Drain the only parser.
	held := <-pp.pool
	defer func() { pp.pool <- held }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pp.Extract(ctx, []byte("[a](a.pdf)"))
	assert.ErrorIs(t, err, context.Canceled)
}
