package links

import (
	"os"
	"path/filepath"
	"testing"

	"docnav/internal/doctype"
	"docnav/internal/locator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const note = `---
title: Quarterly review
base: ../shared
---
# Review

Open [the budget][budget] and the [deck](slides/q3.pptx#slide=4).
Also <file:///C:/contracts/agreement.docx?bookmark=Signature> and
[the site](https://example.com/report.pdf#page=2).

[budget]: finance/report.xlsx#sheet=Budget!C10
`

func TestMarkdownParse(t *testing.T) {
	doc := NewMarkdown().Parse([]byte(note), "/notes/review/q3.md")

	assert.Equal(t, "../shared", doc.Base)
	assert.Equal(t, []string{
		"finance/report.xlsx#sheet=Budget!C10",
		"slides/q3.pptx#slide=4",
		"file:///C:/contracts/agreement.docx?bookmark=Signature",
		"https://example.com/report.pdf#page=2",
	}, targets(doc.Links))

	// Links sit at their labels.
	assert.Equal(t, uint32(6), doc.Links[0].Start.Row)
	assert.Equal(t, uint32(6), doc.Links[0].Start.Column)
}

func TestMarkdownTargets(t *testing.T) {
	doc := NewMarkdown().Parse([]byte(note), "/notes/review/q3.md")
	got := doc.Targets()
	require.Len(t, got, 3)

	assert.Equal(t, doctype.Excel, got[0].Kind)
	assert.Equal(t, filepath.FromSlash("/notes/shared/finance/report.xlsx"), got[0].Reference.Path)
	assert.Equal(t, locator.NewSheetCell("Budget", "C10"), *got[0].Locator)

	assert.Equal(t, doctype.PowerPoint, got[1].Kind)
	assert.Equal(t, locator.NewSlide(4), *got[1].Locator)

	assert.Equal(t, doctype.Word, got[2].Kind)
	assert.Equal(t, `C:\contracts\agreement.docx`, got[2].Reference.Path)
	assert.Equal(t, locator.NewBookmark("Signature"), *got[2].Locator)
}

func TestBaseDir(t *testing.T) {
	tests := []struct {
		doc  Document
		want string
	}{
		{Document{Path: "/a/b/n.md"}, "/a/b"},
		{Document{Path: "/a/b/n.md", Base: "docs"}, "/a/b/docs"},
		{Document{Path: "/a/b/n.md", Base: "/srv/docs"}, "/srv/docs"},
	}
	for _, tt := range tests {
		assert.Equal(t, filepath.FromSlash(tt.want), tt.doc.BaseDir())
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "n.md")
	require.NoError(t, os.WriteFile(path, []byte("[x](x.pdf#3)"), 0600))

	doc, err := NewMarkdown().ParseFile(path)
	require.NoError(t, err)
	require.Len(t, doc.Links, 1)
	assert.Equal(t, "x.pdf#3", doc.Links[0].Target)

	_, err = NewMarkdown().ParseFile(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}
