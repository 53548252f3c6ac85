package locator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentRoundTrip(t *testing.T) {
	locs := []Locator{
		NewPage(3),
		NewSlide(12),
		NewLine(40),
		NewSheetCell("Budget", "C10"),
		NewSheetCell("Q1 Budget", ""),
		NewSheetCell("", "B2"),
		NewSheetCell("R&D", "A1"),
		NewBookmark("Signature"),
		NewBookmark("Clause 4!"),
	}
	for _, loc := range locs {
		t.Run(loc.String(), func(t *testing.T) {
			got, ok := Extract("file.ext" + loc.Fragment())
			require.True(t, ok, "fragment %q", loc.Fragment())
			assert.Equal(t, loc, got)
		})
	}
}

func TestParse(t *testing.T) {
	loc, ok := Parse("page=3")
	require.True(t, ok)
	assert.Equal(t, NewPage(3), loc)

	loc, ok = Parse("?bookmark=Signature")
	require.True(t, ok)
	assert.Equal(t, NewBookmark("Signature"), loc)

	loc, ok = Parse(" sheet=Budget!C10 ")
	require.True(t, ok)
	assert.Equal(t, NewSheetCell("Budget", "C10"), loc)

	_, ok = Parse("")
	assert.False(t, ok)
	_, ok = Parse("chapter=2")
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	assert.True(t, NewPage(0).Valid())
	assert.False(t, NewSheetCell(" ", "").Valid())
	assert.True(t, NewSheetCell("", "A1").Valid())
	assert.False(t, NewBookmark("").Valid())
	assert.False(t, Locator{}.Valid())
}

func TestTarget(t *testing.T) {
	assert.Equal(t, "Budget!C10", NewSheetCell("Budget", "C10").Target())
	assert.Equal(t, "Budget", NewSheetCell("Budget", "").Target())
	assert.Equal(t, "C10", NewSheetCell("", "C10").Target())
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(NewSheetCell("Budget", "C10"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"sheetCell","sheet":"Budget","cell":"C10"}`, string(data))

	var loc Locator
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"page","n":4}`), &loc))
	assert.Equal(t, NewPage(4), loc)
}

func TestString(t *testing.T) {
	assert.Equal(t, "Page(3)", NewPage(3).String())
	assert.Equal(t, "SheetCell(Budget, C10)", NewSheetCell("Budget", "C10").String())
	assert.Equal(t, "Bookmark(Signature)", NewBookmark("Signature").String())
	assert.Equal(t, "None", Locator{}.String())
}
