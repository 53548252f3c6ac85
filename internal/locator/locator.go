// Package locator models positions inside a document (page, slide, line,
// sheet and cell, bookmark) and recognizes them in link text.
package locator

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind string

const (
	Page      Kind = "page"
	Slide     Kind = "slide"
	Line      Kind = "line"
	SheetCell Kind = "sheetCell"
	Bookmark  Kind = "bookmark"
)

// Locator is a tagged union. N is set for the numeric kinds, Sheet and Cell
// for SheetCell and Name for Bookmark.
type Locator struct {
	Kind  Kind   `json:"kind"`
	N     int    `json:"n,omitempty"`
	Sheet string `json:"sheet,omitempty"`
	Cell  string `json:"cell,omitempty"`
	Name  string `json:"name,omitempty"`
}

func NewPage(n int) Locator  { return Locator{Kind: Page, N: n} }
func NewSlide(n int) Locator { return Locator{Kind: Slide, N: n} }
func NewLine(n int) Locator  { return Locator{Kind: Line, N: n} }

func NewSheetCell(sheet, cell string) Locator {
	return Locator{Kind: SheetCell, Sheet: sheet, Cell: cell}
}

func NewBookmark(name string) Locator {
	return Locator{Kind: Bookmark, Name: name}
}

// Numeric reports whether the locator addresses a numbered unit.
func (l Locator) Numeric() bool {
	switch l.Kind {
	case Page, Slide, Line:
		return true
	}
	return false
}

// Valid reports whether the locator is structurally usable. Numeric
// locators are always valid here; range checks belong to the resolver.
func (l Locator) Valid() bool {
	switch l.Kind {
	case Page, Slide, Line:
		return true
	case SheetCell:
		return strings.TrimSpace(l.Sheet) != "" || strings.TrimSpace(l.Cell) != ""
	case Bookmark:
		return strings.TrimSpace(l.Name) != ""
	}
	return false
}

// Target renders the sheet/cell pair the way spreadsheet applications
// expect it on the command line: "Sheet!Cell", "Sheet" or "Cell".
func (l Locator) Target() string {
	switch {
	case l.Sheet != "" && l.Cell != "":
		return l.Sheet + "!" + l.Cell
	case l.Sheet != "":
		return l.Sheet
	default:
		return l.Cell
	}
}

// Fragment encodes the locator in its canonical hash form. Extract on the
// result yields the locator back.
func (l Locator) Fragment() string {
	switch l.Kind {
	case Page, Slide, Line:
		return "#" + string(l.Kind) + "=" + strconv.Itoa(l.N)
	case SheetCell:
		switch {
		case l.Sheet != "" && l.Cell != "":
			return "#sheet=" + escapeName(l.Sheet) + "!" + l.Cell
		case l.Sheet != "":
			return "#sheet=" + escapeName(l.Sheet)
		case l.Cell != "":
			return "#cell=" + l.Cell
		}
	case Bookmark:
		return "#bookmark=" + escapeName(l.Name)
	}
	return ""
}

func (l Locator) String() string {
	switch l.Kind {
	case Page:
		return fmt.Sprintf("Page(%d)", l.N)
	case Slide:
		return fmt.Sprintf("Slide(%d)", l.N)
	case Line:
		return fmt.Sprintf("Line(%d)", l.N)
	case SheetCell:
		if l.Cell == "" {
			return fmt.Sprintf("SheetCell(%s)", l.Sheet)
		}
		return fmt.Sprintf("SheetCell(%s, %s)", l.Sheet, l.Cell)
	case Bookmark:
		return fmt.Sprintf("Bookmark(%s)", l.Name)
	}
	return "None"
}

// Describe returns a short human readable form used in notices and tooltips.
func (l Locator) Describe() string {
	switch l.Kind {
	case Page, Slide, Line:
		return fmt.Sprintf("%s %d", l.Kind, l.N)
	case SheetCell:
		return "cell " + l.Target()
	case Bookmark:
		return "bookmark " + l.Name
	}
	return ""
}

// Parse reads a locator written by hand, e.g. "page=3", "#slide=2",
// "sheet=Budget!C10" or "?bookmark=Signature".
func Parse(s string) (Locator, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Locator{}, false
	}
	if s[0] != '#' && s[0] != '?' {
		s = "#" + s
	}
	return Extract(s)
}
