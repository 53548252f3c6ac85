// Package resolver turns a document reference plus optional hints into the
// single locator a viewer should jump to.
package resolver

import (
	"docnav/internal/doctype"
	"docnav/internal/locator"
	"docnav/internal/reference"
)

// Request carries everything known about one open request. Total is the
// page/slide/line count of the loaded document, or 0 when unknown.
type Request struct {
	Reference   reference.Reference
	Explicit    *locator.Locator
	OriginalURL string
	Total       int
}

// accepts lists the locator kinds each document kind understands. Numeric
// forms are accepted everywhere they can be converted to the native unit.
var accepts = map[doctype.Kind][]locator.Kind{
	doctype.PDF:        {locator.Page, locator.Slide, locator.Line},
	doctype.Word:       {locator.Page, locator.Bookmark},
	doctype.PowerPoint: {locator.Page, locator.Slide},
	doctype.Text:       {locator.Page, locator.Line},
	doctype.Excel:      {locator.Page, locator.SheetCell},
	doctype.Other:      {locator.Page, locator.Slide, locator.Line, locator.SheetCell, locator.Bookmark},
}

// Resolve picks the locator for req. An explicit locator wins when it is
// usable for the document kind; otherwise the original URL, the
// reference's own query/fragment, the raw reference and finally its last
// path segment are searched, first hit wins. The result is adapted to the
// document's unit and clamped.
func Resolve(req Request) (locator.Locator, bool) {
	kind := doctype.Classify(req.Reference.Path)

	if req.Explicit != nil {
		if loc, ok := finish(kind, *req.Explicit, req.Total); ok {
			return loc, true
		}
	}

	for _, source := range sources(req) {
		if source == "" {
			continue
		}
		found, ok := locator.ExtractFor(source, accepts[kind]...)
		if !ok {
			continue
		}
		if loc, ok := finish(kind, found, req.Total); ok {
			return loc, true
		}
	}
	return locator.Locator{}, false
}

func sources(req Request) []string {
	return []string{
		req.OriginalURL,
		attached(req.Reference),
		req.Reference.Raw,
		lastSegment(req.Reference.Raw),
	}
}

// attached rebuilds the query and fragment a reference carries, which a
// structured reference may hold without them appearing in Raw.
func attached(r reference.Reference) string {
	var s string
	if r.Query != "" {
		s += "?" + r.Query
	}
	if r.Fragment != "" {
		s += "#" + r.Fragment
	}
	if s == "" {
		return r.Suffix()
	}
	return s
}

func finish(kind doctype.Kind, loc locator.Locator, total int) (locator.Locator, bool) {
	adapted, ok := Adapt(kind, loc)
	if !ok {
		return locator.Locator{}, false
	}
	return Clamp(adapted, total)
}

// Adapt converts loc to the unit kind uses: slides for presentations,
// lines for text, pages for pdf and word, and "SheetN" for a page number
// in a workbook. Locators a kind cannot use are rejected.
func Adapt(kind doctype.Kind, loc locator.Locator) (locator.Locator, bool) {
	switch kind {
	case doctype.PDF:
		if loc.Numeric() {
			return locator.NewPage(loc.N), true
		}
	case doctype.Word:
		if loc.Numeric() {
			return locator.NewPage(loc.N), true
		}
		if loc.Kind == locator.Bookmark {
			return loc, true
		}
	case doctype.PowerPoint:
		if loc.Numeric() {
			return locator.NewSlide(loc.N), true
		}
	case doctype.Text:
		if loc.Numeric() {
			return locator.NewLine(loc.N), true
		}
	case doctype.Excel:
		if loc.Kind == locator.Page {
			n := loc.N
			if n < 1 {
				n = 1
			}
			return locator.NewSheetCell(sheetName(n), ""), true
		}
		if loc.Kind == locator.SheetCell {
			return loc, true
		}
	case doctype.Other:
		return loc, true
	}
	return locator.Locator{}, false
}

// Clamp forces numeric locators into [1, total] (upper bound only when
// total > 0) and rejects empty sheet/cell and bookmark locators.
func Clamp(loc locator.Locator, total int) (locator.Locator, bool) {
	if !loc.Valid() {
		return locator.Locator{}, false
	}
	if loc.Numeric() {
		if loc.N <= 0 {
			loc.N = 1
		}
		if total > 0 && loc.N > total {
			loc.N = total
		}
	}
	return loc, true
}
