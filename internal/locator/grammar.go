package locator

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

type pattern struct {
	kind  Kind
	re    *regexp.Regexp
	build func(s string, m []string) (Locator, bool)
}

func number(kind Kind) func(string, []string) (Locator, bool) {
	return func(_ string, m []string) (Locator, bool) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Locator{}, false
		}
		return Locator{Kind: kind, N: n}, true
	}
}

var trailingCell = regexp.MustCompile(`(?i)[#&]cell=([A-Z0-9]+)`)

func sheet(withCell bool) func(string, []string) (Locator, bool) {
	return func(s string, m []string) (Locator, bool) {
		loc := NewSheetCell(unescape(m[1]), "")
		if withCell {
			loc.Cell = strings.ToUpper(m[2])
		} else if c := trailingCell.FindStringSubmatch(s); c != nil {
			loc.Cell = strings.ToUpper(c[1])
		}
		return loc, loc.Valid()
	}
}

func cell(_ string, m []string) (Locator, bool) {
	return NewSheetCell("", strings.ToUpper(m[1])), true
}

func bookmark(_ string, m []string) (Locator, bool) {
	loc := NewBookmark(unescape(m[1]))
	return loc, loc.Valid()
}

// patterns is ordered by precedence: literal before percent-encoded, hash
// before query.
var patterns = []pattern{
	{Page, regexp.MustCompile(`(?i)#page=(\d+)`), number(Page)},
	{Page, regexp.MustCompile(`(?i)#page%3D(\d+)`), number(Page)},
	{Page, regexp.MustCompile(`#(\d+)$`), number(Page)},
	{Page, regexp.MustCompile(`(?i)\?page=(\d+)`), number(Page)},
	{Page, regexp.MustCompile(`(?i)\?page%3D(\d+)`), number(Page)},

	{SheetCell, regexp.MustCompile(`(?i)#sheet=([^!&#]+)!([A-Z0-9]+)`), sheet(true)},
	{SheetCell, regexp.MustCompile(`(?i)#sheet=([^!&#]+)`), sheet(false)},
	{SheetCell, regexp.MustCompile(`(?i)#cell=([A-Z0-9]+)`), cell},
	{SheetCell, regexp.MustCompile(`(?i)\?sheet=([^!&#]+)!([A-Z0-9]+)`), sheet(true)},
	{SheetCell, regexp.MustCompile(`(?i)\?sheet=([^!&#]+)`), sheet(false)},
	{SheetCell, regexp.MustCompile(`(?i)[?&]cell=([A-Z0-9]+)`), cell},

	{Bookmark, regexp.MustCompile(`(?i)#bookmark=([^!&]+)`), bookmark},
	{Bookmark, regexp.MustCompile(`(?i)\?bookmark=([^!&#]+)`), bookmark},

	{Slide, regexp.MustCompile(`(?i)#slide=(\d+)`), number(Slide)},
	{Slide, regexp.MustCompile(`(?i)#slide%3D(\d+)`), number(Slide)},
	{Slide, regexp.MustCompile(`(?i)\?slide=(\d+)`), number(Slide)},

	{Line, regexp.MustCompile(`(?i)#line=(\d+)`), number(Line)},
	{Line, regexp.MustCompile(`(?i)#line%3D(\d+)`), number(Line)},
	{Line, regexp.MustCompile(`(?i)\?line=(\d+)`), number(Line)},
}

// Extract returns the first locator found in s, trying every pattern on the
// raw string and then on its percent-decoded form.
func Extract(s string) (Locator, bool) {
	return extract(s, nil)
}

// ExtractFor is Extract restricted to patterns producing one of kinds. An
// empty kinds list matches nothing.
func ExtractFor(s string, kinds ...Kind) (Locator, bool) {
	if len(kinds) == 0 {
		return Locator{}, false
	}
	allowed := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	return extract(s, allowed)
}

func extract(s string, allowed map[Kind]bool) (Locator, bool) {
	if s == "" {
		return Locator{}, false
	}
	if loc, ok := match(s, allowed); ok {
		return loc, true
	}
	decoded, err := url.PathUnescape(s)
	if err != nil || decoded == s {
		return Locator{}, false
	}
	return match(decoded, allowed)
}

func match(s string, allowed map[Kind]bool) (Locator, bool) {
	for _, p := range patterns {
		if allowed != nil && !allowed[p.kind] {
			continue
		}
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if loc, ok := p.build(s, m); ok {
			return loc, true
		}
	}
	return Locator{}, false
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

var nameEscaper = strings.NewReplacer(
	"%", "%25",
	"&", "%26",
	"!", "%21",
	"#", "%23",
	"?", "%3F",
	" ", "%20",
)

func escapeName(s string) string {
	return nameEscaper.Replace(s)
}
