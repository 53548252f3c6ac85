// Package reference parses document references (plain paths or file URLs,
// possibly carrying a locator suffix) and derives the string variants used
// to match the two sides of an open/ready round trip.
package reference

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

type Scheme string

const (
	PlainPath Scheme = "plain-path"
	FileURL   Scheme = "file-url"
)

var ErrUnsupportedReference = errors.New("reference: unsupported reference type")

// Reference is a parsed document reference. Path never carries a locator
// suffix; the suffix survives in Raw and in the Query/Fragment components.
type Reference struct {
	Scheme   Scheme `json:"scheme"`
	Raw      string `json:"raw"`
	Path     string `json:"path"`
	Query    string `json:"query,omitempty"`
	Fragment string `json:"fragment,omitempty"`
}

var drivePath = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// Parse never fails; input that is neither a path nor a file URL is
// treated as a plain path.
func Parse(raw string) Reference {
	ref := Reference{Raw: raw, Scheme: PlainPath}

	clean, suffix := splitSuffix(raw)
	ref.Query, ref.Fragment = splitComponents(suffix)

	if hasFileScheme(clean) {
		ref.Scheme = FileURL
		ref.Path = fileURLPath(clean)
		return ref
	}
	ref.Path = osPath(clean)
	return ref
}

// From accepts the reference shapes callers hand around: strings, parsed
// references, URLs and anything with a String method.
func From(v any) (Reference, error) {
	switch r := v.(type) {
	case string:
		return Parse(r), nil
	case Reference:
		return r, nil
	case *Reference:
		if r == nil {
			return Reference{}, fmt.Errorf("%w: nil *Reference", ErrUnsupportedReference)
		}
		return *r, nil
	case *url.URL:
		if r == nil {
			return Reference{}, fmt.Errorf("%w: nil *url.URL", ErrUnsupportedReference)
		}
		return Parse(r.String()), nil
	case fmt.Stringer:
		return Parse(r.String()), nil
	default:
		return Reference{}, fmt.Errorf("%w: %T", ErrUnsupportedReference, v)
	}
}

// Clean is Raw without its locator suffix.
func (r Reference) Clean() string {
	clean, _ := splitSuffix(r.Raw)
	return clean
}

// Suffix is the "?..." / "#..." tail of Raw, or "".
func (r Reference) Suffix() string {
	_, suffix := splitSuffix(r.Raw)
	return suffix
}

// FileName is the last segment of Path.
func (r Reference) FileName() string {
	return lastSegment(r.Path)
}

// URI is the canonical file:/// form of Path.
func (r Reference) URI() string {
	return canonicalURI(r.Path)
}

func (r Reference) String() string { return r.Raw }

func splitSuffix(s string) (string, string) {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

func splitComponents(suffix string) (query, fragment string) {
	if suffix == "" {
		return "", ""
	}
	if suffix[0] == '#' {
		return "", suffix[1:]
	}
	rest := suffix[1:]
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		return rest[:i], rest[i+1:]
	}
	return rest, ""
}

func hasFileScheme(s string) bool {
	return len(s) >= 5 && strings.EqualFold(s[:5], "file:")
}

// fileURLPath turns file:///C:/a.pdf into C:\a.pdf and file:///home/a.pdf
// into /home/a.pdf. Hosts other than localhost become UNC-style paths.
func fileURLPath(s string) string {
	rest := s[5:]
	host := ""
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			host, rest = rest[:i], rest[i:]
		} else {
			host, rest = rest, ""
		}
	}
	if decoded, err := url.PathUnescape(rest); err == nil {
		rest = decoded
	}
	if len(rest) > 1 && rest[0] == '/' && drivePath.MatchString(rest[1:]) {
		rest = rest[1:]
	}
	if host != "" && !strings.EqualFold(host, "localhost") {
		return `\\` + host + strings.ReplaceAll(rest, "/", `\`)
	}
	return osPath(rest)
}

// osPath keeps drive-letter paths in Windows form regardless of the host
// OS; everything else uses the local separator.
func osPath(p string) string {
	if drivePath.MatchString(p) || strings.HasPrefix(p, `\\`) {
		return strings.ReplaceAll(p, "/", `\`)
	}
	return filepath.FromSlash(p)
}

func lastSegment(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

func canonicalURI(p string) string {
	if p == "" {
		return ""
	}
	slashed := strings.ReplaceAll(p, `\`, "/")
	return "file:///" + strings.TrimLeft(slashed, "/")
}
