package reference

import (
	"net/url"

	"golang.org/x/text/unicode/norm"
)

// Variants lists the strings under which r may be looked up later, in
// probe order and without duplicates: original, clean, decoded clean,
// bare path, file name, canonical file URI and the NFC form of the path.
// Each variant is computed on its own; a failed decode only drops the
// decoded variant.
func Variants(r Reference) []string {
	out := make([]string, 0, 7)
	seen := make(map[string]struct{}, 7)
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(r.Raw)
	clean := r.Clean()
	add(clean)
	if decoded, err := url.PathUnescape(clean); err == nil && decoded != clean {
		add(decoded)
	}
	add(r.Path)
	add(r.FileName())
	add(r.URI())
	if nfc := norm.NFC.String(r.Path); nfc != r.Path {
		add(nfc)
	}
	return out
}

// Normalize is Variants for any value From accepts. Unsupported values
// yield no variants.
func Normalize(v any) []string {
	r, err := From(v)
	if err != nil {
		return nil
	}
	return Variants(r)
}
