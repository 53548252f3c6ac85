package reference

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var doubledDrive = regexp.MustCompile(`^.+[\\/]([A-Za-z]:[\\/].*)$`)

// IsAbs reports whether p is absolute on any platform docnav links come
// from: POSIX roots, drive letters and UNC shares.
func IsAbs(p string) bool {
	return drivePath.MatchString(p) ||
		strings.HasPrefix(p, `\\`) ||
		strings.HasPrefix(p, "/") ||
		filepath.IsAbs(p)
}

// ResolveAgainst anchors a relative plain path at base, the directory of
// the linking document or the workspace root. A path that picked up a
// second drive prefix through naive joining ("C:\ws\C:\a.pdf") is reduced
// to the last drive-rooted path.
func (r Reference) ResolveAgainst(base string) Reference {
	p := fixDoubledDrive(r.Path)
	if r.Scheme == PlainPath && p != "" && !IsAbs(p) && base != "" {
		p = join(base, p)
	}
	if p == r.Path {
		return r
	}

	out := r
	out.Path = p
	if r.Scheme == FileURL {
		out.Raw = canonicalURI(p) + r.Suffix()
	} else {
		out.Raw = p + r.Suffix()
	}
	return out
}

func fixDoubledDrive(p string) string {
	if m := doubledDrive.FindStringSubmatch(p); m != nil {
		return osPath(m[1])
	}
	return p
}

func join(base, rel string) string {
	if drivePath.MatchString(base) {
		slashed := strings.ReplaceAll(base+"/"+rel, `\`, "/")
		return osPath(path.Clean(slashed))
	}
	if strings.HasPrefix(base, `\\`) {
		return strings.TrimRight(base, `\/`) + `\` + strings.ReplaceAll(rel, "/", `\`)
	}
	return filepath.Join(base, filepath.FromSlash(rel))
}
