// Package links finds document links in markdown and turns them into
// dispatchable targets.
package links

import (
	"strings"

	"docnav/internal/doctype"
	"docnav/internal/locator"
	"docnav/internal/reference"
	"docnav/internal/resolver"
)

// Point is a zero-based row and byte column.
type Point struct {
	Row    uint32 `json:"row"`
	Column uint32 `json:"column"`
}

// Link is a raw link destination and where it sits in the source.
type Link struct {
	Target string `json:"target"`
	Start  Point  `json:"start"`
	End    Point  `json:"end"`
}

// Target is a link that points at a local document.
type Target struct {
	Link      Link                `json:"link"`
	Reference reference.Reference `json:"reference"`
	Kind      doctype.Kind        `json:"kind"`
	Locator   *locator.Locator    `json:"locator,omitempty"`
}

// URI is the canonical file URI of the target with its locator fragment.
func (t Target) URI() string {
	uri := t.Reference.URI()
	if t.Locator != nil {
		uri += t.Locator.Fragment()
	}
	return uri
}

// Tooltip describes where following the link lands.
func (t Target) Tooltip() string {
	name := t.Reference.FileName()
	if t.Locator == nil {
		return "Open " + name
	}
	return "Open " + name + " at " + t.Locator.Describe()
}

// Resolve keeps links that point at local files, anchors relative ones at
// baseDir and resolves their locators. Web and mail links are dropped.
func Resolve(links []Link, baseDir string) []Target {
	var targets []Target
	for _, l := range links {
		dest := strings.TrimSpace(strings.Trim(l.Target, "<>"))
		if dest == "" || isRemote(dest) || strings.HasPrefix(dest, "#") {
			continue
		}

		ref := reference.Parse(dest).ResolveAgainst(baseDir)
		t := Target{
			Link:      l,
			Reference: ref,
			Kind:      doctype.Classify(ref.Path),
		}
		if loc, ok := resolver.Resolve(resolver.Request{Reference: ref}); ok {
			t.Locator = &loc
		}
		targets = append(targets, t)
	}
	return targets
}

func isRemote(dest string) bool {
	lower := strings.ToLower(dest)
	if strings.HasPrefix(lower, "file:") {
		return false
	}
	if strings.HasPrefix(lower, "mailto:") {
		return true
	}
	// "C:\..." is a drive, not a scheme.
	if i := strings.Index(lower, "://"); i > 1 {
		return true
	}
	return false
}

// DocumentTargets is Resolve restricted to links whose target has a
// locator or a known document kind.
func DocumentTargets(links []Link, baseDir string) []Target {
	var out []Target
	for _, t := range Resolve(links, baseDir) {
		if t.Locator != nil || t.Kind != doctype.Other {
			out = append(out, t)
		}
	}
	return out
}
