package links

import (
	"context"
	"sort"
	"sync"

	"docnav/internal/scanner"
)

// ReportEntry is one markdown file and the document targets it links to.
type ReportEntry struct {
	Path    string   `json:"path"`
	Base    string   `json:"base,omitempty"`
	Targets []Target `json:"targets"`
}

// Report scans root for markdown files with the given extensions and
// lists their document links, sorted by path. Files without document
// links are left out.
func Report(ctx context.Context, root string, extensions []string) ([]ReportEntry, error) {
	md := NewMarkdown()

	var mu sync.Mutex
	var entries []ReportEntry
	err := scanner.Scan(ctx, root, 4, scanner.Extensions(extensions...), func(path string, data []byte) {
		doc := md.Parse(data, path)
		targets := doc.Targets()
		if len(targets) == 0 {
			return
		}
		mu.Lock()
		entries = append(entries, ReportEntry{Path: path, Base: doc.Base, Targets: targets})
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}
