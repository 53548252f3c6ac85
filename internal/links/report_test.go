package links

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"docnav/internal/locator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"b.md":         "[manual](docs/manual.pdf#page=3)",
		"a/notes.md":   "---\nbase: /srv\n---\n[deck](deck.pptx#slide=2)",
		"plain.md":     "[home](https://example.com)",
		"ignored.txt":  "[x](x.pdf)",
		".hidden/c.md": "[y](y.pdf)",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}

	entries, err := Report(context.Background(), root, []string{".md"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, filepath.Join(root, "a", "notes.md"), entries[0].Path)
	assert.Equal(t, "/srv", entries[0].Base)
	require.Len(t, entries[0].Targets, 1)
	assert.Equal(t, filepath.FromSlash("/srv/deck.pptx"), entries[0].Targets[0].Reference.Path)
	assert.Equal(t, locator.NewSlide(2), *entries[0].Targets[0].Locator)

	assert.Equal(t, filepath.Join(root, "b.md"), entries[1].Path)
	assert.Equal(t, filepath.Join(root, "docs", "manual.pdf"), entries[1].Targets[0].Reference.Path)
}
