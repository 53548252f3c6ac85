// scanner is used to scan a directory for markdown notes.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("docnav.scanner")

// Extensions returns a skip predicate that keeps only files whose
// extension (case-insensitive, with dot) is listed.
func Extensions(exts ...string) func(path string, info fs.FileInfo) bool {
	keep := make(map[string]bool, len(exts))
	for _, e := range exts {
		keep[strings.ToLower(e)] = true
	}
	return func(path string, info fs.FileInfo) bool {
		return !keep[strings.ToLower(filepath.Ext(path))]
	}
}

// Scan walks the subtree under root with the given number of reader
// workers. Files and directories whose name begins with "." are skipped
// entirely, as is anything skip reports. Scan returns once every
// callback has completed, or early with ctx's error.
func Scan(
	ctx context.Context,
	root string,
	workers int,
	skip func(path string, info fs.FileInfo) bool,
	callback func(path string, document []byte),
) error {
	if workers < 1 {
		workers = 1
	}
	fileCh := make(chan string, 100)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range fileCh {
				data, err := os.ReadFile(path)
				if err != nil {
					log.Warningf("read error: %s: %v", path, err)
					continue
				}
				callback(path, data)
			}
		}()
	}

	log.Debugf("starting WalkDir at %q", root)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warningf("walk error: %v", err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if skip != nil && skip(path, info) {
			return nil
		}

		select {
		case fileCh <- path:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})

	close(fileCh)
	wg.Wait()
	return err
}
