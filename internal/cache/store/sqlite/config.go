package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"
)

type Config struct {
	// Path of the database file, created on first use.
	Path string
	// BusyTimeout is how long a writer waits for a lock held by another
	// process (the CLI and the language server share the file).
	BusyTimeout time.Duration
}

func (c Config) dsn() string {
	timeout := c.BusyTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", fmt.Sprint(timeout.Milliseconds()))
	path := c.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if filepath.VolumeName(path) != "" {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: q.Encode()}
	return u.String()
}
