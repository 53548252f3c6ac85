package main

import (
	"context"
	"encoding/json"
	"io"

	"docnav/internal/config"
	"docnav/internal/links"
)

func runDump(root string, w io.Writer) error {
	cfg := config.Default().ApplyEnv()
	entries, err := links.Report(context.Background(), root, cfg.LinkExtensions)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
