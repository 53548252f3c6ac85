package config

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// WorkspaceStateDir returns (and creates) the directory holding state for
// the workspace at root. StateDir wins when set; otherwise the XDG state
// home is used with one subdirectory per workspace.
func (c Config) WorkspaceStateDir(root string) (string, error) {
	base := c.StateDir
	if base == "" {
		var err error
		base, err = getXDGStateHome("docnav")
		if err != nil {
			return "", err
		}
	}

	dir := filepath.Join(base, workspaceKey(root))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return dir, nil
}

// JumpsDB is the sqlite file for persisted pending jumps.
func (c Config) JumpsDB(root string) (string, error) {
	dir, err := c.WorkspaceStateDir(root)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jumps.db"), nil
}

func workspaceKey(root string) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxhash.Sum64String(filepath.Clean(root)))
	return hex.EncodeToString(buf[:])
}

func getXDGStateHome(appName string) (string, error) {
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		xdgStateHome = filepath.Join(homeDir, ".local", "state")
	}

	return filepath.Join(xdgStateHome, appName), nil
}
