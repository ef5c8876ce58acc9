// Package storage persists preferences, statistics and finished games.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "simplechess"

// DataDir returns the application data directory, creating it if needed.
// - Linux: $XDG_DATA_HOME/simplechess (~/.local/share/simplechess)
// - macOS: ~/Library/Application Support/simplechess
// - Windows: %LOCALAPPDATA%/simplechess
func DataDir() (string, error) {
	dir := filepath.Join(xdg.DataHome, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabaseDir returns the directory holding the BadgerDB files.
func DatabaseDir() (string, error) {
	return subdir("db")
}

// LogDir returns the directory the move log and board config default to.
func LogDir() (string, error) {
	return subdir("log")
}

func subdir(name string) (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(dataDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
