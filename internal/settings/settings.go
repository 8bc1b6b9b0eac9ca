// Package settings persists the last used frame geometry between runs.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the sidecar name used when no path is given.
const FileName = "mipiraw.json"

// Settings is the sidecar record. Zero fields mean "not set".
type Settings struct {
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	BitDepth     int    `json:"bit_depth,omitempty"`
	BayerPattern string `json:"bayer_pattern,omitempty"`
	RowStride    int    `json:"row_stride,omitempty"`
	Packing      string `json:"packing,omitempty"`
	LastFile     string `json:"last_file,omitempty"`
}

// DefaultPath returns the sidecar location under the user config directory,
// or FileName in the working directory if that cannot be resolved.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, "mipiraw", FileName)
}

// Load reads settings from path. A missing file yields zero settings.
func Load(path string) (*Settings, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var s Settings
	if err := json.NewDecoder(file).Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// Save writes s to path, creating the parent directory if needed. The file
// is replaced atomically.
func (s *Settings) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
