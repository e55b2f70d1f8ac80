package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DefaultAPIBase is used when neither config.json, TRASHTRACKK_API, nor
// --api provide a catalog base URL.
const DefaultAPIBase = "http://localhost:3000/api"

// Config is the process-wide configuration, resolved once at startup.
//
// The catalog base URL deliberately lives here (not as a constant near the
// HTTP client) so tests and scripts can point the whole app at a mock
// endpoint.
type Config struct {
	// APIBase is the catalog base URL; trash points live under
	// {APIBase}/trash-points.
	APIBase string `json:"apiBase,omitempty"`

	// PhotosDir is the root the gallery picker browses. Defaults to the
	// user's home directory when unset.
	PhotosDir string `json:"photosDir,omitempty"`

	// CameraCommand is run to take a picture; it receives the output JPEG
	// path as its final argument (e.g. "imagesnap" or
	// "ffmpeg -f v4l2 -i /dev/video0 -frames:v 1").
	CameraCommand string `json:"cameraCommand,omitempty"`

	// LocationCommand is run to read the current GPS position; it must
	// print JSON with latitude/longitude fields (e.g. "termux-location" or
	// "CoreLocationCLI -json").
	LocationCommand string `json:"locationCommand,omitempty"`
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.trashtrackk).
	if v := strings.TrimSpace(os.Getenv("TRASHTRACKK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".trashtrackk"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads config.json; a missing file yields a zero Config, not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve applies overrides and defaults on top of the stored config:
// apiOverride (from --api) wins, then TRASHTRACKK_API, then apiBase from
// config.json, then DefaultAPIBase.
func Resolve(cfg *Config, apiOverride string) *Config {
	out := &Config{}
	if cfg != nil {
		*out = *cfg
	}
	if v := strings.TrimSpace(os.Getenv("TRASHTRACKK_API")); v != "" {
		out.APIBase = v
	}
	if v := strings.TrimSpace(apiOverride); v != "" {
		out.APIBase = v
	}
	if strings.TrimSpace(out.APIBase) == "" {
		out.APIBase = DefaultAPIBase
	}
	out.APIBase = strings.TrimRight(out.APIBase, "/")
	if strings.TrimSpace(out.PhotosDir) == "" {
		if home, err := os.UserHomeDir(); err == nil {
			out.PhotosDir = home
		}
	}
	return out
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// Save writes config.json atomically (temp file + rename) so a concurrent
// CLI and TUI can't corrupt each other's writes.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
