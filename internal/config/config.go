package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultFileName is the settings file created next to the executable.
const DefaultFileName = "photobooth_config.json"

// ErrAbsent reports that no usable configuration exists on disk.
// A missing and a malformed file both map here so the caller can run
// first-time setup instead of failing.
var ErrAbsent = errors.New("configuration absent")

// Settings holds the flat application configuration persisted as JSON.
type Settings struct {
	WatchFolder   string `json:"watch_folder"`
	DriveFolderID string `json:"drive_folder_id"`
	DisplaySecs   int    `json:"qr_display_time"`
	WindowWidth   int    `json:"window_width"`
	WindowHeight  int    `json:"window_height"`
}

// Default returns a Settings record with the stock defaults. The drive
// folder id is intentionally empty so first-run setup is triggered.
func Default() *Settings {
	return &Settings{
		WatchFolder:   "",
		DriveFolderID: "",
		DisplaySecs:   30,
		WindowWidth:   950,
		WindowHeight:  550,
	}
}

// Load reads the settings file at path. Missing or unparseable files
// return ErrAbsent. Keys absent from the file keep their defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrAbsent
	}

	s := Default()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, ErrAbsent
	}

	return s, nil
}

// Save writes the settings file at path, replacing any previous content.
func Save(path string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings to %q: %w", path, err)
	}

	return nil
}

// Validate checks the invariants required before the watcher can start.
func (s *Settings) Validate() error {
	if s.WatchFolder == "" {
		return fmt.Errorf("watch folder must not be empty")
	}
	if s.DriveFolderID == "" {
		return fmt.Errorf("drive folder id must not be empty")
	}
	if s.DisplaySecs <= 0 {
		return fmt.Errorf("display time must be positive, got %d", s.DisplaySecs)
	}
	if s.WindowWidth <= 0 || s.WindowHeight <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", s.WindowWidth, s.WindowHeight)
	}
	return nil
}
