// Package config loads the downloader settings: compiled-in defaults,
// overridden by a .env file / environment variables, optionally
// overridden again by a JSON config file and command line arguments.
// The resulting Settings value is immutable for the duration of a run.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds all configuration options for a run.
type Settings struct {
	// OutputFolder is the default destination root for downloads.
	OutputFolder string `json:"output_folder"`

	// Format is the default output format name ("mp3" or "mp4").
	Format string `json:"format"`

	// Quality is the default quality tier name ("low", "medium", "high").
	Quality string `json:"quality"`

	// MaxRetries bounds per-item retrieval attempts.
	MaxRetries int `json:"max_retries"`

	// RequestTimeoutSeconds bounds metadata and thumbnail HTTP requests.
	RequestTimeoutSeconds int `json:"request_timeout"`

	// FfmpegPath and FfprobePath locate the transcoding binaries.
	FfmpegPath  string `json:"ffmpeg_path"`
	FfprobePath string `json:"ffprobe_path"`
}

// DefaultSettings returns settings with default values, matching the
// documented CLI defaults.
func DefaultSettings() *Settings {
	return &Settings{
		OutputFolder:          "downloads",
		Format:                "mp3",
		Quality:               "medium",
		MaxRetries:            5,
		RequestTimeoutSeconds: 60,
		FfmpegPath:            "ffmpeg",
		FfprobePath:           "ffprobe",
	}
}

// FromEnv builds settings from defaults overlaid with environment
// variables. A .env file in the working directory is loaded first if
// present; a missing file is not an error.
func FromEnv() *Settings {
	_ = godotenv.Load()

	s := DefaultSettings()
	if v := os.Getenv("DEFAULT_OUTPUT_FOLDER"); v != "" {
		s.OutputFolder = v
	}
	if v := os.Getenv("DEFAULT_FORMAT"); v != "" {
		s.Format = v
	}
	if v := os.Getenv("DEFAULT_QUALITY"); v != "" {
		s.Quality = v
	}
	if v, err := strconv.Atoi(os.Getenv("MAX_RETRIES")); err == nil && v > 0 {
		s.MaxRetries = v
	}
	if v, err := strconv.Atoi(os.Getenv("REQUEST_TIMEOUT")); err == nil && v > 0 {
		s.RequestTimeoutSeconds = v
	}
	if v := os.Getenv("FFMPEG_PATH"); v != "" {
		s.FfmpegPath = v
	}
	if v := os.Getenv("FFPROBE_PATH"); v != "" {
		s.FfprobePath = v
	}
	return s
}

// Load reads settings from a JSON file, falling back to FromEnv values
// for anything the file does not set. A missing file yields FromEnv
// settings without error.
func Load(path string) (*Settings, error) {
	settings := FromEnv()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a JSON file, creating parent directories.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RequestTimeout returns the HTTP timeout as a duration.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}
