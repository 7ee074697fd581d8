package model

import "fmt"

// Format is the target output container for acquired items.
type Format int

const (
	// FormatMP3 extracts the audio stream and transcodes it to MP3.
	FormatMP3 Format = iota

	// FormatMP4 keeps the video stream and remuxes/transcodes it to MP4.
	FormatMP4
)

// ParseFormat converts a user-supplied format name ("mp3" or "mp4").
func ParseFormat(s string) (Format, error) {
	switch s {
	case "mp3":
		return FormatMP3, nil
	case "mp4":
		return FormatMP4, nil
	default:
		return FormatMP3, fmt.Errorf("unknown format %q (want mp3 or mp4)", s)
	}
}

// Ext returns the file extension for the format, without a leading dot.
func (f Format) Ext() string {
	if f == FormatMP4 {
		return "mp4"
	}
	return "mp3"
}

func (f Format) String() string {
	return f.Ext()
}

// Quality is the user-facing quality tier. The tier maps to a
// format-specific ceiling: an MP3 bitrate or an MP4 resolution.
type Quality int

const (
	QualityLow Quality = iota
	QualityMedium
	QualityHigh
)

// ParseQuality converts a user-supplied quality name.
func ParseQuality(s string) (Quality, error) {
	switch s {
	case "low":
		return QualityLow, nil
	case "medium":
		return QualityMedium, nil
	case "high":
		return QualityHigh, nil
	default:
		return QualityMedium, fmt.Errorf("unknown quality %q (want low, medium or high)", s)
	}
}

func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityHigh:
		return "high"
	default:
		return "medium"
	}
}

// AudioBitrate returns the MP3 bitrate for the tier in ffmpeg notation.
//
// The mapping is fixed: low=128 kbps, medium=192 kbps, high=320 kbps.
func (q Quality) AudioBitrate() string {
	switch q {
	case QualityLow:
		return "128k"
	case QualityHigh:
		return "320k"
	default:
		return "192k"
	}
}

// VideoHeight returns the MP4 resolution ceiling in pixels for the tier.
//
// The mapping is fixed: low=480p, medium=720p, high=1080p.
func (q Quality) VideoHeight() int {
	switch q {
	case QualityLow:
		return 480
	case QualityHigh:
		return 1080
	default:
		return 720
	}
}

// Display returns the human-readable quality for the given format,
// e.g. "192 kbps" for MP3 or "720p" for MP4.
func (q Quality) Display(f Format) string {
	if f == FormatMP4 {
		return fmt.Sprintf("%dp", q.VideoHeight())
	}
	switch q {
	case QualityLow:
		return "128 kbps"
	case QualityHigh:
		return "320 kbps"
	default:
		return "192 kbps"
	}
}

// Preferences holds the per-run acquisition options. It is built once
// from defaults and command line arguments and never mutated afterwards.
type Preferences struct {
	// Format is the target output format.
	Format Format

	// Quality is the quality tier, mapped via Format to a bitrate or
	// resolution ceiling.
	Quality Quality

	// DestinationRoot is the directory downloads are written into.
	DestinationRoot string
}
