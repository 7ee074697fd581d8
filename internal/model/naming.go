package model

import (
	"fmt"
	"strings"
	"unicode"
)

// SanitizeTitle strips every character that is not a letter, digit,
// space, dot, dash or underscore, then trims trailing whitespace.
//
// A title that sanitizes down to nothing falls back to "Unknown" so the
// naming convention never produces an empty stem.
//
// Example:
//
//	SanitizeTitle("Song: Part 1/2") // "Song Part 12"
//	SanitizeTitle("???")            // "Unknown"
func SanitizeTitle(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(" .-_", r) {
			b.WriteRune(r)
		}
	}
	out := strings.TrimRight(b.String(), " \t")
	if out == "" {
		return "Unknown"
	}
	return out
}

// OutputFileName is the deterministic naming convention for produced
// files: a zero-padded two-digit position prefix followed by " - " and
// the sanitized title when the item has a playlist index, or just the
// sanitized title otherwise.
//
// Example:
//
//	OutputFileName(3, "Intro", FormatMP3) // "03 - Intro.mp3"
//	OutputFileName(0, "Intro", FormatMP4) // "Intro.mp4"
func OutputFileName(index int, title string, f Format) string {
	if index > 0 {
		return fmt.Sprintf("%02d - %s.%s", index, SanitizeTitle(title), f.Ext())
	}
	return fmt.Sprintf("%s.%s", SanitizeTitle(title), f.Ext())
}
