package audio

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2"
)

// TagMeta carries the metadata written into a downloaded MP3.
//
// Title, Artist and Album are written when non-empty. The track
// position frame is written only when both TrackIndex and TotalTracks
// are set; a bare index without a total is not written. Artwork is
// embedded only when bytes are present.
type TagMeta struct {
	Title  string
	Artist string
	Album  string

	// TrackIndex is the 1-based position within the album, 0 if unknown.
	TrackIndex int

	// TotalTracks is the album size, 0 if unknown.
	TotalTracks int

	// Artwork is JPEG cover art to embed, nil to skip.
	Artwork []byte
}

// Tagger writes ID3 tags into MP3 files.
//
// Tagging is best-effort post-processing: a tagging failure is reported
// to the caller but never changes the download outcome of the item.
type Tagger struct{}

// NewTagger creates a Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// WriteTags writes meta into the file at path.
//
// If the file has no existing ID3 container a new v2.3 tag is
// initialized. Returns an error if the file is missing, unreadable, or
// the tag cannot be saved.
func (t *Tagger) WriteTags(path string, meta TagMeta) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found for tagging: %w", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags: %w", err)
	}
	defer tag.Close()

	if tag.Count() == 0 {
		tag.SetVersion(3)
	}

	if meta.Title != "" {
		tag.SetTitle(meta.Title)
	}
	if meta.Artist != "" {
		tag.SetArtist(meta.Artist)
	}
	if meta.Album != "" {
		tag.SetAlbum(meta.Album)
	}

	if v := trackFrameValue(meta.TrackIndex, meta.TotalTracks); v != "" {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, v)
	}

	if meta.Artwork != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     meta.Artwork,
		})
	}

	return tag.Save()
}

// trackFrameValue formats the TRCK frame content, or "" when the track
// position is incomplete and must not be written.
func trackFrameValue(index, total int) string {
	if index <= 0 || total <= 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", index, total)
}
