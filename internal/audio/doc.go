// Package audio writes ID3 metadata into downloaded MP3 files and
// prepares cover art for embedding.
//
// Use the Tagger after a successful download:
//
//	tagger := audio.NewTagger()
//	err := tagger.WriteTags(path, audio.TagMeta{
//	    Title:       "Song",
//	    Artist:      "Uploader",
//	    Album:       "Playlist Name",
//	    TrackIndex:  3,
//	    TotalTracks: 12,
//	    Artwork:     jpegBytes,
//	})
//
// The track position frame is only written when both the index and the
// total are known. Cover art should be passed through PrepareArtwork
// first so oversized thumbnails are scaled down and re-encoded as JPEG.
package audio
