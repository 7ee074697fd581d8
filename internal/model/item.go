package model

// ItemStub is one entry of a resolved resource: enough metadata to
// download and tag the item, without the payload itself.
//
// For a playlist, Index is the 1-based position within the playlist and
// is used as the filename prefix. For a single video there is exactly
// one synthetic stub with Index 0, which yields a filename without a
// position prefix.
type ItemStub struct {
	// Title is the item title. An empty title marks an entry that could
	// not be resolved (deleted or private video); such entries are
	// counted as errors by the batch instead of being transferred.
	Title string

	// Owner is the uploader/channel name, used as the artist tag.
	Owner string

	// SourceURL is the canonical watch URL for the item.
	SourceURL string

	// Index is the 1-based playlist position, or 0 for a single item.
	Index int
}

// Valid reports whether the entry resolved to something downloadable.
func (s ItemStub) Valid() bool {
	return s.Title != ""
}

// ResolvedMetadata is the result of the metadata-only resolution of a
// locator. It is built once and never mutated.
type ResolvedMetadata struct {
	// Title is the playlist title, or the video title for a single item.
	Title string

	// Owner is the playlist/video uploader.
	Owner string

	// ThumbnailURL points at the cover art image, empty if unavailable.
	ThumbnailURL string

	// Items are the entries to acquire, in source order. A single
	// resource has exactly one synthetic entry.
	Items []ItemStub

	// TotalCount is len(Items), kept explicit for summary reporting.
	TotalCount int
}
