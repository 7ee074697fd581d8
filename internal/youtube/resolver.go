// Package youtube resolves locator metadata against YouTube without
// transferring any payload: titles, uploader names, cover art locators
// and, for playlists, the ordered list of entries.
package youtube

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkdai/youtube/v2"

	"github.com/petrhaj/youtube-grabber/internal/locator"
	"github.com/petrhaj/youtube-grabber/internal/model"
)

// ErrMetadataUnavailable is returned when the metadata query fails or
// the resource is empty/deleted. It is fatal to a run: there is nothing
// to iterate over.
var ErrMetadataUnavailable = errors.New("metadata unavailable")

// Resolver performs metadata-only queries.
type Resolver struct {
	client youtube.Client
}

// NewResolver creates a Resolver with a default YouTube client.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve queries metadata for a validated locator.
//
// For a playlist every entry becomes an ItemStub in source order with a
// 1-based index. Entries whose title could not be resolved (deleted or
// private videos) are kept as invalid stubs so the batch can count them
// as errors instead of silently dropping them. For a single video the
// result carries exactly one synthetic stub with index 0.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, kind locator.Kind) (*model.ResolvedMetadata, error) {
	if kind == locator.KindCollection {
		return r.resolvePlaylist(ctx, rawURL)
	}
	return r.resolveVideo(ctx, rawURL)
}

func (r *Resolver) resolveVideo(ctx context.Context, rawURL string) (*model.ResolvedMetadata, error) {
	video, err := r.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}
	if video.Title == "" {
		return nil, fmt.Errorf("%w: video has no title", ErrMetadataUnavailable)
	}

	stub := model.ItemStub{
		Title:     video.Title,
		Owner:     video.Author,
		SourceURL: watchURL(video.ID),
	}
	return &model.ResolvedMetadata{
		Title:        video.Title,
		Owner:        video.Author,
		ThumbnailURL: largestThumbnail(video.Thumbnails),
		Items:        []model.ItemStub{stub},
		TotalCount:   1,
	}, nil
}

func (r *Resolver) resolvePlaylist(ctx context.Context, rawURL string) (*model.ResolvedMetadata, error) {
	playlist, err := r.client.GetPlaylistContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}
	if len(playlist.Videos) == 0 {
		return nil, fmt.Errorf("%w: playlist is empty", ErrMetadataUnavailable)
	}

	meta := &model.ResolvedMetadata{
		Title:      playlist.Title,
		Owner:      playlist.Author,
		Items:      entriesToStubs(playlist.Videos),
		TotalCount: len(playlist.Videos),
	}
	if meta.Title == "" {
		meta.Title = "Unknown Album"
	}

	// Playlists carry no artwork of their own; use the first resolvable
	// entry's largest thumbnail as the collection cover.
	for _, entry := range playlist.Videos {
		if url := largestThumbnail(entry.Thumbnails); url != "" {
			meta.ThumbnailURL = url
			break
		}
	}
	return meta, nil
}

func entriesToStubs(entries []*youtube.PlaylistEntry) []model.ItemStub {
	stubs := make([]model.ItemStub, 0, len(entries))
	for i, entry := range entries {
		stub := model.ItemStub{Index: i + 1}
		if entry != nil {
			stub.Title = entry.Title
			stub.Owner = entry.Author
			stub.SourceURL = watchURL(entry.ID)
		}
		stubs = append(stubs, stub)
	}
	return stubs
}

func watchURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}

func largestThumbnail(thumbnails youtube.Thumbnails) string {
	var best string
	var bestArea uint
	for _, t := range thumbnails {
		area := t.Width * t.Height
		if best == "" || area > bestArea {
			best = t.URL
			bestArea = area
		}
	}
	return best
}
