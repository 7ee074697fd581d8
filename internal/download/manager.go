package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/petrhaj/youtube-grabber/internal/audio"
	"github.com/petrhaj/youtube-grabber/internal/config"
	"github.com/petrhaj/youtube-grabber/internal/fsutil"
	"github.com/petrhaj/youtube-grabber/internal/httpclient"
	"github.com/petrhaj/youtube-grabber/internal/locator"
	"github.com/petrhaj/youtube-grabber/internal/model"
	"github.com/petrhaj/youtube-grabber/internal/transfer"
	"github.com/petrhaj/youtube-grabber/internal/youtube"
)

// errInvalidEntry marks a playlist entry that resolved without a title.
var errInvalidEntry = errors.New("invalid or deleted entry")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a progress update for the display layer.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// MetadataResolver is the metadata-only query collaborator.
type MetadataResolver interface {
	Resolve(ctx context.Context, rawURL string, kind locator.Kind) (*model.ResolvedMetadata, error)
}

// ItemTransferrer acquires a single item and reports its outcome.
type ItemTransferrer interface {
	Transfer(ctx context.Context, item model.ItemStub, prefs model.Preferences, hook transfer.Hook) model.Outcome
}

// TagWriter writes metadata into a produced file.
type TagWriter interface {
	WriteTags(path string, meta audio.TagMeta) error
}

// ArtworkFetcher retrieves cover art bytes.
type ArtworkFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Manager coordinates one acquisition run: it resolves the locator's
// metadata, then sequences every item through the existing-output
// guard, the transfer driver and the tagging pipeline, accumulating a
// summary. One item's failure never stops the remaining items.
type Manager struct {
	settings *config.Settings
	prefs    model.Preferences

	resolver MetadataResolver
	driver   ItemTransferrer
	guard    *fsutil.Guard
	tagger   TagWriter
	art      ArtworkFetcher
	fs       afero.Fs

	onProgress func(ProgressEvent)
	onItemDone func(done, total int)

	summary  model.Summary
	failures error

	lastDownloading string
}

// NewManager creates a Manager wired to the real collaborators:
// YouTube metadata resolution, stream retrieval with ffmpeg
// transcoding, and ID3 tagging.
func NewManager(settings *config.Settings, prefs model.Preferences, onProgress func(ProgressEvent)) *Manager {
	fs := afero.NewOsFs()
	fetcher := transfer.NewYouTubeFetcher(fs, settings.FfmpegPath, settings.FfprobePath)

	return &Manager{
		settings:   settings,
		prefs:      prefs,
		resolver:   youtube.NewResolver(),
		driver:     transfer.NewDriver(fetcher, fs, settings.MaxRetries),
		guard:      fsutil.NewGuard(fs),
		tagger:     audio.NewTagger(),
		art:        httpclient.NewClient(settings.RequestTimeout()),
		fs:         fs,
		onProgress: onProgress,
	}
}

// OnItemDone registers a callback invoked after every item completes,
// with the number of items accounted for so far and the total. Used by
// the display layer to advance a batch progress bar.
func (m *Manager) OnItemDone(fn func(done, total int)) {
	m.onItemDone = fn
}

// Failures returns the collected per-item failure reasons, nil when
// every item downloaded or skipped cleanly.
func (m *Manager) Failures() error {
	return m.failures
}

// Run executes one acquisition batch for the given locator.
//
// Run-level failures (invalid locator, unresolvable metadata) abort
// before any item is processed and are returned as errors. Per-item
// failures are converted to counted outcomes; the returned summary
// always accounts for every item of the resource.
func (m *Manager) Run(ctx context.Context, rawURL string) (model.Summary, error) {
	kind, err := locator.Classify(rawURL)
	if err != nil {
		return m.summary, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Resolving %s metadata", kind), Level: LevelVerbose})
	meta, err := m.resolver.Resolve(ctx, rawURL, kind)
	if err != nil {
		return m.summary, err
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("%s by %s (%d item(s))", meta.Title, meta.Owner, meta.TotalCount),
		Level:   LevelInfo,
	})

	destDir := m.destinationDir(meta, kind)
	if err := fsutil.EnsureDir(m.fs, destDir); err != nil {
		return m.summary, fmt.Errorf("create destination %s: %w", destDir, err)
	}

	artwork := m.fetchArtwork(ctx, meta)

	albumName := "Single Track"
	totalTracks := 0
	if kind == locator.KindCollection {
		albumName = meta.Title
		totalTracks = meta.TotalCount
	}

	itemPrefs := m.prefs
	itemPrefs.DestinationRoot = destDir

	for _, item := range meta.Items {
		if err := ctx.Err(); err != nil {
			return m.summary, err
		}

		outcome := m.processItem(ctx, item, itemPrefs, albumName, totalTracks, artwork)
		m.summary.Record(outcome)
		if outcome.Status == model.OutcomeFailed {
			name := item.Title
			if name == "" {
				name = fmt.Sprintf("entry %d", item.Index)
			}
			m.failures = multierror.Append(m.failures, fmt.Errorf("%s: %w", name, outcome.Err))
		}
		if m.onItemDone != nil {
			m.onItemDone(m.summary.Total(), meta.TotalCount)
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Summary: %d downloaded, %d skipped, %d errors",
			m.summary.Downloaded, m.summary.Skipped, m.summary.Errors),
		Level: LevelSuccess,
	})
	return m.summary, nil
}

// processItem runs one item through guard, transfer and tagging. Any
// panic is converted to a Failed outcome so the batch keeps going.
func (m *Manager) processItem(ctx context.Context, item model.ItemStub, prefs model.Preferences, albumName string, totalTracks int, artwork []byte) (outcome model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = model.Failed(fmt.Errorf("item processing panicked: %v", r))
		}
	}()

	if !item.Valid() {
		m.progress(ProgressEvent{Message: "Skipping invalid or deleted entry", Level: LevelWarning})
		return model.Failed(errInvalidEntry)
	}

	if path, ok := m.guard.Exists(prefs.DestinationRoot, item.Index, item.Title, prefs.Format); ok {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Skipping (already exists): %s", filepath.Base(path)),
			Level:   LevelInfo,
		})
		return model.Skipped()
	}

	outcome = m.driver.Transfer(ctx, item, prefs, m.transferHook)

	switch outcome.Status {
	case model.OutcomeDownloaded:
		if outcome.Path == "" {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Could not find output file for tagging: %s", item.Title),
				Level:   LevelWarning,
			})
			break
		}
		if prefs.Format == model.FormatMP3 {
			m.tagItem(outcome.Path, item, albumName, totalTracks, artwork)
		}
	case model.OutcomeFailed:
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Error downloading %s: %v", item.Title, outcome.Err),
			Level:   LevelError,
		})
	}
	return outcome
}

// tagItem writes ID3 metadata; failures are warnings only and never
// alter the already-finalized outcome.
func (m *Manager) tagItem(path string, item model.ItemStub, albumName string, totalTracks int, artwork []byte) {
	meta := audio.TagMeta{
		Title:       item.Title,
		Artist:      item.Owner,
		Album:       albumName,
		TrackIndex:  item.Index,
		TotalTracks: totalTracks,
		Artwork:     artwork,
	}
	if err := m.tagger.WriteTags(path, meta); err != nil {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Could not tag %s: %v", filepath.Base(path), err),
			Level:   LevelWarning,
		})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Tagged: %s", filepath.Base(path)), Level: LevelVerbose})
}

// fetchArtwork downloads and prepares the cover art once per batch.
// Failure only disables art embedding, never the run.
func (m *Manager) fetchArtwork(ctx context.Context, meta *model.ResolvedMetadata) []byte {
	if m.prefs.Format != model.FormatMP3 || meta.ThumbnailURL == "" {
		return nil
	}

	raw, err := m.art.Get(ctx, meta.ThumbnailURL)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to download thumbnail: %v", err), Level: LevelWarning})
		return nil
	}

	prepared, err := audio.PrepareArtwork(raw)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Unusable thumbnail image: %v", err), Level: LevelWarning})
		return nil
	}
	return prepared
}

// destinationDir mirrors the documented default layout: an explicit
// destination is used as-is; the default root gains a per-collection
// subfolder, or "Single Tracks"/"Videos" for single items.
func (m *Manager) destinationDir(meta *model.ResolvedMetadata, kind locator.Kind) string {
	root := m.prefs.DestinationRoot
	if root != "" && root != m.settings.OutputFolder {
		return filepath.Clean(root)
	}
	if root == "" {
		root = m.settings.OutputFolder
	}

	switch {
	case kind == locator.KindCollection:
		return filepath.Join(root, model.SanitizeTitle(meta.Title))
	case m.prefs.Format == model.FormatMP4:
		return filepath.Join(root, "Videos")
	default:
		return filepath.Join(root, "Single Tracks")
	}
}

// transferHook maps transfer events onto progress events. Repeated
// Downloading updates for the same file are collapsed to one line.
func (m *Manager) transferHook(e transfer.Event) {
	switch e.Kind {
	case transfer.EventDownloading:
		if e.Name == m.lastDownloading {
			return
		}
		m.lastDownloading = e.Name
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading: %s", e.Name), Level: LevelVerbose})
	case transfer.EventFinished:
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Finished: %s (%.1f MB)", filepath.Base(e.Path), float64(e.Size)/1024/1024),
			Level:   LevelVerbose,
		})
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
