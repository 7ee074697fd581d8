// Package transfer drives the retrieval and transcoding of one item at
// a time: it maps user preferences onto collaborator configuration,
// surfaces progress as discrete events, and resolves the produced file
// on disk after the collaborator reports completion.
package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/petrhaj/youtube-grabber/internal/fsutil"
	"github.com/petrhaj/youtube-grabber/internal/model"
)

// Config is the collaborator configuration for one item: the target
// format, its quality ceiling mapped from the user's tier, and the
// destination directory.
type Config struct {
	Format       model.Format
	AudioBitrate string
	VideoHeight  int
	DestDir      string
}

// Fetcher is the external retrieval/transcode collaborator. Fetch
// acquires one item into cfg.DestDir, reporting progress through hook,
// and returns the path it believes it produced.
type Fetcher interface {
	Fetch(ctx context.Context, item model.ItemStub, cfg Config, hook Hook) (string, error)
}

// Driver runs one item through the Fetcher with a bounded retry loop
// and resolves the produced file afterwards.
type Driver struct {
	fetcher Fetcher
	fs      afero.Fs
	retries int

	// retryCooldown is exposed for tests; production uses the default.
	retryCooldown time.Duration
}

// NewDriver creates a Driver. retries bounds fetch attempts per item.
func NewDriver(fetcher Fetcher, fs afero.Fs, retries int) *Driver {
	if retries < 1 {
		retries = 1
	}
	return &Driver{
		fetcher:       fetcher,
		fs:            fs,
		retries:       retries,
		retryCooldown: time.Second,
	}
}

// Transfer acquires one item according to prefs.
//
// The returned outcome is final: Downloaded with the resolved on-disk
// path (or an empty path when the produced file could not be located by
// the naming heuristic, in which case tagging is skipped but the item
// still counts as acquired), or Failed with the underlying error.
func (d *Driver) Transfer(ctx context.Context, item model.ItemStub, prefs model.Preferences, hook Hook) model.Outcome {
	cfg := Config{
		Format:       prefs.Format,
		AudioBitrate: prefs.Quality.AudioBitrate(),
		VideoHeight:  prefs.Quality.VideoHeight(),
		DestDir:      prefs.DestinationRoot,
	}
	hook = safeHook(hook)

	var lastErr error
	for attempt := 0; attempt < d.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return model.Failed(err)
		}
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return model.Failed(ctx.Err())
			case <-time.After(d.retryCooldown):
			}
		}

		if _, err := d.fetcher.Fetch(ctx, item, cfg, hook); err != nil {
			lastErr = err
			continue
		}

		path, err := fsutil.ResolveDownloaded(d.fs, cfg.DestDir, item.Index, item.Title, cfg.Format)
		if err != nil {
			// Payload acquisition completed; an unlocatable file only
			// skips tagging, it does not fail the item.
			return model.Downloaded("")
		}
		return model.Downloaded(path)
	}

	return model.Failed(fmt.Errorf("transfer failed after %d attempts: %w", d.retries, lastErr))
}
