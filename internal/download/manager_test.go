package download

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/petrhaj/youtube-grabber/internal/audio"
	"github.com/petrhaj/youtube-grabber/internal/config"
	"github.com/petrhaj/youtube-grabber/internal/fsutil"
	"github.com/petrhaj/youtube-grabber/internal/locator"
	"github.com/petrhaj/youtube-grabber/internal/model"
	"github.com/petrhaj/youtube-grabber/internal/transfer"
)

type fakeResolver struct {
	meta *model.ResolvedMetadata
	err  error
}

func (r *fakeResolver) Resolve(ctx context.Context, rawURL string, kind locator.Kind) (*model.ResolvedMetadata, error) {
	return r.meta, r.err
}

type fakeDriver struct {
	calls    []model.ItemStub
	outcomes map[int]model.Outcome // keyed by item index
	panicOn  int
}

func (d *fakeDriver) Transfer(ctx context.Context, item model.ItemStub, prefs model.Preferences, hook transfer.Hook) model.Outcome {
	d.calls = append(d.calls, item)
	if d.panicOn != 0 && item.Index == d.panicOn {
		panic("driver exploded")
	}
	if o, ok := d.outcomes[item.Index]; ok {
		return o
	}
	return model.Downloaded(filepath.Join(prefs.DestinationRoot, model.OutputFileName(item.Index, item.Title, prefs.Format)))
}

type fakeTagger struct {
	calls []audio.TagMeta
	err   error
}

func (t *fakeTagger) WriteTags(path string, meta audio.TagMeta) error {
	t.calls = append(t.calls, meta)
	return t.err
}

type fakeArt struct {
	data []byte
	err  error
}

func (a *fakeArt) Get(ctx context.Context, url string) ([]byte, error) {
	return a.data, a.err
}

func playlistMeta(titles ...string) *model.ResolvedMetadata {
	meta := &model.ResolvedMetadata{
		Title:      "Test Album",
		Owner:      "Test Channel",
		TotalCount: len(titles),
	}
	for i, title := range titles {
		meta.Items = append(meta.Items, model.ItemStub{
			Title:     title,
			Owner:     "Test Channel",
			SourceURL: "https://www.youtube.com/watch?v=x",
			Index:     i + 1,
		})
	}
	return meta
}

func newTestManager(fs afero.Fs, resolver MetadataResolver, driver ItemTransferrer, tagger TagWriter) *Manager {
	return &Manager{
		settings: config.DefaultSettings(),
		prefs: model.Preferences{
			Format:          model.FormatMP3,
			Quality:         model.QualityMedium,
			DestinationRoot: "downloads",
		},
		resolver: resolver,
		driver:   driver,
		guard:    fsutil.NewGuard(fs),
		tagger:   tagger,
		art:      &fakeArt{},
		fs:       fs,
	}
}

const playlistURL = "https://www.youtube.com/playlist?list=PLtest"

func TestRun_InvalidLocator(t *testing.T) {
	driver := &fakeDriver{}
	m := newTestManager(afero.NewMemMapFs(), &fakeResolver{}, driver, &fakeTagger{})

	_, err := m.Run(context.Background(), "https://example.com/watch?v=x")
	if !errors.Is(err, locator.ErrInvalidLocator) {
		t.Fatalf("err = %v, want ErrInvalidLocator", err)
	}
	if len(driver.calls) != 0 {
		t.Errorf("items were processed despite an invalid locator")
	}
}

func TestRun_MetadataUnavailable(t *testing.T) {
	resolveErr := errors.New("playlist is gone")
	driver := &fakeDriver{}
	m := newTestManager(afero.NewMemMapFs(), &fakeResolver{err: resolveErr}, driver, &fakeTagger{})

	_, err := m.Run(context.Background(), playlistURL)
	if !errors.Is(err, resolveErr) {
		t.Fatalf("err = %v, want resolver error", err)
	}
	if len(driver.calls) != 0 {
		t.Errorf("iteration started despite failed resolution")
	}
}

func TestRun_InvalidEntryCountedAsError(t *testing.T) {
	meta := playlistMeta("First", "", "Third")
	driver := &fakeDriver{}
	m := newTestManager(afero.NewMemMapFs(), &fakeResolver{meta: meta}, driver, &fakeTagger{})

	summary, err := m.Run(context.Background(), playlistURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Downloaded != 2 || summary.Errors != 1 || summary.Skipped != 0 {
		t.Errorf("summary = %+v, want 2 downloaded / 1 error / 0 skipped", summary)
	}
	if len(driver.calls) != 2 {
		t.Errorf("driver called %d times, want 2 (invalid entry must not be transferred)", len(driver.calls))
	}
	if m.Failures() == nil {
		t.Error("invalid entry should be recorded in failures")
	}
}

func TestRun_ExistingFileSkippedWithoutTransfer(t *testing.T) {
	fs := afero.NewMemMapFs()
	meta := playlistMeta("First", "Second")
	driver := &fakeDriver{}
	m := newTestManager(fs, &fakeResolver{meta: meta}, driver, &fakeTagger{})

	destDir := m.destinationDir(meta, locator.KindCollection)
	existing := filepath.Join(destDir, model.OutputFileName(1, "First", model.FormatMP3))
	if err := afero.WriteFile(fs, existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	summary, err := m.Run(context.Background(), playlistURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Skipped != 1 || summary.Downloaded != 1 {
		t.Errorf("summary = %+v, want 1 skipped / 1 downloaded", summary)
	}
	if len(driver.calls) != 1 || driver.calls[0].Index != 2 {
		t.Errorf("driver calls = %+v, want only entry 2", driver.calls)
	}
}

func TestRun_SecondRunSkipsEverything(t *testing.T) {
	fs := afero.NewMemMapFs()
	meta := playlistMeta("First", "Second", "Third")
	driver := &fakeDriver{}
	m := newTestManager(fs, &fakeResolver{meta: meta}, driver, &fakeTagger{})

	destDir := m.destinationDir(meta, locator.KindCollection)
	for _, item := range meta.Items {
		path := filepath.Join(destDir, model.OutputFileName(item.Index, item.Title, model.FormatMP3))
		if err := afero.WriteFile(fs, path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := m.Run(context.Background(), playlistURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Skipped != 3 || summary.Downloaded != 0 || summary.Errors != 0 {
		t.Errorf("second run summary = %+v, want all skipped", summary)
	}
	if len(driver.calls) != 0 {
		t.Errorf("driver was called on the second run")
	}
}

func TestRun_SummaryInvariant(t *testing.T) {
	meta := playlistMeta("A", "B", "C", "D")
	driver := &fakeDriver{outcomes: map[int]model.Outcome{
		2: model.Failed(errors.New("network")),
		4: model.Downloaded(""),
	}}
	m := newTestManager(afero.NewMemMapFs(), &fakeResolver{meta: meta}, driver, &fakeTagger{})

	summary, err := m.Run(context.Background(), playlistURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := summary.Downloaded + summary.Skipped + summary.Errors; got != meta.TotalCount {
		t.Errorf("outcome counts sum to %d, want %d", got, meta.TotalCount)
	}
	// The unlocatable item (entry 4) still counts as downloaded.
	if summary.Downloaded != 3 || summary.Errors != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestRun_DriverPanicIsolated(t *testing.T) {
	meta := playlistMeta("A", "B", "C")
	driver := &fakeDriver{panicOn: 2}
	m := newTestManager(afero.NewMemMapFs(), &fakeResolver{meta: meta}, driver, &fakeTagger{})

	summary, err := m.Run(context.Background(), playlistURL)
	if err != nil {
		t.Fatalf("panic escaped the item loop: %v", err)
	}

	if summary.Downloaded != 2 || summary.Errors != 1 {
		t.Errorf("summary = %+v, want panicking item counted as error", summary)
	}
	if len(driver.calls) != 3 {
		t.Errorf("iteration stopped after the panic: %d calls", len(driver.calls))
	}
}

func TestRun_TaggingFailureKeepsOutcome(t *testing.T) {
	meta := playlistMeta("Only")
	driver := &fakeDriver{}
	tagger := &fakeTagger{err: errors.New("corrupt container")}
	m := newTestManager(afero.NewMemMapFs(), &fakeResolver{meta: meta}, driver, tagger)

	summary, err := m.Run(context.Background(), playlistURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Downloaded != 1 || summary.Errors != 0 {
		t.Errorf("tagging failure changed the outcome: %+v", summary)
	}
	if len(tagger.calls) != 1 {
		t.Errorf("tagger called %d times, want 1", len(tagger.calls))
	}
}

func TestRun_CollectionTagMetadata(t *testing.T) {
	meta := playlistMeta("First", "Second")
	driver := &fakeDriver{}
	tagger := &fakeTagger{}
	m := newTestManager(afero.NewMemMapFs(), &fakeResolver{meta: meta}, driver, tagger)

	if _, err := m.Run(context.Background(), playlistURL); err != nil {
		t.Fatal(err)
	}

	if len(tagger.calls) != 2 {
		t.Fatalf("tagger called %d times", len(tagger.calls))
	}
	first := tagger.calls[0]
	if first.Album != "Test Album" || first.TrackIndex != 1 || first.TotalTracks != 2 {
		t.Errorf("collection tag meta = %+v", first)
	}
}

func TestRun_SingleItemTagMetadata(t *testing.T) {
	meta := &model.ResolvedMetadata{
		Title:      "Lone Song",
		Owner:      "Someone",
		Items:      []model.ItemStub{{Title: "Lone Song", Owner: "Someone", SourceURL: "https://youtu.be/x"}},
		TotalCount: 1,
	}
	driver := &fakeDriver{}
	tagger := &fakeTagger{}
	m := newTestManager(afero.NewMemMapFs(), &fakeResolver{meta: meta}, driver, tagger)

	if _, err := m.Run(context.Background(), "https://youtu.be/x"); err != nil {
		t.Fatal(err)
	}

	if len(tagger.calls) != 1 {
		t.Fatalf("tagger called %d times", len(tagger.calls))
	}
	got := tagger.calls[0]
	if got.Album != "Single Track" {
		t.Errorf("single item album = %q", got.Album)
	}
	if got.TrackIndex != 0 || got.TotalTracks != 0 {
		t.Errorf("single item must not carry a track position: %+v", got)
	}
}

func TestRun_CancelledBetweenItems(t *testing.T) {
	meta := playlistMeta("A", "B", "C")
	ctx, cancel := context.WithCancel(context.Background())

	driver := &fakeDriver{}
	m := newTestManager(afero.NewMemMapFs(), &fakeResolver{meta: meta}, driver, &fakeTagger{})
	m.OnItemDone(func(done, total int) {
		if done == 1 {
			cancel()
		}
	})

	_, err := m.Run(ctx, playlistURL)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(driver.calls) != 1 {
		t.Errorf("driver called %d times after cancellation, want 1", len(driver.calls))
	}
}

func TestDestinationDir(t *testing.T) {
	meta := playlistMeta("x")
	m := newTestManager(afero.NewMemMapFs(), &fakeResolver{meta: meta}, &fakeDriver{}, &fakeTagger{})

	if got := m.destinationDir(meta, locator.KindCollection); got != filepath.Join("downloads", "Test Album") {
		t.Errorf("collection dir = %q", got)
	}
	if got := m.destinationDir(meta, locator.KindSingle); got != filepath.Join("downloads", "Single Tracks") {
		t.Errorf("single audio dir = %q", got)
	}

	m.prefs.Format = model.FormatMP4
	if got := m.destinationDir(meta, locator.KindSingle); got != filepath.Join("downloads", "Videos") {
		t.Errorf("single video dir = %q", got)
	}

	m.prefs.DestinationRoot = "/custom/place"
	if got := m.destinationDir(meta, locator.KindCollection); got != filepath.Clean("/custom/place") {
		t.Errorf("explicit dir = %q", got)
	}
}
