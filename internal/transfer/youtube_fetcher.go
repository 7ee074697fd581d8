package transfer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/floostack/transcoder/ffmpeg"
	"github.com/kkdai/youtube/v2"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/petrhaj/youtube-grabber/internal/httpclient"
	"github.com/petrhaj/youtube-grabber/internal/model"
)

// intermediateSuffix marks the raw stream file before transcoding.
const intermediateSuffix = ".source"

// YouTubeFetcher is the default retrieval/transcode collaborator. It
// pulls the media stream with the YouTube client, saves it next to the
// final destination, and hands it to ffmpeg for conversion to the
// target format.
type YouTubeFetcher struct {
	client      youtube.Client
	fs          afero.Fs
	ffmpegPath  string
	ffprobePath string
}

// NewYouTubeFetcher creates a fetcher using the given ffmpeg/ffprobe
// binaries.
func NewYouTubeFetcher(fs afero.Fs, ffmpegPath, ffprobePath string) *YouTubeFetcher {
	return &YouTubeFetcher{
		fs:          fs,
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
}

// Fetch downloads and transcodes one item into cfg.DestDir.
//
// Progress is reported as EventDownloading while stream bytes arrive
// and one EventFinished once the transcoded file exists.
func (f *YouTubeFetcher) Fetch(ctx context.Context, item model.ItemStub, cfg Config, hook Hook) (string, error) {
	hook = safeHook(hook)

	video, err := f.client.GetVideoContext(ctx, item.SourceURL)
	if err != nil {
		return "", fmt.Errorf("get video info: %w", err)
	}

	format, err := selectFormat(video.Formats, cfg)
	if err != nil {
		return "", err
	}

	stream, size, err := f.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("get stream: %w", err)
	}
	defer stream.Close()

	outName := model.OutputFileName(item.Index, item.Title, cfg.Format)
	rawPath := filepath.Join(cfg.DestDir, outName+intermediateSuffix)
	outPath := filepath.Join(cfg.DestDir, outName)

	if err := f.saveStream(ctx, stream, rawPath, outName, size, hook); err != nil {
		f.fs.Remove(rawPath)
		return "", fmt.Errorf("save stream: %w", err)
	}

	if err := f.transcode(ctx, rawPath, outPath, cfg); err != nil {
		f.fs.Remove(rawPath)
		return "", fmt.Errorf("transcode: %w", err)
	}
	f.fs.Remove(rawPath)

	var outSize int64
	if info, err := f.fs.Stat(outPath); err == nil {
		outSize = info.Size()
	}
	hook(FinishedEvent(outPath, outSize))
	return outPath, nil
}

// saveStream copies the media stream to rawPath, emitting Downloading
// events as bytes arrive. A second goroutine closes the stream on
// context cancellation so the copy cannot block past an interrupt.
func (f *YouTubeFetcher) saveStream(ctx context.Context, stream io.ReadCloser, rawPath, displayName string, size int64, hook Hook) error {
	file, err := f.fs.Create(rawPath)
	if err != nil {
		return err
	}
	defer file.Close()

	pw := &httpclient.ProgressWriter{
		Writer: file,
		Total:  size,
		OnUpdate: func(written, total int64) {
			hook(DownloadingEvent(displayName))
		},
	}

	done := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		_, err := io.Copy(pw, stream)
		return err
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			stream.Close()
		case <-done:
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (f *YouTubeFetcher) transcode(ctx context.Context, inPath, outPath string, cfg Config) error {
	ffmpegCfg := &ffmpeg.Config{
		FfmpegBinPath:   f.ffmpegPath,
		FfprobeBinPath:  f.ffprobePath,
		ProgressEnabled: true,
	}

	progress, err := ffmpeg.
		New(ffmpegCfg).
		Input(inPath).
		Output(outPath).
		WithContext(&ctx).
		Start(ffmpegOptions(cfg))
	if err != nil {
		return err
	}

	// Drain until the command exits.
	for range progress {
	}
	return ctx.Err()
}

func ffmpegOptions(cfg Config) ffmpeg.Options {
	overwrite := true
	switch cfg.Format {
	case model.FormatMP4:
		outputFormat := "mp4"
		videoCodec := "libx264"
		audioCodec := "aac"
		return ffmpeg.Options{
			OutputFormat: &outputFormat,
			VideoCodec:   &videoCodec,
			AudioCodec:   &audioCodec,
			Overwrite:    &overwrite,
		}
	default:
		outputFormat := "mp3"
		audioCodec := "libmp3lame"
		bitrate := cfg.AudioBitrate
		skipVideo := true
		return ffmpeg.Options{
			OutputFormat: &outputFormat,
			AudioCodec:   &audioCodec,
			AudioBitrate: &bitrate,
			SkipVideo:    &skipVideo,
			Overwrite:    &overwrite,
		}
	}
}

// selectFormat picks the source stream: for audio output, the format
// with the highest audio bitrate; for video output, the muxed format
// with the largest height that stays within the quality ceiling,
// falling back to the smallest available when everything exceeds it.
func selectFormat(formats youtube.FormatList, cfg Config) (*youtube.Format, error) {
	candidates := formats.WithAudioChannels()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no downloadable formats with audio")
	}

	if cfg.Format == model.FormatMP4 {
		return selectVideoFormat(candidates, cfg.VideoHeight), nil
	}

	best := &candidates[0]
	for i := range candidates {
		if candidates[i].Bitrate > best.Bitrate {
			best = &candidates[i]
		}
	}
	return best, nil
}

func selectVideoFormat(candidates youtube.FormatList, maxHeight int) *youtube.Format {
	var best *youtube.Format
	bestHeight := -1
	for i := range candidates {
		h := qualityLabelHeight(candidates[i].QualityLabel)
		if h == 0 || h > maxHeight {
			continue
		}
		if h > bestHeight {
			best = &candidates[i]
			bestHeight = h
		}
	}
	if best != nil {
		return best
	}

	// Everything exceeds the ceiling; take the smallest labeled format.
	smallest := &candidates[0]
	smallestHeight := qualityLabelHeight(candidates[0].QualityLabel)
	for i := range candidates {
		h := qualityLabelHeight(candidates[i].QualityLabel)
		if h != 0 && (smallestHeight == 0 || h < smallestHeight) {
			smallest = &candidates[i]
			smallestHeight = h
		}
	}
	return smallest
}

// qualityLabelHeight parses the leading digits of labels like "720p"
// or "1080p60"; 0 means the label carries no resolution.
func qualityLabelHeight(label string) int {
	end := 0
	for end < len(label) && label[end] >= '0' && label[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	h, err := strconv.Atoi(label[:end])
	if err != nil || !strings.Contains(label, "p") {
		return 0
	}
	return h
}
