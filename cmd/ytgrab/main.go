package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/petrhaj/youtube-grabber/internal/config"
	"github.com/petrhaj/youtube-grabber/internal/download"
	"github.com/petrhaj/youtube-grabber/internal/locator"
	"github.com/petrhaj/youtube-grabber/internal/model"
	"github.com/petrhaj/youtube-grabber/internal/youtube"
)

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{
		Name:      "ytgrab",
		Usage:     "download YouTube videos and playlists as MP3 or MP4",
		ArgsUsage: "URL [mp3|mp4] [low|medium|high] [DIR]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "load settings from `FILE`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "show per-file progress messages",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "resolve and list items without downloading",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				cli.ShowAppHelp(c)
				return cli.Exit("missing URL argument", 1)
			}
			return run(ctx, c)
		},
		HideHelpCommand: true,
	}

	if err := app.Run(os.Args); err != nil {
		if ctx.Err() != nil {
			logger.Warn("Cancelled")
			os.Exit(130)
		}
		if exitErr, ok := err.(cli.ExitCoder); ok {
			fmt.Fprintln(os.Stderr, exitErr)
			os.Exit(exitErr.ExitCode())
		}
		logger.Fatal(err.Error())
	}
}

// run executes one batch for the positional arguments. The argument
// order follows the classic invocation: URL, then optionally format,
// quality and destination directory.
func run(ctx context.Context, c *cli.Context) error {
	logger := zap.S()
	verbose := c.Bool("verbose")

	settings, err := loadSettings(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("load config: %v", err), 1)
	}

	prefs, err := buildPreferences(c.Args().Slice(), settings)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	rawURL := c.Args().First()
	if c.Bool("dry-run") {
		return dryRun(ctx, rawURL)
	}

	var bar *progressbar.ProgressBar
	manager := download.NewManager(settings, prefs, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !verbose {
			return
		}
		switch event.Level {
		case download.LevelError:
			logger.Error(event.Message)
		case download.LevelWarning:
			logger.Warn(event.Message)
		default:
			logger.Info(event.Message)
		}
	})
	manager.OnItemDone(func(done, total int) {
		if total < 2 {
			return
		}
		if bar == nil {
			bar = progressbar.Default(int64(total), "items")
		}
		bar.Set(done)
	})

	summary, err := manager.Run(ctx, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return cli.Exit(err.Error(), 1)
	}

	if failures := manager.Failures(); failures != nil {
		logger.Warnf("Some items failed:\n%v", failures)
	}
	logger.Infof("Done: %d downloaded, %d skipped, %d failed", summary.Downloaded, summary.Skipped, summary.Errors)
	return nil
}

// dryRun resolves metadata and prints what a real run would process.
func dryRun(ctx context.Context, rawURL string) error {
	kind, err := locator.Classify(rawURL)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	meta, err := youtube.NewResolver().Resolve(ctx, rawURL, kind)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Printf("%s by %s (%d item(s))\n", meta.Title, meta.Owner, meta.TotalCount)
	for _, item := range meta.Items {
		if !item.Valid() {
			fmt.Printf("  %2d. (invalid or deleted entry)\n", item.Index)
			continue
		}
		fmt.Printf("  %2d. %s\n", item.Index, item.Title)
	}
	return nil
}

func loadSettings(path string) (*config.Settings, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv(), nil
}

// buildPreferences maps the positional arguments after the URL onto
// preferences. Arguments are classified by value, not position: a
// format name sets the format, a quality name sets the quality, and
// anything else is taken as the destination directory. Omitted values
// fall back to the configured defaults.
func buildPreferences(args []string, settings *config.Settings) (model.Preferences, error) {
	format, err := model.ParseFormat(settings.Format)
	if err != nil {
		return model.Preferences{}, fmt.Errorf("configured default format: %w", err)
	}
	quality, err := model.ParseQuality(settings.Quality)
	if err != nil {
		return model.Preferences{}, fmt.Errorf("configured default quality: %w", err)
	}

	prefs := model.Preferences{
		Format:          format,
		Quality:         quality,
		DestinationRoot: settings.OutputFolder,
	}

	for _, arg := range args[1:] {
		if f, err := model.ParseFormat(arg); err == nil {
			prefs.Format = f
			continue
		}
		if q, err := model.ParseQuality(arg); err == nil {
			prefs.Quality = q
			continue
		}
		prefs.DestinationRoot = arg
	}
	return prefs, nil
}
