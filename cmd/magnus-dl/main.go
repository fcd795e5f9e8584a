package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/CHollingworth/magnus-downloader/internal/config"
	"github.com/CHollingworth/magnus-downloader/internal/download"
	"github.com/CHollingworth/magnus-downloader/internal/log"
	"github.com/CHollingworth/magnus-downloader/internal/model"
)

// seriesFlag collects repeated -series values of the form "Name=Pattern".
type seriesFlag []model.Series

func (f *seriesFlag) String() string {
	parts := make([]string, len(*f))
	for i, s := range *f {
		parts[i] = s.Name + "=" + s.Pattern
	}
	return strings.Join(parts, ",")
}

func (f *seriesFlag) Set(value string) error {
	name, pattern, ok := strings.Cut(value, "=")
	if !ok || name == "" || pattern == "" {
		return fmt.Errorf(`expected "Name=Pattern", got %q`, value)
	}
	*f = append(*f, model.Series{Name: name, Pattern: pattern})
	return nil
}

func main() {
	// Command line flags
	var series seriesFlag
	var (
		urlFlag      = flag.String("url", "", "Feed URL to download from (overrides config)")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		playlistFlag = flag.Bool("playlist", false, "Create a playlist file per series")
		exportFlag   = flag.Bool("export-feed", false, "Write an RSS file describing the downloaded episodes")
		nativeFlag   = flag.Bool("native-tagger", false, "Tag files in-process instead of invoking id3v2")
		skipFlag     = flag.Bool("skip-existing", false, "Skip episodes already on disk")
		measureFlag  = flag.Bool("measure-sizes", false, "Measure episode sizes up front for byte progress")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag   = flag.Bool("dry-run", false, "Parse the feed without downloading")
	)
	flag.Var(&series, "series", `Series to match as "Name=Pattern" (repeatable, overrides config)`)

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if len(series) > 0 {
		settings.Series = series
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if *exportFlag {
		settings.ExportFeed = true
	}
	if *nativeFlag {
		settings.Tagger = "native"
	}
	if *skipFlag {
		settings.SkipExisting = true
	}
	if *measureFlag {
		settings.MeasureSizes = true
	}

	// Resolve the feed URL: flag, then positional argument, then config
	feedURL := *urlFlag
	if feedURL == "" && flag.NArg() > 0 {
		feedURL = flag.Arg(0)
	}
	if feedURL == "" {
		feedURL = settings.FeedURL
	}
	if feedURL == "" {
		fmt.Fprintln(os.Stderr, "Magnus Downloader - Download podcast episodes from a Patreon RSS feed")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  magnus-dl -url <FEED-URL> [options]")
		fmt.Fprintln(os.Stderr, "  magnus-dl <FEED-URL> [options]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For interactive mode, use: magnus-tui")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	// Debug log is optional; a broken log file should not stop the run.
	if err := log.Setup(settings.LogsWrite, settings.LogsLevel, settings.LogsJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		out := os.Stdout
		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
			out = os.Stderr
		case download.LevelWarning:
			prefix = "⚠️  "
			out = os.Stderr
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Fprintln(out, prefix+event.Message)
	})

	// Initialize
	fmt.Println("🎵 Magnus Downloader")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if err := manager.Initialize(ctx, feedURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	if *dryRunFlag {
		fmt.Println("\n[Dry run - not downloading]")
		return
	}

	// Start downloads
	fmt.Println("\n📥 Starting downloads...")
	fmt.Println()

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	received, total, filesReceived, filesTotal := manager.GetProgress()
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Complete! Downloaded %d/%d episodes (%.2f MB)\n", filesReceived, filesTotal, float64(received)/1024/1024)
	if total > 0 && received < total {
		fmt.Printf("   (%.2f MB expected)\n", float64(total)/1024/1024)
	}
}
