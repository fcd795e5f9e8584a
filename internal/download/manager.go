package download

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync/atomic"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/CHollingworth/magnus-downloader/internal/audio"
	"github.com/CHollingworth/magnus-downloader/internal/config"
	"github.com/CHollingworth/magnus-downloader/internal/feed"
	"github.com/CHollingworth/magnus-downloader/internal/fsutil"
	"github.com/CHollingworth/magnus-downloader/internal/http"
	"github.com/CHollingworth/magnus-downloader/internal/log"
	"github.com/CHollingworth/magnus-downloader/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// seriesSet is one configured series with its matched episodes in
// listening order.
type seriesSet struct {
	series   model.Series
	episodes []*model.Episode
}

// Manager coordinates episode downloads.
//
// A Manager runs one feed: Initialize fetches and parses it into
// per-series episode sets, StartDownloads then works through the sets.
// Progress is reported through the onProgress callback and the
// GetProgress counters.
type Manager struct {
	settings       *config.Settings
	httpClient     *http.Client
	parser         *feed.Parser
	tagger         audio.Tagger
	playlist       *audio.PlaylistCreator
	playlistFormat audio.PlaylistFormat
	artworkService *fsutil.ArtworkService

	channel *feed.Channel
	sets    []*seriesSet

	totalBytes      int64
	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	playlistFormat, err := audio.ParsePlaylistFormat(settings.PlaylistFormat)
	if err != nil {
		playlistFormat = audio.FormatM3U
	}

	tagConfig := audio.DefaultTagConfig()
	tagConfig.ModifyTags = settings.ModifyTags

	var tagger audio.Tagger
	if settings.Tagger == "native" {
		tagger = audio.NewNativeTagger(tagConfig)
	} else {
		tagger = audio.NewCommandTagger(settings.ID3v2Path, tagConfig)
	}

	return &Manager{
		settings:       settings,
		httpClient:     http.NewClient(settings.Timeout()),
		parser:         feed.NewParser(settings.ToNamingConfig()),
		tagger:         tagger,
		playlist:       audio.NewPlaylistCreator(playlistFormat, settings.M3UExtended),
		playlistFormat: playlistFormat,
		artworkService: fsutil.NewArtworkService(),
		onProgress:     onProgress,
	}
}

// Initialize fetches the feed once and parses it into per-series
// episode sets.
//
// The fetch itself is fatal on failure. Per-series parse problems are
// reported and skipped; a series with no matching episodes is dropped
// with a warning.
func (m *Manager) Initialize(ctx context.Context, feedURL string) error {
	matchers, err := m.settings.Matchers()
	if err != nil {
		return err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching feed: %s", feedURL), Level: LevelVerbose})
	log.Debugf("fetching feed %s", feedURL)

	xml, err := m.httpClient.GetString(ctx, feedURL)
	if err != nil {
		return fmt.Errorf("fetching feed: %w", err)
	}

	if channel, err := m.parser.Channel(xml); err == nil {
		m.channel = channel
	} else {
		log.Debugf("channel metadata unavailable: %v", err)
	}

	for _, matcher := range matchers {
		series := matcher.Series()

		episodes, err := m.parser.Parse(matcher, xml)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error parsing feed for %s: %v", series.Name, err), Level: LevelError})
			continue
		}
		if len(episodes) == 0 {
			m.progress(ProgressEvent{Message: fmt.Sprintf("No episodes matched %s", series.Name), Level: LevelWarning})
			continue
		}

		feed.Sequence(episodes)
		m.sets = append(m.sets, &seriesSet{series: series, episodes: episodes})

		log.Debugf("series %s: %d episodes", series.Name, len(episodes))
		m.progress(ProgressEvent{Message: fmt.Sprintf("Found series: %s (%d episodes)", series.Name, len(episodes)), Level: LevelInfo})
		for _, episode := range episodes {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Matched: %s (episode %d)", episode.Title, episode.Number), Level: LevelVerbose})
		}
	}

	m.calculateTotals(ctx)

	return nil
}

// StartDownloads downloads every initialized series set.
//
// Series run through an errgroup capped at one worker, and episodes
// within a series are a plain loop, so downloads never overlap. A
// per-episode failure is reported and the loop moves on; only context
// cancellation stops the run.
func (m *Manager) StartDownloads(ctx context.Context) error {
	if err := fsutil.EnsureDir(m.settings.DownloadsPath); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating downloads directory: %v", err), Level: LevelError})
		return err
	}

	artwork := m.prepareArtwork(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(1)

	for _, set := range m.sets {
		set := set // per-iteration copy; this module's go directive predates Go 1.22 loop scoping
		g.Go(func() error {
			return m.downloadSeries(ctx, set, artwork)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if m.settings.ExportFeed {
		m.exportFeed()
	}

	return nil
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received, total int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes), m.totalBytes,
		atomic.LoadInt32(&m.downloadedFiles), m.totalFiles
}

// GetSeriesNames returns display names for all initialized series sets.
func (m *Manager) GetSeriesNames() []string {
	return lo.Map(m.sets, func(set *seriesSet, _ int) string {
		return fmt.Sprintf("%s (%d episodes)", set.series.Name, len(set.episodes))
	})
}

// calculateTotals fills the file and byte counters for progress
// reporting. Byte totals come from the enclosure length attributes;
// when measuring is enabled, a HEAD request per episode replaces them
// with the sizes the server reports.
func (m *Manager) calculateTotals(ctx context.Context) {
	for _, set := range m.sets {
		for _, episode := range set.episodes {
			m.totalFiles++
			if m.settings.MeasureSizes {
				if size, err := m.httpClient.GetFileSize(ctx, episode.EnclosureURL); err == nil {
					episode.Length = size
				}
			}
			m.totalBytes += episode.Length
		}
	}
}

func (m *Manager) downloadSeries(ctx context.Context, set *seriesSet, artwork []byte) error {
	for _, episode := range set.episodes {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.downloadEpisode(ctx, episode, artwork)
	}

	if m.settings.CreatePlaylist {
		m.writePlaylist(set)
	}

	return nil
}

// downloadEpisode streams one enclosure to disk and tags the result.
// Failures are reported and swallowed so the remaining episodes still
// run.
func (m *Manager) downloadEpisode(ctx context.Context, episode *model.Episode, artwork []byte) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Title: %s", episode.Title), Level: LevelInfo})
	m.progress(ProgressEvent{Message: fmt.Sprintf("Link: %s", episode.EnclosureURL), Level: LevelInfo})
	m.progress(ProgressEvent{Message: fmt.Sprintf("Episode Number: %d", episode.Number), Level: LevelInfo})

	if m.settings.SkipExisting && m.canSkip(ctx, episode) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing file: %s", filepath.Base(episode.Path)), Level: LevelInfo})
		atomic.AddInt32(&m.downloadedFiles, 1)
		m.divider()
		return
	}

	if err := m.downloadEnclosure(ctx, episode); err != nil {
		log.Errorf("download failed for %s: %v", episode.Title, err)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", episode.Title, err), Level: LevelError})
		m.divider()
		return
	}

	atomic.AddInt32(&m.downloadedFiles, 1)

	if m.settings.ModifyTags || artwork != nil {
		if err := m.tagger.Tag(ctx, episode, artwork); err != nil {
			log.Warnf("tagging failed for %s: %v", episode.Title, err)
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", episode.Title, err), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: "Track number set successfully.", Level: LevelSuccess})
		}
	}

	m.divider()
}

func (m *Manager) downloadEnclosure(ctx context.Context, episode *model.Episode) error {
	var last int64
	return m.httpClient.DownloadFile(ctx, episode.EnclosureURL, episode.Path, func(written, total int64) {
		atomic.AddInt64(&m.receivedBytes, written-last)
		last = written
	})
}

// canSkip reports whether an already-downloaded file can stand in for
// the enclosure. The on-disk size must be within the allowed relative
// difference of the expected size; without a usable expected size the
// file is downloaded again.
func (m *Manager) canSkip(ctx context.Context, episode *model.Episode) bool {
	size, err := fsutil.FileSize(episode.Path)
	if err != nil {
		return false
	}

	expected := episode.Length
	if expected == 0 {
		expected, _ = m.httpClient.GetFileSize(ctx, episode.EnclosureURL)
	}
	if expected <= 0 {
		return false
	}

	diff := math.Abs(float64(size-expected)) / float64(expected)
	return diff <= m.settings.AllowedFileSizeDifference
}

// prepareArtwork fetches the channel image and returns the bytes to
// embed in tags, or nil when embedding is off or the image is
// unavailable. Artwork problems never block episode downloads.
func (m *Manager) prepareArtwork(ctx context.Context) []byte {
	if !m.settings.EmbedCoverArt && !m.settings.SaveCoverArtInFolder {
		return nil
	}
	if m.channel == nil || m.channel.ImageURL == "" {
		return nil
	}

	artwork, err := m.httpClient.Get(ctx, m.channel.ImageURL)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading channel artwork: %v", err), Level: LevelWarning})
		return nil
	}

	if m.settings.CoverArtMaxSize > 0 {
		if scaled, err := m.artworkService.Fit(ctx, artwork, m.settings.CoverArtMaxSize); err == nil {
			artwork = scaled
		}
	}
	if m.settings.ConvertCoverArtToJPG {
		if converted, err := m.artworkService.ToJPEG(ctx, artwork); err == nil {
			artwork = converted
		}
	}

	if m.settings.SaveCoverArtInFolder {
		coverPath := filepath.Join(m.settings.DownloadsPath, "cover.jpg")
		if err := fsutil.WriteFile(coverPath, artwork); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error saving artwork: %v", err), Level: LevelWarning})
		}
	}

	m.progress(ProgressEvent{Message: "Downloaded channel artwork", Level: LevelVerbose})

	if !m.settings.EmbedCoverArt {
		return nil
	}
	return artwork
}

func (m *Manager) writePlaylist(set *seriesSet) {
	content := m.playlist.CreatePlaylist(set.series.Name, set.episodes)
	name := model.SanitizeFileName(set.series.Name) + m.playlistFormat.Ext()
	path := filepath.Join(m.settings.DownloadsPath, name)

	if err := fsutil.WriteFile(path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", set.series.Name), Level: LevelSuccess})
}

// exportFeed writes an RSS document describing the run's episodes next
// to the downloads.
func (m *Manager) exportFeed() {
	episodes := lo.FlatMap(m.sets, func(set *seriesSet, _ int) []*model.Episode {
		return set.episodes
	})

	rss, err := feed.Export(m.channel, episodes)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error exporting feed: %v", err), Level: LevelWarning})
		return
	}

	path := filepath.Join(m.settings.DownloadsPath, "feed.xml")
	if err := fsutil.WriteFile(path, []byte(rss)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error exporting feed: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: "Exported local feed", Level: LevelSuccess})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

func (m *Manager) divider() {
	m.progress(ProgressEvent{Message: "----------------------", Level: LevelInfo})
}
