// Package tui provides a Bubble Tea terminal user interface for magnus-downloader.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CHollingworth/magnus-downloader/internal/config"
	"github.com/CHollingworth/magnus-downloader/internal/download"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9D79D6")).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#79B8D6"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8FD68F"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#D67979"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D6C879"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	seriesStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D6A679"))
	summaryStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#79B8D6")).Padding(1, 2)
)

// logHistory caps how many progress lines the log panel keeps.
const logHistory = 10

type state int

const (
	stateInput state = iota
	stateFetching
	stateDownloading
	stateComplete
	stateError
)

// options are the per-run switches toggled from the input screen. They
// overlay the default settings right before the manager is built.
type options struct {
	playlist     bool
	exportFeed   bool
	skipExisting bool
	nativeTagger bool
	verbose      bool
}

func (o options) apply(s *config.Settings) *config.Settings {
	if o.playlist {
		s.CreatePlaylist = true
	}
	if o.exportFeed {
		s.ExportFeed = true
	}
	if o.skipExisting {
		s.SkipExisting = true
	}
	if o.nativeTagger {
		s.Tagger = "native"
	}
	return s
}

type logLine struct {
	text  string
	level download.ProgressLevel
}

type (
	// progressMsg carries one manager event into the update loop.
	progressMsg struct {
		event download.ProgressEvent
	}

	// fetchDoneMsg reports the result of feed initialization.
	fetchDoneMsg struct {
		names []string
		mgr   *download.Manager
		err   error
	}

	// downloadDoneMsg reports that the download pass returned.
	downloadDoneMsg struct {
		err error
	}

	// pollMsg drives the periodic progress-bar refresh.
	pollMsg struct{}
)

type model struct {
	state state

	feedInput textinput.Model
	spin      spinner.Model
	bar       progress.Model

	defaults *config.Settings
	opts     options

	ctx    context.Context
	cancel context.CancelFunc
	mgr    *download.Manager
	events chan download.ProgressEvent

	seriesNames []string
	logs        []logLine
	err         error

	bytesDone  int64
	bytesTotal int64
	filesDone  int32
	filesTotal int32

	width int
}

func newModel() model {
	in := textinput.New()
	in.Placeholder = "https://www.patreon.com/rss/name?auth=..."
	in.Focus()
	in.CharLimit = 500
	in.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D79D6"))

	bar := progress.New(progress.WithGradient("#79B8D6", "#9D79D6"))
	bar.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return model{
		state:     stateInput,
		feedInput: in,
		spin:      sp,
		bar:       bar,
		defaults:  config.DefaultSettings(),
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan download.ProgressEvent, 256),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, waitForEvent(m.events))
}

// waitForEvent blocks until the manager reports progress, then feeds the
// event into the update loop. Each delivery re-arms the wait.
func waitForEvent(events <-chan download.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		return progressMsg{event: <-events}
	}
}

// fetchCmd builds the manager and initializes it from the feed URL.
func fetchCmd(ctx context.Context, url string, settings *config.Settings, events chan<- download.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		mgr := download.NewManager(settings, func(event download.ProgressEvent) {
			// Never block a download on a stalled UI.
			select {
			case events <- event:
			default:
			}
		})

		if err := mgr.Initialize(ctx, url); err != nil {
			return fetchDoneMsg{err: err}
		}

		names := mgr.GetSeriesNames()
		if len(names) == 0 {
			return fetchDoneMsg{err: fmt.Errorf("no episodes matched any configured series")}
		}

		return fetchDoneMsg{names: names, mgr: mgr}
	}
}

// downloadCmd runs the blocking download pass.
func downloadCmd(ctx context.Context, mgr *download.Manager) tea.Cmd {
	return func() tea.Msg {
		return downloadDoneMsg{err: mgr.StartDownloads(ctx)}
	}
}

func pollProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 20
		if w > 80 {
			w = 80
		}
		if w < 20 {
			w = 20
		}
		m.bar.Width = w
		return m, nil

	case tea.KeyMsg:
		next, cmd, consumed := m.handleKey(msg)
		if consumed {
			return next, cmd
		}
		m = next
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case progressMsg:
		if msg.event.Level != download.LevelVerbose || m.opts.verbose {
			m.logs = append(m.logs, logLine{text: msg.event.Message, level: msg.event.Level})
			if overflow := len(m.logs) - logHistory; overflow > 0 {
				m.logs = m.logs[overflow:]
			}
		}
		cmds = append(cmds, waitForEvent(m.events))

	case fetchDoneMsg:
		if msg.err != nil {
			m.state = stateError
			m.err = msg.err
		} else {
			m.seriesNames = msg.names
			m.mgr = msg.mgr
			m.state = stateDownloading
			cmds = append(cmds, downloadCmd(m.ctx, m.mgr), pollProgress())
		}

	case downloadDoneMsg:
		if m.mgr != nil {
			m.refreshCounters()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = stateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.err != nil:
			m.state = stateError
			m.err = msg.err
		default:
			m.state = stateComplete
		}

	case pollMsg:
		if m.state == stateDownloading && m.mgr != nil {
			m.refreshCounters()
			var pct float64
			if m.filesTotal > 0 {
				pct = float64(m.filesDone) / float64(m.filesTotal)
			}
			cmds = append(cmds, m.bar.SetPercent(pct), pollProgress())
		}

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.feedInput, cmd = m.feedInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes key presses. The consumed flag stops a handled key from
// also reaching the URL input as typed text.
func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit, true

	case "esc":
		switch m.state {
		case stateInput:
			return m, tea.Quit, true
		case stateFetching, stateDownloading:
			m.cancel()
			m.state = stateError
			m.err = fmt.Errorf("cancelled by user")
			return m, nil, true
		}

	case "enter":
		if m.state == stateInput && m.feedInput.Value() != "" {
			m.state = stateFetching
			settings := m.opts.apply(config.DefaultSettings())
			return m, tea.Batch(fetchCmd(m.ctx, m.feedInput.Value(), settings, m.events), m.spin.Tick), true
		}

	case "ctrl+p":
		if m.state == stateInput {
			m.opts.playlist = !m.opts.playlist
			return m, nil, true
		}

	case "ctrl+e":
		if m.state == stateInput {
			m.opts.exportFeed = !m.opts.exportFeed
			return m, nil, true
		}

	case "ctrl+s":
		if m.state == stateInput {
			m.opts.skipExisting = !m.opts.skipExisting
			return m, nil, true
		}

	case "ctrl+n":
		if m.state == stateInput {
			m.opts.nativeTagger = !m.opts.nativeTagger
			return m, nil, true
		}

	case "ctrl+v":
		if m.state == stateInput {
			m.opts.verbose = !m.opts.verbose
			return m, nil, true
		}

	case "q":
		if m.state == stateComplete || m.state == stateError {
			return m, tea.Quit, true
		}

	case "r":
		if m.state == stateComplete || m.state == stateError {
			return m.reset(), nil, true
		}
	}

	return m, nil, false
}

// reset returns the model to a clean input screen for another run.
func (m model) reset() model {
	m.state = stateInput
	m.logs = nil
	m.seriesNames = nil
	m.err = nil
	m.mgr = nil
	m.bytesDone, m.bytesTotal = 0, 0
	m.filesDone, m.filesTotal = 0, 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.feedInput.SetValue("")
	m.feedInput.Focus()
	return m
}

// refreshCounters pulls the latest byte and file counts off the manager.
func (m *model) refreshCounters() {
	m.bytesDone, m.bytesTotal, m.filesDone, m.filesTotal = m.mgr.GetProgress()
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("🎵 Magnus Downloader"))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Download episodes from a Patreon RSS feed"))
	b.WriteString("\n\n")

	switch m.state {
	case stateInput:
		m.viewInput(&b)
	case stateFetching:
		m.viewFetching(&b)
	case stateDownloading:
		m.viewDownloading(&b)
	case stateComplete:
		m.viewComplete(&b)
	case stateError:
		m.viewError(&b)
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render(m.helpText()))

	return b.String()
}

func (m model) viewInput(b *strings.Builder) {
	b.WriteString(labelStyle.Render("Enter feed URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.feedInput.View())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s Create playlist (ctrl+p)\n", checkbox(m.opts.playlist))
	fmt.Fprintf(b, "  %s Export local feed (ctrl+e)\n", checkbox(m.opts.exportFeed))
	fmt.Fprintf(b, "  %s Skip existing files (ctrl+s)\n", checkbox(m.opts.skipExisting))
	fmt.Fprintf(b, "  %s Native tagger (ctrl+n)\n", checkbox(m.opts.nativeTagger))
	fmt.Fprintf(b, "  %s Verbose/debug output (ctrl+v)\n", checkbox(m.opts.verbose))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Download path: " + m.defaults.DownloadsPath))
	b.WriteString("\n")
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m model) viewFetching(b *strings.Builder) {
	b.WriteString(m.spin.View())
	b.WriteString(" ")
	b.WriteString(labelStyle.Render("Fetching feed..."))
	b.WriteString("\n\n")
	m.viewLogs(b)
}

func (m model) viewDownloading(b *strings.Builder) {
	if len(m.seriesNames) > 0 {
		b.WriteString(okStyle.Render(fmt.Sprintf("Found %d series:", len(m.seriesNames))))
		b.WriteString("\n")
		for _, name := range m.seriesNames {
			b.WriteString(seriesStyle.Render("  ♪ " + name))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	var pct float64
	if m.filesTotal > 0 {
		pct = float64(m.filesDone) / float64(m.filesTotal)
	}
	b.WriteString(m.bar.ViewAs(pct))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf(
		"Episodes: %d/%d | Downloaded: %.2f MB",
		m.filesDone, m.filesTotal, megabytes(m.bytesDone))))
	b.WriteString("\n\n")

	m.viewLogs(b)
}

func (m model) viewComplete(b *strings.Builder) {
	b.WriteString(summaryStyle.Render(fmt.Sprintf(
		"✨ Download Complete!\n\nSeries: %d\nEpisodes: %d\nSize: %.2f MB",
		len(m.seriesNames), m.filesDone, megabytes(m.bytesDone))))
}

func (m model) viewError(b *strings.Builder) {
	b.WriteString(errStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString("  " + m.err.Error())
	}
}

func (m model) viewLogs(b *strings.Builder) {
	for _, line := range m.logs {
		style, prefix := faintStyle, "•"
		switch line.level {
		case download.LevelError:
			style, prefix = errStyle, "✗"
		case download.LevelWarning:
			style, prefix = warnStyle, "!"
		case download.LevelSuccess:
			style, prefix = okStyle, "✓"
		case download.LevelInfo:
			style, prefix = labelStyle, "›"
		}
		b.WriteString(style.Render(prefix + " " + line.text))
		b.WriteString("\n")
	}
}

func megabytes(n int64) float64 {
	return float64(n) / 1024 / 1024
}

func (m model) helpText() string {
	switch m.state {
	case stateInput:
		return "enter: start • ctrl+p: playlist • ctrl+e: export feed • ctrl+s: skip existing • ctrl+n: native tagger • ctrl+v: verbose • esc: quit"
	case stateFetching, stateDownloading:
		return "esc: cancel"
	case stateComplete, stateError:
		return "r: new download • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run() error {
	_, err := tea.NewProgram(newModel(), tea.WithAltScreen()).Run()
	return err
}
