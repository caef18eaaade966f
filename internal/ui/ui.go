package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/daylist/internal/curator"
	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
	"github.com/desertthunder/daylist/internal/shared"
	"github.com/desertthunder/daylist/internal/tasks"
)

const maxLogLines = 8

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	PlaylistListView
	TrackListView
	ConfirmView
	PublishView
	ResultView
)

// Options configures a TUI session.
type Options struct {
	Profiles []profile.TasteProfile
	Now      time.Time
	Fetch    tasks.FetchOpts
	Publish  tasks.PublishOpts
}

// Model is the main Bubble Tea model for the playlist preview TUI.
type Model struct {
	ctx    context.Context
	engine *tasks.PlaylistEngine
	opts   Options

	view     ViewState
	previous ViewState
	width    int
	height   int
	keys     keyMap
	help     help.Model

	playlists list.Model
	tracks    list.Model

	pool      *tasks.FetchResult
	results   []tasks.GenerateResult
	selected  int
	pending   []models.Playlist
	progress  chan tasks.ProgressUpdate
	log       []string
	published *tasks.PublishResult
	err       error
}

// NewModel creates a new TUI model that fetches the pool on start.
func NewModel(ctx context.Context, engine *tasks.PlaylistEngine, opts Options) Model {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	playlists := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	playlists.Title = "Generated Playlists"
	playlists.SetShowHelp(false)

	tracks := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	tracks.SetShowHelp(false)

	return Model{
		ctx:       ctx,
		engine:    engine,
		opts:      opts,
		view:      LoadingView,
		keys:      newKeyMap(),
		help:      help.New(),
		playlists: playlists,
		tracks:    tracks,
		progress:  make(chan tasks.ProgressUpdate, 100),
	}
}

// Init starts fetching the candidate pool.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchPool(m.progress), waitForProgress(m.progress))
}

// Update handles incoming messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.playlists.SetSize(msg.Width, max(msg.Height-4, 0))
		m.tracks.SetSize(msg.Width, max(msg.Height-8, 0))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.log = append(m.log, fmt.Sprintf("[%s] %s", update.Phase, update.Message))
		if len(m.log) > maxLogLines {
			m.log = m.log[len(m.log)-maxLogLines:]
		}
		return m, waitForProgress(m.progress)
	case MsgProgressDone:
		return m, nil
	case MsgPoolFetched:
		data := msg.data.(poolFetched)
		if data.err != nil {
			m.err = data.err
			m.view = ResultView
			return m, nil
		}
		m.pool = data.result
		m.setResults(m.engine.Generate(m.opts.Profiles, data.result.Pool, m.opts.Now))
		m.view = PlaylistListView
		return m, nil
	case MsgPublishComplete:
		data := msg.data.(publishComplete)
		m.published, m.err = data.result, data.err
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering() {
		return m.updateList(msg)
	}

	if key.Matches(msg, m.keys.quit) && m.view != PublishView {
		return m, tea.Quit
	}

	switch m.view {
	case PlaylistListView:
		switch {
		case key.Matches(msg, m.keys.enter):
			if i := m.playlists.Index(); i >= 0 && i < len(m.results) {
				m.openPlaylist(i)
			}
			return m, nil
		case key.Matches(msg, m.keys.publish):
			return m.confirm(m.allPlaylists()), nil
		}
	case TrackListView:
		switch {
		case key.Matches(msg, m.keys.back):
			m.view = PlaylistListView
			return m, nil
		case key.Matches(msg, m.keys.publish):
			return m.confirm([]models.Playlist{m.results[m.selected].Report.Playlist}), nil
		}
	case ConfirmView:
		switch {
		case key.Matches(msg, m.keys.yes):
			return m.startPublish()
		case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
			m.pending = nil
			m.view = m.previous
		}
		return m, nil
	case ResultView:
		if key.Matches(msg, m.keys.restart) && len(m.results) > 0 {
			m.err, m.published, m.log = nil, nil, nil
			m.view = PlaylistListView
		}
		return m, nil
	case LoadingView, PublishView:
		return m, nil
	}

	return m.updateList(msg)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlists, cmd = m.playlists.Update(msg)
	case TrackListView:
		m.tracks, cmd = m.tracks.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.view {
	case PlaylistListView:
		return m.playlists.FilterState() == list.Filtering
	case TrackListView:
		return m.tracks.FilterState() == list.Filtering
	default:
		return false
	}
}

func (m *Model) setResults(results []tasks.GenerateResult) {
	m.results = results
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = playlistItem{result: r}
	}
	m.playlists.SetItems(items)
}

func (m *Model) openPlaylist(i int) {
	m.selected = i
	pl := m.results[i].Report.Playlist
	items := make([]list.Item, len(pl.Tracks))
	for j, pt := range pl.Tracks {
		items[j] = trackItem{position: j + 1, track: pt}
	}
	m.tracks.Title = pl.Name
	m.tracks.SetItems(items)
	m.tracks.Select(0)
	m.view = TrackListView
}

func (m Model) allPlaylists() []models.Playlist {
	out := make([]models.Playlist, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, r.Report.Playlist)
	}
	return out
}

func (m Model) confirm(playlists []models.Playlist) Model {
	if len(playlists) == 0 {
		return m
	}
	m.pending = playlists
	m.previous = m.view
	m.view = ConfirmView
	return m
}

func (m Model) startPublish() (tea.Model, tea.Cmd) {
	m.progress = make(chan tasks.ProgressUpdate, 100)
	m.log = nil
	m.view = PublishView
	return m, tea.Batch(m.publish(m.progress, m.pending), waitForProgress(m.progress))
}

func (m Model) fetchPool(ch chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)
		res, err := m.engine.Fetch(m.ctx, ch, m.opts.Fetch)
		return poolFetchedMsg(res, err)
	}
}

func (m Model) publish(ch chan tasks.ProgressUpdate, playlists []models.Playlist) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)
		res, err := m.engine.Publish(m.ctx, ch, playlists, m.opts.Publish)
		return publishCompleteMsg(res, err)
	}
}

// waitForProgress listens for progress updates from the channel.
func waitForProgress(ch <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return progressDoneMsg()
		}
		return progressUpdateMsg(update)
	}
}

// View renders the current view.
func (m Model) View() string {
	switch m.view {
	case LoadingView:
		return m.viewLoading()
	case PlaylistListView:
		return m.playlists.View() + "\n" + Muted("enter: inspect • p: publish all • /: filter • q: quit")
	case TrackListView:
		return m.viewTracks()
	case ConfirmView:
		return m.viewConfirm()
	case PublishView:
		return m.viewPublish()
	case ResultView:
		return m.viewResult()
	default:
		return ""
	}
}

func (m Model) viewLoading() string {
	var b strings.Builder
	b.WriteString(Title("Building candidate pool"))
	b.WriteString("\n")
	m.writeLog(&b)
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) viewTracks() string {
	r := m.results[m.selected]
	pl := r.Report.Playlist
	met := pl.Metrics

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Title(pl.Name), QualityColor(pl.Quality).Render(fmt.Sprintf("quality %.2f", pl.Quality)))
	fmt.Fprintf(&b, "%d tracks • %s • %d artists", pl.Len(), shared.FormatDuration(met.TotalDuration), met.ArtistCount)
	if met.TempoRange != nil {
		fmt.Fprintf(&b, " • %.0f bpm avg (%d-%d)", met.AverageTempo, met.TempoRange.Min, met.TempoRange.Max)
	}
	if g, share := curator.DominantGenre(met); g != "" {
		fmt.Fprintf(&b, " • %s %.0f%%", g, share*100)
	}
	fmt.Fprintf(&b, "\n%s\n\n", Muted(fmt.Sprintf("%d of %d pool tracks eligible for %s", r.Report.Eligible, r.Report.Pool, r.Profile)))
	b.WriteString(m.tracks.View())
	b.WriteString("\n" + Muted("esc: back • p: publish • q: quit"))
	return b.String()
}

func (m Model) viewConfirm() string {
	var b strings.Builder
	b.WriteString(Title("Publish playlists?"))
	b.WriteString("\n")
	for _, pl := range m.pending {
		fmt.Fprintf(&b, "  • %s (%d tracks)\n", pl.Name, pl.Len())
	}
	b.WriteString("\n")
	switch {
	case m.opts.Publish.DryRun:
		b.WriteString(Warn("Dry run: nothing will be written to the server."))
	case m.opts.Publish.KeepExisting:
		b.WriteString(Muted("Existing playlists will be kept."))
	default:
		b.WriteString(Warn("Previous playlists with the same base name will be deleted."))
	}
	b.WriteString("\n\n" + Muted("y: publish • n: cancel"))
	return b.String()
}

func (m Model) viewPublish() string {
	var b strings.Builder
	b.WriteString(Title(fmt.Sprintf("Publishing %d playlist(s)", len(m.pending))))
	b.WriteString("\n")
	m.writeLog(&b)
	return b.String()
}

func (m Model) viewResult() string {
	var b strings.Builder
	switch {
	case m.err != nil:
		b.WriteString(Err("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.published != nil:
		b.WriteString(Title("Publish complete"))
		b.WriteString("\n")
		for _, o := range m.published.Outcomes {
			switch {
			case o.Err != nil:
				fmt.Fprintf(&b, "%s %s: %s\n", Err("✗"), o.Name, o.Err)
			case o.DryRun:
				fmt.Fprintf(&b, "%s %s (%d tracks, dry run)\n", Warn("•"), o.Name, o.TrackCount)
			default:
				fmt.Fprintf(&b, "%s %s (%d tracks)", OK("✓"), o.Name, o.TrackCount)
				if len(o.Deleted) > 0 {
					fmt.Fprintf(&b, " replaced %s", strings.Join(o.Deleted, ", "))
				}
				b.WriteString("\n")
			}
		}
		fmt.Fprintf(&b, "\nSuccessfully created %d/%d playlists\n", m.published.Published, m.published.Total)
	}
	if len(m.results) > 0 {
		b.WriteString("\n" + Muted("r: back to playlists • q: quit"))
	} else {
		b.WriteString("\n" + Muted("q: quit"))
	}
	return b.String()
}

func (m Model) writeLog(b *strings.Builder) {
	if len(m.log) == 0 {
		b.WriteString(Muted("Working..."))
		b.WriteString("\n")
		return
	}
	for _, line := range m.log {
		b.WriteString(line)
		b.WriteString("\n")
	}
}
