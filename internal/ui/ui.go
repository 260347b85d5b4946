package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/tasks"
)

// browseLimit bounds how many videos the catalog view loads at once.
const browseLimit = 500

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CatalogView ViewState = iota
	ConfirmView
	SyncView
	ResultView
)

// Catalog lists stored videos.
type Catalog interface {
	List(ctx context.Context, q models.VideoQuery) ([]*models.Video, int, error)
}

// Syncer runs a channel sync and reports progress on the given channel.
type Syncer interface {
	Sync(ctx context.Context, req tasks.SyncRequest, progress chan<- tasks.ProgressUpdate) (*tasks.SyncResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	catalog      Catalog
	syncer       Syncer
	channelID    string
	width        int
	height       int
	videoList    list.Model
	total        int
	progressChan chan tasks.ProgressUpdate
	doneChan     chan syncCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.SyncResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model. An empty channelID syncs the configured default channel.
func NewModel(ctx context.Context, catalog Catalog, syncer Syncer, channelID string) *Model {
	return &Model{
		ctx:       ctx,
		view:      CatalogView,
		catalog:   catalog,
		syncer:    syncer,
		channelID: channelID,
		videoList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, catalog Catalog, syncer Syncer, channelID string) error {
	p := tea.NewProgram(NewModel(ctx, catalog, syncer, channelID), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init initializes the TUI by loading the catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.videoList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CatalogView:
			return m.handleCatalogKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case SyncView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case catalogLoadedMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.total = msg.total
		m.videoList.Title = fmt.Sprintf("DadRock Tabs (%d videos)", msg.total)
		return m, m.videoList.SetItems(videoItems(msg.videos))

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		return m, nil
	}

	var cmd tea.Cmd
	if m.view == CatalogView {
		m.videoList, cmd = m.videoList.Update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == CatalogView {
		return styles.error.Render(fmt.Sprintf("Error: %v\n\nPress r to reload, q to quit", m.err))
	}

	switch m.view {
	case CatalogView:
		return m.renderCatalog()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.videoList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.sync):
			m.view = ConfirmView
			return m, nil
		case key.Matches(msg, m.keys.reload):
			m.err = nil
			return m, m.loadCatalog()
		}
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = SyncView
		m.progress = tasks.ProgressUpdate{}
		return m, m.startSync()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = CatalogView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.reload):
		m.view = CatalogView
		m.result = nil
		m.err = nil
		return m, m.loadCatalog()
	}
	return m, nil
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		videos, total, err := m.catalog.List(m.ctx, models.VideoQuery{Limit: browseLimit})
		return catalogLoadedMsg{videos: videos, total: total, err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan syncCompleteMsg, 1)
	m.progressChan = progress
	m.doneChan = done

	go func() {
		result, err := m.syncer.Sync(m.ctx, tasks.SyncRequest{ChannelID: m.channelID}, progress)
		done <- syncCompleteMsg{result: result, err: err}
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return syncCompleteMsg{}
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderCatalog() string {
	helpKeys := []key.Binding{m.keys.sync, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.videoList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	channel := m.channelID
	if channel == "" {
		channel = "the default channel"
	}

	title := styles.title.Render(fmt.Sprintf("Sync uploads from %s?", channel))
	info := fmt.Sprintf("\nVideos in catalog: %d\nNew uploads are added; stored videos are skipped.\n", m.total)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Channel")

	var phase string
	switch m.progress.Phase {
	case tasks.ResolveChannel:
		phase = "Resolving channel uploads..."
	case tasks.FetchPage:
		phase = fmt.Sprintf("Fetching page %d...", m.progress.Step)
	case tasks.ProcessItem:
		phase = fmt.Sprintf("Processed %d videos", m.progress.Step)
	case tasks.Complete:
		phase = "Finishing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, RenderProgress(m.progress))
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.error.Render(fmt.Sprintf("Sync failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.error.Render("No result available"), helpView)
	}
	return fmt.Sprintf("%s\n%s", RenderSyncResult(m.result), helpView)
}
