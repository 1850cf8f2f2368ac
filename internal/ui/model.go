package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seojin-dev/loaner/internal/kiosk"
	"github.com/seojin-dev/loaner/internal/prefs"
	"github.com/seojin-dev/loaner/internal/rental"
	"github.com/seojin-dev/loaner/internal/state"
	"github.com/seojin-dev/loaner/internal/status"
)

type mode int

const (
	modeBrowse mode = iota
	modeRent
	modeReturn
)

// Options configure the UI runtime.
type Options struct {
	Context     context.Context
	Store       *state.Store
	Coordinator *rental.Coordinator
	Sync        *status.Synchronizer
	Transport   *status.Transport
	Renter      string
	ThemeName   string
	PrefsPath   string
}

const uiTickInterval = time.Second

// Model is the bubbletea model for the dashboard.
type Model struct {
	opts   Options
	keys   keyMap
	help   help.Model
	table  table.Model
	input  textinput.Model
	mode   mode
	theme  Theme
	styles Styles

	width  int
	height int

	snapshot  state.Snapshot
	maint     kiosk.StatusSnapshot
	hasMaint  bool
	connState status.ConnectionState

	notice      string
	noticeLevel noticeLevel
	noticeAt    time.Time

	busy bool
}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeWarning
	noticeError
)

type tickMsg time.Time

type mutationMsg struct {
	verb string
	err  error
}

type multiReturnMsg struct {
	result kiosk.MultiReturnResult
	err    error
}

func newModel(opts Options) Model {
	theme := ThemeByName(opts.ThemeName)

	input := textinput.New()
	input.Placeholder = "renter name"
	input.CharLimit = 40
	input.SetValue(opts.Renter)

	m := Model{
		opts:      opts,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		input:     input,
		theme:     theme,
		styles:    theme.Styles(),
		connState: opts.Transport.State(),
	}
	m.table = m.buildTable()
	m.readSources()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(uiTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case tickMsg:
		m.readSources()
		m.refreshRows()
		if m.notice != "" && time.Since(m.noticeAt) > 8*time.Second {
			m.notice = ""
		}
		return m, tick()

	case mutationMsg:
		m.busy = false
		if msg.err != nil {
			m.setNotice(kiosk.Message(msg.err), noticeError)
			return m, nil
		}
		m.setNotice(msg.verb, noticeSuccess)
		return m, nil

	case multiReturnMsg:
		m.busy = false
		if msg.err != nil {
			m.setNotice(kiosk.Message(msg.err), noticeError)
			return m, nil
		}
		summary := fmt.Sprintf("Returned %d device(s)", msg.result.Summary.SuccessCount)
		level := noticeSuccess
		if msg.result.Summary.FailedCount > 0 {
			var reasons []string
			for _, f := range msg.result.Failed {
				reasons = append(reasons, fmt.Sprintf("#%s: %s", f.DeviceNumber, f.Reason))
			}
			summary = fmt.Sprintf("%s; %d failed (%s)", summary, msg.result.Summary.FailedCount, strings.Join(reasons, ", "))
			level = noticeWarning
		}
		m.setNotice(summary, level)
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = NextTheme(m.theme)
		m.styles = m.theme.Styles()
		m.table = m.rebuildTableStyles()
		_ = prefs.Save(m.opts.PrefsPath, prefs.Prefs{Theme: m.theme.Name})
		return m, nil

	case key.Matches(msg, m.keys.ToggleSelect):
		if dev, ok := m.cursorDevice(); ok {
			if !m.opts.Store.Toggle(dev.ID) && !m.snapshot.IsSelected(dev.ID) {
				m.setNotice(fmt.Sprintf("%s is rented by %s", dev.Label(), dev.CurrentRenter), noticeWarning)
			}
			m.readSources()
			m.refreshRows()
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		m.opts.Store.SelectAll()
		m.readSources()
		m.refreshRows()
		return m, nil

	case key.Matches(msg, m.keys.ClearSel):
		m.opts.Store.ClearSelection()
		m.readSources()
		m.refreshRows()
		return m, nil

	case key.Matches(msg, m.keys.Rent):
		if m.busy {
			return m, nil
		}
		if len(m.snapshot.Selected) == 0 {
			m.setNotice("Select at least one device first", noticeWarning)
			return m, nil
		}
		m.mode = modeRent
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Return):
		if m.busy {
			return m, nil
		}
		m.mode = modeReturn
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		// Explicit refresh retries the live channel even from polling.
		m.opts.Transport.Start(m.opts.Context)
		return m, m.refreshCmd()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		renter := strings.TrimSpace(m.input.Value())
		if renter == "" {
			m.setNotice("Renter name is required", noticeWarning)
			return m, nil
		}
		formMode := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		m.busy = true
		if formMode == modeRent {
			return m, m.rentCmd(m.snapshot.Selected, renter)
		}
		return m, m.returnCmd(renter)

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) rentCmd(deviceIDs []string, renter string) tea.Cmd {
	coord, ctx := m.opts.Coordinator, m.opts.Context
	return func() tea.Msg {
		if err := coord.Rent(ctx, deviceIDs, renter); err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{verb: fmt.Sprintf("Rented %d device(s) to %s", len(deviceIDs), renter)}
	}
}

func (m *Model) returnCmd(renter string) tea.Cmd {
	coord, ctx := m.opts.Coordinator, m.opts.Context

	var ids []string
	for _, d := range m.snapshot.Devices {
		if d.Rented() && strings.EqualFold(d.CurrentRenter, renter) {
			ids = append(ids, d.ID)
		}
	}
	if len(ids) == 0 {
		return func() tea.Msg {
			return mutationMsg{err: fmt.Errorf("no devices rented by %s", renter)}
		}
	}
	if len(ids) == 1 {
		id := ids[0]
		return func() tea.Msg {
			if err := coord.ReturnOne(ctx, id, renter); err != nil {
				return mutationMsg{err: err}
			}
			return mutationMsg{verb: fmt.Sprintf("Returned 1 device for %s", renter)}
		}
	}
	return func() tea.Msg {
		result, err := coord.ReturnMany(ctx, ids, renter)
		return multiReturnMsg{result: result, err: err}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	coord, ctx := m.opts.Coordinator, m.opts.Context
	return func() tea.Msg {
		if err := coord.Refresh(ctx); err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{verb: "Inventory refreshed"}
	}
}

// readSources pulls the latest snapshots from the store, the synchronizer,
// and the transport, and drains pending maintenance notifications.
func (m *Model) readSources() {
	m.snapshot = m.opts.Store.Snapshot()
	m.connState = m.opts.Transport.State()
	if snap, ok := m.opts.Sync.Latest(); ok {
		m.maint = snap
		m.hasMaint = true
	}
	for {
		select {
		case n := <-m.opts.Sync.Notifications():
			level := noticeWarning
			if n.Kind == status.MaintenanceExited {
				level = noticeSuccess
			}
			m.setNotice(n.Message, level)
		default:
			return
		}
	}
}

func (m *Model) setNotice(text string, level noticeLevel) {
	m.notice = text
	m.noticeLevel = level
	m.noticeAt = time.Now()
}

func (m *Model) cursorDevice() (kiosk.DeviceRecord, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.snapshot.Devices) {
		return kiosk.DeviceRecord{}, false
	}
	return m.snapshot.Devices[idx], true
}
