// Package tui implements the interactive package browser.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/deck"
)

// Deck is the slice of the data facade the browser reads through.
type Deck interface {
	Packages(ctx context.Context, kind catalog.Kind) ([]deck.Package, error)
	PackageDetails(ctx context.Context, name string, kind catalog.Kind) (deck.Package, error)
}

// QueryRecorder feeds applied filters to the predictive prefetcher.
// *prefetch.Scheduler implements it; nil disables recording.
type QueryRecorder interface {
	RecordQuery(query string)
}

type browseState int

const (
	stateLoading browseState = iota
	stateList
	stateDetail
	stateError
)

// Messages produced by background commands.
type packagesLoadedMsg struct {
	packages []deck.Package
	err      error
}

type detailLoadedMsg struct {
	pkg deck.Package
	err error
}

// Default dimensions before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeRows    = 6 // title, filter line, help, padding
)

// BrowseModel is the Bubble Tea model for the package browser: a filtered,
// virtually scrolled listing with a detail pane.
type BrowseModel struct {
	svc      Deck
	recorder QueryRecorder
	kind     catalog.Kind

	all       []deck.Package
	list      *virtualList[deck.Package]
	filter    textinput.Model
	filtering bool

	spin   spinner.Model
	state  browseState
	detail deck.Package
	err    error

	width  int
	height int
}

// NewBrowseModel builds the browser for one kind. recorder may be nil.
func NewBrowseModel(svc Deck, recorder QueryRecorder, kind catalog.Kind) *BrowseModel {
	filter := textinput.New()
	filter.Placeholder = "filter packages"
	filter.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &BrowseModel{
		svc:      svc,
		recorder: recorder,
		kind:     kind,
		filter:   filter,
		spin:     spin,
		state:    stateLoading,
		width:    defaultWidth,
		height:   defaultHeight,
		list:     newVirtualList[deck.Package](defaultHeight - chromeRows),
	}
}

// Init kicks off the spinner and the initial listing load.
func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadPackages())
}

func (m *BrowseModel) loadPackages() tea.Cmd {
	return func() tea.Msg {
		packages, err := m.svc.Packages(context.Background(), m.kind)
		if err == nil {
			deck.SortByDownloads(packages)
		}
		return packagesLoadedMsg{packages: packages, err: err}
	}
}

func (m *BrowseModel) loadDetail(name string) tea.Cmd {
	return func() tea.Msg {
		pkg, err := m.svc.PackageDetails(context.Background(), name, m.kind)
		return detailLoadedMsg{pkg: pkg, err: err}
	}
}

// Update handles messages.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.setHeight(msg.Height - chromeRows)
		return m, nil

	case packagesLoadedMsg:
		if msg.err != nil {
			m.state = stateError
			m.err = msg.err
			return m, nil
		}
		m.all = msg.packages
		m.applyFilter()
		m.state = stateList
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			m.state = stateError
			m.err = msg.err
			return m, nil
		}
		m.detail = msg.pkg
		m.state = stateDetail
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch m.state {
	case stateDetail:
		switch msg.String() {
		case "esc", "q", "backspace":
			m.state = stateList
		}
		return m, nil

	case stateError:
		switch msg.String() {
		case "r":
			m.state = stateLoading
			return m, tea.Batch(m.spin.Tick, m.loadPackages())
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case stateList:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "/":
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink
		case "esc":
			if m.filter.Value() != "" {
				m.filter.SetValue("")
				m.applyFilter()
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			if pkg := m.list.selectedItem(); pkg != nil {
				m.state = stateLoading
				return m, tea.Batch(m.spin.Tick, m.loadDetail(pkg.Name))
			}
			return m, nil
		case "up", "k":
			m.list.moveUp(1)
		case "down", "j":
			m.list.moveDown(1)
		case "pgup":
			m.list.moveUp(m.list.height)
		case "pgdown":
			m.list.moveDown(m.list.height)
		case "home":
			m.list.setSelected(0)
		case "end":
			m.list.setSelected(len(m.list.items) - 1)
		}
		return m, nil
	}

	return m, nil
}

func (m *BrowseModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		if m.recorder != nil && m.filter.Value() != "" {
			m.recorder.RecordQuery(m.filter.Value())
		}
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter rebuilds the visible list from the filter text.
func (m *BrowseModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	if query == "" {
		m.list.setItems(m.all)
		return
	}

	var visible []deck.Package
	for _, pkg := range m.all {
		if strings.Contains(strings.ToLower(pkg.Name), query) ||
			strings.Contains(strings.ToLower(pkg.Description), query) {
			visible = append(visible, pkg)
		}
	}
	m.list.setItems(visible)
}

// virtualList renders only the window of items around the selection so
// multi-thousand-entry listings stay responsive.
type virtualList[T any] struct {
	items    []T
	selected int
	height   int
}

func newVirtualList[T any](height int) *virtualList[T] {
	if height < 1 {
		height = 1
	}
	return &virtualList[T]{height: height}
}

func (l *virtualList[T]) setItems(items []T) {
	l.items = items
	l.clamp()
}

func (l *virtualList[T]) setHeight(h int) {
	if h < 1 {
		h = 1
	}
	l.height = h
}

func (l *virtualList[T]) moveUp(n int) {
	l.selected -= n
	l.clamp()
}

func (l *virtualList[T]) moveDown(n int) {
	l.selected += n
	l.clamp()
}

func (l *virtualList[T]) setSelected(i int) {
	l.selected = i
	l.clamp()
}

func (l *virtualList[T]) clamp() {
	if l.selected >= len(l.items) {
		l.selected = len(l.items) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

func (l *virtualList[T]) selectedItem() *T {
	if len(l.items) == 0 {
		return nil
	}
	return &l.items[l.selected]
}

// window returns the visible slice and its starting index, keeping the
// selection centered where possible.
func (l *virtualList[T]) window() (items []T, from int) {
	if len(l.items) <= l.height {
		return l.items, 0
	}

	from = l.selected - l.height/2
	if from < 0 {
		from = 0
	}
	if from+l.height > len(l.items) {
		from = len(l.items) - l.height
	}
	return l.items[from : from+l.height], from
}
