package ui

import (
	"reflect"
	"slices"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-browser/internal/backend"
	"github.com/atomicstack/tmux-popup-browser/internal/filebrowser"
	"github.com/atomicstack/tmux-popup-browser/internal/logging/events"
	"github.com/atomicstack/tmux-popup-browser/internal/theme"
	"github.com/atomicstack/tmux-popup-browser/internal/tree"
	uistate "github.com/atomicstack/tmux-popup-browser/internal/ui/state"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

type focusArea int

const (
	focusTree focusArea = iota
	focusPath
)

func (f focusArea) String() string {
	if f == focusPath {
		return "path"
	}
	return "tree"
}

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Root       string
	Select     string
	Filter     filebrowser.Filter
	Lister     filebrowser.Lister
	Watcher    *backend.Watcher
	Width      int
	Height     int
	ShowFooter bool
	Mouse      bool
}

// Model implements the Bubble Tea model for the popup file browser.
type Model struct {
	ui      *widget.UserInterface
	browser widget.Handle
	rows    uistate.Rows
	hovered widget.Handle
	input   textinput.Model
	focus   focusArea

	watcher *backend.Watcher
	watched []string

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	mouse       bool

	errMsg  string
	infoMsg string
	details entryDetails

	result    string
	confirmed bool

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the widget graph for opts.Root, expands the root entry
// and reveals opts.Select when it lies below the root.
func NewModel(opts Options) *Model {
	lister := opts.Lister
	if lister == nil {
		lister = filebrowser.OSLister{}
	}
	ui := widget.New()
	browser := filebrowser.NewBuilder(widget.NewBuilder().WithName("browser")).
		WithPath(opts.Root).
		WithFilter(opts.Filter).
		WithLister(lister).
		Build(ui)

	m := &Model{
		ui:         ui,
		browser:    browser,
		input:      newPathInput(),
		watcher:    opts.Watcher,
		showFooter: opts.ShowFooter,
		mouse:      opts.Mouse,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.registerHandlers()

	m.ui.Update()
	if h, t, ok := m.treeFor(opts.Root); ok && !t.IsExpanded() {
		m.ui.Send(h, widget.TreeExpand{Expand: true})
		m.ui.Update()
	}
	if opts.Select != "" && !m.reveal(opts.Select) {
		m.errMsg = "cannot select " + opts.Select
	}
	m.sync()
	return m
}

func newPathInput() textinput.Model {
	in := textinput.New()
	in.Prompt = "path: "
	in.Placeholder = "type a path"
	if styles.PathPrompt != nil {
		in.PromptStyle = *styles.PathPrompt
	}
	if styles.PathText != nil {
		in.TextStyle = *styles.PathText
	}
	if styles.PathPlaceholder != nil {
		in.PlaceholderStyle = *styles.PathPlaceholder
	}
	if styles.Cursor != nil {
		in.Cursor.Style = *styles.Cursor
	}
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.watcher != nil {
		return waitForBackendEvent(m.watcher)
	}
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, finishUpdate(cmds)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Result returns the chosen path and whether the user confirmed it.
func (m *Model) Result() (string, bool) {
	return m.result, m.confirmed
}

// Selection returns the path currently selected in the browser.
func (m *Model) Selection() string {
	return m.fileBrowser().Selection()
}

func (m *Model) fileBrowser() *filebrowser.FileBrowser {
	return m.ui.Node(m.browser).(*filebrowser.FileBrowser)
}

func (m *Model) treeRoot() *tree.TreeRoot {
	return m.ui.Node(m.fileBrowser().TreeRoot()).(*tree.TreeRoot)
}

// treeFor returns the Tree whose path is exactly path.
func (m *Model) treeFor(path string) (widget.Handle, *tree.Tree, bool) {
	h := filebrowser.FindTree(m.ui, m.fileBrowser().TreeRoot(), path)
	c, ok := m.ui.TryNode(h)
	if !ok {
		return widget.None, nil, false
	}
	t, ok := c.(*tree.Tree)
	if !ok || !samePath(widget.UserDataOf[string](t), path) {
		return widget.None, nil, false
	}
	return h, t, true
}

func (m *Model) pathText() string {
	c, ok := m.ui.TryNode(m.fileBrowser().PathText())
	if !ok {
		return ""
	}
	return c.(*widget.TextBox).Text()
}

// sync drains the widget queue and projects the result onto rows, the
// path field, the footer details and the watched directory set.
func (m *Model) sync() {
	m.ui.Update()
	m.rows.SetItems(uistate.Flatten(m.ui, m.fileBrowser().TreeRoot()))
	if idx := m.rows.IndexOf(m.treeRoot().Selected()); idx >= 0 {
		m.rows.Cursor = idx
	}
	m.rows.EnsureCursorVisible(m.maxVisibleRows())
	if m.focus != focusPath {
		m.input.SetValue(m.pathText())
		m.input.CursorEnd()
	}
	m.details = loadDetails(m.Selection(), m.details)
	m.updateWatch()
}

func (m *Model) updateWatch() {
	if m.watcher == nil {
		return
	}
	dirs := make([]string, 0, 4)
	for _, row := range m.rows.Items {
		if row.Expanded && row.Path != "" {
			dirs = append(dirs, row.Path)
		}
	}
	if slices.Equal(dirs, m.watched) {
		return
	}
	m.watched = dirs
	m.watcher.Watch(dirs)
	events.Backend.Watch(dirs)
}
