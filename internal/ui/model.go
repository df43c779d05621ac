package ui

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/theme"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/transfer"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/ui/command"
	uistate "github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/ui/state"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/views"
)

type level = uistate.Level

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Opener shows the current view for an ordering to a viewer.
type Opener interface {
	Open(viewer views.Viewer, o catalog.Ordering) error
}

// Refresher requests an out-of-band catalog refresh. It reports false when
// the request was throttled.
type Refresher interface {
	Refresh() bool
}

// Options configures a Model.
type Options struct {
	Context    context.Context
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Views      Opener
	Refresher  Refresher
	Launcher   transfer.Launcher
	Updates    <-chan struct{}
}

// Model implements the Bubble Tea model for the server list menu.
type Model struct {
	ctx               context.Context
	view              *views.MaterializedView
	ordering          catalog.Ordering
	level             *level
	loading           bool
	pendingLabel      string
	errMsg            string
	infoMsg           string
	infoExpire        time.Time
	width             int
	height            int
	fixedWidth        bool
	fixedHeight       bool
	showFooter        bool
	verbose           bool
	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler

	bus       *command.Bus
	launcher  transfer.Launcher
	opener    Opener
	refresher Refresher
	updates   <-chan struct{}
}

// NewModel initialises the UI. The list stays empty until a view is shown.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		ctx:        ctx,
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		bus:        command.New(opts.Launcher),
		launcher:   opts.Launcher,
		opener:     opts.Views,
		refresher:  opts.Refresher,
		updates:    opts.Updates,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.filterCursor = cursor.New()
	m.filterCursor.Style = *styles.Cursor
	m.filterCursor.TextStyle = *styles.Filter
	m.filterCursor.SetChar(" ")
	m.registerHandlers()
	return m
}

// Show replaces the displayed view. Switching ordering starts a fresh list on
// the first page; a refreshed view of the same ordering keeps the filter and
// follows the selected server.
func (m *Model) Show(view *views.MaterializedView) error {
	if view == nil {
		return fmt.Errorf("show: nil view")
	}
	m.view = view
	if m.level == nil || m.ordering != view.Ordering {
		m.level = uistate.NewLevel(view.Ordering.Wire(), view.Ordering.String(), view.Descriptors, view.PageSize)
	} else {
		m.level.UpdateItems(view.Descriptors)
	}
	m.ordering = view.Ordering
	m.syncViewport(m.level)
	return nil
}

// Ordering reports the ordering currently on screen.
func (m *Model) Ordering() catalog.Ordering {
	return m.ordering
}

// Init focuses the filter caret and starts listening for refreshed views.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.updates != nil {
		cmds = append(cmds, waitForViewUpdate(m.updates))
	}
	return batch(append(cmds, m.filterCursor.Focus()))
}

// Update passes every message to the filter caret, then to the handler
// registered for its type.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.updateFilterCursorModel(msg)}
	if handle := m.handlerFor(msg); handle != nil {
		cmds = append(cmds, handle(msg))
	}
	if m.filterCursorDirty {
		// Restart the blink cycle so the caret is solid right after an edit.
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		cmds = append(cmds, m.filterCursor.BlinkCmd())
	}
	return m, batch(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(menu.ActionResult{}): m.handleActionResultMsg,
		reflect.TypeOf(viewUpdatedMsg{}):    m.handleViewUpdatedMsg,
		reflect.TypeOf(updatesDoneMsg{}):    m.handleUpdatesDoneMsg,
	}
}

// handlerFor looks msg up by its type, treating *T like T.
func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return m.handlers[t]
}

// batch drops nil commands and returns nil when none are left.
func batch(cmds []tea.Cmd) tea.Cmd {
	cmds = slices.DeleteFunc(cmds, func(c tea.Cmd) bool { return c == nil })
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (m *Model) currentLevel() *level {
	return m.level
}
