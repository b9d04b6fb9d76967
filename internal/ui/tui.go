// Package ui provides the full-screen interactive task editor.
//
// The editor works on an in-memory store and never persists anything
// itself; Run hands the final store back so the caller can flush it.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskclaw/internal/task"
)

// ErrNotTTY is returned by Run when stdout is not a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

// Status bar messages.
const (
	msgWelcome    = "Press 'h' for help, 'q' to quit"
	msgEnterTitle = "Enter task title (Esc to cancel, Enter to save)"
	msgEmptyTitle = "Task title cannot be empty"
	msgCancelled  = "Cancelled"
	msgRefreshed  = "Tasks refreshed"
)

// refreshInterval is how often the screen is redrawn without input.
const refreshInterval = 100 * time.Millisecond

type tickMsg time.Time

type mode int

const (
	modeNormal mode = iota
	modeEditing
	modeHelp
)

// Model is the bubbletea model of the editor.
type Model struct {
	store    *task.Store
	mode     mode
	input    []rune
	cursor   int
	status   string
	quitting bool
	width    int
	height   int

	tickInterval time.Duration
}

// New returns an editor over store, starting in normal mode.
func New(store *task.Store) *Model {
	return &Model{
		store:        store,
		mode:         modeNormal,
		status:       msgWelcome,
		tickInterval: refreshInterval,
	}
}

// Run shows the editor until the user quits or ctx is cancelled, then
// returns the edited store. The store is returned even when the program
// ends with an error.
func Run(ctx context.Context, store *task.Store) (*task.Store, error) {
	if !IsTTY(os.Stdout) {
		return nil, ErrNotTTY
	}
	model := New(store)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if m, ok := final.(*Model); ok && m != nil {
		return m.Store(), err
	}
	return model.Store(), err
}

// Store returns the store the editor mutates.
func (m *Model) Store() *task.Store {
	return m.store
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.tickInterval)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model. Each key is routed to the handler of the
// current mode.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tickCmd(m.tickInterval)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		switch m.mode {
		case modeEditing:
			return m.updateEditing(msg)
		case modeHelp:
			return m.updateHelp(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "h", "?":
		m.mode = modeHelp
	case "a":
		m.mode = modeEditing
		m.input = m.input[:0]
		m.status = msgEnterTitle
	case "d":
		m.deleteSelected()
	case "r":
		m.refresh()
	case " ", "space":
		m.toggleSelected()
	case "down", "j":
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(m.store.Len()-1, 0)
	}
	return m, nil
}

// Help is an overlay: anything but its own close keys acts as in normal mode.
func (m *Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "?", "esc":
		m.mode = modeNormal
		return m, nil
	}
	return m.updateNormal(msg)
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.commitInput()
	case tea.KeyEsc:
		m.input = m.input[:0]
		m.mode = modeNormal
		m.status = msgCancelled
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m *Model) commitInput() {
	title := strings.TrimSpace(string(m.input))
	if title == "" {
		m.status = msgEmptyTitle
		return
	}
	added, err := m.store.Add(title)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.input = m.input[:0]
	m.mode = modeNormal
	m.status = fmt.Sprintf("Added task [%d]: %s", added.ID, added.Title)
}

// refresh re-reads the store and clamps the cursor to it.
func (m *Model) refresh() {
	if m.cursor >= m.store.Len() {
		m.cursor = max(m.store.Len()-1, 0)
	}
	m.status = msgRefreshed
}

func (m *Model) deleteSelected() {
	t, ok := m.store.At(m.cursor)
	if !ok {
		return
	}
	removed, err := m.store.Remove(task.IDRef(t.ID))
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	if removed {
		m.status = fmt.Sprintf("Deleted task %d", t.ID)
	}
	if m.cursor >= m.store.Len() && m.cursor > 0 {
		m.cursor = m.store.Len() - 1
	}
}

func (m *Model) toggleSelected() {
	t, ok := m.store.At(m.cursor)
	if !ok {
		return
	}
	if _, err := m.store.Toggle(task.IDRef(t.ID)); err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	if t.Completed {
		m.status = fmt.Sprintf("Reopened task %d", t.ID)
	} else {
		m.status = fmt.Sprintf("Completed task %d", t.ID)
	}
}
