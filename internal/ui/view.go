package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1)

	boxTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")).
			Strikethrough(true)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("238"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("86")).
			Padding(1, 2)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))
)

const (
	cursorMark = "► "
	noCursor   = "  "
	shortcuts  = "a:add | Space:toggle | d:delete | h:help | q:quit"

	// rows taken by header, box borders and status bar
	chromeRows = 9
)

type helpSection struct {
	title string
	keys  [][2]string
}

var helpSections = []helpSection{
	{"Navigation", [][2]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"Home/g", "Go to top"},
		{"End/G", "Go to bottom"},
	}},
	{"Actions", [][2]string{
		{"a", "Add new task"},
		{"Space", "Toggle task completion"},
		{"d", "Delete selected task"},
		{"r", "Refresh tasks"},
	}},
	{"General", [][2]string{
		{"h/?", "Toggle this help"},
		{"q", "Quit"},
		{"Ctrl+C", "Force quit"},
	}},
	{"Insert Mode", [][2]string{
		{"Enter", "Save task"},
		{"Esc", "Cancel editing"},
	}},
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.mode == modeEditing {
		body = m.viewInput()
	} else {
		body = m.viewTasks()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.viewStatus(),
	)
	if m.mode == modeHelp {
		return m.overlayHelp(screen)
	}
	return screen
}

func (m *Model) viewHeader() string {
	title := "Claw - Task Manager"
	switch m.mode {
	case modeEditing:
		title = "Claw - Add New Task"
	case modeHelp:
		title = "Claw - Help"
	}
	style := headerStyle
	if m.width > 2 {
		style = style.Width(m.width - 2).Align(lipgloss.Center)
	}
	return style.Render(title)
}

func (m *Model) viewTasks() string {
	total := m.store.Len()
	title := boxTitleStyle.Render(fmt.Sprintf("Tasks (%d/%d)", total, m.store.Pending()))

	var b strings.Builder
	b.WriteString(title + "\n")
	if total == 0 {
		b.WriteString("\n" + emptyStyle.Render("No tasks yet!\n\nPress 'a' to add your first task"))
		return m.box(b.String())
	}

	start, end := visibleRange(total, m.cursor, m.listRows())
	for i := start; i < end; i++ {
		t, _ := m.store.At(i)
		line := t.String()
		if t.Completed {
			line = doneStyle.Render(line)
		} else {
			line = pendingStyle.Render(line)
		}
		if i == m.cursor {
			line = selectedStyle.Render(cursorMark + line)
		} else {
			line = noCursor + line
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return m.box(b.String())
}

func (m *Model) viewInput() string {
	field := boxStyle.Render(boxTitleStyle.Render("New Task Title") + "\n" + inputStyle.Render(string(m.input)) + "█")
	hint := hintStyle.Render("Enter: Save task | Esc: Cancel")
	return lipgloss.JoinVertical(lipgloss.Left, field, hint)
}

func (m *Model) viewStatus() string {
	text := m.status
	if m.mode != modeEditing {
		text = m.status + " | " + shortcuts
	}
	style := statusStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(text)
}

func (m *Model) box(content string) string {
	style := boxStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(content)
}

func (m *Model) overlayHelp(screen string) string {
	var b strings.Builder
	b.WriteString(helpSectionStyle.Render("Keyboard Shortcuts") + "\n")
	for _, section := range helpSections {
		b.WriteString("\n" + helpSectionStyle.Render(section.title+":") + "\n")
		for _, kv := range section.keys {
			b.WriteString(fmt.Sprintf("  %s - %s\n", helpKeyStyle.Render(fmt.Sprintf("%-7s", kv[0])), kv[1]))
		}
	}
	b.WriteString("\nPress 'h' again to close this help")
	popup := helpStyle.Render(b.String())

	if m.width == 0 || m.height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, screen, popup)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popup)
}

func (m *Model) listRows() int {
	if m.height == 0 {
		return 0
	}
	return max(m.height-chromeRows, 1)
}

// visibleRange returns the window [start, end) of n rows that keeps cursor
// on screen. rows <= 0 means unlimited.
func visibleRange(n, cursor, rows int) (int, int) {
	if rows <= 0 || n <= rows {
		return 0, n
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}
