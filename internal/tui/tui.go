// Package tui is the interactive todo list. Every edit goes straight to the
// store; the list is rebuilt from the store after each change.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todostore/internal/model"
	"github.com/idilsaglam/todostore/internal/store"
	"github.com/idilsaglam/todostore/internal/ui"
)

// listItem adapts a record to bubbles/list.Item.
type listItem struct {
	index int
	rec   model.Record
}

func (i listItem) FilterValue() string { return i.rec.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	box, text := t.Muted.Render(t.BoxUnchecked), it.rec.Title
	if it.rec.Done {
		box, text = t.Success.Render(t.BoxChecked), t.DoneText.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s %s", prefix, t.Muted.Render(fmt.Sprintf("%2d.", it.index)), box, text)
}

type mode int

const (
	browsing mode = iota
	adding
	editing
)

type modelTUI struct {
	st      *store.Store
	list    list.Model
	ti      textinput.Model // shared by add and edit
	mode    mode
	editID  uint64
	inputEr string
	// selection to restore once a pending re-filter lands
	pending    bool
	pendingID  uint64
	pendingPos int
	changed bool
	width   int
	height  int
}

var (
	addBind  = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	doneBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done"))
	delBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

func newModel(st *store.Store) modelTUI {
	t := ui.Current()
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, doneBind, delBind} }
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := modelTUI{st: st, list: l, ti: ti, width: 80, height: 24}
	m.reload(0)
	return m
}

// Run starts the program on st and reports whether anything was changed.
func Run(ctx context.Context, st *store.Store) (bool, error) {
	p := tea.NewProgram(newModel(st), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(modelTUI)
	return ok && fm.changed, nil
}

// reload rebuilds the list from the store and selects the record with
// selectID, or the nearest remaining position if it is gone. With a filter
// applied the list re-filters through the returned command, and the selection
// is restored when its FilterMatchesMsg comes back.
func (m *modelTUI) reload(selectID uint64) tea.Cmd {
	pos := m.list.Index()
	records := m.st.All()
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = listItem{index: i, rec: r}
	}
	cmd := m.list.SetItems(items)

	done, pending := m.st.Stats()
	t := ui.Current()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todos",
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), len(records),
	)

	m.pending, m.pendingID, m.pendingPos = true, selectID, pos
	if m.list.FilterState() == list.Unfiltered {
		m.restoreSelection()
	}
	return cmd
}

// restoreSelection moves the cursor to the pending record among the visible
// items. IDs start at 1, so a zero pendingID keeps the old position.
func (m *modelTUI) restoreSelection() {
	if !m.pending {
		return
	}
	m.pending = false
	visible := m.list.VisibleItems()
	pos := m.pendingPos
	for i, it := range visible {
		if li, ok := it.(listItem); ok && m.pendingID != 0 && li.rec.ID == m.pendingID {
			pos = i
			break
		}
	}
	if pos >= len(visible) {
		pos = len(visible) - 1
	}
	if pos >= 0 {
		m.list.Select(pos)
	}
}

func (m modelTUI) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}
	if fm, ok := msg.(list.FilterMatchesMsg); ok {
		m.list, _ = m.list.Update(fm)
		m.restoreSelection()
		return m, nil
	}

	switch m.mode {
	case adding, editing:
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch km.String() {
	case "q", "esc":
		return m, tea.Quit
	case " ":
		if it, ok := m.selected(); ok {
			if idx, err := m.st.IndexOf(it.rec.ID); err == nil && m.st.MarkDone(idx) == nil {
				m.changed = true
				return m, m.reload(it.rec.ID)
			}
		}
		return m, nil
	case "d":
		if it, ok := m.selected(); ok {
			if idx, err := m.st.IndexOf(it.rec.ID); err == nil && m.st.Delete(idx) == nil {
				m.changed = true
				return m, m.reload(0)
			}
		}
		return m, nil
	case "a":
		m.mode = adding
		m.inputEr = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "New todo title..."
		return m, m.ti.Focus()
	case "e":
		if it, ok := m.selected(); ok {
			m.mode = editing
			m.editID = it.rec.ID
			m.inputEr = ""
			m.ti.SetValue(it.rec.Title)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Edit todo title..."
			return m, m.ti.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.inputEr = "Title cannot be empty"
				return m, nil
			}
			var selectID uint64
			if m.mode == adding {
				idx := m.st.Create(title, "")
				if r, err := m.st.Get(idx); err == nil {
					selectID = r.ID
				}
				m.changed = true
			} else if m.applyEdit(title) {
				selectID = m.editID
				m.changed = true
			}
			m.leaveInput()
			return m, m.reload(selectID)
		case "esc":
			m.leaveInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// applyEdit retitles the record being edited, keeping its description. It
// reports false when the record is gone.
func (m *modelTUI) applyEdit(title string) bool {
	idx, err := m.st.IndexOf(m.editID)
	if err != nil {
		return false
	}
	cur, err := m.st.Get(idx)
	if err != nil {
		return false
	}
	return m.st.Update(idx, title, cur.Description) == nil
}

func (m *modelTUI) leaveInput() {
	m.mode = browsing
	m.editID = 0
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m modelTUI) View() string {
	listHeight := m.height - 4
	if m.mode != browsing {
		listHeight = m.height - 6
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View()
	if m.mode != browsing {
		t := ui.Current()
		title := "Add new todo"
		if m.mode == editing {
			title = "Edit todo"
		}
		if m.inputEr != "" {
			title += ": " + t.Error.Render(m.inputEr)
		}
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderColor).Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return ui.Frame(content)
}
