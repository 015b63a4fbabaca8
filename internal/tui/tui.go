package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoapp/internal/api"
	"github.com/idilsaglam/todoapp/internal/model"
	"github.com/idilsaglam/todoapp/internal/todoapp"
	"github.com/idilsaglam/todoapp/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	item model.Item
}

func (i listItem) Title() string       { return i.item.Name }
func (i listItem) Description() string { return i.item.Description }
func (i listItem) FilterValue() string { return i.item.Name }

// Custom delegate: name on one line, description muted underneath.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	t := ui.Current()

	name := it.item.Name
	marker := t.Muted.Render(t.SymItem)
	if it.item.Pending {
		marker = t.Pending.Render(t.SymPending)
		name = t.Pending.Render(name + " (pending)")
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s\n", prefix, marker, name)
	fmt.Fprintf(w, "    %s", t.Muted.Render(it.item.Description))
}

type keyMap struct {
	Next, Prev, Submit, Toggle key.Binding
	Edit, Delete, Refresh      key.Binding
	Cancel, Quit               key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Toggle:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "switch view")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel edit")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Toggle, k.Edit, k.Delete, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Submit, k.Toggle},
		{k.Edit, k.Delete, k.Refresh, k.Cancel, k.Quit},
	}
}

// Options tune the TUI.
type Options struct {
	// Monitor, when set, feeds the request stats in the status line.
	Monitor *api.Monitor
	// ShowErrors shows the last failed call in the status line.
	ShowErrors bool
}

// Model is the Bubble Tea model around a todoapp.App.
type Model struct {
	app  *todoapp.App
	opt  Options
	keys keyMap
	help help.Model

	list   list.Model
	inputs []textinput.Model
	// focus indexes inputs; len(inputs) means the list has focus.
	focus int

	width, height int
}

// New builds the TUI for app.
func New(app *todoapp.App, opt Options) Model {
	t := ui.Current()
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Todos"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = t.Title
	l.Styles.PaginationStyle = t.Help
	l.SetStatusBarItemName("todo", "todos")

	inputs := make([]textinput.Model, 2)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 200
		inputs[i] = ti
	}

	m := Model{
		app:    app,
		opt:    opt,
		keys:   newKeyMap(),
		help:   help.New(),
		list:   l,
		inputs: inputs,
		width:  80,
		height: 24,
	}
	m.syncInputs()
	m.setFocus(0)
	return m
}

// App exposes the wrapped component.
func (m Model) App() *todoapp.App { return m.app }

// Run starts the program and blocks until the user quits.
func Run(app *todoapp.App, opt Options) error {
	p := tea.NewProgram(New(app, opt), tea.WithAltScreen())
	_, err := p.Run()
	app.Close()
	return err
}

// Init fetches the list, the equivalent of mounting the component.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.app.Init(), textinput.Blink)
}

func (m Model) listFocused() bool { return m.focus == len(m.inputs) }

func (m *Model) setFocus(i int) {
	n := len(m.inputs) + 1
	m.focus = ((i % n) + n) % n
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// syncInputs copies the app form (and mode placeholders) into the inputs.
func (m *Model) syncInputs() {
	fields := model.Fields(m.app.Mode())
	form := m.app.Form()
	for i, f := range fields {
		m.inputs[i].Placeholder = placeholder(f)
		m.inputs[i].SetValue(form.Get(f))
		m.inputs[i].CursorEnd()
	}
}

func placeholder(field string) string {
	switch field {
	case model.FieldName:
		return "Name"
	case model.FieldDescription:
		return "Description"
	case model.FieldNumber1:
		return "Number 1"
	case model.FieldNumber2:
		return "Number 2"
	}
	return field
}

func (m *Model) refreshList() tea.Cmd {
	todos := m.app.Todos()
	items := make([]list.Item, 0, len(todos))
	for _, it := range todos {
		items = append(items, listItem{item: it})
	}
	return m.list.SetItems(items)
}

func (m Model) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.item, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width-4, m.listHeight())
		return m, nil

	case todoapp.Result:
		before := m.app.Form()
		cmd := m.app.Handle(msg)
		// only a finished save or delete touches the form; leave the cursor alone otherwise
		if m.app.Form() != before {
			m.syncInputs()
		}
		return m, tea.Batch(cmd, m.refreshList())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if !m.listFocused() {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		m.app.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.setFocus(m.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.setFocus(m.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		m.app.Toggle()
		m.syncInputs()
		m.setFocus(0)
		m.list.SetSize(m.width-4, m.listHeight())
		return m, nil
	case key.Matches(msg, m.keys.Cancel) && m.app.Editing():
		m.app.CancelEdit()
		m.syncInputs()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		cmd := m.app.Submit()
		m.syncInputs()
		if m.app.Mode() == model.ListView {
			return m, tea.Batch(cmd, m.refreshList())
		}
		return m, cmd
	}

	if !m.listFocused() {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		field := model.Fields(m.app.Mode())[m.focus]
		m.app.SetField(field, m.inputs[m.focus].Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.app.Close()
		return m, tea.Quit
	}
	if m.app.Mode() != model.ListView {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		if it, ok := m.selected(); ok && !it.Pending {
			m.app.BeginEdit(it)
			m.syncInputs()
			m.setFocus(0)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if it, ok := m.selected(); ok && !it.Pending {
			return m, m.app.Remove(it)
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.app.FetchAll()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) listHeight() int {
	h := m.height - 14
	if h < 4 {
		h = 4
	}
	return h
}

func (m Model) View() string {
	t := ui.Current()
	var b strings.Builder

	mode := m.app.Mode()
	b.WriteString(t.Title.Render("Todo App"))
	b.WriteString("  ")
	b.WriteString(t.Accent.Render("[" + mode.String() + "]"))
	b.WriteString("\n\n")

	var form []string
	for i := range model.Fields(mode) {
		line := m.inputs[i].View()
		if i == m.focus {
			line = t.Focused.Render(line)
		}
		form = append(form, line)
	}
	form = append(form, t.Muted.Render("enter: "+submitLabel(m.app)))
	b.WriteString(ui.PanelString(strings.Join(form, "\n")))
	b.WriteString("\n")

	if mode == model.NumbersView {
		b.WriteString(fmt.Sprintf("The sum is %s\n", t.Success.Render(m.app.SumText())))
	} else {
		m.list.SetSize(m.width-4, m.listHeight())
		body := m.list.View()
		if len(m.list.Items()) == 0 {
			body = t.Muted.Render("no todos yet")
		}
		b.WriteString(body)
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func submitLabel(app *todoapp.App) string {
	switch {
	case app.Mode() == model.NumbersView:
		return "Add Values"
	case app.Editing():
		return "Save Todo"
	}
	return "Create Todo"
}

func (m Model) statusLine() string {
	t := ui.Current()
	var parts []string
	if m.opt.Monitor != nil {
		parts = append(parts, m.opt.Monitor.Stats().String())
	}
	if m.opt.ShowErrors {
		if err := m.app.LastError(); err != nil {
			parts = append(parts, t.Error.Render(t.SymFail+" "+err.Error()))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return t.Help.Render(strings.Join(parts, "  ·  "))
}
