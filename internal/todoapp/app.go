// Package todoapp is the TodoApp component: one form, a todo list kept in
// sync with the remote API, a remote adder, and the toggle between them.
//
// Operations that reach the remote return a tea.Cmd. Running the command
// performs the call and produces a result message; feeding that message back
// through Handle applies it. All state lives on the App and is only touched
// by its methods, which the UI loop calls one at a time.
package todoapp

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/idilsaglam/todoapp/internal/api"
	"github.com/idilsaglam/todoapp/internal/diag"
	"github.com/idilsaglam/todoapp/internal/model"
)

// App holds the component state.
type App struct {
	remote api.Remote
	sink   diag.Sink

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	mode    model.Mode
	form    model.Form
	editing bool
	todos   []model.Item
	sum     float64
	lastErr error

	// fetchSeq numbers issued fetches; appliedSeq is the newest one whose
	// result replaced the list.
	fetchSeq   uint64
	appliedSeq uint64
}

// New builds an App in list mode with an empty form. A nil sink drops errors.
func New(remote api.Remote, sink diag.Sink) *App {
	if sink == nil {
		sink = diag.Func(func(error) {})
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		remote: remote,
		sink:   sink,
		ctx:    ctx,
		cancel: cancel,
		mode:   model.ListView,
	}
}

// Init returns the initial fetch.
func (a *App) Init() tea.Cmd { return a.FetchAll() }

// Close tears the component down. In-flight calls are cancelled and any
// result that still arrives is ignored.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.cancel()
}

func (a *App) Mode() model.Mode { return a.mode }
func (a *App) Form() model.Form { return a.form }
func (a *App) Editing() bool    { return a.editing }
func (a *App) Sum() float64     { return a.sum }
func (a *App) SumText() string  { return FormatNumber(a.sum) }
func (a *App) LastError() error { return a.lastErr }
func (a *App) Closed() bool     { return a.closed }

// Todos returns a copy of the displayed list.
func (a *App) Todos() []model.Item {
	out := make([]model.Item, len(a.todos))
	copy(out, a.todos)
	return out
}

// SetField stores value under key in the active form.
func (a *App) SetField(key, value string) {
	a.form.Set(key, value)
}

// ResetForm restores the empty form.
func (a *App) ResetForm() {
	a.form = model.Form{}
}

// Toggle switches between list and numbers mode, clearing the form and sum.
func (a *App) Toggle() {
	if a.mode == model.ListView {
		a.mode = model.NumbersView
	} else {
		a.mode = model.ListView
	}
	a.ResetForm()
	a.editing = false
	a.sum = 0
}

// FetchAll asks the remote for the whole list.
func (a *App) FetchAll() tea.Cmd {
	if a.closed {
		return nil
	}
	a.fetchSeq++
	seq := a.fetchSeq
	return a.call(func(ctx context.Context) tea.Msg {
		items, err := a.remote.ListTodos(ctx)
		return FetchedMsg{Seq: seq, Items: items, Err: err}
	})
}

// Create submits the list form as a new item. It does nothing unless both
// name and description are set. The item shows up at once as pending and is
// replaced by the fetch that follows the call.
func (a *App) Create() tea.Cmd {
	if a.closed {
		return nil
	}
	if a.form.Name == "" || a.form.Description == "" {
		return nil
	}
	item := model.Item{Name: a.form.Name, Description: a.form.Description}

	provisional := item
	provisional.LocalKey = uuid.NewString()
	provisional.Pending = true
	a.todos = append(a.todos, provisional)
	a.ResetForm()

	return a.call(func(ctx context.Context) tea.Msg {
		created, err := a.remote.CreateTodo(ctx, item)
		return CreatedMsg{Item: created, Err: err}
	})
}

// BeginEdit loads item into the form and switches the form to update mode.
func (a *App) BeginEdit(item model.Item) {
	a.editing = true
	a.form = model.Form{ID: item.ID, Name: item.Name, Description: item.Description}
}

// CancelEdit leaves update mode without sending anything.
func (a *App) CancelEdit() {
	a.editing = false
	a.ResetForm()
}

// Save sends the form as an update of the item being edited.
func (a *App) Save() tea.Cmd {
	if a.closed {
		return nil
	}
	item := a.form.Item()
	return a.call(func(ctx context.Context) tea.Msg {
		saved, err := a.remote.UpdateTodo(ctx, item)
		return SavedMsg{Item: saved, Err: err}
	})
}

// Submit runs Save while editing and Create otherwise.
func (a *App) Submit() tea.Cmd {
	if a.mode == model.NumbersView {
		return a.ComputeSum()
	}
	if a.editing {
		return a.Save()
	}
	return a.Create()
}

// Remove deletes item on the remote.
func (a *App) Remove(item model.Item) tea.Cmd {
	if a.closed {
		return nil
	}
	id := item.ID
	return a.call(func(ctx context.Context) tea.Msg {
		deleted, err := a.remote.DeleteTodo(ctx, id)
		return RemovedMsg{ID: deleted, Err: err}
	})
}

// ComputeSum asks the remote to add the two number fields.
func (a *App) ComputeSum() tea.Cmd {
	if a.closed {
		return nil
	}
	n1, n2 := ToNumber(a.form.Number1), ToNumber(a.form.Number2)
	return a.call(func(ctx context.Context) tea.Msg {
		sum, err := a.remote.Add(ctx, n1, n2)
		return SummedMsg{Number1: n1, Number2: n2, Sum: sum, Err: err}
	})
}

// Handle applies a result message and returns the follow-up command, if any.
// Messages that are not results are ignored.
func (a *App) Handle(msg tea.Msg) tea.Cmd {
	if a.closed {
		return nil
	}
	switch msg := msg.(type) {
	case FetchedMsg:
		if msg.Err != nil {
			a.report(FetchFailure, msg.Err)
			return nil
		}
		if msg.Seq <= a.appliedSeq {
			return nil
		}
		a.appliedSeq = msg.Seq
		a.todos = msg.Items
		return nil

	case CreatedMsg:
		if msg.Err != nil {
			a.report(CreateFailure, msg.Err)
		}
		return a.FetchAll()

	case SavedMsg:
		if msg.Err != nil {
			a.report(UpdateFailure, msg.Err)
		}
		cmd := a.FetchAll()
		a.ResetForm()
		a.editing = false
		return cmd

	case RemovedMsg:
		if msg.Err != nil {
			a.report(DeleteFailure, msg.Err)
		}
		a.ResetForm()
		a.editing = false
		return a.FetchAll()

	case SummedMsg:
		if msg.Err != nil {
			a.report(ComputeFailure, msg.Err)
			return nil
		}
		a.sum = msg.Sum
		return nil
	}
	return nil
}

// Drive runs cmd and every follow-up synchronously. Headless callers use it
// in place of a Bubble Tea program.
func (a *App) Drive(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				a.Drive(c)
			}
			return
		}
		cmd = a.Handle(msg)
	}
}

func (a *App) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg { return fn(ctx) }
}

func (a *App) report(kind Kind, err error) {
	oe := &OpError{Kind: kind, Err: err}
	a.lastErr = oe
	a.sink.Report(oe)
}
