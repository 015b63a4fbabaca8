package todoapp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoapp/internal/diag"
	"github.com/idilsaglam/todoapp/internal/model"
)

// fakeRemote is an in-memory api.Remote that records every call.
type fakeRemote struct {
	mu     sync.Mutex
	items  []model.Item
	nextID int
	calls  []string

	updated []model.Item
	added   [][2]float64

	listErr, createErr, updateErr, deleteErr, addErr error
}

func (f *fakeRemote) record(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) ListTodos(ctx context.Context) ([]model.Item, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Item(nil), f.items...), nil
}

func (f *fakeRemote) CreateTodo(ctx context.Context, item model.Item) (model.Item, error) {
	f.record("create")
	if f.createErr != nil {
		return model.Item{}, f.createErr
	}
	f.nextID++
	item.ID = fmt.Sprintf("id-%d", f.nextID)
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeRemote) UpdateTodo(ctx context.Context, item model.Item) (model.Item, error) {
	f.record("update")
	f.updated = append(f.updated, item)
	if f.updateErr != nil {
		return model.Item{}, f.updateErr
	}
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items[i] = item
		}
	}
	return item, nil
}

func (f *fakeRemote) DeleteTodo(ctx context.Context, id string) (string, error) {
	f.record("delete")
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	return id, nil
}

func (f *fakeRemote) Add(ctx context.Context, number1, number2 float64) (float64, error) {
	f.record("add")
	f.added = append(f.added, [2]float64{number1, number2})
	if f.addErr != nil {
		return 0, f.addErr
	}
	return number1 + number2, nil
}

func newTestApp(t *testing.T, remote *fakeRemote) (*App, *diag.Recorder) {
	t.Helper()
	rec := &diag.Recorder{}
	app := New(remote, rec)
	t.Cleanup(app.Close)
	return app, rec
}

func TestInitFetchesList(t *testing.T) {
	remote := &fakeRemote{items: []model.Item{{ID: "1", Name: "a", Description: "b"}}}
	app, _ := newTestApp(t, remote)

	app.Drive(app.Init())

	require.Equal(t, []string{"list"}, remote.Calls())
	require.Equal(t, remote.items, app.Todos())
}

func TestFetchFailureKeepsList(t *testing.T) {
	remote := &fakeRemote{items: []model.Item{{ID: "1", Name: "a", Description: "b"}}}
	app, rec := newTestApp(t, remote)
	app.Drive(app.FetchAll())

	remote.listErr = errors.New("network down")
	app.Drive(app.FetchAll())

	require.Len(t, app.Todos(), 1)
	require.Len(t, rec.Errors(), 1)
	require.Equal(t, FetchFailure, KindOf(rec.Last()))
	require.ErrorIs(t, rec.Last(), remote.listErr)
}

func TestCreateScenario(t *testing.T) {
	remote := &fakeRemote{}
	app, rec := newTestApp(t, remote)

	app.SetField(model.FieldName, "Buy milk")
	app.SetField(model.FieldDescription, "2%")
	cmd := app.Create()
	require.NotNil(t, cmd)

	// provisional entry before any remote call
	todos := app.Todos()
	require.Len(t, todos, 1)
	require.Equal(t, "Buy milk", todos[0].Name)
	require.Equal(t, "2%", todos[0].Description)
	require.True(t, todos[0].Pending)
	require.Empty(t, todos[0].ID)
	require.NotEmpty(t, todos[0].LocalKey)
	require.Equal(t, model.Form{}, app.Form())
	require.Empty(t, remote.Calls())

	app.Drive(cmd)

	require.Equal(t, []string{"create", "list"}, remote.Calls())
	todos = app.Todos()
	require.Len(t, todos, 1)
	require.Equal(t, "id-1", todos[0].ID)
	require.False(t, todos[0].Pending)
	require.Empty(t, rec.Errors())
}

func TestCreateRequiresBothFields(t *testing.T) {
	cases := []struct{ name, description string }{
		{"", ""},
		{"Buy milk", ""},
		{"", "2%"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q/%q", tc.name, tc.description), func(t *testing.T) {
			remote := &fakeRemote{}
			app, _ := newTestApp(t, remote)
			app.SetField(model.FieldName, tc.name)
			app.SetField(model.FieldDescription, tc.description)

			require.Nil(t, app.Create())
			require.Empty(t, remote.Calls())
			require.Empty(t, app.Todos())
			require.Equal(t, tc.name, app.Form().Name)
		})
	}
}

func TestCreateFailureStillRefetches(t *testing.T) {
	remote := &fakeRemote{createErr: errors.New("denied"), listErr: errors.New("offline")}
	app, rec := newTestApp(t, remote)
	app.SetField(model.FieldName, "n")
	app.SetField(model.FieldDescription, "d")

	app.Drive(app.Create())

	require.Equal(t, []string{"create", "list"}, remote.Calls())
	// the provisional entry stays until a fetch succeeds
	require.Len(t, app.Todos(), 1)
	require.True(t, app.Todos()[0].Pending)
	require.Len(t, rec.Errors(), 2)
	require.Equal(t, CreateFailure, KindOf(rec.Errors()[0]))
	require.Equal(t, FetchFailure, KindOf(rec.Errors()[1]))

	remote.listErr = nil
	app.Drive(app.FetchAll())
	require.Empty(t, app.Todos())
}

func TestBeginEditThenSave(t *testing.T) {
	for _, fail := range []bool{false, true} {
		t.Run(fmt.Sprintf("fail=%v", fail), func(t *testing.T) {
			item := model.Item{ID: "42", Name: "old", Description: "desc"}
			remote := &fakeRemote{items: []model.Item{item}}
			if fail {
				remote.updateErr = errors.New("conflict")
			}
			app, rec := newTestApp(t, remote)

			app.BeginEdit(item)
			require.True(t, app.Editing())
			require.Equal(t, model.Form{ID: "42", Name: "old", Description: "desc"}, app.Form())
			require.Empty(t, remote.Calls())

			app.SetField(model.FieldName, "new")
			app.Drive(app.Submit())

			require.Equal(t, []string{"update", "list"}, remote.Calls())
			require.Equal(t, []model.Item{{ID: "42", Name: "new", Description: "desc"}}, remote.updated)
			require.False(t, app.Editing())
			require.Equal(t, model.Form{}, app.Form())
			if fail {
				require.Equal(t, UpdateFailure, KindOf(rec.Last()))
				require.Equal(t, "old", app.Todos()[0].Name)
			} else {
				require.Empty(t, rec.Errors())
				require.Equal(t, "new", app.Todos()[0].Name)
			}
		})
	}
}

func TestRemoveAlwaysClearsAndRefetches(t *testing.T) {
	for _, fail := range []bool{false, true} {
		t.Run(fmt.Sprintf("fail=%v", fail), func(t *testing.T) {
			item := model.Item{ID: "7", Name: "n", Description: "d"}
			remote := &fakeRemote{items: []model.Item{item}}
			if fail {
				remote.deleteErr = errors.New("gone")
			}
			app, rec := newTestApp(t, remote)
			app.BeginEdit(item)

			app.Drive(app.Remove(item))

			require.Equal(t, []string{"delete", "list"}, remote.Calls())
			require.Equal(t, model.Form{}, app.Form())
			require.False(t, app.Editing())
			if fail {
				require.Equal(t, DeleteFailure, KindOf(rec.Last()))
				require.Len(t, app.Todos(), 1)
			} else {
				require.Empty(t, app.Todos())
			}
		})
	}
}

func TestComputeSum(t *testing.T) {
	remote := &fakeRemote{}
	app, _ := newTestApp(t, remote)
	app.Toggle()

	app.SetField(model.FieldNumber1, "3")
	app.SetField(model.FieldNumber2, "4")
	app.Drive(app.Submit())
	require.Equal(t, 7.0, app.Sum())
	require.Equal(t, "7", app.SumText())

	app.SetField(model.FieldNumber1, "")
	app.SetField(model.FieldNumber2, "5")
	app.Drive(app.ComputeSum())
	require.Equal(t, [2]float64{0, 5}, remote.added[1])
	require.Equal(t, 5.0, app.Sum())
}

func TestComputeSumFailureKeepsSum(t *testing.T) {
	remote := &fakeRemote{}
	app, rec := newTestApp(t, remote)
	app.Toggle()
	app.SetField(model.FieldNumber1, "1")
	app.SetField(model.FieldNumber2, "2")
	app.Drive(app.ComputeSum())

	remote.addErr = errors.New("resolver error")
	app.SetField(model.FieldNumber2, "9")
	app.Drive(app.ComputeSum())

	require.Equal(t, 3.0, app.Sum())
	require.Equal(t, ComputeFailure, KindOf(rec.Last()))
}

func TestToggleTwiceResets(t *testing.T) {
	remote := &fakeRemote{}
	app, _ := newTestApp(t, remote)
	app.BeginEdit(model.Item{ID: "9", Name: "n", Description: "d"})
	app.SetField(model.FieldName, "half typed")

	app.Toggle()
	require.Equal(t, model.NumbersView, app.Mode())
	require.Equal(t, model.Form{}, app.Form())
	require.False(t, app.Editing())

	app.SetField(model.FieldNumber1, "3")
	app.SetField(model.FieldNumber2, "4")
	app.Drive(app.ComputeSum())
	require.Equal(t, 7.0, app.Sum())

	app.Toggle()
	require.Equal(t, model.ListView, app.Mode())
	require.Equal(t, model.Form{}, app.Form())
	require.Zero(t, app.Sum())
	require.False(t, app.Editing())
	require.Equal(t, []string{"add"}, remote.Calls())
}

func TestStaleFetchIsDropped(t *testing.T) {
	remote := &fakeRemote{}
	app, _ := newTestApp(t, remote)

	older := app.FetchAll()
	newer := app.FetchAll()

	remote.items = []model.Item{{ID: "new"}}
	app.Handle(newer())
	remote.items = []model.Item{{ID: "old"}}
	app.Handle(older())

	require.Equal(t, "new", app.Todos()[0].ID)
}

func TestResultsAfterCloseAreIgnored(t *testing.T) {
	remote := &fakeRemote{items: []model.Item{{ID: "1"}}}
	app, _ := newTestApp(t, remote)
	cmd := app.FetchAll()

	app.Close()
	require.Nil(t, app.Handle(cmd()))
	require.Empty(t, app.Todos())
	require.Nil(t, app.FetchAll())
}

func TestHandleIgnoresForeignMessages(t *testing.T) {
	app, _ := newTestApp(t, &fakeRemote{})
	require.Nil(t, app.Handle(tea.KeyMsg{Type: tea.KeyEnter}))
}
