package todoapp

import "github.com/idilsaglam/todoapp/internal/model"

// Result is implemented by every message App.Handle consumes.
type Result interface {
	result()
}

// FetchedMsg carries a list query result.
type FetchedMsg struct {
	Seq   uint64
	Items []model.Item
	Err   error
}

// CreatedMsg carries a creation result.
type CreatedMsg struct {
	Item model.Item
	Err  error
}

// SavedMsg carries an update result.
type SavedMsg struct {
	Item model.Item
	Err  error
}

// RemovedMsg carries a deletion result.
type RemovedMsg struct {
	ID  string
	Err error
}

// SummedMsg carries the result of the remote add.
type SummedMsg struct {
	Number1, Number2 float64
	Sum              float64
	Err              error
}

func (FetchedMsg) result() {}
func (CreatedMsg) result() {}
func (SavedMsg) result()   {}
func (RemovedMsg) result() {}
func (SummedMsg) result()  {}
