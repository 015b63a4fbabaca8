package model

import "time"

// Item is the domain model for a todo entry as the remote API returns it.
// ID is empty until the remote has created the item.
type Item struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`

	// Provisional entries inserted before the remote confirmed them.
	LocalKey string `json:"-"`
	Pending  bool   `json:"-"`
}

// Key identifies the item in rendered lists.
func (i Item) Key() string {
	if i.ID != "" {
		return i.ID
	}
	return i.LocalKey
}
