package model

// Mode selects which view (and which form shape) is active.
type Mode int

const (
	ListView Mode = iota
	NumbersView
)

func (m Mode) String() string {
	if m == NumbersView {
		return "Numbers"
	}
	return "List View"
}

// Form field keys.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldNumber1     = "number1"
	FieldNumber2     = "number2"
)

// Form holds the single active form. Only the fields of the current mode
// are meaningful; the number fields are free text.
type Form struct {
	ID          string
	Name        string
	Description string

	Number1 string
	Number2 string
}

// Set stores value under key. Unknown keys are ignored.
func (f *Form) Set(key, value string) {
	switch key {
	case FieldID:
		f.ID = value
	case FieldName:
		f.Name = value
	case FieldDescription:
		f.Description = value
	case FieldNumber1:
		f.Number1 = value
	case FieldNumber2:
		f.Number2 = value
	}
}

// Get returns the value stored under key.
func (f Form) Get(key string) string {
	switch key {
	case FieldID:
		return f.ID
	case FieldName:
		return f.Name
	case FieldDescription:
		return f.Description
	case FieldNumber1:
		return f.Number1
	case FieldNumber2:
		return f.Number2
	}
	return ""
}

// Item returns the list-mode shape of the form.
func (f Form) Item() Item {
	return Item{ID: f.ID, Name: f.Name, Description: f.Description}
}

// Fields lists the keys the form exposes in the given mode, in display order.
func Fields(m Mode) []string {
	if m == NumbersView {
		return []string{FieldNumber1, FieldNumber2}
	}
	return []string{FieldName, FieldDescription}
}
