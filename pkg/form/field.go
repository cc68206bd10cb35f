// Package form models the order detail form: a flat list of identified
// fields that can flip between free-text inputs and choice lists as
// reference data arrives, without losing what the user already entered.
package form

// Placeholder is the first option of every choice field, representing "no
// selection".
const Placeholder = "-- Sélectionner --"

// Kind tells how a field is edited.
type Kind int

const (
	Text Kind = iota
	Choice
)

// Field is one form control. Value always holds the current edit value;
// Options only applies to Choice fields and always starts with Placeholder.
// prev carries the value a field held before it was converted to a choice,
// so hydration can restore it once the option list exists.
type Field struct {
	ID          string
	Name        string
	Kind        Kind
	Style       string
	Placeholder string
	Required    bool
	Disabled    bool
	Hidden      bool
	Attrs       map[string]string
	Value       string
	Options     []string

	prev    string
	hasPrev bool
}

// Materialize returns f converted to the requested kind. The conversion is
// pure and loses nothing: identity, style, flags, and attributes carry over.
// A text-to-choice conversion stashes the current value so it can be
// restored after the options are loaded; converting a field already of the
// requested kind only drops a stale stash.
func Materialize(f Field, kind Kind) Field {
	if f.Kind == kind {
		f.prev = ""
		f.hasPrev = false
		return f
	}
	out := f
	out.Kind = kind
	switch kind {
	case Choice:
		out.Options = []string{Placeholder}
		out.prev = f.Value
		out.hasPrev = true
	case Text:
		out.Options = nil
		out.prev = ""
		out.hasPrev = false
	}
	return out
}

// Form is an ordered set of fields indexed by id.
type Form struct {
	order []string
	byID  map[string]*Field
}

// New builds a form from fields in display order. Duplicate ids keep the
// first occurrence.
func New(fields ...Field) *Form {
	f := &Form{byID: make(map[string]*Field, len(fields))}
	for i := range fields {
		fld := fields[i]
		if _, ok := f.byID[fld.ID]; ok {
			continue
		}
		f.order = append(f.order, fld.ID)
		f.byID[fld.ID] = &fld
	}
	return f
}

// Get returns the field with the given id, nil when absent.
func (f *Form) Get(id string) *Field {
	return f.byID[id]
}

// IDs returns the field ids in display order.
func (f *Form) IDs() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Fields returns the fields in display order.
func (f *Form) Fields() []*Field {
	out := make([]*Field, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.byID[id])
	}
	return out
}

// Set replaces the stored field with the same id. Unknown ids are appended.
func (f *Form) Set(fld Field) {
	if _, ok := f.byID[fld.ID]; !ok {
		f.order = append(f.order, fld.ID)
	}
	f.byID[fld.ID] = &fld
}

// Values returns the current value of every field by id.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.order))
	for _, id := range f.order {
		out[id] = f.byID[id].Value
	}
	return out
}

// SetValue updates one field's value. Unknown ids are ignored.
func (f *Form) SetValue(id, value string) {
	if fld, ok := f.byID[id]; ok {
		fld.Value = value
	}
}
