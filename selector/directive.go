package selector

import "github.com/initializ/modelcatalog/catalog"

// Display texts shared by every presentation surface.
const (
	LabelText   = "Model"
	BusyText    = "Loading models..."
	EmptyText   = "No models available"
	Placeholder = "Select a model"
)

// DirectiveKind enumerates the mutually exclusive display cases.
type DirectiveKind int

const (
	ShowBusy DirectiveKind = iota
	ShowError
	ShowEmpty
	ShowPicker
)

func (k DirectiveKind) String() string {
	switch k {
	case ShowBusy:
		return "busy"
	case ShowError:
		return "error"
	case ShowEmpty:
		return "empty"
	case ShowPicker:
		return "picker"
	}
	return "unknown"
}

// Option is one selectable row of the picker.
type Option struct {
	ID         string
	Label      string
	Annotation string // provider tag, empty when suppressed
}

// AnnotationText returns the annotation as displayed, e.g. "(anthropic)".
func (o Option) AnnotationText() string {
	if o.Annotation == "" {
		return ""
	}
	return "(" + o.Annotation + ")"
}

// Directive tells a presentation surface what to draw.
type Directive struct {
	Kind     DirectiveKind
	Label    string
	Message  string   // error text for ShowError, informational text otherwise
	Options  []Option // ShowPicker only
	Selected string   // ShowPicker only; always a concrete id
}

// Project maps a state and host selection to a directive. It is pure:
// identical inputs yield identical directives.
func Project(state State, selection string) Directive {
	switch state.Phase() {
	case PhaseLoading:
		return Directive{Kind: ShowBusy, Label: LabelText, Message: BusyText}
	case PhaseFailed:
		return Directive{Kind: ShowError, Label: LabelText, Message: state.Message()}
	}

	entries := state.Entries()
	if len(entries) == 0 {
		return Directive{Kind: ShowEmpty, Label: LabelText, Message: EmptyText}
	}

	options := make([]Option, len(entries))
	for i, e := range entries {
		options[i] = Option{ID: e.ID, Label: e.Name, Annotation: annotation(e.Provider)}
	}

	selected := selection
	if selected == "" {
		selected = entries[0].ID
	}
	return Directive{
		Kind:     ShowPicker,
		Label:    LabelText,
		Options:  options,
		Selected: selected,
	}
}

func annotation(provider string) string {
	if provider == "" || provider == catalog.DefaultProvider {
		return ""
	}
	return provider
}
