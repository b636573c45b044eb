package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/initializ/modelcatalog/selector"
)

// Step is a self-contained screen hosted by the Picker.
type Step interface {
	Title() string
	Icon() string
	Init() tea.Cmd
	Update(msg tea.Msg) (Step, tea.Cmd)
	View(width int) string
	Complete() bool
	Summary() string
}

// SelectorStep is a Step that renders a controlled selection. The host calls
// SetProps before every Update, View and Directive call and Teardown when it stops hosting
// the step.
type SelectorStep interface {
	Step
	SetProps(props selector.Props)
	Directive() selector.Directive
	Teardown()
}

// StepCompleteMsg is emitted by a step once the user has confirmed it.
type StepCompleteMsg struct{}

// CatalogLoadedMsg carries the outcome of the catalog fetch back into the
// update loop.
type CatalogLoadedMsg struct {
	Result selector.Result
}
