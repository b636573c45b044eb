package steps

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/initializ/modelcatalog/internal/tui"
	"github.com/initializ/modelcatalog/internal/tui/components"
	"github.com/initializ/modelcatalog/selector"
)

// ModelStep renders a selector.Selector: a spinner while the catalog loads,
// inline error or empty text, and a dropdown once models are available.
type ModelStep struct {
	styles   *tui.StyleSet
	sel      *selector.Selector
	props    selector.Props
	spinner  spinner.Model
	dropdown components.Dropdown
	complete bool
}

// NewModelStep creates a model step around sel. The fetch starts on Init.
func NewModelStep(styles *tui.StyleSet, sel *selector.Selector) *ModelStep {
	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(styles.AccentTxt),
	)
	dropdown := components.NewDropdown(
		styles.PrimaryTxt,
		styles.DimTxt,
		styles.Highlight,
		styles.SuccessTxt,
		styles.KbdKey,
		styles.KbdDesc,
	)
	return &ModelStep{
		styles:   styles,
		sel:      sel,
		spinner:  sp,
		dropdown: dropdown,
	}
}

func (s *ModelStep) Title() string { return "Model" }
func (s *ModelStep) Icon() string  { return "🤖" }

// SetProps receives the host's current selection and change callback.
func (s *ModelStep) SetProps(props selector.Props) {
	s.props = props
}

// Init mounts the selector. Only the first call starts a fetch.
func (s *ModelStep) Init() tea.Cmd {
	task, ok := s.sel.Mount(context.Background())
	if !ok {
		return nil
	}
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return tui.CatalogLoadedMsg{Result: task.Run()}
	})
}

// Teardown unmounts the selector, cancelling an in-flight fetch.
func (s *ModelStep) Teardown() {
	s.sel.Unmount()
}

func (s *ModelStep) Update(msg tea.Msg) (tui.Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.CatalogLoadedMsg:
		s.sel.Resolve(msg.Result, s.props)
		return s, nil

	case spinner.TickMsg:
		if s.sel.State().Phase() != selector.PhaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.complete {
			return s, nil
		}
		d := s.sel.Directive(s.props.SelectedModel)
		if d.Kind != selector.ShowPicker {
			return s, nil
		}
		s.dropdown.SetOptions(d.Options, d.Selected)

		var chosen string
		s.dropdown, chosen = s.dropdown.Update(msg)
		if chosen == "" {
			return s, nil
		}
		s.sel.Select(chosen, s.props)
		s.complete = true
		return s, func() tea.Msg { return tui.StepCompleteMsg{} }
	}

	return s, nil
}

// Directive exposes the current display directive for the host's selection.
func (s *ModelStep) Directive() selector.Directive {
	return s.sel.Directive(s.props.SelectedModel)
}

func (s *ModelStep) View(width int) string {
	d := s.Directive()
	out := "  " + s.styles.Label.Render(d.Label) + "\n"

	switch d.Kind {
	case selector.ShowBusy:
		out += "  " + s.spinner.View() + " " + s.styles.DimTxt.Render(d.Message) + "\n"
	case selector.ShowError:
		out += "  " + s.styles.ErrorTxt.Render(d.Message) + "\n"
	case selector.ShowEmpty:
		out += "  " + s.styles.DimTxt.Render(d.Message) + "\n"
	case selector.ShowPicker:
		s.dropdown.SetOptions(d.Options, d.Selected)
		out += s.dropdown.View(width)
	}
	return out
}

func (s *ModelStep) Complete() bool {
	return s.complete
}

func (s *ModelStep) Summary() string {
	d := s.Directive()
	if d.Kind != selector.ShowPicker {
		return d.Message
	}
	for _, o := range d.Options {
		if o.ID == d.Selected && o.Label != "" {
			return o.Label + " · " + o.ID
		}
	}
	return d.Selected
}
