package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/initializ/modelcatalog/selector"
)

// Picker is the Bubble Tea root model that owns the selected model id and
// hosts a SelectorStep. The step only proposes changes; Picker decides.
type Picker struct {
	styles    *StyleSet
	step      SelectorStep
	selected  string
	changes   int
	confirmed bool
	aborted   bool
	width     int
}

// NewPicker creates a host with an initial selection ("" for none).
func NewPicker(styles *StyleSet, step SelectorStep, initial string) *Picker {
	return &Picker{
		styles:   styles,
		step:     step,
		selected: initial,
	}
}

// Selected returns the host-owned selection.
func (p *Picker) Selected() string { return p.selected }

// Confirmed reports whether the user confirmed a choice.
func (p *Picker) Confirmed() bool { return p.confirmed }

// Aborted reports whether the user quit without confirming.
func (p *Picker) Aborted() bool { return p.aborted }

// Changes returns how many selection changes the host has accepted.
func (p *Picker) Changes() int { return p.changes }

func (p *Picker) props() selector.Props {
	return selector.Props{
		SelectedModel: p.selected,
		OnModelChange: p.onModelChange,
	}
}

func (p *Picker) onModelChange(modelID string) {
	p.selected = modelID
	p.changes++
}

func (p *Picker) Init() tea.Cmd {
	p.step.SetProps(p.props())
	return p.step.Init()
}

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	p.step.SetProps(p.props())

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			p.aborted = true
			p.step.Teardown()
			return p, tea.Quit
		case "enter":
			// Nothing to choose from: enter dismisses the picker.
			switch p.step.Directive().Kind {
			case selector.ShowError, selector.ShowEmpty:
				p.aborted = true
				p.step.Teardown()
				return p, tea.Quit
			}
		}

	case StepCompleteMsg:
		p.confirmed = true
		p.step.Teardown()
		return p, tea.Quit
	}

	_, cmd := p.step.Update(msg)
	// The step may have reported a new selection while handling msg.
	p.step.SetProps(p.props())
	return p, cmd
}

func (p *Picker) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(p.styles.Title.Render(p.step.Icon() + " " + p.step.Title()))
	b.WriteString("\n\n")
	b.WriteString(p.step.View(p.width))
	b.WriteString("\n  ")
	b.WriteString(p.styles.KeyHints("esc", "quit"))
	b.WriteString("\n")
	return b.String()
}
