package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/initializ/modelcatalog/selector"
)

type dropdownKeys struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
}

var defaultDropdownKeys = dropdownKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
}

// Dropdown lists picker options, marks the selected one and reports the
// highlighted option when the user chooses it. It holds no selection of its
// own: the selected id is whatever the caller last passed to SetOptions.
type Dropdown struct {
	options  []selector.Option
	selected string
	cursor   int
	keys     dropdownKeys

	primary   lipgloss.Style
	dim       lipgloss.Style
	highlight lipgloss.Style
	marker    lipgloss.Style
	kbdKey    lipgloss.Style
	kbdDesc   lipgloss.Style
}

// NewDropdown creates an empty dropdown with the given styles.
func NewDropdown(primary, dim, highlight, marker, kbdKey, kbdDesc lipgloss.Style) Dropdown {
	return Dropdown{
		keys:      defaultDropdownKeys,
		primary:   primary,
		dim:       dim,
		highlight: highlight,
		marker:    marker,
		kbdKey:    kbdKey,
		kbdDesc:   kbdDesc,
	}
}

// SetOptions replaces the option list and selection. The cursor follows the
// selection whenever the selection changes or the list is replaced.
func (d *Dropdown) SetOptions(options []selector.Option, selected string) {
	replaced := !sameOptions(d.options, options)
	moved := selected != d.selected
	d.options = options
	d.selected = selected
	if replaced || moved {
		d.cursor = indexOf(options, selected)
	}
	if d.cursor >= len(options) {
		d.cursor = 0
	}
}

// Cursor returns the index of the highlighted option.
func (d Dropdown) Cursor() int { return d.cursor }

// Update handles navigation keys. It returns the id of the option the user
// chose, or "" when nothing was chosen.
func (d Dropdown) Update(msg tea.Msg) (Dropdown, string) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || len(d.options) == 0 {
		return d, ""
	}

	switch {
	case key.Matches(km, d.keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(km, d.keys.Down):
		if d.cursor < len(d.options)-1 {
			d.cursor++
		}
	case key.Matches(km, d.keys.Choose):
		return d, d.options[d.cursor].ID
	}
	return d, ""
}

// View renders the list.
func (d Dropdown) View(width int) string {
	var b strings.Builder
	for i, opt := range d.options {
		mark := "  "
		if opt.ID == d.selected {
			mark = d.marker.Render("● ")
		}

		line := opt.Label
		if line == "" {
			line = opt.ID
		}
		if i == d.cursor {
			line = d.highlight.Render(" " + line + " ")
		} else {
			line = d.primary.Render(" " + line + " ")
		}
		if ann := opt.AnnotationText(); ann != "" {
			line += " " + d.dim.Render(ann)
		}

		row := "  " + mark + line
		if width > 0 {
			row = lipgloss.NewStyle().MaxWidth(width).Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(d.kbdKey.Render(d.keys.Up.Help().Key + " " + d.keys.Down.Help().Key))
	b.WriteString(" " + d.kbdDesc.Render("navigate"))
	b.WriteString(d.kbdDesc.Render("  ·  "))
	b.WriteString(d.kbdKey.Render(d.keys.Choose.Help().Key))
	b.WriteString(" " + d.kbdDesc.Render(d.keys.Choose.Help().Desc))
	b.WriteString("\n")
	return b.String()
}

func indexOf(options []selector.Option, id string) int {
	for i, o := range options {
		if o.ID == id {
			return i
		}
	}
	return 0
}

func sameOptions(a, b []selector.Option) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
