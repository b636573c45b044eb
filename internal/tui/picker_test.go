package tui_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/initializ/modelcatalog/catalog"
	"github.com/initializ/modelcatalog/internal/tui"
	"github.com/initializ/modelcatalog/internal/tui/steps"
	"github.com/initializ/modelcatalog/selector"
)

type stubFetcher struct {
	entries []catalog.Entry
	err     error
}

func (f stubFetcher) FetchCatalog(context.Context, string) ([]catalog.Entry, error) {
	return f.entries, f.err
}

// deliver feeds the catalog result produced by cmd into the picker.
func deliver(t *testing.T, p *tui.Picker, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		batch = tea.BatchMsg{func() tea.Msg { return msg }}
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if lm, ok := c().(tui.CatalogLoadedMsg); ok {
			_, next := p.Update(lm)
			return next
		}
	}
	t.Fatal("no catalog result in init command")
	return nil
}

func newPicker(f selector.Fetcher, initial string) *tui.Picker {
	styles := tui.NewStyleSet(tui.DetectTheme("light"))
	step := steps.NewModelStep(styles, selector.New(f, ""))
	return tui.NewPicker(styles, step, initial)
}

func TestPickerAdoptsDefaultThenConfirms(t *testing.T) {
	p := newPicker(stubFetcher{entries: []catalog.Entry{
		{ID: "a", Name: "Alpha", Provider: "openai"},
		{ID: "b", Name: "Beta"},
	}}, "")

	deliver(t, p, p.Init())
	if p.Selected() != "a" || p.Changes() != 1 {
		t.Fatalf("selected = %q after %d changes, want a after 1", p.Selected(), p.Changes())
	}

	view := p.View()
	if !strings.Contains(view, "Alpha") || !strings.Contains(view, "(openai)") {
		t.Errorf("view:\n%s", view)
	}

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Selected() != "b" {
		t.Fatalf("selected = %q, want b", p.Selected())
	}

	// The step announces completion; the host quits.
	_, quit := p.Update(cmd())
	if !p.Confirmed() || quit == nil {
		t.Fatal("picker should confirm and quit")
	}
	if _, ok := quit().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.Quit")
	}
}

func TestPickerKeepsExistingSelection(t *testing.T) {
	p := newPicker(stubFetcher{entries: []catalog.Entry{{ID: "a"}, {ID: "b"}}}, "b")
	deliver(t, p, p.Init())

	if p.Changes() != 0 || p.Selected() != "b" {
		t.Fatalf("selected = %q after %d changes, want b untouched", p.Selected(), p.Changes())
	}
}

func TestPickerAbort(t *testing.T) {
	p := newPicker(stubFetcher{entries: []catalog.Entry{{ID: "a"}}}, "")
	p.Init()

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !p.Aborted() || cmd == nil {
		t.Fatal("esc should abort")
	}
}

func TestPickerEnterDismissesError(t *testing.T) {
	p := newPicker(stubFetcher{err: &catalog.TransportError{Status: 502, StatusText: "Bad Gateway"}}, "")
	deliver(t, p, p.Init())

	if !strings.Contains(p.View(), "Bad Gateway") {
		t.Errorf("view:\n%s", p.View())
	}
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !p.Aborted() || cmd == nil {
		t.Fatal("enter on an error should dismiss the picker")
	}
}

// recordingStep proposes "b" on any key and records the props it receives.
type recordingStep struct {
	props    selector.Props
	setCalls int
}

func (s *recordingStep) Title() string                 { return "Model" }
func (s *recordingStep) Icon() string                  { return "" }
func (s *recordingStep) Init() tea.Cmd                 { return nil }
func (s *recordingStep) View(int) string               { return "selected=" + s.props.SelectedModel }
func (s *recordingStep) Complete() bool                { return false }
func (s *recordingStep) Summary() string               { return "" }
func (s *recordingStep) Teardown()                     {}
func (s *recordingStep) Directive() selector.Directive { return selector.Directive{Kind: selector.ShowPicker} }

func (s *recordingStep) SetProps(props selector.Props) {
	s.props = props
	s.setCalls++
}

func (s *recordingStep) Update(msg tea.Msg) (tui.Step, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		s.props.OnModelChange("b")
	}
	return s, nil
}

func TestPickerViewHasNoSideEffects(t *testing.T) {
	step := &recordingStep{}
	p := tui.NewPicker(tui.NewStyleSet(tui.DetectTheme("dark")), step, "a")
	p.Init()

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.Selected() != "b" {
		t.Fatalf("selected = %q, want b", p.Selected())
	}
	if step.props.SelectedModel != "b" {
		t.Fatalf("step props = %q after Update, want b", step.props.SelectedModel)
	}

	calls := step.setCalls
	view := p.View()
	p.View()
	if step.setCalls != calls {
		t.Errorf("View called SetProps %d times", step.setCalls-calls)
	}
	if !strings.Contains(view, "selected=b") {
		t.Errorf("view:\n%s", view)
	}
}
