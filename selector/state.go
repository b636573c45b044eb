// Package selector implements the model catalog selection state machine: a
// single catalog fetch per mount, the Loading/Ready/Failed state, default
// adoption of the first entry and the projection of state to a display
// directive. It has no dependency on any rendering toolkit.
package selector

import "github.com/initializ/modelcatalog/catalog"

// Phase identifies the active variant of State.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// State is the catalog data state. Exactly one phase is active; entries are
// only meaningful when Ready and message only when Failed.
type State struct {
	phase   Phase
	entries []catalog.Entry
	message string
}

// Loading returns the initial state.
func Loading() State {
	return State{phase: PhaseLoading}
}

// Ready returns a state holding entries in server order. A nil slice is
// stored as empty.
func Ready(entries []catalog.Entry) State {
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return State{phase: PhaseReady, entries: entries}
}

// Failed returns a terminal state for the current fetch attempt.
func Failed(message string) State {
	return State{phase: PhaseFailed, message: message}
}

func (s State) Phase() Phase { return s.phase }

// Entries returns the catalog when Ready, nil otherwise.
func (s State) Entries() []catalog.Entry {
	if s.phase != PhaseReady {
		return nil
	}
	return s.entries
}

// Message returns the failure message when Failed, "" otherwise.
func (s State) Message() string {
	if s.phase != PhaseFailed {
		return ""
	}
	return s.message
}
