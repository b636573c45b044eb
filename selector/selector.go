package selector

import (
	"context"

	"go.uber.org/zap"

	"github.com/initializ/modelcatalog/catalog"
)

// DefaultErrorMessage is shown when a failed fetch carries no message.
const DefaultErrorMessage = "Failed to load models"

// Fetcher retrieves the model catalog. *catalog.Client satisfies it.
type Fetcher interface {
	FetchCatalog(ctx context.Context, baseURL string) ([]catalog.Entry, error)
}

// Props is what the host passes to the selector on every render: the
// host-owned selection (empty when absent) and the change callback.
type Props struct {
	SelectedModel string
	OnModelChange func(modelID string)
}

func (p Props) notify(modelID string) {
	if p.OnModelChange != nil {
		p.OnModelChange(modelID)
	}
}

// Task is the single catalog fetch scheduled by Mount. Run blocks and may be
// called from any goroutine; it never touches selector state.
type Task struct {
	owner   *Selector
	ctx     context.Context
	fetcher Fetcher
	baseURL string
}

// Run performs the fetch.
func (t Task) Run() Result {
	entries, err := t.fetcher.FetchCatalog(t.ctx, t.baseURL)
	return Result{owner: t.owner, Entries: entries, Err: err}
}

// Result is the outcome of a Task, to be handed back to Resolve.
type Result struct {
	owner   *Selector
	Entries []catalog.Entry
	Err     error
}

// Selector is a controlled view over a host-owned selection. It is not safe
// for concurrent use: every method except Task.Run must be called from the
// same goroutine.
type Selector struct {
	fetcher Fetcher
	baseURL string
	logger  *zap.Logger

	state   State
	started bool
	mounted bool
	adopted bool
	cancel  context.CancelFunc
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithLogger sets the logger used to report fetch failures.
func WithLogger(logger *zap.Logger) SelectorOption {
	return func(s *Selector) {
		s.logger = logger
	}
}

// New creates a selector in the Loading state.
func New(fetcher Fetcher, baseURL string, opts ...SelectorOption) *Selector {
	s := &Selector{
		fetcher: fetcher,
		baseURL: baseURL,
		state:   Loading(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// State returns the current catalog state.
func (s *Selector) State() State { return s.state }

// Mounted reports whether the selector is active.
func (s *Selector) Mounted() bool { return s.mounted }

// Mount activates the selector. The first call returns the fetch task and
// true; later calls return false, so re-renders and prop updates never
// trigger another fetch. The task's context is cancelled by Unmount or when
// parent is done.
func (s *Selector) Mount(parent context.Context) (Task, bool) {
	if s.started {
		return Task{}, false
	}
	s.started = true
	s.mounted = true

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	return Task{owner: s, ctx: ctx, fetcher: s.fetcher, baseURL: s.baseURL}, true
}

// Unmount deactivates the selector and cancels an in-flight fetch. Results
// arriving afterwards are discarded by Resolve.
func (s *Selector) Unmount() {
	s.mounted = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Resolve applies a fetch result and reports whether the state changed.
// Results from another selector, results arriving after Unmount and results
// arriving after the state already left Loading are ignored. On success with
// an empty host selection the first entry is proposed through
// props.OnModelChange, at most once.
func (s *Selector) Resolve(r Result, props Props) bool {
	if r.owner != s || !s.mounted || s.state.phase != PhaseLoading {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if r.Err != nil {
		s.logger.Warn("error fetching models",
			zap.String("base_url", s.baseURL),
			zap.String("reason", catalog.Describe(r.Err)),
			zap.Error(r.Err))
		s.state = Failed(failureMessage(r.Err))
		return true
	}

	s.state = Ready(r.Entries)
	if !s.adopted && props.SelectedModel == "" && len(r.Entries) > 0 {
		s.adopted = true
		props.notify(r.Entries[0].ID)
	}
	return true
}

// Select forwards a user choice to the host verbatim. The id is not checked
// against the current catalog; empty ids are dropped.
func (s *Selector) Select(modelID string, props Props) {
	if modelID == "" {
		return
	}
	props.notify(modelID)
}

// Directive projects the current state and selection for presentation.
func (s *Selector) Directive(selection string) Directive {
	return Project(s.state, selection)
}

// Load mounts the selector, runs the fetch in the calling goroutine and
// resolves it. It returns the resulting state; a selector that was already
// mounted is left untouched.
func (s *Selector) Load(ctx context.Context, props Props) State {
	task, ok := s.Mount(ctx)
	if !ok {
		return s.state
	}
	s.Resolve(task.Run(), props)
	return s.state
}

func failureMessage(err error) string {
	if catalog.IsFormat(err) {
		return catalog.ErrInvalidFormat
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
