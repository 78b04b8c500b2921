package scenario

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gridnet/pkg/errors"
	"github.com/matzehuels/gridnet/pkg/grid"
	"github.com/matzehuels/gridnet/pkg/observability"
)

// StepResult records one applied step.
type StepResult struct {
	Index    int           `json:"index"`
	Step     Step          `json:"step"`
	Snapshot grid.Snapshot `json:"snapshot"`
	Duration time.Duration `json:"duration_ns"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// Result is the outcome of a run.
type Result struct {
	Scenario string        `json:"scenario"`
	Initial  grid.Snapshot `json:"initial"`
	Steps    []StepResult  `json:"steps"`
	Stats    grid.Stats    `json:"stats"`
	Duration time.Duration `json:"duration_ns"`

	// State is the final state, for rendering or inspection.
	State *State `json:"-"`
}

// Failed returns the step that failed, if any.
func (r *Result) Failed() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Err != nil {
			return s, true
		}
	}
	return StepResult{}, false
}

// Runner plays scenarios.
type Runner struct {
	logger    *log.Logger
	hooks     observability.RunHooks
	verify    bool
	stopAfter int
	gridOpts  []grid.Option
}

// RunnerOption configures a [Runner].
type RunnerOption func(*Runner)

// WithLogger sets the logger for step progress and passes it on to the
// manager.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRunHooks overrides the hooks registered with observability.SetRunHooks.
func WithRunHooks(h observability.RunHooks) RunnerOption {
	return func(r *Runner) {
		if h != nil {
			r.hooks = h
		}
	}
}

// WithVerify checks the partition against a recomputation after every step.
func WithVerify(on bool) RunnerOption {
	return func(r *Runner) { r.verify = on }
}

// WithStopAfter stops the run after n steps. Zero or negative runs all steps.
func WithStopAfter(n int) RunnerOption {
	return func(r *Runner) { r.stopAfter = n }
}

// WithGridOptions passes options to every manager the runner creates.
func WithGridOptions(opts ...grid.Option) RunnerOption {
	return func(r *Runner) { r.gridOpts = append(r.gridOpts, opts...) }
}

// NewRunner creates a runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: log.New(io.Discard),
		hooks:  observability.Run(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays sc from its initial graph. It stops at the first failing step
// and returns that step's error; the result holds every step up to and
// including it. Cancellation is checked between steps.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (res *Result, err error) {
	start := time.Now()
	steps := sc.Steps
	if r.stopAfter > 0 && r.stopAfter < len(steps) {
		steps = steps[:r.stopAfter]
	}

	r.hooks.OnRunStart(ctx, sc.Name, len(steps))
	defer func() {
		if res != nil {
			res.Duration = time.Since(start)
			res.Stats = res.State.Manager.Stats()
		}
		r.hooks.OnRunComplete(ctx, sc.Name, time.Since(start), err)
	}()

	opts := append([]grid.Option{grid.WithLogger(r.logger)}, r.gridOpts...)
	st, err := NewState(sc, opts...)
	if err != nil {
		return nil, err
	}
	res = &Result{Scenario: sc.Name, Initial: st.Manager.Snapshot(), State: st}
	r.logger.Debug("scenario loaded", "scenario", sc.Name, "nodes", st.Graph.NodeCount(), "edges", st.Graph.EdgeCount(), "steps", len(steps))

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		stepStart := time.Now()
		stepErr := st.Apply(step)
		if stepErr == nil && r.verify {
			stepErr = st.Verify()
		}
		elapsed := time.Since(stepStart)
		r.hooks.OnStepComplete(ctx, sc.Name, string(step.Op), elapsed, stepErr)

		sr := StepResult{Index: i + 1, Step: step, Snapshot: st.Manager.Snapshot(), Duration: elapsed, Err: stepErr}
		if stepErr != nil {
			sr.Error = errs.UserMessage(stepErr)
		}
		res.Steps = append(res.Steps, sr)

		if stepErr != nil {
			r.logger.Error("step failed", "step", i+1, "op", step.String(), "err", stepErr)
			code := errs.GetCode(stepErr)
			if code == "" {
				code = errs.ErrCodeInternal
			}
			return res, errs.Wrap(code, stepErr, "step %d (%s)", i+1, step)
		}
		r.logger.Debug("step applied", "step", i+1, "op", step.String(), "networks", len(sr.Snapshot.Networks))
	}
	return res, nil
}
