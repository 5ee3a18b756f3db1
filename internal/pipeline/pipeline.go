package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/morinote/dailynote/internal/store"
)

// Stage contract errors, wrapped inside *StageError.
var (
	// ErrPrecondition is returned when a stage's input artifact is missing.
	// The stage's work is never invoked in that case.
	ErrPrecondition = errors.New("stage precondition not satisfied")

	// ErrPostcondition is returned when a stage reported success but its
	// output artifact is not on disk afterwards.
	ErrPostcondition = errors.New("stage postcondition not satisfied")
)

// StageError wraps a stage failure with the stage's name.
type StageError struct {
	// Stage is the failing stage's name.
	Stage string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Stage defines the interface that all pipeline stages must implement.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows stages to carry configuration state
// 2. It provides a Name() method for logging and history recording
// 3. Declared pre/postconditions let the Runner enforce artifact ordering
//    without each stage re-implementing the checks
type Stage interface {
	// Name returns the stage's name for logging and history recording.
	Name() string

	// Preconditions lists the artifacts that must exist before the stage
	// runs. An empty slice means the stage has no inputs.
	Preconditions() []store.ArtifactRef

	// Postconditions lists the artifacts that must exist after the stage
	// reports success.
	Postconditions() []store.ArtifactRef

	// Do executes the stage's work. It is invoked at most once per Run
	// and only after every precondition holds.
	Do(ctx context.Context) error
}

// Runner executes a single stage with its artifact contract enforced.
type Runner struct {
	// store checks artifact existence for pre/postconditions.
	store *store.Store

	// logger for structured logging.
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner checking artifacts against the given store.
func NewRunner(st *store.Store, opts ...RunnerOption) *Runner {
	r := &Runner{store: st}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Run executes one stage. A missing precondition fails without invoking
// the stage's work; a missing postcondition after apparent success is also
// a failure, so a stage can never silently produce nothing.
func (r *Runner) Run(ctx context.Context, stage Stage) error {
	for _, ref := range stage.Preconditions() {
		if !r.store.Exists(ref.Kind, ref.Date) {
			r.logger.Error("stage input missing",
				"stage", stage.Name(),
				"artifact", ref.String(),
			)
			return &StageError{
				Stage: stage.Name(),
				Err:   fmt.Errorf("%w: missing %s", ErrPrecondition, ref),
			}
		}
	}

	if err := stage.Do(ctx); err != nil {
		r.logger.Error("stage failed",
			"stage", stage.Name(),
			"error", err,
		)
		return &StageError{Stage: stage.Name(), Err: err}
	}

	for _, ref := range stage.Postconditions() {
		if !r.store.Exists(ref.Kind, ref.Date) {
			r.logger.Error("stage output missing",
				"stage", stage.Name(),
				"artifact", ref.String(),
			)
			return &StageError{
				Stage: stage.Name(),
				Err:   fmt.Errorf("%w: missing %s", ErrPostcondition, ref),
			}
		}
	}

	return nil
}

// RunRecord describes one completed stage run for the history store.
type RunRecord struct {
	// Date is the pipeline date the stage ran for.
	Date string

	// Stage is the stage name.
	Stage string

	// Status is "success" or "failed".
	Status string

	// Error is the failure message, empty on success.
	Error string

	// StartedAt and FinishedAt bound the stage's execution.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Run statuses recorded in the history store.
const (
	// StatusSuccess marks a completed stage run.
	StatusSuccess = "success"

	// StatusFailed marks a failed stage run.
	StatusFailed = "failed"
)

// Recorder persists stage run outcomes. The history database implements
// this; a nil recorder disables recording.
type Recorder interface {
	// RecordRun stores one stage outcome.
	RecordRun(ctx context.Context, rec RunRecord) error
}

// Pipeline sequences stages for a single date.
// It maintains an ordered list of stages and executes them via a Runner.
type Pipeline struct {
	// runner enforces each stage's artifact contract.
	runner *Runner

	// date is the pipeline date all stages operate on.
	date string

	// stages contains the ordered list of stages to execute.
	stages []Stage

	// recorder receives stage outcomes. May be nil.
	recorder Recorder

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRecorder sets the history recorder for stage outcomes.
func WithRecorder(recorder Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = recorder
	}
}

// New creates a new Pipeline for the given date.
// Stages should be added using AddStage after creation.
func New(runner *Runner, date string, opts ...Option) *Pipeline {
	p := &Pipeline{
		runner: runner,
		date:   date,
		stages: make([]Stage, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStage appends a stage to the pipeline.
// Stages are executed in the order they are added.
func (p *Pipeline) AddStage(stage Stage) {
	p.stages = append(p.stages, stage)
}

// AddStages appends multiple stages to the pipeline.
func (p *Pipeline) AddStages(stages ...Stage) {
	p.stages = append(p.stages, stages...)
}

// StageCount returns the number of stages in the pipeline.
func (p *Pipeline) StageCount() int {
	return len(p.stages)
}

// StageNames returns the names of all stages in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return names
}

// Execute runs all pipeline stages in sequence and halts on the first
// failure, leaving earlier artifacts in place so a later invocation can
// resume from the failed stage.
//
// Design decision: We check context.Done() before each stage rather than
// during, because stages handle their own timeouts. This allows graceful
// cleanup between stages while still respecting cancellation.
func (p *Pipeline) Execute(ctx context.Context) error {
	for _, stage := range p.stages {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"stage", stage.Name(),
				"date", p.date,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing stage",
			"stage", stage.Name(),
			"date", p.date,
		)

		started := time.Now()
		err := p.runner.Run(ctx, stage)
		p.record(ctx, stage.Name(), started, err)

		if err != nil {
			return err
		}

		p.logger.Debug("stage completed",
			"stage", stage.Name(),
			"date", p.date,
		)
	}

	return nil
}

// record stores the stage outcome in the history recorder, if configured.
// Recording failures are logged but never fail the pipeline.
func (p *Pipeline) record(ctx context.Context, stage string, started time.Time, runErr error) {
	if p.recorder == nil {
		return
	}

	rec := RunRecord{
		Date:       p.date,
		Stage:      stage,
		Status:     StatusSuccess,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if runErr != nil {
		rec.Status = StatusFailed
		rec.Error = runErr.Error()
	}

	if err := p.recorder.RecordRun(ctx, rec); err != nil {
		p.logger.Warn("failed to record stage run",
			"stage", stage,
			"error", err,
		)
	}
}
