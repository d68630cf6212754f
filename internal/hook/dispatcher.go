// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package hook delivers host lifecycle events to the handlers packages bind
// to them and folds their exit codes into a single allow/block verdict.
//
// Handlers run one at a time in manifest-discovery order. On a blockable
// event the first handler that exits 2 stops the dispatch; on any other
// event exit 2 is treated as allow. A handler that fails, times out, or
// cannot be started never blocks the host.
package hook

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pais-dev/pais/internal/artifact"
	"github.com/pais-dev/pais/internal/plugin"
	"github.com/pais-dev/pais/pkg/errutil"
)

var tracer = otel.Tracer("pais/hook")

// DefaultTimeout applies to bindings that declare no timeout.
const DefaultTimeout = 30 * time.Second

// Request is one event occurrence reported by the host.
type Request struct {
	Event   plugin.Event
	Payload []byte
	// Matcher is the occurrence context compared against binding matchers.
	// When empty, the payload's tool_name is used.
	Matcher string
}

// Recorder persists dispatch outcomes.
type Recorder interface {
	Record(ctx context.Context, outcome *Outcome) error
}

// Dispatcher runs the handlers bound to an event.
type Dispatcher struct {
	packages       []*plugin.Package
	readiness      *artifact.Readiness
	executor       Executor
	blockable      Blockable
	defaultTimeout time.Duration
	recorder       Recorder
	output         io.Writer
	logger         *slog.Logger
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithBlockable replaces the set of vetoable events.
func WithBlockable(b Blockable) Option {
	return func(d *Dispatcher) {
		d.blockable = b
	}
}

// WithDefaultTimeout sets the timeout for bindings that declare none.
func WithDefaultTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.defaultTimeout = t
		}
	}
}

// WithRecorder sets where outcomes are recorded.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithOutput passes each handler's stdout through to w as soon as the
// handler finishes, before the outcome is recorded.
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) {
		d.output = w
	}
}

// WithLogger sets the logger used for handler diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// NewDispatcher creates a dispatcher over packages in discovery order. Only
// packages readiness reports as ready receive events.
func NewDispatcher(packages []*plugin.Package, readiness *artifact.Readiness, executor Executor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		packages:       append([]*plugin.Package(nil), packages...),
		readiness:      readiness,
		executor:       executor,
		blockable:      DefaultBlockable(),
		defaultTimeout: DefaultTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch delivers req to every matching handler of a ready package.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) *Outcome {
	matcher := req.Matcher
	if matcher == "" {
		matcher = MatcherFromPayload(req.Payload)
	}

	outcome := &Outcome{
		ID:        ulid.Make(),
		Event:     req.Event,
		Matcher:   matcher,
		Payload:   req.Payload,
		Started:   time.Now(),
		Aggregate: VerdictAllow,
	}

	ctx, span := tracer.Start(ctx, "hook.dispatch",
		trace.WithAttributes(
			attribute.String("hook.event", string(req.Event)),
			attribute.String("hook.matcher", matcher),
			attribute.String("hook.dispatch_id", outcome.ID.String()),
		))
	defer span.End()

	blockable := d.blockable.Contains(req.Event)

	for _, target := range Select(d.packages, req.Event, matcher) {
		name := target.Package.Name()
		if !d.readiness.IsReady(name) {
			d.logger.DebugContext(ctx, "skipping handler of unready plugin",
				"plugin", name,
				"event", req.Event,
				"executable", target.Binding.Executable)
			continue
		}

		result := d.run(ctx, req, target, blockable)
		outcome.Results = append(outcome.Results, result)
		if d.output != nil && result.Stdout != "" {
			_, _ = io.WriteString(d.output, result.Stdout)
		}

		if result.Verdict == VerdictBlock {
			outcome.Aggregate = VerdictBlock
			outcome.ShortCircuited = true
			break
		}
	}

	outcome.Duration = time.Since(outcome.Started)
	recordDispatch(req.Event, outcome.Aggregate)
	span.SetAttributes(
		attribute.String("hook.verdict", string(outcome.Aggregate)),
		attribute.Int("hook.handlers", len(outcome.Results)),
	)

	if d.recorder != nil {
		if err := d.recorder.Record(ctx, outcome); err != nil {
			errutil.LogWarn(ctx, d.logger, "failed to record dispatch", err)
		}
	}

	return outcome
}

func (d *Dispatcher) run(ctx context.Context, req Request, target Target, blockable bool) Result {
	name := target.Package.Name()
	exe := target.Binding.Executable

	ctx, span := tracer.Start(ctx, "hook.handler",
		trace.WithAttributes(
			attribute.String("hook.plugin", name),
			attribute.String("hook.executable", exe),
		))
	defer span.End()

	ran, err := d.executor.Execute(ctx, Invocation{
		Event:   req.Event,
		Package: target.Package,
		Binding: target.Binding,
		Payload: req.Payload,
		Timeout: target.Binding.TimeoutOr(d.defaultTimeout),
	})

	result := Result{
		Plugin:     name,
		Executable: exe,
		ExitCode:   ran.ExitCode,
		Stdout:     ran.Stdout,
		Stderr:     ran.Stderr,
		Duration:   ran.Duration,
	}

	switch {
	case err != nil:
		result.Verdict = VerdictError
		result.ExitCode = -1
		result.Reason = err.Error()
		result.Err = err
	case ran.ExitCode == ExitAllow:
		result.Verdict = VerdictAllow
	case ran.ExitCode == ExitBlock && blockable:
		result.Verdict = VerdictBlock
	case ran.ExitCode == ExitBlock:
		d.logger.InfoContext(ctx, "ignoring block on non-blockable event",
			"plugin", name,
			"event", req.Event,
			"executable", exe)
		result.Verdict = VerdictAllow
	default:
		result.Err = ErrHandlerNonZeroExit(name, exe, ran.ExitCode)
		result.Verdict = VerdictError
		result.Reason = result.Err.Error()
	}

	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Reason)
		errutil.LogWarn(ctx, d.logger, "handler failed", result.Err)
	}
	span.SetAttributes(
		attribute.String("hook.verdict", string(result.Verdict)),
		attribute.Int("hook.exit_code", result.ExitCode),
	)
	recordHandler(req.Event, name, result.Verdict, result.Duration)

	return result
}
