// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package audit

import (
	"context"
	"errors"

	"github.com/pais-dev/pais/internal/hook"
)

// Recorder fans dispatch outcomes out to every configured sink. It
// implements hook.Recorder.
type Recorder struct {
	sinks []Sink
	opts  Options
}

// NewRecorder creates a recorder writing to sinks in order.
func NewRecorder(opts Options, sinks ...Sink) *Recorder {
	return &Recorder{sinks: sinks, opts: opts}
}

// Record writes one record per sink. Every sink is attempted; the returned
// error joins the failures.
func (r *Recorder) Record(ctx context.Context, o *hook.Outcome) error {
	rec := NewRecord(o, r.opts)
	var errs []error
	for _, s := range r.sinks {
		if err := s.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ hook.Recorder = (*Recorder)(nil)
