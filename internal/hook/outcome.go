// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package hook

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pais-dev/pais/internal/plugin"
)

// Verdict is a handler's or a dispatch's decision.
type Verdict string

// Verdicts.
const (
	VerdictAllow Verdict = "allow"
	VerdictBlock Verdict = "block"
	VerdictError Verdict = "error"
)

// Handler exit codes.
const (
	ExitAllow = 0
	ExitBlock = 2
)

// Result is the outcome of one handler invocation.
type Result struct {
	Plugin     string        `json:"plugin"`
	Executable string        `json:"executable"`
	Verdict    Verdict       `json:"verdict"`
	ExitCode   int           `json:"exit_code"`
	Reason     string        `json:"reason,omitempty"`
	Stdout     string        `json:"stdout,omitempty"`
	Stderr     string        `json:"stderr,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	Err        error         `json:"-"`
}

// Outcome is the aggregated result of one dispatch.
type Outcome struct {
	ID        ulid.ULID
	Event     plugin.Event
	Matcher   string
	Payload   []byte
	Started   time.Time
	Duration  time.Duration
	Results   []Result
	Aggregate Verdict
	// ShortCircuited is true when a block stopped later handlers from running.
	ShortCircuited bool
}

// Blocker returns the handler result that blocked the dispatch.
func (o *Outcome) Blocker() (Result, bool) {
	for _, r := range o.Results {
		if r.Verdict == VerdictBlock {
			return r, true
		}
	}
	return Result{}, false
}

// ExitCode maps the aggregate verdict to the host exit code.
func (o *Outcome) ExitCode() int {
	if o.Aggregate == VerdictBlock {
		return ExitBlock
	}
	return ExitAllow
}

// BlockReason returns the message shown to the host for a blocked dispatch,
// or "" when nothing blocked.
func (o *Outcome) BlockReason() string {
	r, ok := o.Blocker()
	if !ok {
		return ""
	}
	if msg := strings.TrimSpace(r.Stderr); msg != "" {
		return msg
	}
	return fmt.Sprintf("blocked by plugin %s (%s)", r.Plugin, r.Executable)
}

// Errors returns the results whose handler failed.
func (o *Outcome) Errors() []Result {
	var out []Result
	for _, r := range o.Results {
		if r.Verdict == VerdictError {
			out = append(out, r)
		}
	}
	return out
}
