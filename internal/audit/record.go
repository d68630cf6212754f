// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package audit keeps an append-only trail of dispatch outcomes.
//
// Each dispatch becomes one Record serialized as a single JSON line. Sinks
// must write a record atomically: several pais processes may append to the
// same trail at once.
package audit

import (
	"encoding/json"
	"time"

	"github.com/pais-dev/pais/internal/hook"
)

// Record is one dispatch as stored in the trail.
type Record struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	LocalTime string          `json:"local_time"`
	Event     string          `json:"event"`
	Matcher   string          `json:"matcher,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	Aggregate string          `json:"aggregate"`
	Duration  float64         `json:"duration_ms"`
	Results   []HandlerRecord `json:"results"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// HandlerRecord is one handler result inside a Record.
type HandlerRecord struct {
	Plugin     string  `json:"plugin"`
	Executable string  `json:"executable"`
	Verdict    string  `json:"verdict"`
	ExitCode   int     `json:"exit_code"`
	Reason     string  `json:"reason,omitempty"`
	Stdout     string  `json:"stdout,omitempty"`
	Stderr     string  `json:"stderr,omitempty"`
	Duration   float64 `json:"duration_ms"`
}

// Options controls how outcomes are turned into records.
type Options struct {
	// IncludePayload stores the raw event payload in the record.
	IncludePayload bool
	// MaxOutput truncates each captured stream to this many bytes; zero
	// keeps everything the executor captured.
	MaxOutput int
}

// NewRecord converts a dispatch outcome into a record.
func NewRecord(o *hook.Outcome, opts Options) Record {
	var fields struct {
		SessionID string `json:"session_id"`
		ToolName  string `json:"tool_name"`
	}
	_ = json.Unmarshal(o.Payload, &fields) //nolint:errcheck // payload shape is host-defined; missing fields stay empty

	rec := Record{
		ID:        o.ID.String(),
		Timestamp: o.Started.UTC(),
		LocalTime: o.Started.Local().Format(time.RFC3339),
		Event:     string(o.Event),
		Matcher:   o.Matcher,
		SessionID: fields.SessionID,
		ToolName:  fields.ToolName,
		Aggregate: string(o.Aggregate),
		Duration:  millis(o.Duration),
		Results:   make([]HandlerRecord, 0, len(o.Results)),
	}

	for _, r := range o.Results {
		rec.Results = append(rec.Results, HandlerRecord{
			Plugin:     r.Plugin,
			Executable: r.Executable,
			Verdict:    string(r.Verdict),
			ExitCode:   r.ExitCode,
			Reason:     r.Reason,
			Stdout:     truncate(r.Stdout, opts.MaxOutput),
			Stderr:     truncate(r.Stderr, opts.MaxOutput),
			Duration:   millis(r.Duration),
		})
	}

	if opts.IncludePayload && len(o.Payload) > 0 {
		if json.Valid(o.Payload) {
			rec.Payload = json.RawMessage(o.Payload)
		} else {
			quoted, _ := json.Marshal(string(o.Payload)) //nolint:errcheck // marshaling a string cannot fail
			rec.Payload = quoted
		}
	}

	return rec
}

// Line encodes the record as one newline-terminated JSON line.
func (r Record) Line() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with sink context
	}
	return append(data, '\n'), nil
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "…[truncated]"
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
