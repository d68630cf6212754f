// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pais-dev/pais/internal/hook"
	"github.com/pais-dev/pais/internal/plugin"
)

func sampleOutcome() *hook.Outcome {
	return &hook.Outcome{
		ID:      ulid.Make(),
		Event:   plugin.EventPreToolUse,
		Matcher: "Bash",
		Payload: []byte("{\n  \"session_id\": \"abc\",\n  \"tool_name\": \"Bash\"\n}"),
		Started: time.Date(2026, 3, 14, 15, 9, 26, 0, time.Local),
		Results: []hook.Result{
			{Plugin: "guard", Executable: "guard.sh", Verdict: hook.VerdictBlock, ExitCode: 2, Stderr: strings.Repeat("x", 50)},
		},
		Aggregate: hook.VerdictBlock,
	}
}

func TestNewRecord(t *testing.T) {
	o := sampleOutcome()

	rec := NewRecord(o, Options{MaxOutput: 10})

	assert.Equal(t, o.ID.String(), rec.ID)
	assert.Equal(t, "PreToolUse", rec.Event)
	assert.Equal(t, "abc", rec.SessionID)
	assert.Equal(t, "Bash", rec.ToolName)
	assert.Equal(t, "block", rec.Aggregate)
	assert.Nil(t, rec.Payload, "payload excluded by default")
	require.Len(t, rec.Results, 1)
	assert.Equal(t, strings.Repeat("x", 10)+"…[truncated]", rec.Results[0].Stderr)
}

func TestRecordLine_IsSingleLine(t *testing.T) {
	rec := NewRecord(sampleOutcome(), Options{IncludePayload: true})

	line, err := rec.Line()
	require.NoError(t, err)

	assert.Equal(t, 1, bytes.Count(line, []byte("\n")))
	assert.True(t, bytes.HasSuffix(line, []byte("\n")))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(line, &decoded))
	payload, ok := decoded["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Bash", payload["tool_name"])
}

func TestNewRecord_NonJSONPayloadIsQuoted(t *testing.T) {
	o := sampleOutcome()
	o.Payload = []byte("plain text")

	rec := NewRecord(o, Options{IncludePayload: true})

	assert.JSONEq(t, `"plain text"`, string(rec.Payload))
	assert.Empty(t, rec.SessionID)
}

func TestFileSink_Path(t *testing.T) {
	s := NewFileSink("/data/history")
	ts := time.Date(2026, 1, 5, 10, 0, 0, 0, time.Local)

	assert.Equal(t, filepath.Join("/data/history", "raw-events", "2026-01", "2026-01-05.jsonl"), s.Path(ts))
}

func TestFileSink_ConcurrentAppends(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSink(dir)
	rec := NewRecord(sampleOutcome(), Options{IncludePayload: true})

	const writers = 20
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Write(context.Background(), rec))
		}()
	}
	wg.Wait()

	f, err := os.Open(s.Path(rec.Timestamp))
	require.NoError(t, err)
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var got Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &got), "line %d is not a whole record", lines)
		assert.Equal(t, rec.ID, got.ID)
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, writers, lines)
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	require.NoError(t, s.Write(context.Background(), NewRecord(sampleOutcome(), Options{})))

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"event":"PreToolUse"`)
}

func TestHTTPSink_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewHTTPSink(srv.URL, WithRetry(3, time.Millisecond))
	err := s.Write(context.Background(), NewRecord(sampleOutcome(), Options{}))

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPSink_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTPSink(srv.URL, WithRetry(2, time.Millisecond))
	err := s.Write(context.Background(), NewRecord(sampleOutcome(), Options{}))

	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load(), "one attempt plus two retries")
}

func TestHTTPSink_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewHTTPSink(srv.URL, WithRetry(3, time.Millisecond)).
		Write(context.Background(), NewRecord(sampleOutcome(), Options{}))

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

type failingSink struct{ name string }

func (s failingSink) Name() string { return s.name }
func (s failingSink) Write(context.Context, Record) error {
	return errors.New(s.name + " unavailable")
}

func TestRecorder_TriesEverySink(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(Options{}, failingSink{name: "first"}, NewWriterSink(&buf), failingSink{name: "last"})

	err := r.Record(context.Background(), sampleOutcome())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "first unavailable")
	assert.Contains(t, err.Error(), "last unavailable")
	assert.NotEmpty(t, buf.String(), "a failing sink does not stop later sinks")
}
