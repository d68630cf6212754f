// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package audit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Sink persists records.
type Sink interface {
	Name() string
	Write(ctx context.Context, rec Record) error
}

// FileSink appends records to daily JSONL files:
// <dir>/raw-events/YYYY-MM/YYYY-MM-DD.jsonl, dated by local time.
type FileSink struct {
	dir string
}

// NewFileSink creates a sink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Name implements Sink.
func (s *FileSink) Name() string { return "file" }

// Path returns the file a record stamped at t is appended to.
func (s *FileSink) Path(t time.Time) string {
	t = t.Local()
	return filepath.Join(s.dir, "raw-events", t.Format("2006-01"), t.Format("2006-01-02")+".jsonl")
}

// Write appends rec with a single write on an O_APPEND descriptor, so
// concurrent writers never interleave partial lines.
func (s *FileSink) Write(_ context.Context, rec Record) error {
	line, err := rec.Line()
	if err != nil {
		return oops.With("sink", s.Name()).Wrapf(err, "encode record")
	}

	path := s.Path(rec.Timestamp)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return oops.With("path", path).Wrapf(err, "create audit directory")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // path is derived from the configured audit dir
	if err != nil {
		return oops.With("path", path).Wrapf(err, "open audit file")
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return oops.With("path", path).Wrapf(err, "append audit record")
	}
	if err := f.Close(); err != nil {
		return oops.With("path", path).Wrapf(err, "close audit file")
	}
	return nil
}

// WriterSink writes records as JSON lines to an io.Writer such as stdout.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Name implements Sink.
func (s *WriterSink) Name() string { return "stdout" }

// Write implements Sink.
func (s *WriterSink) Write(_ context.Context, rec Record) error {
	line, err := rec.Line()
	if err != nil {
		return oops.With("sink", s.Name()).Wrapf(err, "encode record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(line); err != nil {
		return oops.With("sink", s.Name()).Wrapf(err, "write record")
	}
	return nil
}

// HTTPSink POSTs each record as JSON, retrying transient failures.
type HTTPSink struct {
	endpoint   string
	client     *http.Client
	maxRetries uint64
	backoff    time.Duration
}

// HTTPSinkOption configures an HTTPSink.
type HTTPSinkOption func(*HTTPSink)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) HTTPSinkOption {
	return func(s *HTTPSink) {
		s.client = c
	}
}

// WithRetry sets the retry budget and initial backoff.
func WithRetry(maxRetries uint64, backoff time.Duration) HTTPSinkOption {
	return func(s *HTTPSink) {
		s.maxRetries = maxRetries
		s.backoff = backoff
	}
}

// NewHTTPSink creates a sink posting to endpoint.
func NewHTTPSink(endpoint string, opts ...HTTPSinkOption) *HTTPSink {
	s := &HTTPSink{
		endpoint:   endpoint,
		client:     &http.Client{Timeout: 5 * time.Second},
		maxRetries: 3,
		backoff:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.backoff <= 0 {
		s.backoff = time.Millisecond
	}
	return s
}

// Name implements Sink.
func (s *HTTPSink) Name() string { return "http" }

// Write implements Sink. Network errors and 5xx responses are retried with
// exponential backoff; 4xx responses fail immediately.
func (s *HTTPSink) Write(ctx context.Context, rec Record) error {
	body, err := rec.Line()
	if err != nil {
		return oops.With("sink", s.Name()).Wrapf(err, "encode record")
	}

	b := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.backoff))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
		if err != nil {
			return err //nolint:wrapcheck // wrapped below
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("server responded %s", resp.Status))
		case resp.StatusCode >= 300:
			return fmt.Errorf("server responded %s", resp.Status)
		}
		return nil
	})
	if err != nil {
		return oops.
			With("sink", s.Name()).
			With("endpoint", s.endpoint).
			Wrapf(err, "post audit record")
	}
	return nil
}
