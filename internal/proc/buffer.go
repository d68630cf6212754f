// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package proc

import "bytes"

// LimitedBuffer keeps the first Limit bytes written to it and discards the
// rest while still reporting full writes, so a chatty child never blocks on
// a full pipe.
type LimitedBuffer struct {
	Limit     int
	buf       bytes.Buffer
	truncated bool
}

// NewLimitedBuffer creates a buffer that retains at most limit bytes.
func NewLimitedBuffer(limit int) *LimitedBuffer {
	return &LimitedBuffer{Limit: limit}
}

// Write implements io.Writer.
func (b *LimitedBuffer) Write(p []byte) (int, error) {
	room := b.Limit - b.buf.Len()
	if room <= 0 {
		if len(p) > 0 {
			b.truncated = true
		}
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

// String returns the retained output, marked when truncated.
func (b *LimitedBuffer) String() string {
	if b.truncated {
		return b.buf.String() + "…[truncated]"
	}
	return b.buf.String()
}

// Truncated reports whether output was dropped.
func (b *LimitedBuffer) Truncated() bool {
	return b.truncated
}
