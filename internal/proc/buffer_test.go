// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitedBuffer_KeepsHead(t *testing.T) {
	b := NewLimitedBuffer(5)

	n, err := b.Write([]byte("hello world"))
	assert.NoError(t, err)
	assert.Equal(t, 11, n, "writes always report full length")
	assert.True(t, b.Truncated())
	assert.Equal(t, "hello…[truncated]", b.String())

	n, err = b.Write([]byte("more"))
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestLimitedBuffer_UnderLimit(t *testing.T) {
	b := NewLimitedBuffer(64)
	_, _ = b.Write([]byte("abc"))
	_, _ = b.Write([]byte("def"))

	assert.False(t, b.Truncated())
	assert.Equal(t, "abcdef", b.String())
}
