// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_WritesSchema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schemas", "plugin.schema.json")

	require.NoError(t, run(out, false))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Contains(t, schema, "properties")
}

func TestRun_Check(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plugin.schema.json")

	require.Error(t, run(out, true), "missing file is out of date")

	require.NoError(t, run(out, false))
	require.NoError(t, run(out, true))

	require.NoError(t, os.WriteFile(out, []byte("{}\n"), 0o600))
	err := run(out, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of date")
}
