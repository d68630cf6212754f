// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package hook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pais-dev/pais/pkg/hooksdk"
)

// Handlers built on hooksdk must agree with the dispatcher on names and codes.
func TestHandlerProtocolMatchesSDK(t *testing.T) {
	assert.Equal(t, EnvEvent, hooksdk.EnvEvent)
	assert.Equal(t, EnvPlugin, hooksdk.EnvPlugin)
	assert.Equal(t, EnvPluginDir, hooksdk.EnvPluginDir)
	assert.Equal(t, ExitAllow, hooksdk.ExitAllow)
	assert.Equal(t, ExitBlock, hooksdk.ExitBlock)
}
