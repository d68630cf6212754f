// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/pais-dev/pais/pkg/errutil"
)

func TestAssertErrorCode_MatchingCode(t *testing.T) {
	err := oops.Code("BUILD_FAILURE").Errorf("check exited 1")
	errutil.AssertErrorCode(t, err, "BUILD_FAILURE")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("plugin", "history").Errorf("test error")
	errutil.AssertErrorContext(t, err, "plugin", "history")
}
