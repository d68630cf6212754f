// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package config

import (
	"github.com/samber/oops"
)

// CodeConfigInvalid marks configuration that cannot be read or used.
const CodeConfigInvalid = "CONFIG_INVALID"

// ErrConfigInvalid reports a bad configuration source or setting.
func ErrConfigInvalid(key string, cause error) error {
	return oops.Code(CodeConfigInvalid).
		With("key", key).
		Wrapf(cause, "invalid configuration %s", key)
}
