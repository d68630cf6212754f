// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package contract

import (
	"strings"

	"github.com/samber/oops"
)

// Error codes for registry construction failures. All of them are fatal.
const (
	CodeAmbiguousProvider       = "AMBIGUOUS_PROVIDER"
	CodeMissingRequiredContract = "MISSING_REQUIRED_CONTRACT"
	CodeCyclicDependency        = "CYCLIC_DEPENDENCY"
)

// ErrAmbiguousProvider reports two packages providing the same key.
func ErrAmbiguousProvider(key Key, first, second string) error {
	return oops.Code(CodeAmbiguousProvider).
		With("contract", key.String()).
		With("providers", []string{first, second}).
		Errorf("contract %s is provided by both %s and %s", key, first, second)
}

// ErrMissingRequiredContract reports a required contract nobody provides.
func ErrMissingRequiredContract(consumer string, key Key) error {
	return oops.Code(CodeMissingRequiredContract).
		With("plugin", consumer).
		With("contract", key.String()).
		Errorf("package %s requires contract %s, which no package provides", consumer, key)
}

// ErrCyclicDependency reports the packages on a dependency cycle.
func ErrCyclicDependency(cycle []string) error {
	path := append([]string(nil), cycle...)
	if len(cycle) > 0 {
		path = append(path, cycle[0])
	}
	return oops.Code(CodeCyclicDependency).
		With("cycle", cycle).
		Errorf("dependency cycle: %s", strings.Join(path, " -> "))
}
