// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Command gen-schema writes the plugin manifest JSON Schema, or with --check
// fails when the committed schema is out of date.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/pais-dev/pais/internal/plugin"
)

func main() {
	out := pflag.StringP("out", "o", filepath.Join("schemas", "plugin.schema.json"), "output path")
	check := pflag.Bool("check", false, "compare with the existing file instead of writing it")
	pflag.Parse()

	if err := run(*out, *check); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(outPath string, check bool) error {
	schema, err := plugin.GenerateSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	schema = append(schema, '\n')

	if check {
		existing, err := os.ReadFile(outPath) //nolint:gosec // path comes from the command line
		if err != nil {
			return fmt.Errorf("read %s: %w", outPath, err)
		}
		if !bytes.Equal(existing, schema) {
			return fmt.Errorf("%s is out of date; run gen-schema", outPath)
		}
		fmt.Printf("%s is up to date\n", outPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(outPath, schema, 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	fmt.Printf("Generated %s\n", outPath)
	return nil
}
