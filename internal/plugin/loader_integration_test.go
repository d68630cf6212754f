// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

//go:build integration

package plugin_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/pais-dev/pais/internal/plugin"
)

var _ = Describe("Loading the bundled plugins", func() {
	var root string

	BeforeEach(func() {
		root = filepath.Join("..", "..", "plugins")
	})

	It("loads the echo plugin with its handlers", func() {
		result, err := plugin.NewLoader([]string{root}).Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		// bin/echo is produced by the build command, so a fresh checkout
		// still loads the package.
		pkg, ok := result.Package("echo")
		Expect(ok).To(BeTrue(), "warnings: %v", result.Warnings)
		Expect(result.Warnings).To(BeEmpty())
		Expect(pkg.Manifest.Build.Command).NotTo(BeEmpty())
		Expect(pkg.Manifest.Provides).To(ContainElement(plugin.Provision{Contract: "Echo"}))
		Expect(pkg.Manifest.Events()).To(ContainElements(plugin.EventSessionStart, plugin.EventPreToolUse, plugin.EventStop))
	})

	It("validates the bundled manifest against the published schema", func() {
		data, err := os.ReadFile(filepath.Join(root, "echo", plugin.ManifestFile))
		Expect(err).NotTo(HaveOccurred())
		Expect(plugin.ValidateSchema(data)).To(Succeed())
	})
})

var _ = Describe("Loading across several roots", func() {
	var user, system string

	write := func(root, dir, manifest string) {
		path := filepath.Join(root, dir)
		Expect(os.MkdirAll(path, 0o750)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(path, plugin.ManifestFile), []byte(manifest), 0o600)).To(Succeed())
	}

	BeforeEach(func() {
		user = GinkgoT().TempDir()
		system = GinkgoT().TempDir()
	})

	It("keeps user roots ahead of system roots", func() {
		write(system, "audit", "name: audit\nversion: 1.0.0\n")
		write(user, "notes", "name: notes\nversion: 1.0.0\n")

		result, err := plugin.NewLoader([]string{user, system}).Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Packages).To(HaveLen(2))
		Expect(result.Packages[0].Name()).To(Equal("notes"))
		Expect(result.Packages[1].Name()).To(Equal("audit"))
	})

	It("refuses a name installed in both roots", func() {
		write(system, "audit", "name: audit\nversion: 1.0.0\n")
		write(user, "audit-dev", "name: audit\nversion: 1.1.0-dev\n")

		_, err := plugin.NewLoader([]string{user, system}).Load(context.Background())
		Expect(err).To(MatchError(ContainSubstring("declared by both")))
	})
})
