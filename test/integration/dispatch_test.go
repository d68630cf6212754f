// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

//go:build integration

package integration

import (
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

const bashPayload = `{"session_id":"s-1","tool_name":"Bash","tool_input":{"command":"git push --force"}}`

var _ = Describe("Dispatching hooks", func() {
	var ws *workspace

	BeforeEach(func() {
		ws = newWorkspace()
	})

	Describe("a blocking guard", func() {
		var audit string

		BeforeEach(func() {
			ws.plugin("guard", `
name: guard
version: 1.0.0
hooks:
  PreToolUse:
    - executable: guard.sh
      matcher: Bash
  PostToolUse:
    - executable: guard.sh
      matcher: Bash
`, map[string]string{"guard.sh": `
if grep -q -- '--force'; then
  echo 'force pushes are not allowed' >&2
  exit 2
fi
`})
			audit = ws.plugin("audit", `
name: audit
version: 1.0.0
hooks:
  PreToolUse:
    - executable: log.sh
`, map[string]string{"log.sh": `cat >> "$PAIS_PLUGIN_DIR/seen"` + "\n"})
		})

		It("exits 2 with the guard's reason and stops later handlers", func() {
			session := ws.run(bashPayload, "dispatch", "PreToolUse")

			Expect(session.ExitCode()).To(Equal(2))
			Expect(string(session.Err.Contents())).To(ContainSubstring("force pushes are not allowed"))
			Expect(filepath.Join(audit, "seen")).NotTo(BeAnExistingFile())
		})

		It("lets safe commands through to every handler", func() {
			session := ws.run(`{"tool_name":"Bash","tool_input":{"command":"ls"}}`, "dispatch", "PreToolUse")

			Expect(session.ExitCode()).To(Equal(0))
			Expect(filepath.Join(audit, "seen")).To(BeAnExistingFile())
		})

		It("never blocks events outside the blockable set", func() {
			session := ws.run(bashPayload, "dispatch", "PostToolUse")

			Expect(session.ExitCode()).To(Equal(0))
		})

		It("records every dispatch in the history", func() {
			ws.run(bashPayload, "dispatch", "PreToolUse")

			matches, err := filepath.Glob(filepath.Join(ws.dir, "history", "raw-events", "*", "*.jsonl"))
			Expect(err).NotTo(HaveOccurred())
			Expect(matches).To(HaveLen(1))
		})
	})

	It("kills a handler that outlives its timeout and carries on", func() {
		ws.plugin("slow", `
name: slow
version: 1.0.0
hooks:
  Stop:
    - executable: slow.sh
      timeout: 1
`, map[string]string{"slow.sh": "sleep 30 &\nsleep 30\nexit 2\n"})
		after := ws.plugin("after", `
name: after
version: 1.0.0
hooks:
  Stop:
    - executable: after.sh
`, map[string]string{"after.sh": `touch "$PAIS_PLUGIN_DIR/ran"` + "\n"})

		start := time.Now()
		session := ws.run("{}", "dispatch", "Stop")

		Expect(session.ExitCode()).To(Equal(0))
		Expect(time.Since(start)).To(BeNumerically("<", 15*time.Second))
		Expect(filepath.Join(after, "ran")).To(BeAnExistingFile())
		Expect(string(session.Err.Contents())).To(ContainSubstring("HANDLER_TIMEOUT"))
	})

	It("skips consumers of a degraded provider", func() {
		ws.plugin("history", `
name: history
version: 1.0.0
provides: [Memory]
build:
  check: test -f built
  command: exit 1
`, nil)
		incident := ws.plugin("incident", `
name: incident
version: 1.0.0
consumes:
  - contract: Memory
hooks:
  SessionStart:
    - executable: start.sh
`, map[string]string{"start.sh": `touch "$PAIS_PLUGIN_DIR/ran"` + "\n"})

		session := ws.run("{}", "dispatch", "SessionStart")

		Expect(session.ExitCode()).To(Equal(0))
		Expect(filepath.Join(incident, "ran")).NotTo(BeAnExistingFile())
		Expect(string(session.Err.Contents())).To(ContainSubstring("degraded"))
	})

	It("runs only the history handler for the history/incident wiring", func() {
		history := ws.plugin("history", `
name: history
version: 1.0.0
provides: [Memory]
hooks:
  SessionStart:
    - executable: start.sh
`, map[string]string{"start.sh": `touch "$PAIS_PLUGIN_DIR/ran"` + "\n"})
		incident := ws.plugin("incident", `
name: incident
version: 1.0.0
consumes:
  - contract: Memory
    optional: true
  - contract: Integration
    service: pagerduty
    optional: true
`, nil)

		session := ws.run("{}", "dispatch", "SessionStart")

		Expect(session.ExitCode()).To(Equal(0))
		Expect(filepath.Join(history, "ran")).To(BeAnExistingFile())
		Expect(filepath.Join(incident, "ran")).NotTo(BeAnExistingFile())
	})

	It("passes handler stdout through in order", func() {
		ws.plugin("a-first", "name: a-first\nversion: 1.0.0\nhooks:\n  SessionStart:\n    - executable: say.sh\n",
			map[string]string{"say.sh": "echo first\n"})
		ws.plugin("b-second", "name: b-second\nversion: 1.0.0\nhooks:\n  SessionStart:\n    - executable: say.sh\n",
			map[string]string{"say.sh": "echo second\n"})

		session := ws.run("{}", "dispatch", "SessionStart")

		Expect(session.ExitCode()).To(Equal(0))
		Expect(strings.Fields(string(session.Out.Contents()))).To(Equal([]string{"first", "second"}))
	})

	DescribeTable("exits 1 on failures that must not read as a block",
		func(setup func(*workspace), args ...string) {
			setup(ws)
			session := ws.run("{}", args...)
			Expect(session.ExitCode()).To(Equal(1))
		},
		Entry("unknown event", func(*workspace) {}, "dispatch", "OnSave"),
		Entry("missing required contract", func(w *workspace) {
			w.plugin("incident", "name: incident\nversion: 1.0.0\nconsumes:\n  - contract: Memory\n", nil)
		}, "dispatch", "Stop"),
		Entry("ambiguous provider", func(w *workspace) {
			w.plugin("one", "name: one\nversion: 1.0.0\nprovides: [Memory]\n", nil)
			w.plugin("two", "name: two\nversion: 1.0.0\nprovides: [Memory]\n", nil)
		}, "dispatch", "Stop"),
		Entry("cyclic dependency", func(w *workspace) {
			w.plugin("a", "name: a\nversion: 1.0.0\nprovides: [A]\nconsumes:\n  - contract: B\n", nil)
			w.plugin("b", "name: b\nversion: 1.0.0\nprovides: [B]\nconsumes:\n  - contract: A\n", nil)
		}, "dispatch", "Stop"),
	)
})
