// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

//go:build integration

package integration

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

type listedPackage struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	Requires []struct {
		Key      string `json:"key"`
		Provider string `json:"provider"`
		Resolved bool   `json:"resolved"`
	} `json:"requires"`
}

type listReport struct {
	Packages []listedPackage `json:"packages"`
	Order    []string        `json:"order"`
}

var _ = Describe("Listing plugins", func() {
	var ws *workspace

	BeforeEach(func() {
		ws = newWorkspace()
		ws.plugin("incident", `
name: incident
version: 0.2.0
consumes:
  - contract: Memory
  - contract: Integration
    service: pagerduty
    optional: true
`, nil)
		ws.plugin("history", `
name: history
version: 1.0.0
provides: [Memory]
build:
  check: test -f ready
  command: touch ready
`, nil)
	})

	decode := func(out []byte) listReport {
		var report listReport
		Expect(json.Unmarshal(out, &report)).To(Succeed())
		return report
	}

	It("wires incident to the history provider", func() {
		session := ws.run("", "list", "--json")
		Expect(session.ExitCode()).To(Equal(0))

		report := decode(session.Out.Contents())
		Expect(report.Order).To(Equal([]string{"history", "incident"}))
		Expect(report.Packages[0].Name).To(Equal("incident"))
		Expect(report.Packages[0].State).To(Equal("unchecked"))
		Expect(report.Packages[0].Requires[0].Provider).To(Equal("history"))
		Expect(report.Packages[0].Requires[1].Resolved).To(BeFalse())
	})

	It("builds artifacts when asked to check readiness", func() {
		session := ws.run("", "status", "--check", "--json")
		Expect(session.ExitCode()).To(Equal(0))

		for _, p := range decode(session.Out.Contents()).Packages {
			Expect(p.State).To(Equal("ready"), p.Name)
		}
		Expect(ws.run("", "verify", "history").ExitCode()).To(Equal(0))
	})

	It("prints the dispatch table", func() {
		ws.plugin("guard", "name: guard\nversion: 1.0.0\nhooks:\n  PreToolUse:\n    - executable: g.sh\n      matcher: glob:mcp__*\n",
			map[string]string{"g.sh": "exit 0\n"})

		session := ws.run("", "hooks", "pre-tool-use")

		Expect(session.ExitCode()).To(Equal(0))
		Expect(string(session.Out.Contents())).To(ContainSubstring("mcp__*"))
	})
})
