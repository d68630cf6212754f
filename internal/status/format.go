// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package status

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
)

// FormatTable renders the report for a terminal.
func FormatTable(r Report) string {
	var buf []byte
	w := tabwriter.NewWriter((*byteWriter)(&buf), 0, 0, 2, ' ', 0)

	if r.Error != nil {
		code := r.Error.Code
		if code == "" {
			code = "ERROR"
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n\n", code, r.Error.Message)
	}

	_, _ = fmt.Fprintln(w, "PLUGIN\tVERSION\tSTATE\tPROVIDES\tREQUIRES\tEVENTS")
	_, _ = fmt.Fprintln(w, "------\t-------\t-----\t--------\t--------\t------")
	for _, p := range r.Packages {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.Version, p.State,
			orDash(strings.Join(p.Provides, ", ")),
			orDash(formatRequires(p.Requires)),
			orDash(strings.Join(p.Events, ", ")))
	}
	_ = w.Flush()

	var sb strings.Builder
	sb.Write(buf)

	wroteReason := false
	for _, p := range r.Packages {
		if p.Reason == "" {
			continue
		}
		if !wroteReason {
			sb.WriteString("\n")
			wroteReason = true
		}
		fmt.Fprintf(&sb, "%s: %s\n", p.Name, p.Reason)
	}
	if len(r.Order) > 0 {
		fmt.Fprintf(&sb, "\nOrder: %s\n", strings.Join(r.Order, " -> "))
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range r.Warnings {
			fmt.Fprintf(&sb, "  %s: %s\n", warn.Dir, warn.Message)
		}
	}
	return sb.String()
}

// FormatJSON renders the report as indented JSON.
func FormatJSON(r Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal status: %w", err)
	}
	return string(data), nil
}

func formatRequires(reqs []RequirementReport) string {
	parts := make([]string, 0, len(reqs))
	for _, r := range reqs {
		var s string
		switch {
		case r.Resolved && r.ProviderDegraded:
			s = fmt.Sprintf("%s<-%s (degraded)", r.Key, r.Provider)
		case r.Resolved:
			s = fmt.Sprintf("%s<-%s", r.Key, r.Provider)
		default:
			s = r.Key + " (unresolved)"
		}
		if r.Optional {
			s += "?"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// byteWriter is a simple writer that appends to a byte slice.
type byteWriter []byte

func (w *byteWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
