// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/detect"
)

// Write writes prepared findings to w in the given format.
func Write(w io.Writer, f Format, diags []detect.Diagnostic) error {
	switch f {
	case JSON:
		return WriteJSON(w, diags)

	case JSONL:
		return WriteJSONL(w, diags)

	case Text:
		return WriteText(w, diags)

	default:
		return fmt.Errorf("%w %d", ErrUnknownFormat, f)
	}
}

// WriteJSON writes the findings as an indented JSON array.
func WriteJSON(w io.Writer, diags []detect.Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(Findings(diags)); err != nil {
		return fmt.Errorf("can't encode findings: %w", err)
	}

	return nil
}

// WriteJSONL writes one JSON record per finding and line.
func WriteJSONL(w io.Writer, diags []detect.Diagnostic) error {
	enc := json.NewEncoder(w)

	for _, f := range Findings(diags) {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("can't encode finding: %w", err)
		}
	}

	return nil
}

// WriteText writes a listing of the findings, styled when w is a terminal.
func WriteText(w io.Writer, diags []detect.Diagnostic) error {
	r := lipgloss.NewRenderer(w)

	var (
		locStyle      = r.NewStyle().Bold(true)
		detectorStyle = r.NewStyle().Foreground(lipgloss.Color("63"))
		dimStyle      = r.NewStyle().Foreground(lipgloss.Color("240"))
		severityStyle = map[level.Severity]lipgloss.Style{
			level.Info:    r.NewStyle().Foreground(lipgloss.Color("81")),
			level.Warning: r.NewStyle().Foreground(lipgloss.Color("208")),
			level.Error:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		}
	)

	counts := make(map[level.Severity]int, 3)

	for _, d := range diags {
		counts[d.Severity]++

		sev := severityStyle[d.Severity].Render(d.Severity.String())
		if _, err := fmt.Fprintf(w, "%s: %s: %s %s\n",
			locStyle.Render(d.Loc.String()), sev, d.Message, detectorStyle.Render("("+d.Detector+")")); err != nil {
			return err
		}

		for _, e := range d.Evidence {
			if _, err := fmt.Fprintf(w, "    %s\n", dimStyle.Render("see "+e.String())); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "%s\n", dimStyle.Render(fmt.Sprintf("%d findings: %d errors, %d warnings, %d info",
		len(diags), counts[level.Error], counts[level.Warning], counts[level.Info])))

	return err
}
