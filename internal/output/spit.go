// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output renders query results to the terminal, either as JSON or
// as a plain lipgloss table.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/urfave/cli/v3"
)

// Spit emits results to w honoring --output and --titles. v is the typed
// result used for JSON; headers/rows are its tabular projection.
func Spit(cmd *cli.Command, w io.Writer, v any, headers []string, rows [][]string) error {
	if cmd.String("output") == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return nil
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Rows(rows...)

	if cmd.Bool("titles") {
		t = t.Headers(headers...).BorderHeader(false)
	}

	fmt.Fprintln(w, t)
	return nil
}
