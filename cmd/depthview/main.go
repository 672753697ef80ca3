// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command depthview shows a live braille wireframe of synthetic depth
// frames in the terminal. Pruned triangles appear as holes around the
// moving object and at sensor dropouts.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gogpu/depthmesh"
)

func main() {
	var (
		factor  = flag.Int("factor", 4, "initial downsample factor")
		logPath = flag.String("log", "", "write debug logs to this file")
	)
	flag.Parse()

	if *logPath != "" {
		f, err := os.Create(*logPath) //nolint:gosec // path is user-provided intentionally
		if err != nil {
			log.Fatal(err)
		}
		defer func() { _ = f.Close() }()
		depthmesh.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	m, err := newModel(*factor)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
