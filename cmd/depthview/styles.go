// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	meshFg    = lipgloss.Color("#38BDF8")
	errFg     = lipgloss.Color("#F87171")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	meshStyle  = lipgloss.NewStyle().Foreground(meshFg)
	errStyle   = lipgloss.NewStyle().Foreground(errFg)
)
