// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause     key.Binding
	Mode      key.Binding
	Finer     key.Binding
	Coarser   key.Binding
	Threshold key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause:     key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pruned/unpruned")),
		Finer:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "finer")),
		Coarser:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "coarser")),
		Threshold: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "threshold")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Mode, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Mode, k.Threshold},
		{k.Finer, k.Coarser},
		{k.Help, k.Quit},
	}
}
