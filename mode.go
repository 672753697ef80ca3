// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package depthmesh

import (
	"fmt"
	"strings"
)

// Mode selects which triangles a pipeline publishes.
type Mode int

const (
	// ModePruned publishes only triangles whose vertices agree in depth.
	// This is the default.
	ModePruned Mode = iota

	// ModeUnpruned publishes the full default triangle list every frame.
	// Depth edges are bridged by stretched triangles.
	ModeUnpruned
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePruned:
		return "Pruned"
	case ModeUnpruned:
		return "Unpruned"
	default:
		return "Unknown"
	}
}

func (m Mode) valid() bool {
	return m == ModePruned || m == ModeUnpruned
}

// ParseMode returns the Mode named s, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "pruned", "":
		return ModePruned, nil
	case "unpruned":
		return ModeUnpruned, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}
