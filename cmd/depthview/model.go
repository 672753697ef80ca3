// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gogpu/depthmesh"
	"github.com/gogpu/depthmesh/internal/braille"
	"github.com/gogpu/depthmesh/internal/synth"
)

const (
	frameInterval = time.Second / 30
	maxFactor     = 16
	headerHeight  = 1
	footerHeight  = 2
)

var thresholds = []float32{5, 10, 20, 40, 80}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	keys keyMap
	help help.Model

	scene    synth.Scene
	src      *synth.Source
	cfg      depthmesh.Config
	pipeline *depthmesh.Pipeline
	canvas   *braille.Canvas
	wire     *wireframe

	width  int
	height int
	paused bool
	status string
	err    error
}

func newModel(factor int) (model, error) {
	scene := synth.KinectScene()
	src, err := synth.NewSource(scene)
	if err != nil {
		return model{}, err
	}
	cfg := depthmesh.DefaultConfig()
	cfg.DownsampleFactor = factor

	canvas := braille.New(0, 0)
	m := model{
		keys:   defaultKeyMap(),
		help:   help.New(),
		scene:  scene,
		src:    src,
		cfg:    cfg,
		canvas: canvas,
		wire:   newWireframe(canvas),
		status: "depthview ready",
	}
	if err := m.rebuild(); err != nil {
		return model{}, err
	}
	return m, nil
}

// rebuild replaces the pipeline after a configuration change.
func (m *model) rebuild() error {
	p, err := depthmesh.NewPipeline(m.cfg, m.wire, depthmesh.WithMapper(m.scene.Mapper(0)))
	if err != nil {
		return err
	}
	m.pipeline = p
	return nil
}

// reconfigure applies change to the config and rebuilds, reverting on error.
func (m *model) reconfigure(change func(*depthmesh.Config)) {
	prev := m.cfg
	change(&m.cfg)
	if err := m.rebuild(); err != nil {
		m.cfg = prev
		m.status = "config: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("factor %d, threshold %g, %v", m.cfg.DownsampleFactor, m.cfg.TriangleThreshold, m.cfg.Mode)
	if m.paused {
		m.step()
	}
}

// step pushes one synthetic frame through the pipeline.
func (m *model) step() {
	m.err = m.pipeline.ProcessFrame(m.src.Next())
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.canvas.Resize(msg.Width, max(1, msg.Height-headerHeight-footerHeight))
		m.wire.fit()
		// Redraw the last frame at the new size.
		if err := m.pipeline.Reprocess(); err != nil && !errors.Is(err, depthmesh.ErrNotReady) {
			m.err = err
		}
	case tickMsg:
		if !m.paused {
			m.step()
		}
		return m, tick()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			m.status = fmt.Sprintf("paused: %v", m.paused)
		case key.Matches(msg, m.keys.Mode):
			m.reconfigure(func(c *depthmesh.Config) {
				if c.Mode == depthmesh.ModePruned {
					c.Mode = depthmesh.ModeUnpruned
				} else {
					c.Mode = depthmesh.ModePruned
				}
			})
		case key.Matches(msg, m.keys.Finer):
			if m.cfg.DownsampleFactor > 1 {
				m.reconfigure(func(c *depthmesh.Config) { c.DownsampleFactor-- })
			}
		case key.Matches(msg, m.keys.Coarser):
			if m.cfg.DownsampleFactor < maxFactor {
				m.reconfigure(func(c *depthmesh.Config) { c.DownsampleFactor++ })
			}
		case key.Matches(msg, m.keys.Threshold):
			m.reconfigure(func(c *depthmesh.Config) { c.TriangleThreshold = nextThreshold(c.TriangleThreshold) })
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func nextThreshold(cur float32) float32 {
	for _, t := range thresholds {
		if t > cur {
			return t
		}
	}
	return thresholds[0]
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := titleStyle.Render(" depthview ─ tiled depth mesh ")
	header = lipgloss.NewStyle().Width(m.width).Render(header)

	body := meshStyle.Render(strings.Join(m.canvas.Lines(), "\n"))

	st := m.pipeline.Stats()
	line := fmt.Sprintf(" frame %d  tiles %d  triangles %d/%d  pruned %d  %v  dropped %d  skipped %d ",
		st.Seq, st.Tiles, st.ActiveTriangles, st.DefaultTriangles, st.Pruned,
		st.Duration.Round(time.Microsecond), st.Dropped, st.Skipped)
	status := dimStyle.Render(line + " " + m.status)
	if m.err != nil {
		status = errStyle.Render(" " + m.err.Error())
	}
	footer := lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(m.width).Height(m.height).Render(ui)
}
