// SPDX-License-Identifier: EPL-2.0

// Package tui is the terminal front end of the sampler.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ik5/padsampler"
	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/params"
	"github.com/ik5/padsampler/preset"
)

const requestTimeout = 30 * time.Second

// steps are the increments applied by left/right per field.
var steps = [...]float64{
	params.Start:  0.01,
	params.End:    0.01,
	params.Volume: 0.05,
	params.Pan:    0.1,
	params.Pitch:  0.05,
}

type Model struct {
	Sampler *padsampler.Sampler

	updates    chan struct{}
	presets    []preset.Summary
	categories []string
	category   int // index into categories, -1 for all
	cursor     int
	loaded     string
	field      params.Field
	naming     bool
	name       []rune
	status     string
	quitting   bool
}

type UpdateMsg struct{}

type presetsMsg struct {
	list       []preset.Summary
	categories []string
	err        error
}

type loadMsg struct {
	name string
	err  error
}

type recordedMsg struct {
	pad pad.ID
	err error
}

type exportedMsg struct {
	preset preset.Preset
	err    error
}

// NewModel subscribes to s. Every sampler event becomes at most one pending
// redraw.
func NewModel(s *padsampler.Sampler) Model {
	updates := make(chan struct{}, 1)
	s.Subscribe(func(padsampler.Event) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	return Model{
		Sampler:  s,
		updates:  updates,
		category: -1,
		field:    params.Volume,
	}
}

func ListenForUpdates(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return UpdateMsg{}
	}
}

func (m Model) fetchPresets() tea.Cmd {
	s := m.Sampler
	category := m.currentCategory()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		all, err := s.Presets(ctx, "")
		if err != nil {
			return presetsMsg{err: err}
		}
		return presetsMsg{
			list:       preset.Filter(all, category),
			categories: preset.Categories(all),
		}
	}
}

func (m Model) loadPreset(p preset.Summary) tea.Cmd {
	s := m.Sampler
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := s.LoadPreset(ctx, p.ID)
		return loadMsg{name: p.Name, err: err}
	}
}

func (m Model) stopRecording() tea.Cmd {
	s := m.Sampler
	return func() tea.Msg {
		id, err := s.StopRecording()
		return recordedMsg{pad: id, err: err}
	}
}

func (m Model) export(name string) tea.Cmd {
	s := m.Sampler
	category := m.currentCategory()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		p, err := s.Export(ctx, name, category)
		return exportedMsg{preset: p, err: err}
	}
}

func (m Model) currentCategory() string {
	if m.category < 0 || m.category >= len(m.categories) {
		return ""
	}
	return m.categories[m.category]
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.updates),
		m.fetchPresets(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.naming {
			return m.updateName(msg)
		}
		return m.updateKey(msg)

	case UpdateMsg:
		return m, ListenForUpdates(m.updates)

	case presetsMsg:
		if msg.err != nil {
			m.status = "presets: " + msg.err.Error()
			return m, nil
		}
		m.presets = msg.list
		m.categories = msg.categories
		m.cursor = min(m.cursor, max(len(m.presets)-1, 0))

	case loadMsg:
		if msg.err != nil {
			m.status = "load: " + msg.err.Error()
			return m, nil
		}
		m.loaded = msg.name
		m.status = "loading " + msg.name

	case recordedMsg:
		if msg.err != nil {
			m.status = "record: " + msg.err.Error()
			return m, nil
		}
		m.status = "recorded into " + msg.pad.String()

	case exportedMsg:
		if msg.err != nil {
			m.status = "export: " + msg.err.Error()
			return m, nil
		}
		m.status = "exported " + msg.preset.Name
		return m, m.fetchPresets()
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.Sampler
	key := msg.String()

	if _, ok := pad.FromKey(key); ok && msg.Type == tea.KeyRunes {
		s.PressKey(key)
		return m, nil
	}

	switch key {
	case "ctrl+c", "esc":
		m.quitting = true
		s.StopAll()
		return m, tea.Quit

	case "up", "k":
		m.cursor = max(m.cursor-1, 0)

	case "down", "j":
		m.cursor = min(m.cursor+1, max(len(m.presets)-1, 0))

	case "enter":
		if m.cursor < len(m.presets) {
			return m, m.loadPreset(m.presets[m.cursor])
		}

	case "]":
		m.category++
		if m.category >= len(m.categories) {
			m.category = -1
		}
		m.cursor = 0
		return m, m.fetchPresets()

	case "[":
		m.category--
		if m.category < -1 {
			m.category = len(m.categories) - 1
		}
		m.cursor = 0
		return m, m.fetchPresets()

	case "tab":
		m.field = (m.field + 1) % (params.Pitch + 1)

	case "shift+tab":
		m.field = (m.field + params.Pitch) % (params.Pitch + 1)

	case "left", "h", "right", "l":
		id := s.Selected()
		if !id.Valid() {
			m.status = "select a pad first"
			return m, nil
		}
		delta := steps[m.field]
		if key == "left" || key == "h" {
			delta = -delta
		}
		s.SetParam(id, m.field, s.Params(id).Get(m.field)+delta)

	case "0":
		s.ResetParams()

	case " ":
		s.StopAll()

	case "r":
		if s.Recording() {
			return m, m.stopRecording()
		}
		if err := s.StartRecording(); err != nil {
			m.status = "record: " + err.Error()
			return m, nil
		}
		m.status = "recording..."

	case "ctrl+s":
		m.naming = true
		m.name = nil
	}

	return m, nil
}

func (m Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.naming = false
	case tea.KeyEnter:
		m.naming = false
		name := string(m.name)
		if name == "" {
			name = "untitled"
		}
		m.status = "exporting " + name
		return m, m.export(name)
	case tea.KeyBackspace:
		if len(m.name) > 0 {
			m.name = m.name[:len(m.name)-1]
		}
	case tea.KeySpace:
		m.name = append(m.name, ' ')
	case tea.KeyRunes:
		m.name = append(m.name, msg.Runes...)
	}
	return m, nil
}
