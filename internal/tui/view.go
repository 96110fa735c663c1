// SPDX-License-Identifier: EPL-2.0

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/padsampler/audio"
	"github.com/ik5/padsampler/loader"
	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/params"
)

const (
	cellWidth     = 16
	waveWidth     = 3*cellWidth + 4
	progressWidth = cellWidth - 2
)

var (
	accent = lipgloss.Color("205")
	muted  = lipgloss.Color("241")
	red    = lipgloss.Color("160")
	green  = lipgloss.Color("42")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle    = lipgloss.NewStyle().Foreground(muted)
	errStyle    = lipgloss.NewStyle().Foreground(red)
	okStyle     = lipgloss.NewStyle().Foreground(green)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Height(3).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted)
	selectedCell = cellStyle.BorderForeground(accent)
	playingCell  = cellStyle.Reverse(true)

	listStyle = lipgloss.NewStyle().PaddingLeft(3)
)

var levels = []rune("▁▂▃▄▅▆▇█")

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var out strings.Builder

	title := "padsampler"
	if m.loaded != "" {
		title += "  " + m.loaded
	}
	if m.Sampler.Recording() {
		title += "  " + errStyle.Render("● REC")
	}
	out.WriteString(headerStyle.Render(title))
	out.WriteString("\n\n")

	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.grid(), listStyle.Render(m.presetList())))
	out.WriteString("\n")
	out.WriteString(m.padDetail())
	out.WriteString("\n\n")

	switch {
	case m.naming:
		out.WriteString("export as: " + string(m.name) + "█")
	case m.status != "":
		out.WriteString(m.status)
	}
	out.WriteString("\n")
	out.WriteString(dimStyle.Render("zxc/asd/qwe:pads  ↑↓ enter:preset  []:category  tab ←→:param  0:reset  r:rec  ctrl+s:export  space:stop  esc:quit"))

	return out.String()
}

func (m Model) grid() string {
	rows := make([]string, 0, len(pad.Grid))
	for _, row := range pad.Grid {
		cells := make([]string, 0, len(row))
		for _, id := range row {
			cells = append(cells, m.cell(id))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) cell(id pad.ID) string {
	s := m.Sampler
	st := s.LoadState(id)

	label := fmt.Sprintf("%s [%s]", id, id.Key())

	var name, line string
	switch st.Status {
	case loader.Loading:
		line = progressBar(st.Progress, progressWidth)
	case loader.Loaded:
		name = st.Name
		line = okStyle.Render("ready")
	case loader.Failed:
		line = errStyle.Render("error")
	default:
		if _, ok := s.Buffer(id); ok {
			name = "recording"
			line = okStyle.Render("ready")
		} else {
			line = dimStyle.Render("empty")
		}
	}
	if r := []rune(name); len(r) > cellWidth {
		name = string(r[:cellWidth-1]) + "…"
	}

	style := cellStyle
	if id == s.Selected() {
		style = selectedCell
	}
	if s.Playing(id) {
		style = style.Inherit(playingCell)
	}
	return style.Render(label + "\n" + name + "\n" + line)
}

func progressBar(p float64, width int) string {
	n := int(p*float64(width) + 0.5)
	n = min(max(n, 0), width)
	return strings.Repeat("█", n) + dimStyle.Render(strings.Repeat("░", width-n))
}

func (m Model) presetList() string {
	var b strings.Builder

	category := m.currentCategory()
	if category == "" {
		category = "all"
	}
	b.WriteString(headerStyle.Render("presets: " + category))
	b.WriteString("\n")

	if len(m.presets) == 0 {
		b.WriteString(dimStyle.Render("(none)"))
		return b.String()
	}
	for i, p := range m.presets {
		line := fmt.Sprintf("%s %s", p.Name, dimStyle.Render(p.Category))
		if i == m.cursor {
			line = headerStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) padDetail() string {
	s := m.Sampler
	id := s.Selected()
	if !id.Valid() {
		return dimStyle.Render("no pad selected")
	}

	p := s.Params(id)

	var fields []string
	for f := params.Start; f <= params.Pitch; f++ {
		text := fmt.Sprintf("%s %.2f", f, p.Get(f))
		if f == m.field {
			text = headerStyle.Render("[" + text + "]")
		}
		fields = append(fields, text)
	}

	var b strings.Builder
	b.WriteString(id.String() + "  " + strings.Join(fields, "  "))
	b.WriteString("\n")

	if buf, ok := s.Buffer(id); ok {
		b.WriteString(waveform(s.Peaks(id, waveWidth), p))
		fmt.Fprintf(&b, "  %.2fs", buf.Seconds())
	}
	return b.String()
}

// waveform renders peaks as block levels, dimming columns outside the
// trim window of p.
func waveform(peaks []audio.Peak, p params.Params) string {
	var b strings.Builder
	n := len(peaks)
	for i, pk := range peaks {
		amp := float64(max(pk.Max, -pk.Min))
		lvl := min(int(amp*float64(len(levels))), len(levels)-1)
		ch := string(levels[max(lvl, 0)])

		pos := (float64(i) + 0.5) / float64(n)
		if pos < p.Start || pos > p.End {
			ch = dimStyle.Render(ch)
		}
		b.WriteString(ch)
	}
	return b.String()
}
