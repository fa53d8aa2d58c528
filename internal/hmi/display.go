// Package hmi implements C6: rendering the current SystemState and
// runtime metrics (or the Config menu) on the 128x64 OLED, and turning
// two-button input into menu navigation and config edits (spec §4.6).
// There is no teacher analogue for a physical display — this package is
// new — so its rendering is built on charmbracelet/lipgloss (a real
// third-party terminal-styling library from the example pack's manifest
// set) standing in for the OLED driver, in the same spirit as the
// teacher's waveform generator standing in for a missing visualization
// primitive.
package hmi

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// lineWidth and lineCount match the spec's "four 32-column text lines"
// (spec §4.6).
const (
	lineWidth = 32
	lineCount = 4
)

// Frame is one render of the 128x64 display, four fixed-width lines.
type Frame struct {
	Lines [lineCount]string
}

// Equal reports whether two frames render identically, used by the
// display task to skip redundant redraws (spec §4.6 rendering cadence).
func (f Frame) Equal(o Frame) bool {
	return f.Lines == o.Lines
}

func padLine(s string) string {
	if len(s) > lineWidth {
		return s[:lineWidth]
	}
	return s + strings.Repeat(" ", lineWidth-len(s))
}

// NewFrame builds a Frame from up to 4 lines, padding/truncating each to
// lineWidth.
func NewFrame(lines ...string) Frame {
	var f Frame
	for i := 0; i < lineCount; i++ {
		if i < len(lines) {
			f.Lines[i] = padLine(lines[i])
		} else {
			f.Lines[i] = padLine("")
		}
	}
	return f
}

// Display is the OLED rendering contract.
type Display interface {
	Render(f Frame)
}

// FramebufferDisplay is a headless Display that just remembers the last
// frame, used by tests and by any component that wants to inspect what
// would have been drawn.
type FramebufferDisplay struct {
	Last Frame
}

func (d *FramebufferDisplay) Render(f Frame) { d.Last = f }

// TerminalDisplay renders Frame to stdout as a bordered lipgloss box,
// simulating the 128x64 monochrome OLED for local/demo runs.
type TerminalDisplay struct {
	style lipgloss.Style
}

// NewTerminalDisplay builds a TerminalDisplay with a monospace-feeling
// bordered box sized to the spec's 4x32 character grid.
func NewTerminalDisplay() *TerminalDisplay {
	return &TerminalDisplay{
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Foreground(lipgloss.Color("86")).
			Padding(0, 1).
			Width(lineWidth),
	}
}

func (d *TerminalDisplay) Render(f Frame) {
	body := strings.Join(f.Lines[:], "\n")
	fmt.Println(d.style.Render(body))
}
