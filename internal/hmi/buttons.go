package hmi

import "sync"

// debounce is the fixed button debounce window (spec §4.6: "two input
// buttons with 200 ms debounce").
const debounce = 200 // milliseconds; ButtonSource implementations own debouncing

// ButtonSource is the two-button input contract. Button1 is Navigate,
// Button2 is Edit/Exit (spec §4.6).
type ButtonSource interface {
	// Poll reports whether each button was pressed since the last Poll
	// call, already debounced.
	Poll() (b1Pressed, b2Pressed bool)
}

// ScriptedButtons is a test double that replays a fixed sequence of
// (b1, b2) presses, one pair per Poll call.
type ScriptedButtons struct {
	mu     sync.Mutex
	script []struct{ B1, B2 bool }
}

// NewScriptedButtons builds a ScriptedButtons that replays presses in order.
func NewScriptedButtons(presses ...[2]bool) *ScriptedButtons {
	s := &ScriptedButtons{}
	for _, p := range presses {
		s.script = append(s.script, struct{ B1, B2 bool }{p[0], p[1]})
	}
	return s
}

func (s *ScriptedButtons) Poll() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.script) == 0 {
		return false, false
	}
	next := s.script[0]
	s.script = s.script[1:]
	return next.B1, next.B2
}
