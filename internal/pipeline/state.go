// Package pipeline owns the lifecycle state machine and the single-slot
// inter-stage queue (C4), and drives the capture/processing tasks that
// tie audioio, dsp, transport, config and linklayer together. Grounded on
// the teacher's internal/queue/audio_jobs.go for the channel-based worker
// shape and internal/websocket/hub.go for the broadcast-on-state-change
// pattern, both rebuilt around a state machine instead of a generic job
// queue (DESIGN NOTE §9: "more naturally modelled as a state machine
// driven by message passing").
package pipeline

import "fmt"

// SystemState is the finite enumeration of spec §3/§4.4.
type SystemState string

const (
	StateInit         SystemState = "Init"
	StateConnecting   SystemState = "Connecting"
	StateSampling     SystemState = "Sampling"
	StateProcessing   SystemState = "Processing"
	StateTransmitting SystemState = "Transmitting"
	StateConfig       SystemState = "Config"
	StateError        SystemState = "Error"
)

// StateChange is published on the broadcast hub every time the supervisor
// transitions (spec §4.4: "Transitions are the only events the HMI
// observes to redraw").
type StateChange struct {
	From SystemState
	To   SystemState
}

func (c StateChange) String() string {
	return fmt.Sprintf("%s -> %s", c.From, c.To)
}
