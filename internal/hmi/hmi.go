package hmi

import (
	"context"
	"fmt"
	"os"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/meterbox/beacon/internal/config"
	"github.com/meterbox/beacon/internal/pipeline"
)

// renderInterval is the display task's wake cadence (spec §4.6: "wakes
// every 500 ms").
const renderInterval = 500 * time.Millisecond

// buttonPollInterval is the button task's wake cadence (spec §5: "50 ms
// poll sleep").
const buttonPollInterval = 50 * time.Millisecond

// HMI drives C6: it owns the Config menu cursor, renders non-Config
// screens from the supervisor's state and counters, and turns button
// input into Navigate/Edit-Exit actions against the supervisor and config
// store.
type HMI struct {
	sup     *pipeline.Supervisor
	store   *config.Store
	display Display
	buttons ButtonSource
	events  *clog.Logger

	cursor int
	last   Frame
}

// New builds an HMI wired to sup, store, display and buttons. Button and
// menu activity is logged through a dedicated charmbracelet/log instance
// rather than the pipeline's zap logger, mirroring the teacher cli's split
// between a human-facing terminal logger and the backend's structured
// service log.
func New(sup *pipeline.Supervisor, store *config.Store, display Display, buttons ButtonSource) *HMI {
	events := clog.New(os.Stderr)
	events.SetLevel(clog.InfoLevel)
	events.SetPrefix("hmi")
	return &HMI{sup: sup, store: store, display: display, buttons: buttons, events: events}
}

// Run drives the button-poll and display-render tasks until ctx is
// cancelled. Both are modeled as independent fixed-period wakeups per
// spec §5's task table.
func (h *HMI) Run(ctx context.Context) {
	buttonTicker := time.NewTicker(buttonPollInterval)
	defer buttonTicker.Stop()
	displayTicker := time.NewTicker(renderInterval)
	defer displayTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-buttonTicker.C:
			h.pollButtons()
		case <-displayTicker.C:
			h.redrawIfChanged()
		}
	}
}

// pollButtons implements the input semantics of spec §4.6.
func (h *HMI) pollButtons() {
	b1, b2 := h.buttons.Poll()
	if !b1 && !b2 {
		return
	}

	state := h.sup.State()

	if b1 {
		switch state {
		case pipeline.StateError:
			h.events.Info("B1: skipping error wait")
			h.sup.SkipErrorWait()
		case pipeline.StateConfig:
			h.cursor = (h.cursor + 1) % len(menuItems)
		default:
			h.events.Info("B1: entering config", "from", state)
			h.cursor = 0
			h.sup.RequestConfig()
		}
	}

	if b2 && state == pipeline.StateConfig {
		item := menuItems[h.cursor]
		if item.field == "" {
			h.events.Info("B2: exiting config")
			h.sup.ExitConfig()
			h.cursor = 0
		} else if err := h.store.AdvanceField(item.field); err != nil {
			// Validation failure: keep the previous value, no redraw
			// (spec §7 "configuration error").
			h.events.Warn("B2: field rejected", "field", item.field, "err", err)
		} else {
			h.events.Info("B2: field advanced", "field", item.field)
		}
	}
}

// redrawIfChanged renders the current screen only if it differs from the
// last frame drawn (spec §4.6 rendering cadence).
func (h *HMI) redrawIfChanged() {
	frame := h.buildFrame()
	if frame.Equal(h.last) {
		return
	}
	h.display.Render(frame)
	h.last = frame
}

// Frame renders the current screen without touching h.last, for frontends
// (the bubbletea program in tui.go) that pull frames on their own tick
// rather than through redrawIfChanged's Display push.
func (h *HMI) Frame() Frame {
	return h.buildFrame()
}

func (h *HMI) buildFrame() Frame {
	state := h.sup.State()
	if state == pipeline.StateConfig {
		return h.buildConfigFrame()
	}
	return h.buildStatusFrame(state)
}

func (h *HMI) buildStatusFrame(state pipeline.SystemState) Frame {
	counters := h.sup.Counters()
	cfg := h.store.Get()
	return NewFrame(
		string(state),
		fmt.Sprintf("rate: %d Hz", cfg.SampleRate),
		fmt.Sprintf("samples: %d", counters.SamplesProcessed.Load()),
		fmt.Sprintf("sent: %d", counters.TransmissionsSent.Load()),
	)
}

func (h *HMI) buildConfigFrame() Frame {
	cfg := h.store.Get()
	item := menuItems[h.cursor]
	return NewFrame(
		"Config",
		fmt.Sprintf("> %s", item.label),
		menuValue(item, cfg),
		fmt.Sprintf("item %d/%d", h.cursor+1, len(menuItems)),
	)
}
