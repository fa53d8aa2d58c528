package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/meterbox/beacon/internal/apierr"
	"github.com/meterbox/beacon/internal/audioio"
	"github.com/meterbox/beacon/internal/config"
	"github.com/meterbox/beacon/internal/dsp"
	"github.com/meterbox/beacon/internal/linklayer"
	"github.com/meterbox/beacon/internal/logger"
	"github.com/meterbox/beacon/internal/metrics"
	"github.com/meterbox/beacon/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// errorBackoff is the fixed Error-state dwell time of spec §4.4/§7.
const errorBackoff = 5 * time.Second

// Counters are the monotonic totals of spec §3, reset only on reboot.
type Counters struct {
	SamplesProcessed  atomic.Int64
	TransmissionsSent atomic.Int64
}

// Supervisor owns the lifecycle state machine and the single-slot queue
// between capture and processing (C4). It runs exactly two long-running
// tasks under an errgroup: capture (Audio Capture, spec §5) and processing
// (Audio Processing, spec §5), and exposes a Broadcaster the HMI and Time
// Sync tasks can subscribe to for state changes and a config-request
// channel the button handler drives.
type Supervisor struct {
	source    audioio.Source
	store     *config.Store
	link      *linklayer.Link
	publisher *transport.Publisher

	queue   *SingleSlotQueue
	bcast   *Broadcaster
	state   atomic.Pointer[SystemState]
	counters Counters

	configRequest chan struct{}
	configExit    chan struct{}
	errorSkip     chan struct{}
}

// New builds a Supervisor wired to its collaborators. store, link and
// publisher are shared with the HMI and transport tasks.
func New(source audioio.Source, store *config.Store, link *linklayer.Link, publisher *transport.Publisher) *Supervisor {
	s := &Supervisor{
		source:        source,
		store:         store,
		link:          link,
		publisher:     publisher,
		queue:         NewSingleSlotQueue(),
		bcast:         NewBroadcaster(),
		configRequest: make(chan struct{}, 1),
		configExit:    make(chan struct{}, 1),
		errorSkip:     make(chan struct{}, 1),
	}
	init := StateInit
	s.state.Store(&init)
	return s
}

// Broadcaster exposes the state-change feed for the HMI display task.
func (s *Supervisor) Broadcaster() *Broadcaster { return s.bcast }

// State returns the current SystemState.
func (s *Supervisor) State() SystemState { return *s.state.Load() }

// Counters exposes the running totals for the HMI's non-Config screens.
func (s *Supervisor) Counters() *Counters { return &s.counters }

// RequestConfig is called by the button handler on B1 while outside
// Config (spec §4.6: "Outside Config: enter Config").
func (s *Supervisor) RequestConfig() {
	select {
	case s.configRequest <- struct{}{}:
	default:
	}
}

// ExitConfig is called when the HMI's "Exit" menu item is activated.
func (s *Supervisor) ExitConfig() {
	select {
	case s.configExit <- struct{}{}:
	default:
	}
}

// SkipErrorWait is called on B1 while in Error (spec §4.6: "In Error:
// reset to Init").
func (s *Supervisor) SkipErrorWait() {
	select {
	case s.errorSkip <- struct{}{}:
	default:
	}
}

func (s *Supervisor) transition(to SystemState) {
	from := s.State()
	if from == to {
		return
	}
	s.state.Store(&to)
	metrics.Get().StateTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	metrics.Get().CurrentState.WithLabelValues(string(from)).Set(0)
	metrics.Get().CurrentState.WithLabelValues(string(to)).Set(1)
	logger.InfoWithFields("state transition", logger.WithState(string(to)), zap.String("from", string(from)))
	s.bcast.Publish(StateChange{From: from, To: to})
}

// Run drives the supervisor until ctx is cancelled. It starts the capture
// and processing tasks (spec §5's two highest-priority tasks) under an
// errgroup so either task's fatal error tears down the other.
func (s *Supervisor) Run(ctx context.Context) error {
	s.transition(StateConnecting)
	if s.link.Probe(ctx) {
		s.transition(StateSampling)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.captureLoop(ctx) })
	g.Go(func() error { return s.processingLoop(ctx) })
	return g.Wait()
}

// captureLoop acquires AudioWindows on the configured cadence and offers
// them to the single-slot queue, dropping the newest on overflow (spec
// §4.1, §4.4).
func (s *Supervisor) captureLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		switch s.State() {
		case StateInit:
			s.transition(StateConnecting)
			continue
		case StateConnecting:
			if s.link.Probe(ctx) {
				s.transition(StateSampling)
			} else {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(time.Second):
				}
			}
			continue
		case StateConfig, StateError:
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}

		cfg := s.store.Get()
		w, err := s.source.AcquireWindow(ctx, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.FatalWithFields("audio source failed", err)
			return apierr.FatalHardware("audio source", err)
		}

		s.counters.SamplesProcessed.Add(int64(len(w.Samples)))
		metrics.Get().SamplesProcessedTotal.Add(float64(len(w.Samples)))
		metrics.Get().WindowsAcquiredTotal.Inc()

		s.queue.Offer(w)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(cfg.CaptureInterval) * time.Second):
		}
	}
}

// processingLoop consumes windows from the queue, runs the DSP pipeline,
// and publishes fingerprints that clear the publish threshold (spec §4.2,
// §4.3, §4.4). It also owns the Config/Error sub-states since both are
// entered from here (Config via button press, Error via transport
// failure).
func (s *Supervisor) processingLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-s.configRequest:
			if s.State() == StateSampling || s.State() == StateProcessing || s.State() == StateTransmitting {
				s.transition(StateConfig)
				s.awaitConfigExit(ctx)
			}

		case w := <-s.queue.Receive():
			// windowID correlates this window's log lines across the
			// Processing/Transmitting transitions; it never leaves the
			// process, so a random v4 UUID is sufficient.
			windowID := uuid.NewString()
			s.transition(StateProcessing)
			cfg := s.store.Get()
			dspStart := time.Now()
			fp := dsp.Process(w, cfg)
			metrics.Get().DSPDuration.Observe(time.Since(dspStart).Seconds())
			metrics.Get().Confidence.Observe(fp.Confidence)
			logger.InfoWithFields("window processed", logger.WithWindowID(windowID), logger.WithConfidence(fp.Confidence))

			if fp.Confidence < dsp.PublishThreshold {
				s.transition(StateSampling)
				continue
			}

			s.transition(StateTransmitting)
			if err := s.publisher.Publish(ctx, fp, cfg); err != nil {
				logger.WarnWithFields("publish failed", err)
				logger.Warn("publish failed for window", logger.WithWindowID(windowID))
				s.transition(StateError)
				s.awaitErrorRecovery(ctx)
				continue
			}

			s.counters.TransmissionsSent.Add(1)
			s.transition(StateSampling)
		}
	}
}

// awaitConfigExit blocks the processing loop while in Config, since the
// supervisor's own queue consumption pauses until the operator exits the
// menu (the capture loop also pauses, per captureLoop's state check).
func (s *Supervisor) awaitConfigExit(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-s.configExit:
		if err := s.store.Persist(); err != nil {
			logger.WarnWithFields("config persist failed", err)
		}
		s.transition(StateSampling)
	}
}

// awaitErrorRecovery waits 5 seconds or for B1 (spec §4.4's "5s elapsed or
// B1 pressed"). B1 moves straight to Init. After the full wait it re-probes
// the link and resumes Sampling if it is associated, or falls back to Init
// to re-establish association otherwise.
func (s *Supervisor) awaitErrorRecovery(ctx context.Context) {
	timer := time.NewTimer(errorBackoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-s.errorSkip:
		s.transition(StateInit)
		return
	case <-timer.C:
	}

	if s.link.Probe(ctx) {
		s.transition(StateSampling)
	} else {
		s.transition(StateInit)
	}
}
