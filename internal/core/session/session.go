package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"breathwork/internal/core/clock"
	"breathwork/internal/core/model"
	"breathwork/internal/logging"
)

// ErrClosed is returned by operations on a Session after Close.
var ErrClosed = errors.New("session closed")

// Option customizes a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(session *Session) {
		if logger != nil {
			session.logger = logger
		}
	}
}

// WithConfig sets the initial exercise config. Invalid configs are ignored.
func WithConfig(config model.ExerciseConfig) Option {
	return func(session *Session) {
		if config.Validate() == nil {
			session.config = config
		}
	}
}

// Session is the state machine that sequences breathing, breath hold and
// recovery for the configured number of rounds.
//
// All state changes happen under one lock, including timer callbacks, so each
// transition runs to completion. Every callback carries the generation that
// was current when its timer was armed; callbacks from an earlier generation
// are dropped.
type Session struct {
	mu     sync.Mutex
	clock  clock.Clock
	logger *slog.Logger
	config model.ExerciseConfig

	phase     Phase
	round     int
	results   Results
	breathing breathCycleTimer
	hold      holdTimer
	recovery  recoveryTimer

	generation uint64
	stale      uint64
	startedAt  time.Time
	finishedAt time.Time

	events []chan Event
	closed bool
}

// New creates a Session in PhaseSetup.
func New(clk clock.Clock, options ...Option) *Session {
	session := &Session{
		clock:     clk,
		logger:    logging.NewNop(),
		config:    model.DefaultConfig(),
		phase:     PhaseSetup,
		round:     1,
		breathing: breathCycleTimer{clock: clk},
		hold:      holdTimer{clock: clk},
		recovery:  recoveryTimer{clock: clk},
	}
	for _, option := range options {
		option(session)
	}
	return session
}

// Subscribe registers a new observer channel. When the buffer is full the
// oldest pending event is dropped so the newest state always arrives.
func (session *Session) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		close(ch)
		return ch
	}
	session.events = append(session.events, ch)
	return ch
}

// Configure validates and stores config. A running exercise is reset.
func (session *Session) Configure(config model.ExerciseConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return ErrClosed
	}
	if session.phase != PhaseSetup {
		session.resetLocked()
	}
	session.config = config
	session.logger.Debug("session configured",
		"rounds", config.RoundsTarget,
		"breaths", config.BreathsPerRound,
		"cycle_seconds", config.BreathCycleSeconds)
	session.emitLocked(EventTransition)
	return nil
}

// Config returns the active exercise config.
func (session *Session) Config() model.ExerciseConfig {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.config
}

// Start begins a new exercise from round one, discarding any exercise in progress.
func (session *Session) Start() error {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return ErrClosed
	}
	if err := session.config.Validate(); err != nil {
		return err
	}
	if session.phase != PhaseSetup {
		session.logger.Debug("restarting running session", "phase", session.phase)
	}
	session.resetLocked()
	session.startedAt = session.clock.Now()
	session.logger.Info("session started",
		"rounds", session.config.RoundsTarget,
		"breaths", session.config.BreathsPerRound)
	session.enterBreathingLocked()
	return nil
}

// StartWith configures and starts in one step.
func (session *Session) StartWith(config model.ExerciseConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	session.mu.Lock()
	if session.closed {
		session.mu.Unlock()
		return ErrClosed
	}
	session.config = config
	session.mu.Unlock()
	return session.Start()
}

// Release ends the breath hold and records its duration. It reports whether
// the call had any effect; outside PhaseHoldBreath it is ignored.
func (session *Session) Release() bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != PhaseHoldBreath || session.closed {
		session.logger.Debug("release ignored", "phase", session.phase, "closed", session.closed)
		return false
	}

	held := tenthsToSeconds(session.hold.stop())
	session.results = session.results.Append(held)
	session.logger.Info("breath released", "round", session.round, "held_seconds", held)
	session.enterRecoveryLocked()
	return true
}

// Reset cancels all timers and returns to PhaseSetup. It is valid from any phase.
func (session *Session) Reset() {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.resetLocked()
	session.emitLocked(EventTransition)
}

// Snapshot returns a copy of the current state.
func (session *Session) Snapshot() Snapshot {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.snapshotLocked()
}

// StaleCallbacks returns how many timer callbacks arrived after their phase ended.
func (session *Session) StaleCallbacks() uint64 {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.stale
}

// Close cancels all timers and closes observer channels. Start, StartWith and
// Configure return ErrClosed afterwards and Release is ignored.
func (session *Session) Close() {
	session.mu.Lock()
	if session.closed {
		session.mu.Unlock()
		return
	}
	session.cancelTimersLocked()
	session.generation++
	session.closed = true
	events := session.events
	session.events = nil
	session.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (session *Session) enterBreathingLocked() {
	session.phase = PhaseBreathing
	generation := session.nextGenerationLocked()
	session.breathing.start(session.config.HalfCycle(), func() {
		session.onBreathTick(generation)
	})
	session.emitLocked(EventTransition)
}

func (session *Session) enterHoldLocked() {
	session.breathing.reset()
	session.phase = PhaseHoldBreath
	generation := session.nextGenerationLocked()
	session.hold.start(func() {
		session.onHoldTick(generation)
	})
	session.logger.Debug("breath hold started", "round", session.round)
	session.emitLocked(EventTransition)
}

func (session *Session) enterRecoveryLocked() {
	session.phase = PhaseRecoveryBreath
	generation := session.nextGenerationLocked()
	session.recovery.startHold(
		func() { session.onRecoveryTick(generation) },
		func() { session.onRecoveryMarker(generation) },
	)
	session.emitLocked(EventTransition)
}

func (session *Session) completeRoundLocked() {
	session.recovery.reset()
	if session.round < session.config.RoundsTarget {
		session.round++
		session.logger.Debug("round started", "round", session.round)
		session.enterBreathingLocked()
		return
	}

	session.phase = PhaseResults
	session.nextGenerationLocked()
	session.finishedAt = session.clock.Now()
	session.logger.Info("session finished",
		"rounds", session.results.Len(),
		"max_hold_seconds", session.results.Max)
	session.emitLocked(EventFinished)
}

func (session *Session) resetLocked() {
	session.cancelTimersLocked()
	session.breathing.reset()
	session.hold.reset()
	session.recovery.reset()
	session.nextGenerationLocked()
	session.phase = PhaseSetup
	session.round = 1
	session.results = Results{}
	session.startedAt = time.Time{}
	session.finishedAt = time.Time{}
}

func (session *Session) cancelTimersLocked() {
	session.breathing.cancel()
	session.hold.cancel()
	session.recovery.cancel()
}

func (session *Session) onBreathTick(generation uint64) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if !session.currentLocked(generation, PhaseBreathing) {
		return
	}
	session.breathing.advance()
	if session.breathing.index >= session.config.BreathsPerRound {
		session.enterHoldLocked()
		return
	}
	session.emitLocked(EventTick)
}

func (session *Session) onHoldTick(generation uint64) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if !session.currentLocked(generation, PhaseHoldBreath) {
		return
	}
	session.hold.tick()
	session.emitLocked(EventTick)
}

func (session *Session) onRecoveryTick(generation uint64) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if !session.currentLocked(generation, PhaseRecoveryBreath) {
		return
	}
	if !session.recovery.tick() {
		session.emitLocked(EventTick)
		return
	}
	if session.recovery.phase == RecoveryExhale {
		session.completeRoundLocked()
		return
	}

	next := session.nextGenerationLocked()
	session.recovery.startExhale(func() {
		session.onRecoveryTick(next)
	})
	session.emitLocked(EventTransition)
}

func (session *Session) onRecoveryMarker(generation uint64) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if !session.currentLocked(generation, PhaseRecoveryBreath) {
		return
	}
	if session.recovery.mark() {
		session.emitLocked(EventTransition)
	}
}

// currentLocked guards every timer callback against stale delivery.
func (session *Session) currentLocked(generation uint64, phase Phase) bool {
	if generation == session.generation && session.phase == phase && !session.closed {
		return true
	}
	session.stale++
	session.logger.Debug("stale timer callback dropped",
		"phase", session.phase,
		"expected_phase", phase,
		"generation", generation,
		"current_generation", session.generation)
	return false
}

func (session *Session) nextGenerationLocked() uint64 {
	session.generation++
	return session.generation
}

func (session *Session) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		Phase:           session.phase,
		Config:          session.config,
		Round:           session.round,
		RoundResults:    append([]float64(nil), session.results.Durations...),
		MaxHoldDuration: session.results.Max,
		StartedAt:       session.startedAt,
		FinishedAt:      session.finishedAt,
	}
	switch session.phase {
	case PhaseBreathing:
		snapshot.BreathPhase = session.breathing.phase
		snapshot.BreathIndex = session.breathing.index
	case PhaseHoldBreath:
		snapshot.TimerValue = tenthsToSeconds(session.hold.tenths)
	case PhaseRecoveryBreath:
		snapshot.RecoveryPhase = session.recovery.phase
		snapshot.TimerValue = tenthsToSeconds(session.recovery.remaining)
	}
	return snapshot
}

func (session *Session) emitLocked(eventType EventType) {
	if len(session.events) == 0 {
		return
	}
	event := Event{
		Type:     eventType,
		Snapshot: session.snapshotLocked(),
		At:       session.clock.Now(),
	}
	for _, ch := range session.events {
		select {
		case ch <- event:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
		}
	}
}

func tenthsToSeconds(tenths int) float64 {
	return float64(tenths) / 10
}
