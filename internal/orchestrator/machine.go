package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"autosheetify/internal/auth"
	"autosheetify/internal/input"
	"autosheetify/internal/logging"
	"autosheetify/internal/services"
	"autosheetify/internal/transcribe"
)

// Machine is the transcription request orchestrator. It is safe for
// concurrent use.
type Machine struct {
	selection *input.Selection
	gate      *auth.Gate
	executor  transcribe.Executor
	logger    *slog.Logger
	newID     func() string

	mu          sync.Mutex
	phase       Phase
	result      *transcribe.Result
	instrument  transcribe.Instrument
	latest      uint64
	live        uint64
	correlation string
	started     time.Time
	version     uint64
	changed     chan struct{}
}

// Option customizes a Machine.
type Option func(*Machine)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithInstrument sets the initial instrument choice.
func WithInstrument(inst transcribe.Instrument) Option {
	return func(m *Machine) {
		m.instrument = inst
	}
}

// WithCorrelationIDs overrides how submission correlation ids are generated.
func WithCorrelationIDs(fn func() string) Option {
	return func(m *Machine) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// New builds an idle machine.
func New(gate *auth.Gate, executor transcribe.Executor, opts ...Option) *Machine {
	m := &Machine{
		gate:     gate,
		executor: executor,
		newID:    uuid.NewString,
		phase:    PhaseIdle,
		changed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "orchestrator")
	m.selection = input.NewSelection(input.WithOnChange(func(input.Source) {
		m.mu.Lock()
		m.notifyLocked()
		m.mu.Unlock()
	}))
	return m
}

// Input returns the selection the presentation layer writes to.
func (m *Machine) Input() *input.Selection { return m.selection }

// SetInstrument changes the instrument used by the next submission.
func (m *Machine) SetInstrument(inst transcribe.Instrument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.instrument == inst {
		return
	}
	m.instrument = inst
	m.notifyLocked()
}

// Instrument returns the current instrument choice.
func (m *Machine) Instrument() transcribe.Instrument {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instrument
}

// State returns a snapshot.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Changed returns a channel closed at the next state change.
func (m *Machine) Changed() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed
}

// Submit starts a transcription of the current input. Missing input and
// invalid sessions are reported synchronously and leave the state untouched.
// A call while a submission is in flight does nothing and returns nil.
//
// ctx governs the network call, so it must outlive the submission.
func (m *Machine) Submit(ctx context.Context) error {
	m.mu.Lock()
	if m.phase == PhaseSubmitting {
		m.mu.Unlock()
		m.logger.Debug("submit ignored; request already in flight")
		return nil
	}

	source := m.selection.Current()
	if source.IsNone() {
		m.mu.Unlock()
		return services.ErrNoInput
	}
	header, err := m.gate.AuthorizationHeaderValue()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	// The id is only consumed once the payload builds.
	payload, err := transcribe.BuildRequest(transcribe.Request{
		Source:     source,
		Instrument: m.instrument,
		ID:         m.latest + 1,
	})
	if err != nil {
		m.mu.Unlock()
		return err
	}

	m.latest = payload.RequestID
	id := m.latest
	m.live = id
	m.result = nil
	m.correlation = m.newID()
	m.started = time.Now()
	m.transitionLocked(PhaseSubmitting)
	correlation := m.correlation
	m.mu.Unlock()

	ctx = services.WithSubmission(ctx, id)
	ctx = services.WithRequestID(ctx, correlation)
	logging.WithContext(ctx, m.logger).Info("submission started",
		logging.String(logging.FieldSource, source.DisplayName()),
		logging.String("source_kind", source.Kind().String()),
		logging.String(logging.FieldInstrument, payload.Instrument.String()),
	)

	go func() {
		outcome := m.executor.Execute(ctx, payload, header, id)
		m.resolve(ctx, outcome)
	}()
	return nil
}

// Wait blocks until no submission is in flight and returns the state.
func (m *Machine) Wait(ctx context.Context) (State, error) {
	for {
		m.mu.Lock()
		if m.phase != PhaseSubmitting {
			state := m.snapshotLocked()
			m.mu.Unlock()
			return state, nil
		}
		ch := m.changed
		m.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return m.State(), ctx.Err()
		}
	}
}

// Reset clears the input and any result and returns to Idle. An in-flight
// request is orphaned; its outcome will be dropped.
func (m *Machine) Reset() {
	m.selection.Clear()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live != 0 {
		m.logger.Debug("in-flight submission orphaned by reset", logging.Uint64("request_id", m.live))
	}
	m.live = 0
	m.result = nil
	m.correlation = ""
	m.transitionLocked(PhaseIdle)
}

func (m *Machine) resolve(ctx context.Context, outcome transcribe.Outcome) {
	logger := logging.WithContext(ctx, m.logger)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseSubmitting || outcome.RequestID == 0 || outcome.RequestID != m.live {
		logger.Debug("stale outcome dropped",
			logging.Uint64("outcome_request_id", outcome.RequestID),
			logging.Uint64("live_request_id", m.live),
		)
		return
	}

	result := transcribe.Bind(outcome)
	m.result = &result
	m.live = 0
	elapsed := time.Since(m.started)
	if result.Succeeded() {
		m.transitionLocked(PhaseSuccess)
		logger.Info("submission succeeded",
			logging.String("original_filename", result.OriginalFilename),
			logging.Duration("elapsed", elapsed),
		)
		return
	}
	m.transitionLocked(PhaseFailed)
	logging.WarnWithContext(logger, "submission failed", "transcription_failed",
		logging.String("error_kind", string(result.ErrorKind)),
		logging.String("error_detail", result.ErrorDetail),
		logging.Duration("elapsed", elapsed),
		logging.String(logging.FieldErrorHint, failureHint(result.ErrorKind)),
	)
}

func failureHint(kind services.Kind) string {
	switch kind {
	case services.KindNetwork:
		return "check that the transcription service is reachable, then submit again"
	case services.KindHTTP:
		return "check the server response; a 401 means the session must be renewed"
	case services.KindServerLogic:
		return "the service answered without artifacts; submit again or check server logs"
	default:
		return "check logs for details"
	}
}

func (m *Machine) transitionLocked(to Phase) {
	if !isValidTransition(m.phase, to) {
		m.logger.Error("illegal state transition ignored",
			logging.String("from", string(m.phase)),
			logging.String("to", string(to)),
		)
		return
	}
	m.phase = to
	m.notifyLocked()
}

func (m *Machine) notifyLocked() {
	m.version++
	close(m.changed)
	m.changed = make(chan struct{})
}

func (m *Machine) snapshotLocked() State {
	state := State{
		Phase:         m.phase,
		RequestID:     m.latest,
		CorrelationID: m.correlation,
		Instrument:    m.instrument,
		Input:         m.selection.Current().Summary(),
		Version:       m.version,
	}
	if m.result != nil && m.phase.Resolved() {
		res := *m.result
		state.Result = &res
	}
	return state
}
