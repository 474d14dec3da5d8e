package dashboard

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"weather-dashboard/models"
)

// Kind names the three view states of a session
type Kind string

const (
	KindPending Kind = "pending"
	KindFailed  Kind = "failed"
	KindReady   Kind = "ready"
)

// State is exactly one of Pending, Failed or Ready
type State interface {
	Kind() Kind
	isState()
}

// Pending means location resolution or the forecast fetch is still running
type Pending struct{}

// Failed carries the message shown to the user; Err is the underlying cause
type Failed struct {
	Message string
	Err     error
}

// Ready carries the fetched forecast
type Ready struct {
	Snapshot models.ForecastSnapshot
}

func (Pending) Kind() Kind { return KindPending }
func (Failed) Kind() Kind  { return KindFailed }
func (Ready) Kind() Kind   { return KindReady }

func (Pending) isState() {}
func (Failed) isState()  {}
func (Ready) isState()   {}

// ErrSessionSettled is returned when a settled session is asked to change state
var ErrSessionSettled = errors.New("session already settled")

// Session is one resolve-then-fetch run. It starts Pending and settles exactly
// once into Failed or Ready.
type Session struct {
	id        uuid.UUID
	startedAt time.Time

	mu        sync.RWMutex
	state     State
	settledAt time.Time
}

// NewSession creates a pending session with a fresh id
func NewSession() *Session {
	return &Session{
		id:        uuid.New(),
		startedAt: time.Now(),
		state:     Pending{},
	}
}

// ID returns the session id
func (s *Session) ID() uuid.UUID {
	return s.id
}

// StartedAt returns when the session was created
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// State returns the current state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SettledAt returns when the session left Pending, or the zero time
func (s *Session) SettledAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settledAt
}

// settle moves a pending session to its final state
func (s *Session) settle(next State) error {
	if next == nil || next.Kind() == KindPending {
		return errors.New("session can only settle into failed or ready")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Kind() != KindPending {
		return ErrSessionSettled
	}
	s.state = next
	s.settledAt = time.Now()
	return nil
}
