// Package dashboard runs a weather dashboard session: it resolves the host's
// location, fetches the forecast once and exposes the outcome as a single
// tagged state together with the view model derived from it.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weather-dashboard/datasource"
	"weather-dashboard/location"
	"weather-dashboard/models"
)

// LocationResolver produces the coordinate a session forecasts for
type LocationResolver interface {
	Resolve(ctx context.Context) (models.Coordinate, error)
}

// Listener is notified when a session begins and when the current session
// settles. Listeners run synchronously and must not start sessions.
type Listener func(sessionID uuid.UUID, state State)

// ErrSessionInProgress is returned by Restart while the current session is still pending
var ErrSessionInProgress = errors.New("dashboard session still in progress")

// Dashboard owns the current session and the collaborators that drive it
type Dashboard struct {
	resolver   LocationResolver
	source     datasource.ForecastSource
	credential string
	logger     *zap.Logger

	mu        sync.RWMutex
	current   *Session
	listeners map[int]Listener
	nextID    int

	// held while a transition is published so listeners see them in order
	publishMu sync.Mutex
}

// New creates a dashboard. The credential is passed to the forecast source untouched.
func New(logger *zap.Logger, resolver LocationResolver, source datasource.ForecastSource, credential string) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if credential == "" {
		logger.Warn("no weather API credential configured; the forecast service will reject requests")
	}
	return &Dashboard{
		resolver:   resolver,
		source:     source,
		credential: credential,
		logger:     logger,
		listeners:  make(map[int]Listener),
	}
}

// Subscribe registers a listener and returns a function that removes it
func (d *Dashboard) Subscribe(l Listener) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// Current returns the most recent session, or nil before the first Begin
func (d *Dashboard) Current() *Session {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// Begin creates a new pending session and makes it current
func (d *Dashboard) Begin() *Session {
	s, _ := d.begin(false)
	return s
}

// Restart begins a new session and runs it in the background, unless the
// current session has not settled yet.
func (d *Dashboard) Restart(ctx context.Context) (*Session, error) {
	s, err := d.begin(true)
	if err != nil {
		return nil, err
	}
	go d.Run(ctx, s)
	return s, nil
}

func (d *Dashboard) begin(idleOnly bool) (*Session, error) {
	s := NewSession()

	d.publishMu.Lock()
	defer d.publishMu.Unlock()

	d.mu.Lock()
	if idleOnly && d.current != nil && d.current.State().Kind() == KindPending {
		d.mu.Unlock()
		return nil, ErrSessionInProgress
	}
	d.current = s
	d.mu.Unlock()

	d.logger.Info("dashboard session started", zap.String("session_id", s.ID().String()))
	d.notify(s.ID(), s.State())
	return s, nil
}

// Start begins a new session and runs it in the background
func (d *Dashboard) Start(ctx context.Context) *Session {
	s := d.Begin()
	go d.Run(ctx, s)
	return s
}

// Run resolves the location, fetches the forecast and settles the session.
// It returns the final state.
func (d *Dashboard) Run(ctx context.Context, s *Session) State {
	log := d.logger.With(zap.String("session_id", s.ID().String()))

	var next State
	coord, err := d.resolver.Resolve(ctx)
	if err != nil {
		next = failedState(err)
	} else {
		snapshot, err := d.source.FetchForecast(ctx, &coord, d.credential)
		if err != nil {
			next = failedState(err)
		} else {
			next = Ready{Snapshot: snapshot}
		}
	}

	if err := s.settle(next); err != nil {
		log.Warn("session not updated", zap.Error(err))
		return s.State()
	}

	switch st := next.(type) {
	case Failed:
		log.Error("dashboard session failed", zap.String("message", st.Message), zap.Error(st.Err))
	case Ready:
		log.Info("dashboard session ready",
			zap.String("location", st.Snapshot.Location.Name),
			zap.Int("days", len(st.Snapshot.Days)))
	}

	d.publishMu.Lock()
	defer d.publishMu.Unlock()
	if d.Current() != s {
		log.Info("dashboard session superseded, result not published")
		return next
	}
	d.notify(s.ID(), next)
	return next
}

func (d *Dashboard) notify(id uuid.UUID, state State) {
	d.mu.RLock()
	listeners := make([]Listener, 0, len(d.listeners))
	for _, l := range d.listeners {
		listeners = append(listeners, l)
	}
	d.mu.RUnlock()

	for _, l := range listeners {
		l(id, state)
	}
}

// failedState turns a stage error into the message the user sees
func failedState(err error) Failed {
	var unavailable *location.UnavailableError
	var fetchFailed *datasource.FetchFailedError
	switch {
	case errors.As(err, &unavailable):
		return Failed{Message: unavailable.Message, Err: err}
	case errors.As(err, &fetchFailed):
		return Failed{Message: fetchFailed.Message, Err: err}
	default:
		return Failed{Message: datasource.MsgUnexpectedError, Err: err}
	}
}
