package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostel-manager/room-designer/internal/designer"
	"github.com/hostel-manager/room-designer/internal/metrics"
	"github.com/hostel-manager/room-designer/internal/models"
)

// maxPendingNotices bounds the notices kept between two reads of a session.
const maxPendingNotices = 20

// sessionEntry is one open designer session. mu serializes every request
// on the session; a designer.Session has a single mutator.
type sessionEntry struct {
	mu       sync.Mutex
	id       string
	roomID   string
	session  *designer.Session
	notices  []models.Notice
	lastUsed time.Time
}

func newSessionEntry(roomID string) *sessionEntry {
	return &sessionEntry{
		id:     uuid.New().String(),
		roomID: roomID,
	}
}

// Notify queues a notice for the next response. Callers hold mu.
func (e *sessionEntry) Notify(n designer.Notice) {
	if len(e.notices) == maxPendingNotices {
		e.notices = e.notices[1:]
	}
	e.notices = append(e.notices, models.Notice{
		Level:   string(n.Level),
		Op:      n.Op,
		Message: n.Message,
	})
}

// state snapshots the session and drains the pending notices. Callers hold mu.
func (e *sessionEntry) state() models.SessionState {
	s := e.session
	grid := s.Grid()
	layout := s.Layout()
	layout.Normalize()

	state := models.SessionState{
		SessionID:  e.id,
		RoomID:     e.roomID,
		NeedsSetup: s.NeedsSetup(),
		Layout:     layout,
		Selection:  s.Selection(),
		Capacity:   s.Capacity(),
		CanUndo:    s.CanUndo(),
		CanRedo:    s.CanRedo(),
		Dragging:   s.Dragging(),
		SnapToGrid: grid.Snap,
		GridSize:   grid.Size,
		Notices:    e.drainNotices(),
	}
	return state
}

// drainNotices returns and clears the pending notices. Callers hold mu.
func (e *sessionEntry) drainNotices() []models.Notice {
	notices := e.notices
	e.notices = nil
	return notices
}

// Registry holds the open designer sessions of the handler process. Sessions
// idle for longer than the timeout are closed on the next registry access.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	idle     time.Duration
	now      func() time.Time
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewRegistry creates an empty registry. A zero idle timeout never evicts.
func NewRegistry(idle time.Duration, m *metrics.Metrics, logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*sessionEntry),
		idle:     idle,
		now:      time.Now,
		metrics:  m,
		logger:   logger,
	}
}

// Add registers an entry whose session is already built.
func (r *Registry) Add(e *sessionEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictLocked()
	e.lastUsed = r.now()
	r.sessions[e.id] = e
	r.metrics.SetActiveSessions(len(r.sessions))
}

// Get returns the entry with the given id and marks it used.
func (r *Registry) Get(id string) (*sessionEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictLocked()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e, true
}

// Remove closes a session. It reports whether the session existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	r.metrics.SetActiveSessions(len(r.sessions))
	return true
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes idle sessions and returns how many were closed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictLocked()
}

func (r *Registry) evictLocked() int {
	if r.idle <= 0 {
		return 0
	}

	cutoff := r.now().Add(-r.idle)
	evicted := 0
	for id, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
			r.logger.Info("Closed idle designer session",
				zap.String("session_id", id),
				zap.String("room_id", e.roomID),
			)
		}
	}
	if evicted > 0 {
		r.metrics.AddSessionsEvicted(evicted)
		r.metrics.SetActiveSessions(len(r.sessions))
	}
	return evicted
}
