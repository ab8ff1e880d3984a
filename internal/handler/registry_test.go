package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostel-manager/room-designer/internal/designer"
	"github.com/hostel-manager/room-designer/internal/metrics"
	"github.com/hostel-manager/room-designer/internal/models"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRegistry(idle time.Duration) (*Registry, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	r := NewRegistry(idle, metrics.NewMetrics(), zap.NewNop())
	r.now = clock.Now
	return r, clock
}

func newTestEntry(roomID string) *sessionEntry {
	e := newSessionEntry(roomID)
	e.session = designer.NewSession(models.RoomData{})
	return e
}

func TestRegistry_AddGetRemove(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)

	e := newTestEntry("room-1")
	r.Add(e)

	got, ok := r.Get(e.id)
	require.True(t, ok)
	assert.Same(t, e, got)
	assert.Equal(t, 1, r.Len())

	assert.True(t, r.Remove(e.id))
	assert.False(t, r.Remove(e.id))

	_, ok = r.Get(e.id)
	assert.False(t, ok)
}

func TestRegistry_EvictsIdleSessions(t *testing.T) {
	r, clock := newTestRegistry(30 * time.Minute)

	stale := newTestEntry("room-1")
	active := newTestEntry("room-2")
	r.Add(stale)
	r.Add(active)

	clock.Advance(20 * time.Minute)
	_, ok := r.Get(active.id)
	require.True(t, ok)

	clock.Advance(15 * time.Minute)
	_, ok = r.Get(stale.id)
	assert.False(t, ok)

	_, ok = r.Get(active.id)
	assert.True(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	r, clock := newTestRegistry(time.Minute)
	for i := 0; i < 3; i++ {
		r.Add(newTestEntry(fmt.Sprintf("room-%d", i)))
	}

	assert.Equal(t, 0, r.Sweep())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 3, r.Sweep())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ZeroTimeoutNeverEvicts(t *testing.T) {
	r, clock := newTestRegistry(0)
	r.Add(newTestEntry("room-1"))

	clock.Advance(24 * time.Hour)

	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestSessionEntry_Notices(t *testing.T) {
	e := newTestEntry("room-1")

	for i := 0; i < maxPendingNotices+5; i++ {
		e.Notify(designer.Notice{Level: designer.NoticeWarning, Op: "add", Message: fmt.Sprintf("notice %d", i)})
	}

	state := e.state()
	require.Len(t, state.Notices, maxPendingNotices)
	assert.Equal(t, "notice 5", state.Notices[0].Message)
	assert.Equal(t, "warning", state.Notices[0].Level)

	assert.Empty(t, e.state().Notices)
}

func TestSessionEntry_State(t *testing.T) {
	e := newTestEntry("room-1")

	state := e.state()

	assert.Equal(t, e.id, state.SessionID)
	assert.Equal(t, "room-1", state.RoomID)
	assert.True(t, state.NeedsSetup)
	assert.NotNil(t, state.Layout.Elements)
	assert.Equal(t, models.SelectionState{Mode: designer.SelectionNone, IDs: []string{}}, state.Selection)
}
