package designer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type click struct {
	id    string
	multi bool
}

func TestSelection_Click(t *testing.T) {
	tests := []struct {
		name     string
		clicks   []click
		mode     string
		ids      []string
		primary  string
		lastSeen string
	}{
		{
			name:   "nothing selected",
			mode:   SelectionNone,
			ids:    []string{},
			clicks: nil,
		},
		{
			name:     "single click",
			clicks:   []click{{"bed1", false}},
			mode:     SelectionSingle,
			ids:      []string{"bed1"},
			primary:  "bed1",
			lastSeen: "bed1",
		},
		{
			name:     "single click replaces multi selection",
			clicks:   []click{{"bed1", true}, {"bed2", true}, {"door1", false}},
			mode:     SelectionSingle,
			ids:      []string{"door1"},
			primary:  "door1",
			lastSeen: "door1",
		},
		{
			name:     "multi click adds",
			clicks:   []click{{"bed1", false}, {"bed2", true}, {"bed3", true}},
			mode:     SelectionMulti,
			ids:      []string{"bed1", "bed2", "bed3"},
			primary:  "bed3",
			lastSeen: "bed3",
		},
		{
			name:     "toggle out of larger set falls back to last remaining",
			clicks:   []click{{"bed1", true}, {"bed2", true}, {"bed3", true}, {"bed3", true}},
			mode:     SelectionMulti,
			ids:      []string{"bed1", "bed2"},
			primary:  "bed2",
			lastSeen: "bed2",
		},
		{
			name:     "toggle out of pair leaves single",
			clicks:   []click{{"bed1", true}, {"bed2", true}, {"bed2", true}},
			mode:     SelectionSingle,
			ids:      []string{"bed1"},
			primary:  "bed1",
			lastSeen: "bed1",
		},
		{
			name:     "toggling the only member empties selection",
			clicks:   []click{{"bed1", true}, {"bed1", true}},
			mode:     SelectionNone,
			ids:      []string{},
			primary:  "",
			lastSeen: "bed1",
		},
		{
			name:     "click on empty space remembers last",
			clicks:   []click{{"bed1", false}, {"", false}},
			mode:     SelectionNone,
			ids:      []string{},
			primary:  "",
			lastSeen: "bed1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selection
			for _, c := range tt.clicks {
				if c.id == "" {
					s.Clear()
					continue
				}
				s.Click(c.id, c.multi)
			}

			state := s.State()
			assert.Equal(t, tt.mode, state.Mode)
			assert.Equal(t, tt.ids, state.IDs)
			assert.Equal(t, tt.primary, state.Primary)
			assert.Equal(t, tt.lastSeen, state.LastSelected)
		})
	}
}

func TestSelection_Deselect(t *testing.T) {
	var s Selection
	s.Click("bed1", true)
	s.Click("bed2", true)

	s.Deselect("door1")
	assert.Equal(t, SelectionMulti, s.Mode())

	s.Deselect("bed1")
	assert.Equal(t, SelectionNone, s.Mode())
	assert.Equal(t, "bed2", s.LastSelected())

	s.Click("bed2", false)
	s.Deselect("bed2")
	assert.Equal(t, SelectionNone, s.Mode())
	assert.Empty(t, s.LastSelected())
}

func TestSelection_Retain(t *testing.T) {
	var s Selection
	s.Click("bed1", true)
	s.Click("bed2", true)
	s.Click("bed3", true)

	alive := map[string]bool{"bed1": true, "bed2": true}
	s.Retain(func(id string) bool { return alive[id] })

	assert.Equal(t, []string{"bed1", "bed2"}, s.IDs())
	assert.Equal(t, "bed2", s.Primary())
	assert.True(t, s.Contains("bed1"))
	assert.False(t, s.Contains("bed3"))
}
