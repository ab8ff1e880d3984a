package designer

import (
	"github.com/hostel-manager/room-designer/internal/models"
)

// History is a linear undo/redo stack of full element snapshots. The entry
// at the current index always mirrors the live element collection.
type History struct {
	entries [][]models.Element
	index   int
	limit   int
}

// NewHistory creates a history seeded with the initial snapshot. A limit of
// zero keeps every entry.
func NewHistory(initial []models.Element, limit int) *History {
	h := &History{limit: limit}
	h.Reset(initial)
	return h
}

// Reset discards every entry and starts over from snapshot.
func (h *History) Reset(snapshot []models.Element) {
	h.entries = [][]models.Element{models.CloneElements(snapshot)}
	h.index = 0
}

// Commit drops any redo entries and appends a copy of snapshot.
func (h *History) Commit(snapshot []models.Element) {
	h.entries = append(h.entries[:h.index+1], models.CloneElements(snapshot))
	h.index = len(h.entries) - 1

	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append([][]models.Element(nil), h.entries[drop:]...)
		h.index -= drop
	}
}

// Undo steps back one entry and returns its snapshot.
func (h *History) Undo() ([]models.Element, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.index--
	return models.CloneElements(h.entries[h.index]), true
}

// Redo steps forward one entry and returns its snapshot.
func (h *History) Redo() ([]models.Element, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.index++
	return models.CloneElements(h.entries[h.index]), true
}

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }
