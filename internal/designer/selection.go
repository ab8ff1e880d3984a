package designer

import (
	"slices"

	"github.com/hostel-manager/room-designer/internal/models"
)

// Selection modes.
const (
	SelectionNone   = "none"
	SelectionSingle = "single"
	SelectionMulti  = "multi"
)

// Selection tracks which elements the user is acting on. The primary
// element is the most recently selected one still in the set.
type Selection struct {
	ids  []string
	last string
}

// Click applies a click on element id. Without multi the click replaces the
// selection; with multi it toggles membership.
func (s *Selection) Click(id string, multi bool) {
	if !multi {
		s.ids = []string{id}
		s.last = id
		return
	}

	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		if len(s.ids) == 0 {
			s.ids = nil
			s.last = id
			return
		}
		s.last = s.ids[len(s.ids)-1]
		return
	}
	s.ids = append(s.ids, id)
	s.last = id
}

// Clear is a click on empty space. The last selected id is kept for the
// properties panel.
func (s *Selection) Clear() {
	if p := s.Primary(); p != "" {
		s.last = p
	}
	s.ids = nil
}

// Deselect clears the whole selection if id is part of it. Used when the
// element is deleted.
func (s *Selection) Deselect(id string) {
	if s.Contains(id) {
		s.ids = nil
	}
	if s.last == id {
		s.last = ""
	}
}

// Remove drops an id that no longer exists, keeping the rest of the set.
func (s *Selection) Remove(id string) {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
	if len(s.ids) == 0 {
		s.ids = nil
	}
	if s.last == id {
		s.last = s.Primary()
	}
}

// Retain drops every id for which exists returns false.
func (s *Selection) Retain(exists func(id string) bool) {
	for _, id := range slices.Clone(s.ids) {
		if !exists(id) {
			s.Remove(id)
		}
	}
	if s.last != "" && !exists(s.last) {
		s.last = ""
	}
}

// Mode returns none, single or multi.
func (s *Selection) Mode() string {
	switch len(s.ids) {
	case 0:
		return SelectionNone
	case 1:
		return SelectionSingle
	}
	return SelectionMulti
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	return slices.Clone(s.ids)
}

// Primary returns the most recently selected id still in the set.
func (s *Selection) Primary() string {
	if len(s.ids) == 0 {
		return ""
	}
	return s.ids[len(s.ids)-1]
}

// LastSelected returns the primary selection, or the id selected before the
// selection was cleared.
func (s *Selection) LastSelected() string {
	if p := s.Primary(); p != "" {
		return p
	}
	return s.last
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// State returns the observable selection state.
func (s *Selection) State() models.SelectionState {
	ids := s.IDs()
	if ids == nil {
		ids = []string{}
	}
	return models.SelectionState{
		Mode:         s.Mode(),
		IDs:          ids,
		Primary:      s.Primary(),
		LastSelected: s.LastSelected(),
	}
}
