package designer

import (
	"fmt"
	"math"

	"github.com/hostel-manager/room-designer/internal/geometry"
	"github.com/hostel-manager/room-designer/internal/models"
)

// maxPlacementAttempts bounds the search for a free spot when adding.
const maxPlacementAttempts = 200

// duplicateOffset is how far a duplicate is shifted from its original.
const duplicateOffset = 1.0

// Grid is the snapping configuration of a session.
type Grid struct {
	Size float64
	Snap bool
}

func (g Grid) step() float64 {
	if g.Snap && g.Size > 0 {
		return g.Size
	}
	return geometry.FineStep
}

func (g Grid) snap(v float64) float64 {
	return geometry.SnapToGrid(v, g.Size, g.Snap)
}

// Store is the ordered collection of placed elements. It owns creation,
// mutation, deletion and duplication; it does not record history.
type Store struct {
	elements []models.Element
	ids      IDSource
}

// NewStore creates a store holding a copy of elements.
func NewStore(elements []models.Element, ids IDSource) *Store {
	return &Store{
		elements: models.CloneElements(elements),
		ids:      ids,
	}
}

// Len returns the number of elements.
func (s *Store) Len() int {
	return len(s.elements)
}

// Elements returns a deep copy of the elements in paint order of insertion.
func (s *Store) Elements() []models.Element {
	return models.CloneElements(s.elements)
}

// Restore replaces the elements with a copy of snapshot.
func (s *Store) Restore(snapshot []models.Element) {
	s.elements = models.CloneElements(snapshot)
}

// Get returns a copy of the element with the given id.
func (s *Store) Get(id string) (models.Element, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Element{}, false
	}
	return s.elements[i].Clone(), true
}

// SleepingCapacity sums the capacity of every bed in the room.
func (s *Store) SleepingCapacity() int {
	total := 0
	for _, e := range s.elements {
		total += e.SleepingCapacity()
	}
	return total
}

// Add creates an element of type t at the first free spot found by spiraling
// out from the origin. When no spot is free the element is placed at the
// origin and placed is false. Beds are rejected when their capacity would
// push the room past limit; a limit of zero disables the check.
func (s *Store) Add(t models.ElementType, room models.Dimensions, grid Grid, limit int) (e models.Element, placed bool, err error) {
	fp, ok := catalog[t]
	if !ok {
		return models.Element{}, false, fmt.Errorf("%w: %q", ErrUnknownElementType, t)
	}

	e = s.newElement(t, fp)
	if t.IsBed() && limit > 0 {
		current := s.SleepingCapacity()
		requested := e.SleepingCapacity()
		if current+requested > limit {
			return models.Element{}, false, &CapacityError{Limit: limit, Current: current, Requested: requested}
		}
	}

	e.X, e.Y, placed = s.findFreeSpot(e, room, grid)
	s.elements = append(s.elements, e)
	return e.Clone(), placed, nil
}

func (s *Store) newElement(t models.ElementType, fp footprint) models.Element {
	id, n := nextSequentialID(s.elements, t)
	e := models.Element{
		ID:     id,
		Type:   t,
		Width:  fp.width,
		Height: fp.height,
		ZIndex: s.nextZ(),
	}

	bed := models.BedProperties{
		BedID:       id,
		BedLabel:    "Bed " + bedLetter(n),
		Status:      models.BedAvailable,
		Orientation: orientationFor(0),
	}

	switch t {
	case models.ElementSingleBed:
		bed.BedType = "single"
		e.Properties = bed
	case models.ElementBunkBed:
		bed.BedType = "bunk"
		p := models.BunkBedProperties{BedProperties: bed, BunkLevels: defaultBunkLevels}
		for _, pos := range models.LevelPositions(defaultBunkLevels) {
			p.Levels = append(p.Levels, models.BunkLevel{
				ID:       id + "-" + string(pos),
				Position: pos,
				BedID:    id + "-" + string(pos),
				Status:   models.BedAvailable,
			})
		}
		e.Properties = p
	case models.ElementDoor:
		e.Properties = models.DoorProperties{HingeType: "left"}
	case models.ElementWindow:
		e.Properties = models.WindowProperties{}
	default:
		e.Properties = models.GenericProperties{}
	}
	return e
}

func (s *Store) nextZ() int {
	z := 0
	for _, e := range s.elements {
		if e.ZIndex >= z {
			z = e.ZIndex + 1
		}
	}
	return z
}

func (s *Store) findFreeSpot(e models.Element, room models.Dimensions, grid Grid) (x, y float64, placed bool) {
	step := grid.step()
	for _, off := range spiralOffsets(maxPlacementAttempts) {
		c := e
		c.X = roundNoise(float64(off[0]) * step)
		c.Y = roundNoise(float64(off[1]) * step)
		if !geometry.Fits(c, room) {
			continue
		}
		c.X, c.Y = geometry.ClampToBounds(c, room)
		if !geometry.CheckCollisions(c, s.elements, "", room) {
			return c.X, c.Y, true
		}
	}

	e.X, e.Y = 0, 0
	x, y = geometry.ClampToBounds(e, room)
	return x, y, false
}

// spiralOffsets enumerates grid cells ring by ring away from the origin.
// Ring r holds the cells whose larger coordinate is r.
func spiralOffsets(n int) [][2]int {
	out := make([][2]int, 0, n)
	out = append(out, [2]int{0, 0})
	for r := 1; len(out) < n; r++ {
		for j := 0; j <= r && len(out) < n; j++ {
			out = append(out, [2]int{r, j})
		}
		for i := r - 1; i >= 0 && len(out) < n; i-- {
			out = append(out, [2]int{i, r})
		}
	}
	return out
}

// Update merges u into the element. Changing a bunk bed's level count
// regenerates its footprint and levels; prior level assignments are lost.
func (s *Store) Update(id string, u models.ElementUpdate) (models.Element, error) {
	i := s.index(id)
	if i < 0 {
		return models.Element{}, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}

	e := s.elements[i].Clone()
	if err := s.apply(&e, u); err != nil {
		return models.Element{}, err
	}
	s.elements[i] = e
	return e.Clone(), nil
}

func (s *Store) apply(e *models.Element, u models.ElementUpdate) error {
	if u.Width != nil && *u.Width <= 0 {
		return fmt.Errorf("%w: width must be positive", ErrInvalidUpdate)
	}
	if u.Height != nil && *u.Height <= 0 {
		return fmt.Errorf("%w: height must be positive", ErrInvalidUpdate)
	}
	if u.Rotation != nil && *u.Rotation%90 != 0 {
		return fmt.Errorf("%w: rotation must be a multiple of 90 degrees", ErrInvalidUpdate)
	}

	if u.X != nil {
		e.X = *u.X
	}
	if u.Y != nil {
		e.Y = *u.Y
	}
	if u.Width != nil {
		e.Width = *u.Width
	}
	if u.Height != nil {
		e.Height = *u.Height
	}
	if u.ZIndex != nil {
		e.ZIndex = *u.ZIndex
	}
	if u.Rotation != nil {
		e.Rotation = geometry.NormalizeRotation(*u.Rotation)
		syncOrientation(e)
	}
	if u.Properties != nil {
		return s.applyProperties(e, *u.Properties)
	}
	return nil
}

func (s *Store) applyProperties(e *models.Element, u models.PropertiesUpdate) error {
	switch p := propertiesOf(*e).(type) {
	case models.BedProperties:
		if err := reject(e.Type,
			field{"bunkLevels", u.BunkLevels != nil},
			field{"levels", u.Levels != nil},
			field{"hingeType", u.HingeType != nil},
			field{"isOpen", u.IsOpen != nil},
			field{"extra", u.Extra != nil},
		); err != nil {
			return err
		}
		applyBedFields(&p, u)
		e.Properties = p

	case models.BunkBedProperties:
		if err := reject(e.Type,
			field{"hingeType", u.HingeType != nil},
			field{"isOpen", u.IsOpen != nil},
			field{"extra", u.Extra != nil},
		); err != nil {
			return err
		}
		applyBedFields(&p.BedProperties, u)
		switch {
		case u.BunkLevels != nil:
			levels := *u.BunkLevels
			if levels != 2 && levels != 3 {
				return fmt.Errorf("%w: bunkLevels must be 2 or 3", ErrInvalidUpdate)
			}
			if levels != p.BunkLevels {
				s.regenerateLevels(e, &p, levels)
			}
		case u.Levels != nil:
			levels, err := mergeLevels(p.Levels, u.Levels)
			if err != nil {
				return err
			}
			p.Levels = levels
		}
		e.Properties = p

	case models.DoorProperties:
		if err := rejectNonOpening(e.Type, u, field{"isOpen", u.IsOpen != nil}); err != nil {
			return err
		}
		if u.HingeType != nil {
			p.HingeType = *u.HingeType
		}
		e.Properties = p

	case models.WindowProperties:
		if err := rejectNonOpening(e.Type, u, field{"hingeType", u.HingeType != nil}); err != nil {
			return err
		}
		if u.IsOpen != nil {
			p.IsOpen = *u.IsOpen
		}
		e.Properties = p

	case models.GenericProperties:
		if hasBedFields(u) || u.BunkLevels != nil || u.Levels != nil || u.HingeType != nil || u.IsOpen != nil {
			return fmt.Errorf("%w: only extra properties apply to %s", ErrInvalidUpdate, e.Type)
		}
		for k, v := range u.Extra {
			if v == nil {
				delete(p, k)
				continue
			}
			p[k] = v
		}
		e.Properties = p
	}
	return nil
}

// mergeLevels applies per-level status and assignment changes. Each change
// names its level by id or, failing that, by position; the identity fields
// of a level never change. An empty status keeps the current one, while
// assignedTo is always replaced so an empty value unassigns the level.
func mergeLevels(current, changes []models.BunkLevel) ([]models.BunkLevel, error) {
	merged := append([]models.BunkLevel(nil), current...)
	touched := make(map[int]bool, len(changes))

	for _, c := range changes {
		i := -1
		for j, l := range merged {
			if (c.ID != "" && l.ID == c.ID) || (c.ID == "" && c.Position != "" && l.Position == c.Position) {
				i = j
				break
			}
		}
		switch {
		case i < 0:
			return nil, fmt.Errorf("%w: unknown bunk level %q", ErrInvalidUpdate, levelKey(c))
		case touched[i]:
			return nil, fmt.Errorf("%w: bunk level %q updated twice", ErrInvalidUpdate, levelKey(c))
		}
		touched[i] = true

		l := &merged[i]
		if c.Position != "" && c.Position != l.Position {
			return nil, fmt.Errorf("%w: bunk level %s is %s, not %s", ErrInvalidUpdate, l.ID, l.Position, c.Position)
		}
		if c.BedID != "" && c.BedID != l.BedID {
			return nil, fmt.Errorf("%w: bunk level %s has bed id %s", ErrInvalidUpdate, l.ID, l.BedID)
		}
		if c.Status != "" {
			if !c.Status.Valid() {
				return nil, fmt.Errorf("%w: unknown bed status %q", ErrInvalidUpdate, c.Status)
			}
			l.Status = c.Status
		}
		l.AssignedTo = c.AssignedTo
	}
	return merged, nil
}

func levelKey(l models.BunkLevel) string {
	if l.ID != "" {
		return l.ID
	}
	return string(l.Position)
}

func (s *Store) regenerateLevels(e *models.Element, p *models.BunkBedProperties, levels int) {
	fp := bunkFootprint(levels)
	e.Width, e.Height = fp.width, fp.height

	bedID := p.BedID
	if bedID == "" {
		bedID = e.ID
	}
	p.BunkLevels = levels
	p.Levels = make([]models.BunkLevel, 0, levels)
	for _, pos := range models.LevelPositions(levels) {
		p.Levels = append(p.Levels, models.BunkLevel{
			ID:       s.ids.Unique(e.ID + "-" + string(pos)),
			Position: pos,
			BedID:    bedID + "-" + string(pos),
			Status:   models.BedAvailable,
		})
	}
}

// Delete removes the element with the given id.
func (s *Store) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	s.elements = append(s.elements[:i], s.elements[i+1:]...)
	return nil
}

// Clear removes every element.
func (s *Store) Clear() {
	s.elements = nil
}

// Rotate turns the element by 90 degrees clockwise.
func (s *Store) Rotate(id string) (models.Element, error) {
	i := s.index(id)
	if i < 0 {
		return models.Element{}, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	e := &s.elements[i]
	e.Rotation = (geometry.NormalizeRotation(e.Rotation) + 90) % 360
	syncOrientation(e)
	return e.Clone(), nil
}

// Duplicate clones the elements with fresh ids, shifted by one meter and
// clamped into the room. Duplicated beds get a new bed id; bunk levels are
// regenerated unassigned. Either every id is duplicated or none is.
func (s *Store) Duplicate(ids []string, room models.Dimensions) ([]models.Element, error) {
	originals := make([]models.Element, 0, len(ids))
	for _, id := range ids {
		e, ok := s.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrElementNotFound, id)
		}
		originals = append(originals, e)
	}

	created := make([]models.Element, 0, len(originals))
	for _, orig := range originals {
		c := orig.Clone()
		c.ID = s.ids.Unique(idPrefix(orig.Type))
		c.ParentElementID = ""
		c.X += duplicateOffset
		c.Y += duplicateOffset
		c.X, c.Y = geometry.ClampToBounds(c, room)
		c.ZIndex = len(s.elements)

		switch p := propertiesOf(c).(type) {
		case models.BedProperties:
			p.BedID = c.ID
			c.Properties = p
		case models.BunkBedProperties:
			p.BedID = c.ID
			levels := p.BunkLevels
			if levels == 0 {
				levels = defaultBunkLevels
			}
			w, h := c.Width, c.Height
			s.regenerateLevels(&c, &p, levels)
			c.Width, c.Height = w, h
			c.Properties = p
		}

		s.elements = append(s.elements, c)
		created = append(created, c.Clone())
	}
	return created, nil
}

// Place moves the element to (x, y), snapped to the grid and clamped into
// the room. Collisions are not checked.
func (s *Store) Place(id string, x, y float64, room models.Dimensions, grid Grid) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	e := &s.elements[i]
	e.X, e.Y = grid.snap(x), grid.snap(y)
	e.X, e.Y = geometry.ClampToBounds(*e, room)
	return true
}

// Move shifts each element by (dx, dy). Every element clamps on its own, so
// a group pushed against a wall spreads rather than stopping as a unit.
func (s *Store) Move(ids []string, dx, dy float64, room models.Dimensions, grid Grid) (int, error) {
	moved := 0
	for _, id := range ids {
		e, ok := s.Get(id)
		if !ok {
			continue
		}
		if s.Place(id, e.X+dx, e.Y+dy, room, grid) {
			moved++
		}
	}
	if moved == 0 {
		return 0, fmt.Errorf("%w: none of %v", ErrElementNotFound, ids)
	}
	return moved, nil
}

func (s *Store) index(id string) int {
	for i, e := range s.elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// propertiesOf returns the element's properties, or the zero variant for
// its type when none are set.
func propertiesOf(e models.Element) models.Properties {
	if e.Properties != nil {
		return e.Properties
	}
	switch e.Type {
	case models.ElementSingleBed:
		return models.BedProperties{}
	case models.ElementBunkBed:
		return models.BunkBedProperties{BunkLevels: defaultBunkLevels}
	case models.ElementDoor:
		return models.DoorProperties{}
	case models.ElementWindow:
		return models.WindowProperties{}
	}
	return models.GenericProperties{}
}

func applyBedFields(p *models.BedProperties, u models.PropertiesUpdate) {
	if u.BedType != nil {
		p.BedType = *u.BedType
	}
	if u.BedID != nil {
		p.BedID = *u.BedID
	}
	if u.BedLabel != nil {
		p.BedLabel = *u.BedLabel
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Orientation != nil {
		p.Orientation = *u.Orientation
	}
}

func hasBedFields(u models.PropertiesUpdate) bool {
	return u.BedType != nil || u.BedID != nil || u.BedLabel != nil || u.Status != nil || u.Orientation != nil
}

// field names a property in an update and whether the update sets it.
type field struct {
	name string
	set  bool
}

// reject fails on the first field that is set.
func reject(t models.ElementType, fields ...field) error {
	for _, f := range fields {
		if f.set {
			return fmt.Errorf("%w: %s does not apply to %s", ErrInvalidUpdate, f.name, t)
		}
	}
	return nil
}

func rejectNonOpening(t models.ElementType, u models.PropertiesUpdate, other field) error {
	if hasBedFields(u) || u.BunkLevels != nil || u.Levels != nil {
		return fmt.Errorf("%w: bed properties do not apply to %s", ErrInvalidUpdate, t)
	}
	return reject(t, other, field{"extra", u.Extra != nil})
}

func orientationFor(rotation int) string {
	switch geometry.NormalizeRotation(rotation) {
	case 90, 270:
		return "vertical"
	}
	return "horizontal"
}

// syncOrientation keeps a bed's orientation property in step with rotation.
func syncOrientation(e *models.Element) {
	switch p := e.Properties.(type) {
	case models.BedProperties:
		p.Orientation = orientationFor(e.Rotation)
		e.Properties = p
	case models.BunkBedProperties:
		p.Orientation = orientationFor(e.Rotation)
		e.Properties = p
	}
}

func roundNoise(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
