package models

import (
	"encoding/json"
	"fmt"
)

// ElementType identifies what an element represents in the room.
type ElementType string

// Element types with special behavior. Other furniture types are accepted
// and carry a generic property bag.
const (
	ElementSingleBed ElementType = "single-bed"
	ElementBunkBed   ElementType = "bunk-bed"
	ElementDoor      ElementType = "door"
	ElementWindow    ElementType = "window"
)

// IsBed reports whether the element type provides sleeping capacity.
func (t ElementType) IsBed() bool {
	return t == ElementSingleBed || t == ElementBunkBed
}

// IsOpening reports whether the element is a door or window. Openings may sit
// flush against walls.
func (t ElementType) IsOpening() bool {
	return t == ElementDoor || t == ElementWindow
}

// BedStatus is the occupancy status of a bed or bunk level.
type BedStatus string

const (
	BedAvailable   BedStatus = "available"
	BedOccupied    BedStatus = "occupied"
	BedReserved    BedStatus = "reserved"
	BedMaintenance BedStatus = "maintenance"
)

// Valid reports whether s is one of the known statuses.
func (s BedStatus) Valid() bool {
	switch s {
	case BedAvailable, BedOccupied, BedReserved, BedMaintenance:
		return true
	}
	return false
}

// LevelPosition is the tier of a bunk level.
type LevelPosition string

const (
	LevelTop    LevelPosition = "top"
	LevelMiddle LevelPosition = "middle"
	LevelBottom LevelPosition = "bottom"
)

// LevelPositions returns the tiers of a bunk bed with the given level count,
// top first. Counts other than 3 yield a two-level bed.
func LevelPositions(levels int) []LevelPosition {
	if levels == 3 {
		return []LevelPosition{LevelTop, LevelMiddle, LevelBottom}
	}
	return []LevelPosition{LevelTop, LevelBottom}
}

// BunkLevel is one sleeping tier of a bunk bed.
type BunkLevel struct {
	ID         string        `json:"id"`
	Position   LevelPosition `json:"position"`
	BedID      string        `json:"bedId"`
	Status     BedStatus     `json:"status"`
	AssignedTo string        `json:"assignedTo,omitempty"`
}

// Element is a single placed object in the room. X and Y are the top-left
// corner in meters; Width and Height are the footprint before rotation.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation int         `json:"rotation"`
	ZIndex   int         `json:"zIndex"`

	// ParentElementID links stacked parts of one physical object. Elements
	// sharing a parent never collide with each other.
	ParentElementID string `json:"parentElementId,omitempty"`

	Properties Properties `json:"properties"`
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	if e.Properties != nil {
		e.Properties = e.Properties.clone()
	}
	return e
}

// SleepingCapacity returns how many people the element can sleep.
func (e Element) SleepingCapacity() int {
	switch e.Type {
	case ElementSingleBed:
		return 1
	case ElementBunkBed:
		if p, ok := e.Properties.(BunkBedProperties); ok && p.BunkLevels > 0 {
			return p.BunkLevels
		}
		return 2
	}
	return 0
}

// CloneElements deep-copies a slice of elements. A nil input yields an empty
// non-nil slice so that encoded layouts always carry an array.
func CloneElements(elements []Element) []Element {
	out := make([]Element, len(elements))
	for i, e := range elements {
		out[i] = e.Clone()
	}
	return out
}

type elementJSON struct {
	ID              string          `json:"id"`
	Type            ElementType     `json:"type"`
	X               float64         `json:"x"`
	Y               float64         `json:"y"`
	Width           float64         `json:"width"`
	Height          float64         `json:"height"`
	Rotation        int             `json:"rotation"`
	ZIndex          int             `json:"zIndex"`
	ParentElementID string          `json:"parentElementId,omitempty"`
	Properties      json.RawMessage `json:"properties,omitempty"`
}

// UnmarshalJSON decodes the element and selects the properties variant from
// the element type.
func (e *Element) UnmarshalJSON(data []byte) error {
	var raw elementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	props, err := decodeProperties(raw.Type, raw.Properties)
	if err != nil {
		return fmt.Errorf("element %q: %w", raw.ID, err)
	}

	*e = Element{
		ID:              raw.ID,
		Type:            raw.Type,
		X:               raw.X,
		Y:               raw.Y,
		Width:           raw.Width,
		Height:          raw.Height,
		Rotation:        raw.Rotation,
		ZIndex:          raw.ZIndex,
		ParentElementID: raw.ParentElementID,
		Properties:      props,
	}
	return nil
}
