package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Properties is the type-specific part of an element. The concrete variant is
// determined by the element type:
//
//	single-bed → BedProperties
//	bunk-bed   → BunkBedProperties
//	door       → DoorProperties
//	window     → WindowProperties
//	other      → GenericProperties
type Properties interface {
	clone() Properties
}

// BedProperties describes a single bed.
type BedProperties struct {
	BedType     string    `json:"bedType"`
	BedID       string    `json:"bedId"`
	BedLabel    string    `json:"bedLabel"`
	Status      BedStatus `json:"status"`
	Orientation string    `json:"orientation"`
}

func (p BedProperties) clone() Properties { return p }

// BunkBedProperties describes a bunk bed and its stacked levels.
type BunkBedProperties struct {
	BedProperties
	BunkLevels int         `json:"bunkLevels"`
	Levels     []BunkLevel `json:"levels"`
}

func (p BunkBedProperties) clone() Properties {
	if p.Levels != nil {
		p.Levels = append([]BunkLevel(nil), p.Levels...)
	}
	return p
}

// DoorProperties describes a door opening.
type DoorProperties struct {
	HingeType string `json:"hingeType"`
}

func (p DoorProperties) clone() Properties { return p }

// WindowProperties describes a window opening.
type WindowProperties struct {
	IsOpen bool `json:"isOpen"`
}

func (p WindowProperties) clone() Properties { return p }

// GenericProperties holds the property bag of furniture types without
// special behavior. It round-trips untouched.
type GenericProperties map[string]any

func (p GenericProperties) clone() Properties {
	if p == nil {
		return GenericProperties{}
	}
	return GenericProperties(maps.Clone(p))
}

func decodeProperties(t ElementType, raw json.RawMessage) (Properties, error) {
	empty := len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))

	var (
		target Properties
		err    error
	)
	switch t {
	case ElementSingleBed:
		var p BedProperties
		if !empty {
			err = json.Unmarshal(raw, &p)
		}
		target = p
	case ElementBunkBed:
		var p BunkBedProperties
		if !empty {
			err = json.Unmarshal(raw, &p)
		}
		target = p
	case ElementDoor:
		var p DoorProperties
		if !empty {
			err = json.Unmarshal(raw, &p)
		}
		target = p
	case ElementWindow:
		var p WindowProperties
		if !empty {
			err = json.Unmarshal(raw, &p)
		}
		target = p
	default:
		p := GenericProperties{}
		if !empty {
			err = json.Unmarshal(raw, &p)
		}
		target = p
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s properties: %w", t, err)
	}
	return target, nil
}
