// Package models contains the data models for the room designer.
package models

import (
	"time"
)

// Dimensions are the room measurements in meters. Length and width bound the
// placement plane; height is informational.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout is the serialized room layout exchanged with the persistence
// collaborator.
type Layout struct {
	Dimensions Dimensions `json:"dimensions"`
	Elements   []Element  `json:"elements"`
	Theme      Theme      `json:"theme"`
	CreatedAt  time.Time  `json:"createdAt"`
	Warnings   []string   `json:"warnings"`
}

// Normalize replaces nil slices with empty ones so that the encoded document
// always carries arrays.
func (l *Layout) Normalize() {
	if l.Elements == nil {
		l.Elements = []Element{}
	}
	if l.Warnings == nil {
		l.Warnings = []string{}
	}
}

// RoomData is what the room-data collaborator supplies when a designer
// session opens. Elements is preferred; BedPositions is the legacy format.
type RoomData struct {
	Dimensions   *Dimensions   `json:"dimensions,omitempty"`
	Theme        *Theme        `json:"theme,omitempty"`
	Elements     []Element     `json:"elements,omitempty"`
	BedPositions []BedPosition `json:"bedPositions,omitempty"`
	BedCount     int           `json:"bedCount,omitempty"`
}

// BedPosition is a bed in the legacy layout format. Each one becomes a
// single-bed element.
type BedPosition struct {
	ID       string    `json:"id,omitempty"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width,omitempty"`
	Height   float64   `json:"height,omitempty"`
	Rotation int       `json:"rotation,omitempty"`
	Label    string    `json:"label,omitempty"`
	Status   BedStatus `json:"status,omitempty"`
}

// RoomData converts a saved layout back into session input.
func (l Layout) RoomData(bedCount int) RoomData {
	dims := l.Dimensions
	theme := l.Theme
	return RoomData{
		Dimensions: &dims,
		Theme:      &theme,
		Elements:   CloneElements(l.Elements),
		BedCount:   bedCount,
	}
}
