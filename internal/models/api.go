package models

import (
	"time"
)

// SavedLayout is a room layout as stored by the persistence layer.
type SavedLayout struct {
	RoomID    string    `json:"roomId"`
	BedCount  int       `json:"bedCount"`
	Layout    Layout    `json:"layout"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoomSummary is one entry of the saved room listing.
type RoomSummary struct {
	RoomID    string    `json:"roomId"`
	BedCount  int       `json:"bedCount"`
	Elements  int       `json:"elements"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SaveLayoutRequest is the request body for storing a layout directly.
type SaveLayoutRequest struct {
	Layout   Layout `json:"layout" binding:"required"`
	BedCount *int   `json:"bedCount,omitempty" binding:"omitempty,min=0"`
}

// OpenSessionRequest is the request body for opening a designer session.
// Any field left empty falls back to the saved room data.
type OpenSessionRequest struct {
	Dimensions *Dimensions `json:"dimensions,omitempty"`
	Theme      *Theme      `json:"theme,omitempty"`
	BedCount   *int        `json:"bedCount,omitempty" binding:"omitempty,min=0"`
}

// SetupRequest is the setup wizard input. Dimensions are in feet.
type SetupRequest struct {
	Length    float64 `json:"length" binding:"required"`
	Width     float64 `json:"width" binding:"required"`
	Height    float64 `json:"height" binding:"required"`
	ThemeName string  `json:"themeName,omitempty"`
	Theme     *Theme  `json:"theme,omitempty"`
}

// AddElementRequest is the request body for adding an element.
type AddElementRequest struct {
	Type ElementType `json:"type" binding:"required"`
}

// ElementIDsRequest carries a list of element ids.
type ElementIDsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// MoveRequest moves elements by a delta in meters.
type MoveRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
	DX  float64  `json:"dx"`
	DY  float64  `json:"dy"`
}

// Drag phases.
const (
	DragStart = "start"
	DragMove  = "move"
	DragEnd   = "end"
)

// DragRequest drives a live drag. DX and DY are measured from the drag start.
type DragRequest struct {
	Phase string   `json:"phase" binding:"required,oneof=start move end"`
	IDs   []string `json:"ids,omitempty"`
	DX    float64  `json:"dx"`
	DY    float64  `json:"dy"`
}

// SelectRequest is a click. An empty ID is a click on empty space.
type SelectRequest struct {
	ID    string `json:"id"`
	Multi bool   `json:"multi"`
}

// GridRequest changes the snapping settings of a session.
type GridRequest struct {
	SnapToGrid *bool    `json:"snapToGrid,omitempty"`
	GridSize   *float64 `json:"gridSize,omitempty" binding:"omitempty,gte=0.05"`
}

// ThemeRequest replaces a session theme. Theme takes precedence over
// ThemeName.
type ThemeRequest struct {
	ThemeName string `json:"themeName,omitempty"`
	Theme     *Theme `json:"theme,omitempty"`
}

// Notice is a user-facing message raised by a session operation, such as a
// rejected add or a completed save.
type Notice struct {
	Level   string `json:"level"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

// Capacity reports sleeping capacity against the room's bed count. A limit
// of zero means no limit is configured.
type Capacity struct {
	Limit     int `json:"limit"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// SelectionState describes the current selection.
type SelectionState struct {
	Mode         string   `json:"mode"`
	IDs          []string `json:"ids"`
	Primary      string   `json:"primary,omitempty"`
	LastSelected string   `json:"lastSelected,omitempty"`
}

// SessionState is the full observable state of a designer session.
type SessionState struct {
	SessionID  string         `json:"sessionId"`
	RoomID     string         `json:"roomId"`
	NeedsSetup bool           `json:"needsSetup"`
	Layout     Layout         `json:"layout"`
	Selection  SelectionState `json:"selection"`
	Capacity   Capacity       `json:"capacity"`
	CanUndo    bool           `json:"canUndo"`
	CanRedo    bool           `json:"canRedo"`
	Dragging   bool           `json:"dragging"`
	SnapToGrid bool           `json:"snapToGrid"`
	GridSize   float64        `json:"gridSize"`
	Notices    []Notice       `json:"notices,omitempty"`
}

// SessionResponse wraps a session state in the API response.
type SessionResponse struct {
	Data SessionState `json:"data"`
}

// LayoutResponse wraps a saved layout in the API response.
type LayoutResponse struct {
	Data SavedLayout `json:"data"`
}

// ElementsResponse wraps elements created by an operation along with the
// resulting session state.
type ElementsResponse struct {
	Data    []Element    `json:"data"`
	Session SessionState `json:"session"`
}

// ErrorResponse represents an error response from the API.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Notices []Notice `json:"notices,omitempty"`
}
