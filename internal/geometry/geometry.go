// Package geometry provides the pure spatial rules of the room designer:
// grid snapping, boundary clamping, bounds checks and collision detection
// between axis-aligned elements.
package geometry

import (
	"math"
	"strings"

	"github.com/hostel-manager/room-designer/internal/models"
)

const (
	// DefaultGridSize is the snapping grid in meters.
	DefaultGridSize = 0.5

	// MinGridSize is the finest grid a session or configuration may use.
	MinGridSize = 0.05

	// FineStep is the placement step when snapping is disabled.
	FineStep = 0.1

	// WallMargin is the gap furniture keeps from the walls.
	WallMargin = 0.1

	// BoundaryTolerance is how far an element may exceed the room before it
	// counts as a collision.
	BoundaryTolerance = 0.5

	// OverlapTolerance shrinks both rectangles on every side before testing
	// overlap.
	OverlapTolerance = 0.1

	// OverlapAreaRatio is the share of the smaller element's area an overlap
	// must exceed to count as a collision.
	OverlapAreaRatio = 0.3
)

// SnapToGrid rounds value to the nearest multiple of gridSize when enabled.
func SnapToGrid(value, gridSize float64, enabled bool) float64 {
	if !enabled || gridSize <= 0 {
		return value
	}
	snapped := math.Round(value/gridSize) * gridSize
	// Trim float noise such as 1.5000000000000002 so repeated snapping is stable.
	return math.Round(snapped*1e9) / 1e9
}

// EffectiveFootprint returns the element's width and height after rotation.
// At 90 and 270 degrees the two are swapped.
func EffectiveFootprint(e models.Element) (width, height float64) {
	switch NormalizeRotation(e.Rotation) {
	case 90, 270:
		return e.Height, e.Width
	}
	return e.Width, e.Height
}

// NormalizeRotation maps any angle into [0, 360).
func NormalizeRotation(deg int) int {
	return ((deg % 360) + 360) % 360
}

// ClampToBounds returns the element's position pulled inside the room.
// Openings may sit flush against the walls; furniture keeps WallMargin.
func ClampToBounds(e models.Element, room models.Dimensions) (x, y float64) {
	w, h := EffectiveFootprint(e)
	maxX := math.Max(0, room.Length-w)
	maxY := math.Max(0, room.Width-h)

	if e.Type.IsOpening() {
		return clamp(e.X, 0, maxX), clamp(e.Y, 0, maxY)
	}
	return math.Max(WallMargin, math.Min(e.X, maxX-WallMargin)),
		math.Max(WallMargin, math.Min(e.Y, maxY-WallMargin))
}

// IsOutsideBounds reports whether the element exceeds the room on any side
// by more than tolerance.
func IsOutsideBounds(e models.Element, room models.Dimensions, tolerance float64) bool {
	w, h := EffectiveFootprint(e)
	return e.X < -tolerance ||
		e.Y < -tolerance ||
		e.X+w > room.Length+tolerance ||
		e.Y+h > room.Width+tolerance
}

// Fits reports whether the element lies entirely inside the room.
func Fits(e models.Element, room models.Dimensions) bool {
	w, h := EffectiveFootprint(e)
	return e.X >= 0 && e.Y >= 0 && e.X+w <= room.Length && e.Y+h <= room.Width
}

// CheckCollision reports whether a and b overlap significantly. Both
// rectangles are shrunk by OverlapTolerance first, and the overlap must cover
// more than OverlapAreaRatio of the smaller element. Levels of the same bunk
// bed never collide.
func CheckCollision(a, b models.Element) bool {
	if SameBunk(a, b) {
		return false
	}

	aw, ah := EffectiveFootprint(a)
	bw, bh := EffectiveFootprint(b)
	t := OverlapTolerance

	overlapping := a.X+t < b.X+bw-t &&
		a.X+aw-t > b.X+t &&
		a.Y+t < b.Y+bh-t &&
		a.Y+ah-t > b.Y+t
	if !overlapping {
		return false
	}

	ox := math.Min(a.X+aw, b.X+bw) - math.Max(a.X, b.X)
	oy := math.Min(a.Y+ah, b.Y+bh) - math.Max(a.Y, b.Y)
	if ox <= 0 || oy <= 0 {
		return false
	}

	smaller := math.Min(aw*ah, bw*bh)
	return ox*oy > OverlapAreaRatio*smaller
}

// CheckCollisions reports whether candidate is outside the room or collides
// with any element other than excludeID.
func CheckCollisions(candidate models.Element, elements []models.Element, excludeID string, room models.Dimensions) bool {
	if IsOutsideBounds(candidate, room, BoundaryTolerance) {
		return true
	}
	for _, other := range elements {
		if other.ID == excludeID || other.ID == candidate.ID {
			continue
		}
		if CheckCollision(candidate, other) {
			return true
		}
	}
	return false
}

// SameBunk reports whether a and b are stacked parts of one bunk bed, either
// through a shared ParentElementID or, for data without the relation, through
// ids of the form <base>-top, <base>-middle or <base>-bottom.
func SameBunk(a, b models.Element) bool {
	if a.ParentElementID != "" && a.ParentElementID == b.ParentElementID {
		return true
	}
	baseA, okA := BunkBase(a.ID)
	baseB, okB := BunkBase(b.ID)
	return okA && okB && baseA == baseB
}

// BunkBase strips a bunk level suffix from id.
func BunkBase(id string) (string, bool) {
	for _, suffix := range []string{"-top", "-middle", "-bottom"} {
		if base, ok := strings.CutSuffix(id, suffix); ok && base != "" {
			return base, true
		}
	}
	return "", false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
