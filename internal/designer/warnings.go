package designer

import (
	"fmt"

	"github.com/hostel-manager/room-designer/internal/geometry"
	"github.com/hostel-manager/room-designer/internal/models"
)

// Recommended room limits in meters.
const (
	minRoomSide      = 1.5
	maxRoomSide      = 25.0
	minCeilingHeight = 2.0

	// warningBoundaryTolerance is looser than geometry.BoundaryTolerance; it
	// only drives the warnings list.
	warningBoundaryTolerance = 0.8
)

// ComputeWarnings returns the soft warnings for a room. None of them block
// editing. A bedLimit of zero skips the capacity warning.
func ComputeWarnings(room models.Dimensions, elements []models.Element, bedLimit int) []string {
	warnings := []string{}

	if room.Length < minRoomSide || room.Width < minRoomSide {
		warnings = append(warnings, fmt.Sprintf("Room is too small (minimum %.1fm x %.1fm)", minRoomSide, minRoomSide))
	}
	if room.Length > maxRoomSide || room.Width > maxRoomSide {
		warnings = append(warnings, fmt.Sprintf("Room is too large (maximum %.0fm x %.0fm)", maxRoomSide, maxRoomSide))
	}
	if room.Height < minCeilingHeight {
		warnings = append(warnings, fmt.Sprintf("Ceiling is too low (minimum %.1fm)", minCeilingHeight))
	}

	for _, e := range elements {
		if geometry.IsOutsideBounds(e, room, warningBoundaryTolerance) {
			warnings = append(warnings, fmt.Sprintf("%s extends beyond the room boundary", elementName(e)))
		}
	}

	for i := range elements {
		for j := i + 1; j < len(elements); j++ {
			if geometry.CheckCollision(elements[i], elements[j]) {
				warnings = append(warnings, fmt.Sprintf("%s overlaps %s", elementName(elements[i]), elementName(elements[j])))
			}
		}
	}

	if bedLimit > 0 {
		used := 0
		for _, e := range elements {
			used += e.SleepingCapacity()
		}
		if used > bedLimit {
			warnings = append(warnings, fmt.Sprintf("Sleeping capacity %d exceeds the room bed count of %d", used, bedLimit))
		}
	}

	return warnings
}

func elementName(e models.Element) string {
	switch p := e.Properties.(type) {
	case models.BedProperties:
		if p.BedLabel != "" {
			return fmt.Sprintf("%s (%s)", p.BedLabel, e.ID)
		}
	case models.BunkBedProperties:
		if p.BedLabel != "" {
			return fmt.Sprintf("%s (%s)", p.BedLabel, e.ID)
		}
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

// PlacementProblems counts the elements that extend beyond the room and the
// pairs that overlap. Room limits and capacity are not counted.
func PlacementProblems(room models.Dimensions, elements []models.Element) (outside, overlaps int) {
	for _, e := range elements {
		if geometry.IsOutsideBounds(e, room, warningBoundaryTolerance) {
			outside++
		}
	}
	for i := range elements {
		for j := i + 1; j < len(elements); j++ {
			if geometry.CheckCollision(elements[i], elements[j]) {
				overlaps++
			}
		}
	}
	return outside, overlaps
}
