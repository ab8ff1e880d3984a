package geometry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostel-manager/room-designer/internal/models"
)

func rect(id string, x, y, w, h float64) models.Element {
	return models.Element{ID: id, Type: models.ElementSingleBed, X: x, Y: y, Width: w, Height: h}
}

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		value    float64
		grid     float64
		enabled  bool
		expected float64
	}{
		{1.24, 0.5, true, 1.0},
		{1.26, 0.5, true, 1.5},
		{0.3, 0.5, true, 0.5},
		{-0.3, 0.5, true, -0.5},
		{1.26, 0.5, false, 1.26},
		{1.26, 0, true, 1.26},
		{0.37, 0.1, true, 0.4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%v/%v", tt.value, tt.grid, tt.enabled), func(t *testing.T) {
			assert.InDelta(t, tt.expected, SnapToGrid(tt.value, tt.grid, tt.enabled), 1e-9)
		})
	}
}

func TestSnapToGrid_Idempotent(t *testing.T) {
	grids := []float64{0.1, 0.25, 0.3, 0.5, 1, 0.7}
	values := []float64{-3.33, -0.05, 0, 0.049, 0.15, 1.234567, 2.5, 7.77, 13.1, 24.99}

	for _, g := range grids {
		for _, v := range values {
			once := SnapToGrid(v, g, true)
			assert.Equal(t, once, SnapToGrid(once, g, true), "grid %v value %v", g, v)
		}
	}
}

func TestEffectiveFootprint(t *testing.T) {
	e := rect("bed1", 0, 0, 1.3, 3.1)

	for _, rotation := range []int{0, 180, 360, -180} {
		e.Rotation = rotation
		w, h := EffectiveFootprint(e)
		assert.Equal(t, 1.3, w, "rotation %d", rotation)
		assert.Equal(t, 3.1, h, "rotation %d", rotation)
	}

	for _, rotation := range []int{90, 270, -90} {
		e.Rotation = rotation
		w, h := EffectiveFootprint(e)
		assert.Equal(t, 3.1, w, "rotation %d", rotation)
		assert.Equal(t, 1.3, h, "rotation %d", rotation)
	}
}

func TestClampToBounds_Furniture(t *testing.T) {
	room := models.Dimensions{Length: 5, Width: 4, Height: 2.5}

	tests := []struct {
		name  string
		x, y  float64
		wantX float64
		wantY float64
	}{
		{"inside", 1, 1, 1, 1},
		{"negative pulled to margin", -2, -1, WallMargin, WallMargin},
		{"flush against wall pulled to margin", 0, 0, WallMargin, WallMargin},
		{"past far walls", 10, 10, 5 - 1 - WallMargin, 4 - 2 - WallMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := rect("bed1", tt.x, tt.y, 1, 2)
			x, y := ClampToBounds(e, room)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
		})
	}
}

func TestClampToBounds_OpeningsSitFlush(t *testing.T) {
	room := models.Dimensions{Length: 5, Width: 4, Height: 2.5}
	door := models.Element{ID: "door1", Type: models.ElementDoor, X: -1, Y: 10, Width: 0.9, Height: 0.15}

	x, y := ClampToBounds(door, room)
	assert.Equal(t, 0.0, x)
	assert.InDelta(t, 4-0.15, y, 1e-9)
}

func TestClampToBounds_UsesRotatedFootprint(t *testing.T) {
	room := models.Dimensions{Length: 4, Width: 2, Height: 2.5}
	e := rect("bed1", 3, 5, 1.3, 3.1)
	e.Rotation = 90

	x, y := ClampToBounds(e, room)
	assert.InDelta(t, 4-3.1-WallMargin, x, 1e-9)
	assert.InDelta(t, 2-1.3-WallMargin, y, 1e-9)
}

func TestClampToBounds_KeepsInvariant(t *testing.T) {
	room := models.Dimensions{Length: 6, Width: 5, Height: 2.5}
	for _, x := range []float64{-5, -0.1, 0, 2.5, 4.9, 5.5, 30} {
		for _, rotation := range []int{0, 90} {
			e := rect("bed1", x, x, 1, 2)
			e.Rotation = rotation
			cx, cy := ClampToBounds(e, room)
			w, h := EffectiveFootprint(e)

			assert.GreaterOrEqual(t, cx, 0.0)
			assert.GreaterOrEqual(t, cy, 0.0)
			assert.LessOrEqual(t, cx+w, room.Length-WallMargin+1e-9)
			assert.LessOrEqual(t, cy+h, room.Width-WallMargin+1e-9)
		}
	}
}

func TestIsOutsideBounds(t *testing.T) {
	room := models.Dimensions{Length: 5, Width: 4, Height: 2.5}

	tests := []struct {
		name     string
		x, y     float64
		expected bool
	}{
		{"inside", 1, 1, false},
		{"slightly past left wall", -0.4, 1, false},
		{"far past left wall", -0.6, 1, true},
		{"slightly past far wall", 4.4, 1, false},
		{"far past far wall", 4.6, 1, true},
		{"far past bottom wall", 1, 2.6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := rect("bed1", tt.x, tt.y, 1, 2)
			assert.Equal(t, tt.expected, IsOutsideBounds(e, room, BoundaryTolerance))
		})
	}
}

func TestCheckCollision(t *testing.T) {
	tests := []struct {
		name     string
		a, b     models.Element
		expected bool
	}{
		{"disjoint", rect("a", 0, 0, 2, 2), rect("b", 5, 5, 2, 2), false},
		{"touching edges", rect("a", 0, 0, 2, 2), rect("b", 2, 0, 2, 2), false},
		{"overlap inside tolerance band", rect("a", 0, 0, 2, 2), rect("b", 1.85, 0, 2, 2), false},
		{"overlap under area threshold", rect("a", 0, 0, 2, 2), rect("b", 1.5, 0, 2, 2), false},
		{"half overlap", rect("a", 0, 0, 2, 2), rect("b", 1, 0, 2, 2), true},
		{"identical", rect("a", 0, 0, 2, 2), rect("b", 0, 0, 2, 2), true},
		{"small element inside large", rect("a", 0, 0, 4, 4), rect("b", 1, 1, 0.5, 0.5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckCollision(tt.a, tt.b))
			assert.Equal(t, CheckCollision(tt.a, tt.b), CheckCollision(tt.b, tt.a), "collision must be symmetric")
		})
	}
}

func TestCheckCollision_Symmetric(t *testing.T) {
	base := rect("a", 1, 1, 1.3, 2.1)
	for x := -1.0; x <= 3; x += 0.35 {
		for y := -1.0; y <= 3; y += 0.35 {
			for _, rotation := range []int{0, 90} {
				other := rect("b", x, y, 1, 2)
				other.Rotation = rotation
				assert.Equal(t, CheckCollision(base, other), CheckCollision(other, base), "at %v,%v rot %d", x, y, rotation)
			}
		}
	}
}

func TestCheckCollision_BunkLevelsExempt(t *testing.T) {
	top := rect("bed1-top", 1, 1, 2.6, 2.2)
	bottom := rect("bed1-bottom", 1, 1, 2.6, 2.2)
	middle := rect("bed1-middle", 1.2, 1.1, 2.6, 2.2)
	otherTop := rect("bed2-top", 1, 1, 2.6, 2.2)

	assert.False(t, CheckCollision(top, bottom))
	assert.False(t, CheckCollision(bottom, middle))
	assert.True(t, CheckCollision(top, otherTop))
}

func TestCheckCollision_SharedParentExempt(t *testing.T) {
	a := rect("upper", 1, 1, 2, 2)
	b := rect("lower", 1, 1, 2, 2)
	assert.True(t, CheckCollision(a, b))

	a.ParentElementID = "bunk7"
	b.ParentElementID = "bunk7"
	assert.False(t, CheckCollision(a, b))
}

func TestCheckCollisions(t *testing.T) {
	room := models.Dimensions{Length: 6, Width: 6, Height: 2.5}
	existing := []models.Element{
		rect("bed1", 0.1, 0.1, 1, 2),
		rect("bed2", 3, 3, 1, 2),
	}

	t.Run("free spot", func(t *testing.T) {
		assert.False(t, CheckCollisions(rect("new", 1.5, 0.1, 1, 2), existing, "", room))
	})

	t.Run("overlapping", func(t *testing.T) {
		assert.True(t, CheckCollisions(rect("new", 0.1, 0.1, 1, 2), existing, "", room))
	})

	t.Run("excluded element ignored", func(t *testing.T) {
		moved := rect("bed1", 0.2, 0.2, 1, 2)
		assert.False(t, CheckCollisions(moved, existing, "bed1", room))
	})

	t.Run("outside room", func(t *testing.T) {
		assert.True(t, CheckCollisions(rect("new", 5.8, 1, 1, 2), existing, "", room))
	})
}

func TestBunkBase(t *testing.T) {
	tests := []struct {
		id     string
		base   string
		isBunk bool
	}{
		{"bed1-top", "bed1", true},
		{"bed1-middle", "bed1", true},
		{"bed1-bottom", "bed1", true},
		{"bed1", "", false},
		{"-top", "", false},
		{"bed1-topper", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			base, ok := BunkBase(tt.id)
			assert.Equal(t, tt.isBunk, ok)
			assert.Equal(t, tt.base, base)
		})
	}
}
