package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostel-manager/room-designer/internal/models"
)

func sampleLayout() models.Layout {
	return models.Layout{
		Dimensions: models.Dimensions{Length: 4, Width: 3, Height: 2.5},
		Theme:      models.Theme{Name: "modern", WallColor: "#FFFFFF", FloorColor: "#D3D3D3"},
		Elements: []models.Element{
			{ID: "bed2", Type: models.ElementBunkBed, X: 1, Y: 0.5, Width: 2.6, Height: 2.2, ZIndex: 2,
				Properties: models.BunkBedProperties{
					BedProperties: models.BedProperties{BedLabel: "Bed B", Status: models.BedOccupied},
					BunkLevels:    2,
					Levels:        []models.BunkLevel{{ID: "bed2-top"}, {ID: "bed2-bottom"}},
				}},
			{ID: "bed1", Type: models.ElementSingleBed, X: 0.1, Y: 0.1, Width: 1, Height: 2, Rotation: 90, ZIndex: 0,
				Properties: models.BedProperties{BedLabel: "Bed <A>", Status: models.BedAvailable}},
			{ID: "door1", Type: models.ElementDoor, X: 0, Y: 2.85, Width: 0.9, Height: 0.15, ZIndex: 1,
				Properties: models.DoorProperties{HingeType: "left"}},
			{ID: "desk1", Type: "desk", X: 2, Y: 2, Width: 1.2, Height: 0.6, ZIndex: 3,
				Properties: models.GenericProperties{}},
		},
	}
}

func TestRenderer_Render(t *testing.T) {
	svg, err := NewRenderer().Render(sampleLayout(), Options{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, svg, `width="250" height="200" viewBox="0 0 250 200"`)
	assert.Contains(t, svg, `<rect id="room" x="0" y="0" width="200" height="150" fill="#D3D3D3" stroke="#FFFFFF"`)

	// Rotated footprint is drawn with width and height swapped.
	assert.Contains(t, svg, `<rect id="bed1" x="5" y="5" width="100" height="50" fill="#7BC47F"`)
	assert.Contains(t, svg, `<rect id="bed2" x="50" y="25" width="130" height="110" fill="#E57373"`)
	assert.Contains(t, svg, `data-levels="2"`)
	assert.Contains(t, svg, `stroke-dasharray`)
	assert.Contains(t, svg, `<rect id="door1" x="0" y="142.5" width="45" height="7.5" fill="#8B4513"`)
	assert.Contains(t, svg, `>desk</text>`)
	assert.Contains(t, svg, `Bed &lt;A&gt;`)
	assert.NotContains(t, svg, `<line x1="25"`, "grid is off by default")
}

func TestRenderer_PaintOrder(t *testing.T) {
	svg, err := NewRenderer().Render(sampleLayout(), Options{})
	require.NoError(t, err)

	bed1 := strings.Index(svg, `id="bed1"`)
	door1 := strings.Index(svg, `id="door1"`)
	bed2 := strings.Index(svg, `id="bed2"`)
	desk1 := strings.Index(svg, `id="desk1"`)

	assert.Less(t, bed1, door1)
	assert.Less(t, door1, bed2)
	assert.Less(t, bed2, desk1)
}

func TestRenderer_Options(t *testing.T) {
	svg, err := NewRenderer().Render(sampleLayout(), Options{
		Scale:    100,
		ShowGrid: true,
		GridSize: 1,
		Selected: []string{"door1"},
	})
	require.NoError(t, err)

	assert.Contains(t, svg, `viewBox="0 0 500 400"`)
	assert.Equal(t, 3+2, strings.Count(svg, `stroke-opacity="0.1"`))
	assert.Contains(t, svg, `<rect id="door1" x="0" y="285" width="90" height="15" fill="#8B4513" stroke="#FF6600" stroke-width="3" />`)
	assert.Equal(t, 1, strings.Count(svg, `stroke="#FF6600"`))
}

func TestRenderer_GridLinesAreBounded(t *testing.T) {
	layout := models.Layout{Dimensions: models.Dimensions{Length: 25, Width: 25, Height: 3}}

	tests := []struct {
		name     string
		gridSize float64
	}{
		{"sub-millimeter grid", 0.0005},
		{"tiny grid", 1e-7},
		{"finest allowed grid", 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg, err := NewRenderer().Render(layout, Options{ShowGrid: true, GridSize: tt.gridSize})
			require.NoError(t, err)

			lines := strings.Count(svg, `stroke-opacity="0.1"`)
			assert.Greater(t, lines, 0)
			assert.LessOrEqual(t, lines, 2*maxGridLines)
			assert.Less(t, len(svg), 100_000)
		})
	}
}

func TestRenderer_DefaultsThemeAndRejectsEmptyRoom(t *testing.T) {
	layout := sampleLayout()
	layout.Theme = models.Theme{}

	svg, err := NewRenderer().Render(layout, Options{})
	require.NoError(t, err)
	assert.Contains(t, svg, `fill="`+models.DefaultTheme().FloorColor+`"`)

	_, err = NewRenderer().Render(models.Layout{}, Options{})
	assert.Error(t, err)
}

func TestRenderer_DoesNotMutateLayout(t *testing.T) {
	layout := sampleLayout()
	before := models.CloneElements(layout.Elements)

	_, err := NewRenderer().Render(layout, Options{ShowGrid: true})
	require.NoError(t, err)
	assert.Equal(t, before, layout.Elements)
}
