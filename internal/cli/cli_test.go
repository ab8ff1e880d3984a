package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostel-manager/room-designer/internal/models"
)

const legacyRoom = `{
  "dimensions": {"length": 6, "width": 5, "height": 2.5},
  "bedCount": 2,
  "bedPositions": [
    {"x": 0.5, "y": 0.5},
    {"x": 3, "y": 0.5, "label": "Window bed", "status": "occupied"}
  ]
}`

const overlappingLayout = `{
  "dimensions": {"length": 6, "width": 5, "height": 2.5},
  "theme": {"name": "classic", "wallColor": "#F5F5DC", "floorColor": "#8B7355"},
  "createdAt": "2024-03-01T12:00:00Z",
  "warnings": [],
  "elements": [
    {"id": "bed1", "type": "single-bed", "x": 1, "y": 1, "width": 1, "height": 2, "rotation": 0, "zIndex": 0,
     "properties": {"bedType": "single", "bedId": "bed1", "bedLabel": "Bed A", "status": "available"}},
    {"id": "bed2", "type": "single-bed", "x": 1, "y": 1, "width": 1, "height": 2, "rotation": 0, "zIndex": 1,
     "properties": {"bedType": "single", "bedId": "bed2", "bedLabel": "Bed B", "status": "available"}}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(args ...string) (string, string, error) {
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidate(t *testing.T) {
	t.Run("clean legacy room", func(t *testing.T) {
		path := writeFile(t, "room.json", legacyRoom)

		out, _, err := execute("validate", "--strict", path)

		require.NoError(t, err)
		assert.Contains(t, out, "Room: 6m x 5m x 2.5m")
		assert.Contains(t, out, "Elements: 2, sleeping capacity 2 of 2")
		assert.Contains(t, out, "No warnings")
	})

	t.Run("overlaps warn", func(t *testing.T) {
		path := writeFile(t, "layout.json", overlappingLayout)

		out, _, err := execute("validate", path)

		require.NoError(t, err)
		assert.Contains(t, out, "warning: Bed A (bed1) overlaps Bed B (bed2)")
		assert.Contains(t, out, "Elements: 2, sleeping capacity 2\n")
	})

	t.Run("overlaps fail when strict", func(t *testing.T) {
		path := writeFile(t, "layout.json", overlappingLayout)

		_, _, err := execute("validate", "--strict", path)

		assert.ErrorIs(t, err, ErrPlacementProblems)
		assert.Contains(t, err.Error(), "0 outside the room, 1 overlapping")
	})

	t.Run("bed count override", func(t *testing.T) {
		path := writeFile(t, "room.json", legacyRoom)

		out, _, err := execute("validate", "--bed-count", "1", path)

		require.NoError(t, err)
		assert.Contains(t, out, "warning: Sleeping capacity 2 exceeds the room bed count of 1")
	})

	t.Run("missing dimensions", func(t *testing.T) {
		path := writeFile(t, "room.json", `{"bedCount": 2}`)

		_, _, err := execute("validate", path)

		assert.Error(t, err)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, _, err := execute("validate", filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeFile(t, "room.json", `{"dimensions": [}`)

		_, _, err := execute("validate", path)

		assert.ErrorContains(t, err, "failed to parse")
	})
}

func TestNormalize_ConvertsLegacyBedPositions(t *testing.T) {
	path := writeFile(t, "room.json", legacyRoom)

	out, _, err := execute("normalize", path)
	require.NoError(t, err)

	var layout models.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &layout))

	assert.Equal(t, models.Dimensions{Length: 6, Width: 5, Height: 2.5}, layout.Dimensions)
	assert.Equal(t, models.DefaultTheme(), layout.Theme)
	assert.Empty(t, layout.Warnings)
	require.Len(t, layout.Elements, 2)

	first := layout.Elements[0]
	assert.Equal(t, "bed1", first.ID)
	assert.Equal(t, models.ElementSingleBed, first.Type)
	assert.Equal(t, 1.0, first.Width)
	assert.Equal(t, 2.0, first.Height)
	assert.Equal(t, "Bed A", first.Properties.(models.BedProperties).BedLabel)

	second := layout.Elements[1].Properties.(models.BedProperties)
	assert.Equal(t, "Window bed", second.BedLabel)
	assert.Equal(t, models.BedOccupied, second.Status)
}

func TestNormalize_WritesOutputFile(t *testing.T) {
	path := writeFile(t, "layout.json", overlappingLayout)
	output := filepath.Join(t.TempDir(), "out.json")

	out, _, err := execute("normalize", "-o", output, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var layout models.Layout
	require.NoError(t, json.Unmarshal(data, &layout))
	assert.Equal(t, []string{"Bed A (bed1) overlaps Bed B (bed2)"}, layout.Warnings)
}

func TestRender(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		path := writeFile(t, "room.json", legacyRoom)

		out, _, err := execute("render", "--scale", "100", path)

		require.NoError(t, err)
		assert.Contains(t, out, `<svg xmlns="http://www.w3.org/2000/svg" width="700" height="600"`)
		assert.Contains(t, out, `<rect id="bed1"`)
		assert.Contains(t, out, `fill="#E57373"`)
	})

	t.Run("output file", func(t *testing.T) {
		path := writeFile(t, "room.json", legacyRoom)
		output := filepath.Join(t.TempDir(), "room.svg")

		out, stderr, err := execute("render", "-o", output, "--grid", path)

		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Contains(t, stderr, "Wrote "+output)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(data), `stroke-opacity="0.1"`)
	})

	t.Run("needs dimensions", func(t *testing.T) {
		path := writeFile(t, "room.json", `{}`)

		_, _, err := execute("render", path)

		assert.Error(t, err)
	})

	t.Run("invalid scale", func(t *testing.T) {
		path := writeFile(t, "room.json", legacyRoom)

		_, _, err := execute("render", "--scale", "0", path)

		assert.ErrorContains(t, err, "scale must be positive")
	})
}

func TestRootCommand_RequiresFileArgument(t *testing.T) {
	for _, sub := range []string{"validate", "render", "normalize"} {
		_, _, err := execute(sub)
		assert.Error(t, err, sub)
	}
}
