package designer

import (
	"fmt"

	"github.com/hostel-manager/room-designer/internal/models"
)

// elementsFromRoomData returns the native elements, or the legacy bed
// positions mapped one to one onto single beds.
func elementsFromRoomData(data models.RoomData) []models.Element {
	if len(data.Elements) > 0 {
		elements := models.CloneElements(data.Elements)
		for i := range elements {
			if elements[i].ID == "" {
				elements[i].ID = fmt.Sprintf("%s%d", idPrefix(elements[i].Type), i+1)
			}
			if elements[i].Properties == nil {
				elements[i].Properties = propertiesOf(elements[i])
			}
		}
		return elements
	}

	elements := make([]models.Element, 0, len(data.BedPositions))
	for i, bp := range data.BedPositions {
		id := bp.ID
		if id == "" {
			id = fmt.Sprintf("bed%d", i+1)
		}
		label := bp.Label
		if label == "" {
			label = "Bed " + bedLetter(i+1)
		}
		status := bp.Status
		if status == "" {
			status = models.BedAvailable
		}
		width, height := bp.Width, bp.Height
		if width <= 0 {
			width = singleBedWidth
		}
		if height <= 0 {
			height = singleBedHeight
		}

		elements = append(elements, models.Element{
			ID:       id,
			Type:     models.ElementSingleBed,
			X:        bp.X,
			Y:        bp.Y,
			Width:    width,
			Height:   height,
			Rotation: bp.Rotation,
			ZIndex:   i,
			Properties: models.BedProperties{
				BedType:     "single",
				BedID:       id,
				BedLabel:    label,
				Status:      status,
				Orientation: orientationFor(bp.Rotation),
			},
		})
	}
	return elements
}
