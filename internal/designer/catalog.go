package designer

import (
	"github.com/hostel-manager/room-designer/internal/models"
)

// Footprints in meters at rotation 0.
const (
	singleBedWidth  = 1.0
	singleBedHeight = 2.0

	bunkWidth2  = 2.6
	bunkHeight2 = 2.2
	bunkWidth3  = 3.0
	bunkHeight3 = 2.7

	defaultBunkLevels = 2
)

type footprint struct {
	width, height float64
}

var catalog = map[models.ElementType]footprint{
	models.ElementSingleBed: {singleBedWidth, singleBedHeight},
	models.ElementBunkBed:   {bunkWidth2, bunkHeight2},
	models.ElementDoor:      {0.9, 0.15},
	models.ElementWindow:    {1.2, 0.15},
	"desk":                  {1.2, 0.6},
	"wardrobe":              {1.0, 0.6},
	"chair":                 {0.5, 0.5},
}

// Catalog lists the element types that can be added.
func Catalog() []models.ElementType {
	return []models.ElementType{
		models.ElementSingleBed,
		models.ElementBunkBed,
		models.ElementDoor,
		models.ElementWindow,
		"desk",
		"wardrobe",
		"chair",
	}
}

// bunkFootprint returns the footprint of a bunk bed with the given level count.
func bunkFootprint(levels int) footprint {
	if levels == 3 {
		return footprint{bunkWidth3, bunkHeight3}
	}
	return footprint{bunkWidth2, bunkHeight2}
}
