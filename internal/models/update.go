package models

// ElementUpdate is a partial update of an element. Nil fields are left
// unchanged.
type ElementUpdate struct {
	X          *float64          `json:"x,omitempty"`
	Y          *float64          `json:"y,omitempty"`
	Width      *float64          `json:"width,omitempty" binding:"omitempty,gt=0"`
	Height     *float64          `json:"height,omitempty" binding:"omitempty,gt=0"`
	Rotation   *int              `json:"rotation,omitempty"`
	ZIndex     *int              `json:"zIndex,omitempty"`
	Properties *PropertiesUpdate `json:"properties,omitempty"`
}

// PropertiesUpdate is a partial update of an element's properties. Only the
// fields valid for the element's type may be set.
type PropertiesUpdate struct {
	// Beds
	BedType     *string    `json:"bedType,omitempty"`
	BedID       *string    `json:"bedId,omitempty"`
	BedLabel    *string    `json:"bedLabel,omitempty"`
	Status      *BedStatus `json:"status,omitempty"`
	Orientation *string    `json:"orientation,omitempty"`

	// Bunk beds
	BunkLevels *int        `json:"bunkLevels,omitempty"`
	Levels     []BunkLevel `json:"levels,omitempty"`

	// Doors
	HingeType *string `json:"hingeType,omitempty"`

	// Windows
	IsOpen *bool `json:"isOpen,omitempty"`

	// Other furniture
	Extra map[string]any `json:"extra,omitempty"`
}
