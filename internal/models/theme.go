package models

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Theme is the cosmetic appearance of a room.
type Theme struct {
	Name         string `json:"name"`
	WallColor    string `json:"wallColor"`
	FloorColor   string `json:"floorColor"`
	WallTexture  string `json:"wallTexture,omitempty"`
	FloorTexture string `json:"floorTexture,omitempty"`
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Theme validation errors.
var (
	ErrInvalidColor = errors.New("invalid hex color format, expected #RRGGBB")
	ErrUnknownTheme = errors.New("unknown theme")
)

var themePresets = map[string]Theme{
	"classic": {Name: "classic", WallColor: "#F5F5DC", FloorColor: "#8B7355", FloorTexture: "wood"},
	"modern":  {Name: "modern", WallColor: "#FFFFFF", FloorColor: "#D3D3D3", FloorTexture: "tile"},
	"warm":    {Name: "warm", WallColor: "#FFE4C4", FloorColor: "#A0522D", FloorTexture: "wood"},
	"ocean":   {Name: "ocean", WallColor: "#E0FFFF", FloorColor: "#4682B4", WallTexture: "paint"},
}

// DefaultTheme is used when neither room data nor the setup wizard supply one.
func DefaultTheme() Theme {
	return themePresets["classic"]
}

// ThemePreset returns the named preset.
func ThemePreset(name string) (Theme, error) {
	t, ok := themePresets[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}

// ThemePresetNames lists the available presets in name order.
func ThemePresetNames() []string {
	names := make([]string, 0, len(themePresets))
	for name := range themePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that both colors are #RRGGBB.
func (t Theme) Validate() error {
	if !hexColorPattern.MatchString(t.WallColor) {
		return fmt.Errorf("wall color: %w: got %q", ErrInvalidColor, t.WallColor)
	}
	if !hexColorPattern.MatchString(t.FloorColor) {
		return fmt.Errorf("floor color: %w: got %q", ErrInvalidColor, t.FloorColor)
	}
	return nil
}
