package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is the RGBA theme value of a list.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// DefaultColor is used when a stored list has no readable color.
var DefaultColor = Color{R: 0xFF, G: 0x2D, B: 0x55, A: 0xFF}

// Palette holds the named colors offered when creating a list.
var Palette = []NamedColor{
	{Name: "red", Color: Color{0xFF, 0x3B, 0x30, 0xFF}},
	{Name: "orange", Color: Color{0xFF, 0x95, 0x00, 0xFF}},
	{Name: "yellow", Color: Color{0xFF, 0xCC, 0x00, 0xFF}},
	{Name: "green", Color: Color{0x34, 0xC7, 0x59, 0xFF}},
	{Name: "blue", Color: Color{0x00, 0x7A, 0xFF, 0xFF}},
	{Name: "purple", Color: Color{0xAF, 0x52, 0xDE, 0xFF}},
	{Name: "pink", Color: DefaultColor},
	{Name: "brown", Color: Color{0xA2, 0x84, 0x5E, 0xFF}},
	{Name: "gray", Color: Color{0x8E, 0x8E, 0x93, 0xFF}},
}

// NamedColor pairs a palette entry with its display name.
type NamedColor struct {
	Name  string
	Color Color
}

// Hex returns the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// RGBHex returns the color as #RRGGBB, dropping alpha. Terminal renderers
// only understand this form.
func (c Color) RGBHex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// ParseColor parses #RRGGBB or #RRGGBBAA (the leading # is optional) or a
// palette name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	for _, nc := range Palette {
		if strings.EqualFold(nc.Name, s) {
			return nc.Color, nil
		}
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "FF"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ColorOrDefault parses s and falls back to DefaultColor.
func ColorOrDefault(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		return DefaultColor
	}
	return c
}
