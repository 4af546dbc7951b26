// Package color derives border colors from fill colors.
package color

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultBorder is used when no fill color is known.
const DefaultBorder = "#000000"

// darkenBy is the lightness reduction applied in CIE-LCh space.
const darkenBy = 0.2

// Darken returns a darker variant of a hex color such as "#3366cc" or "#36c".
// Empty or unparsable input yields DefaultBorder.
func Darken(hex string) string {
	c, err := colorful.Hex(expand(hex))
	if err != nil {
		return DefaultBorder
	}
	h, ch, l := c.Hcl()
	l = max(l-darkenBy, 0)
	return colorful.Hcl(h, ch, l).Clamped().Hex()
}

// Border returns the border color for a fill color, falling back to
// DefaultBorder when fill is empty.
func Border(fill string) string {
	if fill == "" {
		return DefaultBorder
	}
	return Darken(fill)
}

// expand turns the short "#rgb" form into "#rrggbb".
func expand(hex string) string {
	if len(hex) != 4 || hex[0] != '#' {
		return hex
	}
	return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
}
