package chart

import (
	"fmt"
	"strconv"
	"strings"
)

// ColorSpec is a border/fill color pair for one dataset.
type ColorSpec struct {
	Border string `json:"border"`
	Fill   string `json:"fill"`
}

// Named builds a ColorSpec from a single color token: the token becomes
// the border and a translucent variant of it becomes the fill.
func Named(color string) ColorSpec {
	return ColorSpec{
		Border: color,
		Fill:   Translucent(color),
	}
}

// Pair builds a ColorSpec with explicit border and fill colors.
func Pair(border, fill string) ColorSpec {
	return ColorSpec{Border: border, Fill: fill}
}

// IsZero reports whether no color is set at all.
func (c ColorSpec) IsZero() bool {
	return c.Border == "" && c.Fill == ""
}

// fillAlpha is the opacity of fills derived from a single color token.
const fillAlpha = 0.2

// Translucent derives a see-through fill color from a border color.
// Hex colors become rgba() with fillAlpha; anything else is passed
// through unchanged.
func Translucent(color string) string {
	hex := strings.TrimPrefix(color, "#")
	if len(hex) != 6 || !strings.HasPrefix(color, "#") {
		return color
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return color
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", r, g, b, fillAlpha)
}

// DefaultPalette returns the fixed 4-color cycle used when the caller
// supplies no colors.
func DefaultPalette() []ColorSpec {
	return []ColorSpec{
		Named("#36a2eb"), // blue
		Named("#ff6384"), // red
		Named("#4bc0c0"), // teal
		Named("#ff9f40"), // orange
	}
}
