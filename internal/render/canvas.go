// Package render defines the drawing surface the layout engine paints on.
package render

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B int
}

// Gray returns the RGB color with all channels set to v.
func Gray(v int) RGB {
	return RGB{v, v, v}
}

// ParseColor parses #RRGGBB, #RGB and rgb(r, g, b) notations.
func ParseColor(value string) (RGB, bool) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		if r, g, b, ok := parseHexColor(value); ok {
			return RGB{r, g, b}, true
		}
		return RGB{}, false
	}

	var r, g, b int
	if _, err := fmt.Sscanf(strings.ReplaceAll(value, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
		return RGB{clamp8(r), clamp8(g), clamp8(b)}, true
	}

	return RGB{}, false
}

// parseHexColor parses #RRGGBB or #RGB into r,g,b
func parseHexColor(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func clamp8(v int) int {
	return max(0, min(v, 255))
}

// FontStyle is a combination of bold and italic.
type FontStyle uint8

const (
	Regular FontStyle = 0
	Bold    FontStyle = 1 << 0
	Italic  FontStyle = 1 << 1

	BoldItalic = Bold | Italic
)

// StyleOf returns the style for the given emphasis flags.
func StyleOf(bold, italic bool) FontStyle {
	var s FontStyle
	if bold {
		s |= Bold
	}
	if italic {
		s |= Italic
	}
	return s
}

// Code returns the style in the "", "B", "I", "BI" notation.
func (s FontStyle) Code() string {
	switch s {
	case Bold:
		return "B"
	case Italic:
		return "I"
	case BoldItalic:
		return "BI"
	}
	return ""
}

func (s FontStyle) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case BoldItalic:
		return "bolditalic"
	}
	return "normal"
}

// DrawMode selects whether a shape is filled, stroked, or both.
type DrawMode string

const (
	Fill       DrawMode = "F"
	Stroke     DrawMode = "D"
	FillStroke DrawMode = "FD"
)

// Canvas is a paged drawing surface. Coordinates are in millimeters from the
// top-left corner of the page; Text places the baseline at y.
//
// Implementations keep a sticky error: after a failure every later call is a
// no-op and Err reports the first failure.
type Canvas interface {
	AddPage()
	SetPage(n int)
	PageCount() int

	SetFont(family string, style FontStyle, size float64)
	SetTextColor(c RGB)
	SetDrawColor(c RGB)
	SetFillColor(c RGB)
	SetLineWidth(w float64)

	Text(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64, mode DrawMode)
	RoundedRect(x, y, w, h, r float64, mode DrawMode)
	Circle(x, y, r float64, mode DrawMode)

	// MeasureText returns the width of s in the current font. A measurement
	// failure is returned and does not poison the canvas.
	MeasureText(s string) (float64, error)

	Err() error
}
