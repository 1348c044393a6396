// Package rendertest provides a recording render.Canvas for layout tests.
package rendertest

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gompdf/stylepdf/internal/render"
)

// PtToMM converts a font size in points to millimeters.
const PtToMM = 0.352778

// GlyphRatio is the advance of every glyph relative to the font size.
const GlyphRatio = 0.5

// ErrMeasure is returned by MeasureText when FailMeasure matches.
var ErrMeasure = errors.New("rendertest: cannot measure text")

// Font is the font state recorded with each op.
type Font struct {
	Family string
	Style  render.FontStyle
	Size   float64
}

// Op is one recorded drawing call.
type Op struct {
	Name      string
	Page      int
	X, Y      float64
	X2, Y2    float64
	W, H, R   float64
	Text      string
	Mode      render.DrawMode
	Font      Font
	TextColor render.RGB
	DrawColor render.RGB
	FillColor render.RGB
	LineWidth float64
}

// Canvas records every call made on it. Every glyph is GlyphRatio times the
// font size wide, so widths are predictable in tests.
type Canvas struct {
	Ops []Op

	// FailMeasure makes MeasureText fail for matching strings measured in
	// the given font.
	FailMeasure func(s string, f Font) bool
	// PanicText makes Text panic for matching strings.
	PanicText func(s string) bool

	pages     int
	page      int
	font      Font
	text      render.RGB
	draw      render.RGB
	fill      render.RGB
	lineWidth float64
	err       error
}

var _ render.Canvas = (*Canvas)(nil)

// New returns an empty recording canvas.
func New() *Canvas {
	return &Canvas{lineWidth: 0.2}
}

func (c *Canvas) record(op Op) {
	op.Page = c.page
	op.Font = c.font
	op.TextColor = c.text
	op.DrawColor = c.draw
	op.FillColor = c.fill
	op.LineWidth = c.lineWidth
	c.Ops = append(c.Ops, op)
}

func (c *Canvas) AddPage() {
	c.pages++
	c.page = c.pages
	c.record(Op{Name: "addpage"})
}

func (c *Canvas) SetPage(n int) {
	if n < 1 || n > c.pages {
		c.err = fmt.Errorf("rendertest: page %d out of range", n)
		return
	}
	c.page = n
}

func (c *Canvas) PageCount() int { return c.pages }

func (c *Canvas) SetFont(family string, style render.FontStyle, size float64) {
	c.font = Font{Family: family, Style: style, Size: size}
}

func (c *Canvas) SetTextColor(rgb render.RGB) { c.text = rgb }
func (c *Canvas) SetDrawColor(rgb render.RGB) { c.draw = rgb }
func (c *Canvas) SetFillColor(rgb render.RGB) { c.fill = rgb }
func (c *Canvas) SetLineWidth(w float64)      { c.lineWidth = w }

func (c *Canvas) Text(x, y float64, s string) {
	if c.PanicText != nil && c.PanicText(s) {
		panic("rendertest: text " + s)
	}
	c.record(Op{Name: "text", X: x, Y: y, Text: s})
}

func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	c.record(Op{Name: "line", X: x1, Y: y1, X2: x2, Y2: y2})
}

func (c *Canvas) Rect(x, y, w, h float64, mode render.DrawMode) {
	c.record(Op{Name: "rect", X: x, Y: y, W: w, H: h, Mode: mode})
}

func (c *Canvas) RoundedRect(x, y, w, h, r float64, mode render.DrawMode) {
	c.record(Op{Name: "roundedrect", X: x, Y: y, W: w, H: h, R: r, Mode: mode})
}

func (c *Canvas) Circle(x, y, r float64, mode render.DrawMode) {
	c.record(Op{Name: "circle", X: x, Y: y, R: r, Mode: mode})
}

func (c *Canvas) MeasureText(s string) (float64, error) {
	if c.FailMeasure != nil && c.FailMeasure(s, c.font) {
		return 0, ErrMeasure
	}
	return Width(s, c.font.Size), nil
}

func (c *Canvas) Err() error { return c.err }

// Font returns the current font.
func (c *Canvas) Font() Font { return c.font }

// Width is the width MeasureText reports for s at size points.
func Width(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * PtToMM * GlyphRatio
}

// Filter returns the ops named name, in order.
func (c *Canvas) Filter(name string) []Op {
	var out []Op
	for _, op := range c.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the strings drawn on page n.
func (c *Canvas) Texts(page int) []string {
	var out []string
	for _, op := range c.Ops {
		if op.Name == "text" && op.Page == page {
			out = append(out, op.Text)
		}
	}
	return out
}

// FindText returns the first text op drawing s.
func (c *Canvas) FindText(s string) (Op, bool) {
	for _, op := range c.Ops {
		if op.Name == "text" && op.Text == s {
			return op, true
		}
	}
	return Op{}, false
}
