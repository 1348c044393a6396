// Package style holds the render style state and the template and color
// theme tables.
package style

import "github.com/gompdf/stylepdf/internal/render"

// State is a complete snapshot of the canvas text and drawing style.
type State struct {
	Family    string
	Style     render.FontStyle
	Size      float64
	TextColor render.RGB
	DrawColor render.RGB
	FillColor render.RGB
	LineWidth float64
}

func (s State) WithFamily(f string) State           { s.Family = f; return s }
func (s State) WithStyle(fs render.FontStyle) State { s.Style = fs; return s }
func (s State) WithSize(pt float64) State           { s.Size = pt; return s }
func (s State) WithTextColor(c render.RGB) State    { s.TextColor = c; return s }
func (s State) WithDrawColor(c render.RGB) State    { s.DrawColor = c; return s }
func (s State) WithFillColor(c render.RGB) State    { s.FillColor = c; return s }
func (s State) WithLineWidth(w float64) State       { s.LineWidth = w; return s }

// Context owns the style state of one render. Every style change goes through
// it so the canvas and Current never disagree.
type Context struct {
	canvas render.Canvas
	base   State
	cur    State
}

// NewContext returns a context whose block-default state is base. Nothing
// is applied to the canvas until Apply or Reset.
func NewContext(c render.Canvas, base State) *Context {
	return &Context{canvas: c, base: base, cur: base}
}

// Canvas returns the canvas the context draws on.
func (c *Context) Canvas() render.Canvas { return c.canvas }

// Base returns the block-default state.
func (c *Context) Base() State { return c.base }

// Current returns the state last applied.
func (c *Context) Current() State { return c.cur }

// Apply sets every style attribute of s on the canvas.
func (c *Context) Apply(s State) {
	c.canvas.SetFont(s.Family, s.Style, s.Size)
	c.canvas.SetTextColor(s.TextColor)
	c.canvas.SetDrawColor(s.DrawColor)
	c.canvas.SetFillColor(s.FillColor)
	c.canvas.SetLineWidth(s.LineWidth)
	c.cur = s
}

// Reset restores the block-default state.
func (c *Context) Reset() {
	c.Apply(c.base)
}

// With applies s for the duration of draw and then restores the state that
// was current before the call, even if draw fails or panics.
func (c *Context) With(s State, draw func() error) error {
	prev := c.cur
	c.Apply(s)
	defer c.Apply(prev)
	return draw()
}
