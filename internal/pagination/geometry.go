// Package pagination owns page geometry and the page lifecycle: breaking to
// a new page, repainting its background, and drawing page chrome once all
// content is placed.
package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGeometry is returned when margins leave no usable width.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// PageSize represents standard page sizes
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in millimeters
var (
	PageSizeA4     = PageSize{Width: 210, Height: 297, Name: "A4"}
	PageSizeLetter = PageSize{Width: 215.9, Height: 279.4, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 215.9, Height: 355.6, Name: "Legal"}
	PageSizeA3     = PageSize{Width: 297, Height: 420, Name: "A3"}
	PageSizeA5     = PageSize{Width: 148, Height: 210, Name: "A5"}
)

var pageSizes = []PageSize{PageSizeA4, PageSizeLetter, PageSizeLegal, PageSizeA3, PageSizeA5}

// LookupPageSize finds a standard page size by name, ignoring case.
func LookupPageSize(name string) (PageSize, bool) {
	for _, ps := range pageSizes {
		if strings.EqualFold(ps.Name, strings.TrimSpace(name)) {
			return ps, true
		}
	}
	return PageSize{}, false
}

// Margins represents page margins
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins are the margins used when none are configured.
var DefaultMargins = Margins{Top: 25, Right: 20, Bottom: 20, Left: 20}

const (
	// DefaultHeaderReserve is the space kept free for the running header.
	DefaultHeaderReserve = 10
	// DefaultSafetyMargin is kept free above the bottom margin for the footer.
	DefaultSafetyMargin = 15
)

// Geometry is the fixed page layout of one document. All values are in
// millimeters.
type Geometry struct {
	Width         float64
	Height        float64
	Margins       Margins
	HeaderReserve float64
	SafetyMargin  float64
}

// NewGeometry returns the geometry for size and margins with the default
// header reserve and safety margin.
func NewGeometry(size PageSize, m Margins) Geometry {
	return Geometry{
		Width:         size.Width,
		Height:        size.Height,
		Margins:       m,
		HeaderReserve: DefaultHeaderReserve,
		SafetyMargin:  DefaultSafetyMargin,
	}
}

// DefaultGeometry is A4 portrait with the default margins.
func DefaultGeometry() Geometry {
	return NewGeometry(PageSizeA4, DefaultMargins)
}

// Validate checks that the geometry leaves room for content.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: page size %gx%g", ErrInvalidGeometry, g.Width, g.Height)
	}
	if g.UsableWidth() <= 0 {
		return fmt.Errorf("%w: margins %g+%g exceed page width %g",
			ErrInvalidGeometry, g.Margins.Left, g.Margins.Right, g.Width)
	}
	if g.ContentBottom() <= g.ContentTop() {
		return fmt.Errorf("%w: no vertical space between %g and %g",
			ErrInvalidGeometry, g.ContentTop(), g.ContentBottom())
	}
	return nil
}

// Left is the x of the left margin.
func (g Geometry) Left() float64 { return g.Margins.Left }

// Right is the x of the right margin.
func (g Geometry) Right() float64 { return g.Width - g.Margins.Right }

// UsableWidth is the width between the margins.
func (g Geometry) UsableWidth() float64 {
	return g.Width - g.Margins.Left - g.Margins.Right
}

// ContentTop is the cursor position at the top of every page.
func (g Geometry) ContentTop() float64 {
	return g.Margins.Top + g.HeaderReserve
}

// ContentBottom is the lowest cursor position content may reach.
func (g Geometry) ContentBottom() float64 {
	return g.Height - g.Margins.Bottom - g.SafetyMargin
}

// Capacity is the content height of an empty page.
func (g Geometry) Capacity() float64 {
	return g.ContentBottom() - g.ContentTop()
}

// Fits reports whether content of height h starting at y ends on or above
// the content bottom.
func (g Geometry) Fits(y, h float64) bool {
	return y+h <= g.ContentBottom()
}
