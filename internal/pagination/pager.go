package pagination

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/gompdf/stylepdf/internal/render"
	"github.com/gompdf/stylepdf/internal/style"
	"github.com/gompdf/stylepdf/internal/text"
)

// ErrAlreadyFinalized is returned by Finalize after the first call.
var ErrAlreadyFinalized = errors.New("pages already finalized")

const (
	headerFontSize = 8
	footerFontSize = 9
	titleMaxRunes  = 60
)

var (
	headerRuleColor = render.Gray(200)
	footerRuleColor = render.Gray(180)
)

// Chrome describes the running header and footer.
type Chrome struct {
	Title        string
	Template     style.Template
	ShowDate     bool
	ShowTemplate bool
	// DateLayout is a time layout for the date stamp; empty means 01/02/2006.
	DateLayout string
	// Now supplies the date stamp; nil means time.Now.
	Now func() time.Time
}

// Pager starts pages and draws their chrome.
type Pager struct {
	geo        Geometry
	style      *style.Context
	background render.RGB
	logger     *slog.Logger

	finalized bool
}

// NewPager returns a pager drawing through ctx. Every page it starts is
// filled with background.
func NewPager(geo Geometry, ctx *style.Context, background render.RGB, logger *slog.Logger) *Pager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pager{geo: geo, style: ctx, background: background, logger: logger}
}

// Geometry returns the page geometry.
func (p *Pager) Geometry() Geometry { return p.geo }

// BreakPage appends a page, paints its background, resets the style to the
// block default and returns the cursor at the top of content.
func (p *Pager) BreakPage() float64 {
	c := p.style.Canvas()
	c.AddPage()
	c.SetFillColor(p.background)
	c.Rect(0, 0, p.geo.Width, p.geo.Height, render.Fill)
	p.style.Reset()
	p.logger.Debug("page started", "page", c.PageCount())
	return p.geo.ContentTop()
}

// Fits reports whether content of height h at y stays on the current page.
func (p *Pager) Fits(y, h float64) bool {
	return p.geo.Fits(y, h)
}

// Ensure returns y if content of height h fits at y, and otherwise breaks
// the page and returns the new top of content. A cursor already at the top
// of content never breaks, so oversized content cannot produce empty pages.
func (p *Pager) Ensure(y, h float64) float64 {
	if p.geo.Fits(y, h) || y <= p.geo.ContentTop() {
		return y
	}
	return p.BreakPage()
}

// Finalize draws the header and footer on every page. It may run only once
// per document.
func (p *Pager) Finalize(ch Chrome) error {
	if p.finalized {
		return ErrAlreadyFinalized
	}
	p.finalized = true

	c := p.style.Canvas()
	total := c.PageCount()
	base := p.style.Base()
	now := ch.Now
	if now == nil {
		now = time.Now
	}
	layout := ch.DateLayout
	if layout == "" {
		layout = "01/02/2006"
	}
	date := now().Format(layout)
	header := text.Truncate(ch.Title, titleMaxRunes)

	for i := 1; i <= total; i++ {
		c.SetPage(i)

		err := p.style.With(base.WithStyle(render.Regular).WithSize(headerFontSize).WithDrawColor(headerRuleColor), func() error {
			c.Text(p.geo.Left(), p.geo.Margins.Top, header)
			c.Line(p.geo.Left(), p.geo.Margins.Top+3, p.geo.Right(), p.geo.Margins.Top+3)
			return nil
		})
		if err != nil {
			return err
		}

		err = p.style.With(base.WithStyle(render.Regular).WithSize(footerFontSize).WithDrawColor(footerRuleColor), func() error {
			ruleY := p.geo.Height - p.geo.Margins.Bottom + 5
			c.Line(p.geo.Left(), ruleY, p.geo.Right(), ruleY)

			y := p.geo.Height - p.geo.Margins.Bottom + 15
			label := fmt.Sprintf("Page %d of %d", i, total)
			c.Text(p.geo.Width/2-p.width(label, footerFontSize)/2, y, label)
			if ch.ShowDate {
				c.Text(p.geo.Left(), y, date)
			}
			if ch.ShowTemplate {
				tpl := ch.Template.Label()
				c.Text(p.geo.Right()-p.width(tpl, footerFontSize), y, tpl)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if total > 0 {
		c.SetPage(total)
	}
	return c.Err()
}

// width measures s, estimating from the font size when the font cannot.
func (p *Pager) width(s string, size float64) float64 {
	w, err := p.style.Canvas().MeasureText(s)
	if err != nil {
		p.logger.Warn("chrome measurement failed", "text", s, "error", err)
		return float64(utf8.RuneCountInString(s)) * size * PtToMM * 0.5
	}
	return w
}

// PtToMM converts points to millimeters.
const PtToMM = 0.352778
