// Package layout places a content tree on fixed-size pages: the title block,
// every block node in document order with page breaks, and finally the page
// chrome.
package layout

import (
	"log/slog"
	"math"
	"strings"

	"github.com/gompdf/stylepdf/internal/content"
	"github.com/gompdf/stylepdf/internal/pagination"
	"github.com/gompdf/stylepdf/internal/render"
	"github.com/gompdf/stylepdf/internal/style"
	"github.com/gompdf/stylepdf/internal/text"
)

const fallbackNotice = "Error rendering formatted content. Displaying basic text:"

var titleRuleColor = render.Gray(200)

// renderer carries the state of one render. It is created by Render and
// never shared.
type renderer struct {
	style   *style.Context
	pager   *pagination.Pager
	geo     pagination.Geometry
	policy  style.TemplatePolicy
	palette style.Palette
	logger  *slog.Logger

	// base is the block-default style.
	base style.State
	// lineHeight is the content line pitch and baseLine the content font
	// size, both in millimeters.
	lineHeight float64
	baseLine   float64

	handlers [content.NumKinds]blockHandler
}

func newRenderer(c render.Canvas, cfg Config) *renderer {
	policy := cfg.Template.Policy()
	family := cfg.Font.Family
	if policy.ForceSerif && !cfg.Font.Serif {
		family = SerifFallback
	}
	base := style.State{
		Family:    family,
		Style:     render.Regular,
		Size:      cfg.ContentSize,
		TextColor: cfg.Palette.Text,
		DrawColor: cfg.Palette.Text,
		FillColor: cfg.Palette.Background,
		LineWidth: 0.1,
	}
	ctx := style.NewContext(c, base)
	r := &renderer{
		style:      ctx,
		pager:      pagination.NewPager(cfg.Geometry, ctx, cfg.Palette.Background, cfg.Logger),
		geo:        cfg.Geometry,
		policy:     policy,
		palette:    cfg.Palette,
		logger:     cfg.Logger,
		base:       base,
		lineHeight: cfg.ContentSize * ptToMM * policy.LineHeight(cfg.LineHeight),
		baseLine:   cfg.ContentSize * ptToMM,
	}
	r.buildHandlers()
	return r
}

// Render lays doc out on c, starting with a fresh first page, and draws the
// header and footer on every page. Failures while laying out content are
// logged and recovered by writing plain text; only an invalid geometry or a
// canvas failure is returned.
func Render(c render.Canvas, doc *content.Document, cfg Config) error {
	cfg = cfg.withDefaults()
	if err := cfg.Geometry.Validate(); err != nil {
		return err
	}
	if doc == nil {
		doc = &content.Document{}
	}

	r := newRenderer(c, cfg)
	r.pager.BreakPage()

	title, start := r.title(doc.Title, cfg)
	start = r.clamp(start)
	r.body(doc, start)

	return r.pager.Finalize(pagination.Chrome{
		Title:        title,
		Template:     cfg.Template,
		ShowDate:     cfg.ShowDate,
		ShowTemplate: cfg.ShowTemplate,
		DateLayout:   cfg.DateLayout,
		Now:          cfg.Now,
	})
}

// title draws the title block and returns the rendered title text and the
// cursor where content starts.
func (r *renderer) title(raw string, cfg Config) (string, float64) {
	p := r.policy
	rendered := strings.TrimSpace(raw)
	if p.TitleUpper {
		rendered = strings.ToUpper(rendered)
	}
	size := max(cfg.TitleSize, p.TitleMinSize)
	fs := render.StyleOf(cfg.TitleBold || p.TitleBold, cfg.TitleItalic || p.TitleItalic)
	st := r.base.WithStyle(fs).WithSize(size).WithTextColor(r.palette.Title)

	lines, err := r.titleLines(rendered, st)
	if err != nil {
		r.logger.Warn("title could not be measured, retrying in Helvetica", "family", st.Family, "error", err)
		st = st.WithFamily("Helvetica")
		if lines, err = r.titleLines(rendered, st); err != nil {
			r.logger.Warn("title could not be measured, estimating widths", "error", err)
			lines = text.WrapApprox(rendered, r.geo.UsableWidth(), size*ptToMM*0.5)
		}
	}

	top := r.geo.ContentTop()
	lh := size * ptToMM * 1.2
	_ = r.style.With(st, func() error {
		for i, l := range lines {
			r.style.Canvas().Text(r.geo.Left(), top+size/2+float64(i)*lh, l)
		}
		return nil
	})
	height := float64(max(len(lines), 1)) * lh

	switch {
	case p.TitleRule:
		ruleY := top + height + p.RuleOffset
		_ = r.style.With(r.base.WithDrawColor(titleRuleColor), func() error {
			r.style.Canvas().Line(r.geo.Left(), ruleY, r.geo.Right(), ruleY)
			return nil
		})
		return rendered, ruleY + p.TitleGap
	case p.TitleGap > 0:
		return rendered, top + height + p.TitleGap
	}
	gap := cfg.TitleMarginBottom
	if gap <= 0 {
		gap = 15
	}
	return rendered, top + height + gap
}

func (r *renderer) titleLines(s string, st style.State) ([]string, error) {
	var lines []string
	err := r.style.With(st, func() error {
		var err error
		lines, err = text.Wrap(s, r.geo.UsableWidth(), r.style.Canvas().MeasureText)
		return err
	})
	return lines, err
}

// body renders the document's nodes in order from start. A failure outside
// a single block replaces the content with a notice and the plain text.
func (r *renderer) body(doc *content.Document, start float64) {
	col := column{Left: r.geo.Left(), Width: r.geo.UsableWidth()}
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("layout failed, writing basic text", "panic", p)
			r.fallback(doc, start, col)
		}
	}()

	y := start
	var prev content.Kind
	first := true
	for _, n := range doc.Nodes {
		if n == nil {
			continue
		}
		if !first {
			y += r.spacing(prev, n.Kind)
		}
		y = r.renderBlock(n, y, col)
		prev, first = n.Kind, false
		r.logger.Debug("block placed", "kind", n.Kind, "y", y, "page", r.style.Canvas().PageCount())
	}
}

// fallback writes a notice and the document text unstyled in Helvetica.
func (r *renderer) fallback(doc *content.Document, start float64, col column) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("basic text fallback failed", "panic", p)
		}
		r.style.Reset()
	}()

	st := r.base.WithFamily("Helvetica").WithStyle(render.Regular)
	r.style.Apply(st)
	r.style.Canvas().Text(col.Left, start, fallbackNotice)

	lines := r.wrap(doc.PlainText(), col.Width)
	r.lines(start+10, len(lines), r.lineHeight, st, func(first, count int, y float64) {
		for j := range count {
			r.style.Canvas().Text(col.Left, y+float64(j)*r.lineHeight, lines[first+j])
		}
	})
}

// clamp replaces a cursor that is not finite or lies above the top margin
// with the default content start.
func (r *renderer) clamp(y float64) float64 {
	if math.IsNaN(y) || math.IsInf(y, 0) || y < r.geo.Margins.Top {
		r.logger.Warn("invalid cursor, using default start", "y", y)
		return r.geo.Margins.Top + 20
	}
	return y
}
