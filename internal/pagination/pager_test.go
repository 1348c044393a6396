package pagination

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gompdf/stylepdf/internal/render"
	"github.com/gompdf/stylepdf/internal/render/rendertest"
	"github.com/gompdf/stylepdf/internal/style"
)

var base = style.State{
	Family:    "Helvetica",
	Size:      12,
	TextColor: render.Gray(51),
	LineWidth: 0.1,
}

func newPager(t *testing.T) (*Pager, *rendertest.Canvas, *style.Context) {
	t.Helper()
	c := rendertest.New()
	ctx := style.NewContext(c, base)
	return NewPager(DefaultGeometry(), ctx, render.RGB{R: 247, G: 249, B: 252}, nil), c, ctx
}

func TestGeometry(t *testing.T) {
	g := DefaultGeometry()
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if g.UsableWidth() != 170 {
		t.Errorf("UsableWidth() = %v, want 170", g.UsableWidth())
	}
	if g.ContentTop() != 35 {
		t.Errorf("ContentTop() = %v, want 35", g.ContentTop())
	}
	if g.ContentBottom() != 262 {
		t.Errorf("ContentBottom() = %v, want 262", g.ContentBottom())
	}

	bad := NewGeometry(PageSizeA5, Margins{Left: 80, Right: 80})
	if err := bad.Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("Validate() = %v, want ErrInvalidGeometry", err)
	}
}

func TestLookupPageSize(t *testing.T) {
	if ps, ok := LookupPageSize("letter"); !ok || ps != PageSizeLetter {
		t.Errorf("LookupPageSize(letter) = %v, %v", ps, ok)
	}
	if _, ok := LookupPageSize("B7"); ok {
		t.Errorf("LookupPageSize(B7) should fail")
	}
}

func TestBreakBoundary(t *testing.T) {
	p, c, _ := newPager(t)
	p.BreakPage()

	y := 100.0
	remaining := p.Geometry().ContentBottom() - y

	if got := p.Ensure(y, remaining-1); got != y || c.PageCount() != 1 {
		t.Fatalf("height H-1 broke the page: y=%v pages=%d", got, c.PageCount())
	}
	if got := p.Ensure(y, remaining); got != y || c.PageCount() != 1 {
		t.Fatalf("height H broke the page: y=%v pages=%d", got, c.PageCount())
	}
	if got := p.Ensure(y, remaining+1); got != p.Geometry().ContentTop() || c.PageCount() != 2 {
		t.Fatalf("height H+1 did not break: y=%v pages=%d", got, c.PageCount())
	}

	top := p.Geometry().ContentTop()
	if got := p.Ensure(top, p.Geometry().Capacity()+50); got != top || c.PageCount() != 2 {
		t.Fatalf("oversized content at top of page produced a blank page")
	}
}

func TestBreakPageRepaintsAndResets(t *testing.T) {
	p, c, ctx := newPager(t)
	p.BreakPage()
	ctx.Apply(base.WithStyle(render.Bold).WithFillColor(render.RGB{R: 1}).WithTextColor(render.RGB{B: 9}))

	if y := p.BreakPage(); y != 35 {
		t.Errorf("BreakPage() = %v, want 35", y)
	}
	if ctx.Current() != base {
		t.Errorf("style not reset after break: %+v", ctx.Current())
	}

	rects := c.Filter("rect")
	if len(rects) != 2 {
		t.Fatalf("got %d background rects, want 2", len(rects))
	}
	last := rects[1]
	if last.Page != 2 || last.W != 210 || last.H != 297 || last.Mode != render.Fill {
		t.Errorf("background rect = %+v", last)
	}
	if last.FillColor != (render.RGB{R: 247, G: 249, B: 252}) {
		t.Errorf("background color = %v", last.FillColor)
	}
}

func TestFinalize(t *testing.T) {
	p, c, ctx := newPager(t)
	p.BreakPage()
	p.BreakPage()

	title := strings.Repeat("x", 70)
	ch := Chrome{
		Title:        title,
		Template:     style.TemplateElegant,
		ShowDate:     true,
		ShowTemplate: true,
		DateLayout:   "2006-01-02",
		Now:          func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) },
	}
	if err := p.Finalize(ch); err != nil {
		t.Fatalf("Finalize() = %v", err)
	}
	for page := 1; page <= 2; page++ {
		texts := strings.Join(c.Texts(page), "|")
		for _, want := range []string{
			strings.Repeat("x", 60) + "...",
			"Page " + string(rune('0'+page)) + " of 2",
			"2024-03-09",
			"Elegant Style",
		} {
			if !strings.Contains(texts, want) {
				t.Errorf("page %d chrome %q missing %q", page, texts, want)
			}
		}
	}

	op, _ := c.FindText("Page 1 of 2")
	if op.Y != 297-20+15 || op.Font.Size != footerFontSize {
		t.Errorf("footer op = %+v", op)
	}
	if ctx.Current() != base {
		t.Errorf("style leaked from chrome: %+v", ctx.Current())
	}

	before := len(c.Ops)
	if err := p.Finalize(ch); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("second Finalize() = %v, want ErrAlreadyFinalized", err)
	}
	if len(c.Ops) != before || c.PageCount() != 2 {
		t.Errorf("second Finalize() drew chrome again")
	}
}
