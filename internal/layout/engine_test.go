package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/gompdf/stylepdf/internal/content"
	"github.com/gompdf/stylepdf/internal/pagination"
	"github.com/gompdf/stylepdf/internal/render"
	"github.com/gompdf/stylepdf/internal/render/rendertest"
	"github.com/gompdf/stylepdf/internal/style"
)

func isChrome(op rendertest.Op) bool {
	return op.Font.Size == 8 || op.Font.Size == 9
}

func TestRenderSingleParagraph(t *testing.T) {
	c := rendertest.New()
	doc := &content.Document{
		Title: "Report",
		Nodes: []*content.Node{content.Paragraph(content.Text("Hello there."))},
	}
	if err := Render(c, doc, testConfig()); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if c.PageCount() != 1 {
		t.Fatalf("PageCount() = %d, want 1", c.PageCount())
	}

	title, ok := c.FindText("Report")
	if !ok || title.Y != 35+24.0/2 || title.X != 20 || title.Font.Style != render.Bold {
		t.Errorf("title op = %+v", title)
	}
	titleHeight := 24 * ptToMM * 1.2
	first, _ := c.FindText("Hello")
	if !near(first.Y, 35+titleHeight+15) {
		t.Errorf("content starts at %v, want %v", first.Y, 35+titleHeight+15)
	}
	if _, ok := c.FindText("Page 1 of 1"); !ok {
		t.Errorf("footer missing: %q", c.Texts(1))
	}
	if _, ok := c.FindText("Default Style"); !ok {
		t.Errorf("template stamp missing")
	}
	if _, ok := c.FindText("01/02/2024"); !ok {
		t.Errorf("date stamp missing")
	}
}

func TestRenderLongParagraphPaginates(t *testing.T) {
	const totalLines = 100
	c := rendertest.New()
	doc := &content.Document{
		Title: "Long",
		Nodes: []*content.Node{content.Paragraph(content.Text(strings.Repeat("word ", 16*totalLines)))},
	}
	cfg := testConfig()
	if err := Render(c, doc, cfg); err != nil {
		t.Fatalf("Render() = %v", err)
	}

	geo := cfg.Geometry
	lh := 12 * ptToMM * 1.5
	start := geo.ContentTop() + 24*ptToMM*1.2 + 15
	firstPage := int(math.Floor((geo.ContentBottom()-start)/lh)) + 1
	perPage := int(math.Floor(geo.Capacity()/lh)) + 1
	want := 1 + int(math.Ceil(float64(totalLines-firstPage)/float64(perPage)))

	if c.PageCount() != want {
		t.Fatalf("PageCount() = %d, want %d", c.PageCount(), want)
	}
	for i := 1; i <= want; i++ {
		if _, ok := c.FindText(fmt.Sprintf("Page %d of %d", i, want)); !ok {
			t.Errorf("footer for page %d missing", i)
		}
	}

	lines := map[[2]float64]bool{}
	for _, op := range c.Filter("text") {
		if op.Text == "word" {
			lines[[2]float64{float64(op.Page), op.Y}] = true
		}
	}
	if len(lines) != totalLines {
		t.Errorf("drew %d lines, want %d", len(lines), totalLines)
	}
}

func TestRenderMinimalUppercasesTitle(t *testing.T) {
	c := rendertest.New()
	cfg := testConfig()
	cfg.Template = style.TemplateMinimal
	if err := Render(c, &content.Document{Title: "hello world"}, cfg); err != nil {
		t.Fatal(err)
	}
	texts := c.Filter("text")
	if len(texts) == 0 || texts[0].Text != "HELLO WORLD" {
		t.Fatalf("title drawn as %+v", texts)
	}
	if _, ok := c.FindText("HELLO WORLD"); !ok {
		t.Errorf("header does not use the rendered title")
	}
}

func TestRenderTemplateTitleRules(t *testing.T) {
	titleHeight := 24 * ptToMM * 1.2
	tests := []struct {
		tpl        style.Template
		style      render.FontStyle
		size       float64
		contentGap float64
	}{
		{style.TemplateDefault, render.Bold, 24, 15},
		{style.TemplateElegant, render.BoldItalic, 24, 8 + 15},
		{style.TemplateModern, render.Bold, 24, 15},
		{style.TemplateMinimal, render.Bold, 24, 18},
		{style.TemplateAcademic, render.Bold, 24, 20},
	}
	for _, tt := range tests {
		t.Run(string(tt.tpl), func(t *testing.T) {
			c := rendertest.New()
			cfg := testConfig()
			cfg.Template = tt.tpl
			doc := &content.Document{Title: "T", Nodes: []*content.Node{content.Paragraph(content.Text("body"))}}
			if err := Render(c, doc, cfg); err != nil {
				t.Fatal(err)
			}
			title, _ := c.FindText("T")
			if title.Font.Style != tt.style || title.Font.Size != tt.size {
				t.Errorf("title font = %+v", title.Font)
			}
			body, _ := c.FindText("body")
			if !near(body.Y, 35+titleHeight+tt.contentGap) {
				t.Errorf("content at %v, want %v", body.Y, 35+titleHeight+tt.contentGap)
			}
		})
	}
}

func TestRenderModernTitleFloor(t *testing.T) {
	c := rendertest.New()
	cfg := testConfig()
	cfg.Template = style.TemplateModern
	cfg.TitleSize = 14
	cfg.TitleBold = false
	if err := Render(c, &content.Document{Title: "Small"}, cfg); err != nil {
		t.Fatal(err)
	}
	op, _ := c.FindText("Small")
	if op.Font.Size != 18 || op.Font.Style != render.Bold {
		t.Errorf("modern title font = %+v", op.Font)
	}
}

func TestRenderAcademicForcesSerif(t *testing.T) {
	c := rendertest.New()
	cfg := testConfig()
	cfg.Template = style.TemplateAcademic
	doc := &content.Document{Title: "Paper", Nodes: []*content.Node{content.Paragraph(content.Text("abstract"))}}
	if err := Render(c, doc, cfg); err != nil {
		t.Fatal(err)
	}
	if op, _ := c.FindText("abstract"); op.Font.Family != SerifFallback {
		t.Errorf("academic body family = %q", op.Font.Family)
	}

	c = rendertest.New()
	cfg.Font = FontFace{Family: "georgia", Serif: true}
	if err := Render(c, doc, cfg); err != nil {
		t.Fatal(err)
	}
	if op, _ := c.FindText("abstract"); op.Font.Family != "georgia" {
		t.Errorf("serif family replaced: %q", op.Font.Family)
	}
}

func TestRenderTitleRetriesInHelvetica(t *testing.T) {
	c := rendertest.New()
	c.FailMeasure = func(_ string, f rendertest.Font) bool { return f.Family == "custom" }
	cfg := testConfig()
	cfg.Font = FontFace{Family: "custom"}

	doc := &content.Document{Title: "Fallback", Nodes: []*content.Node{content.Paragraph(content.Text("still here"))}}
	if err := Render(c, doc, cfg); err != nil {
		t.Fatal(err)
	}
	if op, _ := c.FindText("Fallback"); op.Font.Family != "Helvetica" {
		t.Errorf("title family = %q, want Helvetica", op.Font.Family)
	}
	if _, ok := c.FindText("still here"); !ok {
		t.Errorf("body not written as plain text: %q", c.Texts(1))
	}
}

func TestRenderFallsBackToBasicText(t *testing.T) {
	c := rendertest.New()
	calls := 0
	c.PanicText = func(s string) bool {
		if s != "fragile" {
			return false
		}
		calls++
		return calls <= 2
	}
	doc := &content.Document{Title: "Doc", Nodes: []*content.Node{content.Paragraph(content.Text("fragile"))}}
	if err := Render(c, doc, testConfig()); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	notice, ok := c.FindText(fallbackNotice)
	if !ok || notice.Font.Family != "Helvetica" {
		t.Fatalf("fallback notice missing: %q", c.Texts(1))
	}
	body, ok := c.FindText("fragile")
	if !ok || !near(body.Y, notice.Y+10) {
		t.Errorf("fallback body = %+v", body)
	}
	if _, ok := c.FindText("Page 1 of 1"); !ok {
		t.Errorf("footer missing after fallback")
	}
}

func TestRenderUnknownKindDegrades(t *testing.T) {
	c := rendertest.New()
	doc := &content.Document{Nodes: []*content.Node{
		{Kind: content.NumKinds + 3, Inline: []content.Inline{content.Text("mystery")}},
	}}
	if err := Render(c, doc, testConfig()); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.FindText("mystery"); !ok {
		t.Errorf("unknown node text not written")
	}
}

func TestRenderRejectsInvalidGeometry(t *testing.T) {
	cfg := testConfig()
	cfg.Geometry.Margins.Left = 200
	err := Render(rendertest.New(), &content.Document{}, cfg)
	if !errors.Is(err, pagination.ErrInvalidGeometry) {
		t.Fatalf("Render() = %v, want ErrInvalidGeometry", err)
	}
}

// TestRenderNoStyleLeak draws a probe paragraph after every block kind and
// checks it always comes out in the block-default style and inside the
// content area.
func TestRenderNoStyleLeak(t *testing.T) {
	probe := func() *content.Node { return content.Paragraph(content.Text("probe")) }
	blocks := []*content.Node{
		content.Heading(1, content.Text("One")),
		content.Heading(2, content.Text("Two")),
		content.Heading(3, content.Text("Three")),
		content.List(false, []content.Inline{content.Elem("b", content.Text("bold item"))}),
		content.List(true, []content.Inline{content.Text("ordered")}),
		content.Blockquote("a quote"),
		content.Link("a link", "https://example.com"),
		content.Image("chart"),
		{Kind: content.KindSidebar, Title: "Note", Inline: []content.Inline{content.Text("aside text")}},
		{Kind: content.KindPullQuote, Inline: []content.Inline{content.Text("pulled")}},
		{Kind: content.KindTOC, Children: []*content.Node{content.List(false, []content.Inline{content.Text("Intro")})}},
		{Kind: content.KindCaption, Inline: []content.Inline{content.Text("figure one")}},
		{Kind: content.KindListItem, Inline: []content.Inline{content.Elem("em", content.Text("loose"))}},
		{Kind: content.KindParagraph, Inline: []content.Inline{content.Text("with image")}, Children: []*content.Node{content.Image("")}},
	}

	var nodes []*content.Node
	for i := 0; i < 6; i++ {
		for _, b := range blocks {
			nodes = append(nodes, b, probe())
		}
	}

	for _, class := range []style.ColorClass{style.ColorDefault, style.ColorDark} {
		c := rendertest.New()
		cfg := testConfig()
		cfg.Palette = class.Palette()
		if err := Render(c, &content.Document{Title: "Leaks", Nodes: nodes}, cfg); err != nil {
			t.Fatal(err)
		}
		if c.PageCount() < 2 {
			t.Fatalf("expected several pages, got %d", c.PageCount())
		}

		want := rendertest.Font{Family: "Helvetica", Style: render.Regular, Size: 12}
		probes := 0
		for _, op := range c.Filter("text") {
			if op.Text == "probe" {
				probes++
				if op.Font != want || op.TextColor != cfg.Palette.Text {
					t.Errorf("%s: probe on page %d drawn with %+v %v", class, op.Page, op.Font, op.TextColor)
				}
			}
			if isChrome(op) {
				continue
			}
			if op.Y < cfg.Geometry.Margins.Top || op.Y > cfg.Geometry.Height-cfg.Geometry.Margins.Bottom {
				t.Errorf("%s: %q drawn outside content bounds at y=%v", class, op.Text, op.Y)
			}
		}
		if probes != 6*len(blocks) {
			t.Errorf("%s: drew %d probes, want %d", class, probes, 6*len(blocks))
		}
	}
}
