package html

import (
	"testing"

	"github.com/gompdf/stylepdf/internal/content"
)

func kinds(nodes []*content.Node) []content.Kind {
	out := make([]content.Kind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind
	}
	return out
}

func TestParseEnhancedMarkup(t *testing.T) {
	markup := `<section-header>Introduction</section-header>
Opening words with <strong>bold</strong> and <ref>see part two</ref>.
<pull-quote>Memorable line</pull-quote>
<illustration-suggestion><h4>Suggested Illustration</h4>A map of the river</illustration-suggestion>
<caption>The river at dawn</caption>
<sidebar><h4>Background</h4>Some context here.</sidebar>
<toc><ul><li>Introduction</li><li>Method</li></ul></toc>`

	doc, err := NewParser().ParseString(markup)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	want := []content.Kind{
		content.KindHeading,
		content.KindParagraph,
		content.KindPullQuote,
		content.KindImage,
		content.KindCaption,
		content.KindSidebar,
		content.KindTOC,
	}
	got := kinds(doc.Nodes)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("node %d kind = %v, want %v", i, got[i], want[i])
		}
	}

	if h := doc.Nodes[0]; h.Level != 2 || h.PlainText() != "Introduction" {
		t.Errorf("heading = level %d %q", h.Level, h.PlainText())
	}
	runs := content.Extract(doc.Nodes[1].Inline, content.Emphasis{})
	var bold bool
	for _, r := range runs {
		if r.Text == "bold" && r.Bold {
			bold = true
		}
	}
	if !bold {
		t.Errorf("paragraph runs %+v lost the bold run", runs)
	}
	if img := doc.Nodes[3]; img.Alt != "A map of the river" {
		t.Errorf("illustration alt = %q", img.Alt)
	}
	if c := doc.Nodes[4]; c.PlainText() != "The river at dawn" {
		t.Errorf("caption = %q", c.PlainText())
	}
	if s := doc.Nodes[5]; s.Title != "Background" || s.PlainText() != "Some context here." {
		t.Errorf("sidebar = %q / %q", s.Title, s.PlainText())
	}
	toc := doc.Nodes[6]
	if len(toc.Children) != 1 || len(toc.Children[0].Children) != 2 {
		t.Fatalf("toc children = %+v", toc.Children)
	}
}

func TestParseHTML(t *testing.T) {
	markup := `<h1>Top</h1><h5>Deep</h5>
<p>Text <em>here</em><img alt="chart"></p>
<ol><li>one<ul><li>nested</li></ul></li><li>two</li></ol>
<blockquote>Quoted</blockquote>
<blockquote class="pull-quote">Pulled</blockquote>
<a href="https://example.com">Example</a>
<div class="image-placeholder">Figure 1</div>
<script>ignored()</script>`

	doc, err := NewParser().ParseString(markup)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	want := []content.Kind{
		content.KindHeading,
		content.KindHeading,
		content.KindParagraph,
		content.KindOrderedList,
		content.KindBlockquote,
		content.KindPullQuote,
		content.KindLink,
		content.KindImage,
	}
	got := kinds(doc.Nodes)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("node %d kind = %v, want %v", i, got[i], want[i])
		}
	}

	if doc.Nodes[0].Level != 1 || doc.Nodes[1].Level != 3 {
		t.Errorf("levels = %d, %d", doc.Nodes[0].Level, doc.Nodes[1].Level)
	}
	p := doc.Nodes[2]
	if len(p.Children) != 1 || p.Children[0].Kind != content.KindImage || p.Children[0].Alt != "chart" {
		t.Errorf("paragraph children = %+v", p.Children)
	}
	ol := doc.Nodes[3]
	if len(ol.Children) != 2 {
		t.Fatalf("ordered list has %d items", len(ol.Children))
	}
	if first := ol.Children[0]; len(first.Children) != 1 || !first.Children[0].Kind.IsList() {
		t.Errorf("nested list missing from first item: %+v", first.Children)
	}
	if l := doc.Nodes[6]; l.Href != "https://example.com" || l.PlainText() != "Example" {
		t.Errorf("link = %q -> %q", l.PlainText(), l.Href)
	}
	if img := doc.Nodes[7]; img.Alt != "Figure 1" {
		t.Errorf("placeholder alt = %q", img.Alt)
	}
}

func TestBareTextBecomesParagraphs(t *testing.T) {
	doc, err := NewParser().ParseString("first block<h2>Head</h2>second <b>block</b>")
	if err != nil {
		t.Fatal(err)
	}
	got := kinds(doc.Nodes)
	want := []content.Kind{content.KindParagraph, content.KindHeading, content.KindParagraph}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		markup string
		want   string
	}{
		{"intro line\n<section-header>Real <em>Title</em></section-header>", "Real Title"},
		{"<p>First &amp; only</p>\nrest", "First & only"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Title(tt.markup); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.markup, got, tt.want)
		}
	}
}
