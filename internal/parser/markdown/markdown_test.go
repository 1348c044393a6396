package markdown

import (
	"testing"

	"github.com/gompdf/stylepdf/internal/content"
)

const sample = `# Field Report

Intro with **bold** and *italic* text.

## Findings

- first point
- second point
  1. nested one
  2. nested two

> Quoted wisdom

[Project page](https://example.com/project)

![A diagram of the pipeline](pipeline.png)

Text beside ![inline chart](chart.png) an image.

` + "```" + `
go run .
` + "```" + `

---

<sidebar>
<h4>Aside</h4>
Extra notes.
</sidebar>
`

func TestParse(t *testing.T) {
	doc, err := NewParser().ParseString(sample)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if doc.Title != "Field Report" {
		t.Fatalf("Title = %q", doc.Title)
	}

	want := []content.Kind{
		content.KindParagraph,
		content.KindHeading,
		content.KindUnorderedList,
		content.KindBlockquote,
		content.KindLink,
		content.KindImage,
		content.KindParagraph,
		content.KindParagraph,
		content.KindSidebar,
	}
	if len(doc.Nodes) != len(want) {
		for _, n := range doc.Nodes {
			t.Logf("%v %q", n.Kind, n.PlainText())
		}
		t.Fatalf("got %d nodes, want %d", len(doc.Nodes), len(want))
	}
	for i, k := range want {
		if doc.Nodes[i].Kind != k {
			t.Errorf("node %d = %v, want %v", i, doc.Nodes[i].Kind, k)
		}
	}

	runs := content.Extract(doc.Nodes[0].Inline, content.Emphasis{})
	var bold, italic bool
	for _, r := range runs {
		bold = bold || r.Text == "bold" && r.Bold && !r.Italic
		italic = italic || r.Text == "italic" && r.Italic && !r.Bold
	}
	if !bold || !italic {
		t.Errorf("emphasis lost: %+v", runs)
	}

	if h := doc.Nodes[1]; h.Level != 2 || h.PlainText() != "Findings" {
		t.Errorf("heading = %d %q", h.Level, h.PlainText())
	}

	list := doc.Nodes[2]
	if len(list.Children) != 2 {
		t.Fatalf("list items = %d", len(list.Children))
	}
	second := list.Children[1]
	if content.InlineText(second.Inline) != "second point" {
		t.Errorf("second item = %q", content.InlineText(second.Inline))
	}
	if len(second.Children) != 1 || second.Children[0].Kind != content.KindOrderedList {
		t.Fatalf("nested list missing: %+v", second.Children)
	}

	if q := doc.Nodes[3]; q.PlainText() != "Quoted wisdom" {
		t.Errorf("quote = %q", q.PlainText())
	}
	if l := doc.Nodes[4]; l.Href != "https://example.com/project" || l.PlainText() != "Project page" {
		t.Errorf("link = %q -> %q", l.PlainText(), l.Href)
	}
	if img := doc.Nodes[5]; img.Alt != "A diagram of the pipeline" {
		t.Errorf("image alt = %q", img.Alt)
	}
	mixed := doc.Nodes[6]
	if len(mixed.Children) != 1 || mixed.Children[0].Alt != "inline chart" {
		t.Errorf("inline image not kept as a child: %+v", mixed.Children)
	}
	if code := doc.Nodes[7]; code.PlainText() != "go run ." {
		t.Errorf("code block = %q", code.PlainText())
	}
	if s := doc.Nodes[8]; s.Title != "Aside" {
		t.Errorf("sidebar title = %q", s.Title)
	}
}

func TestParseWithoutLeadingTitle(t *testing.T) {
	doc, err := NewParser().ParseString("Just a paragraph.\n\n# Late heading\n")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "" {
		t.Errorf("Title = %q, want empty", doc.Title)
	}
	if len(doc.Nodes) != 2 || doc.Nodes[1].Kind != content.KindHeading {
		t.Fatalf("nodes = %+v", doc.Nodes)
	}
}
