package content

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   []Inline
		want []Run
	}{
		{
			name: "plain paragraph",
			in:   []Inline{Text("  hello world ")},
			want: []Run{{Text: "hello world"}},
		},
		{
			name: "bold and italic nest",
			in: []Inline{
				Text("a"),
				Elem("strong", Text("b"), Elem("em", Text("c"))),
				Text("d"),
			},
			want: []Run{
				{Text: "a"},
				{Text: "b", Emphasis: Emphasis{Bold: true}},
				{Text: "c", Emphasis: Emphasis{Bold: true, Italic: true}},
				{Text: "d"},
			},
		},
		{
			name: "double bold is still bold",
			in:   []Inline{Elem("b", Elem("strong", Text("x")))},
			want: []Run{{Text: "x", Emphasis: Emphasis{Bold: true}}},
		},
		{
			name: "whitespace leaves dropped",
			in:   []Inline{Text("   "), Elem("i", Text("\n")), Text("z")},
			want: []Run{{Text: "z"}},
		},
		{
			name: "adjacent runs not merged",
			in:   []Inline{Text("one"), Text("two")},
			want: []Run{{Text: "one"}, {Text: "two"}},
		},
		{
			name: "unknown tags are transparent",
			in:   []Inline{Elem("span", Elem("I", Text("q")))},
			want: []Run{{Text: "q", Emphasis: Emphasis{Italic: true}}},
		},
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.in, Emphasis{})
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Extract() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractInheritedFlagsNeverReset(t *testing.T) {
	in := []Inline{Text("a"), Elem("span", Text("b"))}
	for _, r := range Extract(in, Emphasis{Bold: true, Italic: true}) {
		if !r.Bold || !r.Italic {
			t.Errorf("run %q lost inherited flags: %+v", r.Text, r.Emphasis)
		}
	}
}

func TestPlainText(t *testing.T) {
	n := &Node{
		Kind:     KindParagraph,
		Inline:   []Inline{Text("see"), Elem("em", Text("this"))},
		Children: []*Node{Image("a chart")},
	}
	if got, want := n.PlainText(), "see this a chart"; got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
	doc := &Document{Nodes: []*Node{Heading(2, Text("Intro")), n}}
	if got, want := doc.PlainText(), "Intro\nsee this a chart"; got != want {
		t.Errorf("Document.PlainText() = %q, want %q", got, want)
	}
}

func TestKindString(t *testing.T) {
	for k := Kind(0); k < NumKinds; k++ {
		if k.String() == "" || k.String() == "unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
	if NumKinds.String() != "unknown" {
		t.Errorf("NumKinds.String() = %q", NumKinds.String())
	}
}
