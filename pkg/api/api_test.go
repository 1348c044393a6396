package api

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gompdf/stylepdf/internal/content"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My Report", "my_report.pdf"},
		{"Q3 2024: Results!", "q3_2024__results_.pdf"},
		{"", "document.pdf"},
		{"???", "document.pdf"},
		{"Café", "caf_.pdf"},
	}
	for _, tt := range tests {
		if got := FileName(tt.title); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestSplitTitle(t *testing.T) {
	title, body := SplitTitle("  Heading line \r\nfirst\n\nsecond")
	if title != "Heading line" || body != "first\n\nsecond" {
		t.Fatalf("SplitTitle = %q, %q", title, body)
	}
	if title, body := SplitTitle("only"); title != "only" || body != "" {
		t.Fatalf("single line = %q, %q", title, body)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"Title\n\nJust some words.", FormatText},
		{"# Title\n\nSome *words*.", FormatMarkdown},
		{"Title\n- one\n- two", FormatMarkdown},
		{"Title\n<section-header>Intro</section-header>", FormatMarkup},
		{"<p>hello</p>", FormatMarkup},
		{"a < b and c > d", FormatText},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.in); got != tt.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if ParseFormat("MD") != FormatMarkdown || ParseFormat("enhanced") != FormatMarkup || ParseFormat("?") != FormatAuto {
		t.Error("ParseFormat")
	}
}

func TestDocument(t *testing.T) {
	c := New()

	doc, err := c.Document(Input{Format: FormatText, Text: "Notes\nline one\nline two\n\n  \nnext"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Notes" || len(doc.Nodes) != 2 {
		t.Fatalf("text doc = %q with %d nodes", doc.Title, len(doc.Nodes))
	}
	if got := doc.Nodes[0].PlainText(); got != "line one line two" {
		t.Errorf("first paragraph = %q", got)
	}

	doc, err = c.Document(Input{Format: FormatMarkdown, Text: "Plain title\n\n## Part\n\nBody"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Plain title" || doc.Nodes[0].Kind != content.KindHeading {
		t.Fatalf("markdown doc = %q, first %v", doc.Title, doc.Nodes[0].Kind)
	}

	doc, err = c.Document(Input{Text: "Draft\n<section-header>Real Title</section-header><p>x</p>"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Real Title" {
		t.Fatalf("markup title = %q", doc.Title)
	}

	doc, err = c.Document(Input{Format: FormatText, Text: "\nbody only"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != DefaultTitle {
		t.Fatalf("empty title = %q", doc.Title)
	}

	doc, _ = c.SetTitle("Override").Document(Input{Format: FormatText, Text: "Mine\nbody"})
	if doc.Title != "Override" {
		t.Fatalf("override title = %q", doc.Title)
	}
}

func TestGeometryOrientation(t *testing.T) {
	c := New()
	geo, orient := c.geometry()
	if orient != "P" || geo.Width != PageSizeA4Width || geo.Height != PageSizeA4Height {
		t.Fatalf("portrait = %s %gx%g", orient, geo.Width, geo.Height)
	}
	if geo.ContentTop() != 35 || geo.ContentBottom() != 262 {
		t.Fatalf("content band %g..%g", geo.ContentTop(), geo.ContentBottom())
	}

	geo, orient = c.WithOption(WithPageOrientation(PageOrientationLandscape)).geometry()
	if orient != "L" || geo.Width != PageSizeA4Height || geo.Height != PageSizeA4Width {
		t.Fatalf("landscape = %s %gx%g", orient, geo.Width, geo.Height)
	}
}

func helvetica() *Converter {
	fixed := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	return NewWithOptions(DefaultOptions()).
		WithOption(WithFontFamily("Helvetica")).
		WithOption(WithClock(func() time.Time { return fixed }))
}

func TestConvertToFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "notes.pdf")
	var body strings.Builder
	body.WriteString("Field Notes\n")
	for i := 0; i < 60; i++ {
		body.WriteString("\nA paragraph of plain words that wraps across the width of the page more than once, repeated to fill pages.\n")
	}

	if err := helvetica().ConvertToFile(context.Background(), Input{Format: FormatText, Text: body.String()}, out); err != nil {
		t.Fatalf("ConvertToFile: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "notes.pdf" {
		t.Fatalf("directory holds %v, want only notes.pdf", entries)
	}

	f, r, err := pdflib.Open(out)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	defer f.Close()
	n := r.NumPage()
	if n < 2 {
		t.Fatalf("NumPage = %d, want several", n)
	}
	text, err := r.Page(1).GetPlainText(nil)
	if err != nil {
		t.Fatal(err)
	}
	flat := strings.Join(strings.Fields(text), "")
	for _, want := range []string{"FieldNotes", "Page1of", "03/09/2024", "DefaultStyle"} {
		if !strings.Contains(flat, want) {
			t.Errorf("first page lacks %q", want)
		}
	}
}

func TestConvertToFileFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "missing", "out.pdf")
	if err := helvetica().ConvertToFile(context.Background(), Input{Text: "T\nbody"}, out); err == nil {
		t.Fatal("expected an error for a missing directory")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out = filepath.Join(dir, "canceled.pdf")
	c := New().WithOption(WithFontDirectory(t.TempDir()))
	if err := c.ConvertToFile(ctx, Input{Text: "T\nbody"}, out); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled render: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("canceled render left %s behind", out)
	}
}

func TestConvertCustomFont(t *testing.T) {
	fontDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(fontDir, "Roboto"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fontDir, "Roboto", "Roboto-Regular.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewWithOptions(Options{}).WithOptions(DefaultOptions()).AddFontDirectory(fontDir)
	data, err := c.ConvertBytes(context.Background(), Input{Text: "# Grüße\n\nText with **bold** and *italic* runs."})
	if err != nil {
		t.Fatalf("ConvertBytes: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("not a PDF")
	}
	if !bytes.Contains(data, []byte("/FontFile2")) {
		t.Error("custom family was not embedded")
	}
}

func TestConvertMissingFontsFallsBack(t *testing.T) {
	c := New().WithOption(WithFontFamily("Georgia"))
	c.options.FontDirectories = []string{t.TempDir()}
	data, err := c.ConvertBytes(context.Background(), Input{Format: FormatMarkdown, Text: "# Title\n\nbody"})
	if err != nil {
		t.Fatalf("ConvertBytes: %v", err)
	}
	if !bytes.Contains(data, []byte("Times")) {
		t.Error("serif request without files should fall back to Times")
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "post.md")
	if err := os.WriteFile(in, []byte("# Post\n\n> quoted\n\n- a\n- b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "post.pdf")
	if err := helvetica().ConvertFile(context.Background(), in, out); err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Fatalf("output: %v", err)
	}
	if err := helvetica().ConvertFile(context.Background(), filepath.Join(dir, "font.ttf"), out); err == nil {
		t.Fatal("expected an error for a missing input")
	}
}
