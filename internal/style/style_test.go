package style

import (
	"errors"
	"testing"

	"github.com/gompdf/stylepdf/internal/render"
	"github.com/gompdf/stylepdf/internal/render/rendertest"
)

func TestParseFallbacks(t *testing.T) {
	if got := ParseTemplate(" Elegant "); got != TemplateElegant {
		t.Errorf("ParseTemplate(Elegant) = %q", got)
	}
	if got := ParseTemplate("baroque"); got != TemplateDefault {
		t.Errorf("ParseTemplate(baroque) = %q, want default", got)
	}
	if got := ParseColorClass("DARK"); got != ColorDark {
		t.Errorf("ParseColorClass(DARK) = %q", got)
	}
	if got := ParseColorClass("orange"); got != ColorDefault {
		t.Errorf("ParseColorClass(orange) = %q, want default", got)
	}
	if got := ColorClass("orange").Palette(); got != ColorDefault.Palette() {
		t.Errorf("unknown color class palette = %+v", got)
	}
}

func TestTemplateLabel(t *testing.T) {
	tests := map[Template]string{
		TemplateDefault:  "Default Style",
		TemplateAcademic: "Academic Style",
		"unknown":        "Default Style",
	}
	for tpl, want := range tests {
		if got := tpl.Label(); got != want {
			t.Errorf("%q.Label() = %q, want %q", tpl, got, want)
		}
	}
}

func TestLineHeightPolicy(t *testing.T) {
	tests := []struct {
		tpl  Template
		in   float64
		want float64
	}{
		{TemplateDefault, 1.5, 1.5},
		{TemplateElegant, 1.5, 1.6},
		{TemplateModern, 1.5, 1.4},
		{TemplateModern, 1.0, 1.2},
		{TemplateMinimal, 1.5, 1.8},
		{TemplateAcademic, 1.5, 2.0},
		{TemplateAcademic, 2.5, 2.5},
	}
	for _, tt := range tests {
		if got := tt.tpl.Policy().LineHeight(tt.in); got != tt.want {
			t.Errorf("%s LineHeight(%v) = %v, want %v", tt.tpl, tt.in, got, tt.want)
		}
	}
}

func TestPalettesComplete(t *testing.T) {
	for class, p := range palettes {
		if p.Link == (render.RGB{}) || p.Background == (render.RGB{}) {
			t.Errorf("palette %q is missing colors", class)
		}
	}
	if got := ColorBlue.Palette().Background; got != (render.RGB{R: 247, G: 249, B: 252}) {
		t.Errorf("blue background = %v", got)
	}
}

func TestContextWithRestores(t *testing.T) {
	c := rendertest.New()
	base := State{Family: "Helvetica", Size: 12, TextColor: render.Gray(51), LineWidth: 0.1}
	ctx := NewContext(c, base)
	ctx.Reset()

	override := base.WithStyle(render.BoldItalic).WithSize(20).WithTextColor(render.RGB{R: 255})
	boom := errors.New("boom")
	err := ctx.With(override, func() error {
		if ctx.Current() != override {
			t.Errorf("override not applied")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("With() error = %v", err)
	}
	if ctx.Current() != base {
		t.Fatalf("state leaked: %+v", ctx.Current())
	}

	func() {
		defer func() { _ = recover() }()
		_ = ctx.With(override, func() error { panic("draw") })
	}()
	if ctx.Current() != base {
		t.Fatalf("state leaked after panic: %+v", ctx.Current())
	}

	c.Text(0, 0, "probe")
	op, _ := c.FindText("probe")
	if op.Font.Style != render.Regular || op.Font.Size != 12 || op.TextColor != render.Gray(51) {
		t.Errorf("canvas not restored: %+v", op)
	}
}
