package layout

import (
	"log/slog"
	"time"

	"github.com/gompdf/stylepdf/internal/pagination"
	"github.com/gompdf/stylepdf/internal/style"
)

// ptToMM converts a font size in points to millimeters.
const ptToMM = 0.352778

// SerifFallback is the family used when a template requires a serif face and
// the configured one is not.
const SerifFallback = "Times"

// FontFace is a font family already registered on the canvas.
type FontFace struct {
	Family string
	Serif  bool
}

// Config holds everything one render needs. It is read once at the start of
// Render and never modified.
type Config struct {
	Geometry pagination.Geometry
	Template style.Template
	Palette  style.Palette
	Font     FontFace

	// ContentSize and TitleSize are in points.
	ContentSize float64
	TitleSize   float64
	TitleBold   bool
	TitleItalic bool
	// TitleMarginBottom is the gap below the title in millimeters for
	// templates without their own gap. Zero means 15.
	TitleMarginBottom float64
	// LineHeight is the line-height multiplier before template bounds.
	LineHeight float64

	ShowDate     bool
	ShowTemplate bool
	DateLayout   string
	Now          func() time.Time

	Logger *slog.Logger
}

// DefaultConfig returns an A4 configuration with the default template and
// color theme in Helvetica.
func DefaultConfig() Config {
	return Config{
		Geometry:     pagination.DefaultGeometry(),
		Template:     style.TemplateDefault,
		Palette:      style.ColorDefault.Palette(),
		Font:         FontFace{Family: "Helvetica"},
		ContentSize:  12,
		TitleSize:    24,
		TitleBold:    true,
		LineHeight:   1.5,
		ShowDate:     true,
		ShowTemplate: true,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Geometry == (pagination.Geometry{}) {
		c.Geometry = d.Geometry
	}
	if c.Template == "" {
		c.Template = d.Template
	}
	if c.Palette == (style.Palette{}) {
		c.Palette = d.Palette
	}
	if c.Font.Family == "" {
		c.Font = d.Font
	}
	if c.ContentSize <= 0 {
		c.ContentSize = d.ContentSize
	}
	if c.TitleSize <= 0 {
		c.TitleSize = d.TitleSize
	}
	if c.LineHeight <= 0 {
		c.LineHeight = d.LineHeight
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}
