package style

import (
	"strings"

	"github.com/gompdf/stylepdf/internal/render"
)

// Template selects the document's typographic policy.
type Template string

const (
	TemplateDefault  Template = "default"
	TemplateElegant  Template = "elegant"
	TemplateModern   Template = "modern"
	TemplateMinimal  Template = "minimal"
	TemplateAcademic Template = "academic"
)

// ParseTemplate returns the template named s, ignoring case. Unknown names
// yield TemplateDefault.
func ParseTemplate(s string) Template {
	t := Template(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := policies[t]; ok {
		return t
	}
	return TemplateDefault
}

// Label is the template's name as shown in the page footer.
func (t Template) Label() string {
	name := string(ParseTemplate(string(t)))
	return strings.ToUpper(name[:1]) + name[1:] + " Style"
}

// Policy returns the template's policy table entry.
func (t Template) Policy() TemplatePolicy {
	return policies[ParseTemplate(string(t))]
}

// TemplatePolicy is the fixed table of layout effects a template has.
type TemplatePolicy struct {
	// MinLineHeight and MaxLineHeight bound the line-height multiplier.
	// Zero means unbounded.
	MinLineHeight float64
	MaxLineHeight float64

	TitleBold    bool
	TitleItalic  bool
	TitleMinSize float64
	TitleUpper   bool

	// TitleRule draws a separator RuleOffset below the title; content then
	// starts TitleGap below the rule.
	TitleRule  bool
	RuleOffset float64
	// TitleGap is the distance from the title (or its rule) to the first
	// block. Zero means the title's own bottom margin, or 15 if unset.
	TitleGap float64

	// ForceSerif switches to a serif family unless the font is one already.
	ForceSerif bool
}

// LineHeight applies the template's bounds to a line-height multiplier.
func (p TemplatePolicy) LineHeight(m float64) float64 {
	if p.MinLineHeight > 0 {
		m = max(m, p.MinLineHeight)
	}
	if p.MaxLineHeight > 0 {
		m = min(m, p.MaxLineHeight)
	}
	return m
}

var policies = map[Template]TemplatePolicy{
	TemplateDefault: {},
	TemplateElegant: {
		MinLineHeight: 1.6,
		TitleItalic:   true,
		TitleRule:     true,
		RuleOffset:    8,
		TitleGap:      15,
	},
	TemplateModern: {
		MinLineHeight: 1.2,
		MaxLineHeight: 1.4,
		TitleBold:     true,
		TitleMinSize:  18,
	},
	TemplateMinimal: {
		MinLineHeight: 1.8,
		TitleUpper:    true,
		TitleGap:      18,
	},
	TemplateAcademic: {
		MinLineHeight: 2.0,
		TitleGap:      20,
		ForceSerif:    true,
	},
}

// ColorClass selects the document's color theme.
type ColorClass string

const (
	ColorDefault ColorClass = "default"
	ColorBlue    ColorClass = "blue"
	ColorGreen   ColorClass = "green"
	ColorPurple  ColorClass = "purple"
	ColorDark    ColorClass = "dark"
)

// ParseColorClass returns the color class named s, ignoring case. Unknown
// names yield ColorDefault.
func ParseColorClass(s string) ColorClass {
	c := ColorClass(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := palettes[c]; ok {
		return c
	}
	return ColorDefault
}

// Palette returns the theme colors for c.
func (c ColorClass) Palette() Palette {
	return palettes[ParseColorClass(string(c))]
}

// Palette holds the colors of one theme.
type Palette struct {
	Background  render.RGB
	Title       render.RGB
	Text        render.RGB
	Accent      render.RGB // h2 underline, quote rules
	Bullet      render.RGB
	Link        render.RGB
	ImageBorder render.RGB
	ImageFill   render.RGB
	ImageLabel  render.RGB
	Panel       render.RGB // sidebar background
}

var palettes = map[ColorClass]Palette{
	ColorDefault: {
		Background:  render.Gray(255),
		Title:       render.Gray(51),
		Text:        render.Gray(51),
		Accent:      render.Gray(180),
		Bullet:      render.Gray(100),
		Link:        render.RGB{R: 0, G: 0, B: 238},
		ImageBorder: render.Gray(100),
		ImageFill:   render.Gray(240),
		ImageLabel:  render.Gray(80),
		Panel:       render.Gray(245),
	},
	ColorBlue: {
		Background:  render.RGB{R: 247, G: 249, B: 252},
		Title:       render.RGB{R: 44, G: 62, B: 80},
		Text:        render.Gray(51),
		Accent:      render.RGB{R: 100, G: 149, B: 237},
		Bullet:      render.RGB{R: 100, G: 149, B: 237},
		Link:        render.RGB{R: 25, G: 25, B: 255},
		ImageBorder: render.RGB{R: 70, G: 130, B: 180},
		ImageFill:   render.RGB{R: 230, G: 240, B: 250},
		ImageLabel:  render.Gray(80),
		Panel:       render.RGB{R: 235, G: 242, B: 250},
	},
	ColorGreen: {
		Background:  render.RGB{R: 245, G: 251, B: 246},
		Title:       render.RGB{R: 39, G: 174, B: 96},
		Text:        render.Gray(51),
		Accent:      render.RGB{R: 46, G: 139, B: 87},
		Bullet:      render.RGB{R: 46, G: 139, B: 87},
		Link:        render.RGB{R: 0, G: 100, B: 0},
		ImageBorder: render.RGB{R: 46, G: 139, B: 87},
		ImageFill:   render.RGB{R: 240, G: 255, B: 240},
		ImageLabel:  render.Gray(80),
		Panel:       render.RGB{R: 232, G: 245, B: 235},
	},
	ColorPurple: {
		Background:  render.RGB{R: 249, G: 245, B: 252},
		Title:       render.RGB{R: 142, G: 68, B: 173},
		Text:        render.Gray(51),
		Accent:      render.RGB{R: 147, G: 112, B: 219},
		Bullet:      render.RGB{R: 147, G: 112, B: 219},
		Link:        render.RGB{R: 75, G: 0, B: 130},
		ImageBorder: render.RGB{R: 138, G: 43, B: 226},
		ImageFill:   render.RGB{R: 248, G: 240, B: 255},
		ImageLabel:  render.Gray(80),
		Panel:       render.RGB{R: 240, G: 232, B: 248},
	},
	ColorDark: {
		Background:  render.RGB{R: 44, G: 62, B: 80},
		Title:       render.RGB{R: 236, G: 240, B: 241},
		Text:        render.RGB{R: 236, G: 240, B: 241},
		Accent:      render.RGB{R: 240, G: 248, B: 255},
		Bullet:      render.RGB{R: 240, G: 248, B: 255},
		Link:        render.RGB{R: 173, G: 216, B: 230},
		ImageBorder: render.Gray(169),
		ImageFill:   render.Gray(75),
		ImageLabel:  render.Gray(200),
		Panel:       render.RGB{R: 56, G: 78, B: 100},
	},
}
