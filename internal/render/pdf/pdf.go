// Package pdf implements render.Canvas on top of go-pdf/fpdf.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gompdf/stylepdf/internal/render"
)

// ErrFontRegistration is returned when a font file cannot be embedded.
var ErrFontRegistration = errors.New("font registration failed")

// coreFamilies are the standard PDF families that need no embedding.
var coreFamilies = map[string]bool{
	"helvetica": true,
	"arial":     true,
	"times":     true,
	"courier":   true,
}

// Options contains options for the PDF document
type Options struct {
	Width       float64 // page width in millimeters
	Height      float64 // page height in millimeters
	Orientation string  // "P" for portrait, "L" for landscape
	Title       string
	Author      string
	Subject     string
	Keywords    string
	Creator     string
	Producer    string
	// CreationDate fixes the document dates; zero means the current time.
	CreationDate time.Time
}

// Canvas draws on an fpdf document in millimeters.
type Canvas struct {
	pdf *fpdf.Fpdf
	// utf8 holds the lower-cased families registered from TrueType files.
	utf8 map[string]bool
	// tr converts text for the core fonts, which use cp1252.
	tr      func(string) string
	current string
	fontErr error
}

var _ render.Canvas = (*Canvas)(nil)

// NewCanvas creates a document without pages.
func NewCanvas(opts Options) *Canvas {
	orient := opts.Orientation
	if orient == "" {
		orient = "P" // Default to portrait if not specified
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 210, 297
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: opts.Width, Ht: opts.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(opts.Title, true)
	pdf.SetAuthor(opts.Author, true)
	pdf.SetSubject(opts.Subject, true)
	pdf.SetKeywords(opts.Keywords, true)
	pdf.SetCreator(opts.Creator, true)
	pdf.SetProducer(opts.Producer, true)
	if !opts.CreationDate.IsZero() {
		pdf.SetCreationDate(opts.CreationDate)
		pdf.SetModificationDate(opts.CreationDate)
	}
	pdf.SetFont("Helvetica", "", 12)

	return &Canvas{
		pdf:     pdf,
		utf8:    make(map[string]bool),
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		current: "helvetica",
	}
}

// RegisterFont embeds a TrueType family. variants must hold the regular
// face; missing bold and italic faces reuse it.
func (c *Canvas) RegisterFont(family string, variants map[render.FontStyle][]byte) (err error) {
	regular, ok := variants[render.Regular]
	if !ok || len(regular) == 0 {
		return fmt.Errorf("%w: %s has no regular face", ErrFontRegistration, family)
	}
	if c.pdf.Err() {
		return c.pdf.Error()
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s: %v", ErrFontRegistration, family, p)
		}
		if err != nil {
			c.pdf.ClearError()
		}
	}()

	for _, fs := range []render.FontStyle{render.Regular, render.Bold, render.Italic, render.BoldItalic} {
		data := variants[fs]
		if len(data) == 0 {
			data = regular
		}
		c.pdf.AddUTF8FontFromBytes(family, fs.Code(), data)
		if c.pdf.Err() {
			return fmt.Errorf("%w: %s %s: %v", ErrFontRegistration, family, fs, c.pdf.Error())
		}
		if err := c.probeFace(family, fs); err != nil {
			return err
		}
	}
	c.utf8[strings.ToLower(family)] = true
	return nil
}

// probeFace selects and measures a face just added. fpdf drops faces it
// cannot parse without setting an error, so selecting one is the only way to
// find out. The previous font is restored.
func (c *Canvas) probeFace(family string, fs render.FontStyle) error {
	prevFamily, prevStyle := c.pdf.GetFontFamily(), c.pdf.GetFontStyle()
	prevSize, _ := c.pdf.GetFontSize()
	if prevSize <= 0 {
		prevSize = 12
	}

	c.pdf.SetFont(family, fs.Code(), prevSize)
	if !c.pdf.Err() {
		c.pdf.GetStringWidth("Ag")
	}
	err := c.pdf.Error()
	c.pdf.ClearError()
	if prevFamily != "" {
		c.pdf.SetFont(prevFamily, prevStyle, prevSize)
	}
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrFontRegistration, family, fs, err)
	}
	return nil
}

func (c *Canvas) AddPage()       { c.pdf.AddPage() }
func (c *Canvas) SetPage(n int)  { c.pdf.SetPage(n) }
func (c *Canvas) PageCount() int { return c.pdf.PageCount() }

// SetFont selects a font. Selecting a family that is neither a core font
// nor registered keeps the previous font and makes MeasureText fail until
// a valid font is selected.
func (c *Canvas) SetFont(family string, style render.FontStyle, size float64) {
	key := strings.ToLower(family)
	if !coreFamilies[key] && !c.utf8[key] {
		c.fontErr = fmt.Errorf("undefined font: %s %s", family, style)
		return
	}
	c.pdf.SetFont(family, style.Code(), size)
	c.current = key
	c.fontErr = nil
}

func (c *Canvas) SetTextColor(rgb render.RGB) { c.pdf.SetTextColor(rgb.R, rgb.G, rgb.B) }
func (c *Canvas) SetDrawColor(rgb render.RGB) { c.pdf.SetDrawColor(rgb.R, rgb.G, rgb.B) }
func (c *Canvas) SetFillColor(rgb render.RGB) { c.pdf.SetFillColor(rgb.R, rgb.G, rgb.B) }
func (c *Canvas) SetLineWidth(w float64)      { c.pdf.SetLineWidth(w) }

func (c *Canvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.encode(s))
}

func (c *Canvas) Line(x1, y1, x2, y2 float64) { c.pdf.Line(x1, y1, x2, y2) }

func (c *Canvas) Rect(x, y, w, h float64, mode render.DrawMode) {
	c.pdf.Rect(x, y, w, h, string(mode))
}

func (c *Canvas) RoundedRect(x, y, w, h, r float64, mode render.DrawMode) {
	c.pdf.RoundedRect(x, y, w, h, r, "1234", string(mode))
}

func (c *Canvas) Circle(x, y, r float64, mode render.DrawMode) {
	c.pdf.Circle(x, y, r, string(mode))
}

// MeasureText returns the width of s in the current font.
func (c *Canvas) MeasureText(s string) (float64, error) {
	if c.fontErr != nil {
		return 0, c.fontErr
	}
	if c.pdf.Err() {
		return 0, c.pdf.Error()
	}
	return c.pdf.GetStringWidth(c.encode(s)), nil
}

func (c *Canvas) Err() error { return c.pdf.Error() }

// Output writes the finished document to w. The canvas cannot be drawn on
// afterwards.
func (c *Canvas) Output(w io.Writer) error {
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// encode converts s for the current font. Core fonts only cover cp1252.
func (c *Canvas) encode(s string) string {
	if c.utf8[c.current] {
		return s
	}
	return c.tr(s)
}
