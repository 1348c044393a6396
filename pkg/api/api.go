package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gompdf/stylepdf/internal/content"
	"github.com/gompdf/stylepdf/internal/fonts"
	"github.com/gompdf/stylepdf/internal/layout"
	"github.com/gompdf/stylepdf/internal/pagination"
	"github.com/gompdf/stylepdf/internal/parser/html"
	"github.com/gompdf/stylepdf/internal/parser/markdown"
	"github.com/gompdf/stylepdf/internal/render/pdf"
	"github.com/gompdf/stylepdf/internal/res"
	"github.com/gompdf/stylepdf/internal/style"
)

// DefaultTitle is drawn when a document has no title.
const DefaultTitle = "Your Title"

// ErrEmptyInput is returned by CheckInput for blank documents.
var ErrEmptyInput = errors.New("empty input")

// Format identifies the markup of an input document.
type Format int

const (
	// FormatAuto guesses the format from the text.
	FormatAuto Format = iota
	// FormatText is plain text: the first line is the title and blank
	// lines separate paragraphs.
	FormatText
	// FormatMarkdown is CommonMark with strikethrough.
	FormatMarkdown
	// FormatMarkup is preview HTML or enhanced markup.
	FormatMarkup
)

// ParseFormat maps "text", "markdown"/"md" and "html"/"markup" to a Format.
// Anything else is FormatAuto.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "plain":
		return FormatText
	case "markdown", "md":
		return FormatMarkdown
	case "html", "markup", "enhanced":
		return FormatMarkup
	default:
		return FormatAuto
	}
}

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	case FormatMarkup:
		return "markup"
	default:
		return "auto"
	}
}

// Input is a source document.
type Input struct {
	Format Format
	Text   string
}

// Converter turns text, Markdown or enhanced markup into a styled PDF. A
// Converter is immutable; the builder methods return a modified copy.
type Converter struct {
	options Options
}

// New creates a new converter with default options
func New() *Converter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new converter with the specified options
func NewWithOptions(options Options) *Converter {
	return &Converter{options: options}
}

// Options returns a copy of the converter's options.
func (c *Converter) Options() Options {
	return c.options
}

// Convert renders in as a PDF and writes it to w. Nothing is written when
// rendering fails.
func (c *Converter) Convert(ctx context.Context, in Input, w io.Writer) error {
	doc, err := c.Document(in)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := c.render(ctx, doc, &buf); err != nil {
		return err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// ConvertBytes renders in and returns the PDF bytes.
func (c *Converter) ConvertBytes(ctx context.Context, in Input) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Convert(ctx, in, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertToFile renders in and writes the PDF to outputPath. The file is
// replaced atomically, so a failed render leaves no partial output.
func (c *Converter) ConvertToFile(ctx context.Context, in Input, outputPath string) error {
	data, err := c.ConvertBytes(ctx, in)
	if err != nil {
		return err
	}
	return writeFileAtomic(outputPath, data)
}

// ConvertFile converts a .txt, .md or .html file, local or remote. The
// format follows the file type; unknown types are detected from the text.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) error {
	loader := res.NewLoader("", c.options.HTTPClient)
	for _, p := range c.options.ResourcePaths {
		loader.AddSearchPath(p)
	}
	rsc, err := loader.LoadDocument(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", inputPath, err)
	}
	return c.ConvertToFile(ctx, Input{Format: FormatForMime(rsc.MimeType), Text: rsc.GetString()}, outputPath)
}

// FormatForMime maps a document MIME type to a Format.
func FormatForMime(mime string) Format {
	switch mime {
	case "text/markdown":
		return FormatMarkdown
	case "text/html":
		return FormatMarkup
	case "text/plain":
		return FormatText
	default:
		return FormatAuto
	}
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".stylepdf-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move PDF into place: %w", err)
	}
	return nil
}

var (
	markupTag     = regexp.MustCompile(`(?i)<(section-header|pull-quote|sidebar|toc|caption|illustration-suggestion|p|h[1-6]|ul|ol|blockquote|div|img)[\s>/]`)
	markdownBlock = regexp.MustCompile(`(?m)^(#{1,6}\s|[-*+]\s|\d+\.\s|>\s?|` + "```" + `)|\*\*[^*]+\*\*|\[[^\]]+\]\([^)]+\)`)
)

// DetectFormat guesses the format of text. Markup wins over Markdown, and
// text with neither is plain text.
func DetectFormat(text string) Format {
	switch {
	case markupTag.MatchString(text):
		return FormatMarkup
	case markdownBlock.MatchString(text):
		return FormatMarkdown
	default:
		return FormatText
	}
}

// SplitTitle splits raw text into its first line, trimmed, and the rest.
func SplitTitle(raw string) (title, body string) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	title, body, _ = strings.Cut(raw, "\n")
	return strings.TrimSpace(title), body
}

var nonFileChar = regexp.MustCompile(`[^a-z0-9]`)

// FileName returns the output file name for a document title: every
// character other than a-z and 0-9 becomes an underscore.
func FileName(title string) string {
	name := nonFileChar.ReplaceAllString(strings.ToLower(title), "_")
	if strings.Trim(name, "_") == "" {
		name = "document"
	}
	return name + ".pdf"
}

// Document parses in into a content tree without rendering it.
func (c *Converter) Document(in Input) (*content.Document, error) {
	format := in.Format
	if format == FormatAuto {
		format = DetectFormat(in.Text)
	}

	var doc *content.Document
	switch format {
	case FormatMarkdown:
		d, err := markdown.NewParser().ParseString(in.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Markdown: %w", err)
		}
		if d.Title == "" {
			// Without a leading heading the first line is the title.
			title, body := SplitTitle(in.Text)
			if d, err = markdown.NewParser().ParseString(body); err != nil {
				return nil, fmt.Errorf("failed to parse Markdown: %w", err)
			}
			d.Title = strings.TrimSpace(strings.TrimLeft(title, "#>-*+ "))
		}
		doc = d
	case FormatMarkup:
		d, err := html.NewParser().ParseString(in.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse markup: %w", err)
		}
		d.Title = html.Title(in.Text)
		doc = d
	default:
		title, body := SplitTitle(in.Text)
		doc = &content.Document{Title: title, Nodes: plainParagraphs(body)}
	}

	if c.options.Title != "" {
		doc.Title = c.options.Title
	}
	if strings.TrimSpace(doc.Title) == "" {
		doc.Title = DefaultTitle
	}
	return doc, nil
}

var blankLines = regexp.MustCompile(`\n\s*\n`)

// plainParagraphs splits text on blank lines. Lines inside a paragraph are
// joined with spaces.
func plainParagraphs(body string) []*content.Node {
	var nodes []*content.Node
	for _, block := range blankLines.Split(body, -1) {
		lines := strings.Fields(strings.ReplaceAll(block, "\n", " "))
		if len(lines) == 0 {
			continue
		}
		nodes = append(nodes, content.Paragraph(content.Text(strings.Join(lines, " "))))
	}
	return nodes
}

// Render lays out a parsed document and writes the PDF to w.
func (c *Converter) Render(ctx context.Context, doc *content.Document, w io.Writer) error {
	var buf bytes.Buffer
	if err := c.render(ctx, doc, &buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// render runs the asset phase to completion, then layout, then output.
func (c *Converter) render(ctx context.Context, doc *content.Document, w io.Writer) error {
	o := c.options
	logger := c.logger()
	if doc == nil {
		doc = &content.Document{}
	}
	if strings.TrimSpace(doc.Title) == "" {
		titled := *doc
		titled.Title = DefaultTitle
		doc = &titled
	}

	var assets *fonts.Assets
	face, core := fonts.Core(o.FontFamily)
	if !core {
		loader := res.NewLoader("", o.HTTPClient)
		for _, dir := range o.FontDirectories {
			loader.AddSearchPath(dir)
		}
		var err error
		assets, err = fonts.NewResolver(loader, logger).Resolve(ctx, o.FontFamily)
		if err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	geo, orient := c.geometry()
	now := o.Now
	if now == nil {
		now = time.Now
	}
	canvas := pdf.NewCanvas(pdf.Options{
		Width:        min(o.PageWidth, o.PageHeight),
		Height:       max(o.PageWidth, o.PageHeight),
		Orientation:  orient,
		Title:        doc.Title,
		Author:       o.Author,
		Subject:      o.Subject,
		Keywords:     o.Keywords,
		Creator:      "stylepdf",
		Producer:     "stylepdf",
		CreationDate: now(),
	})
	if assets != nil {
		face = assets.Register(canvas, logger)
	}

	cfg := layout.Config{
		Geometry:     geo,
		Template:     style.ParseTemplate(o.Template),
		Palette:      style.ParseColorClass(o.ColorClass).Palette(),
		Font:         face,
		ContentSize:  o.ContentSize,
		TitleSize:    o.TitleSize,
		TitleBold:    true,
		LineHeight:   o.LineHeight,
		ShowDate:     o.ShowDate,
		ShowTemplate: o.ShowTemplate,
		DateLayout:   o.DateLayout,
		Now:          now,
		Logger:       logger,
	}
	logger.Debug("rendering document",
		"title", doc.Title, "nodes", len(doc.Nodes), "template", cfg.Template,
		"font", face.Family, "width", geo.Width, "height", geo.Height)

	if err := layout.Render(canvas, doc, cfg); err != nil {
		return fmt.Errorf("failed to lay out document: %w", err)
	}
	if err := canvas.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// geometry returns the layout geometry and the fpdf orientation code. fpdf
// takes portrait dimensions and swaps them itself for "L".
func (c *Converter) geometry() (pagination.Geometry, string) {
	o := c.options
	w, h := o.PageWidth, o.PageHeight
	if w > h {
		w, h = h, w
	}
	orient := "P"
	if o.PageOrientation == PageOrientationLandscape {
		orient = "L"
		w, h = h, w
	}
	m := pagination.Margins{Top: o.MarginTop, Right: o.MarginRight, Bottom: o.MarginBottom, Left: o.MarginLeft}
	return pagination.NewGeometry(pagination.PageSize{Width: w, Height: h}, m), orient
}

func (c *Converter) logger() *slog.Logger {
	switch {
	case c.options.Logger != nil:
		return c.options.Logger
	case c.options.Debug:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.DiscardHandler)
	}
}

// CheckInput reports an error when in has no text at all.
func CheckInput(in Input) error {
	if strings.TrimSpace(in.Text) == "" {
		return ErrEmptyInput
	}
	return nil
}

// WithOptions returns a new converter with the specified options
func (c *Converter) WithOptions(options Options) *Converter {
	return NewWithOptions(options)
}

// WithOption returns a new converter with the specified option set
func (c *Converter) WithOption(option Option) *Converter {
	newOptions := c.options
	option(&newOptions)
	return NewWithOptions(newOptions)
}

// AddResourcePath adds a path to search for input documents
func (c *Converter) AddResourcePath(path string) *Converter {
	return c.WithOption(WithResourcePath(path))
}

// AddFontDirectory adds a directory to search for fonts
func (c *Converter) AddFontDirectory(dir string) *Converter {
	return c.WithOption(WithFontDirectory(dir))
}

// SetPageSize sets the page size
func (c *Converter) SetPageSize(width, height float64) *Converter {
	return c.WithOption(WithPageSize(width, height))
}

// SetMargins sets the page margins
func (c *Converter) SetMargins(top, right, bottom, left float64) *Converter {
	return c.WithOption(WithMargins(top, right, bottom, left))
}

// SetTemplate sets the template
func (c *Converter) SetTemplate(name string) *Converter {
	return c.WithOption(WithTemplate(name))
}

// SetColorClass sets the color theme
func (c *Converter) SetColorClass(name string) *Converter {
	return c.WithOption(WithColorClass(name))
}

// SetFontFamily sets the body font family
func (c *Converter) SetFontFamily(family string) *Converter {
	return c.WithOption(WithFontFamily(family))
}

// SetDebug sets the debug mode
func (c *Converter) SetDebug(debug bool) *Converter {
	return c.WithOption(WithDebug(debug))
}

// SetTitle overrides the document title
func (c *Converter) SetTitle(title string) *Converter {
	return c.WithOption(WithTitle(title))
}

// SetAuthor sets the document author
func (c *Converter) SetAuthor(author string) *Converter {
	return c.WithOption(WithAuthor(author))
}

// SetSubject sets the document subject
func (c *Converter) SetSubject(subject string) *Converter {
	return c.WithOption(WithSubject(subject))
}

// SetKeywords sets the document keywords
func (c *Converter) SetKeywords(keywords string) *Converter {
	return c.WithOption(WithKeywords(keywords))
}
