package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gompdf/stylepdf/internal/pagination"
)

// Options represents configuration options for the converter. Lengths are
// in millimeters and font sizes in points.
type Options struct {
	// Page dimensions in portrait orientation
	PageWidth  float64
	PageHeight float64
	// Page orientation: portrait or landscape
	PageOrientation PageOrientation

	// Page margins
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	// Look of the document. Unknown names fall back to "default".
	Template   string
	ColorClass string
	// FontFamily is a custom family (Roboto, Georgia, Palatino, Palatino
	// Linotype) looked up in FontDirectories, or a core family (Helvetica,
	// Times, Courier).
	FontFamily  string
	ContentSize float64
	TitleSize   float64
	LineHeight  float64

	// Page chrome
	ShowDate     bool
	ShowTemplate bool
	DateLayout   string
	// Now stamps the footer date; nil means time.Now.
	Now func() time.Time

	Debug bool
	// Logger receives warnings about fallbacks. When nil, Debug selects a
	// stderr logger and otherwise nothing is logged.
	Logger *slog.Logger

	// Resource paths
	ResourcePaths   []string
	FontDirectories []string
	// HTTPClient fetches remote fonts and documents.
	HTTPClient *http.Client

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = "landscape"
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	m := pagination.DefaultMargins
	return Options{
		PageWidth:       PageSizeA4Width,
		PageHeight:      PageSizeA4Height,
		PageOrientation: PageOrientationPortrait,

		MarginTop:    m.Top,
		MarginRight:  m.Right,
		MarginBottom: m.Bottom,
		MarginLeft:   m.Left,

		Template:    "default",
		ColorClass:  "default",
		FontFamily:  "Roboto",
		ContentSize: 12,
		TitleSize:   24,
		LineHeight:  1.5,

		ShowDate:     true,
		ShowTemplate: true,
		DateLayout:   "01/02/2006",

		FontDirectories: []string{"fonts"},
	}
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithMargins sets the page margins
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithTemplate selects elegant, modern, minimal, academic or default.
func WithTemplate(name string) Option {
	return func(o *Options) {
		o.Template = name
	}
}

// WithColorClass selects blue, green, purple, dark or default.
func WithColorClass(name string) Option {
	return func(o *Options) {
		o.ColorClass = name
	}
}

// WithFontFamily sets the body font family
func WithFontFamily(family string) Option {
	return func(o *Options) {
		o.FontFamily = family
	}
}

// WithFontSizes sets the content and title sizes in points
func WithFontSizes(content, title float64) Option {
	return func(o *Options) {
		o.ContentSize = content
		o.TitleSize = title
	}
}

// WithLineHeight sets the line-height multiplier
func WithLineHeight(m float64) Option {
	return func(o *Options) {
		o.LineHeight = m
	}
}

// WithFooter controls the date and template stamps in the footer
func WithFooter(showDate, showTemplate bool) Option {
	return func(o *Options) {
		o.ShowDate = showDate
		o.ShowTemplate = showTemplate
	}
}

// WithDateLayout sets the time layout of the footer date
func WithDateLayout(layout string) Option {
	return func(o *Options) {
		o.DateLayout = layout
	}
}

// WithClock sets the clock used for the footer date
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Now = now
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithResourcePath adds a path to search for documents
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithFontDirectory adds a directory to search for fonts
func WithFontDirectory(dir string) Option {
	return func(o *Options) {
		o.FontDirectories = append(o.FontDirectories, dir)
	}
}

// WithHTTPClient sets the client used for remote resources
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = c
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// Standard page sizes in millimeters
const (
	PageSizeA3Width  = 297
	PageSizeA3Height = 420
	PageSizeA4Width  = 210
	PageSizeA4Height = 297
	PageSizeA5Width  = 148
	PageSizeA5Height = 210

	// US Letter and Legal
	PageSizeLetterWidth  = 215.9
	PageSizeLetterHeight = 279.4
	PageSizeLegalWidth   = 215.9
	PageSizeLegalHeight  = 355.6
)

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithPageSizeLegal sets the page size to US Legal
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegalWidth, PageSizeLegalHeight)
}

// WithPageSizeNamed sets a page size by name (A3, A4, A5, Letter, Legal).
// Unknown names leave the size unchanged.
func WithPageSizeNamed(name string) Option {
	return func(o *Options) {
		if ps, ok := pagination.LookupPageSize(name); ok {
			o.PageWidth, o.PageHeight = ps.Width, ps.Height
		}
	}
}
