// Package stylepdf renders plain text, Markdown and enhanced markup as
// styled, paginated PDF documents.
package stylepdf

import (
	"github.com/gompdf/stylepdf/pkg/api"
)

type Converter = api.Converter
type Options = api.Options
type Option = api.Option
type PageOrientation = api.PageOrientation
type Input = api.Input
type Format = api.Format

func New() *Converter                           { return api.New() }
func NewWithOptions(options Options) *Converter { return api.NewWithOptions(options) }
func DefaultOptions() Options                   { return api.DefaultOptions() }

var (
	WithPageSize        = api.WithPageSize
	WithPageSizeNamed   = api.WithPageSizeNamed
	WithMargins         = api.WithMargins
	WithTemplate        = api.WithTemplate
	WithColorClass      = api.WithColorClass
	WithFontFamily      = api.WithFontFamily
	WithFontSizes       = api.WithFontSizes
	WithLineHeight      = api.WithLineHeight
	WithFooter          = api.WithFooter
	WithDateLayout      = api.WithDateLayout
	WithClock           = api.WithClock
	WithDebug           = api.WithDebug
	WithLogger          = api.WithLogger
	WithResourcePath    = api.WithResourcePath
	WithFontDirectory   = api.WithFontDirectory
	WithHTTPClient      = api.WithHTTPClient
	WithTitle           = api.WithTitle
	WithAuthor          = api.WithAuthor
	WithSubject         = api.WithSubject
	WithKeywords        = api.WithKeywords
	WithPageSizeA4      = api.WithPageSizeA4
	WithPageSizeLetter  = api.WithPageSizeLetter
	WithPageSizeLegal   = api.WithPageSizeLegal
	WithPageOrientation = api.WithPageOrientation

	FileName     = api.FileName
	SplitTitle   = api.SplitTitle
	DetectFormat = api.DetectFormat
	ParseFormat  = api.ParseFormat
)

const (
	FormatAuto     = api.FormatAuto
	FormatText     = api.FormatText
	FormatMarkdown = api.FormatMarkdown
	FormatMarkup   = api.FormatMarkup

	DefaultTitle = api.DefaultTitle

	PageSizeA3Width  = api.PageSizeA3Width
	PageSizeA3Height = api.PageSizeA3Height
	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height
	PageSizeA5Width  = api.PageSizeA5Width
	PageSizeA5Height = api.PageSizeA5Height

	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape
)
