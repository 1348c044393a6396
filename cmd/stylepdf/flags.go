package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds every flag of the stylepdf command. Empty strings leave the
// configured value in place.
type cliFlags struct {
	config  string
	output  string
	format  string
	title   string
	debug   bool
	quiet   bool
	version bool

	template    string
	color       string
	font        string
	fontDir     string
	pageSize    string
	landscape   bool
	noDate      bool
	noTemplate  bool
	contentSize float64
	titleSize   float64

	enhance bool
	level   string
	docType string
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("stylepdf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "YAML config file")
	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default: derived from the input or the title)")
	fs.StringVarP(&f.format, "format", "f", "", "input format: text, markdown, html (default: from the file type)")
	fs.StringVar(&f.title, "title", "", "override the document title")
	fs.BoolVarP(&f.debug, "debug", "d", false, "log layout decisions to stderr")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVar(&f.version, "version", false, "print the version and exit")

	fs.StringVarP(&f.template, "template", "t", "", "template: default, elegant, modern, minimal, academic")
	fs.StringVar(&f.color, "color", "", "color theme: default, blue, green, purple, dark")
	fs.StringVar(&f.font, "font", "", "font family: Roboto, Georgia, Palatino, Palatino Linotype, Helvetica, Times, Courier")
	fs.StringVar(&f.fontDir, "font-dir", "", "directory holding the font files")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: A3, A4, A5, Letter, Legal")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape orientation")
	fs.BoolVar(&f.noDate, "no-date", false, "omit the date from the footer")
	fs.BoolVar(&f.noTemplate, "no-template-label", false, "omit the template name from the footer")
	fs.Float64Var(&f.contentSize, "content-size", 0, "body font size in points")
	fs.Float64Var(&f.titleSize, "title-size", 0, "title font size in points")

	fs.BoolVarP(&f.enhance, "enhance", "e", false, "add structure with the enhancement API before rendering")
	fs.StringVar(&f.level, "level", "", "enhancement level: light, medium, full")
	fs.StringVar(&f.docType, "type", "", "document type: article, academic, report, blog")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
