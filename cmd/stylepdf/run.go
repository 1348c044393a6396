package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/gompdf/stylepdf/internal/config"
	"github.com/gompdf/stylepdf/internal/enhance"
	"github.com/gompdf/stylepdf/internal/res"
	"github.com/gompdf/stylepdf/pkg/api"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage     = errors.New("usage: stylepdf [flags] <input.txt|input.md|input.html|URL|->")
	ErrReadInput = errors.New("failed to read input")
	ErrEnhance   = errors.New("enhancement failed")
	ErrWritePDF  = errors.New("failed to write PDF")
)

// Exit codes: 0=success, 1=general, 2=usage, 3=I/O, 4=enhancement.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitIO      = 3
	ExitEnhance = 4
)

// exitCodeFor returns the exit code for an error returned by run.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage),
		errors.Is(err, api.ErrEmptyInput),
		errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrConfigParse),
		errors.Is(err, config.ErrInvalidConfig):
		return ExitUsage
	case errors.Is(err, ErrReadInput), errors.Is(err, ErrWritePDF):
		return ExitIO
	case errors.Is(err, ErrEnhance):
		return ExitEnhance
	default:
		return ExitGeneral
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.version {
		fmt.Fprintln(stdout, Version)
		return nil
	}
	if len(rest) != 1 {
		return ErrUsage
	}
	source := rest[0]

	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(stderr, f.debug)

	in, err := readInput(ctx, source, stdin)
	if err != nil {
		return err
	}
	if f.format != "" {
		in.Format = api.ParseFormat(f.format)
	}
	if err := api.CheckInput(in); err != nil {
		return err
	}

	if f.enhance {
		client, closeFn, err := cfg.Enhance.NewClient(logger)
		if err != nil {
			return err
		}
		defer closeFn()
		out, err := client.Enhance(ctx, enhance.Request{
			Text:         in.Text,
			Level:        enhance.ParseLevel(cfg.Enhance.Level),
			DocumentType: enhance.ParseDocumentType(cfg.Enhance.DocumentType),
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEnhance, err)
		}
		in = api.Input{Format: api.FormatMarkup, Text: out}
	}

	opts := api.DefaultOptions()
	cfg.Render.Apply(&opts)
	opts.Logger = logger
	opts.Debug = f.debug
	opts.Title = f.title
	if f.landscape {
		opts.PageOrientation = api.PageOrientationLandscape
	}
	conv := api.NewWithOptions(opts)

	output := f.output
	if output == "" {
		if output, err = defaultOutput(conv, in, source); err != nil {
			return err
		}
	}
	if err := conv.ConvertToFile(ctx, in, output); err != nil {
		if errors.Is(err, os.ErrPermission) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrWritePDF, err)
		}
		return err
	}
	if !f.quiet {
		fmt.Fprintf(stdout, "Created %s\n", output)
	}
	return nil
}

// apply overrides configured values with the flags that were given.
func (f *cliFlags) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Render.Template, f.template)
	set(&cfg.Render.Color, f.color)
	set(&cfg.Render.Font, f.font)
	set(&cfg.Render.FontDir, f.fontDir)
	set(&cfg.Render.PageSize, f.pageSize)
	set(&cfg.Enhance.Level, f.level)
	set(&cfg.Enhance.DocumentType, f.docType)
	if f.contentSize > 0 {
		cfg.Render.ContentSize = f.contentSize
	}
	if f.titleSize > 0 {
		cfg.Render.TitleSize = f.titleSize
	}
	if f.noDate {
		cfg.Render.ShowDate = false
	}
	if f.noTemplate {
		cfg.Render.ShowTemplate = false
	}
}

// readInput reads source, a local path, a URL or "-" for stdin. The format
// follows the file type; stdin is detected from its text.
func readInput(ctx context.Context, source string, stdin io.Reader) (api.Input, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return api.Input{}, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		return api.Input{Text: string(data)}, nil
	}
	rsc, err := res.NewLoader("", nil).LoadDocument(ctx, source)
	if err != nil {
		return api.Input{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return api.Input{Format: api.FormatForMime(rsc.MimeType), Text: rsc.GetString()}, nil
}

// defaultOutput names the PDF after a local input file, and after the
// document title otherwise.
func defaultOutput(conv *api.Converter, in api.Input, source string) (string, error) {
	if source != "-" && !strings.Contains(source, "://") {
		ext := filepath.Ext(source)
		return source[:len(source)-len(ext)] + ".pdf", nil
	}
	doc, err := conv.Document(in)
	if err != nil {
		return "", err
	}
	return api.FileName(doc.Title), nil
}
