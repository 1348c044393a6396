// Package fonts resolves a requested font family to TrueType files before
// layout starts. Every variant is fetched concurrently and awaited in full;
// layout itself never waits on font I/O.
package fonts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"

	"github.com/gompdf/stylepdf/internal/layout"
	"github.com/gompdf/stylepdf/internal/render"
	"github.com/gompdf/stylepdf/internal/res"
)

// DefaultFamily is used when no family is requested.
const DefaultFamily = "Roboto"

// Set names the files of one custom family, relative to the font directory.
type Set struct {
	Family string
	Serif  bool
	Files  map[render.FontStyle]string
}

// Sets are the custom families that ship as TrueType files, keyed by
// lower-cased family name.
var Sets = map[string]Set{
	"roboto": {
		Family: "Roboto",
		Files: map[render.FontStyle]string{
			render.Regular:    "Roboto/Roboto-Regular.ttf",
			render.Bold:       "Roboto/Roboto-Bold.ttf",
			render.Italic:     "Roboto/Roboto-Italic.ttf",
			render.BoldItalic: "Roboto/Roboto-BoldItalic.ttf",
		},
	},
	"georgia": {
		Family: "Georgia",
		Serif:  true,
		Files: map[render.FontStyle]string{
			render.Regular:    "georgia-2/georgia.ttf",
			render.Bold:       "georgia-2/georgiab.ttf",
			render.Italic:     "georgia-2/georgiai.ttf",
			render.BoldItalic: "georgia-2/georgiaz.ttf",
		},
	},
	"palatino linotype": {
		Family: "Palatino Linotype",
		Serif:  true,
		Files: map[render.FontStyle]string{
			render.Regular:    "Palatino Linotype/palatinolinotype_roman.ttf",
			render.Bold:       "Palatino Linotype/palatinolinotype_bold.ttf",
			render.Italic:     "Palatino Linotype/palatinolinotype_italic.ttf",
			render.BoldItalic: "Palatino Linotype/palatinolinotype_bolditalic.ttf",
		},
	},
	"palatino": {
		Family: "Palatino",
		Serif:  true,
		Files: map[render.FontStyle]string{
			render.Regular:    "Palatino font/pala.ttf",
			render.Bold:       "Palatino font/palab.ttf",
			render.Italic:     "Palatino font/palai.ttf",
			render.BoldItalic: "Palatino font/palabi.ttf",
		},
	},
}

// KeyFor maps a CSS-style family list such as "'Palatino Linotype', serif"
// to a key of Sets. Unknown families map to roboto.
func KeyFor(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "georgia"):
		return "georgia"
	case strings.Contains(f, "palatino linotype"):
		return "palatino linotype"
	case strings.Contains(f, "palatino"):
		return "palatino"
	default:
		return "roboto"
	}
}

// Standard maps a family to one of the core PDF families by name.
func Standard(family string) layout.FontFace {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return layout.FontFace{Family: "Courier"}
	case strings.Contains(f, "georgia"), strings.Contains(f, "palatino"),
		strings.Contains(f, "times"), strings.Contains(f, "serif") && !strings.Contains(f, "sans"):
		return layout.FontFace{Family: "Times", Serif: true}
	default:
		return layout.FontFace{Family: "Helvetica"}
	}
}

// Core reports whether family names a font every PDF viewer provides, and
// returns its face.
func Core(family string) (layout.FontFace, bool) {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "helvetica", "arial", "times", "times new roman", "courier", "courier new":
		return Standard(family), true
	}
	return layout.FontFace{}, false
}

// Registrar embeds font files into a document.
type Registrar interface {
	RegisterFont(family string, variants map[render.FontStyle][]byte) error
}

// Assets are the resolved font files for one render.
type Assets struct {
	Requested string
	Set       Set
	// Variants holds every face that loaded and parsed. It is empty when
	// the regular face failed.
	Variants map[render.FontStyle][]byte
}

// Resolver loads font sets through a resource loader.
type Resolver struct {
	loader *res.Loader
	logger *slog.Logger
}

// NewResolver returns a Resolver. A nil logger discards output.
func NewResolver(loader *res.Loader, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{loader: loader, logger: logger}
}

// Resolve fetches all variants of family concurrently. A variant that
// cannot be loaded or parsed is dropped with a warning; Resolve only fails
// when ctx is done.
func (r *Resolver) Resolve(ctx context.Context, family string) (*Assets, error) {
	if family == "" {
		family = DefaultFamily
	}
	set := Sets[KeyFor(family)]

	styles := []render.FontStyle{render.Regular, render.Bold, render.Italic, render.BoldItalic}
	data := make([][]byte, len(styles))

	g, gctx := errgroup.WithContext(ctx)
	for i, fs := range styles {
		g.Go(func() error {
			b, err := r.load(gctx, set.Files[fs])
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.logger.Warn("font variant unavailable", "family", set.Family, "style", fs.String(), "error", err)
				return nil
			}
			data[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolving font %s: %w", family, err)
	}

	a := &Assets{Requested: family, Set: set, Variants: make(map[render.FontStyle][]byte)}
	if data[0] == nil {
		r.logger.Warn("regular face missing, using a standard font", "family", set.Family)
		return a, nil
	}
	for i, fs := range styles {
		if data[i] != nil {
			a.Variants[fs] = data[i]
		}
	}
	return a, nil
}

func (r *Resolver) load(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("no file for variant")
	}
	rsc, err := r.loader.LoadFont(ctx, path)
	if err != nil {
		return nil, err
	}
	if _, err := sfnt.Parse(rsc.Data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rsc.Data, nil
}

// Register embeds the resolved faces and returns the face layout should
// use. It never fails: without a usable regular face, or when embedding
// fails, the standard family chosen by name is returned instead.
func (a *Assets) Register(reg Registrar, logger *slog.Logger) layout.FontFace {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(a.Variants) == 0 {
		return Standard(a.Requested)
	}
	if err := reg.RegisterFont(a.Set.Family, a.Variants); err != nil {
		logger.Warn("font registration failed, using a standard font", "family", a.Set.Family, "error", err)
		return Standard(a.Requested)
	}
	return layout.FontFace{Family: a.Set.Family, Serif: a.Set.Serif}
}
