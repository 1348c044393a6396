package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/gompdf/stylepdf/internal/content"
	"github.com/gompdf/stylepdf/internal/render"
	"github.com/gompdf/stylepdf/internal/style"
	"github.com/gompdf/stylepdf/internal/text"
)

// column is the horizontal extent text is laid out in.
type column struct {
	Left  float64
	Width float64
}

func (c column) Right() float64 { return c.Left + c.Width }

func (c column) indent(d float64) column {
	return column{Left: c.Left + d, Width: c.Width - d}
}

// word is one measured word of a flow.
type word struct {
	text  string
	style render.FontStyle
	width float64 // the word alone
	adv   float64 // the word and its trailing space
}

// flowOptions describe the block a flow is drawn for.
type flowOptions struct {
	// state is the block style; run emphasis is added on top of it.
	state     style.State
	underline bool
}

// flow draws runs as greedily wrapped lines, the first baseline at y, and
// returns the cursor one line below the last line. Pages break between
// lines. If the runs cannot be measured nothing styled is drawn and the text
// is written as plain wrapped lines instead.
func (r *renderer) flow(runs []content.Run, y float64, col column, opt flowOptions) float64 {
	if len(runs) == 0 {
		return y
	}
	words, err := r.measureWords(runs, opt.state)
	if err != nil {
		r.logger.Warn("styled text could not be measured, writing plain text", "error", err)
		return r.plainText(joinRuns(runs), y, col)
	}
	out := y
	_ = r.style.With(opt.state, func() error {
		out = r.placeWords(words, y, col, opt)
		return nil
	})
	return out
}

func (r *renderer) measureWords(runs []content.Run, st style.State) ([]word, error) {
	var words []word
	for _, run := range runs {
		fs := st.Style | render.StyleOf(run.Bold, run.Italic)
		for _, w := range text.Words(run.Text) {
			words = append(words, word{text: w, style: fs})
		}
	}

	c := r.style.Canvas()
	err := r.style.With(st, func() error {
		for i := range words {
			w := &words[i]
			if want := st.WithStyle(w.style); r.style.Current() != want {
				r.style.Apply(want)
			}
			var err error
			if w.width, err = c.MeasureText(w.text); err != nil {
				return fmt.Errorf("measure %q: %w", w.text, err)
			}
			w.adv = w.width
			if i < len(words)-1 {
				if w.adv, err = c.MeasureText(w.text + " "); err != nil {
					return fmt.Errorf("measure %q: %w", w.text, err)
				}
			}
		}
		return nil
	})
	return words, err
}

func (r *renderer) placeWords(words []word, y float64, col column, opt flowOptions) float64 {
	c := r.style.Canvas()
	y = r.pager.Ensure(y, 0)
	x := col.Left
	lineStart, lineEnd := x, x

	for _, w := range words {
		if x+w.adv > col.Right() && x > col.Left {
			r.underline(opt, lineStart, lineEnd, y)
			y = r.pager.Ensure(y+r.lineHeight, 0)
			x = col.Left
			lineStart, lineEnd = x, x
		}
		if want := opt.state.WithStyle(w.style); r.style.Current() != want {
			r.style.Apply(want)
		}
		c.Text(x, y, w.text)
		lineEnd = x + w.width
		x += w.adv
	}
	r.underline(opt, lineStart, lineEnd, y)
	return y + r.lineHeight
}

func (r *renderer) underline(opt flowOptions, from, to, y float64) {
	if opt.underline && to > from {
		r.style.Canvas().Line(from, y+1, to, y+1)
	}
}

// plainText writes s in the block-default style as word-wrapped lines.
func (r *renderer) plainText(s string, y float64, col column) float64 {
	base := r.style.Base()
	out := y
	_ = r.style.With(base, func() error {
		lines := r.wrap(s, col.Width)
		out = r.lines(y, len(lines), r.lineHeight, base, func(first, count int, y float64) {
			for j := range count {
				r.style.Canvas().Text(col.Left, y+float64(j)*r.lineHeight, lines[first+j])
			}
		})
		return nil
	})
	return out
}

// wrap breaks s into lines in the current font, estimating glyph widths if
// the font cannot measure s.
func (r *renderer) wrap(s string, width float64) []string {
	lines, err := text.Wrap(s, width, r.style.Canvas().MeasureText)
	if err != nil {
		r.logger.Warn("text could not be measured, estimating widths", "error", err)
		return text.WrapApprox(s, width, r.style.Current().Size*ptToMM*0.5)
	}
	return lines
}

// lines positions n lines of height lh, the first baseline at y, breaking
// pages as needed. draw is called once per page with the index of the first
// line on that page, the number of lines and the first baseline; st is
// re-applied before each call. It returns the cursor one line below the
// last line.
func (r *renderer) lines(y float64, n int, lh float64, st style.State, draw func(first, count int, y float64)) float64 {
	bottom := r.geo.ContentBottom()
	for i := 0; i < n; {
		fit := 0
		if y <= bottom {
			fit = int(math.Floor((bottom-y)/lh)) + 1
		}
		if fit <= 0 {
			y = r.pager.BreakPage()
			continue
		}
		k := min(fit, n-i)
		if r.style.Current() != st {
			r.style.Apply(st)
		}
		draw(i, k, y)
		y += float64(k) * lh
		i += k
		if i < n {
			y = r.pager.BreakPage()
		}
	}
	return y
}

func joinRuns(runs []content.Run) string {
	parts := make([]string, len(runs))
	for i, r := range runs {
		parts[i] = r.Text
	}
	return strings.Join(parts, " ")
}
