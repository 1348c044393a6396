package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/gompdf/stylepdf/internal/content"
	"github.com/gompdf/stylepdf/internal/render"
	"github.com/gompdf/stylepdf/internal/style"
)

// ErrUnknownKind is returned for a node whose kind has no handler.
var ErrUnknownKind = errors.New("unknown content kind")

// blockHandler draws one node with its first line at y and returns the
// cursor below it.
type blockHandler func(n *content.Node, y float64, col column) (float64, error)

// category groups node kinds for the spacing table.
type category int

const (
	catOther category = iota
	catHeading
	catParagraph
	catList
	catBlockquote
	catImage
)

var categories = [content.NumKinds]category{
	content.KindHeading:       catHeading,
	content.KindParagraph:     catParagraph,
	content.KindUnorderedList: catList,
	content.KindOrderedList:   catList,
	content.KindListItem:      catList,
	content.KindBlockquote:    catBlockquote,
	content.KindPullQuote:     catBlockquote,
	content.KindImage:         catImage,
}

type transition struct {
	prev, cur category
}

// spacingTable holds the gap before a block, in multiples of the content
// font size, keyed by the previous and current block category.
var spacingTable = map[transition]float64{
	{catHeading, catHeading}:       0.8,
	{catParagraph, catParagraph}:   1.2,
	{catList, catList}:             0.2,
	{catBlockquote, catBlockquote}: 0.7,
	{catImage, catImage}:           0.7,
	{catParagraph, catList}:        0.9,
	{catList, catParagraph}:        0.9,
}

const defaultSpacing = 0.7

func categoryOf(k content.Kind) category {
	if k < 0 || k >= content.NumKinds {
		return catOther
	}
	return categories[k]
}

// spacing returns the gap to add before a block of kind cur following one of
// kind prev. The gaps are the same for every template.
func (r *renderer) spacing(prev, cur content.Kind) float64 {
	f, ok := spacingTable[transition{categoryOf(prev), categoryOf(cur)}]
	if !ok {
		f = defaultSpacing
	}
	return f * r.baseLine
}

// Fixed block geometry in millimeters.
const (
	headingScale1 = 1.5
	headingScale2 = 1.3
	headingScale3 = 1.1

	h2RuleOffset = 1.2
	h2RuleWidth  = 0.4
	h2RuleRatio  = 0.4

	bulletOffset = 3
	bulletRadius = 1.5
	listIndent   = 12
	itemGap      = 0.2

	quoteRulePos  = 4
	quoteTextGap  = 3
	quoteRuleLine = 0.5

	imageHeight    = 40
	imageRadius    = 3
	imageLineWidth = 0.5
	imageIcon      = 12
	imageIconInset = 10
	imageAfter     = 5
	imageAltMax    = 30

	panelPadding = 4
	panelInset   = 5
)

var headingScales = [...]float64{headingScale1, headingScale2, headingScale3}

func (r *renderer) buildHandlers() {
	r.handlers = [content.NumKinds]blockHandler{
		content.KindHeading:       r.heading,
		content.KindParagraph:     r.paragraph,
		content.KindUnorderedList: r.list,
		content.KindOrderedList:   r.list,
		content.KindListItem:      r.looseItem,
		content.KindBlockquote:    r.blockquote,
		content.KindLink:          r.link,
		content.KindImage:         r.image,
		content.KindSidebar:       r.sidebar,
		content.KindPullQuote:     r.pullQuote,
		content.KindTOC:           r.toc,
		content.KindCaption:       r.caption,
	}
}

// renderNode dispatches n to its handler.
func (r *renderer) renderNode(n *content.Node, y float64, col column) (float64, error) {
	if n == nil {
		return y, nil
	}
	if n.Kind < 0 || n.Kind >= content.NumKinds || r.handlers[n.Kind] == nil {
		return y, fmt.Errorf("%w: %d", ErrUnknownKind, n.Kind)
	}
	return r.handlers[n.Kind](n, y, col)
}

// renderBlock draws n and, if that fails, draws its plain text instead. The
// style is back at the block default when it returns.
func (r *renderer) renderBlock(n *content.Node, y float64, col column) (out float64) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("block rendering panicked, writing plain text", "kind", n.Kind, "panic", p)
			r.style.Reset()
			out = r.clamp(r.plainText(n.PlainText(), y, col))
		}
	}()

	out, err := r.renderNode(n, y, col)
	if err != nil {
		r.logger.Warn("block rendering failed, writing plain text", "kind", n.Kind, "error", err)
		r.style.Reset()
		out = r.plainText(n.PlainText(), y, col)
	}
	r.style.Reset()
	return r.clamp(out)
}

func (r *renderer) heading(n *content.Node, y float64, col column) (float64, error) {
	level := max(1, min(n.Level, 3))
	size := r.base.Size * headingScales[level-1]
	fs := render.Bold
	if level == 3 {
		fs = render.BoldItalic
	}
	st := r.base.WithStyle(fs).WithSize(size)
	lh := size * ptToMM * 1.2

	y = r.pager.Ensure(y, size*ptToMM*1.5)
	err := r.style.With(st, func() error {
		lines := r.wrap(n.PlainText(), col.Width)
		y = r.lines(y, len(lines), lh, st, func(first, count int, y float64) {
			for j := range count {
				r.style.Canvas().Text(col.Left, y+float64(j)*lh, lines[first+j])
			}
		})
		return nil
	})
	if err != nil {
		return y, err
	}

	if level == 2 {
		rule := r.base.WithDrawColor(r.palette.Accent).WithLineWidth(h2RuleWidth)
		_ = r.style.With(rule, func() error {
			ruleY := y - h2RuleOffset
			r.style.Canvas().Line(col.Left, ruleY, col.Left+col.Width*h2RuleRatio, ruleY)
			return nil
		})
		y++
	}
	return y, nil
}

// paragraph flows the inline text, then draws any block children in order.
// A paragraph mixing several inline pieces or holding blocks moves to the next
// page whole when its estimated height does not fit.
func (r *renderer) paragraph(n *content.Node, y float64, col column) (float64, error) {
	if len(n.Inline) > 1 || len(n.Children) > 0 {
		chars := utf8.RuneCountInString(n.PlainText())
		estimate := math.Ceil(float64(chars)/80) * r.lineHeight * 1.2
		y = r.pager.Ensure(y, math.Min(estimate, r.geo.Capacity()))
	}
	y = r.flow(content.Extract(n.Inline, content.Emphasis{}), y, col, flowOptions{state: r.base})
	for _, child := range n.Children {
		var err error
		if y, err = r.renderNode(child, y, col); err != nil {
			return y, err
		}
	}
	return y, nil
}

func (r *renderer) list(n *content.Node, y float64, col column) (float64, error) {
	items := n.Children
	for i, item := range items {
		var err error
		if y, err = r.listItem(item, i+1, n.Kind == content.KindOrderedList, y, col); err != nil {
			return y, err
		}
		if i < len(items)-1 {
			y += r.lineHeight * itemGap
		}
	}
	return y, nil
}

// looseItem draws a list item found outside a list as a one-item list.
func (r *renderer) looseItem(n *content.Node, y float64, col column) (float64, error) {
	return r.listItem(n, 1, false, y, col)
}

// listItem draws the marker and the item text, moving the whole item to the
// next page if its estimated height does not fit.
func (r *renderer) listItem(item *content.Node, ordinal int, ordered bool, y float64, col column) (float64, error) {
	c := r.style.Canvas()
	inner := col.indent(listIndent)

	lines := len(r.wrap(content.InlineText(item.Inline), inner.Width))
	estimate := math.Min(float64(max(lines, 1))*r.lineHeight, r.geo.Capacity())
	y = r.pager.Ensure(y, estimate)

	if ordered {
		_ = r.style.With(r.base.WithTextColor(r.palette.Bullet), func() error {
			c.Text(col.Left+1, y, strconv.Itoa(ordinal)+".")
			return nil
		})
	} else {
		_ = r.style.With(r.base.WithFillColor(r.palette.Bullet), func() error {
			c.Circle(col.Left+bulletOffset, y-r.lineHeight*0.35, bulletRadius, render.Fill)
			return nil
		})
	}

	start := y
	y = r.flow(content.Extract(item.Inline, content.Emphasis{}), y, inner, flowOptions{state: r.base})
	for _, child := range item.Children {
		var err error
		if y, err = r.renderNode(child, y, inner); err != nil {
			return y, err
		}
	}
	if y == start {
		y += r.lineHeight
	}
	return y, nil
}

// quoteStyle is the look of a quotation block.
type quoteStyle struct {
	state      style.State
	lineHeight float64
	ruleWidth  float64
}

func (r *renderer) blockquote(n *content.Node, y float64, col column) (float64, error) {
	return r.quote(n, y, col, quoteStyle{
		state:      r.base.WithStyle(render.Italic).WithDrawColor(r.palette.Accent).WithLineWidth(quoteRuleLine),
		lineHeight: r.lineHeight,
		ruleWidth:  quoteRuleLine,
	})
}

func (r *renderer) pullQuote(n *content.Node, y float64, col column) (float64, error) {
	size := r.base.Size * 1.15
	return r.quote(n, y, col, quoteStyle{
		state: r.base.WithStyle(render.BoldItalic).WithSize(size).
			WithTextColor(r.palette.Title).WithDrawColor(r.palette.Accent).WithLineWidth(1.2),
		lineHeight: r.lineHeight * 1.15,
		ruleWidth:  1.2,
	})
}

// quote draws italic text beside a vertical rule. The rule is drawn once per
// page the quote spans.
func (r *renderer) quote(n *content.Node, y float64, col column, qs quoteStyle) (float64, error) {
	c := r.style.Canvas()
	textX := col.Left + quoteRulePos + quoteTextGap
	width := col.Width - (quoteRulePos + quoteTextGap) - 2
	lh := qs.lineHeight

	err := r.style.With(qs.state, func() error {
		lines := r.wrap(n.PlainText(), width)
		y = r.pager.Ensure(y, float64(len(lines))*lh+10)
		y++
		y = r.lines(y, len(lines), lh, qs.state, func(first, count int, y float64) {
			for j := range count {
				c.Text(textX, y+float64(j)*lh, lines[first+j])
			}
			last := y + float64(count-1)*lh
			c.Line(col.Left+quoteRulePos, y-3, col.Left+quoteRulePos, last+2)
		})
		return nil
	})
	return y + 1, err
}

func (r *renderer) link(n *content.Node, y float64, col column) (float64, error) {
	st := r.base.WithTextColor(r.palette.Link).WithDrawColor(r.palette.Link)
	runs := content.Extract(n.Inline, content.Emphasis{})
	if len(runs) == 0 && n.Href != "" {
		runs = []content.Run{{Text: n.Href}}
	}
	return r.flow(runs, y, col, flowOptions{state: st, underline: true}), nil
}

func (r *renderer) image(n *content.Node, y float64, col column) (float64, error) {
	c := r.style.Canvas()
	y = r.pager.Ensure(y, imageHeight)

	box := r.base.WithDrawColor(r.palette.ImageBorder).WithFillColor(r.palette.ImageFill).WithLineWidth(imageLineWidth)
	_ = r.style.With(box, func() error {
		c.RoundedRect(col.Left, y, col.Width, imageHeight, imageRadius, render.FillStroke)

		iconX := col.Left + imageIconInset
		iconY := y + imageHeight/2 - imageIcon/2
		c.Rect(iconX, iconY, imageIcon, imageIcon, render.Stroke)

		baseY := iconY + imageIcon
		x2, y2 := iconX+imageIcon*0.3, baseY-imageIcon*0.5
		x3, y3 := x2+imageIcon*0.3, baseY-imageIcon*0.3
		x4 := x3 + imageIcon*0.4
		c.Line(iconX, baseY, x2, y2)
		c.Line(x2, y2, x3, y3)
		c.Line(x3, y3, x4, baseY)
		return nil
	})

	label := r.base.WithStyle(render.Italic).WithTextColor(r.palette.ImageLabel)
	_ = r.style.With(label, func() error {
		middle := y + imageHeight/2 + r.baseLine*0.35
		c.Text(col.Left+imageIconInset+imageIcon+5, middle, imageLabel(n))
		return nil
	})

	return y + imageHeight + imageAfter, nil
}

func imageLabel(n *content.Node) string {
	alt := n.Alt
	if alt == "" {
		alt = content.InlineText(n.Inline)
	}
	if alt == "" || alt == "Image" {
		return "[Image Placeholder]"
	}
	r := []rune(alt)
	if len(r) > imageAltMax {
		return "[Image: " + string(r[:imageAltMax]) + "...]"
	}
	return "[Image: " + alt + "]"
}

// styledLine is one line of a panel block.
type styledLine struct {
	text  string
	state style.State
	x     float64
}

// sidebar draws the text on a shaded panel with an optional bold title.
func (r *renderer) sidebar(n *content.Node, y float64, col column) (float64, error) {
	c := r.style.Canvas()
	inner := col.indent(panelInset)
	inner.Width -= panelInset

	var lines []styledLine
	if n.Title != "" {
		titleState := r.base.WithStyle(render.Bold).WithTextColor(r.palette.Title)
		_ = r.style.With(titleState, func() error {
			for _, l := range r.wrap(n.Title, inner.Width) {
				lines = append(lines, styledLine{text: l, state: titleState, x: inner.Left})
			}
			return nil
		})
	}
	for _, l := range r.wrap(n.PlainText(), inner.Width) {
		lines = append(lines, styledLine{text: l, state: r.base, x: inner.Left})
	}

	lh := r.lineHeight
	y = r.pager.Ensure(y, float64(len(lines))*lh+2*panelPadding)
	y += panelPadding
	panel := r.base.WithFillColor(r.palette.Panel).WithDrawColor(r.palette.Accent).WithLineWidth(0.3)
	y = r.lines(y, len(lines), lh, panel, func(first, count int, y float64) {
		top := y - lh*0.7
		if first == 0 {
			top -= panelPadding
		}
		bottom := y + float64(count-1)*lh + lh*0.3
		if first+count == len(lines) {
			bottom += panelPadding
		}
		c.RoundedRect(col.Left, top, col.Width, bottom-top, 2, render.FillStroke)
		r.drawStyled(lines[first:first+count], y, lh)
	})
	return y + panelPadding, nil
}

// toc draws a table of contents: a title followed by one entry per child
// node, or the wrapped text when there are no children.
func (r *renderer) toc(n *content.Node, y float64, col column) (float64, error) {
	titleState := r.base.WithStyle(render.Bold).WithTextColor(r.palette.Title)
	lines := []styledLine{{text: "Table of Contents", state: titleState, x: col.Left}}

	entry := col.indent(panelInset)
	var entries []string
	if s := content.InlineText(n.Inline); s != "" {
		entries = append(entries, s)
	}
	for _, child := range n.Children {
		if child.Kind.IsList() {
			for _, item := range child.Children {
				entries = append(entries, item.PlainText())
			}
			continue
		}
		entries = append(entries, child.PlainText())
	}
	for _, e := range entries {
		for _, l := range r.wrap(e, entry.Width) {
			if l != "" {
				lines = append(lines, styledLine{text: l, state: r.base, x: entry.Left})
			}
		}
	}

	lh := r.lineHeight
	y = r.pager.Ensure(y, min(float64(len(lines))*lh, r.geo.Capacity()))
	return r.lines(y, len(lines), lh, r.base, func(first, count int, y float64) {
		r.drawStyled(lines[first:first+count], y, lh)
	}), nil
}

// caption draws small italic lines centered in the column.
func (r *renderer) caption(n *content.Node, y float64, col column) (float64, error) {
	c := r.style.Canvas()
	st := r.base.WithStyle(render.Italic).WithSize(r.base.Size * 0.9).WithTextColor(r.palette.ImageLabel)
	lh := r.lineHeight * 0.9

	err := r.style.With(st, func() error {
		lines := r.wrap(n.PlainText(), col.Width)
		y = r.lines(y, len(lines), lh, st, func(first, count int, y float64) {
			for j := range count {
				line := lines[first+j]
				w, err := c.MeasureText(line)
				if err != nil {
					w = float64(utf8.RuneCountInString(line)) * st.Size * ptToMM * 0.5
				}
				c.Text(col.Left+(col.Width-w)/2, y+float64(j)*lh, line)
			}
		})
		return nil
	})
	return y, err
}

func (r *renderer) drawStyled(lines []styledLine, y, lh float64) {
	for j, l := range lines {
		if r.style.Current() != l.state {
			r.style.Apply(l.state)
		}
		r.style.Canvas().Text(l.x, y+float64(j)*lh, l.text)
	}
}
