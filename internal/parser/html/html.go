// Package html builds a content tree from HTML and from the enhanced markup
// vocabulary (section-header, pull-quote, illustration-suggestion, caption,
// sidebar, ref, toc).
package html

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gompdf/stylepdf/internal/content"
)

// Parser converts markup fragments into content documents.
type Parser struct{}

// NewParser creates a new HTML parser
func NewParser() *Parser {
	return &Parser{}
}

// The HTML parser drops <caption> outside a table, so the enhanced caption
// tag is renamed before parsing.
var captionTag = regexp.MustCompile(`(?i)<(/?)caption(\s[^>]*)?>`)

// ParseString parses markup from a string
func (p *Parser) ParseString(markup string) (*content.Document, error) {
	return p.Parse(strings.NewReader(markup))
}

// Parse parses a markup fragment as the content of a body element. The
// document title is left empty; see Title.
func (p *Parser) Parse(r io.Reader) (*content.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src := captionTag.ReplaceAllString(string(raw), "<${1}figcaption${2}>")

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return nil, err
	}

	b := &builder{}
	for _, n := range nodes {
		b.block(n)
	}
	b.flush()
	return &content.Document{Nodes: b.out}, nil
}

var (
	sectionHeader = regexp.MustCompile(`(?is)<section-header[^>]*>(.*?)</section-header>`)
	anyTag        = regexp.MustCompile(`<[^>]*>`)
)

// Title returns the title of enhanced markup: the text of the first
// section-header, or else the first line with tags removed.
func Title(markup string) string {
	if m := sectionHeader.FindStringSubmatch(markup); m != nil {
		if t := collapse(anyTag.ReplaceAllString(m[1], "")); t != "" {
			return html.UnescapeString(t)
		}
	}
	first, _, _ := strings.Cut(markup, "\n")
	return html.UnescapeString(strings.TrimSpace(anyTag.ReplaceAllString(first, "")))
}

// builder collects block nodes. Inline content met at block level is
// gathered into a pending paragraph until the next block element.
type builder struct {
	out     []*content.Node
	pending []content.Inline
}

func (b *builder) emit(n *content.Node) {
	b.flush()
	if n != nil {
		b.out = append(b.out, n)
	}
}

func (b *builder) flush() {
	if content.InlineText(b.pending) != "" {
		b.out = append(b.out, content.Paragraph(b.pending...))
	}
	b.pending = nil
}

func (b *builder) block(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			b.pending = append(b.pending, content.Text(collapse(n.Data)))
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch tag := n.Data; {
	case skipped(tag):
	case tag == "h1" || tag == "h2" || tag == "h3":
		b.emit(content.Heading(int(tag[1]-'0'), inlines(n)...))
	case tag == "h4" || tag == "h5" || tag == "h6":
		b.emit(content.Heading(3, inlines(n)...))
	case tag == "section-header":
		b.emit(content.Heading(2, inlines(n)...))
	case tag == "p":
		b.emit(paragraph(n))
	case tag == "ul" || tag == "ol":
		b.emit(list(n))
	case tag == "li":
		b.emit(listItem(n))
	case tag == "pull-quote" || tag == "blockquote" && hasClass(n, "pull-quote"):
		b.emit(&content.Node{Kind: content.KindPullQuote, Inline: []content.Inline{content.Text(textOf(n))}})
	case tag == "blockquote":
		b.emit(content.Blockquote(textOf(n)))
	case tag == "a":
		b.emit(&content.Node{Kind: content.KindLink, Inline: inlines(n), Href: attr(n, "href")})
	case tag == "img":
		b.emit(content.Image(attr(n, "alt")))
	case tag == "illustration-suggestion" || hasClass(n, "illustration-suggestion"):
		b.emit(content.Image(textWithout(n, "h4")))
	case hasClass(n, "image-placeholder"):
		alt := attr(n, "data-alt")
		if alt == "" {
			alt = textOf(n)
		}
		b.emit(content.Image(alt))
	case tag == "figcaption" || hasClass(n, "caption"):
		b.emit(&content.Node{Kind: content.KindCaption, Inline: inlines(n)})
	case tag == "sidebar" || tag == "aside" || hasClass(n, "sidebar"):
		b.emit(sidebar(n))
	case tag == "toc" || tag == "nav" || hasClass(n, "toc"):
		b.emit(toc(n))
	case tag == "br":
		b.pending = append(b.pending, content.Text(" "))
	case inlineTag(tag):
		b.pending = append(b.pending, inline(n))
	default:
		// div, section, article and unknown containers are transparent.
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			b.block(c)
		}
	}
}

func skipped(tag string) bool {
	switch tag {
	case "script", "style", "head", "title", "meta", "link", "hr", "template":
		return true
	}
	return false
}

func inlineTag(tag string) bool {
	switch tag {
	case "strong", "b", "em", "i", "u", "span", "ref", "code", "small", "mark", "sup", "sub", "abbr", "cite", "q":
		return true
	}
	return false
}

// paragraph splits a paragraph's children into inline text and block
// children such as images.
func paragraph(n *html.Node) *content.Node {
	p := content.Paragraph()
	p.Inline, p.Children = mixed(n)
	if content.InlineText(p.Inline) == "" && len(p.Children) == 0 {
		return nil
	}
	return p
}

func mixed(n *html.Node) ([]content.Inline, []*content.Node) {
	var in []content.Inline
	var blocks []*content.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.ElementNode && c.Data == "img":
			blocks = append(blocks, content.Image(attr(c, "alt")))
		case c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol"):
			blocks = append(blocks, list(c))
		default:
			if f, ok := inlineOf(c); ok {
				in = append(in, f)
			}
		}
	}
	return in, blocks
}

func list(n *html.Node) *content.Node {
	l := &content.Node{Kind: content.KindUnorderedList}
	if n.Data == "ol" {
		l.Kind = content.KindOrderedList
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			l.Children = append(l.Children, listItem(c))
		}
	}
	return l
}

func listItem(n *html.Node) *content.Node {
	item := &content.Node{Kind: content.KindListItem}
	item.Inline, item.Children = mixed(n)
	return item
}

func sidebar(n *html.Node) *content.Node {
	s := &content.Node{Kind: content.KindSidebar}
	if h := firstChild(n, "h4"); h != nil {
		s.Title = textOf(h)
	}
	s.Inline = []content.Inline{content.Text(textWithout(n, "h4"))}
	return s
}

// toc keeps loose text as the node's inline content and nested lists or
// paragraphs as children, one entry each.
func toc(n *html.Node) *content.Node {
	t := &content.Node{Kind: content.KindTOC}
	sub := &builder{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if s := collapse(c.Data); s != "" {
				t.Inline = append(t.Inline, content.Text(s))
			}
			continue
		}
		sub.block(c)
	}
	sub.flush()
	t.Children = sub.out
	return t
}

func inlines(n *html.Node) []content.Inline {
	var out []content.Inline
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f, ok := inlineOf(c); ok {
			out = append(out, f)
		}
	}
	return out
}

func inlineOf(n *html.Node) (content.Inline, bool) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return content.Inline{}, false
		}
		return content.Text(collapse(n.Data)), true
	case html.ElementNode:
		if skipped(n.Data) {
			return content.Inline{}, false
		}
		if n.Data == "br" {
			return content.Text(" "), true
		}
		return inline(n), true
	}
	return content.Inline{}, false
}

func inline(n *html.Node) content.Inline {
	return content.Elem(n.Data, inlines(n)...)
}

func textOf(n *html.Node) string {
	return textWithout(n, "")
}

// textWithout returns the collapsed text of n, leaving out descendants
// with the given tag.
func textWithout(n *html.Node, drop string) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == drop || skipped(n.Data)) {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return collapse(sb.String())
}

func firstChild(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
