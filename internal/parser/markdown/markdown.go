// Package markdown builds a content tree from Markdown using goldmark.
package markdown

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gompdf/stylepdf/internal/content"
	"github.com/gompdf/stylepdf/internal/parser/html"
)

// Parser converts Markdown into content documents.
type Parser struct {
	md     goldmark.Markdown
	markup *html.Parser
}

// NewParser returns a parser with strikethrough and bare-URL linking
// enabled.
func NewParser() *Parser {
	return &Parser{
		md:     goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify)),
		markup: html.NewParser(),
	}
}

// Parse reads Markdown from r. A level-one heading at the very start
// becomes the document title and is not repeated in the body.
func (p *Parser) Parse(r io.Reader) (*content.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	root := p.md.Parser().Parse(text.NewReader(src))

	c := &converter{src: src, markup: p.markup}
	doc := &content.Document{}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		nodes, err := c.block(n)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, nodes...)
	}

	if len(doc.Nodes) > 0 {
		if h := doc.Nodes[0]; h.Kind == content.KindHeading && h.Level == 1 {
			doc.Title = h.PlainText()
			doc.Nodes = doc.Nodes[1:]
		}
	}
	return doc, nil
}

// ParseString parses Markdown from a string.
func (p *Parser) ParseString(s string) (*content.Document, error) {
	return p.Parse(strings.NewReader(s))
}

type converter struct {
	src    []byte
	markup *html.Parser
}

func (c *converter) block(n ast.Node) ([]*content.Node, error) {
	switch node := n.(type) {
	case *ast.Heading:
		return one(content.Heading(node.Level, c.inlines(node)...)), nil
	case *ast.Paragraph, *ast.TextBlock:
		return one(c.paragraph(node)), nil
	case *ast.List:
		return one(c.list(node)), nil
	case *ast.Blockquote:
		return one(content.Blockquote(c.plain(node))), nil
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		code := strings.TrimSpace(string(c.lines(node)))
		if code == "" {
			return nil, nil
		}
		return one(content.Paragraph(content.Elem("code", content.Text(code)))), nil
	case *ast.HTMLBlock:
		doc, err := c.markup.Parse(bytes.NewReader(c.lines(node)))
		if err != nil {
			return nil, err
		}
		return doc.Nodes, nil
	case *ast.ThematicBreak:
		return nil, nil
	default:
		var out []*content.Node
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			nodes, err := c.block(ch)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil
	}
}

func one(n *content.Node) []*content.Node {
	if n == nil {
		return nil
	}
	return []*content.Node{n}
}

// paragraph turns a paragraph holding only a link into a link node and one
// holding only an image into an image node. Images mixed with text become
// block children of the paragraph.
func (c *converter) paragraph(n ast.Node) *content.Node {
	if only := n.FirstChild(); only != nil && only.NextSibling() == nil {
		switch node := only.(type) {
		case *ast.Link:
			return &content.Node{Kind: content.KindLink, Inline: c.inlines(node), Href: string(node.Destination)}
		case *ast.Image:
			return content.Image(c.plain(node))
		}
	}

	p := content.Paragraph()
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if img, ok := ch.(*ast.Image); ok {
			p.Children = append(p.Children, content.Image(c.plain(img)))
			continue
		}
		if f, ok := c.inline(ch); ok {
			p.Inline = append(p.Inline, f)
		}
	}
	if content.InlineText(p.Inline) == "" && len(p.Children) == 0 {
		return nil
	}
	return p
}

func (c *converter) list(n *ast.List) *content.Node {
	l := &content.Node{Kind: content.KindUnorderedList}
	if n.IsOrdered() {
		l.Kind = content.KindOrderedList
	}
	for it := n.FirstChild(); it != nil; it = it.NextSibling() {
		item := &content.Node{Kind: content.KindListItem}
		for ch := it.FirstChild(); ch != nil; ch = ch.NextSibling() {
			switch node := ch.(type) {
			case *ast.List:
				item.Children = append(item.Children, c.list(node))
			case *ast.Paragraph, *ast.TextBlock:
				if len(item.Inline) > 0 {
					item.Inline = append(item.Inline, content.Text(" "))
				}
				item.Inline = append(item.Inline, c.inlines(node)...)
			default:
				nodes, _ := c.block(node)
				item.Children = append(item.Children, nodes...)
			}
		}
		l.Children = append(l.Children, item)
	}
	return l
}

func (c *converter) inlines(n ast.Node) []content.Inline {
	var out []content.Inline
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if f, ok := c.inline(ch); ok {
			out = append(out, f)
		}
	}
	return out
}

func (c *converter) inline(n ast.Node) (content.Inline, bool) {
	switch node := n.(type) {
	case *ast.Text:
		s := string(node.Segment.Value(c.src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			s += " "
		}
		return content.Text(s), true
	case *ast.String:
		return content.Text(string(node.Value)), true
	case *ast.Emphasis:
		tag := "em"
		if node.Level >= 2 {
			tag = "strong"
		}
		return content.Elem(tag, c.inlines(node)...), true
	case *ast.CodeSpan:
		return content.Elem("code", c.inlines(node)...), true
	case *ast.Link:
		return content.Elem("a", c.inlines(node)...), true
	case *ast.AutoLink:
		return content.Text(string(node.URL(c.src))), true
	case *extast.Strikethrough:
		return content.Elem("del", c.inlines(node)...), true
	case *ast.RawHTML, *ast.Image:
		return content.Inline{}, false
	default:
		if n.HasChildren() {
			return content.Elem("span", c.inlines(n)...), true
		}
		return content.Inline{}, false
	}
}

// plain returns the text of all inline descendants of n.
func (c *converter) plain(n ast.Node) string {
	return strings.Join(strings.Fields(content.InlineText(c.inlines(n))), " ")
}

func (c *converter) lines(n ast.Node) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(c.src))
	}
	return buf.Bytes()
}
