// Package content defines the semantic content tree consumed by the layout
// engine, independent of the markup it was parsed from.
package content

import "strings"

// Kind identifies the block-level variant of a Node.
type Kind int

const (
	KindHeading Kind = iota
	KindParagraph
	KindUnorderedList
	KindOrderedList
	KindListItem
	KindBlockquote
	KindLink
	KindImage
	KindSidebar
	KindPullQuote
	KindTOC
	KindCaption

	// NumKinds is the number of node kinds. Dispatch tables are sized by it.
	NumKinds
)

var kindNames = [NumKinds]string{
	KindHeading:       "heading",
	KindParagraph:     "paragraph",
	KindUnorderedList: "unordered-list",
	KindOrderedList:   "ordered-list",
	KindListItem:      "list-item",
	KindBlockquote:    "blockquote",
	KindLink:          "link",
	KindImage:         "image",
	KindSidebar:       "sidebar",
	KindPullQuote:     "pull-quote",
	KindTOC:           "toc",
	KindCaption:       "caption",
}

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return "unknown"
	}
	return kindNames[k]
}

// IsList reports whether k is an ordered or unordered list.
func (k Kind) IsList() bool {
	return k == KindUnorderedList || k == KindOrderedList
}

// Node is one block of content.
//
// Text-bearing kinds keep their text in Inline. Lists keep their items in
// Children; paragraphs and list items may carry both inline text and block
// children (for example an image inside a paragraph).
type Node struct {
	Kind     Kind
	Level    int // heading level, 1-3
	Inline   []Inline
	Children []*Node
	Href     string // link target
	Alt      string // image description
	Title    string // sidebar title
}

// Inline is a fragment of inline markup. A fragment with an empty Tag is a
// text leaf; any other fragment is an element whose styling applies to its
// children.
type Inline struct {
	Tag      string
	Text     string
	Children []Inline
}

// Text returns a text leaf.
func Text(s string) Inline {
	return Inline{Text: s}
}

// Elem returns an inline element wrapping children.
func Elem(tag string, children ...Inline) Inline {
	return Inline{Tag: strings.ToLower(tag), Children: children}
}

// IsText reports whether the fragment is a text leaf.
func (in Inline) IsText() bool {
	return in.Tag == ""
}

// Heading returns a heading node. Levels outside 1-3 are clamped.
func Heading(level int, inline ...Inline) *Node {
	level = max(1, min(level, 3))
	return &Node{Kind: KindHeading, Level: level, Inline: inline}
}

// Paragraph returns a paragraph node.
func Paragraph(inline ...Inline) *Node {
	return &Node{Kind: KindParagraph, Inline: inline}
}

// List returns an ordered or unordered list of items. Each item is a list of
// inline fragments.
func List(ordered bool, items ...[]Inline) *Node {
	n := &Node{Kind: KindUnorderedList}
	if ordered {
		n.Kind = KindOrderedList
	}
	for _, it := range items {
		n.Children = append(n.Children, &Node{Kind: KindListItem, Inline: it})
	}
	return n
}

// Blockquote returns a blockquote node.
func Blockquote(text string) *Node {
	return &Node{Kind: KindBlockquote, Inline: []Inline{Text(text)}}
}

// Link returns a link node.
func Link(text, href string) *Node {
	return &Node{Kind: KindLink, Inline: []Inline{Text(text)}, Href: href}
}

// Image returns an image placeholder node.
func Image(alt string) *Node {
	return &Node{Kind: KindImage, Alt: alt}
}

// PlainText returns the node's text with all markup removed. Text from
// inline fragments comes first, then text from block children.
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	var parts []string
	if s := InlineText(n.Inline); s != "" {
		parts = append(parts, s)
	}
	for _, c := range n.Children {
		if s := c.PlainText(); s != "" {
			parts = append(parts, s)
		}
	}
	if n.Kind == KindImage && len(parts) == 0 && n.Alt != "" {
		parts = append(parts, n.Alt)
	}
	return strings.Join(parts, " ")
}

// InlineText joins the trimmed text leaves of fragments with single spaces.
func InlineText(fragments []Inline) string {
	runs := Extract(fragments, Emphasis{})
	parts := make([]string, len(runs))
	for i, r := range runs {
		parts[i] = r.Text
	}
	return strings.Join(parts, " ")
}

// Document is a titled sequence of top-level nodes.
type Document struct {
	Title string
	Nodes []*Node
}

// PlainText returns the body of the document as plain text, one line per
// top-level node.
func (d *Document) PlainText() string {
	lines := make([]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if s := n.PlainText(); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
