package enhance

import (
	"fmt"
	"strings"
)

// Level selects how much structure the model may add.
type Level string

const (
	LevelLight  Level = "light"
	LevelMedium Level = "medium"
	LevelFull   Level = "full"
)

// ParseLevel parses s case-insensitively. Unknown values yield LevelMedium.
func ParseLevel(s string) Level {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelLight, LevelMedium, LevelFull:
		return l
	}
	return LevelMedium
}

// DocumentType tunes the prompt to the kind of writing.
type DocumentType string

const (
	DocArticle  DocumentType = "article"
	DocAcademic DocumentType = "academic"
	DocReport   DocumentType = "report"
	DocBlog     DocumentType = "blog"
)

// ParseDocumentType parses s case-insensitively. Unknown values yield
// DocArticle.
func ParseDocumentType(s string) DocumentType {
	switch d := DocumentType(strings.ToLower(strings.TrimSpace(s))); d {
	case DocArticle, DocAcademic, DocReport, DocBlog:
		return d
	}
	return DocArticle
}

const basePrompt = `You format documents for print. Analyze the user's text and improve its structure and layout for a well designed PDF.

Never change the wording. Do not edit, shorten, summarize or rephrase anything; every word of the original must appear exactly as written. You may only:
1. Recognize structure such as headings, paragraphs and lists
2. Wrap existing text in the formatting tags listed below
3. Propose visual elements such as pull quotes or illustration placeholders
4. Arrange the content visually

The document is a %s.
`

type tag struct {
	syntax string
	use    string
}

var (
	tagHeader  = tag{"<section-header>Section Title</section-header>", "section headers"}
	tagStrong  = tag{"<strong>important text</strong>", "key points"}
	tagEm      = tag{"<em>italic text</em>", "emphasis"}
	tagUL      = tag{"<ul><li>Item</li><li>Item</li></ul>", "unordered lists"}
	tagOL      = tag{"<ol><li>Step</li><li>Step</li></ol>", "ordered lists"}
	tagPull    = tag{"<pull-quote>A sentence taken verbatim from the text</pull-quote>", "pull quotes"}
	tagIllus   = tag{"<illustration-suggestion><h4>Suggested Illustration</h4>What the picture should show</illustration-suggestion>", "places where a picture or diagram would help"}
	tagCaption = tag{"<caption>Caption for the illustration above</caption>", "illustration captions"}
	tagSidebar = tag{"<sidebar><h4>Sidebar Title</h4>Supplementary material outside the main flow</sidebar>", "sidebars"}
	tagRef     = tag{"<ref>Pointer to another section or source</ref>", "cross-references"}
	tagTOC     = tag{"<toc>Suggested table of contents</toc>", "a table of contents"}
	levelTags  = map[Level][]tag{
		LevelLight:  {tagHeader, tagStrong, tagUL, tagOL},
		LevelMedium: {tagHeader, tagStrong, tagEm, tagUL, tagOL, tagPull, tagIllus, tagCaption},
		LevelFull:   {tagHeader, tagStrong, tagEm, tagUL, tagOL, tagPull, tagIllus, tagCaption, tagSidebar, tagRef, tagTOC},
	}
	levelTasks = map[Level][]string{
		LevelLight: {
			"Mark section headings",
			"Break the text into readable paragraphs",
			"Format lists and enumerations",
			"Emphasize key points",
		},
		LevelMedium: {
			"Mark section headings",
			"Break the text into readable paragraphs",
			"Format lists and enumerations",
			"Emphasize key points",
			"Pick meaningful sentences for pull quotes",
			"Suggest where illustrations or diagrams would help",
			"Write captions for suggested illustrations",
		},
		LevelFull: {
			"Mark section headings",
			"Break the text into readable paragraphs",
			"Format lists and enumerations",
			"Emphasize key points",
			"Pick meaningful sentences for pull quotes",
			"Suggest where illustrations or diagrams would help",
			"Write captions for suggested illustrations",
			"Move supplementary material into sidebars",
			"Add cross-references where they help the reader",
			"Propose a table of contents at the start",
			"Consider the overall flow and reorder sections only if that clearly helps",
		},
	}
	docFocus = map[DocumentType][]string{
		DocAcademic: {"abstract, introduction, method, results, discussion and conclusion", "citations and references", "headings and subheadings", "figures and tables"},
		DocReport:   {"the executive summary", "figures that could be charted", "headings and subheadings", "recommendations and conclusions"},
		DocBlog:     {"natural section breaks", "points that deserve a subheading", "quotes worth highlighting", "spots where an image would help"},
		DocArticle:  {"logical section breaks", "the main thesis", "supporting evidence", "the narrative arc"},
	}
)

const closingPrompt = `
Again: keep the original text exactly. Do not add, remove or alter words, and do not introduce facts or opinions that are not in the text. Pull quotes must be copied verbatim from the document. Reply with the marked-up text only, using well-formed HTML-like tags.
`

// SystemPrompt composes the instructions for one enhancement request.
func SystemPrompt(level Level, doc DocumentType) string {
	level, doc = ParseLevel(string(level)), ParseDocumentType(string(doc))

	var sb strings.Builder
	fmt.Fprintf(&sb, basePrompt, doc)

	fmt.Fprintf(&sb, "\nFor a %s enhancement:\n", level)
	for i, task := range levelTasks[level] {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, task)
	}
	sb.WriteString("\nUse only these tags:\n")
	for _, t := range levelTags[level] {
		fmt.Fprintf(&sb, "- %s for %s\n", t.syntax, t.use)
	}

	fmt.Fprintf(&sb, "\nFor this %s, look especially for:\n", doc)
	for _, f := range docFocus[doc] {
		fmt.Fprintf(&sb, "- %s\n", f)
	}
	sb.WriteString(closingPrompt)
	return sb.String()
}
