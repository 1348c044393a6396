package content

import "strings"

// Emphasis is the pair of inherited emphasis flags.
type Emphasis struct {
	Bold   bool
	Italic bool
}

// Run is a piece of text carrying resolved emphasis flags.
//
// Runs are produced in document order. Adjacent runs with the same flags are
// not merged.
type Run struct {
	Text string
	Emphasis
}

// Extract flattens inline fragments into styled runs. Element tags strong
// and b set bold, em and i set italic; flags accumulate down the tree and are
// never cleared by a descendant or a sibling. Whitespace-only leaves produce
// no run.
func Extract(fragments []Inline, inherited Emphasis) []Run {
	var runs []Run
	for _, f := range fragments {
		runs = appendRuns(runs, f, inherited)
	}
	return runs
}

func appendRuns(runs []Run, f Inline, em Emphasis) []Run {
	if f.IsText() {
		if s := strings.TrimSpace(f.Text); s != "" {
			runs = append(runs, Run{Text: s, Emphasis: em})
		}
		return runs
	}
	switch strings.ToLower(f.Tag) {
	case "strong", "b":
		em.Bold = true
	case "em", "i":
		em.Italic = true
	}
	for _, c := range f.Children {
		runs = appendRuns(runs, c, em)
	}
	return runs
}
