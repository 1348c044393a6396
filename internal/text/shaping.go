// Package text holds the word tokenizer and line breakers used by the layout
// engine.
package text

import (
	"strings"
	"unicode"
)

// MeasureFunc returns the rendered width of s in the active font.
type MeasureFunc func(s string) (float64, error)

// Words splits text into words on any run of whitespace.
func Words(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsSpace(r) {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		} else {
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

// Wrap breaks text into lines that fit maxWidth, greedily. Hard line breaks
// in text are kept; a blank input line yields an empty output line. A word
// wider than maxWidth is placed alone on its own line.
func Wrap(text string, maxWidth float64, measure MeasureFunc) ([]string, error) {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := Words(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		if _, err := measure(line); err != nil {
			return nil, err
		}
		for _, word := range words[1:] {
			candidate := line + " " + word
			w, err := measure(candidate)
			if err != nil {
				return nil, err
			}
			if w > maxWidth {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return trimBlank(lines), nil
}

// WrapApprox breaks text into lines assuming every character is charWidth
// wide. It never fails and is used when the font cannot measure text.
func WrapApprox(text string, maxWidth, charWidth float64) []string {
	if maxWidth <= 0 || charWidth <= 0 {
		return []string{strings.Join(Words(text), " ")}
	}

	charsPerLine := int(maxWidth / charWidth)
	if charsPerLine <= 0 {
		charsPerLine = 1
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var currentLine string
		for _, word := range Words(para) {
			if len(currentLine)+len(word)+1 > charsPerLine && currentLine != "" {
				lines = append(lines, currentLine)
				currentLine = word
			} else {
				if currentLine != "" {
					currentLine += " "
				}
				currentLine += word
			}
		}
		lines = append(lines, currentLine)
	}

	return trimBlank(lines)
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}
