// Package cloze parses fill-in-the-blank templates. A blank is written as
// {{answer}} in the question text; the inner text is the seed answer and
// the builder label of the blank.
package cloze

import (
	"regexp"
	"sort"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/google/uuid"
)

// Nested or escaped braces are not supported: the match stops at the first
// closing brace.
var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Placeholder is one {{...}} occurrence in a cloze text.
type Placeholder struct {
	// Index is the 0-based occurrence index, left to right.
	Index int
	// Literal is the trimmed inner text.
	Literal string
	// Start and End are byte offsets of the whole match in the text.
	Start int
	End   int
}

// ParseBlanks returns the placeholders of text in order of appearance.
// An opening {{ without a closing }} yields no placeholder.
func ParseBlanks(text string) []Placeholder {
	matches := placeholderPattern.FindAllStringSubmatchIndex(text, -1)
	blanks := make([]Placeholder, 0, len(matches))
	for i, m := range matches {
		blanks = append(blanks, Placeholder{
			Index:   i,
			Literal: strings.TrimSpace(text[m[2]:m[3]]),
			Start:   m[0],
			End:     m[1],
		})
	}
	return blanks
}

// CountBlanks returns the number of placeholders in text.
func CountBlanks(text string) int {
	return len(placeholderPattern.FindAllStringIndex(text, -1))
}

// HasStrayBraces reports whether {{ or }} appears outside a matched
// placeholder, e.g. "{{a} {b}}" or "fill {{this".
func HasStrayBraces(text string) bool {
	rest := placeholderPattern.ReplaceAllString(text, "")
	return strings.Contains(rest, "{{") || strings.Contains(rest, "}}")
}

// Segment is a piece of cloze text: either literal text or a blank.
type Segment struct {
	Text  string
	Blank *Placeholder
}

// Segments splits text into literal runs and blanks, in order.
func Segments(text string) []Segment {
	var out []Segment
	last := 0
	for _, p := range ParseBlanks(text) {
		if p.Start > last {
			out = append(out, Segment{Text: text[last:p.Start]})
		}
		out = append(out, Segment{Blank: &p})
		last = p.End
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

// Render rebuilds text with every blank replaced by fill(placeholder).
func Render(text string, fill func(Placeholder) string) string {
	var b strings.Builder
	for _, seg := range Segments(text) {
		if seg.Blank == nil {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString(fill(*seg.Blank))
	}
	return b.String()
}

// Mask hides the seed answers of text, replacing each placeholder with its
// answer key, so "The {{capital}} city" becomes "The {{blank-0}} city".
func Mask(text string) string {
	return Render(text, func(p Placeholder) string {
		return "{{" + models.ClozeAnswerKey(p.Index) + "}}"
	})
}

// SyncBlanks derives the blanks of text. A position that already had a
// blank keeps its id, correct answers and case sensitivity; a new position
// (or a kept blank without answers) is seeded with its literal as the
// only correct answer.
func SyncBlanks(text string, existing []models.Blank) []models.Blank {
	previous := append([]models.Blank(nil), existing...)
	sort.SliceStable(previous, func(i, j int) bool {
		return previous[i].Position < previous[j].Position
	})

	placeholders := ParseBlanks(text)
	blanks := make([]models.Blank, len(placeholders))
	for i, p := range placeholders {
		if i < len(previous) {
			blank := previous[i]
			blank.Position = i
			blank.BlankText = p.Literal
			if blank.ID == "" {
				blank.ID = newBlankID()
			}
			if len(blank.CorrectAnswers) == 0 {
				blank.CorrectAnswers = []string{p.Literal}
			}
			blanks[i] = blank
			continue
		}
		blanks[i] = models.Blank{
			ID:             newBlankID(),
			CorrectAnswers: []string{p.Literal},
			Position:       i,
			BlankText:      p.Literal,
		}
	}
	return blanks
}

func newBlankID() string {
	return "blank-" + uuid.NewString()
}
