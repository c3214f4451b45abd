package cloze

import (
	"strings"
	"testing"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlanks(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		literals []string
	}{
		{"no blanks", "Plain sentence.", []string{}},
		{"two blanks", "The {{capital}} of France is {{ Paris }}.", []string{"capital", "Paris"}},
		{"adjacent blanks", "{{a}}{{b}}", []string{"a", "b"}},
		{"unclosed opening", "Fill {{this in", []string{}},
		{"single braces inside", "{{a} {b}}", []string{}},
		{"blank then unclosed", "{{one}} and {{two", []string{"one"}},
		{"multibyte text", "Ça {{coûte}} cher", []string{"coûte"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blanks := ParseBlanks(tt.text)
			require.Len(t, blanks, len(tt.literals))
			for i, b := range blanks {
				assert.Equal(t, i, b.Index)
				assert.Equal(t, tt.literals[i], b.Literal)
				assert.True(t, strings.HasPrefix(tt.text[b.Start:b.End], "{{"))
				assert.True(t, strings.HasSuffix(tt.text[b.Start:b.End], "}}"))
			}
			assert.Equal(t, len(tt.literals), CountBlanks(tt.text))
		})
	}
}

func TestParseBlanks_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"The {{capital}} of France is {{city}}.",
		"{{a}} {{ b }} {{c",
		"}} {{x}} {{",
	}
	for _, s := range inputs {
		assert.Equal(t, ParseBlanks(s), ParseBlanks(s), s)
	}
}

func TestHasStrayBraces(t *testing.T) {
	assert.False(t, HasStrayBraces("The {{capital}} of France"))
	assert.False(t, HasStrayBraces("no braces"))
	assert.True(t, HasStrayBraces("{{a} {b}}"))
	assert.True(t, HasStrayBraces("{{one}} and {{two"))
	assert.True(t, HasStrayBraces("closing only }}"))
}

func TestSegments(t *testing.T) {
	segs := Segments("The {{capital}} of {{country}}.")
	require.Len(t, segs, 5)
	assert.Equal(t, "The ", segs[0].Text)
	require.NotNil(t, segs[1].Blank)
	assert.Equal(t, "capital", segs[1].Blank.Literal)
	assert.Equal(t, " of ", segs[2].Text)
	require.NotNil(t, segs[3].Blank)
	assert.Equal(t, 1, segs[3].Blank.Index)
	assert.Equal(t, ".", segs[4].Text)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "The {{blank-0}} of France is {{blank-1}}.", Mask("The {{capital}} of France is {{ Paris }}."))
	assert.Equal(t, "nothing to hide", Mask("nothing to hide"))
}

func TestRender(t *testing.T) {
	out := Render("{{a}} + {{b}}", func(p Placeholder) string { return strings.ToUpper(p.Literal) })
	assert.Equal(t, "A + B", out)
}

func TestSyncBlanks(t *testing.T) {
	t.Run("seeds new positions from literals", func(t *testing.T) {
		blanks := SyncBlanks("The {{capital}} of France is {{ Paris }}.", nil)
		require.Len(t, blanks, 2)
		assert.Equal(t, []string{"capital"}, blanks[0].CorrectAnswers)
		assert.Equal(t, []string{"Paris"}, blanks[1].CorrectAnswers)
		assert.Equal(t, 0, blanks[0].Position)
		assert.Equal(t, 1, blanks[1].Position)
		assert.Equal(t, "Paris", blanks[1].BlankText)
		assert.NotEqual(t, blanks[0].ID, blanks[1].ID)
		assert.True(t, strings.HasPrefix(blanks[0].ID, "blank-"))
	})

	t.Run("preserves keys of surviving positions", func(t *testing.T) {
		existing := []models.Blank{
			{ID: "b1", CorrectAnswers: []string{"Paris", "paris"}, CaseSensitive: true, Position: 1},
			{ID: "b0", CorrectAnswers: []string{"capital"}, Position: 0},
		}
		blanks := SyncBlanks("The {{capital}} of France is {{Paris}} and {{Lyon}} too.", existing)
		require.Len(t, blanks, 3)
		assert.Equal(t, "b0", blanks[0].ID)
		assert.Equal(t, "b1", blanks[1].ID)
		assert.Equal(t, []string{"Paris", "paris"}, blanks[1].CorrectAnswers)
		assert.True(t, blanks[1].CaseSensitive)
		assert.Equal(t, []string{"Lyon"}, blanks[2].CorrectAnswers)
		assert.Equal(t, 2, blanks[2].Position)
	})

	t.Run("drops positions that disappeared", func(t *testing.T) {
		existing := []models.Blank{
			{ID: "b0", CorrectAnswers: []string{"x"}, Position: 0},
			{ID: "b1", CorrectAnswers: []string{"y"}, Position: 1},
		}
		blanks := SyncBlanks("Only {{x}} now", existing)
		require.Len(t, blanks, 1)
		assert.Equal(t, "b0", blanks[0].ID)
	})

	t.Run("reseeds kept blank without answers", func(t *testing.T) {
		blanks := SyncBlanks("{{seed}}", []models.Blank{{ID: "b0"}})
		require.Len(t, blanks, 1)
		assert.Equal(t, []string{"seed"}, blanks[0].CorrectAnswers)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		existing := []models.Blank{{ID: "b0", CorrectAnswers: []string{"x"}, Position: 0}}
		SyncBlanks("{{renamed}}", existing)
		assert.Equal(t, "", existing[0].BlankText)
	})
}
