package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "bindings", "preamble", "reset", "edit", "clear", "quit",
}

// isWordBoundary reports whether r cannot continue an identifier.
func isWordBoundary(r rune) bool {
	return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// wordBounds returns the identifier around cursor and its byte offsets in
// input. The word is empty when neither neighbour of the cursor is an
// identifier character.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	if i := strings.LastIndexFunc(input[:cursor], isWordBoundary); i >= 0 {
		_, size := utf8.DecodeRuneInString(input[i:])
		start = i + size
	}

	end = len(input)
	if i := strings.IndexFunc(input[cursor:], isWordBoundary); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end
}

// qualified reports whether the word starting at wordStart is a later
// segment of a path, such as "b" in "a::b", or a field or method name. Such
// words are never looked up in the symbol table.
func qualified(input string, wordStart int) bool {
	prefix := strings.TrimRightFunc(input[:wordStart], unicode.IsSpace)

	return strings.HasSuffix(prefix, "::") || strings.HasSuffix(prefix, ".")
}

// completion is the state of name completion for the word under the
// cursor.
type completion struct {
	matches    fuzzy.Matches // ranked best-first
	start, end int           // byte offsets of the word being completed

	// selected is the index of the candidate inserted by Tab, or -1 when not
	// cycling. origText and origCursor restore the input when cycling is
	// abandoned.
	selected   int
	origText   string
	origCursor int
}

func noCompletion() completion { return completion{selected: -1} }

func (c completion) cycling() bool { return c.selected >= 0 }

// complete returns the completion of the word at the cursor of input.
// Control mode completes command names. Eval mode completes the bound names
// of s, except for qualified words.
func complete(input string, cursor int, mode inputMode, s *session) completion {
	c := noCompletion()

	word, start, end := wordBounds(input, cursor)
	c.start, c.end = start, end

	if word == "" {
		return c
	}

	var candidates []string

	switch {
	case mode == modeCtrl:
		candidates = ctrlCommands
	case !qualified(input, start):
		candidates = s.names()
	}

	if len(candidates) > 0 {
		c.matches = fuzzy.Find(word, candidates)
	}

	return c
}

// Highlight styles of matched characters in the candidate bar.
var (
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4")).
				Bold(true)
)

// candidateBar renders the candidates of c on one line no wider than width.
// Candidates that do not fit are replaced by an ellipsis.
func (c completion) candidateBar(width int) string {
	if len(c.matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := sep + hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range c.matches {
		item := renderCandidate(match, i == c.selected)
		if i > 0 {
			item = sep + item
		}

		w := lipgloss.Width(item)
		if i > 0 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(ellipsis)

			break
		}

		b.WriteString(item)
		used += w
	}

	return b.String()
}

// renderCandidate renders match with its matched characters highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	hit := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		hit[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		style := base
		if hit[i] {
			style = highlight
		}

		b.WriteString(style.Render(string(r)))
	}

	return b.String()
}
