package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/pravda/lang"
	"github.com/ardnew/pravda/lang/builtin"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// previewWidth is the longest value preview shown by the list command.
const previewWidth = 40

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace and the characters that delimit items or statements.
// Hyphens and other operator characters are part of identifiers.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		';', '=', '"', '~', '@':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor against the names bound in the session, or the commands in control
// mode. An empty word has no matches so the hint line stays visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = m.eval.env.Names()
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(name string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected, isFunc != nil && isFunc(match.Str))
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are marked with a trailing "()" that is not part of
// the completion.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	if function {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is bound to a function in env.
func isFunction(env *lang.Env, name string) bool {
	v, ok := env.Get(name)
	if !ok {
		return false
	}

	_, ok = v.Function()

	return ok
}

// binding is a name bound by the session rather than by the builtin catalog.
type binding struct {
	name    string
	preview string
}

// userBindings returns the bindings of env that differ from the builtin
// catalog, ordered by name.
func userBindings(env *lang.Env) []binding {
	catalog := builtin.Catalog()

	var list []binding

	for name, v := range env.All() {
		if b, ok := catalog[name]; ok && lang.Equal(b, v) {
			continue
		}

		list = append(list, binding{name: name, preview: formatPreview(name, v)})
	}

	slices.SortFunc(list, func(a, b binding) int {
		return strings.Compare(a.name, b.name)
	})

	return list
}

// formatPreview generates a short preview of a bound value. User-defined
// functions show one application per clause.
func formatPreview(name string, v lang.Value) string {
	if fn, ok := v.Function(); ok && fn.Kind() == lang.FuncUser {
		clauses := fn.Clauses()
		forms := make([]string, len(clauses))

		for i, c := range clauses {
			forms[i] = formatSignature(signature{name: name, params: paramNames(c.Pattern)})
		}

		return ellipsize(strings.Join(forms, " | "))
	}

	return ellipsize(v.Canonical())
}

func ellipsize(s string) string {
	if utf8.RuneCountInString(s) <= previewWidth {
		return s
	}

	r := []rune(s)

	return string(r[:previewWidth-3]) + "..."
}
