package modifiers

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"cardprice/core/types"
	"cardprice/internal/errors"
)

// maxSuggestions caps the "did you mean" list
const maxSuggestions = 3

// ResolveLanguage maps free text to a language in the table.
// Matching is case-insensitive; blank text resolves to the unset language.
func (t *Table) ResolveLanguage(text string) (types.Language, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	names := make([]string, 0, len(t.spec.Languages))
	for _, l := range t.spec.Languages {
		names = append(names, l.Language.String())
	}
	name, err := resolve("language", text, names)
	return types.Language(name), err
}

// ResolveCondition maps free text to a condition in the table.
// Matching is case-insensitive; blank text resolves to the unset condition.
func (t *Table) ResolveCondition(text string) (types.Condition, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	names := make([]string, 0, len(t.spec.Conditions))
	for _, c := range t.spec.Conditions {
		names = append(names, c.Condition.String())
	}
	name, err := resolve("condition", text, names)
	return types.Condition(name), err
}

func resolve(kind, text string, names []string) (string, error) {
	for _, n := range names {
		if strings.EqualFold(n, text) {
			return n, nil
		}
	}
	return "", errors.UnknownOption(kind, text, Suggest(text, names))
}

// Suggest returns up to three names fuzzily matching text, best first
func Suggest(text string, names []string) []string {
	matches := fuzzy.Find(strings.ToLower(text), lowered(names))
	var out []string
	for _, m := range matches {
		out = append(out, names[m.Index])
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func lowered(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	return out
}
