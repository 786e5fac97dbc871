// Package modifiers holds the immutable coefficient tables used for card pricing.
//
// A Table is built once (from Default, from an HCL file, or from a Spec in tests)
// and never mutated afterwards, so it can be shared freely between goroutines.
package modifiers

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cardprice/core/types"
	"cardprice/internal/errors"
)

// LanguageModifier is one row of the language table
type LanguageModifier struct {
	Language    types.Language  `json:"language"`
	Coefficient decimal.Decimal `json:"coefficient"`
}

// ConditionModifier is one row of the condition table
type ConditionModifier struct {
	Condition   types.Condition `json:"condition"`
	Coefficient decimal.Decimal `json:"coefficient"`
}

// Rule marks a language/variant combination that is never printed
type Rule struct {
	// ID names the rule, e.g. "japanese-foil"
	ID string `json:"id"`

	Language types.Language `json:"language"`

	// Foil rejects foil cards in Language
	Foil bool `json:"foil"`

	// Alternate rejects alternate-art cards in Language
	Alternate bool `json:"alternate"`
}

// Matches reports whether the combination is excluded by the rule
func (r Rule) Matches(language types.Language, foil, alternate bool) bool {
	if language != r.Language {
		return false
	}
	return (r.Foil && foil) || (r.Alternate && alternate)
}

// Spec is the mutable description a Table is built from
type Spec struct {
	Languages  []LanguageModifier  `json:"languages"`
	Conditions []ConditionModifier `json:"conditions"`
	Foil       decimal.Decimal     `json:"foil"`
	Alternate  decimal.Decimal     `json:"alternate"`
	Rules      []Rule              `json:"impossible_variants"`
}

// Table is an immutable modifier table
type Table struct {
	spec       Spec
	languages  map[types.Language]decimal.Decimal
	conditions map[types.Condition]decimal.Decimal
}

// New builds a Table from spec. The spec is copied.
func New(spec Spec) (*Table, error) {
	if len(spec.Languages) == 0 {
		return nil, errors.New(errors.TypeConfig, "modifier table has no languages")
	}
	if len(spec.Conditions) == 0 {
		return nil, errors.New(errors.TypeConfig, "modifier table has no conditions")
	}

	t := &Table{
		spec: Spec{
			Languages:  append([]LanguageModifier(nil), spec.Languages...),
			Conditions: append([]ConditionModifier(nil), spec.Conditions...),
			Foil:       spec.Foil,
			Alternate:  spec.Alternate,
			Rules:      append([]Rule(nil), spec.Rules...),
		},
		languages:  make(map[types.Language]decimal.Decimal, len(spec.Languages)),
		conditions: make(map[types.Condition]decimal.Decimal, len(spec.Conditions)),
	}

	for _, l := range spec.Languages {
		if !l.Language.IsSet() {
			return nil, errors.New(errors.TypeConfig, "language name must not be empty")
		}
		if _, dup := t.languages[l.Language]; dup {
			return nil, errors.Newf(errors.TypeConfig, "duplicate language %q", l.Language)
		}
		t.languages[l.Language] = l.Coefficient
	}

	for _, c := range spec.Conditions {
		if !c.Condition.IsSet() {
			return nil, errors.New(errors.TypeConfig, "condition name must not be empty")
		}
		if _, dup := t.conditions[c.Condition]; dup {
			return nil, errors.Newf(errors.TypeConfig, "duplicate condition %q", c.Condition)
		}
		t.conditions[c.Condition] = c.Coefficient
	}

	seen := make(map[string]bool, len(spec.Rules))
	for _, r := range spec.Rules {
		if r.ID == "" {
			return nil, errors.New(errors.TypeConfig, "impossible variant rule needs an id")
		}
		if seen[r.ID] {
			return nil, errors.Newf(errors.TypeConfig, "duplicate impossible variant rule %q", r.ID)
		}
		seen[r.ID] = true
		if _, ok := t.languages[r.Language]; !ok {
			return nil, errors.Newf(errors.TypeConfig, "rule %q names unknown language %q", r.ID, r.Language)
		}
		if !r.Foil && !r.Alternate {
			return nil, errors.Newf(errors.TypeConfig, "rule %q excludes neither foil nor alternate", r.ID)
		}
	}

	return t, nil
}

// MustNew is like New but panics on an invalid spec
func MustNew(spec Spec) *Table {
	t, err := New(spec)
	if err != nil {
		panic(fmt.Sprintf("modifiers: %v", err))
	}
	return t
}

// Default returns the standard modifier table
func Default() *Table {
	return defaultTable
}

var defaultTable = MustNew(Spec{
	Languages: []LanguageModifier{
		{Language: types.LanguageUkrainian, Coefficient: decimal.RequireFromString("0.1")},
		{Language: types.LanguageEnglish, Coefficient: decimal.RequireFromString("0.05")},
		{Language: types.LanguageJapanese, Coefficient: decimal.RequireFromString("0.25")},
		{Language: types.LanguageItalian, Coefficient: decimal.RequireFromString("0.2")},
	},
	Conditions: []ConditionModifier{
		{Condition: types.ConditionPerfect, Coefficient: decimal.Zero},
		{Condition: types.ConditionSlightlyDamaged, Coefficient: decimal.RequireFromString("-0.25")},
		{Condition: types.ConditionDamaged, Coefficient: decimal.RequireFromString("-0.5")},
		{Condition: types.ConditionHeavilyDamaged, Coefficient: decimal.RequireFromString("-0.75")},
	},
	Foil:      decimal.RequireFromString("0.5"),
	Alternate: decimal.RequireFromString("0.5"),
	Rules: []Rule{
		{ID: "japanese-foil", Language: types.LanguageJapanese, Foil: true},
		{ID: "italian-variants", Language: types.LanguageItalian, Foil: true, Alternate: true},
	},
})

// Spec returns a copy of the description the table was built from
func (t *Table) Spec() Spec {
	return Spec{
		Languages:  t.Languages(),
		Conditions: t.Conditions(),
		Foil:       t.spec.Foil,
		Alternate:  t.spec.Alternate,
		Rules:      t.Rules(),
	}
}

// Languages returns the language rows in declaration order
func (t *Table) Languages() []LanguageModifier {
	return append([]LanguageModifier(nil), t.spec.Languages...)
}

// Conditions returns the condition rows in declaration order
func (t *Table) Conditions() []ConditionModifier {
	return append([]ConditionModifier(nil), t.spec.Conditions...)
}

// Rules returns the impossible variant rules in evaluation order
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.spec.Rules...)
}

// LanguageCoefficient looks up a language coefficient
func (t *Table) LanguageCoefficient(l types.Language) (decimal.Decimal, bool) {
	c, ok := t.languages[l]
	return c, ok
}

// ConditionCoefficient looks up a condition coefficient
func (t *Table) ConditionCoefficient(c types.Condition) (decimal.Decimal, bool) {
	v, ok := t.conditions[c]
	return v, ok
}

// FoilCoefficient returns the coefficient contributed by a foil finish
func (t *Table) FoilCoefficient() decimal.Decimal {
	return t.spec.Foil
}

// AlternateCoefficient returns the coefficient contributed by alternate art
func (t *Table) AlternateCoefficient() decimal.Decimal {
	return t.spec.Alternate
}

// HasLanguage reports whether l is in the table
func (t *Table) HasLanguage(l types.Language) bool {
	_, ok := t.languages[l]
	return ok
}

// HasCondition reports whether c is in the table
func (t *Table) HasCondition(c types.Condition) bool {
	_, ok := t.conditions[c]
	return ok
}

// MatchRule returns the first rule excluding the combination
func (t *Table) MatchRule(language types.Language, foil, alternate bool) (Rule, bool) {
	for _, r := range t.spec.Rules {
		if r.Matches(language, foil, alternate) {
			return r, true
		}
	}
	return Rule{}, false
}

// Equal reports whether two tables hold the same rows, values and rules
func (t *Table) Equal(other *Table) bool {
	a, b := t.spec, other.spec
	if len(a.Languages) != len(b.Languages) || len(a.Conditions) != len(b.Conditions) || len(a.Rules) != len(b.Rules) {
		return false
	}
	for i := range a.Languages {
		if a.Languages[i].Language != b.Languages[i].Language || !a.Languages[i].Coefficient.Equal(b.Languages[i].Coefficient) {
			return false
		}
	}
	for i := range a.Conditions {
		if a.Conditions[i].Condition != b.Conditions[i].Condition || !a.Conditions[i].Coefficient.Equal(b.Conditions[i].Coefficient) {
			return false
		}
	}
	for i := range a.Rules {
		if a.Rules[i] != b.Rules[i] {
			return false
		}
	}
	return a.Foil.Equal(b.Foil) && a.Alternate.Equal(b.Alternate)
}
