// Package messages provides localized display strings.
package messages

import (
	"fmt"
	"sort"
	"strings"

	"cardprice/core/types"
	"cardprice/internal/errors"
)

// Locale identifies a display language
type Locale string

const (
	LocaleEnglish   Locale = "en"
	LocaleUkrainian Locale = "uk"
)

// UIText holds the static strings of the pricing form
type UIText struct {
	Title                string
	BasePrice            string
	Language             string
	LanguagePlaceholder  string
	Condition            string
	ConditionPlaceholder string
	Foil                 string
	Alternate            string
	Yes                  string
	No                   string
	Submit               string
}

// Catalog renders errors and prices for one locale
type Catalog struct {
	locale     Locale
	errors     map[errors.Type]string
	rules      map[string]string
	price      string
	didYouMean string
	languages  map[types.Language]string
	conditions map[types.Condition]string
	ui         UIText
}

var catalogs = map[Locale]*Catalog{
	LocaleEnglish: {
		locale: LocaleEnglish,
		errors: map[errors.Type]string{
			errors.TypeInvalidBasePrice:            "The base price must be a non-negative number.",
			errors.TypeMissingLanguageAndCondition: "Please select the card language and condition.",
			errors.TypeMissingLanguage:             "Please select the card language.",
			errors.TypeMissingCondition:            "Please select the card condition.",
			errors.TypeImpossibleVariant:           "This card variant does not exist.",
			errors.TypeUnknownOption:               "Unknown %s %q.",
			errors.TypeInternal:                    "The price could not be calculated.",
		},
		rules: map[string]string{
			"japanese-foil":    "Japanese foil cards do not exist.",
			"italian-variants": "Italian foil and alternate art cards do not exist.",
		},
		price:      "Price: %s",
		didYouMean: "Did you mean: %s?",
		ui: UIText{
			Title:                "Collectible Card Price Calculator",
			BasePrice:            "Base card price:",
			Language:             "Language:",
			LanguagePlaceholder:  "Select a language",
			Condition:            "Condition:",
			ConditionPlaceholder: "Select a condition",
			Foil:                 "Foil finish:",
			Alternate:            "Alternate art:",
			Yes:                  "Yes",
			No:                   "No",
			Submit:               "Calculate price",
		},
	},
	LocaleUkrainian: {
		locale: LocaleUkrainian,
		errors: map[errors.Type]string{
			errors.TypeInvalidBasePrice:            "Базова ціна карти повинна бути додатнім числом.",
			errors.TypeMissingLanguageAndCondition: "Оберіть, будь ласка, мову і стан карти.",
			errors.TypeMissingLanguage:             "Оберіть, будь ласка, мову",
			errors.TypeMissingCondition:            "Оберіть, будь ласка, стан карти.",
			errors.TypeImpossibleVariant:           "Такої версії карти не існує.",
			errors.TypeUnknownOption:               "Невідоме значення (%s): %q.",
			errors.TypeInternal:                    "Не вдалося розрахувати ціну.",
		},
		rules: map[string]string{
			"japanese-foil":    "Японські фольговані карти не існують.",
			"italian-variants": "Італійські фольговані і альтернативні карти не існують.",
		},
		price:      "Ціна карти: %s",
		didYouMean: "Можливо: %s?",
		languages: map[types.Language]string{
			types.LanguageUkrainian: "Українська",
			types.LanguageEnglish:   "Англійська",
			types.LanguageJapanese:  "Японська",
			types.LanguageItalian:   "Італійська",
		},
		conditions: map[types.Condition]string{
			types.ConditionPerfect:         "ідеальний",
			types.ConditionSlightlyDamaged: "трохи пошкоджений",
			types.ConditionDamaged:         "пошкоджений",
			types.ConditionHeavilyDamaged:  "сильно пошкоджений",
		},
		ui: UIText{
			Title:                "Калькулятор ціни колекційної картки",
			BasePrice:            "Базова ціна карти:",
			Language:             "Мова:",
			LanguagePlaceholder:  "Оберіть мову",
			Condition:            "Стан:",
			ConditionPlaceholder: "Оберіть стан",
			Foil:                 "Фольговане покриття:",
			Alternate:            "Альтернативний малюнок:",
			Yes:                  "Так",
			No:                   "Ні",
			Submit:               "Розрахувати вартість",
		},
	},
}

// For returns the catalog for a locale; blank selects English
func For(locale string) (*Catalog, error) {
	if locale == "" {
		locale = string(LocaleEnglish)
	}
	c, ok := catalogs[Locale(strings.ToLower(locale))]
	if !ok {
		return nil, errors.Newf(errors.TypeConfig, "unsupported locale %q (supported: %s)", locale, strings.Join(Locales(), ", "))
	}
	return c, nil
}

// MustFor is like For but panics on an unsupported locale
func MustFor(locale string) *Catalog {
	c, err := For(locale)
	if err != nil {
		panic(err)
	}
	return c
}

// Locales lists supported locales
func Locales() []string {
	out := make([]string, 0, len(catalogs))
	for l := range catalogs {
		out = append(out, string(l))
	}
	sort.Strings(out)
	return out
}

// Locale returns the catalog locale
func (c *Catalog) Locale() Locale {
	return c.locale
}

// UI returns the form strings
func (c *Catalog) UI() UIText {
	return c.ui
}

// Price renders a successful quote, e.g. "Price: 110.00"
func (c *Catalog) Price(q *types.Quote) string {
	return fmt.Sprintf(c.price, q.Formatted)
}

// Message renders an error for display. Impossible variants use the
// rule-specific sentence when one exists.
func (c *Catalog) Message(err error) string {
	e, ok := errors.As(err)
	if !ok {
		return c.errors[errors.TypeInternal]
	}

	switch e.Type {
	case errors.TypeImpossibleVariant:
		if msg, ok := c.rules[e.ContextString("rule")]; ok {
			return msg
		}
	case errors.TypeUnknownOption:
		msg := fmt.Sprintf(c.errors[e.Type], e.ContextString("kind"), e.ContextString("value"))
		if suggestions, ok := e.Context["suggestions"].([]string); ok && len(suggestions) > 0 {
			msg += " " + fmt.Sprintf(c.didYouMean, strings.Join(suggestions, ", "))
		}
		return msg
	}

	if msg, ok := c.errors[e.Type]; ok {
		return msg
	}
	return c.errors[errors.TypeInternal]
}

// LanguageLabel returns the display label of a language, falling back to its name
func (c *Catalog) LanguageLabel(l types.Language) string {
	if label, ok := c.languages[l]; ok {
		return label
	}
	return l.String()
}

// ConditionLabel returns the display label of a condition, falling back to its name
func (c *Catalog) ConditionLabel(cond types.Condition) string {
	if label, ok := c.conditions[cond]; ok {
		return label
	}
	return cond.String()
}
