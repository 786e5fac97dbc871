// Package types - Card pricing types
// Raw inputs come from presentation, requests are validated, quotes are results.
package types

import (
	"github.com/shopspring/decimal"
)

// Language is the print language of a card.
// The empty value means no language was selected.
type Language string

const (
	LanguageUkrainian Language = "Ukrainian"
	LanguageEnglish   Language = "English"
	LanguageJapanese  Language = "Japanese"
	LanguageItalian   Language = "Italian"
)

// IsSet reports whether a language was selected
func (l Language) IsSet() bool { return l != "" }

// String returns the language name
func (l Language) String() string { return string(l) }

// Condition is the physical condition of a card.
// The empty value means no condition was selected.
type Condition string

const (
	ConditionPerfect         Condition = "perfect"
	ConditionSlightlyDamaged Condition = "slightly damaged"
	ConditionDamaged         Condition = "damaged"
	ConditionHeavilyDamaged  Condition = "heavily damaged"
)

// IsSet reports whether a condition was selected
func (c Condition) IsSet() bool { return c != "" }

// String returns the condition name
func (c Condition) String() string { return string(c) }

// PricingInput holds the five raw values collected by a form
type PricingInput struct {
	// BasePrice is unparsed text as typed by the user
	BasePrice string `json:"base_price"`

	Language  Language  `json:"language,omitempty"`
	Condition Condition `json:"condition,omitempty"`
	Foil      bool      `json:"foil"`
	Alternate bool      `json:"alternate"`
}

// PricingRequest is a validated PricingInput
type PricingRequest struct {
	BasePrice decimal.Decimal `json:"base_price"`
	Language  Language        `json:"language"`
	Condition Condition       `json:"condition"`
	Foil      bool            `json:"foil"`
	Alternate bool            `json:"alternate"`
}

// Coefficients is the additive breakdown applied to the base multiplier
type Coefficients struct {
	Language  decimal.Decimal `json:"language"`
	Condition decimal.Decimal `json:"condition"`
	Foil      decimal.Decimal `json:"foil"`
	Alternate decimal.Decimal `json:"alternate"`
}

// Sum returns the sum of all coefficients
func (c Coefficients) Sum() decimal.Decimal {
	return c.Language.Add(c.Condition).Add(c.Foil).Add(c.Alternate)
}

// Quote is the priced result of a request
type Quote struct {
	Request PricingRequest `json:"request"`

	Coefficients Coefficients `json:"coefficients"`

	// Multiplier is 1 + Coefficients.Sum(); it may be zero or negative
	Multiplier decimal.Decimal `json:"multiplier"`

	// Total is BasePrice * Multiplier, unrounded
	Total decimal.Decimal `json:"total"`

	// Formatted is Total with exactly two decimals
	Formatted string `json:"formatted"`

	// Formula documents how Total was derived
	Formula string `json:"formula"`
}
