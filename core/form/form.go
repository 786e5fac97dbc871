// Package form maps pricing form submissions to the single output string.
//
// The form owns its display state (field values and the submit count); the
// calculator stays pure. Nothing is validated or priced before the first submit.
package form

import (
	"net/url"
	"strconv"
	"strings"

	"cardprice/core/messages"
	"cardprice/core/pricing"
	"cardprice/core/types"
)

// Form field names
const (
	FieldBasePrice = "base_price"
	FieldLanguage  = "language"
	FieldCondition = "condition"
	FieldFoil      = "foil"
	FieldAlternate = "alternate"
	FieldClicks    = "clicks"
)

// Toggle values of the foil and alternate radios
const (
	Yes = "yes"
	No  = "no"
)

// DefaultBasePrice pre-fills the base price field
const DefaultBasePrice = "100"

// MaxClicks caps the posted click counter so incrementing it never overflows
const MaxClicks = 1 << 20

// Submission is the form state at the moment of a trigger
type Submission struct {
	// Clicks counts submit activations so far, including this one
	Clicks int
	Input  types.PricingInput
}

// Outcome is what the output area shows
type Outcome struct {
	// Shown is false in the initial state, before any submit
	Shown bool
	Text  string
	Quote *types.Quote
	Err   error
}

// Initial returns the state of a freshly rendered form
func Initial() Submission {
	return Submission{Input: types.PricingInput{BasePrice: DefaultBasePrice}}
}

// Decode reads a submission from posted form values
func Decode(values url.Values) Submission {
	clicks, err := strconv.Atoi(strings.TrimSpace(values.Get(FieldClicks)))
	switch {
	case err != nil || clicks < 0:
		clicks = 0
	case clicks > MaxClicks:
		clicks = MaxClicks
	}
	return Submission{
		Clicks: clicks,
		Input: types.PricingInput{
			BasePrice: values.Get(FieldBasePrice),
			Language:  types.Language(strings.TrimSpace(values.Get(FieldLanguage))),
			Condition: types.Condition(strings.TrimSpace(values.Get(FieldCondition))),
			Foil:      values.Get(FieldFoil) == Yes,
			Alternate: values.Get(FieldAlternate) == Yes,
		},
	}
}

// Encode writes a submission back to form values
func (s Submission) Encode() url.Values {
	v := url.Values{}
	v.Set(FieldClicks, strconv.Itoa(s.Clicks))
	v.Set(FieldBasePrice, s.Input.BasePrice)
	v.Set(FieldLanguage, s.Input.Language.String())
	v.Set(FieldCondition, s.Input.Condition.String())
	v.Set(FieldFoil, toggle(s.Input.Foil))
	v.Set(FieldAlternate, toggle(s.Input.Alternate))
	return v
}

func toggle(b bool) string {
	if b {
		return Yes
	}
	return No
}

// Evaluate runs one computation pass for a submission
func Evaluate(calc *pricing.Calculator, catalog *messages.Catalog, sub Submission) Outcome {
	if sub.Clicks < 1 {
		return Outcome{}
	}

	quote, err := calc.Compute(sub.Input)
	if err != nil {
		return Outcome{Shown: true, Text: catalog.Message(err), Err: err}
	}
	return Outcome{Shown: true, Text: catalog.Price(quote), Quote: quote}
}
