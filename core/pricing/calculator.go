// Package pricing - Card price calculator
// Validation and pricing are pure: the only inputs are the raw values and the
// immutable modifier table owned by the Calculator.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cardprice/core/modifiers"
	"cardprice/core/types"
	"cardprice/internal/errors"
	"cardprice/internal/logging"
)

// Calculator prices cards against one modifier table
type Calculator struct {
	table *modifiers.Table
}

// NewCalculator creates a calculator. A nil table selects modifiers.Default().
func NewCalculator(table *modifiers.Table) *Calculator {
	if table == nil {
		table = modifiers.Default()
	}
	return &Calculator{table: table}
}

// Table returns the modifier table the calculator prices with
func (c *Calculator) Table() *modifiers.Table {
	return c.table
}

// Compute validates raw input and prices it.
// The returned error is always an *errors.Error.
func (c *Calculator) Compute(in types.PricingInput) (*types.Quote, error) {
	req, err := c.Validate(in)
	if err != nil {
		logging.Named("pricing").Debug("pricing input rejected",
			zap.String("base_price", in.BasePrice),
			zap.String("language", in.Language.String()),
			zap.String("condition", in.Condition.String()),
			zap.String("reason", string(errors.TypeOf(err))))
		return nil, err
	}
	return c.Price(*req)
}

// Normalize maps free-text language and condition names onto the table's
// canonical values. The base price is checked first so a bad amount is still
// reported before an unknown option.
func (c *Calculator) Normalize(in types.PricingInput) (types.PricingInput, error) {
	if _, err := ParseBasePrice(in.BasePrice); err != nil {
		return in, err
	}
	lang, err := c.table.ResolveLanguage(in.Language.String())
	if err != nil {
		return in, err
	}
	cond, err := c.table.ResolveCondition(in.Condition.String())
	if err != nil {
		return in, err
	}
	in.Language, in.Condition = lang, cond
	return in, nil
}

// Validate runs the input checks in order; the first failing check wins.
func (c *Calculator) Validate(in types.PricingInput) (*types.PricingRequest, error) {
	base, err := ParseBasePrice(in.BasePrice)
	if err != nil {
		return nil, err
	}

	switch {
	case !in.Language.IsSet() && !in.Condition.IsSet():
		return nil, errors.New(errors.TypeMissingLanguageAndCondition, "language and condition are required")
	case !in.Language.IsSet():
		return nil, errors.New(errors.TypeMissingLanguage, "language is required")
	case !in.Condition.IsSet():
		return nil, errors.New(errors.TypeMissingCondition, "condition is required")
	}

	if rule, ok := c.table.MatchRule(in.Language, in.Foil, in.Alternate); ok {
		return nil, errors.ImpossibleVariant(rule.ID, in.Language.String())
	}

	// Rules only name known languages, so this cannot hide an impossible variant
	switch {
	case !c.table.HasLanguage(in.Language):
		return nil, errors.UnknownOption("language", in.Language.String(), nil)
	case !c.table.HasCondition(in.Condition):
		return nil, errors.UnknownOption("condition", in.Condition.String(), nil)
	}

	return &types.PricingRequest{
		BasePrice: base,
		Language:  in.Language,
		Condition: in.Condition,
		Foil:      in.Foil,
		Alternate: in.Alternate,
	}, nil
}

// Price computes base * (1 + language + condition + foil + alternate).
// A zero or negative multiplier is not rejected.
func (c *Calculator) Price(req types.PricingRequest) (*types.Quote, error) {
	langCoef, ok := c.table.LanguageCoefficient(req.Language)
	if !ok {
		return nil, errors.UnknownOption("language", req.Language.String(), nil)
	}
	condCoef, ok := c.table.ConditionCoefficient(req.Condition)
	if !ok {
		return nil, errors.UnknownOption("condition", req.Condition.String(), nil)
	}

	coefs := types.Coefficients{
		Language:  langCoef,
		Condition: condCoef,
		Foil:      decimal.Zero,
		Alternate: decimal.Zero,
	}
	if req.Foil {
		coefs.Foil = c.table.FoilCoefficient()
	}
	if req.Alternate {
		coefs.Alternate = c.table.AlternateCoefficient()
	}

	multiplier := decimal.NewFromInt(1).Add(coefs.Sum())
	total := req.BasePrice.Mul(multiplier)

	quote := &types.Quote{
		Request:      req,
		Coefficients: coefs,
		Multiplier:   multiplier,
		Total:        total,
		Formatted:    FormatAmount(total),
		Formula: fmt.Sprintf("%s * (1 + %s + %s + %s + %s)",
			req.BasePrice, coefs.Language, coefs.Condition, coefs.Foil, coefs.Alternate),
	}

	if !multiplier.IsPositive() {
		logging.Named("pricing").Warn("non-positive price multiplier",
			zap.String("language", req.Language.String()),
			zap.String("condition", req.Condition.String()),
			zap.String("multiplier", multiplier.String()))
	}
	logging.Named("pricing").Debug("card priced",
		zap.String("formula", quote.Formula),
		zap.String("total", quote.Formatted))

	return quote, nil
}

// Bounds on an accepted base price
const (
	// MaxBasePriceDigits is the number of integer digits allowed (up to 10^15)
	MaxBasePriceDigits = 15

	// MaxBasePriceScale is the number of fractional digits allowed
	MaxBasePriceScale = 30
)

// MaxBasePrice is the largest accepted base price
var MaxBasePrice = decimal.New(1, MaxBasePriceDigits)

// ParseBasePrice parses user text into a non-negative amount no larger than MaxBasePrice.
// The exponent is checked before any arithmetic: "1e2000000000" is rejected without
// materializing its digits.
func ParseBasePrice(raw string) (decimal.Decimal, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decimal.Zero, errors.InvalidBasePrice(raw, nil)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, errors.InvalidBasePrice(raw, err)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.InvalidBasePrice(raw, nil)
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if exp := d.Exponent(); exp > MaxBasePriceDigits || exp < -MaxBasePriceScale {
		return decimal.Zero, errors.InvalidBasePrice(raw, nil).
			WithContext("exponent", exp)
	}
	if d.GreaterThan(MaxBasePrice) {
		return decimal.Zero, errors.InvalidBasePrice(raw, nil).
			WithContext("max", MaxBasePrice.String())
	}
	return d, nil
}

// FormatAmount renders an amount with exactly two decimals, rounding half away from zero
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
