package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cardprice/core/modifiers"
	"cardprice/core/types"
	"cardprice/internal/errors"
)

func input(base string, lang types.Language, cond types.Condition, foil, alt bool) types.PricingInput {
	return types.PricingInput{BasePrice: base, Language: lang, Condition: cond, Foil: foil, Alternate: alt}
}

func TestComputeKnownPrices(t *testing.T) {
	calc := NewCalculator(nil)

	tests := []struct {
		name string
		in   types.PricingInput
		want string
	}{
		{"ukrainian perfect", input("100", types.LanguageUkrainian, types.ConditionPerfect, false, false), "110.00"},
		{"english slightly damaged foil", input("100", types.LanguageEnglish, types.ConditionSlightlyDamaged, true, false), "130.00"},
		{"japanese alternate", input("100", types.LanguageJapanese, types.ConditionPerfect, false, true), "175.00"},
		{"italian heavily damaged", input("40", types.LanguageItalian, types.ConditionHeavilyDamaged, false, false), "18.00"},
		{"english foil alternate damaged", input("19.99", types.LanguageEnglish, types.ConditionDamaged, true, true), "30.98"},
		{"zero base", input("0", types.LanguageEnglish, types.ConditionPerfect, true, true), "0.00"},
		{"exponent notation", input("1e2", types.LanguageUkrainian, types.ConditionPerfect, false, false), "110.00"},
		{"surrounding spaces", input(" 100 ", types.LanguageUkrainian, types.ConditionPerfect, false, false), "110.00"},
		{"rounds half away from zero", input("0.05", types.LanguageUkrainian, types.ConditionPerfect, false, false), "0.06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := calc.Compute(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if quote.Formatted != tt.want {
				t.Errorf("got %s, want %s (formula %s)", quote.Formatted, tt.want, quote.Formula)
			}
		})
	}
}

func TestComputeValidationOrder(t *testing.T) {
	calc := NewCalculator(nil)

	tests := []struct {
		name     string
		in       types.PricingInput
		wantType errors.Type
		wantRule string
	}{
		{"negative base", input("-5", types.LanguageJapanese, types.ConditionPerfect, true, false), errors.TypeInvalidBasePrice, ""},
		{"negative base beats missing fields", input("-5", "", "", false, false), errors.TypeInvalidBasePrice, ""},
		{"not a number", input("abc", types.LanguageEnglish, types.ConditionPerfect, false, false), errors.TypeInvalidBasePrice, ""},
		{"empty base", input("", types.LanguageEnglish, types.ConditionPerfect, false, false), errors.TypeInvalidBasePrice, ""},
		{"nan", input("NaN", types.LanguageEnglish, types.ConditionPerfect, false, false), errors.TypeInvalidBasePrice, ""},
		{"infinity", input("Inf", types.LanguageEnglish, types.ConditionPerfect, false, false), errors.TypeInvalidBasePrice, ""},
		{"missing both", input("100", "", "", false, false), errors.TypeMissingLanguageAndCondition, ""},
		{"missing language", input("100", "", types.ConditionPerfect, false, false), errors.TypeMissingLanguage, ""},
		{"missing condition", input("100", types.LanguageEnglish, "", false, false), errors.TypeMissingCondition, ""},
		{"missing condition beats impossible", input("100", types.LanguageJapanese, "", true, false), errors.TypeMissingCondition, ""},
		{"japanese foil", input("100", types.LanguageJapanese, types.ConditionPerfect, true, false), errors.TypeImpossibleVariant, "japanese-foil"},
		{"italian alternate", input("100", types.LanguageItalian, types.ConditionPerfect, false, true), errors.TypeImpossibleVariant, "italian-variants"},
		{"italian foil", input("100", types.LanguageItalian, types.ConditionDamaged, true, false), errors.TypeImpossibleVariant, "italian-variants"},
		{"unknown language", input("100", "Klingon", types.ConditionPerfect, false, false), errors.TypeUnknownOption, ""},
		{"unknown condition", input("100", types.LanguageEnglish, "pristine", false, false), errors.TypeUnknownOption, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := calc.Compute(tt.in)
			if err == nil {
				t.Fatalf("expected %s, got price %s", tt.wantType, quote.Formatted)
			}
			e, ok := errors.As(err)
			if !ok {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if e.Type != tt.wantType {
				t.Errorf("got %s, want %s", e.Type, tt.wantType)
			}
			if tt.wantRule != "" && e.ContextString("rule") != tt.wantRule {
				t.Errorf("got rule %q, want %q", e.ContextString("rule"), tt.wantRule)
			}
		})
	}
}

func TestComputeMatchesFormulaForAllValidCombinations(t *testing.T) {
	calc := NewCalculator(nil)
	languages := map[types.Language]string{
		types.LanguageUkrainian: "0.1", types.LanguageEnglish: "0.05",
		types.LanguageJapanese: "0.25", types.LanguageItalian: "0.2",
	}
	conditions := map[types.Condition]string{
		types.ConditionPerfect: "0", types.ConditionSlightlyDamaged: "-0.25",
		types.ConditionDamaged: "-0.5", types.ConditionHeavilyDamaged: "-0.75",
	}
	bases := []string{"0", "1", "12.34", "100", "999.99"}
	half := decimal.RequireFromString("0.5")

	for lang, lc := range languages {
		for cond, cc := range conditions {
			for _, foil := range []bool{false, true} {
				for _, alt := range []bool{false, true} {
					if (lang == types.LanguageJapanese && foil) || (lang == types.LanguageItalian && (foil || alt)) {
						continue
					}
					sum := decimal.RequireFromString(lc).Add(decimal.RequireFromString(cc))
					if foil {
						sum = sum.Add(half)
					}
					if alt {
						sum = sum.Add(half)
					}
					for _, base := range bases {
						want := decimal.RequireFromString(base).Mul(decimal.NewFromInt(1).Add(sum)).StringFixed(2)
						quote, err := calc.Compute(input(base, lang, cond, foil, alt))
						if err != nil {
							t.Fatalf("%s/%s foil=%v alt=%v base=%s: %v", lang, cond, foil, alt, base, err)
						}
						if quote.Formatted != want {
							t.Errorf("%s/%s foil=%v alt=%v base=%s: got %s, want %s", lang, cond, foil, alt, base, quote.Formatted, want)
						}
					}
				}
			}
		}
	}
}

func TestComputeQuoteBreakdown(t *testing.T) {
	quote, err := NewCalculator(nil).Compute(input("100", types.LanguageEnglish, types.ConditionSlightlyDamaged, true, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Multiplier.Equal(decimal.RequireFromString("1.3")) {
		t.Errorf("multiplier = %s", quote.Multiplier)
	}
	if !quote.Coefficients.Alternate.IsZero() || !quote.Coefficients.Foil.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("coefficients = %+v", quote.Coefficients)
	}
	if quote.Formula != "100 * (1 + 0.05 + -0.25 + 0.5 + 0)" {
		t.Errorf("formula = %q", quote.Formula)
	}
	if !quote.Request.BasePrice.Equal(decimal.NewFromInt(100)) {
		t.Errorf("request base = %s", quote.Request.BasePrice)
	}
}

func TestComputePreservesNonPositiveMultiplier(t *testing.T) {
	spec := modifiers.Default().Spec()
	spec.Languages = append(spec.Languages, modifiers.LanguageModifier{
		Language:    "Cursed",
		Coefficient: decimal.RequireFromString("-0.5"),
	})
	calc := NewCalculator(modifiers.MustNew(spec))

	quote, err := calc.Compute(input("100", "Cursed", types.ConditionHeavilyDamaged, false, false))
	if err != nil {
		t.Fatalf("negative multiplier must not be rejected: %v", err)
	}
	if quote.Formatted != "-25.00" {
		t.Errorf("got %s, want -25.00", quote.Formatted)
	}

	quote, err = calc.Compute(input("100", "Cursed", types.ConditionDamaged, false, false))
	if err != nil {
		t.Fatalf("zero multiplier must not be rejected: %v", err)
	}
	if quote.Formatted != "0.00" {
		t.Errorf("got %s, want 0.00", quote.Formatted)
	}
}

func TestComputeUsesInjectedTable(t *testing.T) {
	table, err := modifiers.Parse([]byte(`
language "English" {
  coefficient = 1
}
condition "perfect" {
  coefficient = 0
}
variants {
  foil      = 2
  alternate = 0
}
`), "test.hcl")
	if err != nil {
		t.Fatal(err)
	}
	calc := NewCalculator(table)

	quote, err := calc.Compute(input("10", types.LanguageEnglish, types.ConditionPerfect, true, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Formatted != "40.00" {
		t.Errorf("got %s, want 40.00", quote.Formatted)
	}
	if calc.Table() != table {
		t.Error("calculator should own the injected table")
	}

	// no rules in this table, so Japanese is merely unknown
	_, err = calc.Compute(input("10", types.LanguageJapanese, types.ConditionPerfect, true, false))
	if !errors.IsType(err, errors.TypeUnknownOption) {
		t.Errorf("expected unknown option, got %v", err)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	calc := NewCalculator(nil)
	in := input("123.45", types.LanguageJapanese, types.ConditionSlightlyDamaged, false, true)

	first, err := calc.Compute(in)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := calc.Compute(in)
		if err != nil {
			t.Fatal(err)
		}
		if again.Formatted != first.Formatted || !again.Total.Equal(first.Total) {
			t.Fatalf("run %d: %s != %s", i, again.Formatted, first.Formatted)
		}
	}

	_, err1 := calc.Compute(input("-1", "", "", false, false))
	_, err2 := calc.Compute(input("-1", "", "", false, false))
	if err1.Error() != err2.Error() {
		t.Errorf("errors differ: %v vs %v", err1, err2)
	}
}

func TestParseBasePrice(t *testing.T) {
	valid := map[string]string{"0": "0", "7.5": "7.5", "+3": "3", "-0": "0", "2.5E1": "25"}
	for raw, want := range valid {
		got, err := ParseBasePrice(raw)
		if err != nil {
			t.Errorf("ParseBasePrice(%q) error: %v", raw, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("ParseBasePrice(%q) = %s, want %s", raw, got, want)
		}
	}

	for _, raw := range []string{"", "  ", "-0.01", "1,5", "ten", "1.2.3"} {
		if _, err := ParseBasePrice(raw); !errors.IsType(err, errors.TypeInvalidBasePrice) {
			t.Errorf("ParseBasePrice(%q) = %v, want invalid base price", raw, err)
		}
	}
}

func TestParseBasePriceBounds(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1e15", "1000000000000000"},
		{"999999999999999.99", "999999999999999.99"},
		{"0e999999999", "0"},
		{"1e-30", "0.000000000000000000000000000001"},
		{"1.500000000000000000000000000000", "1.5"},
	}
	for _, tt := range tests {
		got, err := ParseBasePrice(tt.raw)
		if err != nil {
			t.Errorf("ParseBasePrice(%q) error: %v", tt.raw, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseBasePrice(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}

	for _, raw := range []string{"1e2000000", "1e20000000", "1e2000000000", "1e-2000000000", "1000000000000000.01", "1e16", "1e-31"} {
		if _, err := ParseBasePrice(raw); !errors.IsType(err, errors.TypeInvalidBasePrice) {
			t.Errorf("ParseBasePrice(%q) = %v, want invalid base price", raw, err)
		}
	}
}

func TestComputeRejectsHugeExponentQuickly(t *testing.T) {
	calc := NewCalculator(nil)
	start := time.Now()

	for _, raw := range []string{"1e20000000", "1e2000000000"} {
		quote, err := calc.Compute(input(raw, types.LanguageEnglish, types.ConditionPerfect, false, false))
		if !errors.IsType(err, errors.TypeInvalidBasePrice) || quote != nil {
			t.Errorf("Compute(%q) = %v, %v; want invalid base price", raw, quote, err)
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("rejection took %s", elapsed)
	}
}

func TestFormatAmountHalfCents(t *testing.T) {
	tests := map[string]string{
		"0.055":   "0.06",
		"0.065":   "0.07",
		"2.675":   "2.68",
		"0.054":   "0.05",
		"-0.055":  "-0.06",
		"110":     "110.00",
		"30.9845": "30.98",
	}
	for in, want := range tests {
		if got := FormatAmount(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatAmount(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	calc := NewCalculator(nil)

	in, err := calc.Normalize(input("100", "japanese", "Slightly Damaged", false, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Language != types.LanguageJapanese || in.Condition != types.ConditionSlightlyDamaged {
		t.Errorf("normalized to %q / %q", in.Language, in.Condition)
	}

	if in, err := calc.Normalize(input("100", "  ", "", false, false)); err != nil || in.Language.IsSet() || in.Condition.IsSet() {
		t.Errorf("blank options should stay unset: %+v, %v", in, err)
	}

	if _, err := calc.Normalize(input("abc", "klingon", "perfect", false, false)); !errors.IsType(err, errors.TypeInvalidBasePrice) {
		t.Errorf("base price must be checked first, got %v", err)
	}

	_, err = calc.Normalize(input("100", "japanes", "perfect", false, false))
	if !errors.IsType(err, errors.TypeUnknownOption) {
		t.Fatalf("expected unknown option, got %v", err)
	}
	e, _ := errors.As(err)
	if e.ContextString("kind") != "language" || e.ContextString("value") != "japanes" {
		t.Errorf("context = %v", e.Context)
	}
}

func TestValidateRejectsOptionsOutsideTable(t *testing.T) {
	calc := NewCalculator(nil)

	if _, err := calc.Validate(input("100", types.LanguageEnglish, "pristine", false, false)); !errors.IsType(err, errors.TypeUnknownOption) {
		t.Fatalf("expected unknown option, got %v", err)
	}

	_, err := calc.Validate(input("100", "Klingon", types.ConditionPerfect, true, true))
	if e, ok := errors.As(err); !ok || e.ContextString("kind") != "language" {
		t.Errorf("unexpected error %v", err)
	}

	req, err := calc.Validate(input("100", types.LanguageItalian, types.ConditionDamaged, false, false))
	if err != nil || req.Language != types.LanguageItalian {
		t.Errorf("Validate = %+v, %v", req, err)
	}
}
