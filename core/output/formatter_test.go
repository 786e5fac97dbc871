package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"cardprice/core/messages"
	"cardprice/core/modifiers"
	"cardprice/core/pricing"
	"cardprice/core/types"
	"cardprice/internal/errors"
)

func quote(t *testing.T, in types.PricingInput) (*types.Quote, error) {
	t.Helper()
	return pricing.NewCalculator(nil).Compute(in)
}

func TestRenderQuoteText(t *testing.T) {
	q, err := quote(t, types.PricingInput{BasePrice: "100", Language: types.LanguageUkrainian, Condition: types.ConditionPerfect})
	var buf bytes.Buffer
	if rerr := NewRenderer(FormatText, messages.MustFor("en"), true).RenderQuote(&buf, q, err); rerr != nil {
		t.Fatal(rerr)
	}
	if buf.String() != "Price: 110.00\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestRenderQuoteJSONError(t *testing.T) {
	q, err := quote(t, types.PricingInput{BasePrice: "100", Language: types.LanguageJapanese, Condition: types.ConditionPerfect, Foil: true})
	var buf bytes.Buffer
	if rerr := NewRenderer(FormatJSON, messages.MustFor("uk"), true).RenderQuote(&buf, q, err); rerr != nil {
		t.Fatal(rerr)
	}

	var got QuoteResult
	if jerr := json.Unmarshal(buf.Bytes(), &got); jerr != nil {
		t.Fatalf("invalid json: %v\n%s", jerr, buf.String())
	}
	if got.Error == nil || got.Error.Code != string(errors.TypeImpossibleVariant) {
		t.Fatalf("unexpected error info %+v", got.Error)
	}
	if got.Message != "Японські фольговані карти не існують." {
		t.Errorf("message = %q", got.Message)
	}
	if got.Error.Context["rule"] != "japanese-foil" {
		t.Errorf("context = %v", got.Error.Context)
	}
	if got.Price != "" || got.Quote != nil {
		t.Errorf("error result carries a price: %+v", got)
	}
}

func TestRenderQuoteCLI(t *testing.T) {
	q, err := quote(t, types.PricingInput{BasePrice: "100", Language: types.LanguageEnglish, Condition: types.ConditionSlightlyDamaged, Foil: true})
	var buf bytes.Buffer
	if rerr := NewRenderer(FormatCLI, messages.MustFor("en"), true).RenderQuote(&buf, q, err); rerr != nil {
		t.Fatal(rerr)
	}
	out := buf.String()
	for _, want := range []string{"Collectible Card Price Calculator", "Price: 130.00", "100 * (1 + 0.05 + -0.25 + 0.5 + 0)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("noColor output contains ANSI escapes")
	}
}

func TestRenderTableFormats(t *testing.T) {
	table := modifiers.Default()

	var text bytes.Buffer
	if err := NewRenderer(FormatText, messages.MustFor("uk"), false).RenderTable(&text, table); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Японська", "сильно пошкоджений", "-0.75", "impossible japanese-foil: Japanese foil", "impossible italian-variants: Italian foil/alternate"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("text table missing %q:\n%s", want, text.String())
		}
	}

	var js bytes.Buffer
	if err := NewRenderer(FormatJSON, messages.MustFor("en"), false).RenderTable(&js, table); err != nil {
		t.Fatal(err)
	}
	var view struct {
		Languages []struct {
			Name        string `json:"name"`
			Coefficient string `json:"coefficient"`
		} `json:"languages"`
		Foil string `json:"foil"`
	}
	if err := json.Unmarshal(js.Bytes(), &view); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(view.Languages) != 4 || view.Languages[2].Name != "Japanese" || view.Languages[2].Coefficient != "0.25" || view.Foil != "0.5" {
		t.Errorf("unexpected view %+v", view)
	}

	var hcl bytes.Buffer
	if err := NewRenderer(FormatHCL, messages.MustFor("en"), false).RenderTable(&hcl, table); err != nil {
		t.Fatal(err)
	}
	parsed, err := modifiers.Parse(hcl.Bytes(), "out.hcl")
	if err != nil || !parsed.Equal(table) {
		t.Errorf("hcl output does not parse back: %v\n%s", err, hcl.String())
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %q, %v", f, err)
	}
	if _, err := ParseFormat("yaml"); !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected config error, got %v", err)
	}
	if err := NewRenderer(FormatHCL, messages.MustFor("en"), true).RenderQuote(&bytes.Buffer{}, nil, errors.Internal("x", nil)); err == nil {
		t.Error("hcl cannot render quotes")
	}
}
