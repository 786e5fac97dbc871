package modifiers

import (
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"cardprice/core/types"
	"cardprice/internal/errors"
)

// tableFile is the HCL layout of a modifier table:
//
//	language "Japanese" { coefficient = 0.25 }
//	condition "damaged" { coefficient = -0.5 }
//	variants { foil = 0.5  alternate = 0.5 }
//	impossible "japanese-foil" { language = "Japanese"  foil = true }
type tableFile struct {
	Languages  []languageBlock  `hcl:"language,block"`
	Conditions []conditionBlock `hcl:"condition,block"`
	Variants   variantsBlock    `hcl:"variants,block"`
	Rules      []ruleBlock      `hcl:"impossible,block"`
}

type languageBlock struct {
	Name        string  `hcl:"name,label"`
	Coefficient float64 `hcl:"coefficient"`
}

type conditionBlock struct {
	Name        string  `hcl:"name,label"`
	Coefficient float64 `hcl:"coefficient"`
}

type variantsBlock struct {
	Foil      float64 `hcl:"foil"`
	Alternate float64 `hcl:"alternate"`
}

type ruleBlock struct {
	ID        string `hcl:"id,label"`
	Language  string `hcl:"language"`
	Foil      bool   `hcl:"foil,optional"`
	Alternate bool   `hcl:"alternate,optional"`
}

// LoadFile reads an HCL modifier table from disk
func LoadFile(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("failed to read modifier table "+path, err)
	}
	return Parse(src, path)
}

// Parse decodes an HCL modifier table. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Table, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Config("failed to parse modifier table", diags)
	}

	var tf tableFile
	if diags := gohcl.DecodeBody(file.Body, nil, &tf); diags.HasErrors() {
		return nil, errors.Config("failed to decode modifier table", diags)
	}

	spec := Spec{
		Foil:      decimal.NewFromFloat(tf.Variants.Foil),
		Alternate: decimal.NewFromFloat(tf.Variants.Alternate),
	}
	for _, l := range tf.Languages {
		spec.Languages = append(spec.Languages, LanguageModifier{
			Language:    types.Language(l.Name),
			Coefficient: decimal.NewFromFloat(l.Coefficient),
		})
	}
	for _, c := range tf.Conditions {
		spec.Conditions = append(spec.Conditions, ConditionModifier{
			Condition:   types.Condition(c.Name),
			Coefficient: decimal.NewFromFloat(c.Coefficient),
		})
	}
	for _, r := range tf.Rules {
		spec.Rules = append(spec.Rules, Rule{
			ID:        r.ID,
			Language:  types.Language(r.Language),
			Foil:      r.Foil,
			Alternate: r.Alternate,
		})
	}

	return New(spec)
}

// Encode renders the table as HCL accepted by Parse
func Encode(t *Table) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for _, l := range t.Languages() {
		n, err := numberVal(l.Coefficient)
		if err != nil {
			return nil, err
		}
		body.AppendNewBlock("language", []string{l.Language.String()}).Body().SetAttributeValue("coefficient", n)
	}
	body.AppendNewline()

	for _, c := range t.Conditions() {
		n, err := numberVal(c.Coefficient)
		if err != nil {
			return nil, err
		}
		body.AppendNewBlock("condition", []string{c.Condition.String()}).Body().SetAttributeValue("coefficient", n)
	}
	body.AppendNewline()

	foil, err := numberVal(t.FoilCoefficient())
	if err != nil {
		return nil, err
	}
	alternate, err := numberVal(t.AlternateCoefficient())
	if err != nil {
		return nil, err
	}
	variants := body.AppendNewBlock("variants", nil).Body()
	variants.SetAttributeValue("foil", foil)
	variants.SetAttributeValue("alternate", alternate)

	for _, r := range t.Rules() {
		body.AppendNewline()
		rb := body.AppendNewBlock("impossible", []string{r.ID}).Body()
		rb.SetAttributeValue("language", cty.StringVal(r.Language.String()))
		if r.Foil {
			rb.SetAttributeValue("foil", cty.True)
		}
		if r.Alternate {
			rb.SetAttributeValue("alternate", cty.True)
		}
	}

	return hclwrite.Format(f.Bytes()), nil
}

func numberVal(d decimal.Decimal) (cty.Value, error) {
	v, err := cty.ParseNumberVal(d.String())
	if err != nil {
		return cty.NilVal, errors.Internal("failed to encode coefficient "+d.String(), err)
	}
	return v, nil
}
