// Package output renders quotes and modifier tables for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"cardprice/core/messages"
	"cardprice/core/modifiers"
	"cardprice/core/types"
	"cardprice/core/ui"
	"cardprice/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatText is the single display string
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatCLI is a human-readable summary with breakdown
	FormatCLI Format = "cli"

	// FormatHCL is a modifier table file (tables only)
	FormatHCL Format = "hcl"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCLI, FormatHCL:
		return f, nil
	}
	return "", errors.Newf(errors.TypeConfig, "unknown output format %q (text, json, cli, hcl)", s)
}

// QuoteResult is the JSON shape of one computation
type QuoteResult struct {
	// Message is the display string, a price or an error sentence
	Message string       `json:"message"`
	Price   string       `json:"price,omitempty"`
	Quote   *types.Quote `json:"quote,omitempty"`
	Error   *ErrorInfo   `json:"error,omitempty"`
}

// ErrorInfo describes a failed computation
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// NewQuoteResult builds the result for a quote or an error
func NewQuoteResult(catalog *messages.Catalog, quote *types.Quote, err error) QuoteResult {
	if err != nil {
		info := &ErrorInfo{Code: string(errors.TypeOf(err)), Message: catalog.Message(err)}
		if e, ok := errors.As(err); ok {
			info.Context = e.Context
		}
		return QuoteResult{Message: info.Message, Error: info}
	}
	return QuoteResult{Message: catalog.Price(quote), Price: quote.Formatted, Quote: quote}
}

// TableView is the serializable form of a modifier table
type TableView struct {
	Languages          []ModifierView   `json:"languages"`
	Conditions         []ModifierView   `json:"conditions"`
	Foil               decimal.Decimal  `json:"foil"`
	Alternate          decimal.Decimal  `json:"alternate"`
	ImpossibleVariants []modifiers.Rule `json:"impossible_variants"`
}

// ModifierView is one labelled table row
type ModifierView struct {
	Name        string          `json:"name"`
	Label       string          `json:"label"`
	Coefficient decimal.Decimal `json:"coefficient"`
}

// NewTableView labels a table for the catalog's locale
func NewTableView(table *modifiers.Table, catalog *messages.Catalog) TableView {
	view := TableView{
		Foil:               table.FoilCoefficient(),
		Alternate:          table.AlternateCoefficient(),
		ImpossibleVariants: table.Rules(),
	}
	for _, l := range table.Languages() {
		view.Languages = append(view.Languages, ModifierView{
			Name:        l.Language.String(),
			Label:       catalog.LanguageLabel(l.Language),
			Coefficient: l.Coefficient,
		})
	}
	for _, c := range table.Conditions() {
		view.Conditions = append(view.Conditions, ModifierView{
			Name:        c.Condition.String(),
			Label:       catalog.ConditionLabel(c.Condition),
			Coefficient: c.Coefficient,
		})
	}
	return view
}

// Renderer writes results in one format
type Renderer struct {
	format  Format
	catalog *messages.Catalog
	noColor bool
}

// NewRenderer creates a renderer
func NewRenderer(format Format, catalog *messages.Catalog, noColor bool) *Renderer {
	return &Renderer{format: format, catalog: catalog, noColor: noColor}
}

// RenderQuote writes the outcome of one computation
func (r *Renderer) RenderQuote(w io.Writer, quote *types.Quote, err error) error {
	result := NewQuoteResult(r.catalog, quote, err)

	switch r.format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCLI:
		out := ui.NewWriter(w, r.noColor)
		if err != nil {
			out.Error("%s", result.Message)
			return nil
		}
		summary := out.NewQuoteSummary()
		summary.Title = r.catalog.UI().Title
		summary.Price = result.Message
		summary.Formula = quote.Formula
		if !quote.Multiplier.IsPositive() {
			summary.Warning = fmt.Sprintf("multiplier %s is not positive", quote.Multiplier)
		}
		summary.Render()
		return nil
	case FormatText:
		_, werr := fmt.Fprintln(w, result.Message)
		return werr
	}
	return errors.Newf(errors.TypeConfig, "format %q cannot render a quote", r.format)
}

// RenderTable writes a modifier table
func (r *Renderer) RenderTable(w io.Writer, table *modifiers.Table) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(w, NewTableView(table, r.catalog))
	case FormatHCL:
		src, err := modifiers.Encode(table)
		if err != nil {
			return err
		}
		_, err = w.Write(src)
		return err
	case FormatCLI, FormatText:
		view := NewTableView(table, r.catalog)
		out := ui.NewWriter(w, r.noColor || r.format == FormatText)

		langs := out.NewTable("language", "label", "coefficient")
		for _, l := range view.Languages {
			langs.AddRow(l.Name, l.Label, l.Coefficient.String())
		}
		langs.Render()
		out.Println("")

		conds := out.NewTable("condition", "label", "coefficient")
		for _, c := range view.Conditions {
			conds.AddRow(c.Name, c.Label, c.Coefficient.String())
		}
		conds.Render()
		out.Println("")

		out.Println("foil: %s  alternate: %s", view.Foil, view.Alternate)
		for _, rule := range view.ImpossibleVariants {
			var excluded []string
			if rule.Foil {
				excluded = append(excluded, "foil")
			}
			if rule.Alternate {
				excluded = append(excluded, "alternate")
			}
			out.Println("impossible %s: %s %s", rule.ID, rule.Language, strings.Join(excluded, "/"))
		}
		return nil
	}
	return errors.Newf(errors.TypeConfig, "format %q cannot render a table", r.format)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
