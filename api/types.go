// Package api - API types for card pricing
// These types define the contract for the /api/v1 endpoints.
// The API is stateless, idempotent, and deterministic.
package api

import (
	"encoding/json"
	"strings"
	"time"

	"cardprice/core/output"
)

// PriceRequest is the input to POST /api/v1/price
type PriceRequest struct {
	// BasePrice accepts a JSON number or a string
	BasePrice json.RawMessage `json:"base_price"`

	// Language and Condition are matched case-insensitively; empty means unset
	Language  string `json:"language,omitempty"`
	Condition string `json:"condition,omitempty"`

	Foil      bool `json:"foil"`
	Alternate bool `json:"alternate"`
}

// BasePriceText returns the base price as the text a form field would hold
func (r *PriceRequest) BasePriceText() string {
	raw := strings.TrimSpace(string(r.BasePrice))
	if raw == "" || raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.BasePrice, &s); err == nil {
		return s
	}
	return raw
}

// PriceResponse is the output of POST /api/v1/price
type PriceResponse struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	output.QuoteResult
}

// ErrorBody is the envelope for transport-level failures
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a transport-level failure
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
