package models

import (
	"energy-market/internal/analysis"
	"energy-market/internal/simulation"
)

// SimulateResponse is returned by POST /api/v1/simulate and as the final
// message of a stream.
type SimulateResponse struct {
	ID           string                          `json:"id,omitempty"`
	Status       string                          `json:"status"`
	Summary      analysis.Summary                `json:"summary"`
	Participants []simulation.ParticipantSummary `json:"participants,omitempty"`
	Ledger       []simulation.LedgerRow          `json:"ledger,omitempty"`
}

type LedgerResponse struct {
	ID     string                 `json:"id"`
	Ledger []simulation.LedgerRow `json:"ledger"`
}

type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult is one variation. Rank is 1-based by community welfare;
// variations that failed have Rank 0 and an Error.
type ComparisonResult struct {
	Rank    int              `json:"rank"`
	Name    string           `json:"name"`
	Summary analysis.Summary `json:"summary"`
	Error   string           `json:"error,omitempty"`
}

type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type StrategiesResponse struct {
	Strategies      []StrategyInfo `json:"strategies"`
	BatteryPolicies []string       `json:"battery_policies"`
	MatchingModes   []string       `json:"matching_modes"`
}

// StreamMessage is one websocket frame: type is "slot", "summary" or "error".
type StreamMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewError builds an ErrorResponse without details.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
