package models

import "energy-market/internal/config"

// SimulateRequest is the body of POST /api/v1/simulate.
// Unset config fields take the same defaults as a scenario file.
type SimulateRequest struct {
	Config  config.Config   `json:"config"`
	Options SimulateOptions `json:"options,omitempty"`
}

type SimulateOptions struct {
	IncludeLedger       bool `json:"include_ledger,omitempty"`       // default: false
	IncludeParticipants bool `json:"include_participants,omitempty"` // default: false
}

// CompareRequest runs every variation merged onto BaseConfig. Only the fields
// a variation sets replace the base; an explicit zero counts as set.
type CompareRequest struct {
	BaseConfig config.Config `json:"base_config"`
	Variations []Variation   `json:"variations" binding:"required,min=1,dive"`
}

type Variation struct {
	Name   string          `json:"name" binding:"required"`
	Config config.Override `json:"config"`
}
