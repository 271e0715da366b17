package model

import (
	"fmt"
	"strings"
)

// BatteryPolicy decides when prosumer surplus is pushed into storage.
// Keep these values stable; they are the config and CSV spelling.
type BatteryPolicy string

const (
	// BatteryNone leaves batteries untouched.
	BatteryNone BatteryPolicy = "none"
	// BatteryBeforeAuction stores surplus first and trades only the overflow.
	BatteryBeforeAuction BatteryPolicy = "bat_CDA"
	// BatteryAfterAuction trades raw surplus and stores whatever the auction left unsold.
	BatteryAfterAuction BatteryPolicy = "CDA_bat"
)

// BatteryPolicies lists the accepted policies in display order.
var BatteryPolicies = []BatteryPolicy{BatteryNone, BatteryBeforeAuction, BatteryAfterAuction}

// ParseBatteryPolicy is case-insensitive; the empty string means BatteryNone.
func ParseBatteryPolicy(s string) (BatteryPolicy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BatteryNone, nil
	}
	for _, p := range BatteryPolicies {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown battery policy %q (want none, bat_CDA or CDA_bat)", s)
}

// UsesBattery is false only for BatteryNone.
func (p BatteryPolicy) UsesBattery() bool {
	return p == BatteryBeforeAuction || p == BatteryAfterAuction
}

// MatchingMode selects how crossing orders are paired inside a round.
type MatchingMode string

const (
	// MatchRankPaired compares the i-th best bid with the i-th best ask only.
	MatchRankPaired MatchingMode = "rank_paired"
	// MatchGreedy repeatedly pairs the current best bid and best ask while they cross.
	MatchGreedy MatchingMode = "greedy"
)

var MatchingModes = []MatchingMode{MatchRankPaired, MatchGreedy}

func ParseMatchingMode(s string) (MatchingMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MatchRankPaired, nil
	}
	for _, m := range MatchingModes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown matching mode %q (want rank_paired or greedy)", s)
}
