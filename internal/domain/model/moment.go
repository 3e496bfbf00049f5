// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Tier is the rarity classification of a moment.
type Tier string

// Known tiers.
const (
	TierCommon    Tier = "Common"
	TierRare      Tier = "Rare"
	TierLegendary Tier = "Legendary"
)

// Tiers lists every known tier in ascending rarity.
func Tiers() []Tier { return []Tier{TierCommon, TierRare, TierLegendary} }

// ParseTier matches s against the known tiers case-insensitively.
func ParseTier(s string) (Tier, bool) {
	for _, t := range Tiers() {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

// Moment is one immutable catalog record.
type Moment struct {
	Player       string         `json:"player"`
	Team         string         `json:"team"`
	Tier         Tier           `json:"tier"`
	Season       string         `json:"season"`
	PlayType     string         `json:"playType"`
	DateOfMoment time.Time      `json:"dateOfMoment"`
	PlayID       int64          `json:"playID,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// RawMoment is a catalog record as supplied by a catalog source, before validation.
// Player is a pointer so a structurally absent field can be told apart from an empty one.
type RawMoment struct {
	Player       *string        `json:"player"`
	Team         string         `json:"team"`
	Tier         string         `json:"tier"`
	Season       string         `json:"season"`
	PlayType     string         `json:"playType"`
	DateOfMoment string         `json:"dateOfMoment"`
	PlayID       int64          `json:"playID,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`

	// Malformed marks a record the source could not decode. It is dropped on load.
	Malformed bool `json:"-"`
}

// DateLayout is the calendar date format used for moments and grid dates.
const DateLayout = "2006-01-02"
