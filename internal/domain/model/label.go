package model

import (
	"errors"
	"fmt"
	"strings"
)

// LabelType selects the moment dimension a CategoryLabel tests.
type LabelType string

// Label types.
const (
	LabelTeam     LabelType = "team"
	LabelTier     LabelType = "tier"
	LabelSeason   LabelType = "season"
	LabelPlayType LabelType = "playType"
)

// ErrBadLabel reports a label that cannot be parsed.
var ErrBadLabel = errors.New("bad category label")

// LabelTypes lists label types in bare-value resolution order.
func LabelTypes() []LabelType {
	return []LabelType{LabelTeam, LabelTier, LabelSeason, LabelPlayType}
}

// ParseLabelType matches s against the label types case-insensitively.
func ParseLabelType(s string) (LabelType, bool) {
	for _, t := range LabelTypes() {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

// CategoryLabel is one grid axis entry.
type CategoryLabel struct {
	Type  LabelType `json:"type"`
	Value string    `json:"value"`
}

// TeamLabel, TierLabel, SeasonLabel and PlayTypeLabel build labels.
func TeamLabel(v string) CategoryLabel     { return CategoryLabel{Type: LabelTeam, Value: v} }
func TierLabel(t Tier) CategoryLabel       { return CategoryLabel{Type: LabelTier, Value: string(t)} }
func SeasonLabel(v string) CategoryLabel   { return CategoryLabel{Type: LabelSeason, Value: v} }
func PlayTypeLabel(v string) CategoryLabel { return CategoryLabel{Type: LabelPlayType, Value: v} }

// ConflictsWith reports whether l and o name the same category.
func (l CategoryLabel) ConflictsWith(o CategoryLabel) bool {
	return l.Type == o.Type && l.Value == o.Value
}

// String renders the label as "type:value".
func (l CategoryLabel) String() string {
	return string(l.Type) + ":" + l.Value
}

// ParseLabel parses "type:value". ok is false when s carries no known type prefix,
// in which case the caller resolves the bare value against a catalog.
func ParseLabel(s string) (label CategoryLabel, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryLabel{}, false, fmt.Errorf("%w: empty", ErrBadLabel)
	}
	prefix, value, found := strings.Cut(s, ":")
	if !found {
		return CategoryLabel{}, false, nil
	}
	typ, known := ParseLabelType(prefix)
	if !known {
		// Values such as "2019-20" never contain a colon, but a team could.
		return CategoryLabel{}, false, nil
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return CategoryLabel{}, false, fmt.Errorf("%w: %q has no value", ErrBadLabel, s)
	}
	if typ == LabelTier {
		tier, okTier := ParseTier(value)
		if !okTier {
			return CategoryLabel{}, false, fmt.Errorf("%w: unknown tier %q", ErrBadLabel, value)
		}
		value = string(tier)
	}
	return CategoryLabel{Type: typ, Value: value}, true, nil
}
