package role

import (
	"fmt"

	"github.com/lcflow/accesskit/pkg/validator"
)

// RestrictionType discriminates the restriction union.
type RestrictionType string

const (
	RestrictionTimeBased    RestrictionType = "time_based"
	RestrictionIPBased      RestrictionType = "ip_based"
	RestrictionFeatureBased RestrictionType = "feature_based"
	RestrictionDataBased    RestrictionType = "data_based"
)

// Restriction narrows when or where a role (or an assignment of it) applies.
// Exactly one payload matching Type must be set. Enforcement happens in the
// platform's request pipeline; this package only validates and stores the
// shape.
type Restriction struct {
	Type       RestrictionType `bson:"type" json:"type"`
	TimeWindow *TimeWindow     `bson:"time_window,omitempty" json:"time_window,omitempty"`
	IPRange    *IPRange        `bson:"ip_range,omitempty" json:"ip_range,omitempty"`
	Feature    *FeatureGate    `bson:"feature,omitempty" json:"feature,omitempty"`
	Data       *DataScope      `bson:"data,omitempty" json:"data,omitempty"`
}

// TimeWindow limits a role to a daily time range, optionally on specific
// weekdays. Times are HH:MM in the organization's local time.
type TimeWindow struct {
	Start string   `bson:"start" json:"start"`
	End   string   `bson:"end" json:"end"`
	Days  []string `bson:"days,omitempty" json:"days,omitempty"`
}

// IPRange limits a role to requests originating from the listed CIDR blocks.
type IPRange struct {
	CIDRs []string `bson:"cidrs" json:"cidrs"`
}

// FeatureGate ties a role to a feature flag state.
type FeatureGate struct {
	Flag    string `bson:"flag" json:"flag"`
	Enabled bool   `bson:"enabled" json:"enabled"`
}

// DataScope limits a role to records matching a field condition, e.g.
// branch = "amsterdam".
type DataScope struct {
	Field string `bson:"field" json:"field"`
	Op    string `bson:"op" json:"op"`
	Value string `bson:"value" json:"value"`
}

var weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var dataScopeOps = []string{"eq", "ne", "in", "not_in"}

// Validate enforces the closed union shape: the payload selected by Type is
// present and well formed, and no other payload is set.
func (r *Restriction) Validate() error {
	switch r.Type {
	case RestrictionTimeBased:
		if r.TimeWindow == nil || r.IPRange != nil || r.Feature != nil || r.Data != nil {
			return fmt.Errorf("%w: time_based restriction requires exactly the time_window payload", ErrInvalidRestriction)
		}
		rules := []validator.Rule{
			validator.ValidTimeOfDay("start", r.TimeWindow.Start),
			validator.ValidTimeOfDay("end", r.TimeWindow.End),
		}
		for _, day := range r.TimeWindow.Days {
			rules = append(rules, validator.OneOf("days", day, weekdays))
		}
		if err := validator.Apply(rules...); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRestriction, err)
		}
	case RestrictionIPBased:
		if r.IPRange == nil || r.TimeWindow != nil || r.Feature != nil || r.Data != nil {
			return fmt.Errorf("%w: ip_based restriction requires exactly the ip_range payload", ErrInvalidRestriction)
		}
		if len(r.IPRange.CIDRs) == 0 {
			return fmt.Errorf("%w: ip_based restriction requires at least one CIDR", ErrInvalidRestriction)
		}
		rules := make([]validator.Rule, 0, len(r.IPRange.CIDRs))
		for _, cidr := range r.IPRange.CIDRs {
			rules = append(rules, validator.ValidCIDR("cidrs", cidr))
		}
		if err := validator.Apply(rules...); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRestriction, err)
		}
	case RestrictionFeatureBased:
		if r.Feature == nil || r.TimeWindow != nil || r.IPRange != nil || r.Data != nil {
			return fmt.Errorf("%w: feature_based restriction requires exactly the feature payload", ErrInvalidRestriction)
		}
		if r.Feature.Flag == "" {
			return fmt.Errorf("%w: feature flag name is required", ErrInvalidRestriction)
		}
	case RestrictionDataBased:
		if r.Data == nil || r.TimeWindow != nil || r.IPRange != nil || r.Feature != nil {
			return fmt.Errorf("%w: data_based restriction requires exactly the data payload", ErrInvalidRestriction)
		}
		if err := validator.Apply(
			validator.Required("field", r.Data.Field),
			validator.OneOf("op", r.Data.Op, dataScopeOps),
			validator.Required("value", r.Data.Value),
		); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRestriction, err)
		}
	default:
		return fmt.Errorf("%w: unknown restriction type %q", ErrInvalidRestriction, r.Type)
	}
	return nil
}
