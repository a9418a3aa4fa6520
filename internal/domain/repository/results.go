package repository

import "HomePulse/internal/domain/models"

// Per-unit upstream outcomes. Aggregation merges on these instead of
// swallowing errors inline, so a degraded unit is a visible branch.

// PoiOutcome is the result of one category search.
type PoiOutcome struct {
	Category models.ProximityCategory
	POI      *models.POI // nil on miss or failure
	Err      error       // non-nil only on transport failure after retry
}

// Miss reports whether the category produced no usable POI.
func (o PoiOutcome) Miss() bool { return o.Err != nil || o.POI == nil }

// PeriodOutcome is the result of fetching one calendar period.
type PeriodOutcome struct {
	Period  string // YYYYMM
	Records []models.TradeRecord
	Err     error // non-nil when every page attempt for the period failed
}

// Empty reports whether the period contributed no records.
func (o PeriodOutcome) Empty() bool { return o.Err != nil || len(o.Records) == 0 }
