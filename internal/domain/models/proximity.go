package models

// ProximityCategory is one of the fixed POI categories summarized around an
// apartment. The declared order is the output order.
type ProximityCategory struct {
	Label string // human label shown to clients
	Code  string // upstream category group code
}

// Categories is the fixed category set, in output order.
var Categories = []ProximityCategory{
	{Label: "지하철", Code: "SW8"},
	{Label: "마트", Code: "MT1"},
	{Label: "편의점", Code: "CS2"},
	{Label: "학교", Code: "SC4"},
	{Label: "병원", Code: "HP8"},
	{Label: "약국", Code: "PM9"},
	{Label: "카페", Code: "CE7"},
}

// POI is a single point of interest returned by the map upstream. DistanceM
// is nil when the upstream did not compute a distance.
type POI struct {
	Name      string
	Latitude  float64
	Longitude float64
	DistanceM *int
}

// ProximityItem is one category row in a summary. On a miss Name is empty,
// DistanceM equals the search radius and WalkLabel is the boundary label, so
// every field is always populated.
type ProximityItem struct {
	Category  string `json:"type"`
	Name      string `json:"name"`
	DistanceM int    `json:"distanceM"`
	WalkLabel string `json:"onFootMin"`
}

// Origin is the coordinate pair a summary was computed from.
type Origin struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// ProximitySummary is the cached walk-time summary for one apartment.
type ProximitySummary struct {
	ApartmentID string          `json:"aptSeq"`
	Origin      Origin          `json:"origin"`
	Items       []ProximityItem `json:"items"`
}
