package models

// TradeRecord is one row of the government apt-trade open API. Fields arrive
// as free-form strings with inconsistent naming; numeric fields are parsed
// best-effort and left zero when absent or malformed.
type TradeRecord struct {
	DealAmount      string  `json:"dealAmount"` // minor unit (만원), commas stripped
	DealYear        int     `json:"dealYear"`
	DealMonth       int     `json:"dealMonth"`
	DealDay         int     `json:"dealDay"`
	AptName         string  `json:"aptName"`
	Dong            string  `json:"dong"`
	Jibun           string  `json:"jibun"`
	ExclusiveAreaM2 float64 `json:"exclusiveArea"`
	Floor           int     `json:"floor"`
	RegionCode      string  `json:"regionCode"`
	SerialNo        string  `json:"serialNo,omitempty"`
	BuildYear       string  `json:"buildYear,omitempty"`
	RoadName        string  `json:"roadName,omitempty"`
}

// DealSnapshot is the reconciled "latest sale" for one apartment. AmountKRW
// is in full won (upstream reports 만원), AreaPyeong is rounded to 2 decimals.
type DealSnapshot struct {
	AmountKRW  int64   `json:"amountKrw"`
	DealYear   int     `json:"dealYear"`
	DealMonth  int     `json:"dealMonth"`
	DealDay    int     `json:"dealDay"`
	AreaPyeong float64 `json:"areaPyeong"`
}

// DealScope selects what a multi-period collection runs against: one
// apartment (matched fuzzily) or a whole region code (unfiltered).
type DealScope struct {
	ApartmentID string
	RegionCode  string
}

// ByApartment returns true when the scope targets a single complex.
func (s DealScope) ByApartment() bool { return s.ApartmentID != "" }
