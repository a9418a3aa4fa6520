package models

// Apartment is the catalog record for a housing complex. The catalog is the
// authoritative side of reconciliation; upstream trade records are matched
// against these fields.
type Apartment struct {
	ID         string `json:"aptSeq"`
	Name       string `json:"aptName"`
	DongName   string `json:"dongName"`
	LotNumber  string `json:"lotNumber"`
	RegionCode string `json:"regionCode"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
	BuildYear  int    `json:"buildYear,omitempty"`
}

// RegionCode maps an administrative district to its legal dong code.
type RegionCode struct {
	Code      string `json:"code"`
	SidoName  string `json:"sidoName"`
	GugunName string `json:"gugunName"`
	DongName  string `json:"dongName"`
}
