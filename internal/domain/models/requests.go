package models

// HTTP request/response shapes bound by the API layer. Validation tags are
// enforced by pkg/http.ReadAndValidateRequest; defaults come from creasty.

// RecentDealsRequest bounds the multi-period collection window.
type RecentDealsRequest struct {
	Years int `query:"years" default:"1" validate:"omitempty,min=1,max=3"`
	Limit int `query:"limit" default:"100" validate:"omitempty,min=1,max=1000"`
}

// TransactionsRequest queries one calendar month of raw deals.
type TransactionsRequest struct {
	Period string `query:"period" validate:"required,len=6,numeric"`
	Page   int    `query:"page" default:"1" validate:"omitempty,min=1"`
	Size   int    `query:"size" default:"100" validate:"omitempty,min=1,max=1500"`
}

// RegionResolveRequest maps an administrative district to its legal code.
type RegionResolveRequest struct {
	Sido  string `query:"sido" validate:"required"`
	Gugun string `query:"gugun" validate:"required"`
	Dong  string `query:"dong" validate:"required"`
}

// ItemDetailRequest controls optional enrichment of the detail view.
type ItemDetailRequest struct {
	WithAccess bool `query:"withAccess"`
}

// ItemDetailResponse is the apartment detail plus optional enrichments.
type ItemDetailResponse struct {
	Info     *Apartment        `json:"info"`
	Access   *ProximitySummary `json:"access,omitempty"`
	LastDeal *DealSnapshot     `json:"lastDeal,omitempty"`
}
