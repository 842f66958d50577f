package dto

// EastmoneyListResponse is the envelope of the push2 clist API.
type EastmoneyListResponse struct {
	Data *EastmoneyListData `json:"data"`
}

// EastmoneyListData holds the result rows.
type EastmoneyListData struct {
	Diff []EastmoneyListItem `json:"diff"`
}

// EastmoneyListItem is one row of the clist API. Field names follow the
// upstream f-code scheme: f12 code, f14 name, f3 change pct, f62 price,
// f8 volume, f9 amount, f16 pe, f46 market cap, f136 leading stock.
type EastmoneyListItem struct {
	Code         string  `json:"f12"`
	Name         string  `json:"f14"`
	ChangePct    float64 `json:"f3"`
	Price        float64 `json:"f62"`
	Volume       float64 `json:"f8"`
	Amount       float64 `json:"f9"`
	PE           float64 `json:"f16"`
	MarketCap    float64 `json:"f46"`
	LeadingStock string  `json:"f136"`
}
