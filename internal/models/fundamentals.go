package models

// Fundamentals is a point-in-time company profile snapshot for a symbol.
type Fundamentals struct {
	Symbol            string   `json:"symbol" yaml:"symbol"`
	Name              *string  `json:"name" yaml:"name"`
	Exchange          *string  `json:"exchange" yaml:"exchange"`
	Description       *string  `json:"description" yaml:"description"`
	MarketCap         *float64 `json:"market_cap" yaml:"market_cap"`
	SharesOutstanding *float64 `json:"shares_outstanding" yaml:"shares_outstanding"`
	FloatShares       *float64 `json:"float_shares" yaml:"float_shares"`
	High52w           *float64 `json:"high_52w" yaml:"high_52w"`
	Low52w            *float64 `json:"low_52w" yaml:"low_52w"`
	Sector            *string  `json:"sector" yaml:"sector"`
	Industry          *string  `json:"industry" yaml:"industry"`
	FetchedAt         string   `json:"fetched_at" yaml:"fetched_at"`
}
