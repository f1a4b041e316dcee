package market

// Quote is a per-symbol provider snapshot. Every field may be missing.
type Quote struct {
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	RegularMarketDayHigh       *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume        *float64 `json:"regularMarketVolume"`
	MarketCap                  *float64 `json:"marketCap"`
	PreMarketPrice             *float64 `json:"preMarketPrice"`
	PostMarketPrice            *float64 `json:"postMarketPrice"`
}

// Resolution is the display-ready view of a quote for one session.
// Nil fields serialize as null.
type Resolution struct {
	Session          Session  `json:"session"`
	Price            *float64 `json:"price"`
	ChangePct        *float64 `json:"change_pct"`
	ChangeAbs        *float64 `json:"change_abs"`
	High             *float64 `json:"high"`
	Low              *float64 `json:"low"`
	Volume           *float64 `json:"volume"`
	MarketCap        *float64 `json:"market_cap"`
	RegularClose     *float64 `json:"regular_close"`
	RegularChangePct *float64 `json:"regular_change_pct"`
}

// Resolve picks the effective last price for the session and derives the
// change against the previous regular close.
//
// Extended-hours prices are used only when positive; a zero pre/post price
// falls through to the regular market price.
func Resolve(q Quote, s Session) Resolution {
	res := Resolution{
		Session:      s,
		High:         q.RegularMarketDayHigh,
		Low:          q.RegularMarketDayLow,
		Volume:       q.RegularMarketVolume,
		MarketCap:    q.MarketCap,
		RegularClose: q.RegularMarketPreviousClose,
	}

	switch {
	case s == SessionPostmarket && present(q.PostMarketPrice):
		res.Price = q.PostMarketPrice
	case s == SessionPremarket && present(q.PreMarketPrice):
		res.Price = q.PreMarketPrice
	default:
		res.Price = q.RegularMarketPrice
	}

	prev := q.RegularMarketPreviousClose
	if res.Price != nil && prev != nil && *prev > 0 {
		abs := *res.Price - *prev
		pct := abs / *prev * 100
		res.ChangeAbs = &abs
		res.ChangePct = &pct
	}

	return res
}

func present(v *float64) bool {
	return v != nil && *v != 0
}
