package market

import (
	"errors"
	"testing"
	"time"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
)

func mustLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	return loc
}

func f(v float64) *float64 { return &v }

func TestClassify_Boundaries(t *testing.T) {
	loc := mustLoc(t)

	// 2024-01-08 is a Monday.
	cases := []struct {
		name string
		at   time.Time
		want Session
	}{
		{"03:59 closed", time.Date(2024, 1, 8, 3, 59, 0, 0, loc), SessionClosed},
		{"04:00 premarket", time.Date(2024, 1, 8, 4, 0, 0, 0, loc), SessionPremarket},
		{"09:29 premarket", time.Date(2024, 1, 8, 9, 29, 59, 0, loc), SessionPremarket},
		{"09:30 regular", time.Date(2024, 1, 8, 9, 30, 0, 0, loc), SessionRegular},
		{"15:59 regular", time.Date(2024, 1, 8, 15, 59, 0, 0, loc), SessionRegular},
		{"16:00 postmarket", time.Date(2024, 1, 8, 16, 0, 0, 0, loc), SessionPostmarket},
		{"19:59 postmarket", time.Date(2024, 1, 8, 19, 59, 0, 0, loc), SessionPostmarket},
		{"20:00 closed", time.Date(2024, 1, 8, 20, 0, 0, 0, loc), SessionClosed},
		{"saturday noon", time.Date(2024, 1, 6, 12, 0, 0, 0, loc), SessionClosed},
		{"sunday regular hours", time.Date(2024, 1, 7, 10, 0, 0, 0, loc), SessionClosed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.at, loc); got != tc.want {
				t.Fatalf("Classify(%s) = %s, want %s", tc.at, got, tc.want)
			}
		})
	}
}

func TestClassify_ConvertsToMarketTime(t *testing.T) {
	loc := mustLoc(t)
	// 14:30 UTC on a January Monday is 09:30 Eastern.
	at := time.Date(2024, 1, 8, 14, 30, 0, 0, time.UTC)
	if got := Classify(at, loc); got != SessionRegular {
		t.Fatalf("expected regular, got %s", got)
	}
}

func TestClassifier_InjectedClock(t *testing.T) {
	loc := mustLoc(t)
	c := &Classifier{
		Location: loc,
		Now:      func() time.Time { return time.Date(2024, 1, 8, 17, 0, 0, 0, loc) },
	}
	if got := c.Current(); got != SessionPostmarket {
		t.Fatalf("expected postmarket, got %s", got)
	}
}

func TestClassifier_NilLocationUsesUTC(t *testing.T) {
	c := &Classifier{Now: func() time.Time { return time.Date(2024, 3, 5, 16, 0, 0, 0, time.UTC) }}
	if got := c.Current(); got != SessionPostmarket {
		t.Fatalf("16:00 UTC Tuesday: got %s, want postmarket", got)
	}
	if c.Time().Location() != time.UTC || c.Zone() != time.UTC {
		t.Fatalf("expected UTC, got %v", c.Time().Location())
	}
	if got := Classify(time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC), nil); got != SessionClosed {
		t.Fatalf("nil location: got %s, want closed", got)
	}
}

func TestLoadLocation_Invalid(t *testing.T) {
	_, err := LoadLocation("Mars/Olympus_Mons")
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResolve_PostmarketPrefersPostPrice(t *testing.T) {
	q := Quote{RegularMarketPrice: f(12.0), PostMarketPrice: f(12.5)}
	res := Resolve(q, SessionPostmarket)
	if res.Price == nil || *res.Price != 12.5 {
		t.Fatalf("expected 12.5, got %v", res.Price)
	}

	q.PostMarketPrice = nil
	res = Resolve(q, SessionPostmarket)
	if res.Price == nil || *res.Price != 12.0 {
		t.Fatalf("expected fallback 12.0, got %v", res.Price)
	}
}

func TestResolve_ExtendedPriceIgnoredOutsideSession(t *testing.T) {
	q := Quote{RegularMarketPrice: f(12.0), PreMarketPrice: f(11.0), PostMarketPrice: f(12.5)}
	if res := Resolve(q, SessionRegular); *res.Price != 12.0 {
		t.Fatalf("regular session should use regular price, got %v", *res.Price)
	}
	if res := Resolve(q, SessionPremarket); *res.Price != 11.0 {
		t.Fatalf("premarket should use pre price, got %v", *res.Price)
	}
}

func TestResolve_ZeroExtendedPriceFallsThrough(t *testing.T) {
	q := Quote{RegularMarketPrice: f(12.0), PreMarketPrice: f(0)}
	res := Resolve(q, SessionPremarket)
	if res.Price == nil || *res.Price != 12.0 {
		t.Fatalf("expected regular price, got %v", res.Price)
	}
}

func TestResolve_ChangeMetrics(t *testing.T) {
	res := Resolve(Quote{RegularMarketPrice: f(110), RegularMarketPreviousClose: f(100)}, SessionRegular)
	if res.ChangeAbs == nil || *res.ChangeAbs != 10 {
		t.Fatalf("change_abs: got %v", res.ChangeAbs)
	}
	if res.ChangePct == nil || *res.ChangePct != 10.0 {
		t.Fatalf("change_pct: got %v", res.ChangePct)
	}
	if res.RegularClose == nil || *res.RegularClose != 100 {
		t.Fatalf("regular_close: got %v", res.RegularClose)
	}

	res = Resolve(Quote{RegularMarketPrice: f(110), RegularMarketPreviousClose: f(0)}, SessionRegular)
	if res.ChangeAbs != nil || res.ChangePct != nil {
		t.Fatalf("expected nil change with prevClose=0, got abs=%v pct=%v", res.ChangeAbs, res.ChangePct)
	}
}

func TestResolve_AllMissing(t *testing.T) {
	res := Resolve(Quote{}, SessionClosed)
	if res.Price != nil || res.High != nil || res.Low != nil || res.Volume != nil ||
		res.MarketCap != nil || res.RegularClose != nil || res.RegularChangePct != nil {
		t.Fatalf("expected all-null resolution, got %+v", res)
	}
	if res.Session != SessionClosed {
		t.Fatalf("session not carried: %s", res.Session)
	}
}

func TestResolve_ZeroVolumePassesThrough(t *testing.T) {
	res := Resolve(Quote{RegularMarketVolume: f(0)}, SessionRegular)
	if res.Volume == nil || *res.Volume != 0 {
		t.Fatalf("zero volume must not become null, got %v", res.Volume)
	}
}

func TestValidateSymbol(t *testing.T) {
	valid := []string{"NASDAQ:AAPL", "nyse:brk.b", "AMEX:SPY", "OTC:ABC1"}
	for _, s := range valid {
		if err := ValidateSymbol(s); err != nil {
			t.Errorf("ValidateSymbol(%q): %v", s, err)
		}
	}

	invalid := []string{"", "AAPL", "NASDAQ:", ":AAPL", "NAS DAQ:AAPL", "NASDAQ:AA-PL", "N1:AAPL"}
	for _, s := range invalid {
		if err := ValidateSymbol(s); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("ValidateSymbol(%q) = %v, want ErrInvalidInput", s, err)
		}
	}
}

func TestTicker(t *testing.T) {
	if got := Ticker("NYSE:BRK.B"); got != "BRK.B" {
		t.Fatalf("got %q", got)
	}
	if got := Ticker("AAPL"); got != "AAPL" {
		t.Fatalf("got %q", got)
	}
}
