// Package filtersort filters and orders record lists through an explicit
// per-entity table of named sort keys.
package filtersort

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
)

// Kind selects how a sort key compares its values.
type Kind int

const (
	String Kind = iota
	Number
)

// Key is one sortable column. String keys read Str; Number keys read Num,
// where ok=false means the value is missing and sorts as -Inf.
type Key[T any] struct {
	Kind Kind
	Str  func(*T) string
	Num  func(*T) (v float64, ok bool)
}

// StringKey and NumberKey build table entries.
func StringKey[T any](fn func(*T) string) Key[T] { return Key[T]{Kind: String, Str: fn} }

func NumberKey[T any](fn func(*T) (float64, bool)) Key[T] { return Key[T]{Kind: Number, Num: fn} }

// Spec describes how one record type is filtered and sorted.
type Spec[T any] struct {
	Symbol   func(*T) string
	Category func(*T) string
	Date     func(*T) string
	Tabs     map[string]func(*T) bool
	Keys     map[string]Key[T]
	Default  Sort
}

type Criteria struct {
	Tab      string
	Symbol   string
	Category string
	From     string
	To       string
}

type Dir string

const (
	Asc  Dir = "asc"
	Desc Dir = "desc"
)

type Sort struct {
	Key string
	Dir Dir
}

// Toggle flips the direction when key is already active, otherwise it
// switches to key ascending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key {
		if s.Dir == Asc {
			return Sort{Key: key, Dir: Desc}
		}
		return Sort{Key: key, Dir: Asc}
	}
	return Sort{Key: key, Dir: Asc}
}

// ParseDir accepts "", "asc" and "desc".
func ParseDir(v string) (Dir, error) {
	switch strings.ToLower(v) {
	case "", string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	}
	return "", fmt.Errorf("invalid sort direction %q, expected asc|desc: %w", v, apperr.ErrInvalidInput)
}

const endOfDay = "T23:59:59"

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDate accepts an empty string or a real YYYY-MM-DD date.
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if !dateRegexp.MatchString(date) {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", date, apperr.ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, apperr.ErrInvalidInput)
	}
	return nil
}

// Validate checks the date bounds and the tab against spec.
func (c Criteria) Validate(tabs map[string]bool) error {
	if err := ValidateDate(c.From); err != nil {
		return err
	}
	if err := ValidateDate(c.To); err != nil {
		return err
	}
	if c.From != "" && c.To != "" && c.From > c.To {
		return fmt.Errorf("from %s is after to %s: %w", c.From, c.To, apperr.ErrInvalidInput)
	}
	if c.Tab != "" && c.Tab != "all" && !tabs[c.Tab] {
		return fmt.Errorf("unknown tab %q: %w", c.Tab, apperr.ErrInvalidInput)
	}
	return nil
}

// Apply returns the records matching c, ordered by s. An empty s.Key uses
// spec.Default. The input slice is not reordered.
func Apply[T any](records []T, spec Spec[T], c Criteria, s Sort) ([]T, error) {
	tabs := make(map[string]bool, len(spec.Tabs))
	for name := range spec.Tabs {
		tabs[name] = true
	}
	if err := c.Validate(tabs); err != nil {
		return nil, err
	}

	if s.Key == "" {
		s = spec.Default
	}
	var key Key[T]
	if s.Key != "" {
		k, ok := spec.Keys[s.Key]
		if !ok {
			return nil, fmt.Errorf("unknown sort key %q: %w", s.Key, apperr.ErrInvalidInput)
		}
		key = k
	}

	out := make([]T, 0, len(records))
	for i := range records {
		if spec.match(&records[i], c) {
			out = append(out, records[i])
		}
	}

	if s.Key == "" {
		return out, nil
	}

	cmp := comparator(key)
	if s.Dir == Desc {
		asc := cmp
		cmp = func(a, b *T) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, func(a, b T) int { return cmp(&a, &b) })
	return out, nil
}

func (spec Spec[T]) match(r *T, c Criteria) bool {
	if c.Tab != "" && c.Tab != "all" {
		if pred := spec.Tabs[c.Tab]; pred != nil && !pred(r) {
			return false
		}
	}
	if c.Symbol != "" && spec.Symbol != nil {
		if !strings.Contains(strings.ToLower(spec.Symbol(r)), strings.ToLower(c.Symbol)) {
			return false
		}
	}
	if c.Category != "" && spec.Category != nil && spec.Category(r) != c.Category {
		return false
	}
	if spec.Date != nil {
		d := spec.Date(r)
		if c.From != "" && d < c.From {
			return false
		}
		if c.To != "" && d > c.To+endOfDay {
			return false
		}
	}
	return true
}

func comparator[T any](k Key[T]) func(a, b *T) int {
	if k.Kind == String {
		// Collators are not safe for concurrent use; one per call.
		col := collate.New(language.English)
		return func(a, b *T) int { return col.CompareString(k.Str(a), k.Str(b)) }
	}
	return func(a, b *T) int {
		x, y := numOrNegInf(k.Num, a), numOrNegInf(k.Num, b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
}

func numOrNegInf[T any](fn func(*T) (float64, bool), r *T) float64 {
	if v, ok := fn(r); ok {
		return v
	}
	return negInf
}

// Labels returns the distinct category labels of records in collation order.
func Labels[T any](records []T, spec Spec[T]) []string {
	if spec.Category == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for i := range records {
		l := spec.Category(&records[i])
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	collate.New(language.English).SortStrings(out)
	return out
}
