// Package textparse extracts numbers and JSON payloads from the free-text
// answers returned by search-backed providers.
//
// Provider text is untrusted: it may echo the question ("1 CNY to USD"),
// mention model years ("2024款") or VIN digits, and mix full-width and
// half-width characters. Every extractor therefore works against a
// plausibility Band and reports a sentinel error rather than guessing.
package textparse

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

var (
	ErrNoPrice   = errors.New("textparse: no plausible price in text")
	ErrNoRate    = errors.New("textparse: no plausible rate in text")
	ErrNoPayload = errors.New("textparse: no JSON payload in text")
)

var (
	// wanRegex matches "<number> 万" (ten-thousand multiplier). A latin w/W
	// counts only when it is not the start of a word ("22.8w" but not
	// "2024 with").
	wanRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:万|[wW](?:[^A-Za-z]|$))`)

	// intRunRegex matches a bare integer run.
	intRunRegex = regexp.MustCompile(`\d+`)

	// numberRegex matches an integer or decimal number.
	numberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

	tenThousand = decimal.NewFromInt(10000)
)

// Band is an open interval (Min, Max) of plausible values.
type Band struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// NewBand builds a Band from float bounds.
func NewBand(lo, hi float64) Band {
	return Band{Min: decimal.NewFromFloat(lo), Max: decimal.NewFromFloat(hi)}
}

// Contains reports whether Min < v < Max.
func (b Band) Contains(v decimal.Decimal) bool {
	return v.GreaterThan(b.Min) && v.LessThan(b.Max)
}

// DefaultPriceBand rejects anything that cannot be a vehicle price in CNY.
func DefaultPriceBand() Band { return NewBand(5000, 20000000) }

// DefaultRateBand covers every export currency pair in use.
func DefaultRateBand() Band { return NewBand(0.00001, 100000) }

// Normalize folds full-width digits and punctuation to their ASCII forms.
func Normalize(text string) string {
	return width.Narrow.String(text)
}

// ParsePrice extracts a vehicle price in whole currency units.
//
// A "<number>万" expression wins and is scaled by 10 000, rounded to the
// nearest unit. Otherwise thousands separators are dropped and the first
// integer run inside band is taken. Text with no plausible number yields
// ErrNoPrice, never zero.
func ParsePrice(text string, band Band) (decimal.Decimal, error) {
	text = Normalize(text)

	if m := wanRegex.FindStringSubmatch(text); m != nil {
		v, err := decimal.NewFromString(m[1])
		if err == nil {
			price := v.Mul(tenThousand).Round(0)
			if price.IsPositive() {
				return price, nil
			}
		}
	}

	plain := strings.ReplaceAll(text, ",", "")
	for _, run := range intRunRegex.FindAllString(plain, -1) {
		v, err := decimal.NewFromString(run)
		if err != nil {
			continue
		}
		if band.Contains(v) {
			return v, nil
		}
	}
	return decimal.Zero, ErrNoPrice
}

// ParseRate extracts a spot exchange rate. The literal 1 is skipped because
// answers routinely echo "1 CNY = ..."; so is a bare year such as "2024".
// The first remaining positive number inside band is returned.
func ParseRate(text string, band Band) (decimal.Decimal, error) {
	text = strings.ReplaceAll(Normalize(text), ",", "")
	one := decimal.NewFromInt(1)

	for _, run := range numberRegex.FindAllString(text, -1) {
		if isYear(run) {
			continue
		}
		v, err := decimal.NewFromString(run)
		if err != nil || v.Equal(one) || !v.IsPositive() {
			continue
		}
		if band.Contains(v) {
			return v, nil
		}
	}
	return decimal.Zero, ErrNoRate
}

// isYear reports whether run is a four-digit integer between 1900 and 2100.
func isYear(run string) bool {
	if len(run) != 4 {
		return false
	}
	n, err := strconv.Atoi(run)
	return err == nil && n >= 1900 && n <= 2100
}

// ParseAmount parses operator-entered money text such as "1,500" or
// "２６００.５". ok is false for blank or unparseable input.
func ParseAmount(text string) (v decimal.Decimal, ok bool) {
	text = strings.TrimSpace(Normalize(text))
	text = strings.ReplaceAll(text, ",", "")
	if text == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// AmountOrZero parses a fee field; blank or unparseable text counts as 0.
func AmountOrZero(text string) decimal.Decimal {
	v, _ := ParseAmount(text)
	return v
}

// ParseQuantity parses a unit count. Anything that is not an integer of at
// least 1 yields 1.
func ParseQuantity(text string) int {
	text = strings.TrimSpace(Normalize(text))
	// Accept a leading integer the way a numeric input would ("3 units").
	if m := intRunRegex.FindStringIndex(text); m != nil && m[0] == 0 {
		text = text[:m[1]]
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseStringList extracts the outermost JSON string array from text,
// tolerating surrounding prose and single-quoted strings. Blank entries are
// dropped and duplicates collapsed.
func ParseStringList(text string) ([]string, error) {
	raw, err := outermost(text, '[', ']')
	if err != nil {
		return nil, err
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPayload, err)
	}

	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out, nil
}

// ParseObject decodes the outermost JSON object in text into v.
func ParseObject(text string, v any) error {
	raw, err := outermost(text, '{', '}')
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", ErrNoPayload, err)
	}
	return nil
}

// outermost returns the substring between the first open and last close
// delimiter, with single quotes turned into double quotes.
func outermost(text string, open, shut byte) (string, error) {
	text = Normalize(text)
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, shut)
	if start == -1 || end == -1 || end < start {
		return "", ErrNoPayload
	}
	return strings.ReplaceAll(text[start:end+1], "'", `"`), nil
}
