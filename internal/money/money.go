// Package money converts between currency text typed by a user, integer
// cents and the decimal-reais values found in older records.
//
// Cents are the only authoritative unit: every stored price and payment is
// an int64 count of the minor currency unit. Older rows only carry the
// decimal column, which is never written again.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// LegacyThreshold separates legacy decimal-reais values from cent values.
// Stored values below it are assumed to be reais.
const LegacyThreshold = 1000

// maxDigits keeps ParseCurrencyInput inside int64.
const maxDigits = 18

var (
	hundred   = decimal.NewFromInt(100)
	threshold = decimal.NewFromInt(LegacyThreshold)
)

// ParseCurrencyInput strips every non-digit character and reads what is left
// as a cent value: "R$ 1.234,56" -> 123456. Empty, non-numeric or oversized
// input yields 0.
func ParseCurrencyInput(text string) int64 {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" || len(digits) > maxDigits {
		return 0
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// NormalizeLegacyValue repairs a monetary value read from storage. Values
// below LegacyThreshold were written in reais and are converted to cents;
// anything else is already in cents and passes through (rounded to a whole
// cent). Only rows without a cents column go through it.
func NormalizeLegacyValue(raw decimal.Decimal) int64 {
	if raw.IsNegative() {
		return 0
	}
	if raw.LessThan(threshold) {
		return raw.Mul(hundred).Round(0).IntPart()
	}
	return raw.Round(0).IntPart()
}

// StoredCents resolves a monetary column pair. A set cents column wins;
// otherwise the row predates it and the legacy decimal is normalized.
func StoredCents(cents *int64, legacy decimal.Decimal) int64 {
	if cents != nil {
		return *cents
	}
	return NormalizeLegacyValue(legacy)
}

// ======================================================
// Formatting
// ======================================================

type separators struct {
	thousands string
	decimal   string
}

var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.EuropeanPortuguese,
	language.AmericanEnglish,
	language.LatinAmericanSpanish,
}

var separatorsByTag = []separators{
	{thousands: ".", decimal: ","},
	{thousands: " ", decimal: ","},
	{thousands: ",", decimal: "."},
	{thousands: ",", decimal: "."},
}

var symbols = map[string]string{
	"BRL": "R$",
	"USD": "US$",
	"EUR": "€",
	"MXN": "MX$",
}

var matcher = language.NewMatcher(supported)

// Formatter renders cents with a locale's grouping and decimal convention.
type Formatter struct {
	sep    separators
	symbol string
}

// DefaultLocale is used when a tenant has no locale or an unparseable one.
const DefaultLocale = "pt-BR"

var defaultFormatter = NewFormatter(DefaultLocale)

// NewFormatter builds a Formatter for a BCP 47 locale ("pt-BR", "en-US").
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}

	_, idx, _ := matcher.Match(tag)

	unit, conf := currency.FromTag(tag)
	code := "BRL"
	if conf != language.No {
		code = unit.String()
	}

	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}

	return &Formatter{sep: separatorsByTag[idx], symbol: symbol}
}

// FormatCents renders cents in the default (pt-BR) locale: 123456 -> "R$ 1.234,56".
func FormatCents(cents int64) string {
	return defaultFormatter.Format(cents)
}

// Format renders cents with two decimal digits; negatives get a leading minus.
func (f *Formatter) Format(cents int64) string {
	negative := cents < 0
	abs := uint64(cents)
	if negative {
		abs = uint64(-(cents + 1)) + 1
	}

	major := abs / 100
	minor := abs % 100

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	b.WriteString(f.symbol)
	b.WriteString(" ")
	b.WriteString(group(strconv.FormatUint(major, 10), f.sep.thousands))
	b.WriteString(f.sep.decimal)
	if minor < 10 {
		b.WriteString("0")
	}
	b.WriteString(strconv.FormatUint(minor, 10))
	return b.String()
}

func group(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
