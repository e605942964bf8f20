/*
Package format renders money and plain numbers for display.

PURPOSE:
  Cost figures stay full-precision float64 everywhere else; this package is
  the only place they are rounded. Rounding is half away from zero
  (shopspring/decimal), digit grouping and symbols come from
  golang.org/x/text for the requested locale.

DEFAULTS:
  Currency: en-US, USD, exactly 2 fraction digits   -> "$1,234.56"
  Number:   en-US, 0 to 2 fraction digits           -> "1,234.5"
  Negative values put the sign before the symbol     -> "-$1,234.50"

COMPACT:
  WithCompact() scales by thousands and appends K, M, B or T, keeping at
  most one fraction digit unless WithFractionDigits says otherwise.
*/
package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type options struct {
	locale  language.Tag
	unit    currency.Unit
	minFrac int
	maxFrac int
	fracSet bool
	compact bool
}

// Option customizes Currency and Number.
type Option func(*options)

// WithLocale sets the locale used for grouping and symbols. An unparsable
// tag leaves the default in place.
func WithLocale(tag string) Option {
	return func(o *options) {
		if t, err := language.Parse(tag); err == nil {
			o.locale = t
		}
	}
}

// WithCurrency sets the ISO 4217 currency code. Unknown codes are ignored.
func WithCurrency(code string) Option {
	return func(o *options) {
		if u, err := currency.ParseISO(code); err == nil {
			o.unit = u
		}
	}
}

// WithFractionDigits bounds the digits after the decimal point.
func WithFractionDigits(min, max int) Option {
	return func(o *options) {
		if min < 0 {
			min = 0
		}
		if max < min {
			max = min
		}
		o.minFrac, o.maxFrac, o.fracSet = min, max, true
	}
}

// WithCompact abbreviates large values: 1234567 -> 1.2M.
func WithCompact() Option {
	return func(o *options) { o.compact = true }
}

// Currency formats value as money. Defaults to en-US dollars with two
// fraction digits.
func Currency(value float64, opts ...Option) string {
	o := build(2, 2, opts)
	body := render(value, o)

	symbol := strings.TrimSpace(message.NewPrinter(o.locale).Sprint(currency.Symbol(o.unit)))
	if symbol == "" || strings.ContainsAny(symbol, "0123456789") {
		symbol = o.unit.String() + " "
	}
	if strings.HasPrefix(body, "-") {
		return "-" + symbol + body[1:]
	}
	return symbol + body
}

// Number formats value with grouping and up to two fraction digits.
func Number(value float64, opts ...Option) string {
	return render(value, build(0, 2, opts))
}

func build(minFrac, maxFrac int, opts []Option) options {
	o := options{
		locale:  language.AmericanEnglish,
		unit:    currency.USD,
		minFrac: minFrac,
		maxFrac: maxFrac,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.compact && !o.fracSet {
		o.minFrac, o.maxFrac = 0, 1
	}
	return o
}

var compactSuffixes = []string{"", "K", "M", "B", "T"}

// render returns the signed, grouped digits without any currency symbol.
func render(value float64, o options) string {
	d := decimal.NewFromFloat(value)

	suffix := ""
	if o.compact {
		d, suffix = scale(d, o.maxFrac)
	}

	d = d.Round(int32(o.maxFrac))
	negative := d.IsNegative()
	if d.IsZero() {
		negative = false
	}

	p := message.NewPrinter(o.locale)
	digits := p.Sprint(number.Decimal(d.Abs().InexactFloat64(),
		number.MinFractionDigits(o.minFrac),
		number.MaxFractionDigits(o.maxFrac),
	))

	if negative {
		return "-" + digits + suffix
	}
	return digits + suffix
}

// scale divides by 1000 until the rounded magnitude fits below the next
// suffix, so 999_950 becomes 1M rather than 1000K.
func scale(d decimal.Decimal, maxFrac int) (decimal.Decimal, string) {
	thousand := decimal.NewFromInt(1000)
	i := 0
	for i < len(compactSuffixes)-1 && d.Abs().Round(int32(maxFrac)).GreaterThanOrEqual(thousand) {
		d = d.Div(thousand)
		i++
	}
	return d, compactSuffixes[i]
}
