// Package format turns column format strings into display formatters.
//
// Format strings follow the spreadsheet conventions hosts attach to
// columns:
//
//   - "" or "General": the value's default string form
//   - numeric patterns such as "0", "0.00", "#,0", "#,0.00", "0%",
//     "0.0%", optionally with a literal prefix or suffix ("$#,0.00",
//     "0.0 kg", "0 hours"); text in quotes is always literal
//   - date patterns built from yyyy, yy, MMMM, MMM, MM, M, dddd, ddd, dd,
//     d, HH, H, hh, h, mm, m, ss, s and tt, or the standard single
//     letter forms "d", "D", "t", "T", "g", "G"
//
// Numbers are printed with golang.org/x/text/message so grouping and
// decimal separators follow the formatter's language.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter maps a raw value to its display string.
type Formatter interface {
	Format(v any) string
}

// Option configures a formatter built by [New].
type Option func(*config)

type config struct {
	tag language.Tag
}

// WithLanguage selects the language used for number separators.
// The default is English.
func WithLanguage(tag language.Tag) Option {
	return func(c *config) { c.tag = tag }
}

// New builds a formatter for format. sample is the first value of the
// column; when format is empty and sample is a time.Time, dates are
// printed as short dates instead of RFC 3339.
func New(format string, sample any, opts ...Option) Formatter {
	cfg := config{tag: language.English}
	for _, o := range opts {
		o(&cfg)
	}
	p := message.NewPrinter(cfg.tag)

	f := strings.TrimSpace(format)
	switch {
	case f == "" || strings.EqualFold(f, "General"):
		if _, ok := sample.(time.Time); ok {
			return dateFormatter{layout: "1/2/2006", fallback: defaultFormatter{}}
		}
		return defaultFormatter{}
	case isStandardDate(f):
		return dateFormatter{layout: standardDates[f], fallback: defaultFormatter{}}
	case isNumeric(f):
		return parseNumeric(f, p)
	case isDate(f):
		return dateFormatter{layout: dateLayout(f), fallback: defaultFormatter{}}
	default:
		return defaultFormatter{}
	}
}

// Default returns the formatter used when a column declares no format.
func Default() Formatter { return defaultFormatter{} }

type defaultFormatter struct{}

func (defaultFormatter) Format(v any) string {
	return Stringify(v)
}

// Stringify returns the default string form of v: the shortest
// round-tripping decimal for numbers, RFC 3339 for times and the empty
// string for nil.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// ===== Numbers =====

type numericFormatter struct {
	printer  *message.Printer
	prefix   string
	suffix   string
	decimals int
	grouping bool
	percent  bool
}

// isNumeric reports whether f has a digit placeholder outside quoted
// literals. Date patterns never contain one.
func isNumeric(f string) bool {
	start, _ := placeholders(f)
	return start >= 0
}

// placeholders returns the byte offsets of the first digit placeholder
// and of the last placeholder or percent sign, skipping text inside
// double or single quotes and characters escaped with a backslash.
// start is -1 when f has no placeholder.
func placeholders(f string) (start, end int) {
	start, end = -1, -1
	var quote byte
	for i := 0; i < len(f); i++ {
		c := f[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '\\':
			i++
		case c == '0' || c == '#':
			if start < 0 {
				start = i
			}
			end = i
		case c == '%' && start >= 0:
			end = i
		}
	}
	return start, end
}

func parseNumeric(f string, p *message.Printer) numericFormatter {
	start, end := placeholders(f)
	body := f[start : end+1]

	nf := numericFormatter{
		printer:  p,
		prefix:   unquote(f[:start]),
		suffix:   unquote(f[end+1:]),
		grouping: strings.Contains(body, ","),
		percent:  strings.HasSuffix(body, "%"),
	}
	if i := strings.IndexByte(body, '.'); i >= 0 {
		for _, r := range body[i+1:] {
			if r == '0' || r == '#' {
				nf.decimals++
			}
		}
	}
	return nf
}

func unquote(s string) string {
	return strings.NewReplacer(`"`, "", `'`, "", `\`, "").Replace(s)
}

func (f numericFormatter) Format(v any) string {
	x, ok := toFloat(v)
	if !ok {
		return Stringify(v)
	}
	if f.percent {
		x *= 100
	}
	opts := []number.Option{
		number.MinFractionDigits(f.decimals),
		number.MaxFractionDigits(f.decimals),
	}
	if !f.grouping {
		opts = append(opts, number.NoSeparator())
	}
	s := f.printer.Sprint(number.Decimal(x, opts...))
	if f.percent {
		s += "%"
	}
	return f.prefix + s + f.suffix
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// ===== Dates =====

var standardDates = map[string]string{
	"d": "1/2/2006",
	"D": "Monday, January 2, 2006",
	"t": "3:04 PM",
	"T": "3:04:05 PM",
	"g": "1/2/2006 3:04 PM",
	"G": "1/2/2006 3:04:05 PM",
}

func isStandardDate(f string) bool {
	_, ok := standardDates[f]
	return ok
}

func isDate(f string) bool {
	return strings.ContainsAny(f, "yMdHhms")
}

// dateTokens is ordered longest first so that "MMMM" wins over "MM".
var dateTokens = []struct{ token, layout string }{
	{"yyyy", "2006"}, {"yy", "06"},
	{"MMMM", "January"}, {"MMM", "Jan"}, {"MM", "01"}, {"M", "1"},
	{"dddd", "Monday"}, {"ddd", "Mon"}, {"dd", "02"}, {"d", "2"},
	{"HH", "15"}, {"H", "15"}, {"hh", "03"}, {"h", "3"},
	{"mm", "04"}, {"m", "4"},
	{"ss", "05"}, {"s", "5"},
	{"tt", "PM"},
}

func dateLayout(f string) string {
	var b strings.Builder
	for i := 0; i < len(f); {
		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(f[i:], t.token) {
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(f[i])
			i++
		}
	}
	return b.String()
}

type dateFormatter struct {
	layout   string
	fallback Formatter
}

var dateInputs = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func (f dateFormatter) Format(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.Format(f.layout)
	case string:
		for _, in := range dateInputs {
			if t, err := time.Parse(in, strings.TrimSpace(x)); err == nil {
				return t.Format(f.layout)
			}
		}
	}
	return f.fallback.Format(v)
}
