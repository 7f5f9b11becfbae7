package registration

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultCountryCode is prepended to phones typed without "+".
	DefaultCountryCode = "55"
	// UnknownPhone is what NormalizePhone returns when the input has no digits.
	UnknownPhone = "+"
	// UnknownTimestamp replaces submission times that could not be parsed.
	UnknownTimestamp = "unknown"
	// DisplayLayout renders timestamps as DD/MM/YYYY - HH:MM:SS.
	DisplayLayout = "02/01/2006 - 15:04:05"
)

// FormsLayouts are the Google Forms export formats, tried before the general
// parser. Non-padded tokens also accept zero-padded input.
var FormsLayouts = []string{
	"2006/1/2 15:04:05",
	"2006/1/2 3:04:05 PM",
	"2006/1/2 15:04",
	"2006/1/2",
}

// fallbackLayouts catch what dateparse rejects, mostly day-first dates such
// as 31/12/2023 that cannot be month-first.
var fallbackLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2006-01-02 15:04",
}

var (
	reSpaces    = regexp.MustCompile(`\s+`)
	reGMTSuffix = regexp.MustCompile(`\s+GMT[+-]\d{1,2}(:?\d{2})?$`)
)

// NormalizePhone keeps digits and "+", prepends the default country code when
// the number has no leading "+", and returns "+" followed by digits only.
// Input without any digit yields UnknownPhone.
func NormalizePhone(raw string) string {
	var kept strings.Builder
	hasDigit := false
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
			kept.WriteRune(r)
		case r == '+':
			kept.WriteRune(r)
		}
	}
	if !hasDigit {
		return UnknownPhone
	}
	number := kept.String()
	if !strings.HasPrefix(number, "+") {
		number = DefaultCountryCode + number
	}
	var out strings.Builder
	out.WriteByte('+')
	for _, r := range number {
		if unicode.IsDigit(r) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// IsKnownPhone reports whether a normalized phone carries any digit.
func IsKnownPhone(phone string) bool {
	return phone != "" && phone != UnknownPhone
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
// A letter after an apostrophe starts a word too: "o'brien" becomes "O'Brien".
func TitleCase(s string) string {
	s = cases.Title(language.BrazilianPortuguese).String(s)
	if !strings.ContainsAny(s, "'’") {
		return s
	}
	runes := []rune(s)
	for i := 2; i < len(runes); i++ {
		if (runes[i-1] == '\'' || runes[i-1] == '’') && unicode.IsLetter(runes[i-2]) {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}

// NormalizeName trims, collapses inner whitespace and title-cases a person's name.
func NormalizeName(raw string) string {
	s := strings.TrimSpace(reSpaces.ReplaceAllString(raw, " "))
	return TitleCase(s)
}

// NormalizeTechList title-cases each comma-separated item and re-joins them
// with ", ". Answers of two characters or fewer are treated as empty. An item
// starting with ". " is glued to its dot, so ". net" becomes ".Net".
func NormalizeTechList(raw string) string {
	if utf8.RuneCountInString(raw) <= 2 {
		return ""
	}
	items := strings.Split(raw, ",")
	for i, item := range items {
		item = TitleCase(strings.TrimSpace(item))
		if strings.HasPrefix(item, ". ") {
			item = "." + item[2:]
		}
		items[i] = item
	}
	return strings.Join(items, ", ")
}

// ParseTimestamp reads a submission time. With explicit layouts only those are
// tried. Otherwise FormsLayouts come first, then dateparse, which reads an
// ambiguous 05/01/2024 month-first, then fallbackLayouts. A trailing "GMT-3"
// style zone label, as written by Google Forms, is ignored.
func ParseTimestamp(raw string, layouts []string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	s = reGMTSuffix.ReplaceAllString(s, "")
	if len(layouts) > 0 {
		return parseLayouts(s, layouts)
	}
	if t, ok := parseLayouts(s, FormsLayouts); ok {
		return t, true
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, true
	}
	return parseLayouts(s, fallbackLayouts)
}

func parseLayouts(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t with DisplayLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(DisplayLayout)
}

// DedupKey is the identity of a submission within one batch.
func DedupKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
