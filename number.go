package munifin

import (
	"regexp"
	"strconv"
	"strings"
)

// numberRe matches German-formatted amounts in free text: either grouped
// thousands ("13.783.548") or a plain digit run ("13446200"), an optional
// two-digit decimal part and an optional currency marker. A match may start
// right after a letter ("Nr12.345") but must end at a word boundary.
var numberRe = regexp.MustCompile(`((?:\d{1,3}(?:\.\d{3})+|\d+)(?:,\d{2})?)\b\s*(?:€|EUR)?`)

// cellNumberRe matches a whole table cell holding a single number.
var cellNumberRe = regexp.MustCompile(`^-?(?:\d{1,3}(?:\.\d{3})+|\d+)(?:,\d+)?$`)

// ParseNumbers mines every locale-formatted number from text, in order of
// appearance. Tokens that cannot be converted are skipped, so the result may
// be incomplete but never holds a corrupted value.
func ParseNumbers(text string) []float64 {
	var numbers []float64
	for _, m := range numberRe.FindAllStringSubmatch(text, -1) {
		if v, ok := normalizeNumber(m[1]); ok {
			numbers = append(numbers, v)
		}
	}
	return numbers
}

// ParseNumber parses a single cell such as "1.234.567,89", "-12,5" or
// "13446200 €". Empty cells, dashes and text return false, which callers
// should treat as "no value" rather than zero.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "EUR"), "€"))
	if !cellNumberRe.MatchString(s) {
		return 0, false
	}
	return normalizeNumber(s)
}

// normalizeNumber strips thousands separators before turning the decimal
// comma into a point.
func normalizeNumber(token string) (float64, bool) {
	token = strings.ReplaceAll(token, ".", "")
	token = strings.Replace(token, ",", ".", 1)
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
