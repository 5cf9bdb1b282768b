package detect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/recurhq/recur/internal/lexicon"
	"github.com/recurhq/recur/internal/model"
)

// contextWindow is how far (in bytes) from a matched amount a financial
// phrase may sit and still count as explicit context.
const contextWindow = 60

type compiledAmountPattern struct {
	re       *regexp.Regexp
	currency string
	regions  []string
}

var amountPatterns = compileAmountPatterns()

func compileAmountPatterns() []compiledAmountPattern {
	compiled := make([]compiledAmountPattern, 0, len(lexicon.AmountPatterns))
	for _, p := range lexicon.AmountPatterns {
		compiled = append(compiled, compiledAmountPattern{
			re:       regexp.MustCompile(`(?i)` + p.Regex),
			currency: p.Currency,
			regions:  p.Regions,
		})
	}
	return compiled
}

func patternApplies(regions []string, region string) bool {
	if len(regions) == 0 {
		return true
	}
	for _, r := range regions {
		if r == region {
			return true
		}
	}
	return false
}

// ExtractAmount scans lowercase text for a plausible subscription charge.
// An amount matched near an explicit financial phrase wins over a bare one;
// amounts outside the currency's plausibility range are discarded outright.
// Deliberately conservative: returning nothing beats returning a wrong
// amount, which would corrupt aggregation silently.
func ExtractAmount(lower string, loc Locale) (model.ExtractedAmount, bool) {
	contextPhrases := lexicon.Keywords(lexicon.FinancialKeywords, loc.Language)

	var first model.ExtractedAmount
	haveFirst := false

	for _, p := range amountPatterns {
		if !patternApplies(p.regions, loc.Region) {
			continue
		}
		for _, idx := range p.re.FindAllStringSubmatchIndex(lower, -1) {
			// First capture group is the numeric token.
			if len(idx) < 4 || idx[2] < 0 {
				continue
			}
			if digitAdjacent(lower, idx[2], idx[3]) {
				// Partial match inside a longer digit run; the full run
				// is a different number than what we captured.
				continue
			}
			token := lower[idx[2]:idx[3]]
			value, err := parseLocalizedNumber(token, loc.Region)
			if err != nil {
				continue
			}
			if !lexicon.Plausible(value, p.currency) {
				continue
			}

			amount := model.ExtractedAmount{
				Value:      value,
				Currency:   p.currency,
				HasContext: hasFinancialContext(lower, idx[0], idx[1], contextPhrases),
			}
			if amount.HasContext {
				return amount, true
			}
			if !haveFirst {
				first = amount
				haveFirst = true
			}
		}
	}

	return first, haveFirst
}

// digitAdjacent reports whether the token at [start,end) abuts further
// digits, directly or across a single separator. Such a token is a fragment
// of a longer number and must not be treated as an amount.
func digitAdjacent(lower string, start, end int) bool {
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	isSep := func(c byte) bool { return c == '.' || c == ',' }

	if end < len(lower) && isDigit(lower[end]) {
		return true
	}
	if end+1 < len(lower) && isSep(lower[end]) && isDigit(lower[end+1]) {
		return true
	}
	if start > 0 && isDigit(lower[start-1]) {
		return true
	}
	if start > 1 && isSep(lower[start-1]) && isDigit(lower[start-2]) {
		return true
	}
	return false
}

// hasFinancialContext checks for a financial phrase within the window
// around the match.
func hasFinancialContext(lower string, start, end int, phrases []string) bool {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	to := end + contextWindow
	if to > len(lower) {
		to = len(lower)
	}
	window := lower[from:to]
	for _, p := range phrases {
		if strings.Contains(window, p) {
			return true
		}
	}
	return false
}

// parseLocalizedNumber parses a numeric token honoring the region's decimal
// and grouping separators.
func parseLocalizedNumber(token, region string) (float64, error) {
	token = strings.ReplaceAll(token, " ", "")
	token = strings.ReplaceAll(token, " ", "")

	lastDot := strings.LastIndex(token, ".")
	lastComma := strings.LastIndex(token, ",")

	var decimal byte
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both present: the rightmost separator is the decimal one.
		if lastDot > lastComma {
			decimal = '.'
		} else {
			decimal = ','
		}
	case lastComma >= 0:
		// A single comma followed by exactly three digits is grouping
		// ("1,234"); one or two digits make it a decimal ("15,99").
		if len(token)-lastComma-1 == 3 && !lexicon.UsesCommaDecimal(region) {
			decimal = 0
		} else if len(token)-lastComma-1 <= 2 {
			decimal = ','
		}
	case lastDot >= 0:
		if len(token)-lastDot-1 == 3 && lexicon.UsesCommaDecimal(region) {
			decimal = 0
		} else if len(token)-lastDot-1 <= 2 {
			decimal = '.'
		}
	}

	var b strings.Builder
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == decimal && decimal != 0:
			b.WriteByte('.')
		case c == '.' || c == ',':
			// Grouping separator, dropped.
		default:
			return 0, fmt.Errorf("unexpected character %q in amount %q", c, token)
		}
	}

	return strconv.ParseFloat(b.String(), 64)
}
