package lexicon

// AmountPattern pairs a regular expression with the currency it resolves to
// and the regions it applies to. The numeric token must be captured by the
// first group. Patterns are evaluated in order; more specific symbols come
// before bare currency codes.
type AmountPattern struct {
	Regex    string
	Currency string
	// Regions the pattern applies to; empty means global.
	Regions []string
}

// The numeric token sub-expression: digits with optional group and decimal
// separators in either convention (1,234.56 / 1.234,56 / 1234.56 / 1234,56).
// The grouped alternative requires at least one separator group so it can
// never stop three digits into a longer run; plain runs fall through to the
// second alternative, which consumes every digit.
const numToken = `(\d{1,3}(?:[.,\s]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?)`

// AmountPatterns is the ordered bank of currency extraction patterns.
var AmountPatterns = []AmountPattern{
	// Symbol-prefixed, unambiguous.
	{Regex: `\$\s*` + numToken, Currency: "USD"},
	{Regex: `€\s*` + numToken, Currency: "EUR"},
	{Regex: numToken + `\s*€`, Currency: "EUR"},
	{Regex: `£\s*` + numToken, Currency: "GBP"},
	{Regex: `[¥￥]\s*` + numToken, Currency: "JPY", Regions: []string{"JP"}},
	{Regex: numToken + `\s*円`, Currency: "JPY", Regions: []string{"JP"}},

	// Regional words and abbreviations.
	{Regex: numToken + `\s*(?:درهم|dhs?\b|mad\b)`, Currency: "MAD", Regions: []string{"MA"}},
	{Regex: numToken + `\s*(?:ريال|sar\b)`, Currency: "SAR", Regions: []string{"SA"}},
	{Regex: `(?:chf|fr\.)\s*` + numToken, Currency: "CHF", Regions: []string{"CH"}},
	{Regex: numToken + `\s*chf`, Currency: "CHF", Regions: []string{"CH"}},

	// ISO codes anywhere, lowest priority.
	{Regex: `usd\s*` + numToken, Currency: "USD"},
	{Regex: numToken + `\s*usd`, Currency: "USD"},
	{Regex: `eur\s*` + numToken, Currency: "EUR"},
	{Regex: numToken + `\s*eur`, Currency: "EUR"},
	{Regex: `gbp\s*` + numToken, Currency: "GBP"},
	{Regex: `cad\s*\$?\s*` + numToken, Currency: "CAD", Regions: []string{"CA"}},
	{Regex: numToken + `\s*(?:jpy|yen)`, Currency: "JPY", Regions: []string{"JP"}},
}

// PlausibilityRange bounds the amounts a currency can plausibly carry for a
// consumer subscription. The bounds differ by orders of magnitude between
// currencies; a value outside the range is assumed to be a unit-confusion
// false positive and rejected.
type PlausibilityRange struct {
	Min float64
	Max float64
}

// PlausibilityRanges holds the per-currency amount bounds. Empirically tuned
// starting points; overridable through configuration.
var PlausibilityRanges = map[string]PlausibilityRange{
	"USD": {Min: 1, Max: 500},
	"EUR": {Min: 1, Max: 500},
	"GBP": {Min: 1, Max: 400},
	"CHF": {Min: 1, Max: 500},
	"CAD": {Min: 1, Max: 600},
	"JPY": {Min: 100, Max: 50000},
	"MAD": {Min: 10, Max: 5000},
	"SAR": {Min: 4, Max: 2000},
}

// Plausible reports whether amount is inside the currency's range. Unknown
// currencies fail closed.
func Plausible(amount float64, currency string) bool {
	r, ok := PlausibilityRanges[currency]
	if !ok {
		return false
	}
	return amount >= r.Min && amount <= r.Max
}

// RegionalCurrencies maps a region to the currencies native to it, used as a
// confidence boost when the extracted currency matches the detected region.
var RegionalCurrencies = map[string][]string{
	"US": {"USD"},
	"GB": {"GBP"},
	"FR": {"EUR"},
	"ES": {"EUR"},
	"DE": {"EUR"},
	"CH": {"CHF", "EUR"},
	"CA": {"CAD", "USD"},
	"JP": {"JPY"},
	"MA": {"MAD", "EUR"},
	"SA": {"SAR"},
}

// CommaDecimalRegions are regions whose number format uses the comma as the
// decimal separator and the dot (or space) for grouping.
var CommaDecimalRegions = map[string]bool{
	"FR": true,
	"ES": true,
	"DE": true,
	"MA": true,
	"CH": false, // Swiss format uses the dot decimal
}

// UsesCommaDecimal reports whether the region parses "9,99" as nine
// ninety-nine.
func UsesCommaDecimal(region string) bool {
	return CommaDecimalRegions[region]
}
