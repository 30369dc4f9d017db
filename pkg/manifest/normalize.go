package manifest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// Column name candidates per field, in priority order.
var (
	DescriptionColumns = []string{
		"description", "item", "product", "name", "title", "product name", "item description",
	}
	QuantityColumns    = []string{"quantity", "qty", "units", "unit qty"}
	RetailPriceColumns = []string{"retail price", "price", "unit price", "unit retail", "msrp"}
	TotalRetailColumns = []string{
		"total retail price", "total retail", "ext retail", "extended retail", "total",
	}
	ConditionColumns = []string{"condition", "grade"}
)

var (
	marketingPrefixes = []string{"BRAND NEW ", "FACTORY SEALED ", "BNIB ", "NIB ", "NEW "}
	marketingSuffixes = []string{" - BRAND NEW", " - NEW", " (NEW)", " [NEW]"}
)

// CleanDescription trims and collapses whitespace, strips marketing prefixes
// and suffixes such as "BRAND NEW" or "(NEW)", and replaces characters
// outside letters, digits, whitespace and "-.$[]/&" with spaces.
// CleanDescription(CleanDescription(s)) == CleanDescription(s).
func CleanDescription(s string) string {
	s = collapseSpace(s)
	s = stripMarketing(s)
	s = strings.Map(func(r rune) rune {
		if allowedDescriptionRune(r) {
			return r
		}
		return ' '
	}, s)
	s = collapseSpace(s)
	// Replacing punctuation can expose a new affix ("NEW! Drill" -> "NEW Drill").
	return stripMarketing(s)
}

func allowedDescriptionRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '-', '.', '$', '[', ']', '/', '&':
		return true
	}
	return false
}

func stripMarketing(s string) string {
	for {
		before := s
		for _, p := range marketingPrefixes {
			if hasPrefixFold(s, p) {
				s = strings.TrimSpace(s[len(p):])
			}
		}
		for _, suf := range marketingSuffixes {
			if hasSuffixFold(s, suf) {
				s = strings.TrimSpace(s[:len(s)-len(suf)])
			}
		}
		if s == before {
			return s
		}
	}
}

// hasPrefixFold is a case-insensitive strings.HasPrefix for ASCII affixes.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// brandGroups are tried in order; the first group with a match wins.
var brandGroups = []struct {
	name   string
	brands []string
}{
	{"electronics", []string{
		"Apple", "Samsung", "Sony", "LG", "Microsoft", "Dell", "HP", "Lenovo", "Asus", "Acer",
		"Bose", "JBL", "Canon", "Nikon", "Panasonic", "Toshiba", "Vizio", "TCL", "Hisense",
		"Google", "Amazon", "Nintendo", "Garmin", "Fitbit", "Logitech", "Beats", "Roku", "GoPro",
	}},
	{"plumbing_home", []string{
		"American Standard", "Glacier Bay", "Hampton Bay", "Moen", "Delta", "Kohler", "Pfister",
		"Kichler", "Home Decorators",
	}},
	{"tools", []string{
		"Black & Decker", "Black+Decker", "DeWalt", "Milwaukee", "Makita", "Ryobi", "Bosch",
		"Craftsman", "Stanley", "Ridgid", "Husky", "Kobalt",
	}},
	{"appliances", []string{
		"Hamilton Beach", "Instant Pot", "Whirlpool", "GE", "Frigidaire", "Maytag", "KitchenAid",
		"Kenmore", "Cuisinart", "Ninja", "Keurig", "Dyson", "Shark", "iRobot",
	}},
	{"fashion", []string{
		"The North Face", "Under Armour", "Ralph Lauren", "Calvin Klein", "Tommy Hilfiger",
		"Michael Kors", "New Balance", "Nike", "Adidas", "Levis", "Coach", "Puma", "Reebok",
		"Columbia",
	}},
}

type brandMatcher struct {
	re        *regexp.Regexp
	canonical map[string]string
}

var brandMatchers = func() []brandMatcher {
	out := make([]brandMatcher, 0, len(brandGroups))
	for _, g := range brandGroups {
		quoted := make([]string, len(g.brands))
		canonical := make(map[string]string, len(g.brands))
		for i, b := range g.brands {
			quoted[i] = regexp.QuoteMeta(b)
			canonical[strings.ToLower(b)] = b
		}
		out = append(out, brandMatcher{
			re:        regexp.MustCompile(`(?i)(?:^|[^\pL\pN])(` + strings.Join(quoted, "|") + `)(?:$|[^\pL\pN])`),
			canonical: canonical,
		})
	}
	return out
}()

// UnknownBrand is returned by ExtractBrand when no brand can be guessed.
const UnknownBrand = "Unknown"

// ExtractBrand guesses the brand from a description: known brands by
// category group first, then the first capitalized word longer than two
// characters that does not start with a digit, else UnknownBrand.
func ExtractBrand(description string) string {
	for _, m := range brandMatchers {
		if sub := m.re.FindStringSubmatch(description); sub != nil {
			if c, ok := m.canonical[strings.ToLower(sub[1])]; ok {
				return c
			}
			return sub[1]
		}
	}

	for _, word := range strings.Fields(description) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(word)
		if unicode.IsDigit(first) || !unicode.IsUpper(first) {
			continue
		}
		return word
	}

	return UnknownBrand
}

// conditionRules is evaluated in order and the first match wins. The order
// is part of the contract: New, Like New, Good, Fair, Poor, Customer Return,
// Refurbished.
var conditionRules = []struct {
	cond    domain.Condition
	match   *regexp.Regexp
	exclude *regexp.Regexp
}{
	{domain.ConditionNew, regexp.MustCompile(`\bnew\b|sealed`), regexp.MustCompile(`like[\s-]*new`)},
	{domain.ConditionLikeNew, regexp.MustCompile(`like[\s-]*new|excellent`), nil},
	{domain.ConditionGood, regexp.MustCompile(`very good|good`), nil},
	{domain.ConditionFair, regexp.MustCompile(`fair|acceptable`), nil},
	{domain.ConditionPoor, regexp.MustCompile(`poor|damaged`), nil},
	{domain.ConditionCustomerReturn, regexp.MustCompile(`return|\bret\b`), nil},
	{domain.ConditionRefurbished, regexp.MustCompile(`refurb|renewed`), nil},
}

// NormalizeCondition maps free-text condition to the condition vocabulary.
// Returns ConditionUnknown for empty or unrecognized input.
func NormalizeCondition(raw string) domain.Condition {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return domain.ConditionUnknown
	}

	for _, rule := range conditionRules {
		if rule.exclude != nil && rule.exclude.MatchString(s) {
			continue
		}
		if rule.match.MatchString(s) {
			return rule.cond
		}
	}

	return domain.ConditionUnknown
}

// ParsePrice parses a currency string such as "$1,299.99" or "€ 15".
// Anything that is not a finite non-negative number parses as 0.
func ParsePrice(raw string) float64 {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '$', '£', '€', '¥', '₹', ',':
			return -1
		}
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseQuantity parses a unit count. Missing, non-numeric or non-positive
// values default to 1.
func ParseQuantity(raw string) int {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 1
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 {
			return 1
		}
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 && f < math.MaxInt32 {
		return int(f)
	}
	return 1
}

// Normalize converts decoded rows into candidate manifest items, one per
// row and in row order. Rows that will fail validation are still returned
// so the validator can report them.
func Normalize(rows []domain.RawRow) []domain.ManifestItem {
	items := make([]domain.ManifestItem, 0, len(rows))
	for i, row := range rows {
		items = append(items, NormalizeRow(i+1, row))
	}
	return items
}

// NormalizeRow converts a single decoded row. rowNumber is 1-based and
// counts data rows only.
func NormalizeRow(rowNumber int, row domain.RawRow) domain.ManifestItem {
	desc, _ := lookup(row, DescriptionColumns)
	qtyRaw, _ := lookup(row, QuantityColumns)
	priceRaw, _ := lookup(row, RetailPriceColumns)
	totalRaw, _ := lookup(row, TotalRetailColumns)
	condRaw, _ := lookup(row, ConditionColumns)

	item := domain.ManifestItem{
		RowNumber:        rowNumber,
		Description:      CleanDescription(desc),
		Quantity:         ParseQuantity(qtyRaw),
		RetailPrice:      ParsePrice(priceRaw),
		TotalRetailPrice: ParsePrice(totalRaw),
		Condition:        NormalizeCondition(condRaw),
		ConditionRaw:     strings.TrimSpace(condRaw),
	}
	if item.TotalRetailPrice == 0 && item.RetailPrice > 0 {
		item.TotalRetailPrice = item.RetailPrice * float64(item.Quantity)
	}
	if item.Description != "" {
		item.Brand = ExtractBrand(item.Description)
	}

	return item
}
