package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/manifest-analyzer/pkg/manifest"
	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

func TestCleanDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \t\n ", want: ""},
		{name: "collapse whitespace", in: "  Apple   iPhone\t14  Pro ", want: "Apple iPhone 14 Pro"},
		{name: "new prefix", in: "NEW Apple iPhone 14", want: "Apple iPhone 14"},
		{name: "prefix is case insensitive", in: "brand new DeWalt Drill", want: "DeWalt Drill"},
		{name: "factory sealed prefix", in: "Factory Sealed PS5 Console", want: "PS5 Console"},
		{name: "nib prefix", in: "NIB Nike Air Max", want: "Nike Air Max"},
		{name: "bnib prefix", in: "BNIB Nike Air Max", want: "Nike Air Max"},
		{name: "dash new suffix", in: "KitchenAid Mixer - NEW", want: "KitchenAid Mixer"},
		{name: "paren new suffix", in: "KitchenAid Mixer (new)", want: "KitchenAid Mixer"},
		{name: "bracket new suffix", in: "KitchenAid Mixer [NEW]", want: "KitchenAid Mixer"},
		{name: "stacked affixes", in: "NEW BRAND NEW Roku Stick - BRAND NEW", want: "Roku Stick"},
		{name: "word new inside is kept", in: "New Balance 574 Sneakers", want: "Balance 574 Sneakers"},
		{name: "disallowed characters", in: `Samsung 65" QLED TV!!`, want: "Samsung 65 QLED TV"},
		{name: "allowed punctuation kept", in: "Tools & More - 1/2in [set] $5.99", want: "Tools & More - 1/2in [set] $5.99"},
		{name: "exposed prefix after punctuation", in: "NEW! Cordless Drill", want: "Cordless Drill"},
		{name: "only marketing", in: "NEW", want: "NEW"},
		{name: "unicode letters kept", in: "Café Table", want: "Café Table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, manifest.CleanDescription(tt.in))
		})
	}
}

func TestCleanDescription_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"NEW! NEW! Drill",
		"  (NEW) Lamp (NEW)  ",
		"BRAND NEW - NEW",
		`"Quoted" & 'single' <tags> {braces}`,
		"Lamp - NEW!",
		"NIB  BNIB   Factory Sealed  Item [NEW] (NEW) - NEW",
		"日本語 テキスト NEW",
		"\x00\xff broken utf8",
		"----....$$$$",
	}

	for _, in := range inputs {
		once := manifest.CleanDescription(in)
		assert.Equal(t, once, manifest.CleanDescription(once), "input %q", in)
	}
}

func TestExtractBrand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "electronics brand", in: "Apple iPhone 14 Pro", want: "Apple"},
		{name: "case insensitive canonical", in: "refurbished samsung galaxy s22", want: "Samsung"},
		{name: "plumbing brand", in: "Moen Kitchen Faucet Chrome", want: "Moen"},
		{name: "multi word brand", in: "Glacier Bay 2-Handle Faucet", want: "Glacier Bay"},
		{name: "tools brand", in: "DEWALT 20V MAX Drill", want: "DeWalt"},
		{name: "appliance brand", in: "Cuisinart 12-Cup Coffee Maker", want: "Cuisinart"},
		{name: "fashion brand", in: "Men's Nike Running Shoes", want: "Nike"},
		{name: "electronics outranks tools", in: "Bosch Dishwasher with Samsung panel", want: "Samsung"},
		{name: "brand must be a whole word", in: "Hpx Widget", want: "Hpx"},
		{name: "capitalized word fallback", in: "12pk Zebra Gel Pens", want: "Zebra"},
		{name: "skips short words", in: "XL Patio Umbrella", want: "Patio"},
		{name: "skips digits", in: "4K Monitor", want: "Monitor"},
		{name: "no candidate", in: "assorted items lot", want: "Unknown"},
		{name: "empty", in: "", want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, manifest.ExtractBrand(tt.in))
		})
	}
}

func TestNormalizeCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want domain.Condition
	}{
		{"", domain.ConditionUnknown},
		{"   ", domain.ConditionUnknown},
		{"New", domain.ConditionNew},
		{"BRAND NEW", domain.ConditionNew},
		{"Factory Sealed", domain.ConditionNew},
		{"Like New", domain.ConditionLikeNew},
		{"like-new", domain.ConditionLikeNew},
		{"Excellent", domain.ConditionLikeNew},
		{"Very Good", domain.ConditionGood},
		{"good", domain.ConditionGood},
		{"Fair", domain.ConditionFair},
		{"Acceptable", domain.ConditionFair},
		{"Poor", domain.ConditionPoor},
		{"Damaged Box", domain.ConditionPoor},
		{"Customer Return", domain.ConditionCustomerReturn},
		{"RET", domain.ConditionCustomerReturn},
		{"Refurbished", domain.ConditionRefurbished},
		{"Renewed", domain.ConditionRefurbished},
		{"Retail Packaging", domain.ConditionUnknown},
		{"Open Box", domain.ConditionUnknown},
		{"Salvage", domain.ConditionUnknown},
		// Earlier rules win when several match.
		{"New - Damaged Box", domain.ConditionNew},
		{"Returned - Good", domain.ConditionGood},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, manifest.NormalizeCondition(tt.in))
		})
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"999.00", 999},
		{"$1,299.99", 1299.99},
		{"£15", 15},
		{"€ 1.234", 1.234},
		{"¥500", 500},
		{"₹2,000", 2000},
		{"  42 ", 42},
		{"N/A", 0},
		{"abc", 0},
		{"-5.00", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"$", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, manifest.ParsePrice(tt.in), 0.0001)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"", 1},
		{"1", 1},
		{"12", 12},
		{"1,200", 1200},
		{"3.0", 3},
		{"0", 1},
		{"-4", 1},
		{"many", 1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, manifest.ParseQuantity(tt.in))
		})
	}
}

func TestNormalize_IPhoneScenario(t *testing.T) {
	t.Parallel()

	rows, err := manifest.Decode(
		"Product,Retail Price,Quantity,Condition,Total Retail Price\n" +
			"Apple iPhone 14 Pro,999.00,1,New,999.00",
	)
	require.NoError(t, err)

	items := manifest.Normalize(rows)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, 1, it.RowNumber)
	assert.Equal(t, "Apple iPhone 14 Pro", it.Description)
	assert.Equal(t, "Apple", it.Brand)
	assert.Equal(t, 1, it.Quantity)
	assert.InDelta(t, 999.00, it.RetailPrice, 0.001)
	assert.InDelta(t, 999.00, it.TotalRetailPrice, 0.001)
	assert.Equal(t, domain.ConditionNew, it.Condition)
}

func TestNormalize_DescriptionColumnFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{name: "description", header: "description"},
		{name: "item", header: "item"},
		{name: "product", header: "product"},
		{name: "name", header: "name"},
		{name: "title", header: "title"},
		{name: "product name", header: "product name"},
		{name: "item description", header: "item description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			items := manifest.Normalize([]domain.RawRow{{tt.header: "Widget", "price": "5"}})
			require.Len(t, items, 1)
			assert.Equal(t, "Widget", items[0].Description)
		})
	}
}

func TestNormalize_DescriptionColumnPriority(t *testing.T) {
	t.Parallel()

	items := manifest.Normalize([]domain.RawRow{{
		"title":       "From Title",
		"item":        "From Item",
		"description": "From Description",
	}})
	assert.Equal(t, "From Description", items[0].Description)

	items = manifest.Normalize([]domain.RawRow{{"title": "From Title", "item": "From Item"}})
	assert.Equal(t, "From Item", items[0].Description)
}

func TestNormalize_TotalRetailFallback(t *testing.T) {
	t.Parallel()

	items := manifest.Normalize([]domain.RawRow{
		{"description": "Lamp", "retail price": "$20.00", "quantity": "3"},
		{"description": "Rug", "retail price": "10", "quantity": "2", "total retail price": "25"},
	})

	assert.InDelta(t, 60.0, items[0].TotalRetailPrice, 0.001)
	assert.InDelta(t, 25.0, items[1].TotalRetailPrice, 0.001)
	assert.Equal(t, 2, items[1].RowNumber)
}
