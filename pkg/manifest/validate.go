package manifest

import (
	"fmt"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// maxReportedErrors caps per-row messages so a broken 50k-line file does not
// produce a 50k-entry error list.
const maxReportedErrors = 50

// IsValidItem reports whether an item qualifies for enrichment: it needs a
// non-empty cleaned description and a positive unit or total retail price.
func IsValidItem(item *domain.ManifestItem) bool {
	return item.Description != "" && (item.RetailPrice > 0 || item.TotalRetailPrice > 0)
}

// Validate checks candidate items against the minimum-viable-item rules.
// Items are never modified.
func Validate(items []domain.ManifestItem) domain.ValidationResult {
	res := domain.ValidationResult{
		TotalItems: len(items),
		Errors:     []string{},
	}

	var suppressed int
	for i := range items {
		it := &items[i]
		if IsValidItem(it) {
			res.ValidItems++
			continue
		}
		if len(res.Errors) >= maxReportedErrors {
			suppressed++
			continue
		}
		res.Errors = append(res.Errors, rowError(it))
	}

	if suppressed > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%d more invalid rows not listed", suppressed))
	}

	res.IsValid = res.ValidItems > 0
	if !res.IsValid {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"no valid items found in %d rows: each row needs a description and a retail price",
			res.TotalItems,
		))
	}

	return res
}

func rowError(it *domain.ManifestItem) string {
	switch {
	case it.Description == "":
		return fmt.Sprintf("row %d: missing description", it.RowNumber)
	default:
		return fmt.Sprintf("row %d: no retail price or total retail price for %q",
			it.RowNumber, truncate(it.Description, 40))
	}
}

// FilterValid returns the items that pass IsValidItem, preserving order.
func FilterValid(items []domain.ManifestItem) []domain.ManifestItem {
	out := make([]domain.ManifestItem, 0, len(items))
	for i := range items {
		if IsValidItem(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// Parse runs decode, normalize and validate over raw file contents and
// returns the valid items. A file with no valid rows yields a
// *ValidationError carrying the full result.
func Parse(fileName string, data []byte) ([]domain.ManifestItem, domain.ValidationResult, error) {
	if err := CheckFormat(fileName); err != nil {
		return nil, domain.ValidationResult{}, err
	}

	rows, err := DecodeBytes(data)
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}

	candidates := Normalize(rows)
	res := Validate(candidates)
	if !res.IsValid {
		return nil, res, &ValidationError{Result: res}
	}

	return FilterValid(candidates), res, nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
