// Package report renders analyses for terminals: aligned tables for people
// and indented JSON for scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

const timeLayout = "2006-01-02 15:04:05"

// ParseFormat validates an --output value.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table or json)", s)
	}
}

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Analysis writes the executive summary, the category breakdown and, when
// withItems is set, one row per enriched item.
func Analysis(w io.Writer, a *domain.ManifestAnalysis, withItems bool) error {
	tw := newTabWriter(w)
	s := a.ExecutiveSummary

	tw.writef("Manifest ID:\t%s\n", a.ManifestID)
	tw.writef("File:\t%s\n", a.FileName)
	tw.writef("Uploaded:\t%s\n", a.UploadTimestamp.Format(timeLayout))
	tw.writef("Estimator:\t%s\n", a.EstimatorName)
	tw.writef("Items:\t%d valid of %d\n", a.ValidItems, a.TotalItems)
	tw.writef("Retail Value:\t$%.2f\n", a.TotalRetailValue)
	tw.writef("Potential Profit:\t$%.2f\n", a.TotalPotentialProfit)
	tw.writef("Average ROI:\t%.2f%%\n", s.AverageROI)
	tw.writef("Recommendation:\t%s\n", s.RecommendedAction)
	tw.writef("Confidence:\t%.2f\n", s.ConfidenceScore)
	tw.writef("High Risk Items:\t%d\n", s.HighRiskItems)
	tw.writef("Processing:\t%dms\n", a.ProcessingDurationMs)

	if len(a.Categories) > 0 {
		tw.writef("\nCATEGORY\tITEMS\tUNITS\tRETAIL\tESTIMATED\n")
		for i := range a.Categories {
			c := &a.Categories[i]
			tw.writef("%s\t%d\t%d\t$%.2f\t$%.2f\n",
				c.Category, c.Items, c.Units, c.RetailValue, c.EstimatedValue)
		}
	}

	if withItems && len(a.Items) > 0 {
		tw.writef("\nROW\tDESCRIPTION\tCATEGORY\tQTY\tRETAIL\tVALUE\tRISK\tDEGRADED\n")
		for i := range a.Items {
			it := &a.Items[i]
			degraded := "-"
			if len(it.Degraded) > 0 {
				degraded = strings.Join(it.Degraded, ",")
			}
			tw.writef("%d\t%s\t%s\t%d\t$%.2f\t$%.2f\t%d\t%s\n",
				it.RowNumber,
				truncate(it.Description, 40),
				it.Category,
				it.Quantity,
				it.EffectiveTotalRetail(),
				it.EstimatedValue,
				it.RiskScore,
				degraded,
			)
		}
	}

	if len(a.ValidationErrors) > 0 {
		tw.writef("\nSkipped rows:\n")
		for _, e := range a.ValidationErrors {
			tw.writef("  %s\n", e)
		}
	}

	return tw.finish()
}

// Summaries writes one row per stored analysis.
func Summaries(w io.Writer, summaries []domain.ManifestSummary, total int) error {
	tw := newTabWriter(w)
	tw.writef("ID\tFILE\tUPLOADED\tITEMS\tRETAIL\tROI\tACTION\n")
	for i := range summaries {
		s := &summaries[i]
		tw.writef("%s\t%s\t%s\t%d/%d\t$%.2f\t%.2f%%\t%s\n",
			s.ManifestID,
			truncate(s.FileName, 30),
			s.UploadTimestamp.Format(timeLayout),
			s.ValidItems,
			s.TotalItems,
			s.TotalRetailValue,
			s.AverageROI,
			s.RecommendedAction,
		)
	}
	tw.writef("\nShowing %d of %d\n", len(summaries), total)
	return tw.finish()
}

// Validation writes a validation result with its row errors.
func Validation(w io.Writer, res *domain.ValidationResult) error {
	tw := newTabWriter(w)
	tw.writef("Valid:\t%v\n", res.IsValid)
	tw.writef("Rows:\t%d\n", res.TotalItems)
	tw.writef("Valid Rows:\t%d\n", res.ValidItems)
	if len(res.Errors) > 0 {
		tw.writef("\nErrors:\n")
		for _, e := range res.Errors {
			tw.writef("  %s\n", e)
		}
	}
	return tw.finish()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
