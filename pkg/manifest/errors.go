// Package manifest turns raw manifest files into validated manifest items:
// CSV decoding, field normalization and structural validation. Everything in
// this package is deterministic and free of I/O.
package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// ErrFormatNotSupported is returned for manifest formats the decoder cannot read.
var ErrFormatNotSupported = errors.New("format not supported")

// unsupportedExtensions are spreadsheet and document formats that are
// rejected before decoding.
var unsupportedExtensions = map[string]string{
	".xlsx": "Excel",
	".xls":  "Excel",
	".xlsm": "Excel",
	".ods":  "OpenDocument spreadsheet",
	".pdf":  "PDF",
}

// CheckFormat rejects file names whose extension names a format the decoder
// cannot read. Unknown or missing extensions are treated as delimited text.
func CheckFormat(fileName string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if kind, ok := unsupportedExtensions[ext]; ok {
		return fmt.Errorf("%w: %s manifests (%s) are not implemented for this format, export as CSV",
			ErrFormatNotSupported, kind, ext)
	}
	return nil
}

// DecodeError reports a malformed or empty manifest file.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding manifest: %s: %v", e.Reason, e.Err)
	}
	return "decoding manifest: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidationError reports a manifest in which no row qualifies for analysis.
type ValidationError struct {
	Result domain.ValidationResult
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("no analyzable items: %d of %d rows valid",
		e.Result.ValidItems, e.Result.TotalItems)
	if len(e.Result.Errors) > 0 {
		msg += " (" + e.Result.Errors[0] + ")"
	}
	return msg
}
