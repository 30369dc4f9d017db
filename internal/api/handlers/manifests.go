package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/manifest-analyzer/internal/analyzer"
	"github.com/donaldgifford/manifest-analyzer/internal/store"
	"github.com/donaldgifford/manifest-analyzer/pkg/manifest"
	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// DefaultMaxUploadBytes bounds manifest content when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// ManifestsHandler serves manifest upload, validation and stored analyses.
type ManifestsHandler struct {
	analyzer  *analyzer.Analyzer
	store     store.Store
	maxUpload int64
	log       *slog.Logger
}

// ManifestsOption configures a ManifestsHandler.
type ManifestsOption func(*ManifestsHandler)

// WithMaxUploadBytes caps the manifest content size. Non-positive values
// keep the default.
func WithMaxUploadBytes(n int64) ManifestsOption {
	return func(h *ManifestsHandler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// WithHandlerLogger sets a custom logger.
func WithHandlerLogger(l *slog.Logger) ManifestsOption {
	return func(h *ManifestsHandler) {
		h.log = l
	}
}

// NewManifestsHandler creates a new ManifestsHandler. Stored analyses are
// read from the analyzer's store.
func NewManifestsHandler(a *analyzer.Analyzer, opts ...ManifestsOption) *ManifestsHandler {
	h := &ManifestsHandler{
		analyzer:  a,
		store:     a.Store(),
		maxUpload: DefaultMaxUploadBytes,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// --- Input/Output types ---

// ManifestUploadBody carries a manifest file inline.
type ManifestUploadBody struct {
	FileName string `json:"file_name" doc:"Original file name; the extension selects the format" minLength:"1" example:"lot-42.csv"`
	Content  string `json:"content"   doc:"Raw manifest file contents"`
}

// UploadManifestInput is the input for analyzing a manifest.
type UploadManifestInput struct {
	Body ManifestUploadBody
}

// UploadManifestOutput is the response for a completed analysis.
type UploadManifestOutput struct {
	Body domain.ManifestAnalysis
}

// ValidateManifestInput is the input for validating a manifest.
type ValidateManifestInput struct {
	Body ManifestUploadBody
}

// ValidateManifestOutput is the response for validating a manifest.
type ValidateManifestOutput struct {
	Body domain.ValidationResult
}

// ListManifestsInput is the input for listing stored analyses.
type ListManifestsInput struct {
	Limit  int `query:"limit"  doc:"Number of results (default 50)" minimum:"0" maximum:"500"`
	Offset int `query:"offset" doc:"Pagination offset"             minimum:"0"`
}

// ListManifestsOutput is the response for listing stored analyses.
type ListManifestsOutput struct {
	Body struct {
		Manifests []domain.ManifestSummary `json:"manifests"`
		Total     int                      `json:"total"`
		Limit     int                      `json:"limit"`
		Offset    int                      `json:"offset"`
	}
}

// ManifestIDInput identifies one stored analysis.
type ManifestIDInput struct {
	ID string `path:"id" doc:"Manifest ID"`
}

// GetManifestOutput is the response for getting a stored analysis.
type GetManifestOutput struct {
	Body domain.ManifestAnalysis
}

// --- Handlers ---

// UploadManifest analyzes a manifest and stores the result.
func (h *ManifestsHandler) UploadManifest(
	ctx context.Context,
	input *UploadManifestInput,
) (*UploadManifestOutput, error) {
	if err := h.checkSize(input.Body.Content); err != nil {
		return nil, err
	}

	analysis, err := h.analyzer.AnalyzeAndStore(ctx, input.Body.FileName, []byte(input.Body.Content))
	if err != nil {
		return nil, h.analysisError(input.Body.FileName, err)
	}
	return &UploadManifestOutput{Body: *analysis}, nil
}

// ValidateManifest reports structural validity without running the estimator.
func (h *ManifestsHandler) ValidateManifest(
	_ context.Context,
	input *ValidateManifestInput,
) (*ValidateManifestOutput, error) {
	if err := h.checkSize(input.Body.Content); err != nil {
		return nil, err
	}

	res, err := h.analyzer.Validate(input.Body.FileName, []byte(input.Body.Content))
	if err != nil {
		return nil, h.analysisError(input.Body.FileName, err)
	}
	if res.Errors == nil {
		res.Errors = []string{}
	}
	return &ValidateManifestOutput{Body: res}, nil
}

// ListManifests returns stored analysis summaries, newest first.
func (h *ManifestsHandler) ListManifests(
	ctx context.Context,
	input *ListManifestsInput,
) (*ListManifestsOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("no analysis store configured")
	}

	q := (&store.ListQuery{Limit: input.Limit, Offset: input.Offset}).Normalized()
	summaries, total, err := h.store.List(ctx, &q)
	if err != nil {
		h.log.Error("listing analyses failed", "error", err)
		return nil, huma.Error503ServiceUnavailable("listing analyses failed: " + err.Error())
	}

	resp := &ListManifestsOutput{}
	resp.Body.Manifests = summaries
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset
	return resp, nil
}

// GetManifest returns one stored analysis.
func (h *ManifestsHandler) GetManifest(
	ctx context.Context,
	input *ManifestIDInput,
) (*GetManifestOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("no analysis store configured")
	}

	analysis, err := h.store.Get(ctx, input.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("manifest not found")
	}
	if err != nil {
		h.log.Error("getting analysis failed", "manifest_id", input.ID, "error", err)
		return nil, huma.Error503ServiceUnavailable("getting analysis failed: " + err.Error())
	}
	return &GetManifestOutput{Body: *analysis}, nil
}

// DeleteManifest removes one stored analysis.
func (h *ManifestsHandler) DeleteManifest(
	ctx context.Context,
	input *ManifestIDInput,
) (*struct{}, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("no analysis store configured")
	}

	removed, err := h.store.Delete(ctx, input.ID)
	if err != nil {
		h.log.Error("deleting analysis failed", "manifest_id", input.ID, "error", err)
		return nil, huma.Error503ServiceUnavailable("deleting analysis failed: " + err.Error())
	}
	if !removed {
		return nil, huma.Error404NotFound("manifest not found")
	}
	return &struct{}{}, nil
}

func (h *ManifestsHandler) checkSize(content string) error {
	if int64(len(content)) > h.maxUpload {
		return huma.NewError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("manifest is %d bytes, limit is %d", len(content), h.maxUpload))
	}
	return nil
}

// analysisError maps analyzer failures onto HTTP statuses.
func (h *ManifestsHandler) analysisError(fileName string, err error) error {
	var (
		decErr     *manifest.DecodeError
		valErr     *manifest.ValidationError
		storeErr   *analyzer.StoreError
		partialErr *analyzer.PartialError
	)

	switch {
	case errors.Is(err, manifest.ErrFormatNotSupported):
		return huma.Error415UnsupportedMediaType(err.Error())
	case errors.As(err, &decErr):
		return huma.Error400BadRequest(err.Error())
	case errors.As(err, &valErr):
		details := make([]error, 0, len(valErr.Result.Errors))
		for _, msg := range valErr.Result.Errors {
			details = append(details, &huma.ErrorDetail{Message: msg, Location: "body.content"})
		}
		return huma.Error422UnprocessableEntity(err.Error(), details...)
	case errors.As(err, &storeErr):
		return huma.Error503ServiceUnavailable("analysis completed but could not be stored: " + storeErr.Err.Error())
	case errors.As(err, &partialErr):
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		h.log.Error("manifest analysis failed", "file_name", fileName, "error", err)
		return huma.Error500InternalServerError("manifest analysis failed")
	}
}

// RegisterManifestRoutes registers manifest endpoints with the Huma API.
func RegisterManifestRoutes(api huma.API, h *ManifestsHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "upload-manifest",
		Method:        http.MethodPost,
		Path:          "/api/v1/manifests",
		Summary:       "Analyze a manifest",
		Description:   "Decodes, validates and enriches a liquidation manifest, stores the analysis and returns it.",
		Tags:          []string{"manifests"},
		DefaultStatus: http.StatusCreated,
		MaxBodyBytes:  h.maxUpload * 2,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusRequestEntityTooLarge,
			http.StatusUnsupportedMediaType,
			http.StatusUnprocessableEntity,
			http.StatusServiceUnavailable,
		},
	}, h.UploadManifest)

	huma.Register(api, huma.Operation{
		OperationID:  "validate-manifest",
		Method:       http.MethodPost,
		Path:         "/api/v1/manifests/validate",
		Summary:      "Validate a manifest",
		Description:  "Checks a manifest's structure and reports row errors without analyzing it.",
		Tags:         []string{"manifests"},
		MaxBodyBytes: h.maxUpload * 2,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusRequestEntityTooLarge,
			http.StatusUnsupportedMediaType,
		},
	}, h.ValidateManifest)

	huma.Register(api, huma.Operation{
		OperationID: "list-manifests",
		Method:      http.MethodGet,
		Path:        "/api/v1/manifests",
		Summary:     "List analyses",
		Description: "Returns stored analysis summaries, newest first.",
		Tags:        []string{"manifests"},
		Errors:      []int{http.StatusServiceUnavailable},
	}, h.ListManifests)

	huma.Register(api, huma.Operation{
		OperationID: "get-manifest",
		Method:      http.MethodGet,
		Path:        "/api/v1/manifests/{id}",
		Summary:     "Get an analysis",
		Description: "Returns one stored analysis including its enriched items.",
		Tags:        []string{"manifests"},
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, h.GetManifest)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-manifest",
		Method:        http.MethodDelete,
		Path:          "/api/v1/manifests/{id}",
		Summary:       "Delete an analysis",
		Tags:          []string{"manifests"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, h.DeleteManifest)
}
