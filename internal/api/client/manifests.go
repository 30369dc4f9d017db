package client

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// UploadRequest is the body of an upload or validate call.
type UploadRequest struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

// ReadUpload builds an UploadRequest from a file on disk.
func ReadUpload(path string) (*UploadRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return &UploadRequest{FileName: filepath.Base(path), Content: string(data)}, nil
}

// ManifestsResponse wraps a paginated list of analysis summaries.
type ManifestsResponse struct {
	Manifests []domain.ManifestSummary `json:"manifests"`
	Total     int                      `json:"total"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}

// UploadManifest analyzes a manifest and returns the stored analysis.
func (c *Client) UploadManifest(ctx context.Context, req *UploadRequest) (*domain.ManifestAnalysis, error) {
	var analysis domain.ManifestAnalysis
	if err := c.post(ctx, "/api/v1/manifests", req, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// ValidateManifest checks a manifest without analyzing it.
func (c *Client) ValidateManifest(ctx context.Context, req *UploadRequest) (*domain.ValidationResult, error) {
	var res domain.ValidationResult
	if err := c.post(ctx, "/api/v1/manifests/validate", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListManifests returns stored analysis summaries, newest first. Zero
// values leave paging to the server defaults.
func (c *Client) ListManifests(ctx context.Context, limit, offset int) (*ManifestsResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	path := "/api/v1/manifests"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ManifestsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetManifest returns one stored analysis.
func (c *Client) GetManifest(ctx context.Context, id string) (*domain.ManifestAnalysis, error) {
	var analysis domain.ManifestAnalysis
	if err := c.get(ctx, "/api/v1/manifests/"+url.PathEscape(id), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// DeleteManifest removes one stored analysis.
func (c *Client) DeleteManifest(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/manifests/"+url.PathEscape(id))
}

// ReadyStatus is the /readyz body.
type ReadyStatus struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Ready reports whether the server and its store are reachable.
func (c *Client) Ready(ctx context.Context) (*ReadyStatus, error) {
	var rs ReadyStatus
	if err := c.get(ctx, "/readyz", &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}
