package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

func TestListQuery_Normalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query *ListQuery
		want  ListQuery
	}{
		{name: "nil query uses defaults", query: nil, want: ListQuery{Limit: 50}},
		{name: "zero limit uses default", query: &ListQuery{Offset: 5}, want: ListQuery{Limit: 50, Offset: 5}},
		{name: "limit capped", query: &ListQuery{Limit: 10_000}, want: ListQuery{Limit: 500}},
		{name: "negative offset clamped", query: &ListQuery{Limit: 10, Offset: -3}, want: ListQuery{Limit: 10}},
		{name: "explicit values kept", query: &ListQuery{Limit: 25, Offset: 75}, want: ListQuery{Limit: 25, Offset: 75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.query.Normalized())
		})
	}
}

func TestPage(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	all := []domain.ManifestSummary{
		{ManifestID: "b", UploadTimestamp: t0},
		{ManifestID: "c", UploadTimestamp: t0.Add(time.Hour)},
		{ManifestID: "a", UploadTimestamp: t0},
	}

	got := page(all, ListQuery{Limit: 2})
	assert.Equal(t, "c", got[0].ManifestID)
	// Equal timestamps fall back to ID order.
	assert.Equal(t, "a", got[1].ManifestID)

	assert.Empty(t, page(all, ListQuery{Limit: 2, Offset: 3}))
}
