package store

import (
	"sort"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// ListQuery pages through stored analyses.
type ListQuery struct {
	Limit  int // default 50, max 500
	Offset int
}

// Normalized returns q with defaults applied and bounds enforced. A nil
// query yields the defaults.
func (q *ListQuery) Normalized() ListQuery {
	var out ListQuery
	if q != nil {
		out = *q
	}

	if out.Limit <= 0 {
		out.Limit = defaultLimit
	}
	if out.Limit > maxLimit {
		out.Limit = maxLimit
	}
	out.Offset = max(out.Offset, 0)

	return out
}

// page sorts summaries newest first (ID breaks ties) and slices out the
// requested page. Used by the backends that cannot order server-side.
func page(all []domain.ManifestSummary, q ListQuery) []domain.ManifestSummary {
	sort.Slice(all, func(i, j int) bool {
		if !all[i].UploadTimestamp.Equal(all[j].UploadTimestamp) {
			return all[i].UploadTimestamp.After(all[j].UploadTimestamp)
		}
		return all[i].ManifestID < all[j].ManifestID
	})

	if q.Offset >= len(all) {
		return []domain.ManifestSummary{}
	}
	end := min(q.Offset+q.Limit, len(all))
	return all[q.Offset:end]
}
