package store

// PostgreSQL queries.
const (
	queryPutAnalysis = `
INSERT INTO analyses (
	id, file_name, uploaded_at, total_items, valid_items,
	total_retail_value, average_roi, recommended_action, document
) VALUES (
	@id, @file_name, @uploaded_at, @total_items, @valid_items,
	@total_retail_value, @average_roi, @recommended_action, @document
)
ON CONFLICT (id) DO UPDATE SET
	file_name          = EXCLUDED.file_name,
	uploaded_at        = EXCLUDED.uploaded_at,
	total_items        = EXCLUDED.total_items,
	valid_items        = EXCLUDED.valid_items,
	total_retail_value = EXCLUDED.total_retail_value,
	average_roi        = EXCLUDED.average_roi,
	recommended_action = EXCLUDED.recommended_action,
	document           = EXCLUDED.document,
	updated_at         = now()`

	queryGetAnalysis = `SELECT document FROM analyses WHERE id = $1`

	queryDeleteAnalysis = `DELETE FROM analyses WHERE id = $1`

	queryCountAnalyses = `SELECT COUNT(*) FROM analyses`

	queryListAnalyses = `
SELECT id, file_name, uploaded_at, total_items, valid_items,
	total_retail_value, average_roi, recommended_action
FROM analyses
ORDER BY uploaded_at DESC, id
LIMIT $1 OFFSET $2`

	queryDeleteAnalysesBefore = `DELETE FROM analyses WHERE uploaded_at < $1`
)

// SQLite queries. uploaded_at holds unix nanoseconds.
const (
	sqlitePutAnalysis = `
INSERT INTO analyses (
	id, file_name, uploaded_at, total_items, valid_items,
	total_retail_value, average_roi, recommended_action, document
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	file_name          = excluded.file_name,
	uploaded_at        = excluded.uploaded_at,
	total_items        = excluded.total_items,
	valid_items        = excluded.valid_items,
	total_retail_value = excluded.total_retail_value,
	average_roi        = excluded.average_roi,
	recommended_action = excluded.recommended_action,
	document           = excluded.document`

	sqliteGetAnalysis = `SELECT document FROM analyses WHERE id = ?`

	sqliteDeleteAnalysis = `DELETE FROM analyses WHERE id = ?`

	sqliteCountAnalyses = `SELECT COUNT(*) FROM analyses`

	sqliteListAnalyses = `
SELECT id, file_name, uploaded_at, total_items, valid_items,
	total_retail_value, average_roi, recommended_action
FROM analyses
ORDER BY uploaded_at DESC, id
LIMIT ? OFFSET ?`

	sqliteDeleteAnalysesBefore = `DELETE FROM analyses WHERE uploaded_at < ?`
)
