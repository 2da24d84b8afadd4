// pkg/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/tabkit/explorer/pkg/model"
)

// SQLiteStore is an embedded reference implementation of PageFetcher.
// Records are kept as JSON payloads; per-column filters compile to
// json_extract + LIKE, which matches the substring-only capability the
// negotiator assumes.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the store at path and ensures the
// schema exists
func NewSQLiteStore(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("sqlite-store")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up sqlite schema: %w", err)
	}

	logger.Info("Opened SQLite store", zap.String("path", path))
	return s, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	s.logger.Info("Closing SQLite store")
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS datasets (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			columns    TEXT NOT NULL,
			file_name  TEXT NOT NULL DEFAULT '',
			file_type  TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS records (
			dataset_id TEXT NOT NULL,
			record_id  TEXT NOT NULL,
			row_num    INTEGER NOT NULL,
			payload    TEXT NOT NULL,
			PRIMARY KEY (dataset_id, record_id)
		);
		CREATE INDEX IF NOT EXISTS idx_records_dataset ON records (dataset_id, row_num);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// CreateDataset registers a dataset and returns its descriptor
func (s *SQLiteStore) CreateDataset(ctx context.Context, name string, columns []string, fileName, fileType string) (*model.Dataset, error) {
	columnsJSON, err := json.Marshal(columns)
	if err != nil {
		return nil, fmt.Errorf("failed to encode column headers: %w", err)
	}

	ds := &model.Dataset{
		ID:        uuid.New().String(),
		Name:      name,
		Columns:   columns,
		FileName:  fileName,
		FileType:  fileType,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO datasets (id, name, columns, file_name, file_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ds.ID, ds.Name, string(columnsJSON), ds.FileName, ds.FileType, ds.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset: %w", err)
	}

	s.logger.Info("Created dataset",
		zap.String("datasetID", ds.ID),
		zap.String("name", name),
		zap.Int("columns", len(columns)))
	return ds, nil
}

// AppendRecords appends rows to a dataset, assigning stable 1-based row
// numbers after the current maximum
func (s *SQLiteStore) AppendRecords(ctx context.Context, datasetID string, rows []map[string]interface{}) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxRow sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(row_num) FROM records WHERE dataset_id = ?`, datasetID).Scan(&maxRow)
	if err != nil {
		return 0, fmt.Errorf("failed to read current row count: %w", err)
	}
	next := int(maxRow.Int64) + 1

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (dataset_id, record_id, row_num, payload) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return inserted, fmt.Errorf("failed to encode row %d: %w", next, err)
		}
		if _, err := stmt.ExecContext(ctx, datasetID, uuid.New().String(), next, string(payload)); err != nil {
			return inserted, fmt.Errorf("failed to insert row %d: %w", next, err)
		}
		next++
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("failed to commit insert: %w", err)
	}

	s.logger.Debug("Appended records",
		zap.String("datasetID", datasetID),
		zap.Int("count", inserted))
	return inserted, nil
}

// Metadata returns a dataset's descriptor including its total row count
func (s *SQLiteStore) Metadata(ctx context.Context, datasetID string) (*model.Dataset, error) {
	var (
		ds          model.Dataset
		columnsJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, columns, file_name, file_type, created_at
		 FROM datasets WHERE id = ?`, datasetID).
		Scan(&ds.ID, &ds.Name, &columnsJSON, &ds.FileName, &ds.FileType, &ds.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", datasetID, err)
	}

	if err := json.Unmarshal([]byte(columnsJSON), &ds.Columns); err != nil {
		return nil, fmt.Errorf("failed to decode column headers: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE dataset_id = ?`, datasetID).Scan(&ds.TotalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	return &ds, nil
}

// FetchPage executes the negotiated query: substring filters per column,
// a global search term over the whole payload, LIMIT and OFFSET
func (s *SQLiteStore) FetchPage(ctx context.Context, datasetID string, q model.FetchQuery) (*PageResult, error) {
	where, args := s.buildWhere(datasetID, q)

	var total int
	countQuery := "SELECT COUNT(*) FROM records WHERE " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count filtered records: %w", err)
	}

	pageQuery := fmt.Sprintf(
		"SELECT record_id, row_num, payload FROM records WHERE %s ORDER BY row_num LIMIT %d OFFSET %d",
		where, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer rows.Close()

	result := &PageResult{TotalCount: total}
	for rows.Next() {
		var (
			rec     model.Record
			payload string
		)
		if err := rows.Scan(&rec.ID, &rec.RowNum, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.Values); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", rec.ID, err)
		}
		result.Records = append(result.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page: %w", err)
	}

	return result, nil
}

// buildWhere assembles the AND-combined WHERE clause for a query. Filter
// columns are sorted so the generated SQL is deterministic.
func (s *SQLiteStore) buildWhere(datasetID string, q model.FetchQuery) (string, []interface{}) {
	clauses := []string{"dataset_id = ?"}
	args := []interface{}{datasetID}

	if q.Search != "" {
		clauses = append(clauses, `lower(payload) LIKE '%' || lower(?) || '%' ESCAPE '\'`)
		args = append(args, escapeLike(q.Search))
	}

	for _, column := range sortedFilterColumns(q.Filters) {
		path := "$." + strings.ReplaceAll(column, `"`, ``)
		clauses = append(clauses,
			`lower(COALESCE(json_extract(payload, ?), '')) LIKE '%' || lower(?) || '%' ESCAPE '\'`)
		args = append(args, path, escapeLike(q.Filters[column]))
	}

	return strings.Join(clauses, " AND "), args
}
