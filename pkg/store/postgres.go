// pkg/store/postgres.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tabkit/explorer/pkg/config"
	"github.com/tabkit/explorer/pkg/model"
)

// PostgresStore is the server-backed reference implementation of
// PageFetcher. Record payloads live in a JSONB column; per-column filters
// compile to `payload->>col ILIKE pattern`, keeping the store's query
// capability identical to the SQLite store's.
type PostgresStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresStore connects to PostgreSQL and ensures the schema exists
func NewPostgresStore(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("postgres-store")

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database))

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	s := &PostgresStore{db: db, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up postgres schema: %w", err)
	}

	return s, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.logger.Info("Closing PostgreSQL store")
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS datasets (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			columns    JSONB NOT NULL,
			file_name  TEXT NOT NULL DEFAULT '',
			file_type  TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
		CREATE TABLE IF NOT EXISTS records (
			dataset_id TEXT NOT NULL,
			record_id  TEXT NOT NULL,
			row_num    INTEGER NOT NULL,
			payload    JSONB NOT NULL,
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
func (s *PostgresStore) CreateDataset(ctx context.Context, name string, columns []string, fileName, fileType string) (*model.Dataset, error) {
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
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ds.ID, ds.Name, string(columnsJSON), ds.FileName, ds.FileType, ds.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset: %w", err)
	}

	s.logger.Info("Created dataset",
		zap.String("datasetID", ds.ID),
		zap.String("name", name))
	return ds, nil
}

// AppendRecords appends rows to a dataset with store-assigned row numbers
func (s *PostgresStore) AppendRecords(ctx context.Context, datasetID string, rows []map[string]interface{}) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_num), 0) + 1 FROM records WHERE dataset_id = $1`,
		datasetID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to read current row count: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (dataset_id, record_id, row_num, payload) VALUES ($1, $2, $3, $4)`)
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
	return inserted, nil
}

// Metadata returns a dataset's descriptor including its total row count
func (s *PostgresStore) Metadata(ctx context.Context, datasetID string) (*model.Dataset, error) {
	var (
		ds          model.Dataset
		columnsJSON []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, columns, file_name, file_type, created_at
		 FROM datasets WHERE id = $1`, datasetID).
		Scan(&ds.ID, &ds.Name, &columnsJSON, &ds.FileName, &ds.FileType, &ds.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", datasetID, err)
	}

	if err := json.Unmarshal(columnsJSON, &ds.Columns); err != nil {
		return nil, fmt.Errorf("failed to decode column headers: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE dataset_id = $1`, datasetID).Scan(&ds.TotalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	return &ds, nil
}

// FetchPage executes the negotiated query against one dataset
func (s *PostgresStore) FetchPage(ctx context.Context, datasetID string, q model.FetchQuery) (*PageResult, error) {
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
			payload []byte
		)
		if err := rows.Scan(&rec.ID, &rec.RowNum, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal(payload, &rec.Values); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", rec.ID, err)
		}
		result.Records = append(result.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page: %w", err)
	}

	return result, nil
}

func (s *PostgresStore) buildWhere(datasetID string, q model.FetchQuery) (string, []interface{}) {
	clauses := []string{"dataset_id = $1"}
	args := []interface{}{datasetID}

	next := func() int { return len(args) + 1 }

	if q.Search != "" {
		clauses = append(clauses,
			fmt.Sprintf(`payload::text ILIKE '%%' || $%d || '%%' ESCAPE '\'`, next()))
		args = append(args, escapeLike(q.Search))
	}

	for _, column := range sortedFilterColumns(q.Filters) {
		colParam := next()
		args = append(args, column)
		patParam := next()
		args = append(args, escapeLike(q.Filters[column]))
		clauses = append(clauses,
			fmt.Sprintf(`COALESCE(payload->>$%d, '') ILIKE '%%' || $%d || '%%' ESCAPE '\'`, colParam, patParam))
	}

	return strings.Join(clauses, " AND "), args
}
