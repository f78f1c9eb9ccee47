package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Project-Sylos/Tabula/internal/types"
	_ "github.com/marcboeker/go-duckdb"
)

// ErrNotFound is returned when a dataset ID is not in the catalog
var ErrNotFound = errors.New("dataset not found")

// DB wraps a DuckDB connection holding the dataset catalog
type DB struct {
	conn *sql.DB
	mu   sync.Mutex // Protects all database operations from concurrent access
}

// New opens (or creates) the catalog at dbPath and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.InitializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// InitializeSchema creates the datasets table and its indexes if missing
func (db *DB) InitializeSchema() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec(BuildDatasetsTableSQL()); err != nil {
		return fmt.Errorf("failed to create datasets table: %w", err)
	}
	if _, err := db.conn.Exec(BuildIndexesSQL()); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// InsertDataset records a dataset, replacing any earlier entry for the same path
func (db *DB) InsertDataset(ds *types.Dataset) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM datasets WHERE path = ?", ds.Path); err != nil {
		return fmt.Errorf("failed to replace dataset at %s: %w", ds.Path, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(datasetColumns)), ", ")
	query := fmt.Sprintf("INSERT INTO datasets (%s) VALUES (%s)", strings.Join(datasetColumns, ", "), placeholders)
	_, err = tx.Exec(query,
		ds.ID,
		ds.Name,
		ds.Path,
		ds.Rows,
		ds.Columns,
		ds.Bytes,
		ds.EstimatedBytes,
		ds.Checksum,
		ds.Seed,
		ds.CreatedAt,
		ds.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dataset %s: %w", ds.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset %s: %w", ds.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(row scanner) (*types.Dataset, error) {
	ds := &types.Dataset{}
	err := row.Scan(
		&ds.ID,
		&ds.Name,
		&ds.Path,
		&ds.Rows,
		&ds.Columns,
		&ds.Bytes,
		&ds.EstimatedBytes,
		&ds.Checksum,
		&ds.Seed,
		&ds.CreatedAt,
		&ds.DurationMS,
	)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// GetDataset retrieves a dataset by ID
func (db *DB) GetDataset(id string) (*types.Dataset, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	query := fmt.Sprintf("SELECT %s FROM datasets WHERE id = ?", strings.Join(datasetColumns, ", "))
	ds, err := scanDataset(db.conn.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get dataset %s: %w", id, err)
	}
	return ds, nil
}

// ListDatasets returns all datasets, newest first
func (db *DB) ListDatasets() ([]*types.Dataset, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	query := fmt.Sprintf("SELECT %s FROM datasets ORDER BY created_at DESC, name", strings.Join(datasetColumns, ", "))
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	datasets := []*types.Dataset{}
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate datasets: %w", err)
	}
	return datasets, nil
}

// DeleteDataset removes a dataset entry by ID
func (db *DB) DeleteDataset(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.conn.Exec("DELETE FROM datasets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete dataset %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// CountDatasets returns the number of datasets in the catalog
func (db *DB) CountDatasets() (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var count int
	if err := db.conn.QueryRow("SELECT count(*) FROM datasets").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count datasets: %w", err)
	}
	return count, nil
}

// VerifyFile reads a generated CSV with DuckDB and reports its row and ID statistics
func (db *DB) VerifyFile(path string) (*types.FileStats, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	stats := &types.FileStats{}
	err := db.conn.QueryRow(buildFileStatsSQL(path)).Scan(&stats.Rows, &stats.MinID, &stats.MaxID, &stats.DistinctIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	rows, err := db.conn.Query(buildFileColumnsSQL(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", path, err)
	}
	stats.Columns = len(columns)

	return stats, nil
}
