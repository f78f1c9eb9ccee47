package db

import (
	"fmt"
	"strings"
)

// datasetColumns lists the datasets table columns in scan order
var datasetColumns = []string{
	"id", "name", "path", "row_count", "column_count", "byte_count",
	"estimated_bytes", "checksum", "seed", "created_at", "duration_ms",
}

// BuildDatasetsTableSQL returns the DDL for the dataset catalog
func BuildDatasetsTableSQL() string {
	return `
CREATE TABLE IF NOT EXISTS datasets (
	id              VARCHAR PRIMARY KEY,
	name            VARCHAR NOT NULL,
	path            VARCHAR NOT NULL,
	row_count       BIGINT NOT NULL,
	column_count    INTEGER NOT NULL,
	byte_count      BIGINT NOT NULL,
	estimated_bytes BIGINT NOT NULL,
	checksum        VARCHAR NOT NULL,
	seed            BIGINT NOT NULL,
	created_at      TIMESTAMP NOT NULL,
	duration_ms     BIGINT NOT NULL
)`
}

// BuildIndexesSQL returns the index DDL for the dataset catalog
func BuildIndexesSQL() string {
	return `
CREATE INDEX IF NOT EXISTS idx_datasets_path ON datasets(path);
CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at);`
}

// quoteLiteral quotes s as a SQL string literal
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// buildFileStatsSQL reads a generated CSV through DuckDB's CSV reader
func buildFileStatsSQL(path string) string {
	return fmt.Sprintf(`
SELECT count(*), coalesce(min("ID"), 0), coalesce(max("ID"), 0), count(DISTINCT "ID")
FROM read_csv_auto(%s, header = true)`, quoteLiteral(path))
}

// buildFileColumnsSQL selects no rows so only the detected columns are returned
func buildFileColumnsSQL(path string) string {
	return fmt.Sprintf(`SELECT * FROM read_csv_auto(%s, header = true) LIMIT 0`, quoteLiteral(path))
}
