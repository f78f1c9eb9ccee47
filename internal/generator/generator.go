package generator

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Defaults applied when Options leaves a value at zero
const (
	DefaultProgressInterval    = 25_000
	DefaultBytesPerRowEstimate = 200
)

// ErrInvalidRowCount is returned before any output is produced when the row count is not positive
var ErrInvalidRowCount = errors.New("row count must be a positive integer")

// Options controls a single generation run
type Options struct {
	Seed                int64 // 0 picks a time-based seed
	ProgressInterval    int64
	BytesPerRowEstimate int64
	Reporter            Reporter
	Schema              Schema // nil uses DefaultSchema
}

// Summary describes a finished generation run
type Summary struct {
	Path           string
	Rows           int64
	Columns        int
	Bytes          int64
	EstimatedBytes int64
	Checksum       string
	Seed           int64
	Duration       time.Duration
}

// EstimatedMB returns the rough size estimate in whole megabytes
func (s *Summary) EstimatedMB() int64 {
	return s.EstimatedBytes / 1024 / 1024
}

func (o Options) withDefaults() Options {
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	if o.BytesPerRowEstimate <= 0 {
		o.BytesPerRowEstimate = DefaultBytesPerRowEstimate
	}
	if o.Reporter == nil {
		o.Reporter = NopReporter{}
	}
	if o.Schema == nil {
		o.Schema = DefaultSchema()
	}
	o.Seed = ResolveSeed(o.Seed)
	return o
}

// countingWriter counts bytes passed through to the underlying writers
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// openOutput creates or truncates the destination of GenerateFile
var openOutput = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

// RemovePartial deletes a failed output file. Only regular files are removed,
// so device nodes, pipes and symlinks given as destinations are left alone.
func RemovePartial(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Generate writes a header and rows records to w
func Generate(w io.Writer, rows int64, opts Options) (*Summary, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRowCount, rows)
	}
	opts = opts.withDefaults()

	opts.Reporter.Start("", rows)
	summary, err := generate(w, rows, opts)
	if err != nil {
		return nil, err
	}
	opts.Reporter.Complete(summary)
	return summary, nil
}

// GenerateFile creates or truncates path and writes rows records into it.
// On any failure the partially written file is removed.
func GenerateFile(path string, rows int64, opts Options) (*Summary, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRowCount, rows)
	}
	opts = opts.withDefaults()

	file, err := openOutput(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	opts.Reporter.Start(path, rows)
	summary, err := generate(file, rows, opts)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output file: %w", closeErr)
	}
	if err != nil {
		if rmErr := RemovePartial(path); rmErr != nil {
			return nil, fmt.Errorf("%w (cleanup of %s also failed: %v)", err, path, rmErr)
		}
		return nil, err
	}

	summary.Path = path
	opts.Reporter.Complete(summary)
	return summary, nil
}

func generate(w io.Writer, rows int64, opts Options) (*Summary, error) {
	started := time.Now()
	rng := NewRNG(opts.Seed)
	hash := sha256.New()
	counter := &countingWriter{}
	out := csv.NewWriter(io.MultiWriter(w, hash, counter))

	if err := out.Write(opts.Schema.Header()); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	row := NewRow()
	record := make([]string, len(opts.Schema))
	for seq := int64(1); seq <= rows; seq++ {
		row.Seq = seq
		opts.Schema.Fill(rng, row, record)
		if err := out.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", seq, err)
		}

		if seq%opts.ProgressInterval == 0 {
			opts.Reporter.Progress(seq, rows)
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush rows: %w", err)
	}

	return &Summary{
		Rows:           rows,
		Columns:        len(opts.Schema),
		Bytes:          counter.n,
		EstimatedBytes: rows * opts.BytesPerRowEstimate,
		Checksum:       hex.EncodeToString(hash.Sum(nil)),
		Seed:           opts.Seed,
		Duration:       time.Since(started),
	}, nil
}
