package generator

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress and completion notifications from a generation run
type Reporter interface {
	// Start is called once the destination is open; path is empty for stream output
	Start(path string, rows int64)
	// Progress is called every ProgressInterval rows
	Progress(written, total int64)
	// Complete is called after all rows are written and the output is closed
	Complete(summary *Summary)
}

// Percent returns written as a percentage of total
func Percent(written, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(written) / float64(total) * 100
}

// NopReporter discards all notifications
type NopReporter struct{}

func (NopReporter) Start(string, int64)   {}
func (NopReporter) Progress(int64, int64) {}
func (NopReporter) Complete(*Summary)     {}

func destination(path string) string {
	if path == "" {
		return "stream"
	}
	return path
}

func writeSummary(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "Successfully generated %s rows in %s\n", humanize.Comma(s.Rows), destination(s.Path))
	fmt.Fprintf(w, "File size: ~%d MB (%s written)\n", s.EstimatedMB(), humanize.Bytes(uint64(s.Bytes)))
}

// ConsoleReporter prints one line per notification
type ConsoleReporter struct {
	Out io.Writer
}

func (r *ConsoleReporter) Start(path string, rows int64) {
	fmt.Fprintf(r.Out, "Generating %s rows in %s...\n", humanize.Comma(rows), destination(path))
}

func (r *ConsoleReporter) Progress(written, total int64) {
	fmt.Fprintf(r.Out, "Generated %s rows... (%.1f%%)\n", humanize.Comma(written), Percent(written, total))
}

func (r *ConsoleReporter) Complete(s *Summary) {
	writeSummary(r.Out, s)
}

// BarReporter renders a terminal progress bar, then prints the summary
type BarReporter struct {
	Out io.Writer

	bar  *progressbar.ProgressBar
	path string
}

func (r *BarReporter) Start(path string, rows int64) {
	r.path = destination(path)
	r.bar = progressbar.NewOptions64(rows,
		progressbar.OptionSetWriter(r.Out),
		progressbar.OptionSetDescription(r.path),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

func (r *BarReporter) Progress(written, total int64) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(fmt.Sprintf("%s (%.1f%%)", r.path, Percent(written, total)))
	_ = r.bar.Set64(written)
}

func (r *BarReporter) Complete(s *Summary) {
	if r.bar != nil {
		_ = r.bar.Finish()
		fmt.Fprintln(r.Out)
	}
	writeSummary(r.Out, s)
}

// LogReporter sends notifications to a std logger
type LogReporter struct {
	Logger *log.Logger
}

func (r *LogReporter) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

func (r *LogReporter) Start(path string, rows int64) {
	r.logger().Printf("generating %s rows in %s", humanize.Comma(rows), destination(path))
}

func (r *LogReporter) Progress(written, total int64) {
	r.logger().Printf("generated %s/%s rows (%.1f%%)", humanize.Comma(written), humanize.Comma(total), Percent(written, total))
}

func (r *LogReporter) Complete(s *Summary) {
	r.logger().Printf("generated %s rows in %s: %s in %s", humanize.Comma(s.Rows), destination(s.Path), humanize.Bytes(uint64(s.Bytes)), s.Duration.Round(time.Millisecond))
}
