package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Project-Sylos/Tabula/internal/config"
	"github.com/Project-Sylos/Tabula/internal/types"
	"github.com/Project-Sylos/Tabula/sdk"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, config.DefaultConfig()))
}

// defaultRun is one of the datasets produced when no row count is given
type defaultRun struct {
	label string
	rows  int64
}

var defaultRuns = []defaultRun{
	{"Quick test files:", sdk.QuickRows},
	{"Performance test files:", sdk.PerformanceRows},
	{"MEGA performance test (1M+ rows):", sdk.MegaRows},
}

// run executes the command and returns the process exit status
func run(args []string, out io.Writer, cfg types.Config) int {
	flags := flag.NewFlagSet("tabula", flag.ContinueOnError)
	flags.SetOutput(out)
	help := flags.Bool("help", false, "Show help")
	flags.Usage = func() { showHelp(out) }
	// A bare integer such as "-5" is a row count, not a flag
	positional := args
	if len(args) != 1 || !isInteger(args[0]) {
		if err := flags.Parse(args); err != nil {
			return 2
		}
		positional = flags.Args()
	}

	if *help {
		showHelp(out)
		return 0
	}
	if len(positional) > 1 {
		showUsage(out)
		return 2
	}

	tb, err := sdk.NewWithConfig(&cfg)
	if err != nil {
		fmt.Fprintf(out, "Failed to initialize Tabula: %v\n", err)
		return 1
	}
	defer tb.Close()

	if len(positional) == 1 {
		return runCustom(tb, positional[0], out)
	}

	for _, d := range defaultRuns {
		fmt.Fprintln(out, d.label)
		if err := generate(tb, d.rows, out); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "To generate custom size:")
	fmt.Fprintln(out, "   go run main.go 2000000  # 2 million rows")
	fmt.Fprintln(out, "   go run main.go 5000000  # 5 million rows")
	return 0
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func runCustom(tb *sdk.Tabula, arg string, out io.Writer) int {
	rows, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintln(out, "Please provide a valid number of rows")
		showUsage(out)
		return 2
	}

	if err := tb.CheckRows(rows); err != nil {
		if errors.Is(err, sdk.ErrBelowMinimum) || errors.Is(err, sdk.ErrInvalidRowCount) {
			fmt.Fprintf(out, "Minimum %s rows recommended\n", humanize.Comma(tb.GetConfig().Generator.MinRows))
		} else {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return 2
	}

	if tb.IsMega(rows) {
		fmt.Fprintf(out, "Generating MEGA dataset with %s rows...\n", humanize.Comma(rows))
		fmt.Fprintln(out, "This will take a few minutes...")
	}

	if err := generate(tb, rows, out); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}
	return 0
}

func generate(tb *sdk.Tabula, rows int64, out io.Writer) error {
	_, err := tb.Generate(&sdk.GenerateRequest{
		Rows:     rows,
		Reporter: newReporter(out),
	})
	return err
}

// newReporter draws a progress bar on terminals and prints plain lines otherwise
func newReporter(out io.Writer) sdk.Reporter {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &sdk.BarReporter{Out: out}
	}
	return &sdk.ConsoleReporter{Out: out}
}

func showUsage(out io.Writer) {
	fmt.Fprintln(out, "Usage: go run main.go <number_of_rows>")
}

func showHelp(out io.Writer) {
	fmt.Fprintln(out, "Tabula - Synthetic CSV Generator")
	fmt.Fprintln(out, "================================")
	fmt.Fprintln(out)
	showUsage(out)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fmt.Fprintln(out, "  -help")
	fmt.Fprintln(out, "        Show this help message")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Without arguments, generates sample_10k.csv, sample_100k.csv and mega_sample_1000k.csv.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  go run main.go")
	fmt.Fprintln(out, "  go run main.go 2000000")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "API Server:")
	fmt.Fprintln(out, "  go run cmd/api/main.go [config-file]")
}
