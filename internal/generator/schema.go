package generator

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Project-Sylos/Tabula/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout is the format of every date column
const DateLayout = "2006-01-02"

// Row carries the state shared between the fields of one record.
// FullName fills First and Last; Email reads them, so Email must come after FullName.
type Row struct {
	Seq   int64
	First string
	Last  string

	lower cases.Caser
}

// NewRow creates the per-generation row state
func NewRow() *Row {
	return &Row{lower: cases.Lower(language.English)}
}

// Domain is the set of values a field is sampled from
type Domain interface {
	// Sample draws one formatted value
	Sample(rng *RNG, row *Row) string
	// Check reports whether value could have been produced by Sample
	Check(value string) error
	// Describe returns a short human-readable form of the domain
	Describe() string
}

// Sequence is the 1-based row index
type Sequence struct{}

func (Sequence) Sample(_ *RNG, row *Row) string {
	return strconv.FormatInt(row.Seq, 10)
}

func (Sequence) Check(value string) error {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %q", value)
	}
	if n < 1 {
		return fmt.Errorf("sequence must be positive, got %d", n)
	}
	return nil
}

func (Sequence) Describe() string { return "sequence from 1" }

// Choice is a closed set of literal values
type Choice []string

func (c Choice) Sample(rng *RNG, _ *Row) string {
	return rng.Pick(c)
}

func (c Choice) Check(value string) error {
	if !slices.Contains(c, value) {
		return fmt.Errorf("%q is not one of %d choices", value, len(c))
	}
	return nil
}

func (c Choice) Describe() string { return "one of: " + strings.Join(c, ", ") }

// IntRange is a uniform integer range, inclusive on both ends
type IntRange struct {
	Min int64
	Max int64
}

func (r IntRange) Sample(rng *RNG, _ *Row) string {
	return strconv.FormatInt(rng.Int64Between(r.Min, r.Max), 10)
}

func (r IntRange) Check(value string) error {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %q", value)
	}
	if n < r.Min || n > r.Max {
		return fmt.Errorf("%d outside [%d, %d]", n, r.Min, r.Max)
	}
	return nil
}

func (r IntRange) Describe() string { return fmt.Sprintf("integer %d..%d", r.Min, r.Max) }

// RealRange is a uniform decimal range, inclusive on both ends, formatted with
// exactly Precision fractional digits. Sampling happens on the scaled integer
// grid so both bounds are reachable and no value rounds outside them.
type RealRange struct {
	Min       float64
	Max       float64
	Precision int
}

func (r RealRange) scale() float64 {
	return math.Pow10(r.Precision)
}

func (r RealRange) bounds() (int64, int64) {
	s := r.scale()
	return int64(math.Round(r.Min * s)), int64(math.Round(r.Max * s))
}

func (r RealRange) Sample(rng *RNG, _ *Row) string {
	lo, hi := r.bounds()
	n := rng.Int64Between(lo, hi)
	return strconv.FormatFloat(float64(n)/r.scale(), 'f', r.Precision, 64)
}

func (r RealRange) Check(value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("not a decimal: %q", value)
	}
	_, frac, _ := strings.Cut(value, ".")
	if len(frac) != r.Precision {
		return fmt.Errorf("%q has %d fractional digits, want %d", value, len(frac), r.Precision)
	}
	lo, hi := r.bounds()
	if n := int64(math.Round(v * r.scale())); n < lo || n > hi {
		return fmt.Errorf("%s outside [%.*f, %.*f]", value, r.Precision, r.Min, r.Precision, r.Max)
	}
	return nil
}

func (r RealRange) Describe() string {
	return fmt.Sprintf("decimal %.*f..%.*f", r.Precision, r.Min, r.Precision, r.Max)
}

// DateRange is a uniform calendar date in [Start, Start+Days]
type DateRange struct {
	Start time.Time
	Days  int
}

// End returns the last date the range can produce
func (r DateRange) End() time.Time {
	return r.Start.AddDate(0, 0, r.Days)
}

func (r DateRange) Sample(rng *RNG, _ *Row) string {
	return r.Start.AddDate(0, 0, rng.Intn(r.Days+1)).Format(DateLayout)
}

func (r DateRange) Check(value string) error {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return fmt.Errorf("not a date: %q", value)
	}
	if d.Before(r.Start) || d.After(r.End()) {
		return fmt.Errorf("%s outside [%s, %s]", value, r.Start.Format(DateLayout), r.End().Format(DateLayout))
	}
	return nil
}

func (r DateRange) Describe() string {
	return fmt.Sprintf("date %s..%s", r.Start.Format(DateLayout), r.End().Format(DateLayout))
}

// FullName draws independent first and last names and records them on the row
type FullName struct {
	First []string
	Last  []string
}

func (n FullName) Sample(rng *RNG, row *Row) string {
	row.First = rng.Pick(n.First)
	row.Last = rng.Pick(n.Last)
	return row.First + " " + row.Last
}

func (n FullName) Check(value string) error {
	first, last, ok := strings.Cut(value, " ")
	if !ok {
		return fmt.Errorf("%q is not a first and last name", value)
	}
	if !slices.Contains(n.First, first) {
		return fmt.Errorf("unknown first name %q", first)
	}
	if !slices.Contains(n.Last, last) {
		return fmt.Errorf("unknown last name %q", last)
	}
	return nil
}

func (n FullName) Describe() string {
	return fmt.Sprintf("first last from %d x %d names", len(n.First), len(n.Last))
}

var emailLocalPattern = regexp.MustCompile(`^[a-z]+\.[a-z]+([0-9]+)$`)

// Email is first.last plus a numeric suffix in [1, MaxSuffix] at Host.
// Addresses are not unique: the suffix can collide.
type Email struct {
	Host      string
	MaxSuffix int
}

// Address builds the address for the given name parts and suffix
func (e Email) Address(row *Row, suffix int) string {
	return row.lower.String(row.First) + "." + row.lower.String(row.Last) + strconv.Itoa(suffix) + "@" + e.Host
}

func (e Email) Sample(rng *RNG, row *Row) string {
	return e.Address(row, 1+rng.Intn(e.MaxSuffix))
}

func (e Email) Check(value string) error {
	local, ok := strings.CutSuffix(value, "@"+e.Host)
	if !ok {
		return fmt.Errorf("%q is not at %s", value, e.Host)
	}
	m := emailLocalPattern.FindStringSubmatch(local)
	if m == nil {
		return fmt.Errorf("%q is not first.last<n>", local)
	}
	suffix, _ := strconv.Atoi(m[1])
	if suffix < 1 || suffix > e.MaxSuffix {
		return fmt.Errorf("suffix %d outside [1, %d]", suffix, e.MaxSuffix)
	}
	return nil
}

func (e Email) Describe() string {
	return fmt.Sprintf("first.last<1..%d>@%s", e.MaxSuffix, e.Host)
}

// Field is one column of the output
type Field struct {
	Name   string
	Domain Domain
}

// Schema is the ordered list of fields in a record
type Schema []Field

var (
	firstNames = []string{
		"John", "Sarah", "Michael", "Emily", "Robert", "Lisa", "David", "Jennifer", "William", "Amanda",
		"Christopher", "Michelle", "Daniel", "Patricia", "James", "Linda", "Mark", "Barbara", "Steven", "Susan",
		"Kevin", "Jessica", "Brian", "Ashley", "Jason", "Stephanie", "Ryan", "Nicole", "Andrew", "Rachel",
	}
	lastNames = []string{
		"Smith", "Johnson", "Chen", "Davis", "Wilson", "Anderson", "Martinez", "Taylor", "Brown", "Jones",
		"Lee", "Garcia", "Rodriguez", "Miller", "Hernandez", "Lopez", "Gonzalez", "Thomas", "Jackson", "White",
		"Harris", "Martin", "Thompson", "Moore", "Young", "Allen", "King", "Wright", "Scott", "Green",
	}
	departments = Choice{
		"Engineering", "Marketing", "Sales", "HR", "Finance",
		"IT", "Operations", "Legal", "R&D", "Customer Service",
	}
	locations = Choice{
		"New York", "San Francisco", "Chicago", "Los Angeles", "Boston",
		"Seattle", "Austin", "Miami", "Denver", "Portland",
	}
	campaigns = Choice{
		"Google Ads", "Facebook Ads", "Instagram Ads", "LinkedIn Ads", "Twitter Ads",
		"TikTok Ads", "Email Campaign", "Display Ads", "YouTube Ads", "Pinterest Ads",
	}
)

// DefaultSchema returns the 15-column employee/marketing record
func DefaultSchema() Schema {
	return Schema{
		{Name: "ID", Domain: Sequence{}},
		{Name: "Name", Domain: FullName{First: firstNames, Last: lastNames}},
		{Name: "Department", Domain: departments},
		{Name: "Salary", Domain: IntRange{Min: 45_000, Max: 150_000}},
		{Name: "Age", Domain: IntRange{Min: 22, Max: 65}},
		{Name: "Start Date", Domain: DateRange{Start: time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC), Days: 365 * 8}},
		{Name: "Performance Score", Domain: RealRange{Min: 3.0, Max: 5.0, Precision: 1}},
		{Name: "Location", Domain: locations},
		{Name: "Email", Domain: Email{Host: "company.com", MaxSuffix: 999}},
		{Name: "Active", Domain: Choice{"true", "false"}},
		{Name: "Campaign", Domain: campaigns},
		{Name: "Impressions", Domain: IntRange{Min: 1_000, Max: 1_000_000}},
		{Name: "Revenue", Domain: RealRange{Min: 10.50, Max: 25_000.75, Precision: 2}},
		{Name: "CTR", Domain: RealRange{Min: 0.1, Max: 8.5, Precision: 2}},
		{Name: "Conversion Rate", Domain: RealRange{Min: 0.5, Max: 15.0, Precision: 2}},
	}
}

// Header returns the column names in order
func (s Schema) Header() []string {
	header := make([]string, len(s))
	for i, f := range s {
		header[i] = f.Name
	}
	return header
}

// Fill samples every field of the row into record, which must have len(s) slots
func (s Schema) Fill(rng *RNG, row *Row, record []string) {
	for i, f := range s {
		record[i] = f.Domain.Sample(rng, row)
	}
}

// Check validates a record against the schema
func (s Schema) Check(record []string) error {
	if len(record) != len(s) {
		return fmt.Errorf("record has %d fields, want %d", len(record), len(s))
	}
	for i, f := range s {
		if err := f.Domain.Check(record[i]); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return nil
}

// Info describes the schema for API consumers
func (s Schema) Info() []types.FieldInfo {
	info := make([]types.FieldInfo, len(s))
	for i, f := range s {
		info[i] = types.FieldInfo{Position: i + 1, Name: f.Name, Domain: f.Domain.Describe()}
	}
	return info
}
