package mortality

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

var (
	// ErrMortalityData marks a table that is missing, malformed or incomplete.
	ErrMortalityData = errors.New("mortality data error")
	// ErrAgeOutOfRange marks an age outside [0, 115].
	ErrAgeOutOfRange = errors.New("age out of range")
	// ErrUnknownSex marks a sex with no mortality column.
	ErrUnknownSex = errors.New("unknown sex")
)

//go:embed data/mortality.csv
var embeddedCSV []byte

// Row is one age of a mortality table
type Row struct {
	Age    int
	Male   float64
	Female float64
}

// Table maps integer ages to annual death probabilities for each sex. It is
// built once and never modified, so one Table may back any number of
// concurrent calculations.
type Table struct {
	male   []float64
	female []float64
	source string
}

// NewTable validates rows and builds a table. Rows may arrive in any order
// but must cover every age from 0 to the last age exactly once. The last row
// must be terminal (qx = 1 for both sexes) unless it reaches age 114.
func NewTable(rows []Row, source string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", ErrMortalityData, source)
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Age < sorted[j].Age })

	t := &Table{
		male:   make([]float64, len(sorted)),
		female: make([]float64, len(sorted)),
		source: source,
	}
	for i, r := range sorted {
		if r.Age != i {
			if i > 0 && r.Age == sorted[i-1].Age {
				return nil, fmt.Errorf("%w: %s has duplicate age %d", ErrMortalityData, source, r.Age)
			}
			return nil, fmt.Errorf("%w: %s is missing age %d", ErrMortalityData, source, i)
		}
		if err := checkRate(r.Male); err != nil {
			return nil, fmt.Errorf("%w: %s age %d male: %v", ErrMortalityData, source, r.Age, err)
		}
		if err := checkRate(r.Female); err != nil {
			return nil, fmt.Errorf("%w: %s age %d female: %v", ErrMortalityData, source, r.Age, err)
		}
		t.male[i] = r.Male
		t.female[i] = r.Female
	}

	last := sorted[len(sorted)-1]
	if last.Age < domain.MaxAge-1 && (last.Male != 1 || last.Female != 1) {
		return nil, fmt.Errorf("%w: %s ends at age %d without a terminal row (qx = 1)", ErrMortalityData, source, last.Age)
	}
	return t, nil
}

func checkRate(q float64) error {
	if math.IsNaN(q) || q < 0 || q > 1 {
		return fmt.Errorf("qx %v outside [0, 1]", q)
	}
	return nil
}

// ParseCSV reads a table with the header Age,Male-qx,Female-qx
func ParseCSV(r io.Reader, source string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading header: %v", ErrMortalityData, source, err)
	}
	cols, err := headerColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMortalityData, source, err)
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMortalityData, source, line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMortalityData, source, line, err)
		}
		rows = append(rows, row)
	}
	return NewTable(rows, source)
}

type columns struct{ age, male, female int }

func headerColumns(header []string) (columns, error) {
	c := columns{age: -1, male: -1, female: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "age":
			c.age = i
		case "male-qx":
			c.male = i
		case "female-qx":
			c.female = i
		}
	}
	if c.age < 0 || c.male < 0 || c.female < 0 {
		return c, fmt.Errorf("header must contain Age, Male-qx and Female-qx, got %v", header)
	}
	return c, nil
}

func parseRow(rec []string, c columns) (Row, error) {
	field := func(i int) (string, error) {
		if i >= len(rec) {
			return "", fmt.Errorf("expected at least %d fields, got %d", i+1, len(rec))
		}
		return strings.TrimSpace(rec[i]), nil
	}

	var row Row
	s, err := field(c.age)
	if err != nil {
		return row, err
	}
	if row.Age, err = strconv.Atoi(s); err != nil {
		return row, fmt.Errorf("invalid age %q", s)
	}
	if s, err = field(c.male); err != nil {
		return row, err
	}
	if row.Male, err = strconv.ParseFloat(s, 64); err != nil {
		return row, fmt.Errorf("invalid male qx %q", s)
	}
	if s, err = field(c.female); err != nil {
		return row, err
	}
	if row.Female, err = strconv.ParseFloat(s, 64); err != nil {
		return row, fmt.Errorf("invalid female qx %q", s)
	}
	return row, nil
}

// LoadTableFile reads a CSV table from disk. A missing file is an error.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMortalityData, err)
	}
	defer f.Close()
	return ParseCSV(f, path)
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := ParseCSV(bytes.NewReader(embeddedCSV), "embedded")
	if err != nil {
		panic(err)
	}
	return t
})

// DefaultTable returns the table shipped with the binary (ages 0 to 110)
func DefaultTable() *Table {
	return defaultTable()
}

// Source names where the table came from
func (t *Table) Source() string { return t.source }

// LastAge is the highest age with a row
func (t *Table) LastAge() int { return len(t.male) - 1 }

// Rate returns the raw table value for an age. ok is false when the age has
// no row.
func (t *Table) Rate(age int, sex domain.Sex) (q float64, ok bool, err error) {
	var col []float64
	switch sex {
	case domain.Male:
		col = t.male
	case domain.Female:
		col = t.female
	default:
		return 0, false, fmt.Errorf("%w: %q", ErrUnknownSex, string(sex))
	}
	if age < 0 || age >= len(col) {
		return 0, false, nil
	}
	return col[age], true, nil
}

// Rows returns a copy of the table contents in age order
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.male))
	for i := range t.male {
		rows[i] = Row{Age: i, Male: t.male[i], Female: t.female[i]}
	}
	return rows
}

// WriteCSV writes the table in the same format ParseCSV reads
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Age", "Male-qx", "Female-qx"}); err != nil {
		return err
	}
	for _, r := range t.Rows() {
		rec := []string{
			strconv.Itoa(r.Age),
			strconv.FormatFloat(r.Male, 'g', -1, 64),
			strconv.FormatFloat(r.Female, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
