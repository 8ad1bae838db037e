package mortality

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	require.NotNil(t, table)
	assert.Equal(t, 110, table.LastAge(), "embedded table should end at age 110")
	assert.Equal(t, "embedded", table.Source())

	q, ok, err := table.Rate(65, domain.Male)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.0098, q)

	q, ok, err = table.Rate(85, domain.Female)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.0548, q)

	_, ok, err = table.Rate(111, domain.Male)
	require.NoError(t, err)
	assert.False(t, ok, "ages past the last row have no rate")

	_, _, err = table.Rate(65, domain.Sex("other"))
	assert.ErrorIs(t, err, ErrUnknownSex)
}

func TestParseCSV(t *testing.T) {
	t.Run("accepts shuffled rows and extra columns", func(t *testing.T) {
		data := "Female-qx,Age,Male-qx,Note\n0.5,1,0.6,x\n0.1,0,0.2,y\n1,2,1,z\n"
		table, err := ParseCSV(strings.NewReader(data), "inline")
		require.NoError(t, err)

		assert.Equal(t, 2, table.LastAge())
		rows := table.Rows()
		assert.Equal(t, Row{Age: 0, Male: 0.2, Female: 0.1}, rows[0])
		assert.Equal(t, Row{Age: 1, Male: 0.6, Female: 0.5}, rows[1])
	})

	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{"empty input", "", "reading header"},
		{"bad header", "age,male,female\n0,0.1,0.1\n", "header must contain"},
		{"no rows", "Age,Male-qx,Female-qx\n", "has no rows"},
		{"gap inside table", "Age,Male-qx,Female-qx\n0,0.1,0.1\n2,1,1\n", "missing age 1"},
		{"duplicate age", "Age,Male-qx,Female-qx\n0,0.1,0.1\n0,0.2,0.2\n1,1,1\n", "duplicate age 0"},
		{"not starting at zero", "Age,Male-qx,Female-qx\n1,0.1,0.1\n2,1,1\n", "missing age 0"},
		{"rate above one", "Age,Male-qx,Female-qx\n0,1.5,0.1\n1,1,1\n", "outside [0, 1]"},
		{"negative rate", "Age,Male-qx,Female-qx\n0,0.1,-0.1\n1,1,1\n", "outside [0, 1]"},
		{"non numeric rate", "Age,Male-qx,Female-qx\n0,abc,0.1\n1,1,1\n", "invalid male qx"},
		{"non numeric age", "Age,Male-qx,Female-qx\nx,0.1,0.1\n", "invalid age"},
		{"no terminal row", "Age,Male-qx,Female-qx\n0,0.1,0.1\n1,0.5,0.5\n", "without a terminal row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.data), "inline")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMortalityData)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNewTable_LongTableNeedsNoTerminalRow(t *testing.T) {
	rows := make([]Row, domain.MaxAge)
	for i := range rows {
		rows[i] = Row{Age: i, Male: 0.01, Female: 0.01}
	}
	table, err := NewTable(rows, "flat")
	require.NoError(t, err)
	assert.Equal(t, domain.MaxAge-1, table.LastAge())
}

func TestLoadTableFile(t *testing.T) {
	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadTableFile(filepath.Join(t.TempDir(), "nope.csv"))
		assert.ErrorIs(t, err, ErrMortalityData)
	})

	t.Run("round trips through WriteCSV", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, DefaultTable().WriteCSV(&buf))

		path := filepath.Join(t.TempDir(), "table.csv")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

		loaded, err := LoadTableFile(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultTable().Rows(), loaded.Rows())
		assert.Equal(t, path, loaded.Source())
	})
}

func TestModel_QX(t *testing.T) {
	m := NewModel(nil)

	q, err := m.QX(65, domain.Male)
	require.NoError(t, err)
	assert.Equal(t, 0.0098, q)

	q, err = m.QX(110, domain.Female)
	require.NoError(t, err)
	assert.Equal(t, 1.0, q)

	for _, age := range []int{111, 114, 115, 130} {
		q, err = m.QX(age, domain.Male)
		require.NoError(t, err)
		assert.Equal(t, 1.0, q, "age %d should be certain death", age)
	}

	_, err = m.QX(-1, domain.Male)
	assert.ErrorIs(t, err, ErrAgeOutOfRange)

	_, err = m.QX(120, domain.Sex("x"))
	assert.ErrorIs(t, err, ErrUnknownSex)
}

func TestEffectiveAge(t *testing.T) {
	assert.Equal(t, 60, EffectiveAge(60, domain.HealthAverage))
	assert.Equal(t, 57, EffectiveAge(60, domain.HealthExcellent))
	assert.Equal(t, 65, EffectiveAge(60, domain.HealthPoor))
	assert.Equal(t, 0, EffectiveAge(1, domain.HealthExcellent))
	assert.Equal(t, domain.MaxAge, EffectiveAge(113, domain.HealthPoor))
}

func TestModel_SurvivalProbability(t *testing.T) {
	m := NewModel(nil)

	p, err := m.SurvivalProbability(65, 66, domain.Male, domain.HealthAverage)
	require.NoError(t, err)
	assert.InDelta(t, 0.9902, p, 1e-12)

	p, err = m.SurvivalProbability(60, 81, domain.Male, domain.HealthAverage)
	require.NoError(t, err)
	assert.InDelta(t, 0.665121, p, 1e-6)

	p, err = m.SurvivalProbability(0, domain.MaxAge, domain.Male, domain.HealthAverage)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p, "nobody survives the terminal row")

	t.Run("same or earlier target is certain", func(t *testing.T) {
		for _, target := range []int{50, 49, 0} {
			p, err := m.SurvivalProbability(50, target, domain.Female, domain.HealthPoor)
			require.NoError(t, err)
			assert.Equal(t, 1.0, p)
		}
	})

	t.Run("non-increasing in target age", func(t *testing.T) {
		for _, health := range domain.AllHealthRatings {
			prev := 1.0
			for target := 40; target <= domain.MaxAge; target++ {
				p, err := m.SurvivalProbability(40, target, domain.Female, health)
				require.NoError(t, err)
				assert.LessOrEqual(t, p, prev, "target %d health %s", target, health)
				prev = p
			}
		}
	})

	t.Run("ages outside the table domain", func(t *testing.T) {
		_, err := m.SurvivalProbability(-1, 50, domain.Male, domain.HealthAverage)
		assert.ErrorIs(t, err, ErrAgeOutOfRange)
		_, err = m.SurvivalProbability(50, 116, domain.Male, domain.HealthAverage)
		assert.ErrorIs(t, err, ErrAgeOutOfRange)
		_, err = m.SurvivalProbability(120, 10, domain.Male, domain.HealthAverage)
		assert.ErrorIs(t, err, ErrAgeOutOfRange, "range is checked before the early return")
	})

	t.Run("health ordering", func(t *testing.T) {
		for current := 57; current <= 75; current++ {
			exc, err := m.SurvivalProbability(current, 85, domain.Male, domain.HealthExcellent)
			require.NoError(t, err)
			avg, err := m.SurvivalProbability(current, 85, domain.Male, domain.HealthAverage)
			require.NoError(t, err)
			poor, err := m.SurvivalProbability(current, 85, domain.Male, domain.HealthPoor)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, exc, avg)
			assert.GreaterOrEqual(t, avg, poor)
		}
	})
}

func TestModel_LifeExpectancy(t *testing.T) {
	m := NewModel(nil)

	le, err := m.LifeExpectancy(65, domain.Male, domain.HealthAverage)
	require.NoError(t, err)
	assert.Equal(t, 85.2, le)

	le, err = m.LifeExpectancy(65, domain.Female, domain.HealthAverage)
	require.NoError(t, err)
	assert.Equal(t, 87.8, le)

	le, err = m.LifeExpectancy(60, domain.Male, domain.HealthExcellent)
	require.NoError(t, err)
	assert.Equal(t, 87.0, le)

	le, err = m.LifeExpectancy(domain.MaxAge, domain.Male, domain.HealthAverage)
	require.NoError(t, err)
	assert.Equal(t, 115.5, le)

	_, err = m.LifeExpectancy(116, domain.Male, domain.HealthAverage)
	assert.ErrorIs(t, err, ErrAgeOutOfRange)
}

func TestModel_SurvivalCurve(t *testing.T) {
	m := NewModel(nil)

	curve, err := m.SurvivalCurve(60, 60, 70, domain.Male, domain.HealthAverage)
	require.NoError(t, err)
	require.Len(t, curve, 11)
	assert.Equal(t, 1.0, curve[0])
	for i := 1; i < len(curve); i++ {
		assert.LessOrEqual(t, curve[i], curve[i-1])
	}

	_, err = m.SurvivalCurve(60, 70, 60, domain.Male, domain.HealthAverage)
	assert.Error(t, err)
}

func TestGompertz(t *testing.T) {
	male, female, err := DefaultGompertz()
	require.NoError(t, err)

	assert.InDelta(t, 0.1012, male.B, 0.0005)
	assert.InDelta(t, 0.1073, female.B, 0.0005)
	assert.InDelta(t, 0.0098, male.Rate(65), 1e-9)
	assert.InDelta(t, 0.0741, male.Rate(85), 1e-9)
	assert.Equal(t, 1.0, male.Rate(200), "rates are capped at one")

	table, err := NewGompertzTable(male, female)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxAge-1, table.LastAge())
	assert.Contains(t, table.Source(), "gompertz")

	_, err = NewGompertzTable(GompertzParams{A: 0, B: 0.1}, female)
	assert.ErrorIs(t, err, ErrMortalityData)

	_, err = FitGompertz(DefaultTable(), domain.Male, 65, 65)
	assert.Error(t, err)
	_, err = FitGompertz(DefaultTable(), domain.Male, 65, 112)
	assert.ErrorIs(t, err, ErrAgeOutOfRange)
}

func TestOpen(t *testing.T) {
	table, err := Open("", "")
	require.NoError(t, err)
	assert.Same(t, DefaultTable(), table)

	table, err = Open("Gompertz", "")
	require.NoError(t, err)
	assert.Contains(t, table.Source(), "gompertz")

	_, err = Open(SourceTable, filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, ErrMortalityData)

	_, err = Open(SourceGompertz, "some.csv")
	assert.Error(t, err)

	_, err = Open("lifetable", "")
	assert.Error(t, err)
}
