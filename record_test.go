package munifin_test

import (
	"testing"

	"github.com/fwojciec/munifin"
	"github.com/stretchr/testify/assert"
)

func TestRecord_Get(t *testing.T) {
	t.Parallel()

	r := munifin.Record{
		Labels: []string{"Jahr", "Wert", "Wert"},
		Values: []string{"2022", "1", "2"},
	}

	t.Run("returns first matching column", func(t *testing.T) {
		t.Parallel()

		v, ok := r.Get("Wert")

		assert.True(t, ok)
		assert.Equal(t, "1", v)
	})

	t.Run("reports missing label", func(t *testing.T) {
		t.Parallel()

		_, ok := r.Get("Einwohner")

		assert.False(t, ok)
	})

	t.Run("map keeps first duplicate", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, map[string]string{"Jahr": "2022", "Wert": "1"}, r.Map())
	})
}

func TestRecord_Number(t *testing.T) {
	t.Parallel()

	r := munifin.Record{
		Labels: []string{"Jahr", "Steuereinnahmen", "Umsatzsteueranteil"},
		Values: []string{"2022", "1.234.567,89", "-"},
	}

	t.Run("parses locale number", func(t *testing.T) {
		t.Parallel()

		v, ok := r.Number("Steuereinnahmen")

		assert.True(t, ok)
		assert.InDelta(t, 1234567.89, v, 1e-6)
	})

	t.Run("dash is absent", func(t *testing.T) {
		t.Parallel()

		_, ok := r.Number("Umsatzsteueranteil")

		assert.False(t, ok)
	})

	t.Run("missing column is absent", func(t *testing.T) {
		t.Parallel()

		_, ok := r.Number("Gewerbesteuer")

		assert.False(t, ok)
	})
}

func TestRecord_Year(t *testing.T) {
	t.Parallel()

	t.Run("returns first year cell", func(t *testing.T) {
		t.Parallel()

		r := munifin.Record{Labels: []string{"Art", "Jahr"}, Values: []string{"Ist", " 2021"}}

		year, ok := r.Year()

		assert.True(t, ok)
		assert.Equal(t, 2021, year)
	})

	t.Run("reports absence", func(t *testing.T) {
		t.Parallel()

		_, ok := munifin.Record{Labels: []string{"A"}, Values: []string{"x"}}.Year()

		assert.False(t, ok)
	})
}

func TestColumns(t *testing.T) {
	t.Parallel()

	records := []munifin.Record{
		{Labels: []string{"Jahr", "Grundsteuer A"}, Values: []string{"2021", "1"}},
		{Labels: []string{"Jahr", "Grundsteuer B"}, Values: []string{"2021", "2"}},
		{Labels: []string{"Jahr", "Grundsteuer A"}, Values: []string{"2022", "3"}},
	}

	assert.Equal(t, []string{"Jahr", "Grundsteuer A", "Grundsteuer B"}, munifin.Columns(records))
	assert.Empty(t, munifin.Columns(nil))
}
