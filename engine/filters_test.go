package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyFilters(t *testing.T) {
	view := NewSliceView([]Record{
		rec("High income", "2000", nil),
		rec("Low income", "2000", nil),
		rec("Low income", "2001", nil),
	})

	assert.Same(t, view, ApplyFilters(view, Filters{}), "empty filter returns the original view")

	got := ApplyFilters(view, Filters{Dimensions: map[string][]string{
		"income_group": {"LOW INCOME"},
		"year":         {"2001", "2002"},
	}})
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, "2001", got.Dimension(0, "year"))
}

func TestDropMissing(t *testing.T) {
	view := NewSliceView([]Record{
		rec("High income", "2000", map[string]float64{"gdp_pc": 1}),
		rec("", "2000", map[string]float64{"gdp_pc": 1}),
		rec("Low income", "", map[string]float64{"gdp_pc": 1}),
		rec("Low income", "2001", nil),
	})

	byDims := DropMissing(view, []string{"income_group", "year"}, nil)
	assert.Equal(t, 2, byDims.Len())

	byBoth := DropMissing(view, []string{"income_group", "year"}, []string{"gdp_pc"})
	assert.Equal(t, 1, byBoth.Len())
	assert.Equal(t, "High income", byBoth.Dimension(0, "income_group"))

	complete := NewSliceView([]Record{rec("A", "2000", nil)})
	assert.Same(t, complete, DropMissing(complete, []string{"income_group"}, nil))
}

func TestSubViewBounds(t *testing.T) {
	view := NewSliceView([]Record{rec("A", "2000", map[string]float64{"gdp_pc": 5})})
	sub := newSubView(view, []int{0})

	v, ok := sub.Measure(0, "gdp_pc")
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)

	_, ok = sub.Measure(1, "gdp_pc")
	assert.False(t, ok)
	assert.Equal(t, "", sub.Dimension(-1, "year"))
}
