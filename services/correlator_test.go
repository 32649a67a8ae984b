package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-etl/models"
)

func TestEncodeCategorical(t *testing.T) {
	codes, cats := EncodeCategorical([]string{"Queens", "Bronx", "Queens", "Manhattan"})
	assert.Equal(t, []string{"Bronx", "Manhattan", "Queens"}, cats)
	assert.Equal(t, []int{2, 0, 2, 1}, codes)

	codes, cats = EncodeCategorical(nil)
	assert.Empty(t, codes)
	assert.Empty(t, cats)
}

func TestCorrelateSymmetric(t *testing.T) {
	m := Correlate(
		[]string{"x", "y", "z"},
		[][]float64{
			{1, 2, 3, 4},
			{2, 4, 6, 8},
			{4, 3, 2, 1},
		},
	)
	for i := range m.Columns {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Columns {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
		}
	}
	xy, _ := m.At("x", "y")
	xz, _ := m.At("x", "z")
	assert.InDelta(t, 1.0, xy, 1e-12)
	assert.InDelta(t, -1.0, xz, 1e-12)
}

func TestCorrelateConstantColumnIsNaN(t *testing.T) {
	m := Correlate([]string{"x", "c"}, [][]float64{{1, 2, 3}, {5, 5, 5}})
	xc, _ := m.At("x", "c")
	cc, _ := m.At("c", "c")
	assert.True(t, math.IsNaN(xc))
	assert.True(t, math.IsNaN(cc))
}

func TestCorrelateSkipsMissingPairs(t *testing.T) {
	nan := math.NaN()
	m := Correlate([]string{"x", "y"}, [][]float64{{1, 2, nan, 4}, {2, 4, 100, 8}})
	xy, _ := m.At("x", "y")
	assert.InDelta(t, 1.0, xy, 1e-12)
}

func TestCorrelationMatrixEncodesCategories(t *testing.T) {
	enriched, err := NewEnricher(newTestLogger()).AddAvailabilityStatus(preparedListings())
	require.NoError(t, err)

	m, err := CorrelationMatrix(enriched, CorrelationColumns...)
	require.NoError(t, err)
	require.Len(t, m.Values, len(CorrelationColumns))

	_, ok := m.At("neighbourhood_group_code", models.ColPrice)
	assert.True(t, ok)
	_, ok = m.At("room_type_code", models.ColPrice)
	assert.False(t, ok)
}

func TestCorrelationMatrixRejectsUnknownColumn(t *testing.T) {
	_, err := CorrelationMatrix(preparedListings(), "availability_status_code")
	var schemaErr *models.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, models.ColAvailabilityStatus, schemaErr.Column)

	_, err = CorrelationMatrix(preparedListings(), models.ColRoomType)
	assert.Error(t, err)
}
