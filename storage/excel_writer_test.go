package storage

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"airbnb-etl/models"
)

func TestExcelWriterSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report", "airbnb_report.xlsx")
	x, err := NewExcelWriter(path)
	require.NoError(t, err)
	var _ FrameWriter = x

	stats := models.NewFrame("column", "count", "mean")
	stats.Append("price", 3, 193.5)
	stats.Append("reviews_per_month", 0, math.NaN())
	require.NoError(t, x.WriteFrame("statistics", stats))

	pivot := models.NewFrame("neighbourhood_group", "Private room")
	pivot.Append("Bronx", 66.79)
	require.NoError(t, x.WriteFrame("pivot_price.csv", pivot))
	require.NoError(t, x.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"statistics", "pivot_price"}, f.GetSheetList())

	rows, err := f.GetRows("statistics")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"column", "count", "mean"}, rows[0])
	assert.Equal(t, []string{"price", "3", "193.5"}, rows[1])
	assert.Equal(t, "reviews_per_month", rows[2][0])

	cell, err := f.GetCellValue("pivot_price", "B2")
	require.NoError(t, err)
	assert.Equal(t, "66.79", cell)
}

func TestSheetNameTruncates(t *testing.T) {
	assert.Equal(t, "monthly_averages", sheetName("monthly_averages.csv"))
	assert.Len(t, sheetName(strings.Repeat("a", 40)), 31)
}
