package storage

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"airbnb-etl/models"
)

const stageLoader = "loader"

var errMissingValue = errors.New("value is required")

// ReadListings loads a delimited listings file from path.
func ReadListings(path string) (models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Table{}, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()
	return DecodeListings(f)
}

// DecodeListings reads a listings table with a header row. Every cell is
// loaded as text, empty cells become missing, and known columns are then
// converted to their types. Unknown columns are ignored. A header with no
// data rows yields an empty table.
func DecodeListings(r io.Reader) (models.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Table{}, fmt.Errorf("%s: read: %w", stageLoader, err)
	}

	names, hasRows, err := readHeader(data)
	if err != nil {
		return models.Table{}, err
	}
	for _, c := range models.RequiredColumns {
		if !slices.Contains(names, c) {
			return models.Table{}, &models.SchemaError{Stage: stageLoader, Column: c}
		}
	}
	var columns []string
	for _, name := range names {
		if slices.Contains(models.KnownColumns, name) && !slices.Contains(columns, name) {
			columns = append(columns, name)
		}
	}
	if !hasRows {
		return models.NewTable(columns, nil), nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{""}),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return models.Table{}, fmt.Errorf("%s: %w", stageLoader, df.Err)
	}
	cols := make(map[string]series.Series, len(columns))
	for _, name := range columns {
		cols[name] = df.Col(name)
	}

	rows := make([]models.Listing, df.Nrow())
	for i := range rows {
		d := rowDecoder{cols: cols, pos: i}
		l, err := d.decode()
		if err != nil {
			return models.Table{}, err
		}
		rows[i] = l
	}
	return models.NewTable(columns, rows), nil
}

// readHeader returns the header names and whether any record follows.
func readHeader(data []byte) ([]string, bool, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, false, fmt.Errorf("%s: no header row", stageLoader)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: header: %w", stageLoader, err)
	}
	_, err = cr.Read()
	return header, err != io.EOF, nil
}

// rowDecoder converts one row of text cells into a Listing.
type rowDecoder struct {
	cols map[string]series.Series
	pos  int
	row  string
}

func (d *rowDecoder) cell(column string) (string, bool) {
	s, ok := d.cols[column]
	if !ok {
		return "", false
	}
	e := s.Elem(d.pos)
	if e.IsNA() {
		return "", false
	}
	return strings.TrimSpace(e.String()), true
}

func (d *rowDecoder) fail(column, value string, err error) error {
	return &models.TypeError{Stage: stageLoader, Column: column, Row: d.row, Value: value, Err: err}
}

func (d *rowDecoder) int64Cell(column string, required bool) (int64, error) {
	v, ok := d.cell(column)
	if !ok {
		if required {
			return 0, d.fail(column, "", errMissingValue)
		}
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// integers written with a decimal point, e.g. "3.0"
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, d.fail(column, v, err)
		}
		n = int64(f)
	}
	return n, nil
}

func (d *rowDecoder) intCell(column string, required bool) (int, error) {
	n, err := d.int64Cell(column, required)
	return int(n), err
}

func (d *rowDecoder) floatCell(column string, required bool) (float64, bool, error) {
	v, ok := d.cell(column)
	if !ok {
		if required {
			return 0, false, d.fail(column, "", errMissingValue)
		}
		return math.NaN(), false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false, d.fail(column, v, fmt.Errorf("not a number"))
	}
	return f, true, nil
}

func (d *rowDecoder) text(column string) sql.NullString {
	v, ok := d.cell(column)
	return sql.NullString{String: v, Valid: ok}
}

func (d *rowDecoder) decode() (models.Listing, error) {
	var l models.Listing
	var err error

	d.row = fmt.Sprintf("line %d", d.pos+2)
	if l.ID, err = d.int64Cell(models.ColID, true); err != nil {
		return l, err
	}
	d.row = strconv.FormatInt(l.ID, 10)

	l.Name = d.text(models.ColName)
	l.HostName = d.text(models.ColHostName)
	l.NeighbourhoodGroup = d.text(models.ColNeighbourhoodGroup).String
	l.Neighbourhood = d.text(models.ColNeighbourhood).String
	l.RoomType = d.text(models.ColRoomType).String

	if l.HostID, err = d.int64Cell(models.ColHostID, true); err != nil {
		return l, err
	}
	if l.Latitude, _, err = d.floatCell(models.ColLatitude, false); err != nil {
		return l, err
	}
	if l.Longitude, _, err = d.floatCell(models.ColLongitude, false); err != nil {
		return l, err
	}
	if l.Price, _, err = d.floatCell(models.ColPrice, true); err != nil {
		return l, err
	}
	if l.MinimumNights, err = d.intCell(models.ColMinimumNights, true); err != nil {
		return l, err
	}
	if l.NumberOfReviews, err = d.intCell(models.ColNumberOfReviews, true); err != nil {
		return l, err
	}
	if raw, ok := d.cell(models.ColLastReview); ok {
		l.LastReview = models.ParseReviewDate(raw)
	}
	perMonth, ok, err := d.floatCell(models.ColReviewsPerMonth, false)
	if err != nil {
		return l, err
	}
	l.ReviewsPerMonth = sql.NullFloat64{Float64: perMonth, Valid: ok}
	if l.HostListingsCount, err = d.intCell(models.ColHostListingsCount, false); err != nil {
		return l, err
	}
	if l.Availability365, err = d.intCell(models.ColAvailability365, true); err != nil {
		return l, err
	}

	l.PriceCategory = models.PriceCategory(d.text(models.ColPriceCategory).String)
	l.StayCategory = models.StayCategory(d.text(models.ColStayCategory).String)
	l.AvailabilityStatus = models.AvailabilityStatus(d.text(models.ColAvailabilityStatus).String)
	return l, nil
}
