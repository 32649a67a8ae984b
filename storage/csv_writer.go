package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"airbnb-etl/models"
)

// CSVWriter writes frames as delimited files with a header row into one
// output directory.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates the output directory if needed.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{dir: dir}, nil
}

// Path returns the location a named frame is written to.
func (c *CSVWriter) Path(name string) string {
	return filepath.Join(c.dir, name)
}

// WriteFrame creates (or truncates) dir/name and writes the frame to it.
func (c *CSVWriter) WriteFrame(name string, f *models.Frame) error {
	path := c.Path(name)
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}

	if err := encodeFrame(out, f); err != nil {
		_ = out.Close()
		return fmt.Errorf("csv: write %q: %w", path, err)
	}
	return out.Close()
}

// WriteTable writes a listings table with its own column order.
func (c *CSVWriter) WriteTable(name string, t models.Table) error {
	return c.WriteFrame(name, models.TableFrame(t))
}

// Close is a no-op; every frame is flushed when written.
func (c *CSVWriter) Close() error { return nil }

func encodeFrame(out io.Writer, f *models.Frame) error {
	records := f.Records()
	if f.Len() == 0 {
		w := csv.NewWriter(out)
		if err := w.Write(records[0]); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(out)
}
