package diag

import (
	"io"

	"github.com/gocarina/gocsv"
)

// Sink receives a finished report for persistence. Grids are written
// row-major; particle dumps are written as one record per particle.
type Sink interface {
	WriteGrid(name string, nx [2]int, data []float32) error
	WriteRecords(name string, records any) error
}

// CSVSink writes reports as CSV via gocsv, matching the teacher's
// telemetry package convention of flat structs with `csv:"..."` tags.
type CSVSink struct {
	// Open returns a writer for the named report; the caller is
	// responsible for closing it if it implements io.Closer.
	Open func(name string) (io.Writer, error)
}

// GridRow is one row of a flattened grid report: the flat (row-major)
// cell index, a coordinate column, and the deposited value. WriteGrid
// does not fill Coord, so it is always zero in its output.
type GridRow struct {
	Cell  int     `csv:"cell"`
	Coord float64 `csv:"coord"`
	Value float32 `csv:"value"`
}

// WriteGrid writes data as CSV rows via gocsv, one row per element in
// row-major order with Cell set to the flat index. It serves both 1-D
// charge grids and 2-D phase-space grids; nx is not used.
func (c *CSVSink) WriteGrid(name string, nx [2]int, data []float32) error {
	w, err := c.Open(name)
	if err != nil {
		return err
	}
	rows := make([]*GridRow, len(data))
	for i, v := range data {
		rows[i] = &GridRow{Cell: i, Value: v}
	}
	return gocsv.Marshal(rows, w)
}

// WriteRecords writes an arbitrary slice of gocsv-taggable records (used
// for particle dumps).
func (c *CSVSink) WriteRecords(name string, records any) error {
	w, err := c.Open(name)
	if err != nil {
		return err
	}
	return gocsv.Marshal(records, w)
}
