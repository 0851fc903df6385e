package modern

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"x1", "x2", "y1", "y2", "z1", "z2",
	"tma", "tmb", "tmc", "tmavg",
	"ma1", "ma2", "ma3", "mb1", "mb2", "mb3", "mc1", "mc2", "mc3",
	"xdoma", "ydoma", "xdomb", "ydomb", "xdomc", "ydomc",
}

// CSVWriter appends one row per measurement to data.<unix>.csv.
type CSVWriter struct {
	path string
	f    *os.File
	w    *csv.Writer
}

func NewCSVWriter(dir string, now time.Time) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := OutputPath(dir, now)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	cw := &CSVWriter{path: path, f: f, w: csv.NewWriter(f)}
	if err := cw.writeRow(csvHeader); err != nil {
		_ = f.Close()
		return nil, err
	}
	return cw, nil
}

func (c *CSVWriter) Path() string { return c.path }

func (c *CSVWriter) Write(m *Measurement) error {
	if m == nil {
		return fmt.Errorf("measurement nil")
	}
	return c.writeRow(csvRow(m))
}

func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		_ = c.f.Close()
		return err
	}
	return c.f.Close()
}

func (c *CSVWriter) writeRow(rec []string) error {
	if err := c.w.Write(rec); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

func csvRow(m *Measurement) []string {
	vals := make([]float64, 0, len(csvHeader))
	r := m.CG
	vals = append(vals, r.X1, r.X2, r.Y1, r.Y2, r.Z1, r.Z2)
	vals = append(vals, m.Totals[0], m.Totals[1], m.Totals[2], m.AvgTotal)
	for _, t := range m.Masses {
		vals = append(vals, t[:]...)
	}
	for i := range m.XDom {
		vals = append(vals, m.XDom[i], m.YDom[i])
	}
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return row
}
