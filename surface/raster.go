package surface

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Grid is a regular elevation raster in ESRI ASCII layout: row 0 is
// the northernmost row, cell origin at the lower-left corner.
type Grid struct {
	Ncols, Nrows     int
	Xcorner, Ycorner float64
	CellSize         float64
	NoData           float64
	Data             [][]float64
}

// ReadEsriASCII parses an ESRI ASCII grid. Header keys are
// case-insensitive; ncols, nrows, cellsize and one corner pair are
// required.
func ReadEsriASCII(r io.Reader) (*Grid, error) {
	g := &Grid{NoData: -9999}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	var rows [][]float64
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 2 {
			if ok, err := g.header(strings.ToLower(fields[0]), fields[1]); err != nil {
				return nil, err
			} else if ok {
				continue
			}
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("grid row %d: %w", len(rows), err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if g.Ncols == 0 || g.Nrows == 0 || g.CellSize == 0 {
		return nil, fmt.Errorf("incomplete grid header")
	}
	if len(rows) != g.Nrows {
		return nil, fmt.Errorf("grid has %d data rows, header says %d", len(rows), g.Nrows)
	}
	for i, row := range rows {
		if len(row) != g.Ncols {
			return nil, fmt.Errorf("grid row %d has %d values, header says %d", i, len(row), g.Ncols)
		}
	}
	g.Data = rows
	return g, nil
}

func (g *Grid) header(key, value string) (bool, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false, nil // not a header line
	}
	switch key {
	case "ncols":
		g.Ncols = int(v)
	case "nrows":
		g.Nrows = int(v)
	case "xllcorner", "xllcenter":
		g.Xcorner = v
	case "yllcorner", "yllcenter":
		g.Ycorner = v
	case "cellsize":
		g.CellSize = v
	case "nodata_value":
		g.NoData = v
	default:
		return false, nil
	}
	return true, nil
}

// Sample returns the height of the cell containing (x, y). ok is false
// outside the grid extent or on a nodata cell.
func (g *Grid) Sample(x, y float64) (float64, bool) {
	col := int((x - g.Xcorner) / g.CellSize)
	row := g.Nrows - 1 - int((y-g.Ycorner)/g.CellSize)
	if col < 0 || col >= g.Ncols || row < 0 || row >= g.Nrows {
		return 0, false
	}
	z := g.Data[row][col]
	if z == g.NoData {
		return 0, false
	}
	return z, true
}
