package journal

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"id", "timestamp", "symbol", "type", "price", "units", "notes"}

// WriteCSV writes entries with a header row. Missing prices and units are
// left empty.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		err := cw.Write([]string{
			e.ID,
			e.Timestamp,
			e.Symbol,
			string(e.Type),
			optional(e.Price),
			optional(e.Units),
			e.Notes,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return f(*v)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
