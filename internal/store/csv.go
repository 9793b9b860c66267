package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"boundary/internal/domain"
)

// csvTimeLayout matches the vendor export format produced by the historical
// download pipeline.
const csvTimeLayout = "2006-01-02 15:04:05"

// ReadBarsCSV reads a vendor CSV export of minute bars into a bar series.
// The expected column order is timestamp, open, high, low, close, volume; a
// header row is skipped if the first field does not parse as a timestamp.
// Malformed rows are rejected with the offending line number; the engine
// requires a clean chronological series, so bad input fails fast.
func ReadBarsCSV(path, symbol string) ([]domain.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []domain.Bar
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		line++

		if len(record) < 6 {
			return nil, fmt.Errorf("%s:%d: expected 6 columns, got %d", path, line, len(record))
		}

		ts, err := time.Parse(csvTimeLayout, record[0])
		if err != nil {
			if line == 1 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("%s:%d: parsing timestamp %q: %w", path, line, record[0], err)
		}

		var vals [4]float64
		for i := 0; i < 4; i++ {
			vals[i], err = strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: parsing column %d: %w", path, line, i+2, err)
			}
		}
		volume, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: parsing volume: %w", path, line, err)
		}

		bars = append(bars, domain.Bar{
			Symbol:    symbol,
			Timestamp: ts,
			Open:      vals[0],
			High:      vals[1],
			Low:       vals[2],
			Close:     vals[3],
			Volume:    int64(volume),
		})
	}
	return bars, nil
}
