// Package eeg provides the multi-channel signal model for neurobeat.
//
// A Signal is an immutable samples-by-channels matrix decoded from tabular
// CSV data. The Windower slices it into fixed-length epochs at a fixed
// stride; each epoch is one inference unit for the classification pipeline.
package eeg

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrMalformed is returned when signal data cannot be parsed as numeric
// tabular data.
var ErrMalformed = errors.New("eeg: malformed signal data")

// Signal is a continuous multi-channel recording: rows are time samples,
// columns are channels. Treat it as read-only once decoded.
type Signal struct {
	data     [][]float64
	channels int
}

// NewSignal wraps pre-parsed sample rows. All rows must have the same
// channel count; rows may be empty.
func NewSignal(rows [][]float64) (*Signal, error) {
	channels := 0
	if len(rows) > 0 {
		channels = len(rows[0])
	}
	for i, r := range rows {
		if len(r) != channels {
			return nil, fmt.Errorf("%w: row %d has %d channels, want %d", ErrMalformed, i, len(r), channels)
		}
	}
	return &Signal{data: rows, channels: channels}, nil
}

// DecodeCSV parses tabular numeric data into a Signal. A single leading
// header row of non-numeric labels is tolerated and skipped; any other
// non-numeric cell or ragged row fails with ErrMalformed.
func DecodeCSV(r io.Reader) (*Signal, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var rows [][]float64
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		line++

		row := make([]float64, len(record))
		ok := true
		for i, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				if line == 1 {
					// header row
					ok = false
					break
				}
				return nil, fmt.Errorf("%w: row %d column %d: %q is not numeric", ErrMalformed, line, i+1, cell)
			}
			row[i] = v
		}
		if ok {
			rows = append(rows, row)
		}
	}

	return NewSignal(rows)
}

// Rows returns the number of time samples.
func (s *Signal) Rows() int { return len(s.data) }

// Channels returns the channel count.
func (s *Signal) Channels() int { return s.channels }

// Sample returns one time sample (all channels) by index.
func (s *Signal) Sample(i int) []float64 { return s.data[i] }

// Duration returns the recording length in seconds at the given sample rate.
func (s *Signal) Duration(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(len(s.data)) / float64(sampleRate)
}
