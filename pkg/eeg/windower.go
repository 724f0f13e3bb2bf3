package eeg

import "fmt"

// Epoch is a fixed-length contiguous slice of a Signal, identified by its
// start sample index. The sample data is a view into the parent Signal.
type Epoch struct {
	// Start is the index of the epoch's first sample in the recording.
	Start int

	// Samples holds the epoch's rows (samples × channels).
	Samples [][]float64
}

// Time returns the epoch's offset from the start of the recording in seconds.
func (e Epoch) Time(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(e.Start) / float64(sampleRate)
}

// Channel extracts a single channel of the epoch as a contiguous series.
func (e Epoch) Channel(idx int) []float64 {
	out := make([]float64, len(e.Samples))
	for i, row := range e.Samples {
		out[i] = row[idx]
	}
	return out
}

// ChannelMajor returns the epoch transposed to channels × samples, the
// layout the classifier expects.
func (e Epoch) ChannelMajor() [][]float64 {
	if len(e.Samples) == 0 {
		return nil
	}
	channels := len(e.Samples[0])
	out := make([][]float64, channels)
	for c := 0; c < channels; c++ {
		out[c] = make([]float64, len(e.Samples))
		for i, row := range e.Samples {
			out[c][i] = row[c]
		}
	}
	return out
}

// Windower yields the epochs of a Signal in index order: starts at
// 0, S, 2S, … while start+L stays within the recording. A signal shorter
// than one epoch yields nothing; that is not an error.
type Windower struct {
	sig    *Signal
	length int
	stride int
	next   int
}

// NewWindower creates a windower over sig with epoch length and stride in
// samples. Both must be positive; stride may be smaller (overlap) or larger
// (gaps) than the length.
func NewWindower(sig *Signal, length, stride int) (*Windower, error) {
	if length <= 0 {
		return nil, fmt.Errorf("eeg: epoch length must be positive, got %d", length)
	}
	if stride <= 0 {
		return nil, fmt.Errorf("eeg: stride must be positive, got %d", stride)
	}
	return &Windower{sig: sig, length: length, stride: stride}, nil
}

// Next returns the next epoch in index order. The second result is false
// when the sequence is exhausted.
func (w *Windower) Next() (Epoch, bool) {
	if w.next+w.length > w.sig.Rows() {
		return Epoch{}, false
	}
	ep := Epoch{
		Start:   w.next,
		Samples: w.sig.data[w.next : w.next+w.length],
	}
	w.next += w.stride
	return ep, true
}

// Reset restarts the sequence from the first epoch.
func (w *Windower) Reset() { w.next = 0 }

// Count returns the total number of epochs the windower will yield.
func (w *Windower) Count() int {
	if w.sig.Rows() < w.length {
		return 0
	}
	return (w.sig.Rows()-w.length)/w.stride + 1
}
