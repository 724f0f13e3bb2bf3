package spectrogram

import (
	"math"
	"testing"
)

func TestCompute_Shape(t *testing.T) {
	// 300 samples, window 64, hop 32 → 8 time bins, 33 frequency bins.
	samples := make([]float64, 300)
	sxx := New(200).Compute(samples)
	if len(sxx) != 33 {
		t.Fatalf("frequency bins = %d, want 33", len(sxx))
	}
	for f := range sxx {
		if len(sxx[f]) != 8 {
			t.Fatalf("time bins at f=%d: %d, want 8", f, len(sxx[f]))
		}
	}
}

func TestCompute_SilenceIsFloor(t *testing.T) {
	samples := make([]float64, 128)
	sxx := New(200).Compute(samples)
	floor := 10 * math.Log10(1e-10)
	for f := range sxx {
		for tb := range sxx[f] {
			if math.Abs(sxx[f][tb]-floor) > 1e-9 {
				t.Fatalf("silent bin [%d][%d] = %v, want %v", f, tb, sxx[f][tb], floor)
			}
		}
	}
}

func TestCompute_TonePeaksAtItsBin(t *testing.T) {
	// A pure tone at bin 8 of a 64-sample window (fs=200 → 25 Hz) must
	// put its energy at frequency bin 8 in every frame.
	const fs = 200
	samples := make([]float64, 320)
	freq := 8.0 * fs / WindowLen
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / fs)
	}
	sxx := New(fs).Compute(samples)

	for tb := range sxx[0] {
		best := 0
		for f := range sxx {
			if sxx[f][tb] > sxx[best][tb] {
				best = f
			}
		}
		if best != 8 {
			t.Errorf("frame %d peak at bin %d, want 8", tb, best)
		}
	}
}

func TestCompute_ShortInput(t *testing.T) {
	sxx := New(200).Compute(make([]float64, WindowLen-1))
	if len(sxx) != 33 {
		t.Fatalf("frequency bins = %d, want 33", len(sxx))
	}
	for f := range sxx {
		if len(sxx[f]) != 0 {
			t.Errorf("time bins = %d for short input, want 0", len(sxx[f]))
		}
	}
}
