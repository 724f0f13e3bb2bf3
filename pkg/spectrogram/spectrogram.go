// Package spectrogram computes short-time Fourier transform log-power
// spectrograms of single-channel signal segments. The output is purely
// diagnostic; it never feeds back into classification.
package spectrogram

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// WindowLen is the STFT segment length in samples.
	WindowLen = 64

	// Overlap is the number of samples shared by consecutive segments.
	Overlap = 32

	// epsilon keeps the log finite on silent bins.
	epsilon = 1e-10
)

// Extractor computes one-sided log-power spectrograms with a Hann window.
// It holds a reusable FFT plan and is not safe for concurrent use; create
// one per goroutine.
type Extractor struct {
	sampleRate int
	win        []float64
	winPower   float64 // sum of squared window coefficients
	fft        *fourier.FFT
}

// New creates an extractor for the given sample rate.
func New(sampleRate int) *Extractor {
	win := hann(WindowLen)
	power := 0.0
	for _, w := range win {
		power += w * w
	}
	return &Extractor{
		sampleRate: sampleRate,
		win:        win,
		winPower:   power,
		fft:        fourier.NewFFT(WindowLen),
	}
}

// Compute returns the log-power spectrogram of one channel's samples,
// shaped frequency bins × time bins. Power is one-sided spectral density,
// mapped through 10*log10(p + 1e-10). A segment shorter than one window
// yields zero time bins.
func (e *Extractor) Compute(samples []float64) [][]float64 {
	hop := WindowLen - Overlap
	if len(samples) < WindowLen {
		return make([][]float64, WindowLen/2+1)
	}
	frames := 1 + (len(samples)-WindowLen)/hop
	bins := WindowLen/2 + 1
	scale := 1.0 / (float64(e.sampleRate) * e.winPower)

	out := make([][]float64, bins)
	for f := range out {
		out[f] = make([]float64, frames)
	}

	buf := make([]float64, WindowLen)
	for t := 0; t < frames; t++ {
		start := t * hop
		for k := 0; k < WindowLen; k++ {
			buf[k] = samples[start+k] * e.win[k]
		}
		coeffs := e.fft.Coefficients(nil, buf)
		for f := 0; f < bins; f++ {
			re := real(coeffs[f])
			im := imag(coeffs[f])
			p := (re*re + im*im) * scale
			// one-sided: double everything except DC and Nyquist
			if f != 0 && f != bins-1 {
				p *= 2
			}
			out[f][t] = 10 * math.Log10(p+epsilon)
		}
	}
	return out
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
