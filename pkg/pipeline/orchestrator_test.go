package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/neurobeat-io/neurobeat/pkg/classifier"
	"github.com/neurobeat-io/neurobeat/pkg/eeg"
)

// scriptedScorer returns predetermined logits per epoch. The epoch index is
// recovered from the first sample of channel 0, which the test signal sets
// to the epoch's start row; keying on content keeps the script independent
// of inference order.
func scriptedScorer(t *testing.T, stride int, script [][]float64) *classifier.Mock {
	t.Helper()
	return &classifier.Mock{
		ScoreFunc: func(ctx context.Context, batch [][][]float64) (*classifier.RawOutput, error) {
			start := int(batch[0][0][0])
			idx := start / stride
			if idx < 0 || idx >= len(script) {
				t.Errorf("unexpected epoch start %d", start)
				return nil, errors.New("bad epoch")
			}
			return &classifier.RawOutput{Scores: [][]float64{script[idx]}}, nil
		},
	}
}

// rampSignal sets every channel of sample i to float64(i), so each epoch
// carries its start index in-band.
func rampSignal(t *testing.T, rows, channels int) *eeg.Signal {
	t.Helper()
	data := make([][]float64, rows)
	for i := range data {
		row := make([]float64, channels)
		for c := range row {
			row[c] = float64(i)
		}
		data[i] = row
	}
	sig, err := eeg.NewSignal(data)
	if err != nil {
		t.Fatalf("NewSignal: %v", err)
	}
	return sig
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.EpochLen = 100
	cfg.Stride = 100
	cfg.SpectroChannel = 1
	return cfg
}

func TestScan_TimelineAndLayers(t *testing.T) {
	// 5 epochs over 4 classes {0,1,2,3}; layer table maps 0 and 1 only.
	// A logit of 10 dominates softmax (confidence ~1); all-zero logits
	// give the uniform 0.25, below the 0.70 gate.
	confident := func(class int) []float64 {
		row := make([]float64, 4)
		row[class] = 10
		return row
	}
	uniform := []float64{0, 0, 0, 0}
	script := [][]float64{
		uniform,       // epoch 0: no activation
		confident(1),  // epoch 1: activates right_hand
		confident(2),  // epoch 2: confident but unmapped (neutral)
		confident(0),  // epoch 3: activates left_hand
		uniform,       // epoch 4: layers persist
	}

	cfg := testConfig()
	o := New(scriptedScorer(t, cfg.Stride, script), cfg)
	res, err := o.Scan(context.Background(), rampSignal(t, 500, 2))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Timeline) != 5 {
		t.Fatalf("timeline = %d entries, want 5", len(res.Timeline))
	}
	if len(res.Spectrograms) != 5 {
		t.Fatalf("spectrograms = %d, want 5", len(res.Spectrograms))
	}

	wantLayers := [][]string{
		{},
		{"right_hand.wav"},
		{"right_hand.wav"},
		{"right_hand.wav", "left_hand.wav"},
		{"right_hand.wav", "left_hand.wav"},
	}
	for i, entry := range res.Timeline {
		if got := entry.ActiveLayers; len(got) != len(wantLayers[i]) {
			t.Errorf("epoch %d layers = %v, want %v", i, got, wantLayers[i])
			continue
		}
		for j := range wantLayers[i] {
			if entry.ActiveLayers[j] != wantLayers[i][j] {
				t.Errorf("epoch %d layers = %v, want %v", i, entry.ActiveLayers, wantLayers[i])
				break
			}
		}
	}

	// class 2 is confidently predicted at epoch 2 but must never appear
	// as a layer anywhere
	if got := res.Timeline[2].Class; got != 2 {
		t.Errorf("epoch 2 class = %d, want 2", got)
	}
	for i, entry := range res.Timeline {
		for _, l := range entry.ActiveLayers {
			if l != "left_hand.wav" && l != "right_hand.wav" {
				t.Errorf("epoch %d: unexpected layer %q", i, l)
			}
		}
	}
}

func TestScan_MonotoneLayerSets(t *testing.T) {
	confident := func(class int) []float64 {
		row := make([]float64, 6)
		row[class] = 10
		return row
	}
	script := [][]float64{
		confident(5), confident(0), confident(3), confident(1), confident(5), confident(2),
	}
	cfg := testConfig()
	o := New(scriptedScorer(t, cfg.Stride, script), cfg)
	res, err := o.Scan(context.Background(), rampSignal(t, 600, 2))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	for i := 1; i < len(res.Timeline); i++ {
		prev := res.Timeline[i-1].ActiveLayers
		cur := make(map[string]bool)
		for _, l := range res.Timeline[i].ActiveLayers {
			cur[l] = true
		}
		for _, l := range prev {
			if !cur[l] {
				t.Errorf("entry %d lost layer %q held at entry %d", i, l, i-1)
			}
		}
	}
}

func TestScan_ShortSignal(t *testing.T) {
	cfg := testConfig()
	o := New(classifier.NewMock(0, 4, 10), cfg)
	res, err := o.Scan(context.Background(), rampSignal(t, cfg.EpochLen-1, 2))
	if err != nil {
		t.Fatalf("Scan on short signal: %v", err)
	}
	if len(res.Timeline) != 0 {
		t.Errorf("timeline = %d entries, want 0", len(res.Timeline))
	}
}

func TestScan_NilScorer(t *testing.T) {
	o := New(nil, testConfig())
	_, err := o.Scan(context.Background(), rampSignal(t, 500, 2))
	if !errors.Is(err, classifier.ErrModelUnavailable) {
		t.Errorf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestScan_ScorerErrorNoPartialResult(t *testing.T) {
	boom := errors.New("inference failed")
	o := New(classifier.WithError(boom), testConfig())
	res, err := o.Scan(context.Background(), rampSignal(t, 500, 2))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped inference error", err)
	}
	if res != nil {
		t.Error("partial result returned on failure")
	}
}

func TestScan_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := New(classifier.NewMock(0, 4, 10), testConfig())
	if _, err := o.Scan(ctx, rampSignal(t, 500, 2)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestScan_ParallelMatchesSequential(t *testing.T) {
	confident := func(class int) []float64 {
		row := make([]float64, 6)
		row[class] = 10
		return row
	}
	var script [][]float64
	for i := 0; i < 12; i++ {
		script = append(script, confident([]int{0, 2, 1, 4, 3, 5}[i%6]))
	}
	sig := rampSignal(t, 1200, 2)

	seqCfg := testConfig()
	seq, err := New(scriptedScorer(t, seqCfg.Stride, script), seqCfg).Scan(context.Background(), sig)
	if err != nil {
		t.Fatalf("sequential Scan: %v", err)
	}

	parCfg := testConfig()
	parCfg.Workers = 4
	par, err := New(scriptedScorer(t, parCfg.Stride, script), parCfg).Scan(context.Background(), sig)
	if err != nil {
		t.Fatalf("parallel Scan: %v", err)
	}

	if !reflect.DeepEqual(seq.Timeline, par.Timeline) {
		t.Errorf("parallel timeline differs from sequential:\nseq=%v\npar=%v", seq.Timeline, par.Timeline)
	}
	if !reflect.DeepEqual(seq.Spectrograms, par.Spectrograms) {
		t.Error("parallel spectrograms differ from sequential")
	}
}

func TestScan_OnEpochCallbackOrder(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 3
	o := New(classifier.NewMock(1, 4, 10), cfg)

	var times []float64
	o.OnEpoch = func(e TimelineEntry) { times = append(times, e.TimeSec) }

	if _, err := o.Scan(context.Background(), rampSignal(t, 600, 2)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Errorf("OnEpoch out of order: %v", times)
		}
	}
	if len(times) != 6 {
		t.Errorf("OnEpoch called %d times, want 6", len(times))
	}
}

func TestScan_SpectroChannelOutOfRange(t *testing.T) {
	for _, channel := range []int{10, -1} {
		cfg := testConfig()
		cfg.SpectroChannel = channel
		o := New(classifier.NewMock(0, 4, 10), cfg)
		if _, err := o.Scan(context.Background(), rampSignal(t, 500, 2)); err == nil {
			t.Errorf("spectrogram channel %d accepted", channel)
		}
	}
}
