package pipeline

import "github.com/neurobeat-io/neurobeat/pkg/classifier"

// Gate applies the confidence threshold to a prediction and maps gated
// classes onto audio layers. Classes absent from the layer table are valid
// predictions that never activate anything; that is how the neutral class
// is handled.
type Gate struct {
	// Threshold is the minimum confidence required to act on a prediction.
	Threshold float64

	// Layers maps movement class IDs to layer names.
	Layers map[int]string
}

// Apply updates the layer set for one prediction. It returns the layer it
// activated, or "" when the prediction was gated out or unmapped. The gate
// never removes layers.
func (g Gate) Apply(pred classifier.Prediction, set *LayerSet) string {
	if pred.Confidence < g.Threshold {
		return ""
	}
	layer, ok := g.Layers[pred.Class]
	if !ok {
		return ""
	}
	set.Add(layer)
	return layer
}
