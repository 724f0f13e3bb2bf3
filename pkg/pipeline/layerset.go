package pipeline

// LayerSet is the set of audio layers activated so far in one recording.
// It only grows: once a motor intent is confidently detected anywhere in
// the recording, its layer stays on for the remainder of the output.
// Membership is tracked in insertion order so snapshots are reproducible.
type LayerSet struct {
	seen  map[string]bool
	order []string
}

// NewLayerSet creates an empty layer set.
func NewLayerSet() *LayerSet {
	return &LayerSet{seen: make(map[string]bool)}
}

// Add inserts a layer name. Adding an existing layer is a no-op.
func (s *LayerSet) Add(layer string) {
	if s.seen[layer] {
		return
	}
	s.seen[layer] = true
	s.order = append(s.order, layer)
}

// Contains reports whether the layer has been activated.
func (s *LayerSet) Contains(layer string) bool { return s.seen[layer] }

// Len returns the number of active layers.
func (s *LayerSet) Len() int { return len(s.order) }

// Snapshot returns the active layers in insertion order. The returned
// slice is a copy; callers may keep or mutate it freely.
func (s *LayerSet) Snapshot() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
