package tracks

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// NeutralClass is the movement class reserved for the rest state.
const NeutralClass = 2

// preference is a deterministic first choice for a class: the first unused
// file whose name starts with Prefix (case-insensitive) is taken before
// falling back to a uniform random pick.
type preference struct {
	Prefix string
}

// classPreferences is the priority-then-random policy table. Only the
// neutral class carries a preference today (the percussion-file
// convention); new rules slot in here without touching the assignment
// loop.
var classPreferences = map[int]preference{
	NeutralClass: {Prefix: "d"},
}

// Mapping assigns each movement class of an exercise to one file, as
// "<set>/<file>".
type Mapping map[int]string

// Assign maps the classes of an exercise onto the files of a music set.
// Classes are processed in exercise-list order; every pick removes the
// chosen file from the pool, so assignments are disjoint. The rand source
// is explicit so tests and callers can seed it.
func (l *Library) Assign(setName, exercise string, rng *rand.Rand) (Mapping, error) {
	files, err := l.Set(setName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSetNotFound, setName)
	}
	classes, err := Classes(exercise)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExerciseNotFound, exercise)
	}
	if len(files) < len(classes) {
		return nil, fmt.Errorf("%w: set %q has %d files, exercise %q needs %d",
			ErrNotEnoughTracks, setName, len(files), exercise, len(classes))
	}

	remaining := make([]string, len(files))
	copy(remaining, files)

	mapping := make(Mapping, len(classes))
	for _, class := range classes {
		idx := -1
		if pref, ok := classPreferences[class]; ok {
			idx = firstWithPrefix(remaining, pref.Prefix)
		}
		if idx < 0 {
			idx = rng.IntN(len(remaining))
		}
		mapping[class] = setName + "/" + remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return mapping, nil
}

func firstWithPrefix(files []string, prefix string) int {
	for i, f := range files {
		if strings.HasPrefix(strings.ToLower(f), prefix) {
			return i
		}
	}
	return -1
}
