package tracks

import "sort"

// exercises maps exercise names to their ordered movement-class lists.
// Order matters: the assigner processes classes in list order, so an early
// random pick can consume the file the neutral class would otherwise
// prefer.
var exercises = map[string][]int{
	"full":  {0, 1, 3, 5},
	"hands": {0, 1, 2},
	"right": {1, 2, 5},
	"left":  {0, 2, 3},
}

// Exercises lists the available exercise names, sorted.
func Exercises() []string {
	names := make([]string, 0, len(exercises))
	for name := range exercises {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Classes returns the ordered movement-class list of one exercise.
// Unknown names fail with ErrExerciseNotFound.
func Classes(exercise string) ([]int, error) {
	classes, ok := exercises[exercise]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	out := make([]int, len(classes))
	copy(out, classes)
	return out, nil
}
