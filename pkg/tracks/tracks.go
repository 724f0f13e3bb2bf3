// Package tracks assigns audio files from named music sets to the movement
// classes of named exercises.
//
// Assignment is random but reproducible: callers pass an explicit rand
// source. The neutral class follows a deterministic file-name preference
// before falling back to random choice, and no file is ever assigned to
// two classes within one mapping.
package tracks

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Library resolves music set names to their audio file lists. A set is a
// subdirectory of the waves root containing .wav files.
type Library struct {
	root string
}

// NewLibrary creates a library rooted at dir. The directory may not exist
// yet; Sets then reports no sets rather than an error.
func NewLibrary(dir string) *Library {
	return &Library{root: dir}
}

// Sets lists the available music set names, sorted. A missing waves root
// yields an empty list.
func (l *Library) Sets() []string {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return []string{}
	}
	sets := []string{}
	for _, e := range entries {
		if e.IsDir() {
			sets = append(sets, e.Name())
		}
	}
	sort.Strings(sets)
	return sets
}

// Set returns the sorted .wav file names of one music set.
// Unknown names fail with ErrSetNotFound.
func (l *Library) Set(name string) ([]string, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, ErrSetNotFound
	}
	entries, err := os.ReadDir(filepath.Join(l.root, name))
	if err != nil {
		return nil, ErrSetNotFound
	}
	var wavs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".wav") {
			wavs = append(wavs, e.Name())
		}
	}
	sort.Strings(wavs)
	return wavs, nil
}
