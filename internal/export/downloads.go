package export

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rebeliceyang/lazymarv/internal/api"
	"github.com/rebeliceyang/lazymarv/internal/models"
)

// Selector keeps files whose name or full path matches any include pattern.
// No patterns keeps everything.
type Selector struct {
	Include []string
}

// NewSelector validates the doublestar patterns
func NewSelector(patterns ...string) (*Selector, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}
	return &Selector{Include: patterns}, nil
}

// Match reports whether f of fs is selected
func (s *Selector) Match(fs models.Fileset, f models.File) bool {
	if s == nil || len(s.Include) == 0 {
		return true
	}
	path := strings.TrimPrefix(f.Path(fs), "/")
	for _, p := range s.Include {
		if ok, _ := doublestar.Match(p, f.Name); ok {
			return true
		}
		if ok, _ := doublestar.Match(strings.TrimPrefix(p, "/"), path); ok {
			return true
		}
	}
	return false
}

// Lines maps every selected file to one line, in fileset order
func (s *Selector) Lines(sets []api.FilesetFiles, mapper api.FileMapper) []string {
	lines := []string{}
	for _, set := range sets {
		for _, f := range set.Files {
			if s.Match(set.Fileset, f) {
				lines = append(lines, mapper(set.Fileset, f))
			}
		}
	}
	return lines
}

// FileList lists file:// paths of the selected files
func FileList(sets []api.FilesetFiles, patterns ...string) ([]string, error) {
	s, err := NewSelector(patterns...)
	if err != nil {
		return nil, err
	}
	return s.Lines(sets, api.LocalPath), nil
}

// URLList lists server download URLs of the selected files
func URLList(sets []api.FilesetFiles, base string, patterns ...string) ([]string, error) {
	s, err := NewSelector(patterns...)
	if err != nil {
		return nil, err
	}
	return s.Lines(sets, api.DownloadURL(base)), nil
}
