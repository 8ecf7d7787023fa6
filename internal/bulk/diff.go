package bulk

import (
	"slices"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// Diff splits the tags of a selection into those on every row and the rest
type Diff struct {
	Individual []string
	Common     []string
}

// ComputeDiff collects the tags of rows at tagIndex in first-seen order. A tag
// missing from at least one row is individual, otherwise common.
func ComputeDiff(rows []*models.Row, tagIndex int) Diff {
	var all []string
	for _, row := range rows {
		for _, tag := range row.Labels(tagIndex) {
			if !slices.Contains(all, tag) {
				all = append(all, tag)
			}
		}
	}

	diff := Diff{Individual: []string{}, Common: []string{}}
	for _, tag := range all {
		individual := false
		for _, row := range rows {
			if !slices.Contains(row.Labels(tagIndex), tag) {
				individual = true
				break
			}
		}
		if individual {
			diff.Individual = append(diff.Individual, tag)
		} else {
			diff.Common = append(diff.Common, tag)
		}
	}
	return diff
}

// Editor queues tag additions and removals against a diff
type Editor struct {
	Diff
	ToAdd    []string
	ToRemove []string
}

// NewEditor starts an editor over the selected rows with empty queues
func NewEditor(rows []*models.Row, tagIndex int) *Editor {
	return &Editor{
		Diff:     ComputeDiff(rows, tagIndex),
		ToAdd:    []string{},
		ToRemove: []string{},
	}
}

// QueueAdd queues tag for addition unless it is common or queued already.
// It always drops tag from the removal queue.
func (e *Editor) QueueAdd(tag string) {
	if !slices.Contains(e.Common, tag) && !slices.Contains(e.ToAdd, tag) {
		e.ToAdd = append(e.ToAdd, tag)
	}
	e.ToRemove = without(e.ToRemove, tag)
}

// QueueRemove queues tag for removal and drops it from the add queue.
// Repeated removals are queued repeatedly.
func (e *Editor) QueueRemove(tag string) {
	e.ToRemove = append(e.ToRemove, tag)
	e.ToAdd = without(e.ToAdd, tag)
}

// Unqueue drops tag from both queues
func (e *Editor) Unqueue(tag string) {
	e.ToAdd = without(e.ToAdd, tag)
	e.ToRemove = without(e.ToRemove, tag)
}

// IndividualMerged returns the individual tags that are not queued either way
func (e *Editor) IndividualMerged() []string {
	out := []string{}
	for _, tag := range e.Individual {
		if !slices.Contains(e.ToRemove, tag) && !slices.Contains(e.ToAdd, tag) {
			out = append(out, tag)
		}
	}
	return out
}

// CommonMerged returns the tags every row will carry after applying the queues
func (e *Editor) CommonMerged() []string {
	out := []string{}
	for _, tag := range e.Common {
		if !slices.Contains(e.ToRemove, tag) {
			out = append(out, tag)
		}
	}
	for _, tag := range e.ToAdd {
		if !slices.Contains(e.Common, tag) {
			out = append(out, tag)
		}
	}
	return out
}

// Pending reports whether anything is queued
func (e *Editor) Pending() bool {
	return len(e.ToAdd) > 0 || len(e.ToRemove) > 0
}

// without removes every occurrence of tag
func without(list []string, tag string) []string {
	out := list[:0]
	for _, t := range list {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}
