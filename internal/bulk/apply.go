package bulk

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// Op is a single backend mutation kind
type Op string

const (
	OpTag     Op = "tag"
	OpUntag   Op = "untag"
	OpComment Op = "comment"
)

// Tagger adds and removes fileset tags
type Tagger interface {
	Tag(ctx context.Context, filesetID models.ID, label string) error
	Untag(ctx context.Context, filesetID models.ID, label string) error
}

// Commenter creates fileset comments
type Commenter interface {
	CreateComment(ctx context.Context, filesetID models.ID, text string) error
}

// Step is one backend call of a bulk operation
type Step struct {
	RowID    models.ID
	RowIndex int
	Op       Op
	Label    string
	// Remaining counts the rows not yet finished, this one included
	Remaining int
}

// ErrApply matches every failed bulk step
var ErrApply = errors.New("bulk operation failed")

// ApplyError reports the step a bulk operation stopped at
type ApplyError struct {
	RowID    models.ID
	RowIndex int
	Op       Op
	Label    string
	Err      error
}

func (e *ApplyError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("failed to %s %q on fileset %s: %v", e.Op, e.Label, e.RowID, e.Err)
	}
	return fmt.Sprintf("failed to %s on fileset %s: %v", e.Op, e.RowID, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrApply) hold
func (e *ApplyError) Is(target error) bool {
	return target == ErrApply
}

// PlanTags expands the queues into steps: per row, one tag step per add the
// row lacks, then one untag step per remove the row carries.
func PlanTags(rows []*models.Row, tagIndex int, adds, removes []string) []Step {
	var steps []Step
	for i, row := range rows {
		tags := row.Labels(tagIndex)
		remaining := len(rows) - i
		for _, tag := range adds {
			if !slices.Contains(tags, tag) {
				steps = append(steps, Step{RowID: row.ID, RowIndex: i, Op: OpTag, Label: tag, Remaining: remaining})
			}
		}
		for _, tag := range removes {
			if slices.Contains(tags, tag) {
				steps = append(steps, Step{RowID: row.ID, RowIndex: i, Op: OpUntag, Label: tag, Remaining: remaining})
			}
		}
	}
	return steps
}

// PlanComments creates one comment step per row
func PlanComments(rows []*models.Row, text string) []Step {
	steps := make([]Step, len(rows))
	for i, row := range rows {
		steps[i] = Step{RowID: row.ID, RowIndex: i, Op: OpComment, Label: text, Remaining: len(rows) - i}
	}
	return steps
}

// Backend is everything a bulk run may call
type Backend interface {
	Tagger
	Commenter
}

// Run executes one step against the backend
func Run(ctx context.Context, backend Backend, step Step) error {
	var err error
	switch step.Op {
	case OpTag:
		err = backend.Tag(ctx, step.RowID, step.Label)
	case OpUntag:
		err = backend.Untag(ctx, step.RowID, step.Label)
	case OpComment:
		err = backend.CreateComment(ctx, step.RowID, step.Label)
	default:
		err = fmt.Errorf("unknown operation %q", step.Op)
	}
	if err != nil {
		label := step.Label
		if step.Op == OpComment {
			label = ""
		}
		return &ApplyError{RowID: step.RowID, RowIndex: step.RowIndex, Op: step.Op, Label: label, Err: err}
	}
	return nil
}

// Apply runs steps one after another. commit is called after each successful
// step; the first failure stops the run and is returned as an *ApplyError.
func Apply(ctx context.Context, backend Backend, steps []Step, commit func(Step)) error {
	for _, step := range steps {
		if err := Run(ctx, backend, step); err != nil {
			return err
		}
		if commit != nil {
			commit(step)
		}
	}
	return nil
}

// ApplyComments creates one comment per row in order, stopping at the first failure
func ApplyComments(ctx context.Context, backend Commenter, rows []*models.Row, text string, commit func(Step)) error {
	for _, step := range PlanComments(rows, text) {
		if err := backend.CreateComment(ctx, step.RowID, text); err != nil {
			return &ApplyError{RowID: step.RowID, RowIndex: step.RowIndex, Op: OpComment, Err: err}
		}
		if commit != nil {
			commit(step)
		}
	}
	return nil
}

// CommitTag applies a successful tag or untag step to the row's tag list
func CommitTag(row *models.Row, tagIndex int, step Step) {
	if row == nil {
		return
	}
	tags := row.Labels(tagIndex)
	switch step.Op {
	case OpTag:
		if !slices.Contains(tags, step.Label) {
			tags = append(tags, step.Label)
		}
	case OpUntag:
		tags = without(tags, step.Label)
	default:
		return
	}
	row.SetLabels(tagIndex, tags)
}

// CommitComment increments the row's cached comment count
func CommitComment(row *models.Row, countIndex int) {
	col := row.Column(countIndex)
	if col == nil {
		return
	}
	n, _ := col.Value.(float64)
	col.Value = n + 1
	col.Defined = true
}
