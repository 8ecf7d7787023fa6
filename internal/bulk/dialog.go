package bulk

import (
	"errors"
	"fmt"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// Phase is the state of a bulk dialog
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseOpen
	PhaseEditing
	PhaseApplying
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseOpen:
		return "open"
	case PhaseEditing:
		return "editing"
	case PhaseApplying:
		return "applying"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Mode selects what the dialog edits
type Mode int

const (
	ModeTags Mode = iota
	ModeComment
)

// ErrTransition is returned for an action the current phase does not allow
var ErrTransition = errors.New("invalid dialog transition")

// ErrEmptySelection is returned when a dialog is opened without rows
var ErrEmptySelection = errors.New("no rows selected")

// Dialog drives one bulk tag or comment operation:
// Idle -> Open -> Editing -> Applying -> Closed.
// A failed step leaves it in Applying with Err set.
type Dialog struct {
	Phase      Phase
	Mode       Mode
	Editor     *Editor
	Rows       []*models.Row
	TagIndex   int
	CountIndex int
	Text       string
	Steps      []Step
	Next       int
	Err        error
}

// NewDialog returns an idle dialog
func NewDialog() *Dialog {
	return &Dialog{Phase: PhaseIdle}
}

func (d *Dialog) transition(from []Phase, to Phase) error {
	for _, p := range from {
		if d.Phase == p {
			d.Phase = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrTransition, d.Phase, to)
}

// Active reports whether the dialog is on screen
func (d *Dialog) Active() bool {
	return d.Phase == PhaseOpen || d.Phase == PhaseEditing || d.Phase == PhaseApplying
}

// OpenTags computes the tag diff of rows and opens the dialog
func (d *Dialog) OpenTags(rows []*models.Row, tagIndex int) error {
	if len(rows) == 0 {
		return ErrEmptySelection
	}
	if err := d.transition([]Phase{PhaseIdle, PhaseClosed}, PhaseOpen); err != nil {
		return err
	}
	d.reset(ModeTags, rows)
	d.TagIndex = tagIndex
	d.Editor = NewEditor(rows, tagIndex)
	return nil
}

// OpenComment opens the dialog for one comment on every row
func (d *Dialog) OpenComment(rows []*models.Row, countIndex int) error {
	if len(rows) == 0 {
		return ErrEmptySelection
	}
	if err := d.transition([]Phase{PhaseIdle, PhaseClosed}, PhaseOpen); err != nil {
		return err
	}
	d.reset(ModeComment, rows)
	d.CountIndex = countIndex
	return nil
}

func (d *Dialog) reset(mode Mode, rows []*models.Row) {
	d.Mode = mode
	d.Rows = append([]*models.Row(nil), rows...)
	d.Editor = nil
	d.Text = ""
	d.Steps = nil
	d.Next = 0
	d.Err = nil
}

func (d *Dialog) edit() error {
	return d.transition([]Phase{PhaseOpen, PhaseEditing}, PhaseEditing)
}

// QueueAdd queues a tag addition
func (d *Dialog) QueueAdd(tag string) error {
	if d.Mode != ModeTags {
		return ErrTransition
	}
	if err := d.edit(); err != nil {
		return err
	}
	d.Editor.QueueAdd(tag)
	return nil
}

// QueueRemove queues a tag removal
func (d *Dialog) QueueRemove(tag string) error {
	if d.Mode != ModeTags {
		return ErrTransition
	}
	if err := d.edit(); err != nil {
		return err
	}
	d.Editor.QueueRemove(tag)
	return nil
}

// Unqueue drops a queued tag
func (d *Dialog) Unqueue(tag string) error {
	if d.Mode != ModeTags {
		return ErrTransition
	}
	if err := d.edit(); err != nil {
		return err
	}
	d.Editor.Unqueue(tag)
	return nil
}

// SetText sets the comment text
func (d *Dialog) SetText(text string) error {
	if d.Mode != ModeComment {
		return ErrTransition
	}
	if err := d.edit(); err != nil {
		return err
	}
	d.Text = text
	return nil
}

// Start plans the backend calls and enters Applying
func (d *Dialog) Start() ([]Step, error) {
	if err := d.transition([]Phase{PhaseOpen, PhaseEditing}, PhaseApplying); err != nil {
		return nil, err
	}
	switch d.Mode {
	case ModeTags:
		d.Steps = PlanTags(d.Rows, d.TagIndex, d.Editor.ToAdd, d.Editor.ToRemove)
	case ModeComment:
		d.Steps = PlanComments(d.Rows, d.Text)
	}
	d.Next = 0
	if len(d.Steps) == 0 {
		d.Phase = PhaseClosed
	}
	return d.Steps, nil
}

// NextStep returns the step to run next, if any
func (d *Dialog) NextStep() (Step, bool) {
	if d.Phase != PhaseApplying || d.Err != nil || d.Next >= len(d.Steps) {
		return Step{}, false
	}
	return d.Steps[d.Next], true
}

// Complete records a successful step; the last one closes the dialog
func (d *Dialog) Complete() error {
	if d.Phase != PhaseApplying || d.Err != nil {
		return ErrTransition
	}
	d.Next++
	if d.Next >= len(d.Steps) {
		d.Phase = PhaseClosed
	}
	return nil
}

// Fail records the error that stopped the run
func (d *Dialog) Fail(err error) {
	if d.Phase != PhaseApplying {
		return
	}
	d.Err = err
}

// Remaining returns the progress counter: rows not yet finished
func (d *Dialog) Remaining() int {
	if step, ok := d.NextStep(); ok {
		return step.Remaining
	}
	if d.Phase == PhaseApplying && d.Next < len(d.Steps) {
		return d.Steps[d.Next].Remaining
	}
	return 0
}

// Close dismisses the dialog. A run in flight cannot be closed until it
// finishes or fails.
func (d *Dialog) Close() error {
	if d.Phase == PhaseApplying && d.Err == nil {
		return fmt.Errorf("%w: run in progress", ErrTransition)
	}
	if d.Phase == PhaseIdle {
		return nil
	}
	d.Phase = PhaseClosed
	return nil
}
