package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazymarv/internal/bulk"
	"github.com/rebeliceyang/lazymarv/internal/models"
	"github.com/rebeliceyang/lazymarv/internal/ui/components"
)

const (
	tagsColumn    = "tags"
	commentColumn = "comment_count"
)

// BulkStepMsg is sent when one step of a bulk operation finished
type BulkStepMsg struct {
	// Generation of the listing view when the step was dispatched
	Generation uint64
	Step       bulk.Step
	Err        error
}

// targetRows returns the checked rows, or the row under the cursor when none is checked
func (a *App) targetRows() []*models.Row {
	if a.listing == nil {
		return nil
	}
	if rows := a.listing.Checked(); len(rows) > 0 {
		return rows
	}
	if row := a.tableView.Current(); row != nil {
		return []*models.Row{row}
	}
	return nil
}

// openTagDialog starts a bulk tag edit over the target rows
func (a *App) openTagDialog() tea.Cmd {
	rows := a.targetRows()
	tagIndex := a.listing.ColumnIndex(tagsColumn)
	if tagIndex < 0 {
		a.ShowError("Cannot edit tags", "The listing has no tags column.")
		return nil
	}
	d := bulk.NewDialog()
	if err := d.OpenTags(rows, tagIndex); err != nil {
		a.ShowError("Cannot edit tags", err.Error())
		return nil
	}
	a.bulk = d
	a.tagDialog = components.NewTagDialog(a.theme, d, a.knownTags)
	return nil
}

// openCommentDialog starts a bulk comment over the target rows
func (a *App) openCommentDialog() tea.Cmd {
	rows := a.targetRows()
	d := bulk.NewDialog()
	if err := d.OpenComment(rows, a.listing.ColumnIndex(commentColumn)); err != nil {
		a.ShowError("Cannot comment", err.Error())
		return nil
	}
	a.bulk = d
	a.commentDialog = components.NewCommentDialog(a.theme, d)
	return nil
}

// startBulk plans the queued operation and dispatches its first step
func (a *App) startBulk() tea.Cmd {
	if a.bulk == nil {
		return nil
	}
	steps, err := a.bulk.Start()
	if err != nil {
		a.ShowError("Cannot apply", err.Error())
		return nil
	}
	if len(steps) == 0 {
		a.closeBulkDialogs()
		a.state.Status = "Nothing to change"
		return nil
	}
	a.logger.Info("bulk operation started", "mode", a.bulk.Mode, "steps", len(steps), "filesets", len(a.bulk.Rows))
	step, _ := a.bulk.NextStep()
	return a.runStep(step)
}

// runStep executes a single backend call; the result comes back as BulkStepMsg
func (a *App) runStep(step bulk.Step) tea.Cmd {
	generation := a.listing.Generation()
	client := a.client
	return func() tea.Msg {
		err := bulk.Run(context.Background(), client, step)
		return BulkStepMsg{Generation: generation, Step: step, Err: err}
	}
}

// handleBulkStep commits a finished step to its row and chains the next one
func (a *App) handleBulkStep(msg BulkStepMsg) tea.Cmd {
	if a.bulk == nil || a.bulk.Phase != bulk.PhaseApplying {
		return nil
	}
	if msg.Err != nil {
		a.logger.Error("bulk step failed", "fileset", msg.Step.RowID, "op", msg.Step.Op, "error", msg.Err)
		a.bulk.Fail(msg.Err)
		return nil
	}

	a.commitStep(msg)
	if err := a.bulk.Complete(); err != nil {
		a.logger.Warn("bulk step completed out of order", "error", err)
		return nil
	}

	if step, ok := a.bulk.NextStep(); ok {
		return a.runStep(step)
	}

	n := len(a.bulk.Rows)
	mode := a.bulk.Mode
	a.closeBulkDialogs()
	if mode == bulk.ModeComment {
		a.state.Status = fmt.Sprintf("Commented on %d filesets", n)
	} else {
		a.state.Status = fmt.Sprintf("Updated tags of %d filesets", n)
	}
	a.logger.Info("bulk operation finished", "mode", mode, "filesets", n)
	return tea.Batch(a.loadListing(a.filter.Applied), a.loadTags)
}

// commitStep mirrors a successful step into the row of the current view.
// A result started against a listing that was replaced since is dropped; the
// reload after the run brings the server state.
func (a *App) commitStep(msg BulkStepMsg) {
	if msg.Generation != a.listing.Generation() {
		a.logger.Debug("dropping bulk result for replaced listing", "fileset", msg.Step.RowID)
		return
	}
	row := a.listing.RowByID(msg.Step.RowID)
	if row == nil {
		return
	}
	switch a.bulk.Mode {
	case bulk.ModeTags:
		bulk.CommitTag(row, a.bulk.TagIndex, msg.Step)
	case bulk.ModeComment:
		bulk.CommitComment(row, a.bulk.CountIndex)
	}
	if err := a.listing.RefreshRow(row); err != nil {
		a.logger.Warn("failed to refresh row", "fileset", row.ID, "error", err)
	}
}

// closeBulk dismisses the dialog unless a run is still in flight
func (a *App) closeBulk() tea.Cmd {
	if a.bulk == nil {
		a.closeBulkDialogs()
		return nil
	}
	failed := a.bulk.Err
	if err := a.bulk.Close(); err != nil {
		a.state.Status = "Wait for the running operation to finish"
		return nil
	}
	a.closeBulkDialogs()
	if failed != nil {
		var applyErr *bulk.ApplyError
		if errors.As(failed, &applyErr) {
			a.logger.Warn("bulk operation stopped", slog.String("fileset", applyErr.RowID.String()), slog.Int("row", applyErr.RowIndex))
		}
		return a.loadListing(a.filter.Applied)
	}
	return nil
}

func (a *App) closeBulkDialogs() {
	a.bulk = nil
	a.tagDialog = nil
	a.commentDialog = nil
}
