package bulk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazymarv/internal/api"
	"github.com/rebeliceyang/lazymarv/internal/api/apitest"
	"github.com/rebeliceyang/lazymarv/internal/models"
)

func TestDialogLifecycle(t *testing.T) {
	d := NewDialog()
	assert.Equal(t, PhaseIdle, d.Phase)

	rows := threeRows()
	require.NoError(t, d.OpenTags(rows, 1))
	assert.Equal(t, PhaseOpen, d.Phase)
	assert.Equal(t, []string{"A"}, d.Editor.Common)

	require.NoError(t, d.QueueAdd("D"))
	assert.Equal(t, PhaseEditing, d.Phase)

	steps, err := d.Start()
	require.NoError(t, err)
	assert.Len(t, steps, 3)
	assert.Equal(t, PhaseApplying, d.Phase)
	assert.Equal(t, 3, d.Remaining())

	assert.Error(t, d.Close(), "running dialogs cannot be closed")

	backend := &fakeBackend{}
	for {
		step, ok := d.NextStep()
		if !ok {
			break
		}
		require.NoError(t, Run(context.Background(), backend, step))
		require.NoError(t, d.Complete())
	}
	assert.Equal(t, PhaseClosed, d.Phase)
	assert.Len(t, backend.calls, 3)
}

func TestDialogFailureStaysApplying(t *testing.T) {
	d := NewDialog()
	require.NoError(t, d.OpenTags(threeRows(), 1))
	require.NoError(t, d.QueueAdd("D"))
	_, err := d.Start()
	require.NoError(t, err)

	d.Fail(errors.New("boom"))

	assert.Equal(t, PhaseApplying, d.Phase)
	_, ok := d.NextStep()
	assert.False(t, ok, "no further steps after a failure")
	assert.ErrorIs(t, d.Complete(), ErrTransition)

	require.NoError(t, d.Close())
	assert.Equal(t, PhaseClosed, d.Phase)
}

func TestDialogInvalidTransitions(t *testing.T) {
	d := NewDialog()

	_, err := d.Start()
	assert.ErrorIs(t, err, ErrTransition)
	assert.ErrorIs(t, d.QueueAdd("x"), ErrTransition)
	assert.ErrorIs(t, d.OpenTags(nil, 1), ErrEmptySelection)

	require.NoError(t, d.OpenComment(threeRows(), 2))
	assert.ErrorIs(t, d.OpenTags(threeRows(), 1), ErrTransition)
	assert.ErrorIs(t, d.QueueAdd("x"), ErrTransition)
}

func TestDialogNothingToDo(t *testing.T) {
	d := NewDialog()
	require.NoError(t, d.OpenTags(threeRows(), 1))
	require.NoError(t, d.QueueAdd("A"))

	steps, err := d.Start()
	require.NoError(t, err)
	assert.Empty(t, steps)
	assert.Equal(t, PhaseClosed, d.Phase)
}

func TestDialogComment(t *testing.T) {
	d := NewDialog()
	require.NoError(t, d.OpenComment(threeRows(), 2))
	require.NoError(t, d.SetText("looks good"))

	steps, err := d.Start()
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, OpComment, steps[0].Op)
	assert.Equal(t, "looks good", steps[0].Label)
	assert.Equal(t, 3, steps[0].Remaining)
	assert.Equal(t, 1, steps[2].Remaining)
}

func TestApplyAgainstServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := apitest.NewServer(apitest.DefaultFilesets()...)
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()

	client, err := api.NewClient(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	ctx := context.Background()

	result, err := client.Listing(ctx, "")
	require.NoError(t, err)
	rows := result.Rows
	tagIndex := 3

	fake.FailOn(apitest.OpTag, 2, http.StatusInternalServerError)

	editor := NewEditor(rows, tagIndex)
	editor.QueueAdd("reviewed")
	editor.QueueRemove("calibrated")
	steps := PlanTags(rows, tagIndex, editor.ToAdd, editor.ToRemove)

	err = Apply(ctx, client, steps, func(s Step) {
		CommitTag(rows[s.RowIndex], tagIndex, s)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrHTTP)

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, models.ID("2"), applyErr.RowID)

	// row 1 fully updated, row 2 untouched, row 3 never called
	assert.ElementsMatch(t, []string{"outdoor", "reviewed"}, rows[0].Labels(tagIndex))
	assert.Equal(t, []string{"outdoor"}, rows[1].Labels(tagIndex))
	assert.ElementsMatch(t, []string{"calibrated", "indoor"}, rows[2].Labels(tagIndex))

	for _, call := range fake.Calls() {
		assert.NotEqual(t, "3", call.FilesetID)
	}
	fs3, _ := fake.Fileset(3)
	assert.Contains(t, fs3.Tags, "calibrated")
}
