package bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

func tagRow(id string, tags ...string) *models.Row {
	row := &models.Row{ID: models.ID(id), Columns: []*models.Column{
		{Name: "name", Value: id, Defined: true},
		{Name: "tags", List: true, Defined: true},
		{Name: "comment_count", Value: 0.0, Defined: true},
	}}
	row.SetLabels(1, tags)
	return row
}

func threeRows() []*models.Row {
	return []*models.Row{
		tagRow("1", "A", "B"),
		tagRow("2", "A"),
		tagRow("3", "A", "C"),
	}
}

func TestComputeDiff(t *testing.T) {
	diff := ComputeDiff(threeRows(), 1)

	assert.Equal(t, []string{"A"}, diff.Common)
	assert.Equal(t, []string{"B", "C"}, diff.Individual)
}

func TestComputeDiffEmpty(t *testing.T) {
	diff := ComputeDiff(nil, 1)
	assert.Empty(t, diff.Common)
	assert.Empty(t, diff.Individual)

	diff = ComputeDiff([]*models.Row{tagRow("1"), tagRow("2")}, 1)
	assert.Empty(t, diff.Common)
	assert.Empty(t, diff.Individual)
}

func TestQueueAdd(t *testing.T) {
	e := NewEditor(threeRows(), 1)

	e.QueueRemove("B")
	assert.Equal(t, []string{"B"}, e.ToRemove)

	e.QueueAdd("B")
	assert.Empty(t, e.ToRemove, "add must drop a queued removal")
	assert.Equal(t, []string{"B"}, e.ToAdd)

	e.QueueAdd("B")
	assert.Equal(t, []string{"B"}, e.ToAdd, "duplicate adds are no-ops")

	e.QueueAdd("A")
	assert.Equal(t, []string{"B"}, e.ToAdd, "common tags are never queued for addition")
}

func TestQueueRemoveAppendsDuplicates(t *testing.T) {
	e := NewEditor(threeRows(), 1)

	e.QueueAdd("D")
	e.QueueRemove("D")
	e.QueueRemove("D")

	assert.Empty(t, e.ToAdd)
	assert.Equal(t, []string{"D", "D"}, e.ToRemove)

	e.QueueAdd("D")
	assert.Empty(t, e.ToRemove, "add drops every queued removal of the tag")
}

func TestUnqueue(t *testing.T) {
	e := NewEditor(threeRows(), 1)
	e.QueueAdd("D")
	e.QueueRemove("C")
	e.QueueRemove("C")

	e.Unqueue("D")
	e.Unqueue("C")

	assert.False(t, e.Pending())
}

func TestMergedLists(t *testing.T) {
	e := NewEditor(threeRows(), 1)

	e.QueueRemove("A")
	e.QueueAdd("B")
	e.QueueAdd("D")

	assert.Equal(t, []string{"C"}, e.IndividualMerged())
	assert.Equal(t, []string{"B", "D"}, e.CommonMerged())
	assert.True(t, e.Pending())
}
