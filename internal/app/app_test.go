package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazymarv/internal/api"
	"github.com/rebeliceyang/lazymarv/internal/api/apitest"
	"github.com/rebeliceyang/lazymarv/internal/config"
	"github.com/rebeliceyang/lazymarv/internal/filter"
	"github.com/rebeliceyang/lazymarv/internal/history"
	"github.com/rebeliceyang/lazymarv/internal/models"
	"github.com/rebeliceyang/lazymarv/internal/ui/components"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) (*App, *apitest.Server) {
	t.Helper()
	fake := apitest.NewServer(apitest.DefaultFilesets()...)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)

	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	a, err := New(config.GetDefaults(), Options{
		Client:    client,
		History:   store,
		Fs:        afero.NewMemMapFs(),
		ExportDir: "/exports",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	run(t, a, a.Init())
	return a, fake
}

// run executes cmd and every command its messages produce until the chain settles
func run(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 200, "command chain did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		_, cmd := a.Update(msg)
		queue = append(queue, cmd)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := a.Update(key(k))
		run(t, a, cmd)
	}
}

func rowIDs(rows []*models.Row) []models.ID {
	ids := make([]models.ID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestInitLoadsListing(t *testing.T) {
	a, _ := newTestApp(t)

	require.Equal(t, 3, a.listing.Len())
	// server sort: endtime descending
	assert.Equal(t, []models.ID{"3", "2", "1"}, rowIDs(a.listing.Sorted()))
	assert.ElementsMatch(t, []string{"calibrated", "indoor", "outdoor"}, a.knownTags)
	assert.False(t, a.state.Loading)
	assert.Contains(t, a.state.Status, "3 filesets")
}

func TestListingIsRecordedInHistory(t *testing.T) {
	a, _ := newTestApp(t)

	entries, err := a.history.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].RowCount)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "no filter", entries[0].Description)
}

func TestSupersededListingIsDropped(t *testing.T) {
	a, _ := newTestApp(t)

	a.requested = "newer"
	a.Update(ListingLoadedMsg{Token: "older", Result: &models.ListingResult{}})
	assert.Equal(t, 3, a.listing.Len())
}

func TestBulkTagCheckedRows(t *testing.T) {
	a, fake := newTestApp(t)

	press(t, a, "v", "a", "t")
	require.NotNil(t, a.tagDialog)
	assert.Empty(t, a.bulk.Editor.Common)
	assert.Equal(t, []string{"calibrated", "indoor", "outdoor"}, a.bulk.Editor.Individual)
	require.NoError(t, a.bulk.QueueAdd("reviewed"))

	press(t, a, "ctrl+s")

	assert.Nil(t, a.tagDialog)
	assert.Nil(t, a.bulk)
	for _, id := range []int64{1, 2, 3} {
		fs, ok := fake.Fileset(id)
		require.True(t, ok)
		assert.Contains(t, fs.Tags, "reviewed", "fileset %d", id)
	}
	assert.Len(t, fake.Calls(), 3)

	// reloaded listing shows the new tag
	idx := a.listing.ColumnIndex(tagsColumn)
	for _, row := range a.listing.Rows {
		assert.Contains(t, row.Labels(idx), "reviewed")
	}
}

func TestBulkStopsAtFirstFailure(t *testing.T) {
	a, fake := newTestApp(t)
	fake.FailOn(apitest.OpTag, 2, http.StatusInternalServerError)

	press(t, a, "v", "a", "t")
	require.NoError(t, a.bulk.QueueAdd("reviewed"))
	press(t, a, "ctrl+s")

	// dialog stays open with the error; fileset 1 was never attempted
	require.NotNil(t, a.tagDialog)
	require.Error(t, a.bulk.Err)
	fs1, _ := fake.Fileset(1)
	fs3, _ := fake.Fileset(3)
	assert.NotContains(t, fs1.Tags, "reviewed")
	assert.Contains(t, fs3.Tags, "reviewed")

	// the committed row already shows the tag
	row := a.listing.RowByID("3")
	assert.Contains(t, row.Labels(a.listing.ColumnIndex(tagsColumn)), "reviewed")

	press(t, a, "esc")
	assert.Nil(t, a.tagDialog)
	assert.Nil(t, a.bulk)
}

func TestBulkResultForRemovedRowIsDropped(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, "v", "a", "t")
	require.NoError(t, a.bulk.QueueAdd("reviewed"))
	steps, err := a.bulk.Start()
	require.NoError(t, err)
	generation := a.listing.Generation()

	// the listing is replaced by one without the first row while the step runs
	result := &models.ListingResult{}
	for _, row := range a.listing.Rows {
		if row.ID != steps[0].RowID {
			result.Rows = append(result.Rows, row)
		}
	}
	require.NoError(t, a.listing.Load(result))

	cmd := a.handleBulkStep(BulkStepMsg{Generation: generation, Step: steps[0]})
	assert.Nil(t, a.listing.RowByID(steps[0].RowID))
	assert.NotNil(t, cmd, "the next step still runs")
	assert.Equal(t, 1, a.bulk.Next)
}

func TestBulkResultAfterReloadIsNotCommittedTwice(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, "c")
	require.NotNil(t, a.commentDialog)
	require.NoError(t, a.bulk.SetText("looks good"))
	steps, err := a.bulk.Start()
	require.NoError(t, err)
	require.Len(t, steps, 1)
	generation := a.listing.Generation()
	countIndex := a.bulk.CountIndex

	// a reload with the same filesets lands while the comment is created
	require.NoError(t, a.listing.Load(&models.ListingResult{Rows: a.listing.Rows}))
	row := a.listing.RowByID(steps[0].RowID)
	require.NotNil(t, row)
	before := row.Column(countIndex).Value

	a.handleBulkStep(BulkStepMsg{Generation: generation, Step: steps[0]})
	assert.Equal(t, before, row.Column(countIndex).Value)
}

func TestBulkComment(t *testing.T) {
	a, fake := newTestApp(t)

	press(t, a, "c")
	require.NotNil(t, a.commentDialog)
	require.NoError(t, a.bulk.SetText("looks good"))
	_, cmd := a.Update(components.StartBulkMsg{})
	run(t, a, cmd)

	assert.Nil(t, a.commentDialog)
	// the cursor row is the first in display order
	fs, _ := fake.Fileset(3)
	require.Len(t, fs.Comments, 1)
	assert.Equal(t, "looks good", fs.Comments[0].Text)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	a, fake := newTestApp(t)

	press(t, a, "D")
	require.NotNil(t, a.confirmDialog)
	assert.Equal(t, models.ID("3"), a.pendingDelete)

	press(t, a, "n")
	assert.Nil(t, a.confirmDialog)
	assert.Empty(t, fake.Calls())

	press(t, a, "D", "y")
	assert.Nil(t, a.confirmDialog)
	assert.Equal(t, 2, a.listing.Len())
	assert.Nil(t, a.listing.RowByID("3"))
}

func TestDetailOpensAndCloses(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, "enter")
	require.NotNil(t, a.detailView)
	assert.Equal(t, models.DetailMode, a.state.ViewMode)
	assert.Contains(t, a.View(), "lab_2015-10-05.bag")

	press(t, a, "esc")
	assert.Nil(t, a.detailView)
	assert.Equal(t, models.NormalMode, a.state.ViewMode)
}

func TestExportListing(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, "e")
	files, err := afero.Glob(a.fs, "/exports/lazymarv-*.csv")
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := afero.ReadFile(a.fs, files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "lab_2015-10-05.bag")
}

func TestSaveAndApplySavedFilter(t *testing.T) {
	a, _ := newTestApp(t)

	root, err := filter.UnmarshalJSON([]byte(`{"name":"tags","op":"has","val":"indoor"}`))
	require.NoError(t, err)
	token, err := filter.Encode(root)
	require.NoError(t, err)
	require.NoError(t, a.filterBuilder.Load(token))

	press(t, a, "ctrl+s")
	require.True(t, a.showSavedFilters)
	_, cmd := a.Update(components.SaveFilterMsg{Name: "indoor bags", Tags: []string{"bags"}})
	run(t, a, cmd)
	require.Len(t, a.saved.GetAll(), 1)
	sf := a.saved.GetAll()[0]
	assert.Equal(t, token, sf.Token)
	assert.Equal(t, 3, a.listing.Len(), "saving does not apply")

	_, cmd = a.Update(components.ApplySavedFilterMsg{Filter: sf})
	run(t, a, cmd)
	assert.False(t, a.showSavedFilters)
	assert.Equal(t, token, a.filter.Applied)
	assert.Equal(t, []models.ID{"3"}, rowIDs(a.listing.Sorted()))

	got, err := a.saved.Get(sf.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsageCount)
}

func TestErrorOverlayConsumesKeys(t *testing.T) {
	a, _ := newTestApp(t)

	a.Update(ErrorMsg{Title: "Boom", Message: "it broke"})
	require.True(t, a.showError)
	assert.Contains(t, a.View(), "it broke")

	press(t, a, "t")
	assert.Nil(t, a.tagDialog)

	press(t, a, "esc")
	assert.False(t, a.showError)
}

func TestFormatStatusBar(t *testing.T) {
	a, _ := newTestApp(t)
	a.state.Width = 24

	bar := a.formatStatusBar("left", "right")
	assert.Equal(t, 20, len(bar))
	assert.Equal(t, "left", bar[:4])
	assert.Equal(t, "right", bar[15:])

	bar = a.formatStatusBar("a rather long status line", "right")
	assert.Equal(t, "a rather long statu…", bar)
}
