package app

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazymarv/internal/config"
	"github.com/rebeliceyang/lazymarv/internal/export"
	"github.com/rebeliceyang/lazymarv/internal/filter"
	"github.com/rebeliceyang/lazymarv/internal/models"
)

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// WebConfigLoadedMsg is sent when the server's filter inputs are loaded
type WebConfigLoadedMsg struct {
	Config *models.WebConfig
	Err    error
}

// TagsLoadedMsg is sent when the known tag labels are loaded
type TagsLoadedMsg struct {
	Tags []string
	Err  error
}

// ListingLoadedMsg is sent when the listing for a filter token is loaded
type ListingLoadedMsg struct {
	Token    string
	Result   *models.ListingResult
	Duration time.Duration
	Err      error
}

// DetailLoadedMsg is sent when a fileset detail record is loaded
type DetailLoadedMsg struct {
	ID     models.ID
	Detail *models.FilesetDetail
	Raw    json.RawMessage
	Err    error
}

// FilesetDeletedMsg is sent when a fileset was deleted
type FilesetDeletedMsg struct {
	ID  models.ID
	Err error
}

// FileListMsg carries a download list built for the checked filesets
type FileListMsg struct {
	Label string
	Lines []string
	Err   error
}

// ConfigChangedMsg is sent when the config file was edited on disk
type ConfigChangedMsg struct {
	Config *config.Config
}

// tokenJSON converts a filter token into the JSON the listing endpoint expects
func tokenJSON(token string) (string, error) {
	root, err := filter.Decode(token)
	if err != nil {
		return "", err
	}
	data, err := filter.MarshalJSON(root)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// describeToken renders a token as a readable filter expression
func describeToken(token string) string {
	root, err := filter.Decode(token)
	if err != nil {
		return token
	}
	return filter.Describe(root)
}

// loadWebConfig fetches the filter inputs advertised by the server
func (a *App) loadWebConfig() tea.Msg {
	cfg, err := a.client.WebConfig(context.Background())
	return WebConfigLoadedMsg{Config: cfg, Err: err}
}

// loadTags fetches every tag label known to the server
func (a *App) loadTags() tea.Msg {
	tags, err := a.client.Tags(context.Background())
	return TagsLoadedMsg{Tags: tags, Err: err}
}

// loadListing requests the listing for token; older requests in flight are superseded
func (a *App) loadListing(token string) tea.Cmd {
	a.requested = token
	a.state.Loading = true
	client := a.client
	return func() tea.Msg {
		filterJSON, err := tokenJSON(token)
		if err != nil {
			return ListingLoadedMsg{Token: token, Err: err}
		}
		start := time.Now()
		result, err := client.Listing(context.Background(), filterJSON)
		return ListingLoadedMsg{
			Token:    token,
			Result:   result,
			Duration: time.Since(start),
			Err:      err,
		}
	}
}

// loadDetail fetches the detail record of one fileset
func (a *App) loadDetail(id models.ID) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		d, raw, err := client.FilesetDetail(context.Background(), id)
		return DetailLoadedMsg{ID: id, Detail: d, Raw: raw, Err: err}
	}
}

// deleteFileset removes a fileset on the server
func (a *App) deleteFileset(id models.ID) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		err := client.DeleteFileset(context.Background(), id)
		return FilesetDeletedMsg{ID: id, Err: err}
	}
}

// buildFileList fetches the files of ids and renders them as local paths or download URLs
func (a *App) buildFileList(ids []models.ID, urls bool) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		sets, err := client.FetchFiles(context.Background(), ids)
		if err != nil {
			return FileListMsg{Err: err}
		}
		if urls {
			lines, err := export.URLList(sets, client.BaseURL())
			return FileListMsg{Label: "download URLs", Lines: lines, Err: err}
		}
		lines, err := export.FileList(sets)
		return FileListMsg{Label: "file list", Lines: lines, Err: err}
	}
}
