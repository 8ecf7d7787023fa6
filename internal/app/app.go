package app

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"

	"github.com/rebeliceyang/lazymarv/internal/api"
	"github.com/rebeliceyang/lazymarv/internal/bulk"
	"github.com/rebeliceyang/lazymarv/internal/config"
	"github.com/rebeliceyang/lazymarv/internal/export"
	"github.com/rebeliceyang/lazymarv/internal/filter"
	"github.com/rebeliceyang/lazymarv/internal/format"
	"github.com/rebeliceyang/lazymarv/internal/history"
	"github.com/rebeliceyang/lazymarv/internal/listing"
	"github.com/rebeliceyang/lazymarv/internal/models"
	"github.com/rebeliceyang/lazymarv/internal/savedfilters"
	"github.com/rebeliceyang/lazymarv/internal/ui/components"
	"github.com/rebeliceyang/lazymarv/internal/ui/help"
	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

const historyDialogLimit = 100

// Options carries the collaborators of the application
type Options struct {
	Client *api.Client
	// History is optional; nil disables filter history
	History *history.Store
	// Saved defaults to an in-memory manager
	Saved *savedfilters.Manager
	// Fs receives listing exports; defaults to the OS filesystem
	Fs afero.Fs
	// ExportDir is where listing exports are written; defaults to the working directory
	ExportDir string
	Logger    *slog.Logger
	// Token is the filter applied on startup
	Token string
}

// App is the main application model
type App struct {
	state      models.AppState
	config     *config.Config
	theme      theme.Theme
	leftPanel  components.Panel
	rightPanel components.Panel
	logger     *slog.Logger

	// Backend and persistence
	client    *api.Client
	history   *history.Store
	saved     *savedfilters.Manager
	fs        afero.Fs
	exportDir string
	registry  *format.Registry

	// Filter and listing
	filter        *filter.State
	filterBuilder *components.FilterBuilder
	listing       *listing.View
	tableView     *components.TableView
	requested     string
	knownTags     []string

	// Bulk operation in progress
	bulk          *bulk.Dialog
	tagDialog     *components.TagDialog
	commentDialog *components.CommentDialog

	// Dialogs
	detailView         *components.DetailView
	confirmDialog      *components.ConfirmDialog
	pendingDelete      models.ID
	showSavedFilters   bool
	savedFiltersDialog *components.SavedFiltersDialog
	showHistory        bool
	historyDialog      *components.HistoryDialog

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay
}

// New creates a new App instance with config
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	if opts.Client == nil {
		return nil, errors.New("app requires an api client")
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Saved == nil {
		saved, err := savedfilters.NewManager(afero.NewMemMapFs(), "/")
		if err != nil {
			return nil, err
		}
		opts.Saved = saved
	}

	state, err := filter.NewState(opts.Token)
	if err != nil {
		return nil, fmt.Errorf("invalid filter token: %w", err)
	}
	state.AutoUpdate = cfg.General.AutoUpdate

	th := theme.GetTheme(cfg.UI.Theme)
	registry := format.NewDefaultRegistry(format.Options{
		DateLayout: cfg.Listing.DateLayout,
		Location:   cfg.Listing.Location(),
	})

	view, err := listing.BuildView(nil, registry)
	if err != nil {
		return nil, err
	}
	view.SetPageSize(cfg.Listing.PageSize)

	tableView := components.NewTableView(th)
	tableView.SetListing(view)

	app := &App{
		state:              models.NewAppState(),
		config:             cfg,
		theme:              th,
		logger:             opts.Logger,
		client:             opts.Client,
		history:            opts.History,
		saved:              opts.Saved,
		fs:                 opts.Fs,
		exportDir:          opts.ExportDir,
		registry:           registry,
		filter:             state,
		filterBuilder:      components.NewFilterBuilder(th, state),
		listing:            view,
		tableView:          tableView,
		savedFiltersDialog: components.NewSavedFiltersDialog(th),
		historyDialog:      components.NewHistoryDialog(th),
		errorOverlay:       components.NewErrorOverlay(th),
		leftPanel: components.Panel{
			Title: "Filter",
			Style: lipgloss.NewStyle().BorderForeground(th.Border),
		},
		rightPanel: components.Panel{
			Title: "Filesets",
			Style: lipgloss.NewStyle().BorderForeground(th.BorderFocused),
		},
	}

	// Set initial panel dimensions and styles
	app.updatePanelDimensions()
	app.updatePanelStyles()

	return app, nil
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadWebConfig,
		a.loadTags,
		a.loadListing(a.filter.Applied),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()

	case ConfigChangedMsg:
		a.applyConfig(msg.Config)

	case WebConfigLoadedMsg:
		if msg.Err != nil {
			a.logger.Error("failed to load web config", "error", msg.Err)
			a.ShowError("Server Error", fmt.Sprintf("Failed to load filter fields:\n\n%v", msg.Err))
			return a, nil
		}
		a.filterBuilder.SetInputs(msg.Config.Inputs())

	case TagsLoadedMsg:
		if msg.Err != nil {
			a.logger.Warn("failed to load tags", "error", msg.Err)
			return a, nil
		}
		a.knownTags = msg.Tags

	case ListingLoadedMsg:
		return a, a.handleListing(msg)

	case DetailLoadedMsg:
		if msg.Err != nil {
			a.ShowError("Server Error", fmt.Sprintf("Failed to load fileset %s:\n\n%v", msg.ID, msg.Err))
			return a, nil
		}
		a.detailView = components.NewDetailView(a.theme, a.registry, msg.Detail, msg.Raw)
		a.state.ViewMode = models.DetailMode

	case FilesetDeletedMsg:
		if msg.Err != nil {
			a.ShowError("Delete Failed", fmt.Sprintf("Could not delete fileset %s:\n\n%v", msg.ID, msg.Err))
			return a, nil
		}
		a.logger.Info("fileset deleted", "fileset", msg.ID)
		a.state.Status = fmt.Sprintf("Deleted fileset %s", msg.ID)
		return a, a.loadListing(a.filter.Applied)

	case FileListMsg:
		if msg.Err != nil {
			a.ShowError("Download List Failed", msg.Err.Error())
			return a, nil
		}
		a.copyToClipboard(msg.Label, strings.Join(msg.Lines, "\n"))

	// Filter builder
	case components.ApplyFilterMsg:
		return a, a.loadListing(msg.Token)

	case components.CloseFilterBuilderMsg:
		a.state.FocusedPanel = models.RightPanel
		a.updatePanelStyles()

	// Bulk dialogs
	case components.StartBulkMsg:
		return a, a.startBulk()

	case BulkStepMsg:
		return a, a.handleBulkStep(msg)

	case components.CloseBulkDialogMsg:
		return a, a.closeBulk()

	// Detail view
	case components.CloseDetailMsg:
		a.detailView = nil
		a.state.ViewMode = models.NormalMode

	case components.CopyTextMsg:
		a.copyToClipboard(msg.Label, msg.Text)

	// Confirmation
	case components.ConfirmMsg:
		a.confirmDialog = nil
		if msg.Action == "delete" && msg.Confirmed && a.pendingDelete != "" {
			id := a.pendingDelete
			a.pendingDelete = ""
			return a, a.deleteFileset(id)
		}
		a.pendingDelete = ""

	// Saved filters
	case components.ApplySavedFilterMsg:
		a.showSavedFilters = false
		if err := a.saved.RecordUsage(msg.Filter.ID); err != nil {
			a.logger.Warn("failed to record saved filter usage", "id", msg.Filter.ID, "error", err)
		}
		return a, a.applyToken(msg.Filter.Token)

	case components.SaveFilterMsg:
		a.handleSaveFilter(msg)

	case components.DeleteSavedFilterMsg:
		if err := a.saved.Delete(msg.ID); err != nil {
			a.ShowError("Saved Filters", err.Error())
			return a, nil
		}
		a.savedFiltersDialog.SetFilters(a.saved.GetAll())

	case components.ExportSavedFiltersMsg:
		var path string
		var err error
		if msg.Format == "json" {
			path, err = a.saved.ExportToJSON()
		} else {
			path, err = a.saved.ExportToCSV()
		}
		if err != nil {
			a.ShowError("Export Failed", err.Error())
			return a, nil
		}
		a.state.Status = "Saved filters exported to " + path

	case components.CloseSavedFiltersDialogMsg:
		a.showSavedFilters = false

	// History
	case components.ApplyHistoryMsg:
		a.showHistory = false
		return a, a.applyToken(msg.Token)

	case components.SearchHistoryMsg:
		a.loadHistory(msg.Query)

	case components.CloseHistoryDialogMsg:
		a.showHistory = false
	}
	return a, nil
}

// handleKey routes a key to the topmost overlay, the global bindings or the focused panel
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle error overlay dismissal first if visible
	if a.showError {
		key := msg.String()
		if key == "esc" || key == "enter" {
			a.DismissError()
			return a, nil
		}
		// Allow quit keys to pass through even when error is showing
		if key == "q" || key == "ctrl+c" {
			return a, tea.Quit
		}
		// Consume all other keys when error is showing
		return a, nil
	}
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch {
	case a.confirmDialog != nil:
		a.confirmDialog, cmd = a.confirmDialog.Update(msg)
		return a, cmd
	case a.tagDialog != nil:
		a.tagDialog, cmd = a.tagDialog.Update(msg)
		return a, cmd
	case a.commentDialog != nil:
		a.commentDialog, cmd = a.commentDialog.Update(msg)
		return a, cmd
	case a.showSavedFilters:
		a.savedFiltersDialog, cmd = a.savedFiltersDialog.Update(msg)
		return a, cmd
	case a.showHistory:
		a.historyDialog, cmd = a.historyDialog.Update(msg)
		return a, cmd
	case a.state.ViewMode == models.HelpMode:
		switch msg.String() {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		}
		return a, nil
	case a.detailView != nil:
		a.detailView, cmd = a.detailView.Update(msg)
		return a, cmd
	case a.state.FocusedPanel == models.LeftPanel && a.filterBuilder.Editing():
		a.filterBuilder, cmd = a.filterBuilder.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "?":
		a.state.ViewMode = models.HelpMode
		return a, nil
	case "tab":
		if a.state.FocusedPanel == models.LeftPanel {
			a.state.FocusedPanel = models.RightPanel
		} else {
			a.state.FocusedPanel = models.LeftPanel
		}
		a.updatePanelStyles()
		return a, nil
	case "r", "f5":
		return a, a.loadListing(a.filter.Applied)
	case "y":
		a.copyToClipboard("filter token", a.filter.Applied)
		return a, nil
	case "ctrl+s":
		a.savedFiltersDialog.SetFilters(a.saved.GetAll())
		a.savedFiltersDialog.StartAdd(filter.Describe(a.filter.Root))
		a.showSavedFilters = true
		return a, nil
	case "ctrl+o":
		a.savedFiltersDialog.SetFilters(a.saved.GetAll())
		a.showSavedFilters = true
		return a, nil
	case "H":
		if a.history == nil {
			a.state.Status = "Filter history is disabled"
			return a, nil
		}
		a.loadHistory("")
		a.showHistory = true
		return a, nil
	}

	if a.state.FocusedPanel == models.LeftPanel {
		a.filterBuilder, cmd = a.filterBuilder.Update(msg)
		return a, cmd
	}
	return a, a.handleListingKey(msg)
}

// handleListingKey handles keys while the listing panel is focused
func (a *App) handleListingKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		a.tableView.MoveSelection(-1)
	case "down", "j":
		a.tableView.MoveSelection(1)
	case "ctrl+u":
		a.tableView.PageUp()
	case "ctrl+d":
		a.tableView.PageDown()
	case "left", "h":
		a.tableView.MoveColumn(-1)
	case "right", "l":
		a.tableView.MoveColumn(1)
	case "s":
		a.tableView.SortByColumn()
	case "[":
		a.tableView.PrevPage()
	case "]":
		a.tableView.NextPage()
	case "v":
		a.state.SelectMode = !a.state.SelectMode
		a.tableView.SelectMode = a.state.SelectMode
		if !a.state.SelectMode {
			a.listing.ClearSelection()
		}
	case " ":
		if a.state.SelectMode {
			a.tableView.ToggleCurrent()
		}
	case "a":
		if a.state.SelectMode {
			a.tableView.ToggleAll()
		}
	case "enter":
		if row := a.tableView.Current(); row != nil {
			return a.loadDetail(row.ID)
		}
	case "t":
		if len(a.targetRows()) > 0 {
			return a.openTagDialog()
		}
	case "c":
		if len(a.targetRows()) > 0 {
			return a.openCommentDialog()
		}
	case "D":
		return a.confirmDelete()
	case "e":
		a.exportListing("csv")
	case "E":
		a.exportListing("xlsx")
	case "f", "F":
		rows := a.targetRows()
		if len(rows) == 0 {
			return nil
		}
		ids := make([]models.ID, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}
		a.state.Status = fmt.Sprintf("Collecting files of %d filesets…", len(ids))
		return a.buildFileList(ids, msg.String() == "F")
	}
	return nil
}

// handleListing installs a loaded listing and records it in the history
func (a *App) handleListing(msg ListingLoadedMsg) tea.Cmd {
	if msg.Token != a.requested {
		a.logger.Debug("dropping superseded listing", "token", msg.Token)
		return nil
	}
	a.state.Loading = false
	a.recordHistory(msg)

	if msg.Err != nil {
		a.logger.Error("listing failed", "token", msg.Token, "error", msg.Err)
		a.ShowError("Server Error", fmt.Sprintf("Failed to load filesets:\n\n%v", msg.Err))
		return nil
	}
	if err := a.listing.Load(msg.Result); err != nil {
		a.ShowError("Listing Error", err.Error())
		return nil
	}
	a.tableView.Reset()
	a.state.Status = fmt.Sprintf("%d filesets in %s", a.listing.Len(), msg.Duration.Round(time.Millisecond))
	a.logger.Debug("listing loaded", "rows", a.listing.Len(), "duration", msg.Duration)
	return nil
}

// recordHistory stores an applied filter when history is enabled
func (a *App) recordHistory(msg ListingLoadedMsg) {
	if a.history == nil || !a.config.History.Enabled {
		return
	}
	entry := history.Entry{
		Token:       msg.Token,
		Description: describeToken(msg.Token),
		Duration:    msg.Duration,
		Success:     msg.Err == nil,
	}
	if msg.Err != nil {
		entry.ErrorMessage = msg.Err.Error()
	} else if msg.Result != nil {
		entry.RowCount = len(msg.Result.Rows)
	}
	if err := a.history.Add(entry); err != nil {
		a.logger.Warn("failed to record filter history", "error", err)
		return
	}
	if limit := a.config.History.MaxEntries; limit > 0 {
		if _, err := a.history.Prune(limit); err != nil {
			a.logger.Warn("failed to prune filter history", "error", err)
		}
	}
}

// loadHistory fills the history dialog, searching when query is set
func (a *App) loadHistory(query string) {
	var entries []history.Entry
	var err error
	if query == "" {
		entries, err = a.history.GetRecent(historyDialogLimit)
	} else {
		entries, err = a.history.Search(query, historyDialogLimit)
	}
	if err != nil {
		a.ShowError("History Error", err.Error())
		return
	}
	a.historyDialog.SetEntries(entries)
}

// applyToken loads a saved or historic token into the builder and applies it
func (a *App) applyToken(token string) tea.Cmd {
	if err := a.filterBuilder.Load(token); err != nil {
		a.ShowError("Invalid Filter", err.Error())
		return nil
	}
	a.filter.Apply()
	return a.loadListing(a.filter.Applied)
}

// handleSaveFilter adds the current filter or updates an existing entry
func (a *App) handleSaveFilter(msg components.SaveFilterMsg) {
	if msg.ID == "" {
		sf, err := a.saved.Add(msg.Name, msg.Description, a.filter.Pending, msg.Tags)
		if err != nil {
			a.ShowError("Save Failed", err.Error())
			return
		}
		a.state.Status = fmt.Sprintf("Saved filter %q", sf.Name)
	} else {
		existing, err := a.saved.Get(msg.ID)
		if err != nil {
			a.ShowError("Save Failed", err.Error())
			return
		}
		if err := a.saved.Update(msg.ID, msg.Name, msg.Description, existing.Token, msg.Tags); err != nil {
			a.ShowError("Save Failed", err.Error())
			return
		}
	}
	a.savedFiltersDialog.SetFilters(a.saved.GetAll())
}

// confirmDelete deletes the fileset under the cursor, asking first when configured
func (a *App) confirmDelete() tea.Cmd {
	row := a.tableView.Current()
	if row == nil {
		return nil
	}
	if !a.config.General.ConfirmDestructiveOps {
		return a.deleteFileset(row.ID)
	}
	a.pendingDelete = row.ID
	name := row.ID.String()
	if idx := a.listing.ColumnIndex("name"); idx >= 0 {
		if col := row.Column(idx); col != nil && col.Formatted != "" {
			name = col.Formatted
		}
	}
	a.confirmDialog = components.NewConfirmDialog(a.theme, "delete",
		"Delete this fileset and all of its files?",
		name, "This cannot be undone.")
	return nil
}

// exportListing writes the sorted listing to a timestamped file in the export directory
func (a *App) exportListing(ext string) {
	if err := a.fs.MkdirAll(a.exportDir, 0755); err != nil {
		a.ShowError("Export Failed", err.Error())
		return
	}
	name := fmt.Sprintf("lazymarv-%s.%s", time.Now().Format("20060102-150405"), ext)
	path := filepath.Join(a.exportDir, name)
	if err := export.Listing(a.fs, path, a.listing); err != nil {
		a.ShowError("Export Failed", err.Error())
		return
	}
	a.logger.Info("listing exported", "path", path, "rows", a.listing.Len())
	a.state.Status = fmt.Sprintf("Exported %d filesets to %s", a.listing.Len(), path)
}

// copyToClipboard puts text on the system clipboard and reports it in the status bar
func (a *App) copyToClipboard(label, text string) {
	if err := clipboard.WriteAll(text); err != nil {
		a.logger.Warn("clipboard unavailable", "error", err)
		a.state.Status = "Clipboard unavailable: " + err.Error()
		return
	}
	a.state.Status = "Copied " + label
}

// applyConfig picks up settings that can change while running
func (a *App) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.config = cfg
	a.filter.AutoUpdate = cfg.General.AutoUpdate
	a.listing.SetPageSize(cfg.Listing.PageSize)
	a.tableView.Reset()

	th := theme.GetTheme(cfg.UI.Theme)
	a.theme = th
	a.tableView.Theme = th
	a.filterBuilder.Theme = th
	a.savedFiltersDialog.Theme = th
	a.historyDialog.Theme = th
	a.errorOverlay.Theme = th
	a.updatePanelStyles()
	a.logger.Info("configuration reloaded")
}

// View implements tea.Model
func (a *App) View() string {
	// If error overlay is showing, render it centered on top of everything
	if a.showError {
		return a.place(a.errorOverlay.View())
	}

	switch {
	case a.confirmDialog != nil:
		return a.place(a.confirmDialog.View())
	case a.tagDialog != nil:
		return a.place(a.tagDialog.View())
	case a.commentDialog != nil:
		return a.place(a.commentDialog.View())
	case a.showSavedFilters:
		a.savedFiltersDialog.Width = min(80, a.state.Width-4)
		a.savedFiltersDialog.Height = min(30, a.state.Height-4)
		return a.place(a.savedFiltersDialog.View())
	case a.showHistory:
		a.historyDialog.Width = min(90, a.state.Width-4)
		a.historyDialog.Height = min(30, a.state.Height-4)
		return a.place(a.historyDialog.View())
	}

	// If in help mode, show help overlay
	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, lipgloss.NewStyle())
	}

	return a.renderNormalView()
}

// place centers a dialog on the screen
func (a *App) place(content string) string {
	return lipgloss.Place(
		a.state.Width, a.state.Height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// renderNormalView renders the filter and listing panels
func (a *App) renderNormalView() string {
	topBarLeft := "lazymarv  " + a.client.BaseURL()
	topBarRight := describeToken(a.filter.Applied)
	if a.state.Loading {
		topBarRight = "loading… " + topBarRight
	}
	topBarContent := a.formatStatusBar(topBarLeft, topBarRight)

	// Top bar with theme colors
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(topBarContent)

	bottomBarLeft := a.state.Status
	bottomBarRight := "[tab] Switch panel | [?] Help | [q] Quit"
	bottomBarContent := a.formatStatusBar(bottomBarLeft, bottomBarRight)

	// Bottom bar with theme colors
	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(bottomBarContent)

	a.filterBuilder.Width = a.leftPanel.Width
	a.filterBuilder.Height = a.leftPanel.InnerHeight()
	a.leftPanel.Content = a.filterBuilder.View()

	if a.detailView != nil {
		a.rightPanel.Title = "Fileset"
		a.detailView.Width = a.rightPanel.Width
		a.detailView.Height = a.rightPanel.InnerHeight()
		a.rightPanel.Content = a.detailView.View()
	} else {
		a.rightPanel.Title = "Filesets"
		a.tableView.Width = a.rightPanel.Width
		a.tableView.Height = a.rightPanel.InnerHeight()
		a.rightPanel.Content = a.tableView.View()
	}

	// Panels side by side
	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.leftPanel.View(),
		a.rightPanel.View(),
	)

	// Combine all
	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		panels,
		bottomBar,
	)
}

// updatePanelDimensions calculates panel sizes based on window size
func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// Reserve space for top bar (1 line) and bottom bar (1 line) plus the panel borders
	contentHeight := a.state.Height - 4
	if contentHeight < 5 {
		contentHeight = 5
	}

	leftWidth := (a.state.Width * a.state.LeftPanelWidth) / 100
	if leftWidth < 30 {
		leftWidth = 30
	}

	// Subtract 4 to account for borders on both panels (2 chars each)
	rightWidth := a.state.Width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
		leftWidth = a.state.Width - rightWidth - 4
	}

	a.leftPanel.Width = leftWidth
	a.leftPanel.Height = contentHeight
	a.rightPanel.Width = rightWidth
	a.rightPanel.Height = contentHeight
}

// updatePanelStyles updates panel styling based on focus
func (a *App) updatePanelStyles() {
	if a.state.FocusedPanel == models.LeftPanel {
		a.leftPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.BorderFocused)
		a.rightPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.Border)
	} else {
		a.leftPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.Border)
		a.rightPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.BorderFocused)
	}
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)

	// If content is too wide, drop the right side first, then cut the left
	if leftLen+rightLen+1 > availableWidth {
		if leftLen+1 < availableWidth {
			right = truncate(right, availableWidth-leftLen-1)
			rightLen = lipgloss.Width(right)
		} else {
			return truncate(left, availableWidth)
		}
	}

	spacing := availableWidth - leftLen - rightLen
	if spacing < 0 {
		spacing = 0
	}

	return left + strings.Repeat(" ", spacing) + right
}

// truncate shortens s to width cells, ending in an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
