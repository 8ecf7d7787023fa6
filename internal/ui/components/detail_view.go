package components

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymarv/internal/detail"
	"github.com/rebeliceyang/lazymarv/internal/format"
	"github.com/rebeliceyang/lazymarv/internal/listing"
	"github.com/rebeliceyang/lazymarv/internal/models"
	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

// CloseDetailMsg is sent when the detail view should close
type CloseDetailMsg struct{}

// CopyTextMsg asks the app to put text on the clipboard
type CopyTextMsg struct {
	Label string
	Text  string
}

// DetailView shows the detail record of one fileset
type DetailView struct {
	Width  int
	Height int
	Theme  theme.Theme

	Detail *models.FilesetDetail
	Raw    json.RawMessage

	registry *format.Registry
	lines    []string
	offset   int

	// JSONPath query
	querying    bool
	query       textinput.Model
	queryResult string
	queryErr    string
	showPaths   bool
}

// NewDetailView creates a detail view for a loaded record
func NewDetailView(th theme.Theme, registry *format.Registry, d *models.FilesetDetail, raw json.RawMessage) *DetailView {
	ti := textinput.New()
	ti.Placeholder = "$.widgets[*].title"
	ti.CharLimit = 256
	ti.Width = 50

	return &DetailView{
		Width:    80,
		Height:   30,
		Theme:    th,
		Detail:   d,
		Raw:      raw,
		registry: registry,
		query:    ti,
	}
}

// Querying reports whether the JSONPath input has focus
func (dv *DetailView) Querying() bool {
	return dv.querying
}

// Update handles keyboard input
func (dv *DetailView) Update(msg tea.KeyMsg) (*DetailView, tea.Cmd) {
	if dv.querying {
		switch msg.String() {
		case "esc":
			dv.querying = false
			dv.query.Blur()
			return dv, nil
		case "enter":
			dv.runQuery()
			return dv, nil
		}
		var cmd tea.Cmd
		dv.query, cmd = dv.query.Update(msg)
		return dv, cmd
	}

	switch msg.String() {
	case "esc", "q":
		return dv, func() tea.Msg { return CloseDetailMsg{} }
	case "up", "k":
		dv.scroll(-1)
	case "down", "j":
		dv.scroll(1)
	case "pgup", "ctrl+u":
		dv.scroll(-dv.bodyHeight())
	case "pgdown", "ctrl+d":
		dv.scroll(dv.bodyHeight())
	case "g":
		dv.offset = 0
	case "G":
		dv.scroll(len(dv.lines))
	case "/":
		dv.querying = true
		dv.query.Focus()
	case "p":
		dv.showPaths = !dv.showPaths
		dv.offset = 0
	case "y":
		if dv.queryResult != "" {
			text := dv.queryResult
			return dv, func() tea.Msg { return CopyTextMsg{Label: "query result", Text: text} }
		}
		text, err := detail.Format(dv.Raw)
		if err != nil {
			dv.queryErr = err.Error()
			return dv, nil
		}
		return dv, func() tea.Msg { return CopyTextMsg{Label: "detail JSON", Text: text} }
	}
	return dv, nil
}

func (dv *DetailView) runQuery() {
	dv.queryResult = ""
	dv.queryErr = ""
	expr := strings.TrimSpace(dv.query.Value())
	if expr == "" {
		return
	}
	result, err := detail.QueryString(dv.Raw, expr)
	if err != nil {
		dv.queryErr = err.Error()
		return
	}
	dv.queryResult = result
}

func (dv *DetailView) bodyHeight() int {
	h := dv.Height - 4
	if dv.querying || dv.queryResult != "" || dv.queryErr != "" {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (dv *DetailView) scroll(delta int) {
	dv.offset += delta
	if limit := len(dv.lines) - dv.bodyHeight(); dv.offset > limit {
		dv.offset = limit
	}
	if dv.offset < 0 {
		dv.offset = 0
	}
}

// render builds the full body before scrolling
func (dv *DetailView) render() []string {
	if dv.showPaths {
		var lines []string
		for _, p := range detail.Paths(dv.Raw) {
			lines = append(lines, lipgloss.NewStyle().Foreground(dv.Theme.JSONKey).Render(p.String()))
		}
		return lines
	}

	d := dv.Detail
	heading := lipgloss.NewStyle().Bold(true).Foreground(dv.Theme.TableHeader)
	muted := lipgloss.NewStyle().Foreground(dv.Theme.Muted)

	var sections []string
	sections = append(sections, muted.Render(fmt.Sprintf("%s #%s", d.Type, d.ID)))

	// Tags
	sections = append(sections, "", heading.Render("Tags"))
	if len(d.Tags) == 0 {
		sections = append(sections, muted.Render("  none"))
	} else {
		pill := lipgloss.NewStyle().Foreground(dv.Theme.PillText).Background(dv.Theme.Pill)
		var pills []string
		for _, label := range d.TagLabels() {
			pills = append(pills, pill.Render(" "+label+" "))
		}
		sections = append(sections, "  "+strings.Join(pills, " "))
	}

	// Comments
	sections = append(sections, "", heading.Render(fmt.Sprintf("Comments (%d)", len(d.Comments))))
	date, _ := dv.registry.Lookup("date")
	for _, c := range d.Comments {
		when := fmt.Sprint(c.Timestamp)
		if date != nil {
			when = date(float64(c.Timestamp))
		}
		sections = append(sections, fmt.Sprintf("  %s %s", lipgloss.NewStyle().Bold(true).Render(c.Author.Username), muted.Render(when)))
		for _, line := range strings.Split(c.Text, "\n") {
			sections = append(sections, "    "+line)
		}
	}

	// Widgets
	widgets, err := detail.Sections(d)
	if err != nil {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(dv.Theme.Error).Render(err.Error()))
	}
	for _, s := range widgets {
		title := s.Title
		if title == "" {
			title = s.Kind
		}
		sections = append(sections, "", heading.Render(title))
		switch s.Kind {
		case detail.KindTable, detail.KindRow:
			sections = append(sections, dv.renderTable(s.Result))
		case detail.KindJSON:
			sections = append(sections, lipgloss.NewStyle().Foreground(dv.Theme.JSONString).Render(s.Text))
		default:
			sections = append(sections, s.Text)
		}
	}

	return strings.Split(strings.Join(sections, "\n"), "\n")
}

// renderTable renders a widget table through the listing engine
func (dv *DetailView) renderTable(result *models.ListingResult) string {
	v, err := listing.BuildView(result, dv.registry)
	if err != nil {
		return lipgloss.NewStyle().Foreground(dv.Theme.Error).Render(err.Error())
	}
	tv := NewTableView(dv.Theme)
	tv.ShowCursor = false
	tv.SetListing(v)
	tv.Width = dv.Width - 4
	tv.Height = v.Len() + 3
	return tv.View()
}

// View renders the detail view
func (dv *DetailView) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(dv.Theme.Foreground).
		Background(dv.Theme.Info).
		Padding(0, 1).
		Bold(true)
	title := dv.Detail.Name
	if dv.showPaths {
		title += " (paths)"
	}
	sections = append(sections, titleStyle.Render(title))

	instrStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")).
		Padding(0, 1)
	if dv.querying {
		sections = append(sections, instrStyle.Render("Enter: run JSONPath  Esc: stop querying"))
	} else {
		sections = append(sections, instrStyle.Render("↑↓: Scroll  /: JSONPath  p: Paths  y: Copy  Esc: Back"))
	}

	dv.lines = dv.render()
	dv.scroll(0)
	end := dv.offset + dv.bodyHeight()
	if end > len(dv.lines) {
		end = len(dv.lines)
	}
	sections = append(sections, strings.Join(dv.lines[dv.offset:end], "\n"))

	if dv.querying || dv.queryResult != "" || dv.queryErr != "" {
		sections = append(sections, "", dv.query.View())
		switch {
		case dv.queryErr != "":
			sections = append(sections, lipgloss.NewStyle().Foreground(dv.Theme.Error).Render(dv.queryErr))
		case dv.queryResult != "":
			sections = append(sections, lipgloss.NewStyle().Foreground(dv.Theme.JSONString).
				Render(detail.Truncate(dv.queryResult, dv.Width*2)))
		}
	}

	return strings.Join(sections, "\n")
}
