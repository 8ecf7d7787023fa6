package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymarv/internal/filter"
	"github.com/rebeliceyang/lazymarv/internal/format"
	"github.com/rebeliceyang/lazymarv/internal/models"
	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

// ApplyFilterMsg is sent when a filter token should be applied to the listing
type ApplyFilterMsg struct {
	Token string
}

// CloseFilterBuilderMsg is sent when the filter builder gives up focus
type CloseFilterBuilderMsg struct{}

// filterLine is one rendered node of the tree
type filterLine struct {
	node  *models.FilterNode
	depth int
}

// FilterBuilder edits the filter expression tree
type FilterBuilder struct {
	Width  int
	Height int
	Theme  theme.Theme
	State  *filter.State

	// State
	inputs          []models.FilterInput
	lines           []filterLine
	currentIndex    int
	editMode        string // "", "value"
	valueInput      textinput.Model
	validationError string
}

// NewFilterBuilder creates a filter builder over state
func NewFilterBuilder(th theme.Theme, state *filter.State) *FilterBuilder {
	ti := textinput.New()
	ti.Placeholder = "value (comma separated for in/any)"
	ti.CharLimit = 256
	ti.Width = 40

	fb := &FilterBuilder{
		Width:      40,
		Height:     20,
		Theme:      th,
		State:      state,
		valueInput: ti,
	}
	fb.refresh()
	return fb
}

// SetInputs updates the filterable fields advertised by the server
func (fb *FilterBuilder) SetInputs(inputs []models.FilterInput) {
	fb.inputs = inputs
}

// Editing reports whether the value input has focus
func (fb *FilterBuilder) Editing() bool {
	return fb.editMode != ""
}

// Selected returns the node under the cursor
func (fb *FilterBuilder) Selected() *models.FilterNode {
	if fb.currentIndex < 0 || fb.currentIndex >= len(fb.lines) {
		return nil
	}
	return fb.lines[fb.currentIndex].node
}

// Load replaces the tree with a saved or historic token
func (fb *FilterBuilder) Load(token string) error {
	if err := fb.State.Load(token); err != nil {
		return err
	}
	fb.currentIndex = 0
	fb.refresh()
	return nil
}

// refresh rebuilds the flat line list after the tree changed
func (fb *FilterBuilder) refresh() {
	fb.lines = fb.lines[:0]
	if fb.State.Root != nil && !fb.State.Root.IsEmpty() {
		filter.Walk(fb.State.Root, func(n *models.FilterNode, depth int) {
			fb.lines = append(fb.lines, filterLine{node: n, depth: depth})
		})
	}
	if fb.currentIndex >= len(fb.lines) {
		fb.currentIndex = len(fb.lines) - 1
	}
	if fb.currentIndex < 0 {
		fb.currentIndex = 0
	}
}

// mutate runs a state change and emits an apply when auto update moved the applied token
func (fb *FilterBuilder) mutate(fn func() error) tea.Cmd {
	before := fb.State.Applied
	if err := fn(); err != nil {
		fb.validationError = err.Error()
		fb.refresh()
		return nil
	}
	fb.validationError = ""
	fb.refresh()

	if fb.State.AutoUpdate && fb.State.Applied != before && fb.complete() {
		token := fb.State.Applied
		return func() tea.Msg {
			return ApplyFilterMsg{Token: token}
		}
	}
	return nil
}

// complete reports whether every leaf can be sent to the server
func (fb *FilterBuilder) complete() bool {
	ok := true
	for _, l := range fb.lines {
		if !l.node.IsBoolean() && !l.node.Valid() {
			ok = false
		}
	}
	return ok
}

// Update handles keyboard input
func (fb *FilterBuilder) Update(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch fb.editMode {
	case "":
		return fb.handleNavigationMode(msg)
	case "value":
		return fb.handleValueMode(msg)
	}
	return fb, nil
}

// handleNavigationMode handles keys in navigation mode
func (fb *FilterBuilder) handleNavigationMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	node := fb.Selected()

	switch msg.String() {
	case "up", "k":
		if fb.currentIndex > 0 {
			fb.currentIndex--
		}
	case "down", "j":
		if fb.currentIndex < len(fb.lines)-1 {
			fb.currentIndex++
		}
	case "a", "n":
		if node == nil {
			return fb, fb.mutate(fb.State.Initialize)
		}
		target := node
		if !node.IsBoolean() {
			target = filter.Parent(fb.State.Root, node)
		}
		if target == nil {
			fb.validationError = "Press & or | to combine this condition with another"
			return fb, nil
		}
		cmd := fb.mutate(func() error { return fb.State.AddChild(target) })
		fb.selectLastChild(target)
		return fb, cmd
	case "&":
		if node != nil {
			cmd := fb.mutate(func() error { return fb.State.Convert(node, models.KindAnd) })
			fb.selectLastChild(node)
			return fb, cmd
		}
	case "|":
		if node != nil {
			cmd := fb.mutate(func() error { return fb.State.Convert(node, models.KindOr) })
			fb.selectLastChild(node)
			return fb, cmd
		}
	case "d", "x":
		if node != nil {
			return fb, fb.mutate(func() error { return fb.State.RemoveChild(node) })
		}
	case "right", "l":
		return fb, fb.cycleField(node, 1)
	case "left", "h":
		return fb, fb.cycleField(node, -1)
	case "o":
		return fb, fb.cycleOperator(node, 1)
	case "O":
		return fb, fb.cycleOperator(node, -1)
	case "enter", "e":
		if node != nil && !node.IsBoolean() {
			fb.editMode = "value"
			fb.valueInput.SetValue(filter.FormatValue(node.Val))
			fb.valueInput.CursorEnd()
			fb.valueInput.Focus()
		}
	case "u":
		fb.State.AutoUpdate = !fb.State.AutoUpdate
	case "R":
		before := fb.State.Applied
		if err := fb.State.Reset(); err != nil {
			fb.validationError = err.Error()
			return fb, nil
		}
		fb.refresh()
		if before != fb.State.Applied {
			return fb, func() tea.Msg {
				return ApplyFilterMsg{Token: ""}
			}
		}
	case "A", "ctrl+a":
		if !fb.complete() {
			fb.validationError = "Complete every condition before applying the filter"
			return fb, nil
		}
		fb.validationError = ""
		fb.State.Apply()
		token := fb.State.Applied
		return fb, func() tea.Msg {
			return ApplyFilterMsg{Token: token}
		}
	case "esc":
		return fb, func() tea.Msg {
			return CloseFilterBuilderMsg{}
		}
	}
	return fb, nil
}

// handleValueMode handles value input
func (fb *FilterBuilder) handleValueMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fb.editMode = ""
		fb.valueInput.Blur()
		return fb, nil
	case "enter":
		node := fb.Selected()
		if node == nil || node.IsBoolean() {
			fb.editMode = ""
			fb.valueInput.Blur()
			return fb, nil
		}
		val := filter.ParseValue(node.OpValue(), fb.valueInput.Value())
		if fb.isFilesize(node) {
			if err := checkSizes(val); err != nil {
				fb.validationError = err.Error()
				return fb, nil
			}
		}
		fb.editMode = ""
		fb.valueInput.Blur()
		return fb, fb.mutate(func() error {
			return fb.State.SetLeaf(node, node.NameValue(), node.OpValue(), val)
		})
	}

	var cmd tea.Cmd
	fb.valueInput, cmd = fb.valueInput.Update(msg)
	return fb, cmd
}

// isFilesize reports whether the leaf filters a filesize input
func (fb *FilterBuilder) isFilesize(node *models.FilterNode) bool {
	input, idx := fb.inputFor(node.NameValue())
	return idx >= 0 && input.ValueType == "filesize"
}

// checkSizes requires every value to be a number with an optional size unit
func checkSizes(val interface{}) error {
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		_, err := format.ParseSize(v)
		return err
	case []interface{}:
		for _, e := range v {
			if err := checkSizes(e); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := format.ParseSize(fmt.Sprint(v))
		return err
	}
}

// sizeHint renders the byte count of a single filesize value
func (fb *FilterBuilder) sizeHint(node *models.FilterNode) string {
	if !fb.isFilesize(node) || node.Val == nil {
		return ""
	}
	if _, ok := node.Val.([]interface{}); ok {
		return ""
	}
	n, err := format.ParseSize(fmt.Sprint(node.Val))
	if err != nil {
		return ""
	}
	return fmt.Sprintf("(%d bytes)", n)
}

// selectLastChild moves the cursor onto the newest child of node
func (fb *FilterBuilder) selectLastChild(node *models.FilterNode) {
	children := node.Children()
	if len(children) == 0 {
		return
	}
	last := children[len(children)-1]
	for i, l := range fb.lines {
		if l.node == last {
			fb.currentIndex = i
			return
		}
	}
}

// inputFor returns the server input matching a leaf name
func (fb *FilterBuilder) inputFor(name string) (models.FilterInput, int) {
	for i, in := range fb.inputs {
		if in.Name == name {
			return in, i
		}
	}
	return models.FilterInput{}, -1
}

// cycleField moves a leaf to the next or previous filterable field
func (fb *FilterBuilder) cycleField(node *models.FilterNode, delta int) tea.Cmd {
	if node == nil || node.IsBoolean() || len(fb.inputs) == 0 {
		return nil
	}
	_, idx := fb.inputFor(node.NameValue())
	next := fb.inputs[(idx+delta+len(fb.inputs))%len(fb.inputs)]
	if idx < 0 && delta < 0 {
		next = fb.inputs[len(fb.inputs)-1]
	}

	op := node.OpValue()
	if !containsOp(filter.OperatorsFor(next), op) {
		op = models.OpUnset
	}
	val := node.Val
	return fb.mutate(func() error {
		return fb.State.SetLeaf(node, next.Name, op, val)
	})
}

// cycleOperator moves a leaf to the next or previous operator of its field
func (fb *FilterBuilder) cycleOperator(node *models.FilterNode, delta int) tea.Cmd {
	if node == nil || node.IsBoolean() {
		return nil
	}
	input, idx := fb.inputFor(node.NameValue())
	if idx < 0 {
		fb.validationError = "Pick a field with ←/→ first"
		return nil
	}
	ops := filter.OperatorsFor(input)
	if len(ops) == 0 {
		return nil
	}

	pos := -1
	for i, op := range ops {
		if op == node.OpValue() {
			pos = i
		}
	}
	var op models.FilterOperator
	if pos < 0 {
		op = ops[0]
		if delta < 0 {
			op = ops[len(ops)-1]
		}
	} else {
		op = ops[(pos+delta+len(ops))%len(ops)]
	}

	val := node.Val
	if op == models.OpIsNull || op == models.OpIsNotNull {
		val = nil
	}
	return fb.mutate(func() error {
		return fb.State.SetLeaf(node, node.NameValue(), op, val)
	})
}

func containsOp(ops []models.FilterOperator, op models.FilterOperator) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

// View renders the filter builder
func (fb *FilterBuilder) View() string {
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().
		Foreground(fb.Theme.Foreground).
		Background(fb.Theme.Info).
		Padding(0, 1).
		Bold(true)
	title := "Filter"
	if fb.State.Dirty() {
		title += " ●"
	}
	if fb.State.AutoUpdate {
		title += " [auto]"
	}
	sections = append(sections, titleStyle.Render(title))

	// Instructions based on mode
	instructionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")). // Subtext0 from Catppuccin
		Padding(0, 1)

	var instructions string
	switch fb.editMode {
	case "value":
		instructions = "Type value, Enter to confirm, Esc to cancel"
	default:
		instructions = "a=Add &=And |=Or d=Delete ←→=Field o=Op Enter=Value A=Apply"
	}
	sections = append(sections, instructionStyle.Render(instructions))

	// Validation error
	if fb.validationError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(fb.Theme.Error).
			Padding(0, 1).
			Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+fb.validationError))
	}

	// Tree
	sections = append(sections, "")
	if len(fb.lines) == 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(fb.Theme.Muted).Padding(0, 1).
			Render("No filter. Press 'a' to add a condition."))
	}
	for i, l := range fb.lines {
		style := lipgloss.NewStyle().Padding(0, 1)
		line := strings.Repeat("  ", l.depth) + fb.renderNode(l.node)
		if i == fb.currentIndex {
			style = style.Background(fb.Theme.Selection).Foreground(fb.Theme.Foreground)
		}
		sections = append(sections, style.Render(line))
	}

	// Edit area
	if fb.editMode == "value" {
		if node := fb.Selected(); node != nil {
			sections = append(sections, "", fmt.Sprintf("%s %s", node.NameValue(), node.OpValue()))
		}
		sections = append(sections, fb.valueInput.View())
	}

	// Preview
	previewStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c7086")). // Overlay0 from Catppuccin
		Padding(0, 1).
		Italic(true)
	sections = append(sections, "\nPreview:")
	sections = append(sections, previewStyle.Render(filter.Describe(fb.State.Root)))
	if fb.State.Pending != "" {
		sections = append(sections, "Token:")
		maxLen := fb.Width - 4
		if maxLen < 10 {
			maxLen = 10
		}
		token := fb.State.Pending
		if len(token) > maxLen {
			token = token[:maxLen-3] + "..."
		}
		sections = append(sections, previewStyle.Render(token))
	}

	return strings.Join(sections, "\n")
}

// renderNode renders one node without indentation
func (fb *FilterBuilder) renderNode(node *models.FilterNode) string {
	if node.IsBoolean() {
		color := fb.Theme.BooleanAnd
		if node.Kind() == models.KindOr {
			color = fb.Theme.BooleanOr
		}
		return lipgloss.NewStyle().Foreground(color).Bold(true).Render(strings.ToUpper(string(node.Kind())))
	}

	name := node.NameValue()
	if input, idx := fb.inputFor(name); idx >= 0 && input.Title != "" {
		name = input.Title
	}
	if name == "" {
		name = "?"
	}
	op := string(node.OpValue())
	if strings.TrimSpace(op) == "" {
		op = "?"
	}

	parts := []string{
		lipgloss.NewStyle().Foreground(fb.Theme.FieldName).Render(name),
		lipgloss.NewStyle().Foreground(fb.Theme.Operator).Render(op),
	}
	if node.OpValue() != models.OpIsNull && node.OpValue() != models.OpIsNotNull {
		val := filter.FormatValue(node.Val)
		if val == "" {
			val = "…"
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(fb.Theme.Value).Render(val))
		if hint := fb.sizeHint(node); hint != "" {
			parts = append(parts, lipgloss.NewStyle().Foreground(fb.Theme.Muted).Render(hint))
		}
	}
	if !node.Valid() {
		parts = append(parts, lipgloss.NewStyle().Foreground(fb.Theme.Warning).Render("!"))
	}
	return strings.Join(parts, " ")
}
