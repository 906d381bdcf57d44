package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/flowboard/internal/cli/formatter"
	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/export"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// flowboardHuhTheme returns a huh theme using the formatter palette.
func flowboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func runForm(groups ...*huh.Group) error {
	return huh.NewForm(groups...).WithTheme(flowboardHuhTheme()).WithShowHelp(false).Run()
}

// runExportWizard walks the user through the export choices, writing each
// into sess. It reports false when the user cancels.
func runExportWizard(sess *export.Session) (bool, error) {
	scope := string(domain.ScopeFull)
	if err := runForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("What should be exported?").
			Options(
				huh.NewOption("Entire workflow", string(domain.ScopeFull)),
				huh.NewOption("Selected sections", string(domain.ScopePartial)),
				huh.NewOption("Nodes with a tag", string(domain.ScopeTag)),
			).
			Value(&scope),
	)); err != nil {
		return false, wizardErr(err)
	}
	if err := sess.SetScope(domain.Scope(scope)); err != nil {
		return false, err
	}

	switch domain.Scope(scope) {
	case domain.ScopeTag:
		tags := sess.Tags()
		if len(tags) == 0 {
			return false, fmt.Errorf("this workflow has no tags")
		}
		tag := tags[0]
		if err := runForm(huh.NewGroup(
			huh.NewSelect[string]().Title("Which tag?").Options(huh.NewOptions(tags...)...).Value(&tag),
		)); err != nil {
			return false, wizardErr(err)
		}
		sess.SetTag(tag)
	case domain.ScopePartial:
		if ok, err := runPicker(newNodePicker(sess, pickSelect)); !ok || err != nil {
			return false, err
		}
	}

	tpl := sess.Flow().Template()
	cfg := sess.Config()
	name, desc := cfg.BoardName, cfg.BoardDescription
	reference, dynamic := false, false
	if err := runForm(huh.NewGroup(
		huh.NewInput().Title("Board name").Value(&name).Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("please enter a board name")
			}
			return nil
		}),
		huh.NewText().Title("Board description").Value(&desc),
		huh.NewConfirm().Title("Add a References column?").Value(&reference),
		huh.NewConfirm().Title("Build the dynamic list?").Value(&dynamic),
	)); err != nil {
		return false, wizardErr(err)
	}
	sess.SetBoardName(name)
	sess.SetBoardDescription(desc)

	if reference {
		level := "0"
		options := make([]huh.Option[string], 0, tpl.Depth())
		for i := range tpl.Depth() {
			options = append(options, huh.NewOption(tpl.Level(i).PluralName, strconv.Itoa(i)))
		}
		if err := runForm(huh.NewGroup(
			huh.NewSelect[string]().Title("Which level holds the references?").Options(options...).Value(&level),
		)); err != nil {
			return false, wizardErr(err)
		}
		lvl, _ := strconv.Atoi(level)
		sess.SetReference(true)
		if err := sess.SetReferenceLevel(lvl); err != nil {
			return false, err
		}
	}

	if dynamic {
		sess.SetDynamicList(true)
		if ok, err := runPicker(newNodePicker(sess, pickAssign)); !ok || err != nil {
			return false, err
		}
	}

	confirmed := true
	if err := runForm(huh.NewGroup(
		huh.NewNote().Title("Preview").Description(formatter.FormatPreview(sess.Preview(), dynamic)),
		huh.NewConfirm().Title("Create the board?").Value(&confirmed),
	)); err != nil {
		return false, wizardErr(err)
	}
	return confirmed, nil
}

// wizardErr turns a user abort into a clean cancellation.
func wizardErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}

func runPicker(m *nodePicker) (bool, error) {
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}
	p := final.(*nodePicker)
	return !p.cancelled, nil
}

type pickerMode int

const (
	pickSelect pickerMode = iota
	pickAssign
)

type pickerRow struct {
	id    string
	title string
	depth int
}

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Type   key.Binding
	Column key.Binding
	Done   key.Binding
	Cancel key.Binding
}

var pickerKeyMap = pickerKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Type:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle type")),
	Column: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle column")),
	Done:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
	Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

var (
	typeCycle   = []domain.DynamicListType{domain.DynamicTask, domain.DynamicConnection, domain.DynamicSkip}
	columnCycle = []domain.ColumnKey{domain.ColumnNone, domain.ColumnTodo, domain.ColumnInProgress, domain.ColumnReview, domain.ColumnDone}
)

// nodePicker is a tree list over the flow's nodes. In select mode space
// checks nodes for partial scope; in assign mode t and c cycle each node's
// dynamic list type and board column.
type nodePicker struct {
	sess      *export.Session
	mode      pickerMode
	rows      []pickerRow
	cursor    int
	status    string
	cancelled bool
}

func newNodePicker(sess *export.Session, mode pickerMode) *nodePicker {
	tpl := sess.Flow().Template()
	var rows []pickerRow
	_ = domain.Walk(sess.Flow().Data, func(n *domain.Node, depth int, _ *domain.Node) error {
		rows = append(rows, pickerRow{id: n.ID, title: n.DisplayName(tpl, depth), depth: depth})
		return nil
	})
	return &nodePicker{sess: sess, mode: mode, rows: rows}
}

func (m *nodePicker) Init() tea.Cmd { return nil }

func (m *nodePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""
	switch {
	case key.Matches(km, pickerKeyMap.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(km, pickerKeyMap.Done):
		if m.mode == pickSelect && len(m.sess.Config().SelectedNodeIDs) == 0 {
			m.status = "please select at least one section to export"
			return m, nil
		}
		return m, tea.Quit
	case len(m.rows) == 0:
		return m, nil
	case key.Matches(km, pickerKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, pickerKeyMap.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(km, pickerKeyMap.Toggle) && m.mode == pickSelect:
		id := m.rows[m.cursor].id
		m.setErr(m.sess.ToggleNode(id, !m.sess.IsSelected(id)))
	case key.Matches(km, pickerKeyMap.Type) && m.mode == pickAssign:
		id := m.rows[m.cursor].id
		m.setErr(m.sess.SetNodeType(id, next(typeCycle, m.sess.TypeOf(id))))
	case key.Matches(km, pickerKeyMap.Column) && m.mode == pickAssign:
		id := m.rows[m.cursor].id
		m.setErr(m.sess.SetNodeColumn(id, next(columnCycle, m.sess.ColumnOf(id))))
	}
	return m, nil
}

func (m *nodePicker) setErr(err error) {
	if err == nil {
		return
	}
	var e *export.Error
	if errors.As(err, &e) {
		m.status = e.Message
		return
	}
	m.status = err.Error()
}

func (m *nodePicker) View() string {
	var b strings.Builder
	title := "Select sections to export"
	if m.mode == pickAssign {
		title = "Assign dynamic list types and columns"
	}
	b.WriteString(formatter.Header(title) + "\n")

	for i, r := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleYellow.Render("▸ ")
		}
		line := strings.Repeat("  ", r.depth) + r.title
		switch m.mode {
		case pickSelect:
			box := "[ ] "
			if m.sess.IsSelected(r.id) {
				box = formatter.StyleGreen.Render("[x] ")
			}
			line = box + line
		case pickAssign:
			line += "  " + formatter.TypeBadge(m.sess.TypeOf(r.id))
			if col := m.sess.ColumnOf(r.id); col != domain.ColumnNone {
				line += " " + formatter.ColumnStyle(col.ColumnName()).Render("→ "+col.ColumnName())
			}
		}
		b.WriteString(cursor + line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + formatter.StyleRed.Render(m.status) + "\n")
	}
	sum := m.sess.Preview()
	b.WriteString("\n" + formatter.Dim(fmt.Sprintf("%d nodes · %d cards", sum.Nodes, sum.BoardCards)) + "\n")
	b.WriteString(formatter.Dim(m.helpLine()) + "\n")
	return b.String()
}

func (m *nodePicker) helpLine() string {
	bindings := []key.Binding{pickerKeyMap.Up, pickerKeyMap.Down}
	if m.mode == pickSelect {
		bindings = append(bindings, pickerKeyMap.Toggle)
	} else {
		bindings = append(bindings, pickerKeyMap.Type, pickerKeyMap.Column)
	}
	bindings = append(bindings, pickerKeyMap.Done, pickerKeyMap.Cancel)

	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		parts[i] = kb.Help().Key + " " + kb.Help().Desc
	}
	return strings.Join(parts, " · ")
}

// next returns the element after cur in cycle, wrapping around.
func next[T comparable](cycle []T, cur T) T {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}
