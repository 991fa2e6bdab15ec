package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jlrickert/dexview/pkg/catalog"
	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/jlrickert/dexview/pkg/printer"
)

// Controller is the part of the National Dex the browser drives. The browser
// keeps the wanted filter and page itself and sends it whole with every
// change, stamped with a revision, since bubbletea may run commands in any
// order.
type Controller interface {
	Init(ctx context.Context) error
	Query(ctx context.Context, q dex.Query) (dex.View, error)
	Preset(q dex.Query) error
	Snapshot() dex.State
	MaxTypes() int
}

// Profiler loads the detail overlay.
type Profiler interface {
	Profile(ctx context.Context, nameOrID string) (catalog.Profile, error)
	CloseProfile()
}

type mode int

const (
	modeBrowse mode = iota
	modeTypes
	modeGoto
	modeProfile
)

// input focus; focusTable means no input is focused
const (
	focusText = iota
	focusMin
	focusMax
	focusGen
	focusTable
	focusCount
)

type triggerDoneMsg struct{ err error }

type profileMsg struct {
	seq     uint64
	profile catalog.Profile
	err     error
}

// Model is the bubbletea model of the National Dex browser.
type Model struct {
	ctx    context.Context
	dex    Controller
	cat    Profiler
	bridge *Bridge

	mode   mode
	focus  int
	inputs [4]textinput.Model
	last   [4]string
	jump   textinput.Model

	want dex.Query
	rev  uint64

	view      dex.View
	hasView   bool
	loading   bool
	errText   string
	errSeq    uint64
	status    string
	cursor    int
	typeIndex int

	profileSeq     uint64
	profile        *catalog.Profile
	profileErr     string
	profileLoading bool

	width  int
	height int
}

func New(ctx context.Context, d Controller, cat Profiler, bridge *Bridge) Model {
	labels := [4]string{"Search", "Min #", "Max #", "Gen"}
	placeholders := [4]string{"name or number", "1", "1025", "I-IX"}
	widths := [4]int{24, 6, 6, 6}
	m := Model{ctx: ctx, dex: d, cat: cat, bridge: bridge, focus: focusText}
	st := d.Snapshot()
	m.want = dex.Query{Filter: st.Filter, Page: max(1, st.Page), PageSize: st.PageSize}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = labels[i] + ": "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 32
		ti.Width = widths[i]
		m.inputs[i] = ti
	}
	m.inputs[focusText].Focus()

	m.jump = textinput.New()
	m.jump.Prompt = "Go to page: "
	m.jump.CharLimit = 6
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.bridge.Wait(),
		m.trigger(m.dex.Init),
		textinput.Blink,
	)
}

// trigger runs fn off the UI goroutine.
func (m Model) trigger(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return triggerDoneMsg{err: fn(ctx)}
	}
}

// apply sends the wanted state under the next revision.
func (m *Model) apply() tea.Cmd {
	m.rev++
	q := m.want
	q.Filter = q.Filter.Clone()
	q.Revision = m.rev
	d := m.dex
	return m.trigger(func(ctx context.Context) error {
		return runQuery(ctx, d, q)
	})
}

// runQuery applies q. While the index is still loading q is preset instead,
// so the first cycle of Init already reflects it.
func runQuery(ctx context.Context, d Controller, q dex.Query) error {
	_, err := d.Query(ctx, q)
	if !errors.Is(err, dex.ErrNotInitialized) {
		return err
	}
	if err := d.Preset(q); err != nil {
		return err
	}
	if d.Snapshot().Initialized {
		// Init finished between the two calls
		_, err = d.Query(ctx, q)
		return err
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case bridgeMsg:
		m.applyBridge(msg)
		return m, m.bridge.Wait()

	case triggerDoneMsg:
		// failures reach the user through the bridge; stale and cancelled
		// queries were superseded
		return m, nil

	case profileMsg:
		if msg.seq != m.profileSeq || m.mode != modeProfile {
			return m, nil
		}
		m.profileLoading = false
		switch {
		case msg.err == nil:
			p := msg.profile
			m.profile = &p
		case errors.Is(msg.err, context.Canceled):
		default:
			m.profileErr = catalog.UserMessage(msg.err)
			if m.profileErr == "" {
				m.profileErr = catalog.MsgProfileFailed
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeTypes:
			return m.updateTypes(msg)
		case modeGoto:
			return m.updateGoto(msg)
		case modeProfile:
			return m.updateProfile(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	if m.focus != focusTable {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applyBridge(msg bridgeMsg) {
	m.loading = msg.Loading
	if msg.HasView && (!m.hasView || msg.View.Cycle >= m.view.Cycle) {
		m.view = msg.View
		m.hasView = true
		m.cursor = min(m.cursor, max(0, len(m.view.Rows)-1))
	}
	if msg.ErrSeq != m.errSeq {
		m.errSeq = msg.ErrSeq
		m.errText = msg.Err
	} else if msg.Err == "" {
		m.errText = ""
	}
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "tab", "shift+tab":
		return m.cycleFocus(key == "shift+tab")
	case "ctrl+t":
		m.mode = modeTypes
		return m, nil
	case "ctrl+x":
		for i := range m.inputs {
			m.inputs[i].SetValue("")
			m.last[i] = ""
		}
		m.status = ""
		m.want.Filter = dex.FilterState{}
		m.want.Page = 1
		cmd := m.apply()
		return m, cmd
	case "ctrl+r":
		if !m.dex.Snapshot().Initialized {
			return m, m.trigger(m.dex.Init)
		}
		cmd := m.apply()
		return m, cmd
	case "pgdown":
		return m.stepPage(1)
	case "pgup":
		return m.stepPage(-1)
	case "esc":
		if m.focus != focusTable {
			return m.setFocus(focusTable)
		}
		return m, tea.Quit
	}

	if m.focus != focusTable {
		if key == "enter" {
			return m.setFocus(focusTable)
		}
		return m.updateInput(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "left", "h":
		return m.stepPage(-1)
	case "right", "l":
		return m.stepPage(1)
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(max(0, len(m.view.Rows)-1), m.cursor+1)
	case "[", "]":
		return m.stepPageSize(key == "]")
	case "g":
		m.mode = modeGoto
		m.jump.SetValue("")
		cmd := m.jump.Focus()
		return m, cmd
	case "enter":
		return m.openProfile()
	case "/":
		return m.setFocus(focusText)
	}
	return m, nil
}

func (m Model) cycleFocus(back bool) (tea.Model, tea.Cmd) {
	next := (m.focus + 1) % focusCount
	if back {
		next = (m.focus + focusCount - 1) % focusCount
	}
	return m.setFocus(next)
}

func (m Model) setFocus(f int) (tea.Model, tea.Cmd) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = f
	if f == focusTable {
		return m, nil
	}
	cmd := m.inputs[f].Focus()
	return m, cmd
}

// updateInput feeds the key to the focused input and starts a cycle when its
// value changed.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	i := m.focus
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	val := m.inputs[i].Value()
	if val == m.last[i] {
		return m, cmd
	}
	m.last[i] = val
	m.status = ""

	switch i {
	case focusText:
		m.want.Filter.Text = val
	case focusMin, focusMax:
		lo, errLo := parseBound(m.inputs[focusMin].Value())
		hi, errHi := parseBound(m.inputs[focusMax].Value())
		if errLo != nil || errHi != nil {
			m.status = "Ids must be whole numbers."
			return m, cmd
		}
		m.want.Filter.MinID, m.want.Filter.MaxID = lo, hi
	case focusGen:
		gen := dex.NormalizeGeneration(val)
		if gen != "" && !slices.Contains(dex.Generations, gen) {
			m.status = "Unknown generation."
			return m, cmd
		}
		m.want.Filter.Generation = gen
	}
	m.want.Page = 1
	next := m.apply()
	return m, tea.Batch(cmd, next)
}

func parseBound(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid id %q", s)
	}
	return &n, nil
}

// stepPage moves by delta pages, clamped to the pages of the latest view.
func (m Model) stepPage(delta int) (tea.Model, tea.Cmd) {
	page := max(1, m.want.Page+delta)
	if m.hasView {
		page = dex.Clamp(page, m.view.Count, m.want.PageSize)
	}
	if page == m.want.Page {
		return m, nil
	}
	m.want.Page = page
	cmd := m.apply()
	return m, cmd
}

func (m Model) stepPageSize(up bool) (tea.Model, tea.Cmd) {
	i := slices.Index(dex.PageSizes, m.want.PageSize)
	switch {
	case i < 0:
		i = slices.Index(dex.PageSizes, dex.DefaultPageSize)
	case up && i < len(dex.PageSizes)-1:
		i++
	case !up && i > 0:
		i--
	default:
		return m, nil
	}
	m.want.PageSize = dex.PageSizes[i]
	m.want.Page = 1
	cmd := m.apply()
	return m, cmd
}

func (m Model) updateTypes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+t", "q":
		m.mode = modeBrowse
	case "up", "k":
		m.typeIndex = max(0, m.typeIndex-1)
	case "down", "j":
		m.typeIndex = min(len(dex.TypeNames)-1, m.typeIndex+1)
	case " ", "space", "enter", "x":
		f := m.want.Filter.Clone()
		if err := f.ToggleType(dex.TypeNames[m.typeIndex], m.dex.MaxTypes()); err != nil {
			m.status = fmt.Sprintf("At most %d types can be selected.", m.dex.MaxTypes())
			return m, nil
		}
		m.status = ""
		m.want.Filter = f
		m.want.Page = 1
		cmd := m.apply()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateGoto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.jump.Blur()
		return m, nil
	case "enter":
		m.mode = modeBrowse
		m.jump.Blur()
		n, err := strconv.Atoi(strings.TrimSpace(m.jump.Value()))
		if err != nil {
			m.status = "Page must be a number."
			return m, nil
		}
		return m.stepPage(n - m.want.Page)
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m Model) openProfile() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.view.Rows) {
		return m, nil
	}
	row := m.view.Rows[m.cursor]
	key := row.Name
	if row.ID > 0 {
		key = strconv.Itoa(row.ID)
	}
	m.mode = modeProfile
	m.profileSeq++
	m.profile = nil
	m.profileErr = ""
	m.profileLoading = true

	seq, ctx, cat := m.profileSeq, m.ctx, m.cat
	return m, func() tea.Msg {
		p, err := cat.Profile(ctx, key)
		return profileMsg{seq: seq, profile: p, err: err}
	}
}

func (m Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.cat.CloseProfile()
		m.mode = modeBrowse
		m.profile = nil
		m.profileErr = ""
		m.profileLoading = false
	}
	return m, nil
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

var typeColors = map[string]string{
	"normal": "250", "fire": "202", "water": "33", "electric": "220",
	"grass": "70", "ice": "117", "fighting": "160", "poison": "128",
	"ground": "179", "flying": "111", "psychic": "205", "bug": "106",
	"rock": "137", "ghost": "61", "dragon": "63", "dark": "240",
	"steel": "109", "fairy": "218",
}

func renderTypes(types []string) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		c, ok := typeColors[t]
		if !ok {
			c = "250"
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(t))
	}
	return strings.Join(parts, "/")
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("National Dex"))
	if m.loading {
		b.WriteString(faintStyle.Render("  loading…"))
	}
	b.WriteString("\n\n")

	fields := make([]string, 0, len(m.inputs))
	for _, in := range m.inputs {
		fields = append(fields, in.View())
	}
	b.WriteString(strings.Join(fields, "   "))
	b.WriteString("\n")
	types := "any"
	if len(m.want.Filter.Types) > 0 {
		types = renderTypes(m.want.Filter.Types)
	}
	b.WriteString(faintStyle.Render("Types: ") + types + "\n\n")

	switch m.mode {
	case modeTypes:
		b.WriteString(m.typesView())
	case modeProfile:
		b.WriteString(m.profileView())
	default:
		b.WriteString(m.tableView())
	}

	if m.mode == modeGoto {
		b.WriteString("\n" + m.jump.View() + "\n")
	}
	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render(m.errText) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + faintStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + faintStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) tableView() string {
	if !m.hasView {
		return faintStyle.Render("Loading National Dex…") + "\n"
	}
	var b strings.Builder
	if len(m.view.Rows) == 0 {
		b.WriteString(faintStyle.Render("No matches.") + "\n")
	}
	for i, r := range m.view.Rows {
		gen := r.Generation
		if gen == "" {
			gen = "…"
		}
		types := renderTypes(r.Types)
		if types == "" {
			types = faintStyle.Render("…")
		}
		line := fmt.Sprintf("%-7s %-16s %-8s", r.IDLabel, catalog.Capitalize(r.Name), gen)
		if i == m.cursor && m.focus == focusTable {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + " " + types + "\n")
	}
	b.WriteString("\n" + faintStyle.Render(printer.PagerLine(m.view)))
	b.WriteString(faintStyle.Render(fmt.Sprintf(" · %d per page", m.view.PageSize)) + "\n")
	return b.String()
}

func (m Model) typesView() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Select up to %d types (space toggles, esc closes)\n", m.dex.MaxTypes()))
	for i, t := range dex.TypeNames {
		mark := "[ ]"
		if slices.Contains(m.want.Filter.Types, t) {
			mark = "[x]"
		}
		cursor := "  "
		if i == m.typeIndex {
			cursor = "> "
		}
		b.WriteString(cursor + mark + " " + renderTypes([]string{t}) + "\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m Model) profileView() string {
	switch {
	case m.profileErr != "":
		return panelStyle.Render(errorStyle.Render(m.profileErr)) + "\n"
	case m.profile == nil:
		return panelStyle.Render(faintStyle.Render("Loading details…")) + "\n"
	}
	var buf bytes.Buffer
	width := 60
	if m.width > 10 {
		width = min(80, m.width-6)
	}
	if err := printer.New(&buf, false).WithWidth(width).Profile(*m.profile); err != nil {
		return panelStyle.Render(errorStyle.Render(catalog.MsgProfileFailed)) + "\n"
	}
	return panelStyle.Render(strings.TrimRight(buf.String(), "\n")) + "\n"
}

func (m Model) helpLine() string {
	switch m.mode {
	case modeTypes:
		return "↑/↓ move · space toggle · esc close"
	case modeGoto:
		return "enter jump · esc cancel"
	case modeProfile:
		return "esc close"
	}
	if m.focus != focusTable {
		return "tab next field · enter results · ctrl+t types · ctrl+x clear · pgup/pgdn page · esc results"
	}
	return "←/→ page · ↑/↓ select · enter details · [/] page size · g go to · tab filters · ctrl+t types · ctrl+x clear · q quit"
}
