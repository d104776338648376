package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/humanos-tui/internal/domain"
	"github.com/DaanHessen/humanos-tui/internal/flow"
	"github.com/DaanHessen/humanos-tui/internal/logging"
	"github.com/DaanHessen/humanos-tui/internal/text"
	"github.com/DaanHessen/humanos-tui/internal/util"
)

// profile input order
const (
	fieldName = iota
	fieldMajor
	fieldValues
	fieldSkills
	profileFields
)

// scenario input order
const (
	fieldTitleA = iota
	fieldDescA
	fieldTitleB
	fieldDescB
	scenarioFields
)

const (
	radarWidth  = 33
	radarHeight = 15
)

// eventMsg carries the completion event of a performed effect.
type eventMsg struct{ ev flow.Event }

type model struct {
	ctx   context.Context
	ctl   *flow.Controller
	cfg   util.Config
	log   logging.Logger
	theme string
	st    styles

	landing bool
	width   int
	height  int

	profile      [profileFields]textinput.Model
	titles       [2]textinput.Model
	descs        [2]textarea.Model
	focus        int
	spinner      spinner.Model
	viewport     viewport.Model
	historyIndex int
	status       string

	lastScreen flow.Screen
}

func initialModel(ctx context.Context, ctl *flow.Controller, cfg util.Config, logger logging.Logger) model {
	m := model{
		ctx:     ctx,
		ctl:     ctl,
		cfg:     cfg,
		log:     logging.OrNop(logger),
		theme:   cfg.Theme,
		landing: true,
		width:   100,
		height:  30,
	}
	if _, ok := palettes[m.theme]; !ok {
		m.theme = defaultTheme
	}
	m.st = newStyles(paletteFor(m.theme))

	placeholders := []string{"Name", "Major / field", "Core values (comma separated)", "Top skills (comma separated)"}
	for i, ph := range placeholders {
		in := textinput.New()
		in.Placeholder = ph
		in.CharLimit = 200
		in.Width = 60
		m.profile[i] = in
	}
	for i := range m.titles {
		in := textinput.New()
		in.Placeholder = "Title"
		in.CharLimit = 120
		in.Width = 60
		m.titles[i] = in
		ta := textarea.New()
		ta.Placeholder = "Describe this path: role, environment, constraints..."
		ta.ShowLineNumbers = false
		ta.SetWidth(60)
		ta.SetHeight(4)
		m.descs[i] = ta
	}
	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = m.st.accent
	m.viewport = viewport.New(m.width, m.height-4)
	m.lastScreen = ctl.State().Screen
	m.focusField(0)
	return m
}

// tea.Model implementation ---------------------------------------------------
func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(5, msg.Height-4)
		if m.ctl.State().Screen == flow.ScreenDashboard {
			m.refreshDashboard()
		}
		return m, nil
	case eventMsg:
		cmd := m.dispatch(msg.ev)
		return m, cmd
	case spinner.TickMsg:
		if m.ctl.State().Screen != flow.ScreenSimulating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.landing {
			switch msg.String() {
			case "q", "esc":
				return m, tea.Quit
			case "h":
				m.landing = false
				cmd := m.dispatch(flow.OpenHistory{})
				return m, cmd
			}
			m.landing = false
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.ctl.State()
	k := msg.String()

	// blocking overlays first
	if s.Alert != "" {
		if k == "enter" || k == "esc" {
			cmd := m.dispatch(flow.DismissAlert{})
			return m, cmd
		}
		return m, nil
	}
	if s.Recovery.Open {
		switch k {
		case "c":
			cmd := m.dispatch(flow.ConnectKey{})
			return m, cmd
		case "r":
			cmd := m.dispatch(flow.RetrySimulation{})
			return m, cmd
		case "esc":
			cmd := m.dispatch(flow.DismissRecovery{})
			return m, cmd
		}
		return m, nil
	}

	switch s.Screen {
	case flow.ScreenOnboarding:
		return m.handleOnboardingKey(msg)
	case flow.ScreenScenarioInput:
		return m.handleScenarioKey(msg)
	case flow.ScreenDashboard:
		switch k {
		case "e":
			m.export(text.FormatMarkdown)
		case "p":
			m.export(text.FormatPDF)
		case "n", "r":
			cmd := m.dispatch(flow.Reset{})
			return m, cmd
		case "h":
			cmd := m.dispatch(flow.OpenHistory{})
			return m, cmd
		case "t":
			m.cycleTheme()
		case "q":
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case flow.ScreenHistory:
		switch k {
		case "up", "k":
			if m.historyIndex > 0 {
				m.historyIndex--
			}
		case "down", "j":
			if m.historyIndex < len(s.History)-1 {
				m.historyIndex++
			}
		case "enter":
			if m.historyIndex < len(s.History) {
				cmd := m.dispatch(flow.SelectRecord{ID: s.History[m.historyIndex].ID})
				return m, cmd
			}
		case "x":
			m.historyIndex = 0
			cmd := m.dispatch(flow.ClearHistory{})
			return m, cmd
		case "esc", "q":
			cmd := m.dispatch(flow.CloseHistory{})
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleOnboardingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+d":
		cmd := m.dispatch(flow.LoadDemo{})
		m.loadInputs()
		return m, cmd
	case "ctrl+o":
		cmd := m.dispatch(flow.OpenHistory{})
		return m, cmd
	case "tab", "down":
		cmd := m.focusField((m.focus + 1) % profileFields)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusField((m.focus + profileFields - 1) % profileFields)
		return m, cmd
	case "enter":
		if m.focus < profileFields-1 {
			cmd := m.focusField(m.focus + 1)
			return m, cmd
		}
		cmd := m.dispatch(flow.ConfirmProfile{})
		return m, cmd
	}
	var cmd tea.Cmd
	m.profile[m.focus], cmd = m.profile[m.focus].Update(msg)
	edit := m.dispatch(flow.EditProfile{Profile: m.profileFromInputs()})
	return m, tea.Batch(cmd, edit)
}

func (m model) handleScenarioKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r", "ctrl+s":
		cmd := m.dispatch(flow.RunSimulation{})
		return m, cmd
	case "esc":
		cmd := m.dispatch(flow.BackToProfile{})
		return m, cmd
	case "ctrl+o":
		cmd := m.dispatch(flow.OpenHistory{})
		return m, cmd
	case "tab":
		cmd := m.focusField((m.focus + 1) % scenarioFields)
		return m, cmd
	case "shift+tab":
		cmd := m.focusField((m.focus + scenarioFields - 1) % scenarioFields)
		return m, cmd
	case "enter":
		if m.focus == fieldTitleA || m.focus == fieldTitleB {
			cmd := m.focusField(m.focus + 1)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	slot := flow.SlotA
	switch m.focus {
	case fieldTitleA:
		m.titles[0], cmd = m.titles[0].Update(msg)
	case fieldDescA:
		m.descs[0], cmd = m.descs[0].Update(msg)
	case fieldTitleB:
		slot = flow.SlotB
		m.titles[1], cmd = m.titles[1].Update(msg)
	case fieldDescB:
		slot = flow.SlotB
		m.descs[1], cmd = m.descs[1].Update(msg)
	}
	edit := m.dispatch(flow.EditScenario{Slot: slot, Scenario: m.scenarioFromInputs(slot)})
	return m, tea.Batch(cmd, edit)
}

// dispatch feeds ev to the controller and turns the returned effect into a
// command. Rejected events surface in the status line.
func (m *model) dispatch(ev flow.Event) tea.Cmd {
	eff, err := m.ctl.Dispatch(m.ctx, ev)
	if err != nil {
		m.status = statusText(err)
		m.log.Debug("event %T rejected: %v", ev, err)
		return nil
	}
	switch ev.(type) {
	case flow.EditProfile, flow.EditScenario:
	default:
		m.status = ""
	}
	cmds := []tea.Cmd{m.perform(eff)}
	s := m.ctl.State()
	if s.Screen != m.lastScreen {
		cmds = append(cmds, m.enter(s))
	}
	m.lastScreen = s.Screen
	return tea.Batch(cmds...)
}

// enter runs screen entry hooks.
func (m *model) enter(s flow.State) tea.Cmd {
	switch s.Screen {
	case flow.ScreenSimulating:
		return m.spinner.Tick
	case flow.ScreenDashboard:
		m.refreshDashboard()
		m.viewport.GotoTop()
	case flow.ScreenHistory:
		m.historyIndex = 0
	case flow.ScreenScenarioInput:
		m.loadInputs()
		return m.focusField(fieldTitleA)
	case flow.ScreenOnboarding:
		m.loadInputs()
		return m.focusField(fieldName)
	}
	return nil
}

func (m *model) perform(eff flow.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg { return eventMsg{ev: ctl.Perform(ctx, eff)} }
}

func statusText(err error) string {
	switch {
	case errors.Is(err, flow.ErrGuard):
		return strings.TrimPrefix(err.Error(), flow.ErrGuard.Error()+": ")
	case errors.Is(err, flow.ErrInvalidTransition):
		return "not available here"
	default:
		return err.Error()
	}
}

func (m *model) focusField(i int) tea.Cmd {
	m.focus = i
	for j := range m.profile {
		m.profile[j].Blur()
	}
	for j := range m.titles {
		m.titles[j].Blur()
		m.descs[j].Blur()
	}
	switch m.ctl.State().Screen {
	case flow.ScreenOnboarding:
		if i < len(m.profile) {
			return m.profile[i].Focus()
		}
	case flow.ScreenScenarioInput:
		switch i {
		case fieldTitleA:
			return m.titles[0].Focus()
		case fieldDescA:
			return m.descs[0].Focus()
		case fieldTitleB:
			return m.titles[1].Focus()
		case fieldDescB:
			return m.descs[1].Focus()
		}
	}
	return nil
}

// loadInputs copies controller state into the input widgets.
func (m *model) loadInputs() {
	s := m.ctl.State()
	m.profile[fieldName].SetValue(s.Profile.Name)
	m.profile[fieldMajor].SetValue(s.Profile.Major)
	m.profile[fieldValues].SetValue(domain.JoinList(s.Profile.CoreValues))
	m.profile[fieldSkills].SetValue(domain.JoinList(s.Profile.TopSkills))
	m.titles[0].SetValue(s.ScenarioA.Title)
	m.descs[0].SetValue(s.ScenarioA.Description)
	m.titles[1].SetValue(s.ScenarioB.Title)
	m.descs[1].SetValue(s.ScenarioB.Description)
}

func (m *model) profileFromInputs() domain.Profile {
	return domain.Profile{
		Name:       m.profile[fieldName].Value(),
		Major:      m.profile[fieldMajor].Value(),
		CoreValues: domain.ParseList(m.profile[fieldValues].Value()),
		TopSkills:  domain.ParseList(m.profile[fieldSkills].Value()),
	}
}

func (m *model) scenarioFromInputs(slot flow.Slot) domain.Scenario {
	i := 0
	if slot == flow.SlotB {
		i = 1
	}
	return domain.Scenario{Title: m.titles[i].Value(), Description: m.descs[i].Value()}
}

func (m *model) export(format text.Format) {
	rec, ok := m.ctl.CurrentRecord()
	if !ok {
		m.status = "export: no record"
		return
	}
	path, err := text.Export(rec, m.cfg.ExportDir, format)
	if err != nil {
		m.log.Error("export %s: %v", rec.ID, err)
		m.status = "export failed: " + err.Error()
		return
	}
	m.log.Info("exported %s to %s", rec.ID, path)
	m.status = "exported " + path
}

func (m *model) cycleTheme() {
	m.theme = nextThemeName(m.theme, 1)
	m.st = newStyles(paletteFor(m.theme))
	m.spinner.Style = m.st.accent
	m.refreshDashboard()
	m.status = "theme: " + m.theme
}

// Rendering ------------------------------------------------------------------
func (m model) View() string {
	if m.landing {
		return m.renderLanding()
	}
	s := m.ctl.State()
	var body string
	switch s.Screen {
	case flow.ScreenOnboarding:
		body = m.renderOnboarding()
	case flow.ScreenScenarioInput:
		body = m.renderScenarioInput(s)
	case flow.ScreenSimulating:
		body = m.renderSimulating()
	case flow.ScreenDashboard:
		body = m.viewport.View()
	case flow.ScreenHistory:
		body = m.renderHistory(s)
	}
	switch {
	case s.Alert != "":
		body = m.renderAlert(s.Alert)
	case s.Recovery.Open:
		body = m.renderRecovery(s.Recovery)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTopBar(s), body, m.renderBottomBar(s))
}

func (m model) renderTopBar(s flow.State) string {
	left := "HUMANOS • " + strings.ReplaceAll(string(s.Screen), "_", " ")
	right := "tier " + m.cfg.Tier
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.st.topBar.Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) renderBottomBar(s flow.State) string {
	var keys string
	switch {
	case s.Alert != "":
		keys = "[Enter] dismiss"
	case s.Recovery.Open:
		keys = "[C] connect key  [R] retry  [Esc] dismiss"
	default:
		switch s.Screen {
		case flow.ScreenOnboarding:
			keys = "[Tab] next field  [Enter] continue  [Ctrl+D] demo twin  [Ctrl+O] history  [Ctrl+C] quit"
		case flow.ScreenScenarioInput:
			keys = "[Tab] next field  [Ctrl+R] simulate  [Esc] back  [Ctrl+O] history"
		case flow.ScreenSimulating:
			keys = "[Ctrl+C] quit"
		case flow.ScreenDashboard:
			keys = "[↑/↓] scroll  [E] export md  [P] export pdf  [N] new  [H] history  [T] theme  [Q] quit"
		case flow.ScreenHistory:
			keys = "[↑/↓] select  [Enter] open  [X] clear  [Esc] back"
		}
	}
	line := m.st.status.Render(keys)
	switch {
	case strings.HasPrefix(m.status, "exported "):
		line += "\n" + m.st.success.Render(m.status)
	case m.status != "":
		line += "\n" + m.st.status.Render(m.status)
	}
	return line
}

func (m model) renderLanding() string {
	logo := strings.Join([]string{
		"█  █ █  █ █▀▄▀█ ▄▀▀▄ █▄ █ ▄▀▀▄ ▄▀▀▀",
		"█▀▀█ █  █ █ ▀ █ █▀▀█ █ ▀█ █  █  ▀▀▄",
		"▀  ▀  ▀▀  ▀   ▀ ▀  ▀ ▀  ▀  ▀▀  ▀▀▀ ",
	}, "\n")
	body := lipgloss.JoinVertical(lipgloss.Center,
		m.st.title.Render(logo),
		"",
		m.st.accent.Render("Decision sandbox"),
		m.st.muted.Render("Describe two futures. See them projected, and a third path that converges them."),
		"",
		m.st.muted.Render("[Enter] begin   [H] journey logs   [Q] quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m model) renderOnboarding() string {
	labels := []string{"Name", "Major", "Core values", "Top skills"}
	var b strings.Builder
	b.WriteString(m.st.title.Render("Calibrate your twin") + "\n\n")
	for i, in := range m.profile {
		b.WriteString(m.st.muted.Render(labels[i]) + "\n")
		style := m.st.panel
		if i == m.focus {
			style = m.st.focused
		}
		b.WriteString(style.Render(in.View()) + "\n")
	}
	return b.String()
}

func (m model) renderScenarioInput(s flow.State) string {
	col := func(i int, label string) string {
		titleStyle, descStyle := m.st.panel, m.st.panel
		if m.focus == i*2 {
			titleStyle = m.st.focused
		}
		if m.focus == i*2+1 {
			descStyle = m.st.focused
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			m.st.path[i].Render(label),
			titleStyle.Render(m.titles[i].View()),
			descStyle.Render(m.descs[i].View()),
		)
	}
	head := m.st.title.Render("Define the fork") + "  " + m.st.muted.Render("for "+s.Profile.Name)
	return lipgloss.JoinVertical(lipgloss.Left, head, "", col(0, "PATH ALPHA"), "", col(1, "PATH BETA"))
}

func (m model) renderSimulating() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		m.spinner.View()+" "+m.st.title.Render("Neural path synthesis"),
		"",
		m.st.muted.Render("Projecting Alpha and Beta, synthesizing Path C..."),
	)
	return lipgloss.Place(m.width, max(5, m.height-4), lipgloss.Center, lipgloss.Center, body)
}

func (m model) renderAlert(msg string) string {
	box := m.st.alert.Width(min(70, m.width-4)).Render(
		m.st.warning.Render("Engine critical error") + "\n\n" + msg)
	return lipgloss.Place(m.width, max(5, m.height-4), lipgloss.Center, lipgloss.Center, box)
}

func (m model) renderRecovery(r flow.Recovery) string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("Neural link required") + "\n\n")
	b.WriteString("Connect a Gemini API key to power the simulation.\n")
	if r.KeyPresent {
		b.WriteString(m.st.muted.Render("A key is selected but was rejected.") + "\n")
	}
	if r.BridgeUnavailable {
		b.WriteString("\n" + m.st.warning.Render("No key selector available.") + "\n")
		b.WriteString(m.st.muted.Render("Set GEMINI_API_KEY or configure key_select_command, then retry.") + "\n")
	}
	b.WriteString("\n[C] connect key   [R] retry simulation   [Esc] dismiss\n\n")
	b.WriteString(m.st.muted.Render("Billing: " + flow.BillingURL))
	box := m.st.overlay.Width(min(70, m.width-4)).Render(b.String())
	return lipgloss.Place(m.width, max(5, m.height-4), lipgloss.Center, lipgloss.Center, box)
}

func (m model) renderHistory(s flow.State) string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("Journey logs") + "\n\n")
	if len(s.History) == 0 {
		b.WriteString(m.st.muted.Render("(no simulations yet)") + "\n")
		return b.String()
	}
	for i, r := range s.History {
		cursor := "  "
		if i == m.historyIndex {
			cursor = m.st.accent.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s  %-18s %s vs %s\n", cursor, text.Timestamp(r.Timestamp),
			truncate(r.Profile.Name, 18), truncate(r.ScenarioA.Title, 28), truncate(r.ScenarioB.Title, 28)))
	}
	return b.String()
}

// refreshDashboard rebuilds the scrollable dashboard content.
func (m *model) refreshDashboard() {
	s := m.ctl.State()
	if s.Result == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.buildDashboard(s))
}

func (m *model) buildDashboard(s flow.State) string {
	res := *s.Result
	w := max(60, m.width)

	head := m.st.title.Render("Trajectory comparison") + "  " + m.st.muted.Render("for "+s.Profile.Name)
	radar := renderRadar(res.Outcomes(), radarWidth, radarHeight, m.st)

	cardW := max(24, (w-6)/3)
	cards := make([]string, 0, 3)
	for i, o := range res.Outcomes() {
		cards = append(cards, m.outcomeCard(i, o, cardW))
	}

	var md strings.Builder
	md.WriteString("## Comparative analysis\n\n" + strings.TrimSpace(res.ComparativeAnalysis) + "\n\n")
	if len(res.TradeOffs) > 0 {
		md.WriteString("## Trade-offs\n\n| Dimension | Alpha | Beta | C |\n|---|---:|---:|---:|\n")
		for _, t := range res.TradeOffs {
			md.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %.0f |\n", strings.ReplaceAll(t.Label, "|", "/"), t.PathAValue, t.PathBValue, t.PathCValue))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		head,
		"",
		radar,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		text.Render(md.String(), w-4, "dark"),
	)
}

func (m *model) outcomeCard(i int, o domain.Outcome, w int) string {
	c := pathColors[i%len(pathColors)]
	p := paletteFor(m.theme)
	title := lipgloss.NewStyle().Bold(true).Foreground(c).Render(text.PathNames[i])
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(m.st.text.Render(truncate(o.Title, w-4)) + "\n\n")
	rows := []struct {
		label string
		v     float64
	}{
		{"Skill", o.SkillGrowth},
		{"Values", o.ValueAlignment},
		{"Options", o.FutureOptionality},
		{"Friction", o.FrictionIndicator},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-8s %s %3.0f\n", r.label, bar(r.v, c, p.BarEmpty), r.v))
	}
	b.WriteString("\n" + m.st.muted.Render(strings.TrimSpace(o.NarrativeSnapshot)))
	return lipgloss.NewStyle().Width(w-2).Border(lipgloss.RoundedBorder()).BorderForeground(c).Padding(0, 1).Render(b.String())
}

func bar(v float64, fill, empty lipgloss.Color) string {
	width := 10
	n := int((v/100.0)*float64(width) + 0.5)
	if n > width {
		n = width
	}
	if n < 0 {
		n = 0
	}
	return lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", n)) +
		lipgloss.NewStyle().Foreground(empty).Render(strings.Repeat("·", width-n))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
