package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"procopy/internal/app"
	"procopy/internal/config"
	"procopy/internal/domain"
	apperrors "procopy/internal/errors"
	"procopy/internal/rules"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlanning
	PhasePreview
	PhaseConfirm
	PhaseCopying
	PhaseDone
	PhaseError
	PhaseRules
)

// inputTarget says which field the shared text input is editing.
type inputTarget int

const (
	inputNone inputTarget = iota
	inputSource
	inputDest
	inputExact
	inputPrefix
	inputGlob
)

// Messages for the TUI
type (
	planDoneMsg struct {
		plan domain.CopyPlan
		err  error
	}
	copyProgressMsg domain.Progress
	copyDoneMsg     struct {
		copied int
		err    error
	}
)

type ruleRow struct {
	kind  rules.Kind
	value string
}

// Model is the main TUI model
type Model struct {
	session *app.Session
	store   config.Store
	cfg     config.Config
	rules   *rules.Set

	phase      Phase
	status     string
	plan       domain.CopyPlan
	hasPlan    bool
	copied     int
	copyTotal  int
	progressCh chan domain.Progress
	confirmYes bool
	err        error

	spinner  spinner.Model
	progress progress.Model
	viewport viewport.Model
	input    textinput.Model
	inputFor inputTarget

	ruleCursor int

	width  int
	height int
}

// NewModel wires the engine session and persisted configuration into a TUI.
func NewModel(session *app.Session, store config.Store, cfg config.Config, set *rules.Set) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	vp := viewport.New(76, 12)

	in := textinput.New()
	in.CharLimit = 512
	in.Width = 60

	return Model{
		session:  session,
		store:    store,
		cfg:      cfg,
		rules:    set,
		phase:    PhaseIdle,
		status:   "Pick source and destination, then calculate the copy plan.",
		spinner:  s,
		progress: p,
		viewport: vp,
		input:    in,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-20, 60)
		m.viewport.Width = min(msg.Width-4, 100)
		m.viewport.Height = max(msg.Height-16, 5)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case planDoneMsg:
		if msg.err != nil {
			m.phase = PhaseError
			m.err = msg.err
			m.status = apperrors.UserMessage(msg.err)
			return m, nil
		}
		m.plan = msg.plan
		m.hasPlan = true
		m.viewport.SetContent(previewContent(msg.plan))
		m.viewport.GotoTop()
		if m.plan.Total == 0 {
			m.phase = PhaseIdle
			m.status = fmt.Sprintf("Calculation finished (%s mode): no files to copy.", m.plan.Mode)
			m.hasPlan = false
			m.session.Reset()
			return m, nil
		}
		m.phase = PhasePreview
		m.status = fmt.Sprintf("Calculation finished (%s mode): %d files to copy.", m.plan.Mode, m.plan.Total)
		return m, nil

	case copyProgressMsg:
		m.copied = msg.Copied
		m.copyTotal = msg.Total
		return m, waitProgress(m.progressCh)

	case copyDoneMsg:
		if msg.err != nil {
			m.phase = PhaseError
			m.err = msg.err
			m.status = apperrors.UserMessage(msg.err)
			m.hasPlan = false
			return m, nil
		}
		m.copied = msg.copied
		m.phase = PhaseDone
		m.status = fmt.Sprintf("Copy finished: %d files copied to %s.", msg.copied, m.plan.DestRoot)
		return m, nil

	case spinner.TickMsg:
		if m.phase == PhasePlanning || m.phase == PhaseCopying {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.inputFor != inputNone {
		return m.updateInput(msg)
	}

	if m.phase == PhaseRules {
		return m.updateRuleEditor(msg)
	}

	switch msg.String() {
	case "q":
		if m.phase != PhaseCopying {
			return m, tea.Quit
		}

	case "c":
		if m.canCalculate() {
			return m.startBuild(domain.Selective)
		}
	case "f":
		if m.canCalculate() {
			return m.startBuild(domain.Full)
		}

	case "t":
		if m.canCalculate() {
			m.cfg.AppendTimestamp = !m.cfg.AppendTimestamp
			m.invalidatePlan("Timestamp suffix toggled, recalculate the plan.")
			m.saveConfig()
			return m, nil
		}

	case "s", "d":
		if m.canCalculate() {
			if msg.String() == "s" {
				return m.openInput(inputSource, m.cfg.SourceDir, "Source folder"), textinput.Blink
			}
			return m.openInput(inputDest, m.cfg.DestDir, "Destination folder"), textinput.Blink
		}

	case "e":
		if m.canCalculate() {
			m.phase = PhaseRules
			m.ruleCursor = 0
			m.status = "Edit exclusion rules."
			return m, nil
		}

	case "enter":
		switch m.phase {
		case PhasePreview:
			m.phase = PhaseConfirm
			m.confirmYes = false
			return m, nil
		case PhaseConfirm:
			if m.confirmYes {
				return m.startCopy()
			}
			m.phase = PhasePreview
			return m, nil
		case PhaseDone, PhaseError:
			m.phase = PhaseIdle
			m.err = nil
			m.status = "Pick source and destination, then calculate the copy plan."
			return m, nil
		}

	case "left", "h", "y", "Y":
		if m.phase == PhaseConfirm {
			m.confirmYes = true
			return m, nil
		}
	case "right", "l", "n", "N":
		if m.phase == PhaseConfirm {
			m.confirmYes = false
			return m, nil
		}
	case "esc":
		if m.phase == PhaseConfirm {
			m.phase = PhasePreview
			return m, nil
		}
	}

	if m.phase == PhasePreview {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// canCalculate reports whether triggers that start or invalidate a
// calculation are enabled. They are disabled while a build or copy runs.
func (m Model) canCalculate() bool {
	return m.phase != PhasePlanning && m.phase != PhaseCopying && m.phase != PhaseConfirm
}

func (m Model) openInput(target inputTarget, value, placeholder string) Model {
	m.inputFor = target
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputFor = inputNone
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		target := m.inputFor
		m.inputFor = inputNone
		m.input.Blur()
		return m.commitInput(target, value), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) commitInput(target inputTarget, value string) Model {
	switch target {
	case inputSource:
		m.cfg.SourceDir = value
		m.invalidatePlan("Source changed, recalculate the plan.")
		m.saveConfig()
	case inputDest:
		m.cfg.DestDir = value
		m.invalidatePlan("Destination changed, recalculate the plan.")
		m.saveConfig()
	case inputExact, inputPrefix, inputGlob:
		kind := rules.Exact
		if target == inputPrefix {
			kind = rules.Prefix
		} else if target == inputGlob {
			kind = rules.Glob
		}
		added, err := m.rules.Add(kind, value)
		switch {
		case err != nil:
			m.status = fmt.Sprintf("%s Enter a value to add.", iconWarning)
		case !added:
			m.status = fmt.Sprintf("%s %q is already in the list.", iconWarning, value)
		default:
			m.onRulesChanged()
			m.status = fmt.Sprintf("Added %s rule %q.", kind, value)
		}
	}
	return m
}

func (m Model) updateRuleEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.ruleRows()

	switch msg.String() {
	case "esc", "q":
		m.phase = PhaseIdle
		if m.status == "Edit exclusion rules." {
			m.status = "Pick source and destination, then calculate the copy plan."
		}
		return m, nil
	case "up", "k":
		if m.ruleCursor > 0 {
			m.ruleCursor--
		}
	case "down", "j":
		if m.ruleCursor < len(rows)-1 {
			m.ruleCursor++
		}
	case "x", "d":
		if m.ruleCursor < len(rows) {
			row := rows[m.ruleCursor]
			if m.rules.Remove(row.kind, row.value) {
				m.onRulesChanged()
				m.status = fmt.Sprintf("Removed %s rule %q.", row.kind, row.value)
				if m.ruleCursor >= m.rules.Len() && m.ruleCursor > 0 {
					m.ruleCursor--
				}
			}
		}
	case "a":
		return m.openInput(inputExact, "", "Exact folder name"), textinput.Blink
	case "p":
		return m.openInput(inputPrefix, "", "Folder name prefix"), textinput.Blink
	case "g":
		return m.openInput(inputGlob, "", "Folder name glob"), textinput.Blink
	}
	return m, nil
}

// onRulesChanged persists the edited rules and discards any existing plan.
func (m *Model) onRulesChanged() {
	m.invalidatePlan("Exclusion rules changed, recalculate the plan.")
	m.saveConfig()
}

func (m *Model) invalidatePlan(status string) {
	m.hasPlan = false
	m.session.Reset()
	if m.phase != PhaseRules {
		m.phase = PhaseIdle
	}
	m.status = status
}

func (m *Model) saveConfig() {
	m.cfg.ExcludedExact = m.rules.Exact()
	m.cfg.ExcludedPrefix = m.rules.Prefix()
	m.cfg.ExcludedGlob = m.rules.Glob()
	if err := m.store.Save(m.cfg); err != nil {
		m.status = fmt.Sprintf("%s Could not save settings: %v", iconWarning, err)
	}
}

func (m Model) ruleRows() []ruleRow {
	rows := make([]ruleRow, 0, m.rules.Len())
	for _, v := range m.rules.Exact() {
		rows = append(rows, ruleRow{rules.Exact, v})
	}
	for _, v := range m.rules.Prefix() {
		rows = append(rows, ruleRow{rules.Prefix, v})
	}
	for _, v := range m.rules.Glob() {
		rows = append(rows, ruleRow{rules.Glob, v})
	}
	return rows
}

func (m Model) startBuild(mode domain.Mode) (tea.Model, tea.Cmd) {
	spec := domain.CopySpec{
		SourceRoot:      m.cfg.SourceDir,
		DestRoot:        m.cfg.DestDir,
		Rules:           m.rules,
		Mode:            mode,
		TimestampSuffix: m.cfg.AppendTimestamp,
	}

	task, err := m.session.BuildPlan(spec)
	if err != nil {
		m.status = fmt.Sprintf("%s %v", iconWarning, err)
		return m, nil
	}

	m.phase = PhasePlanning
	m.hasPlan = false
	m.status = fmt.Sprintf("Calculating files (%s mode)...", mode)
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		plan, buildErr := task.Result()
		return planDoneMsg{plan: plan, err: buildErr}
	})
}

func (m Model) startCopy() (tea.Model, tea.Cmd) {
	ch := make(chan domain.Progress, 128)
	onProgress := func(copied, total int) {
		select {
		case ch <- domain.Progress{Copied: copied, Total: total}:
		default:
		}
	}

	task, err := m.session.StartCopy(context.Background(), m.plan, onProgress)
	if err != nil {
		m.status = fmt.Sprintf("%s %v", iconWarning, err)
		return m, nil
	}

	m.phase = PhaseCopying
	m.copied = 0
	m.copyTotal = m.plan.Total
	m.progressCh = ch
	m.status = fmt.Sprintf("Copying 0 / %d files...", m.plan.Total)
	return m, tea.Batch(
		m.spinner.Tick,
		waitProgress(ch),
		func() tea.Msg {
			copied, copyErr := task.Result()
			close(ch)
			return copyDoneMsg{copied: copied, err: copyErr}
		},
	)
}

func waitProgress(ch chan domain.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return copyProgressMsg(p)
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.phase {
	case PhaseIdle:
		b.WriteString(valueStyle.Render(m.status))
	case PhasePlanning:
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), m.status))
	case PhasePreview:
		b.WriteString(m.renderPreview())
	case PhaseConfirm:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmPrompt())
	case PhaseCopying:
		b.WriteString(m.renderCopying())
	case PhaseDone:
		b.WriteString(m.renderDone())
	case PhaseError:
		b.WriteString(m.renderError())
	case PhaseRules:
		b.WriteString(m.renderRuleEditor())
	}

	if m.inputFor != inputNone {
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("procopy")
	subtitle := subtitleStyle.Render("Selective project copies")

	timestamp := "off"
	if m.cfg.AppendTimestamp {
		timestamp = "on"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		labelStyle.Render("Source:")+pathStyle.Render(orUnset(shortenPath(m.cfg.SourceDir))),
		labelStyle.Render("Destination:")+pathStyle.Render(orUnset(shortenPath(m.cfg.DestDir))),
		labelStyle.Render("Timestamp:")+valueStyle.Render(fmt.Sprintf("%s %s", iconToggle, timestamp)),
		labelStyle.Render("Rules:")+valueStyle.Render(fmt.Sprintf("%d exclusion rules", m.rules.Len())),
	)
}

func (m Model) renderPreview() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Planned files (%s mode)", m.plan.Mode)))
	b.WriteString("\n")
	b.WriteString(viewportStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s files to copy to %s",
		countStyle.Render(fmt.Sprintf("%d", m.plan.Total)),
		pathStyle.Render(shortenPath(m.plan.DestRoot)),
	))
	return b.String()
}

func (m Model) renderConfirmPrompt() string {
	prompt := confirmPromptStyle.Render(fmt.Sprintf(
		"Copy %d files? Existing files at the destination will be overwritten.", m.plan.Total))

	var yesBtn, noBtn string
	if m.confirmYes {
		yesBtn = highlightBoxStyle.Render(" Yes ")
		noBtn = boxStyle.Render(" No ")
	} else {
		yesBtn = boxStyle.Render(" Yes ")
		noBtn = highlightBoxStyle.Render(" No ")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yesBtn, "  ", noBtn)
	return lipgloss.JoinVertical(lipgloss.Left, prompt, "", buttons)
}

func (m Model) renderCopying() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Copying files"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.copyTotal > 0 {
		percent = float64(m.copied) / float64(m.copyTotal)
	}

	b.WriteString(fmt.Sprintf("  %s Copying...\n\n", m.spinner.View()))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.copied, m.copyTotal)),
		subtitleStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))
	return b.String()
}

func (m Model) renderDone() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Copy complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n",
		successStyle.Render(iconSuccess),
		successStyle.Render(fmt.Sprintf("Copied %d files.", m.copied)),
	))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		labelStyle.Render("Destination:"),
		pathStyle.Render(shortenPath(m.plan.DestRoot)),
	))
	return b.String()
}

func (m Model) renderError() string {
	return errorBoxStyle.Render(fmt.Sprintf("%s %s",
		errorStyle.Render(iconError),
		errorStyle.Render(m.status),
	))
}

func (m Model) renderRuleEditor() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Exclusion rules"))
	b.WriteString("\n\n")

	rows := m.ruleRows()
	if len(rows) == 0 {
		b.WriteString(subtitleStyle.Render("  No rules. Every folder will be copied."))
		b.WriteString("\n")
	}
	for i, row := range rows {
		cursor := "  "
		if i == m.ruleCursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n",
			cursor,
			ruleKindStyle.Render(string(row.kind)),
			valueStyle.Render(row.value),
		))
	}

	b.WriteString("\n")
	b.WriteString(warningStyle.Render(m.status))
	return b.String()
}

func (m Model) renderHelp() string {
	var help string
	switch m.phase {
	case PhaseIdle:
		help = "c calculate • f full • s/d edit paths • t timestamp • e rules • q quit"
	case PhasePlanning:
		help = "Calculating... please wait"
	case PhasePreview:
		help = "↑/↓ scroll • Enter copy • c/f recalculate • q quit"
	case PhaseConfirm:
		help = "←/→ or y/n select • Enter confirm • Esc back"
	case PhaseCopying:
		help = "Copying files... please wait"
	case PhaseDone, PhaseError:
		help = "Enter to continue • q quit"
	case PhaseRules:
		help = "↑/↓ move • a/p/g add exact/prefix/glob • x remove • Esc back"
	}
	if m.inputFor != inputNone {
		help = "Enter confirm • Esc cancel"
	}
	return helpStyle.Render(help)
}

func previewContent(plan domain.CopyPlan) string {
	paths := plan.RelativePaths()
	lines := make([]string, 0, len(paths))
	for _, path := range paths {
		lines = append(lines, fmt.Sprintf("%s %s", iconFile, path))
	}
	return strings.Join(lines, "\n")
}

func orUnset(path string) string {
	if path == "" {
		return "(not set)"
	}
	return path
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
