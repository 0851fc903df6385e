package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CK6170/Flatplates-go/cg"
	"github.com/CK6170/Flatplates-go/models"
	"github.com/CK6170/Flatplates-go/modern"
	"github.com/CK6170/Flatplates-go/scale"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:         "tui",
	Short:       "Interactive measurement UI (default)",
	Annotations: map[string]string{interactive: "true"},
	RunE:        runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	p, err := loadParameters()
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(initialModel(p), tea.WithAltScreen()).Run()
	if m, ok := final.(model); ok {
		m.shutdown()
		if m.out != nil && m.saved > 0 {
			fmt.Printf("%d measurement(s) written to %s\n", m.saved, m.out.Path())
		}
	}
	return err
}

type screen int

const (
	screenConnecting screen = iota
	screenOrigins
	screenSampling
	screenResult
)

type model struct {
	scr screen
	p   *models.PARAMETERS

	sess *modern.Session
	out  *modern.CSVWriter

	xInput textinput.Model
	yInput textinput.Model
	focus  int
	xo, yo cg.Origin

	set    modern.SampleSet
	live   [3]scale.Reading
	alive  [3]bool
	result *modern.Measurement
	saved  int

	lastErr  error
	infoLine string
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	valueStyle = lipgloss.NewStyle().Bold(true).Width(14).Align(lipgloss.Right)
)

func initialModel(p *models.PARAMETERS) model {
	xi := textinput.New()
	xi.Placeholder = "0.15, 0.14, 0.13"
	xi.CharLimit = 64
	xi.Width = 40
	xi.SetValue(originInputText(p.XDOM))
	xi.Focus()

	yi := textinput.New()
	yi.Placeholder = "0.15, 0.14, 0.13"
	yi.CharLimit = 64
	yi.Width = 40
	yi.SetValue(originInputText(p.YDOM))

	return model{scr: screenConnecting, p: p, xInput: xi, yInput: yi}
}

type errMsg struct{ err error }
type connectedMsg struct {
	sess *modern.Session
	out  *modern.CSVWriter
}
type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.connectCmd())
}

func (m model) connectCmd() tea.Cmd {
	p := m.p
	return func() tea.Msg {
		sess, err := modern.Connect(context.Background(), p, logger)
		if err != nil {
			return errMsg{err: err}
		}
		out, err := modern.NewCSVWriter(p.OUTDIR, time.Now())
		if err != nil {
			_ = sess.Close()
			return errMsg{err: err}
		}
		return connectedMsg{sess: sess, out: out}
	}
}

func tick() tea.Cmd {
	return tea.Tick(modern.DefaultCaptureInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
		switch m.scr {
		case screenConnecting:
			if msg.String() == "q" {
				return m, tea.Quit
			}
		case screenOrigins:
			return m.updateOriginsKey(msg)
		case screenSampling:
			return m.updateSamplingKey(msg)
		case screenResult:
			return m.updateResultKey(msg)
		}
		return m, nil

	case errMsg:
		m.lastErr = msg.err
		return m, nil

	case connectedMsg:
		m.sess = msg.sess
		m.out = msg.out
		m.scr = screenOrigins
		m.lastErr = nil
		m.infoLine = fmt.Sprintf("Connected (%s). Writing to %s", strings.Join(m.sess.Ports[:], ", "), m.out.Path())
		return m, tick()

	case tickMsg:
		if m.sess == nil {
			return m, nil
		}
		m.live = m.sess.Snapshot()
		m.alive = m.sess.Running()
		return m, tick()
	}

	var cmd tea.Cmd
	if m.scr == screenOrigins {
		if m.focus == 0 {
			m.xInput, cmd = m.xInput.Update(msg)
		} else {
			m.yInput, cmd = m.yInput.Update(msg)
		}
	}
	return m, cmd
}

func (m model) updateOriginsKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "tab", "shift+tab", "up", "down":
		m.focus = 1 - m.focus
		if m.focus == 0 {
			m.yInput.Blur()
			return m, m.xInput.Focus()
		}
		m.xInput.Blur()
		return m, m.yInput.Focus()
	case "enter":
		x, err := parseOriginInput(m.xInput.Value())
		if err != nil {
			m.lastErr = fmt.Errorf("x_dom: %w", err)
			return m, nil
		}
		y, err := parseOriginInput(m.yInput.Value())
		if err != nil {
			m.lastErr = fmt.Errorf("y_dom: %w", err)
			return m, nil
		}
		m.xo, m.yo = x, y
		m.set.Reset()
		m.result = nil
		m.lastErr = nil
		m.scr = screenSampling
		return m, nil
	case "esc":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	if m.focus == 0 {
		m.xInput, cmd = m.xInput.Update(k)
	} else {
		m.yInput, cmd = m.yInput.Update(k)
	}
	return m, cmd
}

func (m model) updateSamplingKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "b", "esc":
		m.set.Reset()
		m.scr = screenOrigins
		return m, nil
	case "enter":
		if err := m.set.Add(m.sess.Snapshot()); err != nil {
			m.lastErr = err
			return m, nil
		}
		if !m.set.Complete() {
			return m, nil
		}
		res, err := modern.EvaluateSet(&m.set, m.xo, m.yo, m.p.Constants())
		if err != nil {
			logger.Warn("evaluate", zap.Error(err), zap.Any("events", m.set.Events()))
			m.lastErr = fmt.Errorf("could not compute center of gravity: %w", err)
			m.set.Reset()
			return m, nil
		}
		if err := m.out.Write(res); err != nil {
			m.lastErr = fmt.Errorf("write %s: %w", m.out.Path(), err)
		} else {
			m.saved++
			m.infoLine = fmt.Sprintf("Saved set %d to %s", m.saved, m.out.Path())
		}
		m.result = res
		m.scr = screenResult
	}
	return m, nil
}

func (m model) updateResultKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "enter", "y":
		m.set.Reset()
		m.scr = screenSampling
	case "o":
		m.scr = screenOrigins
	case "n", "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("=== FlatPlates CoG Calculator ===") + "\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("g = %v m/s^2   L = %v m   Ctrl+C to quit", m.p.GRAVITY, m.p.DISTANCE)) + "\n\n")
	if m.infoLine != "" {
		b.WriteString(okStyle.Render(m.infoLine) + "\n")
	}
	if m.lastErr != nil {
		b.WriteString(errStyle.Render("Error: "+m.lastErr.Error()) + "\n")
	}
	b.WriteString("\n")

	switch m.scr {
	case screenConnecting:
		b.WriteString(m.viewConnecting())
	case screenOrigins:
		b.WriteString(m.viewOrigins())
	case screenSampling:
		b.WriteString(m.viewSampling())
	case screenResult:
		b.WriteString(m.viewResult())
	}
	return b.String()
}

func (m model) viewConnecting() string {
	if m.lastErr != nil {
		return helpStyle.Render("Press q to quit.") + "\n"
	}
	ports := m.p.Ports()
	return fmt.Sprintf("Connecting scales on %s...\n", strings.Join(ports[:], ", "))
}

func (m model) viewOrigins() string {
	var b strings.Builder
	b.WriteString("x_dom (m):\n")
	b.WriteString(m.xInput.View() + "\n\n")
	b.WriteString("y_dom (m):\n")
	b.WriteString(m.yInput.View() + "\n\n")
	b.WriteString(helpStyle.Render("One value for all sample positions or three comma separated values. Tab switches field, Enter continues.") + "\n")
	return b.String()
}

func (m model) viewSampling() string {
	var b strings.Builder
	n := m.set.Len()
	if n < len(modern.EventPrompts) {
		b.WriteString(modern.EventPrompts[n] + "\n\n")
	}
	for i, name := range models.ScaleNames {
		status := okStyle.Render("live")
		if !m.alive[i] {
			status = errStyle.Render("stopped")
		}
		r := m.live[i]
		b.WriteString(fmt.Sprintf("  Scale %s  %s %-3s  %s\n", name, valueStyle.Render(fmt.Sprintf("%.4f", r.Value)), r.Unit, status))
	}
	b.WriteString("\n")
	for i, ev := range m.set.Events() {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  reading %d: %s", i+1, readingsText(ev))) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("Enter captures the current readings. b goes back to the origins.") + "\n")
	return b.String()
}

func (m model) viewResult() string {
	var b strings.Builder
	r := m.result
	if r == nil {
		return ""
	}
	b.WriteString(titleStyle.Render("Center of gravity (m)") + "\n")
	for i, axis := range []string{"x", "y", "z"} {
		pair := r.CG.Pairs()[i]
		b.WriteString(fmt.Sprintf("  %s1 %s   %s2 %s\n", axis, valueStyle.Render(fmt.Sprintf("%.5f", pair[0])), axis, valueStyle.Render(fmt.Sprintf("%.5f", pair[1]))))
	}
	b.WriteString("\n" + titleStyle.Render("Masses (kg)") + "\n")
	for i, name := range models.ScaleNames {
		t := r.Masses[i]
		b.WriteString(fmt.Sprintf("  Scale %s  %.4f %.4f %.4f  total %.4f\n", name, t[0], t[1], t[2], r.Totals[i]))
	}
	b.WriteString(fmt.Sprintf("  Average total %.4f\n", r.AvgTotal))
	b.WriteString(fmt.Sprintf("  x_dom %s   y_dom %s\n\n", triadText(r.XDom), triadText(r.YDom)))
	b.WriteString(helpStyle.Render("Take another set of readings? Enter/y: yes, o: change origins, n: quit.") + "\n")
	return b.String()
}

func (m *model) shutdown() {
	if m.sess != nil {
		if err := m.sess.Close(); err != nil {
			logger.Warn("closing scales", zap.Error(err))
		}
		m.sess = nil
	}
	if m.out != nil {
		_ = m.out.Close()
	}
}

func parseOriginInput(s string) (cg.Origin, error) {
	v, err := models.ParseOrigin(s)
	if err != nil {
		return cg.Origin{}, err
	}
	return v.Origin()
}

func originInputText(o models.OriginValue) string {
	if len(o) == 0 {
		return "0"
	}
	parts := make([]string, len(o))
	for i, v := range o {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, ", ")
}
