// Package tui is the interactive run loop: a full-screen bubbletea program that
// shows everything the application printed and exits on q, esc or ctrl+c.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/germanamz/tandy/cmd/sandbox/internal/styles"
	"github.com/germanamz/tandy/pkg/engine"
	"github.com/germanamz/tandy/pkg/text"
)

// IsDarkBG is detected once before the program starts so glamour never
// queries the terminal while bubbletea owns stdin.
var IsDarkBG = true

const helpMarkdown = `# Sandbox

A demo application hosted by the **Tandy** engine.

| Key | Action |
|---|---|
| ↑ / ↓, pgup / pgdn | scroll |
| ? | toggle this help |
| q, esc, ctrl+c | quit |
`

type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Help, k.Quit}
}

func defaultKeys() keyMap {
	return keyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the root bubbletea model of the run loop.
type Model struct {
	ctx      context.Context
	buf      *text.Buffer
	title    string
	keys     keyMap
	viewport viewport.Model
	ready    bool
	showHelp bool
	rendered int // buffer blocks shown in the viewport
	width    int
	height   int
}

// New creates a Model reading from buf.
func New(ctx context.Context, buf *text.Buffer, title string) Model {
	return Model{
		ctx:   ctx,
		buf:   buf,
		title: title,
		keys:  defaultKeys(),
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.refresh()
			return m, nil
		}

	case tickMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		if m.ready && m.buf.Len() != m.rendered {
			m.refresh()
		}
		return m, tickCmd()
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.statusView())
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := max(m.height-1, 1)
	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.refresh()

	return *m, nil
}

// refresh re-renders the viewport content at the current width.
func (m *Model) refresh() {
	if m.showHelp {
		m.viewport.SetContent(renderHelp(m.width))
		m.viewport.GotoTop()
		return
	}

	blocks := m.buf.Blocks()
	m.rendered = len(blocks)
	m.viewport.SetContent(renderBlocks(blocks, m.width))
}

func renderBlocks(blocks []string, width int) string {
	inner := max(width-styles.BodyStyle.GetHorizontalPadding(), 1)

	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(text.RenderWith(lipgloss.DefaultRenderer(), b, inner))
	}
	return styles.BodyStyle.Render(sb.String())
}

func renderHelp(width int) string {
	style := glamourstyles.LightStyleConfig
	if IsDarkBG {
		style = glamourstyles.DarkStyleConfig
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return styles.HelpBorder.Render(strings.TrimRight(out, "\n"))
}

// hints returns the short key help as plain text.
func (k keyMap) hints() string {
	bindings := k.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// statusView lays out the title on the left and key hints on the right. Widths
// are measured on the unstyled text. The title may carry markup.
func (m Model) statusView() string {
	info := fmt.Sprintf(" · tandy/%s · %3.f%%", engine.Platform, m.viewport.ScrollPercent()*100)
	hints := m.keys.hints()

	gap := max(m.width-text.Width(m.title)-text.Width(info)-text.Width(hints), 1)

	title := styles.TitleStyle.Render(text.RenderWith(lipgloss.DefaultRenderer(), m.title, 0))
	return title + styles.StatusStyle.Render(info) + strings.Repeat(" ", gap) + styles.HintStyle.Render(hints)
}

// Loop runs the Model as the engine's main loop.
type Loop struct {
	Title string
	// Buffer to display. When nil the loop uses env.Text if it is a
	// *text.Buffer.
	Buffer  *text.Buffer
	Options []tea.ProgramOption
}

// Run implements engine.Loop.
func (l Loop) Run(ctx context.Context, env *engine.Env) error {
	buf := l.Buffer
	if buf == nil {
		b, ok := env.Text.(*text.Buffer)
		if !ok {
			return fmt.Errorf("tui: text surface is %T, want *text.Buffer", env.Text)
		}
		buf = b
	}

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, l.Options...)
	p := tea.NewProgram(New(ctx, buf, l.Title), opts...)

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	if env.Log != nil {
		env.Log.Debug("run loop finished", zap.Int("blocks", buf.Len()))
	}
	return nil
}
