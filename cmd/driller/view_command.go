package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"driller/internal/capture"
	"driller/internal/channelview"
	"driller/internal/config"
	"driller/internal/logging"
	"driller/internal/timeline"
)

const (
	viewerCellHeight = 10
	viewerChromeRows = 6
	viewerMinRows    = 4
	viewerHelp       = "←/→ frame  pgup/pgdn page  ↑/↓ row  n/p annotation  1-9 toggle  r reload  q quit"
)

var (
	viewerHeaderStyle = lipgloss.NewStyle().Bold(true)
	viewerHelpStyle   = lipgloss.NewStyle().Faint(true)
	viewerErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
)

// captureChangedMsg is delivered when the capture database changes on disk.
type captureChangedMsg struct{}

type viewerModel struct {
	ctx     context.Context
	session *capture.Session
	view    *channelview.View
	changes <-chan struct{}

	maxValue     float64
	framesInView int64
	rows         int
	rightmost    int64
	cursor       int64
	hoverRow     int
	color        bool

	status string
	err    error
}

func newViewerModel(ctx context.Context, cfg *config.Config, session *capture.Session, color bool) *viewerModel {
	m := &viewerModel{
		ctx:          ctx,
		session:      session,
		view:         newSessionView(cfg, session),
		maxValue:     cfg.View.MaxValue,
		framesInView: int64(cfg.View.FramesInView),
		rows:         12,
		rightmost:    session.Capture.EndFrame,
		cursor:       session.Capture.EndFrame,
		color:        color,
	}
	m.applyGeometry()
	m.refresh()
	return m
}

func newViewCommand(ctx *commandContext) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "view <capture>",
		Short: "Browse a capture interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, args[0], func(ctx context.Context, store *capture.Store, session *capture.Session) error {
				out := cmd.OutOrStdout()
				model := newViewerModel(ctx, cfg, session, !noColor && shouldColorize(out))

				watcher, err := store.Watch(ctx)
				if err != nil {
					logging.WithContext(ctx, session.Logger()).Warn("capture watch unavailable", logging.Error(err))
				} else {
					defer watcher.Close()
					model.changes = watcher.Changes()
				}

				program := tea.NewProgram(model,
					tea.WithAltScreen(),
					tea.WithContext(ctx),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(out),
				)
				if _, err := program.Run(); err != nil {
					if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
						return nil
					}
					return fmt.Errorf("run viewer: %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}

func (m *viewerModel) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *viewerModel) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return captureChangedMsg{}
	}
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.framesInView = int64(msg.Width)
		}
		m.rows = max(viewerMinRows, msg.Height-viewerChromeRows)
		m.hoverRow = min(m.hoverRow, m.rows-1)
		m.applyGeometry()
	case captureChangedMsg:
		m.reload()
		cmd = m.waitForChange()
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.cursor--
		case "right", "l":
			m.cursor++
		case "pgup":
			m.cursor -= m.framesInView
		case "pgdown":
			m.cursor += m.framesInView
		case "home", "g":
			m.cursor = m.session.Capture.BeginFrame
		case "end", "G":
			m.cursor = m.session.Capture.EndFrame
		case "up", "k":
			m.hoverRow = max(0, m.hoverRow-1)
		case "down", "j":
			m.hoverRow = min(m.rows-1, m.hoverRow+1)
		case "n":
			m.jumpAnnotation(true)
		case "p":
			m.jumpAnnotation(false)
		case "r":
			m.reload()
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				m.toggleChannel(int(key[0] - '1'))
			}
		}
	}
	m.refresh()
	return m, cmd
}

func (m *viewerModel) View() string {
	var b strings.Builder
	c := m.session.Capture
	b.WriteString(viewerHeaderStyle.Render(fmt.Sprintf("%s (%s)  frame %d of %d-%d",
		c.Name, c.ShortID(), m.cursor, c.BeginFrame, c.EndFrame)))
	b.WriteByte('\n')

	opts := timelineRenderOptions(m.session, m.rows, m.color)
	opts.ShowCursor = true
	opts.Cursor = m.cursor
	b.WriteString(timeline.Render(m.view, m.session.Index, opts))

	if m.err != nil {
		b.WriteString(viewerErrorStyle.Render("error: " + m.err.Error()))
	} else {
		b.WriteString(m.status)
	}
	b.WriteByte('\n')
	b.WriteString(viewerHelpStyle.Render(viewerHelp))
	return b.String()
}

// applyGeometry sizes points so one point fills one text row.
func (m *viewerModel) applyGeometry() {
	g := m.view.Geometry()
	g.Height = float64(m.rows * viewerCellHeight)
	g.PointHeight = viewerCellHeight
	if m.maxValue > 0 {
		g.MaxValue = m.maxValue
	} else {
		g.MaxValue = capture.MaxValue(m.session.Series)
	}
	m.view.SetGeometry(g)
}

// refresh clamps the cursor, scrolls the window to keep it visible, and
// recomputes the hover highlight.
func (m *viewerModel) refresh() {
	c := m.session.Capture
	m.cursor = min(max(m.cursor, c.BeginFrame), c.EndFrame)
	span := max(m.framesInView, 1)
	if m.cursor > m.rightmost {
		m.rightmost = m.cursor
	}
	if m.cursor < m.rightmost-span+1 {
		m.rightmost = m.cursor + span - 1
	}
	vp := sessionViewport(m.session, span)
	vp.Rightmost = m.rightmost
	m.view.Recalculate(vp)
	if _, last, ok := m.view.CachedRange(); ok {
		m.rightmost = last
	}

	y := (float64(m.hoverRow) + 0.5) * viewerCellHeight
	hit := m.view.HighlightAt(m.cursor, y)
	status := fmt.Sprintf("row %d ≈ %.3g", m.hoverRow, m.view.Geometry().ValueAt(y))
	if desc := timeline.Describe(hit, channelNames(m.session)); desc != "" {
		status += "  " + desc
	}
	for _, a := range m.session.Index.AtFrame(m.cursor) {
		status += "  ▲ " + a.Text
	}
	m.status = status
}

func (m *viewerModel) jumpAnnotation(forward bool) {
	all := m.session.Index.All()
	if forward {
		for _, a := range all {
			if a.FrameIndex > m.cursor {
				m.cursor = a.FrameIndex
				return
			}
		}
		return
	}
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].FrameIndex < m.cursor {
			m.cursor = all[i].FrameIndex
			return
		}
	}
}

func (m *viewerModel) toggleChannel(i int) {
	if i >= len(m.session.Series) {
		return
	}
	name := m.session.Series[i].Channel
	provider := m.session.Provider
	provider.SetChannelEnabled(name, !provider.IsChannelEnabled(name))
	m.view.DirtyGraphData()
	m.err = m.session.SaveChannel(m.ctx, name)
}

func (m *viewerModel) reload() {
	if err := m.session.Reload(m.ctx); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.view.SetAggregators(m.session.Aggregators()...)
	m.applyGeometry()
}
