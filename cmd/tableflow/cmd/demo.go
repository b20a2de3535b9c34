package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/go-drift/tableflow/cmd/tableflow/internal/config"
	"github.com/go-drift/tableflow/pkg/cells"
	tferrors "github.com/go-drift/tableflow/pkg/errors"
	"github.com/go-drift/tableflow/pkg/terminal"
)

// NewDemoCommand creates the demo subcommand.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "demo",
		Short:         "Browse the sample table interactively",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(rootOpts)
			if err != nil {
				return err
			}
			m := newDemoModel(cfg, rootOpts.Color)
			_, err = tea.NewProgram(m,
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}

type demoModel struct {
	cfg    *config.Resolved
	color  bool
	keys   keyMap
	sample *sample
	status string

	picker        *cells.Picker
	pickerSurface *terminal.Surface

	titleStyle  lipgloss.Style
	statusStyle lipgloss.Style
}

func newDemoModel(cfg *config.Resolved, color bool) *demoModel {
	m := &demoModel{
		cfg:         cfg,
		color:       color,
		keys:        defaultKeyMap(),
		titleStyle:  lipgloss.NewStyle().Bold(true),
		statusStyle: lipgloss.NewStyle().Faint(true),
	}
	if color {
		m.titleStyle = m.titleStyle.Foreground(terminal.Primary)
		m.statusStyle = m.statusStyle.Foreground(terminal.Muted)
	}
	m.sample = newSample(cfg, surfaceOptions(cfg, cfg.Height, color),
		func(msg string) { m.status = msg },
		m.present,
	)
	return m
}

// present shows p in place of the sample table until it closes.
func (m *demoModel) present(p *cells.Picker) {
	m.picker = p
	m.pickerSurface = terminal.NewSurface(surfaceOptions(m.cfg, m.cfg.Height, m.color))
	p.Attach(m.pickerSurface)
	if _, pos, ok := p.Manager().RowWithID(p.Selected()); ok {
		m.pickerSurface.SetCursor(pos)
	}
}

func (m *demoModel) Init() tea.Cmd { return nil }

// Update handles one key press. A panic while handling the key is reported
// and the key is dropped.
func (m *demoModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	model = m
	defer tferrors.Recover("cmd.demoModel.Update")
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(k, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.picker != nil {
		m.updatePicker(k)
		return m, nil
	}

	surface := m.sample.surface
	switch {
	case key.Matches(k, m.keys.Up):
		surface.MoveCursor(-1)
	case key.Matches(k, m.keys.Down):
		surface.MoveCursor(1)
	case key.Matches(k, m.keys.Tap):
		surface.Tap()
	case key.Matches(k, m.keys.Delete):
		if !surface.Delete() {
			m.status = "This row cannot be deleted"
		}
	case key.Matches(k, m.keys.Add):
		m.sample.add()
	case key.Matches(k, m.keys.Reload):
		m.sample.manager.Reload()
		m.status = "Reloaded"
	}
	return m, nil
}

func (m *demoModel) updatePicker(k tea.KeyMsg) {
	switch {
	case key.Matches(k, m.keys.Up):
		m.pickerSurface.MoveCursor(-1)
	case key.Matches(k, m.keys.Down):
		m.pickerSurface.MoveCursor(1)
	case key.Matches(k, m.keys.Tap):
		m.pickerSurface.Tap()
	case key.Matches(k, m.keys.Cancel):
		m.picker.Cancel()
	}
	if m.picker.Closed() {
		m.picker, m.pickerSurface = nil, nil
	}
}

func (m *demoModel) View() string {
	var b strings.Builder
	b.WriteString(m.titleStyle.Render(m.cfg.Title))
	b.WriteString("\n\n")
	if m.picker != nil {
		b.WriteString(m.pickerSurface.Render())
	} else {
		b.WriteString(m.sample.surface.Render())
	}
	b.WriteString("\n\n")
	status := m.status
	if status == "" {
		status = fmt.Sprintf("%d sites", m.siteCount())
	}
	b.WriteString(m.statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(m.statusStyle.Render(m.keys.help(m.picker != nil)))
	return b.String()
}

func (m *demoModel) siteCount() int {
	n := 0
	for _, r := range m.sample.section.Rows() {
		if r.ReuseKey() == siteCell.ReuseKey {
			n++
		}
	}
	return n
}
