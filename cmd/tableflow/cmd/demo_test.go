package cmd

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/tableflow/cmd/tableflow/internal/config"
	tferrors "github.com/go-drift/tableflow/pkg/errors"
)

func newTestDemo(t *testing.T) *demoModel {
	t.Helper()
	cfg, err := config.Resolve(t.TempDir())
	require.NoError(t, err)
	return newDemoModel(cfg, false)
}

func press(m *demoModel, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDemo_TapSite(t *testing.T) {
	m := newTestDemo(t)
	assert.Contains(t, m.View(), "5 sites")

	press(m, keyEnter)
	assert.Equal(t, "Github", m.status)
	_, selected := m.sample.surface.Selected()
	assert.False(t, selected, "site taps deselect")
}

func TestDemo_ToggleSwitch(t *testing.T) {
	m := newTestDemo(t)
	press(m, keyDown, keyDown, keyDown, keyDown, keyDown, keyEnter)

	assert.Equal(t, "Require PC version: false", m.status)
	assert.Contains(t, m.View(), "[off]")
}

func TestDemo_PickAge(t *testing.T) {
	m := newTestDemo(t)
	press(m, keyDown, keyDown, keyDown, keyDown, keyDown, keyDown, keyEnter)

	require.NotNil(t, m.picker)
	assert.Contains(t, m.View(), "✓")
	assert.Contains(t, m.View(), "esc back")

	press(m, keyDown, keyEnter)

	assert.Nil(t, m.picker)
	assert.Equal(t, "20", m.status)
	assert.Contains(t, m.View(), "20 ›")
}

func TestDemo_CancelPicker(t *testing.T) {
	m := newTestDemo(t)
	press(m, keyDown, keyDown, keyDown, keyDown, keyDown, keyDown, keyEnter)
	require.NotNil(t, m.picker)

	press(m, keyEsc)

	assert.Nil(t, m.picker)
	assert.Contains(t, m.View(), "19 ›")
}

func TestDemo_AddAndDelete(t *testing.T) {
	m := newTestDemo(t)

	press(m, runes("a"))
	assert.Equal(t, "Added Site 1", m.status)
	assert.Equal(t, 6, m.siteCount())
	r, ok := m.sample.section.Row(5)
	require.True(t, ok)
	assert.Equal(t, siteCell.ReuseKey, r.ReuseKey())

	press(m, runes("d"))
	assert.Equal(t, "Deleted Github", m.status)
	assert.Equal(t, 5, m.siteCount())
	assert.NotContains(t, m.View(), "https://github.com")
}

func TestDemo_DeleteRefused(t *testing.T) {
	m := newTestDemo(t)
	press(m, keyDown, keyDown, keyDown, keyDown, keyDown, runes("d"))

	assert.Equal(t, "This row cannot be deleted", m.status)
	assert.Equal(t, 5, m.siteCount())
}

func TestDemo_Quit(t *testing.T) {
	m := newTestDemo(t)
	cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

type panicLog struct{ ops []string }

func (l *panicLog) HandleError(*tferrors.TableError)            {}
func (l *panicLog) HandlePanic(err *tferrors.PanicError)        { l.ops = append(l.ops, err.Op) }
func (l *panicLog) HandleCallbackError(*tferrors.CallbackError) {}

func TestDemo_UpdateRecoversPanic(t *testing.T) {
	log := &panicLog{}
	prev := tferrors.SetHandler(log)
	t.Cleanup(func() { tferrors.SetHandler(prev) })

	m := newTestDemo(t)
	m.sample.surface = nil

	var model tea.Model
	require.NotPanics(t, func() { model, _ = m.Update(keyDown) })
	assert.Same(t, m, model)
	assert.Equal(t, []string{"cmd.demoModel.Update"}, log.ops)
}
