package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const catalogCallTimeout = 30 * time.Second

// activatePoints re-enters the points screen. Every activation restarts the
// fetch from loading, so records created meanwhile appear without a manual
// refresh; bumping refreshSeq invalidates any fetch still in flight.
func (m *appModel) activatePoints() tea.Cmd {
	m.view = viewPoints
	m.refreshSeq++
	m.pointsState = pointsLoading
	m.pointsErr = ""
	return m.refreshCmd(m.refreshSeq)
}

func (m appModel) refreshCmd(seq int) tea.Cmd {
	cat := m.deps.Catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogCallTimeout)
		defer cancel()
		recs, err := cat.List(ctx)
		return pointsLoadedMsg{seq: seq, records: recs, err: err}
	}
}

func (m appModel) onPointsLoaded(msg pointsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.refreshSeq {
		// Superseded by a newer activation; never overwrite its result.
		return m, nil
	}
	if msg.err != nil {
		m.pointsState = pointsErrored
		m.pointsErr = msg.err.Error()
		return m, nil
	}
	if len(msg.records) == 0 {
		m.pointsState = pointsEmpty
		m.pointsList.SetItems(nil)
		return m, nil
	}
	// Server order, keyed by _id; no client-side re-sorting.
	items := make([]list.Item, 0, len(msg.records))
	for _, r := range msg.records {
		items = append(items, pointItem{record: r})
	}
	m.pointsState = pointsPopulated
	m.pointsList.SetItems(items)
	return m, nil
}

func (m appModel) updatePoints(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.pointsList.SettingFilter() {
		switch key.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			// User-initiated refresh; also the retry affordance when errored.
			cmd := m.activatePoints()
			return m, cmd
		case "a", "n":
			m.enterAdd()
			return m, textinput.Blink
		}
	}

	if m.pointsState != pointsPopulated {
		return m, nil
	}
	var cmd tea.Cmd
	m.pointsList, cmd = m.pointsList.Update(msg)
	return m, cmd
}

func (m appModel) pointsView() string {
	header := styleHeader().Render("TrashTrackk")

	var body string
	switch m.pointsState {
	case pointsLoading:
		body = m.spin.View() + " Carregando pontos críticos..."
	case pointsErrored:
		body = styleError().Render("Não foi possível carregar os pontos críticos.") + "\n" +
			styleError().Render(m.pointsErr) + "\n\n" +
			styleMuted().Render("r: tentar novamente")
	case pointsEmpty:
		body = "Nenhum ponto crítico cadastrado ainda.\n" +
			styleMuted().Render("Pressione a para adicionar um!")
	case pointsPopulated:
		body = m.pointsList.View()
	}

	footer := styleMuted().Render("a: novo ponto  r: atualizar  q: sair")
	return strings.Join([]string{header, body, footer}, "\n\n")
}

func galleryPickerHeight(screenH int) int {
	// Leave room for the modal title, borders, and help line.
	h := screenH - 14
	if h < 8 {
		h = 8
	}
	if h > 18 {
		h = 18
	}
	return h
}

func centered(m appModel, box string) string {
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
