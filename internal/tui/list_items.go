package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/ronipassion/TrashTrackk/internal/catalog"
)

// photoPlaceholder is rendered for records without a hosted photo.
const photoPlaceholder = "Sem Imagem"

type pointItem struct {
	record catalog.Record
}

func (i pointItem) FilterValue() string { return i.record.Title }
func (i pointItem) Title() string       { return i.record.Title }

func (i pointItem) Description() string {
	photo := strings.TrimSpace(i.record.PhotoURL)
	if photo == "" {
		photo = photoPlaceholder
	}
	return "Coleta: " + i.record.CollectionType + "  " + photo
}

// pointDelegate renders one record as a two-line row: title, then the
// collection label (verbatim as the catalog returned it) and photo URL or
// placeholder.
type pointDelegate struct {
	title    lipgloss.Style
	meta     lipgloss.Style
	selected lipgloss.Style
}

func newPointDelegate() pointDelegate {
	return pointDelegate{
		title: lipgloss.NewStyle().Bold(true),
		meta:  styleMuted(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d pointDelegate) Height() int  { return 2 }
func (d pointDelegate) Spacing() int { return 1 }
func (d pointDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d pointDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(pointItem)
	if !ok {
		return
	}

	titleStyle := d.title
	metaStyle := d.meta
	if index == m.Index() {
		titleStyle = d.selected
		metaStyle = d.selected
	}

	fmt.Fprint(w, titleStyle.Render(fitLine(it.Title(), contentW)))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, metaStyle.Render(fitLine(it.Description(), contentW)))
}

// fitLine pads or truncates a rendered line to exactly width cells.
func fitLine(line string, width int) string {
	lineW := xansi.StringWidth(line)
	if lineW < width {
		return line + strings.Repeat(" ", width-lineW)
	}
	if lineW > width {
		return xansi.Cut(line, 0, width)
	}
	return line
}

func newPointsList() list.Model {
	l := list.New([]list.Item{}, newPointDelegate(), 0, 0)
	l.Title = "Pontos Críticos"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	return l
}
