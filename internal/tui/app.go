package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ronipassion/TrashTrackk/internal/capture"
	"github.com/ronipassion/TrashTrackk/internal/catalog"
	"github.com/ronipassion/TrashTrackk/internal/report"
)

// Catalog is what the TUI needs from the remote catalog.
type Catalog interface {
	catalog.Creator
	catalog.Lister
}

// Deps are the app's external collaborators: the catalog client and the
// device capability adapters. Tests substitute fakes for all of them.
type Deps struct {
	Catalog Catalog
	Locator capture.Locator
	Camera  capture.CameraGrabber

	// PhotosDir is the root the gallery picker browses.
	PhotosDir string
}

func Run(deps Deps) error {
	applyColorProfilePreference()
	m := newAppModel(deps)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type appModel struct {
	deps Deps

	width  int
	height int

	view view

	// Points screen.
	pointsList  list.Model
	pointsState pointsState
	pointsErr   string
	// refreshSeq is bumped on every screen activation; stale
	// pointsLoadedMsg results are discarded.
	refreshSeq int

	// Add screen. The draft lives for exactly one visit: created on entry,
	// discarded on back navigation or accepted submit. captureSeq identifies
	// the visit; capability results stamped with an older value are dropped.
	captureSeq    int
	draft         report.Draft
	titleInput    textinput.Model
	photoState    report.CaptureState
	locationState report.CaptureState
	submitting    bool
	focus         addFocus

	picker filepicker.Model
	spin   spinner.Model

	modal        modalKind
	noticeTitle  string
	noticeText   string
	noticeReturn bool
	sourceIdx    int

	minibuffer    string
	minibufferSeq int
}

func newAppModel(deps Deps) appModel {
	m := appModel{
		deps:        deps,
		view:        viewPoints,
		pointsState: pointsLoading,
		refreshSeq:  1,
	}

	m.pointsList = newPointsList()

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m.titleInput = textinput.New()
	m.titleInput.Placeholder = "Ex: Lixo acumulado na esquina"
	m.titleInput.CharLimit = 200
	m.titleInput.Width = 48

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.refreshCmd(m.refreshSeq))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case pointsLoadedMsg:
		return m.onPointsLoaded(msg)

	case locationDoneMsg:
		return m.onLocationDone(msg)

	case photoDoneMsg:
		return m.onPhotoDone(msg)

	case submitDoneMsg:
		return m.onSubmitDone(msg)

	case minibufferClearMsg:
		if msg.seq == m.minibufferSeq {
			m.minibuffer = ""
		}
		return m, nil
	}

	switch m.view {
	case viewPoints:
		return m.updatePoints(msg)
	case viewAdd:
		return m.updateAdd(msg)
	default:
		return m, nil
	}
}

func (m appModel) View() string {
	if m.modal != modalNone {
		return m.modalView()
	}
	switch m.view {
	case viewPoints:
		return m.pointsView()
	case viewAdd:
		return m.addView()
	default:
		return ""
	}
}

func (m *appModel) resize() {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.pointsList.SetSize(w, h)
	m.picker.Height = galleryPickerHeight(m.height)
}

// flash shows a short-lived non-blocking note (successful captures). The
// sequence keeps a later flash from being cleared by an earlier timer.
func (m *appModel) flash(text string) tea.Cmd {
	m.minibuffer = text
	m.minibufferSeq++
	seq := m.minibufferSeq
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg { return minibufferClearMsg{seq: seq} })
}

// openNotice shows a blocking acknowledgment modal. returnAfter pops back
// to the points screen once the user dismisses it (post-submit success).
func (m *appModel) openNotice(title, text string, returnAfter bool) {
	m.modal = modalNotice
	m.noticeTitle = title
	m.noticeText = text
	m.noticeReturn = returnAfter
}
