package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ronipassion/TrashTrackk/internal/capture"
	"github.com/ronipassion/TrashTrackk/internal/catalog"
	"github.com/ronipassion/TrashTrackk/internal/report"
)

// photoSourceOptions mirrors the original "Selecionar Foto" dialog; Cancelar
// performs no state transition at all.
var photoSourceOptions = []string{"Galeria", "Câmera", "Cancelar"}

// enterAdd opens the add screen with a fresh, empty draft.
func (m *appModel) enterAdd() {
	m.view = viewAdd
	m.captureSeq++
	m.draft = report.Draft{}
	m.photoState = report.CaptureIdle
	m.locationState = report.CaptureIdle
	m.submitting = false
	m.focus = focusTitle
	m.modal = modalNone
	m.minibuffer = ""
	m.titleInput.SetValue("")
	m.titleInput.Focus()
}

// draftDirty reports whether leaving now would throw away user work.
func (m appModel) draftDirty() bool {
	return strings.TrimSpace(m.draft.Title) != "" ||
		m.draft.Photo != "" ||
		m.draft.Coordinate != nil ||
		m.draft.Collection != report.CollectionUnset
}

func (m appModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalNotice:
		return m.updateNotice(msg)
	case modalPhotoSource:
		return m.updatePhotoSource(msg)
	case modalGallery:
		return m.updateGallery(msg)
	case modalConfirmDiscard:
		return m.updateConfirmDiscard(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+s":
		return m.startSubmit()
	case "esc":
		if m.submitting {
			// Back is disabled while a submission is in flight.
			return m, nil
		}
		if m.draftDirty() {
			m.modal = modalConfirmDiscard
			return m, nil
		}
		cmd := m.activatePoints()
		return m, cmd
	case "tab", "down":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.cycleFocus(-1)
		return m, nil
	}

	switch m.focus {
	case focusTitle:
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		m.draft.Title = m.titleInput.Value()
		return m, cmd

	case focusPhoto:
		if key.String() == "enter" || key.String() == " " {
			return m.openPhotoSource()
		}

	case focusLocation:
		if key.String() == "enter" || key.String() == " " {
			return m.startLocation()
		}

	case focusCategory:
		switch key.String() {
		case "left", "1":
			m.draft.Collection = report.CollectionManual
		case "right", "2":
			m.draft.Collection = report.CollectionTruck
		case "enter", " ":
			if m.draft.Collection == report.CollectionManual {
				m.draft.Collection = report.CollectionTruck
			} else {
				m.draft.Collection = report.CollectionManual
			}
		}
		return m, nil

	case focusSubmit:
		if key.String() == "enter" || key.String() == " " {
			return m.startSubmit()
		}
	}
	return m, nil
}

func (m *appModel) cycleFocus(delta int) {
	next := int(m.focus) + delta
	if next < int(focusTitle) {
		next = int(focusSubmit)
	}
	if next > int(focusSubmit) {
		next = int(focusTitle)
	}
	m.focus = addFocus(next)
	if m.focus == focusTitle {
		m.titleInput.Focus()
	} else {
		m.titleInput.Blur()
	}
}

// --- photo acquisition ---

func (m appModel) openPhotoSource() (tea.Model, tea.Cmd) {
	if m.photoState == report.CaptureInProgress {
		// No concurrent duplicate picks.
		return m, nil
	}
	m.modal = modalPhotoSource
	m.sourceIdx = 0
	return m, nil
}

func (m appModel) updatePhotoSource(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc":
		m.modal = modalNone
		return m, nil
	case "left", "up", "shift+tab":
		m.sourceIdx = (m.sourceIdx + len(photoSourceOptions) - 1) % len(photoSourceOptions)
		return m, nil
	case "right", "down", "tab":
		m.sourceIdx = (m.sourceIdx + 1) % len(photoSourceOptions)
		return m, nil
	case "enter", " ":
		switch m.sourceIdx {
		case 0:
			return m.openGallery()
		case 1:
			m.modal = modalNone
			m.photoState = report.CaptureInProgress
			return m, m.cameraCmd(m.captureSeq)
		default:
			// Cancelar: no state transition.
			m.modal = modalNone
			return m, nil
		}
	}
	return m, nil
}

func (m appModel) openGallery() (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.CurrentDirectory = m.deps.PhotosDir
	fp.AllowedTypes = []string{".jpg", ".jpeg", ".png"}
	fp.Height = galleryPickerHeight(m.height)
	m.picker = fp
	m.modal = modalGallery
	return m, m.picker.Init()
}

func (m appModel) updateGallery(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		// Picker dismissed: a first-class cancelled outcome. Silent, and
		// the prior photo (if any) is kept.
		m.modal = modalNone
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.modal = modalNone
		m.photoState = report.CaptureInProgress
		return m, tea.Batch(cmd, galleryCmd(m.captureSeq, path))
	}
	return m, cmd
}

func galleryCmd(seq int, path string) tea.Cmd {
	return func() tea.Msg {
		uri, err := capture.LoadPhoto(path)
		return photoDoneMsg{seq: seq, source: sourceGallery, dataURI: uri, err: err}
	}
}

func (m appModel) cameraCmd(seq int) tea.Cmd {
	cam := m.deps.Camera
	return func() tea.Msg {
		uri, err := cam.Capture(context.Background())
		return photoDoneMsg{seq: seq, source: sourceCamera, dataURI: uri, err: err}
	}
}

func (m appModel) onPhotoDone(msg photoDoneMsg) (tea.Model, tea.Cmd) {
	if m.view != viewAdd || msg.seq != m.captureSeq {
		// The draft this result was meant for is gone.
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, capture.ErrDenied) {
			m.photoState = report.CaptureDenied
			if msg.source == sourceCamera {
				m.openNotice("Erro", "Permissão para usar câmera negada", false)
			} else {
				m.openNotice("Erro", "Permissão para acessar galeria negada", false)
			}
		} else {
			m.photoState = report.CaptureFailed
			if msg.source == sourceCamera {
				m.openNotice("Erro", "Erro ao capturar a foto", false)
			} else {
				m.openNotice("Erro", "Erro ao selecionar a imagem", false)
			}
		}
		return m, nil
	}
	// Overwrite, never merge: the photo field holds the latest success.
	m.draft.Photo = msg.dataURI
	m.photoState = report.CaptureSucceeded
	return m, m.flash("Foto anexada!")
}

// --- location acquisition ---

func (m appModel) startLocation() (tea.Model, tea.Cmd) {
	if m.locationState == report.CaptureInProgress {
		return m, nil
	}
	m.locationState = report.CaptureInProgress
	loc := m.deps.Locator
	seq := m.captureSeq
	return m, func() tea.Msg {
		coord, err := loc.Current(context.Background())
		return locationDoneMsg{seq: seq, coord: coord, err: err}
	}
}

func (m appModel) onLocationDone(msg locationDoneMsg) (tea.Model, tea.Cmd) {
	if m.view != viewAdd || msg.seq != m.captureSeq {
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, capture.ErrDenied) {
			m.locationState = report.CaptureDenied
			m.openNotice("Erro", "Permissão de localização negada", false)
		} else {
			m.locationState = report.CaptureFailed
			m.openNotice("Erro", "Não foi possível obter a localização", false)
		}
		return m, nil
	}
	coord := msg.coord
	// Both components land together or not at all.
	m.draft.Coordinate = &coord
	m.locationState = report.CaptureSucceeded
	return m, m.flash("Localização capturada!")
}

// --- submission ---

func (m appModel) startSubmit() (tea.Model, tea.Cmd) {
	if m.submitting {
		// Single-flight: a second submit while one is in flight is dropped.
		return m, nil
	}
	if !m.draft.Ready() {
		m.openNotice("Erro",
			"Por favor, preencha todos os campos antes de salvar.\nFaltando: "+strings.Join(m.draft.Missing(), ", "),
			false)
		return m, nil
	}

	m.submitting = true
	sub := catalog.Submission{
		Title:          strings.TrimSpace(m.draft.Title),
		PhotoBase64:    m.draft.Photo,
		Latitude:       m.draft.Coordinate.Latitude,
		Longitude:      m.draft.Coordinate.Longitude,
		CollectionType: m.draft.Collection.WireLabel(),
	}
	cat := m.deps.Catalog
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogCallTimeout)
		defer cancel()
		return submitDoneMsg{err: cat.Create(ctx, sub)}
	}
}

func (m appModel) onSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		// Transport failures and application rejections read the same to
		// the user: the failure text, with the draft kept for a retry.
		m.openNotice("Erro ao Salvar", msg.err.Error(), false)
		return m, nil
	}
	m.openNotice("Sucesso", "Novo ponto crítico cadastrado com sucesso!", true)
	return m, nil
}

// --- modals ---

func (m appModel) updateNotice(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "enter", "esc", " ":
		m.modal = modalNone
		if m.noticeReturn {
			m.noticeReturn = false
			// Accepted submit: pop back; the draft dies with the screen.
			cmd := m.activatePoints()
			return m, cmd
		}
	}
	return m, nil
}

func (m appModel) updateConfirmDiscard(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "enter", "y":
		m.modal = modalNone
		cmd := m.activatePoints()
		return m, cmd
	case "esc", "n":
		m.modal = modalNone
	}
	return m, nil
}

// --- rendering ---

func (m appModel) addView() string {
	header := styleHeader().Render("Novo Ponto Crítico")

	rows := []string{
		m.formRow(focusTitle, "Título do Ponto", m.titleInput.View()),
		m.formRow(focusPhoto, "Foto", m.photoRowView()),
		m.formRow(focusLocation, "Localização", m.locationRowView()),
		m.formRow(focusCategory, "Tipo de Coleta", m.categoryRowView()),
		m.formRow(focusSubmit, "", m.submitRowView()),
	}

	footer := styleMuted().Render("tab: campo  enter: acionar  ctrl+s: salvar  esc: voltar")
	if m.minibuffer != "" {
		footer = m.minibuffer + "\n" + footer
	}

	return header + "\n\n" + strings.Join(rows, "\n\n") + "\n\n" + footer
}

func (m appModel) formRow(f addFocus, label, body string) string {
	marker := "  "
	if m.focus == f {
		marker = lipgloss.NewStyle().Foreground(colorAccent).Render("▸ ")
	}
	if label == "" {
		return marker + body
	}
	return marker + lipgloss.NewStyle().Bold(true).Render(label) + "\n  " + body
}

func (m appModel) photoRowView() string {
	switch {
	case m.photoState == report.CaptureInProgress:
		return m.spin.View() + " Processando foto..."
	case m.draft.Photo != "":
		return fmt.Sprintf("[ Trocar Foto ]  %s anexada (%d KB)", "foto", len(m.draft.Photo)/1024)
	default:
		return "[ Anexar Foto ]"
	}
}

func (m appModel) locationRowView() string {
	switch {
	case m.locationState == report.CaptureInProgress:
		return m.spin.View() + " Obtendo localização..."
	case m.draft.Coordinate != nil:
		return fmt.Sprintf("✔ Localização Capturada\n  %s",
			styleMuted().Render(fmt.Sprintf("Lat: %.5f, Lon: %.5f",
				m.draft.Coordinate.Latitude, m.draft.Coordinate.Longitude)))
	default:
		return "[ Obter Localização GPS ]"
	}
}

func (m appModel) categoryRowView() string {
	render := func(c report.CollectionType) string {
		if m.draft.Collection == c {
			return styleSelectedOption().Render(c.ShortLabel())
		}
		return styleOption().Render(c.ShortLabel())
	}
	return render(report.CollectionManual) + " " + render(report.CollectionTruck)
}

func (m appModel) submitRowView() string {
	if m.submitting {
		return m.spin.View() + " Salvando..."
	}
	st := lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorOK).Padding(0, 1)
	return st.Render("Salvar Ponto Crítico")
}

func (m appModel) modalView() string {
	var box string
	switch m.modal {
	case modalPhotoSource:
		var opts []string
		for i, label := range photoSourceOptions {
			if i == m.sourceIdx {
				opts = append(opts, styleSelectedOption().Render(label))
			} else {
				opts = append(opts, styleOption().Render(label))
			}
		}
		box = styleModal().Render("Selecionar Foto\n\n" + strings.Join(opts, " ") + "\n\n" +
			styleMuted().Render("←/→: escolher  enter: confirmar  esc: cancelar"))

	case modalGallery:
		box = styleModal().Render("Galeria: escolha uma imagem\n\n" + m.picker.View() + "\n" +
			styleMuted().Render("enter: selecionar  esc: cancelar"))

	case modalNotice:
		box = styleModal().Render(lipgloss.NewStyle().Bold(true).Render(m.noticeTitle) + "\n\n" +
			m.noticeText + "\n\n" + styleMuted().Render("enter: ok"))

	case modalConfirmDiscard:
		box = styleModal().Render("Descartar o cadastro em andamento?\n\n" +
			styleMuted().Render("enter: descartar  esc: continuar editando"))
	}
	return centered(m, box)
}
