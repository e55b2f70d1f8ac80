package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ronipassion/TrashTrackk/internal/capture"
	"github.com/ronipassion/TrashTrackk/internal/catalog"
	"github.com/ronipassion/TrashTrackk/internal/report"
)

type fakeCatalog struct {
	mu      sync.Mutex
	creates []catalog.Submission
	crErr   error

	records []catalog.Record
	listErr error
	lists   int
}

func (f *fakeCatalog) Create(_ context.Context, s catalog.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, s)
	return f.crErr
}

func (f *fakeCatalog) List(context.Context) ([]catalog.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return f.records, f.listErr
}

func (f *fakeCatalog) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

type fakeLocator struct {
	coord report.Coordinate
	err   error
}

func (f fakeLocator) Current(context.Context) (report.Coordinate, error) {
	return f.coord, f.err
}

type fakeCamera struct {
	uri string
	err error
}

func (f fakeCamera) Capture(context.Context) (string, error) {
	return f.uri, f.err
}

func newTestModel(cat *fakeCatalog) appModel {
	if cat == nil {
		cat = &fakeCatalog{}
	}
	m := newAppModel(Deps{
		Catalog:   cat,
		Locator:   fakeLocator{coord: report.Coordinate{Latitude: -23.5, Longitude: -46.6}},
		Camera:    fakeCamera{uri: "data:image/jpeg;base64,cam"},
		PhotosDir: "/tmp",
	})
	m.width = 80
	m.height = 24
	return m
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		var km tea.KeyMsg
		switch k {
		case "enter":
			km = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			km = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			km = tea.KeyMsg{Type: tea.KeyTab}
		case "ctrl+s":
			km = tea.KeyMsg{Type: tea.KeyCtrlS}
		default:
			km = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(km)
		m = next.(appModel)
	}
	return m
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(appModel), cmd
}

func TestPointsLoadOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		records []catalog.Record
		err     error
		want    pointsState
	}{
		{"populated", []catalog.Record{{ID: "1", Title: "Lixo na esquina"}}, nil, pointsPopulated},
		{"empty is not an error", nil, nil, pointsEmpty},
		{"errored", nil, errors.New("falha de rede"), pointsErrored},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(nil)
			m, _ = update(t, m, pointsLoadedMsg{seq: m.refreshSeq, records: tt.records, err: tt.err})
			if m.pointsState != tt.want {
				t.Fatalf("pointsState = %d, want %d", m.pointsState, tt.want)
			}
		})
	}
}

func TestPointsPreservesServerOrder(t *testing.T) {
	recs := []catalog.Record{
		{ID: "b", Title: "Segundo criado"},
		{ID: "a", Title: "Primeiro criado"},
		{ID: "c", Title: "Terceiro criado"},
	}
	m := newTestModel(nil)
	m, _ = update(t, m, pointsLoadedMsg{seq: m.refreshSeq, records: recs})

	items := m.pointsList.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for i, r := range recs {
		if got := items[i].(pointItem).record.ID; got != r.ID {
			t.Fatalf("item %d = %q, want %q", i, got, r.ID)
		}
	}
}

func TestStaleRefreshDiscarded(t *testing.T) {
	m := newTestModel(nil)
	staleSeq := m.refreshSeq

	// A new activation supersedes the in-flight fetch.
	var mp appModel = m
	_ = (&mp).activatePoints()
	m = mp

	m, _ = update(t, m, pointsLoadedMsg{seq: staleSeq, records: []catalog.Record{{ID: "old"}}})
	if m.pointsState != pointsLoading {
		t.Fatalf("stale result applied: pointsState = %d, want loading", m.pointsState)
	}

	m, _ = update(t, m, pointsLoadedMsg{seq: m.refreshSeq, records: []catalog.Record{{ID: "new"}}})
	if m.pointsState != pointsPopulated {
		t.Fatalf("fresh result not applied")
	}
	if got := m.pointsList.Items()[0].(pointItem).record.ID; got != "new" {
		t.Fatalf("got %q, want the fresh record", got)
	}
}

func TestRetryRefetches(t *testing.T) {
	m := newTestModel(nil)
	m, _ = update(t, m, pointsLoadedMsg{seq: m.refreshSeq, err: errors.New("boom")})
	prev := m.refreshSeq

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(appModel)
	if m.refreshSeq != prev+1 {
		t.Fatalf("refreshSeq = %d, want %d", m.refreshSeq, prev+1)
	}
	if m.pointsState != pointsLoading {
		t.Fatalf("retry did not re-enter loading")
	}
	if cmd == nil {
		t.Fatalf("retry returned no fetch command")
	}
}

func TestEnterAddResetsDraft(t *testing.T) {
	m := newTestModel(nil)
	m = press(t, m, "a")
	if m.view != viewAdd {
		t.Fatalf("view = %d, want add", m.view)
	}
	if m.draft.Ready() {
		t.Fatalf("fresh draft must not be submit-ready")
	}

	// Fill, leave, re-enter: a new empty draft each visit.
	m.draft.Title = "algo"
	m.modal = modalNone
	m = press(t, m, "esc", "enter") // dirty draft: confirm discard
	if m.view != viewPoints {
		t.Fatalf("discard did not return to points")
	}
	m = press(t, m, "a")
	if m.draft.Title != "" {
		t.Fatalf("draft survived re-entry: %q", m.draft.Title)
	}
}

func TestEscOnCleanDraftReturnsImmediately(t *testing.T) {
	m := newTestModel(nil)
	m = press(t, m, "a", "esc")
	if m.view != viewPoints {
		t.Fatalf("clean draft should not need a discard confirmation")
	}
}

func TestValidationBlocksNetwork(t *testing.T) {
	cat := &fakeCatalog{}
	m := newTestModel(cat)
	m = press(t, m, "a", "ctrl+s")

	if cat.createCount() != 0 {
		t.Fatalf("incomplete draft reached the network")
	}
	if m.modal != modalNotice {
		t.Fatalf("no validation notice shown")
	}
	for _, field := range []string{"título", "foto", "localização", "tipo de coleta"} {
		if !strings.Contains(m.noticeText, field) {
			t.Fatalf("notice %q missing field %q", m.noticeText, field)
		}
	}
}

func readyModel(t *testing.T, cat *fakeCatalog) appModel {
	t.Helper()
	m := newTestModel(cat)
	m = press(t, m, "a")
	m.draft = report.Draft{
		Title:      "Lixo acumulado",
		Photo:      "data:image/jpeg;base64,abc",
		Coordinate: &report.Coordinate{Latitude: -23.5, Longitude: -46.6},
		Collection: report.CollectionManual,
	}
	return m
}

func TestSubmitSingleFlight(t *testing.T) {
	cat := &fakeCatalog{}
	m := readyModel(t, cat)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(appModel)
	if cmd == nil {
		t.Fatalf("no submit command issued")
	}
	if !m.submitting {
		t.Fatalf("submitting flag not set")
	}

	// Second attempt while the first is in flight.
	_, cmd2 := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd2 != nil {
		t.Fatalf("duplicate submit issued a second command")
	}

	if msg := cmd(); msg == nil {
		t.Fatalf("submit command produced no message")
	}
	if cat.createCount() != 1 {
		t.Fatalf("Create called %d times, want 1", cat.createCount())
	}
}

func TestSubmitSendsWireLabels(t *testing.T) {
	cat := &fakeCatalog{}
	m := readyModel(t, cat)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	cmd()

	if got := cat.creates[0].CollectionType; got != "manual - segunda a sábado" {
		t.Fatalf("CollectionType = %q", got)
	}
	if cat.creates[0].Latitude != -23.5 || cat.creates[0].Longitude != -46.6 {
		t.Fatalf("coordinate not forwarded: %+v", cat.creates[0])
	}
}

func TestSubmitRejectedKeepsDraft(t *testing.T) {
	cat := &fakeCatalog{crErr: &catalog.RejectedError{Reason: "internal error"}}
	m := readyModel(t, cat)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(appModel)
	m, _ = update(t, m, cmd())

	if m.submitting {
		t.Fatalf("submitting flag not cleared after failure")
	}
	if m.modal != modalNotice || !strings.Contains(m.noticeText, "internal error") {
		t.Fatalf("failure notice = %q", m.noticeText)
	}
	if m.noticeReturn {
		t.Fatalf("failure must not pop back to points")
	}

	// Dismissing the notice leaves every field intact for a retry.
	m = press(t, m, "enter")
	if m.view != viewAdd || !m.draft.Ready() {
		t.Fatalf("draft not retained after rejected submit")
	}
}

func TestSubmitAcceptedReturnsAndRefreshes(t *testing.T) {
	cat := &fakeCatalog{}
	m := readyModel(t, cat)
	prevSeq := m.refreshSeq

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(appModel)
	m, _ = update(t, m, cmd())

	if m.modal != modalNotice || !strings.Contains(m.noticeText, "sucesso") {
		t.Fatalf("success notice = %q", m.noticeText)
	}

	m = press(t, m, "enter")
	if m.view != viewPoints {
		t.Fatalf("accepted submit did not return to the points screen")
	}
	if m.refreshSeq != prevSeq+1 {
		t.Fatalf("return did not trigger a fresh fetch")
	}
	if m.pointsState != pointsLoading {
		t.Fatalf("points screen did not re-enter loading")
	}
}

func TestLocationOutcomes(t *testing.T) {
	t.Run("success sets both components atomically", func(t *testing.T) {
		m := newTestModel(nil)
		m = press(t, m, "a")
		m, _ = update(t, m, locationDoneMsg{seq: m.captureSeq, coord: report.Coordinate{Latitude: 1.5, Longitude: 2.5}})
		if m.draft.Coordinate == nil {
			t.Fatalf("coordinate not set")
		}
		if m.draft.Coordinate.Latitude != 1.5 || m.draft.Coordinate.Longitude != 2.5 {
			t.Fatalf("coordinate = %+v", m.draft.Coordinate)
		}
		if m.locationState != report.CaptureSucceeded {
			t.Fatalf("locationState = %v", m.locationState)
		}
	})

	t.Run("denied", func(t *testing.T) {
		m := newTestModel(nil)
		m = press(t, m, "a")
		m, _ = update(t, m, locationDoneMsg{seq: m.captureSeq, err: capture.ErrDenied})
		if m.locationState != report.CaptureDenied {
			t.Fatalf("locationState = %v", m.locationState)
		}
		if !strings.Contains(m.noticeText, "Permissão de localização negada") {
			t.Fatalf("notice = %q", m.noticeText)
		}
		if m.draft.Coordinate != nil {
			t.Fatalf("denied capture must leave the coordinate unset")
		}
	})

	t.Run("failed", func(t *testing.T) {
		m := newTestModel(nil)
		m = press(t, m, "a")
		m, _ = update(t, m, locationDoneMsg{seq: m.captureSeq, err: errors.New("gps timeout")})
		if m.locationState != report.CaptureFailed {
			t.Fatalf("locationState = %v", m.locationState)
		}
		if !strings.Contains(m.noticeText, "Não foi possível obter a localização") {
			t.Fatalf("notice = %q", m.noticeText)
		}
	})

	t.Run("re-entrant after denial", func(t *testing.T) {
		m := newTestModel(nil)
		m = press(t, m, "a")
		m, _ = update(t, m, locationDoneMsg{seq: m.captureSeq, err: capture.ErrDenied})
		m = press(t, m, "enter") // dismiss notice
		m.focus = focusLocation
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = next.(appModel)
		if m.locationState != report.CaptureInProgress || cmd == nil {
			t.Fatalf("denied state did not allow a retry")
		}
	})
}

func TestLocationInProgressSuppressesDuplicate(t *testing.T) {
	m := newTestModel(nil)
	m = press(t, m, "a")
	m.focus = focusLocation

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(appModel)
	if cmd == nil {
		t.Fatalf("first request issued no command")
	}
	_, cmd2 := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd2 != nil {
		t.Fatalf("second request while in progress issued a command")
	}
}

func TestPhotoOutcomes(t *testing.T) {
	t.Run("success overwrites previous photo", func(t *testing.T) {
		m := newTestModel(nil)
		m = press(t, m, "a")
		m.draft.Photo = "data:image/jpeg;base64,old"
		m, _ = update(t, m, photoDoneMsg{seq: m.captureSeq, source: sourceGallery, dataURI: "data:image/jpeg;base64,new"})
		if m.draft.Photo != "data:image/jpeg;base64,new" {
			t.Fatalf("photo = %q", m.draft.Photo)
		}
		if m.photoState != report.CaptureSucceeded {
			t.Fatalf("photoState = %v", m.photoState)
		}
		if m.minibuffer != "Foto anexada!" {
			t.Fatalf("minibuffer = %q", m.minibuffer)
		}
	})

	t.Run("camera denied", func(t *testing.T) {
		m := newTestModel(nil)
		m = press(t, m, "a")
		m, _ = update(t, m, photoDoneMsg{seq: m.captureSeq, source: sourceCamera, err: capture.ErrDenied})
		if !strings.Contains(m.noticeText, "Permissão para usar câmera negada") {
			t.Fatalf("notice = %q", m.noticeText)
		}
	})

	t.Run("gallery denied", func(t *testing.T) {
		m := newTestModel(nil)
		m = press(t, m, "a")
		m, _ = update(t, m, photoDoneMsg{seq: m.captureSeq, source: sourceGallery, err: capture.ErrDenied})
		if !strings.Contains(m.noticeText, "Permissão para acessar galeria negada") {
			t.Fatalf("notice = %q", m.noticeText)
		}
	})

	t.Run("failure keeps previous photo", func(t *testing.T) {
		m := newTestModel(nil)
		m = press(t, m, "a")
		m.draft.Photo = "data:image/jpeg;base64,old"
		m, _ = update(t, m, photoDoneMsg{seq: m.captureSeq, source: sourceCamera, err: errors.New("camera crashed")})
		if m.draft.Photo != "data:image/jpeg;base64,old" {
			t.Fatalf("failed capture clobbered the photo")
		}
		if !strings.Contains(m.noticeText, "Erro ao capturar a foto") {
			t.Fatalf("notice = %q", m.noticeText)
		}
	})
}

func TestGalleryCancelIsSilent(t *testing.T) {
	m := newTestModel(nil)
	m = press(t, m, "a")
	m.draft.Photo = "data:image/jpeg;base64,old"
	m.focus = focusPhoto
	m = press(t, m, "enter") // open source dialog
	if m.modal != modalPhotoSource {
		t.Fatalf("source dialog not opened")
	}
	m = press(t, m, "enter") // Galeria
	if m.modal != modalGallery {
		t.Fatalf("gallery not opened")
	}
	m = press(t, m, "esc")
	if m.modal != modalNone {
		t.Fatalf("cancel did not close the gallery")
	}
	if m.draft.Photo != "data:image/jpeg;base64,old" {
		t.Fatalf("cancel clobbered the photo")
	}
	if m.minibuffer != "" || m.noticeText != "" {
		t.Fatalf("cancel must be silent, got %q / %q", m.minibuffer, m.noticeText)
	}
}

func TestPhotoSourceCancelOption(t *testing.T) {
	m := newTestModel(nil)
	m = press(t, m, "a")
	m.focus = focusPhoto
	m = press(t, m, "enter")
	m = press(t, m, "right", "right", "enter") // Cancelar
	if m.modal != modalNone {
		t.Fatalf("Cancelar did not close the dialog")
	}
	if m.photoState != report.CaptureIdle {
		t.Fatalf("Cancelar changed the capture state: %v", m.photoState)
	}
}

func TestLateCapabilityResultAfterLeavingAdd(t *testing.T) {
	m := newTestModel(nil)
	m = press(t, m, "a", "esc") // clean draft: straight back to points

	m, _ = update(t, m, locationDoneMsg{seq: m.captureSeq, coord: report.Coordinate{Latitude: 9, Longitude: 9}})
	if m.modal != modalNone || m.minibuffer != "" {
		t.Fatalf("late location result surfaced on the points screen")
	}
	m, _ = update(t, m, photoDoneMsg{seq: m.captureSeq, source: sourceCamera, dataURI: "data:image/jpeg;base64,late"})
	if m.draft.Photo != "" {
		t.Fatalf("late photo result mutated a dead draft")
	}
}

func TestLateCapabilityResultAfterReenteringAdd(t *testing.T) {
	m := newTestModel(nil)
	m = press(t, m, "a")
	m.focus = focusLocation
	m = press(t, m, "enter") // location read starts; its result is still in flight

	staleSeq := m.captureSeq
	m = press(t, m, "esc", "a") // discard the session, open a fresh draft

	// The dead session's location read finishes only now.
	m, _ = update(t, m, locationDoneMsg{seq: staleSeq, coord: report.Coordinate{Latitude: 9, Longitude: 9}})
	if m.draft.Coordinate != nil {
		t.Fatalf("stale location result mutated the fresh draft: %+v", *m.draft.Coordinate)
	}
	if m.locationState == report.CaptureSucceeded {
		t.Fatalf("stale location result flipped the fresh capture state")
	}

	m, _ = update(t, m, photoDoneMsg{seq: staleSeq, source: sourceCamera, dataURI: "data:image/jpeg;base64,old"})
	if m.draft.Photo != "" {
		t.Fatalf("stale photo result mutated the fresh draft: %q", m.draft.Photo)
	}

	// Results from the current session still land.
	m, _ = update(t, m, locationDoneMsg{seq: m.captureSeq, coord: report.Coordinate{Latitude: 1, Longitude: 2}})
	if m.draft.Coordinate == nil || m.draft.Coordinate.Latitude != 1 {
		t.Fatalf("current-session location result was dropped")
	}
}

func TestCategorySelection(t *testing.T) {
	m := newTestModel(nil)
	m = press(t, m, "a")
	m.focus = focusCategory

	m = press(t, m, "1")
	if m.draft.Collection != report.CollectionManual {
		t.Fatalf("Collection = %v", m.draft.Collection)
	}
	m = press(t, m, "2")
	if m.draft.Collection != report.CollectionTruck {
		t.Fatalf("Collection = %v", m.draft.Collection)
	}
	m = press(t, m, "enter") // toggles
	if m.draft.Collection != report.CollectionManual {
		t.Fatalf("toggle did not switch back to manual")
	}
}

func TestPlaceholderForMissingPhoto(t *testing.T) {
	it := pointItem{record: catalog.Record{Title: "t", CollectionType: "manual - segunda a sábado"}}
	if !strings.Contains(it.Description(), photoPlaceholder) {
		t.Fatalf("description %q missing placeholder", it.Description())
	}
	it.record.PhotoURL = "http://x/p.jpg"
	if strings.Contains(it.Description(), photoPlaceholder) {
		t.Fatalf("placeholder shown despite photo URL")
	}
}

func TestMinibufferSeqPreventsEarlyClear(t *testing.T) {
	m := newTestModel(nil)
	m = press(t, m, "a")
	m, _ = update(t, m, photoDoneMsg{seq: m.captureSeq, source: sourceGallery, dataURI: "data:image/jpeg;base64,a"})
	firstSeq := m.minibufferSeq
	m, _ = update(t, m, locationDoneMsg{seq: m.captureSeq, coord: report.Coordinate{Latitude: 1, Longitude: 2}})

	// The first flash's timer fires after the second flash was shown.
	m, _ = update(t, m, minibufferClearMsg{seq: firstSeq})
	if m.minibuffer != "Localização capturada!" {
		t.Fatalf("stale timer cleared the newer flash: %q", m.minibuffer)
	}
	m, _ = update(t, m, minibufferClearMsg{seq: m.minibufferSeq})
	if m.minibuffer != "" {
		t.Fatalf("current timer did not clear the flash")
	}
}
