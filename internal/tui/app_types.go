package tui

import (
	"github.com/ronipassion/TrashTrackk/internal/catalog"
	"github.com/ronipassion/TrashTrackk/internal/report"
)

type view int

const (
	viewPoints view = iota
	viewAdd
)

// pointsState is the list screen's state machine. It is re-entered at
// loading on every screen activation, not just first mount.
type pointsState int

const (
	pointsLoading pointsState = iota
	pointsPopulated
	pointsEmpty
	pointsErrored
)

type modalKind int

const (
	modalNone modalKind = iota
	// modalPhotoSource offers Galeria / Câmera / Cancelar before a pick.
	modalPhotoSource
	// modalGallery hosts the filepicker (the gallery picker stand-in).
	modalGallery
	// modalNotice is a blocking acknowledgment (validation/denial/failure,
	// and the post-submit confirmation).
	modalNotice
	// modalConfirmDiscard guards Esc on a draft that already has content.
	modalConfirmDiscard
)

// addFocus is the focused control on the add screen.
type addFocus int

const (
	focusTitle addFocus = iota
	focusPhoto
	focusLocation
	focusCategory
	focusSubmit
)

// photoSource distinguishes which picker produced (or failed to produce)
// a photo, for the outcome notices.
type photoSource int

const (
	sourceGallery photoSource = iota
	sourceCamera
)

// pointsLoadedMsg carries one refresh result. seq is the activation token:
// a result tagged with a stale seq is discarded so a superseded fetch can
// never overwrite a newer one.
type pointsLoadedMsg struct {
	seq     int
	records []catalog.Record
	err     error
}

// locationDoneMsg and photoDoneMsg carry one capability outcome. seq is the
// capture-session token: each add-screen visit gets a fresh one, so a result
// belonging to a discarded draft can never land in a later draft (the command
// may run for up to 30s while the user navigates away and back).
type locationDoneMsg struct {
	seq   int
	coord report.Coordinate
	err   error
}

type photoDoneMsg struct {
	seq     int
	source  photoSource
	dataURI string
	err     error
}

type submitDoneMsg struct {
	err error
}

type minibufferClearMsg struct{ seq int }
