package report

import (
	"fmt"
	"strings"
)

// CollectionType is the closed set of collection schedules a point can be
// reported under. The wire labels shown to (and stored by) the catalog are
// derived from this enum only, so the UI and the payload can't drift apart.
type CollectionType int

const (
	CollectionUnset CollectionType = iota
	CollectionManual
	CollectionTruck
)

const (
	wireLabelManual = "manual - segunda a sábado"
	wireLabelTruck  = "caminhão - segunda, quarta e sexta"
)

// WireLabel returns the catalog's collectionType value for this type.
// CollectionUnset has no wire representation and returns "".
func (c CollectionType) WireLabel() string {
	switch c {
	case CollectionManual:
		return wireLabelManual
	case CollectionTruck:
		return wireLabelTruck
	default:
		return ""
	}
}

// ShortLabel returns the compact label used in pickers and CLI flags.
func (c CollectionType) ShortLabel() string {
	switch c {
	case CollectionManual:
		return "Manual (Seg-Sáb)"
	case CollectionTruck:
		return "Caminhão (Seg, Qua, Sex)"
	default:
		return "(não definido)"
	}
}

// ParseCollectionType accepts both the short CLI names ("manual", "truck",
// "caminhão") and the full wire labels.
func ParseCollectionType(s string) (CollectionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manual", wireLabelManual:
		return CollectionManual, nil
	case "truck", "caminhão", "caminhao", wireLabelTruck:
		return CollectionTruck, nil
	case "":
		return CollectionUnset, fmt.Errorf("collection type is empty")
	default:
		return CollectionUnset, fmt.Errorf("unknown collection type: %q (want manual|truck)", s)
	}
}

// Coordinate is a GPS read. Both fields are always populated together; a
// draft either has a full coordinate or none at all.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Draft is the in-progress report assembled on the add screen (or from CLI
// flags). Each acquisition flow writes only its own field: the photo flow
// writes Photo, the location flow writes Coordinate, user input writes Title
// and Collection. A Draft lives for one capture session and is discarded on
// submit or back navigation.
type Draft struct {
	Title string
	// Photo is a data-URI JPEG ("data:image/jpeg;base64,..."). Empty = unset.
	// A repeated pick/capture overwrites it wholesale.
	Photo      string
	Coordinate *Coordinate
	Collection CollectionType
}

// Ready reports whether the draft may be submitted: title non-empty, photo
// attached, coordinate captured, and a concrete collection type selected.
func (d Draft) Ready() bool {
	return len(d.Missing()) == 0
}

// Missing lists the incomplete fields, in display order, for the
// validation notice shown when submit is attempted too early.
func (d Draft) Missing() []string {
	var out []string
	if strings.TrimSpace(d.Title) == "" {
		out = append(out, "título")
	}
	if d.Photo == "" {
		out = append(out, "foto")
	}
	if d.Coordinate == nil {
		out = append(out, "localização")
	}
	if d.Collection == CollectionUnset {
		out = append(out, "tipo de coleta")
	}
	return out
}

// CaptureState tracks one capability's acquisition flow on the add screen.
// Terminal states are re-entrant: the user may retry after denied/failed,
// or re-capture after succeeded (replacing the previous value).
type CaptureState int

const (
	CaptureIdle CaptureState = iota
	CaptureInProgress
	CaptureSucceeded
	CaptureDenied
	CaptureFailed
)

func (s CaptureState) String() string {
	switch s {
	case CaptureIdle:
		return "idle"
	case CaptureInProgress:
		return "inProgress"
	case CaptureSucceeded:
		return "succeeded"
	case CaptureDenied:
		return "denied"
	case CaptureFailed:
		return "failed"
	default:
		return fmt.Sprintf("CaptureState(%d)", int(s))
	}
}
