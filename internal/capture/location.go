package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ronipassion/TrashTrackk/internal/report"
)

// Locator is the geolocation capability. One call is one best-effort read:
// either a full coordinate (both components) or an error; never a partial
// coordinate.
type Locator interface {
	Current(ctx context.Context) (report.Coordinate, error)
}

// commandTimeout bounds capability subprocesses so a hung helper can't
// freeze the capture flow forever.
const commandTimeout = 30 * time.Second

// CommandLocator reads the position by running a configured external command
// (e.g. `termux-location`, `CoreLocationCLI -json`) and parsing its JSON
// output.
type CommandLocator struct {
	// Command is a shell-like command line; it is split with basic quoting
	// rules, not run through a shell.
	Command string
}

func (l CommandLocator) Current(ctx context.Context) (report.Coordinate, error) {
	argv := splitShellWords(l.Command)
	if len(argv) == 0 {
		return report.Coordinate{}, fmt.Errorf("%w: nenhum comando de localização configurado", ErrDenied)
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return report.Coordinate{}, fmt.Errorf("%w: comando %q não encontrado", ErrDenied, argv[0])
		}
		return report.Coordinate{}, fmt.Errorf("falha ao obter localização: %w", err)
	}
	return ParseLocationOutput(out)
}

// ParseLocationOutput decodes a location helper's JSON output. Accepts
// latitude/longitude or lat/lon key pairs; both components must be present.
func ParseLocationOutput(out []byte) (report.Coordinate, error) {
	var raw struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Lat       *float64 `json:"lat"`
		Lon       *float64 `json:"lon"`
	}
	if err := json.Unmarshal(bytesTrimSpace(out), &raw); err != nil {
		return report.Coordinate{}, fmt.Errorf("saída de localização inválida: %w", err)
	}

	lat, lon := raw.Latitude, raw.Longitude
	if lat == nil {
		lat = raw.Lat
	}
	if lon == nil {
		lon = raw.Lon
	}
	if lat == nil || lon == nil {
		return report.Coordinate{}, errors.New("saída de localização sem latitude/longitude")
	}
	return report.Coordinate{Latitude: *lat, Longitude: *lon}, nil
}

func bytesTrimSpace(b []byte) []byte {
	return []byte(strings.TrimSpace(string(b)))
}
