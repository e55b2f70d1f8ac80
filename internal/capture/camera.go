package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// CameraGrabber is the camera capability: one capture attempt yielding an
// encoded photo (data URI) or an error.
type CameraGrabber interface {
	Capture(ctx context.Context) (string, error)
}

// CommandCamera takes a picture by running a configured external command
// (e.g. `imagesnap` or an ffmpeg one-liner). The output JPEG path is
// appended as the command's final argument; the produced file then goes
// through the shared encode pipeline.
type CommandCamera struct {
	Command string
}

func (c CommandCamera) Capture(ctx context.Context) (string, error) {
	argv := splitShellWords(c.Command)
	if len(argv) == 0 {
		return "", fmt.Errorf("%w: nenhum comando de câmera configurado", ErrDenied)
	}

	dir, err := os.MkdirTemp("", "trashtrackk-camera-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.RemoveAll(dir) }()
	outPath := filepath.Join(dir, "capture.jpg")

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	args := append(argv[1:], outPath)
	if out, err := exec.CommandContext(ctx, argv[0], args...).CombinedOutput(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: comando %q não encontrado", ErrDenied, argv[0])
		}
		return "", fmt.Errorf("falha ao capturar foto: %s", firstLine(out, err))
	}
	return LoadPhoto(outPath)
}

func firstLine(out []byte, fallback error) string {
	s := string(bytesTrimSpace(out))
	if s == "" {
		return fallback.Error()
	}
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
