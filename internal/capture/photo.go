// Package capture holds the device-capability adapters: the photo encoding
// pipeline shared by gallery and camera, an exec-based camera grabber, and
// an exec-based geolocation reader. Each adapter call is a single attempt
// with a single outcome; no adapter ever retries on its own.
package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"strings"

	// Gallery files and camera output may be JPEG or PNG.
	_ "image/png"
)

// ErrDenied signals a permission-style denial: the capability exists on the
// device but this process may not use it (unrunnable command, permission
// error). Callers surface it once and leave the draft field untouched.
var ErrDenied = errors.New("permissão negada")

const (
	// Photos are normalized before embedding: 4:3 center crop, longest
	// edge capped, JPEG re-encode. Keeps payloads small enough for a
	// data-URI JSON field.
	photoAspectW = 4
	photoAspectH = 3
	photoMaxW    = 1280
	jpegQuality  = 80

	dataURIPrefix = "data:image/jpeg;base64,"
)

// EncodePhoto turns raw image bytes into the catalog's photoBase64 format:
// a data-URI JPEG, cropped to 4:3 and downscaled.
func EncodePhoto(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("imagem inválida: %w", err)
	}

	img = cropAspect(img, photoAspectW, photoAspectH)
	img = scaleDown(img, photoMaxW)

	var buf strings.Builder
	buf.WriteString(dataURIPrefix)
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if err := jpeg.Encode(enc, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// LoadPhoto runs a gallery file through the encode pipeline.
// A file the process cannot read is a denial, not a failure.
func LoadPhoto(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return "", ErrDenied
		}
		return "", err
	}
	defer func() { _ = f.Close() }()
	return EncodePhoto(f)
}

// cropAspect center-crops img to the given aspect ratio. Images already at
// the ratio are returned unchanged.
func cropAspect(img image.Image, aw, ah int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w*ah == h*aw {
		return img
	}

	cw, ch := w, h
	if w*ah > h*aw {
		// Too wide: trim the sides.
		cw = h * aw / ah
	} else {
		// Too tall: trim top and bottom.
		ch = w * ah / aw
	}
	x0 := b.Min.X + (w-cw)/2
	y0 := b.Min.Y + (h-ch)/2

	out := image.NewRGBA(image.Rect(0, 0, cw, ch))
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			out.Set(x, y, img.At(x0+x, y0+y))
		}
	}
	return out
}

// scaleDown resizes img so its width is at most maxW, preserving aspect.
// Nearest-neighbour is plenty for report photos.
func scaleDown(img image.Image, maxW int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW {
		return img
	}
	nw := maxW
	nh := h * maxW / w
	if nh < 1 {
		nh = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, nw, nh))
	for y := 0; y < nh; y++ {
		sy := b.Min.Y + y*h/nh
		for x := 0; x < nw; x++ {
			sx := b.Min.X + x*w/nw
			out.Set(x, y, img.At(sx, sy))
		}
	}
	return out
}
