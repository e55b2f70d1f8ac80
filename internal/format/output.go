// Package format writes CLI command output. Everything a command prints to
// stdout is one strict-JSON envelope so scripts can pipe it to jq without
// guessing; human-facing text belongs on stderr or behind explicit flags.
package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON marshals v and writes it followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
