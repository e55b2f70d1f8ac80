package capture

import "unicode"

// splitShellWords turns a configured adapter command line (cameraCommand,
// locationCommand) into argv without involving a shell. Single quotes,
// double quotes, and backslash escaping (outside single quotes) are
// honored so one-liners like `ffmpeg -i /dev/video0 -vf 'crop=4:3'` split
// as the user expects.
func splitShellWords(s string) []string {
	var out []string
	var cur []rune
	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}

	for _, r := range s {
		switch {
		case escaped:
			cur = append(cur, r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case !inSingle && !inDouble && unicode.IsSpace(r):
			flush()
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}
