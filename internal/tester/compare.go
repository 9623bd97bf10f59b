package tester

import (
	"bytes"

	"github.com/programme-lv/judger/internal/catalog"
)

func outputsMatch(got, want []byte, mode string) bool {
	if mode == catalog.TypeStandard {
		return bytes.Equal(normalize(got), normalize(want))
	}
	return bytes.Equal(got, want)
}

// normalize drops trailing whitespace on every line and trailing empty lines.
func normalize(b []byte) []byte {
	lines := bytes.Split(b, []byte("\n"))
	for i := range lines {
		lines[i] = bytes.TrimRight(lines[i], " \t\r")
	}
	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return bytes.Join(lines, []byte("\n"))
}
