// Command line flag helpers shared by the simulator's cmd entrypoints.

package cliutil

import (
	"bytes"
	"strings"
)

const (
	// The help usage message line wraparound default width:
	DefaultFlagUsageWidth = 58
)

// FormatFlagUsageWidth reformats usage by wrapping words at width, discarding
// the original line breaks and prefixing whitespace.
func FormatFlagUsageWidth(usage string, width int) string {
	buf := &bytes.Buffer{}
	lineLen := 0
	for i, word := range strings.Fields(strings.TrimSpace(usage)) {
		if i > 0 {
			if lineLen+len(word)+1 > width {
				buf.WriteByte('\n')
				lineLen = 0
			} else {
				buf.WriteByte(' ')
				lineLen++
			}
		}
		n, err := buf.WriteString(word)
		if err != nil {
			return usage
		}
		lineLen += n
	}
	return buf.String()
}

func FormatFlagUsage(usage string) string {
	return FormatFlagUsageWidth(usage, DefaultFlagUsageWidth)
}
