// Utils for metrics testing, adapted from the importer's own buffer-queue
// capturing helper to this repository's synchronous Registry.WriteTo.

package testutils

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/omegagov/queueing-party/internal/metrics"
)

// ScrapeLines renders registry's current state and splits it into
// individual, trimmed, non-empty exposition lines.
func ScrapeLines(registry *metrics.Registry, now time.Time) []string {
	buf := &bytes.Buffer{}
	registry.WriteTo(buf, now)
	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// GenerateReport compares gotLines against wantMetrics (exact line text,
// order-independent) and returns a human-readable diff, empty if they
// match exactly in set.
func GenerateReport(wantMetrics, gotLines []string) string {
	want := make(map[string]bool, len(wantMetrics))
	for _, m := range wantMetrics {
		want[strings.TrimSpace(m)] = true
	}
	got := make(map[string]bool, len(gotLines))
	for _, m := range gotLines {
		got[strings.TrimSpace(m)] = true
	}
	if diff := cmp.Diff(want, got); diff != "" {
		return fmt.Sprintf("metric line sets differ (-want +got):\n%s", diff)
	}
	return ""
}

// extractCount parses the sample value of a "name{labels} value timestamp"
// exposition line: the field just before the trailing timestamp.
func extractCount(metric string) (int, error) {
	fields := strings.Fields(metric)
	if len(fields) < 3 {
		return -1, fmt.Errorf("invalid metric format: %s", metric)
	}
	countStr := fields[len(fields)-2]
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return -1, fmt.Errorf("failed to parse count from metric: %s, error: %v", metric, err)
	}
	return count, nil
}

// ValidateCounterValue asserts that the first line in gotLines starting with
// the given metric name prefix carries the expected integer value; later
// lines with the same prefix are not checked.
func ValidateCounterValue(gotLines []string, namePrefix string, want int) error {
	for _, line := range gotLines {
		if strings.HasPrefix(line, namePrefix) {
			got, err := extractCount(line)
			if err != nil {
				return err
			}
			if got != want {
				return fmt.Errorf("%s: want %d, got %d", namePrefix, want, got)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: not found", namePrefix)
}
