//go:build unix

package metrics

import (
	"fmt"
	"time"

	"github.com/mackerelio/go-osstat/uptime"
)

func getOsBootTime() (time.Time, error) {
	up, err := uptime.Get()
	if err != nil {
		return time.Now(), fmt.Errorf("uptime.Get(): %v", err)
	}
	return time.Now().Add(-up), nil
}
