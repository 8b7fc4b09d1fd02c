//go:build unix

package metrics

import (
	"github.com/tklauser/go-sysconf"
)

func getSysClktck() (int64, error) {
	return sysconf.Sysconf(sysconf.SC_CLK_TCK)
}
