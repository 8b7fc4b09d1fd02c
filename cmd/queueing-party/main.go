package main

import (
	"os"

	"github.com/omegagov/queueing-party/internal/bootstrap"
)

func main() {
	os.Exit(bootstrap.Run())
}
