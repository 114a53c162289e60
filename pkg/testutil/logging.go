package testutil

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Discards log output unless go test runs verbose.
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	for _, arg := range os.Args {
		if arg == "-test.v=true" {
			return
		}
	}

	logrus.StandardLogger().Out = io.Discard
}
