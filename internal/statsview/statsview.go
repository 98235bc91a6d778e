//go:build statsview
// +build statsview

package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"nesdot/internal/logger"
)

// Launch starts the stats server in a new goroutine and returns a
// function that stops it.
func Launch(output io.Writer, address string) func() {
	if address == "" {
		address = DefaultAddress
	}
	viewer.SetConfiguration(viewer.WithAddr(address))
	mgr := statsview.New()
	go mgr.Start()

	fmt.Fprintf(output, "stats server available at %s%s\n", address, path)
	logger.Logf("STATSVIEW", "serving on %s", address)
	return mgr.Stop
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return true
}
