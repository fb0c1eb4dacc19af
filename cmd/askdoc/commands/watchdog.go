// ABOUTME: Watchdog timer that force-terminates a hung ingestion run
// ABOUTME: Cancelled as soon as the pipeline finishes either way
package commands

import (
	"log"
	"os"
	"time"
)

// watchdog force-exits the process when a run exceeds its time bound.
type watchdog struct {
	timer *time.Timer
}

// exit is swapped out in tests.
var exit = os.Exit

func newWatchdog(d time.Duration) *watchdog {
	return &watchdog{
		timer: time.AfterFunc(d, func() {
			log.Printf("watchdog: run exceeded %s, terminating", d)
			exit(1)
		}),
	}
}

// Stop cancels the watchdog. Safe to call after it has fired.
func (w *watchdog) Stop() {
	w.timer.Stop()
}
