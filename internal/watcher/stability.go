package watcher

import (
	"os"
	"time"
)

// stabilityParams tunes the wait for a file to finish being written.
// DSLR tethering software writes large files in bursts, so a single
// size check is not enough.
type stabilityParams struct {
	Checks   int           // consecutive unchanged-size readings required
	Interval time.Duration // delay between readings
	MaxWait  time.Duration // give up after this long
}

var defaultStabilityParams = stabilityParams{
	Checks:   3,
	Interval: 300 * time.Millisecond,
	MaxWait:  10 * time.Second,
}

// waitForStable blocks until the file size has stopped changing and the
// file can be opened for reading, or until params.MaxWait elapses.
// A stable size is still only a heuristic, not proof the writer is done.
func waitForStable(path string, params stabilityParams) bool {
	deadline := time.Now().Add(params.MaxWait)
	lastSize := int64(-1)
	stableCount := 0

	for time.Now().Before(deadline) {
		info, err := os.Stat(path)
		if err != nil {
			// File disappeared or is temporarily inaccessible.
			time.Sleep(params.Interval)
			continue
		}

		size := info.Size()
		if size == 0 {
			// Still being created.
			time.Sleep(params.Interval)
			continue
		}

		if size == lastSize {
			stableCount++
			if stableCount >= params.Checks && readable(path) {
				return true
			}
		} else {
			stableCount = 0
		}

		lastSize = size
		time.Sleep(params.Interval)
	}

	return false
}

// readable probes the first kilobyte to confirm the writer has released
// the file. Some camera software holds an exclusive lock until done.
func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 1024)
	_, err = f.Read(buf)
	return err == nil
}
