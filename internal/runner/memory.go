package runner

import (
	"time"

	"github.com/prometheus/procfs"
)

// sampleInterval is how often a running child's memory is read from /proc.
const sampleInterval = 5 * time.Millisecond

// watchMemory samples the peak resident set size (VmHWM) of pid until stop is
// closed and returns the largest value seen, in bytes. The kernel tracks the
// high-water mark itself, so sampling only misses memory of processes that
// exit between two reads. Descendants of pid are not counted.
func watchMemory(pid int, stop <-chan struct{}) int64 {
	proc, err := procfs.NewProc(pid)
	if err != nil {
		return 0
	}

	var peak int64
	tick := time.NewTicker(sampleInterval)
	defer tick.Stop()
	for {
		if st, err := proc.NewStatus(); err == nil && int64(st.VmHWM) > peak {
			peak = int64(st.VmHWM)
		}
		select {
		case <-stop:
			return peak
		case <-tick.C:
		}
	}
}
