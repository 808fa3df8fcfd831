package pipeline

import (
	"sync"
	"time"

	"github.com/golang/glog"
)

// Metrics are the totals of a run. They are safe for concurrent use.
type Metrics struct {
	mu sync.Mutex

	Files    int
	Frames   int
	Reused   int
	Records  int
	Errors   int
	Warnings int
	// Skipped counts variants left out by identification or the variant
	// mode.
	Skipped int
	// Elapsed is the sum of per-variant processing times.
	Elapsed time.Duration
	ByType  map[string]int
}

func (m *Metrics) record(r *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Elapsed += r.Duration
	if r.Err != nil {
		m.Errors++
		return
	}
	m.Files++
	m.Frames += r.Frames
	m.Reused += r.Reused
	m.Records += r.Records
	m.Warnings += r.Missing + r.Skipped
	if m.ByType == nil {
		m.ByType = make(map[string]int)
	}
	if r.Variant.Custom {
		m.ByType["custom"]++
	} else {
		m.ByType["pokemon"]++
	}
}

func (m *Metrics) skip() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Skipped++
}

// Log writes the summary of the run.
func (m *Metrics) Log() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var avg time.Duration
	if n := m.Files + m.Errors; n > 0 {
		avg = m.Elapsed / time.Duration(n)
	}
	glog.Infof("converted %d variants (%v), %d failed, %d skipped", m.Files, m.ByType, m.Errors, m.Skipped)
	glog.Infof("%d frames (%d shared), %d records, %d warnings", m.Frames, m.Reused, m.Records, m.Warnings)
	glog.Infof("processing time %v, %v per variant", m.Elapsed, avg)
}
