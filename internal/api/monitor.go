package api

import (
	"fmt"
	"sync"
	"time"

	movingaverage "github.com/RobinUS2/golang-moving-average"
)

const monitorWindow = 10

// Monitor keeps request stats for the status line.
type Monitor struct {
	sync.Mutex
	reqDur   *movingaverage.MovingAverage
	requests int
	failures int
	lastOp   string
}

func NewMonitor() *Monitor {
	return &Monitor{reqDur: movingaverage.New(monitorWindow)}
}

// Observe records one finished call.
func (m *Monitor) Observe(op string, dur time.Duration, err error) {
	m.Lock()
	defer m.Unlock()

	m.requests++
	if err != nil {
		m.failures++
	}
	m.lastOp = op
	m.reqDur.Add(float64(dur/time.Microsecond) / 1000.0)
}

// Stats is a snapshot of the monitor.
type Stats struct {
	Requests int
	Failures int
	AvgMS    float64
	LastOp   string
}

func (m *Monitor) Stats() Stats {
	m.Lock()
	defer m.Unlock()

	s := Stats{Requests: m.requests, Failures: m.failures, LastOp: m.lastOp}
	if m.requests > 0 {
		s.AvgMS = m.reqDur.Avg()
	}
	return s
}

func (s Stats) String() string {
	if s.Requests == 0 {
		return "no requests yet"
	}
	return fmt.Sprintf("%d req, %d failed, avg %.0fms (last %s)", s.Requests, s.Failures, s.AvgMS, s.LastOp)
}
