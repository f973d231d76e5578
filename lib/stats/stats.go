package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
)

// Collector holds the process wide server metrics.
// It is safe for concurrent use.
type Collector struct {
	set      *metrics.Set
	sessions *metrics.Counter
	errors   *metrics.Counter
	duration *metrics.Histogram
}

// NewCollector creates a collector with its own metrics set
func NewCollector() *Collector {
	set := metrics.NewSet()
	return &Collector{
		set:      set,
		sessions: set.NewCounter("mredis_sessions_total"),
		errors:   set.NewCounter("mredis_errors_total"),
		duration: set.NewHistogram("mredis_command_duration_seconds"),
	}
}

// RegisterKeyGauges exports the key count of every database as mredis_keys{db="i"}.
// sizes is called on every scrape and must be safe for concurrent use.
func (c *Collector) RegisterKeyGauges(databases int, sizes func() []int) {
	for i := 0; i < databases; i++ {
		i := i
		c.set.NewGauge(fmt.Sprintf(`mredis_keys{db="%d"}`, i), func() float64 {
			s := sizes()
			if i >= len(s) {
				return 0
			}
			return float64(s[i])
		})
	}
}

// WritePrometheus writes all metrics in Prometheus text format.
// Process metrics are included when withProcess is set.
func (c *Collector) WritePrometheus(w io.Writer, withProcess bool) {
	c.set.WritePrometheus(w)
	if withProcess {
		metrics.WriteProcessMetrics(w)
	}
}

// NewSession records a new client session and returns its recorder
func (c *Collector) NewSession() *Session {
	c.sessions.Inc()
	return &Session{
		collector: c,
		registry:  gometrics.NewRegistry(),
		started:   time.Now(),
	}
}

// --------------------------------------------------------------------------
// Session
// --------------------------------------------------------------------------

// Session records the commands of one client session.
// Besides the process wide metrics it keeps a timer per command, which is
// summarised once the session ends.
type Session struct {
	collector *Collector
	registry  gometrics.Registry
	started   time.Time
	errors    int64
}

// Observe records one command that started at start
func (s *Session) Observe(command string, start time.Time, failed bool) {
	c := s.collector
	c.set.GetOrCreateCounter(fmt.Sprintf(`mredis_commands_total{cmd=%q}`, command)).Inc()
	c.duration.UpdateDuration(start)
	if failed {
		c.errors.Inc()
		s.errors++
	}
	gometrics.GetOrRegisterTimer(command, s.registry).UpdateSince(start)
}

// Commands returns the number of commands observed so far
func (s *Session) Commands() int64 {
	var total int64
	s.registry.Each(func(_ string, m interface{}) {
		if t, ok := m.(gometrics.Timer); ok {
			total += t.Count()
		}
	})
	return total
}

// Summary formats the per command timers, e.g.
//
//	12 commands (1 failed) in 3.2s: GET n=8 mean=4µs p99=9µs, SET n=4 mean=6µs p99=11µs
func (s *Session) Summary() string {
	var names []string
	s.registry.Each(func(name string, _ interface{}) {
		names = append(names, name)
	})
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		t, ok := s.registry.Get(name).(gometrics.Timer)
		if !ok {
			continue
		}
		snap := t.Snapshot()
		parts = append(parts, fmt.Sprintf("%s n=%d mean=%s p99=%s", name, snap.Count(),
			time.Duration(snap.Mean()).Round(time.Microsecond),
			time.Duration(snap.Percentile(0.99)).Round(time.Microsecond)))
	}

	head := fmt.Sprintf("%d commands (%d failed) in %s", s.Commands(), s.errors,
		time.Since(s.started).Round(time.Millisecond))
	if len(parts) == 0 {
		return head
	}
	return head + ": " + strings.Join(parts, ", ")
}
