package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCollectorExport(t *testing.T) {
	c := NewCollector()
	c.RegisterKeyGauges(2, func() []int { return []int{3, 5} })

	s := c.NewSession()
	start := time.Now()
	s.Observe("GET", start, false)
	s.Observe("GET", start, false)
	s.Observe("EXPIRE", start, true)

	var buf bytes.Buffer
	c.WritePrometheus(&buf, false)
	out := buf.String()

	for _, want := range []string{
		`mredis_sessions_total 1`,
		`mredis_errors_total 1`,
		`mredis_commands_total{cmd="GET"} 2`,
		`mredis_commands_total{cmd="EXPIRE"} 1`,
		`mredis_keys{db="0"} 3`,
		`mredis_keys{db="1"} 5`,
		`mredis_command_duration_seconds_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestSessionSummary(t *testing.T) {
	s := NewCollector().NewSession()
	if got := s.Summary(); !strings.HasPrefix(got, "0 commands (0 failed)") {
		t.Errorf("empty summary = %q", got)
	}

	s.Observe("SET", time.Now(), false)
	s.Observe("GET", time.Now(), true)

	if s.Commands() != 2 {
		t.Errorf("Commands() = %d, want 2", s.Commands())
	}
	got := s.Summary()
	if !strings.HasPrefix(got, "2 commands (1 failed)") {
		t.Errorf("unexpected summary %q", got)
	}
	// timers are listed by name
	if i, j := strings.Index(got, "GET n=1"), strings.Index(got, "SET n=1"); i < 0 || j < i {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestKeyGaugeShortSizes(t *testing.T) {
	c := NewCollector()
	c.RegisterKeyGauges(2, func() []int { return []int{1} })

	var buf bytes.Buffer
	c.WritePrometheus(&buf, false)
	if !strings.Contains(buf.String(), `mredis_keys{db="1"} 0`) {
		t.Errorf("missing zero gauge:\n%s", buf.String())
	}
}
