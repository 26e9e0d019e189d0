package observability

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// OpStats summarises the recent latency samples of one store operation.
type OpStats struct {
	Op          string  `json:"op"`
	Samples     int     `json:"samples"`
	Errors      int     `json:"errors"`
	LastMS      float64 `json:"last_ms"`
	AvgMS       float64 `json:"avg_ms"`
	P50MS       float64 `json:"p50_ms"`
	P95MS       float64 `json:"p95_ms"`
	TargetP95MS float64 `json:"target_p95_ms,omitempty"`
}

// ActionCount counts reconciliation actions seen since start.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type OpSnapshot struct {
	GeneratedAt time.Time     `json:"generated_at"`
	WindowSize  int           `json:"window_size"`
	Ops         []OpStats     `json:"ops"`
	Actions     []ActionCount `json:"actions,omitempty"`
}

// opWindow keeps a fixed-size ring of latency samples per operation.
type opWindow struct {
	mu         sync.RWMutex
	maxSamples int
	ops        map[string]*opBuffer
	actions    map[string]int
}

type opBuffer struct {
	values []float64
	next   int
	filled bool
	last   float64
	errors int
}

func newOpWindow(maxSamples int) *opWindow {
	if maxSamples <= 0 {
		maxSamples = 256
	}
	return &opWindow{
		maxSamples: maxSamples,
		ops:        make(map[string]*opBuffer),
		actions:    make(map[string]int),
	}
}

func (w *opWindow) Observe(op string, ms float64, failed bool) {
	if op == "" || ms < 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	buf, ok := w.ops[op]
	if !ok {
		buf = &opBuffer{values: make([]float64, w.maxSamples)}
		w.ops[op] = buf
	}
	if failed {
		buf.errors++
	}
	buf.values[buf.next] = ms
	buf.last = ms
	buf.next++
	if buf.next >= len(buf.values) {
		buf.next = 0
		buf.filled = true
	}
}

func (w *opWindow) CountAction(action string) {
	action = strings.TrimSpace(action)
	if action == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.actions[action]++
}

func (w *opWindow) Snapshot() OpSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	keys := make([]string, 0, len(w.ops))
	for op := range w.ops {
		keys = append(keys, op)
	}
	sort.Strings(keys)

	ops := make([]OpStats, 0, len(keys))
	for _, op := range keys {
		buf := w.ops[op]
		n := buf.next
		if buf.filled {
			n = len(buf.values)
		}
		if n <= 0 {
			continue
		}
		samples := make([]float64, n)
		copy(samples, buf.values[:n])
		sort.Float64s(samples)

		sum := 0.0
		for _, v := range samples {
			sum += v
		}
		ops = append(ops, OpStats{
			Op:          op,
			Samples:     n,
			Errors:      buf.errors,
			LastMS:      round2(buf.last),
			AvgMS:       round2(sum / float64(n)),
			P50MS:       round2(quantile(samples, 0.50)),
			P95MS:       round2(quantile(samples, 0.95)),
			TargetP95MS: opTargetP95MS(op),
		})
	}

	names := make([]string, 0, len(w.actions))
	for name := range w.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	actions := make([]ActionCount, 0, len(names))
	for _, name := range names {
		actions = append(actions, ActionCount{Action: name, Count: w.actions[name]})
	}

	return OpSnapshot{
		GeneratedAt: time.Now().UTC(),
		WindowSize:  w.maxSamples,
		Ops:         ops,
		Actions:     actions,
	}
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := q * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Whole-table reads and writes against a hosted spreadsheet are slow; these
// targets reflect that backend.
func opTargetP95MS(op string) float64 {
	switch op {
	case "read":
		return 1200
	case "write":
		return 2500
	default:
		return 0
	}
}
