package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	counters   []counterCall
	histograms []histCall
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histograms = append(f.histograms, histCall{name, value, labels})
}

func withFake(t *testing.T) *fakeBackend {
	t.Helper()
	orig := backend
	t.Cleanup(func() { backend = orig })
	fb := &fakeBackend{}
	backend = fb
	return fb
}

func TestRecordRow(t *testing.T) {
	fb := withFake(t)

	RecordRow("stations", "inserted", 3)
	RecordRow("stations", "skipped", 0) // no-op

	if len(fb.counters) != 1 {
		t.Fatalf("counters=%d, want 1", len(fb.counters))
	}
	c := fb.counters[0]
	if c.name != "ingest_rows_total" || c.delta != 3 || c.labels["kind"] != "inserted" {
		t.Fatalf("call=%+v", c)
	}
}

func TestRecordRun_StatusLabel(t *testing.T) {
	fb := withFake(t)

	RecordRun("stations", nil, 2*time.Second)
	RecordRun("stations", errors.New("boom"), time.Second)

	if len(fb.counters) != 2 || len(fb.histograms) != 2 {
		t.Fatalf("calls: counters=%d histograms=%d", len(fb.counters), len(fb.histograms))
	}
	if fb.counters[0].labels["status"] != "success" || fb.counters[1].labels["status"] != "failure" {
		t.Fatalf("labels=%v %v", fb.counters[0].labels, fb.counters[1].labels)
	}
	if fb.histograms[0].value != 2 {
		t.Fatalf("duration=%v, want 2", fb.histograms[0].value)
	}
}

func TestSetBackend_NilKeepsExisting(t *testing.T) {
	fb := withFake(t)
	SetBackend(nil)
	RecordRow("stations", "seen", 1)
	if len(fb.counters) != 1 {
		t.Fatal("nil SetBackend must keep the installed backend")
	}
}
