package room

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/saunasuites/suites/internal/models"
)

func TestManualScheduler(t *testing.T) {
	s := NewManualScheduler()
	var fast, slow int
	stopFast := s.Every(time.Second, func() { fast++ })
	s.Every(10*time.Second, func() { slow++ })

	s.Advance(9 * time.Second)
	if fast != 9 || slow != 0 {
		t.Fatalf("fast=%d slow=%d", fast, slow)
	}
	s.Advance(time.Second)
	if fast != 10 || slow != 1 {
		t.Fatalf("fast=%d slow=%d", fast, slow)
	}

	stopFast()
	s.Advance(5 * time.Second)
	if fast != 10 {
		t.Errorf("stopped task fired: fast=%d", fast)
	}
	if s.Pending() != 1 {
		t.Errorf("pending = %d, want 1", s.Pending())
	}
}

func TestCronSchedulerFiresAndStops(t *testing.T) {
	s := NewCronScheduler(discard())
	defer s.Stop()

	fired := make(chan struct{}, 10)
	stop := s.Every(time.Second, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("cron task never fired")
	}
	stop()
	if n := len(s.cron.Entries()); n != 0 {
		t.Errorf("entries after stop = %d, want 0", n)
	}
}

// syncBuffer is a bytes.Buffer safe for the cron goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCronSchedulerLogsPanicsToLogger(t *testing.T) {
	var out syncBuffer
	s := NewCronScheduler(slog.New(slog.NewJSONHandler(&out, nil)))
	defer s.Stop()

	stop := s.Every(time.Second, func() { panic("poll exploded") })
	defer stop()

	deadline := time.Now().Add(3 * time.Second)
	for !strings.Contains(out.String(), "poll exploded") {
		if time.Now().After(deadline) {
			t.Fatal("recovered panic was not written to the logger")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

type fakeSource struct {
	mu    sync.Mutex
	calls int
	rec   *models.SessionRecord
	err   error
}

func (f *fakeSource) ActiveSession(ctx context.Context, roomID string) (*models.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.rec, f.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPollerFetchNumbersRequests(t *testing.T) {
	src := &fakeSource{err: errors.New("unreachable")}
	p := NewPoller(src, "3", discard())

	first := p.Fetch(t.Context())
	second := p.Fetch(t.Context())
	if first.Seq != 1 || second.Seq != 2 {
		t.Fatalf("seqs = %d, %d", first.Seq, second.Seq)
	}
	if second.Err == nil {
		t.Error("expected error to be passed through")
	}

	ctrl := NewController("3")
	ctrl.ApplyPoll(second.Seq, second.Session, second.Err)
	if ctrl.ApplyPoll(first.Seq, first.Session, first.Err) {
		t.Error("late result should be dropped")
	}
	if ctrl.Status() != StatusWaiting {
		t.Errorf("status = %s, want waiting", ctrl.Status())
	}
}

func TestPollerStartAndStop(t *testing.T) {
	src := &fakeSource{rec: session("s1", coldCircuit, models.SessionStatusPending)}
	p := NewPoller(src, "3", discard())
	sched := NewManualScheduler()
	results := make(chan PollResult, 10)

	stop := p.Start(t.Context(), sched, 10*time.Second, func(r PollResult) { results <- r })

	first := waitResult(t, results)
	if first.Seq != 1 || first.Session == nil {
		t.Fatalf("unexpected first result %+v", first)
	}

	sched.Advance(10 * time.Second)
	if second := waitResult(t, results); second.Seq != 2 {
		t.Fatalf("second seq = %d", second.Seq)
	}

	stop()
	if sched.Pending() != 0 {
		t.Fatal("stop should unschedule polling")
	}
	sched.Advance(time.Minute)
	select {
	case r := <-results:
		t.Fatalf("poll after stop: %+v", r)
	case <-time.After(20 * time.Millisecond):
	}
}

func waitResult(t *testing.T, ch <-chan PollResult) PollResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for poll result")
		return PollResult{}
	}
}
