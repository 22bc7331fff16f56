package room

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/saunasuites/suites/internal/models"
)

// Scheduler runs fn every interval until the returned stop func is called.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// CronScheduler is the wall-clock Scheduler. Intervals below one second are
// rounded up to one second.
type CronScheduler struct {
	cron *cron.Cron
}

// NewCronScheduler logs recovered task panics to logger.
func NewCronScheduler(logger *slog.Logger) *CronScheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))
	c := cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.Recover(cronLogger)))
	c.Start()
	return &CronScheduler{cron: c}
}

func (s *CronScheduler) Every(interval time.Duration, fn func()) func() {
	id := s.cron.Schedule(cron.Every(interval), cron.FuncJob(fn))
	return func() { s.cron.Remove(id) }
}

// Stop halts the scheduler and waits for running tasks to finish.
func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// ManualScheduler fires its tasks only when Advance is called. Tests use it
// to drive time by hand.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks map[int]*manualTask
	next  int
}

type manualTask struct {
	interval time.Duration
	due      time.Duration
	fn       func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[int]*manualTask)}
}

func (s *ManualScheduler) Every(interval time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.tasks[id] = &manualTask{interval: interval, due: interval, fn: fn}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.tasks, id)
	}
}

// Advance moves time forward by d, firing each task once per elapsed interval.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	var fire []func()
	for _, t := range s.tasks {
		t.due -= d
		for t.due <= 0 {
			fire = append(fire, t.fn)
			t.due += t.interval
		}
	}
	s.mu.Unlock()
	for _, fn := range fire {
		fn()
	}
}

// Pending reports how many tasks are scheduled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// SessionSource is the read side of the Session Store.
type SessionSource interface {
	ActiveSession(ctx context.Context, roomID string) (*models.SessionRecord, error)
}

// PollResult is one completed fetch, numbered in issue order.
type PollResult struct {
	Seq     uint64
	Session *models.SessionRecord
	Err     error
}

// Poller fetches the active session for a room on a schedule.
type Poller struct {
	source SessionSource
	roomID string
	logger *slog.Logger
	seq    atomic.Uint64
}

func NewPoller(source SessionSource, roomID string, logger *slog.Logger) *Poller {
	return &Poller{source: source, roomID: roomID, logger: logger}
}

// Fetch issues one poll. Sequence numbers are taken when the request starts.
func (p *Poller) Fetch(ctx context.Context) PollResult {
	seq := p.seq.Add(1)
	rec, err := p.source.ActiveSession(ctx, p.roomID)
	if err != nil {
		p.logger.Error("failed to fetch active session", "room_id", p.roomID, "seq", seq, "error", err)
	}
	return PollResult{Seq: seq, Session: rec, Err: err}
}

// Start polls immediately and then every interval, handing each result to
// deliver. The returned func stops polling and cancels in-flight requests.
func (p *Poller) Start(ctx context.Context, sched Scheduler, interval time.Duration, deliver func(PollResult)) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	poll := func() {
		go func() {
			res := p.Fetch(ctx)
			if ctx.Err() != nil {
				return
			}
			deliver(res)
		}()
	}
	poll()
	stopSched := sched.Every(interval, poll)
	return func() {
		stopSched()
		cancel()
	}
}
