// Package autosync runs a periodic MemFile.Sync on a cron schedule
// without violating MemFile's single-writer model.
//
// Grounded on internal/storage/scheduler.go's Scheduler: same
// cron.New(cron.WithSeconds()) construction and Start/Stop shape, but
// trimmed down to the one concern MemFile needs. The teacher's
// executeJob runs SQL directly from the cron goroutine because the SQL
// engine it drives is already safe for concurrent callers; MemFile is
// explicitly not (spec.md §5, "single-threaded cooperative"). So the
// cron callback here never touches the MemFile itself — it only sends on
// a channel that the MemFile-owning goroutine drains on its own schedule
// (Scheduler.Requests), the same way a cooperative event loop would
// check "is there pending I/O" between its own operations.
package autosync

import (
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Request is sent on the channel returned by Scheduler.Requests each time
// the schedule fires. The owning goroutine sends the sync's outcome on
// Result once it has run (or skipped) the sync. Result is buffered with
// room for one value, so that send never blocks; the Scheduler itself
// never reads it.
type Request struct {
	Result chan<- error
}

// Scheduler runs a cron schedule that requests periodic syncs. It holds
// no reference to any MemFile; the caller decides what a "request" means
// by draining Requests().
type Scheduler struct {
	cron   *cron.Cron
	mu     sync.Mutex
	reqCh  chan Request
	logger *log.Logger
}

// DefaultSchedule is the cron expression New uses when given an empty
// one: a sync request every 30 seconds.
const DefaultSchedule = "@every 30s"

// New builds a Scheduler with the given cron expression (seconds field
// included, e.g. "*/30 * * * * *", or a "@every" descriptor). logger may
// be nil.
func New(cronExpr string, logger *log.Logger) (*Scheduler, error) {
	if cronExpr == "" {
		cronExpr = DefaultSchedule
	}
	loc, err := time.LoadLocation("UTC")
	if err != nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		reqCh:  make(chan Request, 1),
		logger: logger,
	}

	if _, err := s.cron.AddFunc(cronExpr, s.fire); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

func (s *Scheduler) fire() {
	result := make(chan error, 1)
	select {
	case s.reqCh <- Request{Result: result}:
	default:
		// A request is already queued and hasn't been drained; skipping
		// this tick is strictly better than blocking the cron goroutine
		// or piling up unbounded requests (no_overlap, teacher-style).
		s.logf("autosync: previous request still pending, skipping tick")
		return
	}
}

// Requests returns the channel the owning goroutine should range over
// (or select on) to learn when a sync was requested.
func (s *Scheduler) Requests() <-chan Request {
	return s.reqCh
}

// Start begins firing on the schedule. It does not block.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cron.Start()
	s.logf("autosync: scheduler started")
}

// Stop halts the schedule and waits for any in-flight invocation of fire
// to finish, mirroring the teacher's cron.Stop()/<-ctx.Done() pattern.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logf("autosync: scheduler stopped")
}
