package facts

import (
	"sync"
	"time"

	"tripmatch/internal/score"
	"tripmatch/internal/utils"
)

// QueriesRepository is the fact store: a concurrency-safe holder of the
// queries submitted per session. Put replaces the session's current query as
// a whole; the last few submissions are kept in a ring buffer for History.
// Sessions idle for longer than ttl are removed by the background sweeper.
//
// Example:
//
//	repo := facts.NewQueriesRepository(5, 30*time.Minute)
//	go repo.Serve(time.Minute)
//	repo.Put("session-1", score.Query{Budget: 1000, MinDuration: 3, MaxDuration: 5, Month: 6})
type QueriesRepository struct {
	length int           // submissions kept per session
	ttl    time.Duration // idle time after which a session is dropped

	queries map[string]*utils.RingBuffer[score.Query]
	updates map[string]time.Time

	mu   sync.RWMutex
	done chan struct{}
	stop sync.Once
}

// Put stores q as the current query of session id.
func (qr *QueriesRepository) Put(id string, q score.Query) {
	qr.mu.Lock()
	defer qr.mu.Unlock()

	buffer, found := qr.queries[id]
	if !found {
		buffer = utils.NewRingBuffer[score.Query](qr.length)
		qr.queries[id] = buffer
	}
	buffer.Push(q)
	qr.updates[id] = time.Now()
}

// Get returns the current query of session id.
func (qr *QueriesRepository) Get(id string) (score.Query, bool) {
	qr.mu.RLock()
	buffer, found := qr.queries[id]
	qr.mu.RUnlock()
	if !found {
		return score.Query{}, false
	}
	return buffer.Last()
}

// History returns the retained submissions of session id, oldest first.
func (qr *QueriesRepository) History(id string) ([]score.Query, bool) {
	qr.mu.RLock()
	buffer, found := qr.queries[id]
	qr.mu.RUnlock()
	if !found {
		return nil, false
	}
	return buffer.ToSlice(), true
}

// Len returns the number of live sessions.
func (qr *QueriesRepository) Len() int {
	qr.mu.RLock()
	defer qr.mu.RUnlock()
	return len(qr.queries)
}

// Serve removes expired sessions every interval until Stop is called.
// It blocks and is meant to run in its own goroutine:
//
//	go repo.Serve(time.Minute)
func (qr *QueriesRepository) Serve(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-qr.done:
			return
		case now := <-ticker.C:
			qr.expire(now)
		}
	}
}

// Stop terminates Serve. Safe to call more than once, or without Serve.
func (qr *QueriesRepository) Stop() {
	qr.stop.Do(func() {
		close(qr.done)
	})
}

// expire drops every session idle for longer than ttl at now.
// A non-positive ttl keeps sessions forever.
func (qr *QueriesRepository) expire(now time.Time) int {
	if qr.ttl <= 0 {
		return 0
	}

	var outdated []string

	qr.mu.RLock()
	for id, ts := range qr.updates {
		if now.Sub(ts) > qr.ttl {
			outdated = append(outdated, id)
		}
	}
	qr.mu.RUnlock()

	if len(outdated) == 0 {
		return 0
	}

	qr.mu.Lock()
	defer qr.mu.Unlock()
	removed := 0
	for _, id := range outdated {
		// re-check: the session may have been refreshed meanwhile
		if ts, found := qr.updates[id]; found && now.Sub(ts) > qr.ttl {
			delete(qr.queries, id)
			delete(qr.updates, id)
			removed++
		}
	}
	return removed
}

// NewQueriesRepository creates a fact store keeping length submissions per
// session and dropping sessions idle for longer than ttl.
// Call Serve in a separate goroutine to enable expiry.
func NewQueriesRepository(length int, ttl time.Duration) *QueriesRepository {
	return &QueriesRepository{
		length:  length,
		ttl:     ttl,
		queries: make(map[string]*utils.RingBuffer[score.Query]),
		updates: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
}
