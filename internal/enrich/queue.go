package enrich

import (
	"context"
	"log"
	"sync"
	"time"
)

// Enricher is the piece of the catalog service the queue drives.
type Enricher interface {
	EnrichBook(ctx context.Context, id string) error
}

// itemTimeout bounds one lookup+persist cycle; it sits above the lookup
// client's own HTTP timeout so the limiter wait is covered too.
const itemTimeout = 30 * time.Second

// Queue runs Open Library enrichment off the request path. Writes enqueue a
// book id; workers pick ids up and fill in metadata best-effort.
type Queue struct {
	svc  Enricher
	ch   chan string
	done chan struct{}
	wg   sync.WaitGroup
}

// Start spins up N workers with a buffered channel.
// Suggested: buf=1000, workers=2
func Start(svc Enricher, buf, workers int) *Queue {
	if buf < 1 {
		buf = 1000
	}
	if workers < 1 {
		workers = 1
	}
	q := &Queue{
		svc:  svc,
		ch:   make(chan string, buf),
		done: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue tries to queue a book id without blocking.
// If the buffer is full, the id is dropped; the next enriched read fills
// the metadata in anyway.
func (q *Queue) Enqueue(bookID string) {
	if bookID == "" {
		return
	}
	select {
	case q.ch <- bookID:
	default:
		// buffer full; drop
	}
}

// Shutdown signals workers to stop, drains what is already queued, and waits.
func (q *Queue) Shutdown() {
	close(q.done)
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			// drain quickly then exit
			for {
				select {
				case id := <-q.ch:
					q.process(id)
				default:
					return
				}
			}
		case id := <-q.ch:
			q.process(id)
		}
	}
}

func (q *Queue) process(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), itemTimeout)
	defer cancel()
	if err := q.svc.EnrichBook(ctx, id); err != nil {
		log.Printf("[enrich] book %s: %v", id, err)
	}
}
