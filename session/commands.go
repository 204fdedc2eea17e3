package session

import "sync"

// command is one call into the media element.
type command struct {
	name string
	run  func(Element) error
}

// commandQueue runs element commands in submission order on a single goroutine, so callers
// holding the session lock never wait on the player.
type commandQueue struct {
	element Element
	onError func(name string, err error)

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []command
	busy   bool
	closed bool
}

func newCommandQueue(element Element, onError func(string, error)) *commandQueue {
	q := &commandQueue{element: element, onError: onError}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues a command without blocking. Commands pushed after close are dropped.
func (q *commandQueue) push(name string, run func(Element) error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.queue = append(q.queue, command{name: name, run: run})
	q.cond.Broadcast()
}

// run executes commands until the queue is closed.
func (q *commandQueue) run() {
	for {
		q.mu.Lock()
		for len(q.queue) == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.closed {
			q.queue = nil
			q.busy = false
			q.cond.Broadcast()
			q.mu.Unlock()
			return
		}
		cmd := q.queue[0]
		q.queue = q.queue[1:]
		q.busy = true
		q.mu.Unlock()

		if err := cmd.run(q.element); err != nil {
			q.onError(cmd.name, err)
		}

		q.mu.Lock()
		q.busy = false
		q.cond.Broadcast()
		q.mu.Unlock()
	}
}

// drain blocks until every queued command has run.
func (q *commandQueue) drain() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for (len(q.queue) > 0 || q.busy) && !q.closed {
		q.cond.Wait()
	}
}

// close drops pending commands and stops run once the current command returns.
func (q *commandQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}
