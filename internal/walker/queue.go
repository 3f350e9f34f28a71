package walker

import "sync"

// dirTask is a directory waiting to be scanned, together with the
// .gitignore layers inherited from its ancestors (nil with NoIgnore).
type dirTask struct {
	path    string
	ignores []ignoreLayer
}

// dirQueue is the FIFO of directories shared by the scan workers.
// It counts tasks that are queued or still being scanned, so a worker
// can tell a momentarily empty queue from a finished walk.
type dirQueue struct {
	mu       sync.Mutex
	ready    *sync.Cond
	tasks    []dirTask
	inFlight int
	finished bool
}

func newDirQueue() *dirQueue {
	q := &dirQueue{}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// push queues tasks. Callers scanning a directory push its children
// before calling done for the directory itself.
func (q *dirQueue) push(tasks ...dirTask) {
	if len(tasks) == 0 {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, tasks...)
	q.inFlight += len(tasks)
	q.mu.Unlock()
	q.ready.Broadcast()
}

// pop blocks until a task is available. It reports false once every
// queued task has been marked done.
func (q *dirQueue) pop() (dirTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.tasks) == 0 && !q.finished {
		q.ready.Wait()
	}
	if len(q.tasks) == 0 {
		return dirTask{}, false
	}
	t := q.tasks[0]
	q.tasks[0] = dirTask{}
	q.tasks = q.tasks[1:]
	return t, true
}

// done marks one popped task as fully scanned.
func (q *dirQueue) done() {
	q.mu.Lock()
	q.inFlight--
	q.finishIfIdleLocked()
	q.mu.Unlock()
}

// finishIfIdle ends the walk when nothing was ever queued.
func (q *dirQueue) finishIfIdle() {
	q.mu.Lock()
	q.finishIfIdleLocked()
	q.mu.Unlock()
}

func (q *dirQueue) finishIfIdleLocked() {
	if q.inFlight == 0 && !q.finished {
		q.finished = true
		q.ready.Broadcast()
	}
}
