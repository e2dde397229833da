package workflow

import "github.com/raqeebanjum/seniordesignproject/internal/entity"

// TaskQueue is the FIFO of bin placements for the purchase order in progress.
// It only ever holds the items of a single purchase order.
type TaskQueue struct {
	tasks []entity.Task
}

// EnqueueAll replaces the queue content with one task per item of po, in
// catalog order.
func (q *TaskQueue) EnqueueAll(po entity.PurchaseOrder) {
	tasks := make([]entity.Task, 0, len(po.Items))
	for _, item := range po.Items {
		tasks = append(tasks, item.Task())
	}
	q.tasks = tasks
}

func (q *TaskQueue) Dequeue() (entity.Task, bool) {
	if len(q.tasks) == 0 {
		return entity.Task{}, false
	}

	head := q.tasks[0]
	q.tasks = q.tasks[1:]
	return head, true
}

func (q *TaskQueue) Peek() (entity.Task, bool) {
	if len(q.tasks) == 0 {
		return entity.Task{}, false
	}
	return q.tasks[0], true
}

func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Tasks returns a copy of the queued tasks, head first.
func (q *TaskQueue) Tasks() []entity.Task {
	out := make([]entity.Task, len(q.tasks))
	copy(out, q.tasks)
	return out
}

func (q *TaskQueue) Clear() {
	q.tasks = nil
}
