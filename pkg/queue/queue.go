package queue

// Queue represents a bounded FIFO queue.
// Implementations must be thread-safe.
type Queue interface {
	// Enqueue adds an item to the end of the queue.
	// It returns an error instead of blocking when the queue is full.
	Enqueue(item interface{}) error
	Dequeue() (interface{}, error)
	Size() int
	// ReadAllMessages removes and returns every pending item in arrival order.
	ReadAllMessages() ([]interface{}, error)
	ClearQueue()
}
