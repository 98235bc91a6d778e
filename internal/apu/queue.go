package apu

import "sync"

// SampleQueue is a bounded FIFO of mixed samples shared between the
// emulation goroutine and the audio backend. When full, the oldest
// samples are dropped.
type SampleQueue struct {
	mu      sync.Mutex
	buf     []float32
	head    int
	size    int
	dropped uint64
}

// NewSampleQueue creates a queue holding up to capacity samples.
func NewSampleQueue(capacity int) *SampleQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &SampleQueue{buf: make([]float32, capacity)}
}

// Push appends one sample.
func (q *SampleQueue) Push(sample float32) {
	q.mu.Lock()
	if q.size == len(q.buf) {
		q.head = (q.head + 1) % len(q.buf)
		q.size--
		q.dropped++
	}
	q.buf[(q.head+q.size)%len(q.buf)] = sample
	q.size++
	q.mu.Unlock()
}

// Drain moves up to len(dst) samples into dst and returns how many were copied.
func (q *SampleQueue) Drain(dst []float32) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := min(len(dst), q.size)
	for i := 0; i < n; i++ {
		dst[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.head = (q.head + n) % len(q.buf)
	q.size -= n
	return n
}

// Len returns the number of queued samples.
func (q *SampleQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Dropped returns how many samples were discarded because the queue was full.
func (q *SampleQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Clear discards all queued samples.
func (q *SampleQueue) Clear() {
	q.mu.Lock()
	q.head, q.size = 0, 0
	q.mu.Unlock()
}
