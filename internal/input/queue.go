package input

// QueueCapacity is how many turns can be buffered between moves.
const QueueCapacity = 2

// DirQueue buffers direction changes for a grid game so fast key presses
// within one move are kept, without ever letting the snake reverse into
// itself.
type DirQueue struct {
	buf [QueueCapacity]Direction
	n   int
}

// Push offers d given the direction currently being travelled. It is
// rejected if it reverses or repeats the effective direction (the last
// queued turn, else current) or if the queue is full.
func (q *DirQueue) Push(d, current Direction) bool {
	if d == DirNone || q.n == QueueCapacity {
		return false
	}
	effective := current
	if q.n > 0 {
		effective = q.buf[q.n-1]
	}
	if d == effective || d == effective.Opposite() {
		return false
	}
	q.buf[q.n] = d
	q.n++
	return true
}

// Next consumes one queued turn, or returns current when empty.
func (q *DirQueue) Next(current Direction) Direction {
	if q.n == 0 {
		return current
	}
	d := q.buf[0]
	copy(q.buf[:], q.buf[1:q.n])
	q.n--
	return d
}

// Len returns the number of queued turns.
func (q *DirQueue) Len() int { return q.n }

// Clear drops all queued turns.
func (q *DirQueue) Clear() { q.n = 0 }
