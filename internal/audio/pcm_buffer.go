package audio

import (
	"sync"
	"time"
)

// pcmBuffer sits between a blocking writer (the playback loop) and a realtime
// consumer (the device callback). The writer blocks while the buffer is full,
// which is what paces the session; the consumer never blocks and zero-fills
// when the buffer runs dry.
type pcmBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	data   []byte
	max    int
	closed bool
}

func newPCMBuffer(max int) *pcmBuffer {
	b := &pcmBuffer{max: max}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// write appends p, blocking while the buffer is at capacity. A negative
// timeout waits without bound. Returns the number of bytes accepted; on
// timeout or close the count may be short.
func (b *pcmBuffer) write(p []byte, timeout time.Duration) (int, error) {
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	written := 0
	for written < len(p) {
		if b.closed {
			return written, ErrSinkDestroyed
		}
		space := b.max - len(b.data)
		if space > 0 {
			n := min(space, len(p)-written)
			b.data = append(b.data, p[written:written+n]...)
			written += n
			continue
		}
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return written, ErrSinkWrite
			}
			// Wake the wait when the deadline passes; consume wakes it sooner.
			timer := time.AfterFunc(remaining, b.cond.Broadcast)
			b.cond.Wait()
			timer.Stop()
		} else {
			b.cond.Wait()
		}
	}
	return written, nil
}

// consume copies buffered bytes into p and zero-fills the remainder. Never
// blocks; safe to call from a realtime callback.
func (b *pcmBuffer) consume(p []byte) {
	b.mu.Lock()
	n := copy(p, b.data)
	b.data = b.data[n:]
	if len(b.data) == 0 {
		b.data = b.data[:0]
	}
	b.mu.Unlock()
	b.cond.Broadcast()

	for i := n; i < len(p); i++ {
		p[i] = 0
	}
}

// pending returns the number of buffered bytes not yet consumed.
func (b *pcmBuffer) pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// close unblocks any waiting writer.
func (b *pcmBuffer) close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.cond.Broadcast()
}
