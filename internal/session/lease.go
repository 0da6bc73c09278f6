package session

import "sync"

// WriterLease is a Lease held by at most one session.
type WriterLease struct {
	mu   sync.Mutex
	held bool
}

// Acquire takes the lease or fails with ErrSessionBusy.
func (l *WriterLease) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return ErrSessionBusy
	}
	l.held = true
	return nil
}

// Release frees the lease.
func (l *WriterLease) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
}

// Held reports whether a session holds the lease.
func (l *WriterLease) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}
