package daemon

import (
	"sync"
	"time"
)

// Lifecycle is the idle clock of one session. Expired closes once no request
// arrived for the idle timeout; a zero timeout never expires.
type Lifecycle struct {
	timeout time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	lastSeen time.Time
	requests int

	expired  chan struct{}
	stopOnce sync.Once
}

// NewLifecycle starts the idle clock.
func NewLifecycle(timeout time.Duration) *Lifecycle {
	l := &Lifecycle{
		timeout:  timeout,
		lastSeen: time.Now(),
		expired:  make(chan struct{}),
	}
	if timeout > 0 {
		l.timer = time.AfterFunc(timeout, l.expire)
	}
	return l
}

// Connected restarts the idle clock when the client connects.
func (l *Lifecycle) Connected() {
	l.touch(false)
}

// Served counts one request and restarts the idle clock.
func (l *Lifecycle) Served() {
	l.touch(true)
}

func (l *Lifecycle) touch(request bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastSeen = time.Now()
	if request {
		l.requests++
	}
	if l.timer != nil {
		l.timer.Reset(l.timeout)
	}
}

// Requests returns how many requests were served.
func (l *Lifecycle) Requests() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requests
}

// Idle returns the time since the client connected or last sent a request.
func (l *Lifecycle) Idle() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return time.Since(l.lastSeen)
}

// Expired is closed when the session ran idle or was stopped.
func (l *Lifecycle) Expired() <-chan struct{} {
	return l.expired
}

// Stop releases the timer and closes Expired. Repeated calls are no-ops.
func (l *Lifecycle) Stop() {
	if l.timer != nil {
		l.timer.Stop()
	}
	l.expire()
}

func (l *Lifecycle) expire() {
	l.stopOnce.Do(func() { close(l.expired) })
}
