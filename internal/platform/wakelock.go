package platform

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrWakeLockUnsupported indicates the system offers no way to keep the display awake.
var ErrWakeLockUnsupported = errors.New("wake lock unsupported")

const inhibitTimeout = 2 * time.Second

// inhibitor is the blocking OS primitive behind WakeLock.
type inhibitor interface {
	Inhibit(ctx context.Context) error
	Uninhibit(ctx context.Context) error
}

type unsupportedInhibitor struct {
	err error
}

func (backend unsupportedInhibitor) Inhibit(context.Context) error   { return backend.err }
func (backend unsupportedInhibitor) Uninhibit(context.Context) error { return nil }

// NoopWakeLock never holds anything.
type NoopWakeLock struct{}

// Acquire does nothing.
func (NoopWakeLock) Acquire() {}

// Release does nothing.
func (NoopWakeLock) Release() {}

// WakeLock keeps the screen awake while held. Acquire and Release only
// record the wanted state; a background goroutine talks to the OS, so
// callers never block.
type WakeLock struct {
	backend inhibitor
	logger  *slog.Logger

	mu      sync.Mutex
	desired bool
	held    bool

	signal chan struct{}
	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewWakeLock returns a WakeLock using the platform backend for appName.
// Missing platform support degrades to a lock that is never held.
func NewWakeLock(appName string, logger *slog.Logger) *WakeLock {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	backend, err := newInhibitor(appName)
	if err != nil {
		logger.Info("wake lock disabled", "error", err)
		backend = unsupportedInhibitor{err: err}
	}
	return newWakeLock(backend, logger)
}

func newWakeLock(backend inhibitor, logger *slog.Logger) *WakeLock {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	lock := &WakeLock{
		backend: backend,
		logger:  logger,
		signal:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go lock.run()
	return lock
}

// Acquire requests the lock.
func (lock *WakeLock) Acquire() {
	lock.want(true)
}

// Release drops the lock. Releasing an unheld lock is a no-op.
func (lock *WakeLock) Release() {
	lock.want(false)
}

// Held reports whether the OS currently holds the lock for us.
func (lock *WakeLock) Held() bool {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	return lock.held
}

// Close releases the lock synchronously and stops the background goroutine.
func (lock *WakeLock) Close() {
	lock.once.Do(func() {
		close(lock.stopCh)
	})
	<-lock.done
}

func (lock *WakeLock) want(desired bool) {
	lock.mu.Lock()
	lock.desired = desired
	lock.mu.Unlock()

	select {
	case lock.signal <- struct{}{}:
	default:
	}
}

func (lock *WakeLock) run() {
	defer close(lock.done)
	for {
		select {
		case <-lock.stopCh:
			lock.mu.Lock()
			lock.desired = false
			lock.mu.Unlock()
			lock.reconcile()
			return
		case <-lock.signal:
			lock.reconcile()
		}
	}
}

func (lock *WakeLock) reconcile() {
	lock.mu.Lock()
	desired, held := lock.desired, lock.held
	lock.mu.Unlock()
	if desired == held {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), inhibitTimeout)
	defer cancel()

	if desired {
		if err := lock.backend.Inhibit(ctx); err != nil {
			if errors.Is(err, ErrWakeLockUnsupported) {
				lock.logger.Debug("wake lock acquire skipped", "error", err)
			} else {
				lock.logger.Warn("wake lock acquire", "error", err)
			}
			return
		}
		lock.setHeld(true)
		lock.logger.Debug("wake lock acquired")
		return
	}

	if err := lock.backend.Uninhibit(ctx); err != nil {
		lock.logger.Warn("wake lock release", "error", err)
	}
	lock.setHeld(false)
	lock.logger.Debug("wake lock released")
}

func (lock *WakeLock) setHeld(held bool) {
	lock.mu.Lock()
	lock.held = held
	lock.mu.Unlock()
}
