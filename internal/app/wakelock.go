package app

import (
	"sync"

	"pomodoro/internal/core/timekeeper"
)

// WakeLockSwitch gates a wake lock behind the user preference.
// Turning it on while the countdown runs acquires the lock at once.
type WakeLockSwitch struct {
	mu      sync.Mutex
	inner   timekeeper.WakeLock
	enabled bool
	wanted  bool
	held    bool
}

// NewWakeLockSwitch wraps inner. A nil inner never holds anything.
func NewWakeLockSwitch(inner timekeeper.WakeLock, enabled bool) *WakeLockSwitch {
	return &WakeLockSwitch{inner: inner, enabled: enabled}
}

// Acquire records that the countdown runs and holds the lock if enabled.
func (lock *WakeLockSwitch) Acquire() {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	lock.wanted = true
	lock.applyLocked()
}

// Release records that the countdown stopped and drops the lock.
func (lock *WakeLockSwitch) Release() {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	lock.wanted = false
	lock.applyLocked()
}

// SetEnabled changes the preference.
func (lock *WakeLockSwitch) SetEnabled(enabled bool) {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	lock.enabled = enabled
	lock.applyLocked()
}

// Enabled reports the preference.
func (lock *WakeLockSwitch) Enabled() bool {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	return lock.enabled
}

func (lock *WakeLockSwitch) applyLocked() {
	if lock.inner == nil {
		return
	}
	hold := lock.wanted && lock.enabled
	if hold == lock.held {
		return
	}
	lock.held = hold
	if hold {
		lock.inner.Acquire()
	} else {
		lock.inner.Release()
	}
}
