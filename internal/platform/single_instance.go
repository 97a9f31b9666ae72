package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another timer window is already open.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceLock keeps one timer per user session by holding a localhost port.
type InstanceLock struct {
	listener net.Listener
}

// LockInstance binds the port derived from appName.
func LockInstance(appName string) (*InstanceLock, error) {
	address := fmt.Sprintf("127.0.0.1:%d", instancePort(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, address)
	}
	return &InstanceLock{listener: listener}, nil
}

// Address returns the bound address.
func (lock *InstanceLock) Address() string {
	if lock == nil || lock.listener == nil {
		return ""
	}
	return lock.listener.Addr().String()
}

// Release frees the port. It is safe to call on a nil lock.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

func instancePort(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	return minPort + int(hash.Sum32()%uint32(maxPort-minPort+1))
}
