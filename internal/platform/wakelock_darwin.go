//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// caffeinateInhibitor keeps a `caffeinate -d` child alive while held.
type caffeinateInhibitor struct {
	path string
	cmd  *exec.Cmd
}

func newInhibitor(string) (inhibitor, error) {
	path, err := exec.LookPath("caffeinate")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWakeLockUnsupported, err)
	}
	return &caffeinateInhibitor{path: path}, nil
}

func (backend *caffeinateInhibitor) Inhibit(context.Context) error {
	if backend.cmd != nil {
		return nil
	}
	// -w ties the child to our pid so a crash cannot leave the display pinned.
	cmd := exec.Command(backend.path, "-d", "-w", strconv.Itoa(os.Getpid()))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start caffeinate: %w", err)
	}
	backend.cmd = cmd
	return nil
}

func (backend *caffeinateInhibitor) Uninhibit(context.Context) error {
	if backend.cmd == nil {
		return nil
	}
	cmd := backend.cmd
	backend.cmd = nil
	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("stop caffeinate: %w", err)
	}
	_ = cmd.Wait()
	return nil
}
