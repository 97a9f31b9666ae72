//go:build linux

package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	screenSaverName      = "org.freedesktop.ScreenSaver"
	screenSaverPath      = dbus.ObjectPath("/org/freedesktop/ScreenSaver")
	screenSaverInhibit   = screenSaverName + ".Inhibit"
	screenSaverUnInhibit = screenSaverName + ".UnInhibit"
	serviceUnknownError  = "org.freedesktop.DBus.Error.ServiceUnknown"
)

// screenSaverInhibitor holds an inhibit cookie from the session screen saver.
type screenSaverInhibitor struct {
	conn    *dbus.Conn
	appName string
	cookie  uint32
	held    bool
}

func newInhibitor(appName string) (inhibitor, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: session bus: %v", ErrWakeLockUnsupported, err)
	}
	return &screenSaverInhibitor{conn: conn, appName: appName}, nil
}

func (backend *screenSaverInhibitor) Inhibit(ctx context.Context) error {
	if backend.held {
		return nil
	}
	object := backend.conn.Object(screenSaverName, screenSaverPath)
	call := object.CallWithContext(ctx, screenSaverInhibit, 0, backend.appName, "countdown running")
	if call.Err != nil {
		return translateDBusError("inhibit screen saver", call.Err)
	}
	if err := call.Store(&backend.cookie); err != nil {
		return fmt.Errorf("inhibit screen saver: read cookie: %w", err)
	}
	backend.held = true
	return nil
}

func (backend *screenSaverInhibitor) Uninhibit(ctx context.Context) error {
	if !backend.held {
		return nil
	}
	backend.held = false
	object := backend.conn.Object(screenSaverName, screenSaverPath)
	call := object.CallWithContext(ctx, screenSaverUnInhibit, 0, backend.cookie)
	if call.Err != nil {
		return translateDBusError("uninhibit screen saver", call.Err)
	}
	return nil
}

func translateDBusError(action string, err error) error {
	var dbusErr dbus.Error
	var dbusErrPtr *dbus.Error
	switch {
	case errors.As(err, &dbusErr) && dbusErr.Name == serviceUnknownError,
		errors.As(err, &dbusErrPtr) && dbusErrPtr.Name == serviceUnknownError:
		return fmt.Errorf("%s: %w", action, ErrWakeLockUnsupported)
	}
	return fmt.Errorf("%s: %w", action, err)
}
