package app

import (
	"time"

	"fyne.io/fyne/v2"
)

// notificationFallback raises a desktop notification when the cue cannot play.
type notificationFallback struct {
	app fyne.App
}

func (fallback notificationFallback) Alert([]time.Duration) error {
	fyne.Do(func() {
		fallback.app.SendNotification(fyne.NewNotification(Name, "Time is up"))
	})
	return nil
}
