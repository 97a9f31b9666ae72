package tray

import (
	"fmt"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timekeeper"

	"fyne.io/fyne/v2"
)

const menuTitle = "Pomodoro"

// Host receives the tray menu and icon. desktop.App satisfies it.
type Host interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow   func()
	OnToggle func()
	OnReset  func()
	OnMode   func(mode model.Mode)
	OnQuit   func()
}

// Manager handles system tray state.
type Manager struct {
	host       Host
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	modeItems  map[model.Mode]*fyne.MenuItem
	menu       *fyne.Menu
	activeIcon fyne.Resource
	pausedIcon fyne.Resource
	active     bool
}

// New creates a tray manager and installs its menu on host.
func New(host Host, settings model.Settings, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:      host,
		callbacks: callbacks,
		modeItems: make(map[model.Mode]*fyne.MenuItem, len(model.Modes)),
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggle != nil {
			manager.callbacks.OnToggle()
		}
	})
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	modeMenu := fyne.NewMenu("")
	for _, mode := range model.Modes {
		item := fyne.NewMenuItem(settings.Get(mode).Label, func() {
			if manager.callbacks.OnMode != nil {
				manager.callbacks.OnMode(mode)
			}
		})
		manager.modeItems[mode] = item
		modeMenu.Items = append(modeMenu.Items, item)
	}
	modeItem := fyne.NewMenuItem("Mode", nil)
	modeItem.ChildMenu = modeMenu

	show := fyne.NewMenuItem("Show timer", func() {
		if manager.callbacks.OnShow != nil {
			manager.callbacks.OnShow()
		}
	})
	quit := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	quit.IsQuit = true

	manager.menu = fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
		modeItem,
		fyne.NewMenuItemSeparator(),
		show,
		quit,
	)
	manager.refreshMenu()
	return manager
}

// Menu returns the installed tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

// SetIcons sets the tray icons for the running and idle states.
func (manager *Manager) SetIcons(active, paused fyne.Resource) {
	manager.activeIcon = active
	manager.pausedIcon = paused
	manager.refreshIcon()
}

// Update reflects snapshot in the menu. It must run on the fyne goroutine.
func (manager *Manager) Update(snapshot timekeeper.Snapshot) {
	manager.statusItem.Label = fmt.Sprintf("Status: %s", Status(snapshot))

	if snapshot.Active {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.toggleItem.Disabled = !snapshot.Active && snapshot.RemainingSeconds == 0

	for mode, item := range manager.modeItems {
		item.Checked = mode == snapshot.Mode
	}
	manager.refreshMenu()

	if snapshot.Active != manager.active {
		manager.active = snapshot.Active
		manager.refreshIcon()
	}
}

// Watch applies every event until the channel closes.
func (manager *Manager) Watch(events <-chan timekeeper.Event) {
	for event := range events {
		fyne.Do(func() {
			manager.Update(event.Snapshot)
		})
	}
}

// Status formats the tray status line for snapshot.
func Status(snapshot timekeeper.Snapshot) string {
	status := fmt.Sprintf("%s %s", snapshot.Label, snapshot.Clock())
	if !snapshot.Active && snapshot.RemainingSeconds < snapshot.TotalSeconds {
		status = fmt.Sprintf("%s (paused)", status)
	}
	return status
}

func (manager *Manager) refreshMenu() {
	if manager.host != nil {
		manager.host.SetSystemTrayMenu(manager.menu)
	}
}

func (manager *Manager) refreshIcon() {
	icon := manager.pausedIcon
	if manager.active {
		icon = manager.activeIcon
	}
	if manager.host != nil && icon != nil {
		manager.host.SetSystemTrayIcon(icon)
	}
}
