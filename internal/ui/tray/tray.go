package tray

import (
	"fmt"

	"breathwork/internal/core/session"
	"breathwork/internal/ui/display"

	"fyne.io/fyne/v2"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnStart       func()
	OnRelease     func()
	OnReset       func()
	OnPreferences func()
	OnQuit        func()
}

// TrayApp is the part of desktop.App the tray needs.
type TrayApp interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Icons are the tray icons; nil icons are left unchanged.
type Icons struct {
	Idle fyne.Resource
	Hold fyne.Resource
}

// Manager handles system tray state.
type Manager struct {
	app         TrayApp
	icons       Icons
	icon        fyne.Resource
	statusItem  *fyne.MenuItem
	showItem    *fyne.MenuItem
	startItem   *fyne.MenuItem
	releaseItem *fyne.MenuItem
	resetItem   *fyne.MenuItem
	prefsItem   *fyne.MenuItem
	quitItem    *fyne.MenuItem
	callbacks   Callbacks
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app TrayApp, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		icons:     icons,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: ready", nil)
	manager.statusItem.Disabled = true
	manager.showItem = fyne.NewMenuItem("Show window", func() { call(manager.callbacks.OnShow) })
	manager.startItem = fyne.NewMenuItem("Start exercise", func() { call(manager.callbacks.OnStart) })
	manager.releaseItem = fyne.NewMenuItem("Release breath", func() { call(manager.callbacks.OnRelease) })
	manager.releaseItem.Disabled = true
	manager.resetItem = fyne.NewMenuItem("Reset", func() { call(manager.callbacks.OnReset) })
	manager.resetItem.Disabled = true
	manager.prefsItem = fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) })
	manager.quitItem = fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) })
	manager.quitItem.IsQuit = true

	manager.statusLabel = "ready"
	manager.refreshMenu()
	manager.setIcon(icons.Idle)
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetSnapshot updates the status and enables the items valid in the snapshot's phase.
func (manager *Manager) SetSnapshot(snapshot session.Snapshot) {
	running := snapshot.Running()
	manager.releaseItem.Disabled = !display.CanRelease(snapshot)
	manager.resetItem.Disabled = !running
	if running {
		manager.startItem.Label = "Restart exercise"
	} else {
		manager.startItem.Label = "Start exercise"
	}
	if snapshot.Phase == session.PhaseHoldBreath {
		manager.setIcon(manager.icons.Hold)
	} else {
		manager.setIcon(manager.icons.Idle)
	}
	manager.SetStatus(statusFor(snapshot))
}

func (manager *Manager) setIcon(icon fyne.Resource) {
	if icon == nil || icon == manager.icon || manager.app == nil {
		return
	}
	manager.icon = icon
	manager.app.SetSystemTrayIcon(icon)
}

func (manager *Manager) refreshStatus() {
	manager.statusItem.Label = fmt.Sprintf("Status: %s", manager.statusLabel)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Breathwork",
		manager.statusItem,
		manager.showItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.releaseItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		manager.prefsItem,
		manager.quitItem,
	))
}

func statusFor(snapshot session.Snapshot) string {
	switch snapshot.Phase {
	case session.PhaseSetup:
		return "ready"
	case session.PhaseResults:
		return fmt.Sprintf("finished, max hold %s", display.FormatSeconds(snapshot.MaxHoldDuration))
	default:
		return fmt.Sprintf("%s, %s", display.RoundLabel(snapshot), display.Caption(snapshot))
	}
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
