package main

import (
	"context"
	"errors"
	"sync/atomic"

	"breathwork/internal/core/clock"
	"breathwork/internal/core/session"
	"breathwork/internal/platform"
	"breathwork/internal/storage"
	"breathwork/internal/ui/animation"
	"breathwork/internal/ui/exercise"
	"breathwork/internal/ui/preferences"
	"breathwork/internal/ui/tray"
	"breathwork/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"
)

func newGUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop window (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, opts)
		},
	}
}

func runGUI(cmd *cobra.Command, opts *options) error {
	env, err := newEnvironment(cmd, opts)
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.logger

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if showErr := platform.RequestShow(appName); showErr != nil {
				logger.Warn("breathwork is already running", "err", err, "show_err", showErr)
				return nil
			}
			logger.Info("breathwork is already running, showing its window")
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.AppIcon))

	exerciseSession := session.New(clock.NewReal(),
		session.WithLogger(logger),
		session.WithConfig(env.settings.ExerciseConfig()),
	)

	exerciseWindow := exercise.New(fyneApp, nil)
	exerciseWindow.SetEngine(animation.New(animation.DefaultConfig(), exerciseWindow.SetScale))
	exerciseWindow.SetOnStart(func() {
		if err := exerciseSession.Start(); err != nil {
			logger.Error("start exercise", "err", err)
		}
	})
	exerciseWindow.SetOnRelease(func() {
		exerciseSession.Release()
	})
	exerciseWindow.SetOnReset(exerciseSession.Reset)

	settings := env.settings
	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.Error("save settings", "err", err)
		}
		if err := exerciseSession.Configure(settings.ExerciseConfig()); err != nil {
			logger.Error("apply settings", "err", err)
		}
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		icons := tray.Icons{
			Idle: resources.MustIcon(resources.TrayIcon),
			Hold: resources.MustIcon(resources.HoldIcon),
		}
		trayManager = tray.New(desktopApp, icons, tray.Callbacks{
			OnShow: exerciseWindow.Show,
			OnStart: func() {
				exerciseWindow.Show()
				if err := exerciseSession.Start(); err != nil {
					logger.Error("start exercise", "err", err)
				}
			},
			OnRelease: func() {
				exerciseSession.Release()
			},
			OnReset:       exerciseSession.Reset,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		exerciseWindow.HideOnClose()
	} else {
		logger.Info("system tray unsupported on this platform")
	}
	guard.ServeShowRequests(func() {
		fyne.Do(exerciseWindow.Show)
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	var uiStopped atomic.Bool
	done := watchEvents(exerciseSession.Subscribe(8), func(event session.Event) {
		if uiStopped.Load() {
			recordEvent(ctx, env, event)
			return
		}
		handleEvent(ctx, env, event, exerciseWindow, trayManager)
	})

	exerciseWindow.Render(exerciseSession.Snapshot())
	exerciseWindow.Show()
	fyneApp.Run()

	// The history closes with env, so the last result must be recorded first.
	uiStopped.Store(true)
	exerciseSession.Close()
	<-done
	return nil
}

// watchEvents hands every event to handle until the channel closes. The
// returned channel closes once the last handle call has returned.
func watchEvents(events <-chan session.Event, handle func(session.Event)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			handle(event)
		}
	}()
	return done
}

func handleEvent(ctx context.Context, env *environment, event session.Event, exerciseWindow *exercise.Window, trayManager *tray.Manager) {
	exerciseWindow.Render(event.Snapshot)
	if trayManager != nil && event.Type != session.EventTick {
		snapshot := event.Snapshot
		fyne.Do(func() {
			trayManager.SetSnapshot(snapshot)
		})
	}
	recordEvent(ctx, env, event)
}

func recordEvent(ctx context.Context, env *environment, event session.Event) {
	if event.Type != session.EventFinished {
		return
	}
	if _, err := env.recordFinished(ctx, event.Snapshot); err != nil {
		env.logger.Error("record session", "err", err)
	}
}
