package commands

import (
	"context"
	"errors"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"studyclock/internal/core/timekeeper"
	"studyclock/internal/notify"
	"studyclock/internal/platform"
	"studyclock/internal/ui/clockface"
	"studyclock/internal/ui/preferences"
	"studyclock/internal/ui/tray"
	"studyclock/resources"
)

func newGUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop clock with a tray menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, opts)
		},
	}
}

func runGUI(cmd *cobra.Command, opts *rootOptions) error {
	s, err := openSession(opts)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			switch signalErr := platform.SignalRunning(appName); {
			case signalErr == nil:
				log.Printf("study clock already running, raised existing window")
				return nil
			case errors.Is(signalErr, platform.ErrNoWindow):
				return fmt.Errorf("study clock is already running in a terminal session: %w", err)
			}
		}
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustLogo(resources.ActiveLogo))
	s.addNotifier(notify.Desktop{App: fyneApp})

	var prefsWindow *preferences.Window
	clock := clockface.New(fyneApp, clockface.Callbacks{
		OnStart: s.keeper.Start,
		OnStop:  s.keeper.Stop,
		OnReset: s.keeper.Reset,
		OnSettings: func() {
			prefsWindow.Show()
		},
	})
	prefsWindow = preferences.New(fyneApp, s.settings, func(updated preferences.Settings) {
		if err := s.applySettings(updated); err != nil {
			log.Printf("settings: %v", err)
		}
	})

	var trayManager *tray.Manager
	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow:     clock.Show,
			OnStart:    s.keeper.Start,
			OnStop:     s.keeper.Stop,
			OnReset:    s.keeper.Reset,
			OnSettings: prefsWindow.Show,
			OnQuit:     fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.MustLogo(resources.PausedLogo))
		clock.Window().SetCloseIntercept(clock.Window().Hide)
	} else {
		log.Printf("system tray unsupported on this platform")
		clock.Window().SetMaster()
	}

	render := func(snapshot timekeeper.Snapshot) {
		clock.Render(snapshot)
		if trayManager == nil {
			return
		}
		trayManager.SetSnapshot(snapshot)
		icon := resources.PausedLogo
		if snapshot.Status == timekeeper.StatusRunning {
			icon = resources.ActiveLogo
		}
		desktopApp.SetSystemTrayIcon(resources.MustLogo(icon))
	}

	events := s.keeper.Subscribe(32)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.keeper.Run(groupCtx)
	})
	group.Go(func() error {
		return s.historyRecorder()(groupCtx)
	})
	group.Go(func() error {
		return s.guard.Serve(groupCtx, func() {
			fyne.Do(clock.Show)
		})
	})
	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case event, ok := <-events:
				if !ok {
					return nil
				}
				fyne.Do(func() {
					render(event.Snapshot)
				})
			}
		}
	})

	render(s.keeper.Snapshot())
	clock.Show()
	fyneApp.Run()

	cancel()
	clock.Close()
	return group.Wait()
}
