package commands

import (
	"context"
	"errors"
	"fmt"
	"log"

	"studyclock/internal/core/timekeeper"
	"studyclock/internal/notify"
	"studyclock/internal/platform"
	"studyclock/internal/storage"
	"studyclock/internal/ui/preferences"
)

// session owns the timer and everything persisted around it for one host run.
type session struct {
	opts     *rootOptions
	paths    sessionPaths
	settings preferences.Settings
	keeper   *timekeeper.TimeKeeper
	history  *storage.History
	guard    *platform.InstanceGuard
	extra    []timekeeper.Notifier
}

// sessionPaths locates the files a session reads and writes. An empty path
// turns that file off.
type sessionPaths struct {
	settings string
	snapshot string
	history  string
}

func userSessionPaths() sessionPaths {
	var paths sessionPaths
	var err error
	if paths.settings, err = storage.SettingsPath(appName); err != nil {
		log.Printf("settings: %v", err)
	}
	if paths.snapshot, err = storage.SnapshotPath(appName); err != nil {
		log.Printf("snapshot: %v", err)
	}
	if paths.history, err = storage.HistoryPath(appName); err != nil {
		log.Printf("history: %v", err)
	}
	return paths
}

func openSession(opts *rootOptions) (*session, error) {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		return nil, err
	}
	s, err := newSession(opts, userSessionPaths(), guard)
	if err != nil {
		_ = guard.Release()
		return nil, err
	}
	return s, nil
}

// newSession builds the timer from the settings at paths, restores the saved
// timer and opens the history. guard may be nil.
func newSession(opts *rootOptions, paths sessionPaths, guard *platform.InstanceGuard) (*session, error) {
	settings := preferences.DefaultSettings()
	if paths.settings != "" {
		loaded, err := storage.LoadSettingsFile(paths.settings)
		if err != nil {
			log.Printf("settings: %v", err)
		}
		settings = loaded
	}

	phases := settings.Phases()
	planFile := opts.planFile
	if planFile == "" {
		planFile = settings.PlanFile
	}
	if planFile != "" {
		var err error
		phases, err = storage.LoadPlan(planFile)
		if err != nil {
			return nil, err
		}
	}

	keeper, err := timekeeper.New(phases, timekeeper.Config{TickInterval: opts.tick})
	if err != nil {
		return nil, err
	}

	s := &session{
		opts:     opts,
		paths:    paths,
		settings: settings,
		keeper:   keeper,
		guard:    guard,
	}
	s.rebuildNotifier()

	if settings.RestoreState && !opts.noRestore {
		s.restore(planFile != "")
	}

	if paths.history != "" {
		history, err := storage.OpenHistory(paths.history)
		if err != nil {
			log.Printf("history: %v", err)
		} else {
			s.history = history
		}
	}

	return s, nil
}

// restore loads the saved timer. With a plan the saved phases are replaced by
// the plan and only the counters carry over.
func (s *session) restore(usePlan bool) {
	if s.paths.snapshot == "" {
		return
	}
	state, err := storage.LoadSnapshot(s.paths.snapshot)
	if err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			log.Printf("snapshot: %v", err)
		}
		return
	}
	if usePlan {
		current := s.keeper.Export()
		state.Phases = current.Phases
		state.Index = 0
		state.Remaining = current.Remaining
	}
	if err := s.keeper.Restore(state); err != nil {
		log.Printf("snapshot: %v", err)
	}
}

// addNotifier attaches a host-specific notifier next to the log and tone.
func (s *session) addNotifier(notifier timekeeper.Notifier) {
	s.extra = append(s.extra, notifier)
	s.rebuildNotifier()
}

func (s *session) rebuildNotifier() {
	notifiers := notify.Multi{notify.Log{}}
	if s.settings.SoundEnabled && !s.opts.noSound {
		tone, err := notify.NewTone(notify.DefaultTone(), s.settings.Volume)
		switch {
		case err == nil:
			notifiers = append(notifiers, tone)
		case !errors.Is(err, notify.ErrSilent):
			log.Printf("tone: %v", err)
		}
	}
	notifiers = append(notifiers, s.extra...)
	s.keeper.SetNotifier(notifiers)
}

// applySettings reconfigures the timer and persists updated.
func (s *session) applySettings(updated preferences.Settings) error {
	if err := s.keeper.Reconfigure(updated.Phases()); err != nil {
		return err
	}
	return s.keepSettings(updated)
}

// keepSettings adopts updated for sound and restore even when saving fails.
func (s *session) keepSettings(updated preferences.Settings) error {
	s.settings = updated
	s.rebuildNotifier()
	if s.paths.settings == "" {
		return nil
	}
	if err := storage.SaveSettingsFile(s.paths.settings, updated); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// historyRecorder subscribes now and returns the loop that feeds completed
// sessions into the history database.
func (s *session) historyRecorder() func(context.Context) error {
	if s.history == nil {
		return func(context.Context) error { return nil }
	}
	events := s.keeper.Subscribe(16)
	return func(ctx context.Context) error {
		return storage.RecordSessions(ctx, s.history, events)
	}
}

// Close stops the timer, saves it and releases every resource.
func (s *session) Close() {
	s.keeper.Stop()
	if s.paths.snapshot != "" {
		if err := storage.SaveSnapshot(s.paths.snapshot, s.keeper.Export()); err != nil {
			log.Printf("snapshot: %v", err)
		}
	}
	s.keeper.Close()
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			log.Printf("history: %v", err)
		}
	}
	if err := s.guard.Release(); err != nil {
		log.Printf("single instance: %v", err)
	}
}
