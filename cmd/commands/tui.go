package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"studyclock/internal/storage"
	"studyclock/internal/ui/preferences"
	"studyclock/internal/ui/terminal"
)

const tuiLogFile = "tui.log"

func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the clock in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	logPath, err := storage.ConfigPath(appName, tuiLogFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	logFile, err := tea.LogToFile(logPath, "studyclock")
	if err != nil {
		return fmt.Errorf("open tui log: %w", err)
	}
	defer logFile.Close()

	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.historyRecorder()(groupCtx)
	})
	group.Go(func() error {
		return s.guard.Serve(groupCtx, nil)
	})
	group.Go(func() error {
		defer cancel()
		return terminal.Run(groupCtx, s.keeper, terminal.Options{
			TickInterval: opts.tick,
			Settings:     s.settings,
			OnSettings: func(updated preferences.Settings) error {
				if err := s.keepSettings(updated); err != nil {
					log.Printf("settings: %v", err)
					return err
				}
				return nil
			},
		})
	})
	return group.Wait()
}
