package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"studyclock/internal/version"
)

const (
	appName = "StudyClock"
	appID   = "com.studyclock.app"
)

type rootOptions struct {
	planFile  string
	tick      time.Duration
	noSound   bool
	noRestore bool
}

// NewRootCommand creates the root command. Without a subcommand it opens the
// desktop clock.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "studyclock",
		Short:         "Pomodoro-style study clock",
		Long:          `studyclock walks you through timed study, break and sprint phases and keeps a history of completed sessions.`,
		Version:       version.Colored(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !isTerminal(os.Stdout) {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.planFile, "plan", "", "TOML phase plan replacing the standard phases")
	flags.DurationVar(&opts.tick, "tick", time.Second, "how often the timer is polled")
	flags.BoolVar(&opts.noSound, "no-sound", false, "disable the notification tone")
	flags.BoolVar(&opts.noRestore, "no-restore", false, "start fresh instead of restoring the saved timer")

	rootCmd.AddCommand(newGUICommand(opts))
	rootCmd.AddCommand(newTUICommand(opts))
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newToneCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
