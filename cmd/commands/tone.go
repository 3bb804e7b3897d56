package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studyclock/internal/notify"
	"studyclock/internal/storage"
)

func newToneCommand() *cobra.Command {
	var (
		outPath string
		play    bool
	)
	cmd := &cobra.Command{
		Use:   "tone",
		Short: "Write or play the phase notification tone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" && !play {
				play = true
			}
			spec := notify.DefaultTone()
			if outPath != "" {
				if err := writeTone(outPath, spec); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			}
			if play {
				settings, err := storage.LoadSettings(appName)
				if err != nil {
					return err
				}
				return notify.Play(spec, settings.Volume)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the tone as a WAV file")
	cmd.Flags().BoolVar(&play, "play", false, "play the tone through the speaker")
	return cmd
}

func writeTone(path string, spec notify.ToneSpec) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create tone file: %w", err)
	}
	if err := notify.WriteWAV(file, spec); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close tone file: %w", err)
	}
	return nil
}
