package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"studyclock/internal/storage"
)

func newStatsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completed study sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := storage.HistoryPath(appName)
			if err != nil {
				return err
			}
			history, err := storage.OpenHistory(path)
			if err != nil {
				return err
			}
			defer history.Close()
			return printStats(cmd.Context(), cmd.OutOrStdout(), history, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of recent sessions to list")
	return cmd
}

func printStats(ctx context.Context, out io.Writer, history *storage.History, limit int) error {
	summary, err := history.Summary(ctx)
	if err != nil {
		return err
	}

	heading := color.New(color.Bold)
	value := color.New(color.FgGreen, color.Bold)
	muted := color.New(color.FgHiBlack)

	heading.Fprintln(out, "📊 Statistics")
	fmt.Fprintf(out, "  Completed Sessions: %s\n", value.Sprint(summary.Sessions))
	fmt.Fprintf(out, "  Total Study Time:   %s\n", value.Sprint(formatStudied(summary.Studied)))
	if summary.Sessions == 0 {
		muted.Fprintln(out, "  No sessions recorded yet.")
		return nil
	}
	fmt.Fprintf(out, "  Last Session:       %s\n", summary.LastEnded.Local().Format("2006-01-02 15:04"))

	if limit <= 0 {
		return nil
	}
	records, err := history.Recent(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	heading.Fprintln(out, "Recent Sessions")
	for _, record := range records {
		fmt.Fprintf(out, "  %s  %8s  %s\n",
			record.CompletedAt.Local().Format("2006-01-02 15:04"),
			formatStudied(record.Duration),
			muted.Sprint(record.Phases),
		)
	}
	return nil
}

func formatStudied(studied time.Duration) string {
	totalMinutes, err := safecast.Conv[int](int64(studied / time.Minute))
	if err != nil {
		return studied.String()
	}
	hours, minutes := totalMinutes/60, totalMinutes%60
	if hours == 0 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}
