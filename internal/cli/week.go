package cli

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/london-prayer-feed/internal/timetable"
)

const defaultWeekOutput = "data/london-prayer-times-7d.json"

func newWeekCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Generate the rolling 7-day timetable",
		Long: "Generate a rolling window of daily prayer times starting today (Europe/London).\n" +
			"Dates missing from the fresh fetch fall back to the previous output file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolveKey(false)
			if err != nil {
				return err
			}

			output := outputPath(defaultWeekOutput)
			now := timetable.NowInLondon()
			window := timetable.Rolling(now, days)

			snapshot := timetable.LoadSnapshot(output)
			if snapshot.Len() > 0 {
				log.Debug().Int("dates", snapshot.Len()).Str("path", output).Msg("loaded stale snapshot")
			}

			builder := &timetable.Builder{
				Fetcher:  newFetchClient(key),
				Snapshot: snapshot,
				Now:      func() time.Time { return now },
			}

			payload, err := builder.Build(cmd.Context(), window)
			if err != nil {
				return err
			}
			if err := payload.WriteFile(output); err != nil {
				return err
			}

			log.Info().Str("path", output).Int("days", payload.DaysCount).Msg("wrote timetable")
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Window length in days")

	return cmd
}
