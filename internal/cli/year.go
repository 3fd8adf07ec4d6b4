package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/london-prayer-feed/internal/timetable"
)

const defaultYearOutput = "data/london-prayer-times-1yr.json"

func newYearCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "year",
		Short: "Generate the full calendar-year timetable",
		Long:  "Generate daily prayer times for every day of a calendar year (Jan 1 - Dec 31).",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolveKey(true)
			if err != nil {
				return err
			}

			target := year
			if target == 0 {
				target = timetable.NowInLondon().Year()
			}

			window := timetable.CalendarYear(target)
			builder := &timetable.Builder{Fetcher: newFetchClient(key)}

			payload, err := builder.Build(cmd.Context(), window)
			if err != nil {
				return err
			}

			output := outputPath(defaultYearOutput)
			if err := payload.WriteFile(output); err != nil {
				return err
			}

			log.Info().Str("path", output).Int("days", payload.DaysCount).Int("year", target).Msg("wrote timetable")
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Target calendar year (default: current year in Europe/London)")

	return cmd
}
