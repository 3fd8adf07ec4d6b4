package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/london-prayer-feed/internal/ramadan"
	"github.com/smokyabdulrahman/london-prayer-feed/internal/timetable"
)

const defaultRamadanOutput = "data/london-ramadan-times.json"

// maxDisplayedMissing caps the missing-date list shown in the ramadan
// diagnostic. The underlying error still carries every gap.
const maxDisplayedMissing = 5

func newRamadanCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "ramadan",
		Short: "Generate the Ramadan timetable",
		Long: "Generate daily prayer times for Ramadan (the 9th Hijri month) of the target year,\n" +
			"including suhoor and iftar times and a ramadan_day counter.",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolveKey(true)
			if err != nil {
				return err
			}

			target := year
			if target == 0 {
				target = timetable.NowInLondon().Year()
			}

			start, end, err := ramadan.RangeNear(target)
			if err != nil {
				return err
			}
			log.Debug().
				Str("start", start.Format(timetable.DateLayout)).
				Str("end", end.Format(timetable.DateLayout)).
				Msg("resolved Ramadan range")

			window := timetable.RamadanWindow(target, start, end)
			builder := &timetable.Builder{Fetcher: newFetchClient(key)}

			payload, err := builder.Build(cmd.Context(), window)
			if err != nil {
				var genErr *timetable.GenerationError
				if errors.As(err, &genErr) {
					return fmt.Errorf("missing timetable data for dates: %s",
						timetable.FormatMissing(genErr.Missing, maxDisplayedMissing))
				}
				return err
			}

			output := outputPath(defaultRamadanOutput)
			if err := payload.WriteFile(output); err != nil {
				return err
			}

			log.Info().Str("path", output).Int("days", payload.DaysCount).Msg("wrote Ramadan timetable")
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Target Gregorian year (default: current year in Europe/London)")

	return cmd
}
