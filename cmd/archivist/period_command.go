package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"archivist/internal/config"
	"archivist/internal/period"
)

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.DateOnly,
	time.RFC3339,
}

func newPeriodCommand() *cobra.Command {
	var timezone string

	cmd := &cobra.Command{
		Use:         "period [DATE]",
		Short:       "Show the period label of a date for every grouping strategy",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := config.ParseTimezone(timezone)
			if err != nil {
				return fmt.Errorf("timezone: %w", err)
			}
			date := time.Now().In(loc)
			if len(args) == 1 {
				if date, err = parseDate(args[0], loc); err != nil {
					return err
				}
			}

			title := cases.Title(language.English)
			rows := make([][]string, 0, len(period.Strategies()))
			for _, strategy := range period.Strategies() {
				p := period.Classify(date, strategy)
				rows = append(rows, []string{
					title.String(strategy.String()),
					p.Label(),
					p.Start(loc).Format(time.DateOnly),
					strategy.Example(),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s\n", date.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintln(out, renderTable("",
				[]string{"Strategy", "Label", "Starts", "Example"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&timezone, "timezone", "", "Time zone for the date: UTC (default), local or an IANA name")
	return cmd
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (expected 2025-01-15 or 2025-01-15T06:30:53)", value)
}
