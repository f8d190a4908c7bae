package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <name> [contact]",
	Short: "Show a legacy task schedule, or evaluate its events for a contact",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reportID, _ := cmd.Flags().GetString("report")
		baseFlag, _ := cmd.Flags().GetString("base")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 1 {
			schedule := a.utils.GetSchedule(args[0])
			if schedule == nil {
				return fmt.Errorf("schedule %q not configured", args[0])
			}
			return printJSON(cmd.OutOrStdout(), schedule)
		}

		var base time.Time
		if baseFlag != "" {
			if base, err = parseDate(baseFlag); err != nil {
				return err
			}
		}

		status, err := a.resolution.ScheduleStatus(args[1], reportID, args[0], base)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), status)
	},
}

func init() {
	scheduleCmd.Flags().String("report", "", "ID of the report that triggered the schedule")
	scheduleCmd.Flags().String("base", "", "date the schedule's event days count from (defaults to the report date)")
}
