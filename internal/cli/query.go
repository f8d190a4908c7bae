package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/taskrules/internal/domain"
)

var recentCmd = &cobra.Command{
	Use:   "recent <contact> <form>",
	Short: "Show the most recent non-deleted report of a form",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringArray("field")
		filter, err := parseFilter(pairs)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.resolution.MostRecent(args[0], args[1], filter)
		if err != nil {
			return err
		}
		if report == nil {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"found": false})
		}
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"found":  true,
			"report": report,
		})
	},
}

var windowCmd = &cobra.Command{
	Use:   "window <contact> <form>",
	Short: "Check whether a form was submitted inside a date window (both ends inclusive)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		startFlag, _ := cmd.Flags().GetString("from")
		endFlag, _ := cmd.Flags().GetString("to")
		count, _ := cmd.Flags().GetInt("count")

		start, err := parseDate(startFlag)
		if err != nil {
			return err
		}
		end, err := parseDate(endFlag)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		submitted, err := a.resolution.SubmittedInWindow(args[0], args[1], start, end, count)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"form":      args[1],
			"start":     start,
			"end":       end,
			"submitted": submitted,
		})
	},
}

var resolvedCmd = &cobra.Command{
	Use:   "resolved <contact>",
	Short: "Check whether a task is resolved by a submission of its resolving form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reportID, _ := cmd.Flags().GetString("report")
		form, _ := cmd.Flags().GetString("form")
		dueFlag, _ := cmd.Flags().GetString("due")
		startDays, _ := cmd.Flags().GetInt("start")
		endDays, _ := cmd.Flags().GetInt("end")

		if form == "" {
			return fmt.Errorf("--form is required")
		}
		dueDate, err := parseDate(dueFlag)
		if err != nil {
			return err
		}
		event := domain.Event{Start: startDays, End: endDays}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		status, err := a.resolution.TaskStatus(args[0], reportID, event, dueDate, form)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"form":        form,
			"windowStart": status.Start,
			"windowEnd":   status.End,
			"resolved":    status.Resolved,
		})
	},
}

var lmpCmd = &cobra.Command{
	Use:   "lmp <contact> <report>",
	Short: "Estimate the last menstrual period from a pregnancy report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		lmp, err := a.resolution.LmpDate(args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{"lmp": lmp.Format("2006-01-02")})
	},
}

func init() {
	recentCmd.Flags().StringArray("field", nil, "field filter as path=value, repeatable")

	windowCmd.Flags().String("from", "", "window start (YYYY-MM-DD, RFC 3339 or epoch ms)")
	windowCmd.Flags().String("to", "", "window end (YYYY-MM-DD, RFC 3339 or epoch ms)")
	windowCmd.Flags().Int("count", 0, "require follow_up_count greater than this (0 disables)")
	windowCmd.MarkFlagRequired("from")
	windowCmd.MarkFlagRequired("to")

	resolvedCmd.Flags().String("report", "", "ID of the report that triggered the task")
	resolvedCmd.Flags().String("form", "", "resolving form")
	resolvedCmd.Flags().String("due", "", "task due date (YYYY-MM-DD, RFC 3339 or epoch ms)")
	resolvedCmd.Flags().Int("start", 0, "days before the due date the window opens")
	resolvedCmd.Flags().Int("end", 0, "days after the due date the window closes")
	resolvedCmd.MarkFlagRequired("due")
}
