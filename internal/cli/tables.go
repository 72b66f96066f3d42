package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/maitred-run/maitred/internal/entity"
)

// NewTablesCommand creates the tables command: list the floor, find
// availability, show utilization.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		available   bool
		utilization bool
		partySize   int
		at          string
		duration    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables, availability or floor utilization",
		Long: `List every table with its status. With --available, list only the
tables that could host a party in a window; with --utilization, print a
floor usage summary instead.

Examples:
  maitred tables
  maitred tables --available --party 4 --at 2026-09-01T19:00:00Z
  maitred tables --utilization`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)

			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			switch {
			case utilization:
				when, err := parseTimeFlag(at)
				if err != nil {
					return err
				}
				rep := app.Engine.Utilization(when)
				return out.Success(renderUtilization(rep), rep)

			case available:
				if partySize <= 0 {
					return WrapExitError(ExitCommandError, "--available requires --party", nil)
				}
				start, err := parseTimeFlag(at)
				if err != nil {
					return err
				}
				if start.IsZero() {
					start = time.Now()
				}
				d := duration
				if d == 0 {
					d = app.Engine.Policy().DefaultDuration
				}
				tables := app.Engine.FindAvailableTables(partySize, entity.NewWindow(start, d))
				if len(tables) == 0 {
					return out.Success("no table available", []entity.Table{})
				}
				return out.Success(renderTables(tables), tables)

			default:
				tables := app.Engine.Store().Tables()
				return out.Success(renderTables(tables), tables)
			}
		},
	}

	cmd.Flags().BoolVar(&available, "available", false, "list tables available for a party")
	cmd.Flags().BoolVar(&utilization, "utilization", false, "show floor utilization")
	cmd.Flags().IntVar(&partySize, "party", 0, "party size for --available")
	cmd.Flags().StringVar(&at, "at", "", "point in time, RFC 3339 (default now)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "window length for --available (default policy)")
	cmd.MarkFlagsMutuallyExclusive("available", "utilization")

	return cmd
}

// parseTimeFlag parses an RFC 3339 flag value; empty means zero time.
func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, WrapExitError(ExitCommandError, fmt.Sprintf("invalid time %q, want RFC 3339", s), err)
	}
	return t, nil
}
