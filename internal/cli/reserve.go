package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// NewReserveCommand creates the reserve command.
func NewReserveCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		customer  string
		partySize int
		at        string
		duration  time.Duration
		actor     string
	)

	cmd := &cobra.Command{
		Use:   "reserve <table-id>",
		Short: "Book a table for a customer",
		Long: `Book a table for a customer at a start time. Without --duration the
house default service window applies.

Example:
  maitred reserve patio_6 --customer 0192... --party 4 --at 2026-09-01T19:00:00Z`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)

			start, err := parseTimeFlag(at)
			if err != nil {
				return err
			}

			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Engine.ReserveTable(cmd.Context(), customer, args[0], partySize, start, duration, actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(renderReservation(res), res)
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "customer id")
	cmd.Flags().IntVar(&partySize, "party", 0, "party size")
	cmd.Flags().StringVar(&at, "at", "", "start time, RFC 3339")
	cmd.Flags().DurationVar(&duration, "duration", 0, "service window length (default policy)")
	addActorFlag(cmd, &actor)
	cmd.MarkFlagRequired("customer")
	cmd.MarkFlagRequired("party")
	cmd.MarkFlagRequired("at")

	return cmd
}
