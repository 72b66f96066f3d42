package cli

import (
	"github.com/spf13/cobra"
)

// NewReservationCommand creates the reservation command group.
func NewReservationCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservation",
		Short: "Manage reservations",
	}

	cmd.AddCommand(newReservationCancelCommand(rootOpts))
	cmd.AddCommand(newReservationNoShowCommand(rootOpts))

	return cmd
}

func newReservationCancelCommand(rootOpts *RootOptions) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:           "cancel <reservation-id>",
		Short:         "Cancel a booked reservation",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Engine.CancelReservation(cmd.Context(), args[0], actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(renderReservation(res), res)
		},
	}

	addActorFlag(cmd, &actor)
	return cmd
}

func newReservationNoShowCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		at    string
		actor string
	)

	cmd := &cobra.Command{
		Use:           "no-show <reservation-id>",
		Short:         "Mark a lapsed reservation as a no-show",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)

			when, err := parseTimeFlag(at)
			if err != nil {
				return err
			}

			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Engine.MarkNoShow(cmd.Context(), args[0], when, actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(renderReservation(res), res)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "declaration time, RFC 3339 (default now)")
	addActorFlag(cmd, &actor)
	return cmd
}
