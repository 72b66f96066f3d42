package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSeatCommand creates the seat command for walk-ins.
func NewSeatCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		partySize int
		actor     string
	)

	cmd := &cobra.Command{
		Use:           "seat <table-id>",
		Short:         "Seat a walk-in party at a table",
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

			t, err := app.Engine.SeatWalkIn(cmd.Context(), args[0], partySize, actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(fmt.Sprintf("seated party of %d at table %s", partySize, t.ID), t)
		},
	}

	cmd.Flags().IntVar(&partySize, "party", 0, "party size")
	addActorFlag(cmd, &actor)
	cmd.MarkFlagRequired("party")

	return cmd
}

// NewArriveCommand creates the arrive command, fulfilling a booked
// reservation.
func NewArriveCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		at    string
		actor string
	)

	cmd := &cobra.Command{
		Use:           "arrive <reservation-id>",
		Short:         "Seat an arriving reservation",
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

			res, err := app.Engine.ArriveForReservation(cmd.Context(), args[0], when, actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(renderReservation(res), res)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "arrival time, RFC 3339 (default now)")
	addActorFlag(cmd, &actor)

	return cmd
}

// NewCloseCommand creates the close command, vacating a table.
func NewCloseCommand(rootOpts *RootOptions) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:           "close <table-id>",
		Short:         "Vacate a table back to free",
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

			t, err := app.Engine.CloseTable(cmd.Context(), args[0], actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(fmt.Sprintf("table %s is %s", t.ID, t.Status), t)
		},
	}

	addActorFlag(cmd, &actor)
	return cmd
}
