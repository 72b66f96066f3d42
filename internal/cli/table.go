package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTableCommand creates the table command group for floor management.
func NewTableCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Manage tables on the floor",
	}

	cmd.AddCommand(newTableAddCommand(rootOpts))
	cmd.AddCommand(newTableResizeCommand(rootOpts))
	cmd.AddCommand(newTableRemoveCommand(rootOpts))
	cmd.AddCommand(newTableOutOfServiceCommand(rootOpts))
	cmd.AddCommand(newTableReturnCommand(rootOpts))

	return cmd
}

func newTableAddCommand(rootOpts *RootOptions) *cobra.Command {
	var capacity int

	cmd := &cobra.Command{
		Use:           "add [table-id]",
		Short:         "Add a table",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			t, err := app.Engine.AddTable(cmd.Context(), id, capacity)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(fmt.Sprintf("added table %s (capacity %d)", t.ID, t.Capacity), t)
		},
	}

	cmd.Flags().IntVar(&capacity, "capacity", 0, "seats at the table")
	cmd.MarkFlagRequired("capacity")
	return cmd
}

func newTableResizeCommand(rootOpts *RootOptions) *cobra.Command {
	var capacity int

	cmd := &cobra.Command{
		Use:           "resize <table-id>",
		Short:         "Change a table's capacity",
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

			t, err := app.Engine.ResizeTable(cmd.Context(), args[0], capacity)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(fmt.Sprintf("table %s now seats %d", t.ID, t.Capacity), t)
		},
	}

	cmd.Flags().IntVar(&capacity, "capacity", 0, "new seat count")
	cmd.MarkFlagRequired("capacity")
	return cmd
}

func newTableRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "remove <table-id>",
		Short:         "Remove a table",
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

			if err := app.Engine.RemoveTable(cmd.Context(), args[0]); err != nil {
				return out.Fail(err)
			}
			return out.Success(fmt.Sprintf("removed table %s", args[0]), map[string]string{"table_id": args[0]})
		},
	}
	return cmd
}

func newTableOutOfServiceCommand(rootOpts *RootOptions) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:           "out-of-service <table-id>",
		Short:         "Take a table out of service",
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

			t, err := app.Engine.SetOutOfService(cmd.Context(), args[0], actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(fmt.Sprintf("table %s is out of service", t.ID), t)
		},
	}

	addActorFlag(cmd, &actor)
	return cmd
}

func newTableReturnCommand(rootOpts *RootOptions) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:           "return <table-id>",
		Short:         "Return a table to service",
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

			t, err := app.Engine.ReturnToService(cmd.Context(), args[0], actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(fmt.Sprintf("table %s is back in service", t.ID), t)
		},
	}

	addActorFlag(cmd, &actor)
	return cmd
}
