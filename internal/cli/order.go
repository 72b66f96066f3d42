package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maitred-run/maitred/internal/engine"
)

// NewOrderCommand creates the order command group.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage orders",
	}

	cmd.AddCommand(newOrderPlaceCommand(rootOpts))
	cmd.AddCommand(newOrderAddCommand(rootOpts))
	cmd.AddCommand(newOrderCloseCommand(rootOpts))
	cmd.AddCommand(newOrderCancelCommand(rootOpts))

	return cmd
}

// parseItems parses repeated --item dish=qty flags.
func parseItems(raw []string) ([]engine.ItemRequest, error) {
	var reqs []engine.ItemRequest
	for _, s := range raw {
		dish, qtyStr, ok := strings.Cut(s, "=")
		if !ok {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid item %q, want dish=quantity", s), nil)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid quantity in %q", s), err)
		}
		reqs = append(reqs, engine.ItemRequest{DishRef: dish, Quantity: qty})
	}
	return reqs, nil
}

func newOrderPlaceCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		items []string
		actor string
	)

	cmd := &cobra.Command{
		Use:   "place <table-id>",
		Short: "Open an order against a table",
		Long: `Open an order against an occupied or reserved table.

Example:
  maitred order place patio_6 --item margherita=2 --item negroni=1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)

			reqs, err := parseItems(items)
			if err != nil {
				return err
			}

			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			o, err := app.Engine.PlaceOrder(cmd.Context(), args[0], reqs, actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(renderOrder(o), o)
		},
	}

	cmd.Flags().StringArrayVar(&items, "item", nil, "line item as dish=quantity (repeatable)")
	addActorFlag(cmd, &actor)
	cmd.MarkFlagRequired("item")

	return cmd
}

func newOrderAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		items []string
		actor string
	)

	cmd := &cobra.Command{
		Use:           "add <order-id>",
		Short:         "Add items to an open order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)

			reqs, err := parseItems(items)
			if err != nil {
				return err
			}

			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			o, err := app.Engine.AddOrderItems(cmd.Context(), args[0], reqs, actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(renderOrder(o), o)
		},
	}

	cmd.Flags().StringArrayVar(&items, "item", nil, "line item as dish=quantity (repeatable)")
	addActorFlag(cmd, &actor)
	cmd.MarkFlagRequired("item")

	return cmd
}

func newOrderCloseCommand(rootOpts *RootOptions) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:           "close <order-id>",
		Short:         "Settle an open order",
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

			o, err := app.Engine.CloseOrder(cmd.Context(), args[0], actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(renderOrder(o), o)
		},
	}

	addActorFlag(cmd, &actor)
	return cmd
}

func newOrderCancelCommand(rootOpts *RootOptions) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:           "cancel <order-id>",
		Short:         "Void an open order",
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

			o, err := app.Engine.CancelOrder(cmd.Context(), args[0], actorOption(actor)...)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(renderOrder(o), o)
		},
	}

	addActorFlag(cmd, &actor)
	return cmd
}
