package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maitred-run/maitred/internal/entity"
)

// NewCustomerCommand creates the customer command group.
func NewCustomerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}
	cmd.AddCommand(newCustomerRegisterCommand(rootOpts))
	cmd.AddCommand(newCustomerListCommand(rootOpts))
	return cmd
}

func newCustomerRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:           "register <name>",
		Short:         "Register a customer",
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

			c, err := app.Engine.RegisterCustomer(cmd.Context(), cleanName(args[0]), strings.TrimSpace(phone))
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(fmt.Sprintf("registered customer %s (%s)", c.Name, c.ID), c)
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "contact phone number")
	return cmd
}

func newCustomerListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List customers by name",
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

			recs, err := app.Engine.Store().List(entity.KindCustomer, nil)
			if err != nil {
				return out.Fail(err)
			}
			byName := make(map[string][]entity.Customer, len(recs))
			names := make([]string, 0, len(recs))
			for _, rec := range recs {
				c := rec.(entity.Customer)
				if _, seen := byName[c.Name]; !seen {
					names = append(names, c.Name)
				}
				byName[c.Name] = append(byName[c.Name], c)
			}
			sortByName(names)

			var lines []string
			var customers []entity.Customer
			for _, name := range names {
				for _, c := range byName[name] {
					lines = append(lines, fmt.Sprintf("%s\t%s\t%s", c.Name, c.Phone, c.ID))
					customers = append(customers, c)
				}
			}
			return out.Success(strings.Join(lines, "\n"), customers)
		},
	}
	return cmd
}

// NewStaffCommand creates the staff command group.
func NewStaffCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff",
	}
	cmd.AddCommand(newStaffRegisterCommand(rootOpts))
	return cmd
}

func newStaffRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var tables []string

	cmd := &cobra.Command{
		Use:           "register <name>",
		Short:         "Register a staff member",
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

			s, err := app.Engine.RegisterStaff(cmd.Context(), cleanName(args[0]), tables)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(fmt.Sprintf("registered staff %s (%s), %d table(s) assigned", s.Name, s.ID, len(s.AssignedTables)), s)
		},
	}

	cmd.Flags().StringArrayVar(&tables, "table", nil, "assigned table id (repeatable)")
	return cmd
}
