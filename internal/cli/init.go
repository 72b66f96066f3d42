package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maitred-run/maitred/internal/floorplan"
)

// NewInitCommand creates the init command, which seeds the journal from
// a CUE floor plan.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Seed tables from a CUE floor plan",
		Long: `Load the floor plan and register every table that does not exist
yet. Re-running init is safe: existing tables are left untouched.

Example:
  maitred init --floor-plan ./floorplan`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)

			if dir == "" {
				dir = configFloorPlanDir(rootOpts)
			}
			if dir == "" {
				return WrapExitError(ExitCommandError, "no floor plan directory: pass --floor-plan or set floor_plan_dir in the config", nil)
			}

			plan, err := floorplan.Load(dir)
			if err != nil {
				return WrapExitError(ExitCommandError, "load floor plan", err)
			}

			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			var created, skipped, outOfService int
			for _, spec := range plan.Tables {
				if _, err := app.Engine.Store().Table(spec.ID); err == nil {
					skipped++
					continue
				}
				if _, err := app.Engine.AddTable(cmd.Context(), spec.ID, spec.Capacity); err != nil {
					return out.Fail(err)
				}
				created++
				if spec.OutOfService {
					if _, err := app.Engine.SetOutOfService(cmd.Context(), spec.ID); err != nil {
						return out.Fail(err)
					}
					outOfService++
				}
			}

			out.VerboseLog("floor plan: %d file(s), %d table(s) declared", plan.FileCount, len(plan.Tables))
			return out.Success(
				fmt.Sprintf("created %d table(s), skipped %d existing, %d out of service", created, skipped, outOfService),
				map[string]int{"created": created, "skipped": skipped, "out_of_service": outOfService},
			)
		},
	}

	cmd.Flags().StringVar(&dir, "floor-plan", "", "directory with CUE floor plan files")
	return cmd
}

// configFloorPlanDir resolves the floor plan directory from the config
// file when the flag is not given.
func configFloorPlanDir(opts *RootOptions) string {
	cfg, err := loadConfig(opts)
	if err != nil {
		return ""
	}
	return cfg.FloorPlanDir
}
