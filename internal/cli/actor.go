package cli

import (
	"github.com/spf13/cobra"

	"github.com/maitred-run/maitred/internal/engine"
)

// addActorFlag registers the shared --staff flag on commands that can
// be attributed to a staff member.
func addActorFlag(cmd *cobra.Command, actor *string) {
	cmd.Flags().StringVar(actor, "staff", "", "acting staff member id (advisory)")
}

// actorOption turns the --staff flag value into engine options.
func actorOption(actor string) []engine.OpOption {
	if actor == "" {
		return nil
	}
	return []engine.OpOption{engine.WithActor(actor)}
}
