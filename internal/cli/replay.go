package cli

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maitred-run/maitred/internal/journal"
)

// NewReplayCommand creates the replay command, which verifies the event
// log rebuilds the exact current snapshot.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	var showEvents bool

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Verify the event log replays to the current state",
		Long: `Rebuild the entity store from the event log a second time and compare
it with the loaded state. A mismatch means the journal is corrupt or
was written by an incompatible version.`,
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

			if showEvents {
				var lines []string
				for _, ev := range app.Events {
					lines = append(lines, fmt.Sprintf("%6d  %-24s table=%s", ev.Seq, ev.Kind, ev.TableID))
				}
				if len(lines) == 0 {
					lines = append(lines, "journal is empty")
				}
				return out.Success(strings.Join(lines, "\n"), app.Events)
			}

			rebuilt, err := journal.Replay(app.Events)
			if err != nil {
				return WrapExitError(ExitFailure, "replay failed", err)
			}

			got := rebuilt.Snapshot()
			want := app.Engine.Store().Snapshot()
			if !reflect.DeepEqual(got, want) {
				return WrapExitError(ExitFailure, fmt.Sprintf("replay of %d event(s) diverged from the loaded state", len(app.Events)), nil)
			}

			return out.Success(
				fmt.Sprintf("replayed %d event(s), state matches", len(app.Events)),
				map[string]any{"events": len(app.Events), "match": true},
			)
		},
	}

	cmd.Flags().BoolVar(&showEvents, "events", false, "list the event log instead of verifying")
	return cmd
}
