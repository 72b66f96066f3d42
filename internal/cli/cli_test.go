package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maitred-run/maitred/internal/entity"
)

// newFixture writes a config file, a floor plan and an empty SQLite
// journal location into a temp dir and returns the config path.
func newFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	planDir := filepath.Join(dir, "floorplan")
	require.NoError(t, os.Mkdir(planDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(planDir, "floor.cue"), []byte(`
tables: main_4: {capacity: 4}
tables: window_2: {capacity: 2}
tables: patio_6: {capacity: 6, out_of_service: true}
`), 0o644))

	cfg := fmt.Sprintf(`
journal:
  backend: sqlite
  sqlite_path: %q
floor_plan_dir: %q
menu:
  dishes:
    - ref: margherita
      name: Margherita
      price_cents: 1250
    - ref: negroni
      name: Negroni
      price_cents: 900
`, filepath.Join(dir, "journal.db"), planDir)

	cfgPath := filepath.Join(dir, "maitred.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestInitAndTablesGolden(t *testing.T) {
	cfg := newFixture(t)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	out, err := run(t, "--config", cfg, "init")
	require.NoError(t, err, out)
	assert.Contains(t, out, "created 3 table(s)")

	// Re-running init skips existing tables.
	out, err = run(t, "--config", cfg, "init")
	require.NoError(t, err, out)
	assert.Contains(t, out, "skipped 3 existing")

	out, err = run(t, "--config", cfg, "tables")
	require.NoError(t, err)
	g.Assert(t, "tables_list", []byte(out))

	out, err = run(t, "--config", cfg, "tables", "--utilization", "--at", "2026-09-01T12:00:00Z")
	require.NoError(t, err)
	g.Assert(t, "utilization", []byte(out))
}

func TestSeatOrderCloseFlow(t *testing.T) {
	cfg := newFixture(t)

	out, err := run(t, "--config", cfg, "init")
	require.NoError(t, err, out)

	out, err = run(t, "--config", cfg, "seat", "main_4", "--party", "3")
	require.NoError(t, err, out)
	assert.Contains(t, out, "seated party of 3 at table main_4")

	out, err = run(t, "--config", cfg, "--format", "json", "order", "place", "main_4",
		"--item", "margherita=2", "--item", "negroni=1")
	require.NoError(t, err, out)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	var order entity.Order
	data, _ := json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(data, &order))
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(2*1250+900), order.Total())

	// An open order blocks the close.
	out, err = run(t, "--config", cfg, "close", "main_4")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "CONFLICT")

	out, err = run(t, "--config", cfg, "order", "close", order.ID)
	require.NoError(t, err, out)

	out, err = run(t, "--config", cfg, "close", "main_4")
	require.NoError(t, err, out)
	assert.Contains(t, out, "table main_4 is free")
}

func TestReplayCommand(t *testing.T) {
	cfg := newFixture(t)

	_, err := run(t, "--config", cfg, "init")
	require.NoError(t, err)
	_, err = run(t, "--config", cfg, "seat", "window_2", "--party", "2")
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "replay")
	require.NoError(t, err, out)
	assert.Contains(t, out, "state matches")

	out, err = run(t, "--config", cfg, "replay", "--events")
	require.NoError(t, err)
	assert.Contains(t, out, "table.added")
	assert.Contains(t, out, "table.occupied")
}

func TestErrorOutputAndExitCodes(t *testing.T) {
	cfg := newFixture(t)
	_, err := run(t, "--config", cfg, "init")
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "--format", "json", "seat", "ghost", "--party", "2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	_, err = run(t, "--config", cfg, "--format", "xml", "tables")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = run(t, "--config", cfg, "reserve", "main_4", "--customer", "c", "--party", "2", "--at", "yesterday")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestParseItems(t *testing.T) {
	reqs, err := parseItems([]string{"margherita=2", "negroni=1"})
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "margherita", reqs[0].DishRef)
	assert.Equal(t, 2, reqs[0].Quantity)

	_, err = parseItems([]string{"margherita"})
	assert.Error(t, err)
	_, err = parseItems([]string{"margherita=two"})
	assert.Error(t, err)
}

func TestRenderCents(t *testing.T) {
	assert.Equal(t, "12.50", renderCents(1250))
	assert.Equal(t, "0.05", renderCents(5))
	assert.Equal(t, "-3.00", renderCents(-300))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Ada", cleanName("  Ada "))
	// NFD input collapses to the composed form.
	assert.Equal(t, "Café", cleanName("Café"))
}

func TestSortByName(t *testing.T) {
	names := []string{"Åsa", "Zoe", "Ada", "émile"}
	sortByName(names)
	assert.Equal(t, []string{"Ada", "Åsa", "émile", "Zoe"}, names,
		"collation orders accented names naturally, not by byte value")
}
