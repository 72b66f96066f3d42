package floorplan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writePlan(t, map[string]string{
		"floor.cue": `
tables: window_2: {capacity: 2}
tables: patio_6: {capacity: 6, out_of_service: true}
tables: main_4: {capacity: 4}
`,
	})

	plan, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.FileCount)
	require.Len(t, plan.Tables, 3)

	// Sorted by id.
	assert.Equal(t, "main_4", plan.Tables[0].ID)
	assert.Equal(t, "patio_6", plan.Tables[1].ID)
	assert.True(t, plan.Tables[1].OutOfService)
	assert.Equal(t, 2, plan.Tables[2].Capacity)

	// No overrides: the stock policy applies.
	assert.Equal(t, 120*time.Minute, plan.Policy.DefaultDuration)
	assert.Equal(t, 20, plan.Policy.MaxPartySize)
}

func TestLoadPolicyOverrides(t *testing.T) {
	dir := writePlan(t, map[string]string{
		"floor.cue": `
tables: t1: {capacity: 4}
policy: {
	default_duration_minutes: 90
	max_party_size:           12
	arrive_late_minutes:      20
}
`,
	})

	plan, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, plan.Policy.DefaultDuration)
	assert.Equal(t, 12, plan.Policy.MaxPartySize)
	assert.Equal(t, 20*time.Minute, plan.Policy.ArriveLate)
	assert.Equal(t, 30*time.Minute, plan.Policy.MinDuration, "untouched fields keep their defaults")
}

func TestLoadMergesFiles(t *testing.T) {
	dir := writePlan(t, map[string]string{
		"main.cue":  `tables: main_4: {capacity: 4}`,
		"patio.cue": `tables: patio_2: {capacity: 2}`,
	})

	plan, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.FileCount)
	assert.Len(t, plan.Tables, 2)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope"))
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeNotFound, le.Code)
	})

	t.Run("no cue files", func(t *testing.T) {
		_, err := Load(t.TempDir())
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeNoFiles, le.Code)
	})

	t.Run("missing capacity", func(t *testing.T) {
		dir := writePlan(t, map[string]string{"floor.cue": `tables: t1: {}`})
		_, err := Load(dir)
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeBadTable, le.Code)
	})

	t.Run("negative capacity", func(t *testing.T) {
		dir := writePlan(t, map[string]string{"floor.cue": `tables: t1: {capacity: -2}`})
		_, err := Load(dir)
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeBadTable, le.Code)
	})

	t.Run("bad policy override", func(t *testing.T) {
		dir := writePlan(t, map[string]string{"floor.cue": `
tables: t1: {capacity: 2}
policy: default_duration_minutes: 0
`})
		_, err := Load(dir)
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeBadPolicy, le.Code)
	})

	t.Run("no tables", func(t *testing.T) {
		dir := writePlan(t, map[string]string{"floor.cue": `policy: max_party_size: 10`})
		_, err := Load(dir)
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeGeneric, le.Code)
	})
}
