package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-workers/internal/compatibility"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const venueJSON = `{"capacity": 250, "stage_width_feet": 24, "stage_depth_feet": 16, "has_backline": true}`

func TestEvaluate_JSON(t *testing.T) {
	rider := writeFile(t, "rider.json", `{"min_stage_width_feet": 20, "min_stage_depth_feet": 12}`)
	venue := writeFile(t, "venue.json", venueJSON)

	out, err := run(t, "evaluate", "--rider", rider, "--venue", venue, "--format", "json")
	require.NoError(t, err)

	var result compatibility.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, compatibility.MatchExcellent, result.Status)
	assert.Len(t, result.Checks, 6)
	assert.Empty(t, result.DealBreakers)
}

func TestEvaluate_TextIncompatible(t *testing.T) {
	rider := writeFile(t, "rider.json", `{"min_stage_width_feet": 40, "min_stage_depth_feet": 12}`)
	venue := writeFile(t, "venue.json", venueJSON)

	out, err := run(t, "evaluate", "-r", rider, "-v", venue)

	assert.ErrorIs(t, err, errIncompatible)
	assert.Contains(t, out, "FACTOR")
	assert.Contains(t, out, "Stage Size")
	assert.Contains(t, out, "(incompatible)")
	assert.Contains(t, out, "Stage too small: 24x16ft vs 40x12ft required")
}

func TestEvaluate_SchemaViolation(t *testing.T) {
	rider := writeFile(t, "rider.json", `{"age_restriction": "16+"}`)
	venue := writeFile(t, "venue.json", venueJSON)

	_, err := run(t, "evaluate", "-r", rider, "-v", venue)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "age_restriction")
}

func TestEvaluate_BadFlags(t *testing.T) {
	venue := writeFile(t, "venue.json", venueJSON)

	_, err := run(t, "evaluate", "-v", venue)
	assert.Error(t, err)

	_, err = run(t, "evaluate", "-r", venue, "-v", venue, "-f", "yaml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = run(t, "evaluate", "-r", filepath.Join(t.TempDir(), "missing.json"), "-v", venue)
	assert.Error(t, err)
}

func TestEstimate(t *testing.T) {
	out, err := run(t, "estimate", "--capacity", "250")
	require.NoError(t, err)
	assert.Equal(t, "capacity 250: up to $500 (50000 cents)\n", out)

	out, err = run(t, "estimate", "-c", "1500")
	require.NoError(t, err)
	assert.Contains(t, out, "$2,500")
}
