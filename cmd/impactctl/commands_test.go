package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSimulateCommand_Human(t *testing.T) {
	out, err := execute(t, "simulate",
		"--diameter", "100", "--velocity", "15", "--angle", "45",
		"--lat", "0", "--lng", "0", "--name", "Reference", "--json=false")
	require.NoError(t, err)

	assert.Contains(t, out, "Scenario:    Reference (sim-")
	assert.Contains(t, out, "Energy:      153.15 PJ")
	assert.Contains(t, out, "TNT:         36.60 M tons TNT")
	assert.Contains(t, out, "Crater:      87.89 km")
	assert.Contains(t, out, "Severity:    global_catastrophe (90)")
}

func TestSimulateCommand_JSON(t *testing.T) {
	out, err := execute(t, "simulate",
		"--diameter", "100", "--velocity", "15", "--angle", "45",
		"--lat", "40.7128", "--lng", "-74.006", "--name=", "--json")
	require.NoError(t, err)

	var got domain.SimulationResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.DefaultScenarioName, got.Name)
	assert.InDelta(t, 1361356816.56, got.MassKg, 1e-6)
	assert.InDelta(t, 87.89, got.CraterDiameterKm, 1e-9)
	assert.Equal(t, domain.SeverityGlobalCatastrophe, got.Severity.Level)
}

func TestPopulationCommand(t *testing.T) {
	out, err := execute(t, "population", "--lat", "0", "--lng", "0", "--radius", "10")
	require.NoError(t, err)

	// Rural floor: 20 people/km² over π·10².
	assert.Contains(t, out, "6.28 K people within 10.0 km of 0.0000°, 0.0000°")
}

func TestFixtures_GenerateThenVerify(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fixtures.json")

	msg, err := execute(t, "fixtures", "generate", "--in", "testdata/scenarios.yaml", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, msg, "wrote 6 fixtures")

	fixtures, err := loadFixtures(out)
	require.NoError(t, err)
	require.Len(t, fixtures, 6)
	assert.Equal(t, "Reference 100 m", fixtures[0].Result.Name)
	assert.InDelta(t, 36604359.91, fixtures[0].Result.TNTEquivalentTons, 1e-6)
	assert.True(t, fixtureClock.Equal(fixtures[0].Result.SimulatedAt))

	msg, err = execute(t, "fixtures", "verify", "--in", "testdata/scenarios.yaml", "--fixtures", out)
	require.NoError(t, err)
	assert.Contains(t, msg, "ok   Tunguska")
}

func TestFixtures_VerifyDetectsDrift(t *testing.T) {
	scenarios, err := loadScenarios("testdata/scenarios.yaml")
	require.NoError(t, err)

	want := generateFixtures(scenarios)
	want[1].Result.CraterDiameterKm += 0.5

	var buf bytes.Buffer
	err = verifyFixtures(&buf, generateFixtures(scenarios), want)
	require.ErrorIs(t, err, errFixtureMismatch)
	assert.Contains(t, buf.String(), "FAIL Tunguska")
	assert.Contains(t, err.Error(), "1 of 6")
}

func TestFixtures_VerifyCountMismatch(t *testing.T) {
	scenarios, err := loadScenarios("testdata/scenarios.yaml")
	require.NoError(t, err)

	got := generateFixtures(scenarios)
	err = verifyFixtures(&bytes.Buffer{}, got, got[:2])
	require.ErrorIs(t, err, errFixtureMismatch)
}

func TestLoadScenarios_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("scenarios: []\n"), 0o600))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("scenarios: [\n"), 0o600))

	for _, path := range []string{empty, bad, filepath.Join(dir, "missing.yaml")} {
		_, err := loadScenarios(path)
		assert.Error(t, err, path)
	}
}

func TestWriteAsteroids(t *testing.T) {
	list := []domain.Asteroid{
		domain.Asteroid{ID: "3542519", Name: "(2010 PK9)", DiameterM: 151, VelocityKmS: 22.4051, Hazardous: true}.WithPreview(),
		{ID: "2465633", Name: "465633 (2009 JR5)", DiameterM: 30, VelocityKmS: 12.5},
	}

	var buf bytes.Buffer
	require.NoError(t, writeAsteroids(&buf, list))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "SEVERITY")
	assert.Contains(t, out, "(2010 PK9)")
	assert.Contains(t, out, "151 m")
	assert.Contains(t, out, "22.41 km/s")
	assert.Contains(t, out, "tons TNT")
}
