package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
)

// fixtureClock pins SimulatedAt so generated fixtures are reproducible.
var fixtureClock = time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC)

var fixtureFlags struct {
	in, out, fixtures string
}

// scenarioFile is the YAML input: a list of named scenarios.
type scenarioFile struct {
	Scenarios []domain.Scenario `yaml:"scenarios"`
}

// fixture locks the simulation output for one scenario.
type fixture struct {
	Scenario domain.Scenario         `json:"scenario"`
	Result   domain.SimulationResult `json:"result"`
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Generate and verify simulation regression fixtures",
}

var fixturesGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Simulate every scenario in a YAML file and write the results as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		scenarios, err := loadScenarios(fixtureFlags.in)
		if err != nil {
			return err
		}
		fixtures := generateFixtures(scenarios)

		f, err := os.Create(fixtureFlags.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", fixtureFlags.out, err)
		}
		defer f.Close()
		if err := writeJSON(f, fixtures); err != nil {
			return fmt.Errorf("write %s: %w", fixtureFlags.out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d fixtures to %s\n", len(fixtures), fixtureFlags.out)
		return nil
	},
}

var fixturesVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Re-simulate scenarios and compare against stored fixtures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		scenarios, err := loadScenarios(fixtureFlags.in)
		if err != nil {
			return err
		}
		want, err := loadFixtures(fixtureFlags.fixtures)
		if err != nil {
			return err
		}
		return verifyFixtures(cmd.OutOrStdout(), generateFixtures(scenarios), want)
	},
}

func loadScenarios(path string) ([]domain.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("%s: no scenarios", path)
	}
	return file.Scenarios, nil
}

func loadFixtures(path string) ([]fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var fixtures []fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fixtures, nil
}

func generateFixtures(scenarios []domain.Scenario) []fixture {
	domain.SetClock(clockwork.NewFakeClockAt(fixtureClock))
	defer domain.SetClock(nil)

	out := make([]fixture, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, fixture{Scenario: s, Result: domain.Simulate(s)})
	}
	return out
}

var errFixtureMismatch = errors.New("fixtures out of date")

// verifyFixtures reports every scenario whose result drifted from its fixture.
func verifyFixtures(w io.Writer, got, want []fixture) error {
	if len(got) != len(want) {
		return fmt.Errorf("%w: %d scenarios, %d fixtures", errFixtureMismatch, len(got), len(want))
	}
	opt := cmpopts.EquateApprox(0, 1e-9)
	failed := 0
	for i := range got {
		if diff := cmp.Diff(want[i], got[i], opt); diff != "" {
			failed++
			fmt.Fprintf(w, "FAIL %s (-want +got):\n%s\n", got[i].Result.Name, diff)
			continue
		}
		fmt.Fprintf(w, "ok   %s\n", got[i].Result.Name)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d scenarios differ", errFixtureMismatch, failed, len(got))
	}
	return nil
}
