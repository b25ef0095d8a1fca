// Command impactctl runs impact simulations, population estimates, and NEO
// feed lookups from the command line, and maintains regression fixtures.
//
// Usage:
//
//	impactctl simulate --diameter 100 --velocity 20 --lat 40.71 --lng -74.01
//	impactctl population --lat 51.5 --lng -0.13 --radius 25
//	impactctl neo list --date 2025-10-04
//	impactctl fixtures generate --in testdata/scenarios.yaml --out fixtures.json
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "impactctl",
	Short:        "Asteroid impact simulation toolkit",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(populationCmd)
	rootCmd.AddCommand(neoCmd)
	neoCmd.AddCommand(neoListCmd)
	rootCmd.AddCommand(fixturesCmd)
	fixturesCmd.AddCommand(fixturesGenerateCmd)
	fixturesCmd.AddCommand(fixturesVerifyCmd)

	simulateCmd.Flags().Float64Var(&simFlags.diameter, "diameter", 100, "asteroid diameter in meters")
	simulateCmd.Flags().Float64Var(&simFlags.velocity, "velocity", 20, "impact velocity in km/s")
	simulateCmd.Flags().Float64Var(&simFlags.angle, "angle", 45, "entry angle in degrees (15-90)")
	simulateCmd.Flags().Float64Var(&simFlags.lat, "lat", 0, "impact latitude")
	simulateCmd.Flags().Float64Var(&simFlags.lng, "lng", 0, "impact longitude")
	simulateCmd.Flags().StringVar(&simFlags.name, "name", "", "scenario name")
	simulateCmd.Flags().BoolVar(&simFlags.json, "json", false, "print the result as JSON")

	populationCmd.Flags().Float64Var(&popFlags.lat, "lat", 0, "latitude")
	populationCmd.Flags().Float64Var(&popFlags.lng, "lng", 0, "longitude")
	populationCmd.Flags().Float64Var(&popFlags.radius, "radius", 0, "radius in km")
	_ = populationCmd.MarkFlagRequired("radius")

	neoListCmd.Flags().StringVar(&neoFlags.date, "date", "", "close approach date YYYY-MM-DD (default today UTC)")
	neoListCmd.Flags().BoolVar(&neoFlags.json, "json", false, "print the list as JSON")

	fixturesGenerateCmd.Flags().StringVar(&fixtureFlags.in, "in", "", "scenario YAML file")
	fixturesGenerateCmd.Flags().StringVar(&fixtureFlags.out, "out", "", "fixture JSON output path")
	_ = fixturesGenerateCmd.MarkFlagRequired("in")
	_ = fixturesGenerateCmd.MarkFlagRequired("out")

	fixturesVerifyCmd.Flags().StringVar(&fixtureFlags.in, "in", "", "scenario YAML file")
	fixturesVerifyCmd.Flags().StringVar(&fixtureFlags.fixtures, "fixtures", "", "fixture JSON to compare against")
	_ = fixturesVerifyCmd.MarkFlagRequired("in")
	_ = fixturesVerifyCmd.MarkFlagRequired("fixtures")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
