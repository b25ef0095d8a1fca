package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
)

var simFlags struct {
	diameter, velocity, angle float64
	lat, lng                  float64
	name                      string
	json                      bool
}

var popFlags struct {
	lat, lng, radius float64
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate an impact and estimate the exposed population",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result := domain.Simulate(domain.Scenario{
			Name: simFlags.name,
			Parameters: domain.ImpactParameters{
				DiameterM:   simFlags.diameter,
				VelocityKmS: simFlags.velocity,
				AngleDeg:    simFlags.angle,
			},
			Impact: domain.GeoPoint{Lat: simFlags.lat, Lng: simFlags.lng},
		})
		if simFlags.json {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		writeSimulation(cmd.OutOrStdout(), result)
		return nil
	},
}

var populationCmd = &cobra.Command{
	Use:   "population",
	Short: "Estimate the population within a radius of a point",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		n := domain.EstimatePopulation(popFlags.lat, popFlags.lng, popFlags.radius)
		fmt.Fprintf(cmd.OutOrStdout(), "%s people within %.1f km of %.4f°, %.4f°\n",
			formatNumber(float64(n)), popFlags.radius, popFlags.lat, popFlags.lng)
		return nil
	},
}

func writeSimulation(w io.Writer, r domain.SimulationResult) {
	fmt.Fprintf(w, "Scenario:    %s (%s)\n", r.Name, r.ID)
	fmt.Fprintf(w, "Impact:      %.4f°, %.4f°\n", r.Impact.Lat, r.Impact.Lng)
	fmt.Fprintf(w, "Parameters:  %g m at %g km/s, %g°\n", r.Parameters.DiameterM, r.Parameters.VelocityKmS, r.Parameters.AngleDeg)
	fmt.Fprintf(w, "Mass:        %s kg\n", formatNumber(r.MassKg))
	fmt.Fprintf(w, "Energy:      %s\n", formatEnergy(r.ImpactEnergyJ))
	fmt.Fprintf(w, "TNT:         %s\n", formatTNT(r.TNTEquivalentTons))
	fmt.Fprintf(w, "Crater:      %.2f km\n", r.CraterDiameterKm)
	fmt.Fprintf(w, "Affected:    %.1f km radius\n", r.AffectedRadiusKm)
	fmt.Fprintf(w, "Population:  %s\n", formatNumber(float64(r.PopulationAffected)))
	fmt.Fprintf(w, "Severity:    %s (%d)\n", r.Severity.Level, r.Severity.Score)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
