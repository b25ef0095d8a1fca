package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/neows"
	"github.com/couchcryptid/asteroid-impact-service/internal/config"
	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
)

var neoFlags struct {
	date string
	json bool
}

var neoCmd = &cobra.Command{
	Use:   "neo",
	Short: "Query the NASA near-Earth object feed",
}

var neoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List asteroids with a close approach on a day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		day, err := domain.ParseFeedDate(neoFlags.date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", neoFlags.date, err)
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		client := neows.NewClient(cfg, observability.NewMetricsForTesting(), logger)

		list, err := client.Asteroids(cmd.Context(), day, day)
		if err != nil {
			return err
		}
		if neoFlags.json {
			return writeJSON(cmd.OutOrStdout(), list)
		}
		return writeAsteroids(cmd.OutOrStdout(), list)
	},
}

func writeAsteroids(w io.Writer, list []domain.Asteroid) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDIAMETER\tVELOCITY\tHAZARDOUS\tTNT\tSEVERITY")
	for _, a := range list {
		tnt, severity := "-", "-"
		if a.Preview != nil {
			tnt = formatTNT(a.Preview.TNTEquivalentTons)
			severity = string(a.Preview.Severity.Level)
		}
		fmt.Fprintf(tw, "%s\t%s\t%g m\t%.2f km/s\t%t\t%s\t%s\n",
			a.ID, a.Name, a.DiameterM, a.VelocityKmS, a.Hazardous, tnt, severity)
	}
	return tw.Flush()
}
