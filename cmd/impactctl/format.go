package main

import "fmt"

// formatNumber abbreviates large counts with K/M/B/T suffixes.
func formatNumber(n float64) string {
	switch {
	case n >= 1e12:
		return fmt.Sprintf("%.2f T", n/1e12)
	case n >= 1e9:
		return fmt.Sprintf("%.2f B", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.2f M", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.2f K", n/1e3)
	default:
		return fmt.Sprintf("%.0f", n)
	}
}

// formatEnergy renders joules in the largest fitting unit from MJ to EJ.
func formatEnergy(joules float64) string {
	switch {
	case joules >= 1e18:
		return fmt.Sprintf("%.2f EJ", joules/1e18)
	case joules >= 1e15:
		return fmt.Sprintf("%.2f PJ", joules/1e15)
	case joules >= 1e12:
		return fmt.Sprintf("%.2f TJ", joules/1e12)
	case joules >= 1e9:
		return fmt.Sprintf("%.2f GJ", joules/1e9)
	default:
		return fmt.Sprintf("%.2f MJ", joules/1e6)
	}
}

func formatTNT(tons float64) string {
	return formatNumber(tons) + " tons TNT"
}
