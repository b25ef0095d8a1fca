package domain

// Severity labels an impact by its TNT yield.
type Severity string

const (
	SeverityLocalEvent        Severity = "local_event"
	SeverityMajorImpact       Severity = "major_impact"
	SeverityRegionalDisaster  Severity = "regional_disaster"
	SeverityGlobalCatastrophe Severity = "global_catastrophe"
	SeverityExtinction        Severity = "extinction"
)

// SeverityLevel pairs a label with a 0–100 score for gauges.
type SeverityLevel struct {
	Level Severity `json:"level"`
	Score int      `json:"score"`
}

// ClassifySeverity maps TNT tons to a severity level. Thresholds are strict
// lower bounds: exactly 1e3 tons is still a local event.
func ClassifySeverity(tntTons float64) SeverityLevel {
	switch {
	case tntTons > 1e9:
		return SeverityLevel{Level: SeverityExtinction, Score: 100}
	case tntTons > 1e7:
		return SeverityLevel{Level: SeverityGlobalCatastrophe, Score: 90}
	case tntTons > 1e5:
		return SeverityLevel{Level: SeverityRegionalDisaster, Score: 75}
	case tntTons > 1e3:
		return SeverityLevel{Level: SeverityMajorImpact, Score: 50}
	default:
		return SeverityLevel{Level: SeverityLocalEvent, Score: 25}
	}
}
