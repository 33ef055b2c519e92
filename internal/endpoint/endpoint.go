// Package endpoint maps a logical environment selector to a concrete
// API base URL.
package endpoint

import (
	"fmt"
	"io"
)

// Environment selectors accepted on the CLI and in PROBEGATE_ENVIRONMENT.
const (
	EnvDev        = "dev"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Base URLs per environment.
const (
	ProductionURL = "https://api.probegate.dev"
	StagingURL    = "https://api.staging.probegate.dev"
	DevURL        = "https://api.dev.probegate.dev"
)

// Resolve returns the API base URL for an environment selector. An empty
// selector means production. Non-production selections write a one-line
// advisory to warn; unknown selectors also fall back to production with an
// advisory rather than failing, so a typo never blocks a CI run on its own.
func Resolve(environment string, warn io.Writer) string {
	switch environment {
	case EnvDev:
		fmt.Fprintf(warn, "Using dev endpoint %s (results will not reflect production targets)\n", DevURL)
		return DevURL
	case EnvStaging:
		fmt.Fprintf(warn, "Using staging endpoint %s (results will not reflect production targets)\n", StagingURL)
		return StagingURL
	case EnvProduction, "":
		return ProductionURL
	default:
		fmt.Fprintf(warn, "Unknown environment %q, using production endpoint\n", environment)
		return ProductionURL
	}
}
