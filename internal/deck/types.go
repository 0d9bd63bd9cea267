package deck

import (
	"fmt"
	"strings"
	"time"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
)

// Package is one installable item as the application sees it: catalog
// metadata merged with local install state.
type Package struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Description  string       `json:"description"`
	Homepage     string       `json:"homepage"`
	Installed    bool         `json:"installed"`
	Outdated     bool         `json:"outdated"`
	Dependencies []string     `json:"dependencies"`
	Conflicts    []string     `json:"conflicts"`
	Caveats      string       `json:"caveats"`
	Analytics    Analytics    `json:"analytics"`
	Warnings     []Warning    `json:"warnings"`
	Kind         catalog.Kind `json:"kind"`
}

// Analytics carries install-count popularity data for one package.
type Analytics struct {
	// Downloads365d is the trailing-year install count from the catalog.
	Downloads365d uint64 `json:"downloads_365d"`
	// Popularity is Downloads365d normalized to thousands.
	Popularity float64 `json:"popularity"`
}

// WarningType classifies a package warning.
type WarningType string

// Warning types surfaced to the UI layer.
const (
	WarningDeprecated    WarningType = "deprecated"
	WarningConflictsWith WarningType = "conflicts_with"
	WarningSecurity      WarningType = "security"
	WarningCompatibility WarningType = "compatibility"
	WarningExperimental  WarningType = "experimental"
	WarningRequiresRoot  WarningType = "requires_root"
)

// Severity ranks a warning's importance.
type Severity string

// Warning severities.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Warning is one advisory attached to a package.
type Warning struct {
	Type     WarningType `json:"type"`
	Message  string      `json:"message"`
	Severity Severity    `json:"severity"`
}

// SearchResult is one answered search query.
type SearchResult struct {
	Packages   []Package     `json:"packages"`
	TotalCount int           `json:"total_count"`
	Elapsed    time.Duration `json:"elapsed"`
}

// OpResult reports the outcome of a mutating operation. Failures are
// expressed as Success=false with a message so the command surface can
// translate uniformly instead of unwinding an error chain.
type OpResult struct {
	Success     bool          `json:"success"`
	Message     string        `json:"message"`
	PackageName string        `json:"package_name"`
	Duration    time.Duration `json:"duration"`
}

// buildWarnings derives warnings from a catalog record.
func buildWarnings(rec catalog.Record) []Warning {
	var warnings []Warning
	if rec.Deprecated {
		warnings = append(warnings, Warning{
			Type:     WarningDeprecated,
			Message:  "This package is deprecated",
			Severity: SeverityMedium,
		})
	}
	if len(rec.ConflictsWith) > 0 {
		warnings = append(warnings, Warning{
			Type:     WarningConflictsWith,
			Message:  fmt.Sprintf("Conflicts with: %s", strings.Join(rec.ConflictsWith, ", ")),
			Severity: SeverityLow,
		})
	}
	return warnings
}
