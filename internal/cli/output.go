package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/echozyr2001/BrewDeck/internal/deck"
	"github.com/echozyr2001/BrewDeck/internal/format"
)

// outputFormat reads the persistent --output flag.
func outputFormat(cmd *cobra.Command) string {
	out, _ := cmd.Flags().GetString("output")
	return out
}

// writeJSON renders v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writePackagesTable renders a package listing with tabwriter columns.
func writePackagesTable(w io.Writer, packages []deck.Package) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tDOWNLOADS\tSTATUS\tDESCRIPTION")

	for _, pkg := range packages {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			pkg.Name,
			pkg.Version,
			format.Downloads(pkg.Analytics.Downloads365d),
			statusMarker(pkg),
			truncate(pkg.Description, 60),
		)
	}
	return tw.Flush()
}

func statusMarker(pkg deck.Package) string {
	switch {
	case pkg.Outdated:
		return "outdated"
	case pkg.Installed:
		return "installed"
	default:
		return "-"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// writePackageDetail renders the full detail view of one package.
func writePackageDetail(w io.Writer, pkg deck.Package) {
	fmt.Fprintf(w, "%s (%s) %s\n", pkg.Name, pkg.Kind, pkg.Version)
	fmt.Fprintf(w, "  %s\n", pkg.Description)
	if pkg.Homepage != "" {
		fmt.Fprintf(w, "  %s\n", pkg.Homepage)
	}
	fmt.Fprintf(w, "  status: %s\n", statusMarker(pkg))
	if pkg.Analytics.Downloads365d > 0 {
		fmt.Fprintf(w, "  installs (365d): %s\n", format.Count(pkg.Analytics.Downloads365d))
	}
	if len(pkg.Dependencies) > 0 {
		fmt.Fprintf(w, "  dependencies: %s\n", strings.Join(pkg.Dependencies, ", "))
	}
	for _, warning := range pkg.Warnings {
		fmt.Fprintf(w, "  warning [%s]: %s\n", warning.Severity, warning.Message)
	}
	if pkg.Caveats != "" {
		fmt.Fprintf(w, "\nCaveats:\n%s\n", indent(pkg.Caveats, "  "))
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// writeOpResult renders a mutation outcome and returns an error when the
// operation failed so the process exits non-zero.
func writeOpResult(cmd *cobra.Command, result deck.OpResult) error {
	if outputFormat(cmd) == "json" {
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else if result.Success {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", result.Message, format.Duration(result.Duration))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "failed: %s\n", result.Message)
	}

	if !result.Success {
		return fmt.Errorf("operation failed: %s", result.Message)
	}
	return nil
}
