package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/example/annotate/internal/adapters/nio"
	"github.com/example/annotate/internal/app"
	"github.com/example/annotate/internal/config"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

func (a *App) doctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and access to the nio instance",
		Long: `Health check for annotate.

Validates:
- Configuration (file in use, host, credential)
- The nio instance answers the services index
- The credential is accepted
- Services are available for interactive selection

Examples:
  annotate doctor              # Run full health check
  annotate doctor --quiet      # Exit code only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := runChecks(cmd.Context(), a.container.Config, a.container.Service.ListServices)

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printResults(cmd.OutOrStdout(), results, hasErrors)
			}

			if hasErrors {
				return fmt.Errorf("health check failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// runChecks evaluates the configuration and one call to listServices.
func runChecks(ctx context.Context, cfg config.Config, listServices func(context.Context) ([]string, error)) []CheckResult {
	results := []CheckResult{checkConfig(cfg)}

	names, err := listServices(ctx)
	results = append(results, checkConnection(cfg, err), checkAuth(cfg, err))
	if err == nil {
		results = append(results, checkServices(names))
	}
	return results
}

func checkConfig(cfg config.Config) CheckResult {
	file := cfg.File
	if file == "" {
		file = "none (flags, environment and defaults)"
	}
	details := fmt.Sprintf("  File: %s\n  Host: %s", file, cfg.Host)
	if cfg.Auth == config.DefaultAuth {
		return CheckResult{Name: "Config", Status: "⚠", Details: details + "\n  Using the default credential"}
	}
	return CheckResult{Name: "Config", Status: "✓", Details: details}
}

func checkConnection(cfg config.Config, err error) CheckResult {
	var remote *nio.RemoteError
	switch {
	case err == nil, errors.As(err, &remote):
		return CheckResult{Name: "Connection", Status: "✓"}
	default:
		return CheckResult{
			Name:    "Connection",
			Status:  "✗",
			Details: fmt.Sprintf("  Cannot reach %s\n  %v", cfg.Host, err),
		}
	}
}

func checkAuth(cfg config.Config, err error) CheckResult {
	var remote *nio.RemoteError
	if !errors.As(err, &remote) {
		if err != nil {
			return CheckResult{Name: "Auth", Status: "⚠", Details: "  Not checked (no connection)"}
		}
		return CheckResult{Name: "Auth", Status: "✓"}
	}

	if remote.StatusCode == http.StatusUnauthorized || remote.StatusCode == http.StatusForbidden {
		details := "  Credential rejected: " + remote.Error()
		if cfg.Auth == "" {
			details += "\n  No credential configured. Use --auth user:pass"
		}
		return CheckResult{Name: "Auth", Status: "✗", Details: details}
	}
	return CheckResult{Name: "Auth", Status: "✗", Details: "  Services index failed: " + remote.Error()}
}

func checkServices(names []string) CheckResult {
	switch {
	case len(names) == 0:
		return CheckResult{Name: "Services", Status: "⚠", Details: "  No services found"}
	case len(names) > app.MaxSelectableServices:
		return CheckResult{
			Name:   "Services",
			Status: "⚠",
			Details: fmt.Sprintf("  %d services; interactive selection lists at most %d\n  Pass --service <name>",
				len(names), app.MaxSelectableServices),
		}
	}
	return CheckResult{Name: "Services", Status: "✓", Details: fmt.Sprintf("  %d services", len(names))}
}

func printResults(out io.Writer, results []CheckResult, hasErrors bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Check              Status")
	fmt.Fprintln(out, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Status)
	}
	fmt.Fprintln(out)

	hasDetails := false
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			if !hasDetails {
				fmt.Fprintln(out, "Details:")
				hasDetails = true
			}
			fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		fmt.Fprintln(out, "\n⚠ Issues found. Run with --verbose for request logs.")
	} else {
		fmt.Fprintln(out, "All checks passed.")
	}
}
