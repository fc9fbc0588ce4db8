// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz dashboard and graph generation commands
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/buildcrm/viz"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"
)

// VizGraphDepsCommand renders the table dependency graph used for cascading deletes.
func VizGraphDepsCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("viz graph deps", flag.ContinueOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dot, err := viz.GenerateDependencyGraph(ctx)
	if err != nil {
		return err
	}
	return writeGraph(*output, dot)
}

// VizGraphCustomerCommand renders one customer's projects, vendors, and activity.
func VizGraphCustomerCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	fs := flag.NewFlagSet("viz graph customer", flag.ContinueOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	customerID, err := parseID(fs.Args(), "customer")
	if err != nil {
		return err
	}

	generator := viz.NewGraphGenerator(database)
	dot, err := generator.GenerateCustomerGraph(ctx, customerID)
	if err != nil {
		return err
	}
	return writeGraph(*output, dot)
}

func writeGraph(output, dot string) error {
	if output != "" {
		return os.WriteFile(output, []byte(dot), 0644)
	}
	fmt.Fprintln(stdout, dot)
	return nil
}

// VizDashboardCommand prints the dashboard counters, styled when stdout is a terminal.
func VizDashboardCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	stats, err := viz.GenerateDashboardStats(ctx, database)
	if err != nil {
		return fmt.Errorf("failed to generate dashboard stats: %w", err)
	}

	styled := stdout == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
	fmt.Fprint(stdout, viz.RenderDashboard(stats, styled))
	return nil
}
