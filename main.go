// ABOUTME: Entry point for the buildcrm HTTP API, MCP server, and CLI
// ABOUTME: Routes to serve, mcp, crm, or viz based on arguments
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/buildcrm/cli"
	"github.com/harperreed/buildcrm/config"
	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/handlers"
	"github.com/harperreed/buildcrm/logging"
	"github.com/harperreed/buildcrm/metrics"
	"github.com/harperreed/buildcrm/models"
	"github.com/harperreed/buildcrm/tracing"
	"github.com/harperreed/buildcrm/web"
	"github.com/jmoiron/sqlx"
)

const version = "0.2.0"

func main() {
	cfg := config.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path or URL (default: ~/.local/share/buildcrm/crm.db)")
	dbDriver := flag.String("db-driver", "", "Database driver: sqlite3 or pgx")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("buildcrm version %s\n", version)
		os.Exit(0)
	}

	if *dbPath != "" {
		cfg.DatabaseURL = *dbPath
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	shutdownTracing, err := tracing.Init(ctx, logger, tracing.Config{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		SampleRatio: cfg.TraceSampleRatio,
		Version:     version,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	policy := models.PolicyFor(cfg.StrictLeadStatus)

	switch command {
	case "serve":
		database := openDatabase(ctx, cfg, logger)
		defer database.Close()

		opts := web.Options{
			DB:          database,
			Log:         logger,
			Metrics:     metrics.New(),
			Policy:      policy,
			CORSOrigins: cfg.CORSOrigins,
		}
		if err := cli.ServeCommand(ctx, opts, cfg.Port, commandArgs); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}

	case "mcp":
		database := openDatabase(ctx, cfg, logger)
		defer database.Close()

		deps := handlers.Deps{
			DB:      database,
			Log:     logger,
			Metrics: metrics.New(),
			Policy:  policy,
		}
		if err := cli.MCPCommand(ctx, version, deps); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "crm":
		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		database := openDatabase(ctx, cfg, logger)
		defer database.Close()

		crmCommand := commandArgs[0]
		crmArgs := commandArgs[1:]

		var err error
		switch crmCommand {
		// Customer and project commands
		case "add-customer":
			err = cli.AddCustomerCommand(ctx, database, crmArgs)
		case "list-customers":
			err = cli.ListCustomersCommand(ctx, database, crmArgs)
		case "delete-customer":
			err = cli.DeleteCustomerCommand(ctx, database, crmArgs)
		case "add-project":
			err = cli.AddProjectCommand(ctx, database, crmArgs)
		case "delete-project":
			err = cli.DeleteProjectCommand(ctx, database, crmArgs)

		// Lead commands
		case "add-lead":
			err = cli.AddLeadCommand(ctx, database, crmArgs)
		case "list-leads":
			err = cli.ListLeadsCommand(ctx, database, crmArgs)
		case "lead-status":
			err = cli.LeadStatusCommand(ctx, database, policy, crmArgs)
		case "convert-lead":
			err = cli.ConvertLeadCommand(ctx, database, crmArgs)

		// Maintenance
		case "stats":
			err = cli.VizDashboardCommand(ctx, database, crmArgs)
		case "check":
			err = cli.CheckCommand(ctx, database, crmArgs)
		case "clear-db":
			err = cli.ClearDBCommand(ctx, database, crmArgs)
		case "seed":
			err = cli.SeedCommand(ctx, database, crmArgs)

		default:
			fmt.Printf("Unknown crm command: %s\n\n", crmCommand)
			printUsage()
			os.Exit(1)
		}
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "viz":
		if len(commandArgs) == 0 {
			fmt.Println("Error: viz requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		vizCommand := commandArgs[0]
		vizArgs := commandArgs[1:]

		switch vizCommand {
		case "graph":
			if len(vizArgs) == 0 {
				fmt.Println("Error: viz graph requires a type (deps or customer)")
				printUsage()
				os.Exit(1)
			}

			graphType := vizArgs[0]
			graphArgs := vizArgs[1:]

			switch graphType {
			case "deps":
				if err := cli.VizGraphDepsCommand(ctx, graphArgs); err != nil {
					log.Fatalf("Error: %v", err)
				}
			case "customer":
				database := openDatabase(ctx, cfg, logger)
				defer database.Close()
				if err := cli.VizGraphCustomerCommand(ctx, database, graphArgs); err != nil {
					log.Fatalf("Error: %v", err)
				}
			default:
				fmt.Printf("Unknown graph type: %s\n\n", graphType)
				printUsage()
				os.Exit(1)
			}

		case "dashboard":
			database := openDatabase(ctx, cfg, logger)
			defer database.Close()
			if err := cli.VizDashboardCommand(ctx, database, vizArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		default:
			fmt.Printf("Unknown viz command: %s\n\n", vizCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// openDatabase connects, applies the schema, and seeds an empty store when configured.
func openDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger) *sqlx.DB {
	database, err := db.OpenDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	if cfg.DBDriver == db.DriverPostgres {
		logger.Debug("database opened", "driver", cfg.DBDriver)
	} else {
		logger.Debug("database opened", "driver", db.DriverSQLite, "path", cfg.DatabaseURL)
	}

	if cfg.SeedOnEmpty {
		seeded, err := db.SeedSampleData(ctx, database)
		if err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		if seeded {
			logger.Info("sample data loaded")
		}
	}
	return database
}

func printUsage() {
	fmt.Printf(`buildcrm v%s - construction CRM

USAGE:
  buildcrm [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path or Postgres URL (default: ~/.local/share/buildcrm/crm.db)
  --db-driver <driver>   sqlite3 (default) or pgx

COMMANDS:
  serve                  Start the HTTP API
    --port <n>             Port (default: $PORT or 8000)
  mcp                    Start MCP server on stdio
  crm                    CRM management commands
  viz                    Visualization commands

CRM COMMANDS:
  buildcrm crm add-customer    Add a customer
    --name <name>              Customer name (required)
    --email <email>            Email address (required)
    --phone <phone>            Phone number
    --address <address>        Street address
    --inactive                 Mark inactive

  buildcrm crm list-customers  List customers
    --skip <n>                 Records to skip
    --limit <n>                Max results (default: 50)

  buildcrm crm delete-customer <id>  Delete a customer and all dependent records

  buildcrm crm add-project     Add a project
    --name <name>              Project name (required)
    --customer <id>            Customer ID (required)
    --status <status>          pending, in_progress, on_hold, completed, cancelled
    --start <date>             Start date (YYYY-MM-DD)
    --end <date>               End date (YYYY-MM-DD)
    --budget <amount>          Budget

  buildcrm crm delete-project <id>   Delete a project and its dependent records

  buildcrm crm add-lead        Add a lead
    --name <name>              Lead name (required)
    --email <email>            Email address (required)
    --source <source>          Where the lead came from
    --project-type <type>      Kind of work requested
    --value <amount>           Expected value

  buildcrm crm list-leads      List leads
    --status <status>          Filter by status
    --query <text>             Search name, email, or project type

  buildcrm crm lead-status [flags] <id> <status>  Change a lead's status
    --notes <text>             Replace notes
    --follow-up <date>         Next follow-up date
    Note: flags must come before the lead ID

  buildcrm crm convert-lead <id>     Convert a lead into a customer
  buildcrm crm stats                 Show dashboard counters
  buildcrm crm check                 Report dangling foreign keys
  buildcrm crm clear-db --yes        Delete every record
  buildcrm crm seed                  Load sample data into an empty store

VIZ COMMANDS:
  buildcrm viz graph deps            Table dependency graph (DOT)
  buildcrm viz graph customer <id>   One customer's projects and vendors (DOT)
    --output <file>                  Output file (default: stdout)
  buildcrm viz dashboard             Dashboard counters

EXAMPLES:
  # Run the API on port 9000
  buildcrm serve --port 9000

  # Add a customer and a project
  buildcrm crm add-customer --name "John Smith" --email "john@example.com"
  buildcrm crm add-project --name "Kitchen Remodel" --customer 1 --status in_progress

  # Render the dependency graph
  buildcrm viz graph deps --output deps.dot

`, version)
}
