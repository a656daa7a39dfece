// Command tallyctl is an operator console for the scoring engine. It
// connects to the PostgreSQL backing store, runs migrations, and prints
// standings and certification status for any scope.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/ahrav/go-tally/infrastructure/memstore"
	"github.com/ahrav/go-tally/infrastructure/middleware"
	"github.com/ahrav/go-tally/infrastructure/postgres"
	"github.com/ahrav/go-tally/internal/application"
)

func init() {
	// A missing .env file is fine outside local development; environment
	// variables may already be set by the deployment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}
}

func dsnFromEnv() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"))
}

func main() {
	var (
		migrate    = flag.Bool("migrate", false, "run schema migrations and exit")
		scope      = flag.String("scope", "subcategory", "tabulation scope: subcategory, category, or contest")
		scopeID    = flag.String("id", "", "identifier of the scope to tabulate")
		status     = flag.String("status", "", "print certification status for the given subcategory and exit")
		configPath = flag.String("config", "", "optional engine config file")
	)
	flag.Parse()

	ctx := context.Background()

	store, err := postgres.Open(dsnFromEnv())
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if *migrate {
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		color.Green("Schema is up to date.")
		return
	}

	opts := []application.Option{
		application.WithMetrics(middleware.NewPrometheusMetrics()),
	}
	if *configPath != "" {
		cfg, err := application.LoadEngineConfig(*configPath)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		opts = append(opts, application.WithConfig(cfg))
	}

	// The console only reads, so a static identity provider with no
	// registered actors is sufficient.
	engine, err := application.NewEngine(
		store,
		memstore.NewStaticIdentityProvider(),
		postgres.NewAuditSinkFromStore(store),
		opts...,
	)
	if err != nil {
		log.Fatalf("engine initialization failed: %v", err)
	}

	if *status != "" {
		printStatus(ctx, engine, *status)
		return
	}

	if *scopeID == "" {
		flag.Usage()
		os.Exit(2)
	}
	printStandings(ctx, engine, application.TabulateScope(*scope), *scopeID)
}

func printStatus(ctx context.Context, engine *application.Engine, subcategoryID string) {
	st, err := engine.CertificationStatus(ctx, subcategoryID)
	if err != nil {
		log.Fatalf("status lookup failed: %v", err)
	}

	color.Cyan("\nCertification status for %s", subcategoryID)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Stage", "Certified Judges", "Pending Judges", "Tally", "Final", "Discrepancy"})
	table.Append([]string{
		string(st.Stage),
		strings.Join(st.CertifiedJudges, ", "),
		strings.Join(st.PendingJudges, ", "),
		yesNo(st.TallyVerified),
		yesNo(st.Final),
		string(st.Discrepancy),
	})
	table.Render()
}

func printStandings(ctx context.Context, engine *application.Engine, scope application.TabulateScope, scopeID string) {
	result, err := engine.Tabulate(ctx, application.TabulateRequest{
		Scope:   scope,
		ScopeID: scopeID,
	})
	if err != nil {
		log.Fatalf("tabulation failed: %v", err)
	}

	for _, sub := range result.Subcategories {
		color.Yellow("\nSubcategory %s", sub.SubcategoryID)
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Rank", "Contestant", "Gross", "Deduction", "Net"})
		for _, t := range sub.Totals {
			table.Append([]string{
				fmt.Sprintf("%d", t.Rank),
				t.ContestantID,
				fmt.Sprintf("%.3f", t.Gross),
				fmt.Sprintf("%.3f", t.Deduction),
				fmt.Sprintf("%.3f", t.Net),
			})
		}
		table.Render()
	}

	if result.RollUp != nil {
		color.Cyan("\nOverall standings for %s %s", scope, scopeID)
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Rank", "Contestant", "Net"})
		for _, t := range result.RollUp.Totals {
			table.Append([]string{
				fmt.Sprintf("%d", t.Rank),
				t.ContestantID,
				fmt.Sprintf("%.3f", t.Net),
			})
		}
		table.Render()
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
