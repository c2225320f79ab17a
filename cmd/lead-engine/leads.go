// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/axiombio/lead-engine/internal/export"
	"github.com/axiombio/lead-engine/internal/store"
	"github.com/axiombio/lead-engine/pkg/types"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Query stored leads (list, export, runs)",
	Long: `Leads queries the local lead database built by scrape. Use subcommands
to list leads with filters and full-text search, export a filtered subset,
or inspect past runs.`,
}

// --- list subcommand ---

var leadsListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List stored leads with filters and full-text search",
	Long: `List shows leads from the most recent run (or a specific run with --run),
ranked as the pipeline ranked them. An optional free-text query searches
names and affiliations.`,
	RunE: runLeadsList,
}

func runLeadsList(cmd *cobra.Command, args []string) error {
	s, err := openLeadStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	leads, err := s.Leads(context.Background(), leadQueryOpts(cmd, args))
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return export.FormatJSON(leads, os.Stdout)
	}
	export.FormatTable(leads, os.Stdout)
	return nil
}

// --- export subcommand ---

var leadsExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export stored leads to a CSV, JSON, or YAML file",
	Long: `Export writes leads from the most recent run (or a specific run with
--run) to the given file. The format is chosen from the file extension.
Supports the same filter flags as list for partial exports.`,
	Args: cobra.ExactArgs(1),
	RunE: runLeadsExport,
}

func runLeadsExport(cmd *cobra.Command, args []string) error {
	s, err := openLeadStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	leads, err := s.Leads(context.Background(), leadQueryOpts(cmd, nil))
	if err != nil {
		return err
	}

	if err := export.WriteFile(args[0], leads); err != nil {
		return err
	}
	fmt.Printf("Exported %d leads to %s\n", len(leads), args[0])
	return nil
}

// --- runs subcommand ---

var leadsRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past pipeline runs",
	RunE:  runLeadsRuns,
}

func runLeadsRuns(cmd *cobra.Command, args []string) error {
	s, err := openLeadStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Runs(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-8s  %-6s  %-7s  %s\n",
		"Run", "Started", "Records", "Leads", "Emails", "Terms")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-8d  %-6d  %-7d  %s\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.RecordsIn, r.Leads,
			r.EmailsFound, strings.Join(r.SearchTerms, ", "))
	}
	return nil
}

// --- shared helpers ---

func openLeadStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir := stringSetting(cmd, "data-dir", "store.data_dir", "data")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = viper.GetInt("store.max_results")
	}
	return store.NewStore(types.StoreConfig{
		DataDir:    dataDir,
		MaxResults: maxResults,
	})
}

func leadQueryOpts(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	runID, _ := cmd.Flags().GetInt64("run")
	minScore, _ := cmd.Flags().GetInt("min-score")
	location, _ := cmd.Flags().GetString("location")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Text:       queryText,
		RunID:      runID,
		MinScore:   minScore,
		Location:   location,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	leadsCmd.PersistentFlags().String("data-dir", "", "base directory for the lead database (default: data)")
	leadsCmd.PersistentFlags().Int64("run", 0, "run ID to query (0 = latest)")
	leadsCmd.PersistentFlags().Int("min-score", 0, "keep only leads scoring at or above this value")
	leadsCmd.PersistentFlags().String("location", "", "filter by location substring")
	leadsCmd.PersistentFlags().Int("max-results", 0, "default maximum query results (0 = store default)")

	// List flags.
	leadsListCmd.Flags().String("query", "", "full-text search over names and affiliations")
	leadsListCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	leadsListCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	leadsExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	leadsExportCmd.Flags().Int("limit", 0, "maximum leads to export (0 = use default)")

	// Wire subcommands.
	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsExportCmd)
	leadsCmd.AddCommand(leadsRunsCmd)

	rootCmd.AddCommand(leadsCmd)
}
