// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/axiombio/lead-engine/internal/export"
	"github.com/axiombio/lead-engine/internal/pipeline"
	"github.com/axiombio/lead-engine/internal/pubmed"
	"github.com/axiombio/lead-engine/internal/rules"
	"github.com/axiombio/lead-engine/internal/secrets"
	"github.com/axiombio/lead-engine/internal/store"
	"github.com/axiombio/lead-engine/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultTermDelay = 500 * time.Millisecond
	defaultUserAgent = "lead-engine/0.1"
	defaultRulesFile = "rules.yaml"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch author records from PubMed and build the ranked lead sheet",
	Long: `Scrape searches PubMed for each configured term, flattens the matching
publications into per-author records, runs the normalize/extract/merge/score
pipeline, stores the ranked leads, and exports a CSV sheet.

Search terms come from the rule file unless overridden with --terms.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("terms", "", "comma-separated search terms (overrides the rule file)")
	scrapeCmd.Flags().String("rules", "", "scoring rule file (default: ./rules.yaml if present, else built-in defaults)")
	scrapeCmd.Flags().Int("max-results", 0, "maximum publications per search term (default 50)")
	scrapeCmd.Flags().Duration("term-delay", 0, "pause between search terms (default 500ms)")
	scrapeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	scrapeCmd.Flags().String("data-dir", "", "base directory for the lead database (default: data)")
	scrapeCmd.Flags().String("out", "", "export file path (default: <data-dir>/exports/leads-<date>.csv)")
	scrapeCmd.Flags().String("api-key", "", "NCBI API key (default: ncbi-api-key secret)")
	scrapeCmd.Flags().String("email", "", "contact email sent with requests (default: contact-email secret)")
	scrapeCmd.Flags().Bool("dry-run", false, "print the lead table without storing or exporting")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	rulesPath, _ := cmd.Flags().GetString("rules")
	ruleCfg, err := loadRules(rulesPath)
	if err != nil {
		return err
	}

	terms := ruleCfg.SearchTerms
	if termsFlag, _ := cmd.Flags().GetString("terms"); termsFlag != "" {
		terms = nil
		for _, t := range strings.Split(termsFlag, ",") {
			if t = strings.TrimSpace(t); t != "" {
				terms = append(terms, t)
			}
		}
	}
	if len(terms) == 0 {
		return fmt.Errorf("no search terms: configure search_terms in the rule file or pass --terms")
	}

	fetchCfg := fetchConfigFromFlags(cmd)
	client := &pubmed.Client{
		HTTP: &http.Client{Timeout: fetchCfg.Timeout},
	}

	startedAt := time.Now()
	records, err := client.FetchAll(context.Background(), terms, fetchCfg, os.Stdout)
	if err != nil {
		return err
	}

	leads, summary, err := pipeline.Run(records, ruleCfg, startedAt)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Pipeline: %d records in, %d skipped, %d duplicates merged, %d leads, %d emails found\n",
		summary.RecordsIn, summary.Skipped, summary.DupsMerged, summary.Leads, summary.EmailsFound)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		export.FormatTable(leads, os.Stdout)
		return nil
	}

	dataDir := stringSetting(cmd, "data-dir", "store.data_dir", "data")
	s, err := store.NewStore(types.StoreConfig{
		DataDir:    dataDir,
		MaxResults: viper.GetInt("store.max_results"),
	})
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.SaveRun(context.Background(), startedAt, terms, store.RunSummary{
		RecordsIn:   summary.RecordsIn,
		DupsMerged:  summary.DupsMerged,
		Leads:       summary.Leads,
		EmailsFound: summary.EmailsFound,
	}, leads)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = filepath.Join(dataDir, "exports",
			fmt.Sprintf("leads-%s.csv", startedAt.Format("2006-01-02")))
	}
	if err := export.WriteFile(outPath, leads); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Stored run %d and exported %d leads to %s\n", runID, len(leads), outPath)
	return nil
}

// loadRules loads the scoring rule file. An explicit path must exist; with no
// path the default file is used when present, otherwise built-in defaults.
func loadRules(path string) (*rules.Config, error) {
	if path == "" {
		if cfgPath := viper.GetString("rules_file"); cfgPath != "" {
			path = cfgPath
		} else if _, err := os.Stat(defaultRulesFile); err == nil {
			path = defaultRulesFile
		} else {
			return rules.Defaults(), nil
		}
	}
	return rules.Load(path)
}

func fetchConfigFromFlags(cmd *cobra.Command) types.FetchConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		if timeout = viper.GetDuration("fetch.timeout"); timeout == 0 {
			timeout = defaultTimeout
		}
	}
	termDelay, _ := cmd.Flags().GetDuration("term-delay")
	if termDelay == 0 {
		if termDelay = viper.GetDuration("fetch.term_delay"); termDelay == 0 {
			termDelay = defaultTermDelay
		}
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		if maxResults = viper.GetInt("fetch.max_results_per_term"); maxResults == 0 {
			maxResults = 50
		}
	}
	userAgent := viper.GetString("fetch.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	email, _ := cmd.Flags().GetString("email")

	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		MaxResultsPerTerm: maxResults,
		TermDelay:         termDelay,
		APIKey:            secretDefault(secrets.KeyNCBIAPIKey, apiKey),
		ContactEmail:      secretDefault(secrets.KeyContactEmail, email),
	}
}

// stringSetting resolves a value from flag, then config file, then default.
func stringSetting(cmd *cobra.Command, flag, configKey, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(configKey); v != "" {
		return v
	}
	return fallback
}
