// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axiombio/lead-engine/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the scoring rule file (init, validate, show)",
	Long: `Rules manages the YAML rule file that drives extraction and scoring:
search terms, scoring keywords, role keywords, hub locations, email deny
domains, and scoring weights.`,
}

var rulesInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the built-in default rule file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultRulesFile
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; remove it first or choose another path", path)
		}
		if err := rules.Defaults().WriteFile(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default rules to %s\n", path)
		return nil
	},
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a rule file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultRulesFile
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := rules.Load(path); err != nil {
			return err
		}
		fmt.Printf("%s is valid\n", path)
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Summarize the effective rule configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		cfg, err := loadRules(path)
		if err != nil {
			return err
		}
		fmt.Println(cfg.Summary())
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesInitCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesShowCmd)

	rootCmd.AddCommand(rulesCmd)
}
