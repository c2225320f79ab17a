// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestFetchConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := fetchConfigFromFlags(scrapeCmd)
	if cfg.UserAgent != defaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, defaultUserAgent)
	}
	if cfg.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
	}
	if cfg.TermDelay != defaultTermDelay {
		t.Errorf("TermDelay = %v, want %v", cfg.TermDelay, defaultTermDelay)
	}
	if cfg.MaxResultsPerTerm != 50 {
		t.Errorf("MaxResultsPerTerm = %d, want 50", cfg.MaxResultsPerTerm)
	}
}

func TestFetchConfigReadsConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("fetch.user_agent", "axiombio-sales/2.0")
	viper.Set("fetch.timeout", "45s")
	viper.Set("fetch.max_results_per_term", 25)

	cfg := fetchConfigFromFlags(scrapeCmd)
	if cfg.UserAgent != "axiombio-sales/2.0" {
		t.Errorf("UserAgent = %q, want configured value", cfg.UserAgent)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.MaxResultsPerTerm != 25 {
		t.Errorf("MaxResultsPerTerm = %d, want 25", cfg.MaxResultsPerTerm)
	}
}
