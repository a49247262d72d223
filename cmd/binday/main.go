// Command binday runs one full scrape: drive the council's collection-day
// form in a headless browser, extract the schedule table, and upsert the
// result into the configured storage backend.
//
// Configuration comes from the environment (a .env file is honored); see
// internal/config. Bin types the classifier does not recognize still appear
// in the -debug JSON output but are not persisted.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"binday/internal/config"
	"binday/internal/fetch"
	"binday/internal/metrics"
	"binday/internal/metrics/datadog"
	"binday/internal/schedule"
	"binday/internal/storage"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "binday/internal/storage/all"
)

func main() {
	var (
		metricsBackendFlg string
		metricsTagsFlg    string
		timeoutFlg        time.Duration
		debug             bool
		validate          bool
	)

	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (datadog, none)")
	flag.StringVar(&metricsTagsFlg, "tags", "", "extra metrics tags, comma-separated (e.g. env:prod,service:binday)")
	flag.DurationVar(&timeoutFlg, "timeout", 90*time.Second, "overall timeout for the browser fetch")
	flag.BoolVar(&debug, "debug", false, "print the extraction output as JSON")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")

	flag.Parse()

	cfg := config.Load()

	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Field, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid")
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid")
		os.Exit(0)
	}

	ctx := context.Background()

	// Decide metrics backend: flag → env → default.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	if backendName == "datadog" {
		b, err := datadog.NewBackend(ctx, datadog.Options{
			JobName: "binday",
			Tags:    datadog.ParseTagsCSV(metricsTagsFlg),
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Close(); err != nil {
					log.Printf("metrics: close error: %v", err)
				}
			}()
		}
	}

	log.Printf("Starting bin collection scraper")
	log.Printf("  Postcode: %s", cfg.Postcode)
	log.Printf("  Address: %s", cfg.AddressLine)
	log.Printf("  Timezone: %s", cfg.Timezone)
	log.Printf("  Storage: %s", cfg.StorageKind)

	// Fetch the results page.
	fetcher, err := fetch.NewBrowserFetcher(fetch.Config{
		URL:         cfg.URL,
		Postcode:    cfg.Postcode,
		AddressText: cfg.AddressLine,
		Timeout:     timeoutFlg,
	})
	if err != nil {
		fatalf("init browser: %v", err)
	}
	defer fetcher.Close()

	var html string
	err = timedStep("fetch", func() error {
		var err error
		html, err = fetcher.Fetch(ctx)
		return err
	})
	if err != nil {
		fatalf("fetch results page: %v", err)
	}

	// Extract records.
	loc := schedule.Location(cfg.Timezone)
	now := time.Now().In(loc)

	var records []schedule.CollectionRecord
	err = timedStep("extract", func() error {
		var err error
		records, err = schedule.Assemble(html, now, cfg.Timezone)
		return err
	})
	if err != nil {
		fatalf("extract schedule: %v", err)
	}

	classified := 0
	persistable := 0
	for _, rec := range records {
		if len(rec.WasteGroup) > 0 {
			classified++
		}
		if _, ok := schedule.StorageKeyFor(rec.CollectionType); ok {
			persistable++
		}
	}
	metrics.IncCounter(metrics.RecordsTotal, float64(len(records)), metrics.Labels{"kind": "extracted"})
	metrics.IncCounter(metrics.RecordsTotal, float64(classified), metrics.Labels{"kind": "classified"})

	// Persist.
	err = timedStep("store", func() error {
		store, err := storage.New(ctx, storage.Config{
			Kind: cfg.StorageKind,
			DSN:  cfg.StorageDSN,
			Zone: cfg.Timezone,
		})
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		return store.UpsertSchedule(ctx, cfg.AddressLine, records, now)
	})
	if err != nil {
		fatalf("store schedule: %v", err)
	}
	metrics.IncCounter(metrics.RecordsTotal, float64(persistable), metrics.Labels{"kind": "persisted"})

	log.Printf("Processed %d collection types for %s (%d persisted)", len(records), cfg.AddressLine, persistable)

	if debug || os.Getenv("DEBUG") == "true" {
		out := struct {
			Address     string                      `json:"address"`
			Postcode    string                      `json:"postcode"`
			Timezone    string                      `json:"timezone"`
			Collections []schedule.CollectionRecord `json:"collections"`
		}{cfg.AddressLine, cfg.Postcode, cfg.Timezone, records}

		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Printf("debug output: %v", err)
		}
	}
}

// timedStep runs fn and emits step count and duration metrics around it.
func timedStep(step string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := metrics.Labels{"step": step, "status": status}
	metrics.IncCounter(metrics.StepsTotal, 1, labels)
	metrics.ObserveHistogram(metrics.StepDurationSeconds, time.Since(start).Seconds(), labels)
	return err
}

func fatalf(format string, args ...any) {
	log.Printf(format, args...)
	_ = metrics.Flush()
	os.Exit(1)
}
