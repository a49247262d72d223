// Command extract-schedule reads a saved collection-day results page (from
// stdin, a file, or a URL) and prints the extracted collection records as
// JSON.
//
// Usage (stdin):
//
//	cat results.html | extract-schedule
//
// Usage (file):
//
//	extract-schedule -in results.html -pretty
//
// Debug (print outer HTML blocks for a selector):
//
//	cat results.html | extract-schedule -selector "table thead"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"binday/internal/extracthtml"
	"binday/internal/schedule"
)

func main() {
	os.Exit(run(
		context.Background(),
		os.Args[1:],
		os.Stdin,
		os.Stdout,
		os.Stderr,
		http.DefaultClient,
		time.Now,
	))
}

// output is the JSON document printed on success.
type output struct {
	Timezone    string                      `json:"timezone"`
	Count       int                         `json:"count"`
	Collections []schedule.CollectionRecord `json:"collections"`
}

// run is split out from main so the command can be unit tested without
// spawning an OS process.
//
// Exit codes: 0 success, 2 usage/config errors, 1 operational errors.
func run(
	ctx context.Context,
	args []string,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	httpClient *http.Client,
	now func() time.Time,
) int {
	fs := flag.NewFlagSet("extract-schedule", flag.ContinueOnError)
	fs.SetOutput(stderr)

	inFlag := fs.String("in", "", "Optional: read HTML from a file instead of stdin")
	urlFlag := fs.String("url", "", "Optional: fetch HTML from a URL instead of stdin")
	timeout := fs.Duration("timeout", 20*time.Second, "Timeout for -url fetch")
	zoneFlag := fs.String("timezone", schedule.DefaultZone, "Timezone for date parsing and deltas")
	pretty := fs.Bool("pretty", false, "Indent the JSON output")
	onlyText := fs.Bool("text", false, "Debug: print text for -selector matches (not JSON)")
	debugSelector := fs.String("selector", "", "Debug: CSS selector to print matches for (not JSON)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	loader := extracthtml.NewLoader(httpClient, *timeout)

	html, err := loader.Load(ctx, extracthtml.Input{
		URL:   *urlFlag,
		Path:  *inFlag,
		Stdin: stdin,
	})
	if err != nil {
		fmt.Fprintf(stderr, "load html: %v\n", err)
		return 1
	}

	// Debug selector mode prints raw matches instead of records.
	if *debugSelector != "" {
		if err := extracthtml.DebugPrintSelector(stdout, html, *debugSelector, *onlyText); err != nil {
			fmt.Fprintf(stderr, "debug selector: %v\n", err)
			return 1
		}
		return 0
	}

	nowLocal := now().In(schedule.Location(*zoneFlag))
	records, err := schedule.Assemble(html, nowLocal, *zoneFlag)
	if err != nil {
		fmt.Fprintf(stderr, "extract schedule: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(output{
		Timezone:    *zoneFlag,
		Count:       len(records),
		Collections: records,
	}); err != nil {
		fmt.Fprintf(stderr, "encode output: %v\n", err)
		return 1
	}
	return 0
}
