// Command leadrank reads a JSON batch of raw dealer records on stdin and
// writes ranked leads with a run summary as JSON on stdout. Scraping,
// enrichment and CRM export live in collaborating tools.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coperniq/leadrank/internal/bootstrap"
	"github.com/coperniq/leadrank/internal/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "leadrank: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	comps, err := bootstrap.NewComponents(*configPath, time.Now().UTC())
	if err != nil {
		return err
	}
	defer func() {
		_ = comps.Logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var batch []domain.RawRecord
	if err = json.NewDecoder(os.Stdin).Decode(&batch); err != nil {
		return fmt.Errorf("decode input batch: %w", err)
	}

	result, err := comps.Pipeline.Run(ctx, batch)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err = enc.Encode(result); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
