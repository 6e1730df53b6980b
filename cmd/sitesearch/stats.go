package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/site"
)

func runStats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	origin := fs.String("url", "", "fetch the corpus from this site origin (default site.origin, else site.dir)")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	loader, err := site.NewLoader(cfg, *origin, nil)
	if err != nil {
		return err
	}
	snap, err := site.NewService(loader, cfg.Indexer, nil).Snapshot(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
