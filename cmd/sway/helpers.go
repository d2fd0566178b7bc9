package main

import (
	"fmt"

	"sway/internal/config"
	"sway/internal/store"
)

// openStore builds the configured result sink. The CSV backend is the
// default; SQLite is opt-in via config or --store.
func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.Store {
	case "", "csv":
		return store.OpenCSV(cfg.CSVPath())
	case "sqlite":
		return store.OpenSQLite(cfg.DBPath())
	}
	return nil, fmt.Errorf("unknown store backend %q (want csv or sqlite)", cfg.Store)
}
